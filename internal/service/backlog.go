package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cloo-solutions/backlogai/internal/domain"
	"github.com/cloo-solutions/backlogai/internal/telemetry"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// WorkItemFilter narrows backlog listings. Zero value matches everything.
type WorkItemFilter struct {
	Type          domain.WorkItemType
	TitleContains string
}

// BacklogRepository defines the repository interface for work item persistence
type BacklogRepository interface {
	Insert(ctx context.Context, item *domain.WorkItem) (int64, error)
	Update(ctx context.Context, id int64, update domain.WorkItemUpdate) error
	GetByID(ctx context.Context, id int64) (*domain.WorkItem, error)
	ListAll(ctx context.Context, filter WorkItemFilter) ([]*domain.WorkItem, error)
}

// CreateWorkItemInput carries the fields for a new work item.
type CreateWorkItemInput struct {
	Title       string
	Description string
	Type        domain.WorkItemType
	ParentID    int64
}

// UpdateWorkItemInput carries a partial update. Nil fields are left untouched.
type UpdateWorkItemInput struct {
	Title       *string
	Description *string
	Type        *domain.WorkItemType
	ParentID    *int64
}

// BacklogService owns the work item write path and the hierarchy view.
// Each write runs embed-then-persist: the row is never issued to the
// store without a fresh embedding, and an embedding failure aborts the
// write entirely.
type BacklogService struct {
	repo     BacklogRepository
	embedder EmbeddingClient
	timeout  time.Duration
}

func NewBacklogService(repo BacklogRepository, embedder EmbeddingClient) *BacklogService {
	return NewBacklogServiceWithTimeout(repo, embedder, 0)
}

// NewBacklogServiceWithTimeout bounds each outbound embedding call.
// A zero timeout leaves the caller's context deadline in charge.
func NewBacklogServiceWithTimeout(repo BacklogRepository, embedder EmbeddingClient, timeout time.Duration) *BacklogService {
	return &BacklogService{repo: repo, embedder: embedder, timeout: timeout}
}

// Create validates, embeds title+description, then persists the item
// as one atomic row write. Returns the assigned id.
func (s *BacklogService) Create(ctx context.Context, input CreateWorkItemInput) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "BacklogService.Create", telemetry.SpanAttributes{
		Operation: "create",
	})
	defer span.End()

	if input.Title == "" {
		return 0, domain.ErrMissingTitle
	}
	if !domain.IsValidWorkItemType(input.Type) {
		return 0, domain.ErrInvalidWorkItemType
	}

	embedding, err := s.embed(ctx, domain.EmbeddingText(input.Title, input.Description))
	if err != nil {
		span.SetError(err)
		return 0, domain.NewEmbeddingError(err)
	}

	id, err := s.repo.Insert(ctx, &domain.WorkItem{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		ParentID:    input.ParentID,
		Embedding:   embedding,
	})
	if err != nil {
		span.SetError(err)
		return 0, domain.NewPersistenceError(err)
	}
	return id, nil
}

// Update applies a partial update. The embedding is recomputed only
// when the payload touches title or description; the text is the
// merged title+description so the stored vector always matches the
// row it sits on.
func (s *BacklogService) Update(ctx context.Context, id int64, input UpdateWorkItemInput) error {
	ctx, span := telemetry.StartSpan(ctx, "BacklogService.Update", telemetry.SpanAttributes{
		WorkItemID: id,
		Operation:  "update",
	})
	defer span.End()

	if input.Title != nil && *input.Title == "" {
		return domain.ErrMissingTitle
	}
	if input.Type != nil && !domain.IsValidWorkItemType(*input.Type) {
		return domain.ErrInvalidWorkItemType
	}

	update := domain.WorkItemUpdate{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		ParentID:    input.ParentID,
	}

	if update.TouchesText() {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrWorkItemNotFound) {
				return err
			}
			return domain.NewPersistenceError(err)
		}

		title := existing.Title
		if input.Title != nil {
			title = *input.Title
		}
		description := existing.Description
		if input.Description != nil {
			description = *input.Description
		}

		embedding, err := s.embed(ctx, domain.EmbeddingText(title, description))
		if err != nil {
			return domain.NewEmbeddingError(err)
		}
		update.Embedding = embedding
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		if errors.Is(err, domain.ErrWorkItemNotFound) {
			return err
		}
		return domain.NewPersistenceError(err)
	}
	return nil
}

// GetWorkItems returns the backlog as a parent/children tree. Items
// whose parent does not resolve surface as roots. A store failure
// degrades to an empty tree so the view stays renderable.
func (s *BacklogService) GetWorkItems(ctx context.Context, filter WorkItemFilter) []*domain.WorkItemNode {
	items, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		log.Printf("failed to list work items: %v", err)
		return []*domain.WorkItemNode{}
	}
	return domain.BuildTree(items)
}

func (s *BacklogService) embed(ctx context.Context, text string) ([]float32, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.embedder.GenerateEmbedding(ctx, text)
}
