package service

import (
	"context"
	"fmt"
	"log"

	"github.com/cloo-solutions/backlogai/internal/domain"
)

// ReindexRepository defines the repository interface for embedding rebuilds
type ReindexRepository interface {
	ListAll(ctx context.Context, filter WorkItemFilter) ([]*domain.WorkItem, error)
	UpdateEmbedding(ctx context.Context, id int64, embedding []float32) error
}

// ReindexService rebuilds every work item embedding from its current
// title and description. Used after changing the embedding model or
// dimension configuration.
type ReindexService struct {
	repo     ReindexRepository
	embedder EmbeddingClient
}

func NewReindexService(repo ReindexRepository, embedder EmbeddingClient) *ReindexService {
	return &ReindexService{repo: repo, embedder: embedder}
}

// ReindexAll re-embeds all items one at a time. Per-item failures are
// logged and skipped; the count of rewritten embeddings is returned.
func (s *ReindexService) ReindexAll(ctx context.Context) (int, error) {
	items, err := s.repo.ListAll(ctx, WorkItemFilter{})
	if err != nil {
		return 0, domain.NewPersistenceError(err)
	}

	processed := 0
	for _, item := range items {
		if err := s.reindexItem(ctx, item); err != nil {
			log.Printf("failed to reindex work item %d: %v", item.ID, err)
			continue
		}
		processed++
	}
	return processed, nil
}

func (s *ReindexService) reindexItem(ctx context.Context, item *domain.WorkItem) error {
	embedding, err := s.embedder.GenerateEmbedding(ctx, domain.EmbeddingText(item.Title, item.Description))
	if err != nil {
		return fmt.Errorf("failed to generate embedding: %w", err)
	}
	if err := s.repo.UpdateEmbedding(ctx, item.ID, embedding); err != nil {
		return fmt.Errorf("failed to update embedding: %w", err)
	}
	return nil
}
