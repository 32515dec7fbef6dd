package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloo-solutions/backlogai/internal/domain"
	"github.com/cloo-solutions/backlogai/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WorkItemRepository handles persistence of backlog items and their
// embeddings, and similarity-ranked retrieval over them.
type WorkItemRepository struct {
	db dbtx
}

func NewWorkItemRepository(pool *pgxpool.Pool) *WorkItemRepository {
	return &WorkItemRepository{db: pool}
}

// Insert stores a work item and its embedding as one row write and
// returns the assigned id.
func (r *WorkItemRepository) Insert(ctx context.Context, item *domain.WorkItem) (int64, error) {
	now := time.Now().UTC()
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO work_items (title, detail, item_type, parent_id, embedding, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		item.Title,
		nullableString(item.Description),
		string(item.Type),
		item.ParentID,
		pgvector.NewVector(item.Embedding),
		createdAt,
		createdAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update applies only the provided fields. Embedding recomputation is
// the write path's responsibility; when the update touches title or
// description the caller must have included the fresh embedding.
func (r *WorkItemRepository) Update(ctx context.Context, id int64, update domain.WorkItemUpdate) error {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		appendSet("title", *update.Title)
	}
	if update.Description != nil {
		appendSet("detail", nullableString(*update.Description))
	}
	if update.Type != nil {
		appendSet("item_type", string(*update.Type))
	}
	if update.ParentID != nil {
		appendSet("parent_id", *update.ParentID)
	}
	if update.Embedding != nil {
		appendSet("embedding", pgvector.NewVector(update.Embedding))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE work_items SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrWorkItemNotFound
	}
	return nil
}

// UpdateEmbedding rewrites only the embedding column. Used by reindex.
func (r *WorkItemRepository) UpdateEmbedding(ctx context.Context, id int64, embedding []float32) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE work_items SET embedding = $1, updated_at = $2 WHERE id = $3`,
		pgvector.NewVector(embedding), time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrWorkItemNotFound
	}
	return nil
}

// GetByID fetches a single work item without its embedding.
func (r *WorkItemRepository) GetByID(ctx context.Context, id int64) (*domain.WorkItem, error) {
	var item domain.WorkItem
	var detail *string
	err := r.db.QueryRow(ctx,
		`SELECT id, title, detail, item_type, parent_id, created_at, updated_at
		 FROM work_items WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.Title, &detail, &item.Type, &item.ParentID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkItemNotFound
		}
		return nil, err
	}
	if detail != nil {
		item.Description = *detail
	}
	return &item, nil
}

// ListAll fetches all rows matching the filter, ordered by id for a
// stable tree reconstruction. Embeddings are not loaded.
func (r *WorkItemRepository) ListAll(ctx context.Context, filter service.WorkItemFilter) ([]*domain.WorkItem, error) {
	query := `SELECT id, title, detail, item_type, parent_id, created_at, updated_at FROM work_items`
	var conditions []string
	var args []any

	if filter.Type != "" {
		args = append(args, string(filter.Type))
		conditions = append(conditions, fmt.Sprintf("item_type = $%d", len(args)))
	}
	if filter.TitleContains != "" {
		args = append(args, filter.TitleContains)
		conditions = append(conditions, fmt.Sprintf("title ILIKE '%%' || $%d || '%%'", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkItemRows(rows)
}

// SearchBySimilarity ranks all rows by cosine distance to the query
// vector, ascending, ties broken by ascending id, and returns the
// first k. Similarity is reported as 1 - cosine distance.
func (r *WorkItemRepository) SearchBySimilarity(ctx context.Context, embedding []float32, k int) ([]*domain.RetrievedItem, error) {
	if k <= 0 {
		return nil, domain.ErrInvalidTopK
	}

	vec := pgvector.NewVector(embedding)

	rows, err := r.db.Query(ctx,
		`SELECT id, title, COALESCE(detail, ''), 1 - (embedding <=> $1) AS score
		 FROM work_items
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1 ASC, id ASC
		 LIMIT $2`,
		vec, k,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*domain.RetrievedItem, 0, k)
	for rows.Next() {
		var item domain.RetrievedItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Score); err != nil {
			return nil, err
		}
		results = append(results, &item)
	}
	return results, rows.Err()
}

func scanWorkItemRows(rows pgx.Rows) ([]*domain.WorkItem, error) {
	var results []*domain.WorkItem
	for rows.Next() {
		var item domain.WorkItem
		var detail *string
		if err := rows.Scan(&item.ID, &item.Title, &detail, &item.Type, &item.ParentID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		if detail != nil {
			item.Description = *detail
		}
		results = append(results, &item)
	}
	return results, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
