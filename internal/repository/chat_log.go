package repository

import (
	"context"

	"github.com/cloo-solutions/backlogai/internal/domain"
	"github.com/cloo-solutions/backlogai/internal/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatLogRepository stores completed chat turns for evaluation.
type ChatLogRepository struct {
	pool *pgxpool.Pool
}

func NewChatLogRepository(pool *pgxpool.Pool) *ChatLogRepository {
	return &ChatLogRepository{pool: pool}
}

// CreateChatLog records one chat turn and returns its id.
func (r *ChatLogRepository) CreateChatLog(ctx context.Context, entry domain.ChatLog) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO chat_logs (question, answer, item_ids, duration_ms)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		entry.Question,
		entry.Answer,
		entry.ItemIDs,
		entry.DurationMs,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListChatLogs pages through chat logs, newest first.
func (r *ChatLogRepository) ListChatLogs(ctx context.Context, cursor *pagination.Cursor, limit int) (*pagination.PageResult[*domain.ChatLog], error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.pool.Query(ctx,
			`SELECT id, question, answer, item_ids, duration_ms, created_at
			 FROM chat_logs
			 WHERE (created_at, id) < ($1, $2)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT id, question, answer, item_ids, duration_ms, created_at
			 FROM chat_logs
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.ChatLog
	for rows.Next() {
		var entry domain.ChatLog
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Answer, &entry.ItemIDs, &entry.DurationMs, &entry.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(last.ID, last.CreatedAt)
	}

	return &pagination.PageResult[*domain.ChatLog]{
		Items:   items,
		Cursor:  nextCursor,
		HasMore: hasMore,
	}, nil
}
