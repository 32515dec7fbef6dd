//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/cloo-solutions/backlogai/internal/domain"
	"github.com/cloo-solutions/backlogai/internal/pagination"
	"github.com/cloo-solutions/backlogai/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatLogRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChatLogRepository(pool)

	id, err := repo.CreateChatLog(ctx, domain.ChatLog{
		Question:   "What is the login epic about?",
		Answer:     "It covers email sign-in.",
		ItemIDs:    []int64{1, 2},
		DurationMs: 420,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	page, err := repo.ListChatLogs(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, id, page.Items[0].ID)
	assert.Equal(t, "What is the login epic about?", page.Items[0].Question)
	assert.Equal(t, []int64{1, 2}, page.Items[0].ItemIDs)
	assert.False(t, page.HasMore)
}

func TestChatLogRepository_ListChatLogs_Pagination(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChatLogRepository(pool)

	for i := 0; i < 5; i++ {
		_, err := repo.CreateChatLog(ctx, domain.ChatLog{
			Question: "question",
			Answer:   "answer",
		})
		require.NoError(t, err)
	}

	first, err := repo.ListChatLogs(ctx, nil, 3)
	require.NoError(t, err)
	assert.Len(t, first.Items, 3)
	assert.True(t, first.HasMore)
	require.NotEmpty(t, first.Cursor)

	cursor, err := pagination.DecodeCursor(first.Cursor)
	require.NoError(t, err)

	second, err := repo.ListChatLogs(ctx, cursor, 3)
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.False(t, second.HasMore)

	seen := map[string]bool{}
	for _, entry := range append(first.Items, second.Items...) {
		assert.False(t, seen[entry.ID])
		seen[entry.ID] = true
	}
}
