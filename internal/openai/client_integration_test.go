//go:build integration

package openai

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_GenerateEmbedding_RealAPI(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping integration test")
	}

	// ada-002 returns 1536-dim vectors; configure the client to match.
	client := NewClientWithConfig(Config{APIKey: apiKey, EmbeddingDimensions: 1536})
	ctx := context.Background()
	text := "User story describing the password reset flow."

	embedding, err := client.GenerateEmbedding(ctx, text)

	require.NoError(t, err)
	assert.Len(t, embedding, 1536)
}
