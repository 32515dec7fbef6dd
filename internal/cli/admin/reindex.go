package admin

import (
	"context"
	"fmt"
	"log"

	"github.com/cloo-solutions/backlogai/internal/config"
	"github.com/cloo-solutions/backlogai/internal/database"
	"github.com/cloo-solutions/backlogai/internal/openai"
	"github.com/cloo-solutions/backlogai/internal/repository"
	"github.com/cloo-solutions/backlogai/internal/service"
	openaiapi "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

// ReindexCmd returns the reindex command
func ReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild all work item embeddings",
		Long:  "Re-embed every work item from its current title and description. Run after changing the embedding model or dimensions.",
		RunE:  runReindex,
	}
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasOpenAI() {
		return fmt.Errorf("BACKLOG_OPENAI_API_KEY is required")
	}

	pool, err := database.NewPool(ctx, database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	embeddingClient := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingModel:      openaiapi.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	svc := service.NewReindexService(repository.NewWorkItemRepository(pool), embeddingClient)

	processed, err := svc.ReindexAll(ctx)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	log.Printf("reindexed %d work items", processed)
	return nil
}
