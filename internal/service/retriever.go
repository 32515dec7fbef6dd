package service

import (
	"context"
	"errors"
	"time"

	"github.com/cloo-solutions/backlogai/internal/domain"
)

// DefaultTopK is the number of context items fetched per chat query.
const DefaultTopK = 5

// SimilaritySearcher defines the repository interface for
// similarity-ranked retrieval.
type SimilaritySearcher interface {
	SearchBySimilarity(ctx context.Context, embedding []float32, k int) ([]*domain.RetrievedItem, error)
}

// Retriever produces the retrieval context for a chat query: it embeds
// the query and fetches the top-k most similar stored items. Query
// embeddings are recomputed on every call; nothing is cached.
type Retriever struct {
	embedder EmbeddingClient
	searcher SimilaritySearcher
	timeout  time.Duration
}

func NewRetriever(embedder EmbeddingClient, searcher SimilaritySearcher) *Retriever {
	return NewRetrieverWithTimeout(embedder, searcher, 0)
}

func NewRetrieverWithTimeout(embedder EmbeddingClient, searcher SimilaritySearcher, timeout time.Duration) *Retriever {
	return &Retriever{embedder: embedder, searcher: searcher, timeout: timeout}
}

// Retrieve returns up to k context items ordered by descending
// similarity. An empty store yields an empty list, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]*domain.RetrievedItem, error) {
	if k <= 0 {
		return nil, domain.ErrInvalidTopK
	}

	embedding, err := r.embed(ctx, query)
	if err != nil {
		return nil, domain.NewEmbeddingError(err)
	}

	results, err := r.searcher.SearchBySimilarity(ctx, embedding, k)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewPersistenceError(err)
	}
	return results, nil
}

func (r *Retriever) embed(ctx context.Context, text string) ([]float32, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.embedder.GenerateEmbedding(ctx, text)
}
