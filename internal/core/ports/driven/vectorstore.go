package driven

import (
	"context"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

// VectorStore stores chunk embeddings with their metadata and performs
// similarity search with optional date pre-filtering.
type VectorStore interface {
	// Add inserts a chunk with its embedding and metadata.
	Add(ctx context.Context, chunk domain.Chunk) error

	// Search finds the k nearest chunks to the query vector by cosine
	// similarity. When dates is non-empty the candidate set is
	// restricted to chunks whose date exactly matches one of the given
	// YYYY-MM-DD values (a logical OR over per-day equality); when
	// empty the search is unrestricted.
	Search(ctx context.Context, query []float32, k int, dates []string) ([]domain.ChunkHit, error)

	// ChunksByArticle returns every chunk stored for an article, so a
	// body-only hit can still surface its title and vice versa.
	ChunksByArticle(ctx context.Context, articleID string) ([]domain.Chunk, error)

	// Reset removes all chunks (full-container recreation).
	Reset(ctx context.Context) error
}
