package driven

import (
	"context"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

// ArticleStore persists raw articles keyed by ID.
// Articles are immutable once stored; the only way to remove them is
// Reset, which recreates the whole container.
type ArticleStore interface {
	// Upsert stores an article, replacing any previous version with
	// the same ID.
	Upsert(ctx context.Context, article domain.Article) error

	// Get retrieves an article by ID.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Article, error)

	// List returns all stored articles.
	List(ctx context.Context) ([]domain.Article, error)

	// Reset removes all articles (full-container recreation).
	Reset(ctx context.Context) error
}
