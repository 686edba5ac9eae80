package driving

import (
	"context"
	"time"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

// NoResultsSentinel is returned by retrieval when nothing matched.
// It is a real value, never an empty string a caller could silently
// swallow.
const NoResultsSentinel = "No relevant documents found in the internal database."

// RetrievalService indexes articles and answers similarity queries.
type RetrievalService interface {
	// IndexArticle embeds an article's title and body and stores them
	// as two chunks tagged with the article date.
	IndexArticle(ctx context.Context, article domain.Article) error

	// Retrieve embeds the query, runs a top-k similarity search
	// restricted to [start, end] when both are non-zero, and returns
	// the reassembled context block. Zero hits yield NoResultsSentinel.
	Retrieve(ctx context.Context, query string, start, end time.Time, k int) (string, error)

	// RagTrigger maps a time scope to its lookback window and runs
	// Retrieve with the default k. This is the contract exposed to the
	// LLM as a tool and to report/podcast generation.
	RagTrigger(ctx context.Context, query string, scope domain.TimeScope) (string, error)
}
