package driven

import (
	"context"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

// ArticleSearch fetches recent web articles through a search API.
type ArticleSearch interface {
	// FetchRecent issues one time-windowed search per allowlisted
	// domain and returns the articles found, capped per domain.
	// Publish dates are resolved best-effort and never fail the fetch;
	// per-domain failures skip that domain.
	FetchRecent(ctx context.Context, domains []string, lookbackDays int) ([]domain.RawArticle, error)

	// ScrapeURL fetches and summarises a single external URL in real
	// time, guided by the user's prompt. Exposed to the LLM as a tool.
	ScrapeURL(ctx context.Context, url, prompt string) (string, error)
}

// FeedSource fetches articles from RSS/Atom feeds.
type FeedSource interface {
	// FetchFeeds pulls every configured feed and returns entries
	// published within the lookback window. Per-feed failures are
	// logged and skipped.
	FetchFeeds(ctx context.Context, feedURLs []string, lookbackDays int) ([]domain.RawArticle, error)
}
