// Package rss fetches articles from RSS and Atom feeds.
package rss

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
	"github.com/tiagocrz/deNoise/internal/logger"
)

// Fetcher pulls feed entries published within a lookback window.
type Fetcher struct {
	parser *gofeed.Parser
	now    func() time.Time
}

var _ driven.FeedSource = (*Fetcher)(nil)

// New creates a feed fetcher.
func New() *Fetcher {
	return &Fetcher{
		parser: gofeed.NewParser(),
		now:    time.Now,
	}
}

// FetchFeeds parses every feed URL and returns the entries published
// within the lookback window. A feed that fails to parse is logged and
// skipped.
func (f *Fetcher) FetchFeeds(ctx context.Context, feedURLs []string, lookbackDays int) ([]domain.RawArticle, error) {
	if lookbackDays <= 0 {
		lookbackDays = 7
	}
	cutoff := f.now().UTC().AddDate(0, 0, -lookbackDays)

	var articles []domain.RawArticle
	for _, url := range feedURLs {
		feed, err := f.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("rss: parse %s: %v", url, err)
			continue
		}

		kept := 0
		for _, item := range feed.Items {
			article, ok := feedArticle(item, cutoff)
			if !ok {
				continue
			}
			articles = append(articles, article)
			kept++
		}
		logger.Debug("rss: %s kept %d of %d entries", url, kept, len(feed.Items))
	}

	logger.Info("rss: fetched %d articles from %d feeds", len(articles), len(feedURLs))
	return articles, nil
}

// feedArticle converts one feed entry, rejecting entries without a
// usable link, title or an in-window publish date.
func feedArticle(item *gofeed.Item, cutoff time.Time) (domain.RawArticle, bool) {
	if item.Link == "" || strings.TrimSpace(item.Title) == "" {
		return domain.RawArticle{}, false
	}

	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}
	if published == nil || published.UTC().Before(cutoff) {
		return domain.RawArticle{}, false
	}

	text := strings.TrimSpace(item.Content)
	if text == "" {
		text = strings.TrimSpace(item.Description)
	}
	if text == "" {
		return domain.RawArticle{}, false
	}

	return domain.RawArticle{
		ID:    domain.URLArticleID(item.Link),
		Title: strings.TrimSpace(item.Title),
		Text:  text,
		URL:   item.Link,
		Date:  published.UTC(),
	}, true
}
