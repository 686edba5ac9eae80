package rss

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

func TestFeedArticle(t *testing.T) {
	cutoff := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)
	stale := time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)

	t.Run("keeps an in-window entry", func(t *testing.T) {
		article, ok := feedArticle(&gofeed.Item{
			Title:           " Funding news ",
			Link:            "https://example.com/funding",
			Description:     "A fund was announced.",
			PublishedParsed: &recent,
		}, cutoff)

		require.True(t, ok)
		assert.Equal(t, domain.URLArticleID("https://example.com/funding"), article.ID)
		assert.Equal(t, "Funding news", article.Title)
		assert.Equal(t, "A fund was announced.", article.Text)
		assert.Equal(t, recent, article.Date)
	})

	t.Run("prefers full content over description", func(t *testing.T) {
		article, ok := feedArticle(&gofeed.Item{
			Title:           "Story",
			Link:            "https://example.com/story",
			Description:     "short",
			Content:         "The full article body.",
			PublishedParsed: &recent,
		}, cutoff)

		require.True(t, ok)
		assert.Equal(t, "The full article body.", article.Text)
	})

	t.Run("falls back to the updated date", func(t *testing.T) {
		_, ok := feedArticle(&gofeed.Item{
			Title:         "Story",
			Link:          "https://example.com/story",
			Description:   "body",
			UpdatedParsed: &recent,
		}, cutoff)

		assert.True(t, ok)
	})

	t.Run("drops stale entries", func(t *testing.T) {
		_, ok := feedArticle(&gofeed.Item{
			Title:           "Old story",
			Link:            "https://example.com/old",
			Description:     "body",
			PublishedParsed: &stale,
		}, cutoff)

		assert.False(t, ok)
	})

	t.Run("drops entries missing link, title, date or body", func(t *testing.T) {
		_, ok := feedArticle(&gofeed.Item{Title: "t", Description: "d", PublishedParsed: &recent}, cutoff)
		assert.False(t, ok)

		_, ok = feedArticle(&gofeed.Item{Link: "https://x", Description: "d", PublishedParsed: &recent}, cutoff)
		assert.False(t, ok)

		_, ok = feedArticle(&gofeed.Item{Title: "t", Link: "https://x", Description: "d"}, cutoff)
		assert.False(t, ok)

		_, ok = feedArticle(&gofeed.Item{Title: "t", Link: "https://x", PublishedParsed: &recent}, cutoff)
		assert.False(t, ok)
	})
}
