package domain

import (
	"crypto/md5" //nolint:gosec // Used for stable content IDs, not security
	"encoding/hex"
	"time"
)

// ArticleSource identifies where an article was scraped from.
type ArticleSource string

const (
	// SourceGmailSender marks articles extracted from a newsletter email.
	SourceGmailSender ArticleSource = "gmail-sender"

	// SourceWebDomain marks articles fetched from a web search over a domain.
	SourceWebDomain ArticleSource = "web-domain"

	// SourceRSSFeed marks articles pulled from an RSS/Atom feed.
	SourceRSSFeed ArticleSource = "rss-feed"
)

// Article is the canonical stored news item.
// Articles are immutable once stored; they are only removed by
// recreating the whole store.
type Article struct {
	// ID is a stable identifier: an md5 hex of the source URL for web
	// articles, or "<messageID>_<n>" for newsletter items.
	ID string

	// Title is the headline.
	Title string

	// Text is the full body text after extraction.
	Text string

	// Date is the publication date (calendar day granularity).
	Date time.Time

	// Source records which pipeline produced this article.
	Source ArticleSource
}

// NewsItem is a single story extracted from a newsletter document.
// It becomes an Article when persisted.
type NewsItem struct {
	ID    string
	Title string
	Text  string
	Date  time.Time
}

// RawMessage is a newsletter email as fetched from the mail source,
// before extraction.
type RawMessage struct {
	// ID is the mail-provider message identifier.
	ID string

	// Sender is the normalised sender address (lowercase, no display name).
	Sender string

	// Date is the message date from the Date header.
	Date time.Time

	// Body is the decoded message body, HTML when available.
	Body string
}

// RawArticle is a web article as returned by the search API,
// before persistence.
type RawArticle struct {
	ID    string
	Title string
	Text  string
	URL   string
	Date  time.Time
}

// URLArticleID derives a deterministic article ID from a canonical URL
// so that re-fetching the same article is idempotent.
func URLArticleID(url string) string {
	sum := md5.Sum([]byte(url)) //nolint:gosec // Stable ID, not a security hash
	return hex.EncodeToString(sum[:])
}

// DateOnly truncates a timestamp to its calendar date in UTC formatted
// as YYYY-MM-DD, the granularity the vector index filters on.
func DateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}
