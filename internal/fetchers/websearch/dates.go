package websearch

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// URL-embedded date shapes, fastest check first.
var urlDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/(\d{4})/(\d{1,2})/(\d{1,2})(?:/|$)`),
	regexp.MustCompile(`[/_-](\d{4})-(\d{2})-(\d{2})(?:[/_-]|\.|$)`),
	regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`),
}

// dateLayouts are the timestamp formats found in page metadata.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// PublishDate resolves an article's publication date best-effort:
// a date embedded in the URL path, then page metadata, then the
// current day as a last resort. It never fails.
func PublishDate(url, content string, now time.Time) time.Time {
	if d, ok := dateFromURL(url, now); ok {
		return d
	}
	if d, ok := dateFromMetadata(content); ok {
		return d
	}
	return now.UTC().Truncate(24 * time.Hour)
}

// dateFromURL matches date shapes embedded in the URL path. Matches
// are sanity-checked against a plausible year range so numeric IDs do
// not masquerade as dates.
func dateFromURL(url string, now time.Time) (time.Time, bool) {
	for _, pattern := range urlDatePatterns {
		m := pattern.FindStringSubmatch(url)
		if m == nil {
			continue
		}
		d, err := time.Parse("2006-1-2", m[1]+"-"+m[2]+"-"+m[3])
		if err != nil {
			continue
		}
		if d.Year() < 2000 || d.After(now.AddDate(0, 0, 1)) {
			continue
		}
		return d.UTC(), true
	}
	return time.Time{}, false
}

// dateFromMetadata scans HTML content for publication timestamps:
// OpenGraph article:published_time, a datePublished property and the
// first <time datetime> element.
func dateFromMetadata(content string) (time.Time, bool) {
	if !strings.Contains(content, "<") {
		return time.Time{}, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return time.Time{}, false
	}

	candidates := []string{
		doc.Find(`meta[property="article:published_time"]`).AttrOr("content", ""),
		doc.Find(`meta[itemprop="datePublished"]`).AttrOr("content", ""),
		doc.Find(`meta[name="date"]`).AttrOr("content", ""),
		doc.Find("time[datetime]").AttrOr("datetime", ""),
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, candidate); err == nil {
				return d.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
