package extractors

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

// creditLine matches caption and credit lines by a fixed vocabulary of
// credit-indicating prefixes.
var creditLine = regexp.MustCompile(
	`(?i)^\s*(image|image credit|photo|photo credit|source|credit|courtesy|image courtesy)[:\-\s]`)

var whitespace = regexp.MustCompile(`\s+`)

// Text returns the collapsed, trimmed text content of a selection.
func Text(s *goquery.Selection) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s.Text(), " "))
}

// ItemID builds a news item ID from the source message ID and the
// item's 1-based position within the document.
func ItemID(messageID string, n int) string {
	return fmt.Sprintf("%s_%d", messageID, n)
}

// IsCreditLine reports whether text looks like an image caption or
// credit line that should be dropped from article bodies.
func IsCreditLine(text string) bool {
	return creditLine.MatchString(text) ||
		strings.HasPrefix(text, "Image:") ||
		strings.HasPrefix(text, "Source:")
}

// GenericItems is the fallback extraction heuristic shared by sender
// formats: scan heading tags and collect following sibling paragraphs
// until the next heading. Used when a sender's primary structural
// marker is absent from the document.
func GenericItems(doc *goquery.Document, messageID string, date time.Time) []domain.NewsItem {
	var items []domain.NewsItem

	doc.Find("h2, h3, strong").Each(func(_ int, header *goquery.Selection) {
		title := Text(header)
		if title == "" {
			return
		}

		var bodyParts []string
		for sibling := header.Next(); sibling.Length() > 0; sibling = sibling.Next() {
			name := goquery.NodeName(sibling)
			if name == "h2" || name == "h3" || name == "strong" {
				break
			}
			if name == "p" || name == "div" {
				if text := Text(sibling); text != "" {
					bodyParts = append(bodyParts, text)
				}
			}
		}

		body := strings.Join(bodyParts, " ")
		if body == "" {
			return
		}

		items = append(items, domain.NewsItem{
			ID:    ItemID(messageID, len(items)+1),
			Title: title,
			Text:  body,
			Date:  date,
		})
	})

	return items
}

// DedupeByTitle removes items whose exact title was already seen
// earlier in the same document.
func DedupeByTitle(items []domain.NewsItem) []domain.NewsItem {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if seen[item.Title] {
			continue
		}
		seen[item.Title] = true
		out = append(out, item)
	}
	return out
}
