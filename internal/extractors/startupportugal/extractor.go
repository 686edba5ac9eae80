// Package startupportugal extracts stories from the Startup Portugal
// newsletter. Stories live in the tables between the "ecosystem
// stream" marker and the "shameless self promotion" footer, one or two
// content cells per story.
package startupportugal

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/extractors"
)

// Sender is the newsletter's sending address.
const Sender = "contact@startupportugal.com"

const (
	startMarker = "ecosystem stream"
	stopMarker  = "shameless self promotion"
)

type Extractor struct{}

var _ extractors.Extractor = (*Extractor)(nil)

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Sender() string { return Sender }

func (e *Extractor) Extract(doc *goquery.Document, messageID string, date time.Time) []domain.NewsItem {
	// Without the stream marker there is no story section to walk;
	// the issue has nothing to extract.
	start := streamTable(doc)
	if start == nil {
		return nil
	}

	var items []domain.NewsItem
	pendingTitle := ""
	stopped := false

	// Walk the tables that follow the stream marker in document order.
	tables := doc.Find("table")
	started := false
	tables.Each(func(i int, table *goquery.Selection) {
		if stopped {
			return
		}
		if !started {
			if len(table.Nodes) > 0 && table.Nodes[0] == start.Nodes[0] {
				started = true
			}
			return
		}

		whole := strings.ToLower(extractors.Text(table))
		if strings.Contains(whole, stopMarker) {
			stopped = true
			return
		}

		table.Find("td.mcnTextContent").Each(func(_ int, cell *goquery.Selection) {
			if stopped {
				return
			}
			text := extractors.Text(cell)
			if strings.Contains(strings.ToLower(text), stopMarker) {
				stopped = true
				return
			}
			if wordCount(text) < 5 {
				return
			}

			title := cellTitle(cell)
			if title == "" {
				title = pendingTitle
			}
			body := strings.TrimSpace(strings.Replace(text, title, "", 1))

			if wordCount(body) <= 5 {
				// A cell holding only a headline; the body arrives in
				// the next cell.
				if title != "" {
					pendingTitle = title
				}
				return
			}
			if title == "" {
				return
			}

			if url := readMoreURL(cell); url != "" {
				body += " Read more: " + url
			}

			items = append(items, domain.NewsItem{
				ID:    extractors.ItemID(messageID, len(items)+1),
				Title: title,
				Text:  body,
				Date:  date,
			})
			pendingTitle = ""
		})
	})

	return extractors.DedupeByTitle(items)
}

// streamTable locates the table containing the "ecosystem stream"
// marker, the anchor the story tables follow.
func streamTable(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("span, strong, p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(extractors.Text(sel)), startMarker) {
			return true
		}
		parent := sel.Closest("table")
		if parent.Length() == 0 {
			return true
		}
		found = parent
		return false
	})
	if found == nil {
		return nil
	}
	return found
}

// cellTitle takes the story title from the cell's first link,
// preferring bolded text inside it.
func cellTitle(cell *goquery.Selection) string {
	link := cell.Find("a").First()
	if link.Length() == 0 {
		return ""
	}
	if bold := extractors.Text(link.Find("strong").First()); bold != "" {
		return bold
	}
	return extractors.Text(link)
}

// readMoreURL returns the href of the first link whose text reads like
// a call to action.
func readMoreURL(cell *goquery.Selection) string {
	url := ""
	cell.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		text := strings.ToLower(extractors.Text(link))
		for _, marker := range []string{"read", "more", "here", "learn", "apply"} {
			if strings.Contains(text, marker) {
				url, _ = link.Attr("href")
				return false
			}
		}
		return true
	})
	return url
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
