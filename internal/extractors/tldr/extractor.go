// Package tldr extracts stories from TLDR newsletter emails.
package tldr

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/extractors"
)

// Sender is the newsletter's sending address.
const Sender = "dan@tldrnewsletter.com"

// Extractor parses the TLDR newsletter layout: one story per
// div.text-block, the title bolded, the body in plain spans. Sponsored
// stories are dropped and reading-time suffixes are cut from titles,
// on the fallback path too.
type Extractor struct{}

var _ extractors.Extractor = (*Extractor)(nil)

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Sender() string { return Sender }

func (e *Extractor) Extract(doc *goquery.Document, messageID string, date time.Time) []domain.NewsItem {
	blocks := doc.Find("div.text-block")
	if blocks.Length() == 0 {
		return clean(extractors.GenericItems(doc, messageID, date), messageID)
	}

	var items []domain.NewsItem
	blocks.Each(func(_ int, block *goquery.Selection) {
		title := extractors.Text(block.Find("strong").First())
		if title == "" {
			return
		}

		var bodyParts []string
		block.Find("span").Each(func(_ int, span *goquery.Selection) {
			text := extractors.Text(span)
			if text != "" && text != title {
				bodyParts = append(bodyParts, text)
			}
		})

		items = append(items, domain.NewsItem{
			Title: title,
			Text:  strings.Join(bodyParts, " "),
			Date:  date,
		})
	})

	return clean(items, messageID)
}

// clean filters and normalises extracted stories: sponsored entries
// are dropped, reading-time titles are split, and the survivors are
// renumbered.
func clean(items []domain.NewsItem, messageID string) []domain.NewsItem {
	var out []domain.NewsItem
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if strings.HasSuffix(title, "(Sponsor)") {
			continue
		}

		title, body := splitMinuteRead(title, item.Text)
		if title == "" || body == "" {
			continue
		}

		item.ID = extractors.ItemID(messageID, len(out)+1)
		item.Title = title
		item.Text = body
		out = append(out, item)
	}
	return out
}

// splitMinuteRead handles the "Headline (N minute read)" title format:
// the reading-time parenthetical is cut from the title, and a body
// that repeats the full original title has that prefix removed.
func splitMinuteRead(title, body string) (string, string) {
	if !strings.Contains(title, "(") || !strings.Contains(title, "minute read") {
		return title, body
	}
	trimmed := strings.TrimSpace(title[:strings.LastIndex(title, "(")])
	body = strings.TrimSpace(strings.TrimPrefix(body, title))
	return trimmed, body
}
