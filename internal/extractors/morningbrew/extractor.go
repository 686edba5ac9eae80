// Package morningbrew extracts stories from Morning Brew newsletter
// emails. The layout has one table.story-content-container per story,
// titled by an h1.story-title and preceded by an h3 section heading;
// a few stories (markets, tour de headlines, what else is brewing) use
// bespoke layouts handled separately.
package morningbrew

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/extractors"
)

// Sender is the newsletter's sending address.
const Sender = "crew@morningbrew.com"

var leadingMarkets = regexp.MustCompile(`(?i)^\s*markets:?\s*`)

type Extractor struct{}

var _ extractors.Extractor = (*Extractor)(nil)

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Sender() string { return Sender }

func (e *Extractor) Extract(doc *goquery.Document, messageID string, date time.Time) []domain.NewsItem {
	stories := doc.Find("table.story-content-container")
	if stories.Length() == 0 {
		return extractors.GenericItems(doc, messageID, date)
	}

	var items []domain.NewsItem
	add := func(title, text string) {
		if title == "" || text == "" {
			return
		}
		items = append(items, domain.NewsItem{
			ID:    extractors.ItemID(messageID, len(items)+1),
			Title: title,
			Text:  text,
			Date:  date,
		})
	}

	if item, ok := marketsItem(doc, date); ok {
		add(item.Title, item.Text)
	}

	// Walk headings and story tables in document order so each story
	// picks up the section heading that precedes it. The special cases
	// key off the story title, not the section.
	section := ""
	doc.Find("h3, table.story-content-container").Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "h3" {
			section = strings.ToLower(extractors.Text(sel))
			return
		}

		title := storyTitle(sel)

		switch {
		case section == "world" && strings.Contains(strings.ToLower(title), "tour de"):
			for _, item := range tourDeHeadlines(sel) {
				add(item.Title, item.Text)
			}
		case strings.Contains(strings.ToLower(title), "what else is brewing"):
			for _, item := range brewingItems(sel) {
				add(item.Title, item.Text)
			}
		default:
			add(title, storyBody(sel))
		}
	})

	return items
}

// storyTitle reads the story headline from h1.story-title, falling
// back to the first h2/h3 for older issue layouts.
func storyTitle(story *goquery.Selection) string {
	if title := extractors.Text(story.Find("h1.story-title").First()); title != "" {
		return title
	}
	return extractors.Text(story.Find("h2, h3").First())
}

// marketsItem synthesises a single item from the markets summary list:
// the first li whose bolded lead mentions markets.
func marketsItem(doc *goquery.Document, date time.Time) (domain.NewsItem, bool) {
	var item domain.NewsItem
	found := false

	doc.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		lead := strings.ToLower(extractors.Text(li.Find("strong").First()))
		if !strings.Contains(lead, "markets") {
			return true
		}
		text := leadingMarkets.ReplaceAllString(extractors.Text(li), "")
		if text == "" {
			return true
		}
		item = domain.NewsItem{
			Title: "Stock markets " + date.Format("January 02, 2006"),
			Text:  text,
			Date:  date,
		}
		found = true
		return false
	})

	return item, found
}

// tourDeHeadlines splits the headlines digest into one item per
// paragraph, with the bolded lead as the title.
func tourDeHeadlines(story *goquery.Selection) []domain.NewsItem {
	var items []domain.NewsItem
	story.Find("td.content-container p").Each(func(_ int, p *goquery.Selection) {
		p = p.Clone()
		lead := p.Find("strong").First()
		title := strings.TrimRight(extractors.Text(lead), ".:")
		if title == "" {
			return
		}
		lead.Remove()
		text := extractors.Text(p)
		if text == "" || strings.HasPrefix(text, "Image:") {
			return
		}
		items = append(items, domain.NewsItem{Title: title, Text: text})
	})
	return items
}

// brewingItems turns each list entry of the link roundup into an item
// whose title and text are the same line.
func brewingItems(story *goquery.Selection) []domain.NewsItem {
	var items []domain.NewsItem
	story.Find("td.content-container li").Each(func(_ int, li *goquery.Selection) {
		li = li.Clone()
		li.Find("img, figcaption, small, footer").Remove()
		text := extractors.Text(li)
		if text == "" || extractors.IsCreditLine(text) {
			return
		}
		items = append(items, domain.NewsItem{Title: text, Text: text})
	})
	return items
}

// storyBody extracts a regular story's body: h2/h3 subtitles,
// paragraphs and list entries under td.story-content joined into one
// string, with image credits and sponsor furniture removed. A bolded
// paragraph lead is kept ahead of the rest of its paragraph.
func storyBody(story *goquery.Selection) string {
	content := story.Find("td.story-content").First()
	if content.Length() == 0 {
		return ""
	}
	content = content.Clone()
	content.Find("img, figcaption, small, footer").Remove()

	var parts []string
	content.Find("h2, h3, p, li").Each(func(_ int, el *goquery.Selection) {
		if hasClass(el, "source") || hasClass(el, "sponsored-header-image") {
			return
		}

		text := extractors.Text(el)
		if text == "" || extractors.IsCreditLine(text) {
			return
		}

		switch goquery.NodeName(el) {
		case "h2", "h3":
			parts = append(parts, text)
		case "li":
			parts = append(parts, "• "+bodyText(el))
		default:
			parts = append(parts, bodyText(el))
		}
	})

	return strings.TrimSpace(strings.Join(parts, " "))
}

// bodyText renders a paragraph or list entry, separating a leading
// bolded phrase from the rest with an em dash as the source layout
// intends.
func bodyText(el *goquery.Selection) string {
	el = el.Clone()
	lead := el.Find("strong, b").First()
	leadText := extractors.Text(lead)
	lead.Remove()
	text := extractors.Text(el)

	if leadText == "" {
		return text
	}
	if text == "" {
		return leadText
	}
	return leadText + " — " + text
}

func hasClass(el *goquery.Selection, name string) bool {
	class, _ := el.Attr("class")
	for _, c := range strings.Fields(class) {
		if c == name {
			return true
		}
	}
	return false
}
