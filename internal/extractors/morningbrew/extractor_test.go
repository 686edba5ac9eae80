package morningbrew

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtract(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("standard story titled by h1.story-title", func(t *testing.T) {
		doc := parse(t, `
			<h3>Tech</h3>
			<table class="story-content-container"><tr><td>
				<h1 class="story-title">Chipmaker beats estimates</h1>
			</td></tr><tr><td class="story-content">
				<p>Quarterly revenue rose 40%.</p>
				<li>Guidance was raised.</li>
			</td></tr></table>`)

		items := New().Extract(doc, "msg1", date)

		require.Len(t, items, 1)
		assert.Equal(t, "Chipmaker beats estimates", items[0].Title)
		assert.Equal(t, "Quarterly revenue rose 40%. • Guidance was raised.", items[0].Text)
		assert.Equal(t, "msg1_1", items[0].ID)
	})

	t.Run("falls back to h2 title for older layouts", func(t *testing.T) {
		doc := parse(t, `
			<table class="story-content-container"><tr><td class="story-content">
				<h2>Old layout headline</h2>
				<p>Body text.</p>
			</td></tr></table>`)

		items := New().Extract(doc, "msg1", date)

		require.Len(t, items, 1)
		assert.Equal(t, "Old layout headline", items[0].Title)
	})

	t.Run("joins a bolded paragraph lead with an em dash", func(t *testing.T) {
		doc := parse(t, `
			<table class="story-content-container"><tr><td class="story-content">
				<h1 class="story-title">Story</h1>
				<p><strong>The big picture:</strong> rates stayed flat.</p>
			</td></tr></table>`)

		items := New().Extract(doc, "msg1", date)

		require.Len(t, items, 1)
		assert.Equal(t, "The big picture: — rates stayed flat.", items[0].Text)
	})

	t.Run("drops credit lines and sponsor furniture", func(t *testing.T) {
		doc := parse(t, `
			<table class="story-content-container"><tr><td class="story-content">
				<h1 class="story-title">Story</h1>
				<p>Image credit: Getty</p>
				<p class="source">AP</p>
				<p>Real body text.</p>
			</td></tr></table>`)

		items := New().Extract(doc, "msg1", date)

		require.Len(t, items, 1)
		assert.Equal(t, "Real body text.", items[0].Text)
	})

	t.Run("synthesises a markets item", func(t *testing.T) {
		doc := parse(t, `
			<ul><li><strong>Markets:</strong> Stocks closed higher on Friday.</li></ul>
			<table class="story-content-container"><tr><td class="story-content">
				<h1 class="story-title">Story</h1><p>Body.</p>
			</td></tr></table>`)

		items := New().Extract(doc, "msg1", date)

		require.Len(t, items, 2)
		assert.Equal(t, "Stock markets March 10, 2025", items[0].Title)
		assert.Equal(t, "Stocks closed higher on Friday.", items[0].Text)
	})

	t.Run("splits tour de headlines into per-paragraph items", func(t *testing.T) {
		doc := parse(t, `
			<h3>World</h3>
			<table class="story-content-container"><tr><td>
				<h1 class="story-title">Tour de headlines</h1>
			</td></tr><tr><td class="content-container">
				<p><strong>Elections called.</strong> Voters head to the polls in May.</p>
				<p><strong>Storm hits coast:</strong> Thousands evacuated overnight.</p>
			</td></tr></table>`)

		items := New().Extract(doc, "msg1", date)

		require.Len(t, items, 2)
		assert.Equal(t, "Elections called", items[0].Title)
		assert.Equal(t, "Voters head to the polls in May.", items[0].Text)
		assert.Equal(t, "Storm hits coast", items[1].Title)
		assert.Equal(t, "Thousands evacuated overnight.", items[1].Text)
	})

	t.Run("tour de headlines needs the world section", func(t *testing.T) {
		doc := parse(t, `
			<h3>Tech</h3>
			<table class="story-content-container"><tr><td>
				<h1 class="story-title">Tour de headlines</h1>
			</td></tr><tr><td class="story-content">
				<p>Body paragraph.</p>
			</td></tr></table>`)

		items := New().Extract(doc, "msg1", date)

		require.Len(t, items, 1)
		assert.Equal(t, "Tour de headlines", items[0].Title)
		assert.Equal(t, "Body paragraph.", items[0].Text)
	})

	t.Run("what else is brewing keys off the story title", func(t *testing.T) {
		doc := parse(t, `
			<h3>Grab bag</h3>
			<table class="story-content-container"><tr><td>
				<h1 class="story-title">What else is brewing</h1>
			</td></tr><tr><td class="content-container">
				<ul><li>Startup raises $10M.</li><li>CEO steps down.</li></ul>
			</td></tr></table>`)

		items := New().Extract(doc, "msg1", date)

		require.Len(t, items, 2)
		assert.Equal(t, items[0].Title, items[0].Text)
		assert.Equal(t, "Startup raises $10M.", items[0].Title)
		assert.Equal(t, "CEO steps down.", items[1].Title)
	})

	t.Run("falls back to heading scan without story tables", func(t *testing.T) {
		doc := parse(t, `<h2>Plain headline</h2><p>Plain body.</p>`)

		items := New().Extract(doc, "msg1", date)

		require.Len(t, items, 1)
		assert.Equal(t, "Plain headline", items[0].Title)
	})
}

func TestSender(t *testing.T) {
	assert.Equal(t, "crew@morningbrew.com", New().Sender())
}
