// Package extractors turns raw newsletter HTML into structured news items.
//
// Each newsletter sender has its own extractor keyed by sender address.
// Extractors are format-specific and order-sensitive: they walk the
// document tree looking for sender-specific structural markers and fall
// back to a generic heading heuristic when the primary marker is absent.
// Extraction never fails - malformed HTML degrades to the fallback or to
// an empty result.
package extractors

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

// Extractor parses one sender's newsletter format.
type Extractor interface {
	// Sender returns the normalised sender address this extractor handles.
	Sender() string

	// Extract walks the parsed document and returns the news items it
	// contains. It must not fail: structural absence of expected tags
	// degrades to a fallback or yields an empty slice.
	Extract(doc *goquery.Document, messageID string, date time.Time) []domain.NewsItem
}

// Registry dispatches raw messages to the extractor for their sender.
// New senders are supported by registering a new variant, not by
// growing a conditional chain.
type Registry struct {
	bySender map[string]Extractor
}

// NewRegistry creates a registry with the given extractors.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{bySender: make(map[string]Extractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor, replacing any previous one for the same sender.
func (r *Registry) Register(e Extractor) {
	r.bySender[strings.ToLower(strings.TrimSpace(e.Sender()))] = e
}

// ForSender returns the extractor for a normalised sender address.
func (r *Registry) ForSender(sender string) (Extractor, bool) {
	e, ok := r.bySender[strings.ToLower(strings.TrimSpace(sender))]
	return e, ok
}

// Senders returns the addresses with a registered extractor.
// The order is unspecified.
func (r *Registry) Senders() []string {
	out := make([]string, 0, len(r.bySender))
	for s := range r.bySender {
		out = append(out, s)
	}
	return out
}
