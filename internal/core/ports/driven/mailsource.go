package driven

import (
	"context"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

// MailSource fetches newsletter emails from a mailbox.
//
// The implementation queries by label and date, filters by a sender
// allowlist and decodes MIME bodies preferring HTML over plain text.
type MailSource interface {
	// FetchNewsletters returns messages from allowlisted senders
	// received within the trailing lookback window. The upstream date
	// query is advisory; implementations re-validate each message date
	// against the window. Per-message failures are logged and skipped.
	FetchNewsletters(ctx context.Context, senders []string, lookbackDays int) ([]domain.RawMessage, error)
}
