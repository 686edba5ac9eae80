// Package gmail fetches newsletter emails through the Gmail API.
package gmail

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
	"github.com/tiagocrz/deNoise/internal/fetchers"
	"github.com/tiagocrz/deNoise/internal/logger"
)

const (
	defaultLabel    = "Newsletters"
	defaultPageSize = 100
)

// Fetcher pulls newsletter emails from a Gmail mailbox.
type Fetcher struct {
	svc      *gmail.Service
	limiter  *fetchers.RateLimiter
	label    string
	pageSize int64
	now      func() time.Time
}

var _ driven.MailSource = (*Fetcher)(nil)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLabel overrides the mailbox label the fetcher queries.
func WithLabel(label string) Option {
	return func(f *Fetcher) {
		if label != "" {
			f.label = label
		}
	}
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// New creates a Gmail fetcher authenticated by the given token source.
func New(ctx context.Context, ts oauth2.TokenSource, opts ...Option) (*Fetcher, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return NewWithService(svc, opts...), nil
}

// NewWithService creates a fetcher around an existing Gmail service.
func NewWithService(svc *gmail.Service, opts ...Option) *Fetcher {
	f := &Fetcher{
		svc: svc,
		// Conservative for quota units.
		limiter:  fetchers.NewRateLimiter(fetchers.RateLimitConfig{RequestsPerSecond: 2.0, BurstSize: 5}),
		label:    defaultLabel,
		pageSize: defaultPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchNewsletters lists messages under the configured label received
// within the lookback window, keeps those from allowlisted senders and
// decodes their bodies. Message dates are re-validated against the
// window because the upstream after: query has day granularity.
func (f *Fetcher) FetchNewsletters(ctx context.Context, senders []string, lookbackDays int) ([]domain.RawMessage, error) {
	if lookbackDays <= 0 {
		lookbackDays = 1
	}
	cutoff := f.now().UTC().AddDate(0, 0, -lookbackDays)
	query := fmt.Sprintf("label:%q after:%s", f.label, cutoff.Format("2006/01/02"))

	allowed := make(map[string]bool, len(senders))
	for _, s := range senders {
		allowed[NormalizeSender(s)] = true
	}

	ids, err := f.listMessageIDs(ctx, query)
	if err != nil {
		return nil, err
	}
	logger.Debug("gmail: query %q matched %d messages", query, len(ids))

	var messages []domain.RawMessage
	for _, id := range ids {
		msg, err := f.getMessage(ctx, id)
		if err != nil {
			logger.Warn("gmail: fetch message %s: %v", id, err)
			continue
		}

		sender := NormalizeSender(headerValue(msg.Payload, "From"))
		if !allowed[sender] {
			continue
		}

		date, ok := parseDate(headerValue(msg.Payload, "Date"))
		if !ok {
			logger.Warn("gmail: message %s has unparseable date, skipping", id)
			continue
		}
		if date.Before(cutoff) {
			continue
		}

		body := decodeBody(msg.Payload)
		if body == "" {
			logger.Warn("gmail: message %s has no decodable body, skipping", id)
			continue
		}

		messages = append(messages, domain.RawMessage{
			ID:     msg.Id,
			Sender: sender,
			Date:   date,
			Body:   body,
		})
	}

	logger.Info("gmail: fetched %d newsletters from %d senders", len(messages), len(senders))
	return messages, nil
}

// listMessageIDs pages through the message list for a query.
func (f *Fetcher) listMessageIDs(ctx context.Context, query string) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		call := f.svc.Users.Messages.List("me").Q(query).MaxResults(f.pageSize).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}
		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
		}
		if resp.NextPageToken == "" {
			return ids, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (f *Fetcher) getMessage(ctx context.Context, id string) (*gmail.Message, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	msg, err := f.svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// StaticTokenSource builds an oauth2 token source from a refresh token
// and client credentials, the shape stored in the config file.
func StaticTokenSource(ctx context.Context, clientID, clientSecret, refreshToken string) oauth2.TokenSource {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: "https://oauth2.googleapis.com/token",
		},
		Scopes: []string{gmail.GmailReadonlyScope},
	}
	return cfg.TokenSource(ctx, &oauth2.Token{
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		// Expired so the first use refreshes.
		Expiry: time.Unix(0, 0),
	})
}
