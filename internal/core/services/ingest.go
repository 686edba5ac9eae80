package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
	"github.com/tiagocrz/deNoise/internal/core/ports/driving"
	"github.com/tiagocrz/deNoise/internal/extractors"
	"github.com/tiagocrz/deNoise/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestOrchestrator = (*IngestService)(nil)

// pingTimeout bounds the startup reachability check so an unreachable
// embedding service fails fast instead of hanging the run.
const pingTimeout = 10 * time.Second

// IngestConfig holds the source allowlists for an ingest run.
type IngestConfig struct {
	// NewsletterSenders is the sender allowlist for the mail source.
	NewsletterSenders []string

	// SearchDomains is the web search domain allowlist.
	SearchDomains []string

	// FeedURLs is the RSS/Atom feed list.
	FeedURLs []string

	// LookbackDays is the trailing fetch window.
	LookbackDays int

	// SundaySkipSenders lists senders whose Sunday editions are
	// excluded. Their weekend format has no extractable stories.
	SundaySkipSenders []string
}

// IngestService runs the scrape-extract-store-index pipeline over all
// configured sources.
type IngestService struct {
	mail      driven.MailSource
	search    driven.ArticleSearch
	feeds     driven.FeedSource
	registry  *extractors.Registry
	articles  driven.ArticleStore
	vectors   driven.VectorStore
	embedder  driven.EmbeddingService
	retrieval driving.RetrievalService
	cfg       IngestConfig
}

// NewIngestService creates an ingest service. Any of the mail, search
// and feed sources may be nil; that source is then skipped.
func NewIngestService(
	mail driven.MailSource,
	search driven.ArticleSearch,
	feeds driven.FeedSource,
	registry *extractors.Registry,
	articles driven.ArticleStore,
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
	retrieval driving.RetrievalService,
	cfg IngestConfig,
) *IngestService {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 7
	}
	return &IngestService{
		mail:      mail,
		search:    search,
		feeds:     feeds,
		registry:  registry,
		articles:  articles,
		vectors:   vectors,
		embedder:  embedder,
		retrieval: retrieval,
		cfg:       cfg,
	}
}

// Update fetches newsletters, web articles and feeds, extracts news
// items, stores them and indexes their embeddings. Per-item failures
// are logged and skipped; the run aborts only when the embedding
// service or storage is unavailable.
func (s *IngestService) Update(ctx context.Context, reset bool) (*driving.IngestStats, error) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.embedder.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	if reset {
		logger.Section("Resetting containers")
		if err := s.articles.Reset(ctx); err != nil {
			return nil, fmt.Errorf("%w: reset articles: %v", domain.ErrStorageUnavailable, err)
		}
		if err := s.vectors.Reset(ctx); err != nil {
			return nil, fmt.Errorf("%w: reset vectors: %v", domain.ErrStorageUnavailable, err)
		}
	}

	runID := uuid.NewString()
	logger.Debug("ingest: run %s started (reset=%v)", runID, reset)

	stats := &driving.IngestStats{RunID: runID}

	if err := s.ingestNewsletters(ctx, stats); err != nil {
		return nil, err
	}
	if err := s.ingestWebArticles(ctx, stats); err != nil {
		return nil, err
	}
	if err := s.ingestFeeds(ctx, stats); err != nil {
		return nil, err
	}

	logger.Info("ingest: run %s done, %d newsletters, %d articles stored, %d indexed, %d skipped",
		runID, stats.NewslettersFetched, stats.ArticlesStored, stats.ArticlesIndexed, stats.Skipped)
	return stats, nil
}

func (s *IngestService) ingestNewsletters(ctx context.Context, stats *driving.IngestStats) error {
	if s.mail == nil || s.registry == nil {
		return nil
	}
	logger.Section("Fetching newsletters")

	messages, err := s.mail.FetchNewsletters(ctx, s.cfg.NewsletterSenders, s.cfg.LookbackDays)
	if err != nil {
		return fmt.Errorf("fetch newsletters: %w", err)
	}
	stats.NewslettersFetched = len(messages)

	for _, msg := range messages {
		if s.skipSundayEdition(msg) {
			logger.Debug("ingest: skipping Sunday edition from %s", msg.Sender)
			continue
		}

		extractor, ok := s.registry.ForSender(msg.Sender)
		if !ok {
			logger.Warn("ingest: no extractor for sender %s, skipping message %s", msg.Sender, msg.ID)
			stats.Skipped++
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(msg.Body))
		if err != nil {
			logger.Warn("ingest: parse message %s: %v", msg.ID, err)
			stats.Skipped++
			continue
		}

		items := extractor.Extract(doc, msg.ID, msg.Date)
		logger.Debug("ingest: message %s from %s yielded %d items", msg.ID, msg.Sender, len(items))

		for _, item := range items {
			article := domain.Article{
				ID:     item.ID,
				Title:  item.Title,
				Text:   item.Text,
				Date:   item.Date,
				Source: domain.SourceGmailSender,
			}
			if err := s.storeAndIndex(ctx, article, stats); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *IngestService) ingestWebArticles(ctx context.Context, stats *driving.IngestStats) error {
	if s.search == nil || len(s.cfg.SearchDomains) == 0 {
		return nil
	}
	logger.Section("Fetching web articles")

	raw, err := s.search.FetchRecent(ctx, s.cfg.SearchDomains, s.cfg.LookbackDays)
	if err != nil {
		return fmt.Errorf("fetch web articles: %w", err)
	}

	for _, article := range raw {
		if err := s.storeAndIndex(ctx, domain.Article{
			ID:     article.ID,
			Title:  article.Title,
			Text:   article.Text,
			Date:   article.Date,
			Source: domain.SourceWebDomain,
		}, stats); err != nil {
			return err
		}
	}
	return nil
}

func (s *IngestService) ingestFeeds(ctx context.Context, stats *driving.IngestStats) error {
	if s.feeds == nil || len(s.cfg.FeedURLs) == 0 {
		return nil
	}
	logger.Section("Fetching feeds")

	raw, err := s.feeds.FetchFeeds(ctx, s.cfg.FeedURLs, s.cfg.LookbackDays)
	if err != nil {
		return fmt.Errorf("fetch feeds: %w", err)
	}

	for _, article := range raw {
		if err := s.storeAndIndex(ctx, domain.Article{
			ID:     article.ID,
			Title:  article.Title,
			Text:   article.Text,
			Date:   article.Date,
			Source: domain.SourceRSSFeed,
		}, stats); err != nil {
			return err
		}
	}
	return nil
}

// storeAndIndex upserts one article and indexes its chunks. A failure
// skips the article unless it signals an unavailable backend, which
// aborts the whole run.
func (s *IngestService) storeAndIndex(ctx context.Context, article domain.Article, stats *driving.IngestStats) error {
	if err := s.articles.Upsert(ctx, article); err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			return fmt.Errorf("store article %s: %w", article.ID, err)
		}
		logger.Warn("ingest: store article %s: %v", article.ID, err)
		stats.Skipped++
		return nil
	}
	stats.ArticlesStored++

	if err := s.retrieval.IndexArticle(ctx, article); err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) || errors.Is(err, domain.ErrStorageUnavailable) {
			return fmt.Errorf("index article %s: %w", article.ID, err)
		}
		logger.Warn("ingest: index article %s: %v", article.ID, err)
		stats.Skipped++
		return nil
	}
	stats.ArticlesIndexed++
	return nil
}

func (s *IngestService) skipSundayEdition(msg domain.RawMessage) bool {
	if msg.Date.Weekday() != time.Sunday {
		return false
	}
	for _, sender := range s.cfg.SundaySkipSenders {
		if strings.EqualFold(strings.TrimSpace(sender), msg.Sender) {
			return true
		}
	}
	return false
}
