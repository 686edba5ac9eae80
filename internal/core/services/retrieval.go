package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
	"github.com/tiagocrz/deNoise/internal/core/ports/driving"
	"github.com/tiagocrz/deNoise/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultTopK is the similarity search depth used by RagTrigger.
const DefaultTopK = 5

// Placeholders substituted when one side of an article could not be
// resolved during reassembly.
const (
	missingTitle = "(title unavailable)"
	missingBody  = "(body unavailable)"
)

// RetrievalService indexes articles as title and body chunks and
// answers similarity queries with reassembled article context.
type RetrievalService struct {
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
	now      func() time.Time
}

// NewRetrievalService creates a retrieval service.
func NewRetrievalService(embedder driven.EmbeddingService, vectors driven.VectorStore) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		vectors:  vectors,
		now:      time.Now,
	}
}

// IndexArticle embeds an article's title and body and stores them as
// two chunks tagged with the article date. An article with an empty
// body still gets its title chunk indexed.
func (s *RetrievalService) IndexArticle(ctx context.Context, article domain.Article) error {
	if strings.TrimSpace(article.Title) == "" {
		return fmt.Errorf("index article %s: %w", article.ID, domain.ErrInvalidInput)
	}
	date := domain.DateOnly(article.Date)

	titleVec, err := s.embedder.Embed(ctx, article.Title)
	if err != nil {
		return fmt.Errorf("embed title of %s: %w", article.ID, err)
	}
	if err := s.vectors.Add(ctx, domain.Chunk{
		ID:        article.ID + "_title",
		ArticleID: article.ID,
		Text:      article.Title,
		Date:      date,
		IsTitle:   true,
		Embedding: titleVec,
	}); err != nil {
		return fmt.Errorf("store title chunk of %s: %w", article.ID, err)
	}

	if strings.TrimSpace(article.Text) == "" {
		logger.Debug("retrieval: article %s has no body, indexed title only", article.ID)
		return nil
	}

	bodyVec, err := s.embedder.Embed(ctx, article.Text)
	if err != nil {
		return fmt.Errorf("embed body of %s: %w", article.ID, err)
	}
	if err := s.vectors.Add(ctx, domain.Chunk{
		ID:        article.ID + "_body",
		ArticleID: article.ID,
		Text:      article.Text,
		Date:      date,
		Embedding: bodyVec,
	}); err != nil {
		return fmt.Errorf("store body chunk of %s: %w", article.ID, err)
	}

	return nil
}

// Retrieve embeds the query, runs a top-k similarity search restricted
// to [start, end] when both are set, and returns the reassembled
// context block. Zero hits yield the no-results sentinel.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, start, end time.Time, k int) (string, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	var dates []string
	if !start.IsZero() && !end.IsZero() {
		dates = domain.ExpandDateRange(start, end)
	}

	hits, err := s.vectors.Search(ctx, queryVec, k, dates)
	if err != nil {
		return "", fmt.Errorf("similarity search: %w", err)
	}
	if len(hits) == 0 {
		logger.Debug("retrieval: no hits for query across %d days", len(dates))
		return driving.NoResultsSentinel, nil
	}

	return s.reassemble(ctx, hits)
}

// reassemble resolves partial chunk hits back to whole articles: for
// every distinct article in the hit list, in discovery order, all of
// its chunks are re-fetched so a body-only hit still carries its title
// and vice versa.
func (s *RetrievalService) reassemble(ctx context.Context, hits []domain.ChunkHit) (string, error) {
	rc := domain.NewRetrievalContext()
	for _, hit := range hits {
		rc.Entry(hit.Chunk.ArticleID)
	}

	for _, entry := range rc.Entries() {
		chunks, err := s.vectors.ChunksByArticle(ctx, entry.ArticleID)
		if err != nil {
			return "", fmt.Errorf("resolve chunks of %s: %w", entry.ArticleID, err)
		}
		for _, chunk := range chunks {
			if chunk.IsTitle {
				entry.Title = chunk.Text
			} else {
				entry.Body = chunk.Text
			}
			entry.Date = chunk.Date
		}
	}

	blocks := make([]string, 0, rc.Len())
	for _, entry := range rc.Entries() {
		title := entry.Title
		if title == "" {
			title = missingTitle
		}
		body := entry.Body
		if body == "" {
			body = missingBody
		}
		blocks = append(blocks, fmt.Sprintf("Title: %s\nDate: %s\n%s", title, entry.Date, body))
	}

	logger.Debug("retrieval: reassembled %d articles from %d hits", rc.Len(), len(hits))
	return strings.Join(blocks, "\n---\n"), nil
}

// RagTrigger maps a time scope to its lookback window and retrieves
// with the default depth. This is the contract exposed to the LLM as a
// tool and to report and podcast generation.
func (s *RetrievalService) RagTrigger(ctx context.Context, query string, scope domain.TimeScope) (string, error) {
	start, end := scope.Range(s.now())
	return s.Retrieve(ctx, query, start, end, DefaultTopK)
}
