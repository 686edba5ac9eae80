package services

import (
	"context"
	"strings"
	"time"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
)

// Function-field fakes for the driven ports. A nil field gets a
// benign default so each test only wires what it asserts on.

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float32, error)
	pingFn  func(ctx context.Context) error
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return []float32{float32(len(text)), 1, 0, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			continue
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int    { return 4 }
func (m *mockEmbedder) ModelName() string  { return "test-embedding" }
func (m *mockEmbedder) Close() error       { return nil }
func (m *mockEmbedder) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

type mockVectorStore struct {
	chunks   []domain.Chunk
	addFn    func(ctx context.Context, chunk domain.Chunk) error
	searchFn func(ctx context.Context, query []float32, k int, dates []string) ([]domain.ChunkHit, error)
	resets   int
}

func (m *mockVectorStore) Add(ctx context.Context, chunk domain.Chunk) error {
	if m.addFn != nil {
		return m.addFn(ctx, chunk)
	}
	for i, existing := range m.chunks {
		if existing.ID == chunk.ID {
			m.chunks[i] = chunk
			return nil
		}
	}
	m.chunks = append(m.chunks, chunk)
	return nil
}

func (m *mockVectorStore) Search(ctx context.Context, query []float32, k int, dates []string) ([]domain.ChunkHit, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, k, dates)
	}
	return nil, nil
}

func (m *mockVectorStore) ChunksByArticle(ctx context.Context, articleID string) ([]domain.Chunk, error) {
	var out []domain.Chunk
	for _, chunk := range m.chunks {
		if chunk.ArticleID == articleID {
			out = append(out, chunk)
		}
	}
	return out, nil
}

func (m *mockVectorStore) Reset(ctx context.Context) error {
	m.chunks = nil
	m.resets++
	return nil
}

type mockArticleStore struct {
	articles []domain.Article
	upsertFn func(ctx context.Context, article domain.Article) error
	resets   int
}

func (m *mockArticleStore) Upsert(ctx context.Context, article domain.Article) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, article)
	}
	for i, existing := range m.articles {
		if existing.ID == article.ID {
			m.articles[i] = article
			return nil
		}
	}
	m.articles = append(m.articles, article)
	return nil
}

func (m *mockArticleStore) Get(ctx context.Context, id string) (*domain.Article, error) {
	for _, article := range m.articles {
		if article.ID == id {
			a := article
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockArticleStore) List(ctx context.Context) ([]domain.Article, error) {
	return append([]domain.Article(nil), m.articles...), nil
}

func (m *mockArticleStore) Reset(ctx context.Context) error {
	m.articles = nil
	m.resets++
	return nil
}

type mockProfileStore struct {
	profiles map[string]domain.UserProfile
	getErr   error
}

func (m *mockProfileStore) Upsert(ctx context.Context, profile domain.UserProfile) error {
	if m.profiles == nil {
		m.profiles = make(map[string]domain.UserProfile)
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockProfileStore) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &profile, nil
}

type mockPromptStore struct {
	templates map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if tpl, ok := m.templates[name]; ok {
		return tpl, nil
	}
	return "system for " + name + " [{custom_instructions}]", nil
}

func (m *mockPromptStore) Format(name string, vars map[string]string) (string, error) {
	tpl, err := m.Load(name)
	if err != nil {
		return "", err
	}
	for key, value := range vars {
		tpl = strings.ReplaceAll(tpl, "{"+key+"}", value)
	}
	return strings.TrimSpace(tpl), nil
}

func (m *mockPromptStore) Reload() {}

type mockLLM struct {
	generateFn func(ctx context.Context, system string, history []driven.Message, tools []driven.Tool) (string, error)
}

func (m *mockLLM) Generate(ctx context.Context, system string, history []driven.Message, tools []driven.Tool) (string, error) {
	return m.generateFn(ctx, system, history, tools)
}

func (m *mockLLM) ModelName() string { return "test-llm" }
func (m *mockLLM) Close() error      { return nil }

type mockSpeech struct {
	synthesizeFn func(ctx context.Context, script string) (string, error)
}

func (m *mockSpeech) Synthesize(ctx context.Context, script string) (string, error) {
	return m.synthesizeFn(ctx, script)
}

func (m *mockSpeech) Close() error { return nil }

type mockSearch struct {
	fetchFn  func(ctx context.Context, domains []string, lookbackDays int) ([]domain.RawArticle, error)
	scrapeFn func(ctx context.Context, url, prompt string) (string, error)
}

func (m *mockSearch) FetchRecent(ctx context.Context, domains []string, lookbackDays int) ([]domain.RawArticle, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, domains, lookbackDays)
	}
	return nil, nil
}

func (m *mockSearch) ScrapeURL(ctx context.Context, url, prompt string) (string, error) {
	if m.scrapeFn != nil {
		return m.scrapeFn(ctx, url, prompt)
	}
	return "scraped " + url, nil
}

type mockMail struct {
	messages []domain.RawMessage
	err      error
}

func (m *mockMail) FetchNewsletters(ctx context.Context, senders []string, lookbackDays int) ([]domain.RawMessage, error) {
	return m.messages, m.err
}

type mockFeeds struct {
	articles []domain.RawArticle
	err      error
}

func (m *mockFeeds) FetchFeeds(ctx context.Context, feedURLs []string, lookbackDays int) ([]domain.RawArticle, error) {
	return m.articles, m.err
}

// fixedClock pins a service's notion of now for deterministic ranges.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
