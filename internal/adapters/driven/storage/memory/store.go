// Package memory provides in-memory storage adapters, used in tests
// and as a zero-setup default.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
)

// Ensure the stores implement their interfaces.
var (
	_ driven.ArticleStore = (*ArticleStore)(nil)
	_ driven.VectorStore  = (*VectorStore)(nil)
	_ driven.ProfileStore = (*ProfileStore)(nil)
)

// ArticleStore is an in-memory implementation of driven.ArticleStore.
type ArticleStore struct {
	mu       sync.RWMutex
	articles map[string]domain.Article
	order    []string
}

// NewArticleStore creates a new in-memory article store.
func NewArticleStore() *ArticleStore {
	return &ArticleStore{articles: make(map[string]domain.Article)}
}

// Upsert stores an article, replacing any previous version.
func (s *ArticleStore) Upsert(_ context.Context, article domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[article.ID]; !ok {
		s.order = append(s.order, article.ID)
	}
	s.articles[article.ID] = article
	return nil
}

// Get retrieves an article by ID.
func (s *ArticleStore) Get(_ context.Context, id string) (*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	article, ok := s.articles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &article, nil
}

// List returns all stored articles in insertion order.
func (s *ArticleStore) List(_ context.Context) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Article, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.articles[id])
	}
	return out, nil
}

// Reset removes all articles.
func (s *ArticleStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = make(map[string]domain.Article)
	s.order = nil
	return nil
}

// VectorStore is an in-memory implementation of driven.VectorStore
// using brute-force cosine similarity.
type VectorStore struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// Add inserts a chunk with its embedding.
func (s *VectorStore) Add(_ context.Context, chunk domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.chunks {
		if s.chunks[i].ID == chunk.ID {
			s.chunks[i] = chunk
			return nil
		}
	}
	s.chunks = append(s.chunks, chunk)
	return nil
}

// Search finds the k nearest chunks by cosine similarity, restricted
// to the given dates when non-empty.
func (s *VectorStore) Search(_ context.Context, query []float32, k int, dates []string) ([]domain.ChunkHit, error) {
	if k <= 0 {
		return nil, nil
	}

	allowed := make(map[string]bool, len(dates))
	for _, d := range dates {
		allowed[d] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []domain.ChunkHit
	for _, chunk := range s.chunks {
		if len(allowed) > 0 && !allowed[chunk.Date] {
			continue
		}
		hits = append(hits, domain.ChunkHit{
			Chunk:      chunk,
			Similarity: CosineSimilarity(query, chunk.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// ChunksByArticle returns every chunk stored for an article.
func (s *VectorStore) ChunksByArticle(_ context.Context, articleID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Chunk
	for _, chunk := range s.chunks {
		if chunk.ArticleID == articleID {
			out = append(out, chunk)
		}
	}
	return out, nil
}

// Reset removes all chunks.
func (s *VectorStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	return nil
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Mismatched or zero-magnitude vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ProfileStore is an in-memory implementation of driven.ProfileStore.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.UserProfile
}

// NewProfileStore creates a new in-memory profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]domain.UserProfile)}
}

// Upsert creates or updates a profile.
func (s *ProfileStore) Upsert(_ context.Context, profile domain.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

// Get retrieves a profile by user ID.
func (s *ProfileStore) Get(_ context.Context, userID string) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &profile, nil
}
