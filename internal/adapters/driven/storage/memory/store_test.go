package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

func TestArticleStore(t *testing.T) {
	ctx := context.Background()
	store := NewArticleStore()

	article := domain.Article{
		ID:     "a1",
		Title:  "Title",
		Text:   "Body",
		Date:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Source: domain.SourceGmailSender,
	}

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "a1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("upsert then get", func(t *testing.T) {
		require.NoError(t, store.Upsert(ctx, article))

		got, err := store.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, article, *got)
	})

	t.Run("upsert replaces", func(t *testing.T) {
		updated := article
		updated.Title = "New title"
		require.NoError(t, store.Upsert(ctx, updated))

		got, err := store.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "New title", got.Title)

		all, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("reset empties the store", func(t *testing.T) {
		require.NoError(t, store.Reset(ctx))

		_, err := store.Get(ctx, "a1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestVectorStore(t *testing.T) {
	ctx := context.Background()
	store := NewVectorStore()

	chunks := []domain.Chunk{
		{ID: "c1", ArticleID: "a1", Text: "exact", Date: "2025-03-10", IsTitle: true, Embedding: []float32{1, 0}},
		{ID: "c2", ArticleID: "a1", Text: "near", Date: "2025-03-10", Embedding: []float32{0.9, 0.1}},
		{ID: "c3", ArticleID: "a2", Text: "far", Date: "2025-03-01", Embedding: []float32{0, 1}},
	}
	for _, c := range chunks {
		require.NoError(t, store.Add(ctx, c))
	}

	t.Run("ranks by cosine similarity", func(t *testing.T) {
		hits, err := store.Search(ctx, []float32{1, 0}, 2, nil)

		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "c1", hits[0].Chunk.ID)
		assert.Equal(t, "c2", hits[1].Chunk.ID)
		assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
	})

	t.Run("date filter is an OR over days", func(t *testing.T) {
		hits, err := store.Search(ctx, []float32{1, 0}, 10, []string{"2025-03-01"})

		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "c3", hits[0].Chunk.ID)

		hits, err = store.Search(ctx, []float32{1, 0}, 10, []string{"2025-03-01", "2025-03-10"})
		require.NoError(t, err)
		assert.Len(t, hits, 3)
	})

	t.Run("no matching date yields no hits", func(t *testing.T) {
		hits, err := store.Search(ctx, []float32{1, 0}, 10, []string{"2024-01-01"})

		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("chunks by article", func(t *testing.T) {
		got, err := store.ChunksByArticle(ctx, "a1")

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("add replaces an existing chunk", func(t *testing.T) {
		require.NoError(t, store.Add(ctx, domain.Chunk{
			ID: "c1", ArticleID: "a1", Text: "replaced", Date: "2025-03-10", Embedding: []float32{1, 0},
		}))

		got, err := store.ChunksByArticle(ctx, "a1")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("reset empties the index", func(t *testing.T) {
		require.NoError(t, store.Reset(ctx))

		hits, err := store.Search(ctx, []float32{1, 0}, 10, nil)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, CosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}

func TestProfileStore(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore()

	t.Run("get missing returns ErrProfileNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "u1")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("upsert then get", func(t *testing.T) {
		profile := domain.UserProfile{
			UserID:             "u1",
			DisplayName:        "Ana",
			SystemInstructions: "Answer in Portuguese.",
		}
		require.NoError(t, store.Upsert(ctx, profile))

		got, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, profile, *got)
	})

	t.Run("upsert validates", func(t *testing.T) {
		err := store.Upsert(ctx, domain.UserProfile{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
