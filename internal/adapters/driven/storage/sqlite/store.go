// Package sqlite provides SQLite-backed storage adapters behind a
// single shared database handle.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tiagocrz/deNoise/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides the article,
// vector and profile store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.denoise/data/denoise.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".denoise", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "denoise.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ArticleStore returns an ArticleStore interface backed by this store.
func (s *Store) ArticleStore() driven.ArticleStore {
	return &articleStore{store: s}
}

// VectorStore returns a VectorStore interface backed by this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// ProfileStore returns a ProfileStore interface backed by this store.
func (s *Store) ProfileStore() driven.ProfileStore {
	return &profileStore{store: s}
}

func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Article Store ====================

// articleStore implements driven.ArticleStore.
type articleStore struct {
	store *Store
}

var _ driven.ArticleStore = (*articleStore)(nil)

// Upsert stores an article, replacing any previous version.
func (s *articleStore) Upsert(ctx context.Context, article domain.Article) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO articles (id, title, text, date, source)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			text = excluded.text,
			date = excluded.date,
			source = excluded.source
	`, article.ID, article.Title, article.Text, article.Date.UTC().Format(time.RFC3339), string(article.Source))
	if err != nil {
		return fmt.Errorf("saving article: %w", err)
	}
	return nil
}

// Get retrieves an article by ID.
func (s *articleStore) Get(ctx context.Context, id string) (*domain.Article, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, text, date, source FROM articles WHERE id = ?
	`, id)
	return scanArticle(row)
}

// List returns all stored articles.
func (s *articleStore) List(ctx context.Context) ([]domain.Article, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, text, date, source FROM articles ORDER BY date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var article domain.Article
		var date, source string
		if err := rows.Scan(&article.ID, &article.Title, &article.Text, &date, &source); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		article.Date, _ = time.Parse(time.RFC3339, date)
		article.Source = domain.ArticleSource(source)
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// Reset removes all articles.
func (s *articleStore) Reset(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM articles"); err != nil {
		return fmt.Errorf("resetting articles: %w", err)
	}
	return nil
}

func scanArticle(row *sql.Row) (*domain.Article, error) {
	var article domain.Article
	var date, source string
	if err := row.Scan(&article.ID, &article.Title, &article.Text, &date, &source); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning article: %w", err)
	}
	article.Date, _ = time.Parse(time.RFC3339, date)
	article.Source = domain.ArticleSource(source)
	return &article, nil
}

// ==================== Vector Store ====================

// vectorStore implements driven.VectorStore with brute-force cosine
// similarity over stored embedding blobs. Fine at newsletter scale;
// the candidate set is already narrowed by the date filter.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Add inserts a chunk with its embedding.
func (s *vectorStore) Add(ctx context.Context, chunk domain.Chunk) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO chunks (id, article_id, text, date, is_title, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			article_id = excluded.article_id,
			text = excluded.text,
			date = excluded.date,
			is_title = excluded.is_title,
			embedding = excluded.embedding
	`, chunk.ID, chunk.ArticleID, chunk.Text, chunk.Date, chunk.IsTitle, float32SliceToBytes(chunk.Embedding))
	if err != nil {
		return fmt.Errorf("saving chunk: %w", err)
	}
	return nil
}

// Search finds the k nearest chunks by cosine similarity, restricted
// to the given dates when non-empty.
func (s *vectorStore) Search(ctx context.Context, query []float32, k int, dates []string) ([]domain.ChunkHit, error) {
	if k <= 0 {
		return nil, nil
	}

	sqlQuery := "SELECT id, article_id, text, date, is_title, embedding FROM chunks"
	args := make([]any, 0, len(dates))
	if len(dates) > 0 {
		placeholders := strings.Repeat("?,", len(dates))
		sqlQuery += " WHERE date IN (" + placeholders[:len(placeholders)-1] + ")"
		for _, d := range dates {
			args = append(args, d)
		}
	}

	rows, err := s.store.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var hits []domain.ChunkHit
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		hits = append(hits, domain.ChunkHit{
			Chunk:      chunk,
			Similarity: cosineSimilarity(query, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// ChunksByArticle returns every chunk stored for an article, title
// chunk first.
func (s *vectorStore) ChunksByArticle(ctx context.Context, articleID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, article_id, text, date, is_title, embedding
		FROM chunks WHERE article_id = ?
		ORDER BY is_title DESC, id
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// Reset removes all chunks.
func (s *vectorStore) Reset(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("resetting chunks: %w", err)
	}
	return nil
}

func scanChunk(rows *sql.Rows) (domain.Chunk, error) {
	var chunk domain.Chunk
	var embedding []byte
	if err := rows.Scan(&chunk.ID, &chunk.ArticleID, &chunk.Text, &chunk.Date, &chunk.IsTitle, &embedding); err != nil {
		return domain.Chunk{}, fmt.Errorf("scanning chunk: %w", err)
	}
	chunk.Embedding = bytesToFloat32Slice(embedding)
	return chunk, nil
}

// ==================== Profile Store ====================

// profileStore implements driven.ProfileStore.
type profileStore struct {
	store *Store
}

var _ driven.ProfileStore = (*profileStore)(nil)

// Upsert creates or updates a profile.
func (s *profileStore) Upsert(ctx context.Context, profile domain.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, display_name, system_instructions, email, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			display_name = excluded.display_name,
			system_instructions = excluded.system_instructions,
			email = excluded.email,
			updated_at = CURRENT_TIMESTAMP
	`, profile.UserID, profile.DisplayName, profile.SystemInstructions, profile.Email)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// Get retrieves a profile by user ID.
func (s *profileStore) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT user_id, display_name, system_instructions, email
		FROM profiles WHERE user_id = ?
	`, userID)

	var profile domain.UserProfile
	if err := row.Scan(&profile.UserID, &profile.DisplayName, &profile.SystemInstructions, &profile.Email); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("scanning profile: %w", err)
	}
	return &profile, nil
}

// ==================== Helpers ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

func cosineSimilarity(a, b []float32) float64 {
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
