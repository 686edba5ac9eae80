package domain

// Chunk is the indexed, separately-embedded unit of an Article.
// Each article produces exactly two chunks: one for the title and one
// for the body. Indexing them separately improves recall - a query may
// match a title's phrasing but not the body's - at the cost of the
// reassembly step having to resolve partial matches back to whole
// articles.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// ArticleID is a back-reference to the parent Article.
	ArticleID string

	// Text is the embedded text (the title or the body).
	Text string

	// Date is the parent article's publication date as YYYY-MM-DD.
	Date string

	// IsTitle distinguishes the title chunk from the body chunk.
	IsTitle bool

	// Embedding is the vector representation used for similarity search.
	Embedding []float32
}

// ChunkHit is a similarity search result.
type ChunkHit struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}

// ContextEntry is one article reassembled from its chunk hits.
// Either side may be missing when the sibling chunk could not be
// resolved; callers substitute a placeholder rather than fail.
type ContextEntry struct {
	ArticleID string
	Title     string
	Body      string
	Date      string
}

// RetrievalContext maps matched article IDs to their reassembled
// entries, preserving the order articles were first discovered in the
// hit list. It is built per query and never persisted.
type RetrievalContext struct {
	entries map[string]*ContextEntry
	order   []string
}

// NewRetrievalContext creates an empty retrieval context.
func NewRetrievalContext() *RetrievalContext {
	return &RetrievalContext{entries: make(map[string]*ContextEntry)}
}

// Entry returns the entry for an article, creating it on first access
// and recording discovery order.
func (rc *RetrievalContext) Entry(articleID string) *ContextEntry {
	if e, ok := rc.entries[articleID]; ok {
		return e
	}
	e := &ContextEntry{ArticleID: articleID}
	rc.entries[articleID] = e
	rc.order = append(rc.order, articleID)
	return e
}

// Entries returns all entries in discovery order.
func (rc *RetrievalContext) Entries() []*ContextEntry {
	out := make([]*ContextEntry, 0, len(rc.order))
	for _, id := range rc.order {
		out = append(out, rc.entries[id])
	}
	return out
}

// Len returns the number of distinct articles in the context.
func (rc *RetrievalContext) Len() int {
	return len(rc.order)
}
