package driving

import "context"

// IngestStats summarises one ingest run.
type IngestStats struct {
	// RunID identifies the run; it correlates the run's log lines and
	// is echoed by the CLI.
	RunID string

	// NewslettersFetched is the number of raw newsletter emails fetched.
	NewslettersFetched int

	// ArticlesStored is the number of articles written to the store.
	ArticlesStored int

	// ArticlesIndexed is the number of articles embedded and indexed.
	ArticlesIndexed int

	// Skipped is the number of per-item failures that were logged and
	// skipped without aborting the run.
	Skipped int
}

// IngestOrchestrator runs the scrape-extract-store-index pipeline.
type IngestOrchestrator interface {
	// Update fetches newsletters, web articles and feeds, extracts
	// news items, stores them and indexes their embeddings. When reset
	// is true both containers are recreated first. Per-item failures
	// never abort the run; only embedding- or storage-unavailable
	// conditions do.
	Update(ctx context.Context, reset bool) (*IngestStats, error)
}
