package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var updateReset bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch, extract and index fresh news",
	Long: `Runs the full ingest pipeline: fetches newsletters, web articles and
feeds, extracts individual stories, stores them and indexes their
embeddings for retrieval.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateReset, "reset", false, "recreate the article and vector containers before ingesting")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	if ingestOrchestrator == nil {
		return errors.New("ingest service not configured")
	}

	cmd.Println("Updating the news database...")

	stats, err := ingestOrchestrator.Update(cmd.Context(), updateReset)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	cmd.Printf("Run %s complete.\n", stats.RunID)
	cmd.Printf("Fetched %d newsletters.\n", stats.NewslettersFetched)
	cmd.Printf("Stored %d articles, indexed %d.\n", stats.ArticlesStored, stats.ArticlesIndexed)
	if stats.Skipped > 0 {
		cmd.Printf("Skipped %d items (see logs).\n", stats.Skipped)
	}
	return nil
}
