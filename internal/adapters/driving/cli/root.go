package cli

import (
	"github.com/spf13/cobra"

	"github.com/tiagocrz/deNoise/internal/core/ports/driving"
	"github.com/tiagocrz/deNoise/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main before Execute.
var (
	ingestOrchestrator driving.IngestOrchestrator
	agentService       driving.AgentService
	profileService     driving.ProfileService
)

// Services bundles the driving ports the CLI commands run against.
type Services struct {
	Ingest   driving.IngestOrchestrator
	Agents   driving.AgentService
	Profiles driving.ProfileService
}

// SetServices wires the driving ports into the command tree.
func SetServices(s Services) {
	ingestOrchestrator = s.Ingest
	agentService = s.Agents
	profileService = s.Profiles
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "denoise",
	Short: "Aggregate startup news and query them with retrieval-augmented generation",
	Long: `deNoise collects startup and tech news from newsletters, web searches
and RSS feeds, indexes them in a vector store, and answers questions,
reports and podcasts grounded in what it collected.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
