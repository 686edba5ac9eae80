package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

var (
	reportUser      string
	reportScope     string
	reportStructure string
)

var reportCmd = &cobra.Command{
	Use:   "report [topics]",
	Short: "Generate a news report",
	Long: `Generates a structured report for the given topics, grounded in the
articles retrieved from the internal database for the chosen time scope.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportUser, "user", "u", domain.AnonymousUserID, "user ID for profile lookup")
	reportCmd.Flags().StringVarP(&reportScope, "scope", "s", string(domain.ScopeWeekly), "time scope: daily, weekly or monthly")
	reportCmd.Flags().StringVar(&reportStructure, "structure", "", "desired report structure, free text")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}

	scope, err := parseScope(reportScope)
	if err != nil {
		return err
	}

	report, err := agentService.Report(cmd.Context(), reportUser, strings.Join(args, " "), scope, reportStructure)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	cmd.Println(report)
	return nil
}

func parseScope(raw string) (domain.TimeScope, error) {
	switch scope := domain.TimeScope(strings.ToLower(strings.TrimSpace(raw))); scope {
	case domain.ScopeDaily, domain.ScopeWeekly, domain.ScopeMonthly:
		return scope, nil
	default:
		return "", fmt.Errorf("invalid scope %q: want daily, weekly or monthly", raw)
	}
}
