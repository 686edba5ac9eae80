package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

var (
	askUser  string
	askClear bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the conversational news agent",
	Long: `Asks a question against the news database. The agent decides whether
to search the internal database or scrape a URL you provide, and keeps
per-user conversation history between invocations of the same process.`,
	Args: cobra.ArbitraryArgs,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askUser, "user", "u", domain.AnonymousUserID, "user ID for profile and session lookup")
	askCmd.Flags().BoolVar(&askClear, "clear", false, "clear the user's conversation history")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}

	if askClear {
		agentService.ClearSession(askUser)
		cmd.Println("Session cleared.")
		if len(args) == 0 {
			return nil
		}
	}

	if len(args) == 0 {
		return errors.New("nothing to ask")
	}

	answer, err := agentService.Chat(cmd.Context(), askUser, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	cmd.Println(answer)
	return nil
}
