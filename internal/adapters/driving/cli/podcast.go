package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

var (
	podcastUser      string
	podcastScope     string
	podcastStructure string
	podcastOut       string
)

var podcastCmd = &cobra.Command{
	Use:   "podcast [topics]",
	Short: "Generate a news podcast",
	Long: `Generates a podcast script for the given topics, grounded in retrieved
articles, and converts it to audio. The audio is written to a file when
--out is given, otherwise the data URI is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPodcast,
}

func init() {
	podcastCmd.Flags().StringVarP(&podcastUser, "user", "u", domain.AnonymousUserID, "user ID for profile lookup")
	podcastCmd.Flags().StringVarP(&podcastScope, "scope", "s", string(domain.ScopeWeekly), "time scope: daily, weekly or monthly")
	podcastCmd.Flags().StringVar(&podcastStructure, "structure", "", "desired episode structure, free text")
	podcastCmd.Flags().StringVarP(&podcastOut, "out", "o", "", "write the audio to this file")
	rootCmd.AddCommand(podcastCmd)
}

func runPodcast(cmd *cobra.Command, args []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}

	scope, err := parseScope(podcastScope)
	if err != nil {
		return err
	}

	audio, err := agentService.Podcast(cmd.Context(), podcastUser, strings.Join(args, " "), scope, podcastStructure)
	if err != nil {
		return fmt.Errorf("podcast failed: %w", err)
	}

	if podcastOut == "" {
		cmd.Println(audio)
		return nil
	}

	data, err := decodeAudioDataURI(audio)
	if err != nil {
		return err
	}
	if err := os.WriteFile(podcastOut, data, 0o644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}

	cmd.Printf("Wrote %d bytes to %s\n", len(data), podcastOut)
	return nil
}

func decodeAudioDataURI(uri string) ([]byte, error) {
	_, payload, found := strings.Cut(uri, ";base64,")
	if !found {
		return nil, errors.New("unexpected audio format: not a base64 data URI")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return data, nil
}
