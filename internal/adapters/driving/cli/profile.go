package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

var (
	profileName         string
	profileInstructions string
	profileEmail        string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage user profiles",
}

var profileSetCmd = &cobra.Command{
	Use:   "set [user-id]",
	Short: "Create or update a profile",
	Long: `Creates or updates the profile for a user. The display name and custom
instructions personalise chat, report and podcast generation.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileSet,
}

var profileShowCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

func init() {
	profileSetCmd.Flags().StringVar(&profileName, "name", "", "display name")
	profileSetCmd.Flags().StringVar(&profileInstructions, "instructions", "", "custom system instructions")
	profileSetCmd.Flags().StringVar(&profileEmail, "email", "", "contact email")
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	profile := domain.UserProfile{
		UserID:             args[0],
		DisplayName:        profileName,
		SystemInstructions: profileInstructions,
		Email:              profileEmail,
	}
	if err := profileService.Sync(cmd.Context(), profile); err != nil {
		return fmt.Errorf("profile set failed: %w", err)
	}

	cmd.Printf("Profile %s saved.\n", profile.UserID)
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	profile, err := profileService.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			cmd.Printf("No profile for %s.\n", args[0])
			return nil
		}
		return fmt.Errorf("profile show failed: %w", err)
	}

	cmd.Printf("User ID:      %s\n", profile.UserID)
	cmd.Printf("Display name: %s\n", profile.DisplayName)
	cmd.Printf("Email:        %s\n", profile.Email)
	if profile.SystemInstructions != "" {
		cmd.Printf("Instructions: %s\n", profile.SystemInstructions)
	}
	return nil
}
