package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietdv277/appsctl/internal/aws"
	"github.com/vietdv277/appsctl/internal/config"
	"github.com/vietdv277/appsctl/internal/ui"
)

var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"profile"},
	Short:   "List available AWS profiles",
	Long: `List all AWS profiles from ~/.aws/credentials and ~/.aws/config.

The profile the current settings resolve to is marked with an asterisk (*).
AWS_SHARED_CREDENTIALS_FILE and AWS_CONFIG_FILE are honored.

Examples:
  appsctl profiles`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipEnv: "true"},
	RunE:        runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	profiles, err := aws.ListProfiles()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if len(profiles) == 0 {
		fmt.Fprintln(out, "No AWS profiles found")
		fmt.Fprintln(out, "Create profiles in ~/.aws/credentials or ~/.aws/config")
		return nil
	}

	return ui.PrintProfileTable(out, profiles, activeProfile())
}

// activeProfile returns the profile of the current context, falling back to AWS_PROFILE
func activeProfile() string {
	if ctx, _, err := config.GetCurrentContext(); err == nil && ctx != nil && ctx.Profile != "" {
		return ctx.Profile
	}
	return os.Getenv("AWS_PROFILE")
}
