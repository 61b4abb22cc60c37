package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietdv277/appsctl/internal/aws"
	"github.com/vietdv277/appsctl/internal/cli"
	"github.com/vietdv277/appsctl/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current context and authentication status",
	Long: `Display the settings commands will use and verify the credentials
with STS GetCallerIdentity.

Examples:
  appsctl status
  appsctl status --context prod`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := cli.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	out := env.Stdout
	s := env.Settings

	fmt.Fprintln(out, "Current Status")
	fmt.Fprintln(out, ui.MutedStyle.Render("─────────────────────────────────"))
	fmt.Fprintln(out)

	if s.Context == "" {
		fmt.Fprintln(out, "Context:  "+ui.MutedStyle.Render("(not set)"))
	} else {
		fmt.Fprintf(out, "Context:  %s\n", ui.HeaderStyle.Render(s.Context))
	}
	fmt.Fprintf(out, "Profile:  %s\n", ui.AWSStyle.Render(orDefault(s.Profile, "(default)")))

	client, err := env.Session.Client(cmd.Context())
	if err != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.ErrorStyle.Render("✗ Failed to load AWS configuration"))
		fmt.Fprintf(out, "          %s\n", ui.MutedStyle.Render(err.Error()))
		return cli.ErrReported
	}

	fmt.Fprintf(out, "Region:   %s\n", orDefault(client.Region(), "(not set)"))
	if s.EndpointURL != "" {
		fmt.Fprintf(out, "Endpoint: %s\n", s.EndpointURL)
	}
	fmt.Fprintln(out)

	// Try to get caller identity
	fmt.Fprint(out, "Auth:     ")
	identity, err := aws.GetCallerIdentity(cmd.Context(), client.STS)
	if err != nil {
		fmt.Fprintln(out, ui.ErrorStyle.Render("✗ Not authenticated"))
		fmt.Fprintf(out, "          %s\n", ui.MutedStyle.Render(aws.DescribeError(err)))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To authenticate:")
		fmt.Fprintf(out, "  aws sso login --profile %s\n", orDefault(s.Profile, "default"))
		return cli.ErrReported
	}

	fmt.Fprintln(out, ui.SuccessStyle.Render("✓ Authenticated"))
	fmt.Fprintf(out, "Account:  %s\n", identity.Account)
	fmt.Fprintf(out, "User:     %s\n", identity.UserID)
	if identity.Arn != "" {
		fmt.Fprintf(out, "ARN:      %s\n", ui.MutedStyle.Render(identity.Arn))
	}

	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
