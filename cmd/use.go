package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietdv277/appsctl/internal/aws"
	"github.com/vietdv277/appsctl/internal/config"
	"github.com/vietdv277/appsctl/internal/ui"
)

var useCmd = &cobra.Command{
	Use:   "use [context-name]",
	Short: "Set the active context",
	Long: `Set the active context for subsequent commands.

A context names an AWS profile, a region and optionally an AppStream
endpoint URL. Without an argument an interactive selector is shown.

Examples:
  appsctl use                 # Pick a context interactively
  appsctl use prod            # Switch to the "prod" context`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipEnv: "true"},
	RunE:        runUse,
}

var useAddCmd = &cobra.Command{
	Use:   "add <context-name>",
	Short: "Add or update a context",
	Long: `Add a new context or replace an existing one.

Without --profile an interactive profile selector is shown.

Examples:
  appsctl use add prod --profile prod-sso --region us-east-1
  appsctl use add local --profile default --region us-east-1 --endpoint-url http://localhost:4566`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipEnv: "true"},
	RunE:        runUseAdd,
}

var useDeleteCmd = &cobra.Command{
	Use:   "delete <context-name>",
	Short: "Delete a context",
	Long: `Delete a context configuration.

Examples:
  appsctl use delete old-env`,
	Args:        cobra.ExactArgs(1),
	Aliases:     []string{"rm", "remove"},
	Annotations: map[string]string{skipEnv: "true"},
	RunE:        runUseDelete,
}

var (
	// Flags for use add
	useAddProfile  string
	useAddRegion   string
	useAddEndpoint string
)

func init() {
	rootCmd.AddCommand(useCmd)
	useCmd.AddCommand(useAddCmd)
	useCmd.AddCommand(useDeleteCmd)

	// use add has its own --profile/--region, shadowing the global ones
	useAddCmd.Flags().StringVar(&useAddProfile, "profile", "", "AWS profile name")
	useAddCmd.Flags().StringVar(&useAddRegion, "region", "", "AWS region")
	useAddCmd.Flags().StringVar(&useAddEndpoint, "endpoint-url", "", "AppStream endpoint URL")
}

func runUse(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	contexts, names, current, err := config.ListContexts()
	if err != nil {
		return err
	}

	var contextName string
	if len(args) == 1 {
		contextName = args[0]
	} else {
		if !ui.IsTerminal(os.Stdin) {
			return errors.New("context name required when not running in a terminal")
		}
		contextName, err = ui.SelectContext(contexts, current)
		if errors.Is(err, ui.ErrSelectionCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	ctx, ok := contexts[contextName]
	if !ok {
		fmt.Fprintf(out, "Context %q not found.\n\n", contextName)
		if len(names) == 0 {
			fmt.Fprintln(out, "No contexts configured. Add one with:")
			fmt.Fprintln(out, "  appsctl use add <name> --profile <profile> --region <region>")
			return nil
		}
		fmt.Fprintln(out, "Available contexts:")
		for _, name := range names {
			marker := "  "
			if name == current {
				marker = "* "
			}
			fmt.Fprintf(out, "  %s%s\n", marker, name)
		}
		return nil
	}

	if err := config.SetCurrentContext(contextName); err != nil {
		return err
	}

	fmt.Fprintf(out, "Switched to context: %s\n", ui.SuccessStyle.Render(contextName))
	if ctx.Profile != "" {
		fmt.Fprintf(out, "  Profile:  %s\n", ctx.Profile)
	}
	if ctx.Region != "" {
		fmt.Fprintf(out, "  Region:   %s\n", ctx.Region)
	}
	if ctx.EndpointURL != "" {
		fmt.Fprintf(out, "  Endpoint: %s\n", ctx.EndpointURL)
	}

	return nil
}

func runUseAdd(cmd *cobra.Command, args []string) error {
	contextName := args[0]
	out := cmd.OutOrStdout()

	profile := useAddProfile
	if profile == "" {
		profiles, err := aws.ListProfiles()
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}
		if !ui.IsTerminal(os.Stdin) {
			return errors.New("--profile is required when not running in a terminal")
		}
		profile, err = ui.SelectProfile(profiles, os.Getenv("AWS_PROFILE"))
		if err != nil {
			return err
		}
	} else if !aws.ValidateProfile(profile) {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.WarnStyle.Render(fmt.Sprintf("Warning: profile %q not found in the shared AWS config files", profile)))
	}

	ctx := &config.Context{
		Profile:     profile,
		Region:      useAddRegion,
		EndpointURL: useAddEndpoint,
	}
	if err := config.AddContext(contextName, ctx); err != nil {
		return fmt.Errorf("failed to add context: %w", err)
	}

	fmt.Fprintf(out, "Context added: %s\n", contextName)
	fmt.Fprintln(out, "\nTo use this context:")
	fmt.Fprintf(out, "  appsctl use %s\n", contextName)

	return nil
}

func runUseDelete(cmd *cobra.Command, args []string) error {
	contextName := args[0]

	if err := config.DeleteContext(contextName); err != nil {
		return fmt.Errorf("failed to delete context: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Context deleted: %s\n", contextName)
	return nil
}
