package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietdv277/appsctl/internal/config"
	"github.com/vietdv277/appsctl/internal/ui"
)

var contextsCmd = &cobra.Command{
	Use:     "contexts",
	Aliases: []string{"ctx"},
	Short:   "List all configured contexts",
	Long: `List all configured contexts.

The current active context is marked with an asterisk (*).

Examples:
  appsctl contexts
  appsctl ctx`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipEnv: "true"},
	RunE:        runContexts,
}

func init() {
	rootCmd.AddCommand(contextsCmd)
}

func runContexts(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	contexts, names, current, err := config.ListContexts()
	if err != nil {
		return fmt.Errorf("failed to list contexts: %w", err)
	}

	if len(names) == 0 {
		fmt.Fprintln(out, "No contexts configured.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Add a context with:")
		fmt.Fprintln(out, "  appsctl use add <name> --profile <profile> --region <region>")
		return nil
	}

	return ui.PrintContextTable(out, contexts, current)
}
