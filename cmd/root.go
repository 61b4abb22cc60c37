package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appstreamcmd "github.com/vietdv277/appsctl/cmd/appstream"
	"github.com/vietdv277/appsctl/internal/cli"
	"github.com/vietdv277/appsctl/internal/config"
	"github.com/vietdv277/appsctl/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "appsctl",
	Short: "appsctl - command line adapter for Amazon AppStream 2.0",
	Long: `appsctl exposes Amazon AppStream 2.0 operations as verb-noun commands.
Each command binds its flags to the operation's request, asks for confirmation
before changing anything, calls the service and prints the selected part of
the response.

Context-Aware Commands:
  appsctl use prod                       # Switch to the "prod" context
  appsctl status                         # Show current context and auth status
  appsctl contexts                       # List all configured contexts

AppStream Commands:
  appsctl appstream describe-stacks                  # List stacks
  appsctl appstream describe-theme-for-stack kiosk   # Show a stack's theme
  appsctl appstream stop-fleet kiosk --force         # Stop a fleet without prompting
  cat fleets.txt | appsctl appstream start-fleet --force
  appsctl appstream operations                       # List every operation`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupEnv,
}

// Execute runs the root command. An interrupt cancels the running operation.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, cli.ErrReported) {
			fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("Error: "+err.Error()))
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()

	// Global persistent flags (available to all subcommands)
	flags.StringP(config.KeyProfile, "p", "", "AWS profile to use")
	flags.StringP(config.KeyRegion, "r", "", "AWS region to use")
	flags.StringP(config.KeyContext, "c", "", "context to use instead of the current one")
	flags.String(config.KeyEndpointURL, "", "override the AppStream endpoint URL")
	flags.Int(config.KeyMaxAttempts, 0, "maximum attempts per call, including retries (0 uses the SDK default)")
	flags.StringP(config.KeyOutput, "o", "", "output format: json, yaml, table or text")
	flags.String(cli.KeyQuery, "", "jq expression applied to the selected output")
	flags.BoolP(cli.KeyVerbose, "v", false, "enable debug logging")

	// Bind flags to viper
	for _, key := range []string{
		config.KeyProfile, config.KeyRegion, config.KeyContext, config.KeyEndpointURL,
		config.KeyMaxAttempts, config.KeyOutput, cli.KeyQuery, cli.KeyVerbose,
	} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(appstreamcmd.AppStreamCmd)
}

// initConfig reads APPSCTL_* environment variables, e.g. APPSCTL_ENDPOINT_URL
func initConfig() {
	viper.SetEnvPrefix("APPSCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// skipEnv marks commands that only manage local configuration and must work
// even when the current settings cannot be resolved
const skipEnv = "appsctl/skip-env"

func setupEnv(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipEnv] == "true" {
		return nil
	}

	env, err := cli.New(viper.GetViper(), os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cmd.SetContext(cli.WithEnv(cmd.Context(), env))
	return nil
}
