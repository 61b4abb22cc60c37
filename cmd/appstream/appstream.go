package appstream

import (
	"github.com/spf13/cobra"

	"github.com/vietdv277/appsctl/internal/aws"
)

// AppStreamCmd is the root command for AppStream operations
var AppStreamCmd = &cobra.Command{
	Use:     "appstream",
	Aliases: []string{"as"},
	Short:   "Amazon AppStream 2.0 operations",
	Long: `Run Amazon AppStream 2.0 operations. Every operation is a verb-noun
command whose flags map onto the fields of the service request.

Mutating operations ask for confirmation; --force skips the prompt. When
stdin is not a terminal the prompt declines, so scripts must pass --force.

Operations that act on a single named resource accept names on stdin, one
per line, and run once per name:

Examples:
  appsctl appstream describe-fleets
  appsctl appstream describe-fleets kiosk design -o table
  appsctl appstream list-associated-stacks kiosk --select '*'
  appsctl appstream enable-user jane@example.com --authentication-type USERPOOL
  cat users.txt | appsctl appstream disable-user --authentication-type USERPOOL --force
  appsctl appstream tag-resource arn:aws:appstream:... --tags team=cad,env=prod`,
}

func init() {
	AppStreamCmd.AddCommand(operationsCmd)

	for _, op := range aws.Operations() {
		AppStreamCmd.AddCommand(newOperationCmd(op))
	}
}
