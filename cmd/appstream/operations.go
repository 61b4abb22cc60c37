package appstream

import (
	"github.com/spf13/cobra"

	"github.com/vietdv277/appsctl/internal/aws"
	"github.com/vietdv277/appsctl/internal/cli"
	"github.com/vietdv277/appsctl/internal/config"
	"github.com/vietdv277/appsctl/internal/ui"
)

var operationsCmd = &cobra.Command{
	Use:     "operations",
	Aliases: []string{"ops"},
	Short:   "List the available AppStream operations",
	Long: `List every AppStream operation with its command, whether it changes
resources, the part of the response it prints by default and the parameter
accepted on stdin.

Examples:
  appsctl appstream operations
  appsctl appstream operations -o json --query '.[] | select(.Mutating) | .Command'`,
	Args: cobra.NoArgs,
	RunE: runOperations,
}

// operationInfo is the listing form of an operation
type operationInfo struct {
	Name          string
	Command       string
	Mutating      bool
	DefaultSelect string
	Pipeline      string `json:",omitempty"`
	Description   string
}

func operationInfos() []operationInfo {
	ops := aws.Operations()
	infos := make([]operationInfo, len(ops))
	for i, op := range ops {
		infos[i] = operationInfo{
			Name:          op.Name,
			Command:       op.CommandName(),
			Mutating:      op.Mutating,
			DefaultSelect: op.DefaultSelect,
			Description:   op.Description,
		}
		if p, ok := op.PipelineParam(); ok {
			infos[i].Pipeline = p.Name
		}
	}
	return infos
}

func runOperations(cmd *cobra.Command, args []string) error {
	env, err := cli.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	infos := operationInfos()

	// The table is the default here; an explicit --output goes through the printer
	if cmd.Flags().Changed(config.KeyOutput) {
		return env.Printer.Print(infos)
	}

	t := ui.NewTable("Command", "Operation", "Mutating", "Select", "Stdin")
	t.Styles[0] = ui.NameStyle
	t.Styles[1] = ui.MutedStyle
	t.Styles[2] = ui.WarnStyle
	for _, info := range infos {
		mutating := ""
		if info.Mutating {
			mutating = "yes"
		}
		t.AddRow(info.Command, info.Name, mutating, info.DefaultSelect, info.Pipeline)
	}
	return t.Print(env.Stdout)
}
