package appstream

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vietdv277/appsctl/internal/adapter"
	"github.com/vietdv277/appsctl/internal/aws"
	"github.com/vietdv277/appsctl/internal/cli"
	"github.com/vietdv277/appsctl/internal/ui"
)

// newOperationCmd builds the command for one operation descriptor
func newOperationCmd(op *aws.Operation) *cobra.Command {
	use := op.CommandName()
	args := cobra.NoArgs
	if p, ok := positionalParam(op); ok {
		placeholder := strings.ToUpper(strings.ReplaceAll(flagName(p), "-", "_"))
		if p.Kind == adapter.KindStringList {
			use += " [" + placeholder + "...]"
			args = cobra.ArbitraryArgs
		} else {
			use += " [" + placeholder + "]"
			args = cobra.MaximumNArgs(1)
		}
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: op.Description,
		Long:  operationHelp(op),
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, op, args)
		},
	}

	cmd.Flags().String("select", "", `part of the response to print: a field name, "*" for the whole response or "^Param" for an input value`)
	if op.Mutating {
		cmd.Flags().Bool("force", false, "skip the confirmation prompt")
	}
	addParamFlags(cmd.Flags(), op)

	return cmd
}

func operationHelp(op *aws.Operation) string {
	var sb strings.Builder
	sb.WriteString(op.Description + ".\n\n")
	fmt.Fprintf(&sb, "Calls the AppStream %s operation.\n", op.Name)

	sel := op.DefaultSelect
	if sel == "" || sel == "*" {
		sel = "the whole response"
	}
	fmt.Fprintf(&sb, "Prints %s unless --select is given.\n", sel)

	if op.Mutating {
		sb.WriteString("This operation changes resources and asks for confirmation unless --force is set.\n")
	}
	if p, ok := op.PipelineParam(); ok {
		fmt.Fprintf(&sb, "Reads %s values from stdin, one per line, when it is not given as an argument.\n", p.Name)
	}
	return sb.String()
}

func runOperation(cmd *cobra.Command, op *aws.Operation, args []string) error {
	env, err := cli.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	params, err := collectParams(cmd.Flags(), op, args)
	if err != nil {
		return err
	}

	selectExpr, _ := cmd.Flags().GetString("select")
	if _, err := op.ResolveSelector(selectExpr); err != nil {
		return err
	}

	force := false
	if op.Mutating {
		force, _ = cmd.Flags().GetBool("force")
	}

	a := adapter.New(env.Client,
		adapter.WithConfirmer[aws.API](env.Confirmer),
		adapter.WithLogger[aws.API](env.Logger),
	)
	req := adapter.Request{Params: params, Select: selectExpr, Force: force}

	var piped []any
	pipeParam, hasPipe := op.PipelineParam()
	if _, set := params[pipeParam.Name]; hasPipe && !set {
		piped, err = readPipedValues(env.Stdin)
		if err != nil {
			return err
		}
	}

	if len(piped) == 0 {
		e := a.Run(ctx, op, req)
		if !report(env, e) {
			return cli.ErrReported
		}
		return nil
	}

	failed := 0
	envs := a.Batch(ctx, op, req, pipeParam.Name, piped, func(e adapter.Envelope) {
		if !report(env, e) {
			failed++
		}
	})
	return summarize(ctx, env.Stderr, envs, len(piped), failed)
}

// report prints one envelope: the output on stdout, or the failure on stderr.
// It returns false when the invocation failed.
func report(env *cli.Env, e adapter.Envelope) bool {
	prefix := ""
	if e.Input != nil {
		prefix = fmt.Sprintf("[%v] ", e.Input)
	}

	switch {
	case e.Err != nil:
		msg := aws.DescribeError(e.Err)
		if aws.IsFault(e.Err) {
			msg += " (service fault, the call may be retried)"
		}
		fmt.Fprintln(env.Stderr, ui.ErrorStyle.Render("✗ "+prefix+msg))
		return false

	case e.Skipped:
		fmt.Fprintln(env.Stderr, ui.MutedStyle.Render("- "+prefix+e.Operation+" declined, nothing was changed"))
		return true
	}

	if err := env.Printer.Print(e.Output); err != nil {
		fmt.Fprintln(env.Stderr, ui.ErrorStyle.Render("✗ "+prefix+err.Error()))
		return false
	}
	return true
}

// summarize reports the batch outcome and turns failures into a non-zero exit
func summarize(ctx context.Context, w io.Writer, envs []adapter.Envelope, total, failed int) error {
	s := adapter.Summarize(envs)
	// Output errors are counted as failures too.
	s.Succeeded -= failed - s.Failed
	s.Failed = failed

	line := fmt.Sprintf("%d succeeded, %d failed, %d skipped", s.Succeeded, s.Failed, s.Skipped)
	if len(envs) < total {
		line += fmt.Sprintf(", stopped after %d of %d", len(envs), total)
	}
	fmt.Fprintln(w, ui.MutedStyle.Render(line))

	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", adapter.ErrCancelled, ctx.Err())
	}
	if s.Failed > 0 {
		return cli.ErrReported
	}
	return nil
}
