package appstream

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/appstream"
	"github.com/aws/aws-sdk-go-v2/service/appstream/types"
	"github.com/aws/smithy-go"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietdv277/appsctl/internal/adapter"
	"github.com/vietdv277/appsctl/internal/aws"
	"github.com/vietdv277/appsctl/internal/cli"
	"github.com/vietdv277/appsctl/internal/ui"
)

type fakeAPI struct {
	aws.API

	stopped  []*string
	describe *appstream.DescribeFleetsInput
	enable   *appstream.EnableUserInput
	tag      *appstream.TagResourceInput
}

func (f *fakeAPI) StopFleet(_ context.Context, in *appstream.StopFleetInput, _ ...func(*appstream.Options)) (*appstream.StopFleetOutput, error) {
	f.stopped = append(f.stopped, in.Name)
	if in.Name != nil && *in.Name == "broken" {
		return nil, &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "fleet broken not found"}
	}
	return &appstream.StopFleetOutput{}, nil
}

func (f *fakeAPI) DescribeFleets(_ context.Context, in *appstream.DescribeFleetsInput, _ ...func(*appstream.Options)) (*appstream.DescribeFleetsOutput, error) {
	f.describe = in
	fleets := make([]types.Fleet, len(in.Names))
	for i := range in.Names {
		fleets[i] = types.Fleet{Name: &in.Names[i]}
	}
	return &appstream.DescribeFleetsOutput{Fleets: fleets}, nil
}

func (f *fakeAPI) EnableUser(_ context.Context, in *appstream.EnableUserInput, _ ...func(*appstream.Options)) (*appstream.EnableUserOutput, error) {
	f.enable = in
	return &appstream.EnableUserOutput{}, nil
}

func (f *fakeAPI) TagResource(_ context.Context, in *appstream.TagResourceInput, _ ...func(*appstream.Options)) (*appstream.TagResourceOutput, error) {
	f.tag = in
	return &appstream.TagResourceOutput{}, nil
}

type harness struct {
	api    *fakeAPI
	stdin  *os.File
	answer bool
	asked  int
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness() *harness {
	return &harness{api: &fakeAPI{}}
}

func (h *harness) pipe(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	h.stdin = f
}

func (h *harness) run(t *testing.T, command string, args ...string) error {
	t.Helper()
	op, ok := aws.LookupOperation(command)
	require.True(t, ok, "unknown command %s", command)

	printer, err := ui.NewPrinter(&h.stdout, "json", "")
	require.NoError(t, err)

	env := &cli.Env{
		Logger: log.New(io.Discard),
		Client: func(context.Context) (aws.API, error) { return h.api, nil },
		Confirmer: adapter.ConfirmFunc(func(context.Context, string) (bool, error) {
			h.asked++
			return h.answer, nil
		}),
		Printer: printer,
		Stdin:   h.stdin,
		Stdout:  &h.stdout,
		Stderr:  &h.stderr,
	}

	cmd := newOperationCmd(op)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(args)
	cmd.SetOut(&h.stdout)
	cmd.SetErr(&h.stderr)
	return cmd.ExecuteContext(cli.WithEnv(context.Background(), env))
}

func TestStopFleet_ForcedEchoesName(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.run(t, "stop-fleet", "kiosk", "--force"))

	require.Len(t, h.api.stopped, 1)
	assert.Equal(t, "kiosk", *h.api.stopped[0])
	assert.Equal(t, 0, h.asked)
	assert.Equal(t, "\"kiosk\"\n", h.stdout.String())
}

func TestStopFleet_DeclinedMakesNoCall(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.run(t, "stop-fleet", "kiosk"))

	assert.Equal(t, 1, h.asked)
	assert.Empty(t, h.api.stopped)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "declined")
}

func TestStopFleet_BatchFromStdinIsolatesFailures(t *testing.T) {
	h := newHarness()
	h.pipe(t, "kiosk\nbroken\n\n# staging fleets\ndesign\n")

	err := h.run(t, "stop-fleet", "--force")
	require.ErrorIs(t, err, cli.ErrReported)

	require.Len(t, h.api.stopped, 3)
	assert.Equal(t, "design", *h.api.stopped[2])
	assert.Equal(t, "\"kiosk\"\n\"design\"\n", h.stdout.String())

	stderr := h.stderr.String()
	assert.Contains(t, stderr, "[broken] ResourceNotFoundException: fleet broken not found")
	assert.Contains(t, stderr, "2 succeeded, 1 failed, 0 skipped")
}

func TestStopFleet_ArgumentWinsOverStdin(t *testing.T) {
	h := newHarness()
	h.pipe(t, "design\n")

	require.NoError(t, h.run(t, "stop-fleet", "kiosk", "--force"))
	require.Len(t, h.api.stopped, 1)
	assert.Equal(t, "kiosk", *h.api.stopped[0])
}

func TestStopFleet_MissingRequiredStillDispatches(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.run(t, "stop-fleet", "--force"))
	require.Len(t, h.api.stopped, 1)
	assert.Nil(t, h.api.stopped[0])
}

func TestStopFleet_ArgumentAndFlagConflict(t *testing.T) {
	h := newHarness()

	err := h.run(t, "stop-fleet", "kiosk", "--name", "design", "--force")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both as argument and --name")
	assert.Empty(t, h.api.stopped)
}

func TestDescribeFleets_ListArguments(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.run(t, "describe-fleets", "kiosk", "design"))
	assert.Equal(t, []string{"kiosk", "design"}, h.api.describe.Names)
	assert.Contains(t, h.stdout.String(), `"Name": "design"`)
}

func TestDescribeFleets_InvalidSelector(t *testing.T) {
	h := newHarness()

	err := h.run(t, "describe-fleets", "--select", "Nope")
	require.ErrorIs(t, err, adapter.ErrInvalidSelector)
	assert.Nil(t, h.api.describe)
}

func TestDescribeFleets_WholeResponse(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.run(t, "describe-fleets", "kiosk", "--select", "*"))
	assert.Contains(t, h.stdout.String(), `"Fleets"`)
	assert.NotContains(t, h.stdout.String(), "ResultMetadata")
}

func TestEnableUser_EnumIsCanonicalized(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.run(t, "enable-user", "jane@example.com", "--authentication-type", "userpool", "--force"))
	assert.Equal(t, types.AuthenticationTypeUserpool, h.api.enable.AuthenticationType)
	assert.Equal(t, "jane@example.com", *h.api.enable.UserName)

	err := h.run(t, "enable-user", "jane@example.com", "--authentication-type", "bogus", "--force")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one of")
}

func TestTagResource_MapFlag(t *testing.T) {
	h := newHarness()
	arn := "arn:aws:appstream:us-east-1:123456789012:fleet/kiosk"

	require.NoError(t, h.run(t, "tag-resource", arn, "--tags", "team=cad,env=prod", "--force"))
	assert.Equal(t, map[string]string{"team": "cad", "env": "prod"}, h.api.tag.Tags)
	assert.Equal(t, arn, *h.api.tag.ResourceArn)
}

func TestBatchAssociate_InvalidJSON(t *testing.T) {
	h := newHarness()

	err := h.run(t, "batch-associate-user-stack", "--user-stack-associations", "{", "--force")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON for --user-stack-associations")
}

func TestAppStreamCmd_RegistersEveryOperation(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range AppStreamCmd.Commands() {
		names[c.Name()] = true
	}

	for _, op := range aws.Operations() {
		assert.True(t, names[op.CommandName()], "missing command for %s", op.Name)
	}
	assert.True(t, names["operations"])
}

func TestOperationCmd_FlagsFollowDescriptor(t *testing.T) {
	op, ok := aws.LookupOperation("CreateStreamingURL")
	require.True(t, ok)
	cmd := newOperationCmd(op)

	assert.NotNil(t, cmd.Flags().Lookup("force"))
	assert.NotNil(t, cmd.Flags().Lookup("stack-name"))
	assert.NotNil(t, cmd.Flags().Lookup("validity"))
	assert.Equal(t, "create-streaming-url [USER_ID]", cmd.Use)

	op, ok = aws.LookupOperation("DescribeStacks")
	require.True(t, ok)
	cmd = newOperationCmd(op)
	assert.Nil(t, cmd.Flags().Lookup("force"))
	assert.Equal(t, "describe-stacks [NAMES...]", cmd.Use)
}

func TestOperationInfos(t *testing.T) {
	infos := operationInfos()
	require.Len(t, infos, len(aws.Operations()))

	var stop operationInfo
	for _, info := range infos {
		if info.Name == "StopFleet" {
			stop = info
		}
	}
	assert.Equal(t, operationInfo{
		Name:          "StopFleet",
		Command:       "stop-fleet",
		Mutating:      true,
		DefaultSelect: "^Name",
		Pipeline:      "Name",
		Description:   "Stop a fleet",
	}, stop)
}
