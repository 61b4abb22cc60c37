package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMode string

type stackRequest struct {
	StackName *string
	Limit     *int32
	Names     []string
	Tags      map[string]string
	Enabled   *bool
	Mode      testMode
}

type stackResponse struct {
	Name  *string
	Count int
	Tags  map[string]string
}

type fakeClient struct {
	calls    int
	requests []*stackRequest
	invoke   func(ctx context.Context, req *stackRequest) (*stackResponse, error)
}

func (c *fakeClient) Call(ctx context.Context, req *stackRequest) (*stackResponse, error) {
	c.calls++
	c.requests = append(c.requests, req)
	if c.invoke != nil {
		return c.invoke(ctx, req)
	}
	name := "from-service"
	return &stackResponse{Name: &name, Count: 3}, nil
}

func newDescriptor(mutating bool) *Descriptor[*fakeClient] {
	return &Descriptor[*fakeClient]{
		Name: "UpdateStack",
		Params: []Param{
			{Name: "StackName", Kind: KindString, Required: true, Positional: true, Pipeline: true},
			{Name: "Limit", Kind: KindInt},
			{Name: "Names", Kind: KindStringList},
			{Name: "Tags", Kind: KindStringMap},
			{Name: "Enabled", Kind: KindBool},
			{Name: "Mode", Kind: KindEnum, Enum: []string{"FAST", "SLOW"}},
		},
		DefaultSelect: "Name",
		Mutating:      mutating,
		NewRequest:    func() any { return new(stackRequest) },
		ResponseType:  reflect.TypeOf(stackResponse{}),
		Invoke: func(ctx context.Context, c *fakeClient, req any) (any, error) {
			return c.Call(ctx, req.(*stackRequest))
		},
	}
}

func newTestAdapter(client *fakeClient, opts ...Option[*fakeClient]) *Adapter[*fakeClient] {
	logger := log.New(io.Discard)
	opts = append([]Option[*fakeClient]{WithLogger[*fakeClient](logger)}, opts...)
	return New(func(context.Context) (*fakeClient, error) { return client, nil }, opts...)
}

func confirmWith(answer bool, asked *int) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) {
		*asked++
		return answer, nil
	})
}

func TestRun_MissingRequiredWarnsAndDispatches(t *testing.T) {
	client := &fakeClient{}
	a := newTestAdapter(client)

	env := a.Run(context.Background(), newDescriptor(false), Request{})

	require.NoError(t, env.Err)
	assert.True(t, env.OK())
	require.Len(t, env.Warnings, 1)
	assert.Contains(t, env.Warnings[0], "StackName")
	assert.Equal(t, 1, client.calls)
	assert.Nil(t, client.requests[0].StackName)
}

func TestBind_StoresNilForMissingRequired(t *testing.T) {
	inv, err := Bind(newDescriptor(false), map[string]any{"StackName": nil}, "", nil)
	require.NoError(t, err)

	value, present := inv.Values["StackName"]
	assert.True(t, present)
	assert.Nil(t, value)
	assert.Len(t, inv.Warnings, 1)
}

func TestBind_CanonicalizesParameterNames(t *testing.T) {
	inv, err := Bind(newDescriptor(false), map[string]any{"stackname": "web"}, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "web", inv.Values["StackName"])
	assert.Empty(t, inv.Warnings)
}

func TestBind_UnknownParameter(t *testing.T) {
	_, err := Bind(newDescriptor(false), map[string]any{"Bogus": "x"}, "", nil)
	require.ErrorIs(t, err, ErrUnknownParameter)
}

func TestBind_InvalidSelector(t *testing.T) {
	tests := []string{"NoSuchField", "^NoSuchParam", "^", "Name.Inner"}
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := Bind(newDescriptor(false), map[string]any{"StackName": "web"}, expr, nil)
			require.ErrorIs(t, err, ErrInvalidSelector)
		})
	}
}

func TestRun_InvalidSelectorIsCapturedWithoutDispatch(t *testing.T) {
	client := &fakeClient{}
	a := newTestAdapter(client)

	env := a.Run(context.Background(), newDescriptor(false), Request{
		Params: map[string]any{"StackName": "web"},
		Select: "Missing",
	})

	require.ErrorIs(t, env.Err, ErrInvalidSelector)
	assert.Zero(t, client.calls)
}

func TestBuildRequest_OmitsAbsentValues(t *testing.T) {
	req := new(stackRequest)
	err := buildRequest(req, map[string]any{
		"StackName": "",
		"Limit":     nil,
		"Names":     []string(nil),
		"Tags":      map[string]string{"team": "media"},
		"Enabled":   false,
		"Mode":      "FAST",
	})
	require.NoError(t, err)

	assert.Nil(t, req.StackName)
	assert.Nil(t, req.Limit)
	assert.Nil(t, req.Names)
	assert.Equal(t, map[string]string{"team": "media"}, req.Tags)
	require.NotNil(t, req.Enabled)
	assert.False(t, *req.Enabled)
	assert.Equal(t, testMode("FAST"), req.Mode)
}

func TestBuildRequest_ConvertsScalars(t *testing.T) {
	req := new(stackRequest)
	err := buildRequest(req, map[string]any{
		"StackName": "web",
		"Limit":     int64(25),
		"Names":     []string{"a", "b"},
	})
	require.NoError(t, err)

	require.NotNil(t, req.StackName)
	assert.Equal(t, "web", *req.StackName)
	require.NotNil(t, req.Limit)
	assert.Equal(t, int32(25), *req.Limit)
	assert.Equal(t, []string{"a", "b"}, req.Names)
}

func TestBuildRequest_RejectsNarrowingIntegers(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"wraps to zero", 1 << 32},
		{"wraps to one", int64(1<<32 + 1)},
		{"far above", 1 << 40},
		{"below minimum", int64(math.MinInt32) - 1},
		{"large float", float64(1 << 40)},
		{"large unsigned", uint64(1 << 63)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := new(stackRequest)
			err := buildRequest(req, map[string]any{"Limit": tt.value})
			require.ErrorIs(t, err, ErrValueOutOfRange)
			assert.Nil(t, req.Limit)
		})
	}
}

func TestBuildRequest_AcceptsIntegerBounds(t *testing.T) {
	for _, v := range []int{math.MaxInt32, math.MinInt32} {
		req := new(stackRequest)
		require.NoError(t, buildRequest(req, map[string]any{"Limit": v}))
		require.NotNil(t, req.Limit)
		assert.Equal(t, int32(v), *req.Limit)
	}
}

func TestRun_OutOfRangeIntegerIsNotDispatched(t *testing.T) {
	client := &fakeClient{}
	a := newTestAdapter(client)

	env := a.Run(context.Background(), newDescriptor(false), Request{
		Params: map[string]any{"StackName": "web", "Limit": 4294967296},
	})

	require.ErrorIs(t, env.Err, ErrValueOutOfRange)
	assert.Zero(t, client.calls)
}

func TestBuildRequest_RejectsUnknownField(t *testing.T) {
	err := buildRequest(new(stackRequest), map[string]any{"Unknown": "x"})
	require.Error(t, err)
}

func TestRun_DeclineSkipsRemoteCall(t *testing.T) {
	client := &fakeClient{}
	asked := 0
	a := newTestAdapter(client, WithConfirmer[*fakeClient](confirmWith(false, &asked)))

	env := a.Run(context.Background(), newDescriptor(true), Request{
		Params: map[string]any{"StackName": "web"},
	})

	assert.NoError(t, env.Err)
	assert.True(t, env.Skipped)
	assert.False(t, env.OK())
	assert.Equal(t, 1, asked)
	assert.Zero(t, client.calls)
}

func TestRun_ForceBypassesConfirmation(t *testing.T) {
	client := &fakeClient{}
	asked := 0
	a := newTestAdapter(client, WithConfirmer[*fakeClient](confirmWith(false, &asked)))

	env := a.Run(context.Background(), newDescriptor(true), Request{
		Params: map[string]any{"StackName": "web"},
		Force:  true,
	})

	require.NoError(t, env.Err)
	assert.Zero(t, asked)
	assert.Equal(t, 1, client.calls)
}

func TestRun_AcceptedConfirmationDispatches(t *testing.T) {
	client := &fakeClient{}
	asked := 0
	a := newTestAdapter(client, WithConfirmer[*fakeClient](confirmWith(true, &asked)))

	env := a.Run(context.Background(), newDescriptor(true), Request{
		Params: map[string]any{"StackName": "web"},
	})

	require.NoError(t, env.Err)
	assert.Equal(t, 1, asked)
	assert.Equal(t, 1, client.calls)
}

func TestConfirm_ReadOnlyNeverPrompts(t *testing.T) {
	asked := 0
	a := newTestAdapter(&fakeClient{}, WithConfirmer[*fakeClient](confirmWith(false, &asked)))

	ok, err := a.Confirm(context.Background(), false, false, "web")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, asked)
}

func TestConfirm_NoConfirmerDeclines(t *testing.T) {
	a := newTestAdapter(&fakeClient{})

	ok, err := a.Confirm(context.Background(), true, false, "web")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirm_PromptNamesTarget(t *testing.T) {
	var prompt string
	a := newTestAdapter(&fakeClient{}, WithConfirmer[*fakeClient](ConfirmFunc(func(_ context.Context, p string) (bool, error) {
		prompt = p
		return true, nil
	})))

	env := a.Run(context.Background(), newDescriptor(true), Request{Params: map[string]any{"StackName": "web"}})
	require.NoError(t, env.Err)
	assert.Contains(t, prompt, "web (UpdateStack)")
}

func TestRun_CancelledDuringConfirmation(t *testing.T) {
	client := &fakeClient{}
	ctx, cancel := context.WithCancel(context.Background())
	a := newTestAdapter(client, WithConfirmer[*fakeClient](ConfirmFunc(func(ctx context.Context, _ string) (bool, error) {
		cancel()
		<-ctx.Done()
		return false, ctx.Err()
	})))

	env := a.Run(ctx, newDescriptor(true), Request{Params: map[string]any{"StackName": "web"}})

	require.ErrorIs(t, env.Err, ErrCancelled)
	assert.ErrorIs(t, env.Err, context.Canceled)
	assert.False(t, env.Skipped)
	assert.Zero(t, client.calls)
}

func TestRun_SelectorModes(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		expect func(t *testing.T, env Envelope)
	}{
		{
			name: "wildcard returns whole response",
			expr: "*",
			expect: func(t *testing.T, env Envelope) {
				assert.Same(t, env.Response, env.Output)
			},
		},
		{
			name: "field returns that field",
			expr: "Count",
			expect: func(t *testing.T, env Envelope) {
				assert.Equal(t, 3, env.Output)
			},
		},
		{
			name: "field match ignores case",
			expr: "count",
			expect: func(t *testing.T, env Envelope) {
				assert.Equal(t, 3, env.Output)
			},
		},
		{
			name: "caret echoes bound parameter",
			expr: "^StackName",
			expect: func(t *testing.T, env Envelope) {
				assert.Equal(t, "web", env.Output)
			},
		},
		{
			name: "default uses descriptor selector",
			expr: "",
			expect: func(t *testing.T, env Envelope) {
				name, ok := env.Output.(*string)
				require.True(t, ok)
				assert.Equal(t, "from-service", *name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(&fakeClient{})
			env := a.Run(context.Background(), newDescriptor(false), Request{
				Params: map[string]any{"StackName": "web"},
				Select: tt.expr,
			})
			require.NoError(t, env.Err)
			tt.expect(t, env)
		})
	}
}

func TestBatch_FailureIsIsolated(t *testing.T) {
	serviceErr := errors.New("ResourceNotFoundException: stack b not found")
	client := &fakeClient{
		invoke: func(_ context.Context, req *stackRequest) (*stackResponse, error) {
			if *req.StackName == "b" {
				return nil, serviceErr
			}
			return &stackResponse{Name: req.StackName}, nil
		},
	}
	a := newTestAdapter(client)

	var emitted []Envelope
	envs := a.Batch(context.Background(), newDescriptor(false), Request{Select: "^StackName"}, "StackName",
		[]any{"a", "b", "c"}, func(env Envelope) { emitted = append(emitted, env) })

	require.Len(t, envs, 3)
	assert.Equal(t, envs, emitted)
	assert.Equal(t, 3, client.calls)

	assert.NoError(t, envs[0].Err)
	assert.Equal(t, "a", envs[0].Output)
	assert.ErrorIs(t, envs[1].Err, serviceErr)
	assert.Equal(t, "b", envs[1].Input)
	assert.NoError(t, envs[2].Err)
	assert.Equal(t, "c", envs[2].Output)

	assert.Equal(t, Summary{Succeeded: 2, Failed: 1}, Summarize(envs))
}

func TestBatch_DoesNotShareParams(t *testing.T) {
	client := &fakeClient{}
	a := newTestAdapter(client)
	base := Request{Params: map[string]any{"Limit": 5}}

	a.Batch(context.Background(), newDescriptor(false), base, "StackName", []any{"a", "b"}, nil)

	assert.NotContains(t, base.Params, "StackName")
	require.Len(t, client.requests, 2)
	assert.Equal(t, "a", *client.requests[0].StackName)
	assert.Equal(t, "b", *client.requests[1].StackName)
}

func TestExecute_RemapsNameResolutionFailure(t *testing.T) {
	dnsErr := &net.DNSError{Err: "no such host", Name: "appstream2.moon-1.amazonaws.com", IsNotFound: true}
	client := &fakeClient{
		invoke: func(context.Context, *stackRequest) (*stackResponse, error) {
			return nil, fmt.Errorf("operation error AppStream: DescribeStacks, https response error: %w",
				&net.OpError{Op: "dial", Net: "tcp", Err: dnsErr})
		},
	}
	a := newTestAdapter(client)

	env := a.Run(context.Background(), newDescriptor(false), Request{Params: map[string]any{"StackName": "web"}})

	var resErr *EndpointResolutionError
	require.ErrorAs(t, env.Err, &resErr)
	assert.Equal(t, "appstream2.moon-1.amazonaws.com", resErr.Host)
	assert.Contains(t, env.Err.Error(), "name resolution failed")
	assert.NotContains(t, env.Err.Error(), "no such host")
	assert.ErrorIs(t, env.Err, dnsErr)
}

func TestExecute_OtherErrorsKeepDetail(t *testing.T) {
	apiErr := errors.New("AccessDeniedException: not authorized")
	client := &fakeClient{
		invoke: func(context.Context, *stackRequest) (*stackResponse, error) { return nil, apiErr },
	}
	a := newTestAdapter(client)

	env := a.Run(context.Background(), newDescriptor(false), Request{Params: map[string]any{"StackName": "web"}})
	assert.Equal(t, apiErr, env.Err)
}

func TestExecute_CancelledBeforeDispatch(t *testing.T) {
	client := &fakeClient{}
	a := newTestAdapter(client)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := a.Run(ctx, newDescriptor(false), Request{Params: map[string]any{"StackName": "web"}})

	require.ErrorIs(t, env.Err, ErrCancelled)
	assert.Nil(t, env.Output)
	assert.Zero(t, client.calls)
}

func TestExecute_CancelInFlight(t *testing.T) {
	started := make(chan struct{})
	client := &fakeClient{
		invoke: func(ctx context.Context, _ *stackRequest) (*stackResponse, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	a := newTestAdapter(client)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan Envelope, 1)
	go func() {
		done <- a.Run(ctx, newDescriptor(false), Request{Params: map[string]any{"StackName": "web"}})
	}()

	<-started
	cancel()
	env := <-done

	require.ErrorIs(t, env.Err, ErrCancelled)
	assert.ErrorIs(t, env.Err, context.Canceled)
	assert.Nil(t, env.Output)
}

func TestBatch_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &fakeClient{}
	client.invoke = func(context.Context, *stackRequest) (*stackResponse, error) {
		cancel()
		return &stackResponse{}, nil
	}
	a := newTestAdapter(client)

	envs := a.Batch(ctx, newDescriptor(false), Request{}, "StackName", []any{"a", "b", "c"}, nil)

	assert.Len(t, envs, 1)
	assert.Equal(t, 1, client.calls)
}

func TestExecute_ClientCreationFailure(t *testing.T) {
	a := New(func(context.Context) (*fakeClient, error) {
		return nil, errors.New("no credentials")
	}, WithLogger[*fakeClient](log.New(io.Discard)))

	env := a.Run(context.Background(), newDescriptor(false), Request{Params: map[string]any{"StackName": "web"}})

	require.Error(t, env.Err)
	assert.Contains(t, env.Err.Error(), "no credentials")
}
