package adapter

import (
	"context"
	"fmt"
	"maps"

	"github.com/charmbracelet/log"
)

// ClientFunc returns the client operations are dispatched through. It is
// called once per invocation and is expected to hand out a shared client.
type ClientFunc[C any] func(ctx context.Context) (C, error)

// Confirmer asks the user whether a mutating operation should proceed
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Adapter executes descriptors of one client type
type Adapter[C any] struct {
	client    ClientFunc[C]
	confirmer Confirmer
	logger    *log.Logger
}

// Option customizes an Adapter
type Option[C any] func(*Adapter[C])

// WithConfirmer sets the prompt used for mutating operations
func WithConfirmer[C any](c Confirmer) Option[C] {
	return func(a *Adapter[C]) {
		a.confirmer = c
	}
}

// WithLogger sets the logger for binding warnings and dispatch tracing
func WithLogger[C any](l *log.Logger) Option[C] {
	return func(a *Adapter[C]) {
		a.logger = l
	}
}

// New creates an Adapter dispatching through client
func New[C any](client ClientFunc[C], opts ...Option[C]) *Adapter[C] {
	a := &Adapter[C]{
		client: client,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = log.Default()
	}
	return a
}

// Request is one invocation's input: the named parameter values, the
// selector expression and whether confirmation is bypassed
type Request struct {
	Params map[string]any
	Select string
	Force  bool
	Input  any
}

// Bind binds req to d. Warnings for missing required parameters are logged.
func (a *Adapter[C]) Bind(d *Descriptor[C], req Request) (*Invocation[C], error) {
	return Bind(d, req.Params, req.Select, a.logger)
}

// Confirm reports whether an operation may proceed. Read-only operations and
// forced calls always proceed; otherwise the confirmer decides and a missing
// confirmer declines.
func (a *Adapter[C]) Confirm(ctx context.Context, mutating, force bool, description string) (bool, error) {
	if !mutating || force {
		return true, nil
	}
	if a.confirmer == nil {
		a.logger.Debug("no confirmer configured, declining", "target", description)
		return false, nil
	}

	prompt := fmt.Sprintf("Perform the operation on target %q?", description)
	ok, err := a.confirmer.Confirm(ctx, prompt)
	if err != nil {
		return false, fmt.Errorf("failed to confirm operation: %w", err)
	}
	return ok, nil
}

// Execute builds the request from inv, dispatches it and projects the
// response. Every failure is captured in the returned envelope.
func (a *Adapter[C]) Execute(ctx context.Context, inv *Invocation[C]) Envelope {
	d := inv.Op
	env := Envelope{
		Operation: d.Name,
		Warnings:  inv.Warnings,
	}

	if err := ctx.Err(); err != nil {
		env.Err = classifyError(ctx, d.Name, err)
		return env
	}

	req := d.NewRequest()
	if err := buildRequest(req, inv.Values); err != nil {
		env.Err = fmt.Errorf("%s: %w", d.Name, err)
		return env
	}

	client, err := a.client(ctx)
	if err != nil {
		env.Err = classifyError(ctx, d.Name, fmt.Errorf("failed to create client: %w", err))
		return env
	}

	a.logger.Debug("dispatching", "operation", d.Name, "select", inv.Selector.String())

	resp, err := d.Invoke(ctx, client, req)
	if err != nil {
		env.Err = classifyError(ctx, d.Name, err)
		return env
	}
	env.Response = resp

	out, err := Select(resp, inv.Selector, inv.Values)
	if err != nil {
		env.Err = err
		return env
	}
	env.Output = out

	return env
}

// Run performs one complete invocation of d: bind, confirm, execute. The
// invocation gets its own cancellation scope derived from ctx.
func (a *Adapter[C]) Run(ctx context.Context, d *Descriptor[C], req Request) Envelope {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inv, err := a.Bind(d, req)
	if err != nil {
		return Envelope{Operation: d.Name, Input: req.Input, Err: err}
	}

	ok, err := a.Confirm(ctx, d.Mutating, req.Force, inv.Describe())
	if err != nil {
		return Envelope{Operation: d.Name, Input: req.Input, Err: classifyError(ctx, d.Name, err), Warnings: inv.Warnings}
	}
	if !ok {
		a.logger.Debug("operation declined", "operation", d.Name)
		return Envelope{Operation: d.Name, Input: req.Input, Skipped: true, Warnings: inv.Warnings}
	}

	env := a.Execute(ctx, inv)
	env.Input = req.Input
	return env
}

// Batch runs one invocation of d per value, binding each value to the
// parameter named param on top of the shared request. Invocations are
// independent: a failure is recorded in its envelope and the batch moves on.
// emit, if set, receives each envelope as soon as it is complete. The batch
// stops early only when ctx is cancelled.
func (a *Adapter[C]) Batch(ctx context.Context, d *Descriptor[C], base Request, param string, values []any, emit func(Envelope)) []Envelope {
	envs := make([]Envelope, 0, len(values))
	for _, v := range values {
		if ctx.Err() != nil {
			break
		}

		req := base
		req.Params = maps.Clone(base.Params)
		if req.Params == nil {
			req.Params = make(map[string]any, 1)
		}
		req.Params[param] = v
		req.Input = v

		env := a.Run(ctx, d, req)
		if env.Err != nil {
			a.logger.Debug("invocation failed", "operation", d.Name, "input", v, "err", env.Err)
		}
		envs = append(envs, env)
		if emit != nil {
			emit(env)
		}
	}
	return envs
}
