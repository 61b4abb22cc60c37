package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrCancelled marks an invocation stopped by its context before the remote
// call completed
var ErrCancelled = errors.New("operation cancelled")

// EndpointResolutionError replaces a low-level name resolution failure with
// a diagnostic pointing at the endpoint configuration
type EndpointResolutionError struct {
	Operation string
	Host      string
	Err       error
}

// Error implements the error interface.
func (e *EndpointResolutionError) Error() string {
	host := e.Host
	if host == "" {
		host = "the service endpoint"
	}
	return fmt.Sprintf("%s: name resolution failed for %s; check the region, endpoint URL and network/DNS settings", e.Operation, host)
}

// Unwrap returns the underlying DNS error.
func (e *EndpointResolutionError) Unwrap() error { return e.Err }

// classifyError maps a remote call failure onto the adapter's error
// taxonomy. Name resolution failures are remapped, cancellation is tagged
// with ErrCancelled and everything else is returned unchanged.
func classifyError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &EndpointResolutionError{Operation: op, Host: dnsErr.Name, Err: dnsErr}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrCancelled, err)
	}

	return err
}
