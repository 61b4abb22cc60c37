// Package cli carries the per-run environment shared by appsctl commands:
// resolved settings, logger, AWS session, output printer and the standard
// streams.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/vietdv277/appsctl/internal/adapter"
	"github.com/vietdv277/appsctl/internal/aws"
	"github.com/vietdv277/appsctl/internal/config"
	"github.com/vietdv277/appsctl/internal/ui"
)

// KeyQuery and KeyVerbose are viper keys that only affect presentation
const (
	KeyQuery   = "query"
	KeyVerbose = "verbose"
)

// ErrReported marks a command failure whose details were already written to
// stderr. The process still exits non-zero.
var ErrReported = errors.New("failed")

// Env is everything a command needs for one run
type Env struct {
	Settings  *config.Settings
	Logger    *log.Logger
	Session   *aws.Session
	Client    adapter.ClientFunc[aws.API]
	Confirmer adapter.Confirmer
	Printer   *ui.Printer

	Stdin  *os.File
	Stdout io.Writer
	Stderr io.Writer
}

// NewLogger creates the stderr logger. Verbose enables debug output.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "appsctl",
		Level:  log.InfoLevel,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	}
	return logger
}

// New resolves settings from v and builds the environment for one run
func New(v *viper.Viper, stdin *os.File, stdout, stderr io.Writer) (*Env, error) {
	logger := NewLogger(stderr, v.GetBool(KeyVerbose))

	settings, err := config.Resolve(v)
	if err != nil {
		return nil, err
	}

	printer, err := ui.NewPrinter(stdout, settings.Output, v.GetString(KeyQuery))
	if err != nil {
		return nil, err
	}

	var opts []aws.ClientOption
	if settings.Profile != "" {
		opts = append(opts, aws.WithProfile(settings.Profile))
	}
	if settings.Region != "" {
		opts = append(opts, aws.WithRegion(settings.Region))
	}
	if settings.EndpointURL != "" {
		opts = append(opts, aws.WithEndpointURL(settings.EndpointURL))
	}
	if settings.MaxAttempts > 0 {
		opts = append(opts, aws.WithMaxAttempts(settings.MaxAttempts))
	}
	session := aws.NewSession(logger, opts...)

	logger.Debug("settings resolved",
		"context", settings.Context,
		"profile", settings.Profile,
		"region", settings.Region,
		"output", settings.Output,
	)

	return &Env{
		Settings:  settings,
		Logger:    logger,
		Session:   session,
		Client:    session.AppStream,
		Confirmer: ui.NewTerminalConfirmer(stdin, stderr, logger),
		Printer:   printer,
		Stdin:     stdin,
		Stdout:    stdout,
		Stderr:    stderr,
	}, nil
}

type envKey struct{}

// WithEnv returns a copy of ctx carrying env
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// FromContext returns the environment stored by WithEnv
func FromContext(ctx context.Context) (*Env, error) {
	env, ok := ctx.Value(envKey{}).(*Env)
	if !ok || env == nil {
		return nil, errors.New("command environment not initialized")
	}
	return env, nil
}
