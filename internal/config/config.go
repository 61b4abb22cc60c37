package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Viper keys bound to persistent flags and APPSCTL_* environment variables
const (
	KeyContext     = "context"
	KeyProfile     = "profile"
	KeyRegion      = "region"
	KeyEndpointURL = "endpoint-url"
	KeyOutput      = "output"
	KeyMaxAttempts = "max-attempts"
)

// Settings is the effective configuration for one run
type Settings struct {
	Context     string
	Profile     string
	Region      string
	EndpointURL string
	Output      string
	MaxAttempts int
}

// Resolve computes the effective settings. For each value the order is:
// flag or APPSCTL_* environment variable (via v), the selected context, then
// AWS_PROFILE / AWS_REGION / AWS_DEFAULT_REGION.
func Resolve(v *viper.Viper) (*Settings, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	s := &Settings{
		Context:     v.GetString(KeyContext),
		Profile:     v.GetString(KeyProfile),
		Region:      v.GetString(KeyRegion),
		EndpointURL: v.GetString(KeyEndpointURL),
		Output:      v.GetString(KeyOutput),
		MaxAttempts: v.GetInt(KeyMaxAttempts),
	}

	if s.Context == "" {
		s.Context = cfg.CurrentContext
	}
	if s.Context != "" {
		ctx, ok := cfg.Contexts[s.Context]
		if !ok {
			return nil, fmt.Errorf("context %q not found", s.Context)
		}
		s.Profile = firstNonEmpty(s.Profile, ctx.Profile)
		s.Region = firstNonEmpty(s.Region, ctx.Region)
		s.EndpointURL = firstNonEmpty(s.EndpointURL, ctx.EndpointURL)
	}

	s.Profile = firstNonEmpty(s.Profile, os.Getenv("AWS_PROFILE"))
	s.Region = firstNonEmpty(s.Region, os.Getenv("AWS_REGION"), os.Getenv("AWS_DEFAULT_REGION"))

	s.Output = firstNonEmpty(s.Output, cfg.Defaults.Output, "json")
	if s.MaxAttempts == 0 {
		s.MaxAttempts = cfg.Defaults.MaxAttempts
	}

	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
