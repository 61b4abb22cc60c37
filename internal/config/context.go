package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Context is a named set of connection settings
type Context struct {
	Profile     string `yaml:"profile,omitempty"`      // AWS profile name
	Region      string `yaml:"region,omitempty"`       // AWS region
	EndpointURL string `yaml:"endpoint_url,omitempty"` // AppStream endpoint override
}

// Defaults represents default settings
type Defaults struct {
	Output      string `yaml:"output,omitempty"`       // json, yaml, table, text
	MaxAttempts int    `yaml:"max_attempts,omitempty"` // SDK retry attempts per call
}

// File represents the configuration file (~/.appsctl.yaml)
type File struct {
	CurrentContext string              `yaml:"current_context,omitempty"`
	Contexts       map[string]*Context `yaml:"contexts,omitempty"`
	Defaults       *Defaults           `yaml:"defaults,omitempty"`
}

func newFile() *File {
	return &File{
		Contexts: make(map[string]*Context),
		Defaults: &Defaults{Output: "json"},
	}
}

// GetConfigPath returns the config file path. APPSCTL_CONFIG overrides the
// default of ~/.appsctl.yaml.
func GetConfigPath() string {
	if p := os.Getenv("APPSCTL_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".appsctl.yaml"
	}
	return filepath.Join(home, ".appsctl.yaml")
}

// Load loads the configuration file, returning defaults if it doesn't exist
func Load() (*File, error) {
	data, err := os.ReadFile(GetConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return newFile(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := newFile()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Initialize maps if nil
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	if cfg.Defaults == nil {
		cfg.Defaults = &Defaults{Output: "json"}
	}

	return cfg, nil
}

// Save writes the configuration file
func Save(cfg *File) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetCurrentContext returns the current active context. Both results are
// empty when no context is set.
func GetCurrentContext() (*Context, string, error) {
	cfg, err := Load()
	if err != nil {
		return nil, "", err
	}

	if cfg.CurrentContext == "" {
		return nil, "", nil
	}

	ctx, ok := cfg.Contexts[cfg.CurrentContext]
	if !ok {
		return nil, "", fmt.Errorf("context %q not found", cfg.CurrentContext)
	}

	return ctx, cfg.CurrentContext, nil
}

// SetCurrentContext sets the current active context
func SetCurrentContext(name string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	// Validate context exists
	if _, ok := cfg.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}

	cfg.CurrentContext = name
	return Save(cfg)
}

// AddContext adds or updates a context
func AddContext(name string, ctx *Context) error {
	if name == "" {
		return fmt.Errorf("context name is required")
	}

	cfg, err := Load()
	if err != nil {
		return err
	}

	cfg.Contexts[name] = ctx
	return Save(cfg)
}

// DeleteContext removes a context
func DeleteContext(name string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	if _, ok := cfg.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(cfg.Contexts, name)

	// Clear current context if it was the deleted one
	if cfg.CurrentContext == name {
		cfg.CurrentContext = ""
	}

	return Save(cfg)
}

// ListContexts returns all configured contexts and their sorted names
func ListContexts() (map[string]*Context, []string, string, error) {
	cfg, err := Load()
	if err != nil {
		return nil, nil, "", err
	}

	names := make([]string, 0, len(cfg.Contexts))
	for name := range cfg.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)

	return cfg.Contexts, names, cfg.CurrentContext, nil
}
