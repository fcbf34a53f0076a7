package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandSecrets()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path when it is set, and otherwise returns the
// validated default configuration with environment overrides applied.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}

	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	cfg.expandSecrets()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults.
// Secrets are expected to be expanded already; Validate may run more than
// once on the same Config.
func Validate(cfg *Config) error {
	if cfg.Journalctl.Path == "" {
		return errors.New("journalctl.path: must not be empty")
	}

	if cfg.DefaultLineCount == "" {
		cfg.DefaultLineCount = DefaultLineCount
	}

	if err := validateOutput(&cfg.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if cfg.Remote != nil {
		if err := validateRemote(cfg.Remote); err != nil {
			return fmt.Errorf("remote: %w", err)
		}
	}

	return nil
}

func validateOutput(out *OutputConfig) error {
	switch out.Format {
	case "":
		out.Format = OutputFormatText
	case OutputFormatText, OutputFormatJSON:
		// Valid
	default:
		return fmt.Errorf("invalid format %q (must be text or json)", out.Format)
	}
	return nil
}

func validateRemote(r *RemoteConfig) error {
	if r.Host == "" {
		// An empty remote section means the local journal.
		return nil
	}

	if strings.ContainsAny(r.Host, " \t/") {
		return fmt.Errorf("invalid host %q", r.Host)
	}

	if r.Port == 0 {
		r.Port = DefaultSSHPort
	}
	if r.Port < 1 || r.Port > 65535 {
		return fmt.Errorf("port %d out of range", r.Port)
	}

	if r.User == "" {
		return errors.New("user is required")
	}

	if r.Password == "" && r.PrivateKeyPath == "" {
		return errors.New("password or private_key_path is required")
	}

	if r.ConnectTimeout <= 0 {
		r.ConnectTimeout = DefaultConnectTimeout
	}

	return nil
}

// expandSecrets resolves ${VAR} and $VAR references in remote secrets.
// It must run exactly once per loaded file: an expanded value may itself
// start with '$'.
func (c *Config) expandSecrets() {
	if c.Remote == nil {
		return
	}
	c.Remote.Password = expandEnvVar(c.Remote.Password)
	c.Remote.KeyPassphrase = expandEnvVar(c.Remote.KeyPassphrase)
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}

	// Handle $VAR format (no braces)
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		varName := s[1:]
		return os.Getenv(varName)
	}

	return s
}
