package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultJournalctl     = "journalctl"
	DefaultLineCount      = "100"
	DefaultSSHPort        = 22
	DefaultConnectTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvJournalctl = "JOURNALVIEW_JOURNALCTL"
	EnvRemoteHost = "JOURNALVIEW_REMOTE_HOST"
	EnvRemoteUser = "JOURNALVIEW_REMOTE_USER"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Journalctl: JournalctlConfig{
			Path: DefaultJournalctl,
		},
		DefaultLineCount: DefaultLineCount,
		Output: OutputConfig{
			Format: OutputFormatText,
			Color:  true,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if path := os.Getenv(EnvJournalctl); path != "" {
		c.Journalctl.Path = path
	}

	if host := os.Getenv(EnvRemoteHost); host != "" {
		if c.Remote == nil {
			c.Remote = &RemoteConfig{}
		}
		c.Remote.Host = host
	}

	if user := os.Getenv(EnvRemoteUser); user != "" && c.Remote != nil {
		c.Remote.User = user
	}
}
