// Package config provides configuration loading and validation for journalview.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Journalctl       JournalctlConfig `yaml:"journalctl"`
	DefaultLineCount string           `yaml:"default_line_count"`
	Remote           *RemoteConfig    `yaml:"remote,omitempty"`
	Output           OutputConfig     `yaml:"output"`
	Metrics          MetricsConfig    `yaml:"metrics,omitempty"`
}

// JournalctlConfig describes how journalctl is invoked.
type JournalctlConfig struct {
	// Path is the journalctl binary (local, or on the remote host).
	Path string `yaml:"path"`

	// Sudo runs journalctl through `sudo -n`.
	Sudo bool `yaml:"sudo"`
}

// RemoteConfig selects a remote host whose journal is queried over SSH.
// A nil Remote (or an empty Host) means the local journal.
type RemoteConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port,omitempty"`
	User string `yaml:"user,omitempty"`

	// Password may reference an environment variable as ${VAR} or $VAR.
	Password string `yaml:"password,omitempty"`

	PrivateKeyPath string `yaml:"private_key_path,omitempty"`

	// KeyPassphrase may reference an environment variable as ${VAR} or $VAR.
	KeyPassphrase string `yaml:"key_passphrase,omitempty"`

	// KnownHostsPath defaults to ~/.ssh/known_hosts.
	KnownHostsPath string `yaml:"known_hosts_path,omitempty"`

	InsecureIgnoreHostKey bool `yaml:"insecure_ignore_host_key,omitempty"`

	// ConnectTimeout bounds the TCP dial and SSH handshake.
	// Defaults to 10s if not specified.
	ConnectTimeout time.Duration `yaml:"connect_timeout,omitempty"`
}

// OutputFormat names a supported output format.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// OutputConfig controls how records are rendered.
type OutputConfig struct {
	Format         OutputFormat `yaml:"format"`
	Color          bool         `yaml:"color"`
	ShowTimestamps bool         `yaml:"show_timestamps"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus text exposition after
	// every command.
	Textfile string `yaml:"textfile,omitempty"`
}

// IsRemote reports whether the journal is queried over SSH.
func (c *Config) IsRemote() bool {
	return c.Remote != nil && c.Remote.Host != ""
}
