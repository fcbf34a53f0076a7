package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/journalview/pkg/config"
	"github.com/ccollicutt/journalview/pkg/loader"
	"github.com/ccollicutt/journalview/pkg/metrics"
	"github.com/ccollicutt/journalview/pkg/output"
	"github.com/ccollicutt/journalview/pkg/runner"
)

// GlobalOptions holds the persistent flags shared by every journal command.
type GlobalOptions struct {
	ConfigPath      string
	Sudo            bool
	Remote          string
	Output          string
	NoColor         bool
	Timestamps      bool
	MetricsTextfile string
	Quiet           bool
}

// AddFlags registers the global options as persistent flags of cmd.
func (o *GlobalOptions) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.ConfigPath, "config", "c", "", "Path to a YAML configuration file")
	flags.BoolVar(&o.Sudo, "sudo", false, "Run journalctl through sudo -n")
	flags.StringVar(&o.Remote, "remote", "", "Query a remote journal over SSH ([user@]host[:port])")
	flags.StringVarP(&o.Output, "output", "o", "", "Output format (text|json)")
	flags.BoolVar(&o.NoColor, "no-color", false, "Disable priority colors")
	flags.BoolVarP(&o.Timestamps, "timestamps", "t", false, "Show entry timestamps")
	flags.StringVar(&o.MetricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after the command")
	flags.BoolVarP(&o.Quiet, "quiet", "q", false, "Suppress the status line and diagnostics")
}

// session is everything a journal command needs, built from the config
// file and the global flags.
type session struct {
	cfg       *config.Config
	loader    *loader.Loader
	formatter output.Formatter
	metrics   *metrics.Metrics
	logger    *log.Logger
	source    string
}

func (o *GlobalOptions) newSession(cmd *cobra.Command) (*session, error) {
	ctx := commandContext(cmd)

	cfg, err := config.LoadOrDefault(ctx, o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := o.apply(cfg); err != nil {
		return nil, err
	}

	logOut := cmd.ErrOrStderr()
	if o.Quiet {
		logOut = io.Discard
	}
	logger := log.New(logOut, "journalview: ", 0)

	formatter, err := output.New(string(cfg.Output.Format), output.FormatOptions{
		Quiet:          o.Quiet,
		NoColor:        !cfg.Output.Color,
		ShowTimestamps: cfg.Output.ShowTimestamps,
	})
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	source := "local"
	var r runner.Runner
	if cfg.IsRemote() {
		rc := cfg.Remote
		r = runner.NewSSH(runner.SSHConfig{
			Host:                  rc.Host,
			Port:                  rc.Port,
			User:                  rc.User,
			Password:              rc.Password,
			PrivateKeyPath:        rc.PrivateKeyPath,
			KeyPassphrase:         rc.KeyPassphrase,
			KnownHostsPath:        rc.KnownHostsPath,
			InsecureIgnoreHostKey: rc.InsecureIgnoreHostKey,
			ConnectTimeout:        rc.ConnectTimeout,
			Journalctl:            cfg.Journalctl.Path,
			Sudo:                  cfg.Journalctl.Sudo,
		})
		source = rc.Host
	} else {
		r = runner.NewExec(cfg.Journalctl.Path, cfg.Journalctl.Sudo)
	}

	return &session{
		cfg:       cfg,
		loader:    loader.New(r, loader.WithLogger(logger), loader.WithMetrics(m)),
		formatter: formatter,
		metrics:   m,
		logger:    logger,
		source:    source,
	}, nil
}

// apply overlays the command-line flags on the loaded configuration.
func (o *GlobalOptions) apply(cfg *config.Config) error {
	if o.Sudo {
		cfg.Journalctl.Sudo = true
	}
	if o.Output != "" {
		cfg.Output.Format = config.OutputFormat(o.Output)
	}
	if o.NoColor {
		cfg.Output.Color = false
	}
	if o.Timestamps {
		cfg.Output.ShowTimestamps = true
	}
	if o.MetricsTextfile != "" {
		cfg.Metrics.Textfile = o.MetricsTextfile
	}

	if o.Remote != "" {
		if cfg.Remote == nil {
			cfg.Remote = &config.RemoteConfig{}
		}
		if err := parseRemote(o.Remote, cfg.Remote); err != nil {
			return err
		}
		if cfg.Remote.User == "" {
			cfg.Remote.User = os.Getenv(config.EnvRemoteUser)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// parseRemote fills host, user and port from [user@]host[:port].
func parseRemote(target string, rc *config.RemoteConfig) error {
	hostport := target
	if user, rest, ok := strings.Cut(target, "@"); ok {
		if user == "" {
			return fmt.Errorf("invalid --remote %q: empty user", target)
		}
		rc.User = user
		hostport = rest
	}

	host := hostport
	if strings.Contains(hostport, ":") {
		h, p, err := net.SplitHostPort(hostport)
		if err != nil {
			return fmt.Errorf("invalid --remote %q: %w", target, err)
		}
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid --remote %q: port %q is not a number", target, p)
		}
		host = h
		rc.Port = port
	}

	if host == "" {
		return fmt.Errorf("invalid --remote %q: empty host", target)
	}
	rc.Host = host
	return nil
}

// finish writes the metrics textfile, if one is configured. A write
// failure is logged rather than failing a command that already succeeded.
func (s *session) finish() {
	path := s.cfg.Metrics.Textfile
	if path == "" {
		return
	}
	if err := s.metrics.WriteTextfile(path); err != nil {
		s.logger.Printf("writing metrics: %v", err)
	}
}

// render writes view with the session's formatter.
func (s *session) render(ctx context.Context, w io.Writer, view *output.View) error {
	if view.Metadata.Source == "" {
		view.Metadata.Source = s.source
	}
	return s.formatter.FormatView(ctx, view, w)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
