package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ccollicutt/journalview/pkg/config"
	"github.com/ccollicutt/journalview/pkg/loader"
	"github.com/ccollicutt/journalview/pkg/output"
	"github.com/ccollicutt/journalview/pkg/viewer"
)

const fakeJournalctl = `printf '%s\n' "$*" >> "$(dirname "$0")/args"
case "$*" in
*--list-boots*)
  printf '%s\n' "-1 aaa111 2024-01-15 10:00:00 UTC 2024-01-15 18:00:00 UTC"
  printf '%s\n' "0 bbb222 2024-01-16 08:00:00 UTC"
  ;;
*)
  printf '%s\n' '{"MESSAGE":"connection refused","_SYSTEMD_UNIT":"nginx.service","PRIORITY":"3"}'
  printf '%s\n' '{"MESSAGE":"Started Session 4","SYSLOG_IDENTIFIER":"systemd-logind","PRIORITY":"6"}'
  printf '%s\n' 'not json'
  ;;
esac`

// setupJournal writes a fake journalctl and a config pointing at it. It
// returns the config path and the file that collects invoked arguments.
func setupJournal(t *testing.T, body string) (configPath, argsPath string) {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "journalctl")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	configPath = filepath.Join(dir, "config.yaml")
	cfg := "journalctl:\n  path: " + script + "\noutput:\n  color: false\n"
	if err := os.WriteFile(configPath, []byte(cfg), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	return configPath, filepath.Join(dir, "args")
}

func readArgs(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read args: %v", err)
	}
	return strings.TrimSpace(string(data))
}

func TestNewLogsCommand(t *testing.T) {
	cmd := NewLogsCommand(&GlobalOptions{})

	if cmd.Use != "logs" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	for _, flag := range []string{"lines", "filter"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestGlobalOptions_AddFlags(t *testing.T) {
	cmd := NewVersionCommand()
	(&GlobalOptions{}).AddFlags(cmd)

	flags := []string{"config", "sudo", "remote", "output", "no-color", "timestamps", "metrics-textfile", "quiet"}
	for _, flag := range flags {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestRunLogs_Text(t *testing.T) {
	configPath, argsPath := setupJournal(t, fakeJournalctl)

	cmd := NewLogsCommand(&GlobalOptions{ConfigPath: configPath})
	cmd.SetArgs([]string{"-n", "5", "--filter", "NGINX"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "    1 ERROR  nginx.service: connection refused") {
		t.Errorf("Output missing nginx record:\n%s", out)
	}
	if strings.Contains(out, "Started Session 4") {
		t.Error("Filtered-out record was printed")
	}
	if !strings.Contains(out, "Showing 1 of 2 records") {
		t.Errorf("Output missing status line:\n%s", out)
	}

	if !strings.Contains(stderr.String(), "journalview: skipping line 3") {
		t.Errorf("Expected decode diagnostic on stderr, got %q", stderr.String())
	}

	args := readArgs(t, argsPath)
	if !strings.HasPrefix(args, "-n 5 --no-pager -o json") {
		t.Errorf("journalctl args = %q", args)
	}
}

func TestRunLogs_DefaultLineCountFromConfig(t *testing.T) {
	configPath, argsPath := setupJournal(t, fakeJournalctl)

	cmd := NewLogsCommand(&GlobalOptions{ConfigPath: configPath, Quiet: true})
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if args := readArgs(t, argsPath); !strings.HasPrefix(args, "-n 100 ") {
		t.Errorf("journalctl args = %q, want -n 100", args)
	}
}

func TestRunLogs_JSON(t *testing.T) {
	configPath, _ := setupJournal(t, fakeJournalctl)

	cmd := NewLogsCommand(&GlobalOptions{ConfigPath: configPath, Output: "json"})
	cmd.SetArgs([]string{})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var view output.View
	if err := json.Unmarshal(stdout.Bytes(), &view); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, stdout.String())
	}
	if view.Total != 2 || len(view.Records) != 2 {
		t.Fatalf("view = %d of %d records, want 2 of 2", len(view.Records), view.Total)
	}
	if view.Records[1].Unit != "systemd-logind" {
		t.Errorf("Records[1].Unit = %q, want syslog identifier fallback", view.Records[1].Unit)
	}
	if view.Metadata.Source != "local" {
		t.Errorf("Metadata.Source = %q, want local", view.Metadata.Source)
	}
}

func TestRunLogs_LoadFailure(t *testing.T) {
	configPath, _ := setupJournal(t, `echo "No journal files were opened due to insufficient permissions." >&2; exit 1`)

	cmd := NewLogsCommand(&GlobalOptions{ConfigPath: configPath})
	cmd.SetArgs([]string{})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.ExecuteContext(context.Background())
	var loadErr *loader.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Execute() error = %v, want *loader.LoadError", err)
	}
	if !strings.Contains(err.Error(), loader.PrivilegeHint) {
		t.Errorf("error %q missing privilege hint", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("No records should be printed on failure, got %q", stdout.String())
	}
}

func TestRunLogs_ConfigError(t *testing.T) {
	cmd := NewLogsCommand(&GlobalOptions{ConfigPath: "/nonexistent/config.yaml"})
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		t.Fatal("Execute() expected error for missing config")
	}
	var loadErr *loader.LoadError
	if errors.As(err, &loadErr) {
		t.Error("config error must not be reported as a load failure")
	}
}

func TestRunBoot(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantArgs string
	}{
		{"current boot by default", []string{}, "-b 0 --no-pager"},
		{"previous boot", []string{"--", "-1"}, "-b -1 --no-pager"},
		{"boot id", []string{"aaa111"}, "-b aaa111 --no-pager"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath, argsPath := setupJournal(t, fakeJournalctl)

			cmd := NewBootCommand(&GlobalOptions{ConfigPath: configPath, Quiet: true})
			cmd.SetArgs(tt.args)
			var stdout bytes.Buffer
			cmd.SetOut(&stdout)

			if err := cmd.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if args := readArgs(t, argsPath); !strings.HasPrefix(args, tt.wantArgs) {
				t.Errorf("journalctl args = %q, want prefix %q", args, tt.wantArgs)
			}
			if !strings.Contains(stdout.String(), "connection refused") {
				t.Errorf("Output missing records:\n%s", stdout.String())
			}
		})
	}
}

func TestRunBoots(t *testing.T) {
	configPath, argsPath := setupJournal(t, fakeJournalctl)

	cmd := NewBootsCommand(&GlobalOptions{ConfigPath: configPath})
	cmd.SetArgs([]string{})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "aaa111") || !strings.Contains(out, "bbb222") {
		t.Errorf("Output missing boots:\n%s", out)
	}
	if !strings.Contains(out, "N/A") {
		t.Errorf("Output missing N/A last entry:\n%s", out)
	}
	if args := readArgs(t, argsPath); args != "--list-boots --no-pager" {
		t.Errorf("journalctl args = %q", args)
	}
}

func TestRunLogs_MetricsTextfile(t *testing.T) {
	configPath, _ := setupJournal(t, fakeJournalctl)
	promPath := filepath.Join(t.TempDir(), "journalview.prom")

	cmd := NewLogsCommand(&GlobalOptions{ConfigPath: configPath, Quiet: true, MetricsTextfile: promPath})
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(promPath)
	if err != nil {
		t.Fatalf("Failed to read metrics textfile: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, `journalview_loads_total{op="line_count",result="success"} 1`) {
		t.Errorf("textfile missing load counter:\n%s", text)
	}
	if !strings.Contains(text, "journalview_decode_failures_total 1") {
		t.Errorf("textfile missing decode failure counter:\n%s", text)
	}
}

func TestRunBrowse(t *testing.T) {
	configPath, _ := setupJournal(t, fakeJournalctl)

	stdinR, stdinW := io.Pipe()
	defer stdinW.Close()
	stdout := &syncBuffer{}

	cmd := NewBrowseCommand(&GlobalOptions{ConfigPath: configPath})
	cmd.SetArgs([]string{"-n", "20"})
	cmd.SetIn(stdinR)
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(context.Background()) }()

	waitForOutput(t, stdout, "Showing 2 of 2 records")

	write := func(line string) {
		t.Helper()
		if _, err := io.WriteString(stdinW, line+"\n"); err != nil {
			t.Fatalf("writing stdin: %v", err)
		}
	}

	write("nginx")
	waitForOutput(t, stdout, `Showing 1 of 2 records (filter: "nginx")`)
	write(":boots")
	waitForOutput(t, stdout, "bbb222")
	write(":bogus")
	waitForOutput(t, stdout, `unknown command ":bogus"`)
	write(":quit")

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Execute() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("browse did not exit after :quit")
	}
}

func TestRunBrowse_EOFQuits(t *testing.T) {
	configPath, _ := setupJournal(t, fakeJournalctl)

	cmd := NewBrowseCommand(&GlobalOptions{ConfigPath: configPath, Quiet: true})
	cmd.SetArgs([]string{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&syncBuffer{})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Execute() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("browse did not exit at end of input")
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    []viewer.Msg
		wantErr bool
	}{
		{line: "nginx", want: []viewer.Msg{viewer.UpdateFilter{Text: "nginx"}}},
		{line: "  Session 4 ", want: []viewer.Msg{viewer.UpdateFilter{Text: "Session 4"}}},
		{line: "", want: []viewer.Msg{viewer.UpdateFilter{Text: ""}}},
		{line: ":quit", want: []viewer.Msg{viewer.Quit{}}},
		{line: ":q", want: []viewer.Msg{viewer.Quit{}}},
		{line: ":clear", want: []viewer.Msg{viewer.ClearFilter{}}},
		{line: ":load", want: []viewer.Msg{viewer.LoadLogs{}}},
		{line: ":load 500", want: []viewer.Msg{viewer.UpdateLineCount{Count: "500"}, viewer.LoadLogs{}}},
		{line: ":boot", want: []viewer.Msg{viewer.ShowCurrentBoot{}}},
		{line: ":boot -2", want: []viewer.Msg{viewer.SelectBoot{Offset: -2}}},
		{line: ":boot abc", wantErr: true},
		{line: ":boots", want: []viewer.Msg{viewer.ShowBootList{}}},
		{line: ":help", want: nil},
		{line: ":nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCommand(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseCommand(%q) = %#v, want %#v", tt.line, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseCommand(%q)[%d] = %#v, want %#v", tt.line, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseRemote(t *testing.T) {
	tests := []struct {
		target     string
		wantHost string
		wantUser string
		wantPort int
		wantErr  bool
	}{
		{target: "web-01", wantHost: "web-01"},
		{target: "ops@web-01", wantHost: "web-01", wantUser: "ops"},
		{target: "ops@web-01:2222", wantHost: "web-01", wantUser: "ops", wantPort: 2222},
		{target: "ops@[::1]:22", wantHost: "::1", wantUser: "ops", wantPort: 22},
		{target: "@web-01", wantErr: true},
		{target: "ops@", wantErr: true},
		{target: "web-01:ssh", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			var rc config.RemoteConfig
			err := parseRemote(tt.target, &rc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRemote(%q) error = %v, wantErr %v", tt.target, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if rc.Host != tt.wantHost || rc.User != tt.wantUser || rc.Port != tt.wantPort {
				t.Errorf("parseRemote(%q) = %+v", tt.target, rc)
			}
		})
	}
}

func TestGlobalOptions_Apply(t *testing.T) {
	cfg := config.DefaultConfig()
	opts := &GlobalOptions{
		Sudo:       true,
		Output:     "json",
		NoColor:    true,
		Timestamps: true,
		Remote:     "ops@web-01",
	}

	// The remote needs credentials to validate.
	cfg.Remote = &config.RemoteConfig{Password: "secret"}

	if err := opts.apply(cfg); err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if !cfg.Journalctl.Sudo || cfg.Output.Format != config.OutputFormatJSON || cfg.Output.Color || !cfg.Output.ShowTimestamps {
		t.Errorf("apply() cfg = %+v", cfg)
	}
	if !cfg.IsRemote() || cfg.Remote.Port != config.DefaultSSHPort {
		t.Errorf("apply() remote = %+v", cfg.Remote)
	}

	bad := &GlobalOptions{Output: "yaml"}
	if err := bad.apply(config.DefaultConfig()); err == nil {
		t.Error("apply() expected error for unknown output format")
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestRunValidate_Success(t *testing.T) {
	configPath, _ := setupJournal(t, fakeJournalctl)

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "Configuration valid!") {
		t.Errorf("Output missing success message:\n%s", out)
	}
	if !strings.Contains(out, "local journal") {
		t.Errorf("Output missing remote summary:\n%s", out)
	}
}

func TestRunValidate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: xml\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{path})
	cmd.SetOut(io.Discard)

	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("Execute() error = %v, want validation failure", err)
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()
	cmd.SetArgs([]string{})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := stdout.String(); got != "journalview dev\n" {
		t.Errorf("version output = %q", got)
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent writes and reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, b *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(b.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output:\n%s", want, b.String())
}

func TestNewSession_RemoteSecretFromEnvironment(t *testing.T) {
	t.Setenv("JV_SSH_PASSWORD", "$ecretPass")

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "remote:\n  host: web-01\n  user: ops\n  password: ${JV_SSH_PASSWORD}\n"
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cmd := NewLogsCommand(&GlobalOptions{})
	s, err := (&GlobalOptions{ConfigPath: path, Sudo: true}).newSession(cmd)
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	if s.cfg.Remote.Password != "$ecretPass" {
		t.Errorf("Remote.Password = %q, want %q", s.cfg.Remote.Password, "$ecretPass")
	}
	if s.source != "web-01" {
		t.Errorf("source = %q, want web-01", s.source)
	}
}

func TestGlobalOptions_Apply_RemoteUserFromEnvironment(t *testing.T) {
	t.Setenv(config.EnvRemoteUser, "ops")

	cfg := config.DefaultConfig()
	err := (&GlobalOptions{Remote: "web-01"}).apply(cfg)

	if cfg.Remote == nil || cfg.Remote.User != "ops" {
		t.Fatalf("Remote = %+v, want user from %s", cfg.Remote, config.EnvRemoteUser)
	}
	// No credentials are configured, so only the missing user must not be reported.
	if err == nil || strings.Contains(err.Error(), "user is required") {
		t.Errorf("apply() error = %v, want a credentials error", err)
	}

	explicit := config.DefaultConfig()
	explicit.Remote = &config.RemoteConfig{Password: "x"}
	if err := (&GlobalOptions{Remote: "admin@web-01"}).apply(explicit); err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if explicit.Remote.User != "admin" {
		t.Errorf("Remote.User = %q, want the user from --remote", explicit.Remote.User)
	}
}

func TestRunBrowse_QueryFollowsBootSelection(t *testing.T) {
	configPath, _ := setupJournal(t, fakeJournalctl)

	stdinR, stdinW := io.Pipe()
	defer stdinW.Close()
	stdout := &syncBuffer{}

	cmd := NewBrowseCommand(&GlobalOptions{ConfigPath: configPath, Output: "json"})
	cmd.SetArgs([]string{"-n", "20"})
	cmd.SetIn(stdinR)
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(context.Background()) }()

	waitForOutput(t, stdout, `"query": "last 20"`)
	if _, err := io.WriteString(stdinW, ":boot -1\n"); err != nil {
		t.Fatalf("writing stdin: %v", err)
	}
	waitForOutput(t, stdout, `"query": "boot -1"`)
	if _, err := io.WriteString(stdinW, ":quit\n"); err != nil {
		t.Fatalf("writing stdin: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Execute() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("browse did not exit after :quit")
	}
}

func TestRunBrowse_CancelWithOpenStdin(t *testing.T) {
	configPath, _ := setupJournal(t, fakeJournalctl)

	stdinR, stdinW := io.Pipe()
	defer stdinW.Close()
	stdout := &syncBuffer{}

	cmd := NewBrowseCommand(&GlobalOptions{ConfigPath: configPath, Quiet: true})
	cmd.SetArgs([]string{})
	cmd.SetIn(stdinR)
	cmd.SetOut(stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	waitForOutput(t, stdout, "connection refused")
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Execute() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("browse did not return after cancel")
	}

	// The reader is still parked in Scan; input after Run returned must not block it.
	written := make(chan error, 1)
	go func() {
		_, err := io.WriteString(stdinW, "nginx\n")
		written <- err
	}()
	select {
	case err := <-written:
		if err != nil {
			t.Errorf("writing stdin: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stdin reader stopped consuming input")
	}
}
