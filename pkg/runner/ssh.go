package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kballard/go-shellquote"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// DefaultSSHPort is used when SSHConfig.Port is zero.
const DefaultSSHPort = 22

// DefaultConnectTimeout bounds the TCP dial and SSH handshake.
const DefaultConnectTimeout = 10 * time.Second

// SSHConfig describes the remote host whose journal is queried.
type SSHConfig struct {
	Host string
	Port int
	User string

	// Password authentication, used when no private key is configured.
	Password string

	// PrivateKeyPath points to a private key file; KeyPassphrase unlocks it.
	PrivateKeyPath string
	KeyPassphrase  string

	// KnownHostsPath is the known_hosts file used to verify the host key.
	// Empty means ~/.ssh/known_hosts.
	KnownHostsPath string

	// InsecureIgnoreHostKey disables host key verification.
	InsecureIgnoreHostKey bool

	ConnectTimeout time.Duration

	// Journalctl is the remote journalctl binary. Empty means DefaultJournalctl.
	Journalctl string

	// Sudo prefixes the remote command with `sudo -n`.
	Sudo bool
}

// SSH runs journalctl on a remote host. Each query opens its own
// connection, so concurrent queries do not share state.
type SSH struct {
	cfg SSHConfig
}

// NewSSH creates a remote runner, filling in defaults.
func NewSSH(cfg SSHConfig) *SSH {
	if cfg.Port == 0 {
		cfg.Port = DefaultSSHPort
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.Journalctl == "" {
		cfg.Journalctl = DefaultJournalctl
	}
	return &SSH{cfg: cfg}
}

// Address returns host:port of the remote host.
func (r *SSH) Address() string {
	return net.JoinHostPort(r.cfg.Host, strconv.Itoa(r.cfg.Port))
}

// Command returns the shell command line sent to the remote host.
func (r *SSH) Command(args []string) string {
	words := make([]string, 0, len(args)+3)
	if r.cfg.Sudo {
		words = append(words, "sudo", "-n")
	}
	words = append(words, r.cfg.Journalctl)
	words = append(words, args...)
	return shellquote.Join(words...)
}

// Run executes journalctl on the remote host and returns its standard output.
func (r *SSH) Run(ctx context.Context, args []string) (string, error) {
	command := r.Command(args)
	name := fmt.Sprintf("%s on %s", r.cfg.Journalctl, r.cfg.Host)

	client, err := r.dial(ctx)
	if err != nil {
		return "", &InvocationError{Command: name, Err: err}
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", &InvocationError{Command: name, Err: fmt.Errorf("failed to create session: %w", err)}
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	// Closing the client unblocks session.Run when the context ends.
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	if err := session.Run(command); err != nil {
		if ctx.Err() != nil {
			return "", &InvocationError{Command: name, Err: ctx.Err()}
		}
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return "", &ExitError{
				Command:  name,
				ExitCode: exitErr.ExitStatus(),
				Stderr:   stderr.String(),
			}
		}
		return "", &InvocationError{Command: name, Err: err}
	}

	return stdout.String(), nil
}

func (r *SSH) dial(ctx context.Context) (*ssh.Client, error) {
	clientConfig, err := r.clientConfig()
	if err != nil {
		return nil, err
	}

	address := r.Address()
	dialer := net.Dialer{Timeout: r.cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", address, err)
	}

	if err := conn.SetDeadline(time.Now().Add(r.cfg.ConnectTimeout)); err != nil {
		conn.Close()
		return nil, err
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, clientConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to establish SSH connection: %w", err)
	}
	// The handshake deadline must not limit the query itself.
	if err := conn.SetDeadline(time.Time{}); err != nil {
		sshConn.Close()
		return nil, err
	}

	return ssh.NewClient(sshConn, chans, reqs), nil
}

func (r *SSH) clientConfig() (*ssh.ClientConfig, error) {
	hostKeyCallback, err := r.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            r.cfg.User,
		HostKeyCallback: hostKeyCallback,
		Timeout:         r.cfg.ConnectTimeout,
	}

	if r.cfg.PrivateKeyPath != "" {
		signer, err := loadPrivateKey(r.cfg.PrivateKeyPath, r.cfg.KeyPassphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to load private key from %s: %w", r.cfg.PrivateKeyPath, err)
		}
		cfg.Auth = []ssh.AuthMethod{ssh.PublicKeys(signer)}
	}

	if len(cfg.Auth) == 0 && r.cfg.Password != "" {
		cfg.Auth = []ssh.AuthMethod{ssh.Password(r.cfg.Password)}
	}

	if len(cfg.Auth) == 0 {
		return nil, errors.New("no authentication method provided (need password or private key)")
	}

	return cfg, nil
}

func (r *SSH) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if r.cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil // #nosec G106 -- explicitly requested in config
	}

	path := r.cfg.KnownHostsPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating known_hosts: %w", err)
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}

	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("loading known_hosts %s: %w", path, err)
	}
	return callback, nil
}

func loadPrivateKey(path, passphrase string) (ssh.Signer, error) {
	key, err := os.ReadFile(path) // #nosec G304 -- user-provided key path is expected
	if err != nil {
		return nil, err
	}
	if passphrase != "" {
		return ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
	}
	return ssh.ParsePrivateKey(key)
}
