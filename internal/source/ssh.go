package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"homewatch/internal/config"
	"homewatch/pkg/logx"
)

// sshSource runs `sqlite3 -json` on the database host over SSH, the way the
// sensors' own host exposes it. The whole query — dial, auth, command — is
// bounded by SSHConfig.QueryTimeout.
type sshSource struct {
	cfg config.SensorsConfig
	log logx.Logger
}

func newSSHSource(cfg config.SensorsConfig, log logx.Logger) (Source, error) {
	if strings.TrimSpace(cfg.SSH.Host) == "" || strings.TrimSpace(cfg.SSH.User) == "" {
		return nil, errors.New("ssh source requires host and user")
	}
	return &sshSource{cfg: cfg, log: log}, nil
}

func (s *sshSource) Fetch(ctx context.Context) (string, error) {
	timeout := s.cfg.SSH.QueryTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cc, err := s.clientConfig(timeout)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnect, err)
	}

	addr := s.cfg.SSH.Host
	if !strings.Contains(addr, ":") {
		addr = net.JoinHostPort(addr, "22")
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("%w: dial %s: %v", ErrConnect, addr, err)
	}
	sconn, chans, reqs, err := ssh.NewClientConn(conn, addr, cc)
	if err != nil {
		_ = conn.Close()
		return "", fmt.Errorf("%w: handshake with %s: %v", ErrConnect, addr, err)
	}
	client := ssh.NewClient(sconn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("%w: open session: %v", ErrConnect, err)
	}
	defer session.Close()

	query := BuildQuery(time.Now(), s.cfg.Window())
	cmd := fmt.Sprintf(`sqlite3 -json %s "%s"`, s.cfg.DatabasePath, query)
	s.log.Debug("running remote query", logx.String("addr", addr), logx.String("cmd", cmd))

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	if err := session.Start(cmd); err != nil {
		return "", fmt.Errorf("%w: start remote command: %v", ErrConnect, err)
	}

	done := make(chan error, 1)
	go func() { done <- session.Wait() }()

	select {
	case <-ctx.Done():
		_ = session.Close()
		return "", fmt.Errorf("%w: remote query: %v", ErrConnect, ctx.Err())
	case err = <-done:
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			// sqlite3 itself failed (bad path, locked db, ...). Not a
			// transport problem; surface it with whatever it printed.
			return "", fmt.Errorf("remote query exited %d: %s",
				exitErr.ExitStatus(), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%w: remote query: %v", ErrConnect, err)
	}
	return stdout.String(), nil
}

func (s *sshSource) clientConfig(timeout time.Duration) (*ssh.ClientConfig, error) {
	auth, err := s.authMethods()
	if err != nil {
		return nil, err
	}
	hostKey, err := s.hostKeyCallback()
	if err != nil {
		return nil, err
	}
	return &ssh.ClientConfig{
		User:            s.cfg.SSH.User,
		Auth:            auth,
		HostKeyCallback: hostKey,
		Timeout:         timeout,
	}, nil
}

// authMethods prefers an explicit key file, falling back to a running
// ssh-agent so cron-driven invocations work the way the interactive shell
// does.
func (s *sshSource) authMethods() ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if keyFile := strings.TrimSpace(s.cfg.SSH.KeyFile); keyFile != "" {
		raw, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read key file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(raw)
		if err != nil {
			return nil, fmt.Errorf("parse key file %s: %w", keyFile, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		} else {
			s.log.Debug("ssh-agent unavailable", logx.Err(err))
		}
	}

	if len(methods) == 0 {
		return nil, errors.New("no SSH auth available: set sensors.ssh.key_file or run an ssh-agent")
	}
	return methods, nil
}

func (s *sshSource) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if s.cfg.SSH.InsecureHostKey {
		s.log.Warn("host key verification disabled")
		return ssh.InsecureIgnoreHostKey(), nil // #nosec G106 -- explicit opt-in
	}
	path := strings.TrimSpace(s.cfg.SSH.KnownHostsFile)
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate known_hosts: %w", err)
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts %s: %w", path, err)
	}
	return cb, nil
}
