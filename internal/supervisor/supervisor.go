// Package supervisor runs external commands against the daemon with a
// bounded wait.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds every command the supervisor runs.
const DefaultTimeout = 30 * time.Second

// Supervisor executes system commands (daemon reload, credential DB rebuild,
// ownership fixes). Every invocation carries a deadline; a hung command is
// killed and reported, never awaited forever.
type Supervisor struct {
	RestartCommand []string
	Timeout        time.Duration
}

func New(restartCommand []string, timeout time.Duration) *Supervisor {
	if len(restartCommand) == 0 {
		restartCommand = []string{"systemctl", "reload-or-restart", "vsftpd"}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Supervisor{RestartCommand: restartCommand, Timeout: timeout}
}

// Run executes one command and returns its combined output.
func (s *Supervisor) Run(ctx context.Context, name string, args ...string) (string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(cctx, name, args...).CombinedOutput()
	if errors.Is(cctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("command %s timed out after %s", name, timeout)
	}
	if err != nil {
		return strings.TrimSpace(string(out)), fmt.Errorf("command %s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// RestartDaemon asks the OS to reload the FTP daemon.
func (s *Supervisor) RestartDaemon(ctx context.Context) error {
	cmd := s.RestartCommand
	if len(cmd) == 0 {
		cmd = []string{"systemctl", "reload-or-restart", "vsftpd"}
	}
	_, err := s.Run(ctx, cmd[0], cmd[1:]...)
	return err
}
