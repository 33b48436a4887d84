// Package users maintains the virtual FTP user credential file, the Berkeley
// DB the daemon authenticates against, and per-user metadata.
package users

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vsftpd-manager/internal/models"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrBadUsername  = errors.New("invalid username")
)

// CommandRunner executes the external commands user management depends on
// (db_load, chown, daemon reload), each with a bounded wait.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
	RestartDaemon(ctx context.Context) error
}

// Store manages the flat credential file the daemon's PAM database is built
// from: one username line followed by one password line per user. The
// passwords stay plaintext because db_load hashes nothing and pam_userdb
// compares the stored value directly.
type Store struct {
	FilePath       string
	DBPath         string
	HomeBase       string
	DefaultQuotaMB int
	Runner         CommandRunner
	Meta           *MetadataRepository
}

// List returns every virtual user with metadata where available.
func (s *Store) List() ([]models.UserInfo, error) {
	names, err := s.usernames()
	if err != nil {
		return nil, err
	}
	infos := make([]models.UserInfo, 0, len(names))
	for _, name := range names {
		info := models.UserInfo{
			Username: name,
			HomeDir:  filepath.Join(s.HomeBase, name),
			QuotaMB:  s.DefaultQuotaMB,
		}
		if s.Meta != nil {
			if meta, err := s.Meta.Get(name); err == nil {
				info = meta
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Count returns the number of virtual users.
func (s *Store) Count() (int, error) {
	names, err := s.usernames()
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

// Create appends the credential pair, creates the user's home directory,
// rebuilds the daemon database and asks for a daemon reload. The reload is
// best-effort; a rebuild failure is not.
func (s *Store) Create(ctx context.Context, username, password, homeDir string, quotaMB int) error {
	if !validUsername(username) {
		return fmt.Errorf("%w: %q", ErrBadUsername, username)
	}
	names, err := s.usernames()
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == username {
			return ErrUserExists
		}
	}

	f, err := os.OpenFile(s.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open users file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%s\n%s\n", username, password); err != nil {
		f.Close()
		return fmt.Errorf("append user: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("append user: %w", err)
	}

	if homeDir == "" {
		homeDir = filepath.Join(s.HomeBase, username)
	}
	if err := os.MkdirAll(homeDir, 0755); err != nil {
		return fmt.Errorf("create home dir: %w", err)
	}
	if s.Runner != nil {
		if _, err := s.Runner.Run(ctx, "chown", "ftpuser:ftpuser", homeDir); err != nil {
			log.Printf("chown %s: %v", homeDir, err)
		}
	}

	if err := s.rebuild(ctx); err != nil {
		return err
	}

	if quotaMB <= 0 {
		quotaMB = s.DefaultQuotaMB
	}
	if s.Meta != nil {
		if err := s.Meta.Put(models.UserInfo{
			Username:  username,
			HomeDir:   homeDir,
			QuotaMB:   quotaMB,
			CreatedAt: time.Now(),
		}); err != nil {
			log.Printf("user metadata for %s: %v", username, err)
		}
	}

	s.reload(ctx)
	return nil
}

// Delete removes the credential pair and the user's home directory, then
// rebuilds the daemon database.
func (s *Store) Delete(ctx context.Context, username string) error {
	pairs, err := s.pairs()
	if err != nil {
		return err
	}

	kept := pairs[:0]
	found := false
	for _, p := range pairs {
		if p[0] == username {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrUserNotFound
	}

	var b strings.Builder
	for _, p := range kept {
		fmt.Fprintf(&b, "%s\n%s\n", p[0], p[1])
	}
	if err := os.WriteFile(s.FilePath, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("rewrite users file: %w", err)
	}

	homeDir := filepath.Join(s.HomeBase, username)
	if err := os.RemoveAll(homeDir); err != nil {
		log.Printf("remove home dir %s: %v", homeDir, err)
	}

	if err := s.rebuild(ctx); err != nil {
		return err
	}
	if s.Meta != nil {
		if err := s.Meta.Delete(username); err != nil {
			log.Printf("delete metadata for %s: %v", username, err)
		}
	}

	s.reload(ctx)
	return nil
}

// rebuild regenerates the Berkeley DB the daemon authenticates against.
func (s *Store) rebuild(ctx context.Context) error {
	if s.Runner == nil {
		return nil
	}
	if _, err := s.Runner.Run(ctx, "db_load", "-T", "-t", "hash", "-f", s.FilePath, s.DBPath); err != nil {
		return fmt.Errorf("rebuild user database: %w", err)
	}
	return nil
}

func (s *Store) reload(ctx context.Context) {
	if s.Runner == nil {
		return
	}
	if err := s.Runner.RestartDaemon(ctx); err != nil {
		log.Printf("daemon reload after user change: %v", err)
	}
}

func (s *Store) usernames() ([]string, error) {
	pairs, err := s.pairs()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		names = append(names, p[0])
	}
	return names, nil
}

// pairs reads the username/password line pairs. A trailing unmatched line is
// ignored.
func (s *Store) pairs() ([][2]string, error) {
	data, err := os.ReadFile(s.FilePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	var out [][2]string
	for i := 0; i+1 < len(lines); i += 2 {
		name := strings.TrimSpace(lines[i])
		if name == "" {
			continue
		}
		out = append(out, [2]string{name, lines[i+1]})
	}
	return out, nil
}

func validUsername(name string) bool {
	if len(name) == 0 || len(name) > 32 {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}
