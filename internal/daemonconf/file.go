package daemonconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File is the daemon configuration file on disk, read and replaced as a
// whole. The daemon may be reading it concurrently, so writes go through a
// temp file in the same directory followed by a rename: a crash mid-write
// leaves either the old or the fully written new content.
type File struct {
	Path string
}

// Read returns the file's lines without trailing newlines. An absent file is
// an empty configuration, not an error.
func (f File) Read() ([]string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return nil, nil
	}
	return strings.Split(content, "\n"), nil
}

// Exists reports whether the file is present.
func (f File) Exists() bool {
	_, err := os.Stat(f.Path)
	return err == nil
}

// Backup copies the current file to a ".bak" sibling. Nothing is copied when
// the file does not exist yet.
func (f File) Backup() error {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("backup read %s: %w", f.Path, err)
	}
	if err := os.WriteFile(f.Path+".bak", data, 0644); err != nil {
		return fmt.Errorf("backup write %s.bak: %w", f.Path, err)
	}
	return nil
}

// Write replaces the file content with the given lines plus a trailing
// newline.
func (f File) Write(lines []string) error {
	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	tmpName := tmp.Name()
	content := strings.Join(lines, "\n") + "\n"
	if len(lines) == 0 {
		content = ""
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", f.Path, err)
	}
	return nil
}
