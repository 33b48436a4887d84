package xferlog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrSourceUnavailable marks a log source that does not exist. Callers that
// aggregate over the log treat it as an empty log rather than a failure.
var ErrSourceUnavailable = errors.New("log source unavailable")

// Source provides the raw log content. Reads happen while the daemon may be
// appending concurrently; a partially written trailing line simply fails the
// grammar and is skipped.
type Source interface {
	ReadAll() (string, error)
}

// FileSource reads the daemon's log file from disk.
type FileSource struct {
	Path string
}

func (s FileSource) ReadAll() (string, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrSourceUnavailable
	}
	if err != nil {
		return "", fmt.Errorf("read log %s: %w", s.Path, err)
	}
	return string(data), nil
}
