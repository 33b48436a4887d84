package xferlog

import (
	"bufio"
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const followPollInterval = 2 * time.Second

// Follow watches the log file and invokes fn once per newly appended line
// until the context is cancelled. It starts at the current end of file; a
// shrinking file (rotation) resets the read position to the new start. This
// serves the live log view only and is independent of the stateless
// aggregation path.
func Follow(ctx context.Context, path string, fn func(line string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	offset := info.Size()

	ticker := time.NewTicker(followPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				emitNewLines(path, &offset, fn)
			}
		case err := <-watcher.Errors:
			if err != nil {
				log.Printf("follow %s: %v", path, err)
			}
		case <-ticker.C:
			emitNewLines(path, &offset, fn)
		}
	}
}

func emitNewLines(path string, offset *int64, fn func(line string)) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return
	}
	if info.Size() < *offset {
		*offset = 0 // rotated or truncated
	}
	if _, err := f.Seek(*offset, 0); err != nil {
		return
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimRight(sc.Text(), "\r"); line != "" {
			fn(line)
		}
	}
	if sc.Err() == nil {
		*offset = info.Size()
	}
}
