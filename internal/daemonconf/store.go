package daemonconf

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Store persists the desired configuration as a JSON document so the manager
// remembers what the operator last asked for.
type Store struct {
	Path string
}

// Load returns the stored desired configuration, or Default when none has
// been saved yet.
func (s Store) Load() (Desired, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Desired{}, fmt.Errorf("read desired config %s: %w", s.Path, err)
	}
	var d Desired
	if err := json.Unmarshal(data, &d); err != nil {
		return Desired{}, fmt.Errorf("parse desired config %s: %w", s.Path, err)
	}
	return d, nil
}

// Save writes the desired configuration.
func (s Store) Save(d Desired) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("save desired config %s: %w", s.Path, err)
	}
	return nil
}
