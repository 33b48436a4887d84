package daemonconf

import (
	"context"
	"log"
)

// DaemonRestarter asks the process supervisor for a daemon reload within a
// bounded time.
type DaemonRestarter interface {
	RestartDaemon(ctx context.Context) error
}

// Result reports how far a reconciliation got. A failed restart after a
// successful write is partial success: the new configuration stays on disk.
type Result struct {
	Restarted    bool   `json:"restarted"`
	RestartError string `json:"restart_error,omitempty"`
}

// Reconciler merges desired configurations into the daemon's config file and
// triggers a reload afterwards.
type Reconciler struct {
	File       File
	Supervisor DaemonRestarter
}

// Apply validates the desired configuration, merges it into the existing
// file, writes the result and asks for a daemon restart. Validation failures
// and write failures abort with an error; a restart failure is reported in
// the Result instead, without rolling back the write.
func (r *Reconciler) Apply(ctx context.Context, desired Desired) (Result, error) {
	if err := desired.Validate(); err != nil {
		return Result{}, err
	}

	existing, err := r.File.Read()
	if err != nil {
		return Result{}, err
	}
	merged := Merge(existing, desired.daemonValues())

	if r.File.Exists() {
		if err := r.File.Backup(); err != nil {
			log.Printf("config backup failed (continuing): %v", err)
		}
	}
	if err := r.File.Write(merged); err != nil {
		return Result{}, err
	}

	if r.Supervisor == nil {
		return Result{}, nil
	}
	if err := r.Supervisor.RestartDaemon(ctx); err != nil {
		log.Printf("daemon restart after config write failed: %v", err)
		return Result{Restarted: false, RestartError: err.Error()}, nil
	}
	return Result{Restarted: true}, nil
}
