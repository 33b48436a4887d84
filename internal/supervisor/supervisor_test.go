package supervisor

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunReturnsOutput(t *testing.T) {
	s := New(nil, 5*time.Second)
	out, err := s.Run(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "hello" {
		t.Errorf("out = %q, want hello", out)
	}
}

func TestRunReportsCommandFailure(t *testing.T) {
	s := New(nil, 5*time.Second)
	_, err := s.Run(context.Background(), "false")
	if err == nil {
		t.Fatal("Run(false) = nil, want error")
	}
}

func TestRunEnforcesTimeout(t *testing.T) {
	s := New(nil, 100*time.Millisecond)
	start := time.Now()
	_, err := s.Run(context.Background(), "sleep", "10")
	if err == nil {
		t.Fatal("Run = nil, want timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %v, want timeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Run blocked for %v, want a bounded wait", elapsed)
	}
}

func TestRestartDaemonUsesConfiguredCommand(t *testing.T) {
	s := New([]string{"echo", "reloaded"}, 5*time.Second)
	if err := s.RestartDaemon(context.Background()); err != nil {
		t.Fatalf("RestartDaemon: %v", err)
	}
}
