package xferlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestServiceStatsMissingLogDegradesToEmpty(t *testing.T) {
	svc := NewService(FileSource{Path: filepath.Join(t.TempDir(), "absent.log")}, time.Hour, "/home/ftpusers")

	sum, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats returned error for missing log: %v", err)
	}
	if sum.TransferTotal != 0 {
		t.Errorf("TransferTotal = %d, want 0", sum.TransferTotal)
	}
	if len(sum.Users) != 0 {
		t.Errorf("Users = %v, want empty", sum.Users)
	}

	recent, err := svc.RecentUsers()
	if err != nil {
		t.Fatalf("RecentUsers returned error: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("recent = %v, want empty", recent)
	}
}

func TestServiceStatsReadsLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "vsftpd.log")
	now := time.Now()
	line := now.Add(-time.Minute).Format("Jan  2 15:04:05") + " [10] alice OK UPLOAD: /x\n"
	if err := os.WriteFile(logPath, []byte(line), 0644); err != nil {
		t.Fatal(err)
	}

	svc := NewService(FileSource{Path: logPath}, 24*time.Hour, "/home/ftpusers")
	sum, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if sum.TransferTotal != 1 {
		t.Fatalf("TransferTotal = %d, want 1", sum.TransferTotal)
	}
	if _, ok := sum.Users["alice"]; !ok {
		t.Error("alice missing from aggregates")
	}
}

func TestServiceDistinctUsersMissingLog(t *testing.T) {
	svc := NewService(FileSource{Path: filepath.Join(t.TempDir(), "absent.log")}, time.Hour, "/home/ftpusers")
	got, err := svc.DistinctUsers()
	if err != nil {
		t.Fatalf("DistinctUsers returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("entries = %v, want empty", got)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "nope")}.ReadAll()
	if err != ErrSourceUnavailable {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}
