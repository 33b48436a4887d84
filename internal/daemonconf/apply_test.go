package daemonconf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type fakeRestarter struct {
	calls int
	err   error
}

func (f *fakeRestarter) RestartDaemon(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestApplyScenario(t *testing.T) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, "vsftpd.conf")
	if err := os.WriteFile(confPath, []byte("listen_port=21\n# comment\n"), 0644); err != nil {
		t.Fatal(err)
	}

	restarter := &fakeRestarter{}
	rec := &Reconciler{File: File{Path: confPath}, Supervisor: restarter}

	result, err := rec.Apply(context.Background(), testDesired())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !result.Restarted {
		t.Error("Restarted = false, want true")
	}
	if restarter.calls != 1 {
		t.Errorf("restart calls = %d, want 1", restarter.calls)
	}

	lines, err := File{Path: confPath}.Read()
	if err != nil {
		t.Fatal(err)
	}
	assertContains := func(want string) {
		t.Helper()
		for _, l := range lines {
			if l == want {
				return
			}
		}
		t.Errorf("output missing line %q in %q", want, lines)
	}
	assertContains("listen_port=2121")
	assertContains("pasv_min_port=50000")
	assertContains("pasv_max_port=50050")
	assertContains("# comment")

	ports := 0
	for _, l := range lines {
		if l == "listen_port=2121" {
			ports++
		}
	}
	if ports != 1 {
		t.Errorf("listen_port occurs %d times, want 1", ports)
	}

	// A pre-existing file must be snapshotted before the overwrite.
	bak, err := os.ReadFile(confPath + ".bak")
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(bak) != "listen_port=21\n# comment\n" {
		t.Errorf("backup content = %q", bak)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "vsftpd.conf")
	rec := &Reconciler{File: File{Path: confPath}, Supervisor: &fakeRestarter{}}

	if _, err := rec.Apply(context.Background(), testDesired()); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := rec.Apply(context.Background(), testDesired()); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second apply changed the file:\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestApplyNoBackupWhenCreatingFromNothing(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "vsftpd.conf")
	rec := &Reconciler{File: File{Path: confPath}, Supervisor: &fakeRestarter{}}

	if _, err := rec.Apply(context.Background(), testDesired()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(confPath + ".bak"); !os.IsNotExist(err) {
		t.Error("backup created even though no file pre-existed")
	}
}

func TestApplyRejectsMalformedInputBeforeWriting(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "vsftpd.conf")
	restarter := &fakeRestarter{}
	rec := &Reconciler{File: File{Path: confPath}, Supervisor: restarter}

	bad := testDesired()
	bad.PassivePorts = "backwards"
	_, err := rec.Apply(context.Background(), bad)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
	if _, statErr := os.Stat(confPath); !os.IsNotExist(statErr) {
		t.Error("config file written despite malformed input")
	}
	if restarter.calls != 0 {
		t.Error("restart attempted despite malformed input")
	}
}

func TestApplyReportsRestartFailureAsPartialSuccess(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "vsftpd.conf")
	restarter := &fakeRestarter{err: errors.New("systemctl: unit not found")}
	rec := &Reconciler{File: File{Path: confPath}, Supervisor: restarter}

	result, err := rec.Apply(context.Background(), testDesired())
	if err != nil {
		t.Fatalf("Apply = %v, restart failure must not be an error", err)
	}
	if result.Restarted {
		t.Error("Restarted = true, want false")
	}
	if result.RestartError == "" {
		t.Error("RestartError empty, want the failure message")
	}
	// The write sticks regardless.
	if _, statErr := os.Stat(confPath); statErr != nil {
		t.Errorf("config file missing after restart failure: %v", statErr)
	}
}

func TestApplyWriteFailureAbortsBeforeRestart(t *testing.T) {
	dir := t.TempDir()
	// Point at a path whose parent does not exist so the temp file fails.
	confPath := filepath.Join(dir, "missing-dir", "vsftpd.conf")
	restarter := &fakeRestarter{}
	rec := &Reconciler{File: File{Path: confPath}, Supervisor: restarter}

	_, err := rec.Apply(context.Background(), testDesired())
	if err == nil {
		t.Fatal("Apply = nil, want write error")
	}
	if restarter.calls != 0 {
		t.Error("restart attempted after failed write")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := Store{Path: filepath.Join(t.TempDir(), "desired_config.json")}

	// Nothing saved yet: defaults.
	d, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(d, Default()) {
		t.Errorf("Load = %+v, want defaults", d)
	}

	want := testDesired()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
