package users

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeRunner struct {
	commands [][]string
	restarts int
	runErr   error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	f.commands = append(f.commands, append([]string{name}, args...))
	return "", f.runErr
}

func (f *fakeRunner) RestartDaemon(ctx context.Context) error {
	f.restarts++
	return nil
}

func newTestStore(t *testing.T) (*Store, *fakeRunner) {
	t.Helper()
	dir := t.TempDir()
	runner := &fakeRunner{}
	store := &Store{
		FilePath:       filepath.Join(dir, "virtual_users.txt"),
		DBPath:         filepath.Join(dir, "virtual_users.db"),
		HomeBase:       filepath.Join(dir, "home"),
		DefaultQuotaMB: 100,
		Runner:         runner,
	}
	return store, runner
}

func TestStoreListEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	infos, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("List = %v, want empty", infos)
	}
}

func TestStoreCreateAndList(t *testing.T) {
	store, runner := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, "alice", "secret", "", 0); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, "bob", "hunter2", "", 250); err != nil {
		t.Fatalf("Create: %v", err)
	}

	infos, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List length = %d, want 2", len(infos))
	}
	if infos[0].Username != "alice" || infos[1].Username != "bob" {
		t.Errorf("usernames = %s,%s", infos[0].Username, infos[1].Username)
	}
	if infos[0].QuotaMB != 100 {
		t.Errorf("alice quota = %d, want store default", infos[0].QuotaMB)
	}

	// Credential file layout: username line then password line.
	data, err := os.ReadFile(store.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "alice\nsecret\nbob\nhunter2\n" {
		t.Errorf("credential file = %q", data)
	}

	// Home directory created.
	if _, err := os.Stat(filepath.Join(store.HomeBase, "alice")); err != nil {
		t.Errorf("alice home dir: %v", err)
	}

	// Daemon database rebuilt via db_load on every change.
	rebuilds := 0
	for _, cmd := range runner.commands {
		if cmd[0] == "db_load" {
			rebuilds++
			if cmd[len(cmd)-2] != store.FilePath || cmd[len(cmd)-1] != store.DBPath {
				t.Errorf("db_load args = %v", cmd)
			}
		}
	}
	if rebuilds != 2 {
		t.Errorf("db_load runs = %d, want 2", rebuilds)
	}
	if runner.restarts != 2 {
		t.Errorf("daemon reloads = %d, want 2", runner.restarts)
	}
}

func TestStoreCreateDuplicate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, "alice", "one", "", 0); err != nil {
		t.Fatal(err)
	}
	err := store.Create(ctx, "alice", "two", "", 0)
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("err = %v, want ErrUserExists", err)
	}
}

func TestStoreCreateRejectsBadUsernames(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"", "with space", "semi;colon", "dot.dot", strings.Repeat("x", 40)} {
		if err := store.Create(ctx, name, "pw", "", 0); !errors.Is(err, ErrBadUsername) {
			t.Errorf("Create(%q) = %v, want ErrBadUsername", name, err)
		}
	}
}

func TestStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, u := range []string{"alice", "bob", "carol"} {
		if err := store.Create(ctx, u, "pw-"+u, "", 0); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.Delete(ctx, "bob"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	data, err := os.ReadFile(store.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "alice\npw-alice\ncarol\npw-carol\n" {
		t.Errorf("credential file after delete = %q", data)
	}
	if _, err := os.Stat(filepath.Join(store.HomeBase, "bob")); !os.IsNotExist(err) {
		t.Error("bob's home dir still present")
	}

	if err := store.Delete(ctx, "bob"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second delete = %v, want ErrUserNotFound", err)
	}
}

func TestStoreCountIgnoresTrailingUnpairedLine(t *testing.T) {
	store, _ := newTestStore(t)
	content := "alice\npw\ndangling\n"
	if err := os.WriteFile(store.FilePath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	n, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestStoreRebuildFailureSurfaces(t *testing.T) {
	store, runner := newTestStore(t)
	runner.runErr = errors.New("db_load: command not found")

	err := store.Create(context.Background(), "alice", "pw", "", 0)
	if err == nil {
		t.Fatal("Create = nil, want rebuild error")
	}
	if !strings.Contains(err.Error(), "rebuild user database") {
		t.Errorf("err = %v", err)
	}
}

func TestMetadataRepository(t *testing.T) {
	repo, err := NewMetadata(filepath.Join(t.TempDir(), "meta.db"))
	if err != nil {
		t.Fatalf("NewMetadata: %v", err)
	}
	defer repo.Close()

	store, _ := newTestStore(t)
	store.Meta = repo

	if err := store.Create(context.Background(), "alice", "pw", "", 250); err != nil {
		t.Fatal(err)
	}

	info, err := repo.Get("alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if info.QuotaMB != 250 {
		t.Errorf("quota = %d, want 250", info.QuotaMB)
	}
	if info.CreatedAt.IsZero() {
		t.Error("created_at not recorded")
	}

	infos, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].QuotaMB != 250 {
		t.Errorf("List with metadata = %+v", infos)
	}

	if err := store.Delete(context.Background(), "alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Get("alice"); err == nil {
		t.Error("metadata row survived user deletion")
	}
}
