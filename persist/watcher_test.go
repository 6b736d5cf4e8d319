package persist

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	tree := newTestTree(t)
	store := NewStore(tree, path)
	if err := store.Save(); err != nil {
		t.Fatalf("Save = %v", err)
	}

	reloaded := make(chan error, 4)
	w := NewWatcher(store,
		WithDebounce(10*time.Millisecond),
		OnReload(func(err error) { reloaded <- err }))
	if err := w.Start(); err != nil {
		t.Fatalf("Start = %v", err)
	}
	defer w.Stop()

	content := `{"display": {"brightness": 70}, "theme": "light"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile = %v", err)
	}

	select {
	case err := <-reloaded:
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}

	v, err := tree.Get("display.brightness")
	if err != nil {
		t.Fatalf("Get = %v", err)
	}
	if v != int64(70) {
		t.Errorf("brightness = %v, want 70", v)
	}
}

func TestWatcher_ReportsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	tree := newTestTree(t)
	store := NewStore(tree, path)
	if err := store.Save(); err != nil {
		t.Fatalf("Save = %v", err)
	}

	reloaded := make(chan error, 4)
	w := NewWatcher(store,
		WithDebounce(10*time.Millisecond),
		OnReload(func(err error) { reloaded <- err }))
	if err := w.Start(); err != nil {
		t.Fatalf("Start = %v", err)
	}
	defer w.Stop()

	// Out-of-range value: the reload runs but the load is rejected.
	content := `{"display": {"brightness": 500}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile = %v", err)
	}

	select {
	case err := <-reloaded:
		if err == nil {
			t.Fatal("reload of invalid file reported nil error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}

	v, _ := tree.Get("display.brightness")
	if v != int64(50) {
		t.Errorf("brightness = %v, want unchanged 50", v)
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	tree := newTestTree(t)
	store := NewStore(tree, path)
	if err := store.Save(); err != nil {
		t.Fatalf("Save = %v", err)
	}

	reloaded := make(chan error, 4)
	w := NewWatcher(store,
		WithDebounce(10*time.Millisecond),
		OnReload(func(err error) { reloaded <- err }))
	if err := w.Start(); err != nil {
		t.Fatalf("Start = %v", err)
	}
	defer w.Stop()

	other := filepath.Join(dir, "other.json")
	if err := os.WriteFile(other, []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile = %v", err)
	}

	select {
	case <-reloaded:
		t.Fatal("sibling file change triggered a reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewStore(newTestTree(t), path)
	if err := store.Save(); err != nil {
		t.Fatalf("Save = %v", err)
	}

	w := NewWatcher(store)
	if err := w.Start(); err != nil {
		t.Fatalf("Start = %v", err)
	}

	w.Stop()
	w.Stop()

	// Stop before Start is also a no-op.
	NewWatcher(store).Stop()
}
