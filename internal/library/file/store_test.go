package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testLibrary = `{
	"items": [
		{
			"key": "0_ZBZQ4KMP",
			"type": "book",
			"title": "First Book",
			"author": [{"family": "Doe", "given": "John"}],
			"issued": {"date-parts": [[2005]]}
		},
		{
			"key": "0_4T8MCITQ",
			"type": "article-journal",
			"title": "Article",
			"container-title": "Journal of Generic Studies",
			"volume": "6",
			"page": "33-34",
			"author": [{"family": "Doe", "given": "John"}],
			"issued": {"date-parts": [[2006]]}
		}
	],
	"collections": {"My Collection": ["0_ZBZQ4KMP"]},
	"selected": ["0_4T8MCITQ"]
}`

func writeLibrary(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "library.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write library: %v", err)
	}
	return path
}

func TestStore_Load(t *testing.T) {
	path := writeLibrary(t, t.TempDir(), testLibrary)
	store, err := NewStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	lib, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(lib.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(lib.Items))
	}
	if lib.Items[0].Key != "0_ZBZQ4KMP" || lib.Items[1].Key != "0_4T8MCITQ" {
		t.Errorf("item keys = %q, %q", lib.Items[0].Key, lib.Items[1].Key)
	}
	if keys := lib.Collections["My Collection"]; len(keys) != 1 || keys[0] != "0_ZBZQ4KMP" {
		t.Errorf("collection = %v", keys)
	}
	if len(lib.Selected) != 1 || lib.Selected[0] != "0_4T8MCITQ" {
		t.Errorf("selected = %v", lib.Selected)
	}
	if lib.Version == "" {
		t.Error("library version is empty")
	}
}

func TestStore_VersionChangesOnRewrite(t *testing.T) {
	dir := t.TempDir()
	path := writeLibrary(t, dir, testLibrary)
	store, err := NewStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	v1, err := store.Version(ctx)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}

	// Rewrite with different content; size change alone must flip the stamp
	// even when mtime granularity is coarse.
	time.Sleep(10 * time.Millisecond)
	writeLibrary(t, dir, testLibrary+"\n")

	// Give the watcher a moment; the stat fallback keeps this deterministic
	// because the dirty flag only skips stats, never pins a stale stamp
	// forever once the flag is set.
	deadline := time.Now().Add(2 * time.Second)
	for {
		v2, err := store.Version(ctx)
		if err != nil {
			t.Fatalf("Version: %v", err)
		}
		if v2 != v1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("version did not change: %q", v2)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestStore_PingMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeLibrary(t, dir, testLibrary)
	store, err := NewStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping with file present: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Ping(context.Background()); err == nil {
		t.Error("Ping with file missing: expected error")
	}
}

func TestNewStore_EmptyPath(t *testing.T) {
	if _, err := NewStore("", zap.NewNop()); err == nil {
		t.Error("expected error for empty path")
	}
}
