package tracker

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sent_links.json")
	return NewFileStore(path, zap.NewNop()), path
}

func TestFileStoreColdStart(t *testing.T) {
	store, _ := newTestFileStore(t)
	links := store.Load(context.Background())
	if links.Len() != 0 {
		t.Fatalf("expected empty set on first run, got %d entries", links.Len())
	}
}

func TestFileStoreCorruptRecordFailsOpen(t *testing.T) {
	store, path := newTestFileStore(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	links := store.Load(context.Background())
	if links.Len() != 0 {
		t.Fatalf("expected empty set for corrupt record, got %d entries", links.Len())
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestFileStore(t)

	links := New()
	links.MarkSent("https://example.com/a", "First")
	links.MarkSent("https://example.com/b", "Second")
	if err := store.Save(ctx, links); err != nil {
		t.Fatal(err)
	}

	loaded := store.Load(ctx)
	if diff := cmp.Diff(links.URLs(), loaded.URLs()); diff != "" {
		t.Fatalf("sent set changed across save/load (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(links.History(0), loaded.History(0)); diff != "" {
		t.Fatalf("history changed across save/load (-want +got):\n%s", diff)
	}
}

func TestFileStoreSaveOfLoadIsStable(t *testing.T) {
	ctx := context.Background()
	store, path := newTestFileStore(t)

	links := New()
	links.MarkSent("https://example.com/a", "First")
	if err := store.Save(ctx, links); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Save(ctx, store.Load(ctx)); err != nil {
		t.Fatal(err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(before, after) {
		t.Fatalf("save(load()) changed the durable record:\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	store, path := newTestFileStore(t)

	links := New()
	links.MarkSent("https://example.com/a", "")
	if err := store.Save(ctx, links); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != filepath.Base(path) {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the record file, found %v", names)
	}
}

func TestFileStoreReset(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestFileStore(t)

	links := New()
	links.MarkSent("https://example.com/a", "")
	if err := store.Save(ctx, links); err != nil {
		t.Fatal(err)
	}

	reset, err := store.Reset(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if reset.Len() != 0 {
		t.Fatal("Reset returned a non-empty set")
	}
	if loaded := store.Load(ctx); loaded.Len() != 0 {
		t.Fatal("Reset did not persist the empty set")
	}
}
