package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	badgerStore, err := OpenBadger(BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	stores := map[string]Store{"sqlite": sqlite, "badger": badgerStore}
	t.Cleanup(func() {
		for _, s := range stores {
			if err := s.Close(); err != nil {
				t.Errorf("failed to close store: %v", err)
			}
		}
	})
	return stores
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			if err := store.Set(ctx, "calendar_aaron", []byte(`{"v":1}`)); err != nil {
				t.Fatalf("failed to set: %v", err)
			}
			got, err := store.Get(ctx, "calendar_aaron")
			if err != nil {
				t.Fatalf("failed to get: %v", err)
			}
			if string(got) != `{"v":1}` {
				t.Fatalf("unexpected value %q", got)
			}

			// Overwrite.
			if err := store.Set(ctx, "calendar_aaron", []byte(`{"v":2}`)); err != nil {
				t.Fatalf("failed to overwrite: %v", err)
			}
			got, err = store.Get(ctx, "calendar_aaron")
			if err != nil || string(got) != `{"v":2}` {
				t.Fatalf("overwrite lost: %q, %v", got, err)
			}

			if err := store.Delete(ctx, "calendar_aaron"); err != nil {
				t.Fatalf("failed to delete: %v", err)
			}
			if _, err := store.Get(ctx, "calendar_aaron"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}

			// Deleting a missing key is not an error.
			if err := store.Delete(ctx, "calendar_aaron"); err != nil {
				t.Fatalf("delete of missing key failed: %v", err)
			}
		})
	}
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	if err := store.Set(ctx, "current_calendar_user", []byte("kristin")); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}
	defer func() {
		if cerr := reopened.Close(); cerr != nil {
			t.Errorf("failed to close: %v", cerr)
		}
	}()
	got, err := reopened.Get(ctx, "current_calendar_user")
	if err != nil || string(got) != "kristin" {
		t.Fatalf("value did not survive reopen: %q, %v", got, err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("etcd", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
