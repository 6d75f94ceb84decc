package badger

import (
	"context"
	"testing"

	"github.com/marmos91/mountscope/pkg/snapshot"
	snapshottesting "github.com/marmos91/mountscope/pkg/snapshot/testing"
)

// TestBadgerStore runs the complete Store test suite against the BadgerDB
// implementation, using an in-memory database so no files are left behind.
func TestBadgerStore(t *testing.T) {
	suite := &snapshottesting.StoreTestSuite{
		NewStore: func() snapshot.Store {
			store, err := NewBadgerStore(BadgerStoreConfig{InMemory: true})
			if err != nil {
				t.Fatalf("Failed to create BadgerStore: %v", err)
			}
			return store
		},
	}

	suite.Run(t)
}

// TestBadgerStore_OnDisk verifies snapshots survive a close and reopen of the
// same database directory.
func TestBadgerStore_OnDisk(t *testing.T) {
	dir := t.TempDir()

	store, err := NewBadgerStore(BadgerStoreConfig{Path: dir})
	if err != nil {
		t.Fatalf("Failed to create BadgerStore: %v", err)
	}

	snap := snapshottesting.TestSnapshot(t, "persisted")
	if err := store.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewBadgerStore(BadgerStoreConfig{Path: dir})
	if err != nil {
		t.Fatalf("Failed to reopen BadgerStore: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), "persisted")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got.ID != snap.ID {
		t.Errorf("ID changed across reopen: got %s, want %s", got.ID, snap.ID)
	}
	if len(got.Records) != len(snap.Records) {
		t.Errorf("record count changed across reopen: got %d, want %d", len(got.Records), len(snap.Records))
	}
}

func TestNewBadgerStore_MissingPath(t *testing.T) {
	_, err := NewBadgerStore(BadgerStoreConfig{})
	if err == nil {
		t.Fatal("expected an error for an empty path")
	}
}
