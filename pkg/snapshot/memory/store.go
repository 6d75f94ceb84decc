// Package memory provides an in-memory snapshot store.
//
// Nothing survives process exit; the store exists for tests and for
// one-shot pipelines that never persist. It is the reference implementation
// of the Store contract.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/marmos91/mountscope/pkg/snapshot"
)

// MemoryStore implements snapshot.Store backed by a map.
//
// Thread safety: all operations are protected by a single read-write mutex,
// matching the coarse-grained locking used elsewhere in the stores.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]*entry
}

// entry keeps the metadata and the rendered body separately, mirroring what
// the persistent stores do: Get re-parses the body so every store hands back
// records with the same provenance.
type entry struct {
	info snapshot.Info
	body string
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]*entry)}
}

// Save persists the snapshot under its name.
func (s *MemoryStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.Name == "" {
		return &snapshot.StoreError{Code: snapshot.ErrInvalidArgument, Message: "snapshot name is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snaps[snap.Name]; ok {
		return &snapshot.StoreError{Code: snapshot.ErrAlreadyExists, Message: "snapshot already exists", Name: snap.Name}
	}

	s.snaps[snap.Name] = &entry{info: snap.Info, body: snap.Body()}
	return nil
}

// Get retrieves a snapshot by name.
func (s *MemoryStore) Get(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, ok := s.snaps[name]
	s.mu.RUnlock()

	if !ok {
		return nil, &snapshot.StoreError{Code: snapshot.ErrNotFound, Message: "snapshot not found", Name: name}
	}

	records, err := snapshot.ParseBody(e.body)
	if err != nil {
		return nil, &snapshot.StoreError{Code: snapshot.ErrIO, Message: "stored snapshot body is corrupt", Name: name}
	}

	return &snapshot.Snapshot{Info: e.info, Records: records}, nil
}

// List returns metadata for all stored snapshots, sorted by name.
func (s *MemoryStore) List(ctx context.Context) ([]snapshot.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]snapshot.Info, 0, len(s.snaps))
	for _, e := range s.snaps {
		infos = append(infos, e.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes a snapshot by name.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snaps[name]; !ok {
		return &snapshot.StoreError{Code: snapshot.ErrNotFound, Message: "snapshot not found", Name: name}
	}
	delete(s.snaps, name)
	return nil
}

// Close releases the store's map.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = nil
	return nil
}
