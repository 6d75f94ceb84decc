package snapshot

import "context"

// Store persists named snapshots.
//
// Implementations exist for memory (tests, throwaway use), BadgerDB (local
// persistent store) and S3-compatible object storage (sharing snapshots
// across machines). All implementations:
//   - reject Save when the name is already taken (ErrAlreadyExists)
//   - report missing names with ErrNotFound
//   - return listings sorted by name
//   - wrap backend failures in StoreError with code ErrIO
//
// The reusable contract test suite lives in pkg/snapshot/testing; every
// implementation runs it.
type Store interface {
	// Save persists the snapshot under its Name. Fails with
	// ErrAlreadyExists if the name is taken and ErrInvalidArgument if the
	// name is empty.
	Save(ctx context.Context, snap *Snapshot) error

	// Get retrieves a snapshot by name, including its records.
	Get(ctx context.Context, name string) (*Snapshot, error)

	// List returns metadata for all stored snapshots, sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a snapshot by name. Fails with ErrNotFound if no
	// snapshot has the name.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources. The store is unusable afterwards.
	Close() error
}
