// Package badger provides a BadgerDB-backed snapshot store.
package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/marmos91/mountscope/pkg/snapshot"
)

// BadgerStore implements snapshot.Store using BadgerDB for persistence.
//
// This is the default local store: snapshots survive across runs so a table
// captured before a system change can be diffed against one captured after.
// See keys.go for the key schema and serialization.go for the on-disk
// encodings.
//
// Thread safety: BadgerDB transactions provide isolation; no additional
// locking is needed.
type BadgerStore struct {
	db *badger.DB
}

// BadgerStoreConfig contains configuration for the BadgerDB snapshot store.
type BadgerStoreConfig struct {
	// Path is the directory holding the database files. Created if missing.
	Path string `mapstructure:"path"`

	// InMemory runs the database without touching disk. Used by tests.
	InMemory bool `mapstructure:"in_memory"`
}

// NewBadgerStore opens (or creates) a BadgerDB snapshot store.
func NewBadgerStore(cfg BadgerStoreConfig) (*BadgerStore, error) {
	if cfg.Path == "" && !cfg.InMemory {
		return nil, &snapshot.StoreError{Code: snapshot.ErrInvalidArgument, Message: "badger store: path is required"}
	}

	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %q: %w", cfg.Path, err)
	}

	return &BadgerStore{db: db}, nil
}

// Save persists the snapshot under its name.
//
// Metadata and body are written in one transaction, so a snapshot is never
// visible half-stored.
func (s *BadgerStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.Name == "" {
		return &snapshot.StoreError{Code: snapshot.ErrInvalidArgument, Message: "snapshot name is required"}
	}

	infoBytes, err := encodeInfo(snap.Info)
	if err != nil {
		return &snapshot.StoreError{Code: snapshot.ErrIO, Message: err.Error(), Name: snap.Name}
	}
	bodyBytes, err := encodeBody(snap.Body())
	if err != nil {
		return &snapshot.StoreError{Code: snapshot.ErrIO, Message: err.Error(), Name: snap.Name}
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(keyInfo(snap.Name)); err == nil {
			return &snapshot.StoreError{Code: snapshot.ErrAlreadyExists, Message: "snapshot already exists", Name: snap.Name}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(keyInfo(snap.Name), infoBytes); err != nil {
			return err
		}
		return txn.Set(keyBody(snap.Name), bodyBytes)
	})

	return wrapBadgerError(err, snap.Name)
}

// Get retrieves a snapshot by name, including its records.
func (s *BadgerStore) Get(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var info snapshot.Info
	var body string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyInfo(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return &snapshot.StoreError{Code: snapshot.ErrNotFound, Message: "snapshot not found", Name: name}
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			info, err = decodeInfo(val)
			return err
		}); err != nil {
			return err
		}

		item, err = txn.Get(keyBody(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			body, err = decodeBody(val)
			return err
		})
	})
	if err != nil {
		return nil, wrapBadgerError(err, name)
	}

	records, err := snapshot.ParseBody(body)
	if err != nil {
		return nil, &snapshot.StoreError{Code: snapshot.ErrIO, Message: "stored snapshot body is corrupt", Name: name}
	}

	return &snapshot.Snapshot{Info: info, Records: records}, nil
}

// List returns metadata for all stored snapshots, sorted by name.
//
// Only the "i:" prefix is scanned; bodies are never loaded for a listing.
func (s *BadgerStore) List(ctx context.Context) ([]snapshot.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var infos []snapshot.Info

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixInfo)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				info, err := decodeInfo(val)
				if err != nil {
					return err
				}
				infos = append(infos, info)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapBadgerError(err, "")
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes a snapshot by name.
func (s *BadgerStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(keyInfo(name)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return &snapshot.StoreError{Code: snapshot.ErrNotFound, Message: "snapshot not found", Name: name}
			}
			return err
		}

		if err := txn.Delete(keyInfo(name)); err != nil {
			return err
		}
		return txn.Delete(keyBody(name))
	})

	return wrapBadgerError(err, name)
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// wrapBadgerError passes StoreErrors through and wraps raw badger failures
// with the ErrIO code.
func wrapBadgerError(err error, name string) error {
	if err == nil {
		return nil
	}
	var storeErr *snapshot.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &snapshot.StoreError{Code: snapshot.ErrIO, Message: err.Error(), Name: name}
}
