// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Package reference persists the local mapping between content hashes and
// gateway file identifiers.
//
// The gateway itself only knows fids. The engine answers lookups by content
// hash and by owner address, so every successful upload records a reference
// tuple here. References survive restarts; the metadata cache does not.
package reference

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/vitrine-labs/persona-engine/internal/logging"
)

// ErrNotFound means no reference exists for the requested hash or owner.
var ErrNotFound = errors.New("reference not found")

// Key prefixes. Hash keys hold the full reference; owner keys index the
// newest-first hash list per address.
const (
	hashPrefix  = "ref:hash:"
	ownerPrefix = "ref:owner:"
)

// Reference links a content hash to the gateway fid it was stored under.
type Reference struct {
	ContentHash string    `json:"content_hash"`
	FID         string    `json:"fid"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is a badger-backed reference store.
type Store struct {
	db *badger.DB
}

// Open opens the store at path. An empty path with inMemory set runs fully
// in memory, used by tests and ephemeral deployments.
func Open(path string, inMemory bool) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithInMemory(inMemory).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open reference store: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing badger instance. The caller keeps ownership of
// the database lifecycle.
func NewWithDB(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the underlying database accepts reads.
func (s *Store) Ping() error {
	return s.db.View(func(txn *badger.Txn) error { return nil })
}

// Save upserts a reference, keyed by content hash and indexed by owner.
func (s *Store) Save(ref Reference) error {
	if ref.ContentHash == "" || ref.FID == "" {
		return fmt.Errorf("reference requires content hash and fid")
	}

	value, err := json.Marshal(ref)
	if err != nil {
		return fmt.Errorf("marshal reference: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(hashPrefix+ref.ContentHash), value); err != nil {
			return err
		}
		if ref.Owner != "" {
			// Inverted timestamp orders owner index iteration newest-first.
			key := fmt.Sprintf("%s%s:%020d", ownerPrefix, ref.Owner, inverted(ref.CreatedAt))
			return txn.Set([]byte(key), []byte(ref.ContentHash))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save reference: %w", err)
	}

	logging.Debug().
		Str("content_hash", ref.ContentHash).
		Str("fid", ref.FID).
		Msg("Reference saved")
	return nil
}

// GetByHash returns the reference stored under a content hash.
func (s *Store) GetByHash(contentHash string) (*Reference, error) {
	var ref Reference
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(hashPrefix + contentHash))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ref)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: hash %s", ErrNotFound, contentHash)
	}
	if err != nil {
		return nil, fmt.Errorf("get reference: %w", err)
	}
	return &ref, nil
}

// LatestByOwner returns the most recently saved reference for an owner
// address.
func (s *Store) LatestByOwner(owner string) (*Reference, error) {
	refs, err := s.ListByOwner(owner, 1)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: owner %s", ErrNotFound, owner)
	}
	return &refs[0], nil
}

// ListByOwner returns up to limit references for an owner, newest first.
func (s *Store) ListByOwner(owner string, limit int) ([]Reference, error) {
	var hashes []string
	prefix := []byte(ownerPrefix + owner + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(hashes) >= limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				hashes = append(hashes, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}

	refs := make([]Reference, 0, len(hashes))
	for _, hash := range hashes {
		ref, err := s.GetByHash(hash)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, *ref)
	}
	return refs, nil
}

// inverted maps a timestamp to a descending sort key.
func inverted(t time.Time) int64 {
	const maxNanos = int64(1) << 62
	return maxNanos - t.UnixNano()
}
