// Package bbolt provides a BBolt-backed Login Directory for single-node deployments.
//
// Every identity owns one bucket; each login is stored under a fresh UUID key
// with the JSON-encoded record as value.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"tg-otp-service/internal/directory"
	"tg-otp-service/internal/domain"
)

// Store implements directory.Directory backed by a BBolt database.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

var _ directory.Directory = (*Store)(nil)

// New returns a Store backed by the given BBolt database.
func New(db *bbolt.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Open opens a BBolt database at path and returns a new Store.
func Open(path string, options *bbolt.Options) (*Store, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return New(db), nil
}

// Close closes the underlying BBolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateRecord(ctx context.Context, identity domain.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(directory.NewRecord(identity, s.now()))
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(identity))
		if err != nil {
			return err
		}
		return b.Put([]byte(uuid.NewString()), data)
	})
}

func (s *Store) Exists(ctx context.Context, identity domain.Identity) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(identity))
		if b == nil {
			return nil
		}
		k, _ := b.Cursor().First()
		found = k != nil
		return nil
	})
	return found, err
}

func (s *Store) DeleteRecord(ctx context.Context, identity domain.Identity) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(identity))
		if b == nil {
			return nil
		}
		if err := b.ForEach(func(_, _ []byte) error {
			n++
			return nil
		}); err != nil {
			return err
		}
		return tx.DeleteBucket([]byte(identity))
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Records returns every record stored for identity.
func (s *Store) Records(identity domain.Identity) ([]directory.Record, error) {
	var records []directory.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(identity))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var r directory.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			records = append(records, r)
			return nil
		})
	})
	return records, err
}
