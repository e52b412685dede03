// Package memory provides a thread-safe in-memory Login Directory.
// Suitable for testing and local development; records are lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"tg-otp-service/internal/directory"
	"tg-otp-service/internal/domain"
)

// Directory is an in-memory directory.Directory.
type Directory struct {
	mu      sync.RWMutex
	records map[domain.Identity][]directory.Record
	now     func() time.Time
}

var _ directory.Directory = (*Directory)(nil)

// New creates an empty Directory.
func New() *Directory {
	return &Directory{
		records: make(map[domain.Identity][]directory.Record),
		now:     time.Now,
	}
}

func (d *Directory) CreateRecord(_ context.Context, identity domain.Identity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records[identity] = append(d.records[identity], directory.NewRecord(identity, d.now()))
	return nil
}

func (d *Directory) Exists(_ context.Context, identity domain.Identity) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records[identity]) > 0, nil
}

func (d *Directory) DeleteRecord(_ context.Context, identity domain.Identity) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.records[identity])
	delete(d.records, identity)
	return n, nil
}

// Records returns a copy of the records of identity.
func (d *Directory) Records(identity domain.Identity) []directory.Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]directory.Record(nil), d.records[identity]...)
}
