// Package cache persists the most recent successful publication fetch and
// reads the static pre-generated snapshot.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fjonas/folio/internal/inspire"
)

// SlotKey is the fixed key of the publication cache slot.
const SlotKey = "inspire_hep_papers_cache"

var (
	// ErrMiss indicates the slot or snapshot holds no value.
	ErrMiss = errors.New("cache miss")

	// ErrCorrupt indicates a stored value that could not be decoded.
	// Callers treat it as a miss.
	ErrCorrupt = errors.New("cache value corrupt")
)

// Snapshot is the content of the cache slot.
type Snapshot struct {
	Records   []inspire.Record
	WrittenAt time.Time
}

// Slot is a single named durable value.
type Slot interface {
	Load(ctx context.Context) (Snapshot, error)
	Store(ctx context.Context, records []inspire.Record) error
}

// IsMiss reports whether err should be handled as an empty slot.
func IsMiss(err error) bool {
	return errors.Is(err, ErrMiss) || errors.Is(err, ErrCorrupt)
}

// MemorySlot is an in-process Slot used for tests and --no-cache runs.
type MemorySlot struct {
	mu   sync.Mutex
	snap *Snapshot
	now  func() time.Time
}

// NewMemorySlot creates an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{now: time.Now}
}

// Load returns the stored snapshot or ErrMiss.
func (m *MemorySlot) Load(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return Snapshot{}, ErrMiss
	}
	recs := make([]inspire.Record, len(m.snap.Records))
	copy(recs, m.snap.Records)
	return Snapshot{Records: recs, WrittenAt: m.snap.WrittenAt}, nil
}

// Store replaces the stored snapshot.
func (m *MemorySlot) Store(ctx context.Context, records []inspire.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := make([]inspire.Record, len(records))
	copy(recs, records)
	m.snap = &Snapshot{Records: recs, WrittenAt: m.now()}
	return nil
}
