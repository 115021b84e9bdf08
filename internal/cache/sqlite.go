package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fjonas/folio/internal/inspire"
	_ "modernc.org/sqlite"
)

// SQLiteSlot stores the cache slot in a SQLite key-value table.
type SQLiteSlot struct {
	db  *sql.DB
	key string
	now func() time.Time
}

// SlotInfo describes the stored value without decoding it.
type SlotInfo struct {
	Key       string    `json:"key"`
	Bytes     int       `json:"bytes"`
	WrittenAt time.Time `json:"written_at"`
}

// OpenSQLiteSlot opens or creates the cache database at path.
func OpenSQLiteSlot(path string) (*SQLiteSlot, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteSlot{db: db, key: SlotKey, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			written_at INTEGER NOT NULL
		);
	`)
	return err
}

// Load reads and decodes the slot. A missing row returns ErrMiss; a value
// that is not a JSON array of records returns ErrCorrupt.
func (s *SQLiteSlot) Load(ctx context.Context) (Snapshot, error) {
	var value string
	var writtenAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, written_at FROM slots WHERE key = ?`, s.key,
	).Scan(&value, &writtenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrMiss
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading cache slot: %w", err)
	}

	var recs []inspire.Record
	if err := json.Unmarshal([]byte(value), &recs); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return Snapshot{Records: recs, WrittenAt: time.UnixMilli(writtenAt)}, nil
}

// Store overwrites the slot with records.
func (s *SQLiteSlot) Store(ctx context.Context, records []inspire.Record) error {
	if records == nil {
		records = []inspire.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}
	return s.storeRaw(ctx, string(data))
}

func (s *SQLiteSlot) storeRaw(ctx context.Context, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, written_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, written_at = excluded.written_at
	`, s.key, value, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("writing cache slot: %w", err)
	}
	return nil
}

// Info returns metadata about the stored value, or ErrMiss.
func (s *SQLiteSlot) Info(ctx context.Context) (SlotInfo, error) {
	var size int
	var writtenAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT length(value), written_at FROM slots WHERE key = ?`, s.key,
	).Scan(&size, &writtenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SlotInfo{}, ErrMiss
	}
	if err != nil {
		return SlotInfo{}, fmt.Errorf("reading cache slot: %w", err)
	}
	return SlotInfo{Key: s.key, Bytes: size, WrittenAt: time.UnixMilli(writtenAt)}, nil
}

// Clear removes the stored value.
func (s *SQLiteSlot) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("clearing cache slot: %w", err)
	}
	return nil
}
