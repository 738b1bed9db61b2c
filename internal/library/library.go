// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library keeps translated items in a local SQLite database. Each
// record has an 8-character key and an integer version; writes carry the
// version the caller last saw and fail when it no longer matches.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/pdiddy/translation-engine/pkg/types"
)

var (
	// ErrNotFound is returned for a key with no record.
	ErrNotFound = errors.New("library: item not found")

	// ErrVersionConflict is returned when the stored version differs from
	// the version the caller expected.
	ErrVersionConflict = errors.New("library: version conflict")
)

const (
	keyLength       = 8
	maxKeyAttempts  = 5
	defaultPageSize = 50

	// timeLayout is fixed-width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Record is one stored item.
type Record struct {
	Key        string     `json:"key" yaml:"key"`
	Version    int        `json:"version" yaml:"version"`
	Item       types.Item `json:"item" yaml:"item"`
	Confidence float64    `json:"confidence" yaml:"confidence"`
	Provider   string     `json:"provider,omitempty" yaml:"provider,omitempty"`
	Created    time.Time  `json:"created" yaml:"created"`
	Modified   time.Time  `json:"modified" yaml:"modified"`
}

// Store is the SQLite-backed library.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and its schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			key TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			item_type TEXT NOT NULL,
			title TEXT,
			item TEXT NOT NULL,
			confidence REAL,
			provider TEXT,
			created TEXT NOT NULL,
			modified TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_type ON items(item_type)`,
		`CREATE INDEX IF NOT EXISTS idx_items_modified ON items(modified)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// NewKey returns a random 8-character upper-case alphanumeric key.
func NewKey() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(hex[:keyLength])
}

// Save stores the item of a translation as version 1 under a new key.
func (s *Store) Save(ctx context.Context, res *types.TranslationResult) (Record, error) {
	now := s.now().UTC()
	rec := Record{
		Version:    1,
		Item:       res.Item,
		Confidence: res.Confidence,
		Provider:   res.Processing.AIProvider,
		Created:    now,
		Modified:   now,
	}
	data, err := json.Marshal(rec.Item)
	if err != nil {
		return Record{}, fmt.Errorf("encoding item: %w", err)
	}

	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		rec.Key = NewKey()
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO items (key, version, item_type, title, item, confidence, provider, created, modified)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.Key, rec.Version, string(rec.Item.ItemType), rec.Item.Title, string(data),
			rec.Confidence, rec.Provider, formatTime(now), formatTime(now),
		)
		if err == nil {
			return rec, nil
		}
		if !isConstraint(err) {
			return Record{}, fmt.Errorf("inserting item: %w", err)
		}
	}
	return Record{}, fmt.Errorf("inserting item: no free key after %d attempts: %w", maxKeyAttempts, err)
}

// Update replaces the item stored under key if its version is still
// expected, and returns the record with the bumped version.
func (s *Store) Update(ctx context.Context, key string, expected int, item types.Item) (Record, error) {
	now := s.now().UTC()
	item.DateModified = now.Format(time.RFC3339)
	data, err := json.Marshal(item)
	if err != nil {
		return Record{}, fmt.Errorf("encoding item: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET version = version + 1, item_type = ?, title = ?, item = ?, modified = ?
		 WHERE key = ? AND version = ?`,
		string(item.ItemType), item.Title, string(data), formatTime(now), key, expected,
	)
	if err != nil {
		return Record{}, fmt.Errorf("updating item %s: %w", key, err)
	}
	if err := s.checkAffected(ctx, res, key); err != nil {
		return Record{}, err
	}
	return s.Get(ctx, key)
}

// Delete removes the record under key if its version is still expected.
func (s *Store) Delete(ctx context.Context, key string, expected int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE key = ? AND version = ?`, key, expected)
	if err != nil {
		return fmt.Errorf("deleting item %s: %w", key, err)
	}
	return s.checkAffected(ctx, res, key)
}

// checkAffected tells a missing key apart from a stale version when a
// conditional write matched no row.
func (s *Store) checkAffected(ctx context.Context, res sql.Result, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var version int
	err = s.db.QueryRowContext(ctx, `SELECT version FROM items WHERE key = ?`, key).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s is at version %d", ErrVersionConflict, key, version)
}

// Get loads the record under key.
func (s *Store) Get(ctx context.Context, key string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT key, version, item, confidence, provider, created, modified FROM items WHERE key = ?`, key)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return rec, err
}

// List returns records newest first, optionally restricted to one item
// type. A limit of zero selects a default page size.
func (s *Store) List(ctx context.Context, itemType types.ItemType, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	query := `SELECT key, version, item, confidence, provider, created, modified FROM items`
	args := []any{}
	if itemType != "" {
		query += ` WHERE item_type = ?`
		args = append(args, string(itemType))
	}
	query += ` ORDER BY modified DESC, key LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec               Record
		data              string
		provider          sql.NullString
		confidence        sql.NullFloat64
		created, modified string
	)
	if err := row.Scan(&rec.Key, &rec.Version, &data, &confidence, &provider, &created, &modified); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(data), &rec.Item); err != nil {
		return Record{}, fmt.Errorf("decoding item %s: %w", rec.Key, err)
	}
	rec.Confidence = confidence.Float64
	rec.Provider = provider.String
	rec.Created, _ = time.Parse(timeLayout, created)
	rec.Modified, _ = time.Parse(timeLayout, modified)
	return rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func isConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
