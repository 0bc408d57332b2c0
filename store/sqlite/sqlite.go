/*
Package sqlite keeps the planning document in SQLite, one row per save.

PURPOSE:
  An alternative to the JSON file when edit history matters. Every Save
  appends a snapshot of the whole document; Load returns the newest one.
  Older snapshots can be listed and loaded for comparison or rollback.

APPEND-ONLY:
  Snapshots are never updated. Rolling back is a Save of an older snapshot,
  which becomes the newest row.

KEY TABLES:
  snapshots: id, seq (insert order), saved_at, per-kind counts, body JSON
  settings:  a single row holding the UI settings document

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The connection pool is capped at one
  so ":memory:" databases are shared by every query.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging) so readers do
  not block the single writer.

USAGE:
  store, err := sqlite.New("./planner.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - planning/store.go: Store and SnapshotStore interfaces
  - factory/document.go: Body encoding
  - store/jsonfile: The default file-based store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/resource-planner/config"
	"github.com/warp/resource-planner/factory"
	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/planning"
)

// Store implements planning.SnapshotStore using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

var _ planning.SnapshotStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Snapshots (append-only document history)
	CREATE TABLE IF NOT EXISTS snapshots (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		saved_at TEXT NOT NULL,
		people INTEGER NOT NULL DEFAULT 0,
		teams INTEGER NOT NULL DEFAULT 0,
		departments INTEGER NOT NULL DEFAULT 0,
		projects INTEGER NOT NULL DEFAULT 0,
		body TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_saved_at
		ON snapshots(saved_at);

	-- UI settings (single row)
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		body TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DOCUMENT STORE (planning.Store interface)
// =============================================================================

// Load returns the newest snapshot, or an empty document if none exist.
func (s *Store) Load(ctx context.Context) (*planning.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM snapshots ORDER BY seq DESC LIMIT 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return planning.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return decode(body)
}

// Save appends a new snapshot.
func (s *Store) Save(ctx context.Context, doc *planning.Document) error {
	_, err := s.SaveSnapshot(ctx, doc)
	return err
}

// SaveSnapshot appends a snapshot and returns its description.
func (s *Store) SaveSnapshot(ctx context.Context, doc *planning.Document) (planning.SnapshotInfo, error) {
	body, err := factory.MarshalDocument(doc)
	if err != nil {
		return planning.SnapshotInfo{}, err
	}
	info := planning.SnapshotInfo{
		ID:          uuid.New().String(),
		SavedAt:     s.now().UTC(),
		People:      len(doc.People),
		Teams:       len(doc.Teams),
		Departments: len(doc.Departments),
		Projects:    len(doc.Projects),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, saved_at, people, teams, departments, projects, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, info.ID, info.SavedAt.Format(time.RFC3339Nano),
		info.People, info.Teams, info.Departments, info.Projects, string(body))
	if err != nil {
		return planning.SnapshotInfo{}, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return info, nil
}

// =============================================================================
// SNAPSHOT HISTORY (planning.SnapshotStore interface)
// =============================================================================

// ListSnapshots returns snapshots newest first. limit <= 0 returns all.
func (s *Store) ListSnapshots(ctx context.Context, limit int) ([]planning.SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, saved_at, people, teams, departments, projects
		FROM snapshots ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []planning.SnapshotInfo{}
	for rows.Next() {
		var info planning.SnapshotInfo
		var savedAt string
		if err := rows.Scan(&info.ID, &savedAt, &info.People, &info.Teams, &info.Departments, &info.Projects); err != nil {
			return nil, err
		}
		info.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		result = append(result, info)
	}
	return result, rows.Err()
}

// LoadSnapshot returns the document saved under id.
func (s *Store) LoadSnapshot(ctx context.Context, id string) (*planning.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", id, generic.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return decode(body)
}

// Prune deletes all but the newest keep snapshots and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE seq NOT IN (
			SELECT seq FROM snapshots ORDER BY seq DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// =============================================================================
// SETTINGS
// =============================================================================

// LoadSettings returns the stored settings, or defaults if none were saved.
func (s *Store) LoadSettings(ctx context.Context) (config.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM settings WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return config.DefaultSettings(), nil
	}
	if err != nil {
		return config.Settings{}, err
	}
	var settings config.Settings
	if err := json.Unmarshal([]byte(body), &settings); err != nil {
		return config.Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings.WithDefaults(), nil
}

// SaveSettings replaces the stored settings.
func (s *Store) SaveSettings(ctx context.Context, settings config.Settings) error {
	body, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (id, body, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, string(body), s.now().UTC().Format(time.RFC3339Nano))
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"snapshots", "settings"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func decode(body string) (*planning.Document, error) {
	doc, _, err := factory.ParseDocument([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return doc, nil
}
