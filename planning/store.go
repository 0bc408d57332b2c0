/*
store.go - Persistence interfaces for the planning document

PURPOSE:
  The engine has no I/O. A Store loads and saves the whole Document as one
  blob; there are no per-record writes and no transactions beyond "the save
  succeeded or the live document was not replaced".

IMPLEMENTATIONS:
  - store/jsonfile: the JSON document on disk (default)
  - store/sqlite:   every save appended as a snapshot row
  - store/memory:   in-memory for tests and demos

SEE ALSO:
  - api/handlers.go: Owns the live Document and calls Save after edits
*/
package planning

import (
	"context"
	"time"
)

// Store loads and saves the whole planning document.
type Store interface {
	// Load returns the current document. A store with nothing saved yet
	// returns an empty document, not an error.
	Load(ctx context.Context) (*Document, error)

	// Save replaces the stored document.
	Save(ctx context.Context, doc *Document) error
}

// SnapshotInfo describes one saved version of the document.
type SnapshotInfo struct {
	ID          string
	SavedAt     time.Time
	People      int
	Teams       int
	Departments int
	Projects    int
}

// SnapshotStore is implemented by stores that keep every saved version.
type SnapshotStore interface {
	Store
	ListSnapshots(ctx context.Context, limit int) ([]SnapshotInfo, error)
	LoadSnapshot(ctx context.Context, id string) (*Document, error)
}
