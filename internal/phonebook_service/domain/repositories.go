package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SnapshotInfo describes one persisted snapshot of a directory.
type SnapshotInfo struct {
	ID      uuid.UUID
	SavedAt time.Time
	Records int
}

// SnapshotStore persists the full contents of a directory at a caller-chosen path.
type SnapshotStore interface {
	// Save replaces whatever is stored at path with records, in order.
	Save(ctx context.Context, path string, records []*Record) (SnapshotInfo, error)
	// Load returns the records stored at path. A missing path wraps os.ErrNotExist.
	Load(ctx context.Context, path string) ([]*Record, SnapshotInfo, error)
}
