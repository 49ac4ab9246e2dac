// Package repository selects the snapshot format for a destination path.
package repository

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aradsms/assistant/internal/phonebook_service/domain"
	"github.com/aradsms/assistant/internal/phonebook_service/repository/file"
	"github.com/aradsms/assistant/internal/phonebook_service/repository/sqlite"
)

// Router implements domain.SnapshotStore by delegating on the path's extension:
// .yaml and .yml go to YAML, .db, .sqlite and .sqlite3 go to SQLite, anything else is JSON.
type Router struct {
	JSON   domain.SnapshotStore
	YAML   domain.SnapshotStore
	SQLite domain.SnapshotStore
}

// NewRouter wires the file and SQLite snapshot repositories.
func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		JSON:   file.NewSnapshotRepository(file.JSONCodec{}, logger),
		YAML:   file.NewSnapshotRepository(file.YAMLCodec{}, logger),
		SQLite: sqlite.NewSnapshotRepository(logger),
	}
}

var _ domain.SnapshotStore = (*Router)(nil)

// StoreFor returns the store responsible for path.
func (r *Router) StoreFor(path string) domain.SnapshotStore {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return r.YAML
	case ".db", ".sqlite", ".sqlite3":
		return r.SQLite
	default:
		return r.JSON
	}
}

func (r *Router) Save(ctx context.Context, path string, records []*domain.Record) (domain.SnapshotInfo, error) {
	return r.StoreFor(path).Save(ctx, path, records)
}

func (r *Router) Load(ctx context.Context, path string) ([]*domain.Record, domain.SnapshotInfo, error) {
	return r.StoreFor(path).Load(ctx, path)
}
