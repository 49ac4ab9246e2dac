package domain

import "context"

// NoteRepository persists the whole notebook at a path.
type NoteRepository interface {
	Save(ctx context.Context, path string, notes []Note) error
	// Load returns no notes and no error when path does not exist.
	Load(ctx context.Context, path string) ([]Note, error)
}
