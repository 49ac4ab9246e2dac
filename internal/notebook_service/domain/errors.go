package domain

import "errors"

var (
	// ErrNotFound indicates that no note has the requested name.
	ErrNotFound = errors.New("note not found")
	// ErrValidation indicates a note name or title that cannot be stored as one "name, title" line.
	ErrValidation = errors.New("validation failed")
	// ErrNotesIO indicates that the notes file could not be read or written.
	ErrNotesIO = errors.New("notes file error")
)
