package domain

import "errors"

var (
	// ErrNotFound indicates that a requested contact or phone was not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed input: an empty name, a bad phone or an impossible birthday.
	ErrValidation = errors.New("validation failed")
	// ErrIndexOutOfRange indicates a phone index outside the record's phone list.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrSnapshotIO indicates that a snapshot could not be written or read.
	ErrSnapshotIO = errors.New("snapshot i/o failed")
	// ErrCorruptSnapshot indicates a snapshot whose contents do not decode into valid records.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)
