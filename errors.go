package erdraw

import "errors"

// Contract violations. Every error returned by this package wraps one of
// these, so callers can test with errors.Is.
var (
	ErrNoSurface         = errors.New("no drawing surface")
	ErrNotRegistered     = errors.New("element not registered")
	ErrAlreadyRegistered = errors.New("element already registered")
	ErrNotRemovable      = errors.New("element cannot be removed directly")
	ErrWrongKind         = errors.New("wrong element kind")
	ErrUnknownRecord     = errors.New("unknown record type")
	ErrRecordType        = errors.New("record type mismatch")
	ErrDanglingID        = errors.New("record references unknown id")
	ErrDuplicateID       = errors.New("duplicate record id")
)
