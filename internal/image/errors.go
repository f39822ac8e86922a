package image

import "errors"

// ErrNotFound is returned when a requested image record does not exist.
var ErrNotFound = errors.New("image not found")

// ErrInvalidInput is the base of all upload validation failures. Specific
// reasons wrap it, so callers can branch with errors.Is(err, ErrInvalidInput)
// while still surfacing the concrete message.
var ErrInvalidInput = errors.New("invalid input")

// ErrStorage marks failures of the byte storage backend. The I/O-level
// cause is attached via wrapping.
var ErrStorage = errors.New("storage backend error")

// ErrMetadata marks failures of the metadata store.
var ErrMetadata = errors.New("metadata store error")
