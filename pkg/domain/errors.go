package domain

import "errors"

// ErrNoTables is returned by adapters when a document contains no tabular node.
var ErrNoTables = errors.New("no tables found")

// ErrTableIndex is returned when a requested table index is out of range.
var ErrTableIndex = errors.New("table index out of range")

// ErrInvalidConfig is returned when configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrClipboardUnavailable is returned by clipboard adapters that cannot reach their backend.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")
