package storage

import "errors"

// ErrWorldNotFound is returned when a requested world file does not
// exist in the data directory.
var ErrWorldNotFound = errors.New("world not found")
