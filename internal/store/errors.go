package store

import "errors"

// ErrSnapshotNotFound is returned when no cached snapshot exists for the
// requested username.
var ErrSnapshotNotFound = errors.New("snapshot not found")
