package interfaces

import "errors"

var (
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStaleStep means a conditional profile advance lost: the stored
	// current step no longer matches what the write was conditioned on.
	ErrStaleStep = errors.New("stale step")
)
