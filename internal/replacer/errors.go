package replacer

import "errors"

var (
	// ErrInvalidFrame is raised when a frame id falls outside
	// [0, num_frames). The replacer is an internal collaborator, so
	// this indicates an implementation bug in the caller, not a
	// recoverable runtime condition.
	ErrInvalidFrame = errors.New("replacer: frame id out of range")

	// ErrFrameNotFound is raised by SetEvictable on a frame that is not
	// tracked: never recorded, or evicted or removed since.
	ErrFrameNotFound = errors.New("replacer: frame not tracked")

	// ErrNotEvictable is raised by Remove on a tracked frame that is
	// not evictable: removing a pinned frame is a contract violation.
	ErrNotEvictable = errors.New("replacer: frame is not evictable")
)
