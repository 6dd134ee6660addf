package bufferpool

import "errors"

var (
	// ErrPoolExhausted means no free frame and no evictable victim was
	// available. Recoverable: callers may retry once pages are unpinned.
	ErrPoolExhausted = errors.New("bufferpool: no free frame available")

	// ErrPageNotMapped means the requested page id has no live frame.
	ErrPageNotMapped = errors.New("bufferpool: page not present in pool")

	// ErrPagePinned means an operation that requires an unpinned page
	// (DeletePage) was attempted on a page with a positive pin count.
	ErrPagePinned = errors.New("bufferpool: page is pinned")
)
