// Package lock holds small thread-safe primitives shared by
// components that need concurrent, shared ownership of a value. The
// buffer pool synchronizes frame access through frame-local mutexes
// directly (see internal/bufferpool); the trie's shared subtrees use
// RefCount to track how many parent nodes have ever referenced a
// child across versions.
package lock

import (
	"fmt"

	"go.uber.org/atomic"
)

// RefCount is an atomic incoming-edge counter. It never frees
// anything itself — Go's garbage collector owns node lifetime — so
// it exposes no Dec: once a node gains a second parent it stays
// shared for the purpose of this counter, which callers use purely
// as a diagnostic and test-assertion signal.
type RefCount struct {
	count atomic.Int32
}

// NewRefCount returns a counter initialized to one, representing the
// single incoming edge the caller is about to install.
func NewRefCount() *RefCount {
	r := &RefCount{}
	r.count.Store(1)
	return r
}

// Inc records one more incoming edge and returns the new count.
func (r *RefCount) Inc() int32 {
	return r.count.Inc()
}

// Load returns the current count.
func (r *RefCount) Load() int32 {
	return r.count.Load()
}

func (r *RefCount) String() string {
	return fmt.Sprintf("RefCount: %d", r.Load())
}
