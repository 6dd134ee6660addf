package bufferpool

import (
	"sync"

	"github.com/duskdb/duskdb/internal/storage"
)

// Frame is a fixed-size in-memory slot holding at most one page, plus
// the metadata the pool and replacer need to manage it. Its RWMutex is
// the frame-level latch acquired by read/write page guards; it is
// entirely independent of the pool's own mutex (see FetchPageRead).
type Frame struct {
	latch sync.RWMutex

	pageID   storage.PageID
	pinCount int32
	dirty    bool
	data     []byte
}

func newFrame() *Frame {
	return &Frame{
		pageID: storage.InvalidPageID,
		data:   make([]byte, storage.PageSize),
	}
}

// PageID returns the page currently occupying the frame, or
// storage.InvalidPageID if the frame is empty.
func (f *Frame) PageID() storage.PageID { return f.pageID }

// Data returns the frame's fixed-size byte buffer. Callers holding a
// read guard must not write through it; callers holding a write guard
// may.
func (f *Frame) Data() []byte { return f.data }

// IsDirty reports whether the in-memory copy diverges from disk.
func (f *Frame) IsDirty() bool { return f.dirty }

// PinCount returns the number of live pins on the frame.
func (f *Frame) PinCount() int32 { return f.pinCount }

func (f *Frame) reset() {
	f.pageID = storage.InvalidPageID
	f.pinCount = 0
	f.dirty = false
	for i := range f.data {
		f.data[i] = 0
	}
}
