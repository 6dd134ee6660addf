package bufferpool

import "github.com/duskdb/duskdb/internal/storage"

// BasicPageGuard is a move-only handle owning a pin on a page for as
// long as the guard is live. Drop releases the pin exactly once; a
// guard that is never dropped keeps its pin. A nil frame marks a
// guard that has nothing left to release, whether because it was
// dropped or because ownership moved out of it.
type BasicPageGuard struct {
	pool  *Pool
	frame *Frame
	dirty bool
}

func newBasicPageGuard(pool *Pool, frame *Frame) *BasicPageGuard {
	return &BasicPageGuard{pool: pool, frame: frame}
}

// PageID returns the guarded page's id, or storage.InvalidPageID once dropped.
func (g *BasicPageGuard) PageID() storage.PageID {
	if g.frame == nil {
		return storage.InvalidPageID
	}
	return g.frame.PageID()
}

// Data returns the frame's byte buffer.
func (g *BasicPageGuard) Data() []byte {
	if g.frame == nil {
		return nil
	}
	return g.frame.Data()
}

// MarkDirty OR-s the dirty flag that will be passed to UnpinPage on
// Drop; it can never be cleared through the guard.
func (g *BasicPageGuard) MarkDirty() { g.dirty = true }

// Move transfers ownership to a new guard and leaves the receiver
// inert: its Drop becomes a no-op.
func (g *BasicPageGuard) Move() *BasicPageGuard {
	moved := &BasicPageGuard{pool: g.pool, frame: g.frame, dirty: g.dirty}
	g.pool, g.frame, g.dirty = nil, nil, false
	return moved
}

// UpgradeToRead releases basic ownership and returns a read guard on
// the same frame, latching before returning and leaving the pin count
// unchanged. A dirty mark already accumulated on the basic guard is
// applied to the frame first, since a read guard never marks dirty.
func (g *BasicPageGuard) UpgradeToRead() *ReadPageGuard {
	if g.frame == nil {
		return &ReadPageGuard{}
	}
	frame, pool, dirty := g.frame, g.pool, g.dirty
	g.pool, g.frame, g.dirty = nil, nil, false
	if dirty {
		pool.mu.Lock()
		frame.dirty = true
		pool.mu.Unlock()
	}
	frame.latch.RLock()
	return newReadPageGuard(pool, frame)
}

// UpgradeToWrite releases basic ownership and returns a write guard on
// the same frame, latching before returning and leaving the pin count
// unchanged. The accumulated dirty mark carries over to the write guard.
func (g *BasicPageGuard) UpgradeToWrite() *WritePageGuard {
	if g.frame == nil {
		return &WritePageGuard{}
	}
	frame, pool, dirty := g.frame, g.pool, g.dirty
	g.pool, g.frame, g.dirty = nil, nil, false
	frame.latch.Lock()
	w := newWritePageGuard(pool, frame)
	w.dirty = dirty
	return w
}

// Drop releases the pin, OR-ing in the accumulated dirty flag. Safe to
// call multiple times; only the first call has any effect.
func (g *BasicPageGuard) Drop() {
	if g.frame == nil {
		return
	}
	frame, pool, dirty := g.frame, g.pool, g.dirty
	g.pool, g.frame, g.dirty = nil, nil, false
	pool.UnpinPage(frame.PageID(), dirty)
}

// ReadPageGuard owns a pin plus a shared latch on the frame.
type ReadPageGuard struct {
	pool  *Pool
	frame *Frame
}

func newReadPageGuard(pool *Pool, frame *Frame) *ReadPageGuard {
	return &ReadPageGuard{pool: pool, frame: frame}
}

func (g *ReadPageGuard) PageID() storage.PageID {
	if g.frame == nil {
		return storage.InvalidPageID
	}
	return g.frame.PageID()
}

// Data returns a read-only view of the frame's byte buffer.
func (g *ReadPageGuard) Data() []byte {
	if g.frame == nil {
		return nil
	}
	return g.frame.Data()
}

func (g *ReadPageGuard) Move() *ReadPageGuard {
	moved := &ReadPageGuard{pool: g.pool, frame: g.frame}
	g.pool, g.frame = nil, nil
	return moved
}

// Drop releases the shared latch, then the pin. The latch is released
// first and the frame reference is snapshotted before either release,
// so the ordering is well-defined regardless of any prior Move: the
// original source of this bug released the pin before the latch,
// which could observe a nil frame if the guard had just been moved.
func (g *ReadPageGuard) Drop() {
	if g.frame == nil {
		return
	}
	frame, pool := g.frame, g.pool
	g.pool, g.frame = nil, nil
	frame.latch.RUnlock()
	pool.UnpinPage(frame.PageID(), false)
}

// WritePageGuard owns a pin plus an exclusive latch on the frame.
type WritePageGuard struct {
	pool  *Pool
	frame *Frame
	dirty bool
}

func newWritePageGuard(pool *Pool, frame *Frame) *WritePageGuard {
	return &WritePageGuard{pool: pool, frame: frame}
}

func (g *WritePageGuard) PageID() storage.PageID {
	if g.frame == nil {
		return storage.InvalidPageID
	}
	return g.frame.PageID()
}

// Data returns a mutable view of the frame's byte buffer.
func (g *WritePageGuard) Data() []byte {
	if g.frame == nil {
		return nil
	}
	return g.frame.Data()
}

func (g *WritePageGuard) MarkDirty() { g.dirty = true }

func (g *WritePageGuard) Move() *WritePageGuard {
	moved := &WritePageGuard{pool: g.pool, frame: g.frame, dirty: g.dirty}
	g.pool, g.frame, g.dirty = nil, nil, false
	return moved
}

// Drop releases the exclusive latch, then the pin, OR-ing in the
// accumulated dirty flag. See ReadPageGuard.Drop for why the latch
// release comes first.
func (g *WritePageGuard) Drop() {
	if g.frame == nil {
		return
	}
	frame, pool, dirty := g.frame, g.pool, g.dirty
	g.pool, g.frame, g.dirty = nil, nil, false
	frame.latch.Unlock()
	pool.UnpinPage(frame.PageID(), dirty)
}
