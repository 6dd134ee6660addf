// Package bufferpool implements the fixed-capacity buffer pool that
// mediates between a disk manager and higher-level callers: frames,
// a page table, a free list, an LRU-K replacer, and the scoped page
// guards built on top of them.
package bufferpool

import (
	"fmt"
	"sync"

	"github.com/duskdb/duskdb/internal/replacer"
	"github.com/duskdb/duskdb/internal/storage"
)

// Replacer is the eviction-policy contract the pool depends on.
// *replacer.LRUK satisfies it; the interface exists so the pool does
// not care which policy backs it.
type Replacer interface {
	RecordAccess(frameID storage.FrameID, accessType ...replacer.AccessType) error
	SetEvictable(frameID storage.FrameID, evictable bool) error
	Evict() (storage.FrameID, bool)
	Remove(frameID storage.FrameID) error
	Size() int
}

// Pool owns a fixed array of frames, the page table mapping live pages
// to frames, a free list of unassigned frames, and a replacer. Every
// public method that reads or changes frame metadata, the page table,
// the free list or the replacer holds mu for its full duration,
// including any disk I/O it performs (see spec §5 for the rationale
// and the documented refinement this implementation does not take).
// The guarded fetches take the frame latch after mu is released.
type Pool struct {
	mu sync.Mutex

	disk       storage.DiskManager
	logManager any // opaque handle; the pool never calls into it (spec §6)

	frames    []*Frame
	pageTable map[storage.PageID]storage.FrameID
	freeList  []storage.FrameID
	replacer  Replacer

	nextPageID storage.PageID
}

// New constructs a buffer pool with poolSize frames, backed by disk
// for I/O and an LRU-K replacer configured with history depth k.
func New(poolSize int, disk storage.DiskManager, k int) *Pool {
	frames := make([]*Frame, poolSize)
	free := make([]storage.FrameID, poolSize)
	for i := range frames {
		frames[i] = newFrame()
		free[i] = storage.FrameID(i)
	}
	return &Pool{
		disk:      disk,
		frames:    frames,
		pageTable: make(map[storage.PageID]storage.FrameID),
		freeList:  free,
		replacer:  replacer.New(poolSize, k),
	}
}

// WithLogManager attaches an opaque log-manager handle for callers
// that want to thread one through without the pool depending on its
// shape. Returns the pool to allow chaining at construction time.
func (p *Pool) WithLogManager(lm any) *Pool {
	p.logManager = lm
	return p
}

// DiskManager returns the underlying disk manager.
func (p *Pool) DiskManager() storage.DiskManager { return p.disk }

// Size returns the number of frames the pool was constructed with.
func (p *Pool) Size() int { return len(p.frames) }

// obtainFrame returns a frame ready to receive a new page: either the
// next free slot, or an evicted victim flushed to disk if dirty. Must
// be called with mu held. If the victim came from the replacer, the
// replacer has already forgotten it (Evict removes internally), so
// there is nothing further to reconcile with Remove.
func (p *Pool) obtainFrame() (storage.FrameID, error) {
	if n := len(p.freeList); n > 0 {
		id := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return id, nil
	}

	victimID, ok := p.replacer.Evict()
	if !ok {
		return 0, ErrPoolExhausted
	}

	frame := p.frames[victimID]
	if frame.dirty {
		if err := p.disk.WritePage(frame.pageID, frame.data); err != nil {
			// Put the victim back so a later attempt can retry it.
			_ = p.replacer.RecordAccess(victimID)
			_ = p.replacer.SetEvictable(victimID, true)
			return 0, fmt.Errorf("bufferpool: flush victim page %d: %w", frame.pageID, err)
		}
	}
	delete(p.pageTable, frame.pageID)
	frame.reset()
	return victimID, nil
}

// NewPage allocates a fresh page id, pins it into a frame, and returns
// the frame. Returns ErrPoolExhausted if no frame is available.
func (p *Pool) NewPage() (storage.PageID, *Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, err := p.obtainFrame()
	if err != nil {
		return storage.InvalidPageID, nil, err
	}

	pageID := p.nextPageID
	p.nextPageID++

	frame := p.frames[frameID]
	frame.pageID = pageID
	frame.pinCount = 1
	frame.dirty = false
	p.pageTable[pageID] = frameID

	_ = p.replacer.RecordAccess(frameID)
	_ = p.replacer.SetEvictable(frameID, false)

	return pageID, frame, nil
}

// FetchPage pins pageID and returns its frame, reading it from disk
// (into a freshly obtained frame) if it was not already resident.
func (p *Pool) FetchPage(pageID storage.PageID) (*Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frameID, ok := p.pageTable[pageID]; ok {
		frame := p.frames[frameID]
		wasUnpinned := frame.pinCount == 0
		frame.pinCount++
		_ = p.replacer.RecordAccess(frameID)
		if wasUnpinned {
			_ = p.replacer.SetEvictable(frameID, false)
		}
		return frame, nil
	}

	frameID, err := p.obtainFrame()
	if err != nil {
		return nil, err
	}
	frame := p.frames[frameID]

	if err := p.disk.ReadPage(pageID, frame.data); err != nil {
		// Nothing was installed; give the frame back to the free list.
		p.freeList = append(p.freeList, frameID)
		return nil, fmt.Errorf("bufferpool: read page %d: %w", pageID, err)
	}
	frame.pageID = pageID
	frame.pinCount = 1
	frame.dirty = false
	p.pageTable[pageID] = frameID

	_ = p.replacer.RecordAccess(frameID)
	_ = p.replacer.SetEvictable(frameID, false)

	return frame, nil
}

// UnpinPage releases one pin on pageID. isDirty, if true, can only set
// the frame's dirty flag, never clear it. Returns false if the page is
// not mapped or already fully unpinned.
func (p *Pool) UnpinPage(pageID storage.PageID, isDirty bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.pageTable[pageID]
	if !ok {
		return false
	}
	frame := p.frames[frameID]
	if frame.pinCount == 0 {
		return false
	}
	frame.pinCount--
	if isDirty {
		frame.dirty = true
	}
	if frame.pinCount == 0 {
		_ = p.replacer.SetEvictable(frameID, true)
	}
	return true
}

// FlushPage writes pageID's frame through the disk manager regardless
// of its dirty flag, clearing it afterward. Returns (false, nil) if
// the page is not mapped; a non-nil error means the write itself
// failed. Pin state is unaffected either way.
func (p *Pool) FlushPage(pageID storage.PageID) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.pageTable[pageID]
	if !ok {
		return false, nil
	}
	frame := p.frames[frameID]
	if err := p.disk.WritePage(pageID, frame.data); err != nil {
		return false, fmt.Errorf("bufferpool: flush page %d: %w", pageID, err)
	}
	frame.dirty = false
	return true, nil
}

// FlushAllPages writes every mapped frame through the disk manager,
// clearing dirty flags as it goes. Stops at the first I/O error.
func (p *Pool) FlushAllPages() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for pageID, frameID := range p.pageTable {
		frame := p.frames[frameID]
		if err := p.disk.WritePage(pageID, frame.data); err != nil {
			return fmt.Errorf("bufferpool: flush page %d: %w", pageID, err)
		}
		frame.dirty = false
	}
	return nil
}

// DeletePage removes pageID from the pool. A page not currently mapped
// counts as a no-op success. A pinned page cannot be deleted. Dirty
// contents of a deleted page are never written back.
func (p *Pool) DeletePage(pageID storage.PageID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.pageTable[pageID]
	if !ok {
		return true
	}
	frame := p.frames[frameID]
	if frame.pinCount > 0 {
		return false
	}

	// pinCount == 0 implies the frame's replacer node, if any, is
	// evictable (UnpinPage set that flag when the count reached zero),
	// so Remove cannot fault here.
	_ = p.replacer.Remove(frameID)
	delete(p.pageTable, pageID)
	frame.reset()
	p.freeList = append(p.freeList, frameID)
	p.deallocatePage(pageID)
	return true
}

// deallocatePage notifies the page-id allocator that pageID's frame
// was freed. The allocator sequence is never reused, so this is a
// no-op reserved for a future scheme that recycles ids.
func (p *Pool) deallocatePage(storage.PageID) {}

// FetchPageBasic fetches pageID and wraps it in a pin-only guard.
func (p *Pool) FetchPageBasic(pageID storage.PageID) (*BasicPageGuard, error) {
	frame, err := p.FetchPage(pageID)
	if err != nil {
		return nil, err
	}
	return newBasicPageGuard(p, frame), nil
}

// FetchPageRead fetches pageID and wraps it in a pin+shared-latch
// guard. The latch is acquired after the pin and outside the pool
// mutex (spec §5's required ordering).
func (p *Pool) FetchPageRead(pageID storage.PageID) (*ReadPageGuard, error) {
	frame, err := p.FetchPage(pageID)
	if err != nil {
		return nil, err
	}
	frame.latch.RLock()
	return newReadPageGuard(p, frame), nil
}

// FetchPageWrite fetches pageID and wraps it in a pin+exclusive-latch guard.
func (p *Pool) FetchPageWrite(pageID storage.PageID) (*WritePageGuard, error) {
	frame, err := p.FetchPage(pageID)
	if err != nil {
		return nil, err
	}
	frame.latch.Lock()
	return newWritePageGuard(p, frame), nil
}

// NewPageGuarded allocates a fresh page and wraps it in a pin-only guard.
func (p *Pool) NewPageGuarded() (storage.PageID, *BasicPageGuard, error) {
	pageID, frame, err := p.NewPage()
	if err != nil {
		return storage.InvalidPageID, nil, err
	}
	return pageID, newBasicPageGuard(p, frame), nil
}
