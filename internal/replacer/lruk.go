// Package replacer implements the LRU-K frame-eviction policy used by
// the buffer pool. It is pure bookkeeping: no page contents, no I/O,
// just access timestamps per frame id.
package replacer

import (
	"sync"

	"github.com/duskdb/duskdb/internal/storage"
)

// AccessType annotates why a frame was touched. The replacer accepts
// it on every RecordAccess call but does not yet vary its behavior on
// it; it exists so a future scan-resistant policy can be layered in
// without changing every call site.
type AccessType int

const (
	AccessTypeUnknown AccessType = iota
	AccessTypeLookup
	AccessTypeScan
	AccessTypeIndex
)

type node struct {
	frameID storage.FrameID
	// history holds up to k access timestamps, oldest at index 0.
	history   []int64
	evictable bool
}

func (n *node) isMature(k int) bool {
	return len(n.history) >= k
}

// LRUK implements the LRU-K replacement policy over a fixed universe
// of num_frames frame ids, tracking the last k accesses of each.
type LRUK struct {
	mu        sync.Mutex
	k         int
	numFrames int
	clock     int64
	nodes     map[storage.FrameID]*node
	currSize  int
}

// New creates an LRU-K replacer for frame ids in [0, numFrames), each
// remembering up to k past accesses.
func New(numFrames, k int) *LRUK {
	if numFrames < 0 {
		numFrames = 0
	}
	if k < 1 {
		k = 1
	}
	return &LRUK{
		k:         k,
		numFrames: numFrames,
		nodes:     make(map[storage.FrameID]*node),
	}
}

func (r *LRUK) validFrame(frameID storage.FrameID) bool {
	return frameID >= 0 && int(frameID) < r.numFrames
}

// RecordAccess advances the logical clock and appends a timestamp to
// frameID's history, creating the node (non-evictable) if this is its
// first access. accessType is reserved for future policies.
func (r *LRUK) RecordAccess(frameID storage.FrameID, accessType ...AccessType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.validFrame(frameID) {
		return ErrInvalidFrame
	}

	r.clock++

	n, ok := r.nodes[frameID]
	if !ok {
		n = &node{frameID: frameID}
		r.nodes[frameID] = n
	}
	n.history = append(n.history, r.clock)
	if len(n.history) > r.k {
		n.history = n.history[1:]
	}
	return nil
}

// SetEvictable marks frameID as a candidate (or not) for eviction. It
// is idempotent when the flag already matches and errors if the frame
// is not tracked (never recorded, or evicted or removed since).
func (r *LRUK) SetEvictable(frameID storage.FrameID, evictable bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.validFrame(frameID) {
		return ErrInvalidFrame
	}
	n, ok := r.nodes[frameID]
	if !ok {
		return ErrFrameNotFound
	}
	if n.evictable == evictable {
		return nil
	}
	n.evictable = evictable
	if evictable {
		r.currSize++
	} else {
		r.currSize--
	}
	return nil
}

// Evict selects and removes the LRU-K victim among evictable frames:
// frames with fewer than k accesses ("young") are preferred, evicted
// in classical-LRU order among themselves; only once no young frame
// is evictable does a "mature" frame (k-length history) get evicted,
// chosen by the largest backward k-distance (smallest k-th-most-recent
// timestamp). Returns ok=false if nothing is evictable.
func (r *LRUK) Evict() (storage.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var youngBest, matureBest *node

	for _, n := range r.nodes {
		if !n.evictable {
			continue
		}
		var slot **node
		if n.isMature(r.k) {
			slot = &matureBest
		} else {
			slot = &youngBest
		}
		best := *slot
		if best == nil || n.history[0] < best.history[0] ||
			(n.history[0] == best.history[0] && n.frameID < best.frameID) {
			*slot = n
		}
	}

	victim := youngBest
	if victim == nil {
		victim = matureBest
	}
	if victim == nil {
		return 0, false
	}

	delete(r.nodes, victim.frameID)
	r.currSize--
	return victim.frameID, true
}

// Remove drops a frame from tracking. Removing an untracked frame is a
// silent no-op; removing a pinned (non-evictable) one is a contract
// violation and reported as ErrNotEvictable.
func (r *LRUK) Remove(frameID storage.FrameID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.validFrame(frameID) {
		return ErrInvalidFrame
	}
	n, ok := r.nodes[frameID]
	if !ok {
		return nil
	}
	if !n.evictable {
		return ErrNotEvictable
	}
	delete(r.nodes, frameID)
	r.currSize--
	return nil
}

// Size returns the number of frames currently marked evictable.
func (r *LRUK) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currSize
}
