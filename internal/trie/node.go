package trie

import "github.com/duskdb/duskdb/internal/lock"

// node is an immutable trie node: a mapping from a single key byte
// to a shared child, plus an optional stored value. hasValue
// distinguishes a valued node from a plain one. Once a node is
// reachable from any Trie's root it is never mutated again; new
// versions clone it instead.
type node struct {
	children map[byte]*node
	value    any
	hasValue bool
	refs     *lock.RefCount
}

func newNode() *node {
	return &node{refs: lock.NewRefCount()}
}

// cloneAll returns a shallow copy of n (an empty node if n is nil):
// same value/hasValue, and a fresh children map pointing at the same
// children, each gaining one more incoming edge since both n and the
// clone now reference it.
func cloneAll(n *node) *node {
	c := newNode()
	if n == nil {
		return c
	}
	c.value, c.hasValue = n.value, n.hasValue
	if len(n.children) > 0 {
		c.children = make(map[byte]*node, len(n.children))
		for k, v := range n.children {
			c.children[k] = v
			v.refs.Inc()
		}
	}
	return c
}

// cloneExcept is cloneAll but omits the child keyed by skip, leaving
// the caller to install its replacement (which is always a freshly
// built node, so it needs no refs.Inc of its own here).
func cloneExcept(n *node, skip byte) *node {
	c := newNode()
	if n == nil {
		return c
	}
	c.value, c.hasValue = n.value, n.hasValue
	if len(n.children) > 0 {
		c.children = make(map[byte]*node, len(n.children))
		for k, v := range n.children {
			if k == skip {
				continue
			}
			c.children[k] = v
			v.refs.Inc()
		}
	}
	return c
}

func childOf(n *node, ch byte) *node {
	if n == nil {
		return nil
	}
	return n.children[ch]
}
