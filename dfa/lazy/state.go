package lazy

import (
	"github.com/2win9s/simpleregex/internal/sparse"
	"github.com/2win9s/simpleregex/internal/u8set"
)

// deadSerial marks a transition into the empty subset. It can never collide
// with a real state serial or with the RefMap's unresolved sentinel.
const deadSerial uint32 = 0xFFFFFFFE

// state is one DFA state: the epsilon closure of a subset of NFA
// instructions, with its transitions resolved on demand.
//
// filter holds every codepoint some char or class instruction in the
// subset can consume; a codepoint outside it takes the wildcard transition
// (the any-edges only). next maps codepoint (or the wildcard slot) to the
// serial of the target state; a serial missing from the cache's live table
// means the target was evicted and the transition is re-derived.
type state struct {
	serial uint32
	ops    *sparse.Set
	filter *u8set.Set
	next   *u8set.RefMap
	match  bool
}

// Stats counts cache traffic across the life of a DFA.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Resets    uint64
}

// cache is a FIFO ring of states with a dedup index keyed by the subset
// bit vector and a liveness table keyed by serial.
type cache struct {
	ring       []*state
	mask       uint32
	start, end uint32 // live states are ring[start..end); count = end-start
	index      map[string]*state
	live       map[uint32]*state
	nextSerial uint32
	stats      Stats
}

func newCache(size uint32) *cache {
	return &cache{
		ring:  make([]*state, size),
		mask:  size - 1,
		index: make(map[string]*state, size),
		live:  make(map[uint32]*state, size),
	}
}

// insert pushes st, evicting the oldest state when full, and reports
// whether an eviction happened.
func (c *cache) insert(st *state) bool {
	evicted := false
	if c.end-c.start == uint32(len(c.ring)) {
		old := c.ring[c.start&c.mask]
		delete(c.index, old.ops.Key())
		delete(c.live, old.serial)
		c.start++
		evicted = true
		c.stats.Evictions++
	}
	st.serial = c.nextSerial
	c.nextSerial++
	c.ring[c.end&c.mask] = st
	c.end++
	c.index[st.ops.Key()] = st
	c.live[st.serial] = st
	return evicted
}

// reset drops every cached state, keeping allocations. Serials are not
// reused, so transition entries pointing at dropped states simply read as
// misses afterwards.
func (c *cache) reset() {
	for i := range c.ring {
		c.ring[i] = nil
	}
	c.start, c.end = 0, 0
	clear(c.index)
	clear(c.live)
	c.stats.Resets++
}
