// Package compiler turns an arena node into a flat, time-sorted event
// stream. It implements the memoising compile algorithm and the
// block-copy-optimised sorted merge that makes deep nesting tractable, plus
// the board-grouping projection over the resulting stream.
package compiler

import (
	"sync/atomic"

	"github.com/hirobumii/catseq/core"
	"github.com/hirobumii/catseq/model"
)

// Cache maps a node identifier to its compiled event list in local
// (relative) time: the earliest event in a cached entry has time >= 0 and
// the latest has time <= dur(node). Absolute time is applied only when the
// entry is consumed by a parent.
//
// This is the correctness-critical invariant of the whole compiler: storing
// absolute times here would bind an entry to whichever parent asked for it
// first, which is silently wrong the moment a node is reused at two
// positions (spec scenario F). Callers must never write anything but
// node-relative times into the cache.
type Cache struct {
	enabled bool
	entries map[core.NodeID]model.Stream
	hits    int64
	misses  int64
}

// NewCache creates an enabled, empty cache.
func NewCache() *Cache {
	return &Cache{enabled: true, entries: make(map[core.NodeID]model.Stream)}
}

// Enable turns memoisation on.
func (c *Cache) Enable() { c.enabled = true }

// Disable turns memoisation off without discarding existing entries; once
// re-enabled, lookups resume seeing them.
func (c *Cache) Disable() { c.enabled = false }

// Clear discards all cached entries and resets the hit/miss counters.
func (c *Cache) Clear() {
	c.entries = make(map[core.NodeID]model.Stream)
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}

func (c *Cache) lookup(id core.NodeID) (model.Stream, bool) {
	if !c.enabled {
		return nil, false
	}
	events, ok := c.entries[id]
	if ok {
		atomic.AddInt64(&c.hits, 1)
	} else {
		atomic.AddInt64(&c.misses, 1)
	}
	return events, ok
}

func (c *Cache) store(id core.NodeID, events model.Stream) {
	if !c.enabled {
		return
	}
	c.entries[id] = events
}

// Stats reports the cache's current hit/miss counters and stored entry
// count.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Stats returns a snapshot of the cache's counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
		Entries: len(c.entries),
	}
}
