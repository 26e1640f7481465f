// Package canvas holds the in-memory mapping of item identifiers to items
// plus the ordered id index and edit counter a board's dispatcher consults
// for snapshotting and persistence.
package canvas

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/wire"
)

// Canvas is the concurrency-safe store backing one board. Reads and writes
// to distinct items never block each other; the map is lock-striped via
// xsync so no entry is ever observed torn, but iteration (IDs/Scan) only
// guarantees a consistent snapshot of keys, not of every value at once.
type Canvas struct {
	items   *xsync.MapOf[ids.ItemID, wire.Item]
	alloc   ids.ItemAlloc
	edits   atomic.Uint64
	idsMu   sync.RWMutex
	idSet   map[ids.ItemID]struct{}
}

// New returns an empty Canvas.
func New() *Canvas {
	return &Canvas{
		items: xsync.NewMapOf[ids.ItemID, wire.Item](),
		idSet: make(map[ids.ItemID]struct{}),
	}
}

// AddItem allocates the next ItemID, inserts item, and bumps the edit
// counter. Infallible: a fresh id can never collide.
func (c *Canvas) AddItem(item wire.Item) ids.ItemID {
	id := c.alloc.Next()
	c.items.Store(id, item)
	c.idsMu.Lock()
	c.idSet[id] = struct{}{}
	c.idsMu.Unlock()
	c.edits.Add(1)
	return id
}

// Insert adds item under an explicitly chosen id, used when restoring a
// canvas from a BoardStore snapshot so ids survive a save/load round trip.
// The caller is responsible for keeping the allocator ahead of any id
// inserted this way; call Reseed after a bulk restore.
func (c *Canvas) Insert(id ids.ItemID, item wire.Item) {
	c.items.Store(id, item)
	c.idsMu.Lock()
	c.idSet[id] = struct{}{}
	c.idsMu.Unlock()
	c.edits.Add(1)
}

// Reseed advances the internal id allocator so it never reissues an id at
// or below highest. Call once after restoring a canvas from storage.
func (c *Canvas) Reseed(highest ids.ItemID) {
	c.alloc.Bump(highest)
}

// Get returns the item stored under id and whether it was present.
func (c *Canvas) Get(id ids.ItemID) (wire.Item, bool) {
	return c.items.Load(id)
}

// Mutate runs f against the item stored under id while holding that entry's
// stripe lock, then stores whatever f returns. Reports whether id existed.
func (c *Canvas) Mutate(id ids.ItemID, f func(wire.Item) wire.Item) bool {
	var found bool
	c.items.Compute(id, func(oldValue wire.Item, loaded bool) (wire.Item, bool) {
		if !loaded {
			return oldValue, true
		}
		found = true
		return f(oldValue), false
	})
	if found {
		c.edits.Add(1)
	}
	return found
}

// Delete removes id from the canvas. Tolerant of a missing id.
func (c *Canvas) Delete(id ids.ItemID) {
	c.items.Delete(id)
	c.idsMu.Lock()
	delete(c.idSet, id)
	c.idsMu.Unlock()
	c.edits.Add(1)
}

// IDs returns every currently-stored ItemID in ascending order, a
// consistent snapshot taken at call time.
func (c *Canvas) IDs() []ids.ItemID {
	c.idsMu.RLock()
	out := make([]ids.ItemID, 0, len(c.idSet))
	for id := range c.idSet {
		out = append(out, id)
	}
	c.idsMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Scan calls f once per (id, item) pair in ascending id order, used by
// BoardStore.Save to serialize the whole canvas. Values may advance
// concurrently with the traversal; Scan only guarantees the key set is the
// snapshot taken at call start.
func (c *Canvas) Scan(f func(ids.ItemID, wire.Item)) {
	for _, id := range c.IDs() {
		if item, ok := c.items.Load(id); ok {
			f(id, item)
		}
	}
}

// Len reports the number of items currently stored.
func (c *Canvas) Len() int {
	return c.items.Size()
}

// EditCount returns the number of mutating operations (AddItem, Mutate,
// Delete, Insert) applied since creation. Consulted by tests asserting
// mutation happened; the board_items_total gauge samples Len instead.
func (c *Canvas) EditCount() uint64 {
	return c.edits.Load()
}
