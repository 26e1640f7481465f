package boardstate

import (
	"sync"

	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/link"
	"github.com/oe149499/whiteboard/internal/wire"
)

// ClientState is everything the board tracks about one participant:
// display info, its transport link (nil while detached), the paths it is
// currently drawing, and the items it currently has selected.
type ClientState struct {
	Info wire.ClientInfo

	mu          sync.RWMutex
	link        *link.ClientLink
	activePaths []ids.PathID

	ownTransform wire.Transform
	selection    map[ids.ItemID]wire.Transform
}

// NewClientState creates a freshly-joined client's state with an identity
// transform and no selection.
func NewClientState(info wire.ClientInfo) *ClientState {
	return &ClientState{
		Info:         info,
		ownTransform: wire.IdentityTransform(),
		selection:    make(map[ids.ItemID]wire.Transform),
	}
}

// SetLink attaches or clears (nil) the client's transport link.
func (c *ClientState) SetLink(l *link.ClientLink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.link = l
}

// Link returns the client's current transport link, or nil if detached.
func (c *ClientState) Link() *link.ClientLink {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.link
}

// AddActivePath records a newly-begun path as belonging to this client.
func (c *ClientState) AddActivePath(id ids.PathID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activePaths = append(c.activePaths, id)
}

// RemoveActivePath drops a closed path from this client's in-progress set.
func (c *ClientState) RemoveActivePath(id ids.PathID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.activePaths {
		if p == id {
			c.activePaths = append(c.activePaths[:i], c.activePaths[i+1:]...)
			return
		}
	}
}

// ActivePaths returns a snapshot of this client's in-progress path ids.
func (c *ClientState) ActivePaths() []ids.PathID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ids.PathID(nil), c.activePaths...)
}

// OwnTransform returns the client's selection-group transform.
func (c *ClientState) OwnTransform() wire.Transform {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ownTransform
}

// SetOwnTransform replaces the client's selection-group transform.
func (c *ClientState) SetOwnTransform(t wire.Transform) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ownTransform = t
}

// MergeSelection adds item→transform pairs to the client's selection map.
func (c *ClientState) MergeSelection(items map[ids.ItemID]wire.Transform) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, t := range items {
		c.selection[id] = t
	}
}

// DropSelection removes item from the client's selection map.
func (c *ClientState) DropSelection(item ids.ItemID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.selection, item)
}

// Selection returns a snapshot of the client's selected items.
func (c *ClientState) Selection() []wire.ItemTransformPair {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]wire.ItemTransformPair, 0, len(c.selection))
	for id, t := range c.selection {
		out = append(out, wire.ItemTransformPair{ID: id, Transform: t})
	}
	return out
}
