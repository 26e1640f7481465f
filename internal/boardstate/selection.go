package boardstate

import (
	"sync"

	"github.com/oe149499/whiteboard/internal/ids"
)

// TakeOutcome is the result of attempting to claim an item for a client.
type TakeOutcome int

const (
	Successful TakeOutcome = iota
	NonExistent
	Occupied
	AlreadyOwned
)

// SelectionIndex maps every live ItemID to the client that currently holds
// it (or to no one). Entries exist iff the corresponding item exists in the
// canvas — Canvas and SelectionIndex are kept in lockstep by BoardState.
type SelectionIndex struct {
	mu      sync.Mutex
	owners  map[ids.ItemID]*ids.ClientID
}

// NewSelectionIndex returns an empty index.
func NewSelectionIndex() *SelectionIndex {
	return &SelectionIndex{owners: make(map[ids.ItemID]*ids.ClientID)}
}

// Insert registers a freshly-created item as unselected.
func (s *SelectionIndex) Insert(item ids.ItemID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[item] = nil
}

// Remove drops an item's entry, used when the item is deleted.
func (s *SelectionIndex) Remove(item ids.ItemID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.owners, item)
}

// TakeItem attempts to claim item for client.
func (s *SelectionIndex) TakeItem(client ids.ClientID, item ids.ItemID) TakeOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, exists := s.owners[item]
	if !exists {
		return NonExistent
	}
	if owner == nil {
		c := client
		s.owners[item] = &c
		return Successful
	}
	if *owner == client {
		return AlreadyOwned
	}
	return Occupied
}

// CheckOwned reports whether client currently owns item.
func (s *SelectionIndex) CheckOwned(client ids.ClientID, item ids.ItemID) bool {
	owned, _ := s.checkOwnedDetail(client, item)
	return owned
}

// checkOwnedDetail reports both whether client owns item and whether item
// exists at all, so callers can distinguish a NonExistentID reject from a
// ResourceNotOwned one.
func (s *SelectionIndex) checkOwnedDetail(client ids.ClientID, item ids.ItemID) (owned, exists bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, exists := s.owners[item]
	return exists && owner != nil && *owner == client, exists
}

// Release clears ownership of item, returning it to the unselected pool.
// No-op if item doesn't exist or isn't owned by client.
func (s *SelectionIndex) Release(client ids.ClientID, item ids.ItemID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, exists := s.owners[item]
	if exists && owner != nil && *owner == client {
		s.owners[item] = nil
	}
}

// ReleaseAll clears every item client owns, used when a client exits.
func (s *SelectionIndex) ReleaseAll(client ids.ClientID) []ids.ItemID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var released []ids.ItemID
	for item, owner := range s.owners {
		if owner != nil && *owner == client {
			s.owners[item] = nil
			released = append(released, item)
		}
	}
	return released
}
