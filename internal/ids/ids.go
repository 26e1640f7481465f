// Package ids defines the board engine's identifier types and the atomic
// allocators that hand them out. Every identifier is a uint32 newtype,
// matching the width of the original canvas model's id types, so values
// round-trip exactly across the wire without a widening/narrowing step.
package ids

import "sync/atomic"

// ItemID identifies a persistent drawable on a Canvas.
type ItemID uint32

// PathID identifies an in-progress or closed freehand stroke.
type PathID uint32

// ClientID identifies a connected participant on a board.
type ClientID uint32

// SessionID identifies a stable client identity across socket reconnects.
type SessionID uint32

// RequestID identifies one in-flight Method or Iterate call on a socket.
type RequestID uint32

// Alloc hands out strictly increasing identifiers of one kind. The zero
// value is ready to use and starts allocating from 1, reserving 0 as a
// never-issued sentinel (used by LogContext and tests to mean "absent").
type Alloc struct {
	next atomic.Uint32
}

// Next returns the next identifier in the sequence, starting at 1.
func (a *Alloc) Next() uint32 {
	return a.next.Add(1)
}

// Bump advances the allocator so the next call to Next returns at least
// min+1, without ever moving it backwards. Used to resume allocation after
// restoring state that already used ids up to min.
func (a *Alloc) Bump(min uint32) {
	for {
		cur := a.next.Load()
		if cur >= min {
			return
		}
		if a.next.CompareAndSwap(cur, min) {
			return
		}
	}
}

// ItemAlloc allocates ItemIDs.
type ItemAlloc struct{ a Alloc }

func (a *ItemAlloc) Next() ItemID    { return ItemID(a.a.Next()) }
func (a *ItemAlloc) Bump(min ItemID) { a.a.Bump(uint32(min)) }

// PathAlloc allocates PathIDs.
type PathAlloc struct{ a Alloc }

func (a *PathAlloc) Next() PathID    { return PathID(a.a.Next()) }
func (a *PathAlloc) Bump(min PathID) { a.a.Bump(uint32(min)) }

// ClientAlloc allocates ClientIDs.
type ClientAlloc struct{ a Alloc }

func (a *ClientAlloc) Next() ClientID    { return ClientID(a.a.Next()) }
func (a *ClientAlloc) Bump(min ClientID) { a.a.Bump(uint32(min)) }

// SessionAlloc allocates SessionIDs.
type SessionAlloc struct{ a Alloc }

func (a *SessionAlloc) Next() SessionID    { return SessionID(a.a.Next()) }
func (a *SessionAlloc) Bump(min SessionID) { a.a.Bump(uint32(min)) }
