// Package session implements SessionRegistry: the stable SessionID→
// (ClientID, BoardHandle) binding that survives a client's socket
// reconnecting to a different transport connection.
package session

import (
	"fmt"
	"sync"

	"github.com/oe149499/whiteboard/internal/dispatch"
	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/link"
	"github.com/oe149499/whiteboard/internal/wire"
)

// binding is what a SessionID resolves to.
type binding struct {
	clientID ids.ClientID
	board    *dispatch.BoardHandle
}

// Registry maps SessionID to a (ClientID, BoardHandle) binding: a sync.Map
// keyed by the session identifier, since session churn (many short-lived
// sessions, few long-lived ones) is exactly the access pattern sync.Map is
// tuned for. The registry mints no ids itself; the board allocates them.
type Registry struct {
	bindings sync.Map // ids.SessionID -> *binding
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Create asks board to allocate a ClientID/SessionID pair for info, and
// records the resulting binding.
func (r *Registry) Create(board *dispatch.BoardHandle, info wire.ClientInfo) (ids.ClientID, ids.SessionID) {
	reply := board.RequestSession(info)
	r.bindings.Store(reply.SessionID, &binding{clientID: reply.ClientID, board: board})
	return reply.ClientID, reply.SessionID
}

// Attach looks up sessionID and forwards a ClientConnected event to its
// board carrying l as the client's new transport link.
func (r *Registry) Attach(sessionID ids.SessionID, l *link.ClientLink) error {
	v, ok := r.bindings.Load(sessionID)
	if !ok {
		return fmt.Errorf("session %d not found", sessionID)
	}
	b := v.(*binding)
	b.board.NotifyConnected(b.clientID, l)
	return nil
}

// Detach looks up sessionID and forwards a ClientDisconnected event to its
// board. The session binding itself is preserved so a later reconnect can
// Attach again.
func (r *Registry) Detach(sessionID ids.SessionID) error {
	v, ok := r.bindings.Load(sessionID)
	if !ok {
		return fmt.Errorf("session %d not found", sessionID)
	}
	b := v.(*binding)
	b.board.NotifyDisconnected(b.clientID)
	return nil
}
