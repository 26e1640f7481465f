package dispatch

import (
	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/link"
	"github.com/oe149499/whiteboard/internal/wire"
)

// BoardHandle is a cheap, clonable, enqueue-only reference to a running
// Dispatcher's inbound queue. SessionRegistry and the transport layer hold
// these rather than a BoardState or Dispatcher pointer directly, so they
// never touch board state except by enqueuing a message.
type BoardHandle struct {
	queue chan<- BoardMessage
}

// SendClientMessage enqueues an inbound client frame for client.
func (h *BoardHandle) SendClientMessage(client ids.ClientID, msg *wire.MsgRecv) {
	h.queue <- BoardMessage{Kind: KindClientMessage, ClientID: client, Msg: msg}
}

// RequestSession enqueues a session-creation request and blocks on reply
// until the board allocates identities (or the board shuts down, in which
// case reply is never closed — callers should select against their own
// timeout/context if they need one).
func (h *BoardHandle) RequestSession(info wire.ClientInfo) SessionReply {
	reply := make(chan SessionReply, 1)
	h.queue <- BoardMessage{Kind: KindSessionRequest, Info: info, Reply: reply}
	return <-reply
}

// NotifyConnected enqueues a socket-attach event for an existing session.
func (h *BoardHandle) NotifyConnected(client ids.ClientID, l *link.ClientLink) {
	h.queue <- BoardMessage{Kind: KindClientConnected, ClientID: client, Link: l}
}

// NotifyDisconnected enqueues a socket-detach event.
func (h *BoardHandle) NotifyDisconnected(client ids.ClientID) {
	h.queue <- BoardMessage{Kind: KindClientDisconnected, ClientID: client}
}
