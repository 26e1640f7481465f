// Package dispatch drives one board's worker pool: it owns the inbound
// queue, decodes each frame against the Method/Iterate dispatch tables,
// and invokes the matching BoardState operation.
package dispatch

import (
	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/link"
	"github.com/oe149499/whiteboard/internal/wire"
)

// MessageKind discriminates BoardMessage's four shapes.
type MessageKind int

const (
	KindClientMessage MessageKind = iota
	KindSessionRequest
	KindClientConnected
	KindClientDisconnected
)

// String names k for use as a metrics label value.
func (k MessageKind) String() string {
	switch k {
	case KindClientMessage:
		return "client_message"
	case KindSessionRequest:
		return "session_request"
	case KindClientConnected:
		return "client_connected"
	case KindClientDisconnected:
		return "client_disconnected"
	default:
		return "unknown"
	}
}

// SessionReply is delivered once, on the one-shot channel a SessionRequest
// carries, with the identity the board allocated.
type SessionReply struct {
	ClientID  ids.ClientID
	SessionID ids.SessionID
}

// BoardMessage is one frame on a board's inbound queue. Exactly the fields
// relevant to Kind are populated.
type BoardMessage struct {
	Kind MessageKind

	// KindClientMessage
	ClientID ids.ClientID
	Msg      *wire.MsgRecv

	// KindSessionRequest
	Info  wire.ClientInfo
	Reply chan<- SessionReply

	// KindClientConnected
	Link *link.ClientLink

	// KindClientDisconnected — ClientID above is reused.
}
