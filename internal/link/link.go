// Package link implements ClientLink, the board engine's outbound-only
// handle to a connected client's transport socket, plus a loopback test
// double standing in for the (out-of-scope) real socket implementation.
package link

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/oe149499/whiteboard/internal/logger"
)

var linkJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Sender is the narrow transport capability a ClientLink writes through.
// A real implementation wraps a websocket or TCP connection; Loopback
// below is the in-process test double.
type Sender interface {
	Send(payload []byte) error
}

// ClientLink serializes outbound messages once and forwards the bytes to
// its Sender. A disconnected client (nil link, checked by the caller
// before Send is ever invoked) silently drops all attempted sends rather
// than erroring, since a detached session is an expected, not exceptional,
// state.
type ClientLink struct {
	sender Sender
}

// New wraps sender in a ClientLink.
func New(sender Sender) *ClientLink {
	return &ClientLink{sender: sender}
}

// SendMessage serializes msg to JSON and enqueues it on the underlying
// transport.
func (c *ClientLink) SendMessage(msg any) error {
	payload, err := linkJSON.Marshal(msg)
	if err != nil {
		logger.Error("failed to marshal outbound message", logger.KeyError, err.Error())
		return err
	}
	return c.SendPayload(payload)
}

// SendPayload enqueues an already-serialized payload. Used for multicast
// broadcasts so a Notify-C frame is encoded once and fanned out to every
// attached client instead of once per recipient.
func (c *ClientLink) SendPayload(payload []byte) error {
	if c == nil || c.sender == nil {
		return nil
	}
	if err := c.sender.Send(payload); err != nil {
		logger.Warn("client send failed", logger.KeyError, err.Error())
		return err
	}
	return nil
}

// Loopback is an in-process Sender that appends every payload it receives
// to an internal slice, for use in tests that need to assert on what a
// handler broadcast without standing up a real socket.
type Loopback struct {
	Received [][]byte
}

// NewLoopback returns an empty Loopback.
func NewLoopback() *Loopback {
	return &Loopback{}
}

// Send records payload.
func (l *Loopback) Send(payload []byte) error {
	l.Received = append(l.Received, append([]byte(nil), payload...))
	return nil
}
