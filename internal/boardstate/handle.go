package boardstate

import (
	"sync"
	"sync/atomic"

	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/link"
	"github.com/oe149499/whiteboard/internal/metrics"
	"github.com/oe149499/whiteboard/internal/wire"
)

// MethodHandle owns the single response a Method call is allowed to
// produce. At most one of Respond or an Error-level Reject may succeed;
// later calls are no-ops, so a handler that both rejects and tries to
// respond can't double-answer a client. Warning-level rejects report
// per-item failures of a call that still answers: they may precede the
// Respond and do not use up the single response.
type MethodHandle struct {
	protocol  wire.Protocol
	requestID uint32
	client    ids.ClientID
	out       *link.ClientLink
	metrics   *metrics.Metrics
	done      atomic.Bool
}

// NewMethodHandle builds a handle for one Method call's reply. m may be
// nil, in which case reject metrics are not recorded.
func NewMethodHandle(client ids.ClientID, requestID uint32, out *link.ClientLink, m *metrics.Metrics) *MethodHandle {
	return &MethodHandle{protocol: wire.ProtocolMethod, requestID: requestID, client: client, out: out, metrics: m}
}

// Respond sends the Method's return value as the (only) Response.
func (h *MethodHandle) Respond(value any) {
	if !h.done.CompareAndSwap(false, true) {
		return
	}
	_ = h.out.SendMessage(wire.NewResponse(h.requestID, value))
}

// Reject sends a Reject frame. At LevelError it takes the place of the
// Response; at LevelWarning it accompanies a later Respond.
func (h *MethodHandle) Reject(level wire.RejectLevel, reason wire.RejectReason) {
	if level == wire.LevelError {
		if !h.done.CompareAndSwap(false, true) {
			return
		}
	} else if h.done.Load() {
		return
	}
	h.metrics.IncReject(string(reason.Kind), string(level))
	id := h.requestID
	reject := wire.NewReject(string(h.protocol), &id, level, reason)
	_ = h.out.SendMessage(wire.NewRejectEnvelope(reject))
}

// IterateHandle owns the stream of Response-Part frames an Iterate call
// produces, buffering items between flushes and guaranteeing exactly one
// terminal complete=true part.
type IterateHandle[T any] struct {
	requestID uint32
	out       *link.ClientLink
	metrics   *metrics.Metrics

	mu     sync.Mutex
	buffer []T
	part   uint32
	done   bool
}

// NewIterateHandle builds a handle for one Iterate call's stream. m may be
// nil, in which case reject metrics are not recorded.
func NewIterateHandle[T any](requestID uint32, out *link.ClientLink, m *metrics.Metrics) *IterateHandle[T] {
	return &IterateHandle[T]{requestID: requestID, out: out, metrics: m}
}

// Push buffers items without sending anything yet.
func (h *IterateHandle[T]) Push(items []T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return
	}
	h.buffer = append(h.buffer, items...)
}

// FlushResponse sends everything buffered since the last flush as one
// non-terminal Response-Part.
func (h *IterateHandle[T]) FlushResponse() {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		return
	}
	items := h.buffer
	h.buffer = nil
	part := h.part
	h.part++
	h.mu.Unlock()

	_ = h.out.SendMessage(wire.NewResponsePart(h.requestID, false, part, items))
}

// Finalize sends the terminal complete=true part carrying whatever is
// still buffered, then marks the stream closed. Safe to call at most once
// per handle; later calls are no-ops.
func (h *IterateHandle[T]) Finalize() {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		return
	}
	items := h.buffer
	h.buffer = nil
	part := h.part
	h.part++
	h.done = true
	h.mu.Unlock()

	_ = h.out.SendMessage(wire.NewResponsePart(h.requestID, true, part, items))
}

// Reject sends a Reject frame in place of any Response-Part and closes the
// stream without a terminal part.
func (h *IterateHandle[T]) Reject(level wire.RejectLevel, reason wire.RejectReason) {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		return
	}
	h.done = true
	h.mu.Unlock()

	h.metrics.IncReject(string(reason.Kind), string(level))
	id := h.requestID
	reject := wire.NewReject(string(wire.ProtocolIterate), &id, level, reason)
	_ = h.out.SendMessage(wire.NewRejectEnvelope(reject))
}
