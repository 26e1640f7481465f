// Package activepath tracks freehand strokes between BeginPath and EndPath:
// the accumulating node list, the set of GetActivePath listeners watching
// it live, and the 750ms flush cadence that pushes buffered nodes out to
// them.
package activepath

import (
	"sync"
	"time"

	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/wire"
)

// Listener receives streamed points from an in-progress path and is told
// when the path closes. It is the IterateHandle side of a GetActivePath
// call attached via Attach.
type Listener interface {
	// Push buffers newly-appended nodes without sending a Response-Part yet.
	Push(points []wire.SplineNode)
	// FlushResponse sends everything buffered since the last flush as one
	// Response-Part. Called by ContinuePath on the 750ms cadence.
	FlushResponse()
	// Finalize sends the terminal complete=true part; called once, at
	// EndPath.
	Finalize()
}

// ActivePath is an in-progress stroke belonging to exactly one client
// until EndPath closes it into a PathItem.
type ActivePath struct {
	ID     ids.PathID
	Owner  ids.ClientID
	Stroke wire.Stroke

	mu        sync.Mutex
	nodes     []wire.SplineNode
	listeners []Listener
	lastFlush time.Time
}

// New starts a fresh ActivePath with no nodes, owned by owner.
func New(id ids.PathID, owner ids.ClientID, stroke wire.Stroke) *ActivePath {
	return &ActivePath{
		ID:        id,
		Owner:     owner,
		Stroke:    stroke,
		lastFlush: time.Now(),
	}
}

// Append adds points to the path and immediately pushes them to every
// attached listener. It does not itself decide whether to flush — the
// dispatcher's ContinuePath handler calls ShouldFlush/MarkFlushed around
// this so the 750ms rule lives at the call site alongside the single
// mandated cooperative yield point.
func (p *ActivePath) Append(points []wire.SplineNode) {
	p.mu.Lock()
	p.nodes = append(p.nodes, points...)
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()

	for _, l := range listeners {
		l.Push(points)
	}
}

// FlushListeners calls FlushResponse on every attached listener. Call
// alongside ShouldFlush from ContinuePath's 750ms cadence.
func (p *ActivePath) FlushListeners() {
	p.mu.Lock()
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()

	for _, l := range listeners {
		l.FlushResponse()
	}
}

// ShouldFlush reports whether more than the given interval has elapsed
// since the path last flushed, and if so marks it flushed at now. This is
// a plain time.Since comparison rather than a live timer, since
// ContinuePath is already on the hot append path and a per-path timer
// goroutine would outlive most paths' actual duration.
func (p *ActivePath) ShouldFlush(interval time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if time.Since(p.lastFlush) <= interval {
		return false
	}
	p.lastFlush = time.Now()
	return true
}

// Attach seeds listener with a copy of the nodes accumulated so far and
// registers it to receive future Append pushes. Used by the GetActivePath
// iterate handler when it joins a path already in progress.
func (p *ActivePath) Attach(listener Listener) {
	p.mu.Lock()
	seed := append([]wire.SplineNode(nil), p.nodes...)
	p.listeners = append(p.listeners, listener)
	p.mu.Unlock()

	listener.Push(seed)
	listener.FlushResponse()
}

// Nodes returns a snapshot of the points accumulated so far.
func (p *ActivePath) Nodes() []wire.SplineNode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]wire.SplineNode(nil), p.nodes...)
}

// Close finalizes every attached listener. Called once, by EndPath.
func (p *ActivePath) Close() {
	p.mu.Lock()
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()

	for _, l := range listeners {
		l.Finalize()
	}
}
