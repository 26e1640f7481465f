package activepath

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/wire"
)

// fakeListener records every call made on it for assertion.
type fakeListener struct {
	mu        sync.Mutex
	pushed    [][]wire.SplineNode
	flushes   int
	finalized bool
}

func (f *fakeListener) Push(points []wire.SplineNode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, points)
}

func (f *fakeListener) FlushResponse() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
}

func (f *fakeListener) Finalize() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalized = true
}

func (f *fakeListener) snapshot() (int, int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushed), f.flushes, f.finalized
}

func TestActivePath_AppendPushesToListeners(t *testing.T) {
	t.Parallel()
	p := New(ids.PathID(1), ids.ClientID(1), wire.Stroke{Width: 1})
	l := &fakeListener{}
	p.Attach(l)

	p.Append([]wire.SplineNode{{X: 1, Y: 1}})
	pushes, flushes, _ := l.snapshot()
	assert.Equal(t, 2, pushes) // seed push on Attach + Append
	assert.Equal(t, 1, flushes)
}

func TestActivePath_AttachSeedsAccumulatedNodes(t *testing.T) {
	t.Parallel()
	p := New(ids.PathID(1), ids.ClientID(1), wire.Stroke{})
	p.Append([]wire.SplineNode{{X: 1, Y: 2}, {X: 3, Y: 4}})

	l := &fakeListener{}
	p.Attach(l)

	l.mu.Lock()
	defer l.mu.Unlock()
	require.Len(t, l.pushed, 1)
	assert.Equal(t, []wire.SplineNode{{X: 1, Y: 2}, {X: 3, Y: 4}}, l.pushed[0])
	assert.Equal(t, 1, l.flushes)
}

func TestActivePath_CloseFinalizesAllListeners(t *testing.T) {
	t.Parallel()
	p := New(ids.PathID(1), ids.ClientID(1), wire.Stroke{})
	l1, l2 := &fakeListener{}, &fakeListener{}
	p.Attach(l1)
	p.Attach(l2)

	p.Close()

	_, _, fin1 := l1.snapshot()
	_, _, fin2 := l2.snapshot()
	assert.True(t, fin1)
	assert.True(t, fin2)
}

func TestActivePath_ShouldFlushRespectsInterval(t *testing.T) {
	t.Parallel()
	p := New(ids.PathID(1), ids.ClientID(1), wire.Stroke{})
	assert.False(t, p.ShouldFlush(time.Hour))

	time.Sleep(2 * time.Millisecond)
	assert.True(t, p.ShouldFlush(time.Millisecond))
	// Immediately after marking flushed, the interval hasn't elapsed again.
	assert.False(t, p.ShouldFlush(time.Hour))
}

func TestActivePath_NodesReturnsSnapshot(t *testing.T) {
	t.Parallel()
	p := New(ids.PathID(1), ids.ClientID(1), wire.Stroke{})
	p.Append([]wire.SplineNode{{X: 1, Y: 1}})
	nodes := p.Nodes()
	require.Len(t, nodes, 1)

	// Mutating the returned slice must not affect the path's own state.
	nodes[0] = wire.SplineNode{X: 99, Y: 99}
	assert.Equal(t, wire.SplineNode{X: 1, Y: 1}, p.Nodes()[0])
}
