package boardstate

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/link"
	"github.com/oe149499/whiteboard/internal/wire"
)

func TestBoardState_CreateSessionBroadcastsJoin(t *testing.T) {
	t.Parallel()
	b := New("t", nil)
	lb := link.NewLoopback()
	client, _ := b.CreateSession(wire.ClientInfo{Name: "alice"})
	b.Connect(client, link.New(lb))

	second, _ := b.CreateSession(wire.ClientInfo{Name: "bob"})
	_ = second

	require.NotEmpty(t, lb.Received)
	var env wire.NotifyEnvelope
	require.NoError(t, json.Unmarshal(lb.Received[len(lb.Received)-1], &env))
	assert.Equal(t, string(wire.NotifyClientJoined), env.Name)
}

func TestBoardState_ConnectDisconnectLifecycle(t *testing.T) {
	t.Parallel()
	b := New("t", nil)
	client, _ := b.CreateSession(wire.ClientInfo{Name: "alice"})

	assert.False(t, b.Connect(ids.ClientID(9999), link.New(link.NewLoopback())))

	lb := link.NewLoopback()
	assert.True(t, b.Connect(client, link.New(lb)))
	c, ok := b.Client(client)
	require.True(t, ok)
	assert.NotNil(t, c.Link())

	b.Disconnect(client)
	assert.Nil(t, c.Link())
}

func TestBoardState_BroadcastSkipsDetachedClients(t *testing.T) {
	t.Parallel()
	b := New("t", nil)
	client1, _ := b.CreateSession(wire.ClientInfo{Name: "alice"})
	client2, _ := b.CreateSession(wire.ClientInfo{Name: "bob"})

	lb1 := link.NewLoopback()
	b.Connect(client1, link.New(lb1))
	// client2 stays detached (no link attached).

	before := len(lb1.Received)
	b.Broadcast(wire.NewNotify("Test", struct{}{}))
	assert.Greater(t, len(lb1.Received), before)

	c2, _ := b.Client(client2)
	assert.Nil(t, c2.Link())
}

func TestBoardState_RestoreFromReseedsAllocator(t *testing.T) {
	t.Parallel()
	b := New("t", nil)
	b.RestoreFrom(map[ids.ItemID]wire.Item{
		ids.ItemID(5): &wire.RectangleItem{Transform: wire.IdentityTransform()},
	})

	assert.Equal(t, 1, b.Canvas.Len())
	newID := b.Canvas.AddItem(&wire.RectangleItem{Transform: wire.IdentityTransform()})
	assert.Greater(t, newID, ids.ItemID(5))
}

func TestBoardState_ClientIDsOrderedByJoin(t *testing.T) {
	t.Parallel()
	b := New("t", nil)
	c1, _ := b.CreateSession(wire.ClientInfo{Name: "a"})
	c2, _ := b.CreateSession(wire.ClientInfo{Name: "b"})
	c3, _ := b.CreateSession(wire.ClientInfo{Name: "c"})

	assert.Equal(t, []ids.ClientID{c1, c2, c3}, b.ClientIDs())
}

func TestBoardState_ConcurrentSessionCreationAllocatesDistinctIDs(t *testing.T) {
	b := New("t", nil)
	const n = 50
	var wg sync.WaitGroup
	out := make([]ids.ClientID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cid, _ := b.CreateSession(wire.ClientInfo{})
			out[i] = cid
		}(i)
	}
	wg.Wait()

	seen := make(map[ids.ClientID]bool)
	for _, id := range out {
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Len(t, b.ClientIDs(), n)
}
