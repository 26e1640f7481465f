package boardstate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/link"
	"github.com/oe149499/whiteboard/internal/wire"
)

func TestGetFullItems_CompletesWithOneResultPerID(t *testing.T) {
	t.Parallel()
	b := New("t", nil)
	id := b.Canvas.AddItem(&wire.RectangleItem{Transform: wire.IdentityTransform()})

	lb := link.NewLoopback()
	handle := NewIterateHandle[wire.FullItemResult](1, link.New(lb), nil)
	b.GetFullItems(wire.GetFullItemsParams{IDs: []ids.ItemID{id, ids.ItemID(9999)}}, handle)

	require.NotEmpty(t, lb.Received)
	var last wire.ResponsePartEnvelope
	require.NoError(t, json.Unmarshal(lb.Received[len(lb.Received)-1], &last))
	assert.True(t, last.Complete)
}

func TestGetFullItems_FlushesAtThreshold(t *testing.T) {
	t.Parallel()
	old := getFullItemsFlushThreshold
	getFullItemsFlushThreshold = 2
	defer func() { getFullItemsFlushThreshold = old }()

	b := New("t", nil)
	var reqIDs []ids.ItemID
	for i := 0; i < 5; i++ {
		reqIDs = append(reqIDs, b.Canvas.AddItem(&wire.RectangleItem{Transform: wire.IdentityTransform()}))
	}

	lb := link.NewLoopback()
	handle := NewIterateHandle[wire.FullItemResult](1, link.New(lb), nil)
	b.GetFullItems(wire.GetFullItemsParams{IDs: reqIDs}, handle)

	// 5 items at threshold 2: flush after item 2, flush after item 4, then
	// Finalize sends the terminal part with the remaining 1 item = 3 sends.
	assert.Len(t, lb.Received, 3)
}

func TestGetActivePath_AttachesAndSeedsExistingNodes(t *testing.T) {
	t.Parallel()
	b := New("t", nil)
	client, _ := b.CreateSession(wire.ClientInfo{})

	beginHandle, beginLB := newTestHandle(b, client)
	b.BeginPath(client, wire.BeginPathParams{}, beginHandle)
	var pathID ids.PathID
	require.NoError(t, json.Unmarshal(lastEnvelope(t, beginLB)["value"], &pathID))

	contHandle, _ := newTestHandle(b, client)
	b.ContinuePath(client, wire.ContinuePathParams{PathID: pathID, Points: []wire.SplineNode{{X: 1, Y: 2}}}, contHandle)

	lb := link.NewLoopback()
	handle := NewIterateHandle[wire.SplineNode](2, link.New(lb), nil)
	b.GetActivePath(wire.GetActivePathParams{PathID: pathID}, handle)

	require.NotEmpty(t, lb.Received)
	var part wire.ResponsePartEnvelope
	require.NoError(t, json.Unmarshal(lb.Received[0], &part))
	assert.False(t, part.Complete)
}

func TestGetActivePath_NonExistentPathRejects(t *testing.T) {
	t.Parallel()
	b := New("t", nil)
	lb := link.NewLoopback()
	handle := NewIterateHandle[wire.SplineNode](1, link.New(lb), nil)

	b.GetActivePath(wire.GetActivePathParams{PathID: ids.PathID(999)}, handle)

	require.NotEmpty(t, lb.Received)
	var env wire.RejectEnvelope
	require.NoError(t, json.Unmarshal(lb.Received[0], &env))
	assert.Equal(t, wire.ProtocolReject, env.Protocol)
}
