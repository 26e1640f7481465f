package dispatch

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oe149499/whiteboard/internal/boardstate"
	"github.com/oe149499/whiteboard/internal/link"
	"github.com/oe149499/whiteboard/internal/wire"
)

const createRectangleMsg = `{
	"protocol": "Method",
	"name": "CreateItem",
	"id": 1,
	"item": {
		"type": "Rectangle",
		"transform": {"origin": {"x": 0, "y": 0}, "rotation": 0, "stretchX": 1, "stretchY": 1},
		"stroke": {"width": 1, "color": "#000"},
		"fill": "#fff"
	}
}`

func TestDispatcher_EndToEndCreateItem(t *testing.T) {
	t.Parallel()
	board := boardstate.New("t", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := Launch(ctx, board, 2, nil)
	defer d.Shutdown()

	handle := d.NewBoardHandle()
	reply := handle.RequestSession(wire.ClientInfo{Name: "alice"})

	lb := link.NewLoopback()
	handle.NotifyConnected(reply.ClientID, link.New(lb))

	msg, err := wire.DecodeMsgRecv([]byte(createRectangleMsg))
	require.NoError(t, err)
	handle.SendClientMessage(reply.ClientID, msg)

	require.Eventually(t, func() bool {
		return board.Canvas.Len() == 1
	}, time.Second, time.Millisecond, "item must be created asynchronously")

	require.Eventually(t, func() bool {
		return len(lb.Received) > 0
	}, time.Second, time.Millisecond)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(lb.Received[len(lb.Received)-1], &env))
}

func TestDispatcher_UnknownMethodRejects(t *testing.T) {
	t.Parallel()
	board := boardstate.New("t", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := Launch(ctx, board, 1, nil)
	defer d.Shutdown()

	handle := d.NewBoardHandle()
	reply := handle.RequestSession(wire.ClientInfo{})

	lb := link.NewLoopback()
	handle.NotifyConnected(reply.ClientID, link.New(lb))

	msg, err := wire.DecodeMsgRecv([]byte(`{"protocol":"Method","name":"Bogus","id":1}`))
	require.NoError(t, err)
	handle.SendClientMessage(reply.ClientID, msg)

	require.Eventually(t, func() bool {
		return len(lb.Received) > 0
	}, time.Second, time.Millisecond)

	var env wire.RejectEnvelope
	require.NoError(t, json.Unmarshal(lb.Received[len(lb.Received)-1], &env))
	assert.Equal(t, wire.ProtocolReject, env.Protocol)
	assert.Equal(t, wire.ReasonMalformedMessage, env.Reason.Kind)
}

func TestDispatcher_ShutdownDrainsWorkers(t *testing.T) {
	t.Parallel()
	board := boardstate.New("t", nil)
	ctx := context.Background()
	d := Launch(ctx, board, 2, nil)

	handle := d.NewBoardHandle()
	handle.RequestSession(wire.ClientInfo{})

	assert.NotPanics(t, func() { d.Shutdown() })
}

func TestDispatcher_NilMetricsDoesNotPanic(t *testing.T) {
	t.Parallel()
	board := boardstate.New("t", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := Launch(ctx, board, 1, nil)
	defer d.Shutdown()

	handle := d.NewBoardHandle()
	assert.NotPanics(t, func() {
		handle.RequestSession(wire.ClientInfo{})
	})
}
