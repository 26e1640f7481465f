package link

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSender struct{ err error }

func (f *failingSender) Send(payload []byte) error { return f.err }

func TestClientLink_SendMessageMarshalsAndForwards(t *testing.T) {
	t.Parallel()
	lb := NewLoopback()
	c := New(lb)

	require.NoError(t, c.SendMessage(map[string]int{"a": 1}))
	require.Len(t, lb.Received, 1)
	assert.JSONEq(t, `{"a":1}`, string(lb.Received[0]))
}

func TestClientLink_NilLinkSilentlyDrops(t *testing.T) {
	t.Parallel()
	var c *ClientLink
	assert.NoError(t, c.SendPayload([]byte("hello")))
}

func TestClientLink_NilSenderSilentlyDrops(t *testing.T) {
	t.Parallel()
	c := New(nil)
	assert.NoError(t, c.SendPayload([]byte("hello")))
}

func TestClientLink_SendFailurePropagates(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("boom")
	c := New(&failingSender{err: wantErr})
	assert.ErrorIs(t, c.SendPayload([]byte("x")), wantErr)
}

func TestLoopback_RecordsEveryPayload(t *testing.T) {
	t.Parallel()
	lb := NewLoopback()
	require.NoError(t, lb.Send([]byte("one")))
	require.NoError(t, lb.Send([]byte("two")))
	require.Len(t, lb.Received, 2)
	assert.Equal(t, "one", string(lb.Received[0]))
	assert.Equal(t, "two", string(lb.Received[1]))
}
