package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMsgRecv_ParsesEnvelopeFields(t *testing.T) {
	t.Parallel()
	data := []byte(`{"protocol":"Method","name":"CreateItem","id":7,"item":{"type":"Text","text":"hi"}}`)

	msg, err := DecodeMsgRecv(data)
	require.NoError(t, err)
	assert.Equal(t, ProtocolMethod, msg.Protocol)
	assert.Equal(t, "CreateItem", msg.Name)
	assert.Equal(t, uint32(7), msg.ID)

	var params CreateItemParams
	require.NoError(t, msg.ParamsInto(&params))
	item, err := params.Item.Decode()
	require.NoError(t, err)
	assert.Equal(t, KindText, item.Kind())
}

func TestDecodeMsgRecv_MissingFieldsAreZeroValue(t *testing.T) {
	t.Parallel()
	msg, err := DecodeMsgRecv([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, msg.Protocol)
	assert.Empty(t, msg.Name)
	assert.Zero(t, msg.ID)
}

func TestNewResponse_BuildsEnvelope(t *testing.T) {
	t.Parallel()
	env := NewResponse(3, struct{}{})
	assert.Equal(t, ProtocolResponse, env.Protocol)
	assert.Equal(t, uint32(3), env.ID)
}

func TestNewResponsePart_BuildsEnvelope(t *testing.T) {
	t.Parallel()
	env := NewResponsePart(3, true, 2, []int{1, 2, 3})
	assert.Equal(t, ProtocolResponsePart, env.Protocol)
	assert.True(t, env.Complete)
	assert.Equal(t, uint32(2), env.Part)
}

func TestNewNotify_BuildsEnvelope(t *testing.T) {
	t.Parallel()
	env := NewNotify(string(NotifyItemCreated), ItemCreatedPayload{})
	assert.Equal(t, ProtocolNotifyC, env.Protocol)
	assert.Equal(t, string(NotifyItemCreated), env.Name)
}

func TestMarshal_ProducesValidJSON(t *testing.T) {
	t.Parallel()
	data, err := Marshal(NewResponse(1, 42))
	require.NoError(t, err)
	assert.JSONEq(t, `{"protocol":"Response","id":1,"value":42}`, string(data))
}
