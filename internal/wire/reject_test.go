package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRejectReason_Constructors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RejectReason{Kind: ReasonNonExistentID, IDType: "ItemID", Value: 7}, NonExistentID("ItemID", 7))
	assert.Equal(t, RejectReason{Kind: ReasonIncorrectType, Key: "transform", Expected: "Points", Received: "Transform"},
		IncorrectType("transform", "Points", "Transform"))
	assert.Equal(t, RejectReason{Kind: ReasonMalformedMessage, Location: "params.items[0]"}, MalformedMessage("params.items[0]"))
	assert.Equal(t, RejectReason{Kind: ReasonResourceNotOwned, ResourceType: ResourceItem, TargetID: 3}, ResourceNotOwned(ResourceItem, 3))
}

func TestRejectMessage_ErrorString(t *testing.T) {
	t.Parallel()
	id := uint32(5)
	msg := NewReject("Method", &id, LevelError, NonExistentID("ItemID", 9))
	assert.Contains(t, msg.Error(), "NonExistentID")
	assert.Contains(t, msg.Error(), "Method")
}

func TestNewRejectEnvelope_CarriesFields(t *testing.T) {
	t.Parallel()
	id := uint32(5)
	msg := NewReject("Iterate", &id, LevelWarning, MalformedMessage("id"))
	env := NewRejectEnvelope(msg)

	assert.Equal(t, ProtocolReject, env.Protocol)
	assert.Equal(t, "Iterate", env.RequestProtocol)
	assert.Equal(t, &id, env.RequestID)
	assert.Equal(t, LevelWarning, env.Level)
	assert.Equal(t, ReasonMalformedMessage, env.Reason.Kind)
}
