package wire

import "fmt"

// RejectLevel distinguishes a reject that aborts the logical request from
// one that merely accompanies a partial success.
type RejectLevel string

const (
	LevelWarning RejectLevel = "Warning"
	LevelError   RejectLevel = "Error"
)

// RejectReasonKind discriminates RejectReason's four shapes.
//
// These are tagged internally via the "type" field, the same convention
// used for Item and LocationUpdate elsewhere in this package, rather than
// serde's externally-tagged default (`{"NonExistentID": {...}}`) — the
// envelope already picks one tagging style for every other sum type on the
// wire and RejectReason follows it for consistency across the protocol
// rather than varying by payload.
type RejectReasonKind string

const (
	ReasonNonExistentID    RejectReasonKind = "NonExistentID"
	ReasonIncorrectType    RejectReasonKind = "IncorrectType"
	ReasonMalformedMessage RejectReasonKind = "MalformedMessage"
	ReasonResourceNotOwned RejectReasonKind = "ResourceNotOwned"
)

// ResourceType names the kind of resource behind a ResourceNotOwned reject.
type ResourceType string

const (
	ResourceItem ResourceType = "Item"
	ResourcePath ResourceType = "Path"
)

// RejectReason is the closed set of reasons a Reject frame can carry. Only
// the fields relevant to Kind are populated; the rest are left at their
// zero value and omitted from the wire form.
type RejectReason struct {
	Kind RejectReasonKind `json:"type"`

	// NonExistentID
	IDType string `json:"idType,omitempty"`
	Value  uint32 `json:"value,omitempty"`

	// IncorrectType
	Key      string `json:"key,omitempty"`
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`

	// MalformedMessage
	Location string `json:"location,omitempty"`

	// ResourceNotOwned
	ResourceType ResourceType `json:"resourceType,omitempty"`
	TargetID     uint32       `json:"targetId,omitempty"`
}

// NonExistentID builds a RejectReason for a reference to an id that does
// not exist in any tracked set (item, path, client, session).
func NonExistentID(idType string, value uint32) RejectReason {
	return RejectReason{Kind: ReasonNonExistentID, IDType: idType, Value: value}
}

// IncorrectType builds a RejectReason for a LocationUpdate (or other typed
// payload) that does not match the target's actual shape. Key locates the
// mismatch: a field name when it is nested inside a larger message, the
// item id in decimal for a per-item update in SelectionRemoveItems, empty
// when the whole payload is the mismatch.
func IncorrectType(key, expected, received string) RejectReason {
	return RejectReason{Kind: ReasonIncorrectType, Key: key, Expected: expected, Received: received}
}

// MalformedMessage builds a RejectReason for a structurally invalid frame.
func MalformedMessage(location string) RejectReason {
	return RejectReason{Kind: ReasonMalformedMessage, Location: location}
}

// ResourceNotOwned builds a RejectReason for an operation attempted on a
// resource the caller has not taken (failed CheckOwned).
func ResourceNotOwned(resourceType ResourceType, targetID uint32) RejectReason {
	return RejectReason{Kind: ReasonResourceNotOwned, ResourceType: resourceType, TargetID: targetID}
}

// RejectMessage is a protocol-level failure frame independent of Response.
// It implements error so handlers can return it (or wrap it) through
// ordinary Go error-handling paths before the dispatcher translates it to
// an outbound "Reject" envelope.
type RejectMessage struct {
	RequestProtocol string       `json:"requestProtocol"`
	RequestID       *uint32      `json:"requestId,omitempty"`
	Level           RejectLevel  `json:"level"`
	Reason          RejectReason `json:"reason"`
}

func (r *RejectMessage) Error() string {
	return fmt.Sprintf("reject[%s]: %s (%s)", r.Level, r.Reason.Kind, r.RequestProtocol)
}

// NewReject builds a RejectMessage for a request of the given protocol
// ("Method" or "Iterate") and optional request id.
func NewReject(protocol string, requestID *uint32, level RejectLevel, reason RejectReason) *RejectMessage {
	return &RejectMessage{
		RequestProtocol: protocol,
		RequestID:       requestID,
		Level:           level,
		Reason:          reason,
	}
}
