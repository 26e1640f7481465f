package wire

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// envelopeJSON is shared by every wire type in this package so serialization
// settings (map key ordering aside) stay uniform across Method, Notify-C,
// Iterate, and Reject traffic.
var envelopeJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Protocol discriminates the outer shape of an inbound or outbound frame.
type Protocol string

const (
	ProtocolMethod       Protocol = "Method"
	ProtocolIterate      Protocol = "Iterate"
	ProtocolResponse     Protocol = "Response"
	ProtocolNotifyC      Protocol = "Notify-C"
	ProtocolResponsePart Protocol = "Response-Part"
	ProtocolReject       Protocol = "Reject"
)

// MsgRecv is an inbound client frame. Params is left raw because its shape
// depends on Name; the dispatcher looks Name up in the Method or Iterate
// dispatch table (keyed by Protocol) and decodes Params into that variant's
// param struct.
type MsgRecv struct {
	Protocol Protocol              `json:"protocol"`
	Name     string                `json:"name"`
	ID       uint32                `json:"id"`
	Params   jsoniter.RawMessage   `json:"-"`
	raw      map[string]jsoniter.RawMessage
}

// DecodeMsgRecv parses the common envelope fields and retains the rest of
// the object so ParamsInto can decode the method- or iterate-specific
// fields afterward.
func DecodeMsgRecv(data []byte) (*MsgRecv, error) {
	var fields map[string]jsoniter.RawMessage
	if err := envelopeJSON.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	m := &MsgRecv{raw: fields}
	if b, ok := fields["protocol"]; ok {
		if err := envelopeJSON.Unmarshal(b, &m.Protocol); err != nil {
			return nil, fmt.Errorf("decode protocol: %w", err)
		}
	}
	if b, ok := fields["name"]; ok {
		if err := envelopeJSON.Unmarshal(b, &m.Name); err != nil {
			return nil, fmt.Errorf("decode name: %w", err)
		}
	}
	if b, ok := fields["id"]; ok {
		if err := envelopeJSON.Unmarshal(b, &m.ID); err != nil {
			return nil, fmt.Errorf("decode id: %w", err)
		}
	}
	m.Params = data
	return m, nil
}

// ParamsInto decodes the envelope's full object (including the common
// protocol/name/id fields, which the target struct is expected to ignore
// via struct tags it does not declare) into dst.
func (m *MsgRecv) ParamsInto(dst any) error {
	return envelopeJSON.Unmarshal(m.Params, dst)
}

// ResponseEnvelope is the outbound "Response" shape for a completed Method
// call: the request id it answers plus the handler's return value.
type ResponseEnvelope struct {
	Protocol Protocol `json:"protocol"`
	ID       uint32   `json:"id"`
	Value    any      `json:"value"`
}

// NewResponse builds a Response envelope for request id carrying value.
func NewResponse(id uint32, value any) ResponseEnvelope {
	return ResponseEnvelope{Protocol: ProtocolResponse, ID: id, Value: value}
}

// NotifyEnvelope is the outbound "Notify-C" shape: a broadcast identified
// by Name with its payload fields flattened alongside it.
type NotifyEnvelope struct {
	Protocol Protocol `json:"protocol"`
	Name     string   `json:"name"`
	Payload  any      `json:"payload"`
}

// MarshalJSON writes the payload's fields at the top level of the frame,
// beside protocol and name.
func (n NotifyEnvelope) MarshalJSON() ([]byte, error) {
	fields := map[string]jsoniter.RawMessage{}
	if n.Payload != nil {
		body, err := envelopeJSON.Marshal(n.Payload)
		if err != nil {
			return nil, err
		}
		if err := envelopeJSON.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("notify payload: %w", err)
		}
	}
	fields["protocol"], _ = envelopeJSON.Marshal(n.Protocol)
	fields["name"], _ = envelopeJSON.Marshal(n.Name)
	return envelopeJSON.Marshal(fields)
}

// NewNotify builds a Notify-C envelope for the named broadcast.
func NewNotify(name string, payload any) NotifyEnvelope {
	return NotifyEnvelope{Protocol: ProtocolNotifyC, Name: name, Payload: payload}
}

// ResponsePartEnvelope is one streamed part of an Iterate response.
type ResponsePartEnvelope struct {
	Protocol Protocol `json:"protocol"`
	ID       uint32   `json:"id"`
	Complete bool     `json:"complete"`
	Part     uint32   `json:"part"`
	Items    any      `json:"items"`
}

// NewResponsePart builds one streamed part of an Iterate response.
func NewResponsePart(id uint32, complete bool, part uint32, items any) ResponsePartEnvelope {
	return ResponsePartEnvelope{
		Protocol: ProtocolResponsePart,
		ID:       id,
		Complete: complete,
		Part:     part,
		Items:    items,
	}
}

// RejectEnvelope is the outbound "Reject" shape wrapping a RejectMessage.
type RejectEnvelope struct {
	Protocol        Protocol     `json:"protocol"`
	RequestProtocol string       `json:"requestProtocol"`
	RequestID       *uint32      `json:"requestId,omitempty"`
	Level           RejectLevel  `json:"level"`
	Reason          RejectReason `json:"reason"`
}

// NewRejectEnvelope wraps a RejectMessage for transmission.
func NewRejectEnvelope(r *RejectMessage) RejectEnvelope {
	return RejectEnvelope{
		Protocol:        ProtocolReject,
		RequestProtocol: r.RequestProtocol,
		RequestID:       r.RequestID,
		Level:           r.Level,
		Reason:          r.Reason,
	}
}

// Marshal encodes any outbound envelope type using the package's shared
// jsoniter configuration.
func Marshal(v any) ([]byte, error) {
	return envelopeJSON.Marshal(v)
}
