// Package msgs defines the telemetry messages and their wire envelope.
package msgs

import (
	"errors"
	"fmt"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/analyzer.go/pkg/framework"
)

// TypeID masks.
const (
	TypeIDMaskKind  uint32 = 0x80000000
	TypeIDMaskGroup uint32 = 0x7fff0000
	TypeIDMaskID    uint32 = 0x0000ffff
)

// Message kinds.
const (
	TypeIDKindCommand uint32 = 0x00000000
	TypeIDKindEvent   uint32 = 0x80000000
)

// Typed is the envelope of every message on the wire.
type Typed struct {
	TypeID   uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Sequence uint32 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Message  []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Typed) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Typed) Reset() { *m = Typed{} }

// String implements proto.Message.
func (m *Typed) String() string { return proto.CompactTextString(m) }

// UnknownTypeError indicates a type ID missing from MessageTypes.
type UnknownTypeError struct {
	TypeID uint32
}

// Error implements error.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

// ErrNotSerializable indicates the message has no wire form.
var ErrNotSerializable = errors.New("not serializable message")

// SerializableMessage can be sent over the wire.
type SerializableMessage interface {
	fx.Message
	TypeID() uint32
	Serializable() proto.Message
}

// MessageTypes maps type IDs to messages.
var MessageTypes = map[uint32]SerializableMessage{
	MeasurementTypeID: (*Measurement)(nil),
	KeyPressTypeID:    (*KeyPress)(nil),
}

// TypedFrom wraps a serializable message.
func TypedFrom(msg fx.Message) (*Typed, error) {
	s, ok := msg.(SerializableMessage)
	if !ok {
		return nil, ErrNotSerializable
	}
	data, err := proto.Marshal(s.Serializable())
	if err != nil {
		return nil, err
	}
	return &Typed{TypeID: s.TypeID(), Message: data}, nil
}

// Decode decodes the wrapped message.
func (m *Typed) Decode() (fx.Message, error) {
	msgType, ok := MessageTypes[m.TypeID]
	if !ok {
		return nil, &UnknownTypeError{TypeID: m.TypeID}
	}
	msg := msgType.NewMessage()
	if err := proto.Unmarshal(m.Message, msg.(SerializableMessage).Serializable()); err != nil {
		return nil, err
	}
	return msg, nil
}

// Encode encodes the envelope.
func (m *Typed) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// IsEvent reports whether the message is an event.
func (m *Typed) IsEvent() bool {
	return m.TypeID&TypeIDMaskKind == TypeIDKindEvent
}

// DecodeTyped decodes an envelope.
func DecodeTyped(data []byte) (*Typed, error) {
	var typed Typed
	if err := proto.Unmarshal(data, &typed); err != nil {
		return nil, err
	}
	return &typed, nil
}
