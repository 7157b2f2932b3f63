package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/analyzer.go/pkg/framework"
)

// Type IDs of analyzer messages.
const (
	MeasurementTypeID = TypeIDKindEvent | 0x00a10001
	KeyPressTypeID    = TypeIDKindCommand | 0x00a10002
)

// Measurement is published after each completed measurement.
type Measurement struct {
	Mode       uint32  `protobuf:"varint,1,opt,name=mode,proto3" json:"mode,omitempty"`
	ModeName   string  `protobuf:"bytes,2,opt,name=mode_name,json=modeName,proto3" json:"mode_name,omitempty"`
	Voltage    float64 `protobuf:"fixed64,3,opt,name=voltage,proto3" json:"voltage,omitempty"`
	Resistance float64 `protobuf:"fixed64,4,opt,name=resistance,proto3" json:"resistance,omitempty"`
	UnixNano   int64   `protobuf:"varint,5,opt,name=unix_nano,json=unixNano,proto3" json:"unix_nano,omitempty"`
}

// NewMessage implements Message.
func (m *Measurement) NewMessage() fx.Message { return &Measurement{} }

// TypeID implements SerializableMessage.
func (m *Measurement) TypeID() uint32 { return MeasurementTypeID }

// Serializable implements SerializableMessage.
func (m *Measurement) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Measurement) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Measurement) Reset() { *m = Measurement{} }

// String implements proto.Message.
func (m *Measurement) String() string { return proto.CompactTextString(m) }

// KeyPress presses a key remotely.
type KeyPress struct {
	Key uint32 `protobuf:"varint,1,opt,name=key,proto3" json:"key,omitempty"`
}

// NewMessage implements Message.
func (m *KeyPress) NewMessage() fx.Message { return &KeyPress{} }

// TypeID implements SerializableMessage.
func (m *KeyPress) TypeID() uint32 { return KeyPressTypeID }

// Serializable implements SerializableMessage.
func (m *KeyPress) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *KeyPress) ProtoMessage() {}

// Reset implements proto.Message.
func (m *KeyPress) Reset() { *m = KeyPress{} }

// String implements proto.Message.
func (m *KeyPress) String() string { return proto.CompactTextString(m) }
