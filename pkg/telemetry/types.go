// Package telemetry publishes measurements of the analyzer and accepts
// remote key presses over a packet transport.
package telemetry

// Topics under the name of an analyzer.
const (
	TopicMeta = "meta"
	TopicMsg  = "msg"
	TopicKeys = "keys"
)

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

// Ref identifies an analyzer.
type Ref struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Name is the topic prefix of the analyzer.
func (r Ref) Name() string {
	return r.Type + "/" + r.ID
}

// Topic returns the full topic of a sub-topic.
func (r Ref) Topic(sub string) string {
	return r.Name() + "/" + sub
}

// IsValid indicates both Type and ID are set.
func (r Ref) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// Meta describes an analyzer, published retained at its meta topic.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Info is a discovered analyzer.
type Info struct {
	Ref  Ref  `json:"ref"`
	Meta Meta `json:"meta"`
}
