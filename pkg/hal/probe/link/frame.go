package link

import (
	"io"
	"time"
)

// Seq is a frame sequence number. Valid numbers are 1 to 0xef, the
// values from 0xf0 up are reserved for sync bytes.
type Seq byte

// NewSeq returns a sequence number seeded from the clock.
func NewSeq() Seq {
	return Seq(byte(time.Now().UnixNano())).Next()
}

// Next returns the sequence number following s.
func (s Seq) Next() Seq {
	n := byte(s) + 1
	if n == 0 || n >= 0xf0 {
		n = 1
	}
	return Seq(n)
}

// Valid reports whether s can appear on the wire.
func (s Seq) Valid() bool {
	n := byte(s)
	return n > 0 && n < 0xf0
}

// Code bits.
const (
	// EventBit marks frames sent without a request.
	EventBit byte = 0x80
	// ErrorBit marks a reply to a failed command.
	ErrorBit byte = 0x01

	codeMask   byte = 0x8f
	lenShift        = 4
	lenMask    byte = 0x70
	lenExtend  byte = 7
	MaxPayload      = 0x7f
)

// Frame is one unit on the wire: seq, head, optional length, payload.
// The head holds the code (bits 0-3 and 7) and the payload length in bits
// 4-6. A length of 7 or more is sent as an explicit byte after the head.
type Frame struct {
	Seq     Seq
	Code    byte
	Payload []byte
}

// IsEvent reports whether the frame is an event.
func (f *Frame) IsEvent() bool {
	return f.Code&EventBit != 0
}

func (f *Frame) head() []byte {
	h := []byte{byte(f.Seq), f.Code & codeMask, byte(len(f.Payload))}
	if h[2] < lenExtend {
		h[1] |= (h[2] << lenShift) & lenMask
		return h[:2]
	}
	h[1] |= lenMask
	return h
}

// Encode returns the wire bytes of the frame.
func (f *Frame) Encode() []byte {
	return append(f.head(), f.Payload...)
}

// WriteTo implements io.WriterTo.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	if len(f.Payload) > MaxPayload {
		return 0, ErrPayloadTooLarge
	}
	n, err := w.Write(f.head())
	if err != nil || len(f.Payload) == 0 {
		return int64(n), err
	}
	n1, err := w.Write(f.Payload)
	return int64(n + n1), err
}
