package joystick

import (
	"errors"
	"io"
)

// ErrUnsupported is returned where the joystick API is unavailable.
var ErrUnsupported = errors.New("joystick not supported on this platform")

// EventKind distinguishes button and axis changes.
type EventKind uint8

// Event kinds, as reported by the kernel.
const (
	KindButton EventKind = 0x01
	KindAxis   EventKind = 0x02
)

// RawEvent is one change reported by a gamepad.
type RawEvent struct {
	Kind   EventKind
	Number int
	Value  int
	// Init marks the synthetic events describing the state at open.
	Init bool
}

// Device is an opened gamepad.
type Device interface {
	io.Closer
	Index() int
	Name() string
	ReadEvent() (RawEvent, error)
}
