// Package input defines the key events driving the analyzer and the
// sources producing them.
package input

import (
	"fmt"
	"strings"

	fx "github.com/robotalks/analyzer.go/pkg/framework"
)

// Key is a hardware key.
type Key int

// Keys.
const (
	KeyBack Key = iota
	KeyLeft
	KeyRight
	KeyOk
)

var keyNames = [...]string{"back", "left", "right", "ok"}

func (k Key) String() string {
	if k >= 0 && int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// ParseKey parses the name of a key, case insensitive.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for n, s := range keyNames {
		if s == name {
			return Key(n), nil
		}
	}
	return KeyBack, fmt.Errorf("unknown key %q", name)
}

// Type is the kind of a key event.
type Type int

// Event types.
const (
	TypePress Type = iota
	TypeRelease
	TypeRepeat
)

var typeNames = [...]string{"press", "release", "repeat"}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Event is a key event, delivered through the loop as a message.
type Event struct {
	Key  Key
	Type Type
}

// NewMessage implements Message.
func (e *Event) NewMessage() fx.Message { return &Event{} }

func (e *Event) String() string {
	return e.Key.String() + " " + e.Type.String()
}

// Press posts a press followed by a release of key.
// It blocks while the loop queue is full.
func Press(ctl fx.LoopControl, key Key) {
	ctl.PostMessage(&Event{Key: key, Type: TypePress})
	ctl.PostMessage(&Event{Key: key, Type: TypeRelease})
}
