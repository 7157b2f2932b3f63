package joystick

import (
	"github.com/robotalks/analyzer.go/pkg/input"
)

// Mapping translates gamepad events to keys.
type Mapping struct {
	Buttons map[int]input.Key
	// Axis is the horizontal axis, -1 disables it.
	Axis int
	// Threshold is the deflection pressing Left or Right.
	Threshold int

	axisKey *input.Key
}

// DefaultMapping matches common USB gamepads.
func DefaultMapping() *Mapping {
	return &Mapping{
		Buttons: map[int]input.Key{
			0: input.KeyOk,
			1: input.KeyBack,
			4: input.KeyLeft,
			5: input.KeyRight,
		},
		Axis:      0,
		Threshold: 16384,
	}
}

// Translate returns the key events for ev. Init events are skipped.
func (m *Mapping) Translate(ev RawEvent) []input.Event {
	if ev.Init {
		return nil
	}
	switch ev.Kind {
	case KindButton:
		key, ok := m.Buttons[ev.Number]
		if !ok {
			return nil
		}
		typ := input.TypeRelease
		if ev.Value != 0 {
			typ = input.TypePress
		}
		return []input.Event{{Key: key, Type: typ}}
	case KindAxis:
		if ev.Number != m.Axis {
			return nil
		}
		return m.translateAxis(ev.Value)
	}
	return nil
}

func (m *Mapping) translateAxis(value int) (events []input.Event) {
	var want *input.Key
	switch {
	case value <= -m.Threshold:
		k := input.KeyLeft
		want = &k
	case value >= m.Threshold:
		k := input.KeyRight
		want = &k
	}
	if m.axisKey != nil && (want == nil || *want != *m.axisKey) {
		events = append(events, input.Event{Key: *m.axisKey, Type: input.TypeRelease})
		m.axisKey = nil
	}
	if want != nil && m.axisKey == nil {
		events = append(events, input.Event{Key: *want, Type: input.TypePress})
		m.axisKey = want
	}
	return
}
