package analyzer

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/analyzer.go/pkg/input"
)

// Action tells the loop what to do after an event.
type Action int

// Actions.
const (
	ActionNone Action = iota
	ActionExit
)

// Feedback signals the user around a measurement. Calls must not fail
// or block for long.
type Feedback interface {
	MeasurementStarted()
	MeasurementSucceeded()
}

// Measurement is a completed reading.
type Measurement struct {
	Mode       Mode
	Voltage    float64
	Resistance float64
	Time       time.Time
}

// Observer is told about every completed measurement.
type Observer interface {
	Measured(Measurement)
}

// ObserverFunc is func form of Observer.
type ObserverFunc func(Measurement)

// Measured implements Observer.
func (f ObserverFunc) Measured(m Measurement) { f(m) }

// Dispatcher applies key events to the State.
type Dispatcher struct {
	Sampler   *Sampler
	Estimator *Estimator
	Feedback  Feedback
	Observer  Observer
	// Redraw is called once Testing is set, before the measurement blocks.
	Redraw func(State)
	Now    func() time.Time
}

// NewDispatcher creates a Dispatcher measuring with sampler.
func NewDispatcher(sampler *Sampler) *Dispatcher {
	return &Dispatcher{
		Sampler:   sampler,
		Estimator: &Estimator{Sampler: sampler},
		Now:       time.Now,
	}
}

// HandleInput applies ev to s. Only presses act.
func (d *Dispatcher) HandleInput(ev input.Event, s *State) Action {
	if ev.Type != input.TypePress {
		return ActionNone
	}
	switch ev.Key {
	case input.KeyBack:
		return ActionExit
	case input.KeyLeft:
		s.Mode = s.Mode.Prev()
	case input.KeyRight:
		s.Mode = s.Mode.Next()
	case input.KeyOk:
		d.measure(s)
	}
	return ActionNone
}

func (d *Dispatcher) measure(s *State) {
	s.Testing = true
	if d.Redraw != nil {
		d.Redraw(*s)
	}
	if d.Feedback != nil {
		d.Feedback.MeasurementStarted()
	}
	measured := true
	switch s.Mode {
	case ModeVoltage:
		s.Voltage = d.Sampler.MeasureVoltage()
		glog.V(2).Infof("voltage %.3f V", s.Voltage)
	case ModeResistance:
		s.Resistance = d.Estimator.MeasureResistance()
		glog.V(2).Infof("resistance %.1f Ohm", s.Resistance)
	case ModeDiodeTest:
		// no measurement for diodes
		measured = false
	}
	if d.Feedback != nil {
		d.Feedback.MeasurementSucceeded()
	}
	s.Testing = false

	if measured && d.Observer != nil {
		now := time.Now
		if d.Now != nil {
			now = d.Now
		}
		d.Observer.Measured(Measurement{
			Mode:       s.Mode,
			Voltage:    s.Voltage,
			Resistance: s.Resistance,
			Time:       now(),
		})
	}
}
