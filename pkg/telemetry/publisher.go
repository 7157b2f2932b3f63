package telemetry

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/analyzer.go/pkg/analyzer"
	fx "github.com/robotalks/analyzer.go/pkg/framework"
	"github.com/robotalks/analyzer.go/pkg/input"
	"github.com/robotalks/analyzer.go/pkg/telemetry/msgs"
)

// Backlog is the number of measurements buffered for sending.
const Backlog = 8

// Publisher sends measurements as events and turns received KeyPress
// commands into key events of the loop.
type Publisher struct {
	Pipe *Pipe
	// Runners are transport background tasks started with the loop.
	Runners []fx.Runnable

	measurements chan *msgs.Measurement
}

// NewPublisher creates a Publisher over rw.
func NewPublisher(rw PacketReadWriter) *Publisher {
	p := &Publisher{
		Pipe:         NewPipe(rw),
		measurements: make(chan *msgs.Measurement, Backlog),
	}
	p.Pipe.Handler = p.handleMessage
	return p
}

// MeasurementMsg converts a measurement to its wire form.
func MeasurementMsg(m analyzer.Measurement) *msgs.Measurement {
	return &msgs.Measurement{
		Mode:       uint32(m.Mode),
		ModeName:   m.Mode.String(),
		Voltage:    m.Voltage,
		Resistance: m.Resistance,
		UnixNano:   m.Time.UnixNano(),
	}
}

// Measured implements analyzer.Observer. It never blocks the loop, a
// measurement is dropped when the backlog is full.
func (p *Publisher) Measured(m analyzer.Measurement) {
	select {
	case p.measurements <- MeasurementMsg(m):
	default:
		glog.Warning("telemetry backlog full, measurement dropped")
	}
}

// AddToLoop implements LoopAdder.
func (p *Publisher) AddToLoop(loop *fx.Loop) {
	if r, ok := p.Pipe.ReadWriter.(fx.Runnable); ok {
		loop.AddRunnable(r)
	}
	loop.AddRunnable(p.Runners...)
	loop.AddRunnable(p.Pipe, p)
}

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-p.measurements:
			if err := p.Pipe.Send(m); err != nil {
				glog.Errorf("publish measurement: %v", err)
			}
		}
	}
}

func (p *Publisher) handleMessage(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	switch m := msg.(type) {
	case *msgs.KeyPress:
		key := input.Key(m.Key)
		if key < input.KeyBack || key > input.KeyOk {
			glog.Warningf("remote key %d ignored", m.Key)
			return nil
		}
		glog.V(2).Infof("remote key %s", key)
		input.Press(fx.LoopCtlFrom(ctx), key)
	default:
		glog.V(4).Infof("message %x ignored", typed.TypeID)
	}
	return nil
}
