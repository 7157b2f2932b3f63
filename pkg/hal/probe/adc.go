// Package probe reads the analog channel of a microcontroller probe
// attached to a serial port.
package probe

import (
	"context"
	"encoding/binary"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/analyzer.go/pkg/hal/probe/link"
)

// Probe command codes.
const (
	CmdEnable  byte = 0x02
	CmdRead    byte = 0x04
	CmdDisable byte = 0x06
)

// ADC implements hal.ADC over the probe link. Command failures are
// logged, a failed read returns 0.
type ADC struct {
	Timeout time.Duration

	session *link.Session
	closer  io.Closer
}

// New creates an ADC speaking over port.
func New(port io.ReadWriter) *ADC {
	return &ADC{
		Timeout: defaultConfig.Timeout,
		session: link.NewSession(link.New(port)),
	}
}

// Session returns the underlying link session.
func (a *ADC) Session() *link.Session {
	return a.session
}

// Run implements framework.Runnable. It drives the link and logs events.
func (a *ADC) Run(ctx context.Context) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case f := <-a.session.EventChan():
				glog.V(2).Infof("probe event %#x % x", f.Code, f.Payload)
			}
		}
	}()
	return a.session.Run(ctx)
}

// Enable implements hal.ADC.
func (a *ADC) Enable() {
	a.call(CmdEnable)
}

// Read implements hal.ADC.
func (a *ADC) Read() uint16 {
	r, err := a.call(CmdRead)
	if err != nil {
		return 0
	}
	if len(r.Payload) < 2 {
		glog.Errorf("probe read: short reply % x", r.Payload)
		return 0
	}
	return binary.LittleEndian.Uint16(r.Payload)
}

// Disable implements hal.ADC.
func (a *ADC) Disable() {
	a.call(CmdDisable)
}

// Close closes the serial port.
func (a *ADC) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *ADC) call(code byte) (link.Reply, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.Timeout)
	defer cancel()
	r, err := a.session.Call(ctx, code)
	if err != nil {
		glog.Errorf("probe command %#x: %v", code, err)
	}
	return r, err
}
