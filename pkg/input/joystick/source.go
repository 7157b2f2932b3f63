// Package joystick turns a Linux gamepad into analyzer key events.
package joystick

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/analyzer.go/pkg/framework"
	"github.com/robotalks/analyzer.go/pkg/input"
)

// DetectInterval is the pace of device detection.
const DetectInterval = time.Second

// Source posts key events from a gamepad. It keeps detecting a device
// until one appears and reopens after the device goes away.
type Source struct {
	DeviceIndex int
	Mapping     *Mapping
	Verbose     bool

	// open is replaceable in tests.
	open func(index int) (Device, error)
}

// NewSource creates a Source.
func NewSource() *Source {
	return &Source{
		DeviceIndex: defaultConfig.DeviceIndex,
		Mapping:     DefaultMapping(),
		Verbose:     defaultConfig.Verbose,
	}
}

func (s *Source) openDevice() (Device, error) {
	open := s.open
	if open == nil {
		if s.DeviceIndex >= 0 {
			open = Open
		} else {
			open = Detect
		}
	}
	index := s.DeviceIndex
	if index < 0 {
		index = 0
	}
	return open(index)
}

// Run implements Runnable.
func (s *Source) Run(ctx context.Context) error {
	loopCtl := fx.LoopCtlFrom(ctx)
	var dev Device
	var eventCh chan RawEvent
	defer func() {
		if dev != nil {
			dev.Close()
		}
	}()
	detectTimer := time.After(0)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-detectTimer:
			detectTimer = nil
			d, err := s.openDevice()
			switch {
			case err == ErrUnsupported:
				glog.Warning("joystick unsupported, source disabled")
				<-ctx.Done()
				return ctx.Err()
			case err != nil:
				glog.V(2).Infof("open joystick: %v", err)
			case d == nil:
				glog.V(4).Info("no joystick detected")
			default:
				glog.Infof("joystick %d %q opened", d.Index(), d.Name())
				dev, eventCh = d, make(chan RawEvent, 1)
				go s.poll(ctx, dev, eventCh)
			}
			if dev == nil {
				detectTimer = time.After(DetectInterval)
			}
		case ev, ok := <-eventCh:
			if !ok {
				glog.Warningf("joystick %d lost", dev.Index())
				dev.Close()
				dev, eventCh = nil, nil
				detectTimer = time.After(DetectInterval)
				continue
			}
			for _, e := range s.Mapping.Translate(ev) {
				loopCtl.PostMessage(&input.Event{Key: e.Key, Type: e.Type})
			}
		}
	}
}

func (s *Source) poll(ctx context.Context, dev Device, ch chan<- RawEvent) {
	defer close(ch)
	for {
		ev, err := dev.ReadEvent()
		if err != nil {
			glog.V(2).Infof("joystick read: %v", err)
			return
		}
		if s.Verbose {
			glog.Infof("joystick kind=%d number=%d value=%d init=%v", ev.Kind, ev.Number, ev.Value, ev.Init)
		}
		select {
		case ch <- ev:
		case <-ctx.Done():
			return
		}
	}
}
