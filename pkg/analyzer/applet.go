// Package analyzer is the component analyzer applet: the screen state,
// the key dispatcher, the measurements and the renderer.
package analyzer

import (
	"github.com/golang/glog"

	"github.com/robotalks/analyzer.go/pkg/display"
	fx "github.com/robotalks/analyzer.go/pkg/framework"
	"github.com/robotalks/analyzer.go/pkg/input"
)

// Flusher is a Canvas which must be flushed to become visible.
type Flusher interface {
	Display() error
}

// Applet wires the Dispatcher and the renderer into a loop.
type Applet struct {
	State      *State
	Dispatcher *Dispatcher
	Canvas     display.Canvas
}

// NewApplet creates an Applet in its initial state. Unless set, the
// dispatcher redraws through the applet while measuring.
func NewApplet(d *Dispatcher, c display.Canvas) *Applet {
	a := &Applet{State: NewState(), Dispatcher: d, Canvas: c}
	if d.Redraw == nil {
		d.Redraw = a.Draw
	}
	return a
}

// AddToLoop implements LoopAdder.
func (a *Applet) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvControl, fx.ControlFunc(a.dispatch))
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(a.redraw))
}

// Draw renders s and flushes the canvas.
func (a *Applet) Draw(s State) {
	Render(s, a.Canvas)
	if f, ok := a.Canvas.(Flusher); ok {
		if err := f.Display(); err != nil {
			glog.Errorf("display: %v", err)
		}
	}
}

func (a *Applet) dispatch(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		ev, ok := mctx.CurrentMessage().(*input.Event)
		if !ok {
			return
		}
		mctx.MessageTaken()
		glog.V(4).Infof("key %s", ev)
		if a.Dispatcher.HandleInput(*ev, a.State) == ActionExit {
			glog.V(2).Info("exit requested")
			mctx.StopProcessing()
			cc.Stop()
		}
	}))
	return nil
}

func (a *Applet) redraw(cc fx.ControlContext) error {
	a.Draw(*a.State)
	return nil
}
