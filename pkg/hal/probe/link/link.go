package link

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"
)

// FrameHandler is called from Link.Run for each received frame.
type FrameHandler interface {
	HandleFrame(context.Context, *Frame)
}

// HandleFrameFunc is func type of FrameHandler.
type HandleFrameFunc func(context.Context, *Frame)

// HandleFrame implements FrameHandler.
func (f HandleFrameFunc) HandleFrame(ctx context.Context, frame *Frame) {
	f(ctx, frame)
}

// StateNotifier is called from Link.Run when the sync state changes.
type StateNotifier interface {
	StateChanged(context.Context, State)
}

// StateChangedFunc is func type of StateNotifier.
type StateChangedFunc func(context.Context, State)

// StateChanged implements StateNotifier.
func (f StateChangedFunc) StateChanged(ctx context.Context, state State) {
	f(ctx, state)
}

// DefaultTimeout is the default stall timeout.
const DefaultTimeout = 100 * time.Millisecond

// Link exchanges frames with a peer over a byte stream.
type Link struct {
	Port     io.ReadWriter
	Handler  FrameHandler
	Notifier StateNotifier
	// Timeout is how long a sync or a partial frame may stall before a
	// resync is requested.
	Timeout time.Duration

	state State
	lock  sync.RWMutex

	// seq is only touched with writeLock held.
	seq       Seq
	writeLock sync.Mutex

	stallTimer <-chan time.Time
	decoder    Decoder
}

// New creates a Link over port.
func New(port io.ReadWriter) *Link {
	return &Link{Port: port, Timeout: DefaultTimeout, seq: NewSeq()}
}

// State returns the current sync state. It never waits on the port.
func (l *Link) State() State {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.state
}

// Send assigns the next sequence number to f and writes it.
func (l *Link) Send(f *Frame) error {
	if !l.State().IsReady() {
		return ErrNotReady
	}
	l.writeLock.Lock()
	defer l.writeLock.Unlock()
	if !l.State().IsReady() {
		return ErrNotReady
	}
	f.Seq = l.seq
	if _, err := f.WriteTo(l.Port); err != nil {
		return err
	}
	l.seq = l.seq.Next()
	return nil
}

// Reply answers the request frame req with code and payload.
// The request sequence number is prepended to the payload.
func (l *Link) Reply(req *Frame, code byte, payload ...byte) error {
	return l.Send(&Frame{
		Code:    code &^ EventBit,
		Payload: append([]byte{byte(req.Seq)}, payload...),
	})
}

// Run reads from the port and drives the decoder until ctx is done or
// the port fails.
func (l *Link) Run(ctx context.Context) error {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	byteCh, errCh := make(chan byte, 256), make(chan error, 1)
	// read before the first write, both peers request sync at once
	go l.readLoop(readCtx, byteCh, errCh)

	if err := l.apply(ctx, l.decoder.Reset()); err != nil {
		return err
	}

	for {
		var step Step
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case b := <-byteCh:
			step = l.decoder.Feed(b)
		case <-l.stallTimer:
			glog.V(4).Info("link stalled, resync")
			step = l.decoder.Stalled()
		}
		if err := l.apply(ctx, step); err != nil {
			return err
		}
	}
}

// readLoop tolerates ports configured with a read timeout: an empty read
// or a timeout error only re-checks ctx.
func (l *Link) readLoop(ctx context.Context, byteCh chan<- byte, errCh chan<- error) {
	buf := make([]byte, 1)
	for {
		n, err := l.Port.Read(buf)
		if err != nil && !os.IsTimeout(err) {
			errCh <- err
			return
		}
		if n > 0 {
			select {
			case byteCh <- buf[0]:
			case <-ctx.Done():
				return
			}
			continue
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (l *Link) apply(ctx context.Context, step Step) (err error) {
	var notifier StateNotifier
	l.lock.Lock()
	if l.state != step.State {
		l.state = step.State
		notifier = l.Notifier
	}
	l.lock.Unlock()
	if step.Sync != 0 {
		l.writeLock.Lock()
		_, err = l.Port.Write([]byte{step.Sync, byte(l.seq)})
		l.writeLock.Unlock()
		if err != nil {
			return
		}
	}

	switch step.Timer() {
	case TimerRestart:
		l.stallTimer = time.After(l.Timeout)
	case TimerStop:
		l.stallTimer = nil
	}

	if notifier != nil {
		glog.V(2).Infof("link state %#x", int(step.State))
		notifier.StateChanged(ctx, step.State)
	}
	if step.Frame != nil && l.Handler != nil {
		l.Handler.HandleFrame(ctx, step.Frame)
	}
	return
}
