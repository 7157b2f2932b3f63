package link

import (
	"context"
	"sync"

	"github.com/golang/glog"
)

// Reply is the outcome of a command.
type Reply struct {
	Err     error
	Code    byte
	Payload []byte
}

// Request is a command waiting for its reply.
type Request struct {
	seq     Seq
	replyCh chan Reply
	next    *Request
}

// Seq returns the sequence number the command was sent with.
func (r *Request) Seq() Seq {
	return r.seq
}

// ReplyChan delivers exactly one Reply.
func (r *Request) ReplyChan() <-chan Reply {
	return r.replyCh
}

// Session issues commands over a Link and matches replies.
type Session struct {
	link    *Link
	eventCh chan *Frame
	stateCh chan State

	pendingHead *Request
	pendingTail *Request
	lock        sync.Mutex
}

// NewSession wraps l. It takes over the handler and notifier of l.
func NewSession(l *Link) *Session {
	s := &Session{
		link:    l,
		eventCh: make(chan *Frame, 8),
		stateCh: make(chan State, 1),
	}
	l.Handler = s
	l.Notifier = StateChangedFunc(s.stateChanged)
	return s
}

// Link returns the wrapped link.
func (s *Session) Link() *Link {
	return s.link
}

// StateChan delivers the latest sync state. Older states are dropped
// when nobody reads.
func (s *Session) StateChan() <-chan State {
	return s.stateCh
}

// EventChan delivers event frames.
func (s *Session) EventChan() <-chan *Frame {
	return s.eventCh
}

// WaitReady blocks until the link is synchronized.
func (s *Session) WaitReady(ctx context.Context) error {
	for !s.link.State().IsReady() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stateCh:
		}
	}
	return nil
}

// Do sends a command and returns the pending Request.
func (s *Session) Do(code byte, payload ...byte) *Request {
	req := &Request{replyCh: make(chan Reply, 1)}
	f := &Frame{Code: code &^ EventBit, Payload: payload}

	s.lock.Lock()
	defer s.lock.Unlock()
	err := s.link.Send(f)
	req.seq = f.Seq
	if err != nil {
		req.replyCh <- Reply{Err: err}
		return req
	}
	if s.pendingHead == nil {
		s.pendingHead = req
	} else {
		s.pendingTail.next = req
	}
	s.pendingTail = req
	return req
}

// Call sends a command and waits for its reply.
func (s *Session) Call(ctx context.Context, code byte, payload ...byte) (Reply, error) {
	req := s.Do(code, payload...)
	select {
	case r := <-req.replyCh:
		return r, r.Err
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}

// HandleFrame implements FrameHandler.
func (s *Session) HandleFrame(ctx context.Context, f *Frame) {
	if f.IsEvent() {
		select {
		case s.eventCh <- f:
		default:
			glog.Warningf("link event %#x dropped", f.Code)
		}
		return
	}
	if len(f.Payload) == 0 {
		glog.V(2).Infof("reply %#x without request seq", f.Code)
		return
	}
	seq := Seq(f.Payload[0])
	if !seq.Valid() {
		return
	}

	s.lock.Lock()
	head, curr := s.pendingHead, s.pendingHead
	for ; curr != nil; curr = curr.next {
		if curr.seq == seq {
			if s.pendingHead = curr.next; s.pendingHead == nil {
				s.pendingTail = nil
			}
			curr.next = nil
			break
		}
	}
	s.lock.Unlock()
	if curr == nil {
		return
	}
	for ; head != curr; head = head.next {
		head.replyCh <- Reply{Err: ErrNoReply}
	}
	code := f.Code &^ (EventBit | ErrorBit)
	if f.Code&ErrorBit != 0 {
		curr.replyCh <- Reply{Err: &CommandError{Code: code}, Code: code}
		return
	}
	curr.replyCh <- Reply{Code: code, Payload: f.Payload[1:]}
}

// Run implements framework.Runnable.
func (s *Session) Run(ctx context.Context) error {
	return s.link.Run(ctx)
}

func (s *Session) stateChanged(ctx context.Context, state State) {
	for {
		select {
		case s.stateCh <- state:
			return
		default:
		}
		select {
		case <-s.stateCh:
		default:
		}
	}
}
