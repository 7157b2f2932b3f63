package link

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testCodeRead   byte = 0x04
	testCodeFail   byte = 0x06
	testCodeIgnore byte = 0x08
)

type sessionTestEnv struct {
	session *Session
	peer    *Link
	cancel  context.CancelFunc
}

func newSessionTestEnv(t *testing.T) *sessionTestEnv {
	host, dev := net.Pipe()
	env := &sessionTestEnv{
		session: NewSession(New(host)),
		peer:    New(dev),
	}
	env.peer.Handler = HandleFrameFunc(func(ctx context.Context, f *Frame) {
		switch f.Code {
		case testCodeRead:
			env.peer.Reply(f, f.Code, 0x34, 0x12)
		case testCodeFail:
			env.peer.Reply(f, f.Code|ErrorBit)
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	env.cancel = cancel
	go env.session.Run(ctx)
	go env.peer.Run(ctx)
	t.Cleanup(func() {
		cancel()
		host.Close()
		dev.Close()
	})

	waitCtx, waitCancel := context.WithTimeout(ctx, 2*time.Second)
	defer waitCancel()
	require.NoError(t, env.session.WaitReady(waitCtx))
	require.Eventually(t, func() bool { return env.peer.State().IsReady() }, 2*time.Second, time.Millisecond)
	return env
}

func (e *sessionTestEnv) call(t *testing.T, code byte) (Reply, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return e.session.Call(ctx, code)
}

func TestSessionReply(t *testing.T) {
	env := newSessionTestEnv(t)
	r, err := env.call(t, testCodeRead)
	require.NoError(t, err)
	require.Equal(t, testCodeRead, r.Code)
	require.Equal(t, []byte{0x34, 0x12}, r.Payload)

	r, err = env.call(t, testCodeRead)
	require.NoError(t, err)
	require.Equal(t, []byte{0x34, 0x12}, r.Payload)
}

func TestSessionCommandError(t *testing.T) {
	env := newSessionTestEnv(t)
	_, err := env.call(t, testCodeFail)
	require.Equal(t, &CommandError{Code: testCodeFail}, err)
}

func TestSessionSkippedCommand(t *testing.T) {
	env := newSessionTestEnv(t)
	skipped := env.session.Do(testCodeIgnore)
	_, err := env.call(t, testCodeRead)
	require.NoError(t, err)
	select {
	case r := <-skipped.ReplyChan():
		require.Equal(t, ErrNoReply, r.Err)
	case <-time.After(time.Second):
		t.Fatal("skipped command not failed")
	}
}

func TestSessionEvent(t *testing.T) {
	env := newSessionTestEnv(t)
	require.NoError(t, env.peer.Send(&Frame{Code: EventBit | 0x02, Payload: []byte{1}}))
	select {
	case f := <-env.session.EventChan():
		require.True(t, f.IsEvent())
		require.Equal(t, EventBit|0x02, f.Code)
		require.Equal(t, []byte{1}, f.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestSessionNotReady(t *testing.T) {
	host, dev := net.Pipe()
	defer host.Close()
	defer dev.Close()
	s := NewSession(New(host))
	r := <-s.Do(testCodeRead).ReplyChan()
	require.Equal(t, ErrNotReady, r.Err)
}
