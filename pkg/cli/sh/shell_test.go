package sh

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/analyzer.go/pkg/input"
	"github.com/robotalks/analyzer.go/pkg/telemetry"
	"github.com/robotalks/analyzer.go/pkg/telemetry/msgs"
)

type fakeConn struct {
	keys   []input.Key
	msgCh  chan *msgs.Measurement
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{msgCh: make(chan *msgs.Measurement, 1)}
}

func (c *fakeConn) Press(key input.Key) error {
	c.keys = append(c.keys, key)
	return nil
}

func (c *fakeConn) Measurements() <-chan *msgs.Measurement { return c.msgCh }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func newTestShell(conn Conn, dialErr error) *Shell {
	s := &Shell{WatchTimeout: 50 * time.Millisecond}
	s.dial = func(telemetry.Ref) (Conn, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return conn, nil
	}
	return s
}

func TestFormatInfo(t *testing.T) {
	ref := telemetry.Ref{Type: "analyzer", ID: "a1"}
	require.Equal(t, "analyzer/a1", FormatInfo(telemetry.Info{Ref: ref}))
	require.Equal(t, "analyzer/a1: bench", FormatInfo(telemetry.Info{Ref: ref, Meta: telemetry.Meta{Description: "bench"}}))
}

func TestFormatMeasurement(t *testing.T) {
	ts := time.Date(2020, 1, 2, 3, 4, 5, 6000000, time.Local).UnixNano()
	testCases := []struct {
		msg    msgs.Measurement
		expect string
	}{
		{msgs.Measurement{Mode: 0, ModeName: "Voltage", Voltage: 1.5, UnixNano: ts}, "03:04:05.006 Voltage: 1.500 V"},
		{msgs.Measurement{Mode: 1, ModeName: "Resistance", Resistance: 4700, UnixNano: ts}, "03:04:05.006 Resistance: 4.70 kOhm"},
		{msgs.Measurement{Mode: 2, ModeName: "Diode Test", UnixNano: ts}, "03:04:05.006 Diode Test"},
	}
	for _, tc := range testCases {
		t.Run(tc.msg.ModeName, func(t *testing.T) {
			require.Equal(t, tc.expect, FormatMeasurement(&tc.msg))
		})
	}
}

func TestShellRequiresConnection(t *testing.T) {
	s := newTestShell(nil, errors.New("unreachable"))
	require.Error(t, s.Press(input.KeyOk))
	_, err := s.Watch(time.Millisecond)
	require.Error(t, err)
	require.Error(t, s.Connect(telemetry.Ref{Type: "analyzer", ID: "a1"}))
	require.Nil(t, s.Conn)
}

func TestShellPressAndWatch(t *testing.T) {
	conn := newFakeConn()
	s := newTestShell(conn, nil)
	ref := telemetry.Ref{Type: "analyzer", ID: "a1"}
	require.NoError(t, s.Connect(ref))
	require.Equal(t, ref, s.Ref)

	require.NoError(t, s.Press(input.KeyRight))
	require.NoError(t, s.Press(input.KeyOk))
	require.Equal(t, []input.Key{input.KeyRight, input.KeyOk}, conn.keys)

	conn.msgCh <- &msgs.Measurement{Mode: 1, Resistance: 100}
	m, err := s.Watch(time.Second)
	require.NoError(t, err)
	require.Equal(t, 100.0, m.Resistance)
	_, err = s.Watch(10 * time.Millisecond)
	require.Error(t, err)

	s.Disconnect()
	require.True(t, conn.closed)
	require.Nil(t, s.Conn)
}

func TestShellReconnectClosesPrevious(t *testing.T) {
	first := newFakeConn()
	s := newTestShell(first, nil)
	require.NoError(t, s.Connect(telemetry.Ref{Type: "analyzer", ID: "a1"}))
	second := newFakeConn()
	s.dial = func(telemetry.Ref) (Conn, error) { return second, nil }
	require.NoError(t, s.Connect(telemetry.Ref{Type: "analyzer", ID: "a2"}))
	require.True(t, first.closed)
	require.False(t, second.closed)
	require.Equal(t, "a2", s.Ref.ID)
}
