package probe

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/analyzer.go/pkg/hal/probe/link"
)

type fakeProbe struct {
	link *link.Link
	raw  uint16

	lock     sync.Mutex
	commands []byte
}

func (p *fakeProbe) HandleFrame(ctx context.Context, f *link.Frame) {
	p.lock.Lock()
	p.commands = append(p.commands, f.Code)
	p.lock.Unlock()
	switch f.Code {
	case CmdEnable, CmdDisable:
		p.link.Reply(f, f.Code)
	case CmdRead:
		p.link.Reply(f, f.Code, byte(p.raw), byte(p.raw>>8))
	default:
		p.link.Reply(f, f.Code|link.ErrorBit)
	}
}

func (p *fakeProbe) received() []byte {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]byte(nil), p.commands...)
}

func newTestADC(t *testing.T, raw uint16) (*ADC, *fakeProbe) {
	host, dev := net.Pipe()
	adc := New(host)
	adc.Timeout = time.Second
	probe := &fakeProbe{link: link.New(dev), raw: raw}
	probe.link.Handler = probe

	ctx, cancel := context.WithCancel(context.Background())
	go adc.Run(ctx)
	go probe.link.Run(ctx)
	t.Cleanup(func() {
		cancel()
		host.Close()
		dev.Close()
	})

	waitCtx, waitCancel := context.WithTimeout(ctx, 2*time.Second)
	defer waitCancel()
	require.NoError(t, adc.Session().WaitReady(waitCtx))
	require.Eventually(t, func() bool { return probe.link.State().IsReady() }, 2*time.Second, time.Millisecond)
	return adc, probe
}

func TestADCReadCycle(t *testing.T) {
	adc, probe := newTestADC(t, 2048)
	adc.Enable()
	require.Equal(t, uint16(2048), adc.Read())
	adc.Disable()
	require.Equal(t, []byte{CmdEnable, CmdRead, CmdDisable}, probe.received())
}

func TestADCReadFailureIsZero(t *testing.T) {
	host, dev := net.Pipe()
	defer host.Close()
	defer dev.Close()
	adc := New(host)
	adc.Timeout = 10 * time.Millisecond
	// never synchronized
	require.Equal(t, uint16(0), adc.Read())
	require.NoError(t, adc.Close())
}

func TestConfigDefaults(t *testing.T) {
	conf := NewConfig()
	require.Equal(t, 115200, conf.Baud)
	require.Equal(t, time.Second, conf.Timeout)
	conf.Baud = 9600
	require.Equal(t, 115200, Default().Baud)
}
