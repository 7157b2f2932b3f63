package telemetry

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/analyzer.go/pkg/framework"
	"github.com/robotalks/analyzer.go/pkg/telemetry/msgs"
)

// MessageHandler handles a decoded message.
type MessageHandler func(context.Context, fx.Message, *msgs.Typed) error

// Pipe sends and receives typed messages over a PacketReadWriter.
type Pipe struct {
	ReadWriter PacketReadWriter
	Handler    MessageHandler

	sendLock sync.Mutex
}

// NewPipe creates a Pipe.
func NewPipe(rw PacketReadWriter) *Pipe {
	return &Pipe{ReadWriter: rw}
}

// Send encodes and writes msg.
func (p *Pipe) Send(msg fx.Message) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	return p.ReadWriter.WritePacket(pkt)
}

// Run implements Runnable. Undecodable packets are skipped. A closable
// transport is closed when ctx is done to unblock the read.
func (p *Pipe) Run(ctx context.Context) error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, func() error { return p.receive(ctx) })
	}
	return fx.RunWithContext(ctx, func() error { return p.receive(ctx) })
}

func (p *Pipe) receive(ctx context.Context) error {
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		typed, err := msgs.DecodeTyped(pkt)
		if err != nil {
			glog.V(2).Infof("bad packet: %v", err)
			continue
		}
		msg, err := typed.Decode()
		if err != nil {
			glog.V(2).Infof("drop message: %v", err)
			continue
		}
		if h := p.Handler; h != nil {
			if err = h(ctx, msg, typed); err != nil {
				return err
			}
		}
	}
}
