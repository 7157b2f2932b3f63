package mqtt

import (
	"context"
	"io"
	"sync"

	"github.com/robotalks/analyzer.go/pkg/telemetry"
)

// ReadWriter implements telemetry.PacketReadWriter over two topics.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh chan []byte
	doneCh   chan struct{}
	doneOnce sync.Once
}

// NewReadWriter creates a ReadWriter.
func NewReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		packetCh: make(chan []byte, 8),
		doneCh:   make(chan struct{}),
	}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForAnalyzer reads keys and writes messages of ref.
func (p *ReadWriter) ForAnalyzer(ref telemetry.Ref) *ReadWriter {
	return p.WithTopics(ref.Topic(telemetry.TopicKeys), ref.Topic(telemetry.TopicMsg))
}

// ForRemote reads messages and writes keys of ref.
func (p *ReadWriter) ForRemote(ref telemetry.Ref) *ReadWriter {
	return p.WithTopics(ref.Topic(telemetry.TopicMsg), ref.Topic(telemetry.TopicKeys))
}

// ReadPacket implements PacketReader. It returns io.EOF after Run exits.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.doneCh:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Run implements Runnable. It subscribes SubTopic until ctx is done.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.SubTopic, p.handleMsg)
	defer sub.Close()
	defer p.doneOnce.Do(func() { close(p.doneCh) })
	<-ctx.Done()
	return ctx.Err()
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.doneCh:
	}
}
