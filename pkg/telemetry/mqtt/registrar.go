package mqtt

import (
	"context"
	"encoding/json"

	"github.com/golang/glog"

	"github.com/robotalks/analyzer.go/pkg/telemetry"
)

// Registrar announces an analyzer on the broker: retained meta while
// connected, cleared on exit or by the will when the connection drops.
type Registrar struct {
	Queue *Queue
	Info  telemetry.Info

	meta []byte
	rw   *ReadWriter
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info telemetry.Info) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	metaTopic := info.Ref.Topic(telemetry.TopicMeta)
	opts.SetBinaryWill(topicPrefix+metaTopic, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("analyzer:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue: NewQueue(opts, topicPrefix),
		Info:  info,
		meta:  meta,
	}
	r.Queue.OnConnect = func(q *Queue) {
		q.PubWith(metaTopic, r.meta, 1, true)
	}
	r.rw = NewReadWriter(r.Queue).ForAnalyzer(info.Ref)
	return r, nil
}

// ReadWriter returns the packet transport of the analyzer.
func (r *Registrar) ReadWriter() *ReadWriter {
	return r.rw
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	if token := r.Queue.Connect(); token.Wait() && token.Error() != nil {
		// the analyzer keeps working offline
		glog.Errorf("mqtt connect: %v", token.Error())
	}
	<-ctx.Done()
	r.Queue.PubWith(r.Info.Ref.Topic(telemetry.TopicMeta), nil, 1, true).Wait()
	r.Queue.Close()
	return nil
}
