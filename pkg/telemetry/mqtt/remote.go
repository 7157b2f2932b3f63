package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/analyzer.go/pkg/framework"
	"github.com/robotalks/analyzer.go/pkg/input"
	"github.com/robotalks/analyzer.go/pkg/telemetry"
	"github.com/robotalks/analyzer.go/pkg/telemetry/msgs"
)

// DefaultDiscoverTimeout is how long Discover collects announcements.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Discover lists the analyzers announced on the broker.
func Discover(ctx context.Context, brokerURL string, timeout time.Duration) ([]telemetry.Info, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	defer q.Close()

	infoCh := make(chan telemetry.Info, 1)
	sub := q.Sub("+/+/"+telemetry.TopicMeta, func(topic string, payload []byte) {
		levels := strings.Split(topic, "/")
		if len(levels) != 3 || len(payload) == 0 {
			return
		}
		info := telemetry.Info{Ref: telemetry.Ref{Type: levels[0], ID: levels[1]}}
		if err := json.Unmarshal(payload, &info.Meta); err != nil {
			glog.V(2).Infof("%s: bad meta: %v", topic, err)
		}
		select {
		case infoCh <- info:
		case <-time.After(time.Second):
		}
	})
	defer sub.Close()

	if timeout <= 0 {
		timeout = DefaultDiscoverTimeout
	}
	expire := time.After(timeout)
	var found []telemetry.Info
	for {
		select {
		case info := <-infoCh:
			found = append(found, info)
		case <-expire:
			return found, nil
		case <-ctx.Done():
			return found, ctx.Err()
		}
	}
}

// Remote controls an analyzer over the broker.
type Remote struct {
	Ref   telemetry.Ref
	Queue *Queue

	pipe   *telemetry.Pipe
	rw     *ReadWriter
	msgCh  chan *msgs.Measurement
	cancel context.CancelFunc
	runner *fx.Runner
}

// Dial connects to the broker and attaches to the analyzer ref.
func Dial(brokerURL string, ref telemetry.Ref) (*Remote, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	r := &Remote{
		Ref:   ref,
		Queue: q,
		rw:    NewReadWriter(q).ForRemote(ref),
		msgCh: make(chan *msgs.Measurement, 8),
	}
	r.pipe = telemetry.NewPipe(r.rw)
	r.pipe.Handler = r.handleMessage

	var ctx context.Context
	ctx, r.cancel = context.WithCancel(context.Background())
	r.runner = fx.NewRunnerWith(ctx).Go(r.rw, r.pipe)
	return r, nil
}

// Press presses key on the analyzer.
func (r *Remote) Press(key input.Key) error {
	return r.pipe.Send(&msgs.KeyPress{Key: uint32(key)})
}

// Measurements delivers the published measurements.
func (r *Remote) Measurements() <-chan *msgs.Measurement {
	return r.msgCh
}

// Close detaches and disconnects.
func (r *Remote) Close() error {
	r.cancel()
	err := r.runner.Wait()
	r.Queue.Close()
	return err
}

func (r *Remote) handleMessage(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if m, ok := msg.(*msgs.Measurement); ok {
		select {
		case r.msgCh <- m:
		default:
			glog.V(2).Info("measurement not consumed, dropped")
		}
	}
	return nil
}
