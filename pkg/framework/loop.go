package framework

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Defaults of Loop.
const (
	DefaultInterval  = 100 * time.Millisecond
	DefaultQueueSize = 8
)

// Loop is a single consumer event loop. Each iteration waits for at most
// one queued message (bounded by Interval), then runs all controllers by
// priority level.
type Loop struct {
	// Interval bounds the wait for a message in one iteration.
	Interval time.Duration
	// QueueSize is the capacity of the message queue.
	QueueSize int

	controllers [PriorityLevels][]Controller

	runners []Runnable
	closers []io.Closer

	initOnce sync.Once
	queue    chan Message
	stopCh   chan struct{}
	stopOnce sync.Once
	doneCh   chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopIteration struct {
	*Loop
	priorityLevel int
	messages      messageList
}

type messageList struct {
	head *messageItem
	tail *messageItem
}

type messageItem struct {
	msg  Message
	next *messageItem
}

func (l *messageList) append(item *messageItem) {
	if l.head == nil {
		l.head = item
	} else {
		l.tail.next = item
	}
	l.tail = item
}

func (l *messageList) splice(src *messageList) {
	l.head, l.tail, src.head, src.tail = src.head, src.tail, nil, nil
}

func (l *messageList) concat(lst *messageList) {
	if l.head == nil {
		l.head = lst.head
	} else {
		l.tail.next = lst.head
	}
	if lst.head != nil {
		l.tail = lst.tail
	}
}

type loopCtxKey struct{}

// LoopCtlFrom gets the LoopControl of the loop running a Runnable.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey{}).(LoopControl)
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval, QueueSize: DefaultQueueSize}
}

func (l *Loop) init() {
	l.initOnce.Do(func() {
		size := l.QueueSize
		if size <= 0 {
			size = DefaultQueueSize
		}
		l.queue = make(chan Message, size)
		l.stopCh = make(chan struct{})
		l.doneCh = make(chan struct{})
	})
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at a priority level. Controllers
// which are also Runnable are started with the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// AddCloser registers resources released when Run returns.
// They are closed in reverse order of registration.
func (l *Loop) AddCloser(closers ...io.Closer) *Loop {
	l.closers = append(l.closers, closers...)
	return l
}

// Run implements Runnable. It returns nil when stopped by Stop,
// otherwise the error of the context. A Loop runs only once.
func (l *Loop) Run(ctx context.Context) (err error) {
	l.init()

	runCtx, cancel := context.WithCancel(ctx)
	runner := NewRunnerWith(context.WithValue(runCtx, loopCtxKey{}, LoopControl(l)))
	runner.Go(l.runners...)
	defer func() {
		cancel()
		close(l.doneCh)
		var errs AggregatedError
		errs.Add(runner.Wait())
		errs.Add(l.release())
		if aggErr := errs.Aggregate(); aggErr != nil {
			glog.Errorf("loop shutdown: %v", aggErr)
		}
	}()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	for {
		iter := &loopIteration{Loop: l}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopCh:
			return nil
		case msg := <-l.queue:
			iter.messages.append(&messageItem{msg: msg})
		case <-timer.C:
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(interval)

		l.runIteration(iter)
		select {
		case <-l.stopCh:
			return nil
		default:
		}
	}
}

func (l *Loop) release() error {
	var errs AggregatedError
	for i := len(l.closers) - 1; i >= 0; i-- {
		errs.Add(l.closers[i].Close())
	}
	return errs.Aggregate()
}

// PostMessage implements LoopControl. It blocks while the queue is full
// and drops the message once the loop has exited.
// Controllers must use MessageStore.AddMessages instead.
func (l *Loop) PostMessage(msg Message) {
	l.init()
	select {
	case l.queue <- msg:
	case <-l.doneCh:
		glog.V(4).Info("loop exited, message dropped")
	}
}

// Stop implements LoopControl.
func (l *Loop) Stop() {
	l.init()
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	l.init()
	return l.doneCh
}

func (l *Loop) runIteration(iter *loopIteration) {
	for i, ctls := range l.controllers {
		iter.priorityLevel = i
		for _, ctl := range ctls {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
	if iter.messages.head != nil {
		glog.V(4).Info("untaken messages dropped")
	}
}

func (t *loopIteration) PriorityLevel() int {
	return t.priorityLevel
}

func (t *loopIteration) Messages() MessageStore {
	return t
}

// MessageStore implementations

type messageContext struct {
	iter  *loopIteration
	item  *messageItem
	taken bool
	stop  bool
}

func (c *messageContext) CurrentMessage() Message     { return c.item.msg }
func (c *messageContext) MessageTaken()               { c.taken = true }
func (c *messageContext) StopProcessing()             { c.stop = true }
func (c *messageContext) AddMessages(msgs ...Message) { c.iter.AddMessages(msgs...) }

func (t *loopIteration) ProcessMessages(proc MessageProcessor) {
	var msgs, remains messageList
	msgs.splice(&t.messages)
	for msgs.head != nil {
		mctx := &messageContext{iter: t, item: msgs.head}
		msgs.head = msgs.head.next
		mctx.item.next = nil
		proc.ProcessMessage(mctx)
		if !mctx.taken {
			remains.append(mctx.item)
		}
		if mctx.stop {
			remains.concat(&msgs)
			break
		}
	}
	remains.concat(&t.messages)
	t.messages = remains
}

func (t *loopIteration) AddMessages(msgs ...Message) {
	for _, msg := range msgs {
		t.messages.append(&messageItem{msg: msg})
	}
}
