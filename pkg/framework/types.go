package framework

import "context"

// Named is implemented by things with a name.
type Named interface {
	Name() string
}

// Runnable is a background task bound to a context.
type Runnable interface {
	Run(context.Context) error
}

// RunnableFunc is the func form of Runnable.
type RunnableFunc func(context.Context) error

// Run implements Runnable.
func (f RunnableFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Message is consumed by controllers in the loop.
type Message interface {
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
}

// Controller runs once per iteration at its priority level.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// ControlContext is what a controller sees of the current iteration.
type ControlContext interface {
	// PriorityLevel is the level being run.
	PriorityLevel() int
	// Messages holds the message received in this iteration and those
	// added by controllers so far.
	Messages() MessageStore

	LoopControl
}

// PriorityLevels is the number of priority levels, 0 runs first.
const PriorityLevels int = 16

// Priority levels used by the analyzer.
const (
	PrLvInput    int = 4
	PrLvControl  int = 8
	PrLvPostProc int = PriorityLevels - 2
	PrLvIdle     int = PriorityLevels - 1
)

// LoopControl is the access to a running loop.
type LoopControl interface {
	// PostMessage enqueues the message, blocking while the queue is full.
	PostMessage(Message)
	// Stop terminates the loop once the current iteration completes.
	Stop()
}

// MessageStore is the list of messages of one iteration.
type MessageStore interface {
	// ProcessMessages visits the messages in order.
	ProcessMessages(MessageProcessor)

	MessageAppender
}

// MessageAppender appends messages.
type MessageAppender interface {
	// AddMessages appends messages for the controllers still to run in
	// this iteration. Messages nobody takes are dropped when the
	// iteration ends.
	AddMessages(msgs ...Message)
}

// MessageProcessor visits messages of a MessageStore.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext is the message being visited.
type MessageProcessingContext interface {
	CurrentMessage() Message
	// MessageTaken removes the message from the store.
	MessageTaken()
	// StopProcessing skips the remaining messages.
	StopProcessing()

	MessageAppender
}
