// Package feedback signals the progress of a measurement to the user.
package feedback

import (
	"io"
	"sync"

	"github.com/golang/glog"
)

// Log writes measurement progress to the log.
type Log struct{}

// MeasurementStarted implements analyzer.Feedback.
func (Log) MeasurementStarted() {
	glog.Info("measurement started")
}

// MeasurementSucceeded implements analyzer.Feedback.
func (Log) MeasurementSucceeded() {
	glog.Info("measurement succeeded")
}

// Bell rings the terminal bell on success.
type Bell struct {
	Writer io.Writer

	lock sync.Mutex
}

// NewBell creates a Bell.
func NewBell(w io.Writer) *Bell {
	return &Bell{Writer: w}
}

// MeasurementStarted implements analyzer.Feedback.
func (b *Bell) MeasurementStarted() {}

// MeasurementSucceeded implements analyzer.Feedback.
func (b *Bell) MeasurementSucceeded() {
	b.lock.Lock()
	defer b.lock.Unlock()
	if _, err := b.Writer.Write([]byte{'\a'}); err != nil {
		glog.V(2).Infof("bell: %v", err)
	}
}

// Signal is the feedback contract, see analyzer.Feedback.
type Signal interface {
	MeasurementStarted()
	MeasurementSucceeded()
}

// Multi fans out to multiple feedbacks in order.
type Multi []Signal

// MeasurementStarted implements analyzer.Feedback.
func (m Multi) MeasurementStarted() {
	for _, f := range m {
		f.MeasurementStarted()
	}
}

// MeasurementSucceeded implements analyzer.Feedback.
func (m Multi) MeasurementSucceeded() {
	for _, f := range m {
		f.MeasurementSucceeded()
	}
}
