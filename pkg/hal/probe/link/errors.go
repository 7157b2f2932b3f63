package link

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady indicates the link is not synchronized yet.
	ErrNotReady = errors.New("link not ready")
	// ErrNoReply indicates the peer skipped a command. When a reply for a
	// later command arrives, every earlier pending command fails with it.
	ErrNoReply = errors.New("no reply")
	// ErrPayloadTooLarge indicates a frame payload beyond MaxPayload.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// CommandError is a failure code replied by the peer.
type CommandError struct {
	Code byte
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command error %#x", e.Code)
}
