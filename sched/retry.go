package sched

import (
	"time"

	"github.com/nadavyigal/Running-coach--sub004/errors"
)

// Terminal error messages. Matched by exact text for errors produced
// outside this package, e.g. provider SDK errors surfaced as strings.
const (
	MsgDeviceNotFound        = "Device not found"
	MsgDeviceNotConnected    = "Device not connected"
	MsgUnsupportedDeviceType = "Unsupported device type"
)

// TerminalError marks a failure that retrying cannot fix. Jobs failing
// with a terminal error go straight to failed, skipping the retry budget.
type TerminalError struct {
	msg string
}

func (e *TerminalError) Error() string { return e.msg }

// Terminal wraps a message as a terminal failure.
func Terminal(msg string) error {
	return &TerminalError{msg: msg}
}

// Terminal failure sentinels for conditions detected during job execution.
var (
	ErrDeviceNotFound        = Terminal(MsgDeviceNotFound)
	ErrDeviceNotConnected    = Terminal(MsgDeviceNotConnected)
	ErrUnsupportedDeviceType = Terminal(MsgUnsupportedDeviceType)
)

// IsTerminal reports whether err is a non-retryable failure. Both tagged
// TerminalError values and the known terminal messages (exact match, for
// errors crossing a serialization boundary) qualify.
func IsTerminal(err error) bool {
	if err == nil {
		return false
	}

	var terminal *TerminalError
	if errors.As(err, &terminal) {
		return true
	}

	switch err.Error() {
	case MsgDeviceNotFound, MsgDeviceNotConnected, MsgUnsupportedDeviceType:
		return true
	}
	return false
}

// backoffFor returns the delay before the next attempt: 2^retryCount
// minutes, keyed to the retry count after the increment. The first retry
// waits 2 minutes, the second 4.
func backoffFor(retryCount int) time.Duration {
	return time.Duration(1<<uint(retryCount)) * time.Minute
}
