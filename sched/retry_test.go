package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nadavyigal/Running-coach--sub004/errors"
)

func TestIsTerminalTaggedErrors(t *testing.T) {
	assert.True(t, IsTerminal(ErrDeviceNotFound))
	assert.True(t, IsTerminal(ErrDeviceNotConnected))
	assert.True(t, IsTerminal(ErrUnsupportedDeviceType))
	assert.True(t, IsTerminal(Terminal("vendor account revoked")))
}

func TestIsTerminalWrappedError(t *testing.T) {
	wrapped := errors.Wrap(ErrDeviceNotConnected, "sync aborted")
	assert.True(t, IsTerminal(wrapped), "tagged terminal errors survive wrapping")
}

func TestIsTerminalLegacyMessageMatch(t *testing.T) {
	// Errors from outside the scheduler arrive as plain strings. The
	// known terminal messages match by exact text only.
	assert.True(t, IsTerminal(errors.New("Device not found")))
	assert.True(t, IsTerminal(errors.New("Device not connected")))
	assert.True(t, IsTerminal(errors.New("Unsupported device type")))

	assert.False(t, IsTerminal(errors.New("device not found")), "case differs")
	assert.False(t, IsTerminal(errors.New("Device not found in region")), "substring is not enough")
}

func TestIsTerminalRetryableErrors(t *testing.T) {
	assert.False(t, IsTerminal(nil))
	assert.False(t, IsTerminal(errors.New("provider timeout")))
	assert.False(t, IsTerminal(errors.New("connection reset by peer")))
}

func TestBackoffDoubles(t *testing.T) {
	// The scheduler keys the backoff to the incremented retry count, so
	// the first retry waits backoffFor(1).
	assert.Equal(t, 2*time.Minute, backoffFor(1))
	assert.Equal(t, 4*time.Minute, backoffFor(2))
	assert.Equal(t, 8*time.Minute, backoffFor(3))

	for rc := 0; rc < 5; rc++ {
		assert.Less(t, backoffFor(rc), backoffFor(rc+1), "backoff grows with each retry")
	}
}
