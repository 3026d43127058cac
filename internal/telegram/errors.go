package telegram

import (
	"errors"
	"fmt"
	"time"

	"github.com/gotd/td/tgerr"
)

// Channel-level failures. Both are permanent for the channel: the caller
// abandons it and moves on, never retries.
var (
	// ErrChannelNotFound indicates the handle does not resolve to a public
	// broadcast channel.
	ErrChannelNotFound = errors.New("telegram: channel not found")

	// ErrForbidden indicates the channel is private or requires admin rights.
	ErrForbidden = errors.New("telegram: channel is private or requires admin rights")
)

// FloodWaitError is the transient rate-limit outcome. The caller must pause
// for at least Wait before issuing further calls through this client; the
// client itself never retries.
type FloodWaitError struct {
	Wait time.Duration
}

func (e *FloodWaitError) Error() string {
	return fmt.Sprintf("telegram: rate limited, wait %s", e.Wait)
}

// AsFloodWait reports whether err is a rate-limit condition and how long to
// wait before resuming.
func AsFloodWait(err error) (time.Duration, bool) {
	var fw *FloodWaitError
	if errors.As(err, &fw) {
		return fw.Wait, true
	}
	return 0, false
}

// IsForbidden reports whether err means the channel must be abandoned.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFound reports whether err means the handle did not resolve.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrChannelNotFound)
}

// classify translates an MTProto error into the client's fault taxonomy.
// Anything unrecognized passes through unchanged as a permanent-per-item
// fault for the caller to record and skip.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if d, ok := tgerr.AsFloodWait(err); ok {
		return &FloodWaitError{Wait: d}
	}
	if tgerr.Is(err, "CHANNEL_PRIVATE", "CHAT_ADMIN_REQUIRED") {
		return fmt.Errorf("%w: %s", ErrForbidden, err)
	}
	if tgerr.Is(err, "USERNAME_NOT_OCCUPIED", "USERNAME_INVALID") {
		return fmt.Errorf("%w: %s", ErrChannelNotFound, err)
	}
	return err
}
