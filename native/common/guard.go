package common

import "errors"

// ErrProtocolPaused is returned when a paused protocol rejects an operation.
var ErrProtocolPaused = errors.New("protocol paused")

// PauseView reports whether the protocol currently rejects mutating flows.
type PauseView interface {
	IsPaused() bool
}

// Guard rejects the operation when the supplied view reports a paused
// protocol. A nil view never blocks.
func Guard(p PauseView) error {
	if p == nil {
		return nil
	}
	if p.IsPaused() {
		return ErrProtocolPaused
	}
	return nil
}
