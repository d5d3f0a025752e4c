package voice

import (
	"context"
	"errors"
)

// ErrSynthesis wraps any failure to obtain audio from the remote voice
// API: network errors and non-success responses alike. Nothing is
// retried; the caller sees the raw failure.
var ErrSynthesis = errors.New("voice synthesis failed")

// Synthesizer converts text to audio bytes. Ownership of the bytes
// passes to the caller, which decides where (and whether) to stage them
// on disk.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	IsAvailable() bool
}
