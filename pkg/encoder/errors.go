package encoder

import (
	"errors"
	"fmt"
)

// ErrNoDivision means no division count up to the maximum produced an
// allowed decomposition for a byte, even after one carry attempt.
var ErrNoDivision = errors.New("no workable division count")

// DivisionMismatchError reports that a byte is encodable, but only at a
// larger division count than the one currently assumed for the chunk. It is
// internal control flow: EncodeChunk catches it and restarts the chunk at the
// reported count.
type DivisionMismatchError struct {
	Div int
}

func (e *DivisionMismatchError) Error() string {
	return fmt.Sprintf("byte requires division count %d", e.Div)
}

// EncodingError is the terminal per-chunk failure: some byte of the chunk's
// complement has no allowed decomposition within the division bound.
type EncodingError struct {
	Value uint32
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %#010x within the division bound", e.Value)
}

func (e *EncodingError) Unwrap() error {
	return ErrNoDivision
}
