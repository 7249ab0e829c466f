package encoder

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// DefaultMaxDiv is the default bound on the number of operands per chunk.
const DefaultMaxDiv = 10

// Encoder encodes 32-bit words against a fixed byte set. It is read-only
// after construction and safe for concurrent use.
type Encoder struct {
	Good GoodByteSet

	// MaxDiv bounds the operand count per chunk; DefaultMaxDiv when zero.
	MaxDiv int

	// Initial is the register value the operands will be subtracted from.
	Initial uint32
}

func (e *Encoder) Validate() error {
	if err := e.Good.Validate(); err != nil {
		return fmt.Errorf("invalid encoder: %w", err)
	}
	if e.MaxDiv < 0 {
		return fmt.Errorf("invalid encoder: max divisions cannot be negative, got %d (zero selects the default)", e.MaxDiv)
	}
	return nil
}

func (e *Encoder) maxDiv() int {
	if e.MaxDiv > 0 {
		return e.MaxDiv
	}
	return DefaultMaxDiv
}

// ChunkResult is the ordered operand list for one chunk. Its length is the
// division count; subtracting every operand from the encoder's initial value
// (mod 2^32) yields the target word.
type ChunkResult []uint32

// EncodeChunk encodes one 32-bit word. It returns *EncodingError when some
// byte of the word's complement has no allowed decomposition within the
// division bound.
//
// The division count must be identical across all four byte positions.
// A single pass encodes the complement's bytes least-significant first,
// propagating borrow carries upward; whenever a byte turns out to need a
// larger count than assumed, the pass is abandoned and restarted with the
// raised count. Each restart strictly raises the count, so the loop finishes
// within the division bound. A carry borrowed past the most significant byte
// is absorbed by the mod 2^32 wraparound.
func (e *Encoder) EncodeChunk(target uint32) (ChunkResult, error) {
	var cb [4]byte
	binary.LittleEndian.PutUint32(cb[:], e.Initial-target)

	minDiv := 0
	for {
		carry := 0
		var decs [4][]byte
		restart := false

		for i := 0; i < 4; i++ {
			// Settle the borrow owed by this position. The borrow can
			// be 2 when the previous byte both wrapped and carried.
			v := int(cb[i]) - carry
			if v < 0 {
				v += 0x100
				carry = 1
			} else {
				carry = 0
			}

			code, err := encodeByte(v, e.Good, minDiv, e.maxDiv())
			var mismatch *DivisionMismatchError
			if errors.As(err, &mismatch) {
				minDiv = mismatch.Div
				restart = true
				break
			}
			if err != nil {
				return nil, &EncodingError{Value: target}
			}

			if code.Carry {
				carry++
			}
			if minDiv == 0 {
				minDiv = code.Div
			}
			decs[i] = code.Values
		}
		if restart {
			continue
		}

		ops := make(ChunkResult, minDiv)
		for k := range ops {
			ops[k] = binary.LittleEndian.Uint32([]byte{
				decs[0][k], decs[1][k], decs[2][k], decs[3][k],
			})
		}
		return ops, nil
	}
}

// Decode replays the runtime effect of a chunk encoding: subtract every
// operand from initial, mod 2^32.
func Decode(ops []uint32, initial uint32) uint32 {
	r := initial
	for _, op := range ops {
		r -= op
	}
	return r
}

// Verify reports whether ops reconstruct target from initial.
func Verify(target uint32, ops []uint32, initial uint32) bool {
	return Decode(ops, initial) == target
}
