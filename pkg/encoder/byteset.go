// Package encoder implements sub-encoding of 32-bit words. For each input
// word it finds a list of 32-bit operands, every byte of which belongs to an
// allowed byte set, that sum (mod 2^32) to the word's complement. Subtracting
// the operands from a known register value reconstructs the word at runtime,
// which allows building payloads for targets that filter disallowed bytes.
package encoder

import (
	"fmt"
	"math/bits"
)

// GoodByteSet is the set of byte values permitted to appear in encoded
// operands. It is immutable after construction.
type GoodByteSet struct {
	words [4]uint64
}

// NewGoodByteSet builds a set from an explicit allow-list.
func NewGoodByteSet(allowed []byte) GoodByteSet {
	var s GoodByteSet
	for _, b := range allowed {
		s.words[b>>6] |= 1 << (b & 63)
	}
	return s
}

// GoodByteSetFromBad builds a set by complementing a disallow-list against
// the full 0-255 range.
func GoodByteSetFromBad(bad []byte) GoodByteSet {
	s := GoodByteSet{words: [4]uint64{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}}
	for _, b := range bad {
		s.words[b>>6] &^= 1 << (b & 63)
	}
	return s
}

// Contains reports whether b is an allowed byte.
func (s GoodByteSet) Contains(b byte) bool {
	return s.words[b>>6]&(1<<(b&63)) != 0
}

// Len returns the number of allowed bytes.
func (s GoodByteSet) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Bytes returns the allowed bytes in ascending order.
func (s GoodByteSet) Bytes() []byte {
	out := make([]byte, 0, s.Len())
	for i := 0; i < 256; i++ {
		if s.Contains(byte(i)) {
			out = append(out, byte(i))
		}
	}
	return out
}

func (s GoodByteSet) Validate() error {
	if s.Len() == 0 {
		return fmt.Errorf("byte set cannot be empty")
	}
	return nil
}

func (s GoodByteSet) String() string {
	return fmt.Sprintf("GoodByteSet(%d bytes)", s.Len())
}
