package encoder

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireChunkResult checks the invariants of every successful chunk
// encoding: round-trip, byte-set compliance and a division count within the
// bound.
func requireChunkResult(t *testing.T, ops ChunkResult, target uint32, e *Encoder) {
	t.Helper()

	require.NotEmpty(t, ops)
	assert.LessOrEqual(t, len(ops), e.maxDiv())
	assert.True(t, Verify(target, ops, e.Initial),
		"operands %#x do not reconstruct %#010x", ops, target)

	for _, op := range ops {
		var raw [4]byte
		binary.LittleEndian.PutUint32(raw[:], op)
		for _, b := range raw {
			assert.True(t, e.Good.Contains(b),
				"operand %#010x contains disallowed byte %#02x", op, b)
		}
	}
}

func TestEncodeChunkSingleDivision(t *testing.T) {
	e := &Encoder{Good: NewGoodByteSet(rangeBytes(0x01, 0x7f))}

	// Every byte of the complement 0x21524111 is a low byte, so a single
	// operand equal to the complement is the minimal encoding.
	ops, err := e.EncodeChunk(0xdeadbeef)
	require.NoError(t, err)
	assert.Equal(t, ChunkResult{0x21524111}, ops)
	requireChunkResult(t, ops, 0xdeadbeef, e)
}

func TestEncodeChunkAlnumNeedsMultipleDivisions(t *testing.T) {
	e := &Encoder{Good: NewGoodByteSet(alnumBytes())}

	ops, err := e.EncodeChunk(0x00000041)
	require.NoError(t, err)
	assert.Greater(t, len(ops), 1)
	requireChunkResult(t, ops, 0x00000041, e)
}

func TestEncodeChunkUnitSummands(t *testing.T) {
	e := &Encoder{Good: NewGoodByteSet([]byte{0x00, 0x01})}

	// Complement 0x00000003: the low byte splits into three ones, the rest
	// are zero at the same division count.
	ops, err := e.EncodeChunk(0xfffffffd)
	require.NoError(t, err)
	assert.Equal(t, ChunkResult{0x01, 0x01, 0x01}, ops)
	requireChunkResult(t, ops, 0xfffffffd, e)
}

func TestEncodeChunkMaxDivTooSmall(t *testing.T) {
	e := &Encoder{
		Good:   NewGoodByteSet([]byte{0x00, 0x01}),
		MaxDiv: 1,
	}

	// Complement 0x00000002 needs two unit summands.
	_, err := e.EncodeChunk(0xfffffffe)
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, uint32(0xfffffffe), encErr.Value)
	assert.ErrorIs(t, err, ErrNoDivision)

	// The same chunk encodes once the bound allows two operands.
	e.MaxDiv = 2
	ops, err := e.EncodeChunk(0xfffffffe)
	require.NoError(t, err)
	assert.Equal(t, ChunkResult{0x01, 0x01}, ops)
}

func TestEncodeChunkCarryPropagation(t *testing.T) {
	e := &Encoder{Good: NewGoodByteSet(rangeBytes(0x01, 0xff))}

	// Complement 0xffffff00: the zero low byte can only be encoded by
	// borrowing 0x100 from the next position, which then owes a borrow of
	// its own on top of its decomposition.
	ops, err := e.EncodeChunk(0x00000100)
	require.NoError(t, err)
	assert.Len(t, ops, 2)
	requireChunkResult(t, ops, 0x00000100, e)
}

func TestEncodeChunkRestartRaisesDivision(t *testing.T) {
	good := NewGoodByteSet(alnumBytes())

	// Complement of 0x41 is 0xffffffbf: the low byte 0xbf decomposes at
	// two operands, but 0xff needs three, forcing a restart that re-encodes
	// the low byte at three.
	e := &Encoder{Good: good, MaxDiv: 3}
	ops, err := e.EncodeChunk(0x00000041)
	require.NoError(t, err)
	assert.Len(t, ops, 3)
	requireChunkResult(t, ops, 0x00000041, e)

	// A bound below the fixed point fails outright.
	e = &Encoder{Good: good, MaxDiv: 1}
	_, err = e.EncodeChunk(0x00000041)
	require.ErrorIs(t, err, ErrNoDivision)
}

func TestEncodeChunkInitialValue(t *testing.T) {
	e := &Encoder{
		Good:    NewGoodByteSet(rangeBytes(0x01, 0x7f)),
		Initial: 0x11223344,
	}

	ops, err := e.EncodeChunk(0xdeadbeef)
	require.NoError(t, err)
	requireChunkResult(t, ops, 0xdeadbeef, e)
	assert.Equal(t, uint32(0xdeadbeef), Decode(ops, 0x11223344))
}

func TestEncodeChunkProperties(t *testing.T) {
	sets := []struct {
		name string
		good GoodByteSet
	}{
		{"alnum", NewGoodByteSet(alnumBytes())},
		{"printable", NewGoodByteSet(rangeBytes(0x20, 0x7e))},
		{"nonull", NewGoodByteSet(rangeBytes(0x01, 0xff))},
	}

	rng := rand.New(rand.NewSource(1))
	targets := []uint32{0, 1, 0x41, 0x80000000, 0xffffffff, 0xdeadbeef}
	for i := 0; i < 64; i++ {
		targets = append(targets, rng.Uint32())
	}

	for _, set := range sets {
		t.Run(set.name, func(t *testing.T) {
			e := &Encoder{Good: set.good}
			encoded := 0
			for _, target := range targets {
				ops, err := e.EncodeChunk(target)
				if err != nil {
					var encErr *EncodingError
					require.ErrorAs(t, err, &encErr)
					assert.Equal(t, target, encErr.Value)
					continue
				}
				encoded++
				requireChunkResult(t, ops, target, e)
			}
			assert.NotZero(t, encoded, "no target encodable at all")
		})
	}
}

// divisionWorksForAllBytes replays the carry chain at a fixed division count
// and reports whether every byte of the complement decomposes there, with at
// most one borrow per byte.
func divisionWorksForAllBytes(complement uint32, div int, good GoodByteSet) bool {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], complement)

	carry := 0
	for i := 0; i < 4; i++ {
		v := int(b[i]) - carry
		if v < 0 {
			v += 0x100
			carry = 1
		} else {
			carry = 0
		}
		if _, ok := checkDivision(v, div, good); ok {
			continue
		}
		if _, ok := checkDivision(v+0x100, div, good); !ok {
			return false
		}
		carry++
	}
	return true
}

func TestEncodeChunkMinimalDivisionCount(t *testing.T) {
	e := &Encoder{Good: NewGoodByteSet(alnumBytes())}

	// The fixed targets need a carry on some byte to reach their minimal
	// count; a larger direct-only count must not win over them.
	targets := []uint32{
		0xcffc8749, 0x8b976549, 0x5ea08778,
		0x13e5c7b0, 0xcc43e5a9, 0xe5963854, 0xfa459dcd,
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 48; i++ {
		targets = append(targets, rng.Uint32())
	}

	for _, target := range targets {
		ops, err := e.EncodeChunk(target)
		if err != nil {
			continue
		}
		requireChunkResult(t, ops, target, e)
		for div := 1; div < len(ops); div++ {
			assert.False(t, divisionWorksForAllBytes(0-target, div, e.Good),
				"target %#010x encoded with %d operands but %d suffice", target, len(ops), div)
		}
	}
}

func TestDecode(t *testing.T) {
	assert.Equal(t, uint32(0xdeadbeef), Decode([]uint32{0x21524111}, 0))
	assert.Equal(t, uint32(0xdeadbeef), Decode([]uint32{0x11292109, 0x10292008}, 0))
	assert.Equal(t, uint32(0), Decode(nil, 0))
	assert.Equal(t, uint32(0x10), Decode([]uint32{0x10}, 0x20))
}

func TestVerify(t *testing.T) {
	assert.True(t, Verify(0xdeadbeef, []uint32{0x11292109, 0x10292008}, 0))
	assert.False(t, Verify(0xdeadbeef, []uint32{0x11292109}, 0))
}

func TestEncoderValidate(t *testing.T) {
	require.Error(t, (&Encoder{}).Validate())
	require.Error(t, (&Encoder{Good: NewGoodByteSet([]byte{0x41}), MaxDiv: -1}).Validate())

	// Zero means DefaultMaxDiv, so it must pass validation.
	require.NoError(t, (&Encoder{Good: NewGoodByteSet([]byte{0x41})}).Validate())
	require.NoError(t, (&Encoder{Good: NewGoodByteSet([]byte{0x41}), MaxDiv: 5}).Validate())
}

func alnumBytes() []byte {
	out := rangeBytes('0', '9')
	out = append(out, rangeBytes('A', 'Z')...)
	return append(out, rangeBytes('a', 'z')...)
}
