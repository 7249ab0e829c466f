package encoder

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// Chunk is the encoding outcome for one 32-bit word of an input stream.
type Chunk struct {
	Offset int64
	Value  uint32
	Ops    ChunkResult
	Err    error
}

// EncodeStream reads r as consecutive little-endian 32-bit words and encodes
// each one independently. A trailing partial word is zero-padded. A chunk
// that cannot be encoded is reported in place with its Err set and does not
// stop the remaining chunks; the returned error is non-nil when any chunk
// failed.
func (e *Encoder) EncodeStream(r io.Reader) ([]Chunk, error) {
	words, err := readWords(r)
	if err != nil {
		return nil, err
	}

	chunks := make([]Chunk, len(words))
	for i, w := range words {
		chunks[i] = e.encodeWord(int64(i)*4, w)
	}
	return chunks, streamError(chunks)
}

// EncodeStreamParallel is EncodeStream with the chunks encoded by a bounded
// worker pool. Chunks are independent, so the output is identical to the
// sequential version, in input order.
func (e *Encoder) EncodeStreamParallel(r io.Reader, workers int) ([]Chunk, error) {
	words, err := readWords(r)
	if err != nil {
		return nil, err
	}
	if workers <= 1 || len(words) < 2 {
		chunks := make([]Chunk, len(words))
		for i, w := range words {
			chunks[i] = e.encodeWord(int64(i)*4, w)
		}
		return chunks, streamError(chunks)
	}
	if workers > len(words) {
		workers = len(words)
	}

	chunks := make([]Chunk, len(words))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				chunks[i] = e.encodeWord(int64(i)*4, words[i])
			}
		}()
	}
	for i := range words {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return chunks, streamError(chunks)
}

func (e *Encoder) encodeWord(offset int64, value uint32) Chunk {
	c := Chunk{Offset: offset, Value: value}
	c.Ops, c.Err = e.EncodeChunk(value)
	if c.Err == nil && !Verify(value, c.Ops, e.Initial) {
		c.Err = fmt.Errorf("verification failed for %#010x: operands do not sum to the complement", value)
	}
	return c
}

func readWords(r io.Reader) ([]uint32, error) {
	var words []uint32
	buf := make([]byte, 4)
	for {
		n, err := io.ReadFull(r, buf)
		switch err {
		case nil:
			words = append(words, binary.LittleEndian.Uint32(buf))
		case io.EOF:
			return words, nil
		case io.ErrUnexpectedEOF:
			for i := n; i < len(buf); i++ {
				buf[i] = 0
			}
			words = append(words, binary.LittleEndian.Uint32(buf))
			return words, nil
		default:
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
	}
}

func streamError(chunks []Chunk) error {
	failed := 0
	for _, c := range chunks {
		if c.Err != nil {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("failed to encode %d of %d chunks", failed, len(chunks))
}
