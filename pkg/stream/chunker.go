package stream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrTooLarge is returned when a source exceeds the reader's byte limit
var ErrTooLarge = errors.New("stream: input exceeds size limit")

// ChunkedReader reads a source in fixed-size chunks and stops once a byte
// limit is crossed.
type ChunkedReader struct {
	reader    io.Reader
	chunkSize int
	limit     int64
	read      int64
	eof       bool
}

// NewChunkedReader creates a chunked reader; limit <= 0 disables the cap
func NewChunkedReader(reader io.Reader, chunkSize int, limit int64) *ChunkedReader {
	if chunkSize <= 0 {
		chunkSize = 32 << 10
	}
	return &ChunkedReader{
		reader:    reader,
		chunkSize: chunkSize,
		limit:     limit,
	}
}

// NextChunk returns the next chunk, or io.EOF when the source is drained.
// The returned slice is owned by the caller.
func (cr *ChunkedReader) NextChunk() ([]byte, error) {
	if cr.eof {
		return nil, io.EOF
	}

	buf := make([]byte, cr.chunkSize)
	n, err := io.ReadFull(cr.reader, buf)
	switch {
	case errors.Is(err, io.EOF):
		cr.eof = true
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		cr.eof = true
	case err != nil:
		return nil, err
	}

	cr.read += int64(n)
	if cr.limit > 0 && cr.read > cr.limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, cr.limit)
	}
	return buf[:n], nil
}

// ReadAll drains the source into a single buffer
func (cr *ChunkedReader) ReadAll() ([]byte, error) {
	var out bytes.Buffer
	for {
		chunk, err := cr.NextChunk()
		if errors.Is(err, io.EOF) {
			return out.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
		out.Write(chunk)
	}
}

// BytesRead reports how many bytes have been consumed so far
func (cr *ChunkedReader) BytesRead() int64 {
	return cr.read
}
