// Package wire implements the little-endian primitives the LU protocol is
// built from: integers, booleans, raw byte spans, padding and the fixed and
// variable string encodings. Every codec here works on an in-memory frame
// and never blocks.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Reader is a cursor over one received frame.
type Reader struct {
	buf []byte
	off int
}

// NewReader creates a Reader positioned at the start of frame.
func NewReader(frame []byte) *Reader {
	return &Reader{buf: frame}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Next consumes n bytes and returns them without copying.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative span %d", ErrLengthInconsistency, n)
	}
	if r.Len() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedInput, n, r.Len())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.Next(n)
	return err
}

// Rest consumes and returns a copy of every unread byte.
func (r *Reader) Rest() []byte {
	b := make([]byte, r.Len())
	copy(b, r.buf[r.off:])
	r.off = len(r.buf)
	return b
}

// Require fails with ErrLengthInconsistency when a declared span of n bytes
// would run past the end of the frame.
func (r *Reader) Require(n int) error {
	if n < 0 || n > r.Len() {
		return fmt.Errorf("%w: declared %d bytes, frame has %d left", ErrLengthInconsistency, n, r.Len())
	}
	return nil
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.Next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.Next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) U64() (uint64, error) {
	b, err := r.Next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Bool reads one byte; any nonzero value is true.
func (r *Reader) Bool() (bool, error) {
	v, err := r.U8()
	return v != 0, err
}

func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}

func (r *Reader) F64() (float64, error) {
	v, err := r.U64()
	return math.Float64frombits(v), err
}
