package wire

import "fmt"

// Codec converts one value of T to and from its wire form.
type Codec[T any] interface {
	Decode(r *Reader) (T, error)
	Encode(w *Writer, v T) error
}

// Sizer is implemented by codecs whose encoding always occupies the same
// number of bytes.
type Sizer interface {
	Size() int
}

// MinSizer is implemented by variable-size codecs that know the fewest bytes
// any encoding of theirs occupies.
type MinSizer interface {
	MinSize() int
}

type funcCodec[T any] struct {
	decode func(*Reader) (T, error)
	encode func(*Writer, T) error
	size   int
	min    int
}

func (c funcCodec[T]) Decode(r *Reader) (T, error) { return c.decode(r) }

func (c funcCodec[T]) Encode(w *Writer, v T) error { return c.encode(w, v) }

func (c funcCodec[T]) Size() int { return c.size }

func (c funcCodec[T]) MinSize() int { return c.min }

// New builds a codec from a decode/encode pair. size is the fixed encoded
// size, or -1 when the encoding is variable.
func New[T any](size int, decode func(*Reader) (T, error), encode func(*Writer, T) error) Codec[T] {
	return funcCodec[T]{decode: decode, encode: encode, size: size, min: max(size, 0)}
}

// NewVar builds a variable-size codec whose encodings are never shorter than
// minSize bytes.
func NewVar[T any](minSize int, decode func(*Reader) (T, error), encode func(*Writer, T) error) Codec[T] {
	return funcCodec[T]{decode: decode, encode: encode, size: -1, min: minSize}
}

// SizeOf returns the fixed encoded size of c, or -1.
func SizeOf[T any](c Codec[T]) int {
	if s, ok := c.(Sizer); ok {
		return s.Size()
	}
	return -1
}

// MinSizeOf returns the fewest bytes an encoding of c occupies: its fixed
// size when it has one, else its MinSize, else 0.
func MinSizeOf[T any](c Codec[T]) int {
	if n := SizeOf(c); n >= 0 {
		return n
	}
	if s, ok := c.(MinSizer); ok {
		return s.MinSize()
	}
	return 0
}

var (
	Uint8   = New(1, (*Reader).U8, func(w *Writer, v uint8) error { w.U8(v); return nil })
	Uint16  = New(2, (*Reader).U16, func(w *Writer, v uint16) error { w.U16(v); return nil })
	Uint32  = New(4, (*Reader).U32, func(w *Writer, v uint32) error { w.U32(v); return nil })
	Uint64  = New(8, (*Reader).U64, func(w *Writer, v uint64) error { w.U64(v); return nil })
	Bool    = New(1, (*Reader).Bool, func(w *Writer, v bool) error { w.Bool(v); return nil })
	Float32 = New(4, (*Reader).F32, func(w *Writer, v float32) error { w.F32(v); return nil })
	Float64 = New(8, (*Reader).F64, func(w *Writer, v float64) error { w.F64(v); return nil })

	Int32 = New(4,
		func(r *Reader) (int32, error) { v, err := r.U32(); return int32(v), err },
		func(w *Writer, v int32) error { w.U32(uint32(v)); return nil })
	Int64 = New(8,
		func(r *Reader) (int64, error) { v, err := r.U64(); return int64(v), err },
		func(w *Writer, v int64) error { w.U64(uint64(v)); return nil })
)

// Bytes reads and writes exactly n uninterpreted bytes. Encoding a slice of
// any other length is an ErrLengthInconsistency.
func Bytes(n int) Codec[[]byte] {
	return New(n,
		func(r *Reader) ([]byte, error) {
			b, err := r.Next(n)
			if err != nil {
				return nil, err
			}
			out := make([]byte, n)
			copy(out, b)
			return out, nil
		},
		func(w *Writer, v []byte) error {
			if len(v) != n {
				return fmt.Errorf("%w: want %d bytes, got %d", ErrLengthInconsistency, n, len(v))
			}
			w.Write(v)
			return nil
		})
}

// Remaining consumes everything left in the frame.
var Remaining = New(-1,
	func(r *Reader) ([]byte, error) { return r.Rest(), nil },
	func(w *Writer, v []byte) error { w.Write(v); return nil })

// Width is the byte width of a discriminant or length prefix.
type Width uint8

const (
	Width8  Width = 1
	Width16 Width = 2
	Width32 Width = 4
)

// Max returns the largest value representable in w.
func (wd Width) Max() uint64 {
	return 1<<(8*uint(wd)) - 1
}

// Read reads an unsigned value of this width.
func (wd Width) Read(r *Reader) (uint32, error) {
	switch wd {
	case Width8:
		v, err := r.U8()
		return uint32(v), err
	case Width16:
		v, err := r.U16()
		return uint32(v), err
	case Width32:
		return r.U32()
	}
	return 0, fmt.Errorf("wire: unsupported width %d", wd)
}

// Write writes v at this width, failing with ErrLengthInconsistency if it
// does not fit.
func (wd Width) Write(w *Writer, v uint64) error {
	if v > wd.Max() {
		return fmt.Errorf("%w: %d does not fit in %d bytes", ErrLengthInconsistency, v, wd)
	}
	switch wd {
	case Width8:
		w.U8(uint8(v))
	case Width16:
		w.U16(uint16(v))
	case Width32:
		w.U32(uint32(v))
	default:
		return fmt.Errorf("wire: unsupported width %d", wd)
	}
	return nil
}
