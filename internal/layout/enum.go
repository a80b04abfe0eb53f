package layout

import (
	"fmt"

	"github.com/energizer-project/lupackets/internal/wire"
)

// Enum is a closed set of numeric values stored at a fixed width. It is the
// degenerate union whose variants all have empty payloads.
func Enum[E ~uint8 | ~uint16 | ~uint32](name string, width wire.Width, values ...E) wire.Codec[E] {
	known := make(map[uint32]bool, len(values))
	for _, v := range values {
		if uint64(v) > width.Max() {
			panic(fmt.Sprintf("layout: %s value %d exceeds width %d", name, v, width))
		}
		known[uint32(v)] = true
	}
	return wire.New(int(width),
		func(r *wire.Reader) (E, error) {
			start := r.Offset()
			v, err := width.Read(r)
			if err != nil {
				return 0, err
			}
			if !known[v] {
				return 0, wire.DecodeFailure(name, start, fmt.Errorf("%w %d", wire.ErrUnknownDiscriminant, v))
			}
			return E(v), nil
		},
		func(w *wire.Writer, v E) error {
			if !known[uint32(v)] {
				return wire.EncodeFailure(name, fmt.Errorf("%w %d", wire.ErrUnknownDiscriminant, v))
			}
			return width.Write(w, uint64(v))
		})
}

// Empty is the codec of a payload-less variant.
func Empty[T any]() wire.Codec[T] {
	return wire.New(0,
		func(*wire.Reader) (T, error) {
			var zero T
			return zero, nil
		},
		func(*wire.Writer, T) error { return nil })
}

// Map adapts a codec of U to a codec of V.
func Map[V, U any](c wire.Codec[U], to func(U) V, from func(V) U) wire.Codec[V] {
	decode := func(r *wire.Reader) (V, error) {
		u, err := c.Decode(r)
		if err != nil {
			var zero V
			return zero, err
		}
		return to(u), nil
	}
	encode := func(w *wire.Writer, v V) error {
		return c.Encode(w, from(v))
	}
	if n := wire.SizeOf(c); n >= 0 {
		return wire.New(n, decode, encode)
	}
	return wire.NewVar(wire.MinSizeOf(c), decode, encode)
}

// Array32 adapts a 32-byte span to a Go array.
func Array32() wire.Codec[[32]byte] {
	return Map(wire.Bytes(32),
		func(b []byte) (out [32]byte) {
			copy(out[:], b)
			return out
		},
		func(a [32]byte) []byte { return a[:] })
}

// DecodeFrame decodes one value from a complete frame.
func DecodeFrame[T any](c wire.Codec[T], frame []byte) (T, error) {
	return c.Decode(wire.NewReader(frame))
}

// EncodeFrame encodes one value into a new frame.
func EncodeFrame[T any](c wire.Codec[T], v T) ([]byte, error) {
	w := wire.NewWriter()
	if err := c.Encode(w, v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
