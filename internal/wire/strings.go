package wire

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// LengthStyle selects how a variable wide string's prefix counts the
// terminator.
type LengthStyle uint8

const (
	// Inclusive prefixes count the trailing NUL code unit that follows the
	// content on the wire.
	Inclusive LengthStyle = iota
	// Exclusive prefixes count content code units only; no terminator is sent.
	Exclusive
)

func (s LengthStyle) String() string {
	if s == Inclusive {
		return "inclusive"
	}
	return "exclusive"
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// decodeUnits converts little-endian UTF-16 code units to a string.
// Unpaired surrogates become U+FFFD.
func decodeUnits(b []byte) string {
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(out, []byte("�")))
	}
	return string(out)
}

// encodeUnits converts s to little-endian UTF-16 code units.
func encodeUnits(s string) []byte {
	out, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		out, _ = utf16le.NewEncoder().Bytes(bytes.ToValidUTF8([]byte(s), []byte("�")))
	}
	return out
}

// wideUntilNUL returns the code units of b up to the first NUL unit.
func wideUntilNUL(b []byte) []byte {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return b[:i]
		}
	}
	return b
}

// FixedString is an ASCII string in a zero-padded region of capacity bytes.
// The capacity includes the terminator slot, so at most capacity-1 bytes of
// content are accepted on encode. Decode stops at the first NUL and accepts
// a full region with none; encode rejects content containing NUL.
func FixedString(capacity int) Codec[string] {
	return New(capacity,
		func(r *Reader) (string, error) {
			b, err := r.Next(capacity)
			if err != nil {
				return "", err
			}
			if i := bytes.IndexByte(b, 0); i >= 0 {
				b = b[:i]
			}
			return string(b), nil
		},
		func(w *Writer, v string) error {
			if len(v) > capacity-1 {
				return fmt.Errorf("%w: %d bytes into %d", ErrCapacityExceeded, len(v), capacity)
			}
			if i := strings.IndexByte(v, 0); i >= 0 {
				return fmt.Errorf("%w at byte %d", ErrEmbeddedNUL, i)
			}
			w.Write([]byte(v))
			w.Zero(capacity - len(v))
			return nil
		})
}

// FixedWideString is a UTF-16 string in a zero-padded region of capacity
// code units, terminator slot included. It follows the same NUL rules as
// FixedString.
func FixedWideString(capacity int) Codec[string] {
	return New(capacity*2,
		func(r *Reader) (string, error) {
			b, err := r.Next(capacity * 2)
			if err != nil {
				return "", err
			}
			return decodeUnits(wideUntilNUL(b)), nil
		},
		func(w *Writer, v string) error {
			units := encodeUnits(v)
			if len(units)/2 > capacity-1 {
				return fmt.Errorf("%w: %d code units into %d", ErrCapacityExceeded, len(units)/2, capacity)
			}
			if i := strings.IndexByte(v, 0); i >= 0 {
				return fmt.Errorf("%w at byte %d", ErrEmbeddedNUL, i)
			}
			w.Write(units)
			w.Zero(capacity*2 - len(units))
			return nil
		})
}

// VarWideString is a UTF-16 string behind a prefix of the given width.
//
// With Inclusive style a prefix of n is followed by n code units, the last
// of which is the terminator and is dropped. A zero prefix is clamped: it
// decodes to the empty string and consumes no character data.
func VarWideString(prefix Width, style LengthStyle) Codec[string] {
	return NewVar(int(prefix),
		func(r *Reader) (string, error) {
			n, err := prefix.Read(r)
			if err != nil {
				return "", err
			}
			if err := r.Require(int(n) * 2); err != nil {
				return "", err
			}
			b, _ := r.Next(int(n) * 2)
			if style == Inclusive && n > 0 {
				b = b[:len(b)-2]
			}
			return decodeUnits(b), nil
		},
		func(w *Writer, v string) error {
			units := encodeUnits(v)
			n := uint64(len(units) / 2)
			if style == Inclusive {
				n++
			}
			if err := prefix.Write(w, n); err != nil {
				return err
			}
			w.Write(units)
			if style == Inclusive {
				w.U16(0)
			}
			return nil
		})
}

// VarString is a byte string behind a prefix of the given width.
func VarString(prefix Width) Codec[string] {
	return NewVar(int(prefix),
		func(r *Reader) (string, error) {
			n, err := prefix.Read(r)
			if err != nil {
				return "", err
			}
			if err := r.Require(int(n)); err != nil {
				return "", err
			}
			b, _ := r.Next(int(n))
			return string(b), nil
		},
		func(w *Writer, v string) error {
			if err := prefix.Write(w, uint64(len(v))); err != nil {
				return err
			}
			w.Write([]byte(v))
			return nil
		})
}
