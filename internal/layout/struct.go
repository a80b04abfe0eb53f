// Package layout composes wire primitives into records and tagged unions.
//
// A record is described by an ordered list of field descriptors. The list is
// the wire order, which may differ from the Go field order: count slots let a
// sequence's length be written ahead of unrelated fields, and padding
// descriptors reserve bytes that carry no meaning.
package layout

import (
	"fmt"

	"github.com/energizer-project/lupackets/internal/wire"
)

// maxCountSlots bounds the number of deferred counts one record may use.
const maxCountSlots = 4

type scratch struct {
	counts [maxCountSlots]int
}

// Field is one step of a record layout over T.
type Field[T any] interface {
	Name() string
	size() int
	minSize() int
	decode(r *wire.Reader, v *T, s *scratch) error
	encode(w *wire.Writer, v *T, s *scratch) error
}

// Struct is a record codec driven by its field list.
type Struct[T any] struct {
	name   string
	fields []Field[T]
	fixed  int
	min    int
}

// NewStruct builds a record codec. Fields are encoded and decoded in the
// order given.
func NewStruct[T any](name string, fields ...Field[T]) wire.Codec[T] {
	fixed, least := 0, 0
	for _, f := range fields {
		least += f.minSize()
		if n := f.size(); n < 0 || fixed < 0 {
			fixed = -1
		} else {
			fixed += n
		}
	}
	return &Struct[T]{name: name, fields: fields, fixed: fixed, min: least}
}

// Name returns the record name.
func (s *Struct[T]) Name() string {
	return s.name
}

// Size returns the fixed encoded size, or -1 if any field is variable.
func (s *Struct[T]) Size() int {
	return s.fixed
}

// MinSize returns the fewest bytes any encoding occupies: fixed fields in
// full, variable ones by their prefixes.
func (s *Struct[T]) MinSize() int {
	return s.min
}

func (s *Struct[T]) Decode(r *wire.Reader) (T, error) {
	var (
		v  T
		sc scratch
	)
	for _, f := range s.fields {
		start := r.Offset()
		if err := f.decode(r, &v, &sc); err != nil {
			var zero T
			return zero, wire.DecodeFailure(f.Name(), start, err)
		}
	}
	return v, nil
}

func (s *Struct[T]) Encode(w *wire.Writer, v T) error {
	var sc scratch
	for _, f := range s.fields {
		if err := f.encode(w, &v, &sc); err != nil {
			return wire.EncodeFailure(f.Name(), err)
		}
	}
	return nil
}

type valueField[T, V any] struct {
	name  string
	codec wire.Codec[V]
	get   func(*T) *V
}

// Value binds a field of T to a codec.
func Value[T, V any](name string, c wire.Codec[V], get func(*T) *V) Field[T] {
	return valueField[T, V]{name: name, codec: c, get: get}
}

func (f valueField[T, V]) Name() string { return f.name }

func (f valueField[T, V]) size() int { return wire.SizeOf(f.codec) }

func (f valueField[T, V]) minSize() int { return wire.MinSizeOf(f.codec) }

func (f valueField[T, V]) decode(r *wire.Reader, v *T, _ *scratch) error {
	x, err := f.codec.Decode(r)
	if err != nil {
		return err
	}
	*f.get(v) = x
	return nil
}

func (f valueField[T, V]) encode(w *wire.Writer, v *T, _ *scratch) error {
	return f.codec.Encode(w, *f.get(v))
}

type padField[T any] struct {
	name string
	n    int
}

// Pad reserves n bytes that are skipped on decode and zero-filled on encode.
func Pad[T any](n int) Field[T] {
	return padField[T]{name: "padding", n: n}
}

// Reserved is Pad with a name, for placeholder fields that once had meaning.
func Reserved[T any](name string, n int) Field[T] {
	return padField[T]{name: name, n: n}
}

func (f padField[T]) Name() string { return f.name }

func (f padField[T]) size() int { return f.n }

func (f padField[T]) minSize() int { return f.n }

func (f padField[T]) decode(r *wire.Reader, _ *T, _ *scratch) error {
	return r.Skip(f.n)
}

func (f padField[T]) encode(w *wire.Writer, _ *T, _ *scratch) error {
	w.Zero(f.n)
	return nil
}

type countField[T any] struct {
	name  string
	slot  int
	width wire.Width
	count func(*T) int
}

// Count writes the length of a sequence that appears later in the layout.
// On encode the length is taken from the live value through count, so it can
// never disagree with the elements that follow. On decode it is stored in
// slot for the matching Items field.
func Count[T any](name string, slot int, width wire.Width, count func(*T) int) Field[T] {
	checkSlot(slot)
	return countField[T]{name: name, slot: slot, width: width, count: count}
}

func (f countField[T]) Name() string { return f.name }

func (f countField[T]) size() int { return int(f.width) }

func (f countField[T]) minSize() int { return int(f.width) }

func (f countField[T]) decode(r *wire.Reader, _ *T, s *scratch) error {
	n, err := f.width.Read(r)
	if err != nil {
		return err
	}
	s.counts[f.slot] = int(n)
	return nil
}

func (f countField[T]) encode(w *wire.Writer, v *T, s *scratch) error {
	n := f.count(v)
	s.counts[f.slot] = n
	return f.width.Write(w, uint64(n))
}

type itemsField[T, E any] struct {
	name string
	slot int
	elem wire.Codec[E]
	get  func(*T) *[]E
}

// Items decodes as many elements as the Count in the same slot declared.
func Items[T, E any](name string, slot int, elem wire.Codec[E], get func(*T) *[]E) Field[T] {
	checkSlot(slot)
	return itemsField[T, E]{name: name, slot: slot, elem: elem, get: get}
}

func (f itemsField[T, E]) Name() string { return f.name }

func (f itemsField[T, E]) size() int { return -1 }

func (f itemsField[T, E]) minSize() int { return 0 }

func (f itemsField[T, E]) decode(r *wire.Reader, v *T, s *scratch) error {
	items, err := decodeItems(r, s.counts[f.slot], f.elem)
	if err != nil {
		return err
	}
	*f.get(v) = items
	return nil
}

func (f itemsField[T, E]) encode(w *wire.Writer, v *T, s *scratch) error {
	items := *f.get(v)
	if len(items) != s.counts[f.slot] {
		return fmt.Errorf("%w: count %d, %d items", wire.ErrLengthInconsistency, s.counts[f.slot], len(items))
	}
	return encodeItems(w, items, f.elem)
}

// Slice is a count prefix immediately followed by its elements.
func Slice[T, E any](name string, width wire.Width, elem wire.Codec[E], get func(*T) *[]E) Field[T] {
	return Value(name, SliceOf(width, elem), get)
}

// SliceOf is the codec behind Slice.
func SliceOf[E any](width wire.Width, elem wire.Codec[E]) wire.Codec[[]E] {
	return wire.NewVar(int(width),
		func(r *wire.Reader) ([]E, error) {
			n, err := width.Read(r)
			if err != nil {
				return nil, err
			}
			return decodeItems(r, int(n), elem)
		},
		func(w *wire.Writer, items []E) error {
			if err := width.Write(w, uint64(len(items))); err != nil {
				return err
			}
			return encodeItems(w, items, elem)
		})
}

// decodeItems rejects a count whose elements could not fit in the rest of
// the frame before decoding any of them.
func decodeItems[E any](r *wire.Reader, n int, elem wire.Codec[E]) ([]E, error) {
	if least := wire.MinSizeOf(elem); least > 0 {
		if err := r.Require(n * least); err != nil {
			return nil, err
		}
	}
	items := make([]E, 0, min(n, r.Len()+1))
	for i := 0; i < n; i++ {
		start := r.Offset()
		e, err := elem.Decode(r)
		if err != nil {
			return nil, wire.DecodeFailure(fmt.Sprintf("[%d]", i), start, err)
		}
		items = append(items, e)
	}
	return items, nil
}

func encodeItems[E any](w *wire.Writer, items []E, elem wire.Codec[E]) error {
	for i, e := range items {
		if err := elem.Encode(w, e); err != nil {
			return wire.EncodeFailure(fmt.Sprintf("[%d]", i), err)
		}
	}
	return nil
}

func checkSlot(slot int) {
	if slot < 0 || slot >= maxCountSlots {
		panic(fmt.Sprintf("layout: count slot %d out of range", slot))
	}
}
