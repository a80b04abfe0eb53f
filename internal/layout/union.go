package layout

import (
	"fmt"

	"github.com/energizer-project/lupackets/internal/wire"
)

// UnionSpec describes the discriminant of a tagged union.
type UnionSpec struct {
	Name    string
	Width   wire.Width
	Padding int // bytes between the discriminant and the payload
}

// Raw is implemented by the fallback variant of an open union so that
// unrecognized messages can be written back unchanged. RawPadding returns the
// bytes found between the discriminant and the payload; when its length does
// not match the union's padding, zeros are written instead.
type Raw interface {
	Discriminant() uint32
	RawPadding() []byte
	RawPayload() []byte
}

// Variant binds one discriminant of a union over M to a payload codec.
type Variant[M any] struct {
	Disc uint32
	Name string

	decode func(*wire.Reader) (M, error)
	encode func(*wire.Writer, M) error
	match  func(M) bool
}

// Case declares the variant disc carrying a V. V must implement M.
func Case[M, V any](disc uint32, name string, c wire.Codec[V]) Variant[M] {
	var probe V
	if _, ok := any(probe).(M); !ok {
		panic(fmt.Sprintf("layout: variant %s (%T) does not satisfy its union type", name, probe))
	}
	return Variant[M]{
		Disc: disc,
		Name: name,
		decode: func(r *wire.Reader) (M, error) {
			v, err := c.Decode(r)
			if err != nil {
				var zero M
				return zero, err
			}
			return any(v).(M), nil
		},
		encode: func(w *wire.Writer, m M) error {
			return c.Encode(w, any(m).(V))
		},
		match: func(m M) bool {
			_, ok := any(m).(V)
			return ok
		},
	}
}

// Union is a tagged union codec. A closed union rejects unknown
// discriminants; an open one hands them, with the rest of the frame, to a
// fallback constructor.
type Union[M any] struct {
	spec     UnionSpec
	variants []Variant[M]
	byDisc   map[uint32]int
	fallback func(disc uint32, pad, raw []byte) M
}

// NewUnion builds a closed union.
func NewUnion[M any](spec UnionSpec, cases ...Variant[M]) *Union[M] {
	u := &Union[M]{spec: spec, byDisc: make(map[uint32]int, len(cases))}
	for i, c := range cases {
		if uint64(c.Disc) > spec.Width.Max() {
			panic(fmt.Sprintf("layout: %s.%s discriminant %d exceeds width %d", spec.Name, c.Name, c.Disc, spec.Width))
		}
		if prev, dup := u.byDisc[c.Disc]; dup {
			panic(fmt.Sprintf("layout: %s discriminant %d used by %s and %s", spec.Name, c.Disc, cases[prev].Name, c.Name))
		}
		u.byDisc[c.Disc] = i
	}
	u.variants = cases
	return u
}

// NewOpenUnion builds a union that tolerates unknown discriminants. The
// fallback receives the discriminant, the padding bytes as read, and every
// byte after them; the value it returns should implement Raw.
func NewOpenUnion[M any](spec UnionSpec, fallback func(disc uint32, pad, raw []byte) M, cases ...Variant[M]) *Union[M] {
	u := NewUnion(spec, cases...)
	u.fallback = fallback
	return u
}

// Spec returns the discriminant description.
func (u *Union[M]) Spec() UnionSpec {
	return u.spec
}

// MinSize is the discriminant width plus its padding.
func (u *Union[M]) MinSize() int {
	return int(u.spec.Width) + u.spec.Padding
}

// Open reports whether unknown discriminants are tolerated.
func (u *Union[M]) Open() bool {
	return u.fallback != nil
}

// CaseInfo names one declared variant.
type CaseInfo struct {
	Disc uint32
	Name string
}

// Cases lists the declared variants in declaration order.
func (u *Union[M]) Cases() []CaseInfo {
	out := make([]CaseInfo, len(u.variants))
	for i, v := range u.variants {
		out[i] = CaseInfo{Disc: v.Disc, Name: v.Name}
	}
	return out
}

// Lookup returns the variant that m belongs to.
func (u *Union[M]) Lookup(m M) (CaseInfo, bool) {
	for _, v := range u.variants {
		if v.match(m) {
			return CaseInfo{Disc: v.Disc, Name: v.Name}, true
		}
	}
	if raw, ok := any(m).(Raw); ok && u.Open() {
		return CaseInfo{Disc: raw.Discriminant(), Name: fmt.Sprintf("Unrecognized(%d)", raw.Discriminant())}, true
	}
	return CaseInfo{}, false
}

func (u *Union[M]) Decode(r *wire.Reader) (M, error) {
	var zero M
	start := r.Offset()
	disc, err := u.spec.Width.Read(r)
	if err != nil {
		return zero, wire.DecodeFailure(u.spec.Name, start, err)
	}
	i, known := u.byDisc[disc]
	if !known && !u.Open() {
		return zero, wire.DecodeFailure(u.spec.Name, start,
			fmt.Errorf("%w %d", wire.ErrUnknownDiscriminant, disc))
	}
	pad, err := r.Next(u.spec.Padding)
	if err != nil {
		return zero, wire.DecodeFailure(u.spec.Name, start, err)
	}
	if !known {
		return u.fallback(disc, append([]byte(nil), pad...), r.Rest()), nil
	}
	v := u.variants[i]
	m, err := v.decode(r)
	if err != nil {
		return zero, wire.DecodeFailure(v.Name, start, err)
	}
	return m, nil
}

func (u *Union[M]) Encode(w *wire.Writer, m M) error {
	for _, v := range u.variants {
		if !v.match(m) {
			continue
		}
		if err := u.spec.Width.Write(w, uint64(v.Disc)); err != nil {
			return wire.EncodeFailure(u.spec.Name, err)
		}
		w.Zero(u.spec.Padding)
		if err := v.encode(w, m); err != nil {
			return wire.EncodeFailure(v.Name, err)
		}
		return nil
	}
	if raw, ok := any(m).(Raw); ok && u.Open() {
		if err := u.spec.Width.Write(w, uint64(raw.Discriminant())); err != nil {
			return wire.EncodeFailure(u.spec.Name, err)
		}
		if pad := raw.RawPadding(); len(pad) == u.spec.Padding {
			w.Write(pad)
		} else {
			w.Zero(u.spec.Padding)
		}
		w.Write(raw.RawPayload())
		return nil
	}
	return wire.EncodeFailure(u.spec.Name, fmt.Errorf("%w: no variant for %T", wire.ErrUnknownDiscriminant, m))
}
