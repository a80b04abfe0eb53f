package common

import (
	"fmt"

	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/wire"
)

// LuNameValue is a typed key/value list ("LDF") sent in binary form.
type LuNameValue struct {
	Entries []NameValue `json:"entries"`
}

// NameValue is one LuNameValue entry.
type NameValue struct {
	Key   string   `json:"key"`
	Value LnvValue `json:"value"`
}

// LnvValue is implemented by every LuNameValue value type.
type LnvValue interface {
	isLnvValue()
}

type (
	LnvWString string
	LnvI32     int32
	LnvF32     float32
	LnvF64     float64
	LnvU32     uint32
	LnvBool    bool
	LnvI64     int64
	LnvObjID   ObjID
	LnvString  string
)

func (LnvWString) isLnvValue() {}
func (LnvI32) isLnvValue()     {}
func (LnvF32) isLnvValue()     {}
func (LnvF64) isLnvValue()     {}
func (LnvU32) isLnvValue()     {}
func (LnvBool) isLnvValue()    {}
func (LnvI64) isLnvValue()     {}
func (LnvObjID) isLnvValue()   {}
func (LnvString) isLnvValue()  {}

// Get returns the value stored under key.
func (l LuNameValue) Get(key string) (LnvValue, bool) {
	for _, e := range l.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// LnvValueCodec dispatches on the one-byte value type.
var LnvValueCodec = layout.NewUnion(layout.UnionSpec{Name: "LnvValue", Width: wire.Width8},
	layout.Case[LnvValue](0, "WString", layout.Map(wire.VarWideString(wire.Width32, wire.Exclusive),
		func(v string) LnvWString { return LnvWString(v) }, func(v LnvWString) string { return string(v) })),
	layout.Case[LnvValue](1, "I32", layout.Map(wire.Int32,
		func(v int32) LnvI32 { return LnvI32(v) }, func(v LnvI32) int32 { return int32(v) })),
	layout.Case[LnvValue](3, "F32", layout.Map(wire.Float32,
		func(v float32) LnvF32 { return LnvF32(v) }, func(v LnvF32) float32 { return float32(v) })),
	layout.Case[LnvValue](4, "F64", layout.Map(wire.Float64,
		func(v float64) LnvF64 { return LnvF64(v) }, func(v LnvF64) float64 { return float64(v) })),
	layout.Case[LnvValue](5, "U32", layout.Map(wire.Uint32,
		func(v uint32) LnvU32 { return LnvU32(v) }, func(v LnvU32) uint32 { return uint32(v) })),
	layout.Case[LnvValue](7, "Bool", layout.Map(wire.Bool,
		func(v bool) LnvBool { return LnvBool(v) }, func(v LnvBool) bool { return bool(v) })),
	layout.Case[LnvValue](8, "I64", layout.Map(wire.Int64,
		func(v int64) LnvI64 { return LnvI64(v) }, func(v LnvI64) int64 { return int64(v) })),
	layout.Case[LnvValue](9, "ObjID", layout.Map(ObjIDCodec,
		func(v ObjID) LnvObjID { return LnvObjID(v) }, func(v LnvObjID) ObjID { return ObjID(v) })),
	layout.Case[LnvValue](13, "String", layout.Map(wire.VarString(wire.Width32),
		func(v string) LnvString { return LnvString(v) }, func(v LnvString) string { return string(v) })),
)

var nameValueCodec = layout.NewStruct("NameValue",
	layout.Value("key", wire.VarWideString(wire.Width8, wire.Exclusive), func(e *NameValue) *string { return &e.Key }),
	layout.Value[NameValue, LnvValue]("value", LnvValueCodec, func(e *NameValue) *LnvValue { return &e.Value }),
)

var lnvBodyCodec = layout.NewStruct("LuNameValue",
	layout.Slice("entries", wire.Width32, nameValueCodec, func(l *LuNameValue) *[]NameValue { return &l.Entries }),
)

// LuNameValueCodec frames the entry list behind a u32 byte length. The
// declared length must match the bytes the entries occupy.
var LuNameValueCodec = wire.NewVar(4,
	func(r *wire.Reader) (LuNameValue, error) {
		n, err := r.U32()
		if err != nil {
			return LuNameValue{}, err
		}
		if err := r.Require(int(n)); err != nil {
			return LuNameValue{}, err
		}
		body, _ := r.Next(int(n))
		sub := wire.NewReader(body)
		l, err := lnvBodyCodec.Decode(sub)
		if err != nil {
			return LuNameValue{}, err
		}
		if sub.Len() != 0 {
			return LuNameValue{}, fmt.Errorf("%w: %d trailing bytes in name/value body", wire.ErrLengthInconsistency, sub.Len())
		}
		return l, nil
	},
	func(w *wire.Writer, l LuNameValue) error {
		body := wire.NewWriter()
		if err := lnvBodyCodec.Encode(body, l); err != nil {
			return err
		}
		w.U32(uint32(body.Len()))
		w.Write(body.Bytes())
		return nil
	})
