package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/wire"
)

func TestZoneIDLayout(t *testing.T) {
	b, err := layout.EncodeFrame(ZoneIDCodec, ZoneID{MapID: 1000, InstanceID: 2, CloneID: 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xe8, 0x03, 0x02, 0x00, 0x03, 0x00, 0x00, 0x00}, b)
	assert.Equal(t, 8, wire.SizeOf(ZoneIDCodec))
}

func TestVector3RoundTrip(t *testing.T) {
	v := Vector3{X: 1, Y: -2.5, Z: 100}
	b, err := layout.EncodeFrame(Vector3Codec, v)
	require.NoError(t, err)
	require.Len(t, b, 12)
	got, err := layout.DecodeFrame(Vector3Codec, b)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestServiceIDRejectsUnknown(t *testing.T) {
	_, err := layout.DecodeFrame(ServiceIDCodec, []byte{3, 0})
	assert.ErrorIs(t, err, wire.ErrUnknownDiscriminant)
	assert.Equal(t, "World", ServiceWorld.String())
	assert.Equal(t, "Unknown", ServiceID(3).String())
}

func TestLuNameValueBytes(t *testing.T) {
	l := LuNameValue{Entries: []NameValue{{Key: "a", Value: LnvI32(5)}}}
	b, err := layout.EncodeFrame(LuNameValueCodec, l)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		12, 0, 0, 0, // body length
		1, 0, 0, 0, // entry count
		1, 'a', 0, // key
		1, 5, 0, 0, 0, // I32
	}, b)

	got, err := layout.DecodeFrame(LuNameValueCodec, b)
	require.NoError(t, err)
	assert.Equal(t, l, got)
}

func TestLuNameValueAllTypes(t *testing.T) {
	l := LuNameValue{Entries: []NameValue{
		{Key: "name", Value: LnvWString("Ünïcode")},
		{Key: "i32", Value: LnvI32(-7)},
		{Key: "f32", Value: LnvF32(0.5)},
		{Key: "f64", Value: LnvF64(1e10)},
		{Key: "u32", Value: LnvU32(4000000000)},
		{Key: "bool", Value: LnvBool(true)},
		{Key: "i64", Value: LnvI64(-1 << 40)},
		{Key: "obj", Value: LnvObjID(1152921504606846994)},
		{Key: "str", Value: LnvString("bytes")},
	}}
	b, err := layout.EncodeFrame(LuNameValueCodec, l)
	require.NoError(t, err)
	got, err := layout.DecodeFrame(LuNameValueCodec, b)
	require.NoError(t, err)
	assert.Equal(t, l, got)

	v, ok := got.Get("u32")
	require.True(t, ok)
	assert.Equal(t, LnvU32(4000000000), v)
	_, ok = got.Get("missing")
	assert.False(t, ok)
}

func TestLuNameValueLengthMismatch(t *testing.T) {
	// declared body longer than the frame
	_, err := layout.DecodeFrame(LuNameValueCodec, []byte{50, 0, 0, 0, 0, 0, 0, 0})
	assert.ErrorIs(t, err, wire.ErrLengthInconsistency)

	// declared body shorter than the entries need
	_, err = layout.DecodeFrame(LuNameValueCodec, []byte{
		6, 0, 0, 0,
		1, 0, 0, 0,
		1, 'a', 0,
		1, 5, 0, 0, 0,
	})
	assert.ErrorIs(t, err, wire.ErrLengthInconsistency)

	// slack bytes after the last entry
	_, err = layout.DecodeFrame(LuNameValueCodec, []byte{
		5, 0, 0, 0,
		0, 0, 0, 0,
		0xff,
	})
	assert.ErrorIs(t, err, wire.ErrLengthInconsistency)
}

func TestLnvUnknownType(t *testing.T) {
	_, err := layout.DecodeFrame[LnvValue](LnvValueCodec, []byte{2, 0, 0, 0, 0})
	assert.ErrorIs(t, err, wire.ErrUnknownDiscriminant)
}
