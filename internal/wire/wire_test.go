package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode[T any](t *testing.T, c Codec[T], v T) []byte {
	t.Helper()
	w := NewWriter()
	require.NoError(t, c.Encode(w, v))
	return w.Bytes()
}

func TestPrimitivesLittleEndian(t *testing.T) {
	w := NewWriter()
	w.U8(0x01)
	w.U16(0x0302)
	w.U32(0x07060504)
	w.U64(0x0f0e0d0c0b0a0908)
	w.Bool(true)
	w.Bool(false)
	assert.Equal(t, []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
		0x01, 0x00,
	}, w.Bytes())

	r := NewReader(w.Bytes())
	u8, _ := r.U8()
	u16, _ := r.U16()
	u32, _ := r.U32()
	u64, _ := r.U64()
	b1, _ := r.Bool()
	b2, err := r.Bool()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), u8)
	assert.Equal(t, uint16(0x0302), u16)
	assert.Equal(t, uint32(0x07060504), u32)
	assert.Equal(t, uint64(0x0f0e0d0c0b0a0908), u64)
	assert.True(t, b1)
	assert.False(t, b2)
	assert.Zero(t, r.Len())
}

func TestBoolNonzeroIsTrue(t *testing.T) {
	v, err := Bool.Decode(NewReader([]byte{0x7f}))
	require.NoError(t, err)
	assert.True(t, v)
}

func TestFloatsRoundTrip(t *testing.T) {
	b := encode(t, Float32, 1.5)
	assert.Equal(t, []byte{0x00, 0x00, 0xc0, 0x3f}, b)
	v, err := Float32.Decode(NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), v)

	d, err := Float64.Decode(NewReader(encode(t, Float64, -2.25)))
	require.NoError(t, err)
	assert.Equal(t, -2.25, d)
}

func TestSignedIntegers(t *testing.T) {
	b := encode(t, Int32, -1)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, b)
	v, err := Int64.Decode(NewReader(encode(t, Int64, -42)))
	require.NoError(t, err)
	assert.Equal(t, int64(-42), v)
}

func TestTruncatedInput(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})
	_, err := r.U32()
	assert.ErrorIs(t, err, ErrTruncatedInput)
	assert.Equal(t, 0, r.Offset())

	_, err = Uint16.Decode(NewReader(nil))
	assert.ErrorIs(t, err, ErrTruncatedInput)
}

func TestRequireAndRest(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	require.NoError(t, r.Skip(1))
	assert.NoError(t, r.Require(3))
	assert.ErrorIs(t, r.Require(4), ErrLengthInconsistency)
	assert.ErrorIs(t, r.Require(-1), ErrLengthInconsistency)

	rest := r.Rest()
	assert.Equal(t, []byte{2, 3, 4}, rest)
	assert.Zero(t, r.Len())
	assert.Equal(t, 4, r.Offset())
}

func TestBytesCodec(t *testing.T) {
	c := Bytes(3)
	assert.Equal(t, 3, SizeOf(c))
	assert.Equal(t, []byte{9, 8, 7}, encode(t, c, []byte{9, 8, 7}))

	err := c.Encode(NewWriter(), []byte{1})
	assert.ErrorIs(t, err, ErrLengthInconsistency)
}

func TestRemaining(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	_, _ = r.U8()
	v, err := Remaining.Decode(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3}, v)
	assert.Equal(t, -1, SizeOf(Remaining))
}

func TestWidthOverflow(t *testing.T) {
	assert.Equal(t, uint64(0xff), Width8.Max())
	assert.Equal(t, uint64(0xffff), Width16.Max())
	assert.Equal(t, uint64(0xffffffff), Width32.Max())

	w := NewWriter()
	assert.ErrorIs(t, Width8.Write(w, 256), ErrLengthInconsistency)
	assert.ErrorIs(t, Width16.Write(w, 1<<16), ErrLengthInconsistency)
	assert.Zero(t, w.Len())

	require.NoError(t, Width16.Write(w, 0x1234))
	assert.Equal(t, []byte{0x34, 0x12}, w.Bytes())
}

func TestFixedString(t *testing.T) {
	c := FixedString(8)
	b := encode(t, c, "abc")
	assert.Equal(t, []byte{'a', 'b', 'c', 0, 0, 0, 0, 0}, b)

	v, err := c.Decode(NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	// content after the first NUL is ignored
	v, err = c.Decode(NewReader([]byte{'h', 'i', 0, 'x', 'y', 0, 0, 0}))
	require.NoError(t, err)
	assert.Equal(t, "hi", v)

	assert.NoError(t, c.Encode(NewWriter(), "1234567"))
	assert.ErrorIs(t, c.Encode(NewWriter(), "12345678"), ErrCapacityExceeded)
	assert.ErrorIs(t, c.Encode(NewWriter(), "a\x00b"), ErrEmbeddedNUL)
}

func TestFixedWideString(t *testing.T) {
	c := FixedWideString(4)
	assert.Equal(t, 8, SizeOf(c))

	b := encode(t, c, "ab")
	assert.Equal(t, []byte{'a', 0, 'b', 0, 0, 0, 0, 0}, b)
	v, err := c.Decode(NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, "ab", v)

	// a full region without a terminator still decodes
	v, err = c.Decode(NewReader([]byte{'w', 0, 'x', 0, 'y', 0, 'z', 0}))
	require.NoError(t, err)
	assert.Equal(t, "wxyz", v)

	// but is longer than encode accepts
	assert.ErrorIs(t, c.Encode(NewWriter(), "wxyz"), ErrCapacityExceeded)

	// a NUL would cut the string short on the way back
	w := NewWriter()
	assert.ErrorIs(t, c.Encode(w, "a\x00b"), ErrEmbeddedNUL)
	assert.Equal(t, 0, w.Len())
}

func TestVarWideStringInclusive(t *testing.T) {
	c := VarWideString(Width32, Inclusive)
	b := encode(t, c, "ab")
	assert.Equal(t, []byte{3, 0, 0, 0, 'a', 0, 'b', 0, 0, 0}, b)

	v, err := c.Decode(NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, "ab", v)
}

func TestVarWideStringExclusive(t *testing.T) {
	c := VarWideString(Width16, Exclusive)
	b := encode(t, c, "ab")
	assert.Equal(t, []byte{2, 0, 'a', 0, 'b', 0}, b)

	v, err := c.Decode(NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, "ab", v)
}

func TestVarWideStringZeroPrefix(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 0, 0xaa})
	v, err := VarWideString(Width32, Inclusive).Decode(r)
	require.NoError(t, err)
	assert.Equal(t, "", v)
	assert.Equal(t, 4, r.Offset())

	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0}, encode(t, VarWideString(Width32, Inclusive), ""))
}

func TestVarWideStringDeclaredLengthTooLong(t *testing.T) {
	_, err := VarWideString(Width16, Exclusive).Decode(NewReader([]byte{5, 0, 'a', 0}))
	assert.ErrorIs(t, err, ErrLengthInconsistency)
}

func TestWideStringLossySurrogate(t *testing.T) {
	// lone high surrogate followed by 'a'
	v, err := VarWideString(Width16, Exclusive).Decode(NewReader([]byte{2, 0, 0x00, 0xd8, 'a', 0}))
	require.NoError(t, err)
	assert.Contains(t, v, "�")
	assert.Contains(t, v, "a")
}

func TestWideStringNonASCII(t *testing.T) {
	c := VarWideString(Width16, Exclusive)
	b := encode(t, c, "é😀")
	// one unit for é and a surrogate pair for the emoji
	assert.Equal(t, []byte{3, 0}, b[:2])
	v, err := c.Decode(NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, "é😀", v)
}

func TestVarString(t *testing.T) {
	c := VarString(Width8)
	b := encode(t, c, "hey")
	assert.Equal(t, []byte{3, 'h', 'e', 'y'}, b)
	v, err := c.Decode(NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, "hey", v)

	_, err = c.Decode(NewReader([]byte{9, 'x'}))
	assert.ErrorIs(t, err, ErrLengthInconsistency)
}

func TestDecodeFailurePaths(t *testing.T) {
	inner := DecodeFailure("name", 12, ErrTruncatedInput)
	outer := DecodeFailure("Message", 4, inner)

	var de *DecodeError
	require.True(t, errors.As(outer, &de))
	assert.Equal(t, "Message.name", de.Path)
	assert.Equal(t, 12, de.Offset)
	assert.ErrorIs(t, outer, ErrTruncatedInput)

	indexed := DecodeFailure("list", 0, DecodeFailure("[2]", 7, ErrTruncatedInput))
	require.True(t, errors.As(indexed, &de))
	assert.Equal(t, "list[2]", de.Path)
}

func TestEncodeFailurePaths(t *testing.T) {
	err := EncodeFailure("outer", EncodeFailure("inner", ErrCapacityExceeded))
	var ee *EncodeError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "outer.inner", ee.Path)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}
