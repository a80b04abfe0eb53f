package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Writer accumulates an outgoing frame.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded frame.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the current frame size.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Write appends raw bytes.
func (w *Writer) Write(b []byte) {
	w.buf.Write(b)
}

// Zero appends n zero bytes.
func (w *Writer) Zero(n int) {
	for i := 0; i < n; i++ {
		w.buf.WriteByte(0)
	}
}

func (w *Writer) U8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *Writer) U16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) U32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) U64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// Bool writes 1 for true and 0 for false.
func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
		return
	}
	w.U8(0)
}

func (w *Writer) F32(v float32) {
	w.U32(math.Float32bits(v))
}

func (w *Writer) F64(v float64) {
	w.U64(math.Float64bits(v))
}

// String returns a hex dump of the current frame for debugging.
func (w *Writer) String() string {
	return fmt.Sprintf("Writer[%d bytes]: %x", w.buf.Len(), w.buf.Bytes())
}
