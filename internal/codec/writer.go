package codec

import (
	"bytes"
	"math"
)

// Writer accumulates an outbound packet payload in the Beta wire format.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// U8 appends an unsigned byte.
func (w *Writer) U8(v uint8) { w.buf.WriteByte(v) }

// I8 appends a signed byte.
func (w *Writer) I8(v int8) { w.buf.WriteByte(byte(v)) }

// Bool appends a boolean as a single byte.
func (w *Writer) Bool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// U16 appends a big-endian unsigned 16-bit integer.
func (w *Writer) U16(v uint16) {
	w.buf.WriteByte(byte(v >> 8))
	w.buf.WriteByte(byte(v))
}

// I16 appends a big-endian signed 16-bit integer.
func (w *Writer) I16(v int16) { w.U16(uint16(v)) }

// I32 appends a big-endian signed 32-bit integer.
func (w *Writer) I32(v int32) {
	u := uint32(v)
	w.buf.WriteByte(byte(u >> 24))
	w.buf.WriteByte(byte(u >> 16))
	w.buf.WriteByte(byte(u >> 8))
	w.buf.WriteByte(byte(u))
}

// U64 appends a big-endian unsigned 64-bit integer.
func (w *Writer) U64(v uint64) {
	for i := 7; i >= 0; i-- {
		w.buf.WriteByte(byte(v >> (8 * uint(i))))
	}
}

// I64 appends a big-endian signed 64-bit integer.
func (w *Writer) I64(v int64) { w.U64(uint64(v)) }

// F32 appends a big-endian IEEE-754 single-precision float.
func (w *Writer) F32(v float32) { w.I32(int32(math.Float32bits(v))) }

// F64 appends a big-endian IEEE-754 double-precision float.
func (w *Writer) F64(v float64) { w.U64(math.Float64bits(v)) }

// String appends a u16-length-prefixed UTF-8 string.
func (w *Writer) String(s string) {
	w.U16(uint16(len(s)))
	w.buf.WriteString(s)
}

// Raw appends bytes verbatim, with no length prefix.
func (w *Writer) Raw(b []byte) { w.buf.Write(b) }
