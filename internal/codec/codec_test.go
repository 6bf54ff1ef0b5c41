package codec

import (
	"bytes"
	"testing"
)

func TestReaderPrimitivesRoundTrip(t *testing.T) {
	w := NewWriter()
	w.U8(0xAB)
	w.I8(-5)
	w.Bool(true)
	w.U16(0xBEEF)
	w.I32(-123456)
	w.I64(-9001)
	w.F32(3.5)
	w.F64(2.71828)
	w.String("héllo")

	r := NewReader(w.Bytes())
	if v, err := r.U8(); err != nil || v != 0xAB {
		t.Fatalf("U8: %v %v", v, err)
	}
	if v, err := r.I8(); err != nil || v != -5 {
		t.Fatalf("I8: %v %v", v, err)
	}
	if v, err := r.Bool(); err != nil || v != true {
		t.Fatalf("Bool: %v %v", v, err)
	}
	if v, err := r.U16(); err != nil || v != 0xBEEF {
		t.Fatalf("U16: %v %v", v, err)
	}
	if v, err := r.I32(); err != nil || v != -123456 {
		t.Fatalf("I32: %v %v", v, err)
	}
	if v, err := r.I64(); err != nil || v != -9001 {
		t.Fatalf("I64: %v %v", v, err)
	}
	if v, err := r.F32(); err != nil || v != 3.5 {
		t.Fatalf("F32: %v %v", v, err)
	}
	if v, err := r.F64(); err != nil || v != 2.71828 {
		t.Fatalf("F64: %v %v", v, err)
	}
	if v, err := r.String(); err != nil || v != "héllo" {
		t.Fatalf("String: %v %v", v, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected buffer fully consumed, %d bytes left", r.Remaining())
	}
}

// TestStringReplacesInvalidUTF8 covers spec §4.1: invalid byte sequences
// are lossily replaced rather than reinterpreted verbatim or rejected,
// matching the original's String::from_utf8_lossy.
func TestStringReplacesInvalidUTF8(t *testing.T) {
	w := NewWriter()
	w.U16(3)
	w.Raw([]byte{'h', 0xFF, 'i'})

	r := NewReader(w.Bytes())
	v, err := r.String()
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if v != "h�i" {
		t.Fatalf("String: got %q, want %q", v, "h�i")
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected buffer fully consumed, %d bytes left", r.Remaining())
	}
}

// TestShortReadDoesNotAdvance covers spec invariant 2: decoding a strict
// prefix of any encoded value must yield ErrShortBuffer without moving the
// cursor, so the caller can retry once more bytes arrive.
func TestShortReadDoesNotAdvance(t *testing.T) {
	w := NewWriter()
	w.String("abcdef")
	full := w.Bytes()

	for n := 0; n < len(full); n++ {
		r := NewReader(full[:n])
		if _, err := r.String(); err != ErrShortBuffer {
			t.Fatalf("prefix len %d: expected ErrShortBuffer, got %v", n, err)
		}
		if r.Pos() != 0 {
			t.Fatalf("prefix len %d: cursor advanced to %d on short read", n, r.Pos())
		}
	}
}

func TestShortFixedWidthReads(t *testing.T) {
	cases := []struct {
		name string
		fn   func(r *Reader) error
		n    int
	}{
		{"U16", func(r *Reader) error { _, err := r.U16(); return err }, 2},
		{"I32", func(r *Reader) error { _, err := r.I32(); return err }, 4},
		{"I64", func(r *Reader) error { _, err := r.I64(); return err }, 8},
	}
	for _, c := range cases {
		for n := 0; n < c.n; n++ {
			r := NewReader(bytes.Repeat([]byte{0xFF}, n))
			if err := c.fn(r); err != ErrShortBuffer {
				t.Fatalf("%s short by %d: expected ErrShortBuffer, got %v", c.name, c.n-n, err)
			}
			if r.Pos() != 0 {
				t.Fatalf("%s short by %d: cursor moved", c.name, c.n-n)
			}
		}
	}
}

func TestSkip(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	if err := r.Skip(2); err != nil {
		t.Fatal(err)
	}
	if v, _ := r.U8(); v != 3 {
		t.Fatalf("expected 3, got %d", v)
	}
	if err := r.Skip(5); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}
