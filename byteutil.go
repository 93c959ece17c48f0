package tlvpack

import (
	"encoding/binary"
	"math"
)

func ensureCapacity(buf []byte, minCap int) []byte {
	c := cap(buf)
	if minCap > c {
		if c < 16 {
			c = 16
		}
		for minCap > c {
			c <<= 1
		}
		old := buf
		buf = make([]byte, len(old), c)
		copy(buf, old)
	}
	return buf
}

func grow(buf []byte, n int) (int, []byte) {
	off := len(buf)
	newLen := off + n
	buf = ensureCapacity(buf, newLen)
	return off, buf[:newLen]
}

func appendUint8(buf []byte, v uint8) []byte {
	off, buf := grow(buf, 1)
	buf[off] = v
	return buf
}

// appendUint64 writes v as 8 little-endian bytes. All fixed-width
// multi-byte fields of the packed format use this byte order.
func appendUint64(buf []byte, v uint64) []byte {
	off, buf := grow(buf, 8)
	binary.LittleEndian.PutUint64(buf[off:], v)
	return buf
}

func appendFloat64(buf []byte, v float64) []byte {
	return appendUint64(buf, math.Float64bits(v))
}

// appendVarstring writes a one-byte length followed by the bytes of s.
// Callers check len(s) <= MaxLen.
func appendVarstring(buf []byte, s string) []byte {
	if len(s) > MaxLen {
		panic("appendVarstring: string too long")
	}
	off, buf := grow(buf, 1+len(s))
	buf[off] = byte(len(s))
	copy(buf[off+1:], s)
	return buf
}

type bytesBuilder struct {
	Buf []byte
}

func (bb *bytesBuilder) Reset() {
	bb.Buf = bb.Buf[:0]
}

func (bb *bytesBuilder) Len() int {
	return len(bb.Buf)
}

func (bb *bytesBuilder) Grow(n int) (off int) {
	off, bb.Buf = grow(bb.Buf, n)
	return
}

func (bb *bytesBuilder) Trim(off int) {
	bb.Buf = bb.Buf[:off]
}

func (bb *bytesBuilder) AppendByte(v byte) {
	off := bb.Grow(1)
	bb.Buf[off] = v
}
