package tlvpack

import (
	"math"
	"reflect"
	"testing"
)

func TestBytesBuilder_Basics(t *testing.T) {
	var bb bytesBuilder
	off := bb.Grow(3)
	copy(bb.Buf[off:], []byte{1, 2, 3})
	bb.AppendByte(4)
	if !reflect.DeepEqual(bb.Buf, []byte{1, 2, 3, 4}) {
		t.Fatalf("bb.Buf = %x, wanted 01020304", bb.Buf)
	}
	if bb.Len() != 4 {
		t.Fatalf("bb.Len() = %d, wanted 4", bb.Len())
	}

	bb.Trim(2)
	if !reflect.DeepEqual(bb.Buf, []byte{1, 2}) {
		t.Fatalf("after Trim: bb.Buf = %x, wanted 0102", bb.Buf)
	}


	c := cap(bb.Buf)
	bb.Reset()
	if bb.Len() != 0 || cap(bb.Buf) != c {
		t.Fatalf("after Reset: len=%d cap=%d, wanted len=0 cap=%d", bb.Len(), cap(bb.Buf), c)
	}
}

func TestEnsureCapacity(t *testing.T) {
	buf := ensureCapacity([]byte{1}, 100)
	if cap(buf) < 100 || !reflect.DeepEqual(buf, []byte{1}) {
		t.Fatalf("ensureCapacity = %x cap %d, wanted 01 cap >= 100", buf, cap(buf))
	}
	same := ensureCapacity(buf, 10)
	if &same[0] != &buf[0] {
		t.Fatalf("ensureCapacity reallocated a large enough buffer")
	}
}

func TestAppendUint8(t *testing.T) {
	buf := appendUint8([]byte{0xAA}, 0x7F)
	if !reflect.DeepEqual(buf, []byte{0xAA, 0x7F}) {
		t.Fatalf("appendUint8 = %x, wanted aa7f", buf)
	}
}

func TestAppendUint64_LittleEndian(t *testing.T) {
	got := appendUint64(nil, 0x0102030405060708)
	want := []byte{8, 7, 6, 5, 4, 3, 2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("appendUint64 = %x, wanted %x", got, want)
	}
}

func TestAppendFloat64(t *testing.T) {
	got := appendFloat64(nil, 2.5)
	want := []byte{0, 0, 0, 0, 0, 0, 0x04, 0x40}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("appendFloat64(2.5) = %x, wanted %x", got, want)
	}
	got = appendFloat64(nil, math.Inf(-1))
	want = []byte{0, 0, 0, 0, 0, 0, 0xF0, 0xFF}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("appendFloat64(-Inf) = %x, wanted %x", got, want)
	}
}

func TestAppendVarstring(t *testing.T) {
	got := appendVarstring([]byte{9}, "abc")
	if !reflect.DeepEqual(got, []byte{9, 3, 'a', 'b', 'c'}) {
		t.Fatalf("appendVarstring = %x, wanted 0903616263", got)
	}
	got = appendVarstring(nil, "")
	if !reflect.DeepEqual(got, []byte{0}) {
		t.Fatalf("appendVarstring(\"\") = %x, wanted 00", got)
	}
}

func TestAppendVarstring_PanicsOnOverflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	appendVarstring(nil, string(make([]byte, MaxLen+1)))
}
