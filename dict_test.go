package tlvpack

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestDictionary_Intern(t *testing.T) {
	d := newDictionary()
	for _, tc := range []struct {
		key   string
		idx   byte
		added bool
	}{
		{"b", 0, true},
		{"a", 1, true},
		{"b", 0, false},
		{"c", 2, true},
		{"a", 1, false},
	} {
		idx, added, err := d.intern(tc.key)
		if err != nil {
			t.Fatalf("intern(%q) failed: %v", tc.key, err)
		}
		if idx != tc.idx || added != tc.added {
			t.Fatalf("intern(%q) = (%d, %v), wanted (%d, %v)", tc.key, idx, added, tc.idx, tc.added)
		}
	}
	if d.size() != 3 {
		t.Fatalf("size = %d, wanted 3", d.size())
	}
	deepEq(t, d.keys, []string{"b", "a", "c"})
	deepEq(t, d.sortedKeys(), []string{"a", "b", "c"})
}

func TestDictionary_TooManyKeys(t *testing.T) {
	d := newDictionary()
	for i := 0; i < MaxKeys; i++ {
		idx, _, err := d.intern(fmt.Sprintf("k%d", i))
		if err != nil {
			t.Fatalf("intern #%d failed: %v", i, err)
		}
		if int(idx) != i {
			t.Fatalf("intern #%d = %d", i, idx)
		}
	}
	_, _, err := d.intern("one-too-many")
	if !errors.Is(err, ErrTooManyKeys) || !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("intern over capacity err = %v, wanted ErrTooManyKeys", err)
	}
	if d.size() != MaxKeys {
		t.Fatalf("size = %d, wanted %d", d.size(), MaxKeys)
	}

	idx, added, err := d.intern("k7")
	if err != nil || idx != 7 || added {
		t.Fatalf("intern(existing) at capacity = (%d, %v, %v), wanted (7, false, nil)", idx, added, err)
	}
}

func TestDictionary_KeyTooLong(t *testing.T) {
	d := newDictionary()
	_, _, err := d.intern(strings.Repeat("k", MaxLen))
	if err != nil {
		t.Fatalf("intern(max length key) failed: %v", err)
	}
	_, _, err = d.intern(strings.Repeat("k", MaxLen+1))
	if !errors.Is(err, ErrKeyTooLong) {
		t.Fatalf("intern(long key) err = %v, wanted ErrKeyTooLong", err)
	}
	if d.size() != 1 {
		t.Fatalf("size = %d, wanted 1", d.size())
	}
}

func TestDictionary_Truncate(t *testing.T) {
	d := newDictionary()
	for _, k := range []string{"a", "b", "c", "d"} {
		_, _, _ = d.intern(k)
	}
	d.truncate(2)
	deepEq(t, d.keys, []string{"a", "b"})
	if _, ok := d.indices["c"]; ok {
		t.Fatalf("truncated key c still indexed")
	}

	idx, added, _ := d.intern("d")
	if idx != 2 || !added {
		t.Fatalf("intern after truncate = (%d, %v), wanted (2, true)", idx, added)
	}
	idx, added, _ = d.intern("a")
	if idx != 0 || added {
		t.Fatalf("intern(a) after truncate = (%d, %v), wanted (0, false)", idx, added)
	}
}

func TestDictionary_AppendBlock(t *testing.T) {
	d := newDictionary()
	for _, k := range []string{"zz", "a", "mm"} {
		_, _, _ = d.intern(k)
	}
	got := d.appendBlock(nil)
	want := []byte{
		TagDictionary, 3,
		1, 1, 'a',
		2, 2, 'm', 'm',
		0, 2, 'z', 'z',
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("appendBlock = %x, wanted %x", got, want)
	}

	empty := newDictionary().appendBlock(nil)
	if !reflect.DeepEqual(empty, []byte{TagDictionary, 0}) {
		t.Fatalf("empty appendBlock = %x, wanted 0500", empty)
	}
}

func deepEq[T any](t testing.TB, a, e T) bool {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
		return false
	}
	return true
}
