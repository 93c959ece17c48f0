package tlvpack

import (
	"fmt"
	"sort"
)

// dictionary assigns indices to keys in order of first appearance.
// Indices are never reused or reassigned; len(keys) is the next index.
type dictionary struct {
	indices map[string]byte
	keys    []string
}

func newDictionary() *dictionary {
	return &dictionary{
		indices: make(map[string]byte),
	}
}

func (d *dictionary) size() int {
	return len(d.keys)
}

// intern returns the index of key, assigning the next one if key is new.
func (d *dictionary) intern(key string) (idx byte, added bool, err error) {
	if idx, ok := d.indices[key]; ok {
		return idx, false, nil
	}
	if len(key) > MaxLen {
		return 0, false, fmt.Errorf("%w: %d bytes, at most %d allowed", ErrKeyTooLong, len(key), MaxLen)
	}
	n := len(d.keys)
	if n >= MaxKeys {
		return 0, false, fmt.Errorf("%w: at most %d allowed", ErrTooManyKeys, MaxKeys)
	}
	idx = byte(n)
	d.indices[key] = idx
	d.keys = append(d.keys, key)
	return idx, true, nil
}

// truncate forgets every key interned after the dictionary had n entries.
func (d *dictionary) truncate(n int) {
	if n > len(d.keys) {
		panic(fmt.Errorf("truncate(%d) of dictionary with %d keys", n, len(d.keys)))
	}
	for _, key := range d.keys[n:] {
		delete(d.indices, key)
	}
	clear(d.keys[n:])
	d.keys = d.keys[:n]
}

// sortedKeys returns keys in ascending byte order, the order of the
// dictionary block.
func (d *dictionary) sortedKeys() []string {
	result := make([]string, len(d.keys))
	copy(result, d.keys)
	sort.Strings(result)
	return result
}

// appendBlock writes the dictionary block: tag, count, then
// (index, key length, key bytes) per key in sorted key order.
func (d *dictionary) appendBlock(buf []byte) []byte {
	n := len(d.keys)
	if n > MaxKeys {
		panic("internal error: dictionary overflow")
	}
	buf = appendUint8(buf, TagDictionary)
	buf = appendUint8(buf, uint8(n))
	for _, key := range d.sortedKeys() {
		buf = appendUint8(buf, d.indices[key])
		buf = appendVarstring(buf, key)
	}
	return buf
}
