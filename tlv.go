package tlvpack

import (
	"fmt"
	"math"
)

// Type tags.
const (
	TagNull       byte = 0
	TagBool       byte = 1
	TagInt        byte = 2
	TagReal       byte = 3
	TagString     byte = 4
	TagDictionary byte = 5
)

const (
	// MaxLen is the largest value of a length field.
	MaxLen = math.MaxUint8

	// MaxKeys is the number of distinct keys a single output can hold.
	// Indices run from 0 to MaxKeys-1 so the dictionary count fits one byte.
	MaxKeys = math.MaxUint8

	recordStart byte = '{'
	recordEnd   byte = '}'

	boolSize = 1
	intSize  = 8
	realSize = 8
)

// appendValue writes v in type-length-value form. Unsupported kinds and
// oversized strings append nothing and return an error.
func appendValue(buf []byte, v Value) ([]byte, error) {
	switch v.Kind {
	case KindNull:
		buf = appendUint8(buf, TagNull)
	case KindBool:
		buf = appendUint8(buf, TagBool)
		buf = appendUint8(buf, boolSize)
		if v.Bool {
			buf = appendUint8(buf, 1)
		} else {
			buf = appendUint8(buf, 0)
		}
	case KindInt:
		buf = appendUint8(buf, TagInt)
		buf = appendUint8(buf, intSize)
		buf = appendUint64(buf, uint64(v.Int))
	case KindReal:
		buf = appendUint8(buf, TagReal)
		buf = appendUint8(buf, realSize)
		buf = appendFloat64(buf, v.Real)
	case KindString:
		if len(v.Str) > MaxLen {
			return buf, fmt.Errorf("%w: %d bytes, at most %d allowed", ErrValueTooLong, len(v.Str), MaxLen)
		}
		buf = appendUint8(buf, TagString)
		buf = appendVarstring(buf, v.Str)
	case KindArray, KindObject:
		return buf, ErrUnsupportedValue
	default:
		panic(fmt.Errorf("invalid value kind %d", v.Kind))
	}
	return buf, nil
}

// encodedSize is the number of bytes appendValue writes for a supported v.
func encodedSize(v Value) int {
	switch v.Kind {
	case KindNull:
		return 1
	case KindBool:
		return 2 + boolSize
	case KindInt:
		return 2 + intSize
	case KindReal:
		return 2 + realSize
	case KindString:
		return 2 + len(v.Str)
	default:
		return 0
	}
}
