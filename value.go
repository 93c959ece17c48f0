package tlvpack

import (
	"fmt"
	"strconv"
)

// Kind is the shape of a parsed JSON value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindReal
	KindString

	// KindArray and KindObject are recognized by the parser but cannot be
	// packed; fields holding them are omitted from the record.
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "boolean",
	KindInt:    "integer",
	KindReal:   "real",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a single JSON value. Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	Bool bool
	Int  int64
	Real float64
	Str  string
}

func Null() Value { return Value{Kind: KindNull} }
func Bool(v bool) Value { return Value{Kind: KindBool, Bool: v} }
func Int(v int64) Value { return Value{Kind: KindInt, Int: v} }
func Real(v float64) Value { return Value{Kind: KindReal, Real: v} }
func String(v string) Value { return Value{Kind: KindString, Str: v} }
func unsupported(k Kind) Value { return Value{Kind: k} }

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.Str)
	case KindArray:
		return "[...]"
	case KindObject:
		return "{...}"
	default:
		panic(fmt.Errorf("invalid value kind %d", v.Kind))
	}
}

// Field is one key/value pair of a JSON object, in source order.
type Field struct {
	Key   string
	Value Value
}
