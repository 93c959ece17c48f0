package tlvpack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// ParseLine parses a single JSON object and returns its fields in source
// order. Duplicate keys are kept. Arrays and nested objects are returned
// as KindArray/KindObject values without their contents.
//
// Any error returned wraps ErrMalformedLine.
func ParseLine(line []byte) ([]Field, error) {
	// The tokenizer does not check the separators between tokens.
	if !gojson.Valid(line) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedLine)
	}

	dec := gojson.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(err)
	}
	if d, ok := tok.(gojson.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformedLine)
	}

	var fields []Field
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		if d, ok := tok.(gojson.Delim); ok && d == '}' {
			break
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected object key, got %v", ErrMalformedLine, tok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return nil, malformed(err)
		}
		fields = append(fields, Field{key, val})
	}

	_, err = dec.Token()
	if err == nil {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedLine)
	} else if !errors.Is(err, io.EOF) {
		return nil, malformed(err)
	}
	return fields, nil
}

func malformed(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %v", ErrMalformedLine, err)
}

func parseValue(dec *gojson.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case gojson.Number:
		return parseNumber(string(t))
	case float64:
		return Real(t), nil
	case gojson.Delim:
		switch t {
		case '[':
			return unsupported(KindArray), skipComposite(dec)
		case '{':
			return unsupported(KindObject), skipComposite(dec)
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// parseNumber keeps integers that fit int64 as integers; anything with a
// fraction or an exponent, or too large for int64, becomes a real.
// Numbers outside the float64 range are rejected.
func parseNumber(s string) (Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(v), nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q", s)
	}
	return Real(v), nil
}

// skipComposite consumes tokens up to and including the delimiter closing
// an array or object whose opening delimiter has already been read.
func skipComposite(dec *gojson.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(gojson.Delim); ok {
			switch d {
			case '[', '{':
				depth++
			case ']', '}':
				depth--
			}
		}
	}
	return nil
}
