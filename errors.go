package tlvpack

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrClosed           = errors.New("tlvpack: packer is closed")
	ErrMalformedLine    = errors.New("malformed line")
	ErrUnsupportedValue = errors.New("unsupported value type")
	ErrCapacityExceeded = errors.New("capacity exceeded")

	ErrTooManyKeys  = fmt.Errorf("too many distinct keys: %w", ErrCapacityExceeded)
	ErrKeyTooLong   = fmt.Errorf("key too long: %w", ErrCapacityExceeded)
	ErrValueTooLong = fmt.Errorf("string value too long: %w", ErrCapacityExceeded)
)

// LineError describes a problem with one input line. Skipped is true when
// nothing was written for the line; otherwise the record was written with
// the offending fields omitted.
type LineError struct {
	Line    []byte
	Skipped bool
	Msg     string
	Err     error
}

func lineErrf(line []byte, skipped bool, err error, format string, args ...any) error {
	return &LineError{bytes.Clone(line), skipped, fmt.Sprintf(format, args...), err}
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func (e *LineError) Error() string {
	const prefixLen = 48
	const suffixLen = 16
	var buf strings.Builder
	buf.WriteString(e.Msg)
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	n := len(e.Line)
	if n <= prefixLen+suffixLen {
		fmt.Fprintf(&buf, ": (%d) %q", n, e.Line)
	} else {
		fmt.Fprintf(&buf, ": (%d) %q...%q", n, e.Line[:prefixLen], e.Line[n-suffixLen:])
	}
	return buf.String()
}

// FieldError describes a field that could not be packed.
type FieldError struct {
	Key  string
	Kind Kind
	Err  error
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func (e *FieldError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%q", e.Key)
	buf.WriteString(" (")
	buf.WriteString(e.Kind.String())
	buf.WriteString(")")
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}
