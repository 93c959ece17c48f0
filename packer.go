package tlvpack

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

type Options struct {
	Context   context.Context
	DebugName string // defaults to the output path, or "tlvpack"
	Logger    *slog.Logger
	Verbose   bool // log every newly interned key at debug level
}

// Packer converts JSON object lines into packed records and appends the key
// dictionary when closed. A Packer is not safe for concurrent use.
type Packer struct {
	context   context.Context
	debugName string
	logger    *slog.Logger
	verbose   bool

	sink     *sinkWriter
	out      *bufio.Writer
	closer   io.Closer
	closed   bool
	writeErr error

	dict  *dictionary
	rec   record
	stats Stats
}

// record is the encoded form of one line before it is written.
// ends holds the end offset of every pair within buf.
type record struct {
	buf       bytesBuilder
	ends      []int
	fieldErrs []error
}

func (r *record) reset() {
	r.buf.Reset()
	r.ends = r.ends[:0]
	r.fieldErrs = nil
}

// Create truncates or creates the file at path and returns a Packer
// writing into it.
func Create(path string, o Options) (*Packer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("tlvpack: %w", err)
	}
	if o.DebugName == "" {
		o.DebugName = path
	}
	return New(f, o), nil
}

// New returns a Packer writing to w. If w is an io.Closer, Close closes it.
func New(w io.Writer, o Options) *Packer {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.DebugName == "" {
		o.DebugName = "tlvpack"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	sink := newSinkWriter(w)
	p := &Packer{
		context:   o.Context,
		debugName: o.DebugName,
		logger:    o.Logger,
		verbose:   o.Verbose,
		sink:      sink,
		out:       bufio.NewWriter(sink),
		dict:      newDictionary(),
	}
	if c, ok := w.(io.Closer); ok {
		p.closer = c
	}
	return p
}

func (p *Packer) String() string {
	return p.debugName
}

// AppendString is Append for string input.
func (p *Packer) AppendString(line string) error {
	return p.Append([]byte(line))
}

// Append packs one line holding a JSON object.
//
// A line that is not a JSON object, or that would exceed the format's
// limits, is skipped entirely and Append returns a *LineError with Skipped
// set. Fields holding arrays or objects are left out of the record, which
// is still written; Append then returns a *LineError joining a *FieldError
// per omitted field. After Close, Append returns ErrClosed. Write failures
// are returned as is and repeated by every later call.
func (p *Packer) Append(line []byte) error {
	if p.closed {
		return ErrClosed
	}
	if p.writeErr != nil {
		return p.writeErr
	}

	fields, err := ParseLine(line)
	if err != nil {
		p.stats.SkippedLines++
		return lineErrf(line, true, err, "skipped line")
	}

	mark := p.dict.size()
	err = p.encodeRecord(fields)
	if err != nil {
		p.dict.truncate(mark)
		p.stats.SkippedLines++
		return lineErrf(line, true, err, "skipped line")
	}
	if p.verbose {
		for i, key := range p.dict.keys[mark:] {
			p.logger.LogAttrs(p.context, slog.LevelDebug, "tlvpack: new key", slog.String("out", p.debugName), slog.String("key", key), slog.Int("index", mark+i))
		}
	}

	err = p.writeRecord()
	if err != nil {
		return err
	}
	p.stats.Records++
	p.stats.Fields += len(p.rec.ends)

	if n := len(p.rec.fieldErrs); n > 0 {
		p.stats.SkippedFields += n
		return lineErrf(line, false, errors.Join(p.rec.fieldErrs...), "omitted %d field(s)", n)
	}
	return nil
}

// encodeRecord interns the keys of fields and encodes the pairs into
// p.rec. On error the caller rolls back the dictionary.
func (p *Packer) encodeRecord(fields []Field) error {
	r := &p.rec
	r.reset()
	for _, f := range fields {
		idx, _, err := p.dict.intern(f.Key)
		if err != nil {
			return &FieldError{f.Key, f.Value.Kind, err}
		}

		off := r.buf.Len()
		r.buf.Buf = ensureCapacity(r.buf.Buf, off+1+encodedSize(f.Value))
		r.buf.AppendByte(idx)
		r.buf.Buf, err = appendValue(r.buf.Buf, f.Value)
		if errors.Is(err, ErrUnsupportedValue) {
			r.buf.Trim(off)
			r.fieldErrs = append(r.fieldErrs, &FieldError{f.Key, f.Value.Kind, err})
			continue
		} else if err != nil {
			return &FieldError{f.Key, f.Value.Kind, err}
		}
		r.ends = append(r.ends, r.buf.Len())
	}
	return nil
}

// writeRecord writes p.rec between record delimiters, flushing after
// every pair.
func (p *Packer) writeRecord() error {
	r := &p.rec
	_ = p.out.WriteByte(recordStart)
	start := 0
	for _, end := range r.ends {
		_, _ = p.out.Write(r.buf.Buf[start:end])
		start = end
		if err := p.out.Flush(); err != nil {
			return p.fail(err)
		}
	}
	_ = p.out.WriteByte(recordEnd)
	if err := p.out.Flush(); err != nil {
		return p.fail(err)
	}
	return nil
}

func (p *Packer) fail(err error) error {
	p.writeErr = fmt.Errorf("tlvpack: %s: write failed: %w", p.debugName, err)
	p.logger.LogAttrs(p.context, slog.LevelError, "tlvpack: failed", slog.String("out", p.debugName), slog.Any("err", err))
	return p.writeErr
}

// Close writes the dictionary block, flushes the output and closes it.
// Calling Close again does nothing and returns nil.
func (p *Packer) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	err := p.writeErr
	if err == nil {
		p.rec.reset()
		p.rec.buf.Buf = p.dict.appendBlock(p.rec.buf.Buf)
		_, _ = p.out.Write(p.rec.buf.Buf)
		if ferr := p.out.Flush(); ferr != nil {
			err = p.fail(ferr)
		}
	}
	if p.closer != nil {
		if cerr := p.closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("tlvpack: %s: %w", p.debugName, cerr)
		}
	}

	if p.verbose {
		s := p.Stats()
		p.logger.LogAttrs(p.context, slog.LevelDebug, "tlvpack: closed", slog.String("out", p.debugName), slog.Int("records", s.Records), slog.Int("keys", s.Keys), slog.Int64("size", s.Size))
	}
	return err
}

// Keys returns the interned keys; the key at position i has index i.
func (p *Packer) Keys() []string {
	return append([]string(nil), p.dict.keys...)
}

func (p *Packer) Stats() Stats {
	s := p.stats
	s.Keys = p.dict.size()
	s.Size = p.sink.n
	s.Checksum = p.sink.hash.Sum64()
	return s
}
