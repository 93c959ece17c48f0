package tlvpack

import (
	"io"

	"github.com/cespare/xxhash/v2"
)

// Stats summarizes what a Packer has written so far.
type Stats struct {
	Records       int // records written
	Fields        int // pairs written across all records
	SkippedLines  int // lines that produced no output
	SkippedFields int // fields omitted from written records
	Keys          int // distinct keys interned

	Size     int64  // bytes written to the sink
	Checksum uint64 // xxhash64 of the bytes written to the sink
}

// sinkWriter counts and hashes everything passed to the underlying writer.
type sinkWriter struct {
	w    io.Writer
	n    int64
	hash *xxhash.Digest
}

func newSinkWriter(w io.Writer) *sinkWriter {
	return &sinkWriter{w: w, hash: xxhash.New()}
}

func (sw *sinkWriter) Write(b []byte) (int, error) {
	n, err := sw.w.Write(b)
	if n > 0 {
		sw.n += int64(n)
		_, _ = sw.hash.Write(b[:n])
	}
	return n, err
}
