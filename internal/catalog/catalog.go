// Package catalog records packed output files, their key dictionaries and
// checksums in a Bolt database, so that tooling can find the key set of a
// packed file without reading it.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

var entriesBucket = []byte("packed")

var ErrInvalidEntry = errors.New("invalid catalog entry")

// Entry describes one packed output file.
type Entry struct {
	Path          string    `msgpack:"p"`
	Input         string    `msgpack:"i"`
	Records       int       `msgpack:"r"`
	SkippedLines  int       `msgpack:"sl"`
	SkippedFields int       `msgpack:"sf"`
	Size          int64     `msgpack:"sz"`
	Checksum      uint64    `msgpack:"x"`
	Keys          []string  `msgpack:"k"` // index order
	Time          time.Time `msgpack:"tm"`
}

type Options struct {
	Timeout   time.Duration
	IsTesting bool
}

type Catalog struct {
	bdb *bbolt.DB
}

func Open(path string, opt Options) (*Catalog, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = opt.Timeout
	if bopt.Timeout == 0 {
		bopt.Timeout = 10 * time.Second
	}
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	err = bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(entriesBucket)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return &Catalog{bdb: bdb}, nil
}

func (c *Catalog) Close() error {
	return c.bdb.Close()
}

// Put stores e under e.Path, replacing any earlier entry for that path.
func (c *Catalog) Put(e Entry) error {
	if e.Path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidEntry)
	}
	raw, err := encodeEntry(&e)
	if err != nil {
		return err
	}
	return c.bdb.Update(func(btx *bbolt.Tx) error {
		return btx.Bucket(entriesBucket).Put([]byte(e.Path), raw)
	})
}

// Get returns the entry recorded for path.
func (c *Catalog) Get(path string) (Entry, bool, error) {
	var e Entry
	var found bool
	err := c.bdb.View(func(btx *bbolt.Tx) error {
		raw := btx.Bucket(entriesBucket).Get([]byte(path))
		if raw == nil {
			return nil
		}
		found = true
		return decodeEntry(raw, &e)
	})
	return e, found, err
}

// List returns all entries ordered by path.
func (c *Catalog) List() ([]Entry, error) {
	var result []Entry
	err := c.bdb.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(entriesBucket).ForEach(func(k, v []byte) error {
			var e Entry
			if err := decodeEntry(v, &e); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			result = append(result, e)
			return nil
		})
	})
	return result, err
}

func encodeEntry(e *Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	enc.Reset(&buf)
	enc.SetSortMapKeys(true)
	err := enc.Encode(e)
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to encode entry %q: %w", e.Path, err)
	}
	return buf.Bytes(), nil
}

func decodeEntry(raw []byte, e *Entry) error {
	var r bytes.Reader
	r.Reset(raw)
	dec := msgpack.GetDecoder()
	dec.Reset(&r)
	err := dec.Decode(e)
	msgpack.PutDecoder(dec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return nil
}
