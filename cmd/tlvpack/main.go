// Tlvpack packs a file of newline-delimited JSON objects into the tlvpack
// binary format.
//
// Usage:
//
//	tlvpack [flags] INPUT OUTPUT
//
// The flags are:
//
//	-catalog=FILE
//	    record the packed output in the given catalog database
//	-v
//	    log every new key and a summary at debug level
//
// Lines that cannot be packed are logged and skipped; they do not change
// the exit status.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/andreyvit/tlvpack"
	"github.com/andreyvit/tlvpack/internal/catalog"
)

const maxLineSize = 64 * 1024 * 1024

var (
	catalogPath = flag.String("catalog", "", "record the packed output in this catalog database")
	verbose     = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] INPUT OUTPUT\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := context.Background()

	err := run(ctx, logger, flag.Arg(0), flag.Arg(1), *catalogPath, *verbose)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "tlvpack: failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, inPath, outPath, catalogPath string, verbose bool) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	p, err := tlvpack.Create(outPath, tlvpack.Options{
		Context: ctx,
		Logger:  logger,
		Verbose: verbose,
	})
	if err != nil {
		return err
	}

	err = pack(ctx, logger, p, in)
	if cerr := p.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	stats := p.Stats()
	logger.LogAttrs(ctx, slog.LevelInfo, "tlvpack: done",
		slog.String("in", inPath),
		slog.String("out", outPath),
		slog.Int("records", stats.Records),
		slog.Int("skipped_lines", stats.SkippedLines),
		slog.Int("skipped_fields", stats.SkippedFields),
		slog.Int("keys", stats.Keys),
		slog.Int64("size", stats.Size),
		slog.String("xxhash", fmt.Sprintf("%016x", stats.Checksum)))

	if catalogPath == "" {
		return nil
	}
	return record(catalogPath, catalog.Entry{
		Path:          outPath,
		Input:         inPath,
		Records:       stats.Records,
		SkippedLines:  stats.SkippedLines,
		SkippedFields: stats.SkippedFields,
		Size:          stats.Size,
		Checksum:      stats.Checksum,
		Keys:          p.Keys(),
		Time:          time.Now(),
	})
}

// pack feeds every non-empty line of r to p. Line-level errors are logged;
// only read and write failures are returned.
func pack(ctx context.Context, logger *slog.Logger, p *tlvpack.Packer, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var lineNo int
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		err := p.Append(line)
		var lerr *tlvpack.LineError
		if errors.As(err, &lerr) {
			logger.LogAttrs(ctx, slog.LevelWarn, "tlvpack: bad line", slog.Int("line", lineNo), slog.Bool("skipped", lerr.Skipped), slog.Any("err", err))
		} else if err != nil {
			return err
		}
	}
	return sc.Err()
}

func record(path string, e catalog.Entry) error {
	c, err := catalog.Open(path, catalog.Options{})
	if err != nil {
		return err
	}
	err = c.Put(e)
	if cerr := c.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
