// cfgpack-compress compresses a paged-out configuration blob or a schema
// image for storage on a device.
//
// Usage:
//
//	cfgpack-compress [flags] <lz4|s2|zstd> <input> <output>
//
// The output holds the raw compressed data. LZ4 and S2 blocks carry no
// frame, so the original size is printed for the device side buffer.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/arloliu/cfgpack/compress"
	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
)

const (
	exitOK     = 0
	exitUsage  = 1
	exitIO     = 2
	exitEncode = 3
)

// maxInput bounds the input size; blobs and schema images are small.
const maxInput = 1 << 20

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var verbose bool

	flagSet := pflag.NewFlagSet("cfgpack-compress", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log details to stderr")
	flagSet.Usage = func() { printUsage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	rest := flagSet.Args()
	if len(rest) != 3 {
		printUsage(stderr, flagSet)
		return exitUsage
	}
	algorithm, input, output := rest[0], rest[1], rest[2]

	ct, ok := format.ParseCompressionType(algorithm)
	if !ok || ct == format.CompressionNone {
		fmt.Fprintf(stderr, "unknown algorithm: %s\n", algorithm)
		return exitUsage
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	stats, err := compressFile(ct, input, output, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, errs.ErrIO) || errors.Is(err, errs.ErrBounds) {
			return exitIO
		}

		return exitEncode
	}

	fmt.Fprintf(stdout, "%s: %d -> %d bytes (%.1f%%)\n",
		algorithm, stats.OriginalSize, stats.CompressedSize, stats.CompressionRatio()*100)
	fmt.Fprintf(stdout, "Original size: %d (needed for %s decompression)\n", stats.OriginalSize, ct)

	return exitOK
}

func compressFile(ct format.CompressionType, input, output string, logger *slog.Logger) (compress.CompressionStats, error) {
	stats := compress.CompressionStats{Algorithm: ct}

	data, err := os.ReadFile(input)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	if len(data) > maxInput {
		return stats, fmt.Errorf("%w: %s is %d bytes, max %d", errs.ErrBounds, input, len(data), maxInput)
	}

	codec, err := compress.GetCodec(ct)
	if err != nil {
		return stats, err
	}

	start := time.Now()
	packed, err := codec.Compress(data)
	if err != nil {
		return stats, err
	}
	stats.CompressionTimeNs = time.Since(start).Nanoseconds()
	stats.OriginalSize = int64(len(data))
	stats.CompressedSize = int64(len(packed))

	if err := os.WriteFile(output, packed, 0o644); err != nil { //nolint:gosec
		return stats, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	logger.Debug("compressed", "input", input, "output", output,
		"ratio", stats.CompressionRatio(), "elapsed_ns", stats.CompressionTimeNs)

	return stats, nil
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `Compress a configuration blob or schema image.

Usage:
  cfgpack-compress [flags] <algorithm> <input> <output>

Algorithms:
  lz4   LZ4 block
  s2    S2 block
  zstd  Zstandard frame

Flags:
`)
	flagSet.PrintDefaults()
}
