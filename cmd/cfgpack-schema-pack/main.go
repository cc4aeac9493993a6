// cfgpack-schema-pack converts schema documents to the MessagePack schema
// image devices load at boot.
//
// Usage:
//
//	cfgpack-schema-pack [flags] <input> <output>
//	cfgpack-schema-pack [flags] --out-dir DIR <input>...
//
// Inputs may be ".map" text, JSON or YAML; the format follows the file
// extension. With --out-dir every input is packed concurrently into
// DIR/<name>.msgpack. Exit status is 0 on success, 1 for usage errors, 2
// for I/O errors and 3 for schema or encoding errors.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/cfgpack/compress"
	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/schemaio"
)

const (
	exitOK    = 0
	exitUsage = 1
	exitIO    = 2
	exitParse = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type job struct {
	input  string
	output string
}

type result struct {
	name       string
	version    uint32
	entries    int
	rawSize    int
	packedSize int
	output     string
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		verbose     bool
		compression string
		outDir      string
	)

	flagSet := pflag.NewFlagSet("cfgpack-schema-pack", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log details to stderr")
	flagSet.StringVar(&compression, "compress", "none", "compress the image: none, lz4, s2 or zstd")
	flagSet.StringVar(&outDir, "out-dir", "", "pack every input into `DIR`")
	flagSet.Usage = func() { printUsage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	ct, ok := format.ParseCompressionType(compression)
	if !ok {
		fmt.Fprintf(stderr, "unknown compression %q\n", compression)
		return exitUsage
	}

	jobs, err := plan(flagSet.Args(), outDir, ct)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		printUsage(stderr, flagSet)

		return exitUsage
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	results := make([]result, len(jobs))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, j := range jobs {
		g.Go(func() error {
			r, err := pack(j, ct, logger)
			if err != nil {
				return err
			}
			results[i] = r

			return nil
		})
	}
	err = g.Wait()

	for _, r := range results {
		if r.output == "" {
			continue
		}
		fmt.Fprintf(stdout, "Schema: %q v%d (%d entries)\n", r.name, r.version, r.entries)
		if ct != format.CompressionNone {
			fmt.Fprintf(stdout, "Compressed: %s %d -> %d bytes\n", ct, r.rawSize, r.packedSize)
		}
		fmt.Fprintf(stdout, "Output: %d bytes -> %s\n", r.packedSize, r.output)
	}

	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, errs.ErrIO) {
			return exitIO
		}

		return exitParse
	}

	return exitOK
}

func plan(args []string, outDir string, ct format.CompressionType) ([]job, error) {
	if outDir == "" {
		if len(args) != 2 {
			return nil, errors.New("expected <input> <output>")
		}

		return []job{{input: args[0], output: args[1]}}, nil
	}

	if len(args) == 0 {
		return nil, errors.New("expected at least one input")
	}

	ext := ".msgpack"
	if ct != format.CompressionNone {
		ext += "." + ct.String()
	}

	jobs := make([]job, len(args))
	seen := make(map[string]string, len(args))
	for i, in := range args {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out := filepath.Join(outDir, base+ext)
		if prev, dup := seen[out]; dup {
			return nil, fmt.Errorf("%s and %s both pack to %s", prev, in, out)
		}
		seen[out] = in
		jobs[i] = job{input: in, output: out}
	}

	return jobs, nil
}

func pack(j job, ct format.CompressionType, logger *slog.Logger) (result, error) {
	s, err := schemaio.LoadFile(j.input, schemaio.WithLogger(logger))
	if err != nil {
		return result{}, err
	}

	image, err := schemaio.WriteMsgpack(s)
	if err != nil {
		return result{}, fmt.Errorf("%s: %w", j.input, err)
	}

	codec, err := compress.GetCodec(ct)
	if err != nil {
		return result{}, err
	}
	packed, err := codec.Compress(image)
	if err != nil {
		return result{}, fmt.Errorf("%s: %w", j.input, err)
	}

	if err := os.WriteFile(j.output, packed, 0o644); err != nil { //nolint:gosec
		return result{}, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	logger.Debug("schema packed", "input", j.input, "output", j.output, "size", len(packed))

	return result{
		name:       s.Name(),
		version:    s.Version(),
		entries:    s.Len(),
		rawSize:    len(image),
		packedSize: len(packed),
		output:     j.output,
	}, nil
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `Convert a schema document to a MessagePack schema image.

Usage:
  cfgpack-schema-pack [flags] <input> <output>
  cfgpack-schema-pack [flags] --out-dir DIR <input>...

Inputs ending in .json/.jsonc are read as JSON, .yaml/.yml as YAML and
anything else as .map text.

Flags:
`)
	flagSet.PrintDefaults()
}
