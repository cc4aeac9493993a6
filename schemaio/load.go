// Package schemaio reads and writes schema documents and moves paged-out
// configuration blobs between a context and the file system.
//
// Four schema encodings are supported: the line oriented ".map" text, a
// JSON document (comments and trailing commas allowed), its YAML rendition
// and an integer keyed MessagePack image. All of them validate the same
// way and report failures as *errs.ParseError, whose Unwrap yields the
// error kind:
//
//	s, err := schemaio.LoadFile("gateway.map")
//	var pe *errs.ParseError
//	if errors.As(err, &pe) {
//	    log.Printf("line %d: %v", pe.Line, err)
//	}
package schemaio

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/arloliu/cfgpack/compress"
	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/internal/options"
	"github.com/arloliu/cfgpack/schema"
)

func applyOptions(opts []Option) (*config, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load parses a schema document. Without WithFormat the encoding is
// sniffed from the content: a MessagePack map header, a JSON object, a
// YAML mapping or otherwise ".map" text.
//
// Returns:
//   - *schema.Schema: The parsed schema
//   - error: An *errs.ParseError, errs.ErrDecode for a broken MessagePack
//     image, or an option error
func Load(data []byte, opts ...Option) (*schema.Schema, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return load(data, cfg, cfg.format)
}

// LoadFile reads and parses the schema at path. Without WithFormat the
// encoding follows the extension, see FormatFromPath.
//
// Returns:
//   - *schema.Schema: The parsed schema
//   - error: errs.ErrIO when the file cannot be read, otherwise as Load
func LoadFile(path string, opts ...Option) (*schema.Schema, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", errs.ErrIO, path, err)
	}

	f := cfg.format
	if f == FormatAuto {
		f = FormatFromPath(path)
	}

	s, err := load(data, cfg, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// LoadCompressed decompresses a MessagePack schema image and parses it.
// Use format.CompressionNone for an uncompressed image.
//
// Returns:
//   - *schema.Schema: The parsed schema
//   - error: errs.ErrInvalidType for an unknown compression, errs.ErrDecode
//     for a corrupt payload, otherwise as ParseMsgpack
func LoadCompressed(data []byte, compression format.CompressionType, opts ...Option) (*schema.Schema, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}
	raw, err := codec.Decompress(data)
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("schema image decompressed",
		"compression", compression.String(), "compressed", len(data), "size", len(raw))

	return load(raw, cfg, FormatMsgpack)
}

func load(data []byte, cfg *config, f Format) (*schema.Schema, error) {
	if f == FormatAuto {
		f = sniff(data)
	}

	var (
		s   *schema.Schema
		err error
	)
	switch f {
	case FormatJSON:
		s, err = parseJSON(data, cfg)
	case FormatYAML:
		s, err = parseYAML(data, cfg)
	case FormatMsgpack:
		s, err = parseMsgpack(data, cfg)
	default:
		s, err = parseMap(data, cfg)
	}
	if err != nil {
		cfg.logger.Debug("schema rejected", "format", f.String(), "error", err)
		return nil, err
	}

	cfg.logger.Debug("schema loaded",
		"format", f.String(), "name", s.Name(), "version", s.Version(), "entries", s.Len())

	return s, nil
}

// sniff guesses the encoding of a schema document.
func sniff(data []byte) Format {
	if len(data) > 0 {
		if c := data[0]; (c >= 0x80 && c <= 0x8f) || c == 0xde || c == 0xdf {
			return FormatMsgpack
		}
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '/') {
		return FormatJSON
	}

	// The first meaningful line decides between "name: x" and "name 1".
	rest := string(trimmed)
	for len(rest) > 0 {
		var line string
		line, rest = nextLine(rest)
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' || line == "---" {
			continue
		}
		if strings.Contains(line, ":") {
			return FormatYAML
		}

		break
	}

	return FormatMap
}
