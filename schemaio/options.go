package schemaio

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/internal/options"
)

// Format identifies a schema encoding.
type Format uint8

const (
	// FormatAuto picks the format from the file extension, or sniffs the
	// content when no path is known.
	FormatAuto Format = iota
	// FormatMap is the line oriented ".map" text format.
	FormatMap
	// FormatJSON is the JSON document format. Comments and trailing commas
	// are accepted.
	FormatJSON
	// FormatYAML is the YAML rendition of the JSON document.
	FormatYAML
	// FormatMsgpack is the integer keyed MessagePack schema.
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatMap:
		return "map"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// FormatFromPath maps a file extension to its format. Unknown extensions
// are read as ".map" text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".msgpack", ".mpk":
		return FormatMsgpack
	default:
		return FormatMap
	}
}

type config struct {
	maxEntries int
	format     Format
	logger     *slog.Logger
}

func newConfig() *config {
	return &config{
		maxEntries: format.MaxEntries,
		format:     FormatAuto,
		logger:     slog.New(slog.DiscardHandler),
	}
}

// Option configures schema loading.
type Option = options.Option[*config]

// WithMaxEntries caps the number of entries a loaded schema may hold.
//
// Parameters:
//   - n: Maximum number of entries, 1..65534
//
// Returns:
//   - Option: errs.ErrBounds when n is out of range
func WithMaxEntries(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 || n >= format.MaxIndex {
			return fmt.Errorf("%w: max entries %d", errs.ErrBounds, n)
		}
		c.maxEntries = n

		return nil
	})
}

// WithFormat forces the input format instead of detecting it.
func WithFormat(f Format) Option {
	return options.New(func(c *config) error {
		if f > FormatMsgpack {
			return fmt.Errorf("%w: schema format %d", errs.ErrInvalidType, uint8(f))
		}
		c.format = f

		return nil
	})
}

// WithLogger sets the logger used to report loaded schemas. A nil logger
// keeps the default, which discards everything.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}
