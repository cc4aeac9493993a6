package persist

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/internal/options"
	"github.com/arloliu/cfgpack/store"
)

// DefaultBucket is the bbolt bucket BoltStore uses unless WithBucket says
// otherwise.
const DefaultBucket = "cfgpack"

// DefaultScratchSize is the size of the Migrator scratch buffer.
const DefaultScratchSize = 4096

type config struct {
	logger      *slog.Logger
	bucket      string
	scratchSize int
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		logger:      slog.New(slog.DiscardHandler),
		bucket:      DefaultBucket,
		scratchSize: DefaultScratchSize,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Option configures a store or a Migrator.
type Option = options.Option[*config]

// WithLogger sets the logger. A nil logger keeps the default, which
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithBucket sets the bbolt bucket name used by BoltStore.
func WithBucket(name string) Option {
	return options.New(func(c *config) error {
		if name == "" {
			return fmt.Errorf("%w: empty bucket name", errs.ErrBounds)
		}
		c.bucket = name

		return nil
	})
}

// WithScratchSize sets the size of the buffer a Migrator pages in and out
// of. It must hold the largest blob the Migrator will see.
func WithScratchSize(n int) Option {
	return options.New(func(c *config) error {
		if n < store.MinPageoutSize {
			return fmt.Errorf("%w: scratch size %d", errs.ErrBounds, n)
		}
		c.scratchSize = n

		return nil
	})
}
