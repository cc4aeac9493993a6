package persist

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/store"
)

// Migrator restores contexts from a Store, remapping blobs written under
// older schemas, and persists them back.
type Migrator struct {
	st      Store
	remaps  map[string][]store.Remap
	scratch []byte
	name    [format.MapNameMax + 1]byte
	logger  *slog.Logger
}

// NewMigrator creates a Migrator over st. remaps maps a stored schema name
// to the remap table that translates its indices into the current schema;
// blobs whose name has no table are paged in unchanged.
//
// Parameters:
//   - st: Blob store
//   - remaps: Remap tables keyed by the schema name found in the blob
//   - opts: WithScratchSize and WithLogger apply
func NewMigrator(st Store, remaps map[string][]store.Remap, opts ...Option) (*Migrator, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Migrator{
		st:      st,
		remaps:  remaps,
		scratch: make([]byte, cfg.scratchSize),
		logger:  cfg.logger,
	}, nil
}

// Restore loads the blob stored under key into c. The schema name inside
// the blob selects the remap table. On any failure c is reset to its
// defaults, so the caller can keep running on a clean configuration.
//
// Returns:
//   - error: errs.ErrMissing when nothing is stored under key, otherwise the
//     error of the store, store.PeekName or store.Context.PageinRemap
func (m *Migrator) Restore(c *store.Context, key string) error {
	if err := m.restore(c, key); err != nil {
		c.ResetToDefaults()
		m.logger.Warn("configuration reset to defaults", "key", key, "error", err)

		return err
	}

	return nil
}

func (m *Migrator) restore(c *store.Context, key string) error {
	blob, err := m.st.Load(key, m.scratch)
	if err != nil {
		return err
	}
	if cap(blob) > cap(m.scratch) {
		m.scratch = blob[:cap(blob)]
	}

	n, err := store.PeekName(blob, m.name[:])
	if err != nil {
		return fmt.Errorf("%s: reading schema name: %w", key, err)
	}
	stored := string(m.name[:n])
	remap := m.remaps[stored]

	if err := c.PageinRemap(blob, remap); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	m.logger.Info("configuration restored",
		"key", key, "stored", stored, "schema", c.Schema().Name(),
		"version", c.Version(), "remapped", len(remap), "entries", c.Size())

	return nil
}

// Persist pages c out into the scratch buffer and saves it under key.
//
// Returns:
//   - error: errs.ErrEncodeOverflow if the scratch buffer is too small,
//     otherwise the error of the store
func (m *Migrator) Persist(c *store.Context, key string) error {
	n, err := c.Pageout(m.scratch)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := m.st.Save(key, m.scratch[:n]); err != nil {
		return err
	}
	m.logger.Debug("configuration persisted", "key", key, "size", n)

	return nil
}
