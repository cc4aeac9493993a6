package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type loaderConfig struct {
	maxEntries int
	format     string
	calls      []string
}

var errTooMany = errors.New("max entries out of range")

func withMaxEntries(n int) Option[*loaderConfig] {
	return New(func(c *loaderConfig) error {
		if n <= 0 || n > 0xffff {
			return errTooMany
		}
		c.maxEntries = n
		c.calls = append(c.calls, "max")

		return nil
	})
}

func withFormat(f string) Option[*loaderConfig] {
	return NoError(func(c *loaderConfig) {
		c.format = f
		c.calls = append(c.calls, "format")
	})
}

func TestApplyInOrder(t *testing.T) {
	cfg := &loaderConfig{maxEntries: 128}
	require.NoError(t, Apply(cfg, withFormat("json"), withMaxEntries(16), withFormat("yaml")))
	require.Equal(t, 16, cfg.maxEntries)
	require.Equal(t, "yaml", cfg.format)
	require.Equal(t, []string{"format", "max", "format"}, cfg.calls)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	cfg := &loaderConfig{maxEntries: 128}
	err := Apply(cfg, withMaxEntries(0), withFormat("map"))
	require.ErrorIs(t, err, errTooMany)
	require.Equal(t, 128, cfg.maxEntries)
	require.Empty(t, cfg.format)
}

func TestApplySkipsNil(t *testing.T) {
	cfg := &loaderConfig{}
	require.NoError(t, Apply(cfg, nil, withFormat("map")))
	require.Equal(t, "map", cfg.format)
	require.NoError(t, Apply(cfg))
}

func TestOptionOverValueTypes(t *testing.T) {
	var depth int
	opt := NoError(func(d *int) { *d = 32 })
	require.NoError(t, Apply(&depth, Option[*int](opt)))
	require.Equal(t, 32, depth)
}
