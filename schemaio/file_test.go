package schemaio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/schema"
	"github.com/arloliu/cfgpack/store"
)

func gatewayContext(t *testing.T, version int) *store.Context {
	t.Helper()

	var path string
	switch version {
	case 1:
		path = "testdata/gateway_v1.map"
	case 2:
		path = "testdata/gateway_v2.map"
	default:
		path = "testdata/gateway_v3.map"
	}
	s, err := LoadFile(path)
	require.NoError(t, err)

	return newContext(t, s)
}

func newContext(t *testing.T, s *schema.Schema) *store.Context {
	t.Helper()

	c, err := store.New(s, store.NewArenas(s))
	require.NoError(t, err)

	return c
}

func TestPageFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.cfg")

	src := gatewayContext(t, 3)
	require.NoError(t, src.SetU8(1, 4))
	require.NoError(t, src.SetU32(60, 70000))
	require.NoError(t, src.SetStr(71, "gw-17.example"))

	scratch := make([]byte, 256)
	n, err := PageoutFile(src, path, scratch)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(n), info.Size())

	dst := gatewayContext(t, 3)
	require.NoError(t, PageinFile(dst, path, make([]byte, 256)))

	mode, err := dst.GetU8(1)
	require.NoError(t, err)
	require.Equal(t, uint8(4), mode)
	warn, err := dst.GetU32(60)
	require.NoError(t, err)
	require.Equal(t, uint32(70000), warn)
	host, err := dst.GetStr(71)
	require.NoError(t, err)
	require.Equal(t, "gw-17.example", string(host))
	require.False(t, dst.Present(61))
}

func TestPageFilePooledScratch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.cfg")

	src := gatewayContext(t, 3)
	require.NoError(t, src.SetU8(70, 9))
	n, err := PageoutFile(src, path, nil)
	require.NoError(t, err)
	require.Positive(t, n)

	dst := gatewayContext(t, 3)
	require.NoError(t, PageinFile(dst, path, nil))
	retry, err := dst.GetU8(70)
	require.NoError(t, err)
	require.Equal(t, uint8(9), retry)
}

func TestPageinFileRemap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway_v1.cfg")

	v1 := gatewayContext(t, 1)
	require.NoError(t, v1.SetU16(20, 500))
	require.NoError(t, v1.SetFStr(23, "north"))
	_, err := PageoutFile(v1, path, nil)
	require.NoError(t, err)

	v2 := gatewayContext(t, 2)
	remap := []store.Remap{{Old: 20, New: 60}, {Old: 21, New: 61}, {Old: 22, New: 62}, {Old: 23, New: 63}}
	require.NoError(t, PageinFileRemap(v2, path, nil, remap))

	warn, err := v2.GetU16(60)
	require.NoError(t, err)
	require.Equal(t, uint16(500), warn)
	label, err := v2.GetFStr(63)
	require.NoError(t, err)
	require.Equal(t, "north", string(label))
	require.False(t, v2.Present(61))
}

func TestPageFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.cfg")
	c := gatewayContext(t, 3)

	_, err := PageoutFile(c, path, make([]byte, 4))
	require.ErrorIs(t, err, errs.ErrEncodeOverflow)
	require.NoFileExists(t, path)

	_, err = PageoutFile(c, filepath.Join(dir, "missing", "gateway.cfg"), nil)
	require.ErrorIs(t, err, errs.ErrIO)

	require.ErrorIs(t, PageinFile(c, filepath.Join(dir, "absent.cfg"), nil), errs.ErrIO)

	_, err = PageoutFile(c, path, nil)
	require.NoError(t, err)
	require.ErrorIs(t, PageinFile(c, path, make([]byte, 4)), errs.ErrIO)

	require.NoError(t, os.WriteFile(path, []byte{0xc1}, 0o600))
	require.ErrorIs(t, PageinFile(c, path, nil), errs.ErrDecode)
}
