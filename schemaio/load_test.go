package schemaio

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cfgpack/compress"
	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
)

func TestSniff(t *testing.T) {
	image, err := WriteMsgpack(loadAllTypes(t))
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"msgpack image", image, FormatMsgpack},
		{"json object", []byte(`{"name": "m"}`), FormatJSON},
		{"json with leading comment", []byte("  // schema\n{}"), FormatJSON},
		{"yaml", []byte("name: m\nversion: 1\n"), FormatYAML},
		{"yaml after comment and marker", []byte("# note\n---\nname: m\n"), FormatYAML},
		{"map", []byte("m 1\n1 a u8 0\n"), FormatMap},
		{"map after comment with colon", []byte("# note: x\nm 1\n"), FormatMap},
		{"empty", nil, FormatMap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, sniff(tt.data))
		})
	}
}

func TestLoadDetectsFormat(t *testing.T) {
	want := loadAllTypes(t)
	image, err := WriteMsgpack(want)
	require.NoError(t, err)
	yml, err := os.ReadFile("testdata/all_types.yaml")
	require.NoError(t, err)
	var js bytes.Buffer
	require.NoError(t, WriteJSON(&js, want))

	for _, data := range [][]byte{image, yml, js.Bytes()} {
		got, err := Load(data)
		require.NoError(t, err)
		require.Equal(t, want.Fingerprint(), got.Fingerprint())
	}

	s, err := Load([]byte(smallMap))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
}

func TestLoadFileByExtension(t *testing.T) {
	want := loadAllTypes(t)
	image, err := WriteMsgpack(want)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "all_types.mpk")
	require.NoError(t, os.WriteFile(path, image, 0o600))

	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, want.Fingerprint(), got.Fingerprint())

	yml, err := LoadFile("testdata/all_types.yaml")
	require.NoError(t, err)
	require.Equal(t, want.Fingerprint(), yml.Fingerprint())
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.map"))
	require.ErrorIs(t, err, errs.ErrIO)

	path := filepath.Join(t.TempDir(), "broken.map")
	require.NoError(t, os.WriteFile(path, []byte("m 1\n0 a u8 0\n"), 0o600))
	_, err = LoadFile(path)
	requireParseError(t, err, errs.ErrReservedIndex, 2)
	require.Contains(t, err.Error(), path)
}

func TestFormatFromPath(t *testing.T) {
	require.Equal(t, FormatJSON, FormatFromPath("a/b.JSON"))
	require.Equal(t, FormatJSON, FormatFromPath("b.jsonc"))
	require.Equal(t, FormatYAML, FormatFromPath("b.yml"))
	require.Equal(t, FormatMsgpack, FormatFromPath("b.msgpack"))
	require.Equal(t, FormatMap, FormatFromPath("b.map"))
	require.Equal(t, FormatMap, FormatFromPath("schema"))
}

func TestLoadOptions(t *testing.T) {
	js, err := os.ReadFile("testdata/all_types.json")
	require.NoError(t, err)

	_, err = Load(js, WithFormat(FormatMap))
	require.ErrorIs(t, err, errs.ErrParse)

	_, err = Load(js, WithFormat(Format(99)))
	require.ErrorIs(t, err, errs.ErrInvalidType)

	_, err = Load(js, WithMaxEntries(0))
	require.ErrorIs(t, err, errs.ErrBounds)

	_, err = Load(js, WithMaxEntries(format.MaxIndex))
	require.ErrorIs(t, err, errs.ErrBounds)

	_, err = Load(js, WithMaxEntries(11))
	require.ErrorIs(t, err, errs.ErrBounds)

	s, err := Load(js, WithMaxEntries(12), WithLogger(nil))
	require.NoError(t, err)
	require.Equal(t, 12, s.Len())
}

func TestLoadLogs(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Load([]byte(smallMap), WithLogger(logger))
	require.NoError(t, err)
	require.Contains(t, out.String(), "schema loaded")
	require.Contains(t, out.String(), "format=map")
	require.Contains(t, out.String(), "entries=2")

	out.Reset()
	_, err = Load([]byte("m 1\n0 a u8 0\n"), WithLogger(logger))
	require.Error(t, err)
	require.Contains(t, out.String(), "schema rejected")
}

func TestLoadCompressed(t *testing.T) {
	want := loadAllTypes(t)
	image, err := WriteMsgpack(want)
	require.NoError(t, err)

	for _, ct := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := compress.GetCodec(ct)
			require.NoError(t, err)
			packed, err := codec.Compress(image)
			require.NoError(t, err)

			got, err := LoadCompressed(packed, ct)
			require.NoError(t, err)
			require.Equal(t, want.Fingerprint(), got.Fingerprint())
		})
	}

	_, err = LoadCompressed(image, format.CompressionType(9))
	require.ErrorIs(t, err, errs.ErrInvalidType)

	_, err = LoadCompressed([]byte("not a frame at all"), format.CompressionZstd)
	require.ErrorIs(t, err, errs.ErrDecode)
}
