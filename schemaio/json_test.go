package schemaio

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/schema"
)

func requireAllTypes(t *testing.T, s *schema.Schema) {
	t.Helper()

	require.Equal(t, "all_types", s.Name())
	require.Equal(t, uint32(7), s.Version())
	require.Equal(t, 12, s.Len())

	for i, e := range s.Entries() {
		require.Equal(t, format.ValueType(i), e.Type)
		require.Equal(t, e.Type.String(), e.Name.String())
	}

	require.Equal(t, uint64(math.MaxUint8), defaultOf(t, s, 1).Uint())
	require.Equal(t, uint64(math.MaxUint16), defaultOf(t, s, 2).Uint())
	require.Equal(t, uint64(math.MaxUint32), defaultOf(t, s, 3).Uint())
	require.Equal(t, uint64(math.MaxUint64), defaultOf(t, s, 4).Uint())
	require.Equal(t, int64(math.MinInt8), defaultOf(t, s, 5).Int())
	require.Equal(t, int64(math.MinInt16), defaultOf(t, s, 6).Int())
	require.Equal(t, int64(math.MinInt32), defaultOf(t, s, 7).Int())
	require.Equal(t, int64(math.MinInt64), defaultOf(t, s, 8).Int())
	require.Equal(t, float32(1.5), defaultOf(t, s, 9).Float32())
	require.Equal(t, 2.0, defaultOf(t, s, 10).Float64())
	require.Equal(t, "say \"hi\"\n", string(s.DefaultBytes(defaultOf(t, s, 11))))
	require.False(t, hasDefault(t, s, 12))
}

func TestParseJSONAllTypes(t *testing.T) {
	data, err := os.ReadFile("testdata/all_types.json")
	require.NoError(t, err)

	s, err := ParseJSON(data)
	require.NoError(t, err)
	requireAllTypes(t, s)
}

func TestParseJSONKeyOrder(t *testing.T) {
	s, err := ParseJSON([]byte(`{"entries": [{"value": 3, "type": "u8", "name": "a", "index": 4}], "version": 2, "name": "m"}`))
	require.NoError(t, err)
	require.Equal(t, "m", s.Name())
	require.Equal(t, uint32(2), s.Version())
	require.Equal(t, uint64(3), defaultOf(t, s, 4).Uint())
}

func TestParseJSONEmptyEntries(t *testing.T) {
	s, err := ParseJSON([]byte(`{"name": "m", "version": 0, "entries": []}`))
	require.NoError(t, err)
	require.Equal(t, 0, s.Len())
}

func TestParseJSONErrors(t *testing.T) {
	entry := func(e string) string {
		return `{"name": "m", "version": 1, "entries": [` + e + `]}`
	}

	tests := []struct {
		name string
		src  string
		kind error
	}{
		{"not json", `name m`, errs.ErrParse},
		{"truncated", `{"name": "m", "version": 1, "entries": [`, errs.ErrParse},
		{"top level array", `[]`, errs.ErrParse},
		{"unknown key", `{"name": "m", "version": 1, "entries": [], "extra": 1}`, errs.ErrParse},
		{"missing entries", `{"name": "m", "version": 1}`, errs.ErrParse},
		{"missing name", `{"version": 1, "entries": []}`, errs.ErrParse},
		{"version negative", `{"name": "m", "version": -1, "entries": []}`, errs.ErrParse},
		{"version out of range", `{"name": "m", "version": 4294967296, "entries": []}`, errs.ErrBounds},
		{"map name too long", `{"name": "` + strings.Repeat("n", 64) + `", "version": 1, "entries": []}`, errs.ErrBounds},
		{"unknown entry key", entry(`{"index": 1, "name": "a", "type": "u8", "value": 1, "x": 2}`), errs.ErrParse},
		{"missing value", entry(`{"index": 1, "name": "a", "type": "u8"}`), errs.ErrParse},
		{"missing index", entry(`{"name": "a", "type": "u8", "value": null}`), errs.ErrParse},
		{"negative index", entry(`{"index": -1, "name": "a", "type": "u8", "value": 1}`), errs.ErrBounds},
		{"fractional index", entry(`{"index": 1.5, "name": "a", "type": "u8", "value": 1}`), errs.ErrBounds},
		{"index too large", entry(`{"index": 65536, "name": "a", "type": "u8", "value": 1}`), errs.ErrBounds},
		{"index zero", entry(`{"index": 0, "name": "a", "type": "u8", "value": 1}`), errs.ErrReservedIndex},
		{"unknown type", entry(`{"index": 1, "name": "a", "type": "bool", "value": 1}`), errs.ErrInvalidType},
		{"name too long", entry(`{"index": 1, "name": "abcdef", "type": "u8", "value": 1}`), errs.ErrBounds},
		{"empty name", entry(`{"index": 1, "name": "", "type": "u8", "value": 1}`), errs.ErrBounds},
		{"boolean default", entry(`{"index": 1, "name": "a", "type": "u8", "value": true}`), errs.ErrParse},
		{"string default for u8", entry(`{"index": 1, "name": "a", "type": "u8", "value": "1"}`), errs.ErrParse},
		{"number default for str", entry(`{"index": 1, "name": "a", "type": "str", "value": 1}`), errs.ErrParse},
		{"float default for i16", entry(`{"index": 1, "name": "a", "type": "i16", "value": 1.5}`), errs.ErrParse},
		{"u8 default too large", entry(`{"index": 1, "name": "a", "type": "u8", "value": 300}`), errs.ErrBounds},
		{"fstr default too long", entry(`{"index": 1, "name": "a", "type": "fstr", "value": "12345678901234567"}`), errs.ErrStrTooLong},
		{"duplicate", entry(`{"index": 1, "name": "a", "type": "u8", "value": 1}, {"index": 1, "name": "b", "type": "u8", "value": 1}`), errs.ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseJSON([]byte(tt.src))
			require.Nil(t, s)
			require.ErrorIs(t, err, tt.kind)

			var pe *errs.ParseError
			require.ErrorAs(t, err, &pe)
		})
	}
}

func TestParseJSONEntryLine(t *testing.T) {
	src := `{
  "name": "m",
  "version": 1,
  /* the second entry is broken */
  "entries": [
    {"index": 1, "name": "a", "type": "u8", "value": 1},
    {"index": 2, "name": "b", "type": "bad", "value": 1}
  ]
}`
	_, err := ParseJSON([]byte(src))
	requireParseError(t, err, errs.ErrInvalidType, 7)

	src = "{\n\"name\": \"m\",\n\"version\": 1,\n\"entries\": [\n{\"index\": 1 \"name\": \"a\"}\n]\n}"
	_, err = ParseJSON([]byte(src))
	requireParseError(t, err, errs.ErrParse, 5)
}
