package store

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/schema"
	"github.com/arloliu/cfgpack/value"
)

// allTypes returns a schema with one entry per type at indices 1..12,
// named a..l.
func allTypes(t *testing.T) *schema.Schema {
	t.Helper()
	b, err := schema.NewBuilder("all_types", 1)
	require.NoError(t, err)
	for i := range format.NumTypes {
		vt := format.ValueType(i)
		require.NoError(t, b.Add(uint16(i+1), string(rune('a'+i)), vt))
	}
	s, err := b.Build()
	require.NoError(t, err)

	return s
}

func bind(t testing.TB, s *schema.Schema) *Context {
	t.Helper()
	c, err := New(s, NewArenas(s))
	require.NoError(t, err)

	return c
}

func build(t testing.TB, name string, version uint32, fn func(b *schema.Builder)) *schema.Schema {
	t.Helper()
	b, err := schema.NewBuilder(name, version)
	require.NoError(t, err)
	fn(b)
	s, err := b.Build()
	require.NoError(t, err)

	return s
}

func TestBindValidatesArenas(t *testing.T) {
	s := allTypes(t)
	full := NewArenas(s)

	tests := []struct {
		name   string
		mutate func(a *Arenas)
	}{
		{"values", func(a *Arenas) { a.Values = a.Values[:11] }},
		{"presence", func(a *Arenas) { a.Presence = a.Presence[:1] }},
		{"pool", func(a *Arenas) { a.Pool = a.Pool[:len(a.Pool)-1] }},
		{"offsets", func(a *Arenas) { a.Offsets = a.Offsets[:1] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := full
			tt.mutate(&a)
			_, err := New(s, a)
			require.ErrorIs(t, err, errs.ErrBounds)
		})
	}

	// Larger arenas are accepted.
	big := Arenas{
		Values:   make([]value.Value, 64),
		Presence: make([]byte, 8),
		Pool:     make([]byte, 1024),
		Offsets:  make([]uint16, 8),
	}
	c, err := New(s, big)
	require.NoError(t, err)
	require.Equal(t, 0, c.Size())
}

func TestBindAppliesDefaults(t *testing.T) {
	s := build(t, "defaults", 2, func(b *schema.Builder) {
		require.NoError(t, b.AddDefault(1, "rate", value.U32(1000)))
		require.NoError(t, b.AddDefault(2, "host", value.Str("gw-local")))
		require.NoError(t, b.Add(3, "port", format.TypeU16))
		require.NoError(t, b.AddDefault(4, "tag", value.FStr("A1")))
	})
	c := bind(t, s)

	require.Equal(t, 3, c.Size())
	require.Equal(t, uint32(2), c.Version())
	require.Same(t, s, c.Schema())

	rate, err := c.GetU32(1)
	require.NoError(t, err)
	require.Equal(t, uint32(1000), rate)

	host, err := c.GetStr(2)
	require.NoError(t, err)
	require.Equal(t, "gw-local", string(host))

	tag, err := c.GetFStrByName("tag")
	require.NoError(t, err)
	require.Equal(t, "A1", string(tag))

	require.False(t, c.Present(3))
	_, err = c.GetU16(3)
	require.ErrorIs(t, err, errs.ErrMissing)
}

func TestSetGetAllTypes(t *testing.T) {
	c := bind(t, allTypes(t))

	require.NoError(t, c.SetU8(1, 255))
	require.NoError(t, c.SetU16(2, 1000))
	require.NoError(t, c.SetU32(3, 70000))
	require.NoError(t, c.SetU64(4, 0xDEADBEEFCAFE))
	require.NoError(t, c.SetI8(5, -1))
	require.NoError(t, c.SetI16(6, -200))
	require.NoError(t, c.SetI32(7, -50000))
	require.NoError(t, c.SetI64(8, -99999))
	require.NoError(t, c.SetF32(9, 3.14))
	require.NoError(t, c.SetF64(10, 2.718))
	require.NoError(t, c.SetStr(11, "hello"))
	require.NoError(t, c.SetFStr(12, "xy"))
	require.Equal(t, 12, c.Size())

	assertAllTypes(t, c)
}

// assertAllTypes checks the values set by TestSetGetAllTypes.
func assertAllTypes(t *testing.T, c *Context) {
	t.Helper()

	u8, err := c.GetU8(1)
	require.NoError(t, err)
	require.Equal(t, uint8(255), u8)
	u16, err := c.GetU16(2)
	require.NoError(t, err)
	require.Equal(t, uint16(1000), u16)
	u32, err := c.GetU32(3)
	require.NoError(t, err)
	require.Equal(t, uint32(70000), u32)
	u64, err := c.GetU64(4)
	require.NoError(t, err)
	require.Equal(t, uint64(0xDEADBEEFCAFE), u64)
	i8, err := c.GetI8(5)
	require.NoError(t, err)
	require.Equal(t, int8(-1), i8)
	i16, err := c.GetI16(6)
	require.NoError(t, err)
	require.Equal(t, int16(-200), i16)
	i32, err := c.GetI32(7)
	require.NoError(t, err)
	require.Equal(t, int32(-50000), i32)
	i64, err := c.GetI64(8)
	require.NoError(t, err)
	require.Equal(t, int64(-99999), i64)
	f32, err := c.GetF32(9)
	require.NoError(t, err)
	require.Equal(t, float32(3.14), f32)
	f64, err := c.GetF64(10)
	require.NoError(t, err)
	require.Equal(t, 2.718, f64)
	s, err := c.GetStr(11)
	require.NoError(t, err)
	require.Equal(t, "hello", string(s))
	fs, err := c.GetFStr(12)
	require.NoError(t, err)
	require.Equal(t, "xy", string(fs))
}

func TestSetGetByName(t *testing.T) {
	c := bind(t, allTypes(t))

	require.NoError(t, c.SetU8ByName("a", 9))
	require.NoError(t, c.SetU16ByName("b", 9))
	require.NoError(t, c.SetU32ByName("c", 9))
	require.NoError(t, c.SetU64ByName("d", 9))
	require.NoError(t, c.SetI8ByName("e", -9))
	require.NoError(t, c.SetI16ByName("f", -9))
	require.NoError(t, c.SetI32ByName("g", -9))
	require.NoError(t, c.SetI64ByName("h", -9))
	require.NoError(t, c.SetF32ByName("i", 0.5))
	require.NoError(t, c.SetF64ByName("j", 0.25))
	require.NoError(t, c.SetStrByName("k", "nine"))
	require.NoError(t, c.SetFStrByName("l", "9"))

	u8, err := c.GetU8ByName("a")
	require.NoError(t, err)
	require.Equal(t, uint8(9), u8)
	u16, err := c.GetU16ByName("b")
	require.NoError(t, err)
	require.Equal(t, uint16(9), u16)
	u32, err := c.GetU32ByName("c")
	require.NoError(t, err)
	require.Equal(t, uint32(9), u32)
	u64, err := c.GetU64ByName("d")
	require.NoError(t, err)
	require.Equal(t, uint64(9), u64)
	i8, err := c.GetI8ByName("e")
	require.NoError(t, err)
	require.Equal(t, int8(-9), i8)
	i16, err := c.GetI16ByName("f")
	require.NoError(t, err)
	require.Equal(t, int16(-9), i16)
	i32, err := c.GetI32ByName("g")
	require.NoError(t, err)
	require.Equal(t, int32(-9), i32)
	i64, err := c.GetI64ByName("h")
	require.NoError(t, err)
	require.Equal(t, int64(-9), i64)
	f32, err := c.GetF32ByName("i")
	require.NoError(t, err)
	require.Equal(t, float32(0.5), f32)
	f64, err := c.GetF64ByName("j")
	require.NoError(t, err)
	require.Equal(t, 0.25, f64)
	s, err := c.GetStrByName("k")
	require.NoError(t, err)
	require.Equal(t, "nine", string(s))

	// Same values through the index API.
	v, err := c.Get(11)
	require.NoError(t, err)
	require.Equal(t, format.TypeStr, v.Type())
	require.Equal(t, "nine", string(c.Bytes(v)))

	_, err = c.GetByName("zz")
	require.ErrorIs(t, err, errs.ErrMissing)
	require.ErrorIs(t, c.SetByName("zz", value.U8(1)), errs.ErrMissing)
	_, err = c.GetU8ByName("b")
	require.ErrorIs(t, err, errs.ErrTypeMismatch)
}

func TestSetErrors(t *testing.T) {
	c := bind(t, allTypes(t))

	tests := []struct {
		name  string
		index uint16
		v     value.Value
		err   error
	}{
		{"reserved index", 0, value.U8(1), errs.ErrReservedIndex},
		{"unknown index", 13, value.U8(1), errs.ErrMissing},
		{"narrower type", 2, value.U8(1), errs.ErrTypeMismatch},
		{"signedness", 1, value.I8(1), errs.ErrTypeMismatch},
		{"str into fstr", 12, value.Str("x"), errs.ErrTypeMismatch},
		{"fstr into str", 11, value.FStr("x"), errs.ErrTypeMismatch},
		{"str too long", 11, value.Str(strings.Repeat("s", format.StrMax+1)), errs.ErrStrTooLong},
		{"fstr too long", 12, value.FStr(strings.Repeat("f", format.FStrMax+1)), errs.ErrStrTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, c.Set(tt.index, tt.v), tt.err)
		})
	}
	require.Equal(t, 0, c.Size())

	_, err := c.Get(0)
	require.ErrorIs(t, err, errs.ErrReservedIndex)
	_, err = c.Get(1)
	require.ErrorIs(t, err, errs.ErrMissing)

	require.NoError(t, c.SetU8(1, 1))
	_, err = c.GetU16(1)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)
	_, err = c.GetStr(1)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)
}

func TestStringLimits(t *testing.T) {
	c := bind(t, allTypes(t))

	long := strings.Repeat("s", format.StrMax)
	require.NoError(t, c.SetStr(11, long))
	got, err := c.GetStr(11)
	require.NoError(t, err)
	require.Equal(t, long, string(got))

	short := strings.Repeat("f", format.FStrMax)
	require.NoError(t, c.SetFStr(12, short))
	got, err = c.GetFStr(12)
	require.NoError(t, err)
	require.Equal(t, short, string(got))

	// A shorter write replaces the whole value.
	require.NoError(t, c.SetStr(11, "ab"))
	got, err = c.GetStr(11)
	require.NoError(t, err)
	require.Equal(t, "ab", string(got))

	require.NoError(t, c.SetStr(11, ""))
	got, err = c.GetStr(11)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSetStoredDescriptor(t *testing.T) {
	s := build(t, "copy", 1, func(b *schema.Builder) {
		require.NoError(t, b.Add(1, "src", format.TypeStr))
		require.NoError(t, b.Add(2, "dst", format.TypeStr))
	})
	c := bind(t, s)
	require.NoError(t, c.SetStr(1, "carried"))

	v, err := c.Get(1)
	require.NoError(t, err)
	require.NoError(t, c.Set(2, v))
	require.NoError(t, c.SetStr(1, "changed"))

	got, err := c.GetStr(2)
	require.NoError(t, err)
	require.Equal(t, "carried", string(got))
}

func TestIndexBoundaries(t *testing.T) {
	s := build(t, "edges", 1, func(b *schema.Builder) {
		require.NoError(t, b.Add(1, "lo", format.TypeU8))
		require.NoError(t, b.Add(65535, "hi", format.TypeU16))
	})
	c := bind(t, s)
	require.NoError(t, c.SetU16(65535, 65535))

	got, err := c.GetU16(65535)
	require.NoError(t, err)
	require.Equal(t, uint16(65535), got)
	require.ErrorIs(t, c.SetU8(0, 1), errs.ErrReservedIndex)
}

func TestResetToDefaults(t *testing.T) {
	s := build(t, "reset", 1, func(b *schema.Builder) {
		require.NoError(t, b.AddDefault(1, "level", value.I8(-3)))
		require.NoError(t, b.Add(2, "extra", format.TypeU8))
		require.NoError(t, b.AddDefault(3, "name", value.Str("base")))
	})
	c := bind(t, s)

	require.NoError(t, c.SetI8(1, 50))
	require.NoError(t, c.SetU8(2, 1))
	require.NoError(t, c.SetStr(3, "override"))
	require.Equal(t, 3, c.Size())

	c.ResetToDefaults()
	require.Equal(t, 2, c.Size())
	level, err := c.GetI8(1)
	require.NoError(t, err)
	require.Equal(t, int8(-3), level)
	require.False(t, c.Present(2))
	name, err := c.GetStr(3)
	require.NoError(t, err)
	require.Equal(t, "base", string(name))
}

func TestDump(t *testing.T) {
	s := build(t, "fleet_gateway", 3, func(b *schema.Builder) {
		require.NoError(t, b.AddDefault(1, "mode", value.U8(2)))
		require.NoError(t, b.AddDefault(2, "temp", value.I16(-40)))
		require.NoError(t, b.Add(3, "gain", format.TypeF32))
		require.NoError(t, b.AddDefault(5, "host", value.Str("gw-01")))
	})
	c := bind(t, s)

	var buf bytes.Buffer
	require.NoError(t, c.Dump(&buf))
	require.Equal(t, "fleet_gateway v3\n"+
		"  1 mode u8 = 2\n"+
		"  2 temp i16 = -40\n"+
		"  5 host str = \"gw-01\"\n", buf.String())

	require.NoError(t, c.SetF32(3, 0.5))
	buf.Reset()
	require.NoError(t, c.Dump(&buf))
	require.Contains(t, buf.String(), "  3 gain f32 = 0.5\n")
}

func TestSetGetDoesNotAllocate(t *testing.T) {
	c := bind(t, allTypes(t))

	allocs := testing.AllocsPerRun(100, func() {
		_ = c.SetU32(3, 70000)
		_, _ = c.GetU32(3)
		_ = c.SetStr(11, "hello")
		_, _ = c.GetStr(11)
		_, _ = c.GetF64ByName("j")
	})
	require.Zero(t, allocs)
}
