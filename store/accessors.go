package store

import (
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/value"
)

// Typed accessors. Getters return errs.ErrTypeMismatch when the entry type
// differs from the accessor type; setters behave like Set.

func (c *Context) GetU8(index uint16) (uint8, error) {
	v, err := c.typed(index, format.TypeU8)
	return uint8(v.Uint()), err //nolint:gosec
}

func (c *Context) GetU16(index uint16) (uint16, error) {
	v, err := c.typed(index, format.TypeU16)
	return uint16(v.Uint()), err //nolint:gosec
}

func (c *Context) GetU32(index uint16) (uint32, error) {
	v, err := c.typed(index, format.TypeU32)
	return uint32(v.Uint()), err //nolint:gosec
}

func (c *Context) GetU64(index uint16) (uint64, error) {
	v, err := c.typed(index, format.TypeU64)
	return v.Uint(), err
}

func (c *Context) GetI8(index uint16) (int8, error) {
	v, err := c.typed(index, format.TypeI8)
	return int8(v.Int()), err //nolint:gosec
}

func (c *Context) GetI16(index uint16) (int16, error) {
	v, err := c.typed(index, format.TypeI16)
	return int16(v.Int()), err //nolint:gosec
}

func (c *Context) GetI32(index uint16) (int32, error) {
	v, err := c.typed(index, format.TypeI32)
	return int32(v.Int()), err //nolint:gosec
}

func (c *Context) GetI64(index uint16) (int64, error) {
	v, err := c.typed(index, format.TypeI64)
	return v.Int(), err
}

func (c *Context) GetF32(index uint16) (float32, error) {
	v, err := c.typed(index, format.TypeF32)
	return v.Float32(), err
}

func (c *Context) GetF64(index uint16) (float64, error) {
	v, err := c.typed(index, format.TypeF64)
	return v.Float64(), err
}

// GetStr returns the bytes of a TypeStr entry. The slice borrows the
// context pool and is valid until the entry is next written.
func (c *Context) GetStr(index uint16) ([]byte, error) {
	v, err := c.typed(index, format.TypeStr)
	if err != nil {
		return nil, err
	}

	return c.Bytes(v), nil
}

// GetFStr is GetStr for TypeFStr entries.
func (c *Context) GetFStr(index uint16) ([]byte, error) {
	v, err := c.typed(index, format.TypeFStr)
	if err != nil {
		return nil, err
	}

	return c.Bytes(v), nil
}

func (c *Context) SetU8(index uint16, v uint8) error   { return c.Set(index, value.U8(v)) }
func (c *Context) SetU16(index uint16, v uint16) error { return c.Set(index, value.U16(v)) }
func (c *Context) SetU32(index uint16, v uint32) error { return c.Set(index, value.U32(v)) }
func (c *Context) SetU64(index uint16, v uint64) error { return c.Set(index, value.U64(v)) }
func (c *Context) SetI8(index uint16, v int8) error    { return c.Set(index, value.I8(v)) }
func (c *Context) SetI16(index uint16, v int16) error  { return c.Set(index, value.I16(v)) }
func (c *Context) SetI32(index uint16, v int32) error  { return c.Set(index, value.I32(v)) }
func (c *Context) SetI64(index uint16, v int64) error  { return c.Set(index, value.I64(v)) }
func (c *Context) SetF32(index uint16, v float32) error {
	return c.Set(index, value.F32(v))
}
func (c *Context) SetF64(index uint16, v float64) error {
	return c.Set(index, value.F64(v))
}
func (c *Context) SetStr(index uint16, s string) error  { return c.Set(index, value.Str(s)) }
func (c *Context) SetFStr(index uint16, s string) error { return c.Set(index, value.FStr(s)) }

// Name based variants.

func (c *Context) GetU8ByName(name string) (uint8, error) {
	v, err := c.typedByName(name, format.TypeU8)
	return uint8(v.Uint()), err //nolint:gosec
}

func (c *Context) GetU16ByName(name string) (uint16, error) {
	v, err := c.typedByName(name, format.TypeU16)
	return uint16(v.Uint()), err //nolint:gosec
}

func (c *Context) GetU32ByName(name string) (uint32, error) {
	v, err := c.typedByName(name, format.TypeU32)
	return uint32(v.Uint()), err //nolint:gosec
}

func (c *Context) GetU64ByName(name string) (uint64, error) {
	v, err := c.typedByName(name, format.TypeU64)
	return v.Uint(), err
}

func (c *Context) GetI8ByName(name string) (int8, error) {
	v, err := c.typedByName(name, format.TypeI8)
	return int8(v.Int()), err //nolint:gosec
}

func (c *Context) GetI16ByName(name string) (int16, error) {
	v, err := c.typedByName(name, format.TypeI16)
	return int16(v.Int()), err //nolint:gosec
}

func (c *Context) GetI32ByName(name string) (int32, error) {
	v, err := c.typedByName(name, format.TypeI32)
	return int32(v.Int()), err //nolint:gosec
}

func (c *Context) GetI64ByName(name string) (int64, error) {
	v, err := c.typedByName(name, format.TypeI64)
	return v.Int(), err
}

func (c *Context) GetF32ByName(name string) (float32, error) {
	v, err := c.typedByName(name, format.TypeF32)
	return v.Float32(), err
}

func (c *Context) GetF64ByName(name string) (float64, error) {
	v, err := c.typedByName(name, format.TypeF64)
	return v.Float64(), err
}

func (c *Context) GetStrByName(name string) ([]byte, error) {
	v, err := c.typedByName(name, format.TypeStr)
	if err != nil {
		return nil, err
	}

	return c.Bytes(v), nil
}

func (c *Context) GetFStrByName(name string) ([]byte, error) {
	v, err := c.typedByName(name, format.TypeFStr)
	if err != nil {
		return nil, err
	}

	return c.Bytes(v), nil
}

func (c *Context) SetU8ByName(name string, v uint8) error   { return c.SetByName(name, value.U8(v)) }
func (c *Context) SetU16ByName(name string, v uint16) error { return c.SetByName(name, value.U16(v)) }
func (c *Context) SetU32ByName(name string, v uint32) error { return c.SetByName(name, value.U32(v)) }
func (c *Context) SetU64ByName(name string, v uint64) error { return c.SetByName(name, value.U64(v)) }
func (c *Context) SetI8ByName(name string, v int8) error    { return c.SetByName(name, value.I8(v)) }
func (c *Context) SetI16ByName(name string, v int16) error  { return c.SetByName(name, value.I16(v)) }
func (c *Context) SetI32ByName(name string, v int32) error  { return c.SetByName(name, value.I32(v)) }
func (c *Context) SetI64ByName(name string, v int64) error  { return c.SetByName(name, value.I64(v)) }
func (c *Context) SetF32ByName(name string, v float32) error {
	return c.SetByName(name, value.F32(v))
}
func (c *Context) SetF64ByName(name string, v float64) error {
	return c.SetByName(name, value.F64(v))
}
func (c *Context) SetStrByName(name, s string) error  { return c.SetByName(name, value.Str(s)) }
func (c *Context) SetFStrByName(name, s string) error { return c.SetByName(name, value.FStr(s)) }
