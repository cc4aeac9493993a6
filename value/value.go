// Package value provides the tagged runtime value stored in a cfgpack
// context.
//
// A Value carries its type tag and a payload held at the widest width:
// integers as 64 bits (two's complement for signed types), floats as their
// IEEE 754 bit pattern. Stored strings never live inside a Value; a stored
// string Value is a descriptor {offset, length} into a string pool. Values
// built with Str or FStr carry the caller's text until a context copies it
// into its pool.
package value

import (
	"math"

	"github.com/arloliu/cfgpack/format"
)

// Value is a tagged configuration value. The zero Value is a TypeU8 zero.
type Value struct {
	text string
	num  uint64
	off  uint16
	n    uint16
	typ  format.ValueType
}

// U8 returns a TypeU8 value.
func U8(v uint8) Value { return Value{typ: format.TypeU8, num: uint64(v)} }

// U16 returns a TypeU16 value.
func U16(v uint16) Value { return Value{typ: format.TypeU16, num: uint64(v)} }

// U32 returns a TypeU32 value.
func U32(v uint32) Value { return Value{typ: format.TypeU32, num: uint64(v)} }

// U64 returns a TypeU64 value.
func U64(v uint64) Value { return Value{typ: format.TypeU64, num: v} }

// I8 returns a TypeI8 value.
func I8(v int8) Value { return Value{typ: format.TypeI8, num: uint64(int64(v))} } //nolint:gosec

// I16 returns a TypeI16 value.
func I16(v int16) Value { return Value{typ: format.TypeI16, num: uint64(int64(v))} } //nolint:gosec

// I32 returns a TypeI32 value.
func I32(v int32) Value { return Value{typ: format.TypeI32, num: uint64(int64(v))} } //nolint:gosec

// I64 returns a TypeI64 value.
func I64(v int64) Value { return Value{typ: format.TypeI64, num: uint64(v)} } //nolint:gosec

// F32 returns a TypeF32 value.
func F32(v float32) Value { return Value{typ: format.TypeF32, num: uint64(math.Float32bits(v))} }

// F64 returns a TypeF64 value.
func F64(v float64) Value { return Value{typ: format.TypeF64, num: math.Float64bits(v)} }

// Str returns a TypeStr value carrying s. Length limits are enforced when
// the value is stored.
func Str(s string) Value { return Value{typ: format.TypeStr, text: s} }

// FStr returns a TypeFStr value carrying s.
func FStr(s string) Value { return Value{typ: format.TypeFStr, text: s} }

// Unsigned builds an unsigned integer value of type t from v. The caller
// guarantees that v fits t.
func Unsigned(t format.ValueType, v uint64) Value {
	return Value{typ: t, num: v}
}

// Signed builds a signed integer value of type t from v. The caller
// guarantees that v fits t.
func Signed(t format.ValueType, v int64) Value {
	return Value{typ: t, num: uint64(v)} //nolint:gosec
}

// Ref builds a stored string descriptor of type t pointing at n bytes at
// offset off in a string pool.
func Ref(t format.ValueType, off uint16, n int) Value {
	return Value{typ: t, off: off, n: uint16(n)} //nolint:gosec
}

// Type returns the type tag.
func (v Value) Type() format.ValueType { return v.typ }

// Uint returns the payload of an unsigned integer value.
func (v Value) Uint() uint64 { return v.num }

// Int returns the payload of a signed integer value.
func (v Value) Int() int64 { return int64(v.num) } //nolint:gosec

// Float32 returns the payload of a TypeF32 value.
func (v Value) Float32() float32 { return math.Float32frombits(uint32(v.num)) } //nolint:gosec

// Float64 returns the payload of a TypeF64 value.
func (v Value) Float64() float64 { return math.Float64frombits(v.num) }

// Bits returns the raw 64-bit payload.
func (v Value) Bits() uint64 { return v.num }

// Text returns the pending text of a value built with Str or FStr.
func (v Value) Text() string { return v.text }

// Offset returns the string pool offset of a stored string.
func (v Value) Offset() uint16 { return v.off }

// Len returns the byte length of a string value: the stored length for a
// pool descriptor, or the pending text length.
func (v Value) Len() int {
	if v.text != "" {
		return len(v.text)
	}

	return int(v.n)
}

// Bytes resolves a stored string descriptor against pool.
func (v Value) Bytes(pool []byte) []byte {
	return pool[v.off : int(v.off)+int(v.n)]
}
