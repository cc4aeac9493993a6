package store

import (
	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/msgpack"
	"github.com/arloliu/cfgpack/value"
)

const (
	u8, u16, u32, u64 = format.TypeU8, format.TypeU16, format.TypeU32, format.TypeU64
	i8, i16, i32, i64 = format.TypeI8, format.TypeI16, format.TypeI32, format.TypeI64
	f32, f64          = format.TypeF32, format.TypeF64
	str, fstr         = format.TypeStr, format.TypeFStr
)

// coercible[wire][target] reports whether a value encoded as wire may be
// read into an entry of type target. Only widening is permitted.
var coercible = func() (m [format.NumTypes][format.NumTypes]bool) {
	allow := func(wire format.ValueType, targets ...format.ValueType) {
		for _, t := range targets {
			m[wire][t] = true
		}
	}

	allow(u8, u8, u16, u32, u64, i8, i16, i32, i64)
	allow(u16, u16, u32, u64, i16, i32, i64)
	allow(u32, u32, u64, i32, i64)
	allow(u64, u64, i64)
	allow(i8, i8, i16, i32, i64)
	allow(i16, i16, i32, i64)
	allow(i32, i32, i64)
	allow(i64, i64)
	allow(f32, f32, f64)
	allow(f64, f64)
	allow(str, str)
	allow(fstr, fstr, str)

	return m
}()

// CanCoerce reports whether a value encoded as wire may be paged into an
// entry of type target.
func CanCoerce(wire, target format.ValueType) bool {
	if !wire.Valid() || !target.Valid() {
		return false
	}

	return coercible[wire][target]
}

// wireType classifies the value introduced by format byte fb. String
// formats carry no width, so they take the target's string type.
func wireType(fb byte, target format.ValueType) (format.ValueType, error) {
	switch msgpack.Classify(fb) {
	case msgpack.FamilyUint:
		switch msgpack.IntBits(fb) {
		case 8:
			return u8, nil
		case 16:
			return u16, nil
		case 32:
			return u32, nil
		default:
			return u64, nil
		}
	case msgpack.FamilyInt:
		switch msgpack.IntBits(fb) {
		case 8:
			return i8, nil
		case 16:
			return i16, nil
		case 32:
			return i32, nil
		default:
			return i64, nil
		}
	case msgpack.FamilyFloat:
		if fb == msgpack.Float32 {
			return f32, nil
		}

		return f64, nil
	case msgpack.FamilyStr:
		if target == fstr {
			return fstr, nil
		}

		return str, nil
	case msgpack.FamilyInvalid:
		return 0, errs.ErrDecode
	default:
		return 0, errs.ErrTypeMismatch
	}
}

// decodeInto decodes the next value into the entry at pos, coercing it to
// the entry type, and marks the entry present.
func (c *Context) decodeInto(r *msgpack.Reader, pos int) error {
	target := c.schema.Entry(pos).Type

	fb, err := r.Peek()
	if err != nil {
		return err
	}
	wire, err := wireType(fb, target)
	if err != nil {
		return err
	}
	if !coercible[wire][target] {
		return errs.ErrTypeMismatch
	}

	var v value.Value
	switch {
	case target.IsUnsigned():
		u, err := r.DecodeUint(target.Bits())
		if err != nil {
			return err
		}
		v = value.Unsigned(target, u)
	case target.IsSigned():
		i, err := r.DecodeInt(target.Bits())
		if err != nil {
			return err
		}
		v = value.Signed(target, i)
	case target == f32:
		f, err := r.DecodeFloat32()
		if err != nil {
			return err
		}
		v = value.F32(f)
	case target == f64:
		if wire == f32 {
			f, err := r.DecodeFloat32()
			if err != nil {
				return err
			}
			v = value.F64(float64(f))
		} else {
			f, err := r.DecodeFloat64()
			if err != nil {
				return err
			}
			v = value.F64(f)
		}
	default:
		s, err := r.DecodeStr()
		if err != nil {
			return err
		}
		if len(s) > target.MaxLen() {
			return errs.ErrStrTooLong
		}
		off := c.slotOffset(pos)
		n := copy(c.pool[off:], s)
		c.pool[int(off)+n] = 0
		v = value.Ref(target, off, n)
	}

	c.values[pos] = v
	c.setPresent(pos)

	return nil
}
