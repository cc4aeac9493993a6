package msgpack

import (
	"encoding/binary"
	"math"

	"github.com/arloliu/cfgpack/errs"
)

// Reader decodes MessagePack values from a borrowed byte slice.
//
// Each successful decode advances the cursor by exactly the bytes it
// consumed. After an error the cursor position is unspecified.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) Reader {
	return Reader{data: data}
}

// Reset rebinds the reader to data and rewinds the cursor.
func (r *Reader) Reset(data []byte) {
	r.data = data
	r.pos = 0
}

// Pos returns the cursor position.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Done reports whether every byte has been consumed.
func (r *Reader) Done() bool {
	return r.pos >= len(r.data)
}

// Peek returns the next format byte without consuming it.
func (r *Reader) Peek() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errs.ErrDecode
	}

	return r.data[r.pos], nil
}

func (r *Reader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errs.ErrDecode
	}
	fb := r.data[r.pos]
	r.pos++

	return fb, nil
}

// take consumes n bytes. n comes from the wire and may be as large as
// 2^32-1, so the bound is checked in 64 bits.
func (r *Reader) take(n uint64) ([]byte, error) {
	if n > uint64(len(r.data)-r.pos) {
		return nil, errs.ErrDecode
	}
	start := r.pos
	r.pos += int(n) //nolint:gosec

	return r.data[start:r.pos], nil
}

func (r *Reader) readUint16() (uint16, error) {
	p, err := r.take(2)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(p), nil
}

func (r *Reader) readUint32() (uint32, error) {
	p, err := r.take(4)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(p), nil
}

func (r *Reader) readUint64() (uint64, error) {
	p, err := r.take(8)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(p), nil
}

// readInteger decodes any integer format. It returns the magnitude for
// unsigned formats and the two's complement bits for signed ones.
func (r *Reader) readInteger() (v uint64, signed bool, err error) {
	fb, err := r.readByte()
	if err != nil {
		return 0, false, err
	}

	switch {
	case fb <= PosFixIntMax:
		return uint64(fb), false, nil
	case fb >= NegFixIntMin:
		return uint64(int64(int8(fb))), true, nil //nolint:gosec
	}

	switch fb {
	case Uint8:
		p, err := r.take(1)
		if err != nil {
			return 0, false, err
		}

		return uint64(p[0]), false, nil
	case Uint16:
		u, err := r.readUint16()
		return uint64(u), false, err
	case Uint32:
		u, err := r.readUint32()
		return uint64(u), false, err
	case Uint64:
		u, err := r.readUint64()
		return u, false, err
	case Int8:
		p, err := r.take(1)
		if err != nil {
			return 0, false, err
		}

		return uint64(int64(int8(p[0]))), true, nil //nolint:gosec
	case Int16:
		u, err := r.readUint16()
		return uint64(int64(int16(u))), true, err //nolint:gosec
	case Int32:
		u, err := r.readUint32()
		return uint64(int64(int32(u))), true, err //nolint:gosec
	case Int64:
		u, err := r.readUint64()
		return u, true, err
	default:
		return 0, false, errs.ErrDecode
	}
}

// DecodeUint64 decodes any integer format holding a non-negative value.
func (r *Reader) DecodeUint64() (uint64, error) {
	v, signed, err := r.readInteger()
	if err != nil {
		return 0, err
	}
	if signed && int64(v) < 0 { //nolint:gosec
		return 0, errs.ErrDecode
	}

	return v, nil
}

// DecodeInt64 decodes any integer format holding a value in int64 range.
// A uint64 above math.MaxInt64 fails with errs.ErrDecode.
func (r *Reader) DecodeInt64() (int64, error) {
	v, signed, err := r.readInteger()
	if err != nil {
		return 0, err
	}
	if !signed && v > math.MaxInt64 {
		return 0, errs.ErrDecode
	}

	return int64(v), nil //nolint:gosec
}

// DecodeUint decodes an unsigned integer that must fit in bits (8, 16, 32
// or 64).
func (r *Reader) DecodeUint(bits int) (uint64, error) {
	v, err := r.DecodeUint64()
	if err != nil {
		return 0, err
	}
	if bits < 64 && v > (uint64(1)<<bits)-1 {
		return 0, errs.ErrDecode
	}

	return v, nil
}

// DecodeInt decodes a signed integer that must fit in bits (8, 16, 32 or 64).
func (r *Reader) DecodeInt(bits int) (int64, error) {
	v, err := r.DecodeInt64()
	if err != nil {
		return 0, err
	}
	if bits < 64 {
		limit := int64(1) << (bits - 1)
		if v < -limit || v >= limit {
			return 0, errs.ErrDecode
		}
	}

	return v, nil
}

// DecodeUint8 decodes an integer that fits in a uint8.
func (r *Reader) DecodeUint8() (uint8, error) {
	v, err := r.DecodeUint(8)
	return uint8(v), err //nolint:gosec
}

// DecodeUint16 decodes an integer that fits in a uint16.
func (r *Reader) DecodeUint16() (uint16, error) {
	v, err := r.DecodeUint(16)
	return uint16(v), err //nolint:gosec
}

// DecodeUint32 decodes an integer that fits in a uint32.
func (r *Reader) DecodeUint32() (uint32, error) {
	v, err := r.DecodeUint(32)
	return uint32(v), err //nolint:gosec
}

// DecodeInt8 decodes an integer that fits in an int8.
func (r *Reader) DecodeInt8() (int8, error) {
	v, err := r.DecodeInt(8)
	return int8(v), err //nolint:gosec
}

// DecodeInt16 decodes an integer that fits in an int16.
func (r *Reader) DecodeInt16() (int16, error) {
	v, err := r.DecodeInt(16)
	return int16(v), err //nolint:gosec
}

// DecodeInt32 decodes an integer that fits in an int32.
func (r *Reader) DecodeInt32() (int32, error) {
	v, err := r.DecodeInt(32)
	return int32(v), err //nolint:gosec
}

// DecodeFloat32 decodes a float 32.
func (r *Reader) DecodeFloat32() (float32, error) {
	fb, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if fb != Float32 {
		return 0, errs.ErrDecode
	}
	u, err := r.readUint32()
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(u), nil
}

// DecodeFloat64 decodes a float 64.
func (r *Reader) DecodeFloat64() (float64, error) {
	fb, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if fb != Float64 {
		return 0, errs.ErrDecode
	}
	u, err := r.readUint64()
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(u), nil
}

// DecodeStr decodes a fixstr, str8, str16 or str32. The returned slice
// aliases the reader's input.
func (r *Reader) DecodeStr() ([]byte, error) {
	fb, err := r.readByte()
	if err != nil {
		return nil, err
	}

	var n uint64
	switch {
	case fb&0xe0 == FixStrPrefix:
		n = uint64(fb & 0x1f)
	case fb == Str8:
		p, err := r.take(1)
		if err != nil {
			return nil, err
		}
		n = uint64(p[0])
	case fb == Str16:
		u, err := r.readUint16()
		if err != nil {
			return nil, err
		}
		n = uint64(u)
	case fb == Str32:
		u, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		n = uint64(u)
	default:
		return nil, errs.ErrDecode
	}

	return r.take(n)
}

// DecodeMapHeader decodes a fixmap, map16 or map32 header and returns the
// number of key/value pairs.
func (r *Reader) DecodeMapHeader() (uint32, error) {
	return r.containerHeader(FixMapPrefix, Map16, Map32)
}

// DecodeArrayHeader decodes a fixarray, array16 or array32 header and
// returns the number of elements.
func (r *Reader) DecodeArrayHeader() (uint32, error) {
	return r.containerHeader(FixArrayPrefix, Array16, Array32)
}

func (r *Reader) containerHeader(fix, f16, f32 byte) (uint32, error) {
	fb, err := r.readByte()
	if err != nil {
		return 0, err
	}

	switch {
	case fb&0xf0 == fix:
		return uint32(fb & 0x0f), nil
	case fb == f16:
		u, err := r.readUint16()
		return uint32(u), err
	case fb == f32:
		return r.readUint32()
	default:
		return 0, errs.ErrDecode
	}
}

// DecodeNil consumes a nil.
func (r *Reader) DecodeNil() error {
	fb, err := r.readByte()
	if err != nil {
		return err
	}
	if fb != Nil {
		return errs.ErrDecode
	}

	return nil
}

// DecodeBool decodes true or false.
func (r *Reader) DecodeBool() (bool, error) {
	fb, err := r.readByte()
	if err != nil {
		return false, err
	}

	switch fb {
	case True:
		return true, nil
	case False:
		return false, nil
	default:
		return false, errs.ErrDecode
	}
}
