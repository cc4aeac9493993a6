package msgpack

import (
	"encoding/binary"
	"math"

	"github.com/arloliu/cfgpack/errs"
)

// Buffer is a fixed-capacity output buffer over caller storage.
//
// The zero value has no capacity; every append fails with
// errs.ErrEncodeOverflow.
type Buffer struct {
	data []byte
}

// NewBuffer creates a Buffer writing into storage. The capacity is
// len(storage); bytes beyond it are never touched.
func NewBuffer(storage []byte) Buffer {
	return Buffer{data: storage[:0:len(storage)]}
}

// Reset rebinds the buffer to storage and discards written bytes.
func (b *Buffer) Reset(storage []byte) {
	b.data = storage[:0:len(storage)]
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the total capacity.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// Available returns the number of bytes that can still be written.
func (b *Buffer) Available() int {
	return cap(b.data) - len(b.data)
}

// Bytes returns the written bytes. The slice aliases the caller storage.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Append writes p in full or not at all.
func (b *Buffer) Append(p []byte) error {
	if len(p) > b.Available() {
		return errs.ErrEncodeOverflow
	}
	b.data = append(b.data, p...)

	return nil
}

func (b *Buffer) reserve(n int) error {
	if n > b.Available() {
		return errs.ErrEncodeOverflow
	}

	return nil
}

// EncodeUint64 writes v as positive fixint, uint8, uint16, uint32 or uint64,
// whichever is smallest.
func (b *Buffer) EncodeUint64(v uint64) error {
	switch {
	case v <= uint64(PosFixIntMax):
		if err := b.reserve(1); err != nil {
			return err
		}
		b.data = append(b.data, byte(v))
	case v <= math.MaxUint8:
		if err := b.reserve(2); err != nil {
			return err
		}
		b.data = append(b.data, Uint8, byte(v))
	case v <= math.MaxUint16:
		if err := b.reserve(3); err != nil {
			return err
		}
		b.data = append(b.data, Uint16)
		b.data = binary.BigEndian.AppendUint16(b.data, uint16(v))
	case v <= math.MaxUint32:
		if err := b.reserve(5); err != nil {
			return err
		}
		b.data = append(b.data, Uint32)
		b.data = binary.BigEndian.AppendUint32(b.data, uint32(v))
	default:
		if err := b.reserve(9); err != nil {
			return err
		}
		b.data = append(b.data, Uint64)
		b.data = binary.BigEndian.AppendUint64(b.data, v)
	}

	return nil
}

// EncodeInt64 writes v in the smallest signed format. Non-negative values
// are written through EncodeUint64.
func (b *Buffer) EncodeInt64(v int64) error {
	if v >= 0 {
		return b.EncodeUint64(uint64(v))
	}

	switch {
	case v >= -32:
		if err := b.reserve(1); err != nil {
			return err
		}
		b.data = append(b.data, byte(int8(v))) //nolint:gosec
	case v >= math.MinInt8:
		if err := b.reserve(2); err != nil {
			return err
		}
		b.data = append(b.data, Int8, byte(int8(v))) //nolint:gosec
	case v >= math.MinInt16:
		if err := b.reserve(3); err != nil {
			return err
		}
		b.data = append(b.data, Int16)
		b.data = binary.BigEndian.AppendUint16(b.data, uint16(int16(v))) //nolint:gosec
	case v >= math.MinInt32:
		if err := b.reserve(5); err != nil {
			return err
		}
		b.data = append(b.data, Int32)
		b.data = binary.BigEndian.AppendUint32(b.data, uint32(int32(v))) //nolint:gosec
	default:
		if err := b.reserve(9); err != nil {
			return err
		}
		b.data = append(b.data, Int64)
		b.data = binary.BigEndian.AppendUint64(b.data, uint64(v)) //nolint:gosec
	}

	return nil
}

// EncodeFloat32 writes v as a float 32.
func (b *Buffer) EncodeFloat32(v float32) error {
	if err := b.reserve(5); err != nil {
		return err
	}
	b.data = append(b.data, Float32)
	b.data = binary.BigEndian.AppendUint32(b.data, math.Float32bits(v))

	return nil
}

// EncodeFloat64 writes v as a float 64.
func (b *Buffer) EncodeFloat64(v float64) error {
	if err := b.reserve(9); err != nil {
		return err
	}
	b.data = append(b.data, Float64)
	b.data = binary.BigEndian.AppendUint64(b.data, math.Float64bits(v))

	return nil
}

// EncodeStr writes s as fixstr, str8 or str16. Strings longer than 65535
// bytes are rejected with errs.ErrBounds since str32 is never emitted.
func (b *Buffer) EncodeStr(s []byte) error {
	if err := b.strHeader(len(s)); err != nil {
		return err
	}
	b.data = append(b.data, s...)

	return nil
}

// EncodeString is EncodeStr for a string argument.
func (b *Buffer) EncodeString(s string) error {
	if err := b.strHeader(len(s)); err != nil {
		return err
	}
	b.data = append(b.data, s...)

	return nil
}

// strHeader writes the header of an n byte string after checking that the
// header and the payload both fit.
func (b *Buffer) strHeader(n int) error {
	switch {
	case n <= 31:
		if err := b.reserve(1 + n); err != nil {
			return err
		}
		b.data = append(b.data, FixStrPrefix|byte(n))
	case n <= math.MaxUint8:
		if err := b.reserve(2 + n); err != nil {
			return err
		}
		b.data = append(b.data, Str8, byte(n))
	case n <= math.MaxUint16:
		if err := b.reserve(3 + n); err != nil {
			return err
		}
		b.data = append(b.data, Str16)
		b.data = binary.BigEndian.AppendUint16(b.data, uint16(n))
	default:
		return errs.ErrBounds
	}

	return nil
}

// EncodeMapHeader writes a fixmap or map16 header announcing count pairs.
// Counts above 65535 are rejected with errs.ErrBounds.
func (b *Buffer) EncodeMapHeader(count int) error {
	return b.encodeContainer(FixMapPrefix, Map16, count)
}

// EncodeArrayHeader writes a fixarray or array16 header.
// Counts above 65535 are rejected with errs.ErrBounds.
func (b *Buffer) EncodeArrayHeader(count int) error {
	return b.encodeContainer(FixArrayPrefix, Array16, count)
}

func (b *Buffer) encodeContainer(fix, wide byte, count int) error {
	switch {
	case count < 0 || count > math.MaxUint16:
		return errs.ErrBounds
	case count <= 15:
		if err := b.reserve(1); err != nil {
			return err
		}
		b.data = append(b.data, fix|byte(count))
	default:
		if err := b.reserve(3); err != nil {
			return err
		}
		b.data = append(b.data, wide)
		b.data = binary.BigEndian.AppendUint16(b.data, uint16(count))
	}

	return nil
}

// EncodeNil writes nil.
func (b *Buffer) EncodeNil() error {
	if err := b.reserve(1); err != nil {
		return err
	}
	b.data = append(b.data, Nil)

	return nil
}

// EncodeBool writes true or false.
func (b *Buffer) EncodeBool(v bool) error {
	if err := b.reserve(1); err != nil {
		return err
	}
	if v {
		b.data = append(b.data, True)
	} else {
		b.data = append(b.data, False)
	}

	return nil
}
