package msgpack

import (
	"math"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
)

// Skip advances past exactly one MessagePack value, whatever its type and
// nesting.
//
// Containers push their remaining child count (pairs count twice) onto a
// fixed stack of format.SkipMaxDepth levels; empty containers complete
// like scalars. A value nesting format.SkipMaxDepth containers is skipped;
// one more level fails with errs.ErrDecode. The routine never recurses.
func (r *Reader) Skip() error {
	var stack [format.SkipMaxDepth]uint32
	depth := 0

	for {
		children, err := r.skipHead()
		if err != nil {
			return err
		}

		if children > 0 {
			if depth == len(stack) {
				return errs.ErrDecode
			}
			stack[depth] = children
			depth++

			continue
		}

		// One value completed: pop every container it finished.
		for {
			if depth == 0 {
				return nil
			}
			stack[depth-1]--
			if stack[depth-1] > 0 {
				break
			}
			depth--
		}
	}
}

// skipHead consumes one format byte and, for scalars, its payload. For a
// non-empty container it returns the number of child values that follow.
func (r *Reader) skipHead() (uint32, error) {
	fb, err := r.readByte()
	if err != nil {
		return 0, err
	}

	switch {
	case fb <= PosFixIntMax, fb >= NegFixIntMin:
		return 0, nil
	case fb&0xf0 == FixMapPrefix:
		return r.children(uint64(fb&0x0f) * 2)
	case fb&0xf0 == FixArrayPrefix:
		return r.children(uint64(fb & 0x0f))
	case fb&0xe0 == FixStrPrefix:
		return 0, r.skipBytes(uint64(fb & 0x1f))
	}

	switch fb {
	case Nil, False, True:
		return 0, nil
	case Uint8, Int8:
		return 0, r.skipBytes(1)
	case Uint16, Int16:
		return 0, r.skipBytes(2)
	case Uint32, Int32, Float32:
		return 0, r.skipBytes(4)
	case Uint64, Int64, Float64:
		return 0, r.skipBytes(8)
	case Str8, Bin8:
		n, err := r.take(1)
		if err != nil {
			return 0, err
		}

		return 0, r.skipBytes(uint64(n[0]))
	case Str16, Bin16:
		n, err := r.readUint16()
		if err != nil {
			return 0, err
		}

		return 0, r.skipBytes(uint64(n))
	case Str32, Bin32:
		n, err := r.readUint32()
		if err != nil {
			return 0, err
		}

		return 0, r.skipBytes(uint64(n))
	case FixExt1:
		return 0, r.skipBytes(1 + 1)
	case FixExt2:
		return 0, r.skipBytes(1 + 2)
	case FixExt4:
		return 0, r.skipBytes(1 + 4)
	case FixExt8:
		return 0, r.skipBytes(1 + 8)
	case FixExt16:
		return 0, r.skipBytes(1 + 16)
	case Ext8:
		n, err := r.take(1)
		if err != nil {
			return 0, err
		}

		return 0, r.skipBytes(1 + uint64(n[0]))
	case Ext16:
		n, err := r.readUint16()
		if err != nil {
			return 0, err
		}

		return 0, r.skipBytes(1 + uint64(n))
	case Ext32:
		n, err := r.readUint32()
		if err != nil {
			return 0, err
		}

		return 0, r.skipBytes(1 + uint64(n))
	case Array16:
		n, err := r.readUint16()
		if err != nil {
			return 0, err
		}

		return r.children(uint64(n))
	case Array32:
		n, err := r.readUint32()
		if err != nil {
			return 0, err
		}

		return r.children(uint64(n))
	case Map16:
		n, err := r.readUint16()
		if err != nil {
			return 0, err
		}

		return r.children(uint64(n) * 2)
	case Map32:
		n, err := r.readUint32()
		if err != nil {
			return 0, err
		}

		return r.children(uint64(n) * 2)
	default:
		// 0xc1 is never used.
		return 0, errs.ErrDecode
	}
}

// children validates a container child count. Every child needs at least
// one byte, so counts beyond the remaining input are malformed.
func (r *Reader) children(n uint64) (uint32, error) {
	if n > uint64(r.Remaining()) || n > math.MaxUint32 {
		return 0, errs.ErrDecode
	}

	return uint32(n), nil
}

func (r *Reader) skipBytes(n uint64) error {
	_, err := r.take(n)
	return err
}
