package store

import (
	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/msgpack"
	"github.com/arloliu/cfgpack/schema"
)

// MinPageoutSize is the smallest output buffer Pageout accepts, enough for
// the map header, the reserved key and a short name header.
const MinPageoutSize = 12

// PageoutBound returns the largest number of bytes Pageout can write for
// a context bound to s, with every entry present at its widest encoding.
func PageoutBound(s *schema.Schema) int {
	n := 3 + 1 + strHeaderLen(len(s.Name())) + len(s.Name())
	for _, e := range s.Entries() {
		n += 3 // uint16 key
		if e.Type.IsString() {
			n += strHeaderLen(e.Type.MaxLen()) + e.Type.MaxLen()
		} else {
			n += 1 + e.Type.Bits()/8
		}
	}

	return max(n, MinPageoutSize)
}

func strHeaderLen(n int) int {
	switch {
	case n < 32:
		return 1
	case n < 256:
		return 2
	default:
		return 3
	}
}

// Remap translates a key written under an older schema to its index in the
// current schema.
type Remap struct {
	Old uint16
	New uint16
}

// Pageout encodes the present entries as a MessagePack map into out and
// returns the number of bytes written. Key 0 carries the schema name and
// the remaining keys follow in ascending index order.
//
// Returns:
//   - int: Number of bytes written to out
//   - error: errs.ErrEncodeOverflow if out cannot hold the encoding
func (c *Context) Pageout(out []byte) (int, error) {
	if len(out) < MinPageoutSize {
		return 0, errs.ErrEncodeOverflow
	}

	b := msgpack.NewBuffer(out)
	if err := c.pageout(&b); err != nil {
		return 0, errs.ErrEncodeOverflow
	}

	return b.Len(), nil
}

func (c *Context) pageout(b *msgpack.Buffer) error {
	if err := b.EncodeMapHeader(c.Size() + 1); err != nil {
		return err
	}
	if err := b.EncodeUint64(0); err != nil {
		return err
	}
	if err := b.EncodeString(c.schema.Name()); err != nil {
		return err
	}

	for pos := range c.values {
		if !c.isPresent(pos) {
			continue
		}
		if err := b.EncodeUint64(uint64(c.schema.Entry(pos).Index)); err != nil {
			return err
		}
		if err := c.encodeValue(b, pos); err != nil {
			return err
		}
	}

	return nil
}

func (c *Context) encodeValue(b *msgpack.Buffer, pos int) error {
	v := c.values[pos]
	t := v.Type()

	switch {
	case t.IsUnsigned():
		return b.EncodeUint64(v.Uint())
	case t.IsSigned():
		return b.EncodeInt64(v.Int())
	case t == format.TypeF32:
		return b.EncodeFloat32(v.Float32())
	case t == format.TypeF64:
		return b.EncodeFloat64(v.Float64())
	default:
		return b.EncodeStr(c.Bytes(v))
	}
}

// Pagein replaces the context contents with the entries of blob. It is
// PageinRemap without a remap table.
func (c *Context) Pagein(blob []byte) error {
	return c.PageinRemap(blob, nil)
}

// PageinRemap decodes blob into the context. Each wire key is translated
// through remap (first match wins), keys the schema does not know are
// skipped, and values are coerced to the entry types. Entries the blob
// does not cover are restored to their defaults.
//
// On error the context is left partially updated and must be reset with
// ResetToDefaults before reuse.
//
// Returns:
//   - error: errs.ErrDecode, errs.ErrTypeMismatch or errs.ErrStrTooLong
func (c *Context) PageinRemap(blob []byte, remap []Remap) error {
	if len(blob) < 2 {
		return errs.ErrDecode
	}

	r := msgpack.NewReader(blob)
	count, err := r.DecodeMapHeader()
	if err != nil {
		return errs.ErrDecode
	}

	clear(c.present)

	for range count {
		key, ok, err := readKey(&r)
		if err != nil {
			return err
		}
		if !ok || key == 0 || key > format.MaxIndex {
			if err := r.Skip(); err != nil {
				return err
			}

			continue
		}

		pos, found := c.schema.Find(translate(uint16(key), remap))
		if !found {
			if err := r.Skip(); err != nil {
				return err
			}

			continue
		}

		if err := c.decodeInto(&r, pos); err != nil {
			return err
		}
	}

	c.restoreDefaults()

	return nil
}

// restoreDefaults marks every absent entry that has a default present and
// reinstalls that default.
func (c *Context) restoreDefaults() {
	for pos := range c.values {
		if c.isPresent(pos) || !c.schema.Entry(pos).HasDefault {
			continue
		}
		c.applyDefault(pos)
	}
}

// PeekName copies the schema name stored under key 0 of blob into out,
// followed by a NUL byte, without binding a context.
//
// Returns:
//   - int: Length of the name, excluding the NUL terminator
//   - error: errs.ErrMissing if key 0 is absent, errs.ErrBounds if out is too small, errs.ErrDecode if blob is malformed
func PeekName(blob, out []byte) (int, error) {
	r := msgpack.NewReader(blob)
	count, err := r.DecodeMapHeader()
	if err != nil {
		return 0, errs.ErrDecode
	}

	for range count {
		key, ok, err := readKey(&r)
		if err != nil {
			return 0, err
		}
		if !ok || key != 0 {
			if err := r.Skip(); err != nil {
				return 0, err
			}

			continue
		}

		name, err := r.DecodeStr()
		if err != nil {
			return 0, errs.ErrDecode
		}
		if len(name)+1 > len(out) {
			return 0, errs.ErrBounds
		}
		n := copy(out, name)
		out[n] = 0

		return n, nil
	}

	return 0, errs.ErrMissing
}

// readKey reads a map key. Keys that are not non-negative integers are
// consumed and reported with ok == false.
func readKey(r *msgpack.Reader) (key uint64, ok bool, err error) {
	fb, err := r.Peek()
	if err != nil {
		return 0, false, err
	}

	switch msgpack.Classify(fb) {
	case msgpack.FamilyUint:
		key, err = r.DecodeUint64()
		return key, err == nil, err
	case msgpack.FamilyInt:
		// A signed format may still carry a non-negative value.
		save := *r
		if key, err = r.DecodeUint64(); err == nil {
			return key, true, nil
		}
		*r = save
	}

	return 0, false, r.Skip()
}

func translate(key uint16, remap []Remap) uint16 {
	for _, m := range remap {
		if m.Old == key {
			return m.New
		}
	}

	return key
}
