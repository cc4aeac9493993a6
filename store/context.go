package store

import (
	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/schema"
	"github.com/arloliu/cfgpack/value"
)

// Arenas are the caller-owned buffers a Context is bound to.
type Arenas struct {
	Values   []value.Value
	Presence []byte
	Pool     []byte
	Offsets  []uint16
}

// NewArenas allocates arenas sized for s.
func NewArenas(s *schema.Schema) Arenas {
	sz := s.Sizing()

	return Arenas{
		Values:   make([]value.Value, sz.Entries),
		Presence: make([]byte, sz.PresenceBytes()),
		Pool:     make([]byte, sz.PoolSize),
		Offsets:  make([]uint16, sz.Slots()),
	}
}

// Context is a schema bound to its value arenas.
type Context struct {
	schema  *schema.Schema
	values  []value.Value
	present []byte
	pool    []byte
	offsets []uint16
}

// New allocates a Context and binds it.
func New(s *schema.Schema, a Arenas) (*Context, error) {
	c := &Context{}
	if err := c.Bind(s, a); err != nil {
		return nil, err
	}

	return c, nil
}

// Bind attaches the context to s and a, lays out the string slots and
// applies the schema defaults. The schema and arenas must outlive the
// context.
//
// Returns:
//   - error: errs.ErrBounds if any arena is too small; the context is left unchanged
func (c *Context) Bind(s *schema.Schema, a Arenas) error {
	sz := s.Sizing()
	if len(a.Values) < sz.Entries ||
		len(a.Presence) < sz.PresenceBytes() ||
		len(a.Offsets) < sz.Slots() ||
		len(a.Pool) < sz.PoolSize {
		return errs.ErrBounds
	}

	c.schema = s
	c.values = a.Values[:sz.Entries]
	c.present = a.Presence[:sz.PresenceBytes()]
	c.offsets = a.Offsets[:sz.Slots()]
	c.pool = a.Pool[:sz.PoolSize]
	s.LayoutSlots(c.offsets)
	c.ResetToDefaults()

	return nil
}

// ResetToDefaults clears every value and presence bit, then installs the
// schema defaults.
func (c *Context) ResetToDefaults() {
	clear(c.values)
	clear(c.present)
	clear(c.pool)

	for pos := range c.schema.Entries() {
		if c.schema.Entry(pos).HasDefault {
			c.applyDefault(pos)
		}
	}
}

// Schema returns the bound schema.
func (c *Context) Schema() *schema.Schema {
	return c.schema
}

// Version returns the bound schema version.
func (c *Context) Version() uint32 {
	return c.schema.Version()
}

// Size returns the number of present entries.
func (c *Context) Size() int {
	n := 0
	for pos := range c.values {
		if c.isPresent(pos) {
			n++
		}
	}

	return n
}

// Present reports whether the entry with the given index holds a value.
func (c *Context) Present(index uint16) bool {
	pos, ok := c.schema.Find(index)

	return ok && c.isPresent(pos)
}

// Get returns the value of the entry with the given index. String values
// are pool descriptors; read their bytes with GetStr, GetFStr or Bytes.
//
// Returns:
//   - value.Value: Copy of the stored value
//   - error: errs.ErrReservedIndex for index 0, errs.ErrMissing if the entry is unknown or absent
func (c *Context) Get(index uint16) (value.Value, error) {
	if index == 0 {
		return value.Value{}, errs.ErrReservedIndex
	}
	pos, ok := c.schema.Find(index)
	if !ok || !c.isPresent(pos) {
		return value.Value{}, errs.ErrMissing
	}

	return c.values[pos], nil
}

// Set stores v into the entry with the given index and marks it present.
// The type of v must equal the entry type exactly. A string descriptor
// previously returned by Get on this context may be passed back in.
//
// Returns:
//   - error: errs.ErrReservedIndex, errs.ErrMissing, errs.ErrTypeMismatch or errs.ErrStrTooLong
func (c *Context) Set(index uint16, v value.Value) error {
	if index == 0 {
		return errs.ErrReservedIndex
	}
	pos, ok := c.schema.Find(index)
	if !ok {
		return errs.ErrMissing
	}

	return c.setAt(pos, v)
}

// GetByName is Get with the entry located by name.
func (c *Context) GetByName(name string) (value.Value, error) {
	pos, ok := c.schema.FindName(name)
	if !ok || !c.isPresent(pos) {
		return value.Value{}, errs.ErrMissing
	}

	return c.values[pos], nil
}

// SetByName is Set with the entry located by name.
func (c *Context) SetByName(name string, v value.Value) error {
	pos, ok := c.schema.FindName(name)
	if !ok {
		return errs.ErrMissing
	}

	return c.setAt(pos, v)
}

// Bytes resolves a string descriptor returned by Get against the context
// pool. The slice is valid until the entry is next written.
func (c *Context) Bytes(v value.Value) []byte {
	return v.Bytes(c.pool)
}

func (c *Context) setAt(pos int, v value.Value) error {
	t := c.schema.Entry(pos).Type
	if v.Type() != t {
		return errs.ErrTypeMismatch
	}

	if t.IsString() {
		n := v.Len()
		if n > t.MaxLen() {
			return errs.ErrStrTooLong
		}
		off := c.slotOffset(pos)
		dst := c.pool[off : int(off)+n+1]
		if text := v.Text(); text != "" {
			copy(dst, text)
		} else {
			src := int(v.Offset())
			if src+n > len(c.pool) {
				return errs.ErrBounds
			}
			copy(dst, c.pool[src:src+n])
		}
		dst[n] = 0
		c.values[pos] = value.Ref(t, off, n)
	} else {
		c.values[pos] = v
	}
	c.setPresent(pos)

	return nil
}

func (c *Context) applyDefault(pos int) {
	def, ok := c.schema.Default(pos)
	if !ok {
		return
	}

	t := def.Type()
	if t.IsString() {
		src := c.schema.DefaultBytes(def)
		off := c.slotOffset(pos)
		n := copy(c.pool[off:], src)
		c.pool[int(off)+n] = 0
		c.values[pos] = value.Ref(t, off, n)
	} else {
		c.values[pos] = def
	}
	c.setPresent(pos)
}

func (c *Context) slotOffset(pos int) uint16 {
	return c.offsets[c.schema.Slot(pos)]
}

func (c *Context) isPresent(pos int) bool {
	return c.present[pos>>3]&(1<<(pos&7)) != 0
}

func (c *Context) setPresent(pos int) {
	c.present[pos>>3] |= 1 << (pos & 7)
}

// typed fetches a present value and checks its type.
func (c *Context) typed(index uint16, t format.ValueType) (value.Value, error) {
	v, err := c.Get(index)
	if err != nil {
		return v, err
	}
	if v.Type() != t {
		return value.Value{}, errs.ErrTypeMismatch
	}

	return v, nil
}

func (c *Context) typedByName(name string, t format.ValueType) (value.Value, error) {
	v, err := c.GetByName(name)
	if err != nil {
		return v, err
	}
	if v.Type() != t {
		return value.Value{}, errs.ErrTypeMismatch
	}

	return v, nil
}
