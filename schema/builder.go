package schema

import (
	"fmt"
	"math"
	"sort"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/internal/collision"
	"github.com/arloliu/cfgpack/internal/options"
	"github.com/arloliu/cfgpack/value"
)

// Option configures a Builder.
type Option = options.Option[*Builder]

// WithMaxEntries overrides the default cap of format.MaxEntries entries.
//
// Parameters:
//   - n: Maximum number of entries, 1..65534
//
// Returns:
//   - Option: errs.ErrBounds when n is out of range
func WithMaxEntries(n int) Option {
	return options.New(func(b *Builder) error {
		if n <= 0 || n >= format.MaxIndex {
			return fmt.Errorf("%w: max entries %d", errs.ErrBounds, n)
		}
		b.maxEntries = n

		return nil
	})
}

// Builder assembles a Schema. Entries may be added in any order.
type Builder struct {
	name       string
	version    uint32
	maxEntries int
	entries    []Entry
	defaults   []value.Value
	tracker    *collision.Tracker
}

// NewBuilder starts a schema with the given map name and version.
//
// Returns:
//   - *Builder: The builder
//   - error: errs.ErrBounds if name exceeds format.MapNameMax bytes, or an option error
func NewBuilder(name string, version uint32, opts ...Option) (*Builder, error) {
	if err := CheckMapName(name); err != nil {
		return nil, err
	}

	b := &Builder{
		name:       name,
		version:    version,
		maxEntries: format.MaxEntries,
		tracker:    collision.NewTracker(),
	}
	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	return b, nil
}

// CheckMapName validates the length of a schema map name.
func CheckMapName(name string) error {
	if len(name) > format.MapNameMax {
		return fmt.Errorf("%w: map name is %d bytes, max %d", errs.ErrBounds, len(name), format.MapNameMax)
	}

	return nil
}

// Len returns the number of entries added so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// MaxEntries returns the configured entry cap.
func (b *Builder) MaxEntries() int {
	return b.maxEntries
}

// Add appends an entry without a default.
func (b *Builder) Add(index uint16, name string, t format.ValueType) error {
	return b.add(index, name, t, value.Value{}, false)
}

// AddDefault appends an entry whose type and default are taken from def.
// String defaults longer than the type allows fail with errs.ErrStrTooLong.
func (b *Builder) AddDefault(index uint16, name string, def value.Value) error {
	return b.add(index, name, def.Type(), def, true)
}

func (b *Builder) add(index uint16, name string, t format.ValueType, def value.Value, hasDefault bool) error {
	if len(b.entries) >= b.maxEntries {
		return fmt.Errorf("%w: more than %d entries", errs.ErrBounds, b.maxEntries)
	}
	if index == 0 {
		return fmt.Errorf("%w: index 0 holds the map name", errs.ErrReservedIndex)
	}
	if !t.Valid() {
		return fmt.Errorf("%w: tag %d", errs.ErrInvalidType, uint8(t))
	}
	n, err := ParseName(name)
	if err != nil {
		return err
	}
	if hasDefault && t.IsString() && len(def.Text()) > t.MaxLen() {
		return fmt.Errorf("%w: default of %q is %d bytes, max %d", errs.ErrStrTooLong, name, len(def.Text()), t.MaxLen())
	}
	if err := b.tracker.Track(index, name); err != nil {
		return err
	}

	b.entries = append(b.entries, Entry{Index: index, Name: n, Type: t, HasDefault: hasDefault})
	b.defaults = append(b.defaults, def)

	return nil
}

// Build sorts the entries by index and lays out the default string pool.
// The builder must not be used afterwards.
//
// Returns:
//   - *Schema: The immutable schema
//   - error: errs.ErrBounds if the string slots do not fit 16-bit offsets
func (b *Builder) Build() (*Schema, error) {
	order := make([]int, len(b.entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return b.entries[order[i]].Index < b.entries[order[j]].Index
	})

	s := &Schema{
		name:     b.name,
		version:  b.version,
		entries:  make([]Entry, len(order)),
		defaults: make([]value.Value, len(order)),
		slots:    make([]int, len(order)),
	}
	for i, src := range order {
		s.entries[i] = b.entries[src]
	}

	s.sizing = measure(s.entries)
	// Slot offsets are 16-bit.
	if s.sizing.PoolSize > math.MaxUint16+1 {
		return nil, fmt.Errorf("%w: string pool of %d bytes exceeds 16-bit offsets", errs.ErrBounds, s.sizing.PoolSize)
	}

	offsets := make([]uint16, s.sizing.Slots())
	layoutSlots(s.entries, offsets)
	s.pool = make([]byte, s.sizing.PoolSize)

	slot := 0
	for i, src := range order {
		e := s.entries[i]
		s.slots[i] = -1
		if e.Type.IsString() {
			s.slots[i] = slot
		}

		def := b.defaults[src]
		switch {
		case e.Type.IsString():
			off := offsets[slot]
			text := def.Text()
			if e.HasDefault {
				copy(s.pool[off:], text)
			}
			s.defaults[i] = value.Ref(e.Type, off, len(text))
			slot++
		case e.HasDefault:
			s.defaults[i] = def
		default:
			s.defaults[i] = value.Unsigned(e.Type, 0)
		}
	}
	s.fingerprint = s.computeFingerprint()

	return s, nil
}
