// Package schema holds the immutable description of a configuration map:
// its name, version and index-sorted typed entries with their defaults.
//
// Schemas are assembled with a Builder, which sorts the entries, rejects
// reserved indices, duplicates and out-of-range names, and lays out default
// strings in a pool using the same slot layout a bound context uses.
package schema

import (
	"encoding/binary"
	"slices"

	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/internal/hash"
	"github.com/arloliu/cfgpack/value"
)

// Schema is an immutable, index-sorted set of entries.
type Schema struct {
	name        string
	version     uint32
	entries     []Entry
	defaults    []value.Value // parallel to entries; strings refer to pool
	slots       []int         // string slot ordinal per entry, -1 for numbers
	pool        []byte        // default strings, laid out like a context pool
	sizing      Sizing
	fingerprint uint64
}

// Sizing describes the arenas a context bound to a schema needs.
type Sizing struct {
	Entries  int // number of entries, the value arena length
	Strs     int // number of TypeStr entries
	FStrs    int // number of TypeFStr entries
	PoolSize int // string pool bytes
}

// Slots returns the number of string slots, the offset arena length.
func (s Sizing) Slots() int {
	return s.Strs + s.FStrs
}

// PresenceBytes returns the presence bitmap length in bytes.
func (s Sizing) PresenceBytes() int {
	return (s.Entries + 7) / 8
}

// Name returns the map name stored under the reserved index 0.
func (s *Schema) Name() string {
	return s.name
}

// Version returns the schema version.
func (s *Schema) Version() uint32 {
	return s.version
}

// Len returns the number of entries.
func (s *Schema) Len() int {
	return len(s.entries)
}

// Entries returns the entries sorted by index. The slice must not be modified.
func (s *Schema) Entries() []Entry {
	return s.entries
}

// Entry returns the entry at position pos.
func (s *Schema) Entry(pos int) Entry {
	return s.entries[pos]
}

// Find returns the position of the entry with the given index using binary
// search.
func (s *Schema) Find(index uint16) (int, bool) {
	return slices.BinarySearchFunc(s.entries, index, func(e Entry, target uint16) int {
		return int(e.Index) - int(target)
	})
}

// FindName returns the position of the entry with the given name. Names are
// compared byte by byte in a linear scan.
func (s *Schema) FindName(name string) (int, bool) {
	if len(name) == 0 || len(name) > format.NameMax {
		return 0, false
	}
	for i := range s.entries {
		if s.entries[i].Name.Equal(name) {
			return i, true
		}
	}

	return 0, false
}

// Default returns the default value of the entry at pos. String defaults
// are descriptors into the schema's default pool; resolve them with
// DefaultBytes.
func (s *Schema) Default(pos int) (value.Value, bool) {
	if !s.entries[pos].HasDefault {
		return value.Value{}, false
	}

	return s.defaults[pos], true
}

// DefaultBytes resolves a string default returned by Default.
func (s *Schema) DefaultBytes(v value.Value) []byte {
	return v.Bytes(s.pool)
}

// Slot returns the string slot ordinal of the entry at pos, or -1 when the
// entry is not a string.
func (s *Schema) Slot(pos int) int {
	return s.slots[pos]
}

// Sizing returns the arena sizes a bound context needs.
func (s *Schema) Sizing() Sizing {
	return s.sizing
}

// Fingerprint returns an xxHash64 over the name, version, entries and
// defaults. Two schemas with equal fingerprints describe the same layout.
func (s *Schema) Fingerprint() uint64 {
	return s.fingerprint
}

// LayoutSlots assigns contiguous pool offsets to the string entries in
// schema order and returns the pool size they occupy. offsets must hold at
// least Sizing().Slots() elements.
func (s *Schema) LayoutSlots(offsets []uint16) int {
	return layoutSlots(s.entries, offsets)
}

func layoutSlots(entries []Entry, offsets []uint16) int {
	size := 0
	slot := 0
	for i := range entries {
		t := entries[i].Type
		if !t.IsString() {
			continue
		}
		offsets[slot] = uint16(size) //nolint:gosec
		slot++
		size += t.SlotSize()
	}

	return size
}

func measure(entries []Entry) Sizing {
	sz := Sizing{Entries: len(entries)}
	for i := range entries {
		switch entries[i].Type {
		case format.TypeStr:
			sz.Strs++
		case format.TypeFStr:
			sz.FStrs++
		}
	}
	sz.PoolSize = sz.Strs*format.TypeStr.SlotSize() + sz.FStrs*format.TypeFStr.SlotSize()

	return sz
}

func (s *Schema) computeFingerprint() uint64 {
	h := hash.New()
	var scratch [16]byte

	_, _ = h.WriteString(s.name)
	binary.BigEndian.PutUint32(scratch[:4], s.version)
	_, _ = h.Write(scratch[:4])

	for i, e := range s.entries {
		binary.BigEndian.PutUint16(scratch[0:2], e.Index)
		copy(scratch[2:7], e.Name[:])
		scratch[7] = byte(e.Type)
		scratch[8] = 0
		if e.HasDefault {
			scratch[8] = 1
		}
		_, _ = h.Write(scratch[:9])
		if !e.HasDefault {
			continue
		}
		def := s.defaults[i]
		if e.Type.IsString() {
			_, _ = h.Write(s.DefaultBytes(def))
			scratch[9] = 0
			_, _ = h.Write(scratch[9:10])
		} else {
			binary.BigEndian.PutUint64(scratch[:8], def.Bits())
			_, _ = h.Write(scratch[:8])
		}
	}

	return h.Sum64()
}
