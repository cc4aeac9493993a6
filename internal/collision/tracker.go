// Package collision detects duplicate entry indices and names while a
// schema is assembled.
package collision

import (
	"fmt"

	"github.com/arloliu/cfgpack/errs"
)

// Tracker remembers every (index, name) pair seen so far.
type Tracker struct {
	indices map[uint16]string // index -> name
	names   map[string]uint16 // name -> index
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		indices: make(map[uint16]string),
		names:   make(map[string]uint16),
	}
}

// Track records an entry. It returns errs.ErrDuplicate, wrapped with the
// clashing entry, when either the index or the name is already taken; the
// tracker is left unchanged in that case.
func (t *Tracker) Track(index uint16, name string) error {
	if prev, exists := t.indices[index]; exists {
		return fmt.Errorf("%w: index %d already used by %q", errs.ErrDuplicate, index, prev)
	}
	if prev, exists := t.names[name]; exists {
		return fmt.Errorf("%w: name %q already used by index %d", errs.ErrDuplicate, name, prev)
	}

	t.indices[index] = name
	t.names[name] = index

	return nil
}

// Count returns the number of tracked entries.
func (t *Tracker) Count() int {
	return len(t.indices)
}

// Reset forgets every tracked entry, keeping the allocated maps.
func (t *Tracker) Reset() {
	clear(t.indices)
	clear(t.names)
}
