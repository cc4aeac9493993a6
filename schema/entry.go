package schema

import (
	"fmt"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
)

// Name is an entry name of 1 to format.NameMax bytes, NUL padded.
type Name [format.NameMax]byte

// ParseName validates s and converts it to a Name.
func ParseName(s string) (Name, error) {
	var n Name
	if len(s) == 0 || len(s) > format.NameMax {
		return n, fmt.Errorf("%w: entry name %q must be 1..%d bytes", errs.ErrBounds, s, format.NameMax)
	}
	copy(n[:], s)

	return n, nil
}

// Len returns the number of bytes before the NUL padding.
func (n Name) Len() int {
	for i, c := range n {
		if c == 0 {
			return i
		}
	}

	return len(n)
}

func (n Name) String() string {
	return string(n[:n.Len()])
}

// Equal compares n to s without allocating.
func (n Name) Equal(s string) bool {
	l := n.Len()
	if len(s) != l {
		return false
	}
	for i := range l {
		if n[i] != s[i] {
			return false
		}
	}

	return true
}

// Entry is one row of a schema.
type Entry struct {
	Index      uint16
	Name       Name
	Type       format.ValueType
	HasDefault bool
}
