package schemaio

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/schema"
	"github.com/arloliu/cfgpack/value"
)

type defaultKind uint8

const (
	noDefault defaultKind = iota
	numberDefault
	stringDefault
)

// rawDefault is a default as written in the source document, before the
// entry type is known to be valid.
type rawDefault struct {
	kind defaultKind
	text string
}

// docEntry is one entry of a parsed document. line is 0 for formats
// without lines.
type docEntry struct {
	line     int
	index    uint64
	name     string
	typeName string
	def      rawDefault
}

// assembler feeds parsed entries into a schema.Builder and turns every
// failure into an *errs.ParseError carrying the entry's line.
type assembler struct {
	b *schema.Builder
}

func newAssembler(line int, name string, version uint64, cfg *config) (*assembler, error) {
	if err := schema.CheckMapName(name); err != nil {
		return nil, errs.NewParseError(line, errs.ErrBounds, "map name too long")
	}
	if version > math.MaxUint32 {
		return nil, errs.NewParseError(line, errs.ErrBounds, "version out of range")
	}

	b, err := schema.NewBuilder(name, uint32(version), schema.WithMaxEntries(cfg.maxEntries)) //nolint:gosec
	if err != nil {
		return nil, &errs.ParseError{Line: line, Msg: "invalid header", Err: err}
	}

	return &assembler{b: b}, nil
}

func (a *assembler) add(e docEntry) error {
	if a.b.Len() >= a.b.MaxEntries() {
		return errs.NewParseError(e.line, errs.ErrBounds, "too many entries")
	}
	if e.index > format.MaxIndex {
		return errs.NewParseError(e.line, errs.ErrBounds, "index out of range")
	}
	if e.index == 0 {
		return errs.NewParseError(e.line, errs.ErrReservedIndex, "index 0 is reserved for the map name")
	}
	t, ok := format.ParseValueType(e.typeName)
	if !ok {
		return errs.NewParseError(e.line, errs.ErrInvalidType, fmt.Sprintf("invalid type %q", e.typeName))
	}

	index := uint16(e.index)
	var err error
	if e.def.kind == noDefault {
		err = a.b.Add(index, e.name, t)
	} else {
		var def value.Value
		def, err = defaultValue(t, e.def)
		if err != nil {
			return errs.NewParseError(e.line, err, "invalid default value")
		}
		err = a.b.AddDefault(index, e.name, def)
	}
	if err != nil {
		return &errs.ParseError{Line: e.line, Msg: fmt.Sprintf("entry %q", e.name), Err: err}
	}

	return nil
}

func (a *assembler) build() (*schema.Schema, error) {
	s, err := a.b.Build()
	if err != nil {
		return nil, &errs.ParseError{Msg: "layout", Err: err}
	}

	return s, nil
}

// defaultValue converts a source default to a typed value. Integer text
// accepts base prefixes; values that parse but do not fit the entry width
// fail with errs.ErrBounds, everything unparsable with errs.ErrParse.
func defaultValue(t format.ValueType, d rawDefault) (value.Value, error) {
	if t.IsString() != (d.kind == stringDefault) {
		return value.Value{}, errs.ErrParse
	}

	switch {
	case t.IsString():
		if len(d.text) > t.MaxLen() {
			return value.Value{}, errs.ErrStrTooLong
		}
		if t == format.TypeFStr {
			return value.FStr(d.text), nil
		}

		return value.Str(d.text), nil

	case t.IsUnsigned():
		v, err := strconv.ParseUint(d.text, 0, 64)
		if err != nil {
			return value.Value{}, errs.ErrParse
		}
		if t.Bits() < 64 && v > 1<<t.Bits()-1 {
			return value.Value{}, errs.ErrBounds
		}

		return value.Unsigned(t, v), nil

	case t.IsSigned():
		v, err := strconv.ParseInt(d.text, 0, 64)
		if err != nil {
			return value.Value{}, errs.ErrParse
		}
		if bits := t.Bits(); bits < 64 && (v < -1<<(bits-1) || v > 1<<(bits-1)-1) {
			return value.Value{}, errs.ErrBounds
		}

		return value.Signed(t, v), nil

	default:
		v, err := strconv.ParseFloat(d.text, 64)
		if err != nil {
			return value.Value{}, errs.ErrParse
		}
		if t == format.TypeF32 {
			return value.F32(float32(v)), nil
		}

		return value.F64(v), nil
	}
}

// parseVersion reads a decimal header version.
func parseVersion(line int, text string) (uint64, error) {
	v, err := strconv.ParseUint(text, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, errs.NewParseError(line, errs.ErrBounds, "version out of range")
	}
	if err != nil {
		return 0, errs.NewParseError(line, errs.ErrParse, fmt.Sprintf("invalid version %q", text))
	}

	return v, nil
}
