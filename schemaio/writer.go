package schemaio

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/internal/pool"
	"github.com/arloliu/cfgpack/schema"
	"github.com/arloliu/cfgpack/value"
)

// WriteJSON writes s as a JSON document ParseJSON reads back. Each entry
// takes one line; entries without a default get "value": null.
//
// Returns:
//   - error: errs.ErrBounds for a non-finite float default, errs.ErrIO
//     when w fails
func WriteJSON(w io.Writer, s *schema.Schema) error {
	buf := pool.GetDocBuffer()
	defer pool.PutDocBuffer(buf)

	b := buf.B[:0]
	b = append(b, "{\n  \"name\": "...)
	b = appendJSONString(b, []byte(s.Name()))
	b = append(b, ",\n  \"version\": "...)
	b = strconv.AppendUint(b, uint64(s.Version()), 10)
	b = append(b, ",\n  \"entries\": [\n"...)

	for pos, e := range s.Entries() {
		b = append(b, "    {\"index\": "...)
		b = strconv.AppendUint(b, uint64(e.Index), 10)
		b = append(b, ", \"name\": "...)
		b = appendJSONString(b, []byte(e.Name.String()))
		b = append(b, ", \"type\": \""...)
		b = append(b, e.Type.String()...)
		b = append(b, "\", \"value\": "...)

		def, ok := s.Default(pos)
		if !ok {
			b = append(b, "null"...)
		} else {
			var err error
			if b, err = appendJSONDefault(b, s, def); err != nil {
				return fmt.Errorf("%w: entry %d: %v", errs.ErrBounds, e.Index, err)
			}
		}

		if pos+1 < s.Len() {
			b = append(b, "},\n"...)
		} else {
			b = append(b, "}\n"...)
		}
	}
	b = append(b, "  ]\n}\n"...)
	buf.B = b

	return flush(w, buf)
}

func appendJSONDefault(b []byte, s *schema.Schema, def value.Value) ([]byte, error) {
	t := def.Type()
	switch {
	case t.IsUnsigned():
		return strconv.AppendUint(b, def.Uint(), 10), nil
	case t.IsSigned():
		return strconv.AppendInt(b, def.Int(), 10), nil
	case t.IsFloat():
		f, bits := def.Float64(), 64
		if t == format.TypeF32 {
			f, bits = float64(def.Float32()), 32
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return b, fmt.Errorf("%v has no JSON form", f)
		}

		return strconv.AppendFloat(b, f, 'g', -1, bits), nil
	default:
		return appendJSONString(b, s.DefaultBytes(def)), nil
	}
}

const hexDigits = "0123456789abcdef"

func appendJSONString(b, s []byte) []byte {
	b = append(b, '"')
	for _, c := range s {
		switch c {
		case '"':
			b = append(b, '\\', '"')
		case '\\':
			b = append(b, '\\', '\\')
		case '\n':
			b = append(b, '\\', 'n')
		case '\r':
			b = append(b, '\\', 'r')
		case '\t':
			b = append(b, '\\', 't')
		default:
			if c < 0x20 {
				b = append(b, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			} else {
				b = append(b, c)
			}
		}
	}

	return append(b, '"')
}

// WriteMarkdown writes s as a Markdown table of index, name, type and
// default. Entries without a default show "-".
func WriteMarkdown(w io.Writer, s *schema.Schema) error {
	buf := pool.GetDocBuffer()
	defer pool.PutDocBuffer(buf)

	b := buf.B[:0]
	b = append(b, "# "...)
	b = append(b, s.Name()...)
	b = append(b, " v"...)
	b = strconv.AppendUint(b, uint64(s.Version()), 10)
	b = append(b, "\n\n| Index | Name | Type | Default |\n|------:|------|------|---------|\n"...)

	for pos, e := range s.Entries() {
		b = append(b, "| "...)
		b = strconv.AppendUint(b, uint64(e.Index), 10)
		b = append(b, " | "...)
		b = append(b, e.Name.String()...)
		b = append(b, " | "...)
		b = append(b, e.Type.String()...)
		b = append(b, " | "...)

		def, ok := s.Default(pos)
		switch {
		case !ok:
			b = append(b, '-')
		case e.Type.IsString():
			b = appendMarkdownString(b, s.DefaultBytes(def))
		case e.Type.IsFloat():
			f, bits := def.Float64(), 64
			if e.Type == format.TypeF32 {
				f, bits = float64(def.Float32()), 32
			}
			b = strconv.AppendFloat(b, f, 'g', -1, bits)
		case e.Type.IsSigned():
			b = strconv.AppendInt(b, def.Int(), 10)
		default:
			b = strconv.AppendUint(b, def.Uint(), 10)
		}
		b = append(b, " |\n"...)
	}
	buf.B = b

	return flush(w, buf)
}

// appendMarkdownString quotes s for a table cell, escaping pipes and
// control characters.
func appendMarkdownString(b, s []byte) []byte {
	b = append(b, '"')
	for _, c := range s {
		switch {
		case c == '|':
			b = append(b, '\\', '|')
		case c == '\n':
			b = append(b, '\\', 'n')
		case c < 0x20:
			b = append(b, ' ')
		default:
			b = append(b, c)
		}
	}

	return append(b, '"')
}

func flush(w io.Writer, buf *pool.ByteBuffer) error {
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return nil
}
