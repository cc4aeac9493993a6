package store

import (
	"io"
	"strconv"

	"github.com/arloliu/cfgpack/format"
)

// Dump writes a human readable listing of the present entries to w, one
// line per entry:
//
//	fleet_gateway v3
//	  1 mode u8 = 2
//	  5 host str = "gw-01"
func (c *Context) Dump(w io.Writer) error {
	var line [160]byte

	buf := append(line[:0], c.schema.Name()...)
	buf = append(buf, " v"...)
	buf = strconv.AppendUint(buf, uint64(c.schema.Version()), 10)
	buf = append(buf, '\n')
	if _, err := w.Write(buf); err != nil {
		return err
	}

	for pos, e := range c.schema.Entries() {
		if !c.isPresent(pos) {
			continue
		}

		buf = append(line[:0], "  "...)
		buf = strconv.AppendUint(buf, uint64(e.Index), 10)
		buf = append(buf, ' ')
		buf = append(buf, e.Name[:e.Name.Len()]...)
		buf = append(buf, ' ')
		buf = append(buf, e.Type.String()...)
		buf = append(buf, " = "...)

		v := c.values[pos]
		switch t := v.Type(); {
		case t.IsUnsigned():
			buf = strconv.AppendUint(buf, v.Uint(), 10)
		case t.IsSigned():
			buf = strconv.AppendInt(buf, v.Int(), 10)
		case t == format.TypeF32:
			buf = strconv.AppendFloat(buf, float64(v.Float32()), 'g', -1, 32)
		case t == format.TypeF64:
			buf = strconv.AppendFloat(buf, v.Float64(), 'g', -1, 64)
		default:
			buf = strconv.AppendQuote(buf, string(c.Bytes(v)))
		}
		buf = append(buf, '\n')

		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	return nil
}
