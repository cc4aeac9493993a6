package schemaio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/schema"
)

// ParseMap parses the ".map" text format:
//
//	# comment
//	<map_name> <version>
//	<index> <name> <type> <default>
//
// The first line that is neither blank nor a comment is the header. A
// default is a number, a double quoted string or NIL for no default. Lines
// may end in LF, CRLF or a lone CR.
//
// Returns:
//   - *schema.Schema: The parsed schema
//   - error: An *errs.ParseError carrying the 1-based line number
func ParseMap(data []byte, opts ...Option) (*schema.Schema, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return parseMap(data, cfg)
}

func parseMap(data []byte, cfg *config) (*schema.Schema, error) {
	var (
		asm  *assembler
		rest = string(data)
		line string
		no   int
	)
	for len(rest) > 0 {
		line, rest = nextLine(rest)
		no++

		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || trimmed[0] == '#' {
			continue
		}

		if asm == nil {
			name, version, err := mapHeader(no, trimmed)
			if err != nil {
				return nil, err
			}
			if asm, err = newAssembler(no, name, version, cfg); err != nil {
				return nil, err
			}

			continue
		}

		e, err := mapEntry(no, trimmed)
		if err != nil {
			return nil, err
		}
		if err := asm.add(e); err != nil {
			return nil, err
		}
	}

	if asm == nil {
		return nil, errs.NewParseError(0, errs.ErrParse, "missing header")
	}

	return asm.build()
}

// nextLine splits off the first line, accepting LF, CRLF and CR endings.
func nextLine(s string) (line, rest string) {
	i := strings.IndexAny(s, "\r\n")
	if i < 0 {
		return s, ""
	}
	line, rest = s[:i], s[i+1:]
	if s[i] == '\r' && len(rest) > 0 && rest[0] == '\n' {
		rest = rest[1:]
	}

	return line, rest
}

// cutField returns the next space or tab separated field of s.
func cutField(s string) (field, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}

	return s[:i], s[i:]
}

// trailingOK reports whether s holds nothing but blanks and an optional
// comment.
func trailingOK(s string) bool {
	s = strings.TrimLeft(s, " \t")
	return s == "" || s[0] == '#'
}

func mapHeader(no int, line string) (string, uint64, error) {
	name, rest := cutField(line)
	ver, rest := cutField(rest)
	if ver == "" || !trailingOK(rest) {
		return "", 0, errs.NewParseError(no, errs.ErrParse, "invalid header")
	}
	if err := schema.CheckMapName(name); err != nil {
		return "", 0, errs.NewParseError(no, errs.ErrBounds, "map name too long")
	}
	version, err := parseVersion(no, ver)
	if err != nil {
		return "", 0, err
	}

	return name, version, nil
}

func mapEntry(no int, line string) (docEntry, error) {
	idx, rest := cutField(line)
	name, rest := cutField(rest)
	typ, rest := cutField(rest)
	if typ == "" {
		return docEntry{}, errs.NewParseError(no, errs.ErrParse, "invalid entry")
	}

	index, err := strconv.ParseUint(idx, 10, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return docEntry{}, errs.NewParseError(no, errs.ErrBounds, "index out of range")
	case err != nil:
		return docEntry{}, errs.NewParseError(no, errs.ErrParse, fmt.Sprintf("invalid index %q", idx))
	}

	def, err := mapDefault(no, strings.TrimLeft(rest, " \t"))
	if err != nil {
		return docEntry{}, err
	}

	return docEntry{line: no, index: index, name: name, typeName: typ, def: def}, nil
}

func mapDefault(no int, s string) (rawDefault, error) {
	if s == "" || s[0] == '#' {
		return rawDefault{}, errs.NewParseError(no, errs.ErrParse, "missing default value")
	}

	if s[0] == '"' {
		text, rest, ok := unquote(s)
		if !ok {
			return rawDefault{}, errs.NewParseError(no, errs.ErrParse, "unterminated string")
		}
		if !trailingOK(rest) {
			return rawDefault{}, errs.NewParseError(no, errs.ErrParse, "trailing data after default")
		}

		return rawDefault{kind: stringDefault, text: text}, nil
	}

	tok, rest := cutField(s)
	if !trailingOK(rest) {
		return rawDefault{}, errs.NewParseError(no, errs.ErrParse, "trailing data after default")
	}
	if tok == "NIL" {
		return rawDefault{kind: noDefault}, nil
	}

	return rawDefault{kind: numberDefault, text: tok}, nil
}

// unquote decodes a double quoted string starting at s[0]. The escapes
// \n \t \r \\ and \" are recognized; any other escaped byte stands for
// itself.
func unquote(s string) (text, rest string, ok bool) {
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			return sb.String(), s[i+1:], true
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				c = '\n'
			case 't':
				c = '\t'
			case 'r':
				c = '\r'
			default:
				c = s[i]
			}
		}
		sb.WriteByte(c)
	}

	return "", "", false
}
