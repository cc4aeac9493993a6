package schemaio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/jsonc"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/schema"
)

// jsonEntry mirrors one element of "entries". Pointers tell a missing key
// from a zero value; Value keeps the literal so that null survives.
type jsonEntry struct {
	Index *json.Number    `json:"index"`
	Name  *string         `json:"name"`
	Type  *string         `json:"type"`
	Value json.RawMessage `json:"value"`
}

// ParseJSON parses a JSON schema document:
//
//	{
//	  "name": "demo",
//	  "version": 1,
//	  "entries": [
//	    {"index": 1, "name": "a", "type": "u8", "value": 5},
//	    {"index": 2, "name": "b", "type": "str", "value": null}
//	  ]
//	}
//
// A null value means the entry has no default. Comments and trailing
// commas are accepted. Unknown keys are rejected.
//
// Returns:
//   - *schema.Schema: The parsed schema
//   - error: An *errs.ParseError; entry errors carry the line of the entry
func ParseJSON(data []byte, opts ...Option) (*schema.Schema, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return parseJSON(data, cfg)
}

type jsonParser struct {
	text []byte
	dec  *json.Decoder
}

func parseJSON(data []byte, cfg *config) (*schema.Schema, error) {
	// ToJSON blanks comments in place, so offsets still map to source lines.
	text := jsonc.ToJSON(data)
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	p := &jsonParser{text: text, dec: dec}

	var (
		name        *string
		version     *json.Number
		entries     []docEntry
		haveEntries bool
	)

	if err := p.delim('{'); err != nil {
		return nil, err
	}
	for dec.More() {
		key, err := p.key()
		if err != nil {
			return nil, err
		}
		line := p.line()
		switch key {
		case "name":
			if err := p.decode(&name); err != nil {
				return nil, err
			}
		case "version":
			if err := p.decode(&version); err != nil {
				return nil, err
			}
		case "entries":
			if entries, err = p.entries(); err != nil {
				return nil, err
			}
			haveEntries = true
		default:
			return nil, errs.NewParseError(line, errs.ErrParse, fmt.Sprintf("unknown key %q", key))
		}
	}
	if err := p.delim('}'); err != nil {
		return nil, err
	}

	if name == nil || version == nil || !haveEntries {
		return nil, errs.NewParseError(0, errs.ErrParse, "missing name, version or entries")
	}
	ver, err := parseVersion(0, version.String())
	if err != nil {
		return nil, err
	}
	asm, err := newAssembler(0, *name, ver, cfg)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := asm.add(e); err != nil {
			return nil, err
		}
	}

	return asm.build()
}

func (p *jsonParser) entries() ([]docEntry, error) {
	if err := p.delim('['); err != nil {
		return nil, err
	}

	var out []docEntry
	for p.dec.More() {
		line := p.line()
		var je jsonEntry
		if err := p.decode(&je); err != nil {
			return nil, err
		}
		e, err := je.toDoc(line)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, p.delim(']')
}

func (je *jsonEntry) toDoc(line int) (docEntry, error) {
	if je.Index == nil || je.Name == nil || je.Type == nil || je.Value == nil {
		return docEntry{}, errs.NewParseError(line, errs.ErrParse, "missing entry field")
	}

	index, err := strconv.ParseUint(je.Index.String(), 10, 64)
	if err != nil {
		return docEntry{}, errs.NewParseError(line, errs.ErrBounds, "invalid index")
	}

	e := docEntry{line: line, index: index, name: *je.Name, typeName: *je.Type}
	raw := bytes.TrimSpace(je.Value)
	switch {
	case string(raw) == "null":
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return docEntry{}, errs.NewParseError(line, errs.ErrParse, "invalid string default")
		}
		e.def = rawDefault{kind: stringDefault, text: s}
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		e.def = rawDefault{kind: numberDefault, text: string(raw)}
	default:
		return docEntry{}, errs.NewParseError(line, errs.ErrParse, "invalid default value")
	}

	return e, nil
}

func (p *jsonParser) delim(want json.Delim) error {
	tok, err := p.dec.Token()
	if err != nil {
		return p.syntax(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errs.NewParseError(p.line(), errs.ErrParse, fmt.Sprintf("expected %q", want))
	}

	return nil
}

func (p *jsonParser) key() (string, error) {
	tok, err := p.dec.Token()
	if err != nil {
		return "", p.syntax(err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", errs.NewParseError(p.line(), errs.ErrParse, "expected key")
	}

	return key, nil
}

func (p *jsonParser) decode(v any) error {
	if err := p.dec.Decode(v); err != nil {
		return p.syntax(err)
	}

	return nil
}

// line returns the 1-based line of the next token.
func (p *jsonParser) line() int {
	off := int(p.dec.InputOffset())
	for off < len(p.text) {
		c := p.text[off]
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' && c != ',' && c != ':' {
			break
		}
		off++
	}

	return lineAt(p.text, off)
}

// syntax converts a decoder error. The decoder does not advance past a
// value it fails on, so the current offset points at the broken value.
func (p *jsonParser) syntax(err error) error {
	line := p.line()
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errs.NewParseError(line, errs.ErrParse, "unexpected end of input")
	}

	return errs.NewParseError(line, errs.ErrParse, err.Error())
}

func lineAt(text []byte, off int) int {
	if off > len(text) {
		off = len(text)
	}

	return bytes.Count(text[:off], []byte{'\n'}) + 1
}
