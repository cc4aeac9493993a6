package schemaio

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/schema"
)

// ParseYAML parses the YAML rendition of the JSON schema document:
//
//	name: demo
//	version: 1
//	entries:
//	  - {index: 1, name: a, type: u8, value: 5}
//	  - {index: 2, name: b, type: str, value: null}
//
// Errors carry the line of the offending node.
func ParseYAML(data []byte, opts ...Option) (*schema.Schema, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return parseYAML(data, cfg)
}

func parseYAML(data []byte, cfg *config) (*schema.Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.NewParseError(0, errs.ErrParse, err.Error())
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errs.NewParseError(0, errs.ErrParse, "empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errs.NewParseError(root.Line, errs.ErrParse, "expected a mapping")
	}

	var (
		name, version, entries *yaml.Node
		headerLine             = root.Line
	)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		switch k.Value {
		case "name":
			name = v
		case "version":
			version = v
		case "entries":
			entries = v
		default:
			return nil, errs.NewParseError(k.Line, errs.ErrParse, fmt.Sprintf("unknown key %q", k.Value))
		}
	}
	if name == nil || version == nil || entries == nil {
		return nil, errs.NewParseError(headerLine, errs.ErrParse, "missing name, version or entries")
	}
	if name.Kind != yaml.ScalarNode {
		return nil, errs.NewParseError(name.Line, errs.ErrParse, "name must be a string")
	}
	if version.ShortTag() != "!!int" {
		return nil, errs.NewParseError(version.Line, errs.ErrParse, "version must be an integer")
	}
	ver, err := parseVersion(version.Line, version.Value)
	if err != nil {
		return nil, err
	}

	asm, err := newAssembler(name.Line, name.Value, ver, cfg)
	if err != nil {
		return nil, err
	}
	if entries.Kind != yaml.SequenceNode {
		// "entries:" with nothing after it is an empty list.
		if entries.ShortTag() != "!!null" {
			return nil, errs.NewParseError(entries.Line, errs.ErrParse, "entries must be a list")
		}

		return asm.build()
	}
	for _, n := range entries.Content {
		e, err := yamlEntry(n)
		if err != nil {
			return nil, err
		}
		if err := asm.add(e); err != nil {
			return nil, err
		}
	}

	return asm.build()
}

func yamlEntry(n *yaml.Node) (docEntry, error) {
	if n.Kind != yaml.MappingNode {
		return docEntry{}, errs.NewParseError(n.Line, errs.ErrParse, "entry must be a mapping")
	}

	e := docEntry{line: n.Line}
	var index, name, typ, val *yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		switch k.Value {
		case "index":
			index = v
		case "name":
			name = v
		case "type":
			typ = v
		case "value":
			val = v
		default:
			return docEntry{}, errs.NewParseError(k.Line, errs.ErrParse, fmt.Sprintf("unknown entry key %q", k.Value))
		}
	}
	if index == nil || name == nil || typ == nil || val == nil {
		return docEntry{}, errs.NewParseError(n.Line, errs.ErrParse, "missing entry field")
	}

	idx, err := strconv.ParseUint(index.Value, 0, 64)
	if index.ShortTag() != "!!int" || err != nil {
		return docEntry{}, errs.NewParseError(index.Line, errs.ErrBounds, "invalid index")
	}
	e.index = idx
	e.name = name.Value
	e.typeName = typ.Value

	switch val.ShortTag() {
	case "!!null":
	case "!!str":
		e.def = rawDefault{kind: stringDefault, text: val.Value}
	case "!!int", "!!float":
		e.def = rawDefault{kind: numberDefault, text: val.Value}
	default:
		return docEntry{}, errs.NewParseError(val.Line, errs.ErrParse, "invalid default value")
	}

	return e, nil
}
