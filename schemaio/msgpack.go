package schemaio

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/internal/pool"
	"github.com/arloliu/cfgpack/schema"
)

// Keys of the MessagePack schema maps.
const (
	keyMapName    = 0
	keyMapVersion = 1
	keyMapEntries = 2

	keyEntryIndex = 0
	keyEntryName  = 1
	keyEntryType  = 2
	keyEntryValue = 3
)

// ParseMsgpack reads the binary schema format: a map {0: name, 1: version,
// 2: [entry...]} whose entries are maps {0: index, 1: name, 2: type tag,
// 3: default or nil}. Unknown keys are skipped at both levels.
//
// Returns:
//   - *schema.Schema: The parsed schema
//   - error: errs.ErrDecode for malformed MessagePack, otherwise an
//     *errs.ParseError of the validation kind
func ParseMsgpack(data []byte, opts ...Option) (*schema.Schema, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return parseMsgpack(data, cfg)
}

func parseMsgpack(data []byte, cfg *config) (*schema.Schema, error) {
	var r bytes.Reader
	r.Reset(data)
	dec := msgpack.GetDecoder()
	dec.Reset(&r)
	defer msgpack.PutDecoder(dec)

	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, decodeError("schema header", err)
	}

	var (
		name    string
		version uint64
		entries []docEntry
		seen    [3]bool
	)
	for range n {
		key, err := dec.DecodeUint64()
		if err != nil {
			return nil, decodeError("schema key", err)
		}
		switch key {
		case keyMapName:
			name, err = dec.DecodeString()
		case keyMapVersion:
			version, err = dec.DecodeUint64()
		case keyMapEntries:
			entries, err = decodeEntries(dec)
		default:
			err = dec.Skip()
		}
		if err != nil {
			return nil, decodeError("schema", err)
		}
		if key < uint64(len(seen)) {
			seen[key] = true
		}
	}
	if !seen[keyMapName] || !seen[keyMapVersion] || !seen[keyMapEntries] {
		return nil, errs.NewParseError(0, errs.ErrParse, "missing name, version or entries")
	}

	asm, err := newAssembler(0, name, version, cfg)
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

func decodeEntries(dec *msgpack.Decoder) ([]docEntry, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}

	out := make([]docEntry, 0, min(n, format.MaxEntries))
	for range n {
		e, err := decodeEntry(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, nil
}

func decodeEntry(dec *msgpack.Decoder) (docEntry, error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return docEntry{}, err
	}

	var (
		e    docEntry
		seen [4]bool
	)
	for range n {
		key, err := dec.DecodeUint64()
		if err != nil {
			return docEntry{}, err
		}
		switch key {
		case keyEntryIndex:
			e.index, err = dec.DecodeUint64()
		case keyEntryName:
			e.name, err = dec.DecodeString()
		case keyEntryType:
			var tag uint64
			tag, err = dec.DecodeUint64()
			e.typeName = format.ValueType(min(tag, 0xff)).String() //nolint:gosec
		case keyEntryValue:
			e.def, err = decodeDefault(dec)
		default:
			err = dec.Skip()
		}
		if err != nil {
			return docEntry{}, err
		}
		if key < uint64(len(seen)) {
			seen[key] = true
		}
	}
	for _, ok := range seen {
		if !ok {
			return docEntry{}, errs.NewParseError(0, errs.ErrParse, "missing entry field")
		}
	}

	return e, nil
}

func decodeDefault(dec *msgpack.Decoder) (rawDefault, error) {
	v, err := dec.DecodeInterface()
	if err != nil {
		return rawDefault{}, err
	}

	switch v := v.(type) {
	case nil:
		return rawDefault{kind: noDefault}, nil
	case string:
		return rawDefault{kind: stringDefault, text: v}, nil
	case int8:
		return number(strconv.FormatInt(int64(v), 10)), nil
	case int16:
		return number(strconv.FormatInt(int64(v), 10)), nil
	case int32:
		return number(strconv.FormatInt(int64(v), 10)), nil
	case int64:
		return number(strconv.FormatInt(v, 10)), nil
	case uint8:
		return number(strconv.FormatUint(uint64(v), 10)), nil
	case uint16:
		return number(strconv.FormatUint(uint64(v), 10)), nil
	case uint32:
		return number(strconv.FormatUint(uint64(v), 10)), nil
	case uint64:
		return number(strconv.FormatUint(v, 10)), nil
	case float32:
		return number(strconv.FormatFloat(float64(v), 'g', -1, 64)), nil
	case float64:
		return number(strconv.FormatFloat(v, 'g', -1, 64)), nil
	default:
		return rawDefault{}, fmt.Errorf("unsupported default of type %T", v)
	}
}

func number(text string) rawDefault {
	return rawDefault{kind: numberDefault, text: text}
}

func decodeError(what string, err error) error {
	var pe *errs.ParseError
	if errors.As(err, &pe) {
		return err
	}

	return fmt.Errorf("%w: %s: %v", errs.ErrDecode, what, err)
}

// WriteMsgpack encodes s in the binary schema format read by ParseMsgpack.
// Integers use their shortest encoding.
func WriteMsgpack(s *schema.Schema) ([]byte, error) {
	buf := pool.GetDocBuffer()
	defer pool.PutDocBuffer(buf)

	enc := msgpack.GetEncoder()
	enc.Reset(buf)
	defer msgpack.PutEncoder(enc)

	if err := writeMsgpack(enc, s); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrEncodeOverflow, err)
	}

	return bytes.Clone(buf.Bytes()), nil
}

func writeMsgpack(enc *msgpack.Encoder, s *schema.Schema) error {
	if err := enc.EncodeMapLen(3); err != nil {
		return err
	}
	if err := encodeKV(enc, keyMapName, s.Name()); err != nil {
		return err
	}
	if err := encodeKV(enc, keyMapVersion, uint64(s.Version())); err != nil {
		return err
	}
	if err := enc.EncodeUint(keyMapEntries); err != nil {
		return err
	}
	if err := enc.EncodeArrayLen(s.Len()); err != nil {
		return err
	}

	for pos, e := range s.Entries() {
		if err := enc.EncodeMapLen(4); err != nil {
			return err
		}
		if err := encodeKV(enc, keyEntryIndex, uint64(e.Index)); err != nil {
			return err
		}
		if err := encodeKV(enc, keyEntryName, e.Name.String()); err != nil {
			return err
		}
		if err := encodeKV(enc, keyEntryType, uint64(e.Type)); err != nil {
			return err
		}
		if err := enc.EncodeUint(keyEntryValue); err != nil {
			return err
		}
		if err := encodeDefault(enc, s, pos); err != nil {
			return err
		}
	}

	return nil
}

func encodeKV(enc *msgpack.Encoder, key uint64, v any) error {
	if err := enc.EncodeUint(key); err != nil {
		return err
	}
	switch v := v.(type) {
	case string:
		return enc.EncodeString(v)
	case uint64:
		return enc.EncodeUint(v)
	default:
		return fmt.Errorf("unexpected %T", v)
	}
}

func encodeDefault(enc *msgpack.Encoder, s *schema.Schema, pos int) error {
	def, ok := s.Default(pos)
	if !ok {
		return enc.EncodeNil()
	}

	t := def.Type()
	switch {
	case t.IsUnsigned():
		return enc.EncodeUint(def.Uint())
	case t.IsSigned():
		return enc.EncodeInt(def.Int())
	case t == format.TypeF32:
		return enc.EncodeFloat32(def.Float32())
	case t == format.TypeF64:
		return enc.EncodeFloat64(def.Float64())
	default:
		return enc.EncodeString(string(s.DefaultBytes(def)))
	}
}
