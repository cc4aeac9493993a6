// Package cfgpack is a schema driven configuration codec for small
// devices.
//
// A schema names and types up to 128 configuration entries. A Context
// holds their current values in caller owned arenas and pages them out as
// a compact MessagePack map, the form a device keeps in flash. Blobs
// written under an older schema page back in through a remap table, with
// numeric widening and default restoration for entries the blob lacks.
//
// # Basic Usage
//
//	s, _ := cfgpack.LoadSchema("gateway.map")
//	ctx, _ := cfgpack.NewContext(s)
//	ctx.SetU16(60, 500)
//
//	flash := make([]byte, store.PageoutBound(s))
//	n, _ := ctx.Pageout(flash)
//
//	// After a firmware update, with the v2 schema loaded:
//	name, _ := cfgpack.PeekName(flash[:n])
//	err := next.PageinRemap(flash[:n], remaps[name])
//
// # Package Structure
//
// The root package wraps the most common steps. The store package holds
// the Context and the codec, schema builds schemas in code, schemaio reads
// schema documents and persist keeps blobs across runs.
package cfgpack

import (
	"github.com/arloliu/cfgpack/compress"
	"github.com/arloliu/cfgpack/format"
	"github.com/arloliu/cfgpack/schema"
	"github.com/arloliu/cfgpack/schemaio"
	"github.com/arloliu/cfgpack/store"
)

// NewContext allocates arenas sized for s and binds a new context to
// them. Entries with defaults start out present.
//
// Returns:
//   - *store.Context: The bound context
//   - error: Always nil for a schema built by schema.Builder
func NewContext(s *schema.Schema) (*store.Context, error) {
	return store.New(s, store.NewArenas(s))
}

// LoadSchema reads the schema document at path. The format follows the
// file extension: .json, .yaml, .msgpack or the ".map" text otherwise.
func LoadSchema(path string, opts ...schemaio.Option) (*schema.Schema, error) {
	return schemaio.LoadFile(path, opts...)
}

// PeekName returns the schema name stored in blob without binding a
// context.
//
// Returns:
//   - string: The stored schema name
//   - error: errs.ErrMissing if the blob has no name, errs.ErrDecode if it
//     is malformed
func PeekName(blob []byte) (string, error) {
	var buf [format.MapNameMax + 1]byte
	n, err := store.PeekName(blob, buf[:])
	if err != nil {
		return "", err
	}

	return string(buf[:n]), nil
}

// PageinCompressed decompresses data into scratch and pages the result
// into c through remap. Nothing is allocated, so a device can page in a
// compressed flash image with a fixed buffer.
//
// Parameters:
//   - c: Target context
//   - data: Compressed blob
//   - compression: Algorithm data was compressed with
//   - scratch: Buffer for the decompressed blob; its full length is used
//   - remap: Index translation, nil for none
//
// Returns:
//   - error: errs.ErrInvalidType for an unknown compression, errs.ErrBounds
//     if the blob does not fit scratch, errs.ErrDecode if data is corrupt,
//     otherwise the error of store.Context.PageinRemap
func PageinCompressed(c *store.Context, data []byte, compression format.CompressionType, scratch []byte, remap []store.Remap) error {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return err
	}

	blob, err := codec.DecompressTo(scratch, data)
	if err != nil {
		return err
	}

	return c.PageinRemap(blob, remap)
}

// PageoutCompressed pages c out into scratch and compresses the blob.
//
// Returns:
//   - []byte: The compressed blob; format.CompressionNone returns a slice
//     of scratch, the other algorithms allocate
//   - error: errs.ErrEncodeOverflow if scratch is too small, errs.ErrInvalidType
//     for an unknown compression
func PageoutCompressed(c *store.Context, compression format.CompressionType, scratch []byte) ([]byte, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	n, err := c.Pageout(scratch)
	if err != nil {
		return nil, err
	}

	return codec.Compress(scratch[:n])
}
