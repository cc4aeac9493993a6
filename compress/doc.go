// Package compress provides compression codecs for stored configuration
// blobs and schema images.
//
// A paged-out configuration map is already compact, so compression pays
// off mainly for string heavy maps, for schema images shipped with
// firmware, and for fleets that store many blobs side by side. The codecs
// are selected with a format.CompressionType:
//   - None: blob stored as is
//   - Zstd: best ratio, frames record their size
//   - S2: fast, blocks record their size
//   - LZ4: fastest decode, raw blocks without a size header
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	    DecompressTo(dst, src []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Decompress allocates and is meant for host tooling. DecompressTo writes
// into caller scratch memory, failing with errs.ErrBounds instead of
// growing it, which is what cfgpack.PageinCompressed uses:
//
//	codec, _ := compress.GetCodec(format.CompressionZstd)
//	blob, err := codec.DecompressTo(scratch[:], stored)
//	if err != nil {
//	    return err
//	}
//	err = ctx.Pagein(blob)
//
// # Zstd backends
//
// The default Zstd backend is klauspost/compress/zstd. Building with
// -tags cgozstd (and cgo enabled) switches to valyala/gozstd.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use. Encoders and
// decoders are pooled internally.
package compress
