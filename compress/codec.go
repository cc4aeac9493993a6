package compress

import (
	"fmt"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/format"
)

// Compressor compresses a paged-out configuration blob or schema image.
type Compressor interface {
	// Compress compresses data and returns a newly allocated result.
	// The input slice is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
//
// Decompress allocates its result and suits host-side tooling. DecompressTo
// writes into caller scratch memory and never grows it, which lets a
// device decompress a stored blob straight into a fixed pagein buffer.
//
// Thread Safety: implementations are safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses data and returns a newly allocated result.
	//
	// Returns:
	//   - []byte: Decompressed data
	//   - error: errs.ErrDecode (wrapped) if data is corrupt or uses another algorithm
	Decompress(data []byte) ([]byte, error)

	// DecompressTo decompresses src into dst and returns dst[:n]. The
	// whole length of dst is available as scratch.
	//
	// Returns:
	//   - []byte: The decompressed prefix of dst
	//   - error: errs.ErrBounds if the output does not fit dst, errs.ErrDecode if src is corrupt
	DecompressTo(dst, src []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one compression run. The cfgpack-compress
// tool reports it after packing a file.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64

	// CompressionTimeNs is the time taken to compress the data
	CompressionTimeNs int64
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression. Small configuration
// blobs often land above 1.0 with the framed algorithms.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
//
// Returns:
//   - float64: Space savings percentage, negative when the output grew
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: errs.ErrInvalidType (wrapped) for an unknown compression type
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: invalid %s compression: %s", errs.ErrInvalidType, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: unsupported compression type: %s", errs.ErrInvalidType, compressionType)
}

func decodeError(algo string, err error) error {
	return fmt.Errorf("%w: %s: %v", errs.ErrDecode, algo, err)
}
