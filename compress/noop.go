package compress

import "github.com/arloliu/cfgpack/errs"

// NoOpCompressor passes data through unchanged. It backs
// format.CompressionNone so callers can treat stored blobs uniformly.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor that bypasses data.
//
// Returns:
//   - NoOpCompressor: New no-op compressor instance
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input slice as-is, without copying.
//
// Note: The returned slice shares the same underlying memory as the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is, without copying.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// DecompressTo copies src into dst.
func (c NoOpCompressor) DecompressTo(dst, src []byte) ([]byte, error) {
	if len(src) > len(dst) {
		return nil, errs.ErrBounds
	}

	return dst[:copy(dst, src)], nil
}
