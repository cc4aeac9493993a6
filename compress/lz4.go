package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/cfgpack/errs"
)

// lz4.Compressor keeps a hash table between calls.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor produces raw LZ4 blocks. Blocks carry no length header, so
// the decompressed size must be bounded by the caller.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
//
// Returns:
//   - LZ4Compressor: New LZ4 compressor instance
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress encodes data as one LZ4 block. Empty input yields nil.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %v", errs.ErrEncodeOverflow, err)
	}

	return dst[:n], nil
}

// Decompress decodes an LZ4 block. A block records no size, so the output
// buffer starts at four times the input and doubles up to maxSize.
//
// Returns:
//   - []byte: Decompressed data (nil if input is empty)
//   - error: errs.ErrDecode (wrapped) on corrupt input or when maxSize is exceeded
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bufSize := len(data) * 4
	const maxSize = 16 * 1024 * 1024

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}

			return nil, decodeError("lz4", err)
		}

		return buf[:n], nil
	}

	return nil, decodeError("lz4", lz4.ErrInvalidSourceShortBuffer)
}

// DecompressTo decompresses an LZ4 block into dst.
func (c LZ4Compressor) DecompressTo(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, errs.ErrBounds
		}

		return nil, decodeError("lz4", err)
	}

	return dst[:n], nil
}
