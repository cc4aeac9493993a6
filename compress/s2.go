package compress

import (
	"github.com/klauspost/compress/s2"

	"github.com/arloliu/cfgpack/errs"
)

// S2Compressor produces S2 blocks, which record their decoded length.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses the input data using S2 compression.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses the input data using S2 decompression.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, decodeError("s2", err)
	}

	return out, nil
}

// DecompressTo checks the recorded length against dst before decoding.
func (c S2Compressor) DecompressTo(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	n, err := s2.DecodedLen(src)
	if err != nil {
		return nil, decodeError("s2", err)
	}
	if n > len(dst) {
		return nil, errs.ErrBounds
	}

	out, err := s2.Decode(dst[:n], src)
	if err != nil {
		return nil, decodeError("s2", err)
	}

	return out, nil
}
