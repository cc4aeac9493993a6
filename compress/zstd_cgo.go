//go:build cgozstd && cgo

package compress

import (
	"github.com/valyala/gozstd"

	"github.com/arloliu/cfgpack/errs"
)

// Compress compresses the input data using Zstandard compression.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses Zstd-compressed data.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, decodeError("zstd", err)
	}

	return out, nil
}

// DecompressTo decompresses into dst and rejects output that outgrew it.
func (c ZstdCompressor) DecompressTo(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	out, err := gozstd.Decompress(dst[:0], src)
	if err != nil {
		return nil, decodeError("zstd", err)
	}
	if len(out) > len(dst) {
		return nil, errs.ErrBounds
	}

	return out, nil
}
