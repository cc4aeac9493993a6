package compress

// ZstdCompressor provides Zstandard compression. It gives the best ratio
// of the built-in codecs on schema images and large configuration maps,
// and its frames record the decompressed size.
//
// The pure Go implementation from klauspost/compress is used by default.
// Building with the cgozstd tag and cgo enabled switches to gozstd.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor returns a Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
