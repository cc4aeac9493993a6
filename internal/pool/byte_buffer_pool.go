// Package pool recycles the scratch buffers collaborators use to render
// schema documents and to stage paged-out blobs.
package pool

import (
	"io"
	"sync"
)

const (
	// DocBufferDefaultSize is the initial capacity of buffers rendering
	// schema documents (JSON, Markdown, MessagePack images).
	DocBufferDefaultSize = 4 << 10
	// DocBufferMaxThreshold caps the capacity a document buffer may keep
	// when it returns to the pool.
	DocBufferMaxThreshold = 64 << 10

	// PageBufferDefaultSize is the initial capacity of pagein and pageout
	// scratch buffers. A full 128-entry map of 64-byte strings needs under
	// 10KiB.
	PageBufferDefaultSize  = 2 << 10
	PageBufferMaxThreshold = 16 << 10
)

// ByteBuffer is a growable byte slice recycled through a ByteBufferPool.
// It implements io.Writer and io.ByteWriter, so a MessagePack encoder
// writes into it without an extra wrapper.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer returns an empty buffer with capacity size.
func NewByteBuffer(size int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, size)}
}

// Bytes returns the buffered bytes.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Resize sets the length to n, reallocating when the capacity is short.
// The contents beyond the old length are unspecified.
func (bb *ByteBuffer) Resize(n int) {
	if n > cap(bb.B) {
		bb.Grow(n - len(bb.B))
	}
	bb.B = bb.B[:n]
}

// Grow makes room for n more bytes. Small buffers grow by at least
// DocBufferDefaultSize, larger ones by a quarter of their capacity.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	by := max(DocBufferDefaultSize, cap(bb.B)/4, n)
	grown := make([]byte, len(bb.B), len(bb.B)+by)
	copy(grown, bb.B)
	bb.B = grown
}

// Write appends data.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteByte appends c.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// WriteTo writes the buffered bytes to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a sync.Pool of ByteBuffers. Buffers grown past
// maxThreshold are dropped on Put.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool of buffers with capacity size. A
// maxThreshold of 0 keeps every buffer.
func NewByteBufferPool(size, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(size) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get returns an empty buffer.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put recycles bb. A nil buffer is ignored.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil || (p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold) {
		return
	}
	bb.Reset()
	p.pool.Put(bb)
}

var (
	docPool  = NewByteBufferPool(DocBufferDefaultSize, DocBufferMaxThreshold)
	pagePool = NewByteBufferPool(PageBufferDefaultSize, PageBufferMaxThreshold)
)

// GetDocBuffer returns a buffer for rendering a schema document.
func GetDocBuffer() *ByteBuffer { return docPool.Get() }

// PutDocBuffer recycles a buffer from GetDocBuffer.
func PutDocBuffer(bb *ByteBuffer) { docPool.Put(bb) }

// GetPageBuffer returns a pagein or pageout scratch buffer.
func GetPageBuffer() *ByteBuffer { return pagePool.Get() }

// PutPageBuffer recycles a buffer from GetPageBuffer.
func PutPageBuffer(bb *ByteBuffer) { pagePool.Put(bb) }
