package pool

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteBufferWrites(t *testing.T) {
	bb := NewByteBuffer(4)
	require.Empty(t, bb.Bytes())
	require.Equal(t, 4, cap(bb.B))

	_, _ = bb.Write([]byte("fleet"))
	require.NoError(t, bb.WriteByte('_'))
	n, err := bb.Write([]byte("gateway"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "fleet_gateway", string(bb.Bytes()))

	bb.Reset()
	assert.Empty(t, bb.Bytes())
	assert.GreaterOrEqual(t, cap(bb.B), 13, "reset keeps capacity")
}

type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestByteBufferWriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.Write([]byte("| 1 | mode |"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.Equal(t, "| 1 | mode |", out.String())

	_, err = bb.WriteTo(errorWriter{})
	require.Error(t, err)
}

func TestByteBufferResize(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("abc"))

	bb.Resize(8)
	assert.Len(t, bb.Bytes(), 8)
	assert.Equal(t, 8, cap(bb.B), "fits without growing")
	assert.Equal(t, "abc", string(bb.B[:3]))

	bb.Resize(100)
	assert.Len(t, bb.Bytes(), 100)
	assert.Equal(t, "abc", string(bb.B[:3]))

	bb.Resize(2)
	assert.Equal(t, "ab", string(bb.Bytes()))
}

func TestByteBufferGrow(t *testing.T) {
	tests := []struct {
		name   string
		cap    int
		len    int
		need   int
		minCap int
	}{
		{"enough room", 64, 10, 20, 64},
		{"small buffer grows by the default", 16, 16, 1, 16 + DocBufferDefaultSize},
		{"large buffer grows by a quarter", 8 * DocBufferDefaultSize, 8 * DocBufferDefaultSize, 1, 10 * DocBufferDefaultSize},
		{"large request", 16, 16, 3 * DocBufferDefaultSize, 16 + 3*DocBufferDefaultSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb := NewByteBuffer(tt.cap)
			bb.B = bb.B[:tt.len]
			for i := range bb.B {
				bb.B[i] = byte(i)
			}
			before := bytes.Clone(bb.B)

			bb.Grow(tt.need)
			assert.GreaterOrEqual(t, cap(bb.B)-len(bb.B), tt.need)
			assert.Equal(t, tt.minCap, cap(bb.B))
			assert.Equal(t, before, bb.Bytes(), "grow keeps the contents")
		})
	}
}

func TestPoolPut(t *testing.T) {
	p := NewByteBufferPool(64, 4096)
	bb := p.Get()
	_, _ = bb.Write([]byte("stale"))
	p.Put(bb)
	p.Put(nil)
	assert.Empty(t, p.Get().Bytes())

	big := p.Get()
	big.Grow(10000)
	p.Put(big)
	assert.LessOrEqual(t, cap(p.Get().B), 4096, "oversized buffers are dropped")
}

func TestDefaultPools(t *testing.T) {
	doc := GetDocBuffer()
	page := GetPageBuffer()
	assert.GreaterOrEqual(t, cap(doc.B), DocBufferDefaultSize)
	assert.GreaterOrEqual(t, cap(page.B), PageBufferDefaultSize)
	PutDocBuffer(doc)
	PutPageBuffer(page)
}

func TestPageBufferConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				bb := GetPageBuffer()
				bb.Resize(64)
				assert.Len(t, bb.Bytes(), 64)
				PutPageBuffer(bb)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkDocBufferGetWritePut(b *testing.B) {
	data := bytes.Repeat([]byte("x"), 512)

	b.ReportAllocs()
	for b.Loop() {
		bb := GetDocBuffer()
		_, _ = bb.Write(data)
		PutDocBuffer(bb)
	}
}
