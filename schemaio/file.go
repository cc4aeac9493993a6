package schemaio

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/internal/pool"
	"github.com/arloliu/cfgpack/store"
)

// PageoutFile pages c out into scratch and writes the blob to path,
// replacing any previous file. A nil scratch borrows a pooled buffer sized
// with store.PageoutBound.
//
// Returns:
//   - int: Number of bytes written
//   - error: errs.ErrEncodeOverflow if scratch is too small, errs.ErrIO if
//     the file cannot be written
func PageoutFile(c *store.Context, path string, scratch []byte) (int, error) {
	if scratch == nil {
		buf := pool.GetPageBuffer()
		defer pool.PutPageBuffer(buf)
		buf.Resize(store.PageoutBound(c.Schema()))
		scratch = buf.B
	}

	n, err := c.Pageout(scratch)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, scratch[:n], 0o644); err != nil { //nolint:gosec
		return 0, fmt.Errorf("%w: writing %s: %v", errs.ErrIO, path, err)
	}

	return n, nil
}

// PageinFile reads the blob at path into scratch and pages it into c.
func PageinFile(c *store.Context, path string, scratch []byte) error {
	return PageinFileRemap(c, path, scratch, nil)
}

// PageinFileRemap reads the blob at path into scratch and pages it into c,
// translating stored indices through remap. A nil scratch borrows a pooled
// buffer as large as the file.
//
// Returns:
//   - error: errs.ErrIO if the file cannot be read or does not fit
//     scratch, otherwise the error of store.Context.PageinRemap
func PageinFileRemap(c *store.Context, path string, scratch []byte, remap []store.Remap) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", errs.ErrIO, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", errs.ErrIO, path, err)
	}
	size := info.Size()

	if scratch == nil {
		buf := pool.GetPageBuffer()
		defer pool.PutPageBuffer(buf)
		buf.Resize(int(size))
		scratch = buf.B
	}
	if size > int64(len(scratch)) {
		return fmt.Errorf("%w: %s is %d bytes, scratch holds %d", errs.ErrIO, path, size, len(scratch))
	}

	blob := scratch[:size]
	if _, err := io.ReadFull(f, blob); err != nil {
		return fmt.Errorf("%w: reading %s: %v", errs.ErrIO, path, err)
	}

	return c.PageinRemap(blob, remap)
}
