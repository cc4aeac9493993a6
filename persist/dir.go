package persist

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/arloliu/cfgpack/errs"
)

const blobExt = ".cfg"

// DirStore keeps each blob in its own file, <dir>/<key>.cfg. Saves go
// through a temporary file and a rename, so a reader sees either the old
// or the new blob.
type DirStore struct {
	dir    string
	logger *slog.Logger
}

var _ Store = (*DirStore)(nil)

// NewDirStore returns a store rooted at dir, creating it when needed.
//
// Returns:
//   - *DirStore: The store
//   - error: errs.ErrIO if dir cannot be created, or an option error
func NewDirStore(dir string, opts ...Option) (*DirStore, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
		return nil, fmt.Errorf("%w: creating %s: %v", errs.ErrIO, dir, err)
	}

	return &DirStore{dir: dir, logger: cfg.logger}, nil
}

// Dir returns the directory holding the blobs.
func (d *DirStore) Dir() string {
	return d.dir
}

func (d *DirStore) path(key string) string {
	return filepath.Join(d.dir, key+blobExt)
}

// Load implements Store.
func (d *DirStore) Load(key string, dst []byte) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	path := d.path(key)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errs.ErrMissing, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", errs.ErrIO, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", errs.ErrIO, path, err)
	}

	size := int(info.Size())
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]
	if _, err := io.ReadFull(f, dst); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", errs.ErrIO, path, err)
	}
	d.logger.Debug("blob loaded", "key", key, "size", size)

	return dst, nil
}

// Save implements Store.
func (d *DirStore) Save(key string, blob []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: saving %s: %v", errs.ErrIO, key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: saving %s: %v", errs.ErrIO, key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: saving %s: %v", errs.ErrIO, key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: saving %s: %v", errs.ErrIO, key, err)
	}
	if err := os.Rename(tmp.Name(), d.path(key)); err != nil {
		return fmt.Errorf("%w: saving %s: %v", errs.ErrIO, key, err)
	}
	d.logger.Debug("blob saved", "key", key, "size", len(blob))

	return nil
}

// Delete implements Store.
func (d *DirStore) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	err := os.Remove(d.path(key))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", errs.ErrMissing, key)
	case err != nil:
		return fmt.Errorf("%w: deleting %s: %v", errs.ErrIO, key, err)
	}
	d.logger.Debug("blob deleted", "key", key)

	return nil
}
