package persist

import (
	"fmt"
	"strings"

	"github.com/arloliu/cfgpack/errs"
)

// Store keeps one blob per key.
type Store interface {
	// Load appends the blob stored under key to dst[:0] and returns it.
	//
	// Returns:
	//   - []byte: The blob, in dst when it fits
	//   - error: errs.ErrMissing if nothing is stored under key, errs.ErrIO
	//     or errs.ErrDecode if the stored copy cannot be read back
	Load(key string, dst []byte) ([]byte, error)

	// Save stores blob under key, replacing any previous blob. The store
	// does not retain blob.
	Save(key string, blob []byte) error

	// Delete removes key. Deleting a missing key returns errs.ErrMissing.
	Delete(key string) error
}

const maxKeyLen = 128

// checkKey rejects keys that cannot name a file.
func checkKey(key string) error {
	switch {
	case key == "", key == ".", key == "..":
		return fmt.Errorf("%w: invalid key %q", errs.ErrBounds, key)
	case len(key) > maxKeyLen:
		return fmt.Errorf("%w: key is %d bytes, max %d", errs.ErrBounds, len(key), maxKeyLen)
	case strings.ContainsAny(key, `/\`+"\x00"):
		return fmt.Errorf("%w: key %q contains a path separator", errs.ErrBounds, key)
	}

	return nil
}
