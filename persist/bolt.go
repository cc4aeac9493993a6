package persist

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"

	"github.com/arloliu/cfgpack/errs"
	"github.com/arloliu/cfgpack/internal/hash"
)

// checksumLen is the size of the xxHash64 prefix stored before each blob.
const checksumLen = 8

// BoltStore keeps blobs in one bbolt bucket. Each value is the
// little-endian xxHash64 of the blob followed by the blob itself.
type BoltStore struct {
	db     *bbolt.DB
	bucket []byte
	logger *slog.Logger
}

var _ Store = (*BoltStore)(nil)

// OpenBolt opens or creates the bbolt database at path and makes sure the
// bucket exists.
//
// Returns:
//   - *BoltStore: The store; Close releases the database
//   - error: errs.ErrIO if the database cannot be opened, or an option error
func OpenBolt(path string, opts ...Option) (*BoltStore, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", errs.ErrIO, path, err)
	}

	bucket := []byte(cfg.bucket)
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating bucket %s: %v", errs.ErrIO, cfg.bucket, err)
	}

	return &BoltStore{db: db, bucket: bucket, logger: cfg.logger}, nil
}

// Close closes the database.
func (b *BoltStore) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("%w: closing: %v", errs.ErrIO, err)
	}

	return nil
}

// Load implements Store. A blob whose checksum does not match returns
// errs.ErrDecode.
func (b *BoltStore) Load(key string, dst []byte) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(b.bucket).Get([]byte(key))
		if v == nil {
			return fmt.Errorf("%w: %s", errs.ErrMissing, key)
		}
		if len(v) < checksumLen {
			return fmt.Errorf("%w: %s: short record", errs.ErrDecode, key)
		}

		blob := v[checksumLen:]
		if want := binary.LittleEndian.Uint64(v); hash.Sum(blob) != want {
			return fmt.Errorf("%w: %s: checksum mismatch", errs.ErrDecode, key)
		}
		// v is only valid inside the transaction.
		out = append(dst[:0], blob...)

		return nil
	})
	if err != nil {
		return nil, wrapBolt(err)
	}
	b.logger.Debug("blob loaded", "key", key, "size", len(out))

	return out, nil
}

// Save implements Store.
func (b *BoltStore) Save(key string, blob []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	rec := make([]byte, 0, checksumLen+len(blob))
	rec = binary.LittleEndian.AppendUint64(rec, hash.Sum(blob))
	rec = append(rec, blob...)

	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(key), rec)
	})
	if err != nil {
		return fmt.Errorf("%w: saving %s: %v", errs.ErrIO, key, err)
	}
	b.logger.Debug("blob saved", "key", key, "size", len(blob))

	return nil
}

// Delete implements Store.
func (b *BoltStore) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		bk := tx.Bucket(b.bucket)
		if bk.Get([]byte(key)) == nil {
			return fmt.Errorf("%w: %s", errs.ErrMissing, key)
		}

		return bk.Delete([]byte(key))
	})
	if err != nil {
		return wrapBolt(err)
	}
	b.logger.Debug("blob deleted", "key", key)

	return nil
}

// Keys returns the stored keys in byte order.
func (b *BoltStore) Keys() ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(b.bucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, wrapBolt(err)
	}

	return keys, nil
}

// wrapBolt passes errors of a known kind through and reports anything
// else bbolt returned as errs.ErrIO.
func wrapBolt(err error) error {
	if errs.Code(err) != errs.CodeUnknown {
		return err
	}

	return fmt.Errorf("%w: %v", errs.ErrIO, err)
}
