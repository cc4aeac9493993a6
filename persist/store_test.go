package persist

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/arloliu/cfgpack/errs"
)

type storeFactory struct {
	name string
	open func(t *testing.T) Store
}

func openDir(t *testing.T) Store {
	t.Helper()
	st, err := NewDirStore(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)

	return st
}

func openBolt(t *testing.T) Store {
	t.Helper()
	st, err := OpenBolt(filepath.Join(t.TempDir(), "blobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, st.Close()) })

	return st
}

var factories = []storeFactory{
	{"dir", openDir},
	{"bolt", openBolt},
}

func TestStoreSaveLoadDelete(t *testing.T) {
	for _, f := range factories {
		t.Run(f.name, func(t *testing.T) {
			st := f.open(t)

			_, err := st.Load("gateway", nil)
			require.ErrorIs(t, err, errs.ErrMissing)

			require.NoError(t, st.Save("gateway", []byte{0x81, 0x00, 0xa2, 'g', 'w'}))
			got, err := st.Load("gateway", nil)
			require.NoError(t, err)
			require.Equal(t, []byte{0x81, 0x00, 0xa2, 'g', 'w'}, got)

			require.NoError(t, st.Save("gateway", []byte{0x80}))
			scratch := make([]byte, 16)
			got, err = st.Load("gateway", scratch)
			require.NoError(t, err)
			require.Equal(t, []byte{0x80}, got)
			require.Same(t, &scratch[0], &got[0], "blob is loaded into dst")

			require.NoError(t, st.Delete("gateway"))
			require.ErrorIs(t, st.Delete("gateway"), errs.ErrMissing)
			_, err = st.Load("gateway", nil)
			require.ErrorIs(t, err, errs.ErrMissing)
		})
	}
}

func TestStoreKeys(t *testing.T) {
	for _, f := range factories {
		t.Run(f.name, func(t *testing.T) {
			st := f.open(t)
			for _, key := range []string{"", ".", "..", "a/b", `a\b`, string(make([]byte, maxKeyLen+1))} {
				require.ErrorIs(t, st.Save(key, []byte{0x80}), errs.ErrBounds, "key %q", key)
				_, err := st.Load(key, nil)
				require.ErrorIs(t, err, errs.ErrBounds, "key %q", key)
				require.ErrorIs(t, st.Delete(key), errs.ErrBounds, "key %q", key)
			}
		})
	}
}

func TestDirStoreLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "blobs")
	st, err := NewDirStore(dir)
	require.NoError(t, err)
	require.Equal(t, dir, st.Dir())

	require.NoError(t, st.Save("gw", []byte{0x80}))
	data, err := os.ReadFile(filepath.Join(dir, "gw.cfg"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x80}, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left behind")
}

func TestDirStoreErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := NewDirStore(filepath.Join(file, "sub"))
	require.ErrorIs(t, err, errs.ErrIO)

	st, err := NewDirStore(t.TempDir())
	require.NoError(t, err)
	blocker := filepath.Join(st.Dir(), "gw.cfg")
	require.NoError(t, os.Mkdir(blocker, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(blocker, "x"), nil, 0o600))

	require.ErrorIs(t, st.Save("gw", []byte{0x80}), errs.ErrIO)
	require.ErrorIs(t, st.Delete("gw"), errs.ErrIO)
}

func TestBoltStoreChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blobs.db")
	st, err := OpenBolt(path, WithBucket("gateways"))
	require.NoError(t, err)
	require.NoError(t, st.Save("a", []byte{0x81, 0x00, 0xa1, 'x'}))
	require.NoError(t, st.Save("b", []byte{0x80}))

	keys, err := st.Keys()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, keys)

	err = st.db.Update(func(tx *bbolt.Tx) error {
		bk := tx.Bucket([]byte("gateways"))
		rec := append([]byte(nil), bk.Get([]byte("a"))...)
		rec[len(rec)-1] = 'y'
		if err := bk.Put([]byte("a"), rec); err != nil {
			return err
		}

		return bk.Put([]byte("b"), []byte{1, 2, 3})
	})
	require.NoError(t, err)

	_, err = st.Load("a", nil)
	require.ErrorIs(t, err, errs.ErrDecode)
	_, err = st.Load("b", nil)
	require.ErrorIs(t, err, errs.ErrDecode)
	require.NoError(t, st.Close())

	// Reopening keeps the data in the named bucket only.
	st, err = OpenBolt(path)
	require.NoError(t, err)
	keys, err = st.Keys()
	require.NoError(t, err)
	require.Empty(t, keys)
	require.NoError(t, st.Close())
}

func TestBoltStoreRecordLayout(t *testing.T) {
	st := openBolt(t).(*BoltStore)
	require.NoError(t, st.Save("k", []byte("blob")))

	var rec []byte
	err := st.db.View(func(tx *bbolt.Tx) error {
		rec = append(rec, tx.Bucket([]byte(DefaultBucket)).Get([]byte("k"))...)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, rec, checksumLen+4)
	require.NotZero(t, binary.LittleEndian.Uint64(rec))
	require.Equal(t, "blob", string(rec[checksumLen:]))
}

func TestOptions(t *testing.T) {
	_, err := OpenBolt(filepath.Join(t.TempDir(), "x.db"), WithBucket(""))
	require.ErrorIs(t, err, errs.ErrBounds)

	_, err = NewMigrator(nil, nil, WithScratchSize(4))
	require.ErrorIs(t, err, errs.ErrBounds)

	_, err = OpenBolt(filepath.Join(t.TempDir(), "missing", "x.db"))
	require.ErrorIs(t, err, errs.ErrIO)
}
