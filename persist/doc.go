// Package persist keeps paged-out configuration blobs between runs and
// migrates them into newer schemas when they are loaded back.
//
// A Store maps a slot key such as "gateway" to one blob. DirStore keeps a
// file per key, BoltStore keeps every key in a single bbolt bucket with an
// xxHash64 checksum in front of each blob.
//
// Migrator ties a Store to a context. Restore reads the stored schema name
// with store.PeekName, picks the remap table registered for that name and
// pages the blob in:
//
//	m, err := persist.NewMigrator(st, map[string][]store.Remap{
//	    "gateway_v1": {{Old: 20, New: 60}, {Old: 21, New: 61}},
//	})
//	if err := m.Restore(ctx, "gateway"); errors.Is(err, errs.ErrMissing) {
//	    // first boot, ctx holds the schema defaults
//	}
//
// Thread Safety: DirStore and BoltStore are safe for concurrent use. A
// Migrator owns one scratch buffer and must not be shared between
// goroutines.
package persist
