// Package store binds a schema to caller-owned arenas and serializes the
// resulting context to and from MessagePack.
//
// # Arenas
//
// A Context owns no memory. Bind wires it to four caller supplied arenas:
//
//   - Values: one value.Value per schema entry
//   - Presence: one bit per entry, bit i%8 of byte i/8 (LSB first)
//   - Pool: the string pool, one fixed slot per string entry
//   - Offsets: the pool offset of each string slot
//
// String slots are assigned in schema order, StrMax+1 bytes for TypeStr
// and FStrMax+1 bytes for TypeFStr, and never move. Use schema.Sizing or
// NewArenas to size them. After Bind, no Context operation allocates.
//
// # Wire format
//
// Pageout writes one MessagePack map. Key 0 holds the schema name, and each
// present entry follows in index order, keyed by its index. PeekName reads
// the name back without a context, which lets a loader pick the migration
// path for a stored blob.
//
// # Migration
//
// PageinRemap loads a blob written under an older schema: keys are first
// translated through the remap table, unknown keys are skipped, values are
// widened following the coercion matrix (see CanCoerce), and entries the
// blob does not cover are restored to their schema defaults.
//
// A failed pagein leaves the context partially updated; call
// ResetToDefaults before using it again.
//
// A Context is not safe for concurrent mutation.
package store
