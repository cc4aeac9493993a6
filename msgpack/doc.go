// Package msgpack implements the MessagePack subset used by cfgpack blobs.
//
// The encoder writes into a caller supplied, fixed-capacity Buffer and never
// grows it: every append is all-or-nothing and fails with
// errs.ErrEncodeOverflow once the capacity is exhausted. Unsigned and signed
// integers are written in the smallest format that holds them, floats as
// big-endian IEEE 754, strings as fixstr, str8 or str16, and map headers as
// fixmap or map16.
//
// The Reader decodes from a borrowed byte slice with a position cursor. It
// accepts the full set of formats a persisted blob may contain: any integer
// format decodes into a wider or equal request when the value is
// representable, and str32, map32, array16/32, bin, ext, nil and booleans
// are recognized. On error the reader is poisoned and must not be reused.
//
// Skip advances past exactly one value of any type and nesting without
// recursion: a fixed stack of SkipMaxDepth remaining-child counters bounds
// its memory regardless of input depth.
//
// Nothing in this package allocates.
package msgpack
