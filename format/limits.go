package format

const (
	// StrMax is the maximum length in bytes of a TypeStr value.
	StrMax = 64
	// FStrMax is the maximum length in bytes of a TypeFStr value.
	FStrMax = 16
	// NameMax is the maximum length of an entry name.
	NameMax = 5
	// MapNameMax is the maximum length of a schema map name.
	MapNameMax = 63
	// MaxEntries is the default cap on schema entries.
	MaxEntries = 128
	// MaxIndex is the largest usable entry index. Index 0 is reserved.
	MaxIndex = 0xffff
	// SkipMaxDepth is the number of nested containers the value skipper
	// tracks before giving up.
	SkipMaxDepth = 32
)
