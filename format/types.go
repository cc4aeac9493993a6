// Package format defines the type tags, compression identifiers and size
// limits shared by every cfgpack package.
package format

type (
	ValueType       uint8
	CompressionType uint8
)

// Value types. The numeric tag of each constant is its wire tag in the
// MessagePack schema format, so the ordering must never change.
const (
	TypeU8   ValueType = 0  // TypeU8 represents an unsigned 8-bit integer.
	TypeU16  ValueType = 1  // TypeU16 represents an unsigned 16-bit integer.
	TypeU32  ValueType = 2  // TypeU32 represents an unsigned 32-bit integer.
	TypeU64  ValueType = 3  // TypeU64 represents an unsigned 64-bit integer.
	TypeI8   ValueType = 4  // TypeI8 represents a signed 8-bit integer.
	TypeI16  ValueType = 5  // TypeI16 represents a signed 16-bit integer.
	TypeI32  ValueType = 6  // TypeI32 represents a signed 32-bit integer.
	TypeI64  ValueType = 7  // TypeI64 represents a signed 64-bit integer.
	TypeF32  ValueType = 8  // TypeF32 represents an IEEE 754 single precision float.
	TypeF64  ValueType = 9  // TypeF64 represents an IEEE 754 double precision float.
	TypeStr  ValueType = 10 // TypeStr represents a variable string of at most StrMax bytes.
	TypeFStr ValueType = 11 // TypeFStr represents a fixed string of at most FStrMax bytes.

	// NumTypes is the number of value types.
	NumTypes = 12
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
)

var typeNames = [NumTypes]string{
	"u8", "u16", "u32", "u64",
	"i8", "i16", "i32", "i64",
	"f32", "f64", "str", "fstr",
}

// String returns the schema spelling of the type ("u8", "fstr", ...).
func (t ValueType) String() string {
	if !t.Valid() {
		return "unknown"
	}

	return typeNames[t]
}

// Valid reports whether t is one of the twelve defined types.
func (t ValueType) Valid() bool {
	return t < NumTypes
}

// IsUnsigned reports whether t is an unsigned integer type.
func (t ValueType) IsUnsigned() bool {
	return t <= TypeU64
}

// IsSigned reports whether t is a signed integer type.
func (t ValueType) IsSigned() bool {
	return t >= TypeI8 && t <= TypeI64
}

// IsFloat reports whether t is a floating point type.
func (t ValueType) IsFloat() bool {
	return t == TypeF32 || t == TypeF64
}

// IsString reports whether t is one of the string types.
func (t ValueType) IsString() bool {
	return t == TypeStr || t == TypeFStr
}

// Bits returns the width in bits of a numeric type, or 0 for strings.
func (t ValueType) Bits() int {
	switch t {
	case TypeU8, TypeI8:
		return 8
	case TypeU16, TypeI16:
		return 16
	case TypeU32, TypeI32, TypeF32:
		return 32
	case TypeU64, TypeI64, TypeF64:
		return 64
	default:
		return 0
	}
}

// MaxLen returns the maximum payload length of a string type, or 0 for
// numeric types.
func (t ValueType) MaxLen() int {
	switch t {
	case TypeStr:
		return StrMax
	case TypeFStr:
		return FStrMax
	default:
		return 0
	}
}

// SlotSize returns the string pool slot size reserved for a string type:
// the maximum length plus one byte for the NUL terminator.
func (t ValueType) SlotSize() int {
	if !t.IsString() {
		return 0
	}

	return t.MaxLen() + 1
}

// ParseValueType maps a schema spelling back to its type.
//
// Returns:
//   - ValueType: The parsed type
//   - bool: false if name is not a known type
func ParseValueType(name string) (ValueType, bool) {
	for i, n := range typeNames {
		if n == name {
			return ValueType(i), true
		}
	}

	return 0, false
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a case-sensitive lower-case name ("none",
// "lz4", "s2", "zstd") to its compression type.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
