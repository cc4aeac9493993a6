package msgpack

// MessagePack format bytes.
const (
	PosFixIntMax   byte = 0x7f
	FixMapPrefix   byte = 0x80
	FixArrayPrefix byte = 0x90
	FixStrPrefix   byte = 0xa0
	Nil            byte = 0xc0
	NeverUsed      byte = 0xc1
	False          byte = 0xc2
	True           byte = 0xc3
	Bin8           byte = 0xc4
	Bin16          byte = 0xc5
	Bin32          byte = 0xc6
	Ext8           byte = 0xc7
	Ext16          byte = 0xc8
	Ext32          byte = 0xc9
	Float32        byte = 0xca
	Float64        byte = 0xcb
	Uint8          byte = 0xcc
	Uint16         byte = 0xcd
	Uint32         byte = 0xce
	Uint64         byte = 0xcf
	Int8           byte = 0xd0
	Int16          byte = 0xd1
	Int32          byte = 0xd2
	Int64          byte = 0xd3
	FixExt1        byte = 0xd4
	FixExt2        byte = 0xd5
	FixExt4        byte = 0xd6
	FixExt8        byte = 0xd7
	FixExt16       byte = 0xd8
	Str8           byte = 0xd9
	Str16          byte = 0xda
	Str32          byte = 0xdb
	Array16        byte = 0xdc
	Array32        byte = 0xdd
	Map16          byte = 0xde
	Map32          byte = 0xdf
	NegFixIntMin   byte = 0xe0
)

// Family classifies a format byte.
type Family uint8

const (
	FamilyInvalid Family = iota
	FamilyUint
	FamilyInt
	FamilyFloat
	FamilyStr
	FamilyBin
	FamilyNil
	FamilyBool
	FamilyArray
	FamilyMap
	FamilyExt
)

// Classify returns the family of the value introduced by format byte fb.
// Positive fixints classify as FamilyUint and negative fixints as FamilyInt.
func Classify(fb byte) Family {
	switch {
	case fb <= PosFixIntMax:
		return FamilyUint
	case fb >= NegFixIntMin:
		return FamilyInt
	case fb&0xf0 == FixMapPrefix:
		return FamilyMap
	case fb&0xf0 == FixArrayPrefix:
		return FamilyArray
	case fb&0xe0 == FixStrPrefix:
		return FamilyStr
	}

	switch fb {
	case Nil:
		return FamilyNil
	case False, True:
		return FamilyBool
	case Bin8, Bin16, Bin32:
		return FamilyBin
	case Ext8, Ext16, Ext32, FixExt1, FixExt2, FixExt4, FixExt8, FixExt16:
		return FamilyExt
	case Float32, Float64:
		return FamilyFloat
	case Uint8, Uint16, Uint32, Uint64:
		return FamilyUint
	case Int8, Int16, Int32, Int64:
		return FamilyInt
	case Str8, Str16, Str32:
		return FamilyStr
	case Array16, Array32:
		return FamilyArray
	case Map16, Map32:
		return FamilyMap
	default:
		return FamilyInvalid
	}
}

// IntBits returns the payload width in bits of an integer format byte:
// 8 for fixints and the 8-bit formats, up to 64. It returns 0 for
// non-integer format bytes.
func IntBits(fb byte) int {
	switch {
	case fb <= PosFixIntMax, fb >= NegFixIntMin:
		return 8
	}

	switch fb {
	case Uint8, Int8:
		return 8
	case Uint16, Int16:
		return 16
	case Uint32, Int32:
		return 32
	case Uint64, Int64:
		return 64
	default:
		return 0
	}
}
