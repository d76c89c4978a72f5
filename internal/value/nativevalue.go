// Package value holds the data model shared by the protocol, transport and
// driver layers: NativeValue (the wire-adjacent tagged value), SqlValue (the
// engine-agnostic tagged value), and the structural metadata types
// (FieldMeta, Record, IndexInfo, ConnectionParams) that travel between them.
package value

import "fmt"

// Kind discriminates the variant carried by a NativeValue.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindBytes
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ColumnFlag is a bitmask mirroring the MySQL column-flags field (PRI_KEY,
// UNSIGNED, BINARY, …).
type ColumnFlag uint32

const (
	FlagNotNull ColumnFlag = 1 << iota
	FlagPriKey
	FlagUniqueKey
	FlagMultipleKey
	FlagBlob
	FlagUnsigned
	FlagZeroFill
	FlagBinary
	FlagEnum
	FlagAutoIncrement
	FlagTimestamp
	FlagSet
)

func (f ColumnFlag) Has(bit ColumnFlag) bool { return f&bit != 0 }

// NativeValue is the protocol layer's tagged value. It retains the
// originating MySQL column type id, the column flags and the character-set
// number even when Kind is KindNull, so that column provenance survives a
// null round-trip (see the invariant in SPEC_FULL.md §3).
type NativeValue struct {
	Kind    Kind
	Null    bool
	NumType uint16 // originating MySQL native type id (protocol.Type*)
	Flags   ColumnFlag
	Charset uint16

	boolVal   bool
	i64       int64
	u64       uint64
	f64       float64
	str       string
	bytes     []byte
	timeVal   MysqlTime
}

// NativeNull builds a null NativeValue that still remembers the column's
// native type, so FieldMeta provenance is preserved across the null.
func NativeNull(numType uint16, flags ColumnFlag, charset uint16) NativeValue {
	return NativeValue{Kind: KindNull, Null: true, NumType: numType, Flags: flags, Charset: charset}
}

func NativeBool(v bool) NativeValue { return NativeValue{Kind: KindBool, boolVal: v} }
func NativeInt8(v int8) NativeValue { return NativeValue{Kind: KindInt8, i64: int64(v)} }
func NativeInt16(v int16) NativeValue { return NativeValue{Kind: KindInt16, i64: int64(v)} }
func NativeInt32(v int32) NativeValue { return NativeValue{Kind: KindInt32, i64: int64(v)} }
func NativeInt64(v int64) NativeValue { return NativeValue{Kind: KindInt64, i64: v} }
func NativeUint8(v uint8) NativeValue { return NativeValue{Kind: KindUint8, u64: uint64(v)} }
func NativeUint16(v uint16) NativeValue { return NativeValue{Kind: KindUint16, u64: uint64(v)} }
func NativeUint32(v uint32) NativeValue { return NativeValue{Kind: KindUint32, u64: uint64(v)} }
func NativeUint64(v uint64) NativeValue { return NativeValue{Kind: KindUint64, u64: v} }
func NativeFloat32(v float32) NativeValue { return NativeValue{Kind: KindFloat32, f64: float64(v)} }
func NativeFloat64(v float64) NativeValue { return NativeValue{Kind: KindFloat64, f64: v} }
func NativeString(v string) NativeValue { return NativeValue{Kind: KindString, str: v} }
func NativeBytes(v []byte) NativeValue { return NativeValue{Kind: KindBytes, bytes: v} }
func NativeTime(v MysqlTime) NativeValue { return NativeValue{Kind: KindTime, timeVal: v} }

// Bool returns the boolean payload; only valid when Kind == KindBool.
func (n NativeValue) Bool() bool { return n.boolVal }

// Int64 returns the signed-integer payload widened to int64; only valid for
// signed integer Kinds.
func (n NativeValue) Int64() int64 { return n.i64 }

// Uint64 returns the unsigned-integer payload widened to uint64; only valid
// for unsigned integer Kinds.
func (n NativeValue) Uint64() uint64 { return n.u64 }

// Float64 returns the floating-point payload widened to float64; only valid
// for KindFloat32/KindFloat64.
func (n NativeValue) Float64() float64 { return n.f64 }

// String returns the string payload; only valid for KindString.
func (n NativeValue) String() string { return n.str }

// Bytes returns the byte-slice payload; only valid for KindBytes.
func (n NativeValue) Bytes() []byte { return n.bytes }

// Time returns the MysqlTime payload; only valid for KindTime.
func (n NativeValue) Time() MysqlTime { return n.timeVal }

// IsSigned reports whether Kind is one of the signed integer kinds.
func (n NativeValue) IsSigned() bool {
	switch n.Kind {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether Kind is one of the unsigned integer kinds.
func (n NativeValue) IsUnsigned() bool {
	switch n.Kind {
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	default:
		return false
	}
}
