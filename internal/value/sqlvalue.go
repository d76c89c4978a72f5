package value

import (
	"fmt"
	"time"
)

// TypeHint identifies the domain-oriented type a SqlValue claims to carry,
// decoupled from any particular database engine.
type TypeHint uint8

const (
	HintUnknown TypeHint = iota
	HintNull
	HintString
	HintFixedString
	HintClob
	HintJSON
	HintXML
	HintDate
	HintTime
	HintDateTime
	HintTimestamp
	HintDecimal
	HintNumeric
	HintByteArray
	HintBlob
	HintBool
	HintInt8
	HintInt16
	HintInt32
	HintInt64
	HintUint8
	HintUint16
	HintUint32
	HintUint64
	HintFloat
	HintDouble
	HintInterval
	HintArray
	HintRowID
	HintCustom
)

// ChronoDate is a bare calendar date (proleptic Gregorian), the Go
// equivalent of a C++ year_month_day without a time-of-day component.
type ChronoDate struct {
	Year  int
	Month int // 1-12
	Day   int // 1-31
}

// ChronoTime is a duration since midnight, signed, matching MySQL's TIME
// domain (|hours| <= 838).
type ChronoTime time.Duration

// SqlValue is the driver layer's tagged value: a variant over primitives,
// ChronoDate, ChronoTime, a full time.Time (ChronoDateTime), string and
// blob, carrying a TypeHint. Unlike NativeValue it has no notion of MySQL
// wire types; it is what an engine-agnostic caller sees.
type SqlValue struct {
	Hint TypeHint
	Null bool

	b        bool
	i64      int64
	u64      uint64
	f64      float64
	str      string
	blob     []byte
	date     ChronoDate
	chTime   ChronoTime
	dateTime time.Time
}

func SqlNull(hint TypeHint) SqlValue { return SqlValue{Hint: hint, Null: true} }
func SqlBool(v bool) SqlValue        { return SqlValue{Hint: HintBool, b: v} }
func SqlInt64(v int64) SqlValue      { return SqlValue{Hint: HintInt64, i64: v} }
func SqlUint64(v uint64) SqlValue    { return SqlValue{Hint: HintUint64, u64: v} }
func SqlFloat64(v float64) SqlValue  { return SqlValue{Hint: HintDouble, f64: v} }
func SqlString(v string) SqlValue    { return SqlValue{Hint: HintString, str: v} }
func SqlBlob(v []byte) SqlValue      { return SqlValue{Hint: HintBlob, blob: v} }
func SqlDate(v ChronoDate) SqlValue  { return SqlValue{Hint: HintDate, date: v} }
func SqlTime(v ChronoTime) SqlValue  { return SqlValue{Hint: HintTime, chTime: v} }
func SqlDateTime(v time.Time) SqlValue {
	return SqlValue{Hint: HintDateTime, dateTime: v}
}

func (v SqlValue) BoolValue() bool         { return v.b }
func (v SqlValue) Int64Value() int64       { return v.i64 }
func (v SqlValue) Uint64Value() uint64     { return v.u64 }
func (v SqlValue) Float64Value() float64   { return v.f64 }
func (v SqlValue) StringValue() string     { return v.str }
func (v SqlValue) BlobValue() []byte       { return v.blob }
func (v SqlValue) DateValue() ChronoDate   { return v.date }
func (v SqlValue) TimeValue() ChronoTime   { return v.chTime }
func (v SqlValue) DateTimeValue() time.Time { return v.dateTime }

func (h TypeHint) String() string {
	switch h {
	case HintUnknown:
		return "Unknown"
	case HintNull:
		return "Null"
	case HintString:
		return "String"
	case HintFixedString:
		return "FixedString"
	case HintClob:
		return "Clob"
	case HintJSON:
		return "Json"
	case HintXML:
		return "Xml"
	case HintDate:
		return "Date"
	case HintTime:
		return "Time"
	case HintDateTime:
		return "DateTime"
	case HintTimestamp:
		return "Timestamp"
	case HintDecimal:
		return "Decimal"
	case HintNumeric:
		return "Numeric"
	case HintByteArray:
		return "ByteArray"
	case HintBlob:
		return "Blob"
	case HintBool:
		return "Bool"
	case HintInt8:
		return "Int8"
	case HintInt16:
		return "Int16"
	case HintInt32:
		return "Int32"
	case HintInt64:
		return "Int64"
	case HintUint8:
		return "UInt8"
	case HintUint16:
		return "UInt16"
	case HintUint32:
		return "UInt32"
	case HintUint64:
		return "UInt64"
	case HintFloat:
		return "Float"
	case HintDouble:
		return "Double"
	case HintInterval:
		return "Interval"
	case HintArray:
		return "Array"
	case HintRowID:
		return "RowId"
	case HintCustom:
		return "Custom"
	default:
		return fmt.Sprintf("TypeHint(%d)", uint8(h))
	}
}

// DaysInMonth reports the number of days in the date's month, honoring
// leap years. Used to validate ChronoDate values before conversion.
func (d ChronoDate) DaysInMonth() int {
	return int(DaysInMonth(uint16(d.Year), uint8(d.Month)))
}

// Valid reports whether d names a real calendar date in the MySQL DATE
// domain (year 0 is allowed only for the zero-date sentinel handled
// upstream by MysqlTime; ChronoDate itself just validates month/day).
func (d ChronoDate) Valid() bool {
	if d.Month < 1 || d.Month > 12 {
		return false
	}
	if d.Day < 1 || d.Day > d.DaysInMonth() {
		return false
	}
	return true
}
