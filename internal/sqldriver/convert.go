// Package sqldriver implements the engine-agnostic driver API: SqlValue
// conversions, placeholder rewriting, statement assembly, and connection
// lifecycle, per SPEC_FULL.md §4.5-§4.8. It sits between the transport
// layer (internal/transport/mysql, which only ever sees NativeValue) and a
// caller who thinks in terms of value.SqlValue/value.Record.
package sqldriver

import (
	"fmt"

	proto "sqldriver/internal/protocol/mysql"
	"sqldriver/internal/value"
)

// SQLToNative maps an engine-agnostic SqlValue to the nearest MySQL native
// type, per SPEC_FULL.md §4.5. Conversion failures of a non-null SqlValue
// produce a null NativeValue (data loss is preferred over silent
// misencoding) while still returning the error, so the caller decides
// whether to proceed.
func SQLToNative(sv value.SqlValue) (value.NativeValue, error) {
	if sv.Null {
		return value.NativeNull(nativeTypeForHint(sv.Hint), 0, 0), nil
	}

	switch sv.Hint {
	case value.HintBool:
		return value.NativeBool(sv.BoolValue()), nil
	case value.HintInt8:
		return value.NativeInt8(int8(sv.Int64Value())), nil
	case value.HintInt16:
		return value.NativeInt16(int16(sv.Int64Value())), nil
	case value.HintInt32:
		return value.NativeInt32(int32(sv.Int64Value())), nil
	case value.HintInt64, value.HintRowID:
		return value.NativeInt64(sv.Int64Value()), nil
	case value.HintUint8:
		return value.NativeUint8(uint8(sv.Uint64Value())), nil
	case value.HintUint16:
		return value.NativeUint16(uint16(sv.Uint64Value())), nil
	case value.HintUint32:
		return value.NativeUint32(uint32(sv.Uint64Value())), nil
	case value.HintUint64:
		return value.NativeUint64(sv.Uint64Value()), nil
	case value.HintFloat:
		return value.NativeFloat32(float32(sv.Float64Value())), nil
	case value.HintDouble:
		return value.NativeFloat64(sv.Float64Value()), nil
	case value.HintString, value.HintFixedString, value.HintClob, value.HintJSON, value.HintXML, value.HintDecimal, value.HintNumeric:
		return value.NativeString(sv.StringValue()), nil
	case value.HintByteArray, value.HintBlob:
		return value.NativeBytes(sv.BlobValue()), nil
	case value.HintDate:
		return value.NativeTime(proto.FromChronoDate(sv.DateValue())), nil
	case value.HintTime:
		t, err := proto.FromChronoTime(sv.TimeValue())
		if err != nil {
			return value.NativeNull(nativeTypeForHint(sv.Hint), 0, 0), fmt.Errorf("SQLToNative: %w", err)
		}
		return value.NativeTime(t), nil
	case value.HintDateTime, value.HintTimestamp:
		return value.NativeTime(proto.FromGoTime(sv.DateTimeValue())), nil
	default:
		return value.NativeNull(nativeTypeForHint(sv.Hint), 0, 0), fmt.Errorf("SQLToNative: unsupported type hint %v", sv.Hint)
	}
}

// nativeTypeForHint picks the MySQL native type id a null placeholder of
// this hint should carry, so null provenance survives the round trip even
// when there is no value to inspect.
func nativeTypeForHint(h value.TypeHint) uint16 {
	switch h {
	case value.HintBool, value.HintInt8, value.HintUint8:
		return uint16(proto.TypeTiny)
	case value.HintInt16, value.HintUint16:
		return uint16(proto.TypeShort)
	case value.HintInt32, value.HintUint32:
		return uint16(proto.TypeLong)
	case value.HintInt64, value.HintUint64, value.HintRowID:
		return uint16(proto.TypeLongLong)
	case value.HintFloat:
		return uint16(proto.TypeFloat)
	case value.HintDouble:
		return uint16(proto.TypeDouble)
	case value.HintDate:
		return uint16(proto.TypeDate)
	case value.HintTime:
		return uint16(proto.TypeTime)
	case value.HintDateTime:
		return uint16(proto.TypeDateTime)
	case value.HintTimestamp:
		return uint16(proto.TypeTimestamp)
	case value.HintJSON:
		return uint16(proto.TypeJSON)
	case value.HintDecimal, value.HintNumeric:
		return uint16(proto.TypeNewDecimal)
	case value.HintByteArray, value.HintBlob:
		return uint16(proto.TypeBlob)
	default:
		return uint16(proto.TypeVarString)
	}
}

// NativeToSQL converts a decoded NativeValue back to an engine-agnostic
// SqlValue, per SPEC_FULL.md §4.5. MysqlTime values are routed by their
// own Kind discriminator into ChronoDate/ChronoTime/ChronoDateTime.
func NativeToSQL(nv value.NativeValue) value.SqlValue {
	if nv.Null {
		return value.SqlNull(sqlHintForKind(nv))
	}

	switch nv.Kind {
	case value.KindBool:
		return value.SqlBool(nv.Bool())
	case value.KindInt8, value.KindInt16, value.KindInt32, value.KindInt64:
		return value.SqlInt64(nv.Int64())
	case value.KindUint8, value.KindUint16, value.KindUint32, value.KindUint64:
		return value.SqlUint64(nv.Uint64())
	case value.KindFloat32, value.KindFloat64:
		return value.SqlFloat64(nv.Float64())
	case value.KindString:
		return value.SqlString(nv.String())
	case value.KindBytes:
		return value.SqlBlob(nv.Bytes())
	case value.KindTime:
		return timeToSQL(nv.Time())
	default:
		return value.SqlNull(value.HintUnknown)
	}
}

func timeToSQL(t value.MysqlTime) value.SqlValue {
	switch t.Kind {
	case value.TimeDate:
		d, err := proto.ToChronoDate(t)
		if err != nil {
			return value.SqlNull(value.HintDate)
		}
		return value.SqlDate(d)
	case value.TimeTime:
		ct, err := proto.ToChronoTime(t)
		if err != nil {
			return value.SqlNull(value.HintTime)
		}
		return value.SqlTime(ct)
	case value.TimeDateTime, value.TimeDateTimeWithZone:
		tm, err := proto.ToGoTime(t)
		if err != nil {
			return value.SqlNull(value.HintDateTime)
		}
		return value.SqlDateTime(tm)
	default:
		return value.SqlNull(value.HintUnknown)
	}
}

func sqlHintForKind(nv value.NativeValue) value.TypeHint {
	switch proto.Type(nv.NumType) {
	case proto.TypeTiny:
		return value.HintInt8
	case proto.TypeShort:
		return value.HintInt16
	case proto.TypeLong, proto.TypeInt24:
		return value.HintInt32
	case proto.TypeLongLong:
		return value.HintInt64
	case proto.TypeFloat:
		return value.HintFloat
	case proto.TypeDouble:
		return value.HintDouble
	case proto.TypeDate:
		return value.HintDate
	case proto.TypeTime:
		return value.HintTime
	case proto.TypeDateTime:
		return value.HintDateTime
	case proto.TypeTimestamp:
		return value.HintTimestamp
	case proto.TypeJSON:
		return value.HintJSON
	case proto.TypeNewDecimal, proto.TypeDecimal:
		return value.HintDecimal
	case proto.TypeBlob, proto.TypeTinyBlob, proto.TypeMediumBlob, proto.TypeLongBlob:
		return value.HintBlob
	default:
		return value.HintString
	}
}

