package mysql

import (
	"encoding/binary"
	"math"

	"sqldriver/internal/value"
)

// DecodeBinaryField decodes one binary-protocol (prepared-statement result)
// row cell. buf is the column's raw payload slice positioned at the start
// of this value (already past the null-bitmap, which the caller consults
// to produce isNull); it returns the number of bytes of buf consumed.
// See SPEC_FULL.md §4.1 "Binary-protocol decode".
func DecodeBinaryField(buf []byte, isNull bool, meta FieldMeta) (value.NativeValue, int, error) {
	if isNull {
		return value.NativeNull(uint16(meta.Type), value.ColumnFlag(meta.Flags), meta.Charset), 0, nil
	}
	unsigned := meta.Flags&FlagUnsigned != 0

	switch meta.Type {
	case TypeTiny:
		if len(buf) < 1 {
			return value.NativeValue{}, 0, newConversionError("DecodeBinaryField: TINY: short buffer")
		}
		if meta.Length == 1 && !unsigned && (buf[0] == 0 || buf[0] == 1) {
			return value.NativeBool(buf[0] == 1), 1, nil
		}
		if unsigned {
			return value.NativeUint8(buf[0]), 1, nil
		}
		return value.NativeInt8(int8(buf[0])), 1, nil

	case TypeShort, TypeYear:
		if len(buf) < 2 {
			return value.NativeValue{}, 0, newConversionError("DecodeBinaryField: SHORT: short buffer")
		}
		u := binary.LittleEndian.Uint16(buf)
		if unsigned {
			return value.NativeUint16(u), 2, nil
		}
		return value.NativeInt16(int16(u)), 2, nil

	case TypeLong, TypeInt24:
		if len(buf) < 4 {
			return value.NativeValue{}, 0, newConversionError("DecodeBinaryField: LONG: short buffer")
		}
		u := binary.LittleEndian.Uint32(buf)
		if unsigned {
			return value.NativeUint32(u), 4, nil
		}
		return value.NativeInt32(int32(u)), 4, nil

	case TypeLongLong:
		if len(buf) < 8 {
			return value.NativeValue{}, 0, newConversionError("DecodeBinaryField: LONGLONG: short buffer")
		}
		u := binary.LittleEndian.Uint64(buf)
		if unsigned {
			return value.NativeUint64(u), 8, nil
		}
		return value.NativeInt64(int64(u)), 8, nil

	case TypeFloat:
		if len(buf) < 4 {
			return value.NativeValue{}, 0, newConversionError("DecodeBinaryField: FLOAT: short buffer")
		}
		bits := binary.LittleEndian.Uint32(buf)
		return value.NativeFloat32(math.Float32frombits(bits)), 4, nil

	case TypeDouble:
		if len(buf) < 8 {
			return value.NativeValue{}, 0, newConversionError("DecodeBinaryField: DOUBLE: short buffer")
		}
		bits := binary.LittleEndian.Uint64(buf)
		return value.NativeFloat64(math.Float64frombits(bits)), 8, nil

	case TypeDate, TypeDateTime, TypeTimestamp, TypeNewDate:
		return decodeBinaryTemporal(buf, dateTimeKindFor(meta.Type))

	case TypeTime:
		return decodeBinaryDuration(buf)

	case TypeDecimal, TypeNewDecimal, TypeEnum, TypeSet, TypeJSON,
		TypeVarChar, TypeVarString, TypeString:
		raw, isNil, n, err := readLenEncString(buf)
		if err != nil {
			return value.NativeValue{}, 0, newConversionError("DecodeBinaryField: %v", err)
		}
		if isNil {
			return value.NativeNull(uint16(meta.Type), value.ColumnFlag(meta.Flags), meta.Charset), n, nil
		}
		if meta.Flags&FlagBinary != 0 && meta.Charset == binaryCharsetNumber {
			return value.NativeBytes(raw), n, nil
		}
		return value.NativeString(string(raw)), n, nil

	case TypeTinyBlob, TypeMediumBlob, TypeLongBlob, TypeBlob, TypeGeometry, TypeBit:
		raw, isNil, n, err := readLenEncString(buf)
		if err != nil {
			return value.NativeValue{}, 0, newConversionError("DecodeBinaryField: %v", err)
		}
		if isNil {
			return value.NativeNull(uint16(meta.Type), value.ColumnFlag(meta.Flags), meta.Charset), n, nil
		}
		return value.NativeBytes(raw), n, nil

	case TypeNull:
		return value.NativeNull(uint16(meta.Type), value.ColumnFlag(meta.Flags), meta.Charset), 0, nil

	default:
		return value.NativeValue{}, 0, newConversionError("DecodeBinaryField: unsupported type 0x%02x", uint8(meta.Type))
	}
}

func dateTimeKindFor(t Type) value.TimeKind {
	if t == TypeDate || t == TypeNewDate {
		return value.TimeDate
	}
	return value.TimeDateTime
}

// decodeBinaryTemporal decodes the MySQL binary-protocol length-prefixed
// DATE/DATETIME/TIMESTAMP encoding: length byte, then 0, 4, 7, or 11 bytes
// of year/month/day[/hour/min/sec[/microsecond]].
func decodeBinaryTemporal(buf []byte, kind value.TimeKind) (value.NativeValue, int, error) {
	if len(buf) < 1 {
		return value.NativeValue{}, 0, newTimeError("decodeBinaryTemporal: missing length byte")
	}
	n := int(buf[0])
	if len(buf) < 1+n {
		return value.NativeValue{}, 0, newTimeError("decodeBinaryTemporal: short buffer for length %d", n)
	}
	b := buf[1 : 1+n]
	var t value.MysqlTime
	t.Kind = kind
	if n >= 4 {
		t.Year = binary.LittleEndian.Uint16(b[0:2])
		t.Month = b[2]
		t.Day = b[3]
	}
	if n >= 7 {
		t.Hour = uint16(b[4])
		t.Minute = b[5]
		t.Second = b[6]
	}
	if n >= 11 {
		t.Microsecond = binary.LittleEndian.Uint32(b[7:11])
	}
	return value.NativeTime(t), 1 + n, nil
}

// decodeBinaryDuration decodes the MySQL binary-protocol length-prefixed
// TIME encoding: length byte, then 0, 8, or 12 bytes of
// sign/days/hour/min/sec[/microsecond].
func decodeBinaryDuration(buf []byte) (value.NativeValue, int, error) {
	if len(buf) < 1 {
		return value.NativeValue{}, 0, newTimeError("decodeBinaryDuration: missing length byte")
	}
	n := int(buf[0])
	if len(buf) < 1+n {
		return value.NativeValue{}, 0, newTimeError("decodeBinaryDuration: short buffer for length %d", n)
	}
	t := value.MysqlTime{Kind: value.TimeTime}
	if n >= 8 {
		b := buf[1 : 1+n]
		t.Negative = b[0] != 0
		days := binary.LittleEndian.Uint32(b[1:5])
		t.Hour = uint16(days)*24 + uint16(b[5])
		t.Minute = b[6]
		t.Second = b[7]
		if n >= 12 {
			t.Microsecond = binary.LittleEndian.Uint32(b[8:12])
		}
	}
	return value.NativeTime(t), 1 + n, nil
}
