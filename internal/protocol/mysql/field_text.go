package mysql

import (
	"strconv"
	"strings"

	"sqldriver/internal/value"
)

// FieldMeta is the minimal column-description subset the field decoders
// need: native type, flags, declared length and character-set number. The
// full FieldMeta record (display name, table, etc.) lives in
// internal/value and is populated by the transport layer's result-metadata
// reader; decoders only need this slice of it.
type FieldMeta struct {
	Type    Type
	Flags   ColumnFlag
	Length  uint32
	Charset uint16
}

const binaryCharsetNumber = 63

// DecodeTextField decodes one text-protocol row cell. raw is nil for SQL
// NULL; isNull disambiguates a present-but-empty payload ("") from an
// absent one. See SPEC_FULL.md §4.1 "Text-protocol decode".
func DecodeTextField(raw []byte, isNull bool, meta FieldMeta) (value.NativeValue, error) {
	if isNull {
		return value.NativeNull(uint16(meta.Type), value.ColumnFlag(meta.Flags), meta.Charset), nil
	}
	s := string(raw)

	switch meta.Type {
	case TypeTiny:
		if meta.Length == 1 && meta.Flags&(FlagUnsigned|FlagBinary) == 0 && (s == "0" || s == "1") {
			return value.NativeBool(s == "1"), nil
		}
		return decodeIntField(s, meta, 8)
	case TypeShort:
		return decodeIntField(s, meta, 16)
	case TypeLong, TypeInt24:
		return decodeIntField(s, meta, 32)
	case TypeLongLong:
		return decodeIntField(s, meta, 64)
	case TypeFloat:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return value.NativeValue{}, newConversionError("DecodeTextField: invalid FLOAT %q: %v", s, err)
		}
		return value.NativeFloat32(float32(f)), nil
	case TypeDouble:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return value.NativeValue{}, newConversionError("DecodeTextField: invalid DOUBLE %q: %v", s, err)
		}
		return value.NativeFloat64(f), nil
	case TypeDecimal, TypeNewDecimal, TypeEnum, TypeSet, TypeYear, TypeJSON:
		return value.NativeString(s), nil
	case TypeDate:
		t, err := ParseMysqlTime(s, value.TimeDate)
		if err != nil {
			return value.NativeValue{}, newTimeError("DecodeTextField: %v", err)
		}
		return value.NativeTime(t), nil
	case TypeTime:
		t, err := ParseMysqlTime(s, value.TimeTime)
		if err != nil {
			return value.NativeValue{}, newTimeError("DecodeTextField: %v", err)
		}
		return value.NativeTime(t), nil
	case TypeDateTime, TypeTimestamp, TypeNewDate:
		t, err := ParseMysqlTime(s, value.TimeDateTime)
		if err != nil {
			return value.NativeValue{}, newTimeError("DecodeTextField: %v", err)
		}
		return value.NativeTime(t), nil
	case TypeVarChar, TypeVarString, TypeString:
		if meta.Flags&FlagBinary != 0 && meta.Charset == binaryCharsetNumber {
			return value.NativeBytes(raw), nil
		}
		return value.NativeString(s), nil
	case TypeTinyBlob, TypeMediumBlob, TypeLongBlob, TypeBlob, TypeGeometry, TypeBit:
		return value.NativeBytes(raw), nil
	case TypeNull:
		return value.NativeNull(uint16(TypeNull), value.ColumnFlag(meta.Flags), meta.Charset), nil
	default:
		return value.NativeValue{}, newConversionError("DecodeTextField: unsupported type 0x%02x", uint8(meta.Type))
	}
}

func decodeIntField(s string, meta FieldMeta, bits int) (value.NativeValue, error) {
	unsigned := meta.Flags&FlagUnsigned != 0
	if unsigned {
		u, err := strconv.ParseUint(strings.TrimSpace(s), 10, bits)
		if err != nil {
			return value.NativeValue{}, newConversionError("DecodeTextField: invalid unsigned int%d %q: %v", bits, s, err)
		}
		switch bits {
		case 8:
			return value.NativeUint8(uint8(u)), nil
		case 16:
			return value.NativeUint16(uint16(u)), nil
		case 32:
			return value.NativeUint32(uint32(u)), nil
		default:
			return value.NativeUint64(u), nil
		}
	}
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, bits)
	if err != nil {
		return value.NativeValue{}, newConversionError("DecodeTextField: invalid int%d %q: %v", bits, s, err)
	}
	switch bits {
	case 8:
		return value.NativeInt8(int8(i)), nil
	case 16:
		return value.NativeInt16(int16(i)), nil
	case 32:
		return value.NativeInt32(int32(i)), nil
	default:
		return value.NativeInt64(i), nil
	}
}
