package mysql

import (
	"regexp"
	"strconv"
	"strings"

	proto "sqldriver/internal/protocol/mysql"
	"sqldriver/internal/value"
)

// parenRe captures a parenthesised payload so it can be inspected before
// being stripped from the base type name. Adapted from the teacher's
// internal/core/raw_types.go parenRe, which only strips and discards this
// payload; here the captured content becomes length/precision/scale/enum
// literals on the decoded FieldMeta.
var parenRe = regexp.MustCompile(`\(([^)]*)\)`)

var wsRe = regexp.MustCompile(`\s+`)

// ParsedType is the result of parsing a SHOW [FULL] COLUMNS-style type
// string such as "int(11)", "decimal(10,2) unsigned zerofill", or
// "enum('a','b','c')".
type ParsedType struct {
	NativeType proto.Type
	Flags      proto.ColumnFlag
	Length     uint32
	Decimals   uint8
	EnumValues []string
}

// ParseTypeString parses a MySQL column type string as reported by SHOW
// FULL COLUMNS, following SPEC_FULL.md §4.2.5. The UNSIGNED/ZEROFILL
// attributes are matched case-insensitively and stripped before base-type
// tokenisation, mirroring the teacher's stripModifiers; unlike the
// teacher's version (which discards the parenthesised payload entirely),
// this parser also captures length/precision/scale/enum literals.
func ParseTypeString(raw string) ParsedType {
	var pt ParsedType

	payload := ""
	if m := parenRe.FindStringSubmatch(raw); m != nil {
		payload = m[1]
	}
	base := parenRe.ReplaceAllString(raw, "")

	upper := strings.ToUpper(base)
	if hasWord(upper, "UNSIGNED") {
		pt.Flags |= proto.FlagUnsigned
		upper = stripWord(upper, "UNSIGNED")
	}
	if hasWord(upper, "ZEROFILL") {
		pt.Flags |= proto.FlagZeroFill
		upper = stripWord(upper, "ZEROFILL")
	}
	if hasWord(upper, "BINARY") {
		pt.Flags |= proto.FlagBinary
		upper = stripWord(upper, "BINARY")
	}

	base = strings.TrimSpace(wsRe.ReplaceAllString(upper, " "))

	switch base {
	case "TINYINT", "BOOL", "BOOLEAN":
		pt.NativeType = proto.TypeTiny
	case "SMALLINT":
		pt.NativeType = proto.TypeShort
	case "MEDIUMINT":
		pt.NativeType = proto.TypeInt24
	case "INT", "INTEGER":
		pt.NativeType = proto.TypeLong
	case "BIGINT":
		pt.NativeType = proto.TypeLongLong
	case "FLOAT":
		pt.NativeType = proto.TypeFloat
	case "DOUBLE", "DOUBLE PRECISION", "REAL":
		pt.NativeType = proto.TypeDouble
	case "DECIMAL", "DEC", "NUMERIC", "FIXED":
		pt.NativeType = proto.TypeNewDecimal
	case "BIT":
		pt.NativeType = proto.TypeBit
	case "DATE":
		pt.NativeType = proto.TypeDate
	case "DATETIME":
		pt.NativeType = proto.TypeDateTime
	case "TIMESTAMP":
		pt.NativeType = proto.TypeTimestamp
	case "TIME":
		pt.NativeType = proto.TypeTime
	case "YEAR":
		pt.NativeType = proto.TypeYear
	case "CHAR", "VARCHAR", "BINARY", "VARBINARY":
		pt.NativeType = proto.TypeVarString
	case "ENUM":
		pt.NativeType = proto.TypeEnum
		pt.Flags |= proto.FlagEnum
		pt.EnumValues = splitEnumLiterals(payload)
		return pt
	case "SET":
		pt.NativeType = proto.TypeSet
		pt.Flags |= proto.FlagSet
		pt.EnumValues = splitEnumLiterals(payload)
		return pt
	case "JSON":
		pt.NativeType = proto.TypeJSON
	case "GEOMETRY", "POINT", "LINESTRING", "POLYGON",
		"MULTIPOINT", "MULTILINESTRING", "MULTIPOLYGON", "GEOMETRYCOLLECTION":
		pt.NativeType = proto.TypeGeometry
	case "TINYTEXT", "TINYBLOB":
		pt.Flags |= proto.FlagBlob
		pt.NativeType = proto.TypeTinyBlob
	case "TEXT", "BLOB":
		pt.Flags |= proto.FlagBlob
		pt.NativeType = sizedBlobType(payload)
	case "MEDIUMTEXT", "MEDIUMBLOB":
		pt.Flags |= proto.FlagBlob
		pt.NativeType = proto.TypeMediumBlob
	case "LONGTEXT", "LONGBLOB":
		pt.Flags |= proto.FlagBlob
		pt.NativeType = proto.TypeLongBlob
	default:
		pt.NativeType = proto.TypeString
	}

	length, decimals := parseLengthPrecisionScale(payload)
	pt.Length = length
	pt.Decimals = decimals
	return pt
}

// sizedBlobType picks BLOB's size class from a declared length the way
// MySQL itself widens TEXT/BLOB declarations internally; SHOW COLUMNS never
// reports a bare "TEXT"/"BLOB" length large enough to need the wider
// classes in practice, but the classification is kept faithful to
// SPEC_FULL.md §4.2.5 ("native type is chosen by size class").
func sizedBlobType(payload string) proto.Type {
	if payload == "" {
		return proto.TypeBlob
	}
	n, err := strconv.ParseUint(payload, 10, 64)
	if err != nil {
		return proto.TypeBlob
	}
	switch {
	case n <= 255:
		return proto.TypeTinyBlob
	case n <= 1<<16-1:
		return proto.TypeBlob
	case n <= 1<<24-1:
		return proto.TypeMediumBlob
	default:
		return proto.TypeLongBlob
	}
}

func parseLengthPrecisionScale(payload string) (length uint32, decimals uint8) {
	if payload == "" {
		return 0, 0
	}
	parts := strings.Split(payload, ",")
	if len(parts) >= 1 {
		if n, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 32); err == nil {
			length = uint32(n)
		}
	}
	if len(parts) >= 2 {
		if n, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 8); err == nil {
			decimals = uint8(n)
		}
	}
	return length, decimals
}

// splitEnumLiterals splits ENUM/SET's quoted-literal payload, e.g.
// "'a','b','c'" -> []string{"a", "b", "c"}. Literals containing an escaped
// quote ('') are unescaped.
func splitEnumLiterals(payload string) []string {
	if payload == "" {
		return nil
	}
	var out []string
	var cur strings.Builder
	inQuote := false
	runes := []rune(payload)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case !inQuote && r == '\'':
			inQuote = true
		case inQuote && r == '\'':
			if i+1 < len(runes) && runes[i+1] == '\'' {
				cur.WriteRune('\'')
				i++
				continue
			}
			inQuote = false
			out = append(out, cur.String())
			cur.Reset()
		case inQuote:
			cur.WriteRune(r)
		}
	}
	return out
}

func hasWord(s, word string) bool {
	re := regexp.MustCompile(`(?i)\b` + word + `\b`)
	return re.MatchString(s)
}

func stripWord(s, word string) string {
	re := regexp.MustCompile(`(?i)\b` + word + `\b`)
	return re.ReplaceAllString(s, "")
}

// ApplyToFieldMeta fills in fm's NativeType/Flags/Length/Decimals from pt,
// preserving fields the caller already populated (name, table, charset).
// proto.ColumnFlag and value.ColumnFlag share the same wire bit positions
// (both mirror the MySQL column-flags field directly), so the conversion
// is a plain cast.
func (pt ParsedType) ApplyToFieldMeta(fm *value.FieldMeta) {
	fm.NativeType = uint16(pt.NativeType)
	fm.Flags |= value.ColumnFlag(pt.Flags)
	fm.Length = pt.Length
	fm.Decimals = pt.Decimals
}
