package mysql

import (
	"fmt"

	proto "sqldriver/internal/protocol/mysql"
	"sqldriver/internal/value"
)

// parseColumnDefinition decodes a Protocol::ColumnDefinition41 packet into
// both the full value.FieldMeta (for result-set consumers) and the
// decoder-facing proto.FieldMeta subset (type/flags/length/charset).
func parseColumnDefinition(pkt []byte) (value.FieldMeta, proto.FieldMeta, error) {
	rest := pkt
	catalog, _, n, err := proto.ReadLenEncString(rest)
	if err != nil {
		return value.FieldMeta{}, proto.FieldMeta{}, fmt.Errorf("column definition: catalog: %w", err)
	}
	rest = rest[n:]
	_ = catalog

	schema, _, n, err := proto.ReadLenEncString(rest)
	if err != nil {
		return value.FieldMeta{}, proto.FieldMeta{}, fmt.Errorf("column definition: schema: %w", err)
	}
	rest = rest[n:]

	table, _, n, err := proto.ReadLenEncString(rest)
	if err != nil {
		return value.FieldMeta{}, proto.FieldMeta{}, fmt.Errorf("column definition: table: %w", err)
	}
	rest = rest[n:]

	origTable, _, n, err := proto.ReadLenEncString(rest)
	if err != nil {
		return value.FieldMeta{}, proto.FieldMeta{}, fmt.Errorf("column definition: orig_table: %w", err)
	}
	rest = rest[n:]

	name, _, n, err := proto.ReadLenEncString(rest)
	if err != nil {
		return value.FieldMeta{}, proto.FieldMeta{}, fmt.Errorf("column definition: name: %w", err)
	}
	rest = rest[n:]

	origName, _, n, err := proto.ReadLenEncString(rest)
	if err != nil {
		return value.FieldMeta{}, proto.FieldMeta{}, fmt.Errorf("column definition: orig_name: %w", err)
	}
	rest = rest[n:]

	// length-of-fixed-fields len-enc integer, always 0x0c
	_, _, n, err = proto.ReadLenEncInt(rest)
	if err != nil {
		return value.FieldMeta{}, proto.FieldMeta{}, fmt.Errorf("column definition: fixed-fields length: %w", err)
	}
	rest = rest[n:]

	if len(rest) < 13 {
		return value.FieldMeta{}, proto.FieldMeta{}, fmt.Errorf("column definition: truncated fixed fields")
	}
	charset := uint16(rest[0]) | uint16(rest[1])<<8
	length := uint32(rest[2]) | uint32(rest[3])<<8 | uint32(rest[4])<<16 | uint32(rest[5])<<24
	colType := proto.Type(rest[6])
	flags := proto.ColumnFlag(uint16(rest[7]) | uint16(rest[8])<<8)
	decimals := rest[9]
	// rest[10:12] is a 2-byte filler

	fm := value.FieldMeta{
		Name:       string(name),
		OrigName:   string(origName),
		Table:      string(table),
		OrigTable:  string(origTable),
		Database:   string(schema),
		NativeType: uint16(colType),
		Charset:    charset,
		Length:     length,
		Flags:      value.ColumnFlag(flags),
		Decimals:   decimals,
	}
	rm := proto.FieldMeta{Type: colType, Flags: flags, Length: length, Charset: charset}
	return fm, rm, nil
}
