package sqldriver

import (
	"strings"

	"sqldriver/internal/value"
)

// literalFormatter is the minimal transport-layer capability the assembler
// needs in non-prepared mode: connection-aware literal formatting and
// identifier escaping. Mirrors the metadata package's querier interface so
// the assembler can be unit tested without a live server.
type literalFormatter interface {
	FormatLiteral(nv value.NativeValue) (string, error)
	EscapeIdentifier(s string) string
}

// Assembler generates SELECT/INSERT/UPDATE/DELETE skeletons from a
// value.Record describing a table's columns, per SPEC_FULL.md §4.7 — the
// DML analogue of the teacher's Generator.GenerateCreateTable/
// generateAlterTable, which walk a column list with a skip-predicate and
// strings.Join the surviving pieces.
type Assembler struct {
	conv literalFormatter
}

// NewAssembler builds an Assembler. conv is used only in non-prepared mode,
// to render SqlValue-as-NativeValue literals inline.
func NewAssembler(conv literalFormatter) *Assembler {
	return &Assembler{conv: conv}
}

// GenerateSelect builds `SELECT col, col, ... FROM table`. columns lists the
// FieldMeta to project; an empty slice projects `*`.
func (a *Assembler) GenerateSelect(table string, columns []value.FieldMeta) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(columns) == 0 {
		b.WriteString("*")
	} else {
		names := make([]string, len(columns))
		for i, c := range columns {
			names[i] = a.conv.EscapeIdentifier(c.OrigName)
		}
		b.WriteString(strings.Join(names, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(a.conv.EscapeIdentifier(table))
	return b.String()
}

// GenerateInsert builds an INSERT skeleton from rec. Columns that are both
// auto-increment primary key and carrying a null value are skipped — the
// server assigns the id. If every column is skipped, it emits
// `INSERT INTO t () VALUES ()`, a deliberately inert statement rather than a
// caller-visible error (SPEC_FULL.md §4.7). prepared selects `?` placeholders
// over inline literals.
func (a *Assembler) GenerateInsert(table string, rec *value.Record, prepared bool) (string, []value.NativeValue, error) {
	var cols []string
	var placeholders []string
	var binds []value.NativeValue

	for i := 0; i < rec.Len(); i++ {
		fm := rec.Field(i)
		sv := rec.Value(i)
		if fm.IsAutoIncrement() && fm.IsPrimaryKey() && sv.Null {
			continue
		}
		cols = append(cols, a.conv.EscapeIdentifier(fm.OrigName))
		if prepared {
			placeholders = append(placeholders, "?")
			nv, err := SQLToNative(sv)
			if err != nil {
				return "", nil, err
			}
			binds = append(binds, nv)
			continue
		}
		nv, err := SQLToNative(sv)
		if err != nil {
			return "", nil, err
		}
		lit, err := a.conv.FormatLiteral(nv)
		if err != nil {
			return "", nil, err
		}
		placeholders = append(placeholders, lit)
	}

	if len(cols) == 0 {
		return "INSERT INTO " + a.conv.EscapeIdentifier(table) + " () VALUES ()", nil, nil
	}

	stmt := "INSERT INTO " + a.conv.EscapeIdentifier(table) +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
	return stmt, binds, nil
}

// GenerateUpdate builds an UPDATE skeleton's SET-list from rec, skipping
// primary-key and other read-only columns. If nothing remains after
// skipping, it returns an empty string — the caller's signal that this
// record has nothing to update (SPEC_FULL.md §4.7). No WHERE clause is
// generated; callers append their own.
func (a *Assembler) GenerateUpdate(table string, rec *value.Record, prepared bool) (string, []value.NativeValue, error) {
	var sets []string
	var binds []value.NativeValue

	for i := 0; i < rec.Len(); i++ {
		fm := rec.Field(i)
		if fm.ReadOnly() {
			continue
		}
		sv := rec.Value(i)
		nv, err := SQLToNative(sv)
		if err != nil {
			return "", nil, err
		}

		col := a.conv.EscapeIdentifier(fm.OrigName)
		if prepared {
			sets = append(sets, col+" = ?")
			binds = append(binds, nv)
			continue
		}
		lit, err := a.conv.FormatLiteral(nv)
		if err != nil {
			return "", nil, err
		}
		sets = append(sets, col+" = "+lit)
	}

	if len(sets) == 0 {
		return "", nil, nil
	}

	stmt := "UPDATE " + a.conv.EscapeIdentifier(table) + " SET " + strings.Join(sets, ", ")
	return stmt, binds, nil
}

// GenerateDelete builds `DELETE FROM table`. No WHERE clause is generated;
// callers append their own, the same convention as GenerateUpdate.
func (a *Assembler) GenerateDelete(table string) string {
	return "DELETE FROM " + a.conv.EscapeIdentifier(table)
}
