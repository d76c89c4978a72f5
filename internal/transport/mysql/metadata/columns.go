package metadata

import (
	"context"
	"fmt"
	"strings"

	mysql "sqldriver/internal/transport/mysql"
	"sqldriver/internal/value"
)

// ColumnLister lists a table's columns via SHOW FULL COLUMNS.
type ColumnLister struct {
	conn    querier
	lastErr error
}

// NewColumnLister wraps conn for column listing.
func NewColumnLister(conn querier) *ColumnLister { return &ColumnLister{conn: conn} }

// LastError returns the error from the most recent List call, if any.
func (l *ColumnLister) LastError() error { return l.lastErr }

// List runs SHOW FULL COLUMNS FROM `db`.`table` and parses each row into a
// value.FieldMeta, per SPEC_FULL.md §4.2.4. The Type cell is parsed by
// mysql.ParseTypeString (§4.2.5); Null/Key/Extra contribute to the flags
// bitmask; Default becomes the FieldMeta's Default NativeValue directly
// (SHOW COLUMNS already reports it as a plain string/NULL cell, so no
// further text-protocol decode is needed beyond what the row already went
// through on the wire).
func (l *ColumnLister) List(ctx context.Context, database, table string) ([]value.FieldMeta, error) {
	query := fmt.Sprintf("SHOW FULL COLUMNS FROM %s.%s", l.conn.EscapeIdentifier(database), l.conn.EscapeIdentifier(table))
	res, err := l.conn.SimpleQuery(ctx, query)
	if err != nil {
		l.lastErr = fmt.Errorf("listing columns: %w", err)
		return nil, l.lastErr
	}

	out := make([]value.FieldMeta, 0, res.RowCount())
	for i := 0; i < res.RowCount(); i++ {
		row, err := res.Row(i)
		if err != nil {
			l.lastErr = fmt.Errorf("listing columns: %w", err)
			return nil, l.lastErr
		}
		// Field, Type, Collation, Null, Key, Default, Extra, Privileges, Comment
		if len(row) < 9 {
			l.lastErr = fmt.Errorf("listing columns: unexpected column count %d in SHOW FULL COLUMNS row", len(row))
			return nil, l.lastErr
		}

		fm := value.FieldMeta{
			Name:      row[0].String(),
			OrigName:  row[0].String(),
			Table:     table,
			OrigTable: table,
			Database:  database,
		}

		parsed := mysql.ParseTypeString(row[1].String())
		parsed.ApplyToFieldMeta(&fm)

		if row[3].String() == "NO" {
			fm.Flags |= value.FlagNotNull
		}
		switch row[4].String() {
		case "PRI":
			fm.Flags |= value.FlagPriKey
		case "UNI":
			fm.Flags |= value.FlagUniqueKey
		case "MUL":
			fm.Flags |= value.FlagMultipleKey
		}
		if strings.Contains(row[6].String(), "auto_increment") {
			fm.Flags |= value.FlagAutoIncrement
		}

		if row[5].Null {
			fm.Default = value.NativeNull(fm.NativeType, fm.Flags, fm.Charset)
		} else {
			fm.Default = value.NativeString(row[5].String())
			fm.HasDefault = true
		}

		out = append(out, fm)
	}
	l.lastErr = nil
	return out, nil
}
