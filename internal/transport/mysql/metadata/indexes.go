package metadata

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"sqldriver/internal/value"
)

// IndexLister lists a table's indexes via SHOW INDEX.
type IndexLister struct {
	conn    querier
	lastErr error
}

// NewIndexLister wraps conn for index listing.
func NewIndexLister(conn querier) *IndexLister { return &IndexLister{conn: conn} }

// LastError returns the error from the most recent List call, if any.
func (l *IndexLister) LastError() error { return l.lastErr }

// List runs SHOW INDEX FROM `db`.`table` and groups rows by Key_name into
// one value.IndexInfo per group, columns sorted by Seq_in_index, per
// SPEC_FULL.md §4.2.4. An index named PRIMARY is the table's primary key
// (value.IndexInfo.IsPrimary already encodes that by name).
func (l *IndexLister) List(ctx context.Context, database, table string) ([]value.IndexInfo, error) {
	query := fmt.Sprintf("SHOW INDEX FROM %s.%s", l.conn.EscapeIdentifier(database), l.conn.EscapeIdentifier(table))
	res, err := l.conn.SimpleQuery(ctx, query)
	if err != nil {
		l.lastErr = fmt.Errorf("listing indexes: %w", err)
		return nil, l.lastErr
	}

	// SHOW INDEX columns: Table, Non_unique, Key_name, Seq_in_index,
	// Column_name, Collation, Cardinality, Sub_part, Packed, Null,
	// Index_type, Comment, Index_comment, (Visible), (Expression)
	type groupKey = string
	groups := map[groupKey]*value.IndexInfo{}
	var order []groupKey

	for i := 0; i < res.RowCount(); i++ {
		row, err := res.Row(i)
		if err != nil {
			l.lastErr = fmt.Errorf("listing indexes: %w", err)
			return nil, l.lastErr
		}
		if len(row) < 13 {
			l.lastErr = fmt.Errorf("listing indexes: unexpected column count %d in SHOW INDEX row", len(row))
			return nil, l.lastErr
		}

		keyName := row[2].String()
		idx, ok := groups[keyName]
		if !ok {
			idx = &value.IndexInfo{
				Table:   table,
				Name:    keyName,
				Unique:  row[1].String() == "0",
				Method:  normalizeIndexMethod(row[10].String()),
				Visible: true,
				Comment: row[11].String(),
			}
			if len(row) > 12 {
				idx.IndexComment = row[12].String()
			}
			groups[keyName] = idx
			order = append(order, keyName)
		}

		seq, _ := strconv.Atoi(row[3].String())
		col := value.IndexColumn{
			Name:      row[4].String(),
			Sequence:  seq,
			Collation: row[5].String(),
			Nullable:  row[9].String() == "YES",
		}
		if !row[6].Null {
			if n, err := strconv.ParseInt(row[6].String(), 10, 64); err == nil {
				col.Cardinality = &n
			}
		}
		if !row[7].Null {
			if n, err := strconv.ParseInt(row[7].String(), 10, 64); err == nil {
				col.SubPart = &n
			}
		}
		idx.Columns = append(idx.Columns, col)
	}

	out := make([]value.IndexInfo, 0, len(order))
	for _, name := range order {
		idx := groups[name]
		sort.Slice(idx.Columns, func(i, j int) bool { return idx.Columns[i].Sequence < idx.Columns[j].Sequence })
		out = append(out, *idx)
	}
	l.lastErr = nil
	return out, nil
}

func normalizeIndexMethod(s string) value.IndexMethod {
	switch strings.ToUpper(s) {
	case "BTREE":
		return value.IndexBTree
	case "HASH":
		return value.IndexHash
	case "FULLTEXT":
		return value.IndexFullText
	case "SPATIAL":
		return value.IndexSpatial
	default:
		return value.IndexBTree
	}
}
