package metadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	mysql "sqldriver/internal/transport/mysql"
	"sqldriver/internal/value"
)

type fakeConn struct {
	queries []string
	result  *mysql.Result
	err     error
}

func (f *fakeConn) SimpleQuery(ctx context.Context, query string) (*mysql.Result, error) {
	f.queries = append(f.queries, query)
	return f.result, f.err
}

func (f *fakeConn) EscapeIdentifier(s string) string { return "`" + s + "`" }

func nativeRow(cells ...string) []value.NativeValue {
	row := make([]value.NativeValue, len(cells))
	for i, c := range cells {
		row[i] = value.NativeString(c)
	}
	return row
}

func TestDatabaseListerList(t *testing.T) {
	fc := &fakeConn{result: mysql.NewResult(nil, [][]value.NativeValue{
		nativeRow("information_schema"),
		nativeRow("app_db"),
	})}
	l := NewDatabaseLister(fc)
	names, err := l.List(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, []string{"information_schema", "app_db"}, names)
	require.Equal(t, []string{"SHOW DATABASES"}, fc.queries)
}

func TestDatabaseListerWithPattern(t *testing.T) {
	fc := &fakeConn{result: mysql.NewResult(nil, nil)}
	l := NewDatabaseLister(fc)
	_, err := l.List(context.Background(), "app_%")
	require.NoError(t, err)
	require.Equal(t, "SHOW DATABASES LIKE 'app_%'", fc.queries[0])
}

func TestTableListerFiltersByKind(t *testing.T) {
	fc := &fakeConn{result: mysql.NewResult(nil, [][]value.NativeValue{
		nativeRow("users", "BASE TABLE"),
		nativeRow("users_view", "VIEW"),
	})}
	l := NewTableLister(fc)
	tables, err := l.List(context.Background(), "app", "", TableKindBase)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Equal(t, "users", tables[0].Name)
}

func TestTableListerClientSidePatternMatch(t *testing.T) {
	fc := &fakeConn{result: mysql.NewResult(nil, [][]value.NativeValue{
		nativeRow("users", "BASE TABLE"),
		nativeRow("orders", "BASE TABLE"),
	})}
	l := NewTableLister(fc)
	tables, err := l.List(context.Background(), "app", "user*", TableKindBase)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Equal(t, "users", tables[0].Name)
}

func TestColumnListerParsesFlags(t *testing.T) {
	row := nativeRow("id", "int(11)", "", "NO", "PRI", "", "auto_increment", "select", "")
	row[5].Null = true // Default is NULL
	fc := &fakeConn{result: mysql.NewResult(nil, [][]value.NativeValue{row})}
	l := NewColumnLister(fc)
	cols, err := l.List(context.Background(), "app", "users")
	require.NoError(t, err)
	require.Len(t, cols, 1)
	require.Equal(t, "id", cols[0].Name)
	require.True(t, cols[0].Flags.Has(value.FlagNotNull))
	require.True(t, cols[0].Flags.Has(value.FlagPriKey))
	require.True(t, cols[0].Flags.Has(value.FlagAutoIncrement))
	require.True(t, cols[0].Default.Null)
}

func TestIndexListerGroupsByKeyName(t *testing.T) {
	rows := [][]value.NativeValue{
		nativeRow("users", "0", "PRIMARY", "1", "id", "A", "100", "", "", "", "BTREE", "", ""),
		nativeRow("users", "1", "idx_name", "1", "last_name", "A", "", "", "", "YES", "BTREE", "", ""),
		nativeRow("users", "1", "idx_name", "2", "first_name", "A", "", "", "", "YES", "BTREE", "", ""),
	}
	fc := &fakeConn{result: mysql.NewResult(nil, rows)}
	l := NewIndexLister(fc)
	idxs, err := l.List(context.Background(), "app", "users")
	require.NoError(t, err)
	require.Len(t, idxs, 2)

	require.Equal(t, "PRIMARY", idxs[0].Name)
	require.True(t, idxs[0].IsPrimary())
	require.True(t, idxs[0].Unique)

	require.Equal(t, "idx_name", idxs[1].Name)
	require.False(t, idxs[1].Unique)
	require.Len(t, idxs[1].Columns, 2)
	require.Equal(t, "last_name", idxs[1].Columns[0].Name)
	require.Equal(t, "first_name", idxs[1].Columns[1].Name)
}

func TestFacadeDelegatesToAllFourListers(t *testing.T) {
	fc := &fakeConn{result: mysql.NewResult(nil, nil)}
	f := NewFacade(fc)
	_, err := f.Databases(context.Background(), "")
	require.NoError(t, err)
	_, err = f.Tables(context.Background(), "db", "", TableKindAny)
	require.NoError(t, err)
	_, err = f.Columns(context.Background(), "db", "t")
	require.NoError(t, err)
	_, err = f.Indexes(context.Background(), "db", "t")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
