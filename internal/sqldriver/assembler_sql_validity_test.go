package sqldriver

import (
	"testing"

	"github.com/pingcap/tidb/pkg/parser"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
	"github.com/stretchr/testify/require"

	"sqldriver/internal/value"
)

// requireParses checks sql is syntactically valid MySQL by feeding it
// through the same TiDB parser the teacher uses for schema dumps
// (internal/parser/mysql/parser.go), applied here to DML instead of DDL.
func requireParses(t *testing.T, sql string) {
	t.Helper()
	p := parser.New()
	_, _, err := p.Parse(sql, "", "")
	require.NoError(t, err, "generated SQL failed to parse: %s", sql)
}

func TestGeneratedSelectIsValidSQL(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	cols := []value.FieldMeta{idField("id", true, true), idField("name", false, false)}
	requireParses(t, a.GenerateSelect("users", cols))
	requireParses(t, a.GenerateSelect("users", nil))
}

func TestGeneratedInsertIsValidSQL(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	rec := value.NewRecord(
		[]value.FieldMeta{idField("id", true, true), idField("name", false, false)},
		[]value.SqlValue{value.SqlNull(value.HintInt64), value.SqlString("alice")},
	)
	stmt, _, err := a.GenerateInsert("users", rec, false)
	require.NoError(t, err)
	requireParses(t, stmt)

	stmt, _, err = a.GenerateInsert("users", rec, true)
	require.NoError(t, err)
	requireParses(t, stmt)
}

func TestGeneratedUpdateIsValidSQLWithAppendedWhere(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	rec := value.NewRecord(
		[]value.FieldMeta{idField("id", true, true), idField("name", false, false)},
		[]value.SqlValue{value.SqlInt64(1), value.SqlString("carol")},
	)
	stmt, _, err := a.GenerateUpdate("users", rec, false)
	require.NoError(t, err)
	requireParses(t, stmt+" WHERE `id` = 1")
}

func TestGeneratedDeleteIsValidSQLWithAppendedWhere(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	requireParses(t, a.GenerateDelete("users")+" WHERE `id` = 1")
}
