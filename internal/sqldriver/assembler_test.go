package sqldriver

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"sqldriver/internal/value"
)

type fakeFormatter struct{}

func (fakeFormatter) FormatLiteral(nv value.NativeValue) (string, error) {
	if nv.Null {
		return "NULL", nil
	}
	switch nv.Kind {
	case value.KindString:
		return "'" + nv.String() + "'", nil
	case value.KindInt8, value.KindInt16, value.KindInt32, value.KindInt64:
		return strconv.FormatInt(nv.Int64(), 10), nil
	default:
		return "?", nil
	}
}

func (fakeFormatter) EscapeIdentifier(s string) string { return "`" + s + "`" }

func idField(name string, pk, autoInc bool) value.FieldMeta {
	var flags value.ColumnFlag
	if pk {
		flags |= value.FlagPriKey
	}
	if autoInc {
		flags |= value.FlagAutoIncrement
	}
	return value.FieldMeta{Name: name, OrigName: name, Flags: flags}
}

func TestGenerateSelectAllColumns(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	require.Equal(t, "SELECT * FROM `users`", a.GenerateSelect("users", nil))
}

func TestGenerateSelectProjectsColumns(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	cols := []value.FieldMeta{idField("id", true, true), idField("name", false, false)}
	require.Equal(t, "SELECT `id`, `name` FROM `users`", a.GenerateSelect("users", cols))
}

func TestGenerateInsertSkipsNullAutoIncrementPK(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	rec := value.NewRecord(
		[]value.FieldMeta{idField("id", true, true), idField("name", false, false)},
		[]value.SqlValue{value.SqlNull(value.HintInt64), value.SqlString("alice")},
	)
	stmt, binds, err := a.GenerateInsert("users", rec, false)
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO `users` (`name`) VALUES ('alice')", stmt)
	require.Nil(t, binds)
}

func TestGenerateInsertAllSkippedEmitsInertStatement(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	rec := value.NewRecord(
		[]value.FieldMeta{idField("id", true, true)},
		[]value.SqlValue{value.SqlNull(value.HintInt64)},
	)
	stmt, binds, err := a.GenerateInsert("users", rec, false)
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO `users` () VALUES ()", stmt)
	require.Nil(t, binds)
}

func TestGenerateInsertPreparedModeUsesPlaceholders(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	rec := value.NewRecord(
		[]value.FieldMeta{idField("name", false, false)},
		[]value.SqlValue{value.SqlString("bob")},
	)
	stmt, binds, err := a.GenerateInsert("users", rec, true)
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO `users` (`name`) VALUES (?)", stmt)
	require.Len(t, binds, 1)
	require.Equal(t, "bob", binds[0].String())
}

func TestGenerateUpdateSkipsPrimaryKey(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	rec := value.NewRecord(
		[]value.FieldMeta{idField("id", true, true), idField("name", false, false)},
		[]value.SqlValue{value.SqlInt64(1), value.SqlString("carol")},
	)
	stmt, _, err := a.GenerateUpdate("users", rec, false)
	require.NoError(t, err)
	require.Equal(t, "UPDATE `users` SET `name` = 'carol'", stmt)
}

func TestGenerateUpdateSkipsNonAutoIncrementPrimaryKey(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	rec := value.NewRecord(
		[]value.FieldMeta{idField("id", true, false), idField("name", false, false)},
		[]value.SqlValue{value.SqlInt64(1), value.SqlString("carol")},
	)
	stmt, _, err := a.GenerateUpdate("users", rec, false)
	require.NoError(t, err)
	require.Equal(t, "UPDATE `users` SET `name` = 'carol'", stmt)
}

func TestGenerateUpdateAllSkippedReturnsEmpty(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	rec := value.NewRecord(
		[]value.FieldMeta{idField("id", true, true)},
		[]value.SqlValue{value.SqlInt64(1)},
	)
	stmt, binds, err := a.GenerateUpdate("users", rec, false)
	require.NoError(t, err)
	require.Empty(t, stmt)
	require.Nil(t, binds)
}

func TestGenerateDelete(t *testing.T) {
	a := NewAssembler(fakeFormatter{})
	require.Equal(t, "DELETE FROM `users`", a.GenerateDelete("users"))
}
