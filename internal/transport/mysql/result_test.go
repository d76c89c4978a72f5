package mysql

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"sqldriver/internal/value"
)

func newTestResult() *Result {
	return &Result{
		fields: []value.FieldMeta{{Name: "a"}, {Name: "b"}},
		rows: [][]value.NativeValue{
			{value.NativeInt32(1), value.NativeString("x")},
			{value.NativeInt32(2), value.NativeString("y")},
		},
	}
}

func TestResultFetchCursorAdvances(t *testing.T) {
	r := newTestResult()
	require.Equal(t, 2, r.RowCount())

	row, err := r.Fetch()
	require.NoError(t, err)
	require.Equal(t, int64(1), row[0].Int64())

	v, err := r.Value(1)
	require.NoError(t, err)
	require.Equal(t, "x", v.String())

	row, err = r.Fetch()
	require.NoError(t, err)
	require.Equal(t, int64(2), row[0].Int64())

	_, err = r.Fetch()
	require.ErrorIs(t, err, io.EOF)
}

func TestResultValueBeforeFetchErrors(t *testing.T) {
	r := newTestResult()
	_, err := r.Value(0)
	require.Error(t, err)
}

func TestResultRowRandomAccessDoesNotMoveCursor(t *testing.T) {
	r := newTestResult()
	row, err := r.Row(1)
	require.NoError(t, err)
	require.Equal(t, int64(2), row[0].Int64())

	_, err = r.Fetch()
	require.NoError(t, err)

	_, err = r.Row(5)
	require.Error(t, err)
}

func TestResultCloseIsIdempotent(t *testing.T) {
	r := newTestResult()
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	require.Equal(t, 0, r.RowCount())
}
