package sqldriver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sqldriver/internal/value"
)

func TestSQLToNativeRoundTripsIntegers(t *testing.T) {
	nv, err := SQLToNative(value.SqlInt64(-42))
	require.NoError(t, err)
	require.Equal(t, int64(-42), nv.Int64())

	nv, err = SQLToNative(value.SqlUint64(42))
	require.NoError(t, err)
	require.Equal(t, uint64(42), nv.Uint64())
}

func TestSQLToNativeNullPreservesHint(t *testing.T) {
	nv, err := SQLToNative(value.SqlNull(value.HintInt32))
	require.NoError(t, err)
	require.True(t, nv.Null)
}

func TestSQLToNativeDate(t *testing.T) {
	nv, err := SQLToNative(value.SqlDate(value.ChronoDate{Year: 2024, Month: 3, Day: 15}))
	require.NoError(t, err)
	require.Equal(t, value.KindTime, nv.Kind)
	require.Equal(t, value.TimeDate, nv.Time().Kind)
}

func TestNativeToSQLString(t *testing.T) {
	sv := NativeToSQL(value.NativeString("hello"))
	require.False(t, sv.Null)
	require.Equal(t, "hello", sv.StringValue())
}

func TestNativeToSQLNullPreservesHint(t *testing.T) {
	nv := value.NativeNull(uint16(3) /* TypeLong */, 0, 0)
	sv := NativeToSQL(nv)
	require.True(t, sv.Null)
	require.Equal(t, value.HintInt32, sv.Hint)
}

func TestNativeToSQLTimeRoundTrip(t *testing.T) {
	mt := value.MysqlTime{Kind: value.TimeDate, Year: 2024, Month: 3, Day: 15}
	sv := NativeToSQL(value.NativeTime(mt))
	require.Equal(t, value.HintDate, sv.Hint)
	require.Equal(t, 2024, sv.DateValue().Year)
}
