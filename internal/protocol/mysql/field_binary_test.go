package mysql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sqldriver/internal/value"
)

func TestDecodeBinaryFieldLongLongSigned(t *testing.T) {
	bind, err := BuildParamBind(value.NativeInt64(-42))
	require.NoError(t, err)
	nv, n, err := DecodeBinaryField(bind.Buffer, false, FieldMeta{Type: TypeLongLong})
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.Equal(t, int64(-42), nv.Int64())
}

func TestDecodeBinaryFieldNull(t *testing.T) {
	nv, n, err := DecodeBinaryField(nil, true, FieldMeta{Type: TypeVarString})
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.True(t, nv.Null)
}

func TestDecodeBinaryFieldStringLenEnc(t *testing.T) {
	buf := writeLenEncString(nil, []byte("hi"))
	nv, n, err := DecodeBinaryField(buf, false, FieldMeta{Type: TypeVarString})
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, "hi", nv.String())
}

func TestDecodeBinaryFieldDateRoundTripsThroughBind(t *testing.T) {
	mt := value.MysqlTime{Kind: value.TimeDate, Year: 2024, Month: 3, Day: 2}
	bind, err := BuildParamBind(value.NativeTime(mt))
	require.NoError(t, err)
	nv, _, err := DecodeBinaryField(bind.Buffer, false, FieldMeta{Type: TypeDate})
	require.NoError(t, err)
	require.Equal(t, mt, nv.Time())
}
