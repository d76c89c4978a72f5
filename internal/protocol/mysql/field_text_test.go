package mysql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sqldriver/internal/value"
)

func TestDecodeTextFieldNull(t *testing.T) {
	nv, err := DecodeTextField(nil, true, FieldMeta{Type: TypeLong})
	require.NoError(t, err)
	require.True(t, nv.Null)
	require.Equal(t, uint16(TypeLong), nv.NumType)
}

func TestDecodeTextFieldTinyAsBool(t *testing.T) {
	nv, err := DecodeTextField([]byte("1"), false, FieldMeta{Type: TypeTiny, Length: 1})
	require.NoError(t, err)
	require.Equal(t, value.KindBool, nv.Kind)
	require.True(t, nv.Bool())
}

func TestDecodeTextFieldUnsignedLongLong(t *testing.T) {
	nv, err := DecodeTextField([]byte("18446744073709551615"), false, FieldMeta{Type: TypeLongLong, Flags: FlagUnsigned})
	require.NoError(t, err)
	require.Equal(t, value.KindUint64, nv.Kind)
	require.Equal(t, uint64(18446744073709551615), nv.Uint64())
}

func TestDecodeTextFieldDouble(t *testing.T) {
	nv, err := DecodeTextField([]byte("3.14159"), false, FieldMeta{Type: TypeDouble})
	require.NoError(t, err)
	require.InDelta(t, 3.14159, nv.Float64(), 0.00001)
}

func TestDecodeTextFieldBinaryString(t *testing.T) {
	nv, err := DecodeTextField([]byte{0x01, 0x02}, false, FieldMeta{Type: TypeVarString, Flags: FlagBinary, Charset: binaryCharsetNumber})
	require.NoError(t, err)
	require.Equal(t, value.KindBytes, nv.Kind)
	require.Equal(t, []byte{0x01, 0x02}, nv.Bytes())
}

func TestDecodeTextFieldDate(t *testing.T) {
	nv, err := DecodeTextField([]byte("2024-01-15"), false, FieldMeta{Type: TypeDate})
	require.NoError(t, err)
	require.Equal(t, value.KindTime, nv.Kind)
	require.Equal(t, value.TimeDate, nv.Time().Kind)
}

func TestDecodeTextFieldRejectsInvalidInt(t *testing.T) {
	_, err := DecodeTextField([]byte("not-a-number"), false, FieldMeta{Type: TypeLong})
	require.Error(t, err)
}
