package mysql

import (
	"testing"

	"github.com/stretchr/testify/require"

	proto "sqldriver/internal/protocol/mysql"
)

func TestParseTypeStringBasics(t *testing.T) {
	pt := ParseTypeString("int(11)")
	require.Equal(t, proto.TypeLong, pt.NativeType)
	require.EqualValues(t, 11, pt.Length)

	pt = ParseTypeString("varchar(255)")
	require.Equal(t, proto.TypeVarString, pt.NativeType)
	require.EqualValues(t, 255, pt.Length)

	pt = ParseTypeString("bigint unsigned")
	require.Equal(t, proto.TypeLongLong, pt.NativeType)
	require.True(t, pt.Flags&proto.FlagUnsigned != 0)
}

func TestParseTypeStringDecimalWithPrecisionAndScale(t *testing.T) {
	pt := ParseTypeString("decimal(10,2) unsigned zerofill")
	require.Equal(t, proto.TypeNewDecimal, pt.NativeType)
	require.EqualValues(t, 10, pt.Length)
	require.EqualValues(t, 2, pt.Decimals)
	require.True(t, pt.Flags&proto.FlagUnsigned != 0)
	require.True(t, pt.Flags&proto.FlagZeroFill != 0)
}

func TestParseTypeStringEnum(t *testing.T) {
	pt := ParseTypeString("enum('a','b','c')")
	require.Equal(t, proto.TypeEnum, pt.NativeType)
	require.Equal(t, []string{"a", "b", "c"}, pt.EnumValues)
	require.True(t, pt.Flags&proto.FlagEnum != 0)
}

func TestParseTypeStringEnumWithEscapedQuote(t *testing.T) {
	pt := ParseTypeString(`enum('a''b','c')`)
	require.Equal(t, []string{"a'b", "c"}, pt.EnumValues)
}

func TestParseTypeStringGeometry(t *testing.T) {
	pt := ParseTypeString("geometry")
	require.Equal(t, proto.TypeGeometry, pt.NativeType)
}

func TestParseTypeStringBitLength(t *testing.T) {
	pt := ParseTypeString("bit(8)")
	require.Equal(t, proto.TypeBit, pt.NativeType)
	require.EqualValues(t, 8, pt.Length)
}

func TestParseTypeStringUnknownDefaultsToString(t *testing.T) {
	pt := ParseTypeString("some_made_up_type")
	require.Equal(t, proto.TypeString, pt.NativeType)
}
