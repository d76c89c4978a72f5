package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordByNameResolvesFirstOccurrence(t *testing.T) {
	fields := []FieldMeta{{Name: "id"}, {Name: "name"}, {Name: "id"}}
	values := []SqlValue{SqlInt64(1), SqlString("a"), SqlInt64(99)}
	r := NewRecord(fields, values)

	v, ok := r.ByName("id")
	require.True(t, ok)
	require.Equal(t, int64(1), v.Int64Value())
	require.Equal(t, 0, r.Ordinal("id"))
}

func TestRecordOrdinalMissing(t *testing.T) {
	r := NewRecord(nil, nil)
	require.Equal(t, -1, r.Ordinal("missing"))
	_, ok := r.ByName("missing")
	require.False(t, ok)
}

func TestNewRecordPanicsOnLengthMismatch(t *testing.T) {
	require.Panics(t, func() {
		NewRecord([]FieldMeta{{Name: "a"}}, nil)
	})
}
