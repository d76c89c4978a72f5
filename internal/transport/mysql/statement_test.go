package mysql

import (
	"testing"

	"github.com/stretchr/testify/require"

	proto "sqldriver/internal/protocol/mysql"
	"sqldriver/internal/value"
)

func TestBuildExecutePayloadNoParams(t *testing.T) {
	s := &Statement{stmtID: 7, paramCount: 0}
	payload, err := s.buildExecutePayload(nil)
	require.NoError(t, err)
	require.Equal(t, byte(proto.ComStmtExecute), payload[0])
	require.Len(t, payload, 1+4+1+4)
}

func TestBuildExecutePayloadArityMismatch(t *testing.T) {
	s := &Statement{stmtID: 1, paramCount: 2}
	_, err := s.buildExecutePayload([]proto.ParamBind{{Type: proto.TypeLong, Buffer: []byte{1, 2, 3, 4}}})
	require.Error(t, err)
}

func TestBuildExecutePayloadNullBitmapAndValues(t *testing.T) {
	s := &Statement{stmtID: 42, paramCount: 2}
	binds := []proto.ParamBind{
		{Type: proto.TypeLong, Buffer: []byte{1, 0, 0, 0}},
		{Type: proto.TypeLongLong, Null: true},
	}
	payload, err := s.buildExecutePayload(binds)
	require.NoError(t, err)

	// header(1) + stmtID(4) + cursor(1) + iterations(4) = 10
	nullBitmap := payload[10]
	require.Equal(t, byte(0x02), nullBitmap) // bit 1 set, param 1 is null

	newParamsFlag := payload[11]
	require.Equal(t, byte(1), newParamsFlag)

	// type/flag pairs for 2 params
	require.Equal(t, byte(proto.TypeLong), payload[12])
	require.Equal(t, byte(proto.TypeLongLong), payload[14])

	// only the non-null param's buffer is appended
	require.Equal(t, []byte{1, 0, 0, 0}, payload[16:20])
	require.Len(t, payload, 20)
}

func TestDecodeBinaryRowMixedNulls(t *testing.T) {
	rawMeta := []proto.FieldMeta{
		{Type: proto.TypeLong},
		{Type: proto.TypeVarString},
	}
	pkt := []byte{0x00, 0x08} // header + null-bitmap (bit for col 1, offset 2+1=3 -> 0x08)
	pkt = append(pkt, 7, 0, 0, 0)
	// col 1 is null, contributes no bytes

	rows, err := decodeBinaryRow(pkt, rawMeta)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.False(t, rows[0].Null)
	require.Equal(t, int64(7), rows[0].Int64())
	require.True(t, rows[1].Null)
}

func TestDecodeBinaryRowMissingHeaderByte(t *testing.T) {
	_, err := decodeBinaryRow([]byte{0x01}, []proto.FieldMeta{{Type: proto.TypeLong}})
	require.Error(t, err)
}

func TestStatementCloseIsIdempotent(t *testing.T) {
	s := &Statement{prepared: false}
	require.NoError(t, s.Close(nil))
	require.NoError(t, s.Close(nil))
}

func TestPrepareIsIdempotentAfterSuccess(t *testing.T) {
	s := &Statement{prepared: true, fields: []value.FieldMeta{{Name: "x"}}}
	require.NoError(t, s.Prepare(nil))
	require.Len(t, s.Fields(), 1)
}
