package mysql

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewPacketWriter(&buf, nil, 0)
	require.NoError(t, w.WritePacket([]byte("hello")))

	r := NewPacketReader(&buf, nil, 0)
	got, err := r.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestPacketSplitsLargePayload(t *testing.T) {
	var buf bytes.Buffer
	w := NewPacketWriter(&buf, nil, 0)
	payload := bytes.Repeat([]byte{'x'}, MaxPacketSize+10)
	require.NoError(t, w.WritePacket(payload))

	r := NewPacketReader(&buf, nil, 0)
	got, err := r.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestPacketSequenceMismatchErrors(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{1, 0, 0, 5, 'a'}) // seq byte 5, reader expects 0
	r := NewPacketReader(&buf, nil, 0)
	_, err := r.ReadPacket()
	require.Error(t, err)
}
