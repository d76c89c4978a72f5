package mysql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLenEncIntRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 250, 251, 65535, 65536, 16777215, 16777216, 1 << 40}
	for _, c := range cases {
		buf := writeLenEncInt(nil, c)
		got, isNull, n, err := readLenEncInt(buf)
		require.NoError(t, err)
		require.False(t, isNull)
		require.Equal(t, len(buf), n)
		require.Equal(t, c, got)
	}
}

func TestLenEncIntNullPrefix(t *testing.T) {
	_, isNull, n, err := readLenEncInt([]byte{0xfb})
	require.NoError(t, err)
	require.True(t, isNull)
	require.Equal(t, 1, n)
}

func TestLenEncStringRoundTrip(t *testing.T) {
	buf := writeLenEncString(nil, []byte("hello world"))
	got, isNull, n, err := readLenEncString(buf)
	require.NoError(t, err)
	require.False(t, isNull)
	require.Equal(t, len(buf), n)
	require.Equal(t, "hello world", string(got))
}

func TestLenEncStringTruncatedErrors(t *testing.T) {
	buf := writeLenEncString(nil, []byte("hello"))
	_, _, _, err := readLenEncString(buf[:len(buf)-2])
	require.Error(t, err)
}
