package mysql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScrambleNativePasswordEmptyPassword(t *testing.T) {
	require.Nil(t, ScrambleNativePassword("", []byte("01234567890123456789")))
}

func TestScrambleNativePasswordDeterministic(t *testing.T) {
	salt := []byte("01234567890123456789")
	a := ScrambleNativePassword("secret", salt)
	b := ScrambleNativePassword("secret", salt)
	require.Equal(t, a, b)
	require.Len(t, a, 20)
}

func TestScrambleCachingSHA2FastDeterministic(t *testing.T) {
	salt := []byte("0123456789012345678901")
	a := ScrambleCachingSHA2Fast("secret", salt)
	b := ScrambleCachingSHA2Fast("secret", salt)
	require.Equal(t, a, b)
	require.Len(t, a, 32)
}

func TestXorWithSaltRoundTrip(t *testing.T) {
	salt := []byte("abcd")
	enc := XorWithSalt("hunter2", salt)
	// XOR is self-inverse: XORing the output with the same repeating salt
	// recovers the original NUL-terminated password bytes.
	dec := make([]byte, len(enc))
	for i := range dec {
		dec[i] = enc[i] ^ salt[i%len(salt)]
	}
	require.Equal(t, append([]byte("hunter2"), 0), dec)
}

func TestBuildHandshakeResponse41ContainsUserAndDB(t *testing.T) {
	resp := BuildHandshakeResponse41(HandshakeResponseOptions{
		Capabilities: ClientProtocol41 | ClientConnectWithDB | ClientSecureConnection,
		User:         "root",
		Database:     "mydb",
		AuthResponse: []byte{1, 2, 3},
	})
	require.Contains(t, string(resp), "root")
	require.Contains(t, string(resp), "mydb")
}
