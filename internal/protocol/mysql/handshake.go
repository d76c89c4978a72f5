package mysql

import (
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
)

// HandshakeV10 is the server's initial greeting packet.
type HandshakeV10 struct {
	ProtocolVersion byte
	ServerVersion   string
	ConnectionID    uint32
	AuthPluginData  []byte
	Capabilities    CapabilityFlag
	Charset         byte
	StatusFlags     StatusFlag
	AuthPluginName  string
}

// ParseHandshakeV10 decodes the server's initial greeting payload (the
// packet body, header already stripped by the PacketReader).
func ParseHandshakeV10(payload []byte) (*HandshakeV10, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("mysql: handshake: empty payload")
	}
	h := &HandshakeV10{ProtocolVersion: payload[0]}
	if h.ProtocolVersion != 10 {
		return nil, fmt.Errorf("mysql: handshake: unsupported protocol version %d", h.ProtocolVersion)
	}
	rest := payload[1:]

	version, n, err := readNullTerminatedString(rest)
	if err != nil {
		return nil, fmt.Errorf("mysql: handshake: server version: %w", err)
	}
	h.ServerVersion = string(version)
	rest = rest[n:]

	if len(rest) < 4+8+1+2 {
		return nil, fmt.Errorf("mysql: handshake: truncated fixed fields")
	}
	h.ConnectionID = uint32(rest[0]) | uint32(rest[1])<<8 | uint32(rest[2])<<16 | uint32(rest[3])<<24
	authPart1 := append([]byte(nil), rest[4:4+8]...)
	rest = rest[4+8+1:] // skip filler byte

	capLow := uint32(rest[0]) | uint32(rest[1])<<8
	h.Charset = rest[2]
	h.StatusFlags = StatusFlag(uint16(rest[3]) | uint16(rest[4])<<8)
	capHigh := uint32(rest[5]) | uint32(rest[6])<<8
	h.Capabilities = CapabilityFlag(capLow | capHigh<<16)
	rest = rest[7:]

	if len(rest) < 1 {
		return nil, fmt.Errorf("mysql: handshake: missing auth-data-length byte")
	}
	authDataLen := int(rest[0])
	rest = rest[1+10:] // skip auth-data-length + 10 reserved bytes

	authPart2Len := authDataLen - 8
	if authPart2Len < 13 {
		authPart2Len = 13
	}
	if len(rest) < authPart2Len {
		return nil, fmt.Errorf("mysql: handshake: truncated second auth-data part")
	}
	authPart2 := rest[:authPart2Len]
	// Trim the trailing NUL the server always appends.
	for len(authPart2) > 0 && authPart2[len(authPart2)-1] == 0 {
		authPart2 = authPart2[:len(authPart2)-1]
	}
	h.AuthPluginData = append(authPart1, authPart2...)
	rest = rest[authPart2Len:]

	if h.Capabilities&ClientPluginAuth != 0 {
		name, _, err := readNullTerminatedString(rest)
		if err == nil {
			h.AuthPluginName = string(name)
		} else {
			h.AuthPluginName = string(rest)
		}
	}
	return h, nil
}

// HandshakeResponseOptions configures HandshakeResponse41.
type HandshakeResponseOptions struct {
	Capabilities CapabilityFlag
	MaxPacket    uint32
	Charset      byte
	User         string
	AuthResponse []byte
	Database     string
	AuthPlugin   string
}

// BuildHandshakeResponse41 assembles a HandshakeResponse41 payload.
func BuildHandshakeResponse41(opt HandshakeResponseOptions) []byte {
	buf := make([]byte, 0, 64+len(opt.User)+len(opt.AuthResponse)+len(opt.Database))
	buf = binaryAppendUint32(buf, uint32(opt.Capabilities))
	buf = binaryAppendUint32(buf, opt.MaxPacket)
	buf = append(buf, opt.Charset)
	buf = append(buf, make([]byte, 23)...) // reserved filler

	buf = append(buf, []byte(opt.User)...)
	buf = append(buf, 0)

	if opt.Capabilities&ClientPluginAuthLenEncClientData != 0 {
		buf = writeLenEncString(buf, opt.AuthResponse)
	} else {
		buf = append(buf, byte(len(opt.AuthResponse)))
		buf = append(buf, opt.AuthResponse...)
	}

	if opt.Capabilities&ClientConnectWithDB != 0 {
		buf = append(buf, []byte(opt.Database)...)
		buf = append(buf, 0)
	}

	if opt.Capabilities&ClientPluginAuth != 0 {
		buf = append(buf, []byte(opt.AuthPlugin)...)
		buf = append(buf, 0)
	}
	return buf
}

func binaryAppendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// BuildSSLRequest assembles the truncated HandshakeResponse41 used to
// request a TLS upgrade before the real response is sent in cleartext
// over the now-encrypted connection.
func BuildSSLRequest(capabilities CapabilityFlag, maxPacket uint32, charset byte) []byte {
	buf := make([]byte, 0, 32)
	buf = binaryAppendUint32(buf, uint32(capabilities))
	buf = binaryAppendUint32(buf, maxPacket)
	buf = append(buf, charset)
	buf = append(buf, make([]byte, 23)...)
	return buf
}

// ScrambleNativePassword computes the mysql_native_password auth response:
// SHA1(password) XOR SHA1(salt + SHA1(SHA1(password))).
func ScrambleNativePassword(password string, salt []byte) []byte {
	if password == "" {
		return nil
	}
	pwHash := sha1.Sum([]byte(password))
	pwHashHash := sha1.Sum(pwHash[:])

	h := sha1.New()
	h.Write(salt)
	h.Write(pwHashHash[:])
	seedHash := h.Sum(nil)

	out := make([]byte, len(pwHash))
	for i := range out {
		out[i] = pwHash[i] ^ seedHash[i]
	}
	return out
}

// ScrambleCachingSHA2Fast computes the caching_sha2_password "fast auth"
// response: SHA256(password) XOR SHA256(SHA256(SHA256(password)) + salt).
func ScrambleCachingSHA2Fast(password string, salt []byte) []byte {
	if password == "" {
		return nil
	}
	pwHash := sha256.Sum256([]byte(password))
	pwHashHash := sha256.Sum256(pwHash[:])

	h := sha256.New()
	h.Write(pwHashHash[:])
	h.Write(salt)
	seedHash := h.Sum(nil)

	out := make([]byte, len(pwHash))
	for i := range out {
		out[i] = pwHash[i] ^ seedHash[i]
	}
	return out
}

// Caching-sha2-password fast-auth status bytes sent after the scramble.
const (
	CachingSHA2FastAuthSuccess byte = 3
	CachingSHA2FullAuthRequired byte = 4
)

// XorWithSalt XORs the NUL-terminated password against a repeating salt,
// the caching_sha2_password full-auth exchange's cleartext-over-TLS path:
// when the connection is already TLS-protected, the server accepts this
// XOR'd password directly instead of requiring an RSA-encrypted exchange.
func XorWithSalt(password string, salt []byte) []byte {
	pw := append([]byte(password), 0)
	out := make([]byte, len(pw))
	for i := range out {
		out[i] = pw[i] ^ salt[i%len(salt)]
	}
	return out
}
