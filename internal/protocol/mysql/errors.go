package mysql

import "fmt"

// Internal protocol-layer error codes, banded by concern
// (SPEC_FULL.md §4.1 "Error reporting"). These are distinct from the
// server's own errno space and only ever appear wrapped inside a
// ProtocolError's Code field when no server errno applies.
const (
	CodeDataConversionBase = 10000
	CodeTimeBase           = 10100
	CodeBindBase           = 10200
	CodeStringRenderBase   = 10300
	CodeInternalBase       = 19000
)

// ProtocolError wraps a server-reported ERR_Packet (Errno/SQLState/Message)
// or, when Errno is 0, an internal protocol-layer failure identified by one
// of the Code* bands above.
type ProtocolError struct {
	Errno   uint16
	SQLState string
	Message string
	Code    int
	Err     error
}

func (e *ProtocolError) Error() string {
	switch {
	case e.Errno != 0:
		return fmt.Sprintf("mysql error %d (%s): %s", e.Errno, e.SQLState, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("mysql protocol error %d: %v", e.Code, e.Err)
	default:
		return fmt.Sprintf("mysql protocol error %d: %s", e.Code, e.Message)
	}
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// IsSuccess reports whether this error actually denotes success — the
// server can send an ERR_Packet-shaped response with errno 0, which the
// protocol treats as non-failure (SPEC_FULL.md §4.1).
func (e *ProtocolError) IsSuccess() bool { return e.Errno == 0 && e.Err == nil && e.Code == 0 }

// newConversionError builds a data-conversion band ProtocolError.
func newConversionError(format string, args ...any) *ProtocolError {
	return &ProtocolError{Code: CodeDataConversionBase, Message: fmt.Sprintf(format, args...)}
}

// newTimeError builds a time band ProtocolError.
func newTimeError(format string, args ...any) *ProtocolError {
	return &ProtocolError{Code: CodeTimeBase, Message: fmt.Sprintf(format, args...)}
}

// newBindError builds a bind band ProtocolError.
func newBindError(format string, args ...any) *ProtocolError {
	return &ProtocolError{Code: CodeBindBase, Message: fmt.Sprintf(format, args...)}
}

// ParseErrPacket decodes a server ERR_Packet payload (after the 0xff
// header byte has already been consumed by the caller) into a
// ProtocolError. capabilities determines whether the SQLSTATE marker
// field (`#SSSSS`) is present, per CLIENT_PROTOCOL_41.
func ParseErrPacket(payload []byte, capabilities CapabilityFlag) (*ProtocolError, error) {
	if len(payload) < 2 {
		return nil, fmt.Errorf("mysql: ERR_Packet too short")
	}
	errno := uint16(payload[0]) | uint16(payload[1])<<8
	rest := payload[2:]
	sqlState := ""
	if capabilities&ClientProtocol41 != 0 && len(rest) > 0 && rest[0] == '#' {
		if len(rest) < 6 {
			return nil, fmt.Errorf("mysql: ERR_Packet: truncated sqlstate marker")
		}
		sqlState = string(rest[1:6])
		rest = rest[6:]
	}
	return &ProtocolError{Errno: errno, SQLState: sqlState, Message: string(rest)}, nil
}
