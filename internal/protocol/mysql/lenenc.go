package mysql

import (
	"encoding/binary"
	"fmt"
)

// readLenEncInt decodes a length-encoded integer per the MySQL wire
// protocol and returns its value, whether it denoted SQL NULL (the 0xfb
// prefix, valid only in the text protocol's row payloads), and the number
// of bytes consumed.
func readLenEncInt(b []byte) (value uint64, isNull bool, n int, err error) {
	if len(b) == 0 {
		return 0, false, 0, fmt.Errorf("mysql: length-encoded integer: empty buffer")
	}
	switch {
	case b[0] < 0xfb:
		return uint64(b[0]), false, 1, nil
	case b[0] == headerLocalInFile:
		return 0, true, 1, nil
	case b[0] == 0xfc:
		if len(b) < 3 {
			return 0, false, 0, fmt.Errorf("mysql: length-encoded integer: truncated 2-byte form")
		}
		return uint64(binary.LittleEndian.Uint16(b[1:3])), false, 3, nil
	case b[0] == 0xfd:
		if len(b) < 4 {
			return 0, false, 0, fmt.Errorf("mysql: length-encoded integer: truncated 3-byte form")
		}
		return uint64(b[1]) | uint64(b[2])<<8 | uint64(b[3])<<16, false, 4, nil
	case b[0] == 0xfe:
		if len(b) < 9 {
			return 0, false, 0, fmt.Errorf("mysql: length-encoded integer: truncated 8-byte form")
		}
		return binary.LittleEndian.Uint64(b[1:9]), false, 9, nil
	default:
		return 0, false, 0, fmt.Errorf("mysql: length-encoded integer: invalid prefix 0x%02x", b[0])
	}
}

// writeLenEncInt appends v's length-encoded integer form to dst.
func writeLenEncInt(dst []byte, v uint64) []byte {
	switch {
	case v < 0xfb:
		return append(dst, byte(v))
	case v <= 0xffff:
		dst = append(dst, 0xfc)
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	case v <= 0xffffff:
		dst = append(dst, 0xfd, byte(v), byte(v>>8), byte(v>>16))
		return dst
	default:
		dst = append(dst, 0xfe)
		return binary.LittleEndian.AppendUint64(dst, v)
	}
}

// readLenEncString decodes a length-encoded string (length-encoded integer
// length prefix followed by that many raw bytes). A NULL-denoting prefix
// yields isNull=true and a nil slice.
func readLenEncString(b []byte) (s []byte, isNull bool, n int, err error) {
	length, isNull, prefixLen, err := readLenEncInt(b)
	if err != nil {
		return nil, false, 0, err
	}
	if isNull {
		return nil, true, prefixLen, nil
	}
	total := prefixLen + int(length)
	if len(b) < total {
		return nil, false, 0, fmt.Errorf("mysql: length-encoded string: truncated payload (want %d, have %d)", total, len(b))
	}
	return b[prefixLen:total], false, total, nil
}

// writeLenEncString appends s's length-encoded string form to dst.
func writeLenEncString(dst []byte, s []byte) []byte {
	dst = writeLenEncInt(dst, uint64(len(s)))
	return append(dst, s...)
}

// ReadLenEncInt is the exported form of readLenEncInt, for callers outside
// this package (the transport layer's OK/result-set parsers).
func ReadLenEncInt(b []byte) (value uint64, isNull bool, n int, err error) {
	return readLenEncInt(b)
}

// ReadLenEncString is the exported form of readLenEncString.
func ReadLenEncString(b []byte) (s []byte, isNull bool, n int, err error) {
	return readLenEncString(b)
}

// readNullTerminatedString reads bytes up to (not including) the first NUL,
// returning the remainder's start offset.
func readNullTerminatedString(b []byte) (s []byte, rest int, err error) {
	for i, c := range b {
		if c == 0 {
			return b[:i], i + 1, nil
		}
	}
	return nil, 0, fmt.Errorf("mysql: null-terminated string: no terminator found")
}
