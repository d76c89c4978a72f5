package mysql

import (
	"fmt"
	"io"

	proto "sqldriver/internal/protocol/mysql"
	"sqldriver/internal/value"
)

// Result materializes a query's rows client-side. Per SPEC_FULL.md §4.4,
// both construction paths (prepared-statement binary protocol, text-protocol
// COM_QUERY) read every row up front — there is no streaming mysql_use_result
// equivalent — so row count and random access are well-defined immediately,
// and Fetch (§4.4 "Fetch protocol") is just a cursor over that materialized
// slice. isTruncated is carried per spec wording ("was this value truncated")
// but is always false in this Go rewrite: the C-API original could truncate
// a value against a caller-supplied fixed-size MYSQL_BIND buffer, but this
// driver never pre-sizes output buffers (Design Notes §9), so the condition
// it reports can never occur here — the field exists so ErrRowTruncated
// remains a meaningful, checkable sentinel for callers ported from that API.
type Result struct {
	fields       []value.FieldMeta
	rows         [][]value.NativeValue
	isTruncated  []bool
	cursor       int
	closed       bool
	affectedRows uint64
	lastInsertID uint64
	warnings     uint16
	statusFlags  proto.StatusFlag
	infoMessage  string
}

// NewResult builds a Result directly from already-decoded fields and rows.
// Exposed for packages (metadata listers, tests) that synthesize a Result
// from a SHOW-statement query without going through the wire decode path
// themselves — they still only see a *Result, never raw fields.
func NewResult(fields []value.FieldMeta, rows [][]value.NativeValue) *Result {
	return &Result{fields: fields, rows: rows}
}

// RowCount returns the number of rows materialized.
func (r *Result) RowCount() int { return len(r.rows) }

// Fields returns the result's column metadata, in ordinal order.
func (r *Result) Fields() []value.FieldMeta { return r.fields }

// AffectedRows returns the server-reported affected-row count (DML only).
func (r *Result) AffectedRows() uint64 { return r.affectedRows }

// LastInsertID returns the server-reported last insert id (DML only).
func (r *Result) LastInsertID() uint64 { return r.lastInsertID }

// Row returns the raw NativeValue cells of row index idx, in column order.
// The sqldriver layer converts these to SqlValues and assembles a Record
// (SPEC_FULL.md §2's data-flow: "driver converts native values back to
// SqlValues and fills a SqlRecord"). This is the random-access counterpart
// to Fetch; it does not move the cursor.
func (r *Result) Row(idx int) ([]value.NativeValue, error) {
	if idx < 0 || idx >= len(r.rows) {
		return nil, fmt.Errorf("mysql: result row index %d out of range [0,%d)", idx, len(r.rows))
	}
	return r.rows[idx], nil
}

// Fetch advances the in-memory row cursor and returns the row now current.
// It returns io.EOF once every row has been returned (never treated as an
// error by callers, per SPEC_FULL.md §4.4), or ErrRowTruncated alongside a
// still-usable row when that row's truncation flag was set during decode.
func (r *Result) Fetch() ([]value.NativeValue, error) {
	if r.cursor >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.cursor]
	truncated := r.cursor < len(r.isTruncated) && r.isTruncated[r.cursor]
	r.cursor++
	if truncated {
		return row, ErrRowTruncated
	}
	return row, nil
}

// Value returns column col of the row last returned by Fetch.
func (r *Result) Value(col int) (value.NativeValue, error) {
	if r.cursor == 0 || r.cursor > len(r.rows) {
		return value.NativeValue{}, fmt.Errorf("mysql: Value called before a successful Fetch")
	}
	row := r.rows[r.cursor-1]
	if col < 0 || col >= len(row) {
		return value.NativeValue{}, fmt.Errorf("mysql: column index %d out of range [0,%d)", col, len(row))
	}
	return row[col], nil
}

// Close releases the in-memory rows and metadata. Calling Close twice is a
// no-op, matching the statement's close semantics.
func (r *Result) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.rows = nil
	r.isTruncated = nil
	r.fields = nil
	return nil
}

// readQueryResultSet reads one result set following a COM_QUERY, which is
// either an OK packet (DML), an ERR packet, a local-infile request (not
// supported, reported as an error), or a column-count-prefixed result set
// in the text protocol. It returns the parsed Result (nil for a bare OK)
// and the status flags so the caller can detect CLIENT_MULTI_RESULTS
// chaining.
func readQueryResultSet(pr *proto.PacketReader, caps proto.CapabilityFlag) (*Result, proto.StatusFlag, error) {
	pkt, err := pr.ReadPacket()
	if err != nil {
		return nil, 0, &TransportError{Category: CategoryConnectivity, Message: "read result header", Err: err}
	}
	if len(pkt) == 0 {
		return nil, 0, &TransportError{Category: CategoryProtocol, Message: "empty result header packet"}
	}

	switch pkt[0] {
	case 0x00: // OK
		ok, err := parseOKPacket(pkt[1:], caps)
		if err != nil {
			return nil, 0, &TransportError{Category: CategoryProtocol, Message: "parse OK packet", Err: err}
		}
		return &Result{affectedRows: ok.affectedRows, lastInsertID: ok.lastInsertID, warnings: ok.warnings, statusFlags: ok.statusFlags, infoMessage: ok.info}, ok.statusFlags, nil
	case 0xff:
		perr, err := proto.ParseErrPacket(pkt[1:], caps)
		if err != nil {
			return nil, 0, &TransportError{Category: CategoryProtocol, Message: "parse ERR packet", Err: err}
		}
		return nil, 0, &TransportError{Category: ClassifyBySQLState(perr.SQLState, perr.Errno), Message: perr.Message, SQLState: perr.SQLState, Errno: perr.Errno, Err: perr}
	case 0xfb:
		return nil, 0, &TransportError{Category: CategoryDriverInternal, Message: "LOCAL INFILE requests are not supported"}
	default:
		return readTextResultSet(pr, pkt, caps)
	}
}

type okPacket struct {
	affectedRows uint64
	lastInsertID uint64
	statusFlags  proto.StatusFlag
	warnings     uint16
	info         string
}

func parseOKPacket(payload []byte, caps proto.CapabilityFlag) (okPacket, error) {
	var ok okPacket
	rest := payload
	affected, _, n, err := proto.ReadLenEncInt(rest)
	if err != nil {
		return ok, err
	}
	ok.affectedRows = affected
	rest = rest[n:]

	lastID, _, n, err := proto.ReadLenEncInt(rest)
	if err != nil {
		return ok, err
	}
	ok.lastInsertID = lastID
	rest = rest[n:]

	if caps&proto.ClientProtocol41 != 0 {
		if len(rest) < 4 {
			return ok, fmt.Errorf("OK packet: truncated status/warnings")
		}
		ok.statusFlags = proto.StatusFlag(uint16(rest[0]) | uint16(rest[1])<<8)
		ok.warnings = uint16(rest[2]) | uint16(rest[3])<<8
		rest = rest[4:]
	} else if caps&proto.ClientTransactions != 0 {
		if len(rest) < 2 {
			return ok, fmt.Errorf("OK packet: truncated status")
		}
		ok.statusFlags = proto.StatusFlag(uint16(rest[0]) | uint16(rest[1])<<8)
		rest = rest[2:]
	}
	ok.info = string(rest)
	return ok, nil
}

// readTextResultSet reads a full text-protocol result set (column-count
// packet already consumed into headerPkt) and materializes all rows
// client-side.
func readTextResultSet(pr *proto.PacketReader, headerPkt []byte, caps proto.CapabilityFlag) (*Result, proto.StatusFlag, error) {
	colCount, _, _, err := proto.ReadLenEncInt(headerPkt)
	if err != nil {
		return nil, 0, &TransportError{Category: CategoryProtocol, Message: "parse column count", Err: err}
	}

	fields := make([]value.FieldMeta, colCount)
	rawMeta := make([]proto.FieldMeta, colCount)
	for i := range fields {
		pkt, err := pr.ReadPacket()
		if err != nil {
			return nil, 0, &TransportError{Category: CategoryConnectivity, Message: "read column definition", Err: err}
		}
		fm, rm, err := parseColumnDefinition(pkt)
		if err != nil {
			return nil, 0, &TransportError{Category: CategoryProtocol, Message: "parse column definition", Err: err}
		}
		fields[i] = fm
		rawMeta[i] = rm
	}

	if caps&proto.ClientDeprecateEOF == 0 {
		if _, err := pr.ReadPacket(); err != nil { // EOF after column defs
			return nil, 0, &TransportError{Category: CategoryConnectivity, Message: "read column-defs EOF", Err: err}
		}
	}

	var rows [][]value.NativeValue
	var status proto.StatusFlag
	for {
		pkt, err := pr.ReadPacket()
		if err != nil {
			return nil, 0, &TransportError{Category: CategoryConnectivity, Message: "read row packet", Err: err}
		}
		if isEOFOrOKTerminator(pkt, caps) {
			ok, err := parseOKPacket(pkt[1:], caps)
			if err != nil {
				return nil, 0, &TransportError{Category: CategoryProtocol, Message: "parse result terminator", Err: err}
			}
			status = ok.statusFlags
			break
		}
		if len(pkt) > 0 && pkt[0] == 0xff {
			perr, err := proto.ParseErrPacket(pkt[1:], caps)
			if err != nil {
				return nil, 0, &TransportError{Category: CategoryProtocol, Message: "parse mid-result ERR", Err: err}
			}
			return nil, 0, &TransportError{Category: ClassifyBySQLState(perr.SQLState, perr.Errno), Message: perr.Message, SQLState: perr.SQLState, Errno: perr.Errno, Err: perr}
		}

		row, err := decodeTextRow(pkt, rawMeta)
		if err != nil {
			return nil, 0, err
		}
		rows = append(rows, row)
	}

	return &Result{fields: fields, rows: rows}, status, nil
}

// checkOKOrErr validates a single-packet OK response (used by Ping, and
// anywhere else a bare COM_* command's only possible replies are OK/ERR).
func checkOKOrErr(pkt []byte, caps proto.CapabilityFlag) error {
	if len(pkt) == 0 {
		return &TransportError{Category: CategoryProtocol, Message: "empty response packet"}
	}
	switch pkt[0] {
	case 0x00:
		return nil
	case 0xff:
		perr, err := proto.ParseErrPacket(pkt[1:], caps)
		if err != nil {
			return &TransportError{Category: CategoryProtocol, Message: "parse ERR packet", Err: err}
		}
		return &TransportError{Category: ClassifyBySQLState(perr.SQLState, perr.Errno), Message: perr.Message, SQLState: perr.SQLState, Errno: perr.Errno, Err: perr}
	default:
		return &TransportError{Category: CategoryProtocol, Message: fmt.Sprintf("unexpected response header 0x%02x", pkt[0])}
	}
}

func isEOFOrOKTerminator(pkt []byte, caps proto.CapabilityFlag) bool {
	if len(pkt) == 0 {
		return false
	}
	if caps&proto.ClientDeprecateEOF != 0 {
		return pkt[0] == 0xfe
	}
	return pkt[0] == 0xfe && len(pkt) < 9
}

func decodeTextRow(pkt []byte, rawMeta []proto.FieldMeta) ([]value.NativeValue, error) {
	out := make([]value.NativeValue, len(rawMeta))
	rest := pkt
	for i, rm := range rawMeta {
		raw, isNull, n, err := proto.ReadLenEncString(rest)
		if err != nil {
			return nil, &TransportError{Category: CategoryProtocol, Message: "decode row cell", Err: err}
		}
		rest = rest[n:]
		nv, err := proto.DecodeTextField(raw, isNull, rm)
		if err != nil {
			return nil, &TransportError{Category: CategoryDataError, Message: "decode text field", Err: err}
		}
		out[i] = nv
	}
	return out, nil
}
