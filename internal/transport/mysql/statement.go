package mysql

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	proto "sqldriver/internal/protocol/mysql"
	"sqldriver/internal/value"
)

// ErrMissingResultMetadata is reported when a prepared statement's field
// count is non-zero but no result metadata was received.
var ErrMissingResultMetadata = errors.New("mysql: missing result metadata for non-empty field count")

// ErrRowTruncated is returned by Fetch when the current row's truncation
// flag was set during binary decode; the row is still fully usable.
var ErrRowTruncated = errors.New("mysql: row value truncated")

// Statement is a prepared statement bound to one Connection. Per
// SPEC_FULL.md §5, a Statement is not safe for concurrent use and must not
// outlive its Connection.
type Statement struct {
	conn   *Connection
	query  string
	stmtID uint32

	prepared   bool
	paramCount uint16
	fields     []value.FieldMeta
	rawMeta    []proto.FieldMeta

	lastAffectedRows uint64
	lastInsertID     uint64
	warningCount     uint16

	closeOnce bool
}

// NewStatement creates an un-prepared Statement for query.
func (c *Connection) NewStatement(query string) *Statement {
	return &Statement{conn: c, query: query}
}

// Prepare sends COM_STMT_PREPARE and reads back the parameter count and
// initial result metadata. Idempotent after success; failure leaves the
// statement un-prepared.
func (s *Statement) Prepare(ctx context.Context) error {
	if s.prepared {
		return nil
	}
	c := s.conn
	c.pw.ResetSeq()
	c.pr.ResetSeq()

	payload := append([]byte{byte(proto.ComStmtPrepare)}, []byte(s.query)...)
	if err := c.pw.WritePacket(payload); err != nil {
		return &TransportError{Category: CategoryConnectivity, Message: "write COM_STMT_PREPARE", Err: err}
	}

	pkt, err := c.pr.ReadPacket()
	if err != nil {
		return &TransportError{Category: CategoryConnectivity, Message: "read COM_STMT_PREPARE_OK", Err: err}
	}
	if len(pkt) > 0 && pkt[0] == 0xff {
		perr, err := proto.ParseErrPacket(pkt[1:], c.capabilities)
		if err != nil {
			return &TransportError{Category: CategoryProtocol, Message: "parse prepare ERR", Err: err}
		}
		return &TransportError{Category: CategorySyntax, Message: perr.Message, SQLState: perr.SQLState, Errno: perr.Errno, Err: perr}
	}
	if len(pkt) < 12 {
		return &TransportError{Category: CategoryProtocol, Message: "COM_STMT_PREPARE_OK: short payload"}
	}
	s.stmtID = binary.LittleEndian.Uint32(pkt[1:5])
	numColumns := binary.LittleEndian.Uint16(pkt[5:7])
	s.paramCount = binary.LittleEndian.Uint16(pkt[7:9])
	warningCount := binary.LittleEndian.Uint16(pkt[10:12])
	s.warningCount = warningCount

	if s.paramCount > 0 {
		for i := uint16(0); i < s.paramCount; i++ {
			if _, err := c.pr.ReadPacket(); err != nil {
				return &TransportError{Category: CategoryConnectivity, Message: "read param definition", Err: err}
			}
		}
		if c.capabilities&proto.ClientDeprecateEOF == 0 {
			if _, err := c.pr.ReadPacket(); err != nil {
				return &TransportError{Category: CategoryConnectivity, Message: "read param-defs EOF", Err: err}
			}
		}
	}

	if numColumns > 0 {
		fields := make([]value.FieldMeta, numColumns)
		rawMeta := make([]proto.FieldMeta, numColumns)
		for i := range fields {
			pkt, err := c.pr.ReadPacket()
			if err != nil {
				return &TransportError{Category: CategoryConnectivity, Message: "read result metadata", Err: err}
			}
			fm, rm, err := parseColumnDefinition(pkt)
			if err != nil {
				return &TransportError{Category: CategoryProtocol, Message: "parse result metadata", Err: err}
			}
			fields[i] = fm
			rawMeta[i] = rm
		}
		if c.capabilities&proto.ClientDeprecateEOF == 0 {
			if _, err := c.pr.ReadPacket(); err != nil {
				return &TransportError{Category: CategoryConnectivity, Message: "read result-meta EOF", Err: err}
			}
		}
		s.fields = fields
		s.rawMeta = rawMeta
	}

	s.prepared = true
	return nil
}

// ParamCount returns the server-reported parameter count.
func (s *Statement) ParamCount() int { return int(s.paramCount) }

// Fields returns the statement's result-set metadata, populated at
// Prepare time; empty for non-row-producing statements.
func (s *Statement) Fields() []value.FieldMeta { return s.fields }

// buildExecutePayload assembles a COM_STMT_EXECUTE packet: statement id,
// flags, iteration count, then (if paramCount > 0) a null-bitmap, a
// new-params-bound-flag byte, one type-and-unsigned-flag pair per param,
// and the param values themselves in declaration order.
func (s *Statement) buildExecutePayload(binds []proto.ParamBind) ([]byte, error) {
	if len(binds) != int(s.paramCount) {
		return nil, &TransportError{Category: CategoryDriverInternal, Message: fmt.Sprintf("BindParams: arity mismatch: got %d, want %d", len(binds), s.paramCount)}
	}

	buf := make([]byte, 0, 64)
	buf = append(buf, byte(proto.ComStmtExecute))
	buf = binary.LittleEndian.AppendUint32(buf, s.stmtID)
	buf = append(buf, 0x00)                         // CURSOR_TYPE_NO_CURSOR
	buf = binary.LittleEndian.AppendUint32(buf, 1) // iteration count, always 1

	if s.paramCount == 0 {
		return buf, nil
	}

	nullBitmap := make([]byte, (len(binds)+7)/8)
	for i, b := range binds {
		if b.Null {
			nullBitmap[i/8] |= 1 << uint(i%8)
		}
	}
	buf = append(buf, nullBitmap...)
	buf = append(buf, 1) // new-params-bound-flag

	for _, b := range binds {
		typ := byte(b.Type)
		flag := byte(0)
		if b.Unsigned {
			flag = 0x80
		}
		buf = append(buf, typ, flag)
	}
	for _, b := range binds {
		if !b.Null {
			buf = append(buf, b.Buffer...)
		}
	}
	return buf, nil
}

// Execute runs the statement for its side effects (INSERT/UPDATE/DELETE/
// DDL), draining any accidental result sets. Returns affected rows.
func (s *Statement) Execute(ctx context.Context, binds []proto.ParamBind) (uint64, error) {
	if !s.prepared {
		return 0, &TransportError{Category: CategoryDriverInternal, Message: "Execute: statement not prepared"}
	}
	c := s.conn
	payload, err := s.buildExecutePayload(binds)
	if err != nil {
		return 0, err
	}
	c.pw.ResetSeq()
	c.pr.ResetSeq()
	if err := c.pw.WritePacket(payload); err != nil {
		return 0, &TransportError{Category: CategoryConnectivity, Message: "write COM_STMT_EXECUTE", Err: err}
	}

	result, status, err := readQueryResultSet(c.pr, c.capabilities)
	if err != nil {
		return 0, err
	}
	for status&proto.StatusMoreResultsExist != 0 {
		result, status, err = readQueryResultSet(c.pr, c.capabilities)
		if err != nil {
			return 0, err
		}
	}
	s.lastAffectedRows = result.AffectedRows()
	s.lastInsertID = result.LastInsertID()
	return s.lastAffectedRows, nil
}

// ExecuteQuery runs a row-producing prepared statement and materializes
// its binary-protocol result set client-side.
func (s *Statement) ExecuteQuery(ctx context.Context, binds []proto.ParamBind) (*Result, error) {
	if !s.prepared {
		return nil, &TransportError{Category: CategoryDriverInternal, Message: "ExecuteQuery: statement not prepared"}
	}
	c := s.conn
	payload, err := s.buildExecutePayload(binds)
	if err != nil {
		return nil, err
	}
	c.pw.ResetSeq()
	c.pr.ResetSeq()
	if err := c.pw.WritePacket(payload); err != nil {
		return nil, &TransportError{Category: CategoryConnectivity, Message: "write COM_STMT_EXECUTE", Err: err}
	}

	pkt, err := c.pr.ReadPacket()
	if err != nil {
		return nil, &TransportError{Category: CategoryConnectivity, Message: "read execute result header", Err: err}
	}
	if len(pkt) == 0 {
		return nil, &TransportError{Category: CategoryProtocol, Message: "empty execute result header"}
	}
	switch pkt[0] {
	case 0x00:
		ok, err := parseOKPacket(pkt[1:], c.capabilities)
		if err != nil {
			return nil, &TransportError{Category: CategoryProtocol, Message: "parse execute OK", Err: err}
		}
		s.lastAffectedRows = ok.affectedRows
		s.lastInsertID = ok.lastInsertID
		return &Result{affectedRows: ok.affectedRows, lastInsertID: ok.lastInsertID}, nil
	case 0xff:
		perr, err := proto.ParseErrPacket(pkt[1:], c.capabilities)
		if err != nil {
			return nil, &TransportError{Category: CategoryProtocol, Message: "parse execute ERR", Err: err}
		}
		return nil, &TransportError{Category: ClassifyBySQLState(perr.SQLState, perr.Errno), Message: perr.Message, SQLState: perr.SQLState, Errno: perr.Errno, Err: perr}
	}

	colCount, _, _, err := proto.ReadLenEncInt(pkt)
	if err != nil {
		return nil, &TransportError{Category: CategoryProtocol, Message: "parse column count", Err: err}
	}
	if colCount == 0 {
		return &Result{}, nil
	}
	if s.fields == nil {
		return nil, ErrMissingResultMetadata
	}

	var rows [][]value.NativeValue
	for {
		rowPkt, err := c.pr.ReadPacket()
		if err != nil {
			return nil, &TransportError{Category: CategoryConnectivity, Message: "read binary row", Err: err}
		}
		if isEOFOrOKTerminator(rowPkt, c.capabilities) {
			break
		}
		if len(rowPkt) > 0 && rowPkt[0] == 0xff {
			perr, err := proto.ParseErrPacket(rowPkt[1:], c.capabilities)
			if err != nil {
				return nil, &TransportError{Category: CategoryProtocol, Message: "parse mid-result ERR", Err: err}
			}
			return nil, &TransportError{Category: ClassifyBySQLState(perr.SQLState, perr.Errno), Message: perr.Message, SQLState: perr.SQLState, Errno: perr.Errno, Err: perr}
		}
		row, err := decodeBinaryRow(rowPkt, s.rawMeta)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return &Result{fields: s.fields, rows: rows}, nil
}

// decodeBinaryRow decodes one COM_STMT_EXECUTE-result row: a 0x00 header
// byte, a null-bitmap (offset by 2 bits per the binary protocol), then
// each non-null column's value in declaration order.
func decodeBinaryRow(pkt []byte, rawMeta []proto.FieldMeta) ([]value.NativeValue, error) {
	if len(pkt) < 1 || pkt[0] != 0x00 {
		return nil, &TransportError{Category: CategoryProtocol, Message: "binary row: missing 0x00 header"}
	}
	rest := pkt[1:]
	bitmapLen := (len(rawMeta) + 7 + 2) / 8
	if len(rest) < bitmapLen {
		return nil, &TransportError{Category: CategoryProtocol, Message: "binary row: truncated null-bitmap"}
	}
	bitmap := rest[:bitmapLen]
	rest = rest[bitmapLen:]

	out := make([]value.NativeValue, len(rawMeta))
	for i, rm := range rawMeta {
		bitPos := i + 2
		isNull := bitmap[bitPos/8]&(1<<uint(bitPos%8)) != 0
		nv, n, err := proto.DecodeBinaryField(rest, isNull, rm)
		if err != nil {
			return nil, &TransportError{Category: CategoryDataError, Message: "decode binary field", Err: err}
		}
		rest = rest[n:]
		out[i] = nv
	}
	return out, nil
}

// AffectedRows returns the last Execute's affected-row count.
func (s *Statement) AffectedRows() uint64 { return s.lastAffectedRows }

// LastInsertID returns the last Execute's server-assigned insert id.
func (s *Statement) LastInsertID() uint64 { return s.lastInsertID }

// WarningCount returns the last operation's server-reported warning count.
func (s *Statement) WarningCount() uint16 { return s.warningCount }

// Close sends COM_STMT_CLOSE and releases local state. Safe to call twice.
func (s *Statement) Close(ctx context.Context) error {
	if s.closeOnce {
		return nil
	}
	s.closeOnce = true
	if !s.prepared {
		return nil
	}
	c := s.conn
	payload := make([]byte, 5)
	payload[0] = byte(proto.ComStmtClose)
	binary.LittleEndian.PutUint32(payload[1:], s.stmtID)
	c.pw.ResetSeq()
	// COM_STMT_CLOSE has no response, per the MySQL protocol.
	return c.pw.WritePacket(payload)
}
