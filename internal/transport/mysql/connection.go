// Package mysql is the transport layer: connection lifecycle, statement
// and result cursor lifecycle, transaction/savepoint control, charset
// negotiation, and metadata introspection, all built atop
// internal/protocol/mysql's wire codec. See SPEC_FULL.md §4.2.
package mysql

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	proto "sqldriver/internal/protocol/mysql"
	"sqldriver/internal/value"
)

// liveConnGuard mirrors the C-API's process-global library-init/teardown
// reference count. There is no process-global library to initialise in
// this from-scratch rewrite, so the guard only backs the invariant check
// in SPEC_FULL.md §8 (property 7: live-connection count never goes
// negative) rather than gating a real teardown call.
var liveConnGuard struct {
	mu    sync.Mutex
	count int
}

func incLiveConn() {
	liveConnGuard.mu.Lock()
	liveConnGuard.count++
	liveConnGuard.mu.Unlock()
}

func decLiveConn() {
	liveConnGuard.mu.Lock()
	if liveConnGuard.count > 0 {
		liveConnGuard.count--
	}
	liveConnGuard.mu.Unlock()
}

// LiveConnectionCount reports the number of Connections currently between
// a successful Connect and a Close, for tests and diagnostics.
func LiveConnectionCount() int {
	liveConnGuard.mu.Lock()
	defer liveConnGuard.mu.Unlock()
	return liveConnGuard.count
}

// Connection owns one MySQL session: the socket, the negotiated
// capabilities, and cached server-reported state.
type Connection struct {
	params value.ConnectionParams

	conn net.Conn
	pr   *proto.PacketReader
	pw   *proto.PacketWriter

	capabilities proto.CapabilityFlag
	serverVersion string
	connectionID  uint32
	charset       string

	connected        bool
	isolationLevel   string
	lastErr          error
	closeOnce        sync.Once
}

// Connect dials and performs the full handshake/auth sequence described in
// SPEC_FULL.md §4.2 "Connect algorithm".
func (c *Connection) Connect(ctx context.Context, params value.ConnectionParams) error {
	if c.connected {
		return &TransportError{Category: CategoryDriverInternal, Message: "already connected"}
	}
	c.params = params
	c.charset = params.Charset
	if c.charset == "" {
		c.charset = "utf8mb4"
	}

	opts, err := buildPreConnectOptions(params)
	if err != nil {
		c.lastErr = err
		return err
	}

	dialer := net.Dialer{Timeout: params.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, params.Network(), params.Address())
	if err != nil {
		c.lastErr = &TransportError{Category: CategoryConnectivity, Message: "dial failed", Err: err}
		return c.lastErr
	}
	c.conn = conn
	c.pr = proto.NewPacketReader(conn, conn, params.ReadTimeout)
	c.pw = proto.NewPacketWriter(conn, conn, params.WriteTimeout)

	if err := c.handshake(opts); err != nil {
		conn.Close()
		c.conn = nil
		c.lastErr = err
		return err
	}

	c.connected = true
	incLiveConn()

	if params.Charset != "" {
		if err := c.setNamesLocked(params.Charset); err != nil {
			c.Close()
			return err
		}
	}

	for _, cmd := range params.InitCommands {
		if _, err := c.simpleQuery(ctx, cmd); err != nil {
			c.Close()
			return err
		}
	}

	if err := c.refreshIsolationLevel(ctx); err != nil {
		c.Close()
		return err
	}
	return nil
}

func (c *Connection) handshake(opts preConnectOptions) error {
	pkt, err := c.pr.ReadPacket()
	if err != nil {
		return &TransportError{Category: CategoryConnectivity, Message: "read handshake packet", Err: err}
	}
	hs, err := proto.ParseHandshakeV10(pkt)
	if err != nil {
		return &TransportError{Category: CategoryProtocol, Message: "parse handshake", Err: err}
	}
	c.serverVersion = hs.ServerVersion
	c.connectionID = hs.ConnectionID

	capabilities := proto.DefaultClientCapabilities & hs.Capabilities
	if opts.tlsConfig != nil {
		capabilities |= proto.ClientSSL
	}
	if c.params.Database != "" {
		capabilities |= proto.ClientConnectWithDB
	}

	if opts.tlsConfig != nil {
		sslReq := proto.BuildSSLRequest(capabilities, proto.MaxPacketSize, hs.Charset)
		if err := c.pw.WritePacket(sslReq); err != nil {
			return &TransportError{Category: CategoryConnectivity, Message: "write SSLRequest", Err: err}
		}
		tlsConn := tls.Client(c.conn, opts.tlsConfig)
		if err := tlsConn.HandshakeContext(context.Background()); err != nil {
			return &TransportError{Category: CategoryConnectivity, Message: "TLS handshake", Err: err}
		}
		c.conn = tlsConn
		c.pr = proto.NewPacketReader(tlsConn, tlsConn, c.params.ReadTimeout)
		c.pw = proto.NewPacketWriter(tlsConn, tlsConn, c.params.WriteTimeout)
		c.pw.SyncSeq(c.pr)
	}

	plugin := hs.AuthPluginName
	if plugin == "" {
		plugin = proto.AuthNativePassword
	}
	authResp, err := computeAuthResponse(plugin, c.params.Password, hs.AuthPluginData)
	if err != nil {
		return &TransportError{Category: CategoryAuth, Message: "compute auth response", Err: err}
	}

	resp := proto.BuildHandshakeResponse41(proto.HandshakeResponseOptions{
		Capabilities: capabilities,
		MaxPacket:    proto.MaxPacketSize,
		Charset:      hs.Charset,
		User:         c.params.User,
		AuthResponse: authResp,
		Database:     c.params.Database,
		AuthPlugin:   plugin,
	})
	c.pw.SyncSeq(c.pr)
	if err := c.pw.WritePacket(resp); err != nil {
		return &TransportError{Category: CategoryConnectivity, Message: "write handshake response", Err: err}
	}
	c.capabilities = capabilities

	return c.finishAuth(plugin, hs.AuthPluginData)
}

// finishAuth drives the remainder of the auth exchange: plugin switches,
// and the caching_sha2_password fast/full-auth sub-exchange.
func (c *Connection) finishAuth(plugin string, salt []byte) error {
	for attempt := 0; attempt < 8; attempt++ {
		pkt, err := c.pr.ReadPacket()
		if err != nil {
			return &TransportError{Category: CategoryAuth, Message: "read auth response", Err: err}
		}
		if len(pkt) == 0 {
			return &TransportError{Category: CategoryAuth, Message: "empty auth response packet"}
		}
		switch pkt[0] {
		case 0x00: // OK
			return nil
		case 0xff:
			perr, err := proto.ParseErrPacket(pkt[1:], c.capabilities)
			if err != nil {
				return &TransportError{Category: CategoryAuth, Message: "parse ERR during auth", Err: err}
			}
			return &TransportError{Category: CategoryAuth, Message: perr.Message, Err: perr}
		case 0xfe: // AuthSwitchRequest or (bare) old-style auth switch
			name, rest, err := parseAuthSwitchRequest(pkt)
			if err != nil {
				return &TransportError{Category: CategoryAuth, Message: "parse AuthSwitchRequest", Err: err}
			}
			plugin = name
			salt = rest
			resp, err := computeAuthResponse(plugin, c.params.Password, salt)
			if err != nil {
				return &TransportError{Category: CategoryAuth, Message: "compute switched auth response", Err: err}
			}
			if err := c.pw.WritePacket(resp); err != nil {
				return &TransportError{Category: CategoryConnectivity, Message: "write auth switch response", Err: err}
			}
		case proto.CachingSHA2FastAuthSuccess:
			continue
		case proto.CachingSHA2FullAuthRequired:
			if err := c.performFullAuth(); err != nil {
				return err
			}
		default:
			return &TransportError{Category: CategoryAuth, Message: fmt.Sprintf("unexpected auth packet header 0x%02x", pkt[0])}
		}
	}
	return &TransportError{Category: CategoryAuth, Message: "auth exchange exceeded retry limit"}
}

// performFullAuth handles caching_sha2_password's full-auth path: over an
// already-TLS-protected connection the cleartext password is sent XOR'd
// against the original salt; a plaintext (non-TLS) connection would
// instead require an RSA-encrypted exchange against the server's public
// key, which this from-scratch client does not implement (TLS is assumed
// whenever caching_sha2_password's full-auth path is exercised).
func (c *Connection) performFullAuth() error {
	if _, isTLS := c.conn.(*tls.Conn); !isTLS {
		return &TransportError{Category: CategoryAuth, Message: "caching_sha2_password full authentication requires TLS in this driver"}
	}
	if err := c.pw.WritePacket([]byte{2}); err != nil { // request cleartext exchange
		return &TransportError{Category: CategoryConnectivity, Message: "write full-auth request", Err: err}
	}
	pkt, err := c.pr.ReadPacket()
	if err != nil {
		return &TransportError{Category: CategoryAuth, Message: "read full-auth ack", Err: err}
	}
	_ = pkt
	pw := append([]byte(c.params.Password), 0)
	return c.pw.WritePacket(pw)
}

func computeAuthResponse(plugin, password string, salt []byte) ([]byte, error) {
	switch plugin {
	case proto.AuthNativePassword:
		return proto.ScrambleNativePassword(password, salt), nil
	case proto.AuthCachingSHA2Password:
		return proto.ScrambleCachingSHA2Fast(password, salt), nil
	default:
		return nil, fmt.Errorf("unsupported auth plugin %q", plugin)
	}
}

func parseAuthSwitchRequest(pkt []byte) (plugin string, salt []byte, err error) {
	rest := pkt[1:]
	for i, b := range rest {
		if b == 0 {
			plugin = string(rest[:i])
			salt = rest[i+1:]
			for len(salt) > 0 && salt[len(salt)-1] == 0 {
				salt = salt[:len(salt)-1]
			}
			return plugin, salt, nil
		}
	}
	return "", nil, fmt.Errorf("AuthSwitchRequest: no plugin-name terminator")
}

// IsConnected reports whether Connect has succeeded and Close has not yet
// been called.
func (c *Connection) IsConnected() bool { return c.connected }

// LastError returns the most recent error recorded on this connection.
func (c *Connection) LastError() error { return c.lastErr }

// ServerVersion returns the version string the server reported at
// handshake time.
func (c *Connection) ServerVersion() string { return c.serverVersion }

// ConnectionID returns the server-assigned connection id.
func (c *Connection) ConnectionID() uint32 { return c.connectionID }

// Close sends a best-effort COM_QUIT and closes the socket exactly once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.connected {
			_ = c.pw.WritePacket([]byte{byte(proto.ComQuit)})
			c.connected = false
			c.isolationLevel = ""
			decLiveConn()
		}
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// Ping issues COM_PING and reports whether the server responded OK.
func (c *Connection) Ping(ctx context.Context) error {
	if !c.connected {
		return &TransportError{Category: CategoryConnectivity, Message: "not connected"}
	}
	c.pw.ResetSeq()
	c.pr.ResetSeq()
	if err := c.pw.WritePacket([]byte{byte(proto.ComPing)}); err != nil {
		return &TransportError{Category: CategoryConnectivity, Message: "write COM_PING", Err: err}
	}
	pkt, err := c.pr.ReadPacket()
	if err != nil {
		return &TransportError{Category: CategoryConnectivity, Message: "read COM_PING response", Err: err}
	}
	return checkOKOrErr(pkt, c.capabilities)
}

// EscapeString escapes s for safe inclusion inside single-quoted SQL
// literals, following the same backslash-escape table MySQL's C API uses.
func (c *Connection) EscapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case 0x1a:
			b.WriteString(`\Z`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EscapeIdentifier wraps s in backticks, doubling any internal backtick —
// adapted from the teacher's Generator.QuoteIdentifier.
func (c *Connection) EscapeIdentifier(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// FormatLiteral renders nv as a SQL-safe literal, per SPEC_FULL.md §4.2
// "Literal formatting".
func (c *Connection) FormatLiteral(nv value.NativeValue) (string, error) {
	if nv.Null {
		return "NULL", nil
	}
	switch nv.Kind {
	case value.KindBool:
		if nv.Bool() {
			return "TRUE", nil
		}
		return "FALSE", nil
	case value.KindInt8, value.KindInt16, value.KindInt32, value.KindInt64:
		return strconv.FormatInt(nv.Int64(), 10), nil
	case value.KindUint8, value.KindUint16, value.KindUint32, value.KindUint64:
		return strconv.FormatUint(nv.Uint64(), 10), nil
	case value.KindFloat32, value.KindFloat64:
		return strconv.FormatFloat(nv.Float64(), 'g', -1, 64), nil
	case value.KindString:
		if !c.connected {
			return "'" + weakEscape(nv.String()) + "' /* unescaped */", nil
		}
		return "'" + c.EscapeString(nv.String()) + "'", nil
	case value.KindBytes:
		if !c.connected {
			return "", &TransportError{Category: CategoryDriverInternal, Message: "cannot format blob literal without a live connection"}
		}
		return "X'" + hexString(nv.Bytes()) + "'", nil
	case value.KindTime:
		return formatTemporalLiteral(nv.Time())
	default:
		return "", &TransportError{Category: CategoryDriverInternal, Message: fmt.Sprintf("FormatLiteral: unsupported kind %v", nv.Kind)}
	}
}

func weakEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func hexString(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xf]
	}
	return string(out)
}

func formatTemporalLiteral(t value.MysqlTime) (string, error) {
	switch t.Kind {
	case value.TimeDate, value.TimeTime, value.TimeDateTime, value.TimeDateTimeWithZone:
		return "'" + proto.FormatMysqlTime(t) + "'", nil
	default:
		return "", &TransportError{Category: CategoryDriverInternal, Message: fmt.Sprintf("formatTemporalLiteral: unsupported kind %v", t.Kind)}
	}
}

// simpleQuery runs a COM_QUERY and fully drains its result stream
// (including CLIENT_MULTI_RESULTS chains), per SPEC_FULL.md §4.2
// "Internal simple-query helper".
func (c *Connection) simpleQuery(ctx context.Context, query string) (*Result, error) {
	c.pw.ResetSeq()
	c.pr.ResetSeq()
	payload := append([]byte{byte(proto.ComQuery)}, []byte(query)...)
	if err := c.pw.WritePacket(payload); err != nil {
		return nil, &TransportError{Category: CategoryConnectivity, Message: "write COM_QUERY", Err: err}
	}

	result, status, err := readQueryResultSet(c.pr, c.capabilities)
	if err != nil {
		return nil, err
	}
	for status&proto.StatusMoreResultsExist != 0 {
		result, status, err = readQueryResultSet(c.pr, c.capabilities)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// SimpleQuery exposes simpleQuery to package-external callers (statement.go,
// metadata listers) that need a single unprepared COM_QUERY round trip.
func (c *Connection) SimpleQuery(ctx context.Context, query string) (*Result, error) {
	return c.simpleQuery(ctx, query)
}

func (c *Connection) setNamesLocked(charset string) error {
	_, err := c.simpleQuery(context.Background(), "SET NAMES "+charset)
	return err
}

func (c *Connection) refreshIsolationLevel(ctx context.Context) error {
	res, err := c.simpleQuery(ctx, "SELECT @@transaction_isolation")
	if err != nil {
		return err
	}
	if res.RowCount() > 0 {
		row, _ := res.Row(0)
		if len(row) > 0 && !row[0].Null {
			c.isolationLevel = row[0].String()
		}
	}
	return nil
}

// IsolationLevel returns the cached session transaction isolation level.
func (c *Connection) IsolationLevel() string { return c.isolationLevel }
