package sqldriver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	proto "sqldriver/internal/protocol/mysql"
	mysql "sqldriver/internal/transport/mysql"
	"sqldriver/internal/transport/mysql/metadata"
	"sqldriver/internal/value"
)

// Version is build-time metadata only; no runtime branch consults it
// (SPEC_FULL.md §9 Open Questions).
const Version = "0.1.0"

// ConnectionParameters is the string-keyed generic configuration bag Open
// accepts, per SPEC_FULL.md §4.8 — the driver-facing counterpart to
// value.ConnectionParams, which is transport-internal and strongly typed.
// Recognized keys: host, port, user, password, database, unix_socket,
// charset, tls_mode, tls_ca, tls_cert, tls_key, connect_timeout,
// read_timeout, write_timeout (durations as e.g. "5s").
type ConnectionParameters map[string]string

// Driver presents the uniform query/result/metadata API described in
// SPEC_FULL.md §3: it owns one transport connection, a metadata façade over
// it, and a statement assembler, and caches the last failure so LastError
// has something to report.
type Driver struct {
	conn     *mysql.Connection
	facade   *metadata.Facade
	assembler *Assembler
	lastErr  DriverError
}

// New returns an unopened Driver. Call Open before issuing any query.
func New() *Driver {
	return &Driver{lastErr: noError}
}

// Open translates params into transport.ConnectionParams and connects, per
// SPEC_FULL.md §4.8. On success it materializes the metadata façade and a
// statement assembler bound to the same connection.
func (d *Driver) Open(ctx context.Context, params ConnectionParameters) error {
	cp, err := toConnectionParams(params)
	if err != nil {
		d.lastErr = classifyError(err)
		return err
	}

	conn := &mysql.Connection{}
	if err := conn.Connect(ctx, cp); err != nil {
		d.lastErr = classifyError(err)
		return err
	}

	d.conn = conn
	d.facade = metadata.NewFacade(conn)
	d.assembler = NewAssembler(conn)
	d.lastErr = noError
	return nil
}

// Close disposes the metadata façade and delegates to transport.Close.
// Per SPEC_FULL.md §4.8, error state from before Close is preserved unless
// Close itself fails.
func (d *Driver) Close() error {
	if d.facade != nil {
		_ = d.facade.Close()
		d.facade = nil
	}
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	if err != nil {
		d.lastErr = classifyError(err)
		return err
	}
	return nil
}

// LastError returns the cached DriverError from the most recent failed
// operation. Its Category is NoError until something has failed.
func (d *Driver) LastError() DriverError { return d.lastErr }

// Metadata returns the metadata façade materialized by Open.
func (d *Driver) Metadata() *metadata.Facade { return d.facade }

// Assembler returns the statement assembler bound to this connection.
func (d *Driver) Assembler() *Assembler { return d.assembler }

// Ping delegates to the transport connection's liveness check.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.conn.Ping(ctx); err != nil {
		d.lastErr = classifyError(err)
		return err
	}
	return nil
}

// Prepare prepares query against the underlying connection and returns the
// transport Statement, for callers (internal/sqldriver/stdsql) that need
// the statement's own NumInput/Exec/Query lifecycle rather than the Query
// convenience above.
func (d *Driver) Prepare(ctx context.Context, query string) (*mysql.Statement, error) {
	stmt := d.conn.NewStatement(query)
	if err := stmt.Prepare(ctx); err != nil {
		d.lastErr = classifyError(err)
		return nil, err
	}
	return stmt, nil
}

// Begin starts a transaction at the given isolation level ("" keeps the
// session default).
func (d *Driver) Begin(ctx context.Context, level mysql.IsolationLevel) error {
	if err := d.conn.Begin(ctx, level); err != nil {
		d.lastErr = classifyError(err)
		return err
	}
	return nil
}

// Commit commits the current transaction.
func (d *Driver) Commit(ctx context.Context) error {
	if err := d.conn.Commit(ctx); err != nil {
		d.lastErr = classifyError(err)
		return err
	}
	return nil
}

// Rollback rolls back the current transaction.
func (d *Driver) Rollback(ctx context.Context) error {
	if err := d.conn.Rollback(ctx, ""); err != nil {
		d.lastErr = classifyError(err)
		return err
	}
	return nil
}

// BindAndExecute converts sql args to native params and issues Execute
// (DML, no result set) against an already-prepared statement, returning
// affected rows and last insert id.
func (d *Driver) BindAndExecute(ctx context.Context, stmt *mysql.Statement, args []value.SqlValue) (uint64, uint64, error) {
	binds, err := toParamBinds(args)
	if err != nil {
		d.lastErr = classifyError(err)
		return 0, 0, err
	}
	affected, err := stmt.Execute(ctx, binds)
	if err != nil {
		d.lastErr = classifyError(err)
		return 0, 0, err
	}
	return affected, stmt.LastInsertID(), nil
}

// BindAndExecuteQuery converts sql args to native params and issues
// ExecuteQuery (a result-returning statement) against an already-prepared
// statement.
func (d *Driver) BindAndExecuteQuery(ctx context.Context, stmt *mysql.Statement, args []value.SqlValue) (*mysql.Result, error) {
	binds, err := toParamBinds(args)
	if err != nil {
		d.lastErr = classifyError(err)
		return nil, err
	}
	res, err := stmt.ExecuteQuery(ctx, binds)
	if err != nil {
		d.lastErr = classifyError(err)
		return nil, err
	}
	return res, nil
}

func toParamBinds(args []value.SqlValue) ([]proto.ParamBind, error) {
	binds := make([]proto.ParamBind, len(args))
	for i, sv := range args {
		nv, err := SQLToNative(sv)
		if err != nil {
			return nil, err
		}
		pb, err := proto.BuildParamBind(nv)
		if err != nil {
			return nil, err
		}
		binds[i] = pb
	}
	return binds, nil
}

// Query runs the full data-flow path described in SPEC_FULL.md §3: rewrite
// named placeholders to `?`-form, prepare, bind params in the recorded
// order, execute, and return the materialized Result. params is keyed by
// bind name; for SyntaxQuestion queries (no named placeholders) pass a nil
// map and bind values by position via ExecutePositional instead.
func (d *Driver) Query(ctx context.Context, query string, syntax PlaceholderSyntax, params map[string]value.SqlValue) (*mysql.Result, error) {
	rr, err := Rewrite(query, syntax)
	if err != nil {
		d.lastErr = classifyError(err)
		return nil, err
	}

	binds := make([]value.SqlValue, len(rr.Names))
	for i, name := range rr.Names {
		sv, ok := params[name]
		if !ok {
			err := fmt.Errorf("sqldriver: no value bound for named parameter %q", name)
			d.lastErr = classifyError(err)
			return nil, err
		}
		binds[i] = sv
	}

	return d.executePrepared(ctx, rr.Query, binds)
}

// ExecutePositional prepares and executes query (already in `?`-form) with
// binds applied in positional order, skipping the placeholder rewriter.
func (d *Driver) ExecutePositional(ctx context.Context, query string, binds []value.SqlValue) (*mysql.Result, error) {
	return d.executePrepared(ctx, query, binds)
}

func (d *Driver) executePrepared(ctx context.Context, query string, binds []value.SqlValue) (*mysql.Result, error) {
	stmt := d.conn.NewStatement(query)
	if err := stmt.Prepare(ctx); err != nil {
		d.lastErr = classifyError(err)
		return nil, err
	}
	defer stmt.Close(ctx)

	paramBinds, err := toParamBinds(binds)
	if err != nil {
		d.lastErr = classifyError(err)
		return nil, err
	}

	res, err := stmt.ExecuteQuery(ctx, paramBinds)
	if err != nil {
		d.lastErr = classifyError(err)
		return nil, err
	}
	d.lastErr = noError
	return res, nil
}

func toConnectionParams(params ConnectionParameters) (value.ConnectionParams, error) {
	cp := value.ConnectionParams{
		Host:     params["host"],
		User:     params["user"],
		Password: params["password"],
		Database: params["database"],
		Charset:  params["charset"],
	}
	cp.UnixSocket = params["unix_socket"]

	if p, ok := params["port"]; ok && p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return cp, fmt.Errorf("sqldriver: invalid port %q: %w", p, err)
		}
		cp.Port = port
	}

	cp.TLS.Mode = value.ParseTLSMode(params["tls_mode"])
	cp.TLS.CA = params["tls_ca"]
	cp.TLS.Cert = params["tls_cert"]
	cp.TLS.Key = params["tls_key"]

	for key, field := range map[string]*time.Duration{
		"connect_timeout": &cp.ConnectTimeout,
		"read_timeout":    &cp.ReadTimeout,
		"write_timeout":   &cp.WriteTimeout,
	} {
		raw, ok := params[key]
		if !ok || raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return cp, fmt.Errorf("sqldriver: invalid %s %q: %w", key, raw, err)
		}
		*field = d
	}

	return cp, nil
}
