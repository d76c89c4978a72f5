// Package stdsql adapts internal/sqldriver.Driver to the four
// database/sql/driver interfaces (Connector, Conn, Stmt, Rows), per
// SPEC_FULL.md §4.9, so a consumer can `sql.Open("sqldriver-mysql", dsn)`
// instead of calling the engine-agnostic driver API directly. It is a thin
// translation layer over §4.8; it never re-implements the wire protocol.
package stdsql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"

	"sqldriver/internal/sqldriver"
)

func init() {
	sql.Register("sqldriver-mysql", &sqlDriver{})
}

// sqlDriver implements driver.Driver and driver.DriverContext.
type sqlDriver struct{}

func (d *sqlDriver) Open(dsn string) (driver.Conn, error) {
	c, err := newConnector(dsn)
	if err != nil {
		return nil, err
	}
	return c.Connect(context.Background())
}

func (d *sqlDriver) OpenConnector(dsn string) (driver.Connector, error) {
	return newConnector(dsn)
}

// connector holds the parsed DSN and implements driver.Connector.
type connector struct {
	params sqldriver.ConnectionParameters
}

// newConnector parses a `key=value;key=value` DSN, grounded in the
// teacher's own flat config shapes (internal/parser/toml's decode-into-
// struct pattern, narrowed to a single-line string here since database/sql
// DSNs are strings by convention, not files).
func newConnector(dsn string) (*connector, error) {
	params := sqldriver.ConnectionParameters{}
	for _, pair := range strings.Split(dsn, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		key := strings.TrimSpace(kv[0])
		if key == "" {
			continue
		}
		var val string
		if len(kv) == 2 {
			val = strings.TrimSpace(kv[1])
		}
		params[key] = val
	}
	return &connector{params: params}, nil
}

func (c *connector) Connect(ctx context.Context) (driver.Conn, error) {
	d := sqldriver.New()
	if err := d.Open(ctx, c.params); err != nil {
		return nil, err
	}
	return &conn{driver: d}, nil
}

func (c *connector) Driver() driver.Driver { return &sqlDriver{} }
