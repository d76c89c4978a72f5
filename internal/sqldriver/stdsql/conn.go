package stdsql

import (
	"context"
	"database/sql/driver"
	"errors"

	"sqldriver/internal/sqldriver"
	mysql "sqldriver/internal/transport/mysql"
)

// conn implements driver.Conn, driver.ConnPrepareContext, driver.Pinger and
// driver.ConnBeginTx over one sqldriver.Driver.
type conn struct {
	driver *sqldriver.Driver
}

func (c *conn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

func (c *conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	s, err := c.driver.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	return &stmt{driver: c.driver, stmt: s}, nil
}

func (c *conn) Close() error {
	return c.driver.Close()
}

// Begin is required by driver.Conn; database/sql prefers BeginTx when
// available, which this conn also implements.
func (c *conn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	level, err := isolationFromDriver(opts.Isolation)
	if err != nil {
		return nil, err
	}
	if err := c.driver.Begin(ctx, level); err != nil {
		return nil, err
	}
	return &tx{driver: c.driver}, nil
}

func (c *conn) Ping(ctx context.Context) error {
	return c.driver.Ping(ctx)
}

func isolationFromDriver(level driver.IsolationLevel) (mysql.IsolationLevel, error) {
	switch level {
	case driver.IsolationLevel(0): // sql.LevelDefault
		return "", nil
	case driver.IsolationLevel(1): // sql.LevelReadUncommitted
		return mysql.IsolationReadUncommitted, nil
	case driver.IsolationLevel(2): // sql.LevelReadCommitted
		return mysql.IsolationReadCommitted, nil
	case driver.IsolationLevel(4): // sql.LevelRepeatableRead
		return mysql.IsolationRepeatableRead, nil
	case driver.IsolationLevel(6): // sql.LevelSerializable
		return mysql.IsolationSerializable, nil
	default:
		return "", errors.New("stdsql: unsupported isolation level")
	}
}

// tx implements driver.Tx.
type tx struct {
	driver *sqldriver.Driver
}

func (t *tx) Commit() error { return t.driver.Commit(context.Background()) }

func (t *tx) Rollback() error { return t.driver.Rollback(context.Background()) }
