package stdsql

import (
	"context"
	"database/sql/driver"

	"sqldriver/internal/sqldriver"
	mysql "sqldriver/internal/transport/mysql"
	"sqldriver/internal/value"
)

// stmt implements driver.Stmt, driver.StmtExecContext and
// driver.StmtQueryContext over one transport Statement.
type stmt struct {
	driver *sqldriver.Driver
	stmt   *mysql.Statement
}

func (s *stmt) Close() error {
	return s.stmt.Close(context.Background())
}

func (s *stmt) NumInput() int {
	return s.stmt.ParamCount()
}

func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	sv, err := driverArgsToSQL(args)
	if err != nil {
		return nil, err
	}
	return s.exec(context.Background(), sv)
}

func (s *stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	sv, err := namedArgsToSQL(args)
	if err != nil {
		return nil, err
	}
	return s.exec(ctx, sv)
}

func (s *stmt) exec(ctx context.Context, sv []value.SqlValue) (driver.Result, error) {
	affected, lastID, err := s.driver.BindAndExecute(ctx, s.stmt, sv)
	if err != nil {
		return nil, err
	}
	return execResult{affected: affected, lastInsertID: lastID}, nil
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	sv, err := driverArgsToSQL(args)
	if err != nil {
		return nil, err
	}
	return s.query(context.Background(), sv)
}

func (s *stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	sv, err := namedArgsToSQL(args)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, sv)
}

func (s *stmt) query(ctx context.Context, sv []value.SqlValue) (driver.Rows, error) {
	res, err := s.driver.BindAndExecuteQuery(ctx, s.stmt, sv)
	if err != nil {
		return nil, err
	}
	return newRows(res), nil
}

// execResult implements driver.Result.
type execResult struct {
	affected     uint64
	lastInsertID uint64
}

func (r execResult) LastInsertId() (int64, error) { return int64(r.lastInsertID), nil }
func (r execResult) RowsAffected() (int64, error) { return int64(r.affected), nil }
