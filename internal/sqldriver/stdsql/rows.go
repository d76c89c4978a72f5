package stdsql

import (
	"database/sql/driver"
	"io"

	mysql "sqldriver/internal/transport/mysql"
)

// rows implements driver.Rows over a materialized *mysql.Result, per
// SPEC_FULL.md §4.4: database/sql's Next just drives the Result's own
// Fetch cursor one row at a time.
type rows struct {
	result  *mysql.Result
	columns []string
}

func newRows(res *mysql.Result) *rows {
	fields := res.Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	return &rows{result: res, columns: cols}
}

func (r *rows) Columns() []string { return r.columns }

func (r *rows) Close() error { return r.result.Close() }

func (r *rows) Next(dest []driver.Value) error {
	row, err := r.result.Fetch()
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		if err != mysql.ErrRowTruncated {
			return err
		}
		// ErrRowTruncated accompanies a still-usable row (see Result.Fetch);
		// fall through and decode it.
	}
	for i, cell := range row {
		dv, err := nativeToDriverValue(cell)
		if err != nil {
			return err
		}
		dest[i] = dv
	}
	return nil
}
