// Package metadata implements the MySQL transport's SHOW-based metadata
// listers (databases, tables, columns, indexes), per SPEC_FULL.md §4.2.4.
// Each lister owns a non-owning connection reference and its own
// last-error field; Facade aggregates all four behind one type with
// contextually-prefixed errors ("listing tables: …").
package metadata

import (
	"context"
	"fmt"
	"strings"

	mysql "sqldriver/internal/transport/mysql"
)

// querier is the subset of *mysql.Connection the listers need. Declared
// as an interface so tests can stub it without a live connection.
type querier interface {
	SimpleQuery(ctx context.Context, query string) (*mysql.Result, error)
	EscapeIdentifier(s string) string
}

// DatabaseLister lists schemas visible to the current connection.
type DatabaseLister struct {
	conn     querier
	lastErr  error
}

// NewDatabaseLister wraps conn for database listing.
func NewDatabaseLister(conn querier) *DatabaseLister { return &DatabaseLister{conn: conn} }

// LastError returns the error from the most recent List call, if any.
func (l *DatabaseLister) LastError() error { return l.lastErr }

// List runs SHOW DATABASES, optionally restricted by a LIKE pattern. Per
// SPEC_FULL.md §4.2.4, the pattern is escaped so a literal backslash is not
// treated as a LIKE metacharacter, matching MySQL's documented escaping
// rules for this specific statement (SHOW DATABASES LIKE does not apply the
// usual ESCAPE '\' default the way WHERE-clause LIKE does).
func (l *DatabaseLister) List(ctx context.Context, pattern string) ([]string, error) {
	query := "SHOW DATABASES"
	if pattern != "" {
		query += " LIKE '" + escapeShowLikePattern(pattern) + "'"
	}
	res, err := l.conn.SimpleQuery(ctx, query)
	if err != nil {
		l.lastErr = fmt.Errorf("listing databases: %w", err)
		return nil, l.lastErr
	}
	names := make([]string, 0, res.RowCount())
	for i := 0; i < res.RowCount(); i++ {
		row, err := res.Row(i)
		if err != nil {
			l.lastErr = fmt.Errorf("listing databases: %w", err)
			return nil, l.lastErr
		}
		if len(row) > 0 && !row[0].Null {
			names = append(names, row[0].String())
		}
	}
	l.lastErr = nil
	return names, nil
}

// escapeShowLikePattern doubles backslashes so SHOW DATABASES LIKE treats
// them literally rather than as its own escape character.
func escapeShowLikePattern(pattern string) string {
	return strings.ReplaceAll(strings.ReplaceAll(pattern, "\\", "\\\\"), "'", "\\'")
}
