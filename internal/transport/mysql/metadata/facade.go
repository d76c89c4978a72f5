package metadata

import (
	"context"

	"sqldriver/internal/value"
)

// Facade aggregates all four metadata listers behind one connection
// reference, per SPEC_FULL.md §4.2.4 and §4.8 ("on success it materialises
// a metadata façade").
type Facade struct {
	databases *DatabaseLister
	tables    *TableLister
	columns   *ColumnLister
	indexes   *IndexLister
}

// NewFacade builds a Facade over conn.
func NewFacade(conn querier) *Facade {
	return &Facade{
		databases: NewDatabaseLister(conn),
		tables:    NewTableLister(conn),
		columns:   NewColumnLister(conn),
		indexes:   NewIndexLister(conn),
	}
}

// Databases lists schemas, optionally restricted by a LIKE pattern.
func (f *Facade) Databases(ctx context.Context, pattern string) ([]string, error) {
	return f.databases.List(ctx, pattern)
}

// Tables lists tables/views in database, filtered by name pattern and kind.
func (f *Facade) Tables(ctx context.Context, database, namePattern string, kind TableKind) ([]TableInfo, error) {
	return f.tables.List(ctx, database, namePattern, kind)
}

// Columns lists database.table's columns.
func (f *Facade) Columns(ctx context.Context, database, table string) ([]value.FieldMeta, error) {
	return f.columns.List(ctx, database, table)
}

// Indexes lists database.table's indexes.
func (f *Facade) Indexes(ctx context.Context, database, table string) ([]value.IndexInfo, error) {
	return f.indexes.List(ctx, database, table)
}

// Close releases the façade's listers. Listers hold no resources of their
// own beyond the shared connection reference, so Close is a no-op kept for
// symmetry with the connection lifecycle described in SPEC_FULL.md §4.8
// ("Close ... disposes the metadata façade").
func (f *Facade) Close() error { return nil }
