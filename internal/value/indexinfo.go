package value

// IndexMethod is the storage method an index uses (BTREE, HASH, …).
type IndexMethod string

const (
	IndexBTree    IndexMethod = "BTREE"
	IndexHash     IndexMethod = "HASH"
	IndexFullText IndexMethod = "FULLTEXT"
	IndexSpatial  IndexMethod = "SPATIAL"
)

// IndexColumn describes one column's participation in an index.
type IndexColumn struct {
	Name       string
	Sequence   int // 1-based position within the index (Seq_in_index)
	Collation  string
	Cardinality *int64
	SubPart    *int64
	Nullable   bool
	Expression string // non-empty for functional/expression index parts
}

// IndexInfo describes one index on one table, with its columns ordered by
// Sequence (callers must not assume SHOW INDEX's row order already matches
// this; the lister in internal/transport/mysql/metadata is responsible for
// sorting before constructing IndexInfo).
type IndexInfo struct {
	Table        string
	Name         string
	Method       IndexMethod
	Unique       bool
	Visible      bool
	Comment      string
	IndexComment string
	Columns      []IndexColumn
}

// IsPrimary reports whether this is the table's primary key index.
func (i IndexInfo) IsPrimary() bool { return i.Name == "PRIMARY" }
