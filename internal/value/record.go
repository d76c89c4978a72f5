package value

import "fmt"

// Record is an ordered sequence of (FieldMeta, SqlValue) pairs supporting
// both ordinal and name lookup. When two columns share a display name,
// ByName resolves to the first ordinal occurrence.
type Record struct {
	fields []FieldMeta
	values []SqlValue
	index  map[string]int
}

// NewRecord builds a Record from parallel fields/values slices. Panics if
// the slices differ in length, which would be a caller bug (every
// production call site builds both slices together from the same fetch).
func NewRecord(fields []FieldMeta, values []SqlValue) *Record {
	if len(fields) != len(values) {
		panic(fmt.Sprintf("value: NewRecord field/value length mismatch: %d fields, %d values", len(fields), len(values)))
	}
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, exists := idx[f.Name]; !exists {
			idx[f.Name] = i
		}
	}
	return &Record{fields: fields, values: values, index: idx}
}

// Len returns the number of columns in the record.
func (r *Record) Len() int { return len(r.fields) }

// Field returns the FieldMeta at ordinal position i.
func (r *Record) Field(i int) FieldMeta { return r.fields[i] }

// Value returns the SqlValue at ordinal position i.
func (r *Record) Value(i int) SqlValue { return r.values[i] }

// Fields returns all column metadata in ordinal order.
func (r *Record) Fields() []FieldMeta { return r.fields }

// Values returns all column values in ordinal order.
func (r *Record) Values() []SqlValue { return r.values }

// ByName looks up a column by its display name, resolving to the first
// ordinal occurrence when duplicate names exist. ok is false when no
// column with that name exists.
func (r *Record) ByName(name string) (SqlValue, bool) {
	i, ok := r.index[name]
	if !ok {
		return SqlValue{}, false
	}
	return r.values[i], true
}

// Ordinal returns the ordinal position of the column named name, or -1.
func (r *Record) Ordinal(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	return -1
}
