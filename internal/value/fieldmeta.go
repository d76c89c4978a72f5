package value

// FieldMeta is the per-column structural description shared by the
// transport and driver layers: name, origin, native type, flags, length,
// decimals and character set. Field layout follows the same shape as the
// teacher's core.Column (name/type/flags/comment), generalized from a
// compile-time schema column to a runtime result column.
type FieldMeta struct {
	Name         string // display name (may be an alias)
	OrigName     string // underlying column name
	Table        string // display table name (may be an alias)
	OrigTable    string
	Database     string
	Catalog      string
	NativeType   uint16
	Charset      uint16
	Length       uint32 // declared length
	MaxLength    uint32 // max observed length in the current result
	Flags        ColumnFlag
	Decimals     uint8
	Default      NativeValue
	HasDefault   bool
}

func (f FieldMeta) IsPrimaryKey() bool    { return f.Flags.Has(FlagPriKey) }
func (f FieldMeta) IsNotNull() bool       { return f.Flags.Has(FlagNotNull) }
func (f FieldMeta) IsUnique() bool        { return f.Flags.Has(FlagUniqueKey) }
func (f FieldMeta) IsAutoIncrement() bool { return f.Flags.Has(FlagAutoIncrement) }
func (f FieldMeta) IsUnsigned() bool      { return f.Flags.Has(FlagUnsigned) }
func (f FieldMeta) IsBinary() bool        { return f.Flags.Has(FlagBinary) }
func (f FieldMeta) IsBlob() bool          { return f.Flags.Has(FlagBlob) }
func (f FieldMeta) IsZeroFill() bool      { return f.Flags.Has(FlagZeroFill) }
func (f FieldMeta) IsEnum() bool          { return f.Flags.Has(FlagEnum) }
func (f FieldMeta) IsSet() bool           { return f.Flags.Has(FlagSet) }
func (f FieldMeta) IsTimestamp() bool     { return f.Flags.Has(FlagTimestamp) }

// ReadOnly reports whether this column should never be included in a
// generated UPDATE's SET list: every primary-key column (auto-increment or
// not) is read-only to the statement assembler
// (internal/sqldriver/assembler.go), per SPEC_FULL.md §4.7.
func (f FieldMeta) ReadOnly() bool {
	return f.IsPrimaryKey()
}
