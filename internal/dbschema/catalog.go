package dbschema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/cql2pg/internal/sqlutil"
)

var fieldPath = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidFieldPath reports whether path is a dotted field name such as
// "title" or "identifiers.value".
func ValidFieldPath(path string) bool {
	return fieldPath.MatchString(path)
}

// File is the decoded form of a schema file.
type File struct {
	Tables []TableSpec `json:"tables"`
}

// TableSpec declares one table.
type TableSpec struct {
	TableName           string      `json:"tableName"`
	PrimaryKey          string      `json:"primaryKey,omitempty"`
	ServerChoiceIndexes []string    `json:"serverChoiceIndexes,omitempty"`
	Fields              []FieldSpec `json:"fields,omitempty"`
}

// FieldSpec declares one JSON field. Index and Indexes may be combined.
type FieldSpec struct {
	Path    string      `json:"path"`
	Type    Kind        `json:"type,omitempty"`
	Items   Kind        `json:"items,omitempty"`
	Index   *IndexSpec  `json:"index,omitempty"`
	Indexes []IndexSpec `json:"indexes,omitempty"`
}

// IndexSpec declares an index. Name defaults to <path>_idx_<type> with dots
// replaced by underscores.
type IndexSpec struct {
	Type IndexType `json:"type"`
	Name string    `json:"name,omitempty"`
}

// Field is a resolved field declaration.
type Field struct {
	Path string
	Kind Kind

	// Items is the element kind of an array field.
	Items Kind

	Indexes []Index
}

// Index is a declared index with its final name.
type Index struct {
	Type IndexType
	Name string
}

// Indexed reports whether any index is declared on the field.
func (f Field) Indexed() bool {
	return len(f.Indexes) > 0
}

// HasIndex reports whether an index of one of the given types is declared.
func (f Field) HasIndex(types ...IndexType) bool {
	for _, idx := range f.Indexes {
		for _, t := range types {
			if idx.Type == t {
				return true
			}
		}
	}
	return false
}

// IndexName returns the name of the first index of type t.
func (f Field) IndexName(t IndexType) (string, bool) {
	for _, idx := range f.Indexes {
		if idx.Type == t {
			return idx.Name, true
		}
	}
	return "", false
}

// Table is an immutable table declaration.
type Table struct {
	name                string
	primaryKey          string
	serverChoiceIndexes []string
	fields              map[string]Field
	order               []string
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// PrimaryKey returns the primary key column, or "" when none is declared.
func (t *Table) PrimaryKey() string {
	if t == nil {
		return ""
	}
	return t.primaryKey
}

// ServerChoiceIndexes returns a copy of the table's default index list.
func (t *Table) ServerChoiceIndexes() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.serverChoiceIndexes...)
}

// Field looks up a declared field by its dotted path.
func (t *Table) Field(path string) (Field, bool) {
	if t == nil {
		return Field{}, false
	}
	f, ok := t.fields[path]
	return f, ok
}

// Fields returns the declared fields in declaration order.
func (t *Table) Fields() []Field {
	if t == nil {
		return nil
	}
	out := make([]Field, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.fields[p])
	}
	return out
}

// Catalog maps table names to their declarations. A nil *Catalog is an empty
// catalog.
type Catalog struct {
	tables map[string]*Table
	order  []string
}

// NewCatalog validates the table declarations and builds a Catalog.
func NewCatalog(specs []TableSpec) (*Catalog, error) {
	c := &Catalog{tables: make(map[string]*Table, len(specs))}
	for i, spec := range specs {
		t, err := newTable(spec)
		if err != nil {
			return nil, fmt.Errorf("tables[%d]: %w", i, err)
		}
		key := strings.ToLower(t.name)
		if _, dup := c.tables[key]; dup {
			return nil, fmt.Errorf("tables[%d]: duplicate table %q", i, t.name)
		}
		c.tables[key] = t
		c.order = append(c.order, key)
	}
	return c, nil
}

func newTable(spec TableSpec) (*Table, error) {
	if err := sqlutil.ValidateIdentifier(spec.TableName); err != nil {
		return nil, fmt.Errorf("tableName: %w", err)
	}
	t := &Table{
		name:   spec.TableName,
		fields: make(map[string]Field, len(spec.Fields)),
	}
	if spec.PrimaryKey != "" {
		if err := sqlutil.ValidateIdentifier(spec.PrimaryKey); err != nil {
			return nil, fmt.Errorf("primaryKey: %w", err)
		}
		t.primaryKey = spec.PrimaryKey
	}
	for i, idx := range spec.ServerChoiceIndexes {
		if !ValidFieldPath(idx) {
			return nil, fmt.Errorf("serverChoiceIndexes[%d]: invalid field path %q", i, idx)
		}
	}
	t.serverChoiceIndexes = append([]string(nil), spec.ServerChoiceIndexes...)

	for i, fs := range spec.Fields {
		f, err := newField(fs)
		if err != nil {
			return nil, fmt.Errorf("fields[%d]: %w", i, err)
		}
		if _, dup := t.fields[f.Path]; dup {
			return nil, fmt.Errorf("fields[%d]: duplicate field %q", i, f.Path)
		}
		t.fields[f.Path] = f
		t.order = append(t.order, f.Path)
	}
	if err := t.checkIndexNames(); err != nil {
		return nil, err
	}
	return t, nil
}

// checkIndexNames rejects index relation names the server would truncate
// or that collide, since CREATE INDEX IF NOT EXISTS would skip the second.
func (t *Table) checkIndexNames() error {
	seen := make(map[string]string)
	for _, f := range t.Fields() {
		for _, idx := range f.Indexes {
			name := t.indexRelName(idx)
			if err := sqlutil.ValidateName(name); err != nil {
				return fmt.Errorf("field %q: index name: %w", f.Path, err)
			}
			key := strings.ToLower(name)
			if other, dup := seen[key]; dup {
				return fmt.Errorf("field %q: index name %q already used by field %q", f.Path, name, other)
			}
			seen[key] = f.Path
		}
	}
	return nil
}

// indexRelName is the name of the index relation in the database.
func (t *Table) indexRelName(idx Index) string {
	return t.name + "_" + idx.Name
}

func newField(spec FieldSpec) (Field, error) {
	if !ValidFieldPath(spec.Path) {
		return Field{}, fmt.Errorf("invalid field path %q", spec.Path)
	}
	f := Field{Path: spec.Path, Kind: spec.Type}
	if f.Kind == "" {
		f.Kind = KindString
	}
	if !f.Kind.Valid() {
		return Field{}, fmt.Errorf("field %q: unknown type %q", spec.Path, spec.Type)
	}

	if spec.Items != "" {
		if f.Kind != KindArray {
			return Field{}, fmt.Errorf("field %q: items requires type array", spec.Path)
		}
		if !spec.Items.Valid() || spec.Items == KindArray {
			return Field{}, fmt.Errorf("field %q: unsupported items type %q", spec.Path, spec.Items)
		}
		f.Items = spec.Items
	} else if f.Kind == KindArray {
		f.Items = KindString
	}

	indexes := spec.Indexes
	if spec.Index != nil {
		indexes = append([]IndexSpec{*spec.Index}, indexes...)
	}
	for _, is := range indexes {
		if !is.Type.Valid() {
			return Field{}, fmt.Errorf("field %q: unknown index type %q", spec.Path, is.Type)
		}
		name := is.Name
		if name == "" {
			name = DefaultIndexName(spec.Path, is.Type)
		}
		if err := sqlutil.ValidateIdentifier(name); err != nil {
			return Field{}, fmt.Errorf("field %q: index name: %w", spec.Path, err)
		}
		f.Indexes = append(f.Indexes, Index{Type: is.Type, Name: name})
	}
	return f, nil
}

// DefaultIndexName returns <path>_idx_<type> with dots replaced by
// underscores.
func DefaultIndexName(path string, t IndexType) string {
	return strings.ReplaceAll(path, ".", "_") + "_idx_" + string(t)
}

// Table looks up a table, ignoring case.
func (c *Catalog) Table(name string) (*Table, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.tables[strings.ToLower(name)]
	return t, ok
}

// Tables returns the tables in declaration order.
func (c *Catalog) Tables() []*Table {
	if c == nil {
		return nil
	}
	out := make([]*Table, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.tables[key])
	}
	return out
}
