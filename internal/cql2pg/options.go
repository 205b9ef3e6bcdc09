package cql2pg

import (
	"strings"

	"github.com/roach88/cql2pg/internal/cql"
	"github.com/roach88/cql2pg/internal/dbschema"
	"github.com/roach88/cql2pg/internal/sqlutil"
)

// DefaultColumn is the JSONB column used when Options.Column is empty.
const DefaultColumn = "jsonb"

// Options configures a Translator.
type Options struct {
	// Table qualifies every JSONB reference, as in instance.jsonb->>'title'.
	Table string

	// Column is the JSONB column. Defaults to DefaultColumn.
	Column string

	// Catalog declares field kinds, indexes and the primary key. Nil means
	// no field is declared.
	Catalog *dbschema.Catalog

	// ServerChoiceIndexes are searched by terms without an index. Nil
	// selects the list declared for the table in the catalog.
	ServerChoiceIndexes []string

	// MaxDepth bounds query nesting. Zero selects cql.DefaultMaxDepth.
	MaxDepth int

	// Formatter renders error messages. Nil renders English.
	Formatter cql.Formatter
}

// Translator compiles CQL for one table. It is immutable and safe for
// concurrent use.
type Translator struct {
	table        string
	column       string
	schema       *dbschema.Table
	serverChoice []string
	maxDepth     int
	formatter    cql.Formatter

	// tableWarning is reported with every result when a catalog is given
	// but does not declare the table.
	tableWarning string
}

// New validates opts and returns a Translator.
func New(opts Options) (*Translator, error) {
	t := &Translator{
		table:     strings.TrimSpace(opts.Table),
		column:    strings.TrimSpace(opts.Column),
		maxDepth:  opts.MaxDepth,
		formatter: opts.Formatter,
	}
	if t.column == "" {
		t.column = DefaultColumn
	}
	if t.maxDepth <= 0 {
		t.maxDepth = cql.DefaultMaxDepth
	}

	if t.table == "" {
		return nil, t.stamp(cql.Newf(cql.KindField, cql.MsgTableEmpty))
	}
	if err := sqlutil.ValidateIdentifier(t.table); err != nil {
		return nil, t.stamp(cql.Wrapf(cql.KindField, err, cql.MsgInvalidTable, t.table))
	}
	if err := sqlutil.ValidateIdentifier(t.column); err != nil {
		return nil, t.stamp(cql.Wrapf(cql.KindField, err, cql.MsgInvalidColumn, t.column))
	}

	if opts.Catalog != nil {
		schema, ok := opts.Catalog.Table(t.table)
		if ok {
			t.schema = schema
		} else {
			t.tableWarning = "table " + sqlutil.Quote(t.table) + " is not declared in the schema"
		}
	}

	serverChoice := opts.ServerChoiceIndexes
	if serverChoice == nil {
		serverChoice = t.schema.ServerChoiceIndexes()
	}
	for i, idx := range serverChoice {
		idx = strings.TrimSpace(idx)
		if idx == "" {
			return nil, t.stamp(cql.Newf(cql.KindServerChoiceIndexes, cql.MsgServerChoiceBlank, i+1))
		}
		if !dbschema.ValidFieldPath(idx) {
			return nil, t.stamp(cql.Newf(cql.KindServerChoiceIndexes, cql.MsgServerChoiceInvalid, idx))
		}
		t.serverChoice = append(t.serverChoice, idx)
	}

	return t, nil
}

// Table returns the table name.
func (t *Translator) Table() string {
	return t.table
}

// Column returns the JSONB column name.
func (t *Translator) Column() string {
	return t.column
}

// qualified returns table.column.
func (t *Translator) qualified() string {
	return t.table + "." + t.column
}

// primaryKey returns the declared primary key, or "".
func (t *Translator) primaryKey() string {
	return t.schema.PrimaryKey()
}

// stamp attaches the configured formatter to a translation error.
func (t *Translator) stamp(err error) error {
	if t.formatter == nil {
		return err
	}
	if e, ok := cql.AsError(err); ok {
		return e.WithFormatter(t.formatter)
	}
	return err
}
