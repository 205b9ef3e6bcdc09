package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cql2pg/internal/cql2pg"
	"github.com/roach88/cql2pg/internal/dbschema"
)

// SchemaSummary is the JSON payload of schema validate.
type SchemaSummary struct {
	Valid  bool           `json:"valid"`
	Tables []TableSummary `json:"tables"`
}

// TableSummary describes one declared table.
type TableSummary struct {
	Name         string         `json:"name"`
	PrimaryKey   string         `json:"primary_key,omitempty"`
	ServerChoice []string       `json:"server_choice,omitempty"`
	Fields       []FieldSummary `json:"fields"`
}

// FieldSummary describes one declared field.
type FieldSummary struct {
	Path    string   `json:"path"`
	Type    string   `json:"type"`
	Items   string   `json:"items,omitempty"`
	Indexes []string `json:"indexes,omitempty"`
}

// NewSchemaCommand creates the schema command group.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect schema files",
	}
	cmd.AddCommand(newSchemaValidateCommand(rootOpts))
	cmd.AddCommand(newSchemaDDLCommand(rootOpts))
	return cmd
}

func newSchemaValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a schema file and summarize its tables",
		Long: `Validate a JSON or YAML schema file against the table schema and print
the declared tables, fields and indexes.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaValidate(rootOpts, args[0], cmd)
		},
	}
}

func runSchemaValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	catalog, err := dbschema.LoadFile(path)
	if err != nil {
		return outputSchemaError(formatter, err)
	}
	opts.logger().Debug("schema loaded", "path", path, "tables", len(catalog.Tables()))

	summary := summarize(catalog)
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	writeSummary(formatter.Writer, path, summary)
	return nil
}

func summarize(catalog *dbschema.Catalog) SchemaSummary {
	summary := SchemaSummary{Valid: true, Tables: []TableSummary{}}
	for _, t := range catalog.Tables() {
		ts := TableSummary{
			Name:         t.Name(),
			PrimaryKey:   t.PrimaryKey(),
			ServerChoice: t.ServerChoiceIndexes(),
			Fields:       []FieldSummary{},
		}
		for _, f := range t.Fields() {
			fs := FieldSummary{Path: f.Path, Type: string(f.Kind), Items: string(f.Items)}
			for _, idx := range f.Indexes {
				fs.Indexes = append(fs.Indexes, string(idx.Type))
			}
			ts.Fields = append(ts.Fields, fs)
		}
		summary.Tables = append(summary.Tables, ts)
	}
	return summary
}

func writeSummary(w io.Writer, path string, s SchemaSummary) {
	fmt.Fprintf(w, "✓ %s: %d table(s)\n", path, len(s.Tables))
	for _, t := range s.Tables {
		fmt.Fprintf(w, "%s\n", t.Name)
		if t.PrimaryKey != "" {
			fmt.Fprintf(w, "  primary key: %s\n", t.PrimaryKey)
		}
		if len(t.ServerChoice) > 0 {
			fmt.Fprintf(w, "  server choice: %s\n", strings.Join(t.ServerChoice, ", "))
		}
		for _, f := range t.Fields {
			kind := f.Type
			if f.Items != "" {
				kind += "<" + f.Items + ">"
			}
			line := fmt.Sprintf("  %s %s", f.Path, kind)
			if len(f.Indexes) > 0 {
				line += " [" + strings.Join(f.Indexes, ", ") + "]"
			}
			fmt.Fprintln(w, line)
		}
	}
}

func newSchemaDDLCommand(rootOpts *RootOptions) *cobra.Command {
	var table, column string
	cmd := &cobra.Command{
		Use:   "ddl <file>",
		Short: "Print CREATE INDEX statements for a table",
		Long: `Print the CREATE INDEX statements for the indexes a schema file declares
on one table. The expressions match the SQL the translator emits, so the
indexes are usable by translated queries.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaDDL(rootOpts, args[0], table, column, cmd)
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "table name (required)")
	cmd.Flags().StringVarP(&column, "field", "f", cql2pg.DefaultColumn, "JSONB column")
	return cmd
}

func runSchemaDDL(opts *RootOptions, path, table, column string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	if strings.TrimSpace(table) == "" {
		_ = formatter.Error(ErrCodeUsage, "--table is required", nil)
		return NewExitError(ExitUsage, "--table is required")
	}

	catalog, err := dbschema.LoadFile(path)
	if err != nil {
		return outputSchemaError(formatter, err)
	}
	t, ok := catalog.Table(table)
	if !ok {
		message := fmt.Sprintf("table %q is not declared in %s", table, path)
		_ = formatter.Error(dbschema.ErrCodeCatalog, message, nil)
		return NewExitError(ExitSchema, message)
	}
	stmts, err := t.IndexDDL(column)
	if err != nil {
		_ = formatter.Error(ErrCodeUsage, err.Error(), nil)
		return WrapExitError(ExitUsage, "invalid column", err)
	}
	opts.logger().Debug("rendered index DDL", "table", t.Name(), "statements", len(stmts))

	if formatter.Format == "json" {
		if stmts == nil {
			stmts = []string{}
		}
		return formatter.Success(map[string]interface{}{"table": t.Name(), "statements": stmts})
	}
	for _, s := range stmts {
		fmt.Fprintln(formatter.Writer, s)
	}
	return nil
}
