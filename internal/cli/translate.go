package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cql2pg/internal/cql"
	"github.com/roach88/cql2pg/internal/cql2pg"
	"github.com/roach88/cql2pg/internal/dbschema"
)

// ErrCodeUsage is reported for invalid flag combinations.
const ErrCodeUsage = "U001"

type translateOptions struct {
	Table        string
	Column       string
	SchemaFile   string
	ServerChoice []string
}

// TranslateOutput is the JSON payload of a successful translation.
type TranslateOutput struct {
	SQL     string       `json:"sql"`
	Where   string       `json:"where"`
	OrderBy string       `json:"order_by,omitempty"`
	Joins   []JoinOutput `json:"joins,omitempty"`
	Sort    []SortOutput `json:"sort,omitempty"`
}

// JoinOutput is one array unnesting join.
type JoinOutput struct {
	Alias  string `json:"alias"`
	Source string `json:"source"`
}

// SortOutput is one compiled sort key.
type SortOutput struct {
	Expr string `json:"expr"`
	Desc bool   `json:"desc,omitempty"`
}

func bindTranslateFlags(cmd *cobra.Command, o *translateOptions) {
	cmd.Flags().StringVarP(&o.Table, "table", "t", "", "table name (required)")
	cmd.Flags().StringVarP(&o.Column, "field", "f", cql2pg.DefaultColumn, "JSONB column")
	cmd.Flags().StringVarP(&o.SchemaFile, "schema", "b", "", "schema file (JSON or YAML)")
	cmd.Flags().StringSliceVarP(&o.ServerChoice, "server-choice", "s", nil, "server choice indexes, comma separated")
}

func runTranslate(opts *RootOptions, o *translateOptions, query string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	log := opts.logger()

	if strings.TrimSpace(o.Table) == "" {
		_ = formatter.Error(ErrCodeUsage, "--table is required", nil)
		return NewExitError(ExitUsage, "--table is required")
	}

	catalog, err := loadCatalog(o.SchemaFile, log)
	if err != nil {
		return outputSchemaError(formatter, err)
	}

	tr, err := cql2pg.New(cql2pg.Options{
		Table:               o.Table,
		Column:              o.Column,
		Catalog:             catalog,
		ServerChoiceIndexes: o.ServerChoice,
		Formatter:           opts.formatter(),
	})
	if err != nil {
		return outputTranslateError(formatter, err)
	}

	log.Debug("translating query", "table", tr.Table(), "column", tr.Column(), "query", query)
	res, err := tr.Translate(query)
	if err != nil {
		log.Debug("translation failed", "error", err)
		return outputTranslateError(formatter, err)
	}
	for _, w := range res.Warnings {
		log.Warn(w, "table", tr.Table())
	}
	log.Debug("translated", "joins", len(res.Joins), "sort_keys", len(res.Sort))

	sql := res.Select(tr.Table())
	if formatter.Format != "json" {
		return formatter.Success(sql)
	}
	return formatter.SuccessWithWarnings(newTranslateOutput(sql, res), res.Warnings)
}

// loadCatalog loads the schema file. A missing file is not an error: the
// query is translated without declared fields.
func loadCatalog(path string, log *slog.Logger) (*dbschema.Catalog, error) {
	if path == "" {
		return nil, nil
	}
	catalog, err := dbschema.LoadFile(path)
	if errors.Is(err, dbschema.ErrNotFound) {
		log.Warn("schema file not found, no fields are declared", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Debug("schema loaded", "path", path, "tables", len(catalog.Tables()))
	return catalog, nil
}

func newTranslateOutput(sql string, res *cql2pg.Result) TranslateOutput {
	out := TranslateOutput{SQL: sql, Where: res.Where, OrderBy: res.OrderBy}
	for _, j := range res.Joins {
		out.Joins = append(out.Joins, JoinOutput{Alias: j.Alias, Source: j.Source})
	}
	for _, k := range res.Sort {
		out.Sort = append(out.Sort, SortOutput{Expr: k.Expr, Desc: k.Desc})
	}
	return out
}

// outputTranslateError reports a translation error with its stable code.
func outputTranslateError(formatter *OutputFormatter, err error) error {
	code, message := "CQL000", err.Error()
	if e, ok := cql.AsError(err); ok {
		code, message = e.Code(), e.Message()
	}
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitTranslation, code, err)
}

// outputSchemaError reports a schema file that could not be loaded.
func outputSchemaError(formatter *OutputFormatter, err error) error {
	var loadErr *dbschema.LoadError
	if !errors.As(err, &loadErr) {
		_ = formatter.Error(dbschema.ErrCodeReadFailed, err.Error(), nil)
		return WrapExitError(ExitSchema, dbschema.ErrCodeReadFailed, err)
	}
	var details interface{}
	if loadErr.Pos.IsValid() {
		details = map[string]interface{}{
			"file":   loadErr.Pos.Filename(),
			"line":   loadErr.Pos.Line(),
			"column": loadErr.Pos.Column(),
		}
	}
	message := loadErr.Message
	if loadErr.Path != "" {
		message = fmt.Sprintf("%s: %s", loadErr.Path, loadErr.Message)
	}
	_ = formatter.Error(loadErr.Code, message, details)
	return WrapExitError(ExitSchema, loadErr.Code, err)
}
