package harness

import (
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/roach88/cql2pg/internal/cql"
	"github.com/roach88/cql2pg/internal/cql2pg"
	"github.com/roach88/cql2pg/internal/dbschema"
)

// Harness is the test execution engine for one scenario.
type Harness struct {
	translator *cql2pg.Translator
	logger     *slog.Logger
}

// New builds the translator a scenario describes.
func New(scenario *Scenario) (*Harness, error) {
	var catalog *dbschema.Catalog
	if scenario.Schema != "" {
		c, err := dbschema.LoadFile(scenario.Schema)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema: %w", err)
		}
		catalog = c
	}

	var formatter cql.Formatter
	if scenario.Lang != "" {
		formatter = cql.NewLocalizedFormatter(language.Make(scenario.Lang))
	}

	tr, err := cql2pg.New(cql2pg.Options{
		Table:               scenario.Table,
		Column:              scenario.Column,
		Catalog:             catalog,
		ServerChoiceIndexes: scenario.ServerChoice,
		Formatter:           formatter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	return &Harness{
		translator: tr,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}, nil
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Load the schema file, if any, and build the translator
// 2. Translate every case in order
// 3. Compare each translation with the case's expectations
// 4. Return result with pass/fail, translations, and errors
func Run(scenario *Scenario) (*Result, error) {
	h, err := New(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	for i, c := range scenario.Cases {
		cr := h.Translate(c.CQL)
		result.Cases = append(result.Cases, cr)
		for _, msg := range EvaluateCase(i, c, cr) {
			result.AddError(msg)
		}
	}
	return result, nil
}

// Translate translates one query and records the outcome.
func (h *Harness) Translate(query string) CaseResult {
	cr := CaseResult{CQL: query}
	res, err := h.translator.Translate(query)
	if err != nil {
		cr.ErrorCode, cr.ErrorMessage = "CQL000", err.Error()
		if e, ok := cql.AsError(err); ok {
			cr.ErrorCode, cr.ErrorMessage = e.Code(), e.Message()
		}
		h.logger.Debug("translation failed", "cql", query, "code", cr.ErrorCode)
		return cr
	}

	cr.Where = res.Where
	cr.OrderBy = res.OrderBy
	cr.Select = res.Select(h.translator.Table())
	cr.Joins = res.Aliases()
	cr.Warnings = res.Warnings
	h.logger.Debug("translated", "cql", query, "joins", len(cr.Joins))
	return cr
}
