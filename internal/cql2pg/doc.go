// Package cql2pg compiles CQL queries into PostgreSQL predicates over a JSONB
// column.
//
// A Translator is configured once with a table, its JSONB column and an
// optional schema catalog, and can then translate any number of queries,
// concurrently if needed:
//
//	tr, err := cql2pg.New(cql2pg.Options{Table: "instance", Catalog: catalog})
//	res, err := tr.Translate(`title="harry potter" sortBy title`)
//	sql := res.Select("instance")
//
// Every literal is quoted with sqlutil.Quote and every generated identifier
// is validated, so user input cannot leave its string literal. Translation
// never logs; diagnostics are returned in Result.Warnings.
package cql2pg
