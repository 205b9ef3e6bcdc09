package cql2pg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/cql2pg/internal/dbschema"
)

func testCatalog(t *testing.T) *dbschema.Catalog {
	t.Helper()
	c, err := dbschema.NewCatalog([]dbschema.TableSpec{{
		TableName:           "instance",
		PrimaryKey:          "id",
		ServerChoiceIndexes: []string{"title", "contributors.name"},
		Fields: []dbschema.FieldSpec{
			{Path: "title", Indexes: []dbschema.IndexSpec{{Type: dbschema.IndexFullText}, {Type: dbschema.IndexGin}}},
			{Path: "hrid", Index: &dbschema.IndexSpec{Type: dbschema.IndexLike}},
			{Path: "notes"},
			{Path: "count", Type: dbschema.KindNumber, Index: &dbschema.IndexSpec{Type: dbschema.IndexBtree}},
			{Path: "price", Type: dbschema.KindNumber},
			{Path: "staffSuppress", Type: dbschema.KindBoolean},
			{Path: "tags", Type: dbschema.KindArray, Index: &dbschema.IndexSpec{Type: dbschema.IndexGin}},
			{Path: "ratings", Type: dbschema.KindArray, Items: dbschema.KindNumber},
			{Path: "contributors", Type: dbschema.KindArray, Items: dbschema.KindObject},
			{Path: "contributors.name"},
			{Path: "publication", Type: dbschema.KindObject},
			{Path: "publication.year", Type: dbschema.KindNumber},
		},
	}})
	require.NoError(t, err)
	return c
}

// newTranslator builds a Translator for the instance table.
func newTranslator(t *testing.T, opts Options) *Translator {
	t.Helper()
	if opts.Table == "" {
		opts.Table = "instance"
	}
	tr, err := New(opts)
	require.NoError(t, err)
	return tr
}

func schemaTranslator(t *testing.T) *Translator {
	t.Helper()
	return newTranslator(t, Options{Catalog: testCatalog(t)})
}

func translate(t *testing.T, tr *Translator, query string) *Result {
	t.Helper()
	res, err := tr.Translate(query)
	require.NoError(t, err, query)
	return res
}

func where(t *testing.T, tr *Translator, query string) string {
	t.Helper()
	return translate(t, tr, query).Where
}
