package cql2pg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cql2pg/internal/dbschema"
	"github.com/roach88/cql2pg/internal/sqlutil"
)

func TestResolve_ArrayAliases(t *testing.T) {
	tr := schemaTranslator(t)

	res := translate(t, tr, "tags=a")
	assert.Equal(t, []Join{{Alias: "tags", Source: "instance.jsonb->'tags'"}}, res.Joins)
	assert.Equal(t, "lower(f_unaccent(tags.value #>> '{}')) = lower(f_unaccent('a'))", res.Where)

	res = translate(t, tr, "tags=a OR tags=b")
	assert.Equal(t, []string{"tags", "tags2"}, res.Aliases())
	assert.Equal(t,
		"(lower(f_unaccent(tags.value #>> '{}')) = lower(f_unaccent('a'))) OR "+
			"(lower(f_unaccent(tags2.value #>> '{}')) = lower(f_unaccent('b')))",
		res.Where)
}

func TestResolve_FieldInsideArrayElements(t *testing.T) {
	tr := schemaTranslator(t)
	res := translate(t, tr, "contributors.name=smith AND contributors.name=jones")
	assert.Equal(t, []Join{
		{Alias: "contributors", Source: "instance.jsonb->'contributors'"},
		{Alias: "contributors2", Source: "instance.jsonb->'contributors'"},
	}, res.Joins)
	assert.Equal(t,
		"(lower(f_unaccent(contributors.value->>'name')) = lower(f_unaccent('smith'))) AND "+
			"(lower(f_unaccent(contributors2.value->>'name')) = lower(f_unaccent('jones')))",
		res.Where)
}

func TestResolve_UndeclaredFieldsNeverFail(t *testing.T) {
	tr := schemaTranslator(t)
	assert.Equal(t, "lower(f_unaccent(instance.jsonb->'x'->>'y')) = lower(f_unaccent('z'))", where(t, tr, "x.y=z"))
	assert.Equal(t, "lower(f_unaccent(tags.value->>'sub')) = lower(f_unaccent('z'))", where(t, tr, "tags.sub=z"))
}

func TestResolve_AliasAvoidsTableAndKeywords(t *testing.T) {
	c, err := dbschema.NewCatalog([]dbschema.TableSpec{{
		TableName: "items",
		Fields: []dbschema.FieldSpec{
			{Path: "items", Type: dbschema.KindArray},
			{Path: "order", Type: dbschema.KindArray},
			{Path: "meta.Order", Type: dbschema.KindArray},
		},
	}})
	require.NoError(t, err)
	tr := newTranslator(t, Options{Table: "items", Catalog: c})

	res := translate(t, tr, "items=a AND order=b AND meta.Order=c")
	assert.Equal(t, []Join{
		{Alias: "items2", Source: "items.jsonb->'items'"},
		{Alias: "order2", Source: "items.jsonb->'order'"},
		{Alias: "order3", Source: "items.jsonb->'meta'->'Order'"},
	}, res.Joins)
}

func TestResolve_NestedArrays(t *testing.T) {
	c, err := dbschema.NewCatalog([]dbschema.TableSpec{{
		TableName: "instance",
		Fields: []dbschema.FieldSpec{
			{Path: "holdings", Type: dbschema.KindArray, Items: dbschema.KindObject},
			{Path: "holdings.items", Type: dbschema.KindArray, Items: dbschema.KindObject},
			{Path: "holdings.items.barcode"},
		},
	}})
	require.NoError(t, err)
	tr := newTranslator(t, Options{Catalog: c})

	res := translate(t, tr, "holdings.items.barcode=123")
	assert.Equal(t, []Join{
		{Alias: "holdings", Source: "instance.jsonb->'holdings'"},
		{Alias: "items", Source: "holdings.value->'items'"},
	}, res.Joins)
	assert.Equal(t, "lower(f_unaccent(items.value->>'barcode')) = lower(f_unaccent('123'))", res.Where)
}

func TestResolve_LongArraySegments(t *testing.T) {
	long49 := strings.Repeat("a", 49)
	long50 := strings.Repeat("b", 50)
	c, err := dbschema.NewCatalog([]dbschema.TableSpec{{
		TableName: "instance",
		Fields: []dbschema.FieldSpec{
			{Path: long49, Type: dbschema.KindArray},
			{Path: long50, Type: dbschema.KindArray},
		},
	}})
	require.NoError(t, err)
	tr := newTranslator(t, Options{Catalog: c})

	res := translate(t, tr, long49+"=x or "+long49+"=y or "+long50+"=z or "+long50+"=w")
	assert.Equal(t, []string{
		long49,
		strings.Repeat("a", 48) + "2",
		strings.Repeat("b", 49),
		strings.Repeat("b", 48) + "2",
	}, res.Aliases())
	for _, alias := range res.Aliases() {
		assert.NoError(t, sqlutil.ValidateIdentifier(alias))
	}
}
