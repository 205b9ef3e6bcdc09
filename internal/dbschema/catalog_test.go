package dbschema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cql2pg/internal/sqlutil"
)

func instanceSpec() TableSpec {
	return TableSpec{
		TableName:           "instance",
		PrimaryKey:          "id",
		ServerChoiceIndexes: []string{"title"},
		Fields: []FieldSpec{
			{Path: "title", Index: &IndexSpec{Type: IndexFullText}},
			{Path: "count", Type: KindNumber, Indexes: []IndexSpec{{Type: IndexBtree}}},
			{Path: "tags", Type: KindArray},
			{Path: "ids", Type: KindArray, Items: KindObject},
		},
	}
}

func TestNewCatalog_Lookup(t *testing.T) {
	c, err := NewCatalog([]TableSpec{instanceSpec()})
	require.NoError(t, err)

	tbl, ok := c.Table("INSTANCE")
	require.True(t, ok)
	assert.Equal(t, "instance", tbl.Name())
	assert.Equal(t, "id", tbl.PrimaryKey())
	assert.Equal(t, []string{"title"}, tbl.ServerChoiceIndexes())

	title, ok := tbl.Field("title")
	require.True(t, ok)
	assert.Equal(t, KindString, title.Kind)
	assert.True(t, title.Indexed())
	assert.True(t, title.HasIndex(IndexFullText))
	assert.False(t, title.HasIndex(IndexBtree, IndexGin))
	name, ok := title.IndexName(IndexFullText)
	require.True(t, ok)
	assert.Equal(t, "title_idx_fulltext", name)

	tags, _ := tbl.Field("tags")
	assert.Equal(t, KindArray, tags.Kind)
	assert.Equal(t, KindString, tags.Items, "array items default to string")

	ids, _ := tbl.Field("ids")
	assert.Equal(t, KindObject, ids.Items)

	_, ok = tbl.Field("missing")
	assert.False(t, ok)

	_, ok = c.Table("holdings")
	assert.False(t, ok)
}

func TestNewCatalog_FieldOrderAndCopies(t *testing.T) {
	c, err := NewCatalog([]TableSpec{instanceSpec()})
	require.NoError(t, err)
	tbl, _ := c.Table("instance")

	var paths []string
	for _, f := range tbl.Fields() {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"title", "count", "tags", "ids"}, paths)

	sc := tbl.ServerChoiceIndexes()
	sc[0] = "mutated"
	assert.Equal(t, []string{"title"}, tbl.ServerChoiceIndexes())
}

func TestCatalog_NilIsEmpty(t *testing.T) {
	var c *Catalog
	_, ok := c.Table("instance")
	assert.False(t, ok)
	assert.Nil(t, c.Tables())

	var tbl *Table
	_, ok = tbl.Field("title")
	assert.False(t, ok)
	assert.Equal(t, "", tbl.PrimaryKey())
}

func TestNewCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name string
		spec TableSpec
		want string
	}{
		{"bad table", TableSpec{TableName: "1instance"}, "tableName"},
		{"bad primary key", TableSpec{TableName: "t", PrimaryKey: "id-x"}, "primaryKey"},
		{"bad server choice", TableSpec{TableName: "t", ServerChoiceIndexes: []string{"a..b"}}, "serverChoiceIndexes[0]"},
		{"bad path", TableSpec{TableName: "t", Fields: []FieldSpec{{Path: "a b"}}}, "invalid field path"},
		{"bad kind", TableSpec{TableName: "t", Fields: []FieldSpec{{Path: "a", Type: "float"}}}, "unknown type"},
		{"items without array", TableSpec{TableName: "t", Fields: []FieldSpec{{Path: "a", Items: KindString}}}, "items requires type array"},
		{"nested array items", TableSpec{TableName: "t", Fields: []FieldSpec{{Path: "a", Type: KindArray, Items: KindArray}}}, "unsupported items"},
		{"bad index type", TableSpec{TableName: "t", Fields: []FieldSpec{{Path: "a", Index: &IndexSpec{Type: "hash"}}}}, "unknown index type"},
		{"bad index name", TableSpec{TableName: "t", Fields: []FieldSpec{{Path: "a", Index: &IndexSpec{Type: IndexGin, Name: "x-y"}}}}, "index name"},
		{"duplicate field", TableSpec{TableName: "t", Fields: []FieldSpec{{Path: "a"}, {Path: "a"}}}, "duplicate field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog([]TableSpec{tt.spec})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewCatalog_DuplicateTableIgnoresCase(t *testing.T) {
	_, err := NewCatalog([]TableSpec{{TableName: "instance"}, {TableName: "Instance"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate table")
}

func TestNewCatalog_LongDefaultIndexName(t *testing.T) {
	path := strings.Repeat("a", 40)
	_, err := NewCatalog([]TableSpec{{
		TableName: "t",
		Fields:    []FieldSpec{{Path: path, Index: &IndexSpec{Type: IndexFullText}}},
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, sqlutil.ErrInvalidIdentifier)
}

func TestValidFieldPath(t *testing.T) {
	for _, p := range []string{"title", "a.b.c", "_x", "contributors.name", "a1.b2"} {
		assert.True(t, ValidFieldPath(p), p)
	}
	for _, p := range []string{"", ".a", "a.", "a..b", "1a", "a-b", "a b", "a'b", "a.*"} {
		assert.False(t, ValidFieldPath(p), p)
	}
}

func TestDefaultIndexName(t *testing.T) {
	assert.Equal(t, "contributors_name_idx_btree", DefaultIndexName("contributors.name", IndexBtree))
}
