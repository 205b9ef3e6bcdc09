package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instanceSchema = "testdata/instance.json"

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestTranslate_Golden(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"translate_fulltext", `title adj "harry potter" sortBy count/sort.descending`},
		{"translate_arrays", "tags=fantasy AND contributors.name=rowling*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, "-t", "instance", "-b", instanceSchema, tt.query)
			require.NoError(t, err)
			newGoldie(t).Assert(t, tt.name, []byte(stdout))
		})
	}
}

func TestTranslate_NoSchema(t *testing.T) {
	stdout, stderr, err := execute(t, "-t", "users", "-f", "data", "name=Ann")
	require.NoError(t, err)
	assert.Equal(t, "select * from users where lower(f_unaccent(users.data->>'name')) = lower(f_unaccent('Ann'))\n", stdout)
	assert.Empty(t, stderr)
}

func TestTranslate_ServerChoiceFlag(t *testing.T) {
	stdout, _, err := execute(t, "-t", "users", "-s", "name,email", "ann")
	require.NoError(t, err)
	assert.Equal(t,
		"select * from users where (lower(f_unaccent(users.jsonb->>'name')) = lower(f_unaccent('ann'))) OR (lower(f_unaccent(users.jsonb->>'email')) = lower(f_unaccent('ann')))\n",
		stdout)
}

func TestTranslate_WarningsGoToStderr(t *testing.T) {
	stdout, stderr, err := execute(t, "-t", "instance", "-b", instanceSchema, "contributors.name=rowling*")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "without a gin or like index")
	assert.Contains(t, stderr, "WRN")
	assert.Contains(t, stderr, "LIKE search on contributors.name without a gin or like index")
}

func TestTranslate_VerboseLogsDebug(t *testing.T) {
	_, stderr, err := execute(t, "-v", "-t", "instance", "a=b")
	require.NoError(t, err)
	assert.Contains(t, stderr, "DBG")
	assert.Contains(t, stderr, "translating query")

	_, stderr, err = execute(t, "-t", "instance", "a=b")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "translating query")
}

func TestTranslate_JSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "-t", "instance", "-b", instanceSchema,
		"contributors.name=rowling* sortBy title")
	require.NoError(t, err)

	var resp struct {
		Status   string          `json:"status"`
		Data     TranslateOutput `json:"data"`
		Warnings []string        `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "lower(f_unaccent(contributors.value->>'name')) LIKE lower(f_unaccent('rowling%'))", resp.Data.Where)
	assert.Equal(t, "lower(f_unaccent(instance.jsonb->>'title'))", resp.Data.OrderBy)
	assert.Equal(t, []JoinOutput{{Alias: "contributors", Source: "instance.jsonb->'contributors'"}}, resp.Data.Joins)
	assert.Equal(t, []SortOutput{{Expr: "lower(f_unaccent(instance.jsonb->>'title'))"}}, resp.Data.Sort)
	assert.Contains(t, resp.Data.SQL, "LEFT JOIN jsonb_array_elements(instance.jsonb->'contributors') AS contributors ON true")
	assert.Contains(t, resp.Data.SQL, "select * from instance where instance.ctid in (select instance.ctid from instance LEFT JOIN")
	assert.Equal(t, []string{"LIKE search on contributors.name without a gin or like index"}, resp.Warnings)
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		exitCode int
		output   string
	}{
		{"missing table", []string{"a=b"}, ExitUsage, "Error [U001]: --table is required"},
		{"invalid table", []string{"-t", "bad-name", "a=b"}, ExitTranslation, "Error [CQL003]: invalid table name \"bad-name\""},
		{"parse error", []string{"-t", "instance", `title="open`}, ExitTranslation, "Error [CQL001]: unterminated quoted string"},
		{"unsupported", []string{"-t", "instance", "title within x"}, ExitTranslation, "Error [CQL002]: relation \"within\" is not implemented"},
		{"bad schema", []string{"-t", "instance", "-b", "testdata/bad_type.json", "a=b"}, ExitSchema, "Error [S004]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Contains(t, stdout, tt.output)
		})
	}
}

func TestTranslate_GermanErrors(t *testing.T) {
	stdout, _, err := execute(t, "--lang", "de", "-t", "instance", "-b", instanceSchema, "count=abc")
	require.Error(t, err)
	assert.Equal(t, ExitTranslation, GetExitCode(err))
	assert.Contains(t, stdout, `Error [CQL001]: "abc" ist keine Zahl`)
}

func TestTranslate_JSONError(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "-t", "instance", "title within x")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CQL002", resp.Error.Code)
}

func TestTranslate_MissingSchemaFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")
	stdout, stderr, err := execute(t, "-t", "instance", "-b", missing, "a=b")
	require.NoError(t, err)
	assert.Equal(t, "select * from instance where lower(f_unaccent(instance.jsonb->>'a')) = lower(f_unaccent('b'))\n", stdout)
	assert.Contains(t, stderr, "schema file not found")
}
