package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Passes(t *testing.T) {
	scenario := &Scenario{
		Name:        "inline",
		Description: "inline scenario",
		Table:       "users",
		Cases: []Case{
			{CQL: "age > 3", Where: "(users.jsonb->>'age')::numeric > '3'"},
			{CQL: "a=b sortBy c", OrderBy: "lower(f_unaccent(users.jsonb->>'c'))", Warnings: []string{}},
			{CQL: "(", Error: &ExpectError{Code: "CQL001"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Cases, 3)
	assert.Equal(t, "select * from users where (users.jsonb->>'age')::numeric > '3'", result.Cases[0].Select)
	assert.True(t, result.Cases[2].Failed())
}

func TestRun_ReportsMismatches(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "expectations that do not hold",
		Table:       "users",
		Cases: []Case{
			{CQL: "a=b", Where: "wrong"},
			{CQL: "a=b", Error: &ExpectError{Code: "CQL001"}},
			{CQL: "a within b", Where: "x"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "cases[0].where")
	assert.Contains(t, result.Errors[1], "cases[1].error")
	assert.Contains(t, result.Errors[2], "CQL002")
}

func TestRun_InvalidTranslatorOptions(t *testing.T) {
	_, err := Run(&Scenario{Name: "n", Description: "d", Table: "bad-table"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create translator")
}

func TestRun_BadSchema(t *testing.T) {
	_, err := Run(&Scenario{
		Name:        "n",
		Description: "d",
		Table:       "instance",
		Schema:      filepath.Join("..", "dbschema", "testdata", "bad_type.json"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestRun_Scenarios(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestHarness_Translate(t *testing.T) {
	h, err := New(&Scenario{Table: "users", Lang: "de"})
	require.NoError(t, err)

	cr := h.Translate("a=b")
	assert.False(t, cr.Failed())
	assert.Equal(t, "a=b", cr.CQL)
	assert.Empty(t, cr.Joins)

	cr = h.Translate("")
	assert.True(t, cr.Failed())
	assert.Equal(t, "CQL001", cr.ErrorCode)
	assert.Equal(t, "leere Abfrage", cr.ErrorMessage)
}
