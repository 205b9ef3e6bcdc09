package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders the translations of a result as stable text, one block
// per case:
//
//	== <cql>
//	where: <predicate>
//	order by: <keys>
//	select: <statement>
//	warning: <message>
//
// Failed cases render as "error: [CODE] message".
func Snapshot(scenarioName string, result *Result) []byte {
	var buf strings.Builder
	fmt.Fprintf(&buf, "# %s\n", scenarioName)
	for _, c := range result.Cases {
		fmt.Fprintf(&buf, "\n== %s\n", c.CQL)
		if c.Failed() {
			fmt.Fprintf(&buf, "error: [%s] %s\n", c.ErrorCode, c.ErrorMessage)
			continue
		}
		fmt.Fprintf(&buf, "where: %s\n", c.Where)
		if c.OrderBy != "" {
			fmt.Fprintf(&buf, "order by: %s\n", c.OrderBy)
		}
		fmt.Fprintf(&buf, "select: %s\n", c.Select)
		for _, w := range c.Warnings {
			fmt.Fprintf(&buf, "warning: %s\n", w)
		}
	}
	return []byte(buf.String())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file. The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares the given result's snapshot against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Snapshot(scenarioName, result))
}
