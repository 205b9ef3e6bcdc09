package harness

import (
	"fmt"
	"reflect"
	"strings"
)

// AssertionError is returned when a case does not match its expectations.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Index    int    // Case index in the scenario
	CQL      string // The translated query
	Field    string // where, order_by, select, joins, warnings or error
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: cases[%d].%s\n", e.Index, e.Field)
	fmt.Fprintf(&buf, "  CQL: %s\n", e.CQL)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	return buf.String()
}

// EvaluateCase compares a translation with the case's expectations.
// Returns a slice of error messages for failed expectations.
func EvaluateCase(index int, c Case, r CaseResult) []string {
	var errs []string
	fail := func(field, expected, actual string) {
		errs = append(errs, (&AssertionError{
			Index:    index,
			CQL:      c.CQL,
			Field:    field,
			Expected: expected,
			Actual:   actual,
		}).Error())
	}

	if c.Error != nil {
		switch {
		case !r.Failed():
			fail("error", c.Error.Code, "translated to: "+r.Where)
		case r.ErrorCode != c.Error.Code:
			fail("error", c.Error.Code, r.ErrorCode+": "+r.ErrorMessage)
		case c.Error.Message != "" && r.ErrorMessage != c.Error.Message:
			fail("error", c.Error.Message, r.ErrorMessage)
		}
		return errs
	}

	if r.Failed() {
		fail("error", "no error", r.ErrorCode+": "+r.ErrorMessage)
		return errs
	}
	if c.Where != "" && c.Where != r.Where {
		fail("where", c.Where, r.Where)
	}
	if c.OrderBy != "" && c.OrderBy != r.OrderBy {
		fail("order_by", c.OrderBy, r.OrderBy)
	}
	if c.Select != "" && c.Select != r.Select {
		fail("select", c.Select, r.Select)
	}
	if c.Joins != nil && !sliceEqual(c.Joins, r.Joins) {
		fail("joins", fmt.Sprint(c.Joins), fmt.Sprint(r.Joins))
	}
	if c.Warnings != nil && !sliceEqual(c.Warnings, r.Warnings) {
		fail("warnings", fmt.Sprintf("%q", c.Warnings), fmt.Sprintf("%q", r.Warnings))
	}
	return errs
}

// sliceEqual treats nil and empty as equal.
func sliceEqual(expected, actual []string) bool {
	if len(expected) == 0 && len(actual) == 0 {
		return true
	}
	return reflect.DeepEqual(expected, actual)
}
