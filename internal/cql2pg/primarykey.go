package cql2pg

import (
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/cql2pg/internal/cql"
	"github.com/roach88/cql2pg/internal/sqlutil"
)

const (
	uuidLow  = "00000000-0000-0000-0000-000000000000"
	uuidHigh = "ffffffff-ffff-ffff-ffff-ffffffffffff"
)

// isCanonicalUUID accepts only the 36 character hyphenated form.
func isCanonicalUUID(s string) bool {
	if len(s) != len(uuidLow) {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// compilePrimaryKey compiles a term on the primary key against the real
// column, so that the primary key index is used. Right truncation becomes
// a range; an invalid UUID matches nothing and is never echoed into SQL.
func (c *compilation) compilePrimaryKey(pk string, term *cql.Term) (string, error) {
	if len(term.Modifiers) > 0 {
		return "", cql.Newf(cql.KindQueryValidation, cql.MsgPrimaryKeyModifier, pk)
	}
	column := c.t.table + "." + pk
	value := term.Value

	equals := true
	switch term.Relation {
	case cql.RelLT, cql.RelLE, cql.RelGT, cql.RelGE:
		if !isCanonicalUUID(value) {
			return "", cql.Newf(cql.KindQueryValidation, cql.MsgPrimaryKeyUUID, string(term.Relation), pk)
		}
		return column + " " + string(term.Relation) + " " + sqlutil.Quote(value), nil
	case cql.RelEQ, cql.RelExact:
	case cql.RelNE:
		equals = false
	default:
		return "", cql.Newf(cql.KindQueryValidation, cql.MsgPrimaryKeyRelation, string(term.Relation), pk)
	}

	matchAll, matchNone := "true", "false"
	if !equals {
		matchAll, matchNone = "false", "true"
	}

	if value == "" || value == "*" {
		return matchAll, nil
	}

	if !strings.Contains(value, "*") {
		if !isCanonicalUUID(value) {
			return matchNone, nil
		}
		op := "="
		if !equals {
			op = "<>"
		}
		return column + " " + op + " " + sqlutil.Quote(value), nil
	}

	prefix := strings.TrimSuffix(value, "*")
	if strings.Contains(prefix, "*") {
		return "", cql.Newf(cql.KindQueryValidation, cql.MsgPrimaryKeyTruncation, pk)
	}
	if len(prefix) > len(uuidLow) {
		return matchNone, nil
	}
	lo := prefix + uuidLow[len(prefix):]
	hi := prefix + uuidHigh[len(prefix):]
	if !isCanonicalUUID(lo) || !isCanonicalUUID(hi) {
		return matchNone, nil
	}
	if equals {
		return "(" + column + " >= " + sqlutil.Quote(lo) + " AND " + column + " <= " + sqlutil.Quote(hi) + ")", nil
	}
	return "(" + column + " < " + sqlutil.Quote(lo) + " OR " + column + " > " + sqlutil.Quote(hi) + ")", nil
}
