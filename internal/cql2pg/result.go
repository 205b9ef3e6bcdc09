package cql2pg

import (
	"fmt"
	"strings"
)

// Join is an unnest of a JSONB array that the predicate refers to by alias.
type Join struct {
	Alias  string
	Source string // JSONB array expression
}

// SQL renders the join for the FROM clause.
func (j Join) SQL() string {
	return fmt.Sprintf("LEFT JOIN jsonb_array_elements(%s) AS %s ON true", j.Source, j.Alias)
}

// SortKey is one compiled sort key.
type SortKey struct {
	Expr string
	Desc bool
}

func (k SortKey) String() string {
	if k.Desc {
		return k.Expr + " DESC"
	}
	return k.Expr
}

// Result is a compiled query.
type Result struct {
	// Where is the predicate for the WHERE clause. Never empty.
	Where string

	// OrderBy is the ORDER BY list without the keywords, or "" when the
	// query has no sort keys.
	OrderBy string

	// Sort holds the compiled keys of OrderBy in order.
	Sort []SortKey

	// Joins must be added to the FROM clause, in order. Each alias used in
	// Where appears exactly once.
	Joins []Join

	// Warnings are non-fatal diagnostics such as searches without a
	// suitable index.
	Warnings []string
}

// Aliases returns the join aliases in order.
func (r *Result) Aliases() []string {
	aliases := make([]string, 0, len(r.Joins))
	for _, j := range r.Joins {
		aliases = append(aliases, j.Alias)
	}
	return aliases
}

// Select renders a complete statement over table. Without joins it is
// "select * from <table> where <Where>". With joins the predicate runs in a
// ctid semi-join so each row is returned once however many array elements
// match, and the order by stays on the outer query.
func (r *Result) Select(table string) string {
	var sb strings.Builder
	sb.WriteString("select * from ")
	sb.WriteString(table)
	sb.WriteString(" where ")
	if len(r.Joins) == 0 {
		sb.WriteString(r.Where)
	} else {
		sb.WriteString(table)
		sb.WriteString(".ctid in (select ")
		sb.WriteString(table)
		sb.WriteString(".ctid from ")
		sb.WriteString(table)
		for _, j := range r.Joins {
			sb.WriteByte(' ')
			sb.WriteString(j.SQL())
		}
		sb.WriteString(" where ")
		sb.WriteString(r.Where)
		sb.WriteByte(')')
	}
	if r.OrderBy != "" {
		sb.WriteString(" order by ")
		sb.WriteString(r.OrderBy)
	}
	return sb.String()
}
