package cql2pg

import (
	"fmt"

	"github.com/roach88/cql2pg/internal/cql"
)

// compilation is the per-call state of one translation.
type compilation struct {
	t        *Translator
	joins    []Join
	aliases  map[string]bool
	warnings []string
}

// Translate parses and compiles a CQL query.
func (t *Translator) Translate(query string) (*Result, error) {
	q, err := cql.NewParser(cql.NewLexer(query), t.maxDepth).ParseQuery()
	if err != nil {
		return nil, t.stamp(err)
	}
	return t.Compile(q)
}

// Compile compiles a parsed query.
func (t *Translator) Compile(q *cql.Query) (*Result, error) {
	res, err := t.compile(q)
	if err != nil {
		return nil, t.stamp(err)
	}
	return res, nil
}

func (t *Translator) compile(q *cql.Query) (*Result, error) {
	if q == nil || q.Root == nil {
		return nil, cql.Newf(cql.KindQueryValidation, cql.MsgEmptyQuery)
	}
	c := &compilation{t: t, aliases: make(map[string]bool)}
	if t.tableWarning != "" {
		c.warn(t.tableWarning)
	}

	root := q.Root
	var keys []cql.SortKey
	if s, ok := root.(*cql.SortBy); ok {
		root, keys = s.Subtree, s.Keys
	}

	where, err := c.compileNode(root)
	if err != nil {
		return nil, err
	}
	sort, orderBy, err := c.compileSort(keys)
	if err != nil {
		return nil, err
	}

	return &Result{
		Where:    where,
		OrderBy:  orderBy,
		Sort:     sort,
		Joins:    c.joins,
		Warnings: c.warnings,
	}, nil
}

// compileNode is the single recursive walk over the syntax tree.
func (c *compilation) compileNode(n cql.Node) (string, error) {
	switch node := n.(type) {
	case *cql.AllRecords:
		return "true", nil
	case *cql.Term:
		return c.compileTerm(node)
	case *cql.Not:
		inner, err := c.compileNode(node.Operand)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	case *cql.Boolean:
		return c.compileBoolean(node)
	case *cql.SortBy:
		// compile unwraps the top-level sortBy; any other is misplaced.
		return "", cql.Newf(cql.KindQueryValidation, cql.MsgNestedSortBy)
	default:
		return "", fmt.Errorf("cql2pg: unsupported node %T", n)
	}
}

func (c *compilation) compileBoolean(b *cql.Boolean) (string, error) {
	if b.Op == cql.OpProx {
		return c.compileProx(b)
	}
	if len(b.Modifiers) > 0 {
		return "", cql.Newf(cql.KindFeatureUnsupported, cql.MsgBooleanModifierUnsupported, string(b.Op))
	}

	left, err := c.compileNode(b.Left)
	if err != nil {
		return "", err
	}
	right, err := c.compileNode(b.Right)
	if err != nil {
		return "", err
	}

	switch b.Op {
	case cql.OpAnd:
		return "(" + left + ") AND (" + right + ")", nil
	case cql.OpOr:
		return "(" + left + ") OR (" + right + ")", nil
	default:
		return "(" + left + ") AND NOT (" + right + ")", nil
	}
}

// warn records a diagnostic once.
func (c *compilation) warn(msg string) {
	for _, w := range c.warnings {
		if w == msg {
			return
		}
	}
	c.warnings = append(c.warnings, msg)
}
