package cql2pg

import (
	"errors"
	"strconv"
	"strings"

	"github.com/roach88/cql2pg/internal/cql"
	"github.com/roach88/cql2pg/internal/dbschema"
	"github.com/roach88/cql2pg/internal/sqlutil"
)

// compileFullText compiles adj, all and any against a full-text index.
func (c *compilation) compileFullText(f field, term *cql.Term, mods modifiers) (string, error) {
	if !f.declared || !f.decl.HasIndex(dbschema.IndexFullText) {
		return "", cql.Newf(cql.KindFeatureUnsupported, cql.MsgFullTextIndexRequired, string(term.Relation), f.path)
	}
	c.warnIgnoredModifiers(f, mods)

	if sqlutil.IsMatchAll(term.Value) {
		return "true", nil
	}
	query, err := tsquery(term.Relation, term.Value)
	if err != nil {
		return "", err
	}
	if query == "" {
		return f.text + " ~ ''", nil
	}
	return tsvector(f) + " @@ " + query, nil
}

func (c *compilation) warnIgnoredModifiers(f field, mods modifiers) {
	if mods.respectCase {
		c.warn("full-text search on " + f.path + " ignores /respectCase")
	}
	if mods.respectAccents {
		c.warn("full-text search on " + f.path + " ignores /respectAccents")
	}
}

func tsvector(f field) string {
	return "to_tsvector('simple', f_unaccent(" + f.text + "))"
}

// tsquery builds to_tsquery for a term, or "" when the term has no words.
func tsquery(rel cql.Relation, value string) (string, error) {
	words, err := sqlutil.FullTextWords(value)
	if err != nil {
		return "", fullTextError(err)
	}
	if len(words) == 0 {
		return "", nil
	}
	sep := "<->"
	switch rel {
	case cql.RelAny:
		sep = " | "
	case cql.RelAll:
		sep = " & "
	}
	q := sqlutil.Quote(strings.Join(words, sep))
	return "to_tsquery('simple', f_unaccent(" + q + "))", nil
}

func fullTextError(err error) error {
	switch {
	case errors.Is(err, sqlutil.ErrSingleMask):
		return cql.Wrapf(cql.KindQueryValidation, err, cql.MsgFullTextSingleMask)
	case errors.Is(err, sqlutil.ErrAnchor):
		return cql.Wrapf(cql.KindQueryValidation, err, cql.MsgFullTextAnchor)
	default:
		return cql.Wrapf(cql.KindQueryValidation, err, cql.MsgFullTextTruncation)
	}
}

// compileProx compiles "a PROX b" on one full-text indexed field into a
// tsquery_phrase search.
func (c *compilation) compileProx(b *cql.Boolean) (string, error) {
	distance := 1
	for _, m := range b.Modifiers {
		switch strings.ToLower(m.Name) {
		case "unit":
			if m.Comparison != "=" || !strings.EqualFold(m.Value, "word") {
				return "", cql.Newf(cql.KindFeatureUnsupported, cql.MsgProxModifier, m.Name+m.Comparison+m.Value)
			}
		case "distance":
			n, err := strconv.Atoi(m.Value)
			if (m.Comparison != "=" && m.Comparison != "<=") || err != nil || n < 1 {
				return "", cql.Newf(cql.KindFeatureUnsupported, cql.MsgProxModifier, m.Name+m.Comparison+m.Value)
			}
			distance = n
		default:
			return "", cql.Newf(cql.KindFeatureUnsupported, cql.MsgProxModifier, m.Name)
		}
	}

	left, lok := b.Left.(*cql.Term)
	right, rok := b.Right.(*cql.Term)
	if !lok || !rok || left.IsServerChoice() || left.Index != right.Index {
		return "", cql.Newf(cql.KindFeatureUnsupported, cql.MsgProxUnsupported)
	}
	if pk := c.t.primaryKey(); pk != "" && left.Index == pk {
		return "", cql.Newf(cql.KindFeatureUnsupported, cql.MsgProxUnsupported)
	}

	var queries [2]string
	var termMods [2]modifiers
	for i, term := range []*cql.Term{left, right} {
		mods, err := parseModifiers(term.Modifiers)
		if err != nil {
			return "", err
		}
		switch term.Relation {
		case cql.RelEQ, cql.RelAdj, cql.RelAll, cql.RelAny:
		default:
			return "", cql.Newf(cql.KindFeatureUnsupported, cql.MsgProxUnsupported)
		}
		q, err := tsquery(term.Relation, term.Value)
		if err != nil {
			return "", err
		}
		if q == "" {
			return "", cql.Newf(cql.KindFeatureUnsupported, cql.MsgProxUnsupported)
		}
		queries[i], termMods[i] = q, mods
	}

	f, err := c.resolve(left.Index)
	if err != nil {
		return "", err
	}
	if !f.declared || !f.decl.HasIndex(dbschema.IndexFullText) {
		return "", cql.Newf(cql.KindFeatureUnsupported, cql.MsgProxUnsupported)
	}
	for _, mods := range termMods {
		c.warnIgnoredModifiers(f, mods)
	}
	return tsvector(f) + " @@ tsquery_phrase(" + queries[0] + ", " + queries[1] + ", " + strconv.Itoa(distance) + ")", nil
}
