package cql2pg

import (
	"strings"

	"github.com/roach88/cql2pg/internal/cql"
	"github.com/roach88/cql2pg/internal/dbschema"
	"github.com/roach88/cql2pg/internal/sqlutil"
)

// compileTerm compiles a search clause. A term without an index is
// compiled once per server choice index and the results are ORed.
func (c *compilation) compileTerm(term *cql.Term) (string, error) {
	if !term.IsServerChoice() {
		return c.compileIndexTerm(term.Index, term)
	}
	if len(c.t.serverChoice) == 0 {
		return "", cql.Newf(cql.KindServerChoiceIndexes, cql.MsgServerChoiceEmpty)
	}
	if len(c.t.serverChoice) == 1 {
		return c.compileIndexTerm(c.t.serverChoice[0], term)
	}
	parts := make([]string, 0, len(c.t.serverChoice))
	for _, index := range c.t.serverChoice {
		sql, err := c.compileIndexTerm(index, term)
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+sql+")")
	}
	return strings.Join(parts, " OR "), nil
}

func (c *compilation) compileIndexTerm(index string, term *cql.Term) (string, error) {
	if pk := c.t.primaryKey(); pk != "" && index == pk {
		return c.compilePrimaryKey(pk, term)
	}

	mods, err := parseModifiers(term.Modifiers)
	if err != nil {
		return "", err
	}
	switch term.Relation {
	case cql.RelWithin, cql.RelEncloses:
		return "", cql.Newf(cql.KindFeatureUnsupported, cql.MsgRelationNotImplemented, string(term.Relation))
	}

	f, err := c.resolve(index)
	if err != nil {
		return "", err
	}

	switch term.Relation {
	case cql.RelAdj, cql.RelAll, cql.RelAny:
		return c.compileFullText(f, term, mods)
	}

	switch inferKind(f, term, mods) {
	case dbschema.KindNumber:
		return c.compileNumber(f, term)
	case dbschema.KindBoolean:
		return compileBoolean(f, term)
	default:
		return c.compileString(f, term, mods)
	}
}

// inferKind decides how a value is compared, first match wins:
//  1. a /number or /string modifier
//  2. the declared kind of the field (the element kind for arrays)
//  3. true or false compared with =, == or <>
//  4. a literal in PostgreSQL number syntax
//  5. string
func inferKind(f field, term *cql.Term, mods modifiers) dbschema.Kind {
	if mods.kind != "" {
		return mods.kind
	}
	if f.kind.Scalar() {
		return f.kind
	}
	if isBooleanLiteral(term.Value) && isEquality(term.Relation) {
		return dbschema.KindBoolean
	}
	if sqlutil.IsNumber(term.Value) {
		return dbschema.KindNumber
	}
	return dbschema.KindString
}

func isBooleanLiteral(v string) bool {
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "false")
}

func isEquality(rel cql.Relation) bool {
	return rel == cql.RelEQ || rel == cql.RelExact || rel == cql.RelNE
}

// sqlComparison maps a comparison relation to its SQL operator.
func sqlComparison(rel cql.Relation) (string, bool) {
	switch rel {
	case cql.RelEQ, cql.RelExact:
		return "=", true
	case cql.RelNE, cql.RelLT, cql.RelLE, cql.RelGT, cql.RelGE:
		return string(rel), true
	}
	return "", false
}

func (c *compilation) compileString(f field, term *cql.Term, mods modifiers) (string, error) {
	op, ok := sqlComparison(term.Relation)
	if !ok {
		return "", unsupportedRelation(term.Relation, dbschema.KindString, f.path)
	}

	if isEquality(term.Relation) && sqlutil.HasMasking(term.Value) {
		if f.declared && !f.decl.HasIndex(dbschema.IndexGin, dbschema.IndexLike) {
			c.warn("LIKE search on " + f.path + " without a gin or like index")
		}
		like := " LIKE "
		if term.Relation == cql.RelNE {
			like = " NOT LIKE "
		}
		return mods.mask(f.text) + like + mods.mask(sqlutil.Quote(sqlutil.CQLToLike(term.Value))), nil
	}

	return mods.mask(f.text) + " " + op + " " + mods.mask(sqlutil.Quote(sqlutil.Unescape(term.Value))), nil
}

func (c *compilation) compileNumber(f field, term *cql.Term) (string, error) {
	op, ok := sqlComparison(term.Relation)
	if !ok {
		return "", unsupportedRelation(term.Relation, dbschema.KindNumber, f.path)
	}
	value := sqlutil.Unescape(term.Value)
	if !sqlutil.IsNumber(value) {
		return "", cql.Newf(cql.KindQueryValidation, cql.MsgNotANumber, term.Value)
	}
	if f.declared && !f.decl.HasIndex(dbschema.IndexBtree, dbschema.IndexUnique) {
		c.warn("numeric comparison on " + f.path + " without a btree index")
	}
	return "(" + f.text + ")::numeric " + op + " " + sqlutil.Quote(value), nil
}

func compileBoolean(f field, term *cql.Term) (string, error) {
	if !isEquality(term.Relation) {
		return "", unsupportedRelation(term.Relation, dbschema.KindBoolean, f.path)
	}
	if !isBooleanLiteral(term.Value) {
		return "", cql.Newf(cql.KindQueryValidation, cql.MsgNotABoolean, term.Value)
	}
	op, _ := sqlComparison(term.Relation)
	return "(" + f.text + ")::boolean " + op + " " + sqlutil.Quote(strings.ToLower(term.Value)), nil
}

func unsupportedRelation(rel cql.Relation, kind dbschema.Kind, path string) error {
	return cql.Newf(cql.KindQueryValidation, cql.MsgUnsupportedRelation, string(rel), string(kind), path)
}
