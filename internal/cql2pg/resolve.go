package cql2pg

import (
	"strconv"
	"strings"

	"github.com/roach88/cql2pg/internal/cql"
	"github.com/roach88/cql2pg/internal/dbschema"
	"github.com/roach88/cql2pg/internal/sqlutil"
)

// field is a resolved CQL index.
type field struct {
	path string

	// text is the expression extracting the value as text.
	text string

	// kind is the declared scalar kind, or "" when undeclared. For array
	// elements it is the element kind.
	kind dbschema.Kind

	// decl is the declaration of path, valid when declared is set.
	decl     dbschema.Field
	declared bool

	// viaArray is set when resolution unnested an array.
	viaArray bool
}

// reservedAliases are PostgreSQL reserved words that cannot be used as a
// bare alias.
var reservedAliases = map[string]bool{
	"all": true, "analyse": true, "analyze": true, "and": true, "any": true,
	"array": true, "as": true, "asc": true, "both": true, "case": true,
	"cast": true, "check": true, "collate": true, "column": true,
	"constraint": true, "create": true, "default": true, "desc": true,
	"distinct": true, "do": true, "else": true, "end": true, "except": true,
	"false": true, "for": true, "foreign": true, "from": true, "grant": true,
	"group": true, "having": true, "in": true, "into": true, "is": true,
	"join": true, "leading": true, "limit": true, "left": true, "not": true,
	"null": true, "offset": true, "on": true, "only": true, "or": true,
	"order": true, "primary": true, "references": true, "select": true,
	"table": true, "then": true, "to": true, "true": true, "union": true,
	"unique": true, "user": true, "using": true, "when": true, "where": true,
	"with": true,
}

// resolve maps a dotted index to a text expression. Every declared array
// on the path is unnested through a freshly minted join alias.
func (c *compilation) resolve(path string) (field, error) {
	if !dbschema.ValidFieldPath(path) {
		return field{}, cql.Newf(cql.KindQueryValidation, cql.MsgInvalidFieldName, path)
	}
	f := field{path: path}
	segments := strings.Split(path, ".")
	cur := c.t.qualified()
	for i, seg := range segments {
		last := i == len(segments)-1
		decl, declared := c.t.schema.Field(strings.Join(segments[:i+1], "."))

		if declared && decl.Kind == dbschema.KindArray {
			alias, err := c.mintAlias(path, seg)
			if err != nil {
				return field{}, err
			}
			c.joins = append(c.joins, Join{Alias: alias, Source: cur + "->" + sqlutil.Quote(seg)})
			cur = alias + ".value"
			f.viaArray = true
			if last {
				f.text = cur + " #>> '{}'"
				f.decl, f.declared = decl, true
				f.kind = decl.Items
			}
			continue
		}

		if last {
			f.text = cur + "->>" + sqlutil.Quote(seg)
			if declared {
				f.decl, f.declared = decl, true
				f.kind = decl.Kind
			}
			continue
		}
		cur += "->" + sqlutil.Quote(seg)
	}

	if f.kind == dbschema.KindObject {
		return field{}, cql.Newf(cql.KindQueryValidation, cql.MsgObjectField, path)
	}
	return f, nil
}

// resolveScalar resolves a path that must not cross an array, as needed
// for sort keys.
func (c *compilation) resolveScalar(path string) (field, error) {
	if !dbschema.ValidFieldPath(path) {
		return field{}, cql.Newf(cql.KindQueryValidation, cql.MsgInvalidFieldName, path)
	}
	f := field{path: path}
	segments := strings.Split(path, ".")
	cur := c.t.qualified()
	for i, seg := range segments {
		decl, declared := c.t.schema.Field(strings.Join(segments[:i+1], "."))
		if declared && decl.Kind == dbschema.KindArray {
			return field{}, cql.Newf(cql.KindQueryValidation, cql.MsgSortArrayField, path)
		}
		if i < len(segments)-1 {
			cur += "->" + sqlutil.Quote(seg)
			continue
		}
		f.text = cur + "->>" + sqlutil.Quote(seg)
		if declared {
			f.decl, f.declared = decl, true
			f.kind = decl.Kind
		}
	}
	if f.kind == dbschema.KindObject {
		return field{}, cql.Newf(cql.KindQueryValidation, cql.MsgObjectField, path)
	}
	return f, nil
}

// mintAlias returns a fresh alias named after the array segment: "tags",
// then "tags2", "tags3" for later occurrences in the same query. Long
// segments are cut so the suffix still fits the identifier limit.
func (c *compilation) mintAlias(path, segment string) (string, error) {
	base := strings.ToLower(segment)
	alias := trimAlias(base, "")
	for n := 2; c.aliasTaken(alias); n++ {
		alias = trimAlias(base, strconv.Itoa(n))
	}
	if err := sqlutil.ValidateIdentifier(alias); err != nil {
		return "", cql.Wrapf(cql.KindIdentifier, err, cql.MsgInvalidAlias, path)
	}
	c.aliases[alias] = true
	return alias, nil
}

func trimAlias(base, suffix string) string {
	if limit := sqlutil.MaxIdentifierLength - len(suffix); len(base) > limit {
		base = base[:limit]
	}
	return base + suffix
}

func (c *compilation) aliasTaken(alias string) bool {
	return c.aliases[alias] || reservedAliases[alias] || strings.EqualFold(alias, c.t.table)
}
