package cql2pg

import (
	"strings"

	"github.com/roach88/cql2pg/internal/cql"
	"github.com/roach88/cql2pg/internal/dbschema"
)

// compileSort compiles sortBy keys in order. Strings sort masked; a key
// with /respectCase sorts on the raw text. Numbers sort numerically. No keys
// yield an empty order by.
func (c *compilation) compileSort(keys []cql.SortKey) ([]SortKey, string, error) {
	if len(keys) == 0 {
		return nil, "", nil
	}
	compiled := make([]SortKey, 0, len(keys))
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		k, err := c.compileSortKey(key)
		if err != nil {
			return nil, "", err
		}
		compiled = append(compiled, k)
		parts = append(parts, k.String())
	}
	return compiled, strings.Join(parts, ", "), nil
}

func (c *compilation) compileSortKey(key cql.SortKey) (SortKey, error) {
	mods, err := parseModifiers(key.Modifiers)
	if err != nil {
		return SortKey{}, err
	}
	if pk := c.t.primaryKey(); pk != "" && key.Index == pk {
		return SortKey{Expr: c.t.table + "." + pk, Desc: mods.desc}, nil
	}

	f, err := c.resolveScalar(key.Index)
	if err != nil {
		return SortKey{}, err
	}

	kind := mods.kind
	if kind == "" {
		kind = f.kind
	}
	var expr string
	switch kind {
	case dbschema.KindNumber:
		expr = "(" + f.text + ")::numeric"
	case dbschema.KindBoolean:
		expr = "(" + f.text + ")::boolean"
	default:
		expr = f.text
		if !mods.respectCase {
			expr = mods.mask(f.text)
		}
	}
	return SortKey{Expr: expr, Desc: mods.desc}, nil
}
