package cql2pg

import (
	"strings"

	"github.com/roach88/cql2pg/internal/cql"
	"github.com/roach88/cql2pg/internal/dbschema"
)

// modifiers is the folded form of a relation or sort-key modifier list.
// Later modifiers override earlier ones.
type modifiers struct {
	respectCase    bool
	respectAccents bool
	kind           dbschema.Kind // set by /string or /number
	desc           bool
}

func parseModifiers(mods []cql.Modifier) (modifiers, error) {
	var m modifiers
	for _, mod := range mods {
		switch strings.ToLower(mod.Name) {
		case "ignorecase":
			m.respectCase = false
		case "respectcase":
			m.respectCase = true
		case "ignoreaccents":
			m.respectAccents = false
		case "respectaccents":
			m.respectAccents = true
		case "string":
			m.kind = dbschema.KindString
		case "number":
			m.kind = dbschema.KindNumber
		case "masked":
			// masking is always on
		case "sort.ascending":
			m.desc = false
		case "sort.descending":
			m.desc = true
		default:
			return modifiers{}, cql.Newf(cql.KindFeatureUnsupported, cql.MsgUnsupportedModifier, mod.Name)
		}
	}
	return m, nil
}

// mask wraps a string expression so that comparisons ignore case and
// accents unless the modifiers ask to respect them.
func (m modifiers) mask(expr string) string {
	if !m.respectAccents {
		expr = "f_unaccent(" + expr + ")"
	}
	if !m.respectCase {
		expr = "lower(" + expr + ")"
	}
	return expr
}
