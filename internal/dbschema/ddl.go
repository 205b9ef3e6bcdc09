package dbschema

import (
	"fmt"
	"strings"

	"github.com/roach88/cql2pg/internal/sqlutil"
)

// IndexDDL renders CREATE INDEX statements for the table's declared
// indexes on the given JSONB column, in declaration order. Fields below an
// array cannot be indexed by expression and are skipped.
func (t *Table) IndexDDL(column string) ([]string, error) {
	if err := sqlutil.ValidateIdentifier(column); err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}
	var stmts []string
	for _, f := range t.Fields() {
		if t.underArray(f.Path) {
			continue
		}
		for _, idx := range f.Indexes {
			stmts = append(stmts, t.indexStatement(column, f, idx))
		}
	}
	return stmts, nil
}

func (t *Table) underArray(path string) bool {
	segments := strings.Split(path, ".")
	for i := 1; i < len(segments); i++ {
		if f, ok := t.Field(strings.Join(segments[:i], ".")); ok && f.Kind == KindArray {
			return true
		}
	}
	return false
}

func (t *Table) indexStatement(column string, f Field, idx Index) string {
	create := "CREATE INDEX"
	if idx.Type == IndexUnique {
		create = "CREATE UNIQUE INDEX"
	}
	name := t.indexRelName(idx)

	var body string
	switch {
	case f.Kind == KindArray || f.Kind == KindObject:
		body = fmt.Sprintf("USING gin ((%s))", jsonPath(column, f.Path, false))
	case idx.Type == IndexFullText:
		body = fmt.Sprintf("USING gin (to_tsvector('simple', f_unaccent(%s)))", jsonPath(column, f.Path, true))
	case idx.Type == IndexGin:
		body = fmt.Sprintf("USING gin ((lower(f_unaccent(%s))) gin_trgm_ops)", jsonPath(column, f.Path, true))
	case idx.Type == IndexLike:
		body = fmt.Sprintf("((lower(f_unaccent(%s))) text_pattern_ops)", jsonPath(column, f.Path, true))
	case f.Kind == KindNumber:
		body = fmt.Sprintf("(((%s)::numeric))", jsonPath(column, f.Path, true))
	case f.Kind == KindBoolean:
		body = fmt.Sprintf("(((%s)::boolean))", jsonPath(column, f.Path, true))
	default:
		body = fmt.Sprintf("((lower(f_unaccent(%s))))", jsonPath(column, f.Path, true))
	}
	return fmt.Sprintf("%s IF NOT EXISTS %s ON %s %s;", create, name, t.name, body)
}

// jsonPath renders column->'a'->'b', ending in ->> when text is set.
func jsonPath(column, path string, text bool) string {
	segments := strings.Split(path, ".")
	var sb strings.Builder
	sb.WriteString(column)
	for i, s := range segments {
		if text && i == len(segments)-1 {
			sb.WriteString("->>")
		} else {
			sb.WriteString("->")
		}
		sb.WriteString(sqlutil.Quote(s))
	}
	return sb.String()
}
