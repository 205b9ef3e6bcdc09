package cql

import (
	"strings"
)

// String renders the query back to CQL with explicit parentheses around
// every boolean node. Prefix assignments are omitted.
func (q *Query) String() string {
	if q == nil || q.Root == nil {
		return ""
	}
	var sb strings.Builder
	writeNode(&sb, q.Root)
	return sb.String()
}

func writeNode(sb *strings.Builder, n Node) {
	switch node := n.(type) {
	case *Term:
		if !node.IsServerChoice() {
			sb.WriteString(node.Index)
			sb.WriteByte(' ')
			sb.WriteString(string(node.Relation))
			writeModifiers(sb, node.Modifiers)
			sb.WriteByte(' ')
		}
		writeValue(sb, node.Value)
	case *Boolean:
		sb.WriteByte('(')
		writeNode(sb, node.Left)
		sb.WriteByte(' ')
		sb.WriteString(strings.ToLower(string(node.Op)))
		writeModifiers(sb, node.Modifiers)
		sb.WriteByte(' ')
		writeNode(sb, node.Right)
		sb.WriteByte(')')
	case *Not:
		sb.WriteString("not ")
		writeNode(sb, node.Operand)
	case *AllRecords:
		sb.WriteString("cql.allRecords=1")
	case *SortBy:
		writeNode(sb, node.Subtree)
		sb.WriteString(" sortBy")
		for _, key := range node.Keys {
			sb.WriteByte(' ')
			sb.WriteString(key.Index)
			writeModifiers(sb, key.Modifiers)
		}
	}
}

func writeModifiers(sb *strings.Builder, mods []Modifier) {
	for _, m := range mods {
		sb.WriteByte('/')
		sb.WriteString(m.Name)
		if m.Comparison != "" {
			sb.WriteString(m.Comparison)
			writeValue(sb, m.Value)
		}
	}
}

// writeValue quotes a term when it would not survive re-lexing as a word.
func writeValue(sb *strings.Builder, v string) {
	needsQuotes := v == ""
	for _, r := range v {
		if isWhitespace(r) || isDelimiter(r) {
			needsQuotes = true
			break
		}
	}
	if _, ok := reserved[strings.ToLower(v)]; ok {
		needsQuotes = true
	}
	if !needsQuotes {
		sb.WriteString(v)
		return
	}
	sb.WriteByte('"')
	sb.WriteString(v)
	sb.WriteByte('"')
}
