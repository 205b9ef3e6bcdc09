package cql

import "strings"

// Node is a node of the CQL syntax tree.
//
// This is a sealed interface: only types in this package implement it, so a
// type switch over *Term, *Boolean, *Not, *AllRecords and *SortBy is
// exhaustive.
type Node interface {
	node()
}

// Relation is the comparison of a search clause, normalized to lower case
// without a context-set prefix ("cql.any" becomes "any").
type Relation string

const (
	RelEQ       Relation = "="
	RelExact    Relation = "=="
	RelNE       Relation = "<>"
	RelLT       Relation = "<"
	RelLE       Relation = "<="
	RelGT       Relation = ">"
	RelGE       Relation = ">="
	RelAdj      Relation = "adj"
	RelAll      Relation = "all"
	RelAny      Relation = "any"
	RelWithin   Relation = "within"
	RelEncloses Relation = "encloses"
)

var namedRelations = map[string]Relation{
	"adj":      RelAdj,
	"all":      RelAll,
	"any":      RelAny,
	"within":   RelWithin,
	"encloses": RelEncloses,
}

// lookupNamedRelation resolves a word such as "any" or "cql.any".
func lookupNamedRelation(word string) (Relation, bool) {
	w := strings.ToLower(word)
	if i := strings.LastIndexByte(w, '.'); i >= 0 {
		w = w[i+1:]
	}
	rel, ok := namedRelations[w]
	return rel, ok
}

// BoolOp is a boolean connector.
type BoolOp string

const (
	OpAnd  BoolOp = "AND"
	OpOr   BoolOp = "OR"
	OpNot  BoolOp = "NOT"
	OpProx BoolOp = "PROX"
)

// Modifier is a "/name", "/name=value" or "/name<=value" suffix on a
// relation, boolean operator or sort key.
type Modifier struct {
	Name       string
	Comparison string // empty when the modifier has no value
	Value      string
}

// Term is a search clause. An empty Index means the server choice index,
// either written explicitly as cql.serverChoice or implied by a bare term.
type Term struct {
	Index     string
	Relation  Relation
	Value     string
	Modifiers []Modifier
	Pos       int
}

// Boolean joins two subtrees. OpNot is binary: "a NOT b" means a AND NOT b.
type Boolean struct {
	Op        BoolOp
	Modifiers []Modifier
	Left      Node
	Right     Node
}

// Not negates its operand ("x AND NOT y", "NOT y").
type Not struct {
	Operand Node
}

// AllRecords is the cql.allRecords sentinel. It matches every record.
type AllRecords struct {
	Pos int
}

// SortBy wraps the searched subtree with the keys of a sortBy clause.
type SortBy struct {
	Subtree Node
	Keys    []SortKey
}

// SortKey is one index of a sortBy clause.
type SortKey struct {
	Index     string
	Modifiers []Modifier
	Pos       int
}

func (*Term) node()       {}
func (*Boolean) node()    {}
func (*Not) node()        {}
func (*AllRecords) node() {}
func (*SortBy) node()     {}

// Prefix is a prefix assignment such as > dc = "http://purl.org/dc/elements/1.1/".
type Prefix struct {
	Name string // empty for a default prefix
	URI  string
}

// Query is a parsed CQL query.
type Query struct {
	Prefixes []Prefix
	Root     Node
}

// IsServerChoice reports whether the term searches the server choice indexes.
func (t *Term) IsServerChoice() bool {
	return t.Index == ""
}
