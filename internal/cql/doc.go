// Package cql parses Contextual Query Language queries into a syntax tree.
//
// The parser handles search clauses with relation and modifiers, the boolean
// operators AND, OR, NOT and PROX, parentheses, prefix assignments and a
// trailing sortBy clause. All failures are returned as *Error values whose
// messages can be rendered in English or German.
package cql
