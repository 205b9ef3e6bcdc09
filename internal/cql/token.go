package cql

import "fmt"

// TokenType identifies a lexical token.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	WORD   // unquoted character string
	STRING // double-quoted character string, quotes stripped, escapes kept

	LPAREN
	RPAREN
	SLASH

	// Comparison symbols
	EQ    // =
	EXACT // ==
	NE    // <>
	LT    // <
	LE    // <=
	GT    // >
	GE    // >=

	// Reserved words, matched case-insensitively on unquoted words only
	AND
	OR
	NOT
	PROX
	SORTBY
)

// Token is a lexical token with its 1-based rune position in the query.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

var reserved = map[string]TokenType{
	"and":    AND,
	"or":     OR,
	"not":    NOT,
	"prox":   PROX,
	"sortby": SORTBY,
}

func (t TokenType) isComparison() bool {
	switch t {
	case EQ, EXACT, NE, LT, LE, GT, GE:
		return true
	}
	return false
}

func (t TokenType) isBoolean() bool {
	switch t {
	case AND, OR, NOT, PROX:
		return true
	}
	return false
}

// describe renders the token for error messages.
func (t Token) describe() string {
	switch t.Type {
	case EOF:
		return "end of query"
	case STRING:
		return fmt.Sprintf("%q", t.Literal)
	case ILLEGAL:
		return fmt.Sprintf("illegal character %q", t.Literal)
	default:
		return fmt.Sprintf("'%s'", t.Literal)
	}
}
