package cql

import "strings"

// Lexer splits a CQL query into tokens.
type Lexer struct {
	input   []rune
	pos     int  // position of the current character
	readPos int  // position of the next character to be read
	char    rune // current character, 0 at end of input
	err     *Error
}

// NewLexer creates a Lexer over input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: []rune(input)}
	l.readChar()
	return l
}

// Err returns the first lexical error, if any.
func (l *Lexer) Err() *Error {
	return l.err
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.char = 0
	} else {
		l.char = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// NextToken returns the next token. At end of input it keeps returning EOF.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	start := l.pos + 1
	if l.atEnd() {
		return Token{Type: EOF, Pos: start}
	}

	var tok Token
	switch l.char {
	case '(':
		tok = Token{Type: LPAREN, Literal: "("}
	case ')':
		tok = Token{Type: RPAREN, Literal: ")"}
	case '/':
		tok = Token{Type: SLASH, Literal: "/"}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: EXACT, Literal: "=="}
		} else {
			tok = Token{Type: EQ, Literal: "="}
		}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = Token{Type: LE, Literal: "<="}
		case '>':
			l.readChar()
			tok = Token{Type: NE, Literal: "<>"}
		default:
			tok = Token{Type: LT, Literal: "<"}
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: GE, Literal: ">="}
		} else {
			tok = Token{Type: GT, Literal: ">"}
		}
	case '"':
		return l.readQuotedString(start)
	default:
		return l.readWord(start)
	}

	tok.Pos = start
	l.readChar()
	return tok
}

// readWord reads an unquoted character string and classifies reserved words.
func (l *Lexer) readWord(start int) Token {
	pos := l.pos
	for !l.atEnd() && !isWhitespace(l.char) && !isDelimiter(l.char) {
		l.readChar()
	}
	literal := string(l.input[pos:l.pos])
	if typ, ok := reserved[strings.ToLower(literal)]; ok {
		return Token{Type: typ, Literal: literal, Pos: start}
	}
	return Token{Type: WORD, Literal: literal, Pos: start}
}

// readQuotedString reads a double-quoted string. Backslash escapes are kept
// verbatim in the literal; an escaped quote does not end the string.
func (l *Lexer) readQuotedString(start int) Token {
	l.readChar() // opening quote
	var sb strings.Builder
	for {
		if l.atEnd() {
			if l.err == nil {
				l.err = Newf(KindQueryValidation, MsgUnterminatedString, start)
			}
			return Token{Type: ILLEGAL, Literal: `"` + sb.String(), Pos: start}
		}
		switch l.char {
		case '"':
			l.readChar()
			return Token{Type: STRING, Literal: sb.String(), Pos: start}
		case '\\':
			sb.WriteRune(l.char)
			l.readChar()
			if l.atEnd() {
				continue
			}
			sb.WriteRune(l.char)
		default:
			sb.WriteRune(l.char)
		}
		l.readChar()
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isWhitespace(l.char) {
		l.readChar()
	}
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// isDelimiter reports characters that end an unquoted word.
func isDelimiter(r rune) bool {
	switch r {
	case '(', ')', '/', '=', '<', '>', '"':
		return true
	}
	return false
}
