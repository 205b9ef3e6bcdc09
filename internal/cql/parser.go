package cql

import "strings"

// DefaultMaxDepth bounds parenthesis and NOT nesting.
const DefaultMaxDepth = 64

// Parser is a recursive descent parser for CQL.
//
// Precedence, tightest first: NOT and PROX, then AND, then OR. Operators of
// equal precedence associate to the left; parentheses override.
type Parser struct {
	l         *Lexer
	curToken  Token
	peekToken Token
	maxDepth  int
	depth     int
}

// NewParser creates a Parser. maxDepth <= 0 selects DefaultMaxDepth.
func NewParser(l *Lexer, maxDepth int) *Parser {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &Parser{l: l, maxDepth: maxDepth}

	p.nextToken()
	p.nextToken()

	return p
}

// Parse parses a CQL query with the default nesting limit.
func Parse(input string) (*Query, error) {
	return NewParser(NewLexer(input), DefaultMaxDepth).ParseQuery()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// ParseQuery parses the whole input.
func (p *Parser) ParseQuery() (*Query, error) {
	if p.curToken.Type == EOF {
		return nil, Newf(KindQueryValidation, MsgEmptyQuery)
	}

	q := &Query{}
	prefixes, err := p.parsePrefixes()
	if err != nil {
		return nil, err
	}
	q.Prefixes = prefixes

	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if p.curToken.Type == SORTBY {
		keys, err := p.parseSortKeys()
		if err != nil {
			return nil, err
		}
		root = &SortBy{Subtree: root, Keys: keys}
	}

	if p.curToken.Type != EOF {
		return nil, p.unexpected()
	}
	q.Root = root
	return q, nil
}

// parsePrefixes reads prefix assignments: > name = "uri" or > "uri".
func (p *Parser) parsePrefixes() ([]Prefix, error) {
	var prefixes []Prefix
	for p.curToken.Type == GT {
		p.nextToken()
		var prefix Prefix
		if p.curToken.Type == WORD && p.peekToken.Type == EQ {
			prefix.Name = p.curToken.Literal
			p.nextToken()
			p.nextToken()
		}
		if !p.curIsTerm() {
			return nil, p.expectedTerm()
		}
		prefix.URI = p.curToken.Literal
		p.nextToken()
		prefixes = append(prefixes, prefix)
	}
	return prefixes, nil
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == OR {
		left, err = p.parseBooleanTail(OpOr, left, p.parseAnd)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == AND {
		left, err = p.parseBooleanTail(OpAnd, left, p.parseNot)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseNot() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == NOT || p.curToken.Type == PROX {
		op := OpNot
		if p.curToken.Type == PROX {
			op = OpProx
		}
		left, err = p.parseBooleanTail(op, left, p.parseUnary)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// parseBooleanTail consumes an operator with its modifiers and right operand.
func (p *Parser) parseBooleanTail(op BoolOp, left Node, operand func() (Node, error)) (Node, error) {
	p.nextToken()
	mods, err := p.parseModifiers()
	if err != nil {
		return nil, err
	}
	right, err := operand()
	if err != nil {
		return nil, err
	}
	return &Boolean{Op: op, Modifiers: mods, Left: left, Right: right}, nil
}

// parseUnary handles a NOT in operand position, as in "x AND NOT y".
func (p *Parser) parseUnary() (Node, error) {
	if p.curToken.Type != NOT {
		return p.parsePrimary()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.nextToken()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Not{Operand: operand}, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	if p.curToken.Type != LPAREN {
		return p.parseSearchClause()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	open := p.curToken.Pos
	p.nextToken()
	if _, err := p.parsePrefixes(); err != nil {
		return nil, err
	}
	inner, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.curToken.Type != RPAREN {
		if p.curToken.Type == ILLEGAL && p.l.Err() != nil {
			return nil, p.l.Err()
		}
		return nil, Newf(KindQueryValidation, MsgExpectedRParen, open, p.curToken.describe())
	}
	p.nextToken()
	return inner, nil
}

// parseSearchClause parses "index relation term" or a bare term.
func (p *Parser) parseSearchClause() (Node, error) {
	if !p.curIsTerm() {
		return nil, p.expectedTerm()
	}
	first := p.curToken
	p.nextToken()

	rel, isRelation := p.curRelation()
	if !isRelation {
		if p.curToken.Type == WORD {
			return nil, Newf(KindQueryValidation, MsgUnknownRelation, p.curToken.Literal, p.curToken.Pos)
		}
		return &Term{Relation: RelEQ, Value: first.Literal, Pos: first.Pos}, nil
	}
	if first.Type == STRING {
		return nil, Newf(KindQueryValidation, MsgQuotedIndex, first.Pos)
	}

	p.nextToken()
	mods, err := p.parseModifiers()
	if err != nil {
		return nil, err
	}
	if !p.curIsTerm() {
		return nil, p.expectedTerm()
	}
	value := p.curToken.Literal
	p.nextToken()

	switch {
	case strings.EqualFold(first.Literal, "cql.allRecords"):
		if (rel != RelEQ && rel != RelExact) || value != "1" {
			return nil, Newf(KindQueryValidation, MsgAllRecords, first.Pos)
		}
		return &AllRecords{Pos: first.Pos}, nil
	case strings.EqualFold(first.Literal, "cql.serverChoice"):
		return &Term{Relation: rel, Value: value, Modifiers: mods, Pos: first.Pos}, nil
	}
	return &Term{Index: first.Literal, Relation: rel, Value: value, Modifiers: mods, Pos: first.Pos}, nil
}

// curRelation reports whether the current token is a relation.
func (p *Parser) curRelation() (Relation, bool) {
	if p.curToken.Type.isComparison() {
		return Relation(p.curToken.Literal), true
	}
	if p.curToken.Type == WORD {
		return lookupNamedRelation(p.curToken.Literal)
	}
	return "", false
}

func (p *Parser) parseModifiers() ([]Modifier, error) {
	var mods []Modifier
	for p.curToken.Type == SLASH {
		p.nextToken()
		if p.curToken.Type != WORD {
			return nil, Newf(KindQueryValidation, MsgExpectedModifier, p.curToken.Pos)
		}
		m := Modifier{Name: p.curToken.Literal}
		p.nextToken()
		if p.curToken.Type.isComparison() {
			m.Comparison = p.curToken.Literal
			p.nextToken()
			if !p.curIsTerm() {
				return nil, Newf(KindQueryValidation, MsgExpectedModifierValue, p.curToken.Pos)
			}
			m.Value = p.curToken.Literal
			p.nextToken()
		}
		mods = append(mods, m)
	}
	return mods, nil
}

// parseSortKeys parses the keys after sortBy. An empty key list is allowed.
func (p *Parser) parseSortKeys() ([]SortKey, error) {
	p.nextToken()
	var keys []SortKey
	for p.curToken.Type == WORD {
		key := SortKey{Index: p.curToken.Literal, Pos: p.curToken.Pos}
		p.nextToken()
		mods, err := p.parseModifiers()
		if err != nil {
			return nil, err
		}
		key.Modifiers = mods
		keys = append(keys, key)
	}
	return keys, nil
}

func (p *Parser) enter() error {
	if p.depth >= p.maxDepth {
		return Newf(KindQueryValidation, MsgMaxDepth, p.maxDepth)
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) curIsTerm() bool {
	return p.curToken.Type == WORD || p.curToken.Type == STRING
}

func (p *Parser) expectedTerm() error {
	if p.curToken.Type == ILLEGAL && p.l.Err() != nil {
		return p.l.Err()
	}
	return Newf(KindQueryValidation, MsgExpectedTerm, p.curToken.Pos, p.curToken.describe())
}

func (p *Parser) unexpected() error {
	if p.curToken.Type == ILLEGAL && p.l.Err() != nil {
		return p.l.Err()
	}
	return Newf(KindQueryValidation, MsgUnexpectedToken, p.curToken.describe(), p.curToken.Pos)
}
