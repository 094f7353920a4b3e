package parser

import "fmt"

// Kind is the lexical class of a token.
type Kind uint8

const (
	EOF Kind = iota
	Ident
	String
	Expr
	Number
	Color
	LBrace
	RBrace
	LBracket
	RBracket
	LParen
	RParen
	Colon
	Comma
	Dot
	Gt
	Lt
	Minus
	LtGt
	Illegal
)

var kindNames = [...]string{
	EOF:      "end of input",
	Ident:    "identifier",
	String:   "string",
	Expr:     "expression",
	Number:   "number",
	Color:    "color",
	LBrace:   "'{'",
	RBrace:   "'}'",
	LBracket: "'['",
	RBracket: "']'",
	LParen:   "'('",
	RParen:   "')'",
	Colon:    "':'",
	Comma:    "','",
	Dot:      "'.'",
	Gt:       "'>'",
	Lt:       "'<'",
	Minus:    "'-'",
	LtGt:     "'<>'",
	Illegal:  "illegal character",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Pos is a location in the source. Offset is 0-based in bytes; Line and Column are
// 1-based, Column counting runes.
type Pos struct {
	Offset uint32
	Line   uint32
	Column uint32
}

// Span covers [Start, End) of the source.
type Span struct {
	Start Pos
	End   Pos
}

// Cover returns the smallest span containing s and other.
func (s Span) Cover(other Span) Span {
	if other.Start.Offset < s.Start.Offset {
		s.Start = other.Start
	}
	if other.End.Offset > s.End.Offset {
		s.End = other.End
	}
	return s
}

// Token is a lexical token. Text holds the decoded value: quotes are stripped from
// strings and quoted identifiers, backticks from expressions.
type Token struct {
	Kind   Kind
	Text   string
	Quoted bool
	Span   Span
}

func (t Token) describe() string {
	switch t.Kind {
	case Ident, Number, Color:
		return fmt.Sprintf("'%s'", t.Text)
	}
	return t.Kind.String()
}
