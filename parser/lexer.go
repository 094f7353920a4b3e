package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

// cursor walks the source keeping line and column in sync with the byte offset.
type cursor struct {
	src   string
	off   uint32
	limit uint32
	line  uint32
	col   uint32
}

func newCursor(src string) (*cursor, error) {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return nil, fmt.Errorf("source too large: %w", err)
	}
	return &cursor{src: src, limit: limit, line: 1, col: 1}, nil
}

func (c *cursor) eof() bool {
	return c.off >= c.limit
}

func (c *cursor) pos() Pos {
	return Pos{Offset: c.off, Line: c.line, Column: c.col}
}

// peek returns the current byte, or 0 at the end.
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.off]
}

// peekAt returns the byte n positions ahead, or 0.
func (c *cursor) peekAt(n uint32) byte {
	if c.off+n >= c.limit {
		return 0
	}
	return c.src[c.off+n]
}

// bump consumes one rune.
func (c *cursor) bump() rune {
	if c.eof() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(c.src[c.off:])
	c.off += uint32(size)
	if r == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return r
}

func (c *cursor) peekRune() rune {
	if c.eof() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.src[c.off:])
	return r
}

// Lex splits src into tokens. The returned slice always ends with an EOF token.
// Lexical problems are reported as errors and produce Illegal tokens; lexing never
// stops early.
func Lex(src string) ([]Token, []Error) {
	c, err := newCursor(src)
	if err != nil {
		return []Token{{Kind: EOF}}, []Error{{Message: err.Error()}}
	}
	l := &lexer{c: c}
	for {
		tok := l.next()
		l.tokens = append(l.tokens, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return l.tokens, l.errs
}

type lexer struct {
	c      *cursor
	tokens []Token
	errs   []Error
}

func (l *lexer) errorf(span Span, format string, args ...any) {
	l.errs = append(l.errs, Error{Message: fmt.Sprintf(format, args...), Span: span})
}

func (l *lexer) next() Token {
	l.skipTrivia()
	start := l.c.pos()
	if l.c.eof() {
		return Token{Kind: EOF, Span: Span{Start: start, End: start}}
	}

	single := func(k Kind) Token {
		ch := l.c.bump()
		return Token{Kind: k, Text: string(ch), Span: Span{Start: start, End: l.c.pos()}}
	}

	switch b := l.c.peek(); {
	case b == '{':
		return single(LBrace)
	case b == '}':
		return single(RBrace)
	case b == '[':
		return single(LBracket)
	case b == ']':
		return single(RBracket)
	case b == '(':
		return single(LParen)
	case b == ')':
		return single(RParen)
	case b == ':':
		return single(Colon)
	case b == ',':
		return single(Comma)
	case b == '.':
		return single(Dot)
	case b == '>':
		return single(Gt)
	case b == '-':
		return single(Minus)
	case b == '<':
		if l.c.peekAt(1) == '>' {
			l.c.bump()
			l.c.bump()
			return Token{Kind: LtGt, Text: "<>", Span: Span{Start: start, End: l.c.pos()}}
		}
		return single(Lt)
	case b == '\'':
		return l.scanString(start)
	case b == '"':
		return l.scanQuotedIdent(start)
	case b == '`':
		return l.scanExpr(start)
	case b == '#':
		return l.scanColor(start)
	case b >= '0' && b <= '9':
		return l.scanNumber(start)
	}

	if r := l.c.peekRune(); isIdentStart(r) {
		return l.scanIdent(start)
	}
	r := l.c.bump()
	span := Span{Start: start, End: l.c.pos()}
	l.errorf(span, "unexpected character %q", r)
	return Token{Kind: Illegal, Text: string(r), Span: span}
}

func (l *lexer) skipTrivia() {
	for !l.c.eof() {
		switch b := l.c.peek(); {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			l.c.bump()
		case b == '/' && l.c.peekAt(1) == '/':
			for !l.c.eof() && l.c.peek() != '\n' {
				l.c.bump()
			}
		case b == '/' && l.c.peekAt(1) == '*':
			start := l.c.pos()
			l.c.bump()
			l.c.bump()
			closed := false
			for !l.c.eof() {
				if l.c.peek() == '*' && l.c.peekAt(1) == '/' {
					l.c.bump()
					l.c.bump()
					closed = true
					break
				}
				l.c.bump()
			}
			if !closed {
				l.errorf(Span{Start: start, End: l.c.pos()}, "unterminated block comment")
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexer) scanIdent(start Pos) Token {
	for !l.c.eof() && isIdentPart(l.c.peekRune()) {
		l.c.bump()
	}
	end := l.c.pos()
	return Token{Kind: Ident, Text: l.c.src[start.Offset:end.Offset], Span: Span{Start: start, End: end}}
}

func (l *lexer) scanNumber(start Pos) Token {
	for !l.c.eof() && isDigit(l.c.peek()) {
		l.c.bump()
	}
	if l.c.peek() == '.' && isDigit(l.c.peekAt(1)) {
		l.c.bump()
		for !l.c.eof() && isDigit(l.c.peek()) {
			l.c.bump()
		}
	}
	// identifiers such as 2fa_codes start with digits
	if r := l.c.peekRune(); isIdentStart(r) {
		for !l.c.eof() && isIdentPart(l.c.peekRune()) {
			l.c.bump()
		}
		end := l.c.pos()
		return Token{Kind: Ident, Text: l.c.src[start.Offset:end.Offset], Span: Span{Start: start, End: end}}
	}
	end := l.c.pos()
	return Token{Kind: Number, Text: l.c.src[start.Offset:end.Offset], Span: Span{Start: start, End: end}}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHex(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (l *lexer) scanColor(start Pos) Token {
	l.c.bump()
	for !l.c.eof() && isHex(l.c.peek()) {
		l.c.bump()
	}
	end := l.c.pos()
	text := l.c.src[start.Offset:end.Offset]
	span := Span{Start: start, End: end}
	if n := len(text) - 1; n != 3 && n != 6 {
		l.errorf(span, "invalid color %q", text)
		return Token{Kind: Illegal, Text: text, Span: span}
	}
	return Token{Kind: Color, Text: text, Span: span}
}

func (l *lexer) scanString(start Pos) Token {
	if l.c.peekAt(1) == '\'' && l.c.peekAt(2) == '\'' {
		return l.scanMultilineString(start)
	}
	l.c.bump()
	var sb strings.Builder
	for {
		if l.c.eof() || l.c.peek() == '\n' {
			span := Span{Start: start, End: l.c.pos()}
			l.errorf(span, "unterminated string")
			return Token{Kind: String, Text: sb.String(), Span: span}
		}
		r := l.c.bump()
		switch r {
		case '\'':
			return Token{Kind: String, Text: sb.String(), Span: Span{Start: start, End: l.c.pos()}}
		case '\\':
			sb.WriteRune(unescape(l.c.bump()))
		default:
			sb.WriteRune(r)
		}
	}
}

func (l *lexer) scanMultilineString(start Pos) Token {
	l.c.bump()
	l.c.bump()
	l.c.bump()
	bodyStart := l.c.off
	for !l.c.eof() {
		if l.c.peek() == '\'' && l.c.peekAt(1) == '\'' && l.c.peekAt(2) == '\'' {
			body := l.c.src[bodyStart:l.c.off]
			l.c.bump()
			l.c.bump()
			l.c.bump()
			return Token{Kind: String, Text: dedent(body), Span: Span{Start: start, End: l.c.pos()}}
		}
		if l.c.peek() == '\\' {
			l.c.bump()
		}
		l.c.bump()
	}
	span := Span{Start: start, End: l.c.pos()}
	l.errorf(span, "unterminated multi-line string")
	return Token{Kind: String, Text: dedent(l.c.src[bodyStart:]), Span: span}
}

func (l *lexer) scanQuotedIdent(start Pos) Token {
	l.c.bump()
	var sb strings.Builder
	for {
		if l.c.eof() || l.c.peek() == '\n' {
			span := Span{Start: start, End: l.c.pos()}
			l.errorf(span, "unterminated quoted identifier")
			return Token{Kind: Ident, Text: sb.String(), Quoted: true, Span: span}
		}
		r := l.c.bump()
		switch r {
		case '"':
			return Token{Kind: Ident, Text: sb.String(), Quoted: true, Span: Span{Start: start, End: l.c.pos()}}
		case '\\':
			sb.WriteRune(unescape(l.c.bump()))
		default:
			sb.WriteRune(r)
		}
	}
}

func (l *lexer) scanExpr(start Pos) Token {
	l.c.bump()
	bodyStart := l.c.off
	for !l.c.eof() {
		if l.c.peek() == '`' {
			body := l.c.src[bodyStart:l.c.off]
			l.c.bump()
			return Token{Kind: Expr, Text: body, Span: Span{Start: start, End: l.c.pos()}}
		}
		l.c.bump()
	}
	span := Span{Start: start, End: l.c.pos()}
	l.errorf(span, "unterminated expression")
	return Token{Kind: Expr, Text: l.c.src[bodyStart:], Span: span}
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	}
	return r
}

// dedent strips the leading newline and the common indentation of a multi-line
// string body.
func dedent(body string) string {
	body = strings.TrimPrefix(body, "\r")
	body = strings.TrimPrefix(body, "\n")
	lines := strings.Split(body, "\n")
	indent := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		if n := len(line) - len(trimmed); indent < 0 || n < indent {
			indent = n
		}
	}
	if indent > 0 {
		for i, line := range lines {
			if len(line) >= indent {
				lines[i] = line[indent:]
			} else {
				lines[i] = strings.TrimLeft(line, " \t")
			}
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n")
}
