package parser

import "strings"

// setting is one entry of a `[...]` settings list: a lowercased name made of one or
// more words, and the raw value tokens after the colon, if any.
type setting struct {
	name     string
	nameSpan Span
	value    []Token
	span     Span
}

// single returns the text of a one-token value of kind k.
func (s setting) single(k Kind) (string, bool) {
	if len(s.value) != 1 || s.value[0].Kind != k {
		return "", false
	}
	return s.value[0].Text, true
}

// text joins the value tokens, e.g. "set null" or "-1".
func (s setting) text() string {
	var sb strings.Builder
	for i, t := range s.value {
		if i > 0 && s.value[i-1].Kind != Minus && s.value[i-1].Kind != Dot && t.Kind != Dot {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// parseSettings parses `[name, name: value, ...]`. The opening bracket must be the
// current token.
func (p *parser) parseSettings() []setting {
	open := p.advance()
	var out []setting
	for {
		tok := p.peek()
		switch tok.Kind {
		case RBracket:
			p.advance()
			return out
		case EOF, LBrace, RBrace:
			p.errorf(open.Span, "unclosed settings, missing ']'")
			return out
		}

		var words []string
		s := setting{nameSpan: tok.Span}
		for p.at(Ident) {
			w := p.advance()
			words = append(words, strings.ToLower(w.Text))
			s.nameSpan = s.nameSpan.Cover(w.Span)
		}
		if len(words) == 0 {
			p.errorf(tok.Span, "expected setting name, found %s", tok.describe())
			p.skipSetting()
			continue
		}
		s.name = strings.Join(words, " ")
		s.span = s.nameSpan
		if p.at(Colon) {
			p.advance()
			for !p.at(Comma) && !p.at(RBracket) && !p.at(EOF) && !p.at(LBrace) && !p.at(RBrace) {
				v := p.advance()
				s.value = append(s.value, v)
				s.span = s.span.Cover(v.Span)
			}
			if len(s.value) == 0 {
				p.errorf(s.span, "missing value for setting %q", s.name)
			}
		}
		out = append(out, s)

		switch {
		case p.at(Comma):
			p.advance()
		case p.at(RBracket):
		default:
			p.errorf(p.peek().Span, "expected ',' or ']' in settings, found %s", p.peek().describe())
			p.skipSetting()
		}
	}
}

// skipSetting skips to the next comma or closing bracket.
func (p *parser) skipSetting() {
	for !p.at(Comma) && !p.at(RBracket) && !p.at(EOF) && !p.at(LBrace) && !p.at(RBrace) {
		p.advance()
	}
	if p.at(Comma) {
		p.advance()
	}
}
