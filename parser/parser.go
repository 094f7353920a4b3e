// Package parser turns DBML source text into a raw parse tree.
//
// The parser never fails: syntax problems are collected in Database.Errors and the
// tree holds everything that could be recovered. Recovery is line based inside
// blocks and keyword based at the top level, which matches how DBML is written.
package parser

import (
	"fmt"
	"strings"

	"github.com/lucasefe/dbdiagram/model"
)

const defaultSchema = "public"

// Parser parses DBML documents. The zero value is ready to use.
type Parser struct{}

// New returns a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse parses src into a raw tree.
func (*Parser) Parse(src string) *Database {
	return Parse(src)
}

// Parse parses src into a raw tree. Errors are reported in the returned Database.
func Parse(src string) (db *Database) {
	toks, lexErrs := Lex(src)
	p := &parser{
		src:     src,
		toks:    toks,
		db:      &Database{},
		schemas: make(map[string]*Schema),
		ids:     model.NewIDAllocator(),
	}
	p.db.Errors = append(p.db.Errors, lexErrs...)

	defer func() {
		if r := recover(); r != nil {
			db = p.db
			db.Errors = append(db.Errors, Error{
				Message: fmt.Sprintf("internal parser error: %v", r),
				Span:    p.peek().Span,
			})
		}
	}()

	p.parseDocument()
	return p.db
}

type parser struct {
	src     string
	toks    []Token
	pos     int
	db      *Database
	schemas map[string]*Schema
	ids     *model.IDAllocator
}

func (p *parser) peek() Token {
	return p.peekN(0)
}

func (p *parser) peekN(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

// prev returns the last consumed token.
func (p *parser) prev() Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *parser) advance() Token {
	tok := p.peek()
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) at(k Kind) bool {
	return p.peek().Kind == k
}

func (p *parser) atKeyword(word string) bool {
	return isKeyword(p.peek(), word)
}

func isKeyword(tok Token, word string) bool {
	return tok.Kind == Ident && !tok.Quoted && strings.EqualFold(tok.Text, word)
}

func (p *parser) expect(k Kind) (Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	tok := p.peek()
	p.errorf(tok.Span, "expected %s, found %s", k, tok.describe())
	return tok, false
}

func (p *parser) errorf(span Span, format string, args ...any) {
	p.db.Errors = append(p.db.Errors, Error{Message: fmt.Sprintf(format, args...), Span: span})
}

func (p *parser) id(kind, key string) int {
	return int(p.ids.Assign(kind, key))
}

// schemaFor returns the schema with the given name, creating it on first mention.
func (p *parser) schemaFor(name string) *Schema {
	if name == "" {
		name = defaultSchema
	}
	if s, ok := p.schemas[name]; ok {
		return s
	}
	s := &Schema{ID: p.id("schema", name), Name: name}
	p.schemas[name] = s
	p.db.Schemas = append(p.db.Schemas, s)
	return s
}

var topLevelKeywords = []string{"project", "table", "enum", "tablegroup", "ref", "note"}

func isTopLevel(tok Token) bool {
	for _, kw := range topLevelKeywords {
		if isKeyword(tok, kw) {
			return true
		}
	}
	return false
}

func (p *parser) parseDocument() {
	for !p.at(EOF) {
		tok := p.peek()
		switch {
		case isKeyword(tok, "project"):
			p.parseProject()
		case isKeyword(tok, "table"):
			p.parseTable()
		case isKeyword(tok, "enum"):
			p.parseEnum()
		case isKeyword(tok, "tablegroup"):
			p.parseTableGroup()
		case isKeyword(tok, "ref"):
			p.parseRef()
		case isKeyword(tok, "note"):
			p.parseStickyNote()
		default:
			p.errorf(tok.Span, "unexpected %s at top level", tok.describe())
			p.advance()
			p.recoverTopLevel()
		}
	}
}

// recoverTopLevel skips to the next top-level keyword outside of any block.
func (p *parser) recoverTopLevel() {
	depth := 0
	for !p.at(EOF) {
		tok := p.peek()
		switch tok.Kind {
		case LBrace:
			depth++
		case RBrace:
			p.advance()
			depth--
			if depth <= 0 {
				return
			}
			continue
		}
		if depth == 0 && isTopLevel(tok) {
			return
		}
		p.advance()
	}
}

// skipLine skips the rest of the current source line, stopping before a closing
// brace.
func (p *parser) skipLine() {
	line := p.peek().Span.Start.Line
	p.advance()
	for !p.at(EOF) && !p.at(RBrace) && p.peek().Span.Start.Line == line {
		p.advance()
	}
}

// closeBlock consumes the closing brace of a block opened by open.
func (p *parser) closeBlock(open Token, what string) Token {
	if p.at(RBrace) {
		return p.advance()
	}
	p.errorf(open.Span, "unclosed %s block, missing '}'", what)
	return p.prev()
}

// parseName parses a possibly schema-qualified name.
func (p *parser) parseName(what string) (TableName, bool) {
	tok := p.peek()
	if tok.Kind != Ident {
		p.errorf(tok.Span, "expected %s name, found %s", what, tok.describe())
		return TableName{}, false
	}
	p.advance()
	name := TableName{Name: tok.Text, Span: tok.Span}
	if p.at(Dot) && p.peekN(1).Kind == Ident {
		p.advance()
		second := p.advance()
		schema := name.Name
		name.Schema = &schema
		name.Name = second.Text
		name.Span = name.Span.Cover(second.Span)
	}
	return name, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func (p *parser) parseProject() {
	kw := p.advance()
	project := &Project{}
	if p.at(Ident) {
		name := p.advance().Text
		project.Name = &name
	}
	open, ok := p.expect(LBrace)
	if !ok {
		p.recoverTopLevel()
		return
	}
	for !p.at(RBrace) && !p.at(EOF) {
		tok := p.peek()
		switch {
		case isKeyword(tok, "note") && (p.peekN(1).Kind == Colon || p.peekN(1).Kind == LBrace):
			project.Note = p.parseNote()
		case tok.Kind == Ident && p.peekN(1).Kind == Colon:
			p.advance()
			p.advance()
			value := p.peek()
			if value.Kind != String && value.Kind != Ident {
				p.errorf(value.Span, "expected string value for %q, found %s", tok.Text, value.describe())
				p.skipLine()
				continue
			}
			p.advance()
			if strings.EqualFold(tok.Text, "database_type") {
				project.DatabaseType = strPtr(value.Text)
			}
		default:
			p.errorf(tok.Span, "unexpected %s in project body", tok.describe())
			p.skipLine()
		}
	}
	end := p.closeBlock(open, "project")
	project.ID = p.id("project", deref(project.Name))
	project.Span = Span{Start: kw.Span.Start, End: end.Span.End}
	if p.db.Project != nil {
		p.errorf(kw.Span, "only one Project block is allowed")
		return
	}
	p.db.Project = project
}

// parseNote parses `Note: '...'` or `Note { '...' }` and returns the text.
func (p *parser) parseNote() *string {
	p.advance()
	if p.at(Colon) {
		p.advance()
		tok, ok := p.expect(String)
		if !ok {
			p.skipLine()
			return nil
		}
		return strPtr(tok.Text)
	}
	open := p.advance()
	var note *string
	if tok, ok := p.expect(String); ok {
		note = strPtr(tok.Text)
	}
	for !p.at(RBrace) && !p.at(EOF) {
		p.errorf(p.peek().Span, "unexpected %s in note", p.peek().describe())
		p.skipLine()
	}
	p.closeBlock(open, "note")
	return note
}

// parseStickyNote parses a top-level `Note name { '...' }`; sticky notes are not
// part of the model.
func (p *parser) parseStickyNote() {
	p.advance()
	if p.at(Ident) {
		p.advance()
	}
	open, ok := p.expect(LBrace)
	if !ok {
		p.recoverTopLevel()
		return
	}
	p.expect(String)
	for !p.at(RBrace) && !p.at(EOF) {
		p.advance()
	}
	p.closeBlock(open, "note")
}

func (p *parser) parseTable() {
	kw := p.advance()
	name, ok := p.parseName("table")
	if !ok {
		p.recoverTopLevel()
		return
	}
	table := &Table{Name: name.Name}
	if p.atKeyword("as") {
		p.advance()
		if tok, ok := p.expect(Ident); ok {
			table.Alias = strPtr(tok.Text)
		}
	}
	if p.at(LBracket) {
		for _, s := range p.parseSettings() {
			switch s.name {
			case "headercolor":
				if v, ok := s.single(Color); ok {
					table.HeaderColor = strPtr(v)
				} else {
					p.errorf(s.span, "headercolor expects a color such as #3498DB")
				}
			case "note":
				if v, ok := s.single(String); ok {
					table.Note = strPtr(v)
				} else {
					p.errorf(s.span, "note expects a string")
				}
			default:
				p.errorf(s.nameSpan, "unknown table setting %q", s.name)
			}
		}
	}
	open, ok := p.expect(LBrace)
	if !ok {
		p.recoverTopLevel()
		return
	}

	schema := p.schemaFor(deref(name.Schema))
	table.ID = p.id("table", schema.Name+"."+table.Name)

	for !p.at(RBrace) && !p.at(EOF) {
		tok := p.peek()
		next := p.peekN(1).Kind
		switch {
		case isKeyword(tok, "note") && (next == Colon || next == LBrace):
			table.Note = p.parseNote()
		case isKeyword(tok, "indexes") && next == LBrace:
			p.parseIndexes(schema, table)
		case tok.Kind == Ident:
			p.parseField(schema, table)
		default:
			p.errorf(tok.Span, "unexpected %s in table body", tok.describe())
			p.skipLine()
		}
	}
	end := p.closeBlock(open, "table")
	table.Span = Span{Start: kw.Span.Start, End: end.Span.End}
	schema.Tables = append(schema.Tables, table)
}

func (p *parser) parseField(schema *Schema, table *Table) {
	nameTok := p.advance()
	field := &Field{Name: nameTok.Text}

	typeTok := p.peek()
	if typeTok.Kind != Ident || typeTok.Span.Start.Line != nameTok.Span.Start.Line {
		p.errorf(nameTok.Span, "expected a type for field %q", nameTok.Text)
		if typeTok.Span.Start.Line == nameTok.Span.Start.Line && !p.at(RBrace) {
			p.skipLine()
		}
		return
	}
	p.advance()
	field.Type = TypeRef{Name: typeTok.Text}
	if p.at(Dot) && p.peekN(1).Kind == Ident {
		p.advance()
		schemaName := field.Type.Name
		field.Type.Schema = &schemaName
		field.Type.Name = p.advance().Text
	}
	if p.at(LParen) {
		if args, ok := p.parseTypeArgs(); ok {
			field.Type.Args = &args
		}
	}

	field.ID = p.id("field", schema.Name+"."+table.Name+"."+field.Name)

	if p.at(LBracket) {
		for _, s := range p.parseSettings() {
			p.applyFieldSetting(schema, table, field, s)
		}
	}
	if !p.at(EOF) && !p.at(RBrace) && p.peek().Span.Start.Line == nameTok.Span.Start.Line {
		p.errorf(p.peek().Span, "unexpected %s after field %q", p.peek().describe(), field.Name)
		p.skipLine()
	}
	field.Span = Span{Start: nameTok.Span.Start, End: p.prev().Span.End}
	table.Fields = append(table.Fields, field)
}

// parseTypeArgs returns the raw text between balanced parentheses.
func (p *parser) parseTypeArgs() (string, bool) {
	open := p.advance()
	depth := 1
	for !p.at(EOF) {
		tok := p.advance()
		switch tok.Kind {
		case LParen:
			depth++
		case RParen:
			depth--
			if depth == 0 {
				return strings.TrimSpace(p.src[open.Span.End.Offset:tok.Span.Start.Offset]), true
			}
		}
	}
	p.errorf(open.Span, "unclosed type arguments, missing ')'")
	return "", false
}

func (p *parser) applyFieldSetting(schema *Schema, table *Table, field *Field, s setting) {
	switch s.name {
	case "pk", "primary key":
		field.PK = boolPtr(true)
	case "increment":
		field.Increment = boolPtr(true)
	case "not null":
		field.NotNull = boolPtr(true)
	case "null":
		field.NotNull = boolPtr(false)
	case "unique":
		field.Unique = boolPtr(true)
	case "note":
		if v, ok := s.single(String); ok {
			field.Note = strPtr(v)
		} else {
			p.errorf(s.span, "note expects a string")
		}
	case "default":
		if d, ok := defaultValue(s.value); ok {
			field.Default = d
		} else {
			p.errorf(s.span, "invalid default value")
		}
	case "ref":
		p.parseInlineRef(schema, table, field, s)
	default:
		p.errorf(s.nameSpan, "unknown field setting %q", s.name)
	}
}

func defaultValue(toks []Token) (*Default, bool) {
	switch {
	case len(toks) == 1 && toks[0].Kind == String:
		return &Default{Kind: "string", Value: toks[0].Text}, true
	case len(toks) == 1 && toks[0].Kind == Expr:
		return &Default{Kind: "expression", Value: toks[0].Text}, true
	case len(toks) == 1 && toks[0].Kind == Number:
		return &Default{Kind: "number", Value: toks[0].Text}, true
	case len(toks) == 2 && toks[0].Kind == Minus && toks[1].Kind == Number:
		return &Default{Kind: "number", Value: "-" + toks[1].Text}, true
	case len(toks) == 1 && toks[0].Kind == Ident && !toks[0].Quoted:
		switch v := strings.ToLower(toks[0].Text); v {
		case "true", "false", "null":
			return &Default{Kind: "boolean", Value: v}, true
		}
	}
	return nil, false
}

func (p *parser) parseIndexes(schema *Schema, table *Table) {
	p.advance()
	open := p.advance()
	tableKey := schema.Name + "." + table.Name
	for !p.at(RBrace) && !p.at(EOF) {
		start := p.peek()
		index := &Index{}
		switch start.Kind {
		case LParen:
			p.advance()
			for !p.at(RParen) && !p.at(EOF) {
				col, ok := p.parseIndexColumn()
				if !ok {
					break
				}
				index.Columns = append(index.Columns, col)
				if p.at(Comma) {
					p.advance()
				} else if !p.at(RParen) {
					break
				}
			}
			if _, ok := p.expect(RParen); !ok {
				p.skipLine()
				continue
			}
		case Ident, Expr:
			col, _ := p.parseIndexColumn()
			index.Columns = append(index.Columns, col)
		default:
			p.errorf(start.Span, "unexpected %s in indexes block", start.describe())
			p.skipLine()
			continue
		}
		if p.at(LBracket) {
			for _, s := range p.parseSettings() {
				switch s.name {
				case "pk":
					index.PK = boolPtr(true)
				case "unique":
					index.Unique = boolPtr(true)
				case "name":
					if v, ok := s.single(String); ok {
						index.Name = strPtr(v)
					} else {
						p.errorf(s.span, "name expects a string")
					}
				case "type":
					if len(s.value) == 1 {
						index.Type = strPtr(s.value[0].Text)
					} else {
						p.errorf(s.span, "type expects btree or hash")
					}
				case "note":
					if v, ok := s.single(String); ok {
						index.Note = strPtr(v)
					} else {
						p.errorf(s.span, "note expects a string")
					}
				default:
					p.errorf(s.nameSpan, "unknown index setting %q", s.name)
				}
			}
		}
		index.Span = Span{Start: start.Span.Start, End: p.prev().Span.End}

		values := make([]string, len(index.Columns))
		for i, c := range index.Columns {
			values[i] = c.Value
		}
		key := tableKey + "(" + strings.Join(values, ",") + ")"
		if index.Name != nil {
			key = tableKey + ":" + *index.Name
		}
		index.ID = p.id("index", key)
		for _, c := range index.Columns {
			c.ID = p.id("indexColumn", key+"/"+c.Value)
		}
		table.Indexes = append(table.Indexes, index)
	}
	p.closeBlock(open, "indexes")
}

func (p *parser) parseIndexColumn() (*IndexColumn, bool) {
	tok := p.peek()
	switch tok.Kind {
	case Ident:
		p.advance()
		return &IndexColumn{Kind: "column", Value: tok.Text, Span: tok.Span}, true
	case Expr:
		p.advance()
		return &IndexColumn{Kind: "expression", Value: tok.Text, Span: tok.Span}, true
	}
	p.errorf(tok.Span, "expected index column, found %s", tok.describe())
	return nil, false
}

func (p *parser) parseEnum() {
	kw := p.advance()
	name, ok := p.parseName("enum")
	if !ok {
		p.recoverTopLevel()
		return
	}
	open, ok := p.expect(LBrace)
	if !ok {
		p.recoverTopLevel()
		return
	}
	schema := p.schemaFor(deref(name.Schema))
	enum := &Enum{ID: p.id("enum", schema.Name+"."+name.Name), Name: name.Name}
	for !p.at(RBrace) && !p.at(EOF) {
		tok := p.peek()
		if isKeyword(tok, "note") && (p.peekN(1).Kind == Colon || p.peekN(1).Kind == LBrace) {
			enum.Note = p.parseNote()
			continue
		}
		if tok.Kind != Ident && tok.Kind != String {
			p.errorf(tok.Span, "expected enum value, found %s", tok.describe())
			p.skipLine()
			continue
		}
		p.advance()
		value := &EnumValue{Name: tok.Text, Span: tok.Span}
		if p.at(LBracket) {
			for _, s := range p.parseSettings() {
				if s.name != "note" {
					p.errorf(s.nameSpan, "unknown enum value setting %q", s.name)
					continue
				}
				if v, ok := s.single(String); ok {
					value.Note = strPtr(v)
				}
			}
			value.Span = value.Span.Cover(p.prev().Span)
		}
		enum.Values = append(enum.Values, value)
	}
	end := p.closeBlock(open, "enum")
	enum.Span = Span{Start: kw.Span.Start, End: end.Span.End}
	schema.Enums = append(schema.Enums, enum)
}

func (p *parser) parseTableGroup() {
	kw := p.advance()
	name, ok := p.parseName("table group")
	if !ok {
		p.recoverTopLevel()
		return
	}
	open, ok := p.expect(LBrace)
	if !ok {
		p.recoverTopLevel()
		return
	}
	schema := p.schemaFor(deref(name.Schema))
	group := &TableGroup{ID: p.id("group", schema.Name+"."+name.Name), Name: name.Name}
	for !p.at(RBrace) && !p.at(EOF) {
		table, ok := p.parseName("table")
		if !ok {
			p.skipLine()
			continue
		}
		group.Tables = append(group.Tables, table)
	}
	end := p.closeBlock(open, "table group")
	group.Span = Span{Start: kw.Span.Start, End: end.Span.End}
	schema.TableGroups = append(schema.TableGroups, group)
}

func (p *parser) parseRef() {
	kw := p.advance()
	var name *TableName
	if p.at(Ident) {
		n, _ := p.parseName("ref")
		name = &n
	}
	schemaName := ""
	if name != nil {
		schemaName = deref(name.Schema)
	}

	switch {
	case p.at(Colon):
		p.advance()
		ref := p.parseRelationLine(kw)
		if ref == nil {
			return
		}
		p.addRef(schemaName, name, ref)
	case p.at(LBrace):
		open := p.advance()
		first := true
		for !p.at(RBrace) && !p.at(EOF) {
			ref := p.parseRelationLine(p.peek())
			if ref == nil {
				continue
			}
			if first {
				p.addRef(schemaName, name, ref)
				first = false
			} else {
				p.addRef(schemaName, nil, ref)
			}
		}
		end := p.closeBlock(open, "ref")
		if first {
			p.errorf(Span{Start: kw.Span.Start, End: end.Span.End}, "ref block declares no relation")
		}
	default:
		tok := p.peek()
		p.errorf(tok.Span, "expected ':' or '{' after Ref, found %s", tok.describe())
		p.recoverTopLevel()
	}
}

// parseRelationLine parses `endpoint op endpoint [settings]` on one source line.
func (p *parser) parseRelationLine(start Token) *Ref {
	first := p.peek()
	line := first.Span.Start.Line
	var toks []Token
	for !p.at(EOF) && !p.at(RBrace) && !p.at(LBracket) && p.peek().Span.Start.Line == line {
		toks = append(toks, p.advance())
	}
	if len(toks) == 0 {
		p.errorf(first.Span, "expected a relation, found %s", first.describe())
		if !p.at(RBrace) && !p.at(EOF) {
			p.skipLine()
		}
		return nil
	}
	ref := &Ref{}
	endpoints, ok := p.parseRelation(toks)
	if p.at(LBracket) && p.peek().Span.Start.Line == line {
		p.applyRefSettings(ref, p.parseSettings())
	}
	if !ok {
		return nil
	}
	ref.Endpoints = endpoints
	ref.Span = Span{Start: start.Span.Start, End: p.prev().Span.End}
	return ref
}

func (p *parser) applyRefSettings(ref *Ref, settings []setting) {
	for _, s := range settings {
		switch s.name {
		case "delete":
			ref.OnDelete = strPtr(strings.ToLower(s.text()))
		case "update":
			ref.OnUpdate = strPtr(strings.ToLower(s.text()))
		case "color":
		default:
			p.errorf(s.nameSpan, "unknown ref setting %q", s.name)
		}
	}
}

func isRelationOp(k Kind) bool {
	return k == Gt || k == Lt || k == Minus || k == LtGt
}

func mirror(op string) string {
	switch op {
	case ">":
		return "<"
	case "<":
		return ">"
	}
	return op
}

// parseRelation splits toks at the relation operator and parses both endpoints.
func (p *parser) parseRelation(toks []Token) ([]*Endpoint, bool) {
	opIdx := -1
	for i, t := range toks {
		if isRelationOp(t.Kind) {
			opIdx = i
			break
		}
	}
	all := toks[0].Span.Cover(toks[len(toks)-1].Span)
	if opIdx < 0 {
		p.errorf(all, "expected a relation operator (>, <, - or <>)")
		return nil, false
	}
	op := toks[opIdx].Text
	left, lok := p.parseEndpoint(toks[:opIdx], toks[opIdx].Span)
	right, rok := p.parseEndpoint(toks[opIdx+1:], toks[opIdx].Span)
	if !lok || !rok {
		return nil, false
	}
	left.Relation = op
	right.Relation = mirror(op)
	return []*Endpoint{left, right}, true
}

// parseEndpoint parses `[schema.]table.field` or `[schema.]table.(f1, f2)`.
// near locates the error when toks is empty.
func (p *parser) parseEndpoint(toks []Token, near Span) (*Endpoint, bool) {
	if len(toks) == 0 {
		p.errorf(near, "missing endpoint")
		return nil, false
	}
	span := toks[0].Span.Cover(toks[len(toks)-1].Span)
	fail := func(format string, args ...any) (*Endpoint, bool) {
		p.errorf(span, format, args...)
		return nil, false
	}

	var parts, fields []string
	i := 0
	if toks[i].Kind != Ident {
		return fail("expected table name in endpoint, found %s", toks[i].describe())
	}
	parts = append(parts, toks[i].Text)
	i++
	composite := false
	for i < len(toks) && !composite {
		if toks[i].Kind != Dot || i+1 >= len(toks) {
			return fail("unexpected %s in endpoint", toks[i].describe())
		}
		i++
		switch toks[i].Kind {
		case Ident:
			parts = append(parts, toks[i].Text)
			i++
		case LParen:
			i++
			for i < len(toks) && toks[i].Kind == Ident {
				fields = append(fields, toks[i].Text)
				i++
				if i < len(toks) && toks[i].Kind == Comma {
					i++
				}
			}
			if i >= len(toks) || toks[i].Kind != RParen {
				return fail("unclosed composite endpoint, missing ')'")
			}
			i++
			composite = true
		default:
			return fail("unexpected %s in endpoint", toks[i].describe())
		}
	}
	if i != len(toks) {
		return fail("unexpected %s after endpoint", toks[i].describe())
	}

	tableParts := parts
	if !composite {
		if len(parts) < 2 {
			return fail("endpoint must name a table and a field, as in table.field")
		}
		fields = []string{parts[len(parts)-1]}
		tableParts = parts[:len(parts)-1]
	}
	if len(fields) == 0 {
		return fail("composite endpoint names no fields")
	}
	if len(tableParts) > 2 {
		return fail("too many qualifiers in endpoint")
	}
	ep := &Endpoint{Table: tableParts[len(tableParts)-1], Fields: fields, Span: span}
	if len(tableParts) == 2 {
		ep.Schema = strPtr(tableParts[0])
	}
	return ep, true
}

func (p *parser) parseInlineRef(schema *Schema, table *Table, field *Field, s setting) {
	if len(s.value) == 0 || !isRelationOp(s.value[0].Kind) {
		p.errorf(s.span, "inline ref expects an operator and an endpoint, as in ref: > users.id")
		return
	}
	op := s.value[0]
	target, ok := p.parseEndpoint(s.value[1:], op.Span)
	if !ok {
		return
	}
	self := &Endpoint{Relation: op.Text, Table: table.Name, Fields: []string{field.Name}, Span: s.span}
	if schema.Name != defaultSchema {
		self.Schema = strPtr(schema.Name)
	}
	target.Relation = mirror(op.Text)
	ref := &Ref{Endpoints: []*Endpoint{self, target}, Span: s.span}
	p.addRef(schema.Name, nil, ref)
}

// addRef assigns ids and stores ref in its schema: the schema qualifying its name,
// else schemaName, else the default schema.
func (p *parser) addRef(schemaName string, name *TableName, ref *Ref) {
	if name != nil {
		ref.Name = strPtr(name.Name)
		if name.Schema != nil {
			schemaName = *name.Schema
		}
	}
	schema := p.schemaFor(schemaName)
	key := schema.Name + "." + deref(ref.Name)
	if ref.Name == nil {
		ends := make([]string, len(ref.Endpoints))
		for i, e := range ref.Endpoints {
			ends[i] = deref(e.Schema) + "." + e.Table + ".(" + strings.Join(e.Fields, ",") + ")"
		}
		key = schema.Name + ":" + strings.Join(ends, ref.Endpoints[0].Relation)
	}
	ref.ID = p.id("ref", key)
	for i, e := range ref.Endpoints {
		e.ID = p.id("endpoint", fmt.Sprintf("%s/%d", key, i))
	}
	schema.Refs = append(schema.Refs, ref)
}
