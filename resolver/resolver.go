// Package resolver turns DBML source text into a normalized model.ProjectModel.
//
// Basic usage:
//
//	result := resolver.Resolve(src)
//	for _, d := range result.Diagnostics {
//	    fmt.Println(d.Message)
//	}
//	render(result.Model)
//
// Resolution never fails. Malformed input yields a best-effort model plus
// diagnostics; an empty document yields a model without schemas.
package resolver

import (
	"fmt"
	"strings"

	"github.com/lucasefe/dbdiagram/diag"
	"github.com/lucasefe/dbdiagram/model"
	"github.com/lucasefe/dbdiagram/parser"
)

// Result is the outcome of a resolve call.
type Result struct {
	Model       *model.ProjectModel
	Diagnostics []diag.Diagnostic
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	return diag.HasErrors(r.Diagnostics)
}

// Resolver resolves documents with a fixed set of options.
type Resolver struct {
	opts *options
}

// New returns a Resolver configured by opts.
func New(opts ...Option) *Resolver {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Resolver{opts: o}
}

// Resolve parses and resolves src with a default Resolver configured by opts.
func Resolve(src string, opts ...Option) *Result {
	return New(opts...).Resolve(src)
}

// Resolve parses src and maps the raw tree into a ProjectModel.
func (r *Resolver) Resolve(src string) *Result {
	db := r.opts.parser.Parse(src)
	if db == nil {
		db = &parser.Database{}
	}

	res := &resolution{}
	for _, e := range db.Errors {
		res.report(diag.SevError, diag.CodeSyntax, resolveSpan(e.Span), "%s", e.Message)
	}

	m := res.resolveProject(db)
	res.attachEndpoints(m)

	diag.Sort(res.diags)
	if limit := r.opts.maxDiagnostics; limit > 0 && len(res.diags) > limit {
		res.diags = res.diags[:limit]
	}

	r.opts.logger.Debug("resolved model",
		"schemas", len(m.Schemas),
		"diagnostics", len(res.diags),
		"bytes", len(src))

	return &Result{Model: m, Diagnostics: res.diags}
}

// resolution accumulates diagnostics for one resolve call.
type resolution struct {
	diags []diag.Diagnostic
}

func (r *resolution) report(sev diag.Severity, code diag.Code, tok model.Token, format string, args ...any) {
	r.diags = append(r.diags, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Token:    tok,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func flag(b *bool) bool {
	return b != nil && *b
}

func resolvePos(p parser.Pos) model.Position {
	return model.Position{Offset: int(p.Offset), Line: int(p.Line), Column: int(p.Column)}
}

func resolveSpan(s parser.Span) model.Token {
	return model.Token{Start: resolvePos(s.Start), End: resolvePos(s.End)}
}

func (r *resolution) resolveProject(db *parser.Database) *model.ProjectModel {
	m := &model.ProjectModel{Schemas: make([]model.Schema, 0, len(db.Schemas))}
	if p := db.Project; p != nil {
		m.ID = model.ID(p.ID)
		m.Name = deref(p.Name)
		m.DatabaseType = deref(p.DatabaseType)
		m.Note = deref(p.Note)
	}
	for _, s := range db.Schemas {
		m.Schemas = append(m.Schemas, r.resolveSchema(s))
	}
	return m
}

func (r *resolution) resolveSchema(s *parser.Schema) model.Schema {
	out := model.Schema{
		ID:     model.ID(s.ID),
		Name:   s.Name,
		Note:   deref(s.Note),
		Enums:  make([]model.Enum, 0, len(s.Enums)),
		Groups: make([]model.Group, 0, len(s.TableGroups)),
		Tables: make([]model.Table, 0, len(s.Tables)),
		Refs:   make([]model.Ref, 0, len(s.Refs)),
	}

	seenEnums := make(map[string]bool)
	for _, e := range s.Enums {
		if seenEnums[e.Name] {
			r.report(diag.SevError, diag.CodeDuplicate, resolveSpan(e.Span), "enum %q is already defined", model.QualifiedName(s.Name, e.Name))
		}
		seenEnums[e.Name] = true
		out.Enums = append(out.Enums, resolveEnum(e))
	}

	seenTables := make(map[string]bool)
	for _, t := range s.Tables {
		if seenTables[t.Name] {
			r.report(diag.SevError, diag.CodeDuplicate, resolveSpan(t.Span), "table %q is already defined", model.QualifiedName(s.Name, t.Name))
		}
		seenTables[t.Name] = true
		out.Tables = append(out.Tables, r.resolveTable(t))
	}

	for _, g := range s.TableGroups {
		out.Groups = append(out.Groups, r.resolveTableGroup(s.Name, g, out.Tables))
	}

	for _, ref := range s.Refs {
		out.Refs = append(out.Refs, resolveRef(ref))
	}
	return out
}

func resolveEnum(e *parser.Enum) model.Enum {
	values := make([]string, 0, len(e.Values))
	for _, v := range e.Values {
		values = append(values, v.Name)
	}
	return model.Enum{
		ID:     model.ID(e.ID),
		Name:   e.Name,
		Note:   deref(e.Note),
		Values: values,
		Token:  resolveSpan(e.Span),
	}
}

// resolveTableGroup maps group members to table ids. Members of another schema are
// looked up by the caller's schema name only, so they are reported as unknown.
func (r *resolution) resolveTableGroup(schemaName string, g *parser.TableGroup, tables []model.Table) model.Group {
	byName := make(map[string]model.ID, len(tables))
	for _, t := range tables {
		byName[t.Name] = t.ID
		if t.Alias != "" {
			byName[t.Alias] = t.ID
		}
	}
	ids := make([]model.ID, 0, len(g.Tables))
	for _, member := range g.Tables {
		id, ok := byName[member.Name]
		if !ok || (member.Schema != nil && *member.Schema != schemaName) {
			r.report(diag.SevWarning, diag.CodeUnknownGroupTable, resolveSpan(member.Span),
				"table group %q references unknown table %q", g.Name, model.QualifiedName(deref(member.Schema), member.Name))
			continue
		}
		ids = append(ids, id)
	}
	return model.Group{
		ID:       model.ID(g.ID),
		Name:     g.Name,
		TableIDs: ids,
		Token:    resolveSpan(g.Span),
	}
}

func (r *resolution) resolveTable(t *parser.Table) model.Table {
	out := model.Table{
		ID:      model.ID(t.ID),
		Name:    t.Name,
		Alias:   deref(t.Alias),
		Note:    deref(t.Note),
		Fields:  make([]model.Field, 0, len(t.Fields)),
		Indexes: make([]model.Index, 0, len(t.Indexes)),
		Meta:    model.TableMeta{HeaderColor: deref(t.HeaderColor)},
		Token:   resolveSpan(t.Span),
	}
	seen := make(map[string]bool)
	for _, f := range t.Fields {
		if seen[f.Name] {
			r.report(diag.SevError, diag.CodeDuplicate, resolveSpan(f.Span), "field %q is already defined in table %q", f.Name, t.Name)
		}
		seen[f.Name] = true
		out.Fields = append(out.Fields, resolveField(f))
	}
	for _, idx := range t.Indexes {
		out.Indexes = append(out.Indexes, resolveIndex(idx))
	}
	return out
}

func resolveField(f *parser.Field) model.Field {
	out := model.Field{
		ID:   model.ID(f.ID),
		Name: f.Name,
		Note: deref(f.Note),
		Type: model.FieldType{
			TypeName:   f.Type.Name,
			SchemaName: deref(f.Type.Schema),
			Args:       deref(f.Type.Args),
		},
		Increment: flag(f.Increment),
		NotNull:   flag(f.NotNull),
		PK:        flag(f.PK),
		Unique:    flag(f.Unique),
		Endpoints: []model.Endpoint{},
		Token:     resolveSpan(f.Span),
	}
	if f.Default != nil {
		out.Default = &model.Default{Type: model.DefaultType(f.Default.Kind), Value: f.Default.Value}
	}
	return out
}

func resolveIndex(idx *parser.Index) model.Index {
	columns := make([]model.IndexColumn, 0, len(idx.Columns))
	for _, c := range idx.Columns {
		columns = append(columns, model.IndexColumn{
			ID:    model.ID(c.ID),
			Type:  model.IndexColumnType(c.Kind),
			Value: c.Value,
			Token: resolveSpan(c.Span),
		})
	}
	return model.Index{
		ID:      model.ID(idx.ID),
		Name:    deref(idx.Name),
		Note:    deref(idx.Note),
		Unique:  flag(idx.Unique),
		PK:      flag(idx.PK),
		Type:    deref(idx.Type),
		Columns: columns,
		Token:   resolveSpan(idx.Span),
	}
}

func resolveRef(ref *parser.Ref) model.Ref {
	out := model.Ref{
		ID:          model.ID(ref.ID),
		Name:        deref(ref.Name),
		EndpointIDs: make([]model.ID, 0, len(ref.Endpoints)),
		Endpoints:   make([]model.Endpoint, 0, len(ref.Endpoints)),
		OnDelete:    deref(ref.OnDelete),
		OnUpdate:    deref(ref.OnUpdate),
		Token:       resolveSpan(ref.Span),
	}
	for _, e := range ref.Endpoints {
		out.EndpointIDs = append(out.EndpointIDs, model.ID(e.ID))
		out.Endpoints = append(out.Endpoints, model.Endpoint{
			ID:         model.ID(e.ID),
			Relation:   e.Relation,
			SchemaName: deref(e.Schema),
			TableName:  e.Table,
			FieldNames: append([]string(nil), e.Fields...),
			RefID:      out.ID,
			Token:      out.Token,
		})
	}
	return out
}

// attachEndpoints copies every endpoint onto the fields it names and reports
// endpoints that name nothing. It runs before the model is handed out.
func (r *resolution) attachEndpoints(m *model.ProjectModel) {
	for si := range m.Schemas {
		schema := &m.Schemas[si]
		for _, ref := range schema.Refs {
			if len(ref.Endpoints) == 2 && len(ref.Endpoints[0].FieldNames) != len(ref.Endpoints[1].FieldNames) {
				r.report(diag.SevError, diag.CodeEndpointMismatch, ref.Token,
					"ref endpoints have different field counts (%d and %d)",
					len(ref.Endpoints[0].FieldNames), len(ref.Endpoints[1].FieldNames))
			}

			resolved := 0
			for _, ep := range ref.Endpoints {
				_, table := m.ResolveTable(schema.Name, ep.SchemaName, ep.TableName)
				if table == nil {
					r.report(diag.SevWarning, diag.CodeUnresolvedReference, ref.Token,
						"ref endpoint names unknown table %q", model.QualifiedName(ep.SchemaName, ep.TableName))
					continue
				}
				all := true
				var missing []string
				for _, name := range ep.FieldNames {
					field := table.Field(name)
					if field == nil {
						all = false
						missing = append(missing, name)
						continue
					}
					field.Endpoints = append(field.Endpoints, ep)
				}
				if !all {
					r.report(diag.SevWarning, diag.CodeUnresolvedReference, ref.Token,
						"ref endpoint names unknown field %s in table %q", quoteAll(missing), table.Name)
					continue
				}
				resolved++
			}
			if resolved == 0 && len(ref.Endpoints) > 0 {
				r.report(diag.SevWarning, diag.CodeEmptyRef, ref.Token, "ref has no resolvable endpoints")
			}
		}
	}
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}
