// Package generator converts resolved models back to DBML source.
//
// Basic usage:
//
//	output, err := generator.Generate(result.Model)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(output)
//
// The output resolves to an equivalent model: same tables, fields, settings,
// indexes, refs, enums and groups. Inline refs are written as top-level Ref
// statements.
package generator

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/lucasefe/dbdiagram/model"
)

// Option configures generation.
type Option func(*options)

type options struct {
	sorted bool
}

// WithSortedOutput orders tables, enums, groups and refs alphabetically instead of
// by declaration. Used for introspected schemas, whose catalog order carries no
// meaning.
func WithSortedOutput() Option {
	return func(o *options) {
		o.sorted = true
	}
}

type qualifiedTable struct {
	schema string
	table  *model.Table
}

type qualifiedRef struct {
	schema string
	ref    model.Ref
}

// Generate converts a ProjectModel into DBML-formatted bytes: project, enums,
// tables, refs and table groups, in that order.
func Generate(m *model.ProjectModel, opts ...Option) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("failed to generate DBML: model is nil")
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var builder strings.Builder
	g := &generation{model: m, builder: &builder, tableNames: make(map[model.ID]string)}

	if m.Name != "" || m.DatabaseType != "" || m.Note != "" {
		g.generateProject()
	}

	var tables []qualifiedTable
	var refs []qualifiedRef
	for si := range m.Schemas {
		schema := &m.Schemas[si]
		for ti := range schema.Tables {
			t := &schema.Tables[ti]
			tables = append(tables, qualifiedTable{schema: schema.Name, table: t})
			g.tableNames[t.ID] = t.Name
		}
		for _, ref := range schema.Refs {
			refs = append(refs, qualifiedRef{schema: schema.Name, ref: ref})
		}
	}

	if o.sorted {
		sort.SliceStable(tables, func(i, j int) bool {
			if tables[i].schema != tables[j].schema {
				return tables[i].schema < tables[j].schema
			}
			return tables[i].table.Name < tables[j].table.Name
		})
		sort.SliceStable(refs, func(i, j int) bool {
			return g.refSortKey(refs[i]) < g.refSortKey(refs[j])
		})
	}

	for _, schema := range m.Schemas {
		enums := append([]model.Enum(nil), schema.Enums...)
		if o.sorted {
			sort.SliceStable(enums, func(i, j int) bool { return enums[i].Name < enums[j].Name })
		}
		for _, e := range enums {
			g.generateEnum(schema.Name, e)
			builder.WriteString("\n")
		}
	}

	for _, t := range tables {
		g.generateTable(t.schema, t.table)
		builder.WriteString("\n")
	}

	for _, r := range refs {
		g.generateReference(r.schema, r.ref)
	}

	for _, schema := range m.Schemas {
		groups := append([]model.Group(nil), schema.Groups...)
		if o.sorted {
			sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
		}
		for _, group := range groups {
			builder.WriteString("\n")
			g.generateGroup(schema.Name, group)
		}
	}

	return []byte(builder.String()), nil
}

// GenerateString is a convenience wrapper that returns the DBML as a string.
func GenerateString(m *model.ProjectModel, opts ...Option) (string, error) {
	result, err := Generate(m, opts...)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

type generation struct {
	model      *model.ProjectModel
	builder    *strings.Builder
	tableNames map[model.ID]string
}

func (g *generation) generateProject() {
	m := g.model
	g.builder.WriteString("Project")
	if m.Name != "" {
		g.builder.WriteString(" " + quoteIdent(m.Name))
	}
	g.builder.WriteString(" {\n")
	if m.DatabaseType != "" {
		g.builder.WriteString(fmt.Sprintf("  database_type: %s\n", quoteString(m.DatabaseType)))
	}
	if m.Note != "" {
		g.builder.WriteString(fmt.Sprintf("  Note: %s\n", quoteString(m.Note)))
	}
	g.builder.WriteString("}\n\n")
}

func (g *generation) generateEnum(schemaName string, e model.Enum) {
	g.builder.WriteString(fmt.Sprintf("Enum %s {\n", qualify(schemaName, e.Name)))
	for _, v := range e.Values {
		g.builder.WriteString(fmt.Sprintf("  %s\n", quoteIdent(v)))
	}
	if e.Note != "" {
		g.builder.WriteString(fmt.Sprintf("  Note: %s\n", quoteString(e.Note)))
	}
	g.builder.WriteString("}\n")
}

func (g *generation) generateTable(schemaName string, table *model.Table) {
	g.builder.WriteString(fmt.Sprintf("Table %s", qualify(schemaName, table.Name)))
	if table.Alias != "" {
		g.builder.WriteString(" as " + quoteIdent(table.Alias))
	}
	var settings []string
	if table.Meta.HeaderColor != "" {
		settings = append(settings, "headercolor: "+table.Meta.HeaderColor)
	}
	if len(settings) > 0 {
		g.builder.WriteString(fmt.Sprintf(" [%s]", strings.Join(settings, ", ")))
	}
	g.builder.WriteString(" {\n")

	for _, field := range table.Fields {
		g.generateColumn(field)
	}

	if len(table.Indexes) > 0 {
		g.builder.WriteString("\n")
		g.generateIndexes(table.Indexes)
	}

	if table.Note != "" {
		g.builder.WriteString("\n")
		g.builder.WriteString(fmt.Sprintf("  Note: %s\n", quoteString(table.Note)))
	}

	g.builder.WriteString("}\n")
}

func (g *generation) generateColumn(field model.Field) {
	g.builder.WriteString(fmt.Sprintf("  %s %s", quoteIdent(field.Name), formatType(field.Type)))

	var attributes []string
	if field.PK {
		attributes = append(attributes, "pk")
	}
	if field.Increment {
		attributes = append(attributes, "increment")
	}
	if field.NotNull && !field.PK {
		attributes = append(attributes, "not null")
	}
	if field.Unique {
		attributes = append(attributes, "unique")
	}
	if field.Default != nil {
		attributes = append(attributes, "default: "+formatDefault(*field.Default))
	}
	if field.Note != "" {
		attributes = append(attributes, "note: "+quoteString(field.Note))
	}

	if len(attributes) > 0 {
		g.builder.WriteString(fmt.Sprintf(" [%s]", strings.Join(attributes, ", ")))
	}
	g.builder.WriteString("\n")
}

func (g *generation) generateIndexes(indexes []model.Index) {
	g.builder.WriteString("  indexes {\n")
	for _, index := range indexes {
		columns := make([]string, len(index.Columns))
		for i, c := range index.Columns {
			if c.Type == model.IndexColumnExpression {
				columns[i] = "`" + c.Value + "`"
			} else {
				columns[i] = quoteIdent(c.Value)
			}
		}
		if len(columns) == 1 {
			g.builder.WriteString("    " + columns[0])
		} else {
			g.builder.WriteString(fmt.Sprintf("    (%s)", strings.Join(columns, ", ")))
		}

		var attributes []string
		if index.PK {
			attributes = append(attributes, "pk")
		}
		if index.Unique {
			attributes = append(attributes, "unique")
		}
		if index.Name != "" {
			attributes = append(attributes, "name: "+quoteString(index.Name))
		}
		if index.Type != "" {
			attributes = append(attributes, "type: "+index.Type)
		}
		if index.Note != "" {
			attributes = append(attributes, "note: "+quoteString(index.Note))
		}
		if len(attributes) > 0 {
			g.builder.WriteString(fmt.Sprintf(" [%s]", strings.Join(attributes, ", ")))
		}
		g.builder.WriteString("\n")
	}
	g.builder.WriteString("  }\n")
}

func (g *generation) generateReference(schemaName string, ref model.Ref) {
	if len(ref.Endpoints) < 2 {
		return
	}
	g.builder.WriteString("Ref")
	if ref.Name != "" {
		g.builder.WriteString(" " + qualify(schemaName, ref.Name))
	}
	op := ref.Endpoints[0].Relation
	if op == "" {
		op = ">"
	}
	g.builder.WriteString(fmt.Sprintf(": %s %s %s",
		g.endpoint(schemaName, ref.Endpoints[0]), op, g.endpoint(schemaName, ref.Endpoints[1])))

	var refAttributes []string
	if ref.OnDelete != "" && !strings.EqualFold(ref.OnDelete, "no action") {
		refAttributes = append(refAttributes, fmt.Sprintf("delete: %s", strings.ToLower(ref.OnDelete)))
	}
	if ref.OnUpdate != "" && !strings.EqualFold(ref.OnUpdate, "no action") {
		refAttributes = append(refAttributes, fmt.Sprintf("update: %s", strings.ToLower(ref.OnUpdate)))
	}
	if len(refAttributes) > 0 {
		g.builder.WriteString(fmt.Sprintf(" [%s]", strings.Join(refAttributes, ", ")))
	}
	g.builder.WriteString("\n")
}

// endpoint writes an endpoint qualified with the schema it resolves to, so the
// statement means the same thing at the top level of the document.
func (g *generation) endpoint(refSchema string, ep model.Endpoint) string {
	schemaName := ep.SchemaName
	if s, t := g.model.ResolveTable(refSchema, ep.SchemaName, ep.TableName); t != nil {
		schemaName = s.Name
	} else if schemaName == "" && refSchema != model.DefaultSchemaName {
		schemaName = refSchema
	}
	table := qualify(schemaName, ep.TableName)

	fields := make([]string, len(ep.FieldNames))
	for i, f := range ep.FieldNames {
		fields[i] = quoteIdent(f)
	}
	if len(fields) == 1 {
		return fmt.Sprintf("%s.%s", table, fields[0])
	}
	return fmt.Sprintf("%s.(%s)", table, strings.Join(fields, ", "))
}

func (g *generation) refSortKey(r qualifiedRef) string {
	var parts []string
	for _, ep := range r.ref.Endpoints {
		parts = append(parts, g.endpoint(r.schema, ep))
	}
	return strings.Join(parts, " ")
}

func (g *generation) generateGroup(schemaName string, group model.Group) {
	g.builder.WriteString(fmt.Sprintf("TableGroup %s {\n", qualify(schemaName, group.Name)))
	for _, id := range group.TableIDs {
		if name, ok := g.tableNames[id]; ok {
			g.builder.WriteString(fmt.Sprintf("  %s\n", quoteIdent(name)))
		}
	}
	g.builder.WriteString("}\n")
}

// GetQualifiedTableName returns a table name with schema prefix if not "public".
// For the public schema, returns just the table name.
func GetQualifiedTableName(tableName, schemaName string) string {
	if schemaName != "" && schemaName != model.DefaultSchemaName {
		return fmt.Sprintf("%s.%s", schemaName, tableName)
	}
	return tableName
}

func qualify(schemaName, name string) string {
	if schemaName != "" && schemaName != model.DefaultSchemaName {
		return quoteIdent(schemaName) + "." + quoteIdent(name)
	}
	return quoteIdent(name)
}

func formatType(t model.FieldType) string {
	s := quoteIdent(t.TypeName)
	if t.SchemaName != "" {
		s = quoteIdent(t.SchemaName) + "." + s
	}
	if t.Args != "" {
		s += "(" + t.Args + ")"
	}
	return s
}

func formatDefault(d model.Default) string {
	switch d.Type {
	case model.DefaultString:
		return quoteString(d.Value)
	case model.DefaultExpression:
		return "`" + d.Value + "`"
	default:
		return d.Value
	}
}

// quoteIdent wraps names that are not plain identifiers in double quotes.
func quoteIdent(name string) string {
	if isPlainIdent(name) {
		return name
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name) + `"`
}

func isPlainIdent(name string) bool {
	if name == "" {
		return false
	}
	letter := false
	for _, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
		default:
			return false
		}
	}
	return letter
}

func quoteString(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`).Replace(s) + "'"
}
