package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasefe/dbdiagram/diag"
	"github.com/lucasefe/dbdiagram/model"
	"github.com/lucasefe/dbdiagram/parser"
)

const endToEnd = `Table a {
  id int [pk]
}

Table b {
  a_id int
}

Ref: b.a_id > a.id
`

func codes(ds []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

func TestResolveEndToEnd(t *testing.T) {
	res := Resolve(endToEnd)
	require.Empty(t, res.Diagnostics)

	m := res.Model
	require.Len(t, m.Schemas, 1)
	schema := m.Schemas[0]
	assert.Equal(t, model.DefaultSchemaName, schema.Name)
	require.Len(t, schema.Tables, 2)
	require.Len(t, schema.Refs, 1)

	ref := schema.Refs[0]
	require.Len(t, ref.Endpoints, 2)
	assert.Equal(t, []model.ID{ref.Endpoints[0].ID, ref.Endpoints[1].ID}, ref.EndpointIDs)
	for _, ep := range ref.Endpoints {
		assert.Equal(t, ref.ID, ep.RefID)
		assert.Equal(t, ref.Token, ep.Token)
	}

	aID := schema.Table("a").Field("id")
	bAID := schema.Table("b").Field("a_id")
	require.Len(t, aID.Endpoints, 1)
	require.Len(t, bAID.Endpoints, 1)
	assert.Equal(t, "<", aID.Endpoints[0].Relation)
	assert.Equal(t, ">", bAID.Endpoints[0].Relation)
}

func TestResolveIdempotent(t *testing.T) {
	src := `Project shop {
  database_type: 'PostgreSQL'
}

Enum status {
  active
  archived
}

Table users as U [headercolor: #3498DB] {
  id int [pk, increment]
  status status [not null, default: 'active']
}

Table posts {
  id int [pk]
  user_id int [ref: > U.id]
}

TableGroup blog {
  users
  posts
}
`
	first := Resolve(src)
	second := Resolve(src)
	assert.Equal(t, first.Model, second.Model)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestResolveEmpty(t *testing.T) {
	for _, src := range []string{"", "   \n\t", "// only a comment\n"} {
		res := Resolve(src)
		assert.Empty(t, res.Diagnostics)
		require.NotNil(t, res.Model)
		assert.Empty(t, res.Model.Schemas)
	}
}

func TestResolveNormalizesOptionals(t *testing.T) {
	res := Resolve("Table t {\n  id int\n}\n")
	require.Empty(t, res.Diagnostics)

	m := res.Model
	assert.Equal(t, "", m.Name)
	assert.Equal(t, "", m.Note)
	table := m.Schemas[0].Tables[0]
	assert.Equal(t, "", table.Note)
	assert.Equal(t, "", table.Alias)
	assert.Equal(t, "", table.Meta.HeaderColor)

	field := table.Fields[0]
	assert.Equal(t, "", field.Note)
	assert.False(t, field.PK)
	assert.False(t, field.NotNull)
	assert.False(t, field.Increment)
	assert.False(t, field.Unique)
	assert.Nil(t, field.Default)
	assert.NotNil(t, field.Endpoints)
	assert.Empty(t, field.Endpoints)
	assert.Equal(t, model.FieldType{TypeName: "int"}, field.Type)
}

func TestResolveFieldDetails(t *testing.T) {
	res := Resolve(`Table t {
  name varchar(255) [not null, unique, note: 'display name', default: 'anon']
  total decimal(10,2) [default: 0]
  kind auth.kind
}
`)
	require.Empty(t, res.Diagnostics)
	fields := res.Model.Schemas[0].Tables[0].Fields

	assert.Equal(t, model.FieldType{TypeName: "varchar", Args: "255"}, fields[0].Type)
	assert.True(t, fields[0].NotNull)
	assert.True(t, fields[0].Unique)
	assert.Equal(t, "display name", fields[0].Note)
	assert.Equal(t, &model.Default{Type: model.DefaultString, Value: "anon"}, fields[0].Default)

	assert.Equal(t, "10,2", fields[1].Type.Args)
	assert.Equal(t, &model.Default{Type: model.DefaultNumber, Value: "0"}, fields[1].Default)

	assert.Equal(t, model.FieldType{TypeName: "kind", SchemaName: "auth"}, fields[2].Type)
}

func TestResolveTokens(t *testing.T) {
	res := Resolve(endToEnd)
	table := res.Model.Schemas[0].Tables[0]
	assert.Equal(t, model.Position{Offset: 0, Line: 1, Column: 1}, table.Token.Start)
	assert.Equal(t, model.Position{Offset: 25, Line: 3, Column: 2}, table.Token.End)

	field := table.Fields[0]
	assert.Equal(t, 2, field.Token.Start.Line)
	assert.Equal(t, 3, field.Token.Start.Column)

	b := res.Model.Schemas[0].Tables[1]
	assert.Less(t, table.Token.End.Offset, b.Token.Start.Offset)
}

func TestResolveDanglingRef(t *testing.T) {
	res := Resolve(`Table a {
  id int
}

Ref: a.id > missing.id
Ref: missing.x > gone.y
`)
	assert.False(t, res.HasErrors())
	assert.Equal(t, []diag.Code{
		diag.CodeUnresolvedReference,
		diag.CodeUnresolvedReference,
		diag.CodeUnresolvedReference,
		diag.CodeEmptyRef,
	}, codes(res.Diagnostics))
	for _, d := range res.Diagnostics {
		assert.Equal(t, diag.SevWarning, d.Severity)
	}

	// the resolvable side still records its endpoint
	assert.Len(t, res.Model.Schemas[0].Tables[0].Fields[0].Endpoints, 1)
	assert.Len(t, res.Model.Schemas[0].Refs, 2)
}

func TestResolveUnknownField(t *testing.T) {
	res := Resolve(`Table a {
  id int
}

Table b {
  a_id int
}

Ref: b.(a_id, x) > a.(id, y)
`)
	var messages []string
	for _, d := range res.Diagnostics {
		messages = append(messages, d.Message)
	}
	assert.Contains(t, messages, `ref endpoint names unknown field "x" in table "b"`)
	assert.Contains(t, messages, `ref endpoint names unknown field "y" in table "a"`)
}

func TestResolveSyntaxMessageVerbatim(t *testing.T) {
	res := Resolve("Table x {\n  id int [\"bad%d\"]\n}\n")
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, diag.CodeSyntax, res.Diagnostics[0].Code)
	assert.Equal(t, `unknown field setting "bad%d"`, res.Diagnostics[0].Message)
}

func TestResolveDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		code     diag.Code
		severity diag.Severity
		message  string
	}{
		{
			name:     "duplicate table",
			src:      "Table t {\n  id int\n}\nTable t {\n  id int\n}\n",
			code:     diag.CodeDuplicate,
			severity: diag.SevError,
			message:  `table "t" is already defined`,
		},
		{
			name:     "duplicate field",
			src:      "Table t {\n  id int\n  id bigint\n}\n",
			code:     diag.CodeDuplicate,
			severity: diag.SevError,
			message:  `field "id" is already defined in table "t"`,
		},
		{
			name:     "duplicate enum",
			src:      "Enum auth.e {\n  a\n}\nEnum auth.e {\n  b\n}\n",
			code:     diag.CodeDuplicate,
			severity: diag.SevError,
			message:  `enum "auth.e" is already defined`,
		},
		{
			name:     "unknown group table",
			src:      "Table t {\n  id int\n}\nTableGroup g {\n  t\n  nope\n}\n",
			code:     diag.CodeUnknownGroupTable,
			severity: diag.SevWarning,
			message:  `table group "g" references unknown table "nope"`,
		},
		{
			name:     "endpoint mismatch",
			src:      "Table a {\n  x int\n  y int\n}\nTable b {\n  x int\n}\nRef: a.(x, y) > b.x\n",
			code:     diag.CodeEndpointMismatch,
			severity: diag.SevError,
			message:  "ref endpoints have different field counts (2 and 1)",
		},
		{
			name:     "syntax",
			src:      "Table t {\n  id\n}\n",
			code:     diag.CodeSyntax,
			severity: diag.SevError,
			message:  `expected a type for field "id"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.src)
			require.NotEmpty(t, res.Diagnostics)
			d := res.Diagnostics[0]
			assert.Equal(t, tt.code, d.Code)
			assert.Equal(t, tt.severity, d.Severity)
			assert.Equal(t, tt.message, d.Message)
		})
	}
}

func TestResolveGroupMembers(t *testing.T) {
	res := Resolve(`Table users as U {
  id int
}

Table posts {
  id int
}

TableGroup blog {
  U
  posts
}
`)
	require.Empty(t, res.Diagnostics)
	schema := res.Model.Schemas[0]
	require.Len(t, schema.Groups, 1)
	assert.Equal(t, []model.ID{schema.Tables[0].ID, schema.Tables[1].ID}, schema.Groups[0].TableIDs)
}

func TestResolveCrossSchemaRef(t *testing.T) {
	res := Resolve(`Table users {
  id int [pk]
}

Table auth.sessions {
  user_id int [ref: > users.id]
}
`)
	require.Empty(t, res.Diagnostics)
	users := res.Model.Schema("public").Table("users")
	require.NotNil(t, users)
	require.Len(t, users.Field("id").Endpoints, 1)
	sessions := res.Model.Schema("auth").Table("sessions")
	require.Len(t, sessions.Field("user_id").Endpoints, 1)
}

func TestResolveDiagnosticsSortedAndCapped(t *testing.T) {
	src := "Table t {\n  a\n  b\n  c\n}\n"
	res := Resolve(src)
	require.Len(t, res.Diagnostics, 3)
	for i := 1; i < len(res.Diagnostics); i++ {
		assert.LessOrEqual(t, res.Diagnostics[i-1].Token.Start.Offset, res.Diagnostics[i].Token.Start.Offset)
	}

	capped := Resolve(src, WithMaxDiagnostics(2))
	assert.Len(t, capped.Diagnostics, 2)

	unlimited := Resolve(src, WithMaxDiagnostics(0))
	assert.Len(t, unlimited.Diagnostics, 3)
}

type stubParser struct {
	db *parser.Database
}

func (s stubParser) Parse(string) *parser.Database { return s.db }

func TestResolveWithParser(t *testing.T) {
	res := Resolve("ignored", WithParser(stubParser{}))
	assert.Empty(t, res.Diagnostics)
	assert.Empty(t, res.Model.Schemas)

	name := "custom"
	db := &parser.Database{
		Project: &parser.Project{ID: 7, Name: &name},
		Errors:  []parser.Error{{Message: "boom"}},
	}
	res = New(WithParser(stubParser{db: db})).Resolve("ignored")
	assert.Equal(t, "custom", res.Model.Name)
	assert.Equal(t, model.ID(7), res.Model.ID)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "boom", res.Diagnostics[0].Message)
	assert.True(t, res.HasErrors())
}
