package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasefe/dbdiagram/model"
)

func mustParse(t *testing.T, src string) *Database {
	t.Helper()
	db := Parse(src)
	require.Empty(t, db.Errors, "unexpected syntax errors")
	return db
}

func schemaNamed(db *Database, name string) *Schema {
	for _, s := range db.Schemas {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func TestParseProject(t *testing.T) {
	db := mustParse(t, `Project shop {
  database_type: 'PostgreSQL'
  Note: 'online store'
}`)
	require.NotNil(t, db.Project)
	assert.Equal(t, "shop", *db.Project.Name)
	assert.Equal(t, "PostgreSQL", *db.Project.DatabaseType)
	assert.Equal(t, "online store", *db.Project.Note)
	assert.Empty(t, db.Schemas)
}

func TestParseDuplicateProject(t *testing.T) {
	db := Parse("Project a {\n}\nProject b {\n}\n")
	require.Len(t, db.Errors, 1)
	assert.Equal(t, "only one Project block is allowed", db.Errors[0].Message)
	assert.Equal(t, "a", *db.Project.Name)
}

func TestParseTable(t *testing.T) {
	db := mustParse(t, `Table sales.orders as O [headercolor: #3498DB, note: 'all orders'] {
  id int [pk, increment]
  total "decimal"(10, 2) [not null, default: 0]
  status sales.status [null, default: 'new']
  created_at timestamp [default: `+"`now()`"+`]
  discount int [default: -1]
  archived boolean [unique, default: false, note: 'soft delete']
}`)
	sales := schemaNamed(db, "sales")
	require.NotNil(t, sales)
	require.Len(t, sales.Tables, 1)
	table := sales.Tables[0]
	assert.Equal(t, "orders", table.Name)
	assert.Equal(t, "O", *table.Alias)
	assert.Equal(t, "#3498DB", *table.HeaderColor)
	assert.Equal(t, "all orders", *table.Note)
	require.Len(t, table.Fields, 6)

	id := table.Fields[0]
	assert.True(t, *id.PK)
	assert.True(t, *id.Increment)
	assert.Nil(t, id.NotNull)

	total := table.Fields[1]
	assert.Equal(t, "decimal", total.Type.Name)
	assert.Equal(t, "10, 2", *total.Type.Args)
	assert.Equal(t, &Default{Kind: "number", Value: "0"}, total.Default)

	status := table.Fields[2]
	assert.Equal(t, "sales", *status.Type.Schema)
	assert.Equal(t, "status", status.Type.Name)
	assert.False(t, *status.NotNull)
	assert.Equal(t, &Default{Kind: "string", Value: "new"}, status.Default)

	assert.Equal(t, &Default{Kind: "expression", Value: "now()"}, table.Fields[3].Default)
	assert.Equal(t, &Default{Kind: "number", Value: "-1"}, table.Fields[4].Default)

	archived := table.Fields[5]
	assert.True(t, *archived.Unique)
	assert.Equal(t, &Default{Kind: "boolean", Value: "false"}, archived.Default)
	assert.Equal(t, "soft delete", *archived.Note)
}

func TestParseIndexes(t *testing.T) {
	db := mustParse(t, `Table bookings {
  id int
  country varchar
  booking_date date
  indexes {
    (id, country) [pk]
    booking_date [name: 'date_idx', type: hash]
    `+"`lower(country)`"+` [unique, note: 'case insensitive']
  }
}`)
	table := db.Schemas[0].Tables[0]
	require.Len(t, table.Indexes, 3)

	pk := table.Indexes[0]
	assert.True(t, *pk.PK)
	require.Len(t, pk.Columns, 2)
	assert.Equal(t, "country", pk.Columns[1].Value)

	named := table.Indexes[1]
	assert.Equal(t, "date_idx", *named.Name)
	assert.Equal(t, "hash", *named.Type)

	expr := table.Indexes[2]
	assert.Equal(t, "expression", expr.Columns[0].Kind)
	assert.Equal(t, "lower(country)", expr.Columns[0].Value)
	assert.True(t, *expr.Unique)
}

func TestParseEnumAndGroup(t *testing.T) {
	db := mustParse(t, `Enum status {
  pending
  "in progress" [note: 'being worked on']
}

TableGroup core {
  users
  auth.sessions
}`)
	public := schemaNamed(db, "public")
	require.NotNil(t, public)
	require.Len(t, public.Enums, 1)
	values := public.Enums[0].Values
	require.Len(t, values, 2)
	assert.Equal(t, "in progress", values[1].Name)
	assert.Equal(t, "being worked on", *values[1].Note)

	require.Len(t, public.TableGroups, 1)
	members := public.TableGroups[0].Tables
	require.Len(t, members, 2)
	assert.Equal(t, "auth", *members[1].Schema)
	assert.Equal(t, "sessions", members[1].Name)
}

func TestParseRefForms(t *testing.T) {
	db := mustParse(t, `Ref: posts.user_id > users.id [delete: cascade, update: set null]
Ref named: a.(x, y) - b.(x, y)
Ref {
  c.id < d.c_id
  e.id <> f.id
}
Ref auth.tokens: auth.tokens.user_id > users.id`)

	public := schemaNamed(db, "public")
	require.Len(t, public.Refs, 4)

	first := public.Refs[0]
	assert.Equal(t, "cascade", *first.OnDelete)
	assert.Equal(t, "set null", *first.OnUpdate)
	assert.Equal(t, ">", first.Endpoints[0].Relation)
	assert.Equal(t, "<", first.Endpoints[1].Relation)

	named := public.Refs[1]
	assert.Equal(t, "named", *named.Name)
	assert.Equal(t, []string{"x", "y"}, named.Endpoints[0].Fields)
	assert.Equal(t, "-", named.Endpoints[1].Relation)

	assert.Equal(t, "<", public.Refs[2].Endpoints[0].Relation)
	assert.Equal(t, ">", public.Refs[2].Endpoints[1].Relation)
	assert.Equal(t, "<>", public.Refs[3].Endpoints[1].Relation)

	auth := schemaNamed(db, "auth")
	require.NotNil(t, auth)
	require.Len(t, auth.Refs, 1)
	assert.Equal(t, "tokens", *auth.Refs[0].Name)
	assert.Equal(t, "auth", *auth.Refs[0].Endpoints[0].Schema)
	assert.Nil(t, auth.Refs[0].Endpoints[1].Schema)
}

func TestParseInlineRef(t *testing.T) {
	db := mustParse(t, `Table auth.sessions {
  user_id int [ref: > public.users.id]
}`)
	auth := schemaNamed(db, "auth")
	require.Len(t, auth.Refs, 1)
	ref := auth.Refs[0]
	self, target := ref.Endpoints[0], ref.Endpoints[1]
	assert.Equal(t, "auth", *self.Schema)
	assert.Equal(t, "sessions", self.Table)
	assert.Equal(t, []string{"user_id"}, self.Fields)
	assert.Equal(t, ">", self.Relation)
	assert.Equal(t, "public", *target.Schema)
	assert.Equal(t, "users", target.Table)
	assert.Equal(t, "<", target.Relation)
}

func TestParseStableIDs(t *testing.T) {
	base := "Table users {\n  id int\n}\n"
	a := mustParse(t, base)
	b := mustParse(t, "Table extra {\n  x int\n}\n"+base)

	usersA := a.Schemas[0].Tables[0]
	usersB := b.Schemas[0].Tables[1]
	assert.Equal(t, usersA.ID, usersB.ID)
	assert.Equal(t, usersA.Fields[0].ID, usersB.Fields[0].ID)
	assert.Equal(t, int(model.HashID("public.users")), usersA.ID)
}

func TestParseDuplicateKeysGetDistinctIDs(t *testing.T) {
	db := Parse("Table users {\n  id int\n}\nTable users {\n  id int\n}\n")
	tables := db.Schemas[0].Tables
	require.Len(t, tables, 2)
	assert.NotEqual(t, tables[0].ID, tables[1].ID)
	assert.NotEqual(t, tables[0].Fields[0].ID, tables[1].Fields[0].ID)
}

func TestParseSkipsStickyNotes(t *testing.T) {
	db := mustParse(t, "Note reminder {\n  'check indexes'\n}\nTable users {\n  id int\n}\n")
	require.Len(t, db.Schemas, 1)
	assert.Len(t, db.Schemas[0].Tables, 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"top level garbage", "foo bar\n", "unexpected 'foo' at top level"},
		{"missing type", "Table t {\n  id\n}\n", `expected a type for field "id"`},
		{"unclosed table", "Table t {\n  id int\n", "unclosed table block, missing '}'"},
		{"unknown field setting", "Table t {\n  id int [primary]\n}\n", `unknown field setting "primary"`},
		{"unclosed settings", "Table t {\n  id int [pk\n}\n", "unclosed settings, missing ']'"},
		{"bad default", "Table t {\n  id int [default: foo]\n}\n", "invalid default value"},
		{"no operator", "Ref: a.id b.id\n", "expected a relation operator (>, <, - or <>)"},
		{"endpoint without field", "Ref: a > b.id\n", "endpoint must name a table and a field, as in table.field"},
		{"too many qualifiers", "Ref: x.y.z.w > b.id\n", "too many qualifiers in endpoint"},
		{"empty ref block", "Ref {\n}\n", "ref block declares no relation"},
		{"bad inline ref", "Table t {\n  id int [ref: users.id]\n}\n", "inline ref expects an operator and an endpoint, as in ref: > users.id"},
		{"bad header color", "Table t [headercolor: red] {\n  id int\n}\n", "headercolor expects a color such as #3498DB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := Parse(tt.src)
			require.NotEmpty(t, db.Errors)
			messages := make([]string, len(db.Errors))
			for i, e := range db.Errors {
				messages[i] = e.Message
			}
			assert.Contains(t, messages, tt.message)
		})
	}
}

func TestParseRecovers(t *testing.T) {
	db := Parse(`Table broken {
  id
  name varchar
}

garbage here

Table users {
  id int [pk]
}`)
	assert.NotEmpty(t, db.Errors)
	tables := db.Schemas[0].Tables
	require.Len(t, tables, 2)
	assert.Len(t, tables[0].Fields, 1)
	assert.Equal(t, "users", tables[1].Name)
}

func TestParseEmpty(t *testing.T) {
	db := Parse("  // nothing here\n")
	assert.Empty(t, db.Errors)
	assert.Nil(t, db.Project)
	assert.Empty(t, db.Schemas)
}
