package introspect

import (
	"database/sql"
	"testing"

	"github.com/lucasefe/dbdiagram/model"
)

func ordersCatalog() []rawSchema {
	return []rawSchema{{
		name:  "public",
		enums: []rawEnum{{name: "order_status", values: []string{"pending", "shipped"}}},
		tables: []rawTable{
			{
				name:    "orders",
				comment: "customer orders",
				columns: []rawColumn{
					{name: "id", fieldType: model.FieldType{TypeName: "int"}, defaultValue: sql.NullString{String: "nextval('orders_id_seq'::regclass)", Valid: true}},
					{name: "status", fieldType: model.FieldType{TypeName: "order_status"}, nullable: true, defaultValue: sql.NullString{String: "'pending'::order_status", Valid: true}},
				},
				primaryKeys: []string{"id"},
				indexes:     []rawIndex{{name: "orders_status_idx", columns: []string{"status"}, method: "hash"}},
			},
			{
				name: "order_items",
				columns: []rawColumn{
					{name: "order_id", fieldType: model.FieldType{TypeName: "int"}},
					{name: "product_id", fieldType: model.FieldType{TypeName: "int"}},
					{name: "quantity", fieldType: model.FieldType{TypeName: "int"}, defaultValue: sql.NullString{String: "1", Valid: true}},
				},
				primaryKeys: []string{"order_id", "product_id"},
				foreignKeys: []rawForeignKey{{
					column: "order_id", toSchema: "public", toTable: "orders", toColumn: "id",
					onDelete: "CASCADE", onUpdate: "NO ACTION",
				}},
			},
		},
	}}
}

func TestBuildModel(t *testing.T) {
	m := buildModel(ordersCatalog())

	if m.DatabaseType != "PostgreSQL" {
		t.Errorf("DatabaseType = %q, want PostgreSQL", m.DatabaseType)
	}
	if len(m.Schemas) != 1 {
		t.Fatalf("got %d schemas, want 1", len(m.Schemas))
	}
	schema := m.Schemas[0]
	if len(schema.Enums) != 1 || len(schema.Enums[0].Values) != 2 {
		t.Errorf("enums = %+v", schema.Enums)
	}

	orders := schema.Table("orders")
	if orders == nil {
		t.Fatal("orders table missing")
	}
	if orders.Note != "customer orders" {
		t.Errorf("orders note = %q", orders.Note)
	}
	id := orders.Field("id")
	if !id.PK || !id.Increment || !id.NotNull || id.Default != nil {
		t.Errorf("orders.id = %+v", id)
	}
	status := orders.Field("status")
	if status.NotNull {
		t.Error("orders.status should be nullable")
	}
	if status.Default == nil || status.Default.Type != model.DefaultString || status.Default.Value != "pending" {
		t.Errorf("orders.status default = %+v", status.Default)
	}
	if len(orders.Indexes) != 1 || orders.Indexes[0].Type != "hash" {
		t.Errorf("orders indexes = %+v", orders.Indexes)
	}

	items := schema.Table("order_items")
	if items.Field("order_id").PK {
		t.Error("composite key column should not carry the pk setting")
	}
	if len(items.Indexes) != 1 || !items.Indexes[0].PK || len(items.Indexes[0].Columns) != 2 {
		t.Errorf("order_items indexes = %+v", items.Indexes)
	}

	if len(schema.Refs) != 1 {
		t.Fatalf("got %d refs, want 1", len(schema.Refs))
	}
	ref := schema.Refs[0]
	if ref.OnDelete != "cascade" || ref.OnUpdate != "" {
		t.Errorf("ref actions = %q/%q", ref.OnDelete, ref.OnUpdate)
	}
	if ref.Endpoints[0].Relation != ">" || ref.Endpoints[1].Relation != "<" {
		t.Errorf("relations = %q, %q", ref.Endpoints[0].Relation, ref.Endpoints[1].Relation)
	}
	if got := len(items.Field("order_id").Endpoints); got != 1 {
		t.Errorf("order_items.order_id has %d endpoints, want 1", got)
	}
	if got := len(id.Endpoints); got != 1 {
		t.Errorf("orders.id has %d endpoints, want 1", got)
	}
}

func TestBuildModelStableIDs(t *testing.T) {
	a := buildModel(ordersCatalog())
	b := buildModel(ordersCatalog())

	if a.Schemas[0].Table("orders").ID != b.Schemas[0].Table("orders").ID {
		t.Error("table ids differ between builds")
	}
	if a.Schemas[0].Refs[0].ID != b.Schemas[0].Refs[0].ID {
		t.Error("ref ids differ between builds")
	}
	if want := model.HashID("public.orders"); a.Schemas[0].Table("orders").ID != want {
		t.Errorf("orders id = %d, want %d", a.Schemas[0].Table("orders").ID, want)
	}
}

func TestBuildModelForeignSchemaNotIntrospected(t *testing.T) {
	catalog := []rawSchema{{
		name: "public",
		tables: []rawTable{{
			name:    "sessions",
			columns: []rawColumn{{name: "user_id", fieldType: model.FieldType{TypeName: "int"}}},
			foreignKeys: []rawForeignKey{{
				column: "user_id", toSchema: "auth", toTable: "users", toColumn: "id",
			}},
		}},
	}}

	m := buildModel(catalog)
	ref := m.Schemas[0].Refs[0]
	if ref.Endpoints[1].SchemaName != "auth" {
		t.Errorf("target schema = %q, want auth", ref.Endpoints[1].SchemaName)
	}
	if got := len(m.Schemas[0].Table("sessions").Field("user_id").Endpoints); got != 1 {
		t.Errorf("sessions.user_id has %d endpoints, want 1", got)
	}
}

func TestParseColumnDefault(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantType      model.DefaultType
		wantValue     string
		wantNil       bool
		wantIncrement bool
	}{
		{name: "sequence", input: "nextval('users_id_seq'::regclass)", wantNil: true, wantIncrement: true},
		{name: "null", input: "NULL::character varying", wantNil: true},
		{name: "boolean", input: "true", wantType: model.DefaultBoolean, wantValue: "true"},
		{name: "boolean upper", input: "FALSE", wantType: model.DefaultBoolean, wantValue: "false"},
		{name: "integer", input: "0", wantType: model.DefaultNumber, wantValue: "0"},
		{name: "negative cast", input: "(-1)::integer", wantType: model.DefaultNumber, wantValue: "-1"},
		{name: "decimal", input: "9.99", wantType: model.DefaultNumber, wantValue: "9.99"},
		{name: "string cast", input: "'active'::character varying", wantType: model.DefaultString, wantValue: "active"},
		{name: "escaped quote", input: "'it''s'::text", wantType: model.DefaultString, wantValue: "it's"},
		{name: "function", input: "now()", wantType: model.DefaultExpression, wantValue: "now()"},
		{name: "current timestamp", input: "CURRENT_TIMESTAMP", wantType: model.DefaultExpression, wantValue: "CURRENT_TIMESTAMP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, increment := parseColumnDefault(tt.input)
			if increment != tt.wantIncrement {
				t.Errorf("increment = %v, want %v", increment, tt.wantIncrement)
			}
			if tt.wantNil {
				if def != nil {
					t.Errorf("default = %+v, want nil", def)
				}
				return
			}
			if def == nil {
				t.Fatal("default is nil")
			}
			if def.Type != tt.wantType || def.Value != tt.wantValue {
				t.Errorf("default = %s %q, want %s %q", def.Type, def.Value, tt.wantType, tt.wantValue)
			}
		})
	}
}

func TestSplitArray(t *testing.T) {
	got := splitArray(`{id,"created at"}`)
	if len(got) != 2 || got[0] != "id" || got[1] != "created at" {
		t.Errorf("splitArray = %q", got)
	}
	if got := splitArray("{}"); got != nil {
		t.Errorf("splitArray({}) = %q, want nil", got)
	}
}
