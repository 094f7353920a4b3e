package model

import "testing"

func sampleModel() *ProjectModel {
	return &ProjectModel{
		Schemas: []Schema{
			{
				ID:   1,
				Name: "public",
				Tables: []Table{
					{ID: 1, Name: "users"},
					{ID: 2, Name: "posts"},
					{ID: 3, Name: "migrations"},
					{ID: 4, Name: "schema_versions"},
				},
				Groups: []Group{{ID: 1, Name: "core", TableIDs: []ID{1, 3}}},
			},
			{
				ID:     2,
				Name:   "auth",
				Tables: []Table{{ID: 5, Name: "sessions"}},
			},
		},
	}
}

func TestFilterTables(t *testing.T) {
	p := sampleModel()

	excludeTables := []string{"migrations", "schema_versions", "auth.sessions"}
	filtered := FilterTables(p, excludeTables)

	if len(filtered.Schemas[0].Tables) != 2 {
		t.Errorf("Expected 2 tables after filtering, got %d", len(filtered.Schemas[0].Tables))
	}
	if len(filtered.Schemas[1].Tables) != 0 {
		t.Errorf("Expected qualified exclude to remove auth.sessions, got %d tables", len(filtered.Schemas[1].Tables))
	}

	expectedTables := map[string]bool{"users": true, "posts": true}
	for _, table := range filtered.Schemas[0].Tables {
		if !expectedTables[table.Name] {
			t.Errorf("Unexpected table in filtered result: %s", table.Name)
		}
	}

	if got := filtered.Schemas[0].Groups[0].TableIDs; len(got) != 1 || got[0] != 1 {
		t.Errorf("Expected group to keep only table 1, got %v", got)
	}
}

func TestFilterTablesEmpty(t *testing.T) {
	p := sampleModel()

	// Filter with empty exclude list
	filtered := FilterTables(p, []string{})

	if len(filtered.Schemas[0].Tables) != 4 {
		t.Errorf("Expected 4 tables when exclude list is empty, got %d", len(filtered.Schemas[0].Tables))
	}
}

func TestFilterTablesOriginalUnmodified(t *testing.T) {
	p := sampleModel()

	FilterTables(p, []string{"migrations"})

	// Original should still have 4 tables and an untouched group
	if len(p.Schemas[0].Tables) != 4 {
		t.Errorf("Original model was modified, expected 4 tables, got %d", len(p.Schemas[0].Tables))
	}
	if len(p.Schemas[0].Groups[0].TableIDs) != 2 {
		t.Errorf("Original group was modified: %v", p.Schemas[0].Groups[0].TableIDs)
	}
}

func TestLookup(t *testing.T) {
	p := sampleModel()
	p.Schemas[0].Tables[0].Alias = "U"
	p.Schemas[0].Tables[0].Fields = []Field{{ID: 1, Name: "id"}}

	if s := p.Schema(""); s == nil || s.Name != "public" {
		t.Fatalf("Schema(\"\") should return the public schema")
	}
	if tbl := p.Schema("public").Table("U"); tbl == nil || tbl.Name != "users" {
		t.Errorf("Table lookup by alias failed")
	}
	if f := p.Schema("public").Table("users").Field("id"); f == nil || f.ID != 1 {
		t.Errorf("Field lookup failed")
	}
	if p.Schema("missing") != nil {
		t.Errorf("Expected nil for unknown schema")
	}
	if QualifiedName("public", "users") != "users" || QualifiedName("auth", "sessions") != "auth.sessions" {
		t.Errorf("QualifiedName returned unexpected value")
	}
}
