// Package relation derives the field-to-field connections a diagram draws.
//
// Relations are never patched: Derive is pure and is re-run wholesale every time
// the model is replaced.
package relation

import "github.com/lucasefe/dbdiagram/model"

// Relation connects the field of a ref's first endpoint to the matching field of its
// second endpoint.
type Relation struct {
	FromFieldID model.ID `json:"fromFieldId"`
	ToFieldID   model.ID `json:"toFieldId"`
	RefID       model.ID `json:"refId"`
}

// Derive walks every ref of every schema and resolves its two endpoints to concrete
// fields. Composite endpoints are paired column by column. Endpoints naming a table
// or field that does not exist are dropped without error. The result follows schema
// order, then ref declaration order, then column order.
func Derive(m *model.ProjectModel) []Relation {
	if m == nil {
		return nil
	}
	var out []Relation
	for _, schema := range m.Schemas {
		for _, ref := range schema.Refs {
			if len(ref.Endpoints) != 2 {
				continue
			}
			from := resolveFields(m, schema.Name, ref.Endpoints[0])
			to := resolveFields(m, schema.Name, ref.Endpoints[1])
			for i := 0; i < len(from) && i < len(to); i++ {
				if from[i] == nil || to[i] == nil {
					continue
				}
				out = append(out, Relation{FromFieldID: from[i].ID, ToFieldID: to[i].ID, RefID: ref.ID})
			}
		}
	}
	return out
}

// resolveFields returns one entry per endpoint field name, nil where it does not
// resolve.
func resolveFields(m *model.ProjectModel, refSchema string, ep model.Endpoint) []*model.Field {
	_, table := m.ResolveTable(refSchema, ep.SchemaName, ep.TableName)
	if table == nil {
		return nil
	}
	fields := make([]*model.Field, len(ep.FieldNames))
	for i, name := range ep.FieldNames {
		fields[i] = table.Field(name)
	}
	return fields
}

// FieldRef locates a field inside a model.
type FieldRef struct {
	Schema string
	Table  *model.Table
	Field  *model.Field
}

// FieldIndex maps every field id of m to its table and field.
func FieldIndex(m *model.ProjectModel) map[model.ID]FieldRef {
	index := make(map[model.ID]FieldRef)
	if m == nil {
		return index
	}
	for si := range m.Schemas {
		s := &m.Schemas[si]
		for ti := range s.Tables {
			t := &s.Tables[ti]
			for fi := range t.Fields {
				index[t.Fields[fi].ID] = FieldRef{Schema: s.Name, Table: t, Field: &t.Fields[fi]}
			}
		}
	}
	return index
}
