package introspect

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/lucasefe/dbdiagram/model"
)

type rawSchema struct {
	name   string
	enums  []rawEnum
	tables []rawTable
}

type rawEnum struct {
	name   string
	values []string
}

type rawTable struct {
	name        string
	comment     string
	columns     []rawColumn
	primaryKeys []string
	indexes     []rawIndex
	foreignKeys []rawForeignKey
}

type rawColumn struct {
	name         string
	fieldType    model.FieldType
	nullable     bool
	identity     bool
	defaultValue sql.NullString
	comment      string
}

type rawIndex struct {
	name    string
	columns []string
	unique  bool
	method  string
}

type rawForeignKey struct {
	column   string
	toSchema string
	toTable  string
	toColumn string
	onDelete string
	onUpdate string
}

// buildModel converts catalog rows into a model. Ids are derived from the same
// qualified keys the DBML parser uses, so a table keeps its id whether it was read
// from the database or from generated DBML.
func buildModel(catalog []rawSchema) *model.ProjectModel {
	ids := model.NewIDAllocator()
	m := &model.ProjectModel{
		ID:           ids.Assign("project", ""),
		DatabaseType: "PostgreSQL",
		Schemas:      make([]model.Schema, 0, len(catalog)),
	}

	for _, rs := range catalog {
		schema := model.Schema{
			ID:     ids.Assign("schema", rs.name),
			Name:   rs.name,
			Enums:  make([]model.Enum, 0, len(rs.enums)),
			Groups: []model.Group{},
			Tables: make([]model.Table, 0, len(rs.tables)),
			Refs:   []model.Ref{},
		}
		for _, e := range rs.enums {
			schema.Enums = append(schema.Enums, model.Enum{
				ID:     ids.Assign("enum", rs.name+"."+e.name),
				Name:   e.name,
				Values: e.values,
			})
		}
		for _, rt := range rs.tables {
			schema.Tables = append(schema.Tables, buildTable(ids, rs.name, rt))
			for _, fk := range rt.foreignKeys {
				schema.Refs = append(schema.Refs, buildRef(ids, rs.name, rt.name, fk))
			}
		}
		m.Schemas = append(m.Schemas, schema)
	}

	attachEndpoints(m)
	return m
}

func buildTable(ids *model.IDAllocator, schemaName string, rt rawTable) model.Table {
	tableKey := schemaName + "." + rt.name
	pks := make(map[string]bool, len(rt.primaryKeys))
	for _, pk := range rt.primaryKeys {
		pks[pk] = true
	}

	table := model.Table{
		ID:      ids.Assign("table", tableKey),
		Name:    rt.name,
		Note:    rt.comment,
		Fields:  make([]model.Field, 0, len(rt.columns)),
		Indexes: make([]model.Index, 0, len(rt.indexes)),
	}

	// a composite primary key is an index; a single one is a field setting
	compositePK := len(rt.primaryKeys) > 1
	for _, col := range rt.columns {
		field := model.Field{
			ID:        ids.Assign("field", tableKey+"."+col.name),
			Name:      col.name,
			Note:      col.comment,
			Type:      col.fieldType,
			PK:        pks[col.name] && !compositePK,
			NotNull:   !col.nullable,
			Increment: col.identity,
			Endpoints: []model.Endpoint{},
		}
		if col.defaultValue.Valid {
			def, increment := parseColumnDefault(col.defaultValue.String)
			field.Default = def
			field.Increment = field.Increment || increment
		}
		table.Fields = append(table.Fields, field)
	}

	if compositePK {
		table.Indexes = append(table.Indexes, buildIndex(ids, tableKey, rawIndex{columns: rt.primaryKeys}, true))
	}
	for _, ri := range rt.indexes {
		table.Indexes = append(table.Indexes, buildIndex(ids, tableKey, ri, false))
	}
	return table
}

func buildIndex(ids *model.IDAllocator, tableKey string, ri rawIndex, pk bool) model.Index {
	key := tableKey + "(" + strings.Join(ri.columns, ",") + ")"
	if ri.name != "" {
		key = tableKey + ":" + ri.name
	}
	index := model.Index{
		ID:      ids.Assign("index", key),
		Name:    ri.name,
		Unique:  ri.unique,
		PK:      pk,
		Columns: make([]model.IndexColumn, 0, len(ri.columns)),
	}
	if ri.method != "" && ri.method != "btree" {
		index.Type = ri.method
	}
	for _, c := range ri.columns {
		index.Columns = append(index.Columns, model.IndexColumn{
			ID:    ids.Assign("indexColumn", key+"/"+c),
			Type:  model.IndexColumnName,
			Value: c,
		})
	}
	return index
}

func buildRef(ids *model.IDAllocator, schemaName, tableName string, fk rawForeignKey) model.Ref {
	from := model.Endpoint{Relation: ">", SchemaName: schemaName, TableName: tableName, FieldNames: []string{fk.column}}
	to := model.Endpoint{Relation: "<", SchemaName: fk.toSchema, TableName: fk.toTable, FieldNames: []string{fk.toColumn}}

	key := fmt.Sprintf("%s:%s.%s.(%s)>%s.%s.(%s)", schemaName,
		from.SchemaName, from.TableName, fk.column, to.SchemaName, to.TableName, fk.toColumn)
	ref := model.Ref{ID: ids.Assign("ref", key)}
	if isAction(fk.onDelete) {
		ref.OnDelete = strings.ToLower(fk.onDelete)
	}
	if isAction(fk.onUpdate) {
		ref.OnUpdate = strings.ToLower(fk.onUpdate)
	}
	for i, ep := range []model.Endpoint{from, to} {
		ep.ID = ids.Assign("endpoint", fmt.Sprintf("%s/%d", key, i))
		ep.RefID = ref.ID
		ref.EndpointIDs = append(ref.EndpointIDs, ep.ID)
		ref.Endpoints = append(ref.Endpoints, ep)
	}
	return ref
}

// attachEndpoints copies every endpoint onto the fields it names. Endpoints into
// schemas that were not introspected stay on their ref only.
func attachEndpoints(m *model.ProjectModel) {
	for _, schema := range m.Schemas {
		for _, ref := range schema.Refs {
			for _, ep := range ref.Endpoints {
				_, table := m.ResolveTable(schema.Name, ep.SchemaName, ep.TableName)
				if table == nil {
					continue
				}
				for _, name := range ep.FieldNames {
					if field := table.Field(name); field != nil {
						field.Endpoints = append(field.Endpoints, ep)
					}
				}
			}
		}
	}
}

var (
	castLiteral = regexp.MustCompile(`^'((?:[^']|'')*)'(?:::[\w\s."]+(?:\[\])?)?$`)
	numeric     = regexp.MustCompile(`^\(?(-?\d+(?:\.\d+)?)\)?(?:::[\w\s]+)?$`)
)

// parseColumnDefault interprets a column_default expression. Sequence defaults
// become the increment flag; literals keep their DBML kind; anything else is an
// expression.
func parseColumnDefault(def string) (*model.Default, bool) {
	def = strings.TrimSpace(def)
	switch {
	case def == "":
		return nil, false
	case strings.HasPrefix(def, "nextval("):
		return nil, true
	case strings.EqualFold(def, "null") || strings.HasPrefix(strings.ToUpper(def), "NULL::"):
		return nil, false
	case strings.EqualFold(def, "true") || strings.EqualFold(def, "false"):
		return &model.Default{Type: model.DefaultBoolean, Value: strings.ToLower(def)}, false
	}
	if m := numeric.FindStringSubmatch(def); m != nil {
		return &model.Default{Type: model.DefaultNumber, Value: m[1]}, false
	}
	if m := castLiteral.FindStringSubmatch(def); m != nil {
		return &model.Default{Type: model.DefaultString, Value: strings.ReplaceAll(m[1], "''", "'")}, false
	}
	return &model.Default{Type: model.DefaultExpression, Value: def}, false
}
