package model

// DefaultSchemaName is the schema unqualified tables belong to.
const DefaultSchemaName = "public"

// Schema returns the schema with the given name, or nil. An empty name means the
// default schema.
func (p *ProjectModel) Schema(name string) *Schema {
	if p == nil {
		return nil
	}
	if name == "" {
		name = DefaultSchemaName
	}
	for i := range p.Schemas {
		if p.Schemas[i].Name == name {
			return &p.Schemas[i]
		}
	}
	return nil
}

// Table returns the table whose name or alias matches, or nil.
func (s *Schema) Table(name string) *Table {
	if s == nil {
		return nil
	}
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	for i := range s.Tables {
		if s.Tables[i].Alias != "" && s.Tables[i].Alias == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Field returns the field with the given name, or nil.
func (t *Table) Field(name string) *Field {
	if t == nil {
		return nil
	}
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// QualifiedName returns a table name with schema prefix if not the default schema.
func QualifiedName(schemaName, tableName string) string {
	if schemaName != "" && schemaName != DefaultSchemaName {
		return schemaName + "." + tableName
	}
	return tableName
}

// ResolveTable finds the table an endpoint names. A qualified endpoint is looked up
// in its schema only; an unqualified one in the schema owning the ref first and in
// the default schema second.
func (p *ProjectModel) ResolveTable(refSchema, endpointSchema, tableName string) (*Schema, *Table) {
	if endpointSchema != "" {
		s := p.Schema(endpointSchema)
		if t := s.Table(tableName); t != nil {
			return s, t
		}
		return nil, nil
	}
	if s := p.Schema(refSchema); s != nil {
		if t := s.Table(tableName); t != nil {
			return s, t
		}
	}
	if refSchema != DefaultSchemaName {
		s := p.Schema(DefaultSchemaName)
		if t := s.Table(tableName); t != nil {
			return s, t
		}
	}
	return nil, nil
}

// String renders the type as written in DBML, e.g. "varchar(255)" or
// "audit.status".
func (t FieldType) String() string {
	s := t.TypeName
	if t.SchemaName != "" {
		s = t.SchemaName + "." + s
	}
	if t.Args != "" {
		s += "(" + t.Args + ")"
	}
	return s
}
