package parser

// Database is the raw parse tree of a DBML document. Optional settings are pointers
// so consumers can tell "absent" from "zero". Every node carries the span of the
// source it was parsed from and an ID derived from its qualified name, which keeps
// IDs stable while the node survives edits elsewhere in the document.
type Database struct {
	Project *Project
	Schemas []*Schema
	Errors  []Error
}

// Error is a syntax error. Parsing continues after an error.
type Error struct {
	Message string
	Span    Span
}

func (e Error) Error() string {
	return e.Message
}

type Project struct {
	ID           int
	Name         *string
	DatabaseType *string
	Note         *string
	Span         Span
}

type Schema struct {
	ID          int
	Name        string
	Note        *string
	Tables      []*Table
	Enums       []*Enum
	TableGroups []*TableGroup
	Refs        []*Ref
}

type Table struct {
	ID          int
	Name        string
	Alias       *string
	Note        *string
	HeaderColor *string
	Fields      []*Field
	Indexes     []*Index
	Span        Span
}

type Field struct {
	ID        int
	Name      string
	Type      TypeRef
	PK        *bool
	Increment *bool
	NotNull   *bool
	Unique    *bool
	Note      *string
	Default   *Default
	Span      Span
}

// TypeRef is a field type as written.
type TypeRef struct {
	Name   string
	Schema *string
	Args   *string
}

// Default is a default value setting. Kind is one of "number", "string", "boolean"
// or "expression".
type Default struct {
	Kind  string
	Value string
}

type Index struct {
	ID      int
	Name    *string
	Note    *string
	Type    *string
	Unique  *bool
	PK      *bool
	Columns []*IndexColumn
	Span    Span
}

type IndexColumn struct {
	ID    int
	Kind  string // "column" or "expression"
	Value string
	Span  Span
}

type Enum struct {
	ID     int
	Name   string
	Note   *string
	Values []*EnumValue
	Span   Span
}

type EnumValue struct {
	Name string
	Note *string
	Span Span
}

type TableGroup struct {
	ID     int
	Name   string
	Tables []TableName
	Span   Span
}

// TableName is a possibly schema-qualified table reference.
type TableName struct {
	Schema *string
	Name   string
	Span   Span
}

type Ref struct {
	ID        int
	Name      *string
	Endpoints []*Endpoint
	OnDelete  *string
	OnUpdate  *string
	Span      Span
}

// Endpoint is one side of a ref. Relation is the operator read from this endpoint
// toward the other one.
type Endpoint struct {
	ID       int
	Relation string
	Schema   *string
	Table    string
	Fields   []string
	Span     Span
}
