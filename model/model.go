// Package model defines the normalized project model produced by the resolver.
//
// A ProjectModel is an immutable snapshot: every edit of the source text produces a
// new one. Optional text is normalized to the empty string and optional flags to
// false, so consumers never deal with missing values. Tokens are kept only for
// diagnostics and never feed rendering geometry.
package model

// ID identifies a model entity. IDs are assigned by the parser per entity kind in
// source order, so they are stable across resolves of the same text.
type ID int

// ProjectModel is the root of a resolved DBML document.
type ProjectModel struct {
	// ID is the identifier of the project node.
	ID ID `json:"id"`
	// Name is the project name from the Project block, or empty.
	Name string `json:"name"`
	// DatabaseType is the database_type setting of the Project block, or empty.
	DatabaseType string `json:"databaseType"`
	// Note is the project note, or empty.
	Note string `json:"note"`
	// Schemas lists the schemas in order of first appearance.
	Schemas []Schema `json:"schemas"`
}

// Schema groups tables, enums, table groups and refs under one namespace.
type Schema struct {
	ID     ID      `json:"id"`
	Name   string  `json:"name"`
	Note   string  `json:"note"`
	Enums  []Enum  `json:"enums"`
	Groups []Group `json:"groups"`
	Tables []Table `json:"tables"`
	Refs   []Ref   `json:"refs"`
}

// Enum is a named list of values.
type Enum struct {
	ID     ID       `json:"id"`
	Name   string   `json:"name"`
	Note   string   `json:"note"`
	Values []string `json:"values"`
	Token  Token    `json:"token"`
}

// Group is a table group. It refers to tables by id and owns none of them.
type Group struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	TableIDs []ID   `json:"tableIds"`
	Token    Token  `json:"token"`
}

// Table is a table definition with its fields and indexes.
type Table struct {
	ID ID `json:"id"`
	// Name is the table name without schema qualification.
	Name string `json:"name"`
	// Alias is the short name declared with "as", or empty.
	Alias   string    `json:"alias"`
	Note    string    `json:"note"`
	Fields  []Field   `json:"fields"`
	Indexes []Index   `json:"indexes"`
	Meta    TableMeta `json:"meta"`
	Token   Token     `json:"token"`
}

// TableMeta carries presentation settings of a table.
type TableMeta struct {
	// HeaderColor is the headercolor setting (e.g. "#3498DB"), or empty.
	HeaderColor string `json:"headerColor,omitempty"`
}

// Field is a column of a table.
type Field struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	Note      string     `json:"note"`
	Type      FieldType  `json:"type"`
	Increment bool       `json:"increment"`
	NotNull   bool       `json:"notNull"`
	PK        bool       `json:"pk"`
	Unique    bool       `json:"unique"`
	Endpoints []Endpoint `json:"endpoints"`
	Token     Token      `json:"token"`
	// Default is the default value setting, or nil when the field declares none.
	Default *Default `json:"default,omitempty"`
}

// FieldType is the declared type of a field.
type FieldType struct {
	// TypeName is the raw type name, e.g. "varchar".
	TypeName string `json:"typeName"`
	// SchemaName is the schema qualifier of the type, or empty.
	SchemaName string `json:"schemaName"`
	// Args is the raw text between the parentheses, e.g. "255" or "10,2".
	Args string `json:"args"`
}

// DefaultType classifies a default value.
type DefaultType string

const (
	DefaultNumber     DefaultType = "number"
	DefaultString     DefaultType = "string"
	DefaultBoolean    DefaultType = "boolean"
	DefaultExpression DefaultType = "expression"
)

// Default is a field default value.
type Default struct {
	Type  DefaultType `json:"type"`
	Value string      `json:"value"`
}

// Index is a single or composite index definition.
type Index struct {
	ID      ID            `json:"id"`
	Name    string        `json:"name"`
	Note    string        `json:"note"`
	Unique  bool          `json:"unique"`
	PK      bool          `json:"pk"`
	Type    string        `json:"type"`
	Columns []IndexColumn `json:"columns"`
	Token   Token         `json:"token"`
}

// IndexColumnType tells whether an index column is a plain column or an expression.
type IndexColumnType string

const (
	IndexColumnName       IndexColumnType = "column"
	IndexColumnExpression IndexColumnType = "expression"
)

// IndexColumn is one entry of an index.
type IndexColumn struct {
	ID    ID              `json:"id"`
	Type  IndexColumnType `json:"type"`
	Value string          `json:"value"`
	Token Token           `json:"token"`
}

// Endpoint is one side of a Ref. It is always owned by exactly one Ref.
type Endpoint struct {
	ID ID `json:"id"`
	// Relation is the operator read from this endpoint toward the other one:
	// ">" many-to-one, "<" one-to-many, "-" one-to-one, "<>" many-to-many.
	Relation string `json:"relation"`
	// SchemaName is the written schema qualifier, or empty.
	SchemaName string   `json:"schemaName"`
	TableName  string   `json:"tableName"`
	FieldNames []string `json:"fieldNames"`
	RefID      ID       `json:"refId"`
	// Token is the span of the owning ref.
	Token Token `json:"token"`
}

// Ref is a declared relationship between two endpoints. The ref owns its endpoints;
// Field.Endpoints holds copies of those that resolved to the field.
type Ref struct {
	ID          ID         `json:"id"`
	Name        string     `json:"name"`
	EndpointIDs []ID       `json:"endpointIds"`
	Endpoints   []Endpoint `json:"endpoints"`
	OnDelete    string     `json:"onDelete,omitempty"`
	OnUpdate    string     `json:"onUpdate,omitempty"`
	Token       Token      `json:"token"`
}

// Position is a location in source text. Offset is a 0-based byte offset, Line and
// Column are 1-based.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Token is a source span, end exclusive.
type Token struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}
