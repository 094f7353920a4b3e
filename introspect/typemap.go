package introspect

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lucasefe/dbdiagram/model"
)

// TypeMapper defines the interface for converting database types to DBML field types.
// Implement this interface to customize type mapping behavior.
type TypeMapper interface {
	// MapType converts a database column type to a DBML field type.
	// dataType is the base data type (e.g., "integer", "character varying")
	// udtName is the underlying type name, used for enums and arrays
	// charMaxLength, numericPrecision, numericScale provide type modifiers
	MapType(dataType, udtName string, charMaxLength, numericPrecision, numericScale sql.NullInt64) model.FieldType
}

// PostgreSQLTypeMapper provides PostgreSQL to DBML type conversion.
// It supports custom type overrides via the CustomMappings field.
type PostgreSQLTypeMapper struct {
	// CustomMappings allows overriding default type mappings.
	// Keys are PostgreSQL type names (case-insensitive), values are DBML types
	// such as "varchar" or "decimal(12,4)".
	CustomMappings map[string]string
}

// NewPostgreSQLTypeMapper creates a new TypeMapper with optional custom mappings.
// If customMappings is nil, only default mappings are used.
//
// Example:
//
//	mapper := introspect.NewPostgreSQLTypeMapper(map[string]string{
//	    "citext": "varchar",
//	    "ltree":  "text",
//	})
func NewPostgreSQLTypeMapper(customMappings map[string]string) *PostgreSQLTypeMapper {
	return &PostgreSQLTypeMapper{CustomMappings: customMappings}
}

// MapType implements TypeMapper for PostgreSQL databases.
// It checks CustomMappings first, then falls back to default mappings.
func (m *PostgreSQLTypeMapper) MapType(dataType, udtName string, charMaxLength, numericPrecision, numericScale sql.NullInt64) model.FieldType {
	for _, name := range []string{dataType, udtName} {
		if mapped, ok := m.CustomMappings[strings.ToLower(name)]; ok {
			return ParseFieldType(mapped)
		}
	}
	return MapPostgreSQLTypeToDBML(dataType, udtName, charMaxLength, numericPrecision, numericScale)
}

// DefaultTypeMappings contains the standard PostgreSQL to DBML type mappings,
// keyed by both SQL names and internal udt names.
var DefaultTypeMappings = map[string]string{
	"integer":                     "int",
	"int4":                        "int",
	"bigint":                      "bigint",
	"int8":                        "bigint",
	"smallint":                    "smallint",
	"int2":                        "smallint",
	"boolean":                     "boolean",
	"bool":                        "boolean",
	"text":                        "text",
	"character varying":           "varchar",
	"varchar":                     "varchar",
	"character":                   "char",
	"char":                        "char",
	"bpchar":                      "char",
	"numeric":                     "decimal",
	"decimal":                     "decimal",
	"real":                        "float",
	"float4":                      "float",
	"double precision":            "double",
	"float8":                      "double",
	"timestamp without time zone": "timestamp",
	"timestamp":                   "timestamp",
	"timestamp with time zone":    "timestamptz",
	"timestamptz":                 "timestamptz",
	"date":                        "date",
	"time without time zone":      "time",
	"time":                        "time",
	"time with time zone":         "timetz",
	"timetz":                      "timetz",
	"uuid":                        "uuid",
	"json":                        "json",
	"jsonb":                       "jsonb",
	"bytea":                       "binary",
}

// MapPostgreSQLTypeToDBML converts a PostgreSQL data type to its DBML equivalent.
// It handles varchar lengths, numeric precision/scale, enums and arrays.
func MapPostgreSQLTypeToDBML(dataType, udtName string, charMaxLength, numericPrecision, numericScale sql.NullInt64) model.FieldType {
	lower := strings.ToLower(dataType)
	switch lower {
	case "character varying", "varchar", "character", "char":
		t := model.FieldType{TypeName: DefaultTypeMappings[lower]}
		if charMaxLength.Valid {
			t.Args = fmt.Sprintf("%d", charMaxLength.Int64)
		}
		return t
	case "numeric", "decimal":
		t := model.FieldType{TypeName: "decimal"}
		if numericPrecision.Valid && numericScale.Valid {
			t.Args = fmt.Sprintf("%d,%d", numericPrecision.Int64, numericScale.Int64)
		}
		return t
	case "user-defined":
		// enums and extension types keep their own name
		return model.FieldType{TypeName: udtName}
	case "array":
		return model.FieldType{TypeName: NormalizeArrayType(udtName)}
	}
	if mapped, ok := DefaultTypeMappings[lower]; ok {
		return model.FieldType{TypeName: mapped}
	}
	return model.FieldType{TypeName: dataType}
}

// NormalizeArrayType converts a PostgreSQL array udt name such as "_int4" to a
// DBML type name such as "int[]".
func NormalizeArrayType(udtName string) string {
	base := strings.TrimPrefix(udtName, "_")
	if mapped, ok := DefaultTypeMappings[strings.ToLower(base)]; ok {
		base = mapped
	}
	return base + "[]"
}

// ParseFieldType splits a type written as "name(args)" or "schema.name(args)".
func ParseFieldType(s string) model.FieldType {
	var t model.FieldType
	s = strings.TrimSpace(s)
	if open := strings.IndexByte(s, '('); open >= 0 && strings.HasSuffix(s, ")") {
		t.Args = strings.TrimSpace(s[open+1 : len(s)-1])
		s = strings.TrimSpace(s[:open])
	}
	if dot := strings.IndexByte(s, '.'); dot > 0 {
		t.SchemaName, s = s[:dot], s[dot+1:]
	}
	t.TypeName = s
	return t
}
