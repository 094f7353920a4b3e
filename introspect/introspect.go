// Package introspect reads a PostgreSQL catalog into a model.ProjectModel.
// It extracts tables, columns, primary keys, foreign keys, indexes, enums and
// comments.
//
// Basic usage:
//
//	m, err := introspect.Database(db,
//	    introspect.WithSchemas("public", "auth"),
//	    introspect.WithExcludeTables("migrations"),
//	)
//
// With custom type mapping:
//
//	mapper := introspect.NewPostgreSQLTypeMapper(map[string]string{
//	    "citext": "varchar",
//	})
//	m, err := introspect.Database(db, introspect.WithTypeMapper(mapper))
package introspect

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/lucasefe/dbdiagram/model"

	_ "github.com/lib/pq"
)

// Database introspects a PostgreSQL database and returns its model.
// Use options to customize which schemas and tables to include.
func Database(db *sql.DB, opts ...Option) (*model.ProjectModel, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var schemaNames []string
	if o.includeAllSchemas {
		schemas, err := getAllSchemas(db)
		if err != nil {
			return nil, fmt.Errorf("failed to get schemas: %w", err)
		}
		schemaNames = schemas
	} else {
		schemaNames = o.schemas
	}
	if len(schemaNames) == 0 {
		schemaNames = []string{model.DefaultSchemaName}
	}

	var catalog []rawSchema
	for _, schemaName := range schemaNames {
		schema, err := introspectSchema(db, schemaName, o.typeMapper)
		if err != nil {
			return nil, err
		}
		o.logger.Debug("introspected schema",
			"schema", schemaName,
			"tables", len(schema.tables),
			"enums", len(schema.enums))
		catalog = append(catalog, schema)
	}

	result := buildModel(catalog)
	if len(o.excludeTables) > 0 {
		result = model.FilterTables(result, o.excludeTables)
	}
	return result, nil
}

// FromConnectionString connects to a PostgreSQL database and introspects it.
// This is a convenience function that handles connection management.
func FromConnectionString(connStr string, opts ...Option) (*model.ProjectModel, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return Database(db, opts...)
}

func introspectSchema(db *sql.DB, schemaName string, mapper TypeMapper) (rawSchema, error) {
	schema := rawSchema{name: schemaName}

	enums, err := getEnums(db, schemaName)
	if err != nil {
		return schema, fmt.Errorf("failed to get enums for schema %s: %w", schemaName, err)
	}
	schema.enums = enums

	tables, err := getTables(db, schemaName)
	if err != nil {
		return schema, fmt.Errorf("failed to get tables for schema %s: %w", schemaName, err)
	}

	for _, table := range tables {
		columns, err := getColumns(db, schemaName, table.name, mapper)
		if err != nil {
			return schema, fmt.Errorf("failed to get columns for table %s.%s: %w", schemaName, table.name, err)
		}
		table.columns = columns

		primaryKeys, err := getPrimaryKeys(db, schemaName, table.name)
		if err != nil {
			return schema, fmt.Errorf("failed to get primary keys for table %s.%s: %w", schemaName, table.name, err)
		}
		table.primaryKeys = primaryKeys

		indexes, err := getIndexes(db, schemaName, table.name)
		if err != nil {
			return schema, fmt.Errorf("failed to get indexes for table %s.%s: %w", schemaName, table.name, err)
		}
		table.indexes = indexes

		foreignKeys, err := getForeignKeys(db, schemaName, table.name)
		if err != nil {
			return schema, fmt.Errorf("failed to get foreign keys for table %s.%s: %w", schemaName, table.name, err)
		}
		table.foreignKeys = foreignKeys

		schema.tables = append(schema.tables, table)
	}

	return schema, nil
}

func getAllSchemas(db *sql.DB) ([]string, error) {
	query := `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT IN ('information_schema', 'pg_catalog', 'pg_toast', 'pg_temp_1', 'pg_toast_temp_1')
		ORDER BY schema_name
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schemas []string
	for rows.Next() {
		var schemaName string
		if err := rows.Scan(&schemaName); err != nil {
			return nil, err
		}
		schemas = append(schemas, schemaName)
	}

	return schemas, rows.Err()
}

func getEnums(db *sql.DB, schemaName string) ([]rawEnum, error) {
	query := `
		SELECT t.typname, e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON e.enumtypid = t.oid
		JOIN pg_namespace n ON n.oid = t.typnamespace
		WHERE n.nspname = $1
		ORDER BY t.typname, e.enumsortorder
	`

	rows, err := db.Query(query, schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enums []rawEnum
	for rows.Next() {
		var typeName, label string
		if err := rows.Scan(&typeName, &label); err != nil {
			return nil, err
		}
		if n := len(enums); n == 0 || enums[n-1].name != typeName {
			enums = append(enums, rawEnum{name: typeName})
		}
		last := &enums[len(enums)-1]
		last.values = append(last.values, label)
	}

	return enums, rows.Err()
}

func getTables(db *sql.DB, schemaName string) ([]rawTable, error) {
	query := `
		SELECT
			t.table_name,
			COALESCE(obj_description(format('%I.%I', t.table_schema, t.table_name)::regclass, 'pg_class'), '')
		FROM information_schema.tables t
		WHERE t.table_schema = $1 AND t.table_type = 'BASE TABLE'
		ORDER BY t.table_name
	`

	rows, err := db.Query(query, schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []rawTable
	for rows.Next() {
		var table rawTable
		if err := rows.Scan(&table.name, &table.comment); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	return tables, rows.Err()
}

func getColumns(db *sql.DB, schemaName, tableName string, mapper TypeMapper) ([]rawColumn, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			c.is_nullable,
			c.column_default,
			COALESCE(c.udt_name, c.data_type) as udt_name,
			c.is_identity,
			COALESCE(col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position::int), '')
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := db.Query(query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []rawColumn
	for rows.Next() {
		var col rawColumn
		var dataType string
		var charMaxLength, numericPrecision, numericScale sql.NullInt64
		var isNullable, isIdentity string
		var udtName string

		err := rows.Scan(
			&col.name,
			&dataType,
			&charMaxLength,
			&numericPrecision,
			&numericScale,
			&isNullable,
			&col.defaultValue,
			&udtName,
			&isIdentity,
			&col.comment,
		)
		if err != nil {
			return nil, err
		}

		col.fieldType = mapper.MapType(dataType, udtName, charMaxLength, numericPrecision, numericScale)
		col.nullable = isNullable == "YES"
		col.identity = isIdentity == "YES"

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func getPrimaryKeys(db *sql.DB, schemaName, tableName string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.table_constraints tc
			ON kcu.constraint_name = tc.constraint_name
			AND kcu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND kcu.table_schema = $1
			AND kcu.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := db.Query(query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var primaryKeys []string
	for rows.Next() {
		var columnName string
		if err := rows.Scan(&columnName); err != nil {
			return nil, err
		}
		primaryKeys = append(primaryKeys, columnName)
	}

	return primaryKeys, rows.Err()
}

func getIndexes(db *sql.DB, schemaName, tableName string) ([]rawIndex, error) {
	query := `
		SELECT
			i.indexname,
			array_agg(a.attname ORDER BY array_position(idx.indkey::int[], a.attnum)) as columns,
			i.indexdef LIKE '%UNIQUE%' as is_unique,
			am.amname
		FROM pg_indexes i
		JOIN pg_class c ON c.relname = i.tablename
		JOIN pg_namespace n ON n.oid = c.relnamespace AND n.nspname = i.schemaname
		JOIN pg_class ic ON ic.relname = i.indexname AND ic.relnamespace = n.oid
		JOIN pg_index idx ON idx.indexrelid = ic.oid AND idx.indrelid = c.oid
		JOIN pg_am am ON am.oid = ic.relam
		JOIN pg_attribute a ON a.attrelid = c.oid AND a.attnum = ANY(idx.indkey)
		WHERE n.nspname = $1 AND i.tablename = $2
			AND NOT idx.indisprimary
		GROUP BY i.indexname, i.indexdef, am.amname
		ORDER BY i.indexname
	`

	rows, err := db.Query(query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []rawIndex
	for rows.Next() {
		var index rawIndex
		var columnsArray string

		err := rows.Scan(&index.name, &columnsArray, &index.unique, &index.method)
		if err != nil {
			return nil, err
		}

		index.columns = splitArray(columnsArray)
		indexes = append(indexes, index)
	}

	return indexes, rows.Err()
}

func getForeignKeys(db *sql.DB, schemaName, tableName string) ([]rawForeignKey, error) {
	query := `
		SELECT DISTINCT
			kcu1.column_name,
			kcu2.table_schema AS foreign_table_schema,
			kcu2.table_name AS foreign_table_name,
			kcu2.column_name AS foreign_column_name,
			rc.delete_rule,
			rc.update_rule,
			kcu1.ordinal_position
		FROM information_schema.referential_constraints rc
		JOIN information_schema.key_column_usage kcu1
			ON kcu1.constraint_name = rc.constraint_name
			AND kcu1.table_schema = rc.constraint_schema
		JOIN information_schema.key_column_usage kcu2
			ON kcu2.constraint_name = rc.unique_constraint_name
			AND kcu2.table_schema = rc.unique_constraint_schema
			AND kcu2.ordinal_position = kcu1.ordinal_position
		WHERE kcu1.table_schema = $1 AND kcu1.table_name = $2
		ORDER BY kcu1.ordinal_position
	`

	rows, err := db.Query(query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	referenceMap := make(map[string]rawForeignKey)
	for rows.Next() {
		var fk rawForeignKey
		var ordinalPosition int

		err := rows.Scan(
			&fk.column,
			&fk.toSchema,
			&fk.toTable,
			&fk.toColumn,
			&fk.onDelete,
			&fk.onUpdate,
			&ordinalPosition,
		)
		if err != nil {
			return nil, err
		}

		key := fmt.Sprintf("%s.%s.%s->%s.%s.%s",
			schemaName, tableName, fk.column,
			fk.toSchema, fk.toTable, fk.toColumn)

		if existing, exists := referenceMap[key]; exists {
			if isAction(fk.onDelete) && !isAction(existing.onDelete) {
				existing.onDelete = fk.onDelete
			}
			if isAction(fk.onUpdate) && !isAction(existing.onUpdate) {
				existing.onUpdate = fk.onUpdate
			}
			referenceMap[key] = existing
		} else {
			referenceMap[key] = fk
		}
	}

	var keys []string
	for key := range referenceMap {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var references []rawForeignKey
	for _, key := range keys {
		references = append(references, referenceMap[key])
	}

	return references, rows.Err()
}

// isAction reports whether a referential rule does something.
func isAction(rule string) bool {
	return rule != "" && !strings.EqualFold(rule, "NO ACTION")
}

// splitArray parses a text-form PostgreSQL array such as {a,b,"c d"}.
func splitArray(s string) []string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(p, `"`)
	}
	return parts
}
