package dbdiagram

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/lucasefe/dbdiagram/generator"
	"github.com/lucasefe/dbdiagram/introspect"
)

// Config selects what GenerateFromConnection reads from the database.
type Config struct {
	// Schemas to introspect. Defaults to public.
	Schemas []string
	// ExcludeTables lists plain or schema-qualified table names to leave out.
	ExcludeTables []string
	// IncludeAllSchemas reads every non-system schema and ignores Schemas.
	IncludeAllSchemas bool
	// TypeMapper overrides the PostgreSQL to DBML type mapping.
	TypeMapper introspect.TypeMapper
	// Logger receives per-schema progress records.
	Logger *slog.Logger
}

func (c *Config) options() []introspect.Option {
	if c == nil {
		return nil
	}
	opts := []introspect.Option{introspect.WithExcludeTables(c.ExcludeTables...)}
	if c.IncludeAllSchemas {
		opts = append(opts, introspect.WithAllSchemas())
	} else if len(c.Schemas) > 0 {
		opts = append(opts, introspect.WithSchemas(c.Schemas...))
	}
	if c.TypeMapper != nil {
		opts = append(opts, introspect.WithTypeMapper(c.TypeMapper))
	}
	if c.Logger != nil {
		opts = append(opts, introspect.WithLogger(c.Logger))
	}
	return opts
}

// GenerateFromConnection introspects db and returns the equivalent DBML document.
func GenerateFromConnection(db *sql.DB, config *Config) (string, error) {
	m, err := introspect.Database(db, config.options()...)
	if err != nil {
		return "", fmt.Errorf("failed to introspect database: %w", err)
	}
	return generator.GenerateString(m)
}

// GenerateFromConnectionString opens connStr with the postgres driver and calls
// GenerateFromConnection.
func GenerateFromConnectionString(connStr string, config *Config) (string, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return "", fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return "", fmt.Errorf("failed to ping database: %w", err)
	}

	return GenerateFromConnection(db, config)
}

// WriteToFile writes the DBML of db to filename.
func WriteToFile(db *sql.DB, filename string, config *Config) error {
	dbmlContent, err := GenerateFromConnection(db, config)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(dbmlContent), 0644)
}
