// Package dbdiagram turns DBML documents into database diagrams.
//
// DBML source is resolved into a normalized model, the model's refs are flattened
// into field-to-field relations, and a diagram controller lays the tables out and
// routes an edge for every relation whose fields are mounted.
//
// # Basic Usage
//
// Resolve a document and render it as SVG:
//
//	import "github.com/lucasefe/dbdiagram"
//
//	res := dbdiagram.Resolve(src)
//	for _, d := range res.Diagnostics {
//	    fmt.Println(d.Message)
//	}
//	if err := dbdiagram.RenderSVG(os.Stdout, res.Model, nil, nil); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration
//
// Layout, theme and logging are read from a TOML file:
//
//	cfg, err := config.Load("dbdiagram.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = dbdiagram.RenderSVG(w, res.Model, cfg, logger)
//
// # Generating DBML from PostgreSQL
//
// An existing database can be read back into DBML:
//
//	dbmlContent, err := dbdiagram.GenerateFromConnectionString(connStr, &dbdiagram.Config{
//	    Schemas:       []string{"public", "auth"},
//	    ExcludeTables: []string{"migrations"},
//	})
//
// # Subpackages
//
//   - github.com/lucasefe/dbdiagram/resolver - DBML source to model, with diagnostics
//   - github.com/lucasefe/dbdiagram/relation - refs flattened into field pairs
//   - github.com/lucasefe/dbdiagram/diagram - controller, field registry, edge and guide renderers
//   - github.com/lucasefe/dbdiagram/svg - SVG painter for diagram frames
//   - github.com/lucasefe/dbdiagram/generator - model to DBML text
//   - github.com/lucasefe/dbdiagram/introspect - PostgreSQL catalog to model
package dbdiagram
