package model

// FilterTables removes tables whose name matches the exclude list.
// It returns a new ProjectModel; the original is not modified. Group table ids that
// point at removed tables are dropped as well.
func FilterTables(p *ProjectModel, excludeTables []string) *ProjectModel {
	excludeMap := make(map[string]bool)
	for _, table := range excludeTables {
		excludeMap[table] = true
	}

	out := *p
	out.Schemas = make([]Schema, len(p.Schemas))
	for i, s := range p.Schemas {
		removed := make(map[ID]bool)
		filteredTables := make([]Table, 0, len(s.Tables))
		for _, table := range s.Tables {
			if excludeMap[table.Name] || excludeMap[QualifiedName(s.Name, table.Name)] {
				removed[table.ID] = true
				continue
			}
			filteredTables = append(filteredTables, table)
		}

		groups := make([]Group, len(s.Groups))
		for j, g := range s.Groups {
			ids := make([]ID, 0, len(g.TableIDs))
			for _, id := range g.TableIDs {
				if !removed[id] {
					ids = append(ids, id)
				}
			}
			g.TableIDs = ids
			groups[j] = g
		}

		s.Tables = filteredTables
		s.Groups = groups
		out.Schemas[i] = s
	}

	return &out
}
