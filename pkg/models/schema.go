package models

// SchemaDefinition describes which artifact kinds a workflow variant
// requires and in which order.
type SchemaDefinition struct {
	// Name identifies the schema.
	Name string
	// Artifacts lists artifact kinds in workflow order.
	Artifacts []SchemaArtifact
}

// SchemaArtifact is one artifact kind declared by a schema.
type SchemaArtifact struct {
	// ID must be unique within the schema.
	ID string
}

// IDs returns artifact ids in declaration order.
func (s *SchemaDefinition) IDs() []string {
	ids := make([]string, 0, len(s.Artifacts))
	for _, a := range s.Artifacts {
		ids = append(ids, a.ID)
	}
	return ids
}

// DuplicateIDs returns every repeated occurrence of an id, in declaration
// order. An id declared three times appears twice. Empty ids are ignored.
func DuplicateIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var dups []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if seen[id] {
			dups = append(dups, id)
			continue
		}
		seen[id] = true
	}
	return dups
}
