package schema

// Schema represents the set of declared tables
type Schema struct {
	Tables []Table `json:"tables"`
}

// Table represents a declared table
type Table struct {
	Name       string     `json:"name"`
	Columns    []Column   `json:"columns"`
	Relations  []Relation `json:"relations,omitempty"`
	PrimaryKey []string   `json:"primary_key,omitempty"`
}

// Column represents a table column
type Column struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Nullable     bool    `json:"nullable"`
	DefaultValue *string `json:"default,omitempty"`
}

// Relation represents a foreign key held by the owning table
type Relation struct {
	SourceColumn string `json:"source_column"`
	TargetTable  string `json:"target_table"`
	TargetColumn string `json:"target_column"`
	Cardinality  string `json:"cardinality"` // N:1 from the owning side
}

// Table returns the table with the given name, or nil.
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

func (t *Table) isPrimaryKey(column string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == column {
			return true
		}
	}
	return false
}
