package schema

import (
	"fmt"

	"gorm.io/gorm"
)

// Check verifies that every foreign key names an existing source column and
// points at a declared table and column. It returns one message per problem.
func Check(s *Schema) []string {
	var problems []string
	for _, table := range s.Tables {
		for _, rel := range table.Relations {
			if table.Column(rel.SourceColumn) == nil {
				problems = append(problems, fmt.Sprintf("%s.%s: foreign key column is not declared", table.Name, rel.SourceColumn))
			}
			target := s.Table(rel.TargetTable)
			if target == nil {
				problems = append(problems, fmt.Sprintf("%s.%s: references unknown table %s", table.Name, rel.SourceColumn, rel.TargetTable))
				continue
			}
			if target.Column(rel.TargetColumn) == nil {
				problems = append(problems, fmt.Sprintf("%s.%s: references unknown column %s.%s", table.Name, rel.SourceColumn, rel.TargetTable, rel.TargetColumn))
			}
		}
	}
	return problems
}

// Inspect compares the declared schema with the live database behind db:
// every table and column must exist, and non-key columns must agree on
// nullability.
func Inspect(db *gorm.DB, s *Schema) ([]string, error) {
	var problems []string
	migrator := db.Migrator()

	for _, table := range s.Tables {
		if !migrator.HasTable(table.Name) {
			problems = append(problems, fmt.Sprintf("%s: table missing", table.Name))
			continue
		}

		columnTypes, err := migrator.ColumnTypes(table.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to read columns of %s: %w", table.Name, err)
		}
		live := make(map[string]gorm.ColumnType, len(columnTypes))
		for _, ct := range columnTypes {
			live[ct.Name()] = ct
		}

		for _, col := range table.Columns {
			ct, ok := live[col.Name]
			if !ok {
				problems = append(problems, fmt.Sprintf("%s.%s: column missing", table.Name, col.Name))
				continue
			}
			if table.isPrimaryKey(col.Name) {
				continue
			}
			if nullable, ok := ct.Nullable(); ok && nullable != col.Nullable {
				problems = append(problems, fmt.Sprintf("%s.%s: nullable is %t, declared %t", table.Name, col.Name, nullable, col.Nullable))
			}
		}
	}
	return problems, nil
}
