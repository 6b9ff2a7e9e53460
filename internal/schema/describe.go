package schema

import (
	"fmt"
	"sort"
	"sync"

	gormschema "gorm.io/gorm/schema"

	"storefront/internal/models"
)

// Declared describes every entity in models.All.
func Declared() (*Schema, error) {
	return Describe(models.All()...)
}

// Describe parses the given gorm models and returns their tables, columns
// and foreign keys. Tables keep the order of the arguments.
func Describe(entities ...interface{}) (*Schema, error) {
	cache := &sync.Map{}
	namer := gormschema.NamingStrategy{}

	parsed := make([]*gormschema.Schema, 0, len(entities))
	for _, entity := range entities {
		s, err := gormschema.Parse(entity, cache, namer)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %T: %w", entity, err)
		}
		parsed = append(parsed, s)
	}

	out := &Schema{Tables: make([]Table, 0, len(parsed))}
	for _, s := range parsed {
		out.Tables = append(out.Tables, describeTable(s))
	}

	// Relations are attached to the table holding the foreign key, whichever
	// side of the association declared them.
	seen := make(map[string]bool)
	for _, s := range parsed {
		for _, rel := range s.Relationships.Relations {
			constraint := rel.ParseConstraint()
			if constraint == nil || constraint.Schema == nil || constraint.ReferenceSchema == nil {
				continue
			}
			owner := out.Table(constraint.Schema.Table)
			if owner == nil {
				continue
			}
			for i, fk := range constraint.ForeignKeys {
				if i >= len(constraint.References) {
					break
				}
				r := Relation{
					SourceColumn: fk.DBName,
					TargetTable:  constraint.ReferenceSchema.Table,
					TargetColumn: constraint.References[i].DBName,
					Cardinality:  "N:1",
				}
				key := owner.Name + "." + r.SourceColumn + "->" + r.TargetTable + "." + r.TargetColumn
				if seen[key] {
					continue
				}
				seen[key] = true
				owner.Relations = append(owner.Relations, r)
			}
		}
	}

	for i := range out.Tables {
		rels := out.Tables[i].Relations
		sort.Slice(rels, func(a, b int) bool {
			if rels[a].SourceColumn != rels[b].SourceColumn {
				return rels[a].SourceColumn < rels[b].SourceColumn
			}
			return rels[a].TargetTable < rels[b].TargetTable
		})
	}

	return out, nil
}

func describeTable(s *gormschema.Schema) Table {
	table := Table{Name: s.Table}
	for _, field := range s.Fields {
		if field.DBName == "" {
			continue
		}
		col := Column{
			Name:     field.DBName,
			Type:     string(field.DataType),
			Nullable: !field.NotNull && !field.PrimaryKey,
		}
		if field.HasDefaultValue && field.DefaultValue != "" {
			def := field.DefaultValue
			col.DefaultValue = &def
		}
		if field.PrimaryKey {
			table.PrimaryKey = append(table.PrimaryKey, field.DBName)
		}
		table.Columns = append(table.Columns, col)
	}
	return table
}
