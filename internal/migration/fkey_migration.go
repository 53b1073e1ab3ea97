package migration

import "github.com/schemadrift/migrator/internal/schema"

// FKeyMigration describes one foreign key being added, removed, or
// edited within a TableMigration. Foreign keys are never renamed: the
// diff engine never offers a rename prompt for this kind.
type FKeyMigration struct {
	Change[*schema.ForeignKey]
}

// ApplyTo mutates table in place according to this migration.
func (m FKeyMigration) ApplyTo(table *schema.Table) string {
	switch {
	case m.IsAdd():
		table.AddForeignKey(m.New.Copy())

	case m.IsRemove():
		if !hasForeignKey(table, *m.OldKey) {
			return "foreign key '" + *m.OldKey + "' on table '" + table.Name + "' was already absent; skipping removal"
		}
		table.RemoveForeignKey(*m.OldKey)

	case m.IsEdit():
		if !hasForeignKey(table, *m.OldKey) {
			table.AddForeignKey(m.New.Copy())
			return "foreign key '" + *m.OldKey + "' on table '" + table.Name + "' was already absent; adding '" + m.New.Key() + "' as new instead"
		}
		table.RemoveForeignKey(*m.OldKey)
		table.AddForeignKey(m.New.Copy())
	}
	return ""
}

func hasForeignKey(table *schema.Table, key string) bool {
	for _, fk := range table.ForeignKeys {
		if fk.Key() == key {
			return true
		}
	}
	return false
}
