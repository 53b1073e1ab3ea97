package migration

import "github.com/schemadrift/migrator/internal/schema"

// ColumnMigration describes one column being added, removed, or edited
// (possibly renamed) within a TableMigration.
type ColumnMigration struct {
	Change[*schema.Column]
}

// ApplyTo mutates table in place according to this migration. It
// returns a non-fatal diagnostic message (empty if none) describing an
// inconsistency that does not abort the apply, e.g. removing a column
// that no longer exists.
func (m ColumnMigration) ApplyTo(table *schema.Table) string {
	switch {
	case m.IsAdd():
		table.AddColumn(m.New.Copy())

	case m.IsRemove():
		if _, ok := table.Column(*m.OldKey); !ok {
			return "column '" + *m.OldKey + "' on table '" + table.Name + "' was already absent; skipping removal"
		}
		table.RemoveColumn(*m.OldKey)

	case m.IsEdit():
		if _, ok := table.Column(*m.OldKey); !ok {
			table.AddColumn(m.New.Copy())
			return "column '" + *m.OldKey + "' on table '" + table.Name + "' was already absent; adding '" + m.New.Key() + "' as new instead"
		}
		table.RemoveColumn(*m.OldKey)
		table.AddColumn(m.New.Copy())
	}
	return ""
}
