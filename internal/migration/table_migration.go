package migration

import "github.com/schemadrift/migrator/internal/schema"

// TableMigration describes one table being added, removed, or edited
// (possibly renamed), together with the column and foreign-key
// migrations that apply to its members. Unlike ColumnMigration and
// FKeyMigration it cannot be a thin Change wrapper: it owns two child
// migration lists, which are applied when the table is added or edited
// and ignored when it is removed.
type TableMigration struct {
	OldKey  *string `json:"old_key,omitempty"`
	NewName *string `json:"new_name,omitempty"`

	ColumnMigrations []ColumnMigration `json:"column_migrations,omitempty"`
	FKeyMigrations   []FKeyMigration   `json:"foreign_key_migrations,omitempty"`

	// OldSnapshot is the pre-migration table, for diagnostics only.
	OldSnapshot *schema.Table `json:"-"`
}

// IsAdd reports whether this migration creates a brand new table.
func (m TableMigration) IsAdd() bool {
	return m.OldKey == nil && m.NewName != nil
}

// IsRemove reports whether this migration deletes an existing table.
func (m TableMigration) IsRemove() bool {
	return m.OldKey != nil && m.NewName == nil
}

// IsEdit reports whether this migration alters (and possibly renames)
// an existing table.
func (m TableMigration) IsEdit() bool {
	return m.OldKey != nil && m.NewName != nil
}

// NewAddTableMigration builds a migration that creates a table named
// name with the given column/fkey additions.
func NewAddTableMigration(name string, cols []ColumnMigration, fks []FKeyMigration) TableMigration {
	n := name
	return TableMigration{NewName: &n, ColumnMigrations: cols, FKeyMigrations: fks}
}

// NewRemoveTableMigration builds a migration that drops the table keyed
// oldKey.
func NewRemoveTableMigration(oldKey string, snapshot *schema.Table) TableMigration {
	k := oldKey
	return TableMigration{OldKey: &k, OldSnapshot: snapshot}
}

// NewEditTableMigration builds a migration that edits (and possibly
// renames) the table keyed oldKey into newName.
func NewEditTableMigration(oldKey, newName string, snapshot *schema.Table, cols []ColumnMigration, fks []FKeyMigration) TableMigration {
	k, n := oldKey, newName
	return TableMigration{OldKey: &k, NewName: &n, OldSnapshot: snapshot, ColumnMigrations: cols, FKeyMigrations: fks}
}

// Renames reports whether this is an edit that also changes the table's
// name.
func (m TableMigration) Renames() bool {
	return m.IsEdit() && *m.OldKey != *m.NewName
}
