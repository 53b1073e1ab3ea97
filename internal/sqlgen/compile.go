// Package sqlgen lowers a migration.SchemaMigration into an ordered list
// of SQL statements a SQLite connection can execute in sequence, working
// around SQLite's limited ALTER TABLE support with the shadow-table
// dance for any table whose columns or foreign keys actually change.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/schemadrift/migrator/internal/migration"
	"github.com/schemadrift/migrator/internal/schema"
)

// Prefixes used to stage tables mid-migration so that a rename can never
// collide with a table being dropped or created in the same batch.
const (
	PreMigrationTablePrefix = "PRE_MIGRATION_TABLE_"
	NewCreatedTablePrefix   = "NEW_CREATED_TABLE_"
)

type classified struct {
	pureRenames []migration.TableMigration
	removes     []migration.TableMigration
	complex     []migration.TableMigration
	adds        []migration.TableMigration
}

// isStructural reports whether tm carries any column or foreign key
// migration, meaning SQLite cannot express it as a bare rename.
func isStructural(tm migration.TableMigration) bool {
	return len(tm.ColumnMigrations) > 0 || len(tm.FKeyMigrations) > 0
}

func classify(sm migration.SchemaMigration) classified {
	var c classified
	for _, tm := range sm.TableMigrations {
		switch {
		case tm.IsAdd():
			c.adds = append(c.adds, tm)
		case tm.IsRemove():
			c.removes = append(c.removes, tm)
		case tm.IsEdit():
			if isStructural(tm) {
				c.complex = append(c.complex, tm)
			} else if tm.Renames() {
				c.pureRenames = append(c.pureRenames, tm)
			}
			// an edit that neither renames nor touches any member is a
			// no-op and emits nothing.
		}
	}
	return c
}

// Compile lowers sm into the ordered SQL statements that transform the
// database described by preSchema into the database described after sm
// is applied. preSchema must be the schema state immediately before sm
// (the running schema the sqlmigration command and the test harness
// advance migration by migration), not the final schema.
//
// Emission order is fixed and must not be reordered: pure renames are
// moved out of the way first, then drops run, then pure renames land on
// their final name, then every structural ("complex") migration runs its
// shadow-table dance, and finally new tables are created. This ordering
// guarantees a rename can never collide with a table being dropped in
// the same migration, and that a newly created table can never collide
// with a name a rename or drop is about to vacate.
func Compile(sm migration.SchemaMigration, preSchema *schema.Schema) ([]string, error) {
	c := classify(sm)
	var stmts []string

	for _, tm := range c.pureRenames {
		stmts = append(stmts, renameTableSQL(*tm.OldKey, PreMigrationTablePrefix+*tm.OldKey))
	}

	for _, tm := range c.removes {
		stmts = append(stmts, dropTableSQL(*tm.OldKey))
	}

	for _, tm := range c.pureRenames {
		stmts = append(stmts, renameTableSQL(PreMigrationTablePrefix+*tm.OldKey, *tm.NewName))
	}

	for _, tm := range c.complex {
		oldTable, ok := preSchema.Table(*tm.OldKey)
		if !ok {
			return nil, fmt.Errorf("compiling migration: table %q not found in pre-migration schema", *tm.OldKey)
		}
		dance, err := complexMigrationSQL(oldTable, tm)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, dance...)
	}

	for _, tm := range c.adds {
		finalTable := applyToFreshTable(*tm.NewName, tm)
		stmts = append(stmts, createTableSQL(finalTable))
	}

	return stmts, nil
}

func renameTableSQL(from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s;", from, to)
}

func dropTableSQL(name string) string {
	return fmt.Sprintf("DROP TABLE %s;", name)
}

// applyToFreshTable builds the post-migration table definition for an
// added table by replaying its (all-add) column/fkey migrations onto an
// empty table.
func applyToFreshTable(name string, tm migration.TableMigration) *schema.Table {
	t := &schema.Table{Name: name}
	for _, cm := range tm.ColumnMigrations {
		cm.ApplyTo(t)
	}
	for _, fm := range tm.FKeyMigrations {
		fm.ApplyTo(t)
	}
	return t
}

// applyToExistingTable builds the post-migration table definition for an
// edited table by replaying its migrations onto a copy of its
// pre-migration state, then applying the rename.
func applyToExistingTable(old *schema.Table, tm migration.TableMigration) *schema.Table {
	t := old.Copy()
	for _, cm := range tm.ColumnMigrations {
		cm.ApplyTo(t)
	}
	for _, fm := range tm.FKeyMigrations {
		fm.ApplyTo(t)
	}
	t.Name = *tm.NewName
	return t
}

func createTableSQL(t *schema.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", t.Name)

	var lines []string
	for _, col := range t.Columns {
		def := "\t" + col.Name + " " + col.Datatype
		if len(col.Constraints) > 0 {
			def += " " + strings.Join(col.Constraints, " ")
		}
		lines = append(lines, def)
	}
	for _, fk := range t.ForeignKeys {
		def := fmt.Sprintf("\tFOREIGN KEY (%s) REFERENCES %s(%s)", fk.LocalName, fk.TableName, fk.ExternalName)
		if fk.OnDelete != "" {
			def += " ON DELETE " + fk.OnDelete
		}
		if fk.OnUpdate != "" {
			def += " ON UPDATE " + fk.OnUpdate
		}
		lines = append(lines, def)
	}

	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n);")
	return b.String()
}

// complexMigrationSQL performs the shadow-table dance: create a
// differently-named table under the final schema, copy every column
// that survives the migration under its new name, drop the old table,
// then rename the staged table onto its final name.
func complexMigrationSQL(oldTable *schema.Table, tm migration.TableMigration) ([]string, error) {
	finalName := *tm.NewName
	stagedName := NewCreatedTablePrefix + finalName
	finalTable := applyToExistingTable(oldTable, tm)
	staged := finalTable.Copy()
	staged.Name = stagedName

	transfers := transferableColumns(oldTable, tm)

	var stmts []string
	stmts = append(stmts, createTableSQL(staged))

	if len(transfers) > 0 {
		var oldCols, newCols []string
		for _, p := range transfers {
			oldCols = append(oldCols, p.oldName)
			newCols = append(newCols, p.newName)
		}
		stmts = append(stmts, fmt.Sprintf(
			"INSERT INTO %s (%s) SELECT %s FROM %s;",
			stagedName, strings.Join(newCols, ", "), strings.Join(oldCols, ", "), oldTable.Name,
		))
	}

	stmts = append(stmts, dropTableSQL(oldTable.Name))
	stmts = append(stmts, renameTableSQL(stagedName, finalName))

	return stmts, nil
}

type columnTransfer struct {
	oldName string
	newName string
}

// transferableColumns returns, for every old column that survives the
// migration, the (old name, new name) pair to copy across in the
// shadow-table dance. A column renamed by an edit migration transfers
// under its new name; an untouched column transfers under its own name;
// a removed column does not transfer; newly added columns have nothing
// to copy from and are left to their defaults.
func transferableColumns(oldTable *schema.Table, tm migration.TableMigration) []columnTransfer {
	renamed := make(map[string]string, len(tm.ColumnMigrations))
	removed := make(map[string]bool, len(tm.ColumnMigrations))
	for _, cm := range tm.ColumnMigrations {
		switch {
		case cm.IsEdit():
			renamed[*cm.OldKey] = cm.New.Name
		case cm.IsRemove():
			removed[*cm.OldKey] = true
		}
	}

	var out []columnTransfer
	for _, col := range oldTable.Columns {
		if removed[col.Name] {
			continue
		}
		if newName, ok := renamed[col.Name]; ok {
			out = append(out, columnTransfer{oldName: col.Name, newName: newName})
			continue
		}
		out = append(out, columnTransfer{oldName: col.Name, newName: col.Name})
	}
	return out
}
