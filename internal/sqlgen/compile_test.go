package sqlgen

import (
	"strings"
	"testing"

	"github.com/schemadrift/migrator/internal/migration"
	"github.com/schemadrift/migrator/internal/schema"
)

func TestCompileAddTable(t *testing.T) {
	pre := schema.New()
	sm := migration.SchemaMigration{TableMigrations: []migration.TableMigration{
		migration.NewAddTableMigration("users", []migration.ColumnMigration{
			{migration.NewAddChange(&schema.Column{Name: "id", Datatype: "INTEGER", Constraints: []string{"PRIMARY KEY"}})},
		}, nil),
	}}

	stmts, err := Compile(sm, pre)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(stmts) != 1 || !strings.HasPrefix(stmts[0], "CREATE TABLE users") {
		t.Fatalf("expected one CREATE TABLE statement, got %v", stmts)
	}
}

func TestCompileDropTable(t *testing.T) {
	pre := schema.New()
	pre.AddTable(&schema.Table{Name: "users", Columns: []*schema.Column{{Name: "id", Datatype: "INTEGER"}}})
	oldKey := "users"
	sm := migration.SchemaMigration{TableMigrations: []migration.TableMigration{
		{OldKey: &oldKey},
	}}

	stmts, err := Compile(sm, pre)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(stmts) != 1 || stmts[0] != "DROP TABLE users;" {
		t.Fatalf("expected one DROP TABLE statement, got %v", stmts)
	}
}

func TestCompilePureRename(t *testing.T) {
	pre := schema.New()
	pre.AddTable(&schema.Table{Name: "users", Columns: []*schema.Column{{Name: "id", Datatype: "INTEGER"}}})
	sm := migration.SchemaMigration{TableMigrations: []migration.TableMigration{
		migration.NewEditTableMigration("users", "people", pre.Tables[0], nil, nil),
	}}

	stmts, err := Compile(sm, pre)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []string{
		"ALTER TABLE users RENAME TO PRE_MIGRATION_TABLE_users;",
		"ALTER TABLE PRE_MIGRATION_TABLE_users RENAME TO people;",
	}
	if len(stmts) != len(want) {
		t.Fatalf("expected %v, got %v", want, stmts)
	}
	for i := range want {
		if stmts[i] != want[i] {
			t.Fatalf("statement %d: expected %q, got %q", i, want[i], stmts[i])
		}
	}
}

func TestCompileComplexMigrationDance(t *testing.T) {
	pre := schema.New()
	pre.AddTable(&schema.Table{
		Name: "users",
		Columns: []*schema.Column{
			{Name: "id", Datatype: "INTEGER"},
			{Name: "legacy_name", Datatype: "TEXT"},
		},
	})
	oldTable := pre.Tables[0]

	sm := migration.SchemaMigration{TableMigrations: []migration.TableMigration{
		migration.NewEditTableMigration("users", "users", oldTable, []migration.ColumnMigration{
			{migration.NewEditChange("legacy_name", oldTable.Columns[1], &schema.Column{Name: "full_name", Datatype: "TEXT"})},
		}, nil),
	}}

	stmts, err := Compile(sm, pre)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(stmts) != 4 {
		t.Fatalf("expected 4 statements (create staged, copy data, drop old, rename), got %v", stmts)
	}
	if !strings.HasPrefix(stmts[0], "CREATE TABLE NEW_CREATED_TABLE_users") {
		t.Fatalf("expected staged CREATE TABLE first, got %q", stmts[0])
	}
	if !strings.Contains(stmts[1], "full_name") || !strings.Contains(stmts[1], "legacy_name") {
		t.Fatalf("expected data copy to reference both column names, got %q", stmts[1])
	}
	if stmts[2] != "DROP TABLE users;" {
		t.Fatalf("expected drop of old table, got %q", stmts[2])
	}
	if stmts[3] != "ALTER TABLE NEW_CREATED_TABLE_users RENAME TO users;" {
		t.Fatalf("expected final rename, got %q", stmts[3])
	}
}

func TestCompileComplexMigrationRenamesToNewName(t *testing.T) {
	// A table migration that both renames the table and edits a column
	// in the same record must finish under the NEW name, not the old
	// one (the corrected behavior this tool implements, see DESIGN.md).
	pre := schema.New()
	pre.AddTable(&schema.Table{
		Name:    "users",
		Columns: []*schema.Column{{Name: "id", Datatype: "INTEGER"}},
	})
	oldTable := pre.Tables[0]

	sm := migration.SchemaMigration{TableMigrations: []migration.TableMigration{
		migration.NewEditTableMigration("users", "people", oldTable, []migration.ColumnMigration{
			{migration.NewAddChange(&schema.Column{Name: "email", Datatype: "TEXT"})},
		}, nil),
	}}

	stmts, err := Compile(sm, pre)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	last := stmts[len(stmts)-1]
	if last != "ALTER TABLE NEW_CREATED_TABLE_people RENAME TO people;" {
		t.Fatalf("expected final rename onto the new name, got %q", last)
	}
}

func TestCompileOrderRenameOutBeforeDrop(t *testing.T) {
	// Renaming table A to the name currently held by table B, which is
	// being dropped in the same migration, must not collide: the rename
	// must move A out of the way before B is dropped.
	pre := schema.New()
	pre.AddTable(&schema.Table{Name: "a", Columns: []*schema.Column{{Name: "id", Datatype: "INTEGER"}}})
	pre.AddTable(&schema.Table{Name: "b", Columns: []*schema.Column{{Name: "id", Datatype: "INTEGER"}}})

	removeKey := "b"
	sm := migration.SchemaMigration{TableMigrations: []migration.TableMigration{
		migration.NewEditTableMigration("a", "b", pre.Tables[0], nil, nil),
		{OldKey: &removeKey},
	}}

	stmts, err := Compile(sm, pre)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if stmts[0] != "ALTER TABLE a RENAME TO PRE_MIGRATION_TABLE_a;" {
		t.Fatalf("expected rename-out first, got %q", stmts[0])
	}
	if stmts[1] != "DROP TABLE b;" {
		t.Fatalf("expected drop second, got %q", stmts[1])
	}
	if stmts[2] != "ALTER TABLE PRE_MIGRATION_TABLE_a RENAME TO b;" {
		t.Fatalf("expected rename-in last, got %q", stmts[2])
	}
}
