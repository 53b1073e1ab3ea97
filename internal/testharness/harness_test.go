package testharness

import (
	"testing"

	"github.com/schemadrift/migrator/internal/migration"
	"github.com/schemadrift/migrator/internal/schema"
)

func TestReplayCreatesTableVisibleToSQLite(t *testing.T) {
	h, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()

	sm := migration.SchemaMigration{Index: 0, TableMigrations: []migration.TableMigration{
		migration.NewAddTableMigration("users", []migration.ColumnMigration{
			{migration.NewAddChange(&schema.Column{Name: "id", Datatype: "INTEGER", Constraints: []string{"PRIMARY KEY"}})},
			{migration.NewAddChange(&schema.Column{Name: "name", Datatype: "TEXT", Constraints: []string{"NOT NULL"}})},
		}, nil),
	}}

	result, err := h.Replay([]migration.SchemaMigration{sm})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	if _, ok := result.Computed.Table("users"); !ok {
		t.Fatal("expected computed schema to contain users")
	}
	observedUsers, ok := result.Observed.Table("users")
	if !ok {
		t.Fatal("expected SQLite to actually contain a users table")
	}
	if _, ok := observedUsers.Column("name"); !ok {
		t.Fatal("expected observed users table to contain a name column")
	}
}

func TestReplayComplexMigrationRenamesColumn(t *testing.T) {
	h, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()

	create := migration.SchemaMigration{Index: 0, TableMigrations: []migration.TableMigration{
		migration.NewAddTableMigration("users", []migration.ColumnMigration{
			{migration.NewAddChange(&schema.Column{Name: "id", Datatype: "INTEGER"})},
			{migration.NewAddChange(&schema.Column{Name: "legacy_name", Datatype: "TEXT"})},
		}, nil),
	}}

	running := schema.New()
	pre := running.Copy()
	_, errs := migration.Apply(running, create)
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	oldUsers, _ := running.Table("users")
	rename := migration.SchemaMigration{Index: 1, TableMigrations: []migration.TableMigration{
		migration.NewEditTableMigration("users", "users", oldUsers, []migration.ColumnMigration{
			{migration.NewEditChange("legacy_name", oldUsers.Columns[1], &schema.Column{Name: "full_name", Datatype: "TEXT"})},
		}, nil),
	}}
	_ = pre

	result, err := h.Replay([]migration.SchemaMigration{create, rename})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	observedUsers, ok := result.Observed.Table("users")
	if !ok {
		t.Fatal("expected users table to survive the rename dance")
	}
	if _, ok := observedUsers.Column("full_name"); !ok {
		t.Fatal("expected full_name column after the shadow-table dance")
	}
	if _, ok := observedUsers.Column("legacy_name"); ok {
		t.Fatal("expected legacy_name to be gone after the rename")
	}
}
