package migration

import (
	"testing"

	"github.com/schemadrift/migrator/internal/schema"
)

func TestDiffSchemaDetectsNewTable(t *testing.T) {
	old := schema.New()
	neu := schema.New()
	neu.AddTable(&schema.Table{
		Name:    "users",
		Columns: []*schema.Column{{Name: "id", Datatype: "INTEGER"}},
	})

	oracle := &scriptedOracle{t: t}
	sm := DiffSchema(old, neu, oracle)

	if len(sm.TableMigrations) != 1 || !sm.TableMigrations[0].IsAdd() {
		t.Fatalf("expected one add-table migration, got %+v", sm.TableMigrations)
	}
}

func TestDiffSchemaDetectsRemovedTable(t *testing.T) {
	old := schema.New()
	old.AddTable(&schema.Table{
		Name:    "users",
		Columns: []*schema.Column{{Name: "id", Datatype: "INTEGER"}},
	})
	neu := schema.New()

	oracle := &scriptedOracle{t: t}
	sm := DiffSchema(old, neu, oracle)

	if len(sm.TableMigrations) != 1 || !sm.TableMigrations[0].IsRemove() {
		t.Fatalf("expected one remove-table migration, got %+v", sm.TableMigrations)
	}
}

func TestDiffSchemaIgnoresUnchangedTable(t *testing.T) {
	build := func() *schema.Schema {
		s := schema.New()
		s.AddTable(&schema.Table{
			Name:    "users",
			Columns: []*schema.Column{{Name: "id", Datatype: "INTEGER"}},
		})
		return s
	}
	oracle := &scriptedOracle{t: t}
	sm := DiffSchema(build(), build(), oracle)

	if len(sm.TableMigrations) != 0 {
		t.Fatalf("expected no migrations for an unchanged schema, got %+v", sm.TableMigrations)
	}
}

func TestDiffSchemaAsksAlterVsRenameOnKeyMatch(t *testing.T) {
	old := schema.New()
	old.AddTable(&schema.Table{
		Name:    "users",
		Columns: []*schema.Column{{Name: "id", Datatype: "INTEGER"}},
	})
	neu := schema.New()
	neu.AddTable(&schema.Table{
		Name:    "users",
		Columns: []*schema.Column{{Name: "id", Datatype: "TEXT"}},
	})

	// Table key ("users") matches but its contents differ because the id
	// column's datatype changed, so the table diff asks ALTERING first and
	// then the column diff asks ALTERING; we answer yes to both.
	oracle := &scriptedOracle{t: t, yesNo: []bool{true, true}}
	sm := DiffSchema(old, neu, oracle)

	if len(sm.TableMigrations) != 1 || !sm.TableMigrations[0].IsEdit() {
		t.Fatalf("expected one edit-table migration, got %+v", sm.TableMigrations)
	}
	tm := sm.TableMigrations[0]
	if len(tm.ColumnMigrations) != 1 || !tm.ColumnMigrations[0].IsEdit() {
		t.Fatalf("expected one edit-column migration, got %+v", tm.ColumnMigrations)
	}
}

func TestDiffSchemaRenameByContentMatch(t *testing.T) {
	old := schema.New()
	old.AddTable(&schema.Table{
		Name:    "users",
		Columns: []*schema.Column{{Name: "id", Datatype: "INTEGER"}},
	})
	neu := schema.New()
	neu.AddTable(&schema.Table{
		Name:    "people",
		Columns: []*schema.Column{{Name: "id", Datatype: "INTEGER"}},
	})

	// No key match ("people" unseen before); contents match "users"
	// exactly, so the first-content-match path asks a single RENAMING
	// question.
	oracle := &scriptedOracle{t: t, yesNo: []bool{true}}
	sm := DiffSchema(old, neu, oracle)

	if len(sm.TableMigrations) != 1 {
		t.Fatalf("expected exactly one migration, got %+v", sm.TableMigrations)
	}
	tm := sm.TableMigrations[0]
	if !tm.IsEdit() || *tm.OldKey != "users" || *tm.NewName != "people" {
		t.Fatalf("expected an edit migration renaming users->people, got %+v", tm)
	}
}

func TestForeignKeysNeverOfferRename(t *testing.T) {
	old := []*schema.ForeignKey{{LocalName: "a", TableName: "t", ExternalName: "id"}}
	new := []*schema.ForeignKey{{LocalName: "b", TableName: "t", ExternalName: "id"}}

	// No yes/no answers scripted at all: if the diff engine asked a
	// rename question for foreign keys this would fail on the first
	// AskYesNo call since allowRename must stay false throughout.
	oracle := &scriptedOracle{t: t}
	out := DiffForeignKeys(old, new, oracle)

	var adds, removes int
	for _, fm := range out {
		switch {
		case fm.IsAdd():
			adds++
		case fm.IsRemove():
			removes++
		}
	}
	if adds != 1 || removes != 1 {
		t.Fatalf("expected one add and one remove, got %+v", out)
	}
}
