package migration

import (
	"fmt"

	"github.com/schemadrift/migrator/internal/logx"
	"github.com/schemadrift/migrator/internal/schema"
)

// Apply replays sm against s in place. It snapshots the pre-migration
// table set by key before making any change, so that table migrations
// within the same record can be processed in any order without one
// migration's rename or removal shadowing another's lookup. Foreign
// keys are re-resolved once, after every table migration has run.
//
// Removing an entity that no longer exists is not fatal: it is logged
// through logx.Logger and also returned in diagnostics, and the apply
// continues. The returned validation errors reflect the schema's state
// after every migration has been applied.
func Apply(s *schema.Schema, sm SchemaMigration) (diagnostics []string, errs []*schema.ValidationError) {
	oldTables := schema.IndexByKey(s.Tables)

	for _, tm := range sm.TableMigrations {
		switch {
		case tm.IsAdd():
			newTable := &schema.Table{Name: *tm.NewName}
			for _, cm := range tm.ColumnMigrations {
				if diag := cm.ApplyTo(newTable); diag != "" {
					diagnostics = append(diagnostics, diag)
					logx.Logger.Warn("non-fatal column migration diagnostic", "table", newTable.Name, "detail", diag)
				}
			}
			for _, fm := range tm.FKeyMigrations {
				if diag := fm.ApplyTo(newTable); diag != "" {
					diagnostics = append(diagnostics, diag)
					logx.Logger.Warn("non-fatal foreign key migration diagnostic", "table", newTable.Name, "detail", diag)
				}
			}
			s.Tables = append(s.Tables, newTable)

		case tm.IsRemove():
			target, ok := oldTables[*tm.OldKey]
			if !ok {
				diag := fmt.Sprintf("table '%s' was already absent; skipping removal", *tm.OldKey)
				diagnostics = append(diagnostics, diag)
				logx.Logger.Warn("non-fatal table migration diagnostic", "detail", diag)
				continue
			}
			removeTablePointer(s, target)

		case tm.IsEdit():
			target, ok := oldTables[*tm.OldKey]
			if !ok {
				diag := fmt.Sprintf("table '%s' was already absent; skipping edit", *tm.OldKey)
				diagnostics = append(diagnostics, diag)
				logx.Logger.Warn("non-fatal table migration diagnostic", "detail", diag)
				continue
			}
			for _, cm := range tm.ColumnMigrations {
				if diag := cm.ApplyTo(target); diag != "" {
					diagnostics = append(diagnostics, diag)
					logx.Logger.Warn("non-fatal column migration diagnostic", "table", target.Name, "detail", diag)
				}
			}
			for _, fm := range tm.FKeyMigrations {
				if diag := fm.ApplyTo(target); diag != "" {
					diagnostics = append(diagnostics, diag)
					logx.Logger.Warn("non-fatal foreign key migration diagnostic", "table", target.Name, "detail", diag)
				}
			}
			target.Name = *tm.NewName
		}
	}

	s.ResolveForeignKeys()
	return diagnostics, s.Validate()
}

func removeTablePointer(s *schema.Schema, target *schema.Table) {
	for i, t := range s.Tables {
		if t == target {
			s.Tables = append(s.Tables[:i], s.Tables[i+1:]...)
			return
		}
	}
}
