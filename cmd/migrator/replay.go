package main

import (
	"fmt"

	"github.com/schemadrift/migrator/internal/logx"
	"github.com/schemadrift/migrator/internal/migration"
	"github.com/schemadrift/migrator/internal/schema"
	"github.com/schemadrift/migrator/internal/store"
)

// currentSchema replays every migration in dir, in index order, onto an
// empty schema and returns the result. Non-fatal diagnostics that Apply
// returns are logged here rather than passed on to the caller.
func currentSchema(dir string) (*schema.Schema, error) {
	migrations, err := store.AllMigrations(dir)
	if err != nil {
		return nil, fmt.Errorf("loading migrations from %s: %w", dir, err)
	}

	running := schema.New()
	for _, sm := range migrations {
		diags, errs := migration.Apply(running, sm)
		for _, d := range diags {
			logx.Logger.Warn("non-fatal migration diagnostic", "migration_index", sm.Index, "detail", d)
		}
		if len(errs) > 0 {
			return nil, fmt.Errorf("migration %d left the schema invalid: %v", sm.Index, errs)
		}
	}
	return running, nil
}
