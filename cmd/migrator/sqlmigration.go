package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schemadrift/migrator/config"
	"github.com/schemadrift/migrator/internal/migration"
	"github.com/schemadrift/migrator/internal/schema"
	"github.com/schemadrift/migrator/internal/sqlgen"
	"github.com/schemadrift/migrator/internal/store"
)

var sqlMigrationCmd = &cobra.Command{
	Use:   "sqlmigration <migrations_dir>",
	Short: "Compile every un-compiled recorded migration into SQL and regenerate the combined bundle",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		migrationsDir := config.Cfg.MigrationsDir
		if len(args) > 0 {
			migrationsDir = args[0]
		}

		migrations, err := store.AllMigrations(migrationsDir)
		if err != nil {
			return err
		}
		alreadyCompiled, err := store.SQLMigrationIndexes(migrationsDir)
		if err != nil {
			return err
		}
		compiled := make(map[int]bool, len(alreadyCompiled))
		for _, idx := range alreadyCompiled {
			compiled[idx] = true
		}

		running := schema.New()
		for _, sm := range migrations {
			preSchema := running.Copy()

			_, errs := migration.Apply(running, sm)
			if len(errs) > 0 {
				return fmt.Errorf("migration %d left the schema invalid: %v", sm.Index, errs)
			}

			if compiled[sm.Index] {
				continue
			}

			stmts, err := sqlgen.Compile(sm, preSchema)
			if err != nil {
				return fmt.Errorf("compiling migration %d: %w", sm.Index, err)
			}
			if err := store.WriteSQLMigration(migrationsDir, sm.Index, sm.Name, stmts); err != nil {
				return err
			}
			fmt.Printf("Wrote SQLMigration_%d.json (%d statements)\n", sm.Index, len(stmts))
		}

		if err := store.WriteCombinedSQLMigrations(migrationsDir); err != nil {
			return err
		}
		fmt.Println("Wrote", store.CombinedSQLFileName)
		return nil
	},
}
