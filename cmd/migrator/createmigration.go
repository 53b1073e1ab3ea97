package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemadrift/migrator/config"
	"github.com/schemadrift/migrator/internal/migration"
	"github.com/schemadrift/migrator/internal/schema"
	"github.com/schemadrift/migrator/internal/store"
)

var createMigrationName string

var createMigrationCmd = &cobra.Command{
	Use:   "createmigration <schema_file> <migrations_dir>",
	Short: "Diff the desired schema against the migrations directory and record a new migration",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaFile := config.Cfg.SchemaFile
		migrationsDir := config.Cfg.MigrationsDir
		if len(args) > 0 {
			schemaFile = args[0]
		}
		if len(args) > 1 {
			migrationsDir = args[1]
		}

		oldSchema, err := currentSchema(migrationsDir)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(schemaFile)
		if err != nil {
			return fmt.Errorf("reading desired schema %s: %w", schemaFile, err)
		}
		newSchema, err := schema.FromJSON(data)
		if err != nil {
			return err
		}
		newSchema.Tables = append(newSchema.Tables, schema.NewTrackingTable())
		if errs := newSchema.Validate(); len(errs) > 0 {
			printValidationErrors(errs)
			return fmt.Errorf("desired schema %s is invalid", schemaFile)
		}

		if oldSchema.CompareEquivalence(newSchema) {
			fmt.Println("Desired schema matches the migrations directory; nothing to do.")
			return nil
		}

		sm := migration.DiffSchema(oldSchema, newSchema, huhOracle{})

		next, err := store.NextIndex(migrationsDir)
		if err != nil {
			return err
		}
		sm.Index = next
		if createMigrationName != "" {
			sm.Name = &createMigrationName
		}

		fmt.Println(renderSchemaMigration(sm))
		if !(huhOracle{}).AskYesNo("Save this migration?") {
			fmt.Println("Discarded.")
			return nil
		}

		if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
			return fmt.Errorf("creating migrations directory: %w", err)
		}
		if err := store.WriteMigration(migrationsDir, sm); err != nil {
			return err
		}
		fmt.Printf("Wrote Migration_%d.json\n", sm.Index)
		return nil
	},
}

func init() {
	createMigrationCmd.Flags().StringVar(&createMigrationName, "name", "", "human-readable name for this migration")
}
