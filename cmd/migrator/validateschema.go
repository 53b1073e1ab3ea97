package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemadrift/migrator/config"
	"github.com/schemadrift/migrator/internal/schema"
)

var validateSchemaCmd = &cobra.Command{
	Use:   "validateschema <schema_file> [true|false]",
	Short: "Validate the desired schema document in isolation, optionally showing error context",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaFile := config.Cfg.SchemaFile
		showContext := false
		if len(args) > 0 {
			schemaFile = args[0]
		}
		if len(args) > 1 {
			showContext = args[1] == "true"
		}

		data, err := os.ReadFile(schemaFile)
		if err != nil {
			return fmt.Errorf("reading desired schema %s: %w", schemaFile, err)
		}
		s, err := schema.FromJSON(data)
		if err != nil {
			return err
		}
		s.Tables = append(s.Tables, schema.NewTrackingTable())

		errs := s.Validate()
		if len(errs) == 0 {
			fmt.Println("Schema is valid.")
			return nil
		}

		if showContext {
			for _, e := range errs {
				e.ToggleContext()
			}
		}
		printValidationErrors(errs)
		return fmt.Errorf("schema %s has %d validation error(s)", schemaFile, len(errs))
	},
}
