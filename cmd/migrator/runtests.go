package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schemadrift/migrator/config"
	"github.com/schemadrift/migrator/internal/store"
	"github.com/schemadrift/migrator/internal/testharness"
)

var runTestsCmd = &cobra.Command{
	Use:   "runtests [migrations_dir]",
	Short: "Replay every recorded migration against a throwaway SQLite database and report drift",
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
		if len(migrations) == 0 {
			fmt.Println("No migrations recorded yet.")
			return nil
		}

		h, err := testharness.Open(config.Cfg.TestDBPath)
		if err != nil {
			return err
		}
		defer h.Close()

		result, err := h.Replay(migrations)
		if err != nil {
			return err
		}

		for _, diag := range result.Diagnostics {
			fmt.Println(changedStyle.Render("! " + diag))
		}

		if result.Computed.CompareEquivalence(result.Observed) {
			fmt.Println(addedStyle.Render(fmt.Sprintf("All %d migration(s) replayed cleanly.", len(migrations))))
			return nil
		}

		fmt.Println(removedStyle.Render("The computed schema and the schema SQLite actually produced differ."))
		return fmt.Errorf("schema drift detected after replaying %d migration(s)", len(migrations))
	},
}
