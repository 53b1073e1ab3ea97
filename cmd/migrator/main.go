// Command migrator authors and validates SQLite schema migrations: it
// diffs a desired schema document against the schema a migrations
// directory produces, asks about ambiguous renames interactively, and
// compiles the result into ordered SQL statements.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/schemadrift/migrator/config"
	"github.com/schemadrift/migrator/internal/logx"
)

func init() {
	// Missing .env is not an error; environment variables set any other
	// way still apply.
	_ = godotenv.Load()
}

var rootCmd = &cobra.Command{
	Use:   "migrator",
	Short: "Author and validate SQLite schema migrations",
}

func main() {
	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug-level diagnostics")
	cobra.OnInitialize(func() {
		config.Cfg.Verbose = config.Cfg.Verbose || verbose
		logx.SetVerbose(config.Cfg.Verbose)
	})

	rootCmd.AddCommand(createMigrationCmd, validateSchemaCmd, sqlMigrationCmd, runTestsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
