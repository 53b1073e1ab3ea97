// Package store handles the on-disk layout of a migrations directory:
// one Migration_<N>.json per schema migration, a matching
// SQLMigration_<N>.json holding its compiled SQL, and a regenerable
// SQLMigration_Combined.json bundling every compiled migration in
// order. It performs no diffing or compiling itself; callers supply
// already-built records.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/schemadrift/migrator/internal/migration"
)

// migrationFilePattern matches Migration_<index>.json; the index group
// accepts 0 or any positive integer with no leading zero, matching the
// original tool's MIGRATIONS_FILE_REGEX.
var migrationFilePattern = regexp.MustCompile(`^Migration_([1-9][0-9]*|0)\.json$`)

// sqlMigrationFilePattern matches SQLMigration_<index>.json.
var sqlMigrationFilePattern = regexp.MustCompile(`^SQLMigration_([1-9][0-9]*|0)\.json$`)

// CombinedSQLFileName is the regenerable bundle of every compiled SQL
// migration in index order.
const CombinedSQLFileName = "SQLMigration_Combined.json"

func migrationFileName(index int) string {
	return fmt.Sprintf("Migration_%d.json", index)
}

func sqlMigrationFileName(index int) string {
	return fmt.Sprintf("SQLMigration_%d.json", index)
}

// WriteMigration writes sm to dir as Migration_<sm.Index>.json.
func WriteMigration(dir string, sm migration.SchemaMigration) error {
	data, err := json.MarshalIndent(sm, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding migration %d: %w", sm.Index, err)
	}
	path := filepath.Join(dir, migrationFileName(sm.Index))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadMigration reads Migration_<index>.json from dir.
func ReadMigration(dir string, index int) (migration.SchemaMigration, error) {
	path := filepath.Join(dir, migrationFileName(index))
	data, err := os.ReadFile(path)
	if err != nil {
		return migration.SchemaMigration{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var sm migration.SchemaMigration
	if err := json.Unmarshal(data, &sm); err != nil {
		return migration.SchemaMigration{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return sm, nil
}

// SQLMigrationDoc is the on-disk shape of SQLMigration_<N>.json and of
// each entry in the combined bundle.
type SQLMigrationDoc struct {
	MigrationIndex int      `json:"migrationIndex"`
	MigrationName  *string  `json:"migrationName,omitempty"`
	SQLStatements  []string `json:"sqlStatements"`
}

// WriteSQLMigration writes the compiled SQL statements for a schema
// migration index to SQLMigration_<index>.json.
func WriteSQLMigration(dir string, index int, name *string, statements []string) error {
	data, err := json.MarshalIndent(SQLMigrationDoc{
		MigrationIndex: index,
		MigrationName:  name,
		SQLStatements:  statements,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding SQL migration %d: %w", index, err)
	}
	path := filepath.Join(dir, sqlMigrationFileName(index))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadSQLMigration reads SQLMigration_<index>.json from dir.
func ReadSQLMigration(dir string, index int) (SQLMigrationDoc, error) {
	path := filepath.Join(dir, sqlMigrationFileName(index))
	data, err := os.ReadFile(path)
	if err != nil {
		return SQLMigrationDoc{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc SQLMigrationDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return SQLMigrationDoc{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return doc, nil
}

// MigrationIndexes returns every migration index present in dir, sorted
// ascending.
func MigrationIndexes(dir string) ([]int, error) {
	return fileIndexes(dir, migrationFilePattern)
}

// SQLMigrationIndexes returns every compiled SQL migration index
// present in dir, sorted ascending.
func SQLMigrationIndexes(dir string) ([]int, error) {
	return fileIndexes(dir, sqlMigrationFilePattern)
}

func fileIndexes(dir string, pattern *regexp.Regexp) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory %s: %w", dir, err)
	}
	var indexes []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		indexes = append(indexes, n)
	}
	sort.Ints(indexes)
	return indexes, nil
}

// NextIndex returns the index the next new migration in dir should use:
// one past the highest existing index, or 0 if dir holds none yet.
func NextIndex(dir string) (int, error) {
	indexes, err := MigrationIndexes(dir)
	if err != nil {
		return 0, err
	}
	if len(indexes) == 0 {
		return 0, nil
	}
	return indexes[len(indexes)-1] + 1, nil
}

// AllMigrations reads every Migration_<N>.json in dir, in index order.
func AllMigrations(dir string) ([]migration.SchemaMigration, error) {
	indexes, err := MigrationIndexes(dir)
	if err != nil {
		return nil, err
	}
	out := make([]migration.SchemaMigration, 0, len(indexes))
	for _, idx := range indexes {
		sm, err := ReadMigration(dir, idx)
		if err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, nil
}

// WriteCombinedSQLMigrations regenerates SQLMigration_Combined.json from
// every SQLMigration_<N>.json currently in dir, in index order, under
// the "sql_migrations" key.
func WriteCombinedSQLMigrations(dir string) error {
	indexes, err := SQLMigrationIndexes(dir)
	if err != nil {
		return err
	}

	combined := struct {
		SQLMigrations []SQLMigrationDoc `json:"sql_migrations"`
	}{}

	for _, idx := range indexes {
		doc, err := ReadSQLMigration(dir, idx)
		if err != nil {
			return err
		}
		combined.SQLMigrations = append(combined.SQLMigrations, doc)
	}

	data, err := json.MarshalIndent(combined, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding combined SQL migrations: %w", err)
	}
	path := filepath.Join(dir, CombinedSQLFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
