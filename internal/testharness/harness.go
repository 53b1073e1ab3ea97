// Package testharness owns a real SQLite connection used to verify that
// compiled SQL actually produces the schema the apply engine believes
// it produces. It never participates in the normal create/validate CLI
// flow; it exists for runtests and for this module's own fidelity
// tests.
package testharness

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/schemadrift/migrator/internal/migration"
	"github.com/schemadrift/migrator/internal/schema"
	"github.com/schemadrift/migrator/internal/sqlgen"
)

// Harness owns one SQLite connection for the lifetime of a replay.
// Callers must call Close, including on the error path; Close is safe
// to call on a nil *sql.DB.
type Harness struct {
	db *sql.DB
}

// Open starts a harness backed by the SQLite database at path. Use
// ":memory:" for a throwaway connection scoped to the test.
func Open(path string) (*Harness, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening test database %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to test database %q: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys on %q: %w", path, err)
	}
	return &Harness{db: db}, nil
}

// Close releases the underlying connection.
func (h *Harness) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// Exec runs every statement in order within a single transaction,
// rolling back on the first failure.
func (h *Harness) Exec(statements []string) error {
	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing %q: %w", stmt, err)
		}
	}
	return tx.Commit()
}

// IntrospectSchema reads the live table/column/foreign-key layout back
// out of SQLite via pragma_table_info and pragma_foreign_key_list,
// mirroring how the teacher project's daos package introspects a
// connected database, and rebuilds it as a *schema.Schema so it can be
// compared against the apply engine's in-memory result.
func (h *Harness) IntrospectSchema() (*schema.Schema, error) {
	tableNames, err := h.tableNames()
	if err != nil {
		return nil, err
	}

	out := schema.New()
	for _, name := range tableNames {
		cols, err := h.tableColumns(name)
		if err != nil {
			return nil, err
		}
		fks, err := h.tableForeignKeys(name)
		if err != nil {
			return nil, err
		}
		out.Tables = append(out.Tables, &schema.Table{Name: name, Columns: cols, ForeignKeys: fks})
	}
	out.ResolveForeignKeys()
	return out, nil
}

func (h *Harness) tableNames() ([]string, error) {
	rows, err := h.db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (h *Harness) tableColumns(table string) ([]*schema.Column, error) {
	rows, err := h.db.Query(fmt.Sprintf(`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info('%s')`, table))
	if err != nil {
		return nil, fmt.Errorf("introspecting columns for %q: %w", table, err)
	}
	defer rows.Close()

	var cols []*schema.Column
	for rows.Next() {
		var name, datatype string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&name, &datatype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scanning column info for %q: %w", table, err)
		}
		col := &schema.Column{Name: name, Datatype: datatype}
		if pk != 0 {
			col.Constraints = append(col.Constraints, "PRIMARY KEY")
		}
		if notNull != 0 {
			col.Constraints = append(col.Constraints, "NOT NULL")
		}
		if dflt.Valid {
			col.Constraints = append(col.Constraints, "DEFAULT "+dflt.String)
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (h *Harness) tableForeignKeys(table string) ([]*schema.ForeignKey, error) {
	rows, err := h.db.Query(fmt.Sprintf(`SELECT "table", "from", "to", on_update, on_delete FROM pragma_foreign_key_list('%s')`, table))
	if err != nil {
		return nil, fmt.Errorf("introspecting foreign keys for %q: %w", table, err)
	}
	defer rows.Close()

	var fks []*schema.ForeignKey
	for rows.Next() {
		var refTable, from, to, onUpdate, onDelete string
		if err := rows.Scan(&refTable, &from, &to, &onUpdate, &onDelete); err != nil {
			return nil, fmt.Errorf("scanning foreign key info for %q: %w", table, err)
		}
		fk := &schema.ForeignKey{LocalName: from, TableName: refTable, ExternalName: to}
		if !strings.EqualFold(onUpdate, "NO ACTION") {
			fk.OnUpdate = onUpdate
		}
		if !strings.EqualFold(onDelete, "NO ACTION") {
			fk.OnDelete = onDelete
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

// ReplayResult is the outcome of replaying a sequence of schema
// migrations: the schema the apply engine computed, the schema
// actually observed in SQLite afterward, and any non-fatal diagnostics
// raised along the way.
type ReplayResult struct {
	Computed    *schema.Schema
	Observed    *schema.Schema
	Diagnostics []string
}

// Replay applies every migration in order to an initially empty schema,
// compiling and executing each one's SQL against this harness's live
// connection, and returns both the apply engine's idea of the resulting
// schema and what SQLite actually ends up containing.
func (h *Harness) Replay(migrations []migration.SchemaMigration) (*ReplayResult, error) {
	running := schema.New()
	result := &ReplayResult{}

	for _, sm := range migrations {
		preSchema := running.Copy()

		diags, errs := migration.Apply(running, sm)
		result.Diagnostics = append(result.Diagnostics, diags...)
		if len(errs) > 0 {
			return nil, fmt.Errorf("migration %d left the schema invalid: %v", sm.Index, errs)
		}

		stmts, err := sqlgen.Compile(sm, preSchema)
		if err != nil {
			return nil, fmt.Errorf("compiling migration %d: %w", sm.Index, err)
		}
		if err := h.Exec(stmts); err != nil {
			return nil, fmt.Errorf("executing migration %d: %w", sm.Index, err)
		}
	}

	observed, err := h.IntrospectSchema()
	if err != nil {
		return nil, err
	}

	result.Computed = running
	result.Observed = observed
	return result, nil
}
