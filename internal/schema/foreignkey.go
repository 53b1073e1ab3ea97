package schema

import "fmt"

// ForeignKey links a local column to a column on another table. OnDelete
// and OnUpdate hold the raw SQLite action clause text (e.g. "CASCADE",
// "SET NULL").
type ForeignKey struct {
	LocalName    string `json:"local_name"`
	TableName    string `json:"table_name"`
	ExternalName string `json:"foreign_name"`
	OnDelete     string `json:"on_delete,omitempty"`
	OnUpdate     string `json:"on_update,omitempty"`

	// Resolved references, populated by Schema.ResolveForeignKeys after
	// any mutation to table membership. Never serialized, never copied:
	// a Copy of a ForeignKey must be re-resolved by its new owner.
	localRef    *Column
	tableRef    *Table
	externalRef *Column
}

// Key matches the original tool's "{local}->{table}.{foreign}" format.
func (f *ForeignKey) Key() string {
	return fmt.Sprintf("%s->%s.%s", f.LocalName, f.TableName, f.ExternalName)
}

// CompareContents only looks at the action clauses; the original tool
// does not consider a FK's target triple part of its "contents" since
// changing any part of the triple changes its Key instead.
func (f *ForeignKey) CompareContents(other *ForeignKey) bool {
	return f.OnDelete == other.OnDelete && f.OnUpdate == other.OnUpdate
}

// Copy returns an independent ForeignKey with no resolved references;
// the new owner must call Resolve (via Schema.ResolveForeignKeys).
func (f *ForeignKey) Copy() *ForeignKey {
	return &ForeignKey{
		LocalName:    f.LocalName,
		TableName:    f.TableName,
		ExternalName: f.ExternalName,
		OnDelete:     f.OnDelete,
		OnUpdate:     f.OnUpdate,
	}
}

// Resolve looks up this FK's local column (in owner), target table and
// target column (in schema), caching the results. It clears any
// previously cached references first.
func (f *ForeignKey) Resolve(schema *Schema, owner *Table) {
	f.localRef, f.tableRef, f.externalRef = nil, nil, nil

	if col, ok := owner.Column(f.LocalName); ok {
		f.localRef = col
	}
	tbl, ok := schema.Table(f.TableName)
	if !ok {
		return
	}
	f.tableRef = tbl
	if col, ok := tbl.Column(f.ExternalName); ok {
		f.externalRef = col
	}
}

// Resolved reports whether the local column, target table, and target
// column all resolved successfully.
func (f *ForeignKey) Resolved() bool {
	return f.localRef != nil && f.tableRef != nil && f.externalRef != nil
}

// Validate checks this foreign key against its owning schema: it must
// resolve, and any action clauses present must be recognized.
func (f *ForeignKey) Validate(schema *Schema, owner *Table) []*ValidationError {
	var errs []*ValidationError

	if f.LocalName == "" || f.TableName == "" || f.ExternalName == "" {
		errs = append(errs, NewValidationError(MissingRequiredValue,
			fmt.Sprintf("foreign key on table '%s' is missing local name, table name, or foreign name", owner.Name)))
		return errs
	}

	if _, ok := owner.Column(f.LocalName); !ok {
		errs = append(errs, NewValidationError(UnknownNameReferenced,
			fmt.Sprintf("foreign key '%s' references unknown local column '%s'", f.Key(), f.LocalName)))
	}

	target, ok := schema.Table(f.TableName)
	if !ok {
		errs = append(errs, NewValidationError(UnknownNameReferenced,
			fmt.Sprintf("foreign key '%s' references unknown table '%s'", f.Key(), f.TableName)))
	} else if _, ok := target.Column(f.ExternalName); !ok {
		errs = append(errs, NewValidationError(UnknownNameReferenced,
			fmt.Sprintf("foreign key '%s' references unknown column '%s' on table '%s'", f.Key(), f.ExternalName, f.TableName)))
	}

	if f.OnDelete != "" && !ValidateFKeyConstraint(f.OnDelete) {
		errs = append(errs, NewValidationError(InvalidValue,
			fmt.Sprintf("foreign key '%s' has unrecognized ON DELETE action '%s'", f.Key(), f.OnDelete)))
	}
	if f.OnUpdate != "" && !ValidateFKeyConstraint(f.OnUpdate) {
		errs = append(errs, NewValidationError(InvalidValue,
			fmt.Sprintf("foreign key '%s' has unrecognized ON UPDATE action '%s'", f.Key(), f.OnUpdate)))
	}

	return errs
}
