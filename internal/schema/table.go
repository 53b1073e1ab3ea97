package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Table owns a set of Columns and ForeignKeys.
type Table struct {
	Name        string        `json:"name"`
	Columns     []*Column     `json:"columns"`
	ForeignKeys []*ForeignKey `json:"foreign_keys,omitempty"`
}

// Key is the table's name.
func (t *Table) Key() string {
	return t.Name
}

// CompareContents compares the full member set: same columns and
// foreign keys, each identical in both identity and contents, order
// insensitive. This mirrors compare_table_members in the original tool,
// which sorts each side by key before a pairwise comparison.
func (t *Table) CompareContents(other *Table) bool {
	return compareMembers(t.Columns, other.Columns) &&
		compareMembers(t.ForeignKeys, other.ForeignKeys)
}

func compareMembers[T Entity[T]](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]T(nil), a...)
	sb := append([]T(nil), b...)
	sort.Slice(sa, func(i, j int) bool { return sa[i].Key() < sa[j].Key() })
	sort.Slice(sb, func(i, j int) bool { return sb[i].Key() < sb[j].Key() })
	for i := range sa {
		if !CompareEquivalence(sa[i], sb[i]) {
			return false
		}
	}
	return true
}

// Copy returns an independent Table with independently copied columns.
// Foreign keys are copied unresolved; the new owner must re-resolve
// them against whatever Schema it ends up in.
func (t *Table) Copy() *Table {
	cp := &Table{Name: t.Name}
	for _, col := range t.Columns {
		cp.Columns = append(cp.Columns, col.Copy())
	}
	for _, fk := range t.ForeignKeys {
		cp.ForeignKeys = append(cp.ForeignKeys, fk.Copy())
	}
	return cp
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return nil, false
}

// AddColumn appends a column.
func (t *Table) AddColumn(col *Column) {
	t.Columns = append(t.Columns, col)
}

// RemoveColumn removes the column named name, if present.
func (t *Table) RemoveColumn(name string) {
	for i, col := range t.Columns {
		if col.Name == name {
			t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
			return
		}
	}
}

// AddForeignKey appends a foreign key.
func (t *Table) AddForeignKey(fk *ForeignKey) {
	t.ForeignKeys = append(t.ForeignKeys, fk)
}

// RemoveForeignKey removes the first foreign key matching key.
func (t *Table) RemoveForeignKey(key string) {
	for i, fk := range t.ForeignKeys {
		if fk.Key() == key {
			t.ForeignKeys = append(t.ForeignKeys[:i], t.ForeignKeys[i+1:]...)
			return
		}
	}
}

// Validate checks this table in isolation plus its children. Foreign
// key resolution is checked against schema, since it requires knowledge
// of sibling tables.
func (t *Table) Validate(schema *Schema) []*ValidationError {
	var errs []*ValidationError

	if t.Name == "" {
		errs = append(errs, NewValidationError(MissingRequiredValue, "table is missing a name"))
	}
	if len(t.Columns) == 0 {
		errs = append(errs, NewValidationError(MissingRequiredValue,
			fmt.Sprintf("table '%s' has no columns", t.Name)))
	}

	seen := make(map[string]bool, len(t.Columns))
	for _, col := range t.Columns {
		if seen[col.Name] {
			errs = append(errs, NewValidationError(Duplicate,
				fmt.Sprintf("table '%s' has duplicate column '%s'", t.Name, col.Name)))
		}
		seen[col.Name] = true
		for _, e := range col.Validate() {
			errs = append(errs, e.WithContext(t.RenderWithLineIndicated(col.Key())))
		}
	}

	seenFK := make(map[string]bool, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		if seenFK[fk.Key()] {
			errs = append(errs, NewValidationError(Duplicate,
				fmt.Sprintf("table '%s' has duplicate foreign key '%s'", t.Name, fk.Key())))
		}
		seenFK[fk.Key()] = true
		for _, e := range fk.Validate(schema, t) {
			errs = append(errs, e.WithContext(t.RenderWithLineIndicated(fk.Key())))
		}
	}

	return errs
}

// RenderWithLineIndicated renders the table as a column-per-line table
// with a caret under the line matching targetKey, mirroring
// str_with_line_indicated in the original tool. An empty targetKey
// renders the table with no caret.
func (t *Table) RenderWithLineIndicated(targetKey string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TABLE %s\n", t.Name)
	for _, col := range t.Columns {
		line := fmt.Sprintf("  %s %s %s", col.Name, col.Datatype, strings.Join(col.Constraints, " "))
		b.WriteString(line)
		b.WriteByte('\n')
		if col.Key() == targetKey {
			b.WriteString(strings.Repeat(" ", 2) + strings.Repeat("^", len(strings.TrimLeft(line, " "))-2))
			b.WriteByte('\n')
		}
	}
	for _, fk := range t.ForeignKeys {
		line := fmt.Sprintf("  FOREIGN KEY (%s) REFERENCES %s(%s)", fk.LocalName, fk.TableName, fk.ExternalName)
		b.WriteString(line)
		b.WriteByte('\n')
		if fk.Key() == targetKey {
			b.WriteString(strings.Repeat(" ", 2) + strings.Repeat("^", len(strings.TrimLeft(line, " "))-2))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
