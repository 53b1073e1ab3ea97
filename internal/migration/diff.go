package migration

import "github.com/schemadrift/migrator/internal/schema"

// Oracle answers the ambiguous questions the diff engine cannot resolve
// on its own: whether a changed entity is an edit in place or a rename
// of some other entity, and which entity it was renamed from. The real
// implementation lives in cmd/migrator and prompts a human; tests supply
// a scripted Oracle instead.
type Oracle interface {
	AskYesNo(prompt string) bool
	AskText(prompt string) string
}

// diffChanges derives the Column/ForeignKey/Table-level changes between
// old and new, consulting oracle whenever a new entity could plausibly
// be either an edit or a rename of an old one. allowRename disables the
// rename prompts entirely for kinds that cannot be renamed (foreign
// keys).
//
// The algorithm mirrors get_change_migrations + get_remove_migrations
// from the original tool: first every new entity is classified (no
// match -> new; matching key and equivalent contents -> ignored;
// matching key and different contents -> ask alter-or-rename; no key
// match but matching contents -> ask if renamed from that entity), then
// every old entity whose key was not covered by any of those migrations
// and does not appear in new is emitted as a removal.
func diffChanges[T comparableEntity[T]](old, new []T, kindName string, oracle Oracle, allowRename bool) []Change[T] {
	oldIndex := schema.IndexByKey(old)
	newIndex := schema.IndexByKey(new)

	var changes []Change[T]
	covered := make(map[string]bool)

	for _, n := range new {
		switch {
		case len(oldIndex) == 0:
			changes = append(changes, NewAddChange(n))

		case isKeyMatch(oldIndex, n):
			oldMatch := oldIndex[n.Key()]
			if schema.CompareEquivalence(n, oldMatch) {
				covered[oldMatch.Key()] = true
				continue
			}

			if oracle.AskYesNo("Is the " + kindName + " '" + n.Key() + "' ALTERING '" + n.Key() + "'?") {
				changes = append(changes, NewEditChange(oldMatch.Key(), oldMatch, n))
				covered[oldMatch.Key()] = true
			} else if allowRename && len(oldIndex) > 0 &&
				oracle.AskYesNo("Is the "+kindName+" '"+n.Key()+"' RENAMING a "+kindName+"?") {
				givenKey := askForExistingKey(oracle, oldIndex, kindName)
				changes = append(changes, NewEditChange(givenKey, oldIndex[givenKey], n))
				covered[givenKey] = true
			} else {
				changes = append(changes, NewAddChange(n))
			}

		default:
			if allowRename {
				renamedFrom, matched := findFirstContentMatch(old, n, oracle, kindName)
				if matched {
					changes = append(changes, NewEditChange(renamedFrom.Key(), renamedFrom, n))
					covered[renamedFrom.Key()] = true
					continue
				}
			}

			if allowRename && len(oldIndex) > 0 &&
				oracle.AskYesNo("Is the "+kindName+" '"+n.Key()+"' RENAMING a "+kindName+"?") {
				givenKey := askForExistingKey(oracle, oldIndex, kindName)
				changes = append(changes, NewEditChange(givenKey, oldIndex[givenKey], n))
				covered[givenKey] = true
			} else {
				changes = append(changes, NewAddChange(n))
			}
		}
	}

	for _, o := range old {
		if _, stillPresent := newIndex[o.Key()]; stillPresent {
			continue
		}
		if covered[o.Key()] {
			continue
		}
		changes = append(changes, NewRemoveChange(o.Key(), o))
	}

	return changes
}

func isKeyMatch[T schema.Entity[T]](oldIndex map[string]T, n T) bool {
	_, ok := oldIndex[n.Key()]
	return ok
}

// findFirstContentMatch asks about at most one content-matching old
// entity: the first one found in iteration order. It stops scanning the
// instant that one prompt resolves, regardless of the answer, matching
// this tool's frozen "first content match wins" tie-break.
func findFirstContentMatch[T schema.Entity[T]](old []T, n T, oracle Oracle, kindName string) (T, bool) {
	var zero T
	for _, o := range old {
		if !n.CompareContents(o) {
			continue
		}
		isRename := oracle.AskYesNo("Is the " + kindName + " '" + n.Key() + "' RENAMING " + kindName + " '" + o.Key() + "'?")
		return o, isRename
	}
	return zero, false
}

// askForExistingKey repeatedly prompts until the user names a key that
// actually exists in oldIndex, matching the original tool's
// "while not givenName in oldDict" loop.
func askForExistingKey[T any](oracle Oracle, oldIndex map[string]T, kindName string) string {
	for {
		given := oracle.AskText("What is the name of the " + kindName + " being renamed?")
		if _, ok := oldIndex[given]; ok {
			return given
		}
	}
}

// DiffColumns derives the column migrations between an old and new
// column set.
func DiffColumns(old, new []*schema.Column, oracle Oracle) []ColumnMigration {
	changes := diffChanges(old, new, "column", oracle, true)
	out := make([]ColumnMigration, len(changes))
	for i, c := range changes {
		out[i] = ColumnMigration{c}
	}
	return out
}

// DiffForeignKeys derives the foreign key migrations between an old and
// new foreign key set. Foreign keys are never offered as renames.
func DiffForeignKeys(old, new []*schema.ForeignKey, oracle Oracle) []FKeyMigration {
	changes := diffChanges(old, new, "foreign key", oracle, false)
	out := make([]FKeyMigration, len(changes))
	for i, c := range changes {
		out[i] = FKeyMigration{c}
	}
	return out
}

// DiffSchema derives a full SchemaMigration transforming old into new,
// consulting oracle for every ambiguous table, column, and foreign key
// change along the way.
func DiffSchema(old, new *schema.Schema, oracle Oracle) SchemaMigration {
	tableChanges := diffChanges(old.Tables, new.Tables, "table", oracle, true)

	tableMigrations := make([]TableMigration, 0, len(tableChanges))
	for _, c := range tableChanges {
		switch {
		case c.IsAdd():
			tableMigrations = append(tableMigrations, NewAddTableMigration(
				c.New.Name,
				DiffColumns(nil, c.New.Columns, oracle),
				DiffForeignKeys(nil, c.New.ForeignKeys, oracle),
			))

		case c.IsRemove():
			tableMigrations = append(tableMigrations, NewRemoveTableMigration(*c.OldKey, c.OldSnapshot))

		case c.IsEdit():
			tableMigrations = append(tableMigrations, NewEditTableMigration(
				*c.OldKey, c.New.Name, c.OldSnapshot,
				DiffColumns(c.OldSnapshot.Columns, c.New.Columns, oracle),
				DiffForeignKeys(c.OldSnapshot.ForeignKeys, c.New.ForeignKeys, oracle),
			))
		}
	}

	return SchemaMigration{TableMigrations: tableMigrations}
}
