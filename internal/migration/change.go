// Package migration holds the migration record types (Column, FKey,
// Table, Schema migrations), the engine that applies them to an
// in-memory schema, and the diff engine that derives them from a pair
// of schemas.
package migration

import "github.com/schemadrift/migrator/internal/schema"

// comparableEntity is Change's type parameter constraint: the migratable
// Entity capability plus comparable, since Change tells "added" from
// "removed" by comparing New against T's zero value. Column and
// ForeignKey are both used here as pointer types, which satisfy this
// trivially.
type comparableEntity[T any] interface {
	schema.Entity[T]
	comparable
}

// Change is the shared shape of a Column or ForeignKey migration: an
// optional old key (nil means "this is new"), and a new entity (the
// zero value means "this was removed"). Exactly one of the three
// predicates below is true for any well-formed Change.
type Change[T comparableEntity[T]] struct {
	OldKey *string `json:"old_key,omitempty"`
	New    T       `json:"new_data,omitempty"`

	// OldSnapshot is the pre-migration entity, captured for diagnostics
	// only (e.g. rendering a "was: ..." line); it plays no role in
	// IsAdd/IsRemove/IsEdit and is never serialized.
	OldSnapshot T `json:"-"`
}

// IsAdd reports whether this change introduces a brand new entity.
func (c Change[T]) IsAdd() bool {
	var zeroNew T
	return c.OldKey == nil && c.New != zeroNew
}

// IsRemove reports whether this change deletes an existing entity.
func (c Change[T]) IsRemove() bool {
	var zeroNew T
	return c.OldKey != nil && c.New == zeroNew
}

// IsEdit reports whether this change alters (and possibly renames) an
// existing entity.
func (c Change[T]) IsEdit() bool {
	var zeroNew T
	return c.OldKey != nil && c.New != zeroNew
}

// NewAddChange builds a Change that introduces newEntity.
func NewAddChange[T comparableEntity[T]](newEntity T) Change[T] {
	return Change[T]{New: newEntity}
}

// NewRemoveChange builds a Change that removes the entity keyed oldKey.
func NewRemoveChange[T comparableEntity[T]](oldKey string, snapshot T) Change[T] {
	key := oldKey
	return Change[T]{OldKey: &key, OldSnapshot: snapshot}
}

// NewEditChange builds a Change that replaces the entity keyed oldKey
// with newEntity (same entity, possibly renamed/altered).
func NewEditChange[T comparableEntity[T]](oldKey string, snapshot, newEntity T) Change[T] {
	key := oldKey
	return Change[T]{OldKey: &key, New: newEntity, OldSnapshot: snapshot}
}
