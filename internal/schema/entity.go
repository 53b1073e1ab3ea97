// Package schema holds the in-memory data model for a database schema:
// Schema, Table, Column and ForeignKey, plus validation and comparison.
package schema

// Entity is the capability every migratable schema object implements:
// Column, ForeignKey and Table. It mirrors the IMigratable contract from
// the original tool (get_key / compare_contents / compare_equivalence).
type Entity[T any] interface {
	// Key returns the stable identity of this entity. Two entities with
	// the same Key are "the same object, possibly edited"; two entities
	// with different Keys are either unrelated or a rename candidate.
	Key() string

	// CompareContents reports whether this entity and other hold the
	// same non-identity data (everything Key does not already cover).
	CompareContents(other T) bool

	// Copy returns an independent copy. Copies of entities that hold
	// resolved references to other entities (ForeignKey) do not carry
	// those resolved pointers; callers must re-resolve after mutation.
	Copy() T
}

// CompareEquivalence reports whether a and b are identical in both
// identity and contents, matching compare_equivalence in the original
// tool: same Key and CompareContents true.
func CompareEquivalence[T Entity[T]](a, b T) bool {
	return a.Key() == b.Key() && a.CompareContents(b)
}

// IndexByKey builds a lookup table keyed by Entity.Key, mirroring
// IMigratable.create_object_dict. Later entries with a duplicate key
// overwrite earlier ones; schema validation is what catches duplicates,
// not this helper.
func IndexByKey[T Entity[T]](entities []T) map[string]T {
	out := make(map[string]T, len(entities))
	for _, e := range entities {
		out[e.Key()] = e
	}
	return out
}
