package schema

import "fmt"

// Column is a single column definition belonging to a Table.
type Column struct {
	Name        string   `json:"name"`
	Datatype    string   `json:"type"`
	Constraints []string `json:"constraints,omitempty"`
}

// Key identifies a column by its name, matching get_key() in the
// original tool: columns are keyed within their owning table only.
func (c *Column) Key() string {
	return c.Name
}

// CompareContents checks datatype and the constraint list for equality;
// constraint order matters, matching the original's list equality check.
func (c *Column) CompareContents(other *Column) bool {
	if c.Datatype != other.Datatype {
		return false
	}
	if len(c.Constraints) != len(other.Constraints) {
		return false
	}
	for i, constr := range c.Constraints {
		if other.Constraints[i] != constr {
			return false
		}
	}
	return true
}

// Copy returns an independent Column with its own constraint slice.
func (c *Column) Copy() *Column {
	cp := &Column{Name: c.Name, Datatype: c.Datatype}
	if c.Constraints != nil {
		cp.Constraints = append([]string(nil), c.Constraints...)
	}
	return cp
}

// Validate checks this column in isolation: non-empty name, non-empty
// recognized datatype, no duplicate constraints, every constraint
// recognized.
func (c *Column) Validate() []*ValidationError {
	var errs []*ValidationError

	if c.Name == "" {
		errs = append(errs, NewValidationError(MissingRequiredValue, "column is missing a name"))
	}
	if c.Datatype == "" {
		errs = append(errs, NewValidationError(MissingRequiredValue,
			fmt.Sprintf("column '%s' is missing a datatype", c.Name)))
	} else if !ValidateDatatype(c.Datatype) {
		errs = append(errs, NewValidationError(InvalidValue,
			fmt.Sprintf("column '%s' has unrecognized datatype '%s'", c.Name, c.Datatype)))
	}

	seen := make(map[string]bool, len(c.Constraints))
	for _, constr := range c.Constraints {
		if seen[constr] {
			errs = append(errs, NewValidationError(Duplicate,
				fmt.Sprintf("column '%s' has duplicate constraint '%s'", c.Name, constr)))
			continue
		}
		seen[constr] = true
		if !ValidateConstraint(constr) {
			errs = append(errs, NewValidationError(InvalidValue,
				fmt.Sprintf("column '%s' has unrecognized constraint '%s'", c.Name, constr)))
		}
	}

	return errs
}
