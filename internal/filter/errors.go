package filter

import (
	"fmt"

	"fakerfilter/internal/schema"
)

// UnknownColumnError reports a configured column absent from the schema.
type UnknownColumnError struct {
	Name string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("filter: configured column %q does not exist in the input schema", e.Name)
}

// TypeMismatchError reports a configured column whose type is not string.
type TypeMismatchError struct {
	Column string
	Type   schema.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("filter: column %q has type %s; only string columns can be rewritten", e.Column, e.Type)
}

// DuplicateRuleError reports two rules targeting the same column.
type DuplicateRuleError struct {
	Name string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("filter: column %q is configured more than once", e.Name)
}
