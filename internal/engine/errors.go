package engine

import (
	"fmt"
	"strings"
)

// ColumnNotFoundError reports a query against a column the table does not
// carry.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column not found: %q", e.Column)
	}
	return fmt.Sprintf("column not found: %q (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// Is matches any *ColumnNotFoundError so callers can use ErrColumnNotFound
// with errors.Is.
func (e *ColumnNotFoundError) Is(target error) bool {
	_, ok := target.(*ColumnNotFoundError)
	return ok
}

// EmptyTableError reports an extremum or top-N query on a table with no rows.
type EmptyTableError struct {
	Op string
}

func (e *EmptyTableError) Error() string {
	if e.Op == "" {
		return "empty table"
	}
	return fmt.Sprintf("%s: empty table has no extreme value", e.Op)
}

func (e *EmptyTableError) Is(target error) bool {
	_, ok := target.(*EmptyTableError)
	return ok
}

var (
	ErrColumnNotFound error = &ColumnNotFoundError{}
	ErrEmptyTable     error = &EmptyTableError{}
)
