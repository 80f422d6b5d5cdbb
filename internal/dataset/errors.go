package dataset

import "fmt"

// MappingError reports a group code outside 1..8.
type MappingError struct {
	Team string
	Code string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("group code %q for team %q is outside 1..8", e.Code, e.Team)
}

// LoadError reports a failed read of a source table, or a cell that cannot be
// decoded. Row is the 1-based data row and is zero when the whole table
// failed.
type LoadError struct {
	Table  string
	Row    int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("load %s: row %d column %s: %v", e.Table, e.Row, e.Column, e.Err)
	case e.Column != "":
		return fmt.Sprintf("load %s: column %s: %v", e.Table, e.Column, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Table, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }
