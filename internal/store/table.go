// Package store reads the raw tournament tables from durable storage and
// writes derived reports back out.
package store

import (
	"context"
	"errors"
	"fmt"
)

// RawTable is one table as read from storage: a header row and string cells.
type RawTable struct {
	Name    string
	Header  []string
	Records [][]string
}

// Reader is the generic tabular read every source implements.
type Reader interface {
	ReadTable(ctx context.Context, name string) (RawTable, error)
}

// Writer stores a RawTable, replacing any table of the same name.
type Writer interface {
	WriteTable(ctx context.Context, t RawTable) error
}

// ErrTableNotFound is returned when a source has no table of the given name.
var ErrTableNotFound = errors.New("table not found")

func tableNotFound(name string) error {
	return fmt.Errorf("%s: %w", name, ErrTableNotFound)
}
