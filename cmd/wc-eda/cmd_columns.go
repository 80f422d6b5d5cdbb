package main

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aatrey56/wc2022-eda/internal/dataset"
	"github.com/aatrey56/wc2022-eda/internal/store"
)

// Cell types seen by the column inventory.
const (
	cellInt   = "int"
	cellReal  = "real"
	cellText  = "text"
	cellEmpty = "empty"
)

type TypeSet map[string]struct{}

type Inventory struct {
	GeneratedAtUTC string       `json:"generated_at_utc" yaml:"generated_at_utc"`
	Source         string       `json:"source" yaml:"source"`
	Tables         []TableShape `json:"tables" yaml:"tables"`
}

type TableShape struct {
	Name    string  `json:"name" yaml:"name"`
	Rows    int     `json:"rows" yaml:"rows"`
	Columns []Field `json:"columns" yaml:"columns"`
}

type Field struct {
	Name  string   `json:"name" yaml:"name"`
	Types []string `json:"types" yaml:"types"`
}

var (
	columnsOut    string
	columnsFormat string
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Inventory the raw tables' columns and the cell types they hold",
	Long: `Reads both raw tables from the configured source and records, per
column, which cell types occur (int, real, text, empty). Useful for checking
a new export before loading it.

Writes <derived_root>/schema_inventory.json unless --out is given.`,
	Args: cobra.NoArgs,
	RunE: runColumns,
}

func init() {
	columnsCmd.Flags().StringVarP(&columnsOut, "out", "o", "", "Output path (- for stdout)")
	columnsCmd.Flags().StringVarP(&columnsFormat, "format", "f", formatJSON, "Output format: json|yaml")
}

func runColumns(cmd *cobra.Command, args []string) error {
	src, closeSrc, err := store.Open(cfg.Data.Source, cfg.Data.RawRoot, cfg.Data.SQLitePath)
	if err != nil {
		return err
	}
	defer func() { _ = closeSrc() }()

	inv := Inventory{
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Source:         cfg.Data.Source,
		Tables:         make([]TableShape, 0, 2),
	}
	for _, name := range []string{dataset.GroupStageTableName, dataset.TeamStatsTableName} {
		t, err := src.ReadTable(cmd.Context(), name)
		if err != nil {
			return err
		}
		inv.Tables = append(inv.Tables, inventoryOf(t))
	}

	path := columnsOut
	if path == "" {
		path = filepath.Join(cfg.Data.DerivedRoot, "schema_inventory."+columnsFormat)
	}
	return writeOutput(cmd, path, columnsFormat, inv)
}

func inventoryOf(t store.RawTable) TableShape {
	seen := make([]TypeSet, len(t.Header))
	for i := range seen {
		seen[i] = make(TypeSet)
	}
	for _, rec := range t.Records {
		for i := range t.Header {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			seen[i][cellType(cell)] = struct{}{}
		}
	}

	out := TableShape{Name: t.Name, Rows: len(t.Records), Columns: make([]Field, 0, len(t.Header))}
	for i, name := range t.Header {
		types := make([]string, 0, len(seen[i]))
		for typ := range seen[i] {
			types = append(types, typ)
		}
		sort.Strings(types)
		out.Columns = append(out.Columns, Field{Name: name, Types: types})
	}
	return out
}

func cellType(cell string) string {
	cell = strings.TrimSpace(cell)
	switch {
	case cell == "":
		return cellEmpty
	case isInt(cell):
		return cellInt
	case isReal(cell):
		return cellReal
	}
	return cellText
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isReal(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
