package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVStore reads tables stored as <Root>/<name>.csv.
type CSVStore struct {
	Root string // e.g. "data/raw"
}

func NewCSVStore(root string) *CSVStore {
	return &CSVStore{Root: root}
}

func (s *CSVStore) Path(name string) string {
	return filepath.Join(s.Root, name+".csv")
}

func (s *CSVStore) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

func (s *CSVStore) ReadTable(ctx context.Context, name string) (RawTable, error) {
	if err := ctx.Err(); err != nil {
		return RawTable{}, err
	}
	f, err := os.Open(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return RawTable{}, tableNotFound(name)
	}
	if err != nil {
		return RawTable{}, err
	}
	defer f.Close()
	return ParseCSV(name, f)
}

// ParseCSV reads a header row followed by data rows. A UTF-8 byte-order mark
// on the first header cell is dropped.
func ParseCSV(name string, r io.Reader) (RawTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return RawTable{}, fmt.Errorf("%s: missing header row", name)
	}
	if err != nil {
		return RawTable{}, fmt.Errorf("%s: read header: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	out := RawTable{Name: name, Header: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RawTable{}, fmt.Errorf("%s: %w", name, err)
		}
		out.Records = append(out.Records, row)
	}
	return out, nil
}

// WriteTable writes t as <Root>/<t.Name>.csv.
func (s *CSVStore) WriteTable(ctx context.Context, t RawTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.Path(t.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(t.Records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteRaw stores body verbatim as <Root>/<name>.csv.
func (s *CSVStore) WriteRaw(name string, body []byte) error {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

func (s *CSVStore) ReadRaw(name string) ([]byte, error) {
	b, err := os.ReadFile(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, tableNotFound(name)
	}
	return b, err
}
