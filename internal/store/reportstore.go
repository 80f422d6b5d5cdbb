package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReportStore persists derived reports under Root. The file extension picks
// the encoding: .yaml and .yml are YAML, anything else is indented JSON.
type ReportStore struct {
	Root string // e.g. "data/derived"
}

func NewReportStore(root string) *ReportStore {
	return &ReportStore{Root: root}
}

func (s *ReportStore) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

func (s *ReportStore) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

// Write encodes v and replaces rel.
func (s *ReportStore) Write(rel string, v any) error {
	var (
		b   []byte
		err error
	)
	if isYAML(rel) {
		b, err = yaml.Marshal(v)
	} else {
		b, err = json.MarshalIndent(v, "", "  ")
		b = append(b, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", rel, err)
	}

	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Read decodes rel into v. A missing file matches os.ErrNotExist.
func (s *ReportStore) Read(rel string, v any) error {
	b, err := os.ReadFile(s.Path(rel))
	if err != nil {
		return err
	}
	if isYAML(rel) {
		err = yaml.Unmarshal(b, v)
	} else {
		err = json.Unmarshal(b, v)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", rel, err)
	}
	return nil
}

func isYAML(rel string) bool {
	switch strings.ToLower(filepath.Ext(rel)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
