package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps each raw table as a SQLite table of TEXT columns.
type SQLiteStore struct {
	DB *gorm.DB
}

// OpenSQLite opens (or creates) the database at path using the pure-Go
// modernc driver.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.New(sqlite.Config{
		DSN:        path,
		DriverName: "sqlite",
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &SQLiteStore{DB: db}, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ReadTable returns every row of the named table in insertion order.
func (s *SQLiteStore) ReadTable(ctx context.Context, name string) (RawTable, error) {
	db := s.DB.WithContext(ctx)
	if !db.Migrator().HasTable(name) {
		return RawTable{}, tableNotFound(name)
	}

	rows, err := db.Table(name).Order("rowid").Rows()
	if err != nil {
		return RawTable{}, fmt.Errorf("%s: query: %w", name, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return RawTable{}, fmt.Errorf("%s: columns: %w", name, err)
	}

	out := RawTable{Name: name, Header: header}
	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return RawTable{}, fmt.Errorf("%s: scan: %w", name, err)
		}
		rec := make([]string, len(cells))
		for i, c := range cells {
			rec[i] = c.String
		}
		out.Records = append(out.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return RawTable{}, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// WriteTable replaces the named table with t's header and records.
func (s *SQLiteStore) WriteTable(ctx context.Context, t RawTable) error {
	cols := sqliteColumns(t.Header)
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Migrator().HasTable(t.Name) {
			if err := tx.Migrator().DropTable(t.Name); err != nil {
				return fmt.Errorf("%s: drop: %w", t.Name, err)
			}
		}

		defs := make([]string, 0, len(cols))
		for _, c := range cols {
			defs = append(defs, quoteIdent(c)+" TEXT")
		}
		ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(t.Name), strings.Join(defs, ", "))
		if err := tx.Exec(ddl).Error; err != nil {
			return fmt.Errorf("%s: create: %w", t.Name, err)
		}
		if len(t.Records) == 0 {
			return nil
		}

		rows := make([]map[string]any, 0, len(t.Records))
		for _, rec := range t.Records {
			row := make(map[string]any, len(cols))
			for i, c := range cols {
				if i < len(rec) {
					row[c] = rec[i]
				} else {
					row[c] = ""
				}
			}
			rows = append(rows, row)
		}
		if err := tx.Table(t.Name).Create(rows).Error; err != nil {
			return fmt.Errorf("%s: insert: %w", t.Name, err)
		}
		return nil
	})
}

// sqliteColumns names blank header cells so every column is addressable.
func sqliteColumns(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("unnamed_%d", i)
		}
		out[i] = h
	}
	return out
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
