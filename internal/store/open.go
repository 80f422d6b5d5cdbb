package store

import "fmt"

// Source kinds accepted by Open.
const (
	KindCSV    = "csv"
	KindSQLite = "sqlite"
)

// Open returns the Reader for kind. The returned close func releases the
// database handle for sqlite and is a no-op for csv.
func Open(kind, rawRoot, sqlitePath string) (Reader, func() error, error) {
	switch kind {
	case KindCSV, "":
		return NewCSVStore(rawRoot), func() error { return nil }, nil
	case KindSQLite:
		st, err := OpenSQLite(sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown source %q (want %s or %s)", kind, KindCSV, KindSQLite)
}
