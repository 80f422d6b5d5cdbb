package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/aatrey56/wc2022-eda/internal/engine"
	"github.com/aatrey56/wc2022-eda/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func loadFixtures(t *testing.T) (*GroupStageTable, *TeamStatsTable) {
	t.Helper()
	groups, teams, err := NewLoader(store.NewCSVStore("testdata"), nil).Load(context.Background())
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	return groups, teams
}

// countingSource wraps a Reader and counts reads per table.
type countingSource struct {
	inner store.Reader
	reads atomic.Int32
}

func (c *countingSource) ReadTable(ctx context.Context, name string) (store.RawTable, error) {
	c.reads.Add(1)
	return c.inner.ReadTable(ctx, name)
}

type failingSource struct{ err error }

func (f failingSource) ReadTable(context.Context, string) (store.RawTable, error) {
	return store.RawTable{}, f.err
}

func TestLoad_Fixtures(t *testing.T) {
	groups, teams := loadFixtures(t)

	if groups.Len() != 32 {
		t.Fatalf("group rows: want 32, got %d", groups.Len())
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "D", "E", "F", "G", "H"}, groups.Groups()); diff != "" {
		t.Errorf("group letters mismatch (-want +got):\n%s", diff)
	}
	nl, ok := groups.Lookup("Netherlands")
	if !ok {
		t.Fatal("Netherlands missing")
	}
	want := GroupStageRow{Team: "Netherlands", Group: "A", Wins: 2, Draws: 1, GoalsScored: 5, GoalsAgainst: 1, Points: 7}
	if diff := cmp.Diff(want, nl); diff != "" {
		t.Errorf("Netherlands row mismatch (-want +got):\n%s", diff)
	}
	for _, c := range groups.Columns() {
		if c == "unnamed:_0" || c == "matches_played" {
			t.Errorf("unexpected column %q", c)
		}
	}

	if teams.Len() != 6 {
		t.Fatalf("team rows: want 6, got %d", teams.Len())
	}
	arg, _ := teams.Lookup("Argentina")
	if arg.Goals != 15 || arg.XG != 15.6 || arg.PensWon != 5 || arg.AvgAge != 27.8 {
		t.Errorf("Argentina decoded wrong: %+v", arg)
	}
}

func TestLoad_DerivedColumns(t *testing.T) {
	groups, teams := loadFixtures(t)

	gd, ok := groups.Column("goal_difference")
	if !ok {
		t.Fatal("goal_difference should be served for group stage")
	}
	if v := gd(0); v != 4 {
		t.Errorf("Netherlands goal_difference: want 4, got %v", v)
	}

	get, ok := teams.Column("goals_minus_xg")
	if !ok {
		t.Fatal("goals_minus_xg should be served")
	}
	// France: 16 goals from 13.3 xG.
	i := indexOf(teams.Teams(), "France")
	if v := get(i); v < 2.69 || v > 2.71 {
		t.Errorf("France goals_minus_xg: want 2.7, got %v", v)
	}
}

func TestLoad_QualifiersFromFixtures(t *testing.T) {
	groups, _ := loadFixtures(t)
	q, err := engine.QualifiersPerGroup(groups)
	if err != nil {
		t.Fatalf("qualifiers: %v", err)
	}
	if len(q) != 16 {
		t.Fatalf("want 16 qualifiers, got %d", len(q))
	}
	got := make(map[string]bool)
	for _, r := range q {
		got[r.Team] = true
	}
	for _, team := range []string{"Netherlands", "Senegal", "Spain", "Poland", "Australia", "Korea Republic"} {
		if !got[team] {
			t.Errorf("%s should qualify", team)
		}
	}
	if got["Germany"] {
		t.Error("Germany should not qualify")
	}
}

func TestDecodeGroupStage_MappingError(t *testing.T) {
	raw := store.RawTable{
		Name:    GroupStageTableName,
		Header:  []string{"group", "team", "points"},
		Records: [][]string{{"1", "Qatar", "0"}, {"9", "Atlantis", "3"}},
	}
	_, err := DecodeGroupStage(raw)
	var mapping *MappingError
	if !errors.As(err, &mapping) {
		t.Fatalf("want *MappingError, got %v", err)
	}
	if mapping.Team != "Atlantis" || mapping.Code != "9" {
		t.Errorf("mapping error fields: got %+v", mapping)
	}
}

func TestDecodeGroupStage_CodesAndLetters(t *testing.T) {
	raw := store.RawTable{
		Header:  []string{"team", "group", "points"},
		Records: [][]string{{"Brazil", "7", "6"}, {"Ghana", "H", "3"}, {"Japan", "5.0", "6"}},
	}
	tbl, err := DecodeGroupStage(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"G", "H", "E"}
	for i, g := range want {
		if tbl.Group(i) != g {
			t.Errorf("row %d: want group %s, got %s", i, g, tbl.Group(i))
		}
	}
	for _, bad := range []string{"0", "-1", "I", "2.5", ""} {
		raw.Records = [][]string{{"X", bad, "0"}}
		if _, err := DecodeGroupStage(raw); !errors.As(err, new(*MappingError)) {
			t.Errorf("code %q: want *MappingError, got %v", bad, err)
		}
	}
}

func TestGroupLetter(t *testing.T) {
	seen := make(map[string]bool)
	for code := 1; code <= 8; code++ {
		l, ok := GroupLetter(code)
		if !ok || seen[l] {
			t.Errorf("code %d: got %q ok=%v", code, l, ok)
		}
		seen[l] = true
	}
	if _, ok := GroupLetter(9); ok {
		t.Error("code 9 should not map")
	}
}

func TestDecodeTeamStats_MissingColumnIsAbsent(t *testing.T) {
	raw := store.RawTable{
		Header:  []string{"team", "goals", "passes_completed"},
		Records: [][]string{{"Spain", "9", "3528"}, {"Qatar", "1", "1037"}},
	}
	tbl, err := DecodeTeamStats(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"goals", "passes_completed"}, tbl.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	_, err = engine.TopByColumn(tbl, "xg", 5)
	if !errors.Is(err, engine.ErrColumnNotFound) {
		t.Errorf("want ErrColumnNotFound for xg, got %v", err)
	}
}

func TestDecode_BadCells(t *testing.T) {
	cases := []struct {
		name   string
		header []string
		rec    []string
		column string
	}{
		{"not a number", []string{"team", "goals"}, []string{"Spain", "nine"}, "goals"},
		{"fractional count", []string{"team", "goals"}, []string{"Spain", "9.5"}, "goals"},
		{"empty cell", []string{"team", "xg"}, []string{"Spain", ""}, "xg"},
		{"empty team", []string{"team", "xg"}, []string{" ", "1.0"}, "team"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := store.RawTable{Name: TeamStatsTableName, Header: tc.header, Records: [][]string{tc.rec}}
			_, err := DecodeTeamStats(raw)
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("want *LoadError, got %v", err)
			}
			if le.Row != 1 || le.Column != tc.column {
				t.Errorf("want row 1 column %s, got row %d column %s", tc.column, le.Row, le.Column)
			}
		})
	}
}

func TestDecode_RequiredColumns(t *testing.T) {
	_, err := DecodeGroupStage(store.RawTable{Header: []string{"team", "points"}})
	var le *LoadError
	if !errors.As(err, &le) || le.Column != "group" {
		t.Errorf("want LoadError for missing group column, got %v", err)
	}
	_, err = DecodeTeamStats(store.RawTable{Header: []string{"goals"}})
	if !errors.As(err, &le) || le.Column != "team" {
		t.Errorf("want LoadError for missing team column, got %v", err)
	}
}

func TestLoad_ReadFailureIsLoadError(t *testing.T) {
	_, _, err := NewLoader(store.NewCSVStore(t.TempDir()), nil).Load(context.Background())
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("want *LoadError, got %v", err)
	}
	if !errors.Is(err, store.ErrTableNotFound) {
		t.Errorf("LoadError should wrap the read failure, got %v", err)
	}
}

func TestCache_LoadsOnce(t *testing.T) {
	src := &countingSource{inner: store.NewCSVStore("testdata")}
	cache := NewCache(NewLoader(src, nil))

	var wg sync.WaitGroup
	results := make([]*GroupStageTable, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, _, err := cache.Get(context.Background())
			if err != nil {
				t.Errorf("get: %v", err)
			}
			results[i] = g
		}(i)
	}
	wg.Wait()

	if n := src.reads.Load(); n != 2 {
		t.Errorf("want 2 table reads (one per table), got %d", n)
	}
	for i, g := range results {
		if g != results[0] {
			t.Errorf("caller %d got a different table instance", i)
		}
	}
	if cache.LoadedAt().IsZero() {
		t.Error("LoadedAt should be set after the first Get")
	}
}

func TestCache_FailureIsNotRetried(t *testing.T) {
	boom := errors.New("disk gone")
	src := &countingSource{inner: failingSource{err: boom}}
	cache := NewCache(NewLoader(src, nil))

	for i := 0; i < 3; i++ {
		if _, _, err := cache.Get(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("attempt %d: want wrapped disk error, got %v", i, err)
		}
	}
	if n := src.reads.Load(); n > 2 {
		t.Errorf("failed load should not be retried, saw %d reads", n)
	}
}

// gatedSource blocks every read until release is closed or ctx ends.
type gatedSource struct {
	inner   store.Reader
	release chan struct{}
}

func (g *gatedSource) ReadTable(ctx context.Context, name string) (store.RawTable, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return store.RawTable{}, ctx.Err()
	}
	return g.inner.ReadTable(ctx, name)
}

func TestCache_CanceledCallerDoesNotPoisonLoad(t *testing.T) {
	src := &gatedSource{inner: store.NewCSVStore("testdata"), release: make(chan struct{})}
	cache := NewCache(NewLoader(src, nil))

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := cache.Get(canceled); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled caller: want context.Canceled, got %v", err)
	}
	if !cache.LoadedAt().IsZero() {
		t.Error("LoadedAt should stay zero while the load is in flight")
	}

	close(src.release)
	groups, teams, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("live caller after a canceled one: %v", err)
	}
	if groups.Len() != 32 || teams.Len() != 6 {
		t.Errorf("rows: %d/%d", groups.Len(), teams.Len())
	}
	if cache.LoadedAt().IsZero() {
		t.Error("LoadedAt should be set once the load finishes")
	}
}

func TestCache_LoadTimeoutSticks(t *testing.T) {
	src := &gatedSource{inner: store.NewCSVStore("testdata"), release: make(chan struct{})}
	cache := NewCache(NewLoader(src, nil))
	cache.Timeout = 20 * time.Millisecond

	for i := 0; i < 2; i++ {
		_, _, err := cache.Get(context.Background())
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("attempt %d: want deadline exceeded, got %v", i, err)
		}
		var le *LoadError
		if !errors.As(err, &le) {
			t.Errorf("attempt %d: want *LoadError, got %T", i, err)
		}
	}
}

func TestCacheFrom_IsReady(t *testing.T) {
	groups, teams := loadFixtures(t)
	cache := NewCacheFrom(groups, teams)
	g, tm, err := cache.Get(context.Background())
	if err != nil || g != groups || tm != teams {
		t.Fatalf("NewCacheFrom should serve its tables: %v", err)
	}
	if cache.LoadedAt().IsZero() {
		t.Error("LoadedAt should be set")
	}
}

func TestTables_RowsAreCopies(t *testing.T) {
	groups, _ := loadFixtures(t)
	rows := groups.Rows()
	rows[0].Points = 99
	if groups.Row(0).Points == 99 {
		t.Error("mutating Rows() result changed the table")
	}
	cols := groups.Columns()
	cols[0] = "hacked"
	if groups.Columns()[0] == "hacked" {
		t.Error("mutating Columns() result changed the table")
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
