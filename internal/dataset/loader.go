package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aatrey56/wc2022-eda/internal/store"
)

// Loader reads both tables from a Source and decodes them.
type Loader struct {
	Source store.Reader
	Logger *zap.Logger
}

func NewLoader(src store.Reader, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{Source: src, Logger: logger}
}

// Load reads the group-stage and team-statistics tables concurrently. A read
// failure is returned as *LoadError; an unknown group code as *MappingError.
// Nothing is retried.
func (l *Loader) Load(ctx context.Context) (*GroupStageTable, *TeamStatsTable, error) {
	var (
		groups *GroupStageTable
		teams  *TeamStatsTable
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := l.read(gctx, GroupStageTableName)
		if err != nil {
			return err
		}
		groups, err = DecodeGroupStage(raw)
		return err
	})
	g.Go(func() error {
		raw, err := l.read(gctx, TeamStatsTableName)
		if err != nil {
			return err
		}
		teams, err = DecodeTeamStats(raw)
		return err
	})
	if err := g.Wait(); err != nil {
		l.logger().Error("dataset load failed", zap.Error(err))
		return nil, nil, err
	}

	l.logger().Info("dataset loaded",
		zap.Int("group_rows", groups.Len()),
		zap.Int("team_rows", teams.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return groups, teams, nil
}

func (l *Loader) read(ctx context.Context, name string) (store.RawTable, error) {
	if l.Source == nil {
		return store.RawTable{}, &LoadError{Table: name, Err: errors.New("no source configured")}
	}
	raw, err := l.Source.ReadTable(ctx, name)
	if err != nil {
		return store.RawTable{}, &LoadError{Table: name, Err: err}
	}
	if raw.Name == "" {
		raw.Name = name
	}
	l.logger().Debug("table read",
		zap.String("table", name),
		zap.Int("columns", len(raw.Header)),
		zap.Int("records", len(raw.Records)))
	return raw, nil
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// DefaultLoadTimeout bounds the cache's one-time load.
const DefaultLoadTimeout = 30 * time.Second

// Cache loads the tables once and serves the same instances for the rest of
// the process. There is no invalidation: a restart is the only refresh. A
// failed first load is kept and returned to every later caller.
//
// The load runs detached from the caller that triggers it, so a caller that
// gives up only stops waiting; the load itself is bounded by Timeout.
type Cache struct {
	loader  *Loader
	Timeout time.Duration

	once     sync.Once
	done     chan struct{}
	groups   *GroupStageTable
	teams    *TeamStatsTable
	err      error
	loadedAt atomic.Int64 // unix nanos, 0 until the load finishes
}

func NewCache(loader *Loader) *Cache {
	return &Cache{loader: loader, Timeout: DefaultLoadTimeout, done: make(chan struct{})}
}

// NewCacheFrom returns a cache already holding the given tables.
func NewCacheFrom(groups *GroupStageTable, teams *TeamStatsTable) *Cache {
	c := &Cache{groups: groups, teams: teams, done: make(chan struct{})}
	c.loadedAt.Store(time.Now().UnixNano())
	c.once.Do(func() { close(c.done) })
	return c
}

// Get returns the cached tables, starting the load on the first call. A
// caller whose ctx ends first gets ctx.Err(); the load carries on and later
// callers see its result.
func (c *Cache) Get(ctx context.Context) (*GroupStageTable, *TeamStatsTable, error) {
	c.once.Do(func() {
		go c.load(context.WithoutCancel(ctx))
	})

	select {
	case <-c.done:
		return c.groups, c.teams, c.err
	default:
	}
	select {
	case <-c.done:
		return c.groups, c.teams, c.err
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}

func (c *Cache) load(ctx context.Context) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c.groups, c.teams, c.err = c.loader.Load(ctx)
	c.loadedAt.Store(time.Now().UnixNano())
	close(c.done)
}

// LoadedAt reports when the first load finished; zero before it does. Safe
// to call concurrently with Get.
func (c *Cache) LoadedAt() time.Time {
	n := c.loadedAt.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
