// Package app wires configuration, clients and stores into one service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/marquee/internal/collections"
	"github.com/vmunix/marquee/internal/config"
	"github.com/vmunix/marquee/internal/costar"
	"github.com/vmunix/marquee/internal/localstore"
	"github.com/vmunix/marquee/internal/maintenance"
	"github.com/vmunix/marquee/internal/omdb"
	"github.com/vmunix/marquee/internal/people"
	"github.com/vmunix/marquee/internal/recordstore"
	"github.com/vmunix/marquee/internal/tmdb"
)

// MemoryPath selects the in-memory substrate instead of a SQLite file.
const MemoryPath = ":memory:"

// App holds every long-lived instance. Build it once with New.
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	db      *sql.DB
	storage localstore.Storage
	clock   func() time.Time

	actorsCfg recordstore.Config
	collCfg   recordstore.Config

	TMDB        *tmdb.Client
	OMDB        *omdb.Client
	Actors      *people.Store
	Collections *collections.Store
	Index       *collections.Index
	CoStars     *costar.Builder
}

type options struct {
	storage localstore.Storage
	clock   func() time.Time
}

// Option configures New.
type Option func(*options)

// WithStorage replaces the configured substrate.
func WithStorage(s localstore.Storage) Option {
	return func(o *options) { o.storage = s }
}

// WithClock sets the time source used by the stores and age calculations.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// New builds the application from cfg.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{cfg: cfg, log: log, clock: o.clock}

	if o.storage != nil {
		a.storage = o.storage
	} else if err := a.openStorage(ctx); err != nil {
		return nil, err
	}

	ds, err := loadDataset(cfg.Collections.Dataset)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Index = collections.NewIndex(ds)
	if n := a.Index.Skipped(); n > 0 {
		log.Warn("skipped invalid collection entries", "count", n)
	}

	a.TMDB = tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithCacheTTL(cfg.TMDB.CacheTTL),
		tmdb.WithPersonCacheTTL(cfg.TMDB.PersonCacheTTL),
		tmdb.WithLogger(log.With("component", "tmdb")),
	)
	if cfg.OMDB.APIKey != "" {
		a.OMDB = omdb.NewClient(cfg.OMDB.APIKey,
			omdb.WithBaseURL(cfg.OMDB.BaseURL),
			omdb.WithCacheTTL(cfg.OMDB.CacheTTL),
			omdb.WithLogger(log.With("component", "omdb")),
		)
	}

	actorsCfg := people.DefaultConfig()
	applyStoreConfig(&actorsCfg, cfg.Actors)
	a.actorsCfg = actorsCfg
	a.Actors = people.NewStore(a.storage, a.TMDB, actorsCfg, log,
		recordstore.WithClock(o.clock),
		recordstore.WithConcurrency(cfg.Actors.Concurrency),
	)

	collCfg := collections.DefaultConfig()
	applyStoreConfig(&collCfg, cfg.Collections.StoreConfig)
	a.collCfg = collCfg
	a.Collections = collections.NewStore(a.storage, a.TMDB, collCfg, log,
		recordstore.WithClock(o.clock),
		recordstore.WithConcurrency(cfg.Collections.Concurrency),
	)

	params := costar.Params{
		SampleSize: cfg.CoStar.SampleSize,
		CastDepth:  cfg.CoStar.CastDepth,
		MinShared:  cfg.CoStar.MinShared,
		Limit:      cfg.CoStar.Limit,
	}
	if cfg.CoStar.Layout != "" {
		if params, err = params.Layout(cfg.CoStar.Layout); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	a.CoStars = costar.NewBuilder(a.TMDB, a.Index, params, log)

	a.Actors.Initialize(ctx)
	a.Collections.Initialize(ctx)
	return a, nil
}

func (a *App) openStorage(ctx context.Context) error {
	path := a.cfg.Storage.Path
	if path == MemoryPath {
		a.storage = localstore.NewMemory(a.cfg.Storage.QuotaBytes)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s, err := localstore.NewSQLite(ctx, db, a.cfg.Storage.QuotaBytes)
	if err != nil {
		_ = db.Close()
		return err
	}
	a.db = db
	a.storage = s
	return nil
}

func loadDataset(path string) (collections.Dataset, error) {
	if path == "" {
		return collections.DefaultDataset()
	}
	ds, err := collections.LoadDatasetFile(path)
	if err != nil {
		return nil, fmt.Errorf("load collections dataset: %w", err)
	}
	return ds, nil
}

func applyStoreConfig(dst *recordstore.Config, src config.StoreConfig) {
	if src.Capacity > 0 {
		dst.Capacity = src.Capacity
	}
	if src.StaleAfter > 0 {
		dst.StaleAfter = src.StaleAfter
	}
	if src.RefreshInterval > 0 {
		dst.RefreshInterval = src.RefreshInterval
	}
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Runner returns a maintenance runner over both record stores.
func (a *App) Runner() *maintenance.Runner {
	return maintenance.NewRunner(a.cfg.Maintenance.Interval, a.log.With("component", "maintenance"),
		maintenance.Store{Name: "actors", Target: a.Actors},
		maintenance.Store{Name: "collections", Target: a.Collections},
	)
}

// Close releases the database, if one was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	if err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}
