// Package recordstore provides a persisted, size-bounded, staleness-aware
// store of externally fetched records with read-through on miss.
//
// Every operation is read-all/mutate/write-all against the backing storage.
// Concurrent callers race with last-writer-wins semantics; a lost write only
// costs a stale access time. Failures are logged and degrade to empty
// results: the store is an optimization, never a source of truth.
package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/marquee/internal/localstore"
)

//go:generate mockgen -destination=mocks/fetcher.go -package=mocks . Fetcher

// Fetcher resolves records from the upstream API.
type Fetcher[T any] interface {
	// FetchOne returns the full record for id. A nil record with a nil
	// error means the provider has nothing for id.
	FetchOne(ctx context.Context, id int64) (*T, error)
	// FetchSeed returns the ids a bulk refresh should make sure are cached.
	FetchSeed(ctx context.Context) ([]int64, error)
}

// Config names the storage keys and limits of one store.
type Config struct {
	RecordsKey      string        // storage key of the record map
	LastUpdateKey   string        // storage key of the last bulk update time
	Capacity        int           // max records kept; <= 0 means unbounded
	StaleAfter      time.Duration // access age after which maintenance drops a record
	RefreshInterval time.Duration // bulk refresh period
}

type options struct {
	log         *slog.Logger
	now         func() time.Time
	concurrency int
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithClock sets the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithConcurrency caps in-flight fetches per batch. Zero means no cap.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// Store is a persisted keyed store of T.
type Store[T any] struct {
	storage     localstore.Storage
	fetcher     Fetcher[T]
	cfg         Config
	log         *slog.Logger
	now         func() time.Time
	concurrency int
}

// New creates a store over storage that resolves misses through fetcher.
func New[T any](storage localstore.Storage, fetcher Fetcher[T], cfg Config, opts ...Option) *Store[T] {
	o := options{log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		storage:     storage,
		fetcher:     fetcher,
		cfg:         cfg,
		log:         o.log.With("store", cfg.RecordsKey),
		now:         o.now,
		concurrency: o.concurrency,
	}
}

type records[T any] map[string]*Record[T]

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (s *Store[T]) nowMillis() int64 {
	return s.now().UnixMilli()
}

// Initialize makes sure the record map and update timestamp exist.
// Safe to call on every entry point.
func (s *Store[T]) Initialize(ctx context.Context) {
	if _, ok, err := s.storage.GetItem(ctx, s.cfg.RecordsKey); err != nil {
		s.log.Error("failed to read records", "error", err)
	} else if !ok {
		if err := s.storage.SetItem(ctx, s.cfg.RecordsKey, "{}"); err != nil {
			s.log.Error("failed to initialize records", "error", err)
		}
	}

	if _, ok, err := s.storage.GetItem(ctx, s.cfg.LastUpdateKey); err != nil {
		s.log.Error("failed to read last update", "error", err)
	} else if !ok {
		if err := s.storage.SetItem(ctx, s.cfg.LastUpdateKey, "0"); err != nil {
			s.log.Error("failed to initialize last update", "error", err)
		}
	}
}

// load reads the record map. Missing or corrupt state reads as empty.
func (s *Store[T]) load(ctx context.Context) records[T] {
	data, ok, err := s.storage.GetItem(ctx, s.cfg.RecordsKey)
	if err != nil {
		s.log.Error("failed to read records", "error", err)
		return records[T]{}
	}
	if !ok || data == "" {
		return records[T]{}
	}

	var recs records[T]
	if err := json.Unmarshal([]byte(data), &recs); err != nil {
		s.log.Warn("discarding unreadable records", "error", errors.Join(localstore.ErrCorrupt, err))
		return records[T]{}
	}
	for k, r := range recs {
		if r == nil {
			delete(recs, k)
		}
	}
	return recs
}

// Save writes recs after evicting the least recently accessed records past
// capacity. On a quota failure the store is cleared and the write retried
// once; a second failure is logged and dropped.
func (s *Store[T]) Save(ctx context.Context, recs map[string]*Record[T]) {
	s.evict(recs)

	err := s.write(ctx, recs)
	if err == nil {
		return
	}
	s.log.Error("failed to save records", "count", len(recs), "error", err)
	if !errors.Is(err, localstore.ErrQuotaExceeded) {
		return
	}

	s.Clear(ctx)
	if err := s.write(ctx, recs); err != nil {
		s.log.Error("failed to save records after clearing store", "count", len(recs), "error", err)
	}
}

func (s *Store[T]) evict(recs map[string]*Record[T]) {
	if s.cfg.Capacity <= 0 || len(recs) <= s.cfg.Capacity {
		return
	}

	ids := make([]string, 0, len(recs))
	for id := range recs {
		ids = append(ids, id)
	}
	// Oldest first; ties broken by id so eviction is deterministic.
	sort.Slice(ids, func(i, j int) bool {
		a, b := recs[ids[i]].LastAccessed, recs[ids[j]].LastAccessed
		if a != b {
			return a < b
		}
		return ids[i] < ids[j]
	})

	excess := len(ids) - s.cfg.Capacity
	for _, id := range ids[:excess] {
		delete(recs, id)
	}
	s.log.Debug("evicted records over capacity", "evicted", excess, "capacity", s.cfg.Capacity)
}

func (s *Store[T]) write(ctx context.Context, recs map[string]*Record[T]) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	return s.storage.SetItem(ctx, s.cfg.RecordsKey, string(data))
}

// GetByID returns the record for id, fetching and caching it on a miss.
// Returns false if the record is not cached and could not be fetched.
func (s *Store[T]) GetByID(ctx context.Context, id int64) (*T, bool) {
	s.Initialize(ctx)
	recs := s.load(ctx)

	if r, ok := recs[key(id)]; ok {
		r.LastAccessed = s.nowMillis()
		s.Save(ctx, recs)
		v := r.Value
		return &v, true
	}

	v, err := s.fetcher.FetchOne(ctx, id)
	if err != nil {
		s.log.Warn("fetch failed", "id", id, "error", err)
		return nil, false
	}
	if v == nil {
		return nil, false
	}

	recs[key(id)] = &Record[T]{Value: *v, LastAccessed: s.nowMillis()}
	s.Save(ctx, recs)
	return v, true
}

// GetByIDs resolves every id it can. Cache hits get their access time
// refreshed; misses are fetched in parallel. Ids that fail to fetch are
// omitted from the result. All changes are written in one save.
func (s *Store[T]) GetByIDs(ctx context.Context, ids []int64) map[int64]*T {
	s.Initialize(ctx)
	recs := s.load(ctx)
	results := make(map[int64]*T, len(ids))
	now := s.nowMillis()

	var missing []int64
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if r, ok := recs[key(id)]; ok {
			r.LastAccessed = now
			v := r.Value
			results[id] = &v
		} else {
			missing = append(missing, id)
		}
	}

	fetched := s.fetchAll(ctx, missing)
	for i, v := range fetched {
		if v == nil {
			continue
		}
		results[missing[i]] = v
		recs[key(missing[i])] = &Record[T]{Value: *v, LastAccessed: s.nowMillis()}
	}

	if len(results) > 0 {
		s.Save(ctx, recs)
	}
	return results
}

// fetchAll fetches ids in parallel. The result is index-aligned with ids;
// entries that failed or returned nothing are nil.
func (s *Store[T]) fetchAll(ctx context.Context, ids []int64) []*T {
	out := make([]*T, len(ids))
	if len(ids) == 0 {
		return out
	}

	var g errgroup.Group
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, id := range ids {
		g.Go(func() error {
			v, err := s.fetcher.FetchOne(ctx, id)
			if err != nil {
				s.log.Warn("fetch failed", "id", id, "error", err)
				return nil
			}
			out[i] = v
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// PerformMaintenance drops records not accessed within StaleAfter and
// returns how many were removed. Storage is only rewritten when something
// was removed.
func (s *Store[T]) PerformMaintenance(ctx context.Context) int {
	recs := s.load(ctx)
	now := s.nowMillis()
	stale := s.cfg.StaleAfter.Milliseconds()

	removed := 0
	for id, r := range recs {
		if now-r.LastAccessed > stale {
			delete(recs, id)
			removed++
		}
	}

	if removed > 0 {
		s.Save(ctx, recs)
		s.log.Info("maintenance removed stale records", "removed", removed, "remaining", len(recs))
	}
	return removed
}

// NeedsBulkUpdate reports whether the last bulk refresh is missing or older
// than RefreshInterval.
func (s *Store[T]) NeedsBulkUpdate(ctx context.Context) bool {
	raw, ok, err := s.storage.GetItem(ctx, s.cfg.LastUpdateKey)
	if err != nil {
		s.log.Error("failed to read last update", "error", err)
		return true
	}
	if !ok {
		return true
	}
	last, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	return s.nowMillis()-last > s.cfg.RefreshInterval.Milliseconds()
}

// LastBulkUpdate returns the time of the last bulk refresh, if any.
func (s *Store[T]) LastBulkUpdate(ctx context.Context) (time.Time, bool) {
	raw, ok, err := s.storage.GetItem(ctx, s.cfg.LastUpdateKey)
	if err != nil || !ok {
		return time.Time{}, false
	}
	last, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || last == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(last), true
}

// BulkRefresh caches every seed record not already present and returns how
// many were added. Records already cached are never re-fetched, stale or not.
func (s *Store[T]) BulkRefresh(ctx context.Context) int {
	s.Initialize(ctx)
	s.log.Info("starting bulk refresh")

	seed, err := s.fetcher.FetchSeed(ctx)
	if err != nil {
		s.log.Error("failed to fetch seed list", "error", err)
		return 0
	}

	recs := s.load(ctx)
	var missing []int64
	seen := make(map[int64]bool, len(seed))
	for _, id := range seed {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := recs[key(id)]; !ok {
			missing = append(missing, id)
		}
	}

	added := 0
	for i, v := range s.fetchAll(ctx, missing) {
		if v == nil {
			continue
		}
		recs[key(missing[i])] = &Record[T]{Value: *v, LastAccessed: s.nowMillis()}
		added++
	}

	s.Save(ctx, recs)
	if err := s.storage.SetItem(ctx, s.cfg.LastUpdateKey, strconv.FormatInt(s.nowMillis(), 10)); err != nil {
		s.log.Error("failed to stamp bulk update", "error", err)
	}
	s.log.Info("bulk refresh completed", "seed", len(seen), "added", added, "total", len(recs))
	return added
}

// Clear wipes the store and re-initializes it.
func (s *Store[T]) Clear(ctx context.Context) {
	if err := s.storage.RemoveItem(ctx, s.cfg.RecordsKey); err != nil {
		s.log.Error("failed to remove records", "error", err)
	}
	if err := s.storage.RemoveItem(ctx, s.cfg.LastUpdateKey); err != nil {
		s.log.Error("failed to remove last update", "error", err)
	}
	s.Initialize(ctx)
	s.log.Info("store cleared")
}

// Len returns the number of stored records.
func (s *Store[T]) Len(ctx context.Context) int {
	return len(s.load(ctx))
}

// Snapshot returns a copy of every stored record keyed by id, without
// touching access times.
func (s *Store[T]) Snapshot(ctx context.Context) map[int64]Record[T] {
	recs := s.load(ctx)
	out := make(map[int64]Record[T], len(recs))
	for k, r := range recs {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		out[id] = *r
	}
	return out
}
