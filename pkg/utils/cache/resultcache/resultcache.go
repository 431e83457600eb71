package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/utils/cache"
)

// based on github.com/kittpat1413/go-common/framework/cache/localcache/localcache.go

type (
	Option[V any] func(*config)
	config        struct {
		store store.Store
		now   func() time.Time
		l     *log.Logger
	}
	// resultCache keeps computed values in memory and in an optional store.
	// Values are persisted as JSON. Entries never expire.
	resultCache[V any] struct {
		mutex  sync.Mutex
		items  map[string]*V
		config *config
	}
)

var _ cache.Cache[string, struct{}] = (*resultCache[struct{}])(nil)

func WithStore[V any](s store.Store) Option[V] {
	return func(c *config) {
		c.store = s
	}
}

func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *config) {
		c.now = now
	}
}

func WithLogger[V any](arg *log.Logger) Option[V] {
	return func(c *config) {
		c.l = arg
	}
}

func New[V any](opts ...Option[V]) cache.Cache[string, V] {
	c := &config{
		now: time.Now,
		l:   log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return &resultCache[V]{
		items:  make(map[string]*V),
		config: c,
	}
}

// GetOrCompute holds the lock while computing, so fn runs at most once per key.
// Returned values are shared and must not be modified.
//
//nolint:whitespace // editor/linter issue
func (c *resultCache[V]) GetOrCompute(
	ctx context.Context,
	key string,
	fn cache.ComputeFunc[V],
) (*V, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if v, ok := c.items[key]; ok {
		c.config.l.Debug("memory hit", log.String("key", key))
		return v, nil
	}
	if v, err := c.load(ctx, key); err == nil {
		c.config.l.Debug("store hit", log.String("key", key))
		c.items[key] = v
		return v, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		c.config.l.Warn("ignoring unreadable cache entry", log.ErrorField(err))
	}

	c.config.l.Debug("computing", log.String("key", key))
	v, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	c.items[key] = v
	if err := c.persist(ctx, key, v); err != nil {
		c.config.l.Warn("result not persisted", log.ErrorField(err))
	}
	return v, nil
}

// load returns cache.ErrCacheMiss or a *cache.CacheReadError on failure
func (c *resultCache[V]) load(ctx context.Context, key string) (*V, error) {
	if c.config.store == nil {
		return nil, cache.ErrCacheMiss
	}
	e, err := c.config.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, cache.ErrCacheMiss
		}
		return nil, &cache.CacheReadError{Key: key, Err: err}
	}
	var v V
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return nil, &cache.CacheReadError{Key: key, Err: err}
	}
	return &v, nil
}

func (c *resultCache[V]) persist(ctx context.Context, key string, v *V) error {
	if c.config.store == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return &cache.CacheWriteError{Key: key, Err: err}
	}
	entry := &store.Entry{Key: key, Data: data, CreatedAt: c.config.now()}
	if err := c.config.store.Put(ctx, entry); err != nil {
		return &cache.CacheWriteError{Key: key, Err: err}
	}
	return nil
}

func (c *resultCache[V]) Invalidate(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.config.l.Debug("Invalidate", log.String("key", key))

	delete(c.items, key)
	if c.config.store == nil {
		return nil
	}
	return c.config.store.Delete(ctx, key)
}

func (c *resultCache[V]) InvalidateAll(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[string]*V)
	if c.config.store == nil {
		return nil
	}
	entries, err := c.config.store.List(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := c.config.store.Delete(ctx, e.Key); err != nil {
			return err
		}
	}
	c.config.l.Debug("InvalidateAll", log.Int("removed", len(entries)))
	return nil
}
