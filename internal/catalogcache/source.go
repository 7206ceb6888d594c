// Package catalogcache puts a Redis read-through cache in front of a catalog source.
package catalogcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-catalog/internal/catalog"
	"github.com/angelmondragon/storefront-catalog/pkg/logger"
	"github.com/angelmondragon/storefront-catalog/pkg/pagination"
	pkgredis "github.com/angelmondragon/storefront-catalog/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTTL         = 5 * time.Minute
	defaultLoadTimeout = 30 * time.Second
)

// Store is the cache surface; *redis.Client satisfies it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ProductKey(productID string) string
	PageKey(page, limit int) string
}

// Options configures a Source.
type Options struct {
	TTL time.Duration
	// LoadTimeout bounds a shared load from the wrapped source.
	LoadTimeout time.Duration
	Logger      *logger.Logger
}

// Source serves product documents and listing pages from the cache, loading
// misses from the wrapped source. Concurrent misses for the same key share
// one load that no single caller's cancellation can abort. Cache failures
// never fail a request.
type Source struct {
	next        catalog.Source
	store       Store
	ttl         time.Duration
	loadTimeout time.Duration
	logg        *logger.Logger
	group       singleflight.Group
}

var _ catalog.Source = (*Source)(nil)

// New wraps next with the cache.
func New(next catalog.Source, store Store, opts Options) *Source {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	loadTimeout := opts.LoadTimeout
	if loadTimeout <= 0 {
		loadTimeout = defaultLoadTimeout
	}
	return &Source{next: next, store: store, ttl: ttl, loadTimeout: loadTimeout, logg: opts.Logger}
}

// FetchProduct returns the cached document or loads it from the wrapped source.
func (s *Source) FetchProduct(ctx context.Context, productID string) (*catalog.RawCatalogPayload, error) {
	key := s.store.ProductKey(productID)
	if cached, ok := s.lookup(ctx, key); ok {
		payload, err := catalog.DecodePayload(cached)
		if err == nil {
			return payload, nil
		}
		s.discard(ctx, key, err)
	}

	value, err := s.load(ctx, key, func(loadCtx context.Context) (any, error) {
		payload, err := s.next.FetchProduct(loadCtx, productID)
		if err != nil {
			return nil, err
		}
		if encoded, err := json.Marshal(payload); err == nil {
			s.save(loadCtx, key, encoded)
		} else {
			s.warn(loadCtx, key, "catalogcache.encode_failed", err)
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*catalog.RawCatalogPayload), nil
}

// ListProducts returns the cached page or loads it from the wrapped source.
func (s *Source) ListProducts(ctx context.Context, page pagination.Params) ([]json.RawMessage, error) {
	page = pagination.Normalize(page)
	key := s.store.PageKey(page.Page, page.Limit)
	if cached, ok := s.lookup(ctx, key); ok {
		var items []json.RawMessage
		err := json.Unmarshal(cached, &items)
		if err == nil {
			return items, nil
		}
		s.discard(ctx, key, err)
	}

	value, err := s.load(ctx, key, func(loadCtx context.Context) (any, error) {
		items, err := s.next.ListProducts(loadCtx, page)
		if err != nil {
			return nil, err
		}
		if encoded, err := json.Marshal(items); err == nil {
			s.save(loadCtx, key, encoded)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]json.RawMessage), nil
}

// Invalidate drops the cached document of one product. Cached pages expire by TTL.
func (s *Source) Invalidate(ctx context.Context, productID string) error {
	if err := s.store.Del(ctx, s.store.ProductKey(productID)); err != nil {
		return fmt.Errorf("invalidate product %s: %w", productID, err)
	}
	return nil
}

// load runs fn once per key for all concurrent callers. fn gets a context
// detached from the caller that started it, bounded by the load timeout; each
// caller stops waiting when its own context ends.
func (s *Source) load(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		return fn(loadCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Source) lookup(ctx context.Context, key string) ([]byte, bool) {
	cached, err := s.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsMiss(err) {
			s.warn(ctx, key, "catalogcache.read_failed", err)
		}
		return nil, false
	}
	return cached, true
}

func (s *Source) save(ctx context.Context, key string, value []byte) {
	if err := s.store.Set(ctx, key, value, s.ttl); err != nil {
		s.warn(ctx, key, "catalogcache.write_failed", err)
	}
}

func (s *Source) discard(ctx context.Context, key string, cause error) {
	s.warn(ctx, key, "catalogcache.corrupt_entry", cause)
	if err := s.store.Del(ctx, key); err != nil {
		s.warn(ctx, key, "catalogcache.delete_failed", err)
	}
}

func (s *Source) warn(ctx context.Context, key, msg string, err error) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"cache_key": key,
		"error":     err.Error(),
	})
	s.logg.Warn(ctx, msg)
}
