package reconcile

import (
	"context"
	"sync"
	"time"

	"sprite-index/core/storage"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ReconcileCache holds pre-built indices for fast targeted reconciliation.
type ReconcileCache struct {
	// Index is the set of entities that should be published.
	Index map[string]Item

	// Local is the set of entities available locally.
	Local map[string]Item

	// Storage is the set of entities present in storage.
	Storage map[string]Item

	// Built is the timestamp when this cache was built.
	Built time.Time

	// TTL is the time-to-live for this cache.
	TTL time.Duration
}

// IsExpired returns true if this cache has expired based on its TTL.
func (c *ReconcileCache) IsExpired() bool {
	if c.TTL == 0 {
		return true // No caching
	}
	return time.Since(c.Built) > c.TTL
}

// cacheStore holds all reconcile caches keyed by spec cache key.
type cacheStore struct {
	mu     sync.RWMutex
	caches map[string]*ReconcileCache
	sf     singleflight.Group
}

// globalCacheStore is the singleton cache store for all reconcile operations.
var globalCacheStore = &cacheStore{
	caches: make(map[string]*ReconcileCache),
}

// BuildCache builds a new cache for the given spec by loading all indices
// concurrently. This function does NOT store the cache; use GetOrBuildCache
// for that.
func BuildCache(ctx context.Context, spec *Spec, client storage.Client, bucket string) (*ReconcileCache, error) {
	var index, local, stored map[string]Item

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		index, err = spec.Adapter.LoadIndex(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		local, err = spec.Adapter.LoadLocal(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stored, err = spec.Adapter.LoadStorage(gctx, client, bucket, spec.StoragePrefix, spec.StorageExtension)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ReconcileCache{
		Index:   index,
		Local:   local,
		Storage: stored,
		Built:   time.Now(),
		TTL:     spec.CacheTTL,
	}, nil
}

// GetOrBuildCache retrieves a cache for the given spec from the store,
// or builds a new one if it doesn't exist or has expired.
// Uses singleflight to prevent cache stampedes.
func GetOrBuildCache(ctx context.Context, spec *Spec, client storage.Client, bucket string) (*ReconcileCache, error) {
	cacheKey := spec.CacheKey()

	// Fast path: check if cache exists and is fresh
	globalCacheStore.mu.RLock()
	cache, exists := globalCacheStore.caches[cacheKey]
	globalCacheStore.mu.RUnlock()

	if exists && !cache.IsExpired() {
		return cache, nil
	}

	// Slow path: build cache using singleflight to prevent stampedes
	result, err, _ := globalCacheStore.sf.Do(cacheKey, func() (interface{}, error) {
		globalCacheStore.mu.RLock()
		cache, exists := globalCacheStore.caches[cacheKey]
		globalCacheStore.mu.RUnlock()

		if exists && !cache.IsExpired() {
			return cache, nil
		}

		newCache, err := BuildCache(ctx, spec, client, bucket)
		if err != nil {
			return nil, err
		}

		globalCacheStore.mu.Lock()
		globalCacheStore.caches[cacheKey] = newCache
		globalCacheStore.mu.Unlock()

		return newCache, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*ReconcileCache), nil
}

// InvalidateCache removes the cache for the given spec from the store.
// ApplyPlan calls it after mutating storage.
func InvalidateCache(spec *Spec) {
	cacheKey := spec.CacheKey()
	globalCacheStore.mu.Lock()
	delete(globalCacheStore.caches, cacheKey)
	globalCacheStore.mu.Unlock()
}
