package reconcile

import (
	"context"
	"fmt"
	"sort"

	"sprite-index/core/storage"
)

// ReconcileAll performs a full reconciliation across all entities.
// It builds indices from all three sources, computes the union of keys,
// and returns a result for each key sorted by key.
func ReconcileAll(ctx context.Context, spec *Spec, client storage.Client, bucket string) ([]ReconcileResult, error) {
	cache, err := BuildCache(ctx, spec, client, bucket)
	if err != nil {
		return nil, err
	}
	return reconcileFromCache(cache), nil
}

// ReconcileOne reconciles a single key against the cached indices.
// A key unknown to every source yields a result with all flags false.
func ReconcileOne(ctx context.Context, spec *Spec, client storage.Client, bucket, key string) (*ReconcileResult, error) {
	cache, err := GetOrBuildCache(ctx, spec, client, bucket)
	if err != nil {
		return nil, err
	}
	result := buildResult(key, cache)
	return &result, nil
}

// reconcileFromCache builds sorted results from a cache.
func reconcileFromCache(cache *ReconcileCache) []ReconcileResult {
	union := make(map[string]struct{}, len(cache.Index)+len(cache.Storage))
	for _, set := range []map[string]Item{cache.Index, cache.Local, cache.Storage} {
		for key := range set {
			union[key] = struct{}{}
		}
	}

	results := make([]ReconcileResult, 0, len(union))
	for key := range union {
		results = append(results, buildResult(key, cache))
	}

	// Sort results by key for deterministic output
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results
}

// buildResult creates a ReconcileResult for a single key.
func buildResult(key string, cache *ReconcileCache) ReconcileResult {
	_, indexed := cache.Index[key]
	local, localPresent := cache.Local[key]
	stored, storagePresent := cache.Storage[key]

	result := ReconcileResult{
		ID:             key,
		IndexPresent:   indexed,
		LocalPresent:   localPresent,
		StoragePresent: storagePresent,
		Mismatch:       []string{},
	}

	if localPresent && storagePresent && local.Size >= 0 && stored.Size >= 0 && local.Size != stored.Size {
		result.Mismatch = append(result.Mismatch,
			fmt.Sprintf("size: local=%d storage=%d", local.Size, stored.Size))
	}
	return result
}
