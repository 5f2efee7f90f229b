package reconcile

import (
	"context"

	"sprite-index/core/storage"
)

// Adapter defines the interface for model-specific reconciliation logic.
// Each adapter implements how to load and index one kind of published asset.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "sprites").
	Name() string

	// LoadIndex returns the entities that should be published, keyed by entity key.
	LoadIndex(ctx context.Context) (map[string]Item, error)

	// LoadLocal returns the entities available locally, keyed by entity key.
	LoadLocal(ctx context.Context) (map[string]Item, error)

	// LoadStorage lists all storage objects under the given prefix, filtered by
	// extension, and returns them keyed by entity key. Implementations should
	// use paginated listing and avoid per-item HEAD calls.
	LoadStorage(ctx context.Context, client storage.Client, bucket, prefix, extension string) (map[string]Item, error)
}

// Mutator is implemented by adapters that can execute planned actions.
type Mutator interface {
	// Upload publishes the local copy of key.
	Upload(ctx context.Context, key string) error

	// DeleteStorage removes key from storage.
	DeleteStorage(ctx context.Context, key string) error
}

// StorageBatchDeleter is implemented by mutators that delete many objects in
// one request.
type StorageBatchDeleter interface {
	DeleteStorageBatch(ctx context.Context, keys []string) error
}
