package reconcile

import "time"

// Item is one entity as seen by a single source.
type Item struct {
	// Key is the unique identifier of the entity across sources.
	Key string `json:"key"`

	// Size is the content size in bytes, or -1 when the source does not know it.
	Size int64 `json:"size"`
}

// ReconcileResult represents the reconciliation output for a single entity.
// It contains presence flags for each source and any detected mismatches.
type ReconcileResult struct {
	// ID is the unique identifier for the entity.
	ID string `json:"id"`

	// IndexPresent indicates whether the entity is listed in the index.
	IndexPresent bool `json:"index_present"`

	// LocalPresent indicates whether the entity exists in the local output.
	LocalPresent bool `json:"local_present"`

	// StoragePresent indicates whether the entity exists in storage.
	StoragePresent bool `json:"storage_present"`

	// Mismatch contains descriptions of differences between the local and
	// the stored copy, e.g. "size: local=120 storage=98".
	Mismatch []string `json:"mismatch"`
}

// Spec defines the configuration for a reconciliation operation.
// It bundles the adapter, cache settings, and storage parameters.
type Spec struct {
	// Adapter provides model-specific reconciliation logic.
	Adapter Adapter

	// CacheTTL is the time-to-live for cached indices.
	// If zero, caching is disabled.
	CacheTTL time.Duration

	// StoragePrefix is the prefix under which to list storage objects.
	StoragePrefix string

	// StorageExtension is the file extension to filter storage objects.
	StorageExtension string

	// Workers bounds the number of concurrent mutations in ApplyPlan.
	Workers int
}

// CacheKey returns a unique key for caching based on spec parameters.
// This ensures different models/configs don't share the same cache.
func (s *Spec) CacheKey() string {
	return s.Adapter.Name() + "|" + s.StoragePrefix + "|" + s.StorageExtension
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionUpload uploads the local copy of an entity to storage.
	ActionUpload ActionType = "upload"
	// ActionDeleteStorage deletes an entity from storage.
	ActionDeleteStorage ActionType = "delete_storage"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the entity identifier.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// ReconcilePlan contains reconciliation results and planned actions.
type ReconcilePlan struct {
	// Results contains per-entity reconciliation data.
	Results []ReconcileResult `json:"results"`

	// Actions contains planned mutation operations.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// TotalItems is the total number of unique entities.
	TotalItems int `json:"total_items"`

	// MissingLocal counts indexed entities without a local file.
	MissingLocal int `json:"missing_local"`

	// MissingStorage counts indexed entities missing in storage.
	MissingStorage int `json:"missing_storage"`

	// Orphans counts storage objects that are not indexed.
	Orphans int `json:"orphans"`

	// Mismatches counts entities whose local and stored copies differ.
	Mismatches int `json:"mismatches"`

	// UploadActions counts planned upload actions.
	UploadActions int `json:"upload_actions"`

	// PurgeActions counts planned purge (delete) actions.
	PurgeActions int `json:"purge_actions"`
}

// ReconcileOptions controls reconcile behavior for upload/purge operations.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// DoUpload enables uploading missing or changed entities.
	DoUpload bool

	// DoPurge enables deletion of storage objects that are not indexed.
	DoPurge bool

	// Confirmed indicates user has confirmed destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}
