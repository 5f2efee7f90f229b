// Package reconcile compares three views of a published asset set: the
// index that says what should exist, the local output directory that holds
// the files, and the storage bucket that serves them.
//
// The reconcile system keeps every source in memory while comparing:
//   - Indices are loaded concurrently (index, local, storage)
//   - Storage is listed in one paginated pass with no per-item HEAD calls
//   - A TTL cache with stampede protection serves targeted lookups
//   - Adapters supply the model-specific loading and mutation logic
//
// # Planning and applying
//
// ReconcileWithPlan turns the comparison into actions. Indexed entities that
// are missing in storage, or whose stored size differs from the local file,
// are uploaded when DoUpload is set. Storage objects that are not indexed are
// deleted when DoPurge is set. ApplyPlan executes nothing unless the options
// are Confirmed and not a DryRun.
//
// # Usage Example
//
//	spec := &reconcile.Spec{
//	    Adapter:          publish.NewAdapter(client, bucket, opts),
//	    CacheTTL:         time.Minute,
//	    StoragePrefix:    "sprites/",
//	    StorageExtension: ".png",
//	}
//	plan, executed, err := reconcile.ReconcileAndApply(ctx, spec, client, bucket, opts)
package reconcile
