package reconcile

import (
	"context"
	"fmt"
	"sync"

	"sprite-index/core/storage"

	"golang.org/x/sync/errgroup"
)

// ReconcileWithPlan performs reconciliation and returns a plan with results and actions.
// It does NOT execute actions; use ApplyPlan for that.
func ReconcileWithPlan(
	ctx context.Context,
	spec *Spec,
	client storage.Client,
	bucket string,
	opts ReconcileOptions,
) (*ReconcilePlan, error) {
	cache, err := GetOrBuildCache(ctx, spec, client, bucket)
	if err != nil {
		return nil, err
	}

	results := reconcileFromCache(cache)
	summary, actions := buildPlanFromResults(results, opts)

	return &ReconcilePlan{
		Results: results,
		Actions: actions,
		Summary: summary,
	}, nil
}

// ApplyPlan executes the actions in a reconcile plan.
// Returns the number of actions executed and any error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func ApplyPlan(ctx context.Context, spec *Spec, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return 0, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}
	defer InvalidateCache(spec)

	var uploads, deletes []string
	for _, action := range plan.Actions {
		switch action.Type {
		case ActionUpload:
			uploads = append(uploads, action.Key)
		case ActionDeleteStorage:
			deletes = append(deletes, action.Key)
		}
	}

	if len(deletes) > 0 {
		if batchDeleter, ok := mutator.(StorageBatchDeleter); ok {
			if err := batchDeleter.DeleteStorageBatch(ctx, deletes); err != nil {
				return executed, fmt.Errorf("failed to batch delete storage keys: %w", err)
			}
			executed += len(deletes)
		} else {
			// Fallback to one-at-a-time
			for _, key := range deletes {
				if err := mutator.DeleteStorage(ctx, key); err != nil {
					return executed, fmt.Errorf("failed to delete storage key %s: %w", key, err)
				}
				executed++
			}
		}
	}

	if len(uploads) == 0 {
		return executed, nil
	}

	workers := spec.Workers
	if workers <= 0 {
		workers = 1
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, key := range uploads {
		key := key
		g.Go(func() error {
			if err := mutator.Upload(gctx, key); err != nil {
				return fmt.Errorf("failed to upload %s: %w", key, err)
			}
			mu.Lock()
			executed++
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	return executed, err
}

// ReconcileAndApply is a convenience wrapper that plans and optionally applies actions.
// It returns the plan, number of actions executed, and any error.
func ReconcileAndApply(
	ctx context.Context,
	spec *Spec,
	client storage.Client,
	bucket string,
	opts ReconcileOptions,
) (*ReconcilePlan, int, error) {
	plan, err := ReconcileWithPlan(ctx, spec, client, bucket, opts)
	if err != nil {
		return nil, 0, err
	}

	executed, err := ApplyPlan(ctx, spec, plan, opts)
	return plan, executed, err
}

// buildPlanFromResults generates a summary and action plan from reconciliation results.
func buildPlanFromResults(results []ReconcileResult, opts ReconcileOptions) (PlanSummary, []Action) {
	var summary PlanSummary
	var actions []Action

	summary.TotalItems = len(results)

	for _, result := range results {
		if result.IndexPresent && !result.LocalPresent {
			summary.MissingLocal++
		}
		if result.IndexPresent && !result.StoragePresent {
			summary.MissingStorage++
		}
		if result.StoragePresent && !result.IndexPresent {
			summary.Orphans++
		}
		if len(result.Mismatch) > 0 {
			summary.Mismatches++
		}

		// Unindexed objects are purged, never re-uploaded
		if !result.IndexPresent {
			if opts.DoPurge && result.StoragePresent {
				actions = append(actions, Action{
					Type:   ActionDeleteStorage,
					Key:    result.ID,
					Reason: "not in index",
				})
				summary.PurgeActions++
			}
			continue
		}

		// An indexed entity without a local copy cannot be uploaded
		if !opts.DoUpload || !result.LocalPresent {
			continue
		}
		switch {
		case !result.StoragePresent:
			actions = append(actions, Action{Type: ActionUpload, Key: result.ID, Reason: "missing in storage"})
			summary.UploadActions++
		case len(result.Mismatch) > 0:
			actions = append(actions, Action{Type: ActionUpload, Key: result.ID, Reason: fmt.Sprintf("mismatch: %v", result.Mismatch)})
			summary.UploadActions++
		}
	}

	return summary, actions
}
