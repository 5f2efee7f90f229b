package table

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/rules"

	"go.uber.org/zap"
)

// ErrPrefixCollision is the fatal integrity violation: an asset name could
// match two entries.
var ErrPrefixCollision = errors.New("illegal key combination")

// CollisionError names the two colliding keys.
type CollisionError struct {
	Prefix string
	Key    string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: %q is a prefix of %q", ErrPrefixCollision, e.Prefix, e.Key)
}

func (e *CollisionError) Unwrap() error { return ErrPrefixCollision }

// Validate fails when one key is a strict prefix of another. After sorting,
// every key prefixed by k directly follows k, so adjacent pairs suffice.
func Validate(keys []string) error {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	for i := 0; i+1 < len(sorted); i++ {
		a, b := sorted[i], sorted[i+1]
		if a != b && strings.HasPrefix(b, a) {
			return &CollisionError{Prefix: a, Key: b}
		}
	}
	return nil
}

// Audit reports entries that were configured but never observed. Entries
// only holding synthesized female aliases are expected to be unobserved.
// Known-missing keys are kept out of the warning; when one of them shows up,
// or is no longer in the table at all, an informational notice is logged
// instead.
func Audit(t *Table, hits *Hits, r *rules.Rules, logger *zap.Logger, diag *models.Diagnostics) models.AuditReport {
	var report models.AuditReport
	for _, key := range t.order {
		e := t.entries[key]
		hit := hits.Has(key)
		if r != nil && r.IsKnownMissing(key) {
			if hit {
				report.NowPresent = append(report.NowPresent, key)
				logger.Info("Asset for known-missing key has been added", zap.String("key", key))
			} else if !e.FemaleDefault {
				report.StillMissing = append(report.StillMissing, key)
			}
			continue
		}
		if !hit && !e.FemaleDefault {
			report.NeverObserved = append(report.NeverObserved, key)
			logger.Warn("Found form/temporary evolution with no matching assets",
				zap.String("key", key), zap.Int("targets", len(e.Targets)))
			diag.Add(models.DiagNeverObserved, key, "")
		}
	}
	if r == nil {
		return report
	}
	// a known-missing key that left the table is no longer missing either
	for _, key := range r.KnownMissing {
		if _, ok := t.entries[key]; ok {
			continue
		}
		report.NowPresent = append(report.NowPresent, key)
		logger.Info("Asset for known-missing key has been added", zap.String("key", key))
	}
	return report
}
