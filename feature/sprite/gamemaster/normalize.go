package gamemaster

import (
	"strings"

	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/symbols"

	"go.uber.org/zap"
)

// battle states that never get their own sprite
var skippedSuffixes = []string{"_SHADOW", "_PURIFIED"}

const evolutionToken = "TEMP_EVOLUTION_"

// Normalizer turns decoded records into (identity-partial, bundle) pairs.
type Normalizer struct {
	symbols symbols.Table
	logger  *zap.Logger
	diag    *models.Diagnostics
}

// NewNormalizer creates a normalizer resolving names through sym.
func NewNormalizer(sym symbols.Table, logger *zap.Logger, diag *models.Diagnostics) *Normalizer {
	return &Normalizer{symbols: sym, logger: logger, diag: diag}
}

// NormalizeAll normalizes records in order.
func (n *Normalizer) NormalizeAll(records []models.Record) []models.Variant {
	var out []models.Variant
	for _, r := range records {
		out = append(out, n.Normalize(r)...)
	}
	return out
}

// Normalize produces zero or more variants for one record. A record without
// any list yields a single synthesized default named <CREATURE>_NORMAL.
func (n *Normalizer) Normalize(r models.Record) []models.Variant {
	entries, listed := r.Variants()
	if !listed {
		name := r.CreatureName() + "_NORMAL"
		id, _ := n.symbols.ResolveForm(r.Creature(), name)
		return []models.Variant{{
			CreatureID:  r.Creature(),
			Axis:        models.AxisForm,
			Name:        name,
			ID:          id,
			Bundle:      models.Numbered(0),
			Synthesized: true,
		}}
	}

	out := make([]models.Variant, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" || isSkipped(e.Name) {
			continue
		}
		id, ok := n.computeVariantID(r.Creature(), r.Axis(), e.Name)
		if !ok {
			n.logger.Warn("Unrecognized variant",
				zap.String("axis", r.Axis().String()),
				zap.String("name", e.Name),
				zap.Int("creature", r.Creature()))
			n.diag.Add(models.DiagUnrecognizedConfig, e.Name, r.Axis().String())
			continue
		}
		bundle := models.Numbered(0)
		if e.Bundle != nil {
			bundle = *e.Bundle
		}
		out = append(out, models.Variant{
			CreatureID: r.Creature(),
			Axis:       r.Axis(),
			Name:       e.Name,
			ID:         id,
			Bundle:     bundle,
		})
	}
	return out
}

func (n *Normalizer) computeVariantID(creatureID int, axis models.Axis, name string) (int, bool) {
	if axis == models.AxisEvolution {
		// <RANDOMIZED_NAME>_TEMP_EVOLUTION_<NAME> => TEMP_EVOLUTION_<NAME>
		if i := strings.Index(name, evolutionToken); i > 0 {
			name = name[i:]
		}
		return n.symbols.ResolveEvolution(name)
	}
	return n.symbols.ResolveForm(creatureID, name)
}

func isSkipped(name string) bool {
	for _, s := range skippedSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
