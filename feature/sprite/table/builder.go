package table

import (
	"strings"

	"sprite-index/core/utils"
	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/rules"

	"go.uber.org/zap"
)

const (
	defaultSegment = "_00_"
	femaleSegment  = "_01_"
)

type defaultForm struct {
	bundle models.BundleKey
	form   int
}

// Builder is the mutable arena the suffix table is folded in. It is used
// once: Build freezes its content into a Table.
type Builder struct {
	entries    map[string]*models.Entry
	order      []string
	defaults   map[int]defaultForm
	evolutions map[int][]int
	rules      *rules.Rules
	logger     *zap.Logger
	diag       *models.Diagnostics
}

// NewBuilder creates an empty builder. Call Seed before folding variants so
// hand-authored fallbacks take precedence.
func NewBuilder(r *rules.Rules, logger *zap.Logger, diag *models.Diagnostics) *Builder {
	if r == nil {
		r = &rules.Rules{}
	}
	return &Builder{
		entries:    make(map[string]*models.Entry),
		defaults:   make(map[int]defaultForm),
		evolutions: make(map[int][]int),
		rules:      r,
		logger:     logger,
		diag:       diag,
	}
}

// Seed inserts hand-authored entries as-is, plus the placeholder entry when
// the rules name one. Seeded entries replace earlier seeds with the same key.
func (b *Builder) Seed(entries ...models.Entry) {
	if b.rules.Placeholder != "" {
		if _, ok := b.entries[b.rules.Placeholder]; !ok {
			b.insert(&models.Entry{
				Key:     b.rules.Placeholder,
				Targets: []models.Target{{Identity: models.Identity{CreatureID: 0}}},
			})
		}
	}
	for _, e := range entries {
		e := e.Clone()
		if _, ok := b.entries[e.Key]; ok {
			b.entries[e.Key] = &e
			continue
		}
		b.insert(&e)
	}
}

// AddAll folds variants in order.
func (b *Builder) AddAll(variants []models.Variant) {
	for _, v := range variants {
		b.Add(v)
	}
}

// Add folds one normalized variant into the table.
func (b *Builder) Add(v models.Variant) {
	id := models.Identity{CreatureID: v.CreatureID}

	switch v.Axis {
	case models.AxisForm:
		def, seen := b.defaults[v.CreatureID]
		if seen && def.bundle.Equal(v.Bundle) {
			// the client falls back to the default asset automatically
			return
		}
		if !seen {
			// the game uses the first form for Pokedex images
			b.defaults[v.CreatureID] = defaultForm{bundle: v.Bundle, form: v.ID}
		} else {
			id.Form = v.ID
		}
	case models.AxisEvolution:
		id.Evolution = v.ID
		b.evolutions[v.CreatureID] = append(b.evolutions[v.CreatureID], v.ID)
	}

	key, femaleKey, synthesize := DeriveKey(v.CreatureID, v.Bundle)
	if synthesize && !b.rules.IsFemaleExcluded(v.CreatureID) {
		b.push(femaleKey, models.Target{
			Identity:    id.WithGender(models.GenderFemale),
			Synthesized: true,
			BaseKey:     key,
		})
	}
	b.push(key, models.Target{Identity: id})
}

// DeriveKey maps a bundle to its table key. For default bundles it also
// returns the sibling key that receives the synthesized female alias.
func DeriveKey(creatureID int, bundle models.BundleKey) (key, femaleKey string, synthesize bool) {
	if bundle.IsNumbered() {
		prefix := utils.PadInt(creatureID, 3) + "_"
		key = prefix + utils.PadInt(bundle.Value(), 2)
		if bundle.Value() == 0 {
			return key, prefix + "01", true
		}
		return key, "", false
	}
	key = bundle.Name()
	if strings.Contains(key, defaultSegment) {
		return key, strings.Replace(key, defaultSegment, femaleSegment, 1), true
	}
	return key, "", false
}

func (b *Builder) push(key string, target models.Target) {
	e, ok := b.entries[key]
	if ok && e.Override {
		b.logger.Warn("Found key in the game master, fallback rule will be deactivated", zap.String("key", key))
		b.diag.Add(models.DiagOverrideIgnored, key, "fallback entry kept")
		e.Override = false
		return
	}
	if !ok {
		e = &models.Entry{Key: key, FemaleDefault: true}
		b.insert(e)
	} else if len(e.Targets) > 0 {
		b.logger.Debug("Multiple targets found for asset", zap.String("key", key))
	}
	e.Targets = append(e.Targets, target)
	if !target.Synthesized {
		e.FemaleDefault = false
	}
}

func (b *Builder) insert(e *models.Entry) {
	b.entries[e.Key] = e
	b.order = append(b.order, e.Key)
}

// Build removes deny-listed keys, validates the table and freezes it. The
// returned error wraps ErrPrefixCollision when two keys are ambiguous.
func (b *Builder) Build() (*Table, error) {
	for _, key := range b.rules.DenyKeys {
		if _, ok := b.entries[key]; ok {
			delete(b.entries, key)
		}
	}
	order := make([]string, 0, len(b.entries))
	for _, key := range b.order {
		if _, ok := b.entries[key]; ok {
			order = append(order, key)
		}
	}

	if err := Validate(order); err != nil {
		return nil, err
	}

	entries := make(map[string]models.Entry, len(b.entries))
	for key, e := range b.entries {
		entries[key] = e.Clone()
	}
	defaults := make(map[int]int, len(b.defaults))
	for creature, d := range b.defaults {
		defaults[creature] = d.form
	}
	evolutions := make(map[int][]int, len(b.evolutions))
	for creature, evos := range b.evolutions {
		evolutions[creature] = append([]int(nil), evos...)
	}
	return newTable(order, entries, defaults, evolutions), nil
}
