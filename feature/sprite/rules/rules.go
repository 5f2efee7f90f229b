package rules

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/symbols"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultRules []byte

// Override is a hand-authored entry seeded before configuration folding.
type Override struct {
	Key       string `yaml:"key"`
	Creature  int    `yaml:"creature"`
	Form      string `yaml:"form,omitempty"`
	Evolution string `yaml:"evolution,omitempty"`
	Gender    int    `yaml:"gender,omitempty"`
}

// OldAsset names the identity a superseded legacy asset still renders.
type OldAsset struct {
	Creature  int    `yaml:"creature"`
	Form      string `yaml:"form,omitempty"`
	Evolution string `yaml:"evolution,omitempty"`
}

// Rules is the rule data that corrects or complements the game master. It
// is kept outside the algorithm so historical snapshots can be corrected
// without code changes.
type Rules struct {
	Placeholder      string           `yaml:"placeholder"`
	Overrides        []Override       `yaml:"overrides"`
	DenyKeys         []string         `yaml:"deny_keys"`
	KnownMissing     []string         `yaml:"known_missing"`
	FemaleExclusions []int            `yaml:"female_exclusions"`
	OldAssets        []OldAsset       `yaml:"old_assets"`
	ExtraForms       map[int][]string `yaml:"extra_forms"`
	ExtraEvolutions  map[int][]string `yaml:"extra_evolutions"`
}

// Default returns the embedded rule set.
func Default() *Rules {
	r, err := Load(bytes.NewReader(defaultRules))
	if err != nil {
		panic(fmt.Sprintf("embedded rules are invalid: %v", err))
	}
	return r
}

// Load parses a rules document.
func Load(r io.Reader) (*Rules, error) {
	var out Rules
	if err := yaml.NewDecoder(r).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}
	return &out, nil
}

// LoadFile loads rules from path, or the embedded defaults when path is empty.
func LoadFile(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// IsFemaleExcluded reports whether female synthesis is skipped for a creature.
func (r *Rules) IsFemaleExcluded(creatureID int) bool {
	return slices.Contains(r.FemaleExclusions, creatureID)
}

// IsKnownMissing reports whether a key's asset is known to be absent.
func (r *Rules) IsKnownMissing(key string) bool {
	return slices.Contains(r.KnownMissing, key)
}

// ResolveOverrides turns the override list into table entries. Overrides
// whose names do not resolve are skipped and reported in the joined error.
func (r *Rules) ResolveOverrides(sym symbols.Table) ([]models.Entry, error) {
	var entries []models.Entry
	var errs []error
	for _, o := range r.Overrides {
		id, err := resolveIdentity(sym, o.Creature, o.Form, o.Evolution)
		if err != nil {
			errs = append(errs, fmt.Errorf("override %s: %w", o.Key, err))
			continue
		}
		id.Gender = models.Gender(o.Gender)
		entries = append(entries, models.Entry{
			Key:      o.Key,
			Targets:  []models.Target{{Identity: id}},
			Override: true,
		})
	}
	return entries, errors.Join(errs...)
}

// ResolveOldAssets maps creature ids to the identity their superseded
// legacy asset renders.
func (r *Rules) ResolveOldAssets(sym symbols.Table) (map[int]models.Identity, error) {
	out := make(map[int]models.Identity, len(r.OldAssets))
	var errs []error
	for _, o := range r.OldAssets {
		id, err := resolveIdentity(sym, o.Creature, o.Form, o.Evolution)
		if err != nil {
			errs = append(errs, fmt.Errorf("old asset %d: %w", o.Creature, err))
			continue
		}
		out[o.Creature] = id
	}
	return out, errors.Join(errs...)
}

func resolveIdentity(sym symbols.Table, creature int, form, evolution string) (models.Identity, error) {
	id := models.Identity{CreatureID: creature}
	if form != "" {
		v, ok := sym.ResolveGlobalForm(form)
		if !ok {
			return id, fmt.Errorf("unknown form %s", form)
		}
		id.Form = v
	}
	if evolution != "" {
		v, ok := sym.ResolveEvolution(evolution)
		if !ok {
			return id, fmt.Errorf("unknown evolution %s", evolution)
		}
		id.Evolution = v
	}
	return id, nil
}
