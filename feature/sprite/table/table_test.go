package table

import (
	"bytes"
	"errors"
	"testing"

	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func form(creature, id int, bundle models.BundleKey) models.Variant {
	return models.Variant{CreatureID: creature, Axis: models.AxisForm, ID: id, Bundle: bundle}
}

func evolution(creature, id int, bundle models.BundleKey) models.Variant {
	return models.Variant{CreatureID: creature, Axis: models.AxisEvolution, ID: id, Bundle: bundle}
}

func build(t *testing.T, r *rules.Rules, seeds []models.Entry, variants ...models.Variant) (*Table, *models.Diagnostics) {
	t.Helper()
	diag := &models.Diagnostics{}
	b := NewBuilder(r, zap.NewNop(), diag)
	b.Seed(seeds...)
	b.AddAll(variants)
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl, diag
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		wantErr bool
	}{
		{"Disjoint", []string{"000", "001_00", "001_01", "019_61"}, false},
		{"Prefix", []string{"065", "065_51"}, true},
		{"PrefixUnsorted", []string{"201_11", "019_00", "201"}, true},
		{"Empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.keys)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrPrefixCollision)
		})
	}
}

func TestBuild_PrefixCollisionIsFatal(t *testing.T) {
	b := NewBuilder(&rules.Rules{}, zap.NewNop(), nil)
	b.Seed(
		models.Entry{Key: "065", Targets: []models.Target{{Identity: models.Identity{CreatureID: 65}}}},
		models.Entry{Key: "065_51", Targets: []models.Target{{Identity: models.Identity{CreatureID: 65, Evolution: 1}}}, Override: true},
	)

	tbl, err := b.Build()
	assert.Nil(t, tbl)
	require.Error(t, err)

	var collision *CollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, "065", collision.Prefix)
	assert.Equal(t, "065_51", collision.Key)
}

func TestBuild_DefaultSuppression(t *testing.T) {
	tbl, _ := build(t, &rules.Rules{}, nil,
		form(19, 45, models.Numbered(0)),
		form(19, 46, models.Numbered(3)),
	)

	base, ok := tbl.Entry("019_00")
	require.True(t, ok)
	require.Len(t, base.Targets, 1)
	assert.Equal(t, 0, base.Targets[0].Form)

	alt, ok := tbl.Entry("019_03")
	require.True(t, ok)
	require.Len(t, alt.Targets, 1)
	assert.Equal(t, 46, alt.Targets[0].Form)

	def, ok := tbl.DefaultForm(19)
	assert.True(t, ok)
	assert.Equal(t, 45, def)
}

func TestBuild_DefaultAliasSkipped(t *testing.T) {
	tbl, _ := build(t, &rules.Rules{}, nil,
		form(351, 29, models.Numbered(11)),
		form(351, 30, models.Numbered(11)),
		form(351, 31, models.Numbered(12)),
	)

	e, ok := tbl.Entry("351_11")
	require.True(t, ok)
	assert.Len(t, e.Targets, 1)
	assert.Equal(t, []string{"351_11", "351_12"}, tbl.Keys())
}

func TestBuild_EvolutionNeverSuppressed(t *testing.T) {
	tbl, _ := build(t, &rules.Rules{}, nil,
		form(3, 169, models.Numbered(0)),
		evolution(3, 1, models.Numbered(51)),
	)

	e, ok := tbl.Entry("003_51")
	require.True(t, ok)
	assert.Equal(t, models.Identity{CreatureID: 3, Evolution: 1}, e.Targets[0].Identity)
	assert.True(t, tbl.HasEvolution(3, 1))
	assert.False(t, tbl.HasEvolution(3, 2))
}

func TestBuild_FemaleSynthesis(t *testing.T) {
	tbl, _ := build(t, &rules.Rules{}, nil, form(25, 598, models.Numbered(0)))

	base, ok := tbl.Entry("025_00")
	require.True(t, ok)
	assert.False(t, base.FemaleDefault)

	female, ok := tbl.Entry("025_01")
	require.True(t, ok)
	require.Len(t, female.Targets, 1)
	assert.True(t, female.FemaleDefault)

	got := female.Targets[0]
	assert.True(t, got.Synthesized)
	assert.Equal(t, "025_00", got.BaseKey)
	assert.Equal(t, models.GenderFemale, got.Gender)

	want := base.Targets[0].Identity
	want.Gender = models.GenderFemale
	assert.Equal(t, want, got.Identity)
}

func TestBuild_FemaleSynthesisNamedSuffix(t *testing.T) {
	tbl, _ := build(t, &rules.Rules{}, nil,
		form(25, 598, models.Numbered(0)),
		form(25, 2668, models.Named("pm0025_00_pgo_copy2019")),
	)

	female, ok := tbl.Entry("pm0025_01_pgo_copy2019")
	require.True(t, ok)
	assert.Equal(t, models.Identity{CreatureID: 25, Form: 2668, Gender: models.GenderFemale}, female.Targets[0].Identity)
}

func TestBuild_FemaleExclusion(t *testing.T) {
	tbl, _ := build(t, &rules.Rules{FemaleExclusions: []int{592}}, nil, form(592, 2330, models.Numbered(0)))

	_, ok := tbl.Entry("592_01")
	assert.False(t, ok)
	_, ok = tbl.Entry("592_00")
	assert.True(t, ok)
}

func TestBuild_FemaleKeySharedWithForm(t *testing.T) {
	tbl, _ := build(t, &rules.Rules{}, nil,
		form(999, 10, models.Numbered(0)),
		form(999, 11, models.Numbered(1)),
	)

	e, ok := tbl.Entry("999_01")
	require.True(t, ok)
	require.Len(t, e.Targets, 2)
	assert.True(t, e.Targets[0].Synthesized)
	assert.Equal(t, 11, e.Targets[1].Form)
	assert.False(t, e.FemaleDefault)
	assert.True(t, e.HasRealTargets())
}

func TestBuild_OverrideProtection(t *testing.T) {
	seed := models.Entry{
		Key:      "018_51",
		Targets:  []models.Target{{Identity: models.Identity{CreatureID: 18, Evolution: 1}}},
		Override: true,
	}
	tbl, diag := build(t, &rules.Rules{}, []models.Entry{seed},
		evolution(18, 1, models.Numbered(51)),
		evolution(18, 1, models.Numbered(51)),
	)

	e, ok := tbl.Entry("018_51")
	require.True(t, ok)
	// first configuration push is discarded, the second merges normally
	assert.Len(t, e.Targets, 2)
	assert.False(t, e.Override)
	assert.Equal(t, 1, diag.Count(models.DiagOverrideIgnored))
}

func TestBuild_PlaceholderAndDenyList(t *testing.T) {
	r := &rules.Rules{Placeholder: "000", DenyKeys: []string{"201"}}
	seed := models.Entry{Key: "201", Targets: []models.Target{{Identity: models.Identity{CreatureID: 201}}}}
	tbl, _ := build(t, r, []models.Entry{seed}, form(1, 163, models.Numbered(0)))

	placeholder, ok := tbl.Entry("000")
	require.True(t, ok)
	assert.True(t, placeholder.Targets[0].IsPlaceholder())

	_, ok = tbl.Entry("201")
	assert.False(t, ok)
	assert.Equal(t, []string{"000", "001_01", "001_00"}, tbl.Keys())
}

func TestBuild_DenyListBeforeValidation(t *testing.T) {
	seed := models.Entry{Key: "201", Targets: []models.Target{{Identity: models.Identity{CreatureID: 201}}}}
	variant := form(201, 1, models.Numbered(0))

	b := NewBuilder(&rules.Rules{}, zap.NewNop(), nil)
	b.Seed(seed)
	b.AddAll([]models.Variant{variant})
	_, err := b.Build()
	assert.ErrorIs(t, err, ErrPrefixCollision)

	tbl, _ := build(t, &rules.Rules{DenyKeys: []string{"201"}}, []models.Entry{seed}, variant)
	assert.ElementsMatch(t, []string{"201_00", "201_01"}, tbl.Keys())
}

func TestTable_Lookup(t *testing.T) {
	tbl, _ := build(t, &rules.Rules{Placeholder: "000"}, nil,
		form(19, 45, models.Numbered(0)),
		form(19, 46, models.Numbered(61)),
	)

	key, rest, ok := tbl.Lookup("019_61_shiny.png")
	assert.True(t, ok)
	assert.Equal(t, "019_61", key)
	assert.Equal(t, "_shiny.png", rest)

	_, _, ok = tbl.Lookup("020_00.png")
	assert.False(t, ok)

	key, ok = tbl.KeyFor(models.Identity{CreatureID: 19, Form: 46, Shiny: true})
	assert.True(t, ok)
	assert.Equal(t, "019_61", key)
}

func TestAudit(t *testing.T) {
	r := &rules.Rules{KnownMissing: []string{"493_11"}}
	tbl, _ := build(t, r, nil,
		form(25, 598, models.Numbered(0)),
		form(19, 46, models.Numbered(61)),
		form(493, 1, models.Numbered(11)),
	)

	hits := NewHits()
	hits.Mark("025_00")
	diag := &models.Diagnostics{}

	report := Audit(tbl, hits, r, zap.NewNop(), diag)
	// 025_01 only holds a synthesized alias, 493_11 is known missing
	assert.Equal(t, []string{"019_61"}, report.NeverObserved)
	assert.Equal(t, []string{"493_11"}, report.StillMissing)
	assert.Empty(t, report.NowPresent)
	assert.Equal(t, 1, diag.Count(models.DiagNeverObserved))

	hits.Mark("493_11")
	report = Audit(tbl, hits, r, zap.NewNop(), nil)
	assert.Equal(t, []string{"493_11"}, report.NowPresent)
}

func TestAudit_KnownMissingNotInTable(t *testing.T) {
	r := &rules.Rules{KnownMissing: []string{"493_11"}}
	tbl, _ := build(t, r, nil, form(25, 598, models.Numbered(0)))

	hits := NewHits()
	hits.Mark("025_00")
	diag := &models.Diagnostics{}

	report := Audit(tbl, hits, r, zap.NewNop(), diag)
	assert.Equal(t, []string{"493_11"}, report.NowPresent)
	assert.Empty(t, report.StillMissing)
	assert.Empty(t, report.NeverObserved)
	assert.Zero(t, diag.Count(models.DiagNeverObserved))
}

func TestSnapshot_RoundTrip(t *testing.T) {
	tbl, _ := build(t, &rules.Rules{Placeholder: "000"}, nil,
		form(19, 45, models.Numbered(0)),
		form(19, 46, models.Numbered(61)),
		evolution(3, 1, models.Numbered(51)),
	)
	hits := NewHits()
	hits.Mark("019_61")

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, tbl.Snapshot(hits)))
	assert.Contains(t, buf.String(), `"019_61"`)

	snap, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.True(t, snap.Entries[3].Hit)

	restored, err := FromSnapshot(snap)
	require.NoError(t, err)
	assert.Equal(t, tbl.Keys(), restored.Keys())
	assert.Equal(t, tbl.Entries(), restored.Entries())

	def, ok := restored.DefaultForm(19)
	assert.True(t, ok)
	assert.Equal(t, 45, def)
	assert.True(t, restored.HasEvolution(3, 1))
}

func TestFromSnapshot_Collision(t *testing.T) {
	_, err := FromSnapshot(Snapshot{Entries: OrderedEntries{{Key: "065"}, {Key: "065_51"}}})
	assert.ErrorIs(t, err, ErrPrefixCollision)
}
