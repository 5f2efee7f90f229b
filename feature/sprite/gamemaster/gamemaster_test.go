package gamemaster

import (
	"strings"
	"testing"

	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/symbols"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const documentJSON = `{
  "template": [
    {"templateId": "V0019_POKEMON_RATTATA", "data": {"pokemonSettings": {}}},
    {"templateId": "FORMS_V0019_POKEMON_RATTATA", "data": {"formSettings": {
      "pokemon": "RATTATA",
      "forms": [
        {"form": "RATTATA_NORMAL"},
        {"form": "RATTATA_ALOLA", "assetBundleValue": 61},
        {"form": "RATTATA_SHADOW", "assetBundleValue": 11},
        {"form": "RATTATA_COPY_2019", "assetBundleSuffix": "pm0019_00_pgo_copy2019", "isCostume": true}
      ]
    }}},
    {"templateId": "FORMS_V0001_POKEMON_BULBASAUR", "data": {"formSettings": {"pokemon": "BULBASAUR"}}},
    {"templateId": "FORMS_VXX01_POKEMON_BROKEN", "data": {"formSettings": {"pokemon": "BROKEN"}}},
    {"templateId": "TEMPORARY_EVOLUTION_V0003_POKEMON_VENUSAUR", "data": {"temporaryEvolutionSettings": {
      "pokemonId": "VENUSAUR",
      "temporaryEvolutions": [
        {"temporaryEvolutionId": "TEMP_EVOLUTION_MEGA", "assetBundleValue": 51},
        {"temporaryEvolutionId": "TEMP_EVOLUTION_UNKNOWN", "assetBundleValue": 52}
      ]
    }}}
  ]
}`

func dictionary() *symbols.Dictionary {
	return symbols.New(
		map[string]int{"BULBASAUR": 1, "VENUSAUR": 3, "RATTATA": 19},
		map[string]int{"RATTATA_NORMAL": 45, "RATTATA_ALOLA": 46, "RATTATA_SHADOW": 153, "RATTATA_COPY_2019": 2668, "BULBASAUR_NORMAL": 163},
		map[string]int{"TEMP_EVOLUTION_MEGA": 1},
		nil,
		nil,
	)
}

func TestDecode(t *testing.T) {
	diag := &models.Diagnostics{}
	records, err := Decode(strings.NewReader(documentJSON), zap.NewNop(), diag)
	require.NoError(t, err)
	require.Len(t, records, 3)

	rattata, ok := records[0].(models.FormRecord)
	require.True(t, ok)
	assert.Equal(t, 19, rattata.Creature())
	assert.Equal(t, "RATTATA", rattata.CreatureName())
	require.Len(t, rattata.Forms, 4)
	assert.Nil(t, rattata.Forms[0].Bundle)
	assert.Equal(t, models.Numbered(61), *rattata.Forms[1].Bundle)
	assert.Equal(t, models.Named("pm0019_00_pgo_copy2019"), *rattata.Forms[3].Bundle)
	assert.True(t, rattata.Forms[3].IsCostume)

	_, listed := records[1].Variants()
	assert.False(t, listed)

	venusaur, ok := records[2].(models.EvolutionRecord)
	require.True(t, ok)
	assert.Equal(t, models.AxisEvolution, venusaur.Axis())
	assert.Equal(t, "TEMP_EVOLUTION_MEGA", venusaur.Evolutions[0].Name)

	assert.Equal(t, 1, diag.Count(models.DiagUnrecognizedConfig))
}

func TestDecode_BareArray(t *testing.T) {
	doc := `
  [{"templateId": "FORMS_V0001_POKEMON_BULBASAUR", "data": {"formSettings": {"pokemon": "BULBASAUR", "forms": []}}}]`

	records, err := Decode(strings.NewReader(doc), zap.NewNop(), nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	forms, listed := records[0].Variants()
	assert.True(t, listed)
	assert.Empty(t, forms)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"template": [`), zap.NewNop(), nil)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(""), zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	diag := &models.Diagnostics{}
	records, err := Decode(strings.NewReader(documentJSON), zap.NewNop(), nil)
	require.NoError(t, err)

	variants := NewNormalizer(dictionary(), zap.NewNop(), diag).NormalizeAll(records)
	require.Len(t, variants, 5)

	assert.Equal(t, models.Variant{CreatureID: 19, Axis: models.AxisForm, Name: "RATTATA_NORMAL", ID: 45, Bundle: models.Numbered(0)}, variants[0])
	assert.Equal(t, 46, variants[1].ID)
	assert.Equal(t, models.Numbered(61), variants[1].Bundle)
	// shadow forms never get their own sprite
	assert.Equal(t, "RATTATA_COPY_2019", variants[2].Name)
	assert.Equal(t, models.Named("pm0019_00_pgo_copy2019"), variants[2].Bundle)

	assert.Equal(t, models.Variant{
		CreatureID:  1,
		Axis:        models.AxisForm,
		Name:        "BULBASAUR_NORMAL",
		ID:          163,
		Bundle:      models.Numbered(0),
		Synthesized: true,
	}, variants[3])

	assert.Equal(t, models.Variant{CreatureID: 3, Axis: models.AxisEvolution, Name: "TEMP_EVOLUTION_MEGA", ID: 1, Bundle: models.Numbered(51)}, variants[4])
	assert.Equal(t, 1, diag.Count(models.DiagUnrecognizedConfig))
}

func TestNormalize_RandomizedEvolutionName(t *testing.T) {
	record := models.EvolutionRecord{
		CreatureID:    3,
		Name:          "VENUSAUR",
		HasEvolutions: true,
		Evolutions:    []models.VariantEntry{{Name: "V0003_TEMP_EVOLUTION_MEGA"}},
	}

	variants := NewNormalizer(dictionary(), zap.NewNop(), nil).Normalize(record)
	require.Len(t, variants, 1)
	assert.Equal(t, 1, variants[0].ID)
	assert.Equal(t, models.Numbered(0), variants[0].Bundle)
}

func TestNormalize_UnknownCreatureDefault(t *testing.T) {
	record := models.FormRecord{CreatureID: 999, Name: "MISSINGNO"}

	variants := NewNormalizer(dictionary(), zap.NewNop(), nil).Normalize(record)
	require.Len(t, variants, 1)
	assert.Equal(t, "MISSINGNO_NORMAL", variants[0].Name)
	assert.Equal(t, 0, variants[0].ID)
	assert.True(t, variants[0].Synthesized)
}

func TestNormalize_CreatureScopedForm(t *testing.T) {
	record := models.FormRecord{
		CreatureID: 19,
		Name:       "RATTATA",
		HasForms:   true,
		Forms: []models.VariantEntry{
			{Name: "ALOLA"},
			// another creature's form is not resolved in this namespace
			{Name: "BULBASAUR_NORMAL"},
		},
	}
	diag := &models.Diagnostics{}

	variants := NewNormalizer(dictionary(), zap.NewNop(), diag).Normalize(record)
	require.Len(t, variants, 1)
	assert.Equal(t, 46, variants[0].ID)
	assert.Equal(t, 1, diag.Count(models.DiagUnrecognizedConfig))
}

func TestDecode_LooseCostumeFlag(t *testing.T) {
	doc := `[{"templateId": "FORMS_V0019_POKEMON_RATTATA", "data": {"formSettings": {"pokemon": "RATTATA", "forms": [
		{"form": "RATTATA_COPY_2019", "assetBundleValue": "12", "isCostume": "true"},
		{"form": "RATTATA_NORMAL", "isCostume": 0}
	]}}}]`

	records, err := Decode(strings.NewReader(doc), zap.NewNop(), nil)
	require.NoError(t, err)
	forms, _ := records[0].Variants()
	require.Len(t, forms, 2)
	assert.True(t, forms[0].IsCostume)
	assert.Equal(t, models.Numbered(12), *forms[0].Bundle)
	assert.False(t, forms[1].IsCostume)
}
