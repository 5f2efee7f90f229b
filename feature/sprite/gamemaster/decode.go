package gamemaster

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"sprite-index/core/utils"
	"sprite-index/feature/sprite/models"

	"go.uber.org/zap"
)

// templateID matches FORMS_V0019_POKEMON_RATTATA and
// TEMPORARY_EVOLUTION_V0003_POKEMON_VENUSAUR.
var templateID = regexp.MustCompile(`^(FORMS|TEMPORARY_EVOLUTION)_V(\d{4})_POKEMON_(.+)$`)

const (
	formsPrefix     = "FORMS_V"
	evolutionPrefix = "TEMPORARY_EVOLUTION_V"
)

type document struct {
	Template []template `json:"template"`
}

type template struct {
	TemplateID string `json:"templateId"`
	Data       struct {
		FormSettings               *formSettings      `json:"formSettings"`
		TemporaryEvolutionSettings *evolutionSettings `json:"temporaryEvolutionSettings"`
	} `json:"data"`
}

type formSettings struct {
	Pokemon string       `json:"pokemon"`
	Forms   []rawVariant `json:"forms"`
}

type evolutionSettings struct {
	PokemonID           string       `json:"pokemonId"`
	TemporaryEvolutions []rawVariant `json:"temporaryEvolutions"`
}

type rawVariant struct {
	Form                 string `json:"form"`
	TemporaryEvolutionID string `json:"temporaryEvolutionId"`
	AssetBundleValue     any    `json:"assetBundleValue"`
	AssetBundleSuffix    string `json:"assetBundleSuffix"`
	IsCostume            any    `json:"isCostume"`
}

// Decode reads a game master document and returns the sprite-relevant
// records in document order. Both the bare template array and the
// {"template": [...]} wrapper are accepted. Templates with an unparseable
// creature id are reported and skipped.
func Decode(r io.Reader, logger *zap.Logger, diag *models.Diagnostics) ([]models.Record, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read game master: %w", err)
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	var templates []template
	if first == '[' {
		err = dec.Decode(&templates)
	} else {
		var doc document
		err = dec.Decode(&doc)
		templates = doc.Template
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode game master: %w", err)
	}

	var records []models.Record
	for _, t := range templates {
		if !strings.HasPrefix(t.TemplateID, formsPrefix) && !strings.HasPrefix(t.TemplateID, evolutionPrefix) {
			continue
		}
		m := templateID.FindStringSubmatch(t.TemplateID)
		var creature int
		if m != nil {
			creature, _ = strconv.Atoi(m[2])
		}
		if creature == 0 {
			logger.Warn("Unrecognized templateId", zap.String("template_id", t.TemplateID))
			diag.Add(models.DiagUnrecognizedConfig, t.TemplateID, "unparseable creature id")
			continue
		}

		switch {
		case m[1] == "FORMS" && t.Data.FormSettings != nil:
			fs := t.Data.FormSettings
			records = append(records, models.FormRecord{
				TemplateID: t.TemplateID,
				CreatureID: creature,
				Name:       m[3],
				Forms:      convertVariants(fs.Forms, false, logger),
				HasForms:   fs.Forms != nil,
			})
		case m[1] == "TEMPORARY_EVOLUTION" && t.Data.TemporaryEvolutionSettings != nil:
			es := t.Data.TemporaryEvolutionSettings
			records = append(records, models.EvolutionRecord{
				TemplateID:    t.TemplateID,
				CreatureID:    creature,
				Name:          m[3],
				Evolutions:    convertVariants(es.TemporaryEvolutions, true, logger),
				HasEvolutions: es.TemporaryEvolutions != nil,
			})
		}
	}
	return records, nil
}

func convertVariants(raw []rawVariant, evolution bool, logger *zap.Logger) []models.VariantEntry {
	if raw == nil {
		return nil
	}
	out := make([]models.VariantEntry, 0, len(raw))
	for _, v := range raw {
		name := v.Form
		if evolution {
			name = v.TemporaryEvolutionID
		}
		entry := models.VariantEntry{Name: name, IsCostume: utils.ToBool(v.IsCostume)}
		switch {
		case v.AssetBundleSuffix != "":
			b := models.Named(v.AssetBundleSuffix)
			entry.Bundle = &b
		case v.AssetBundleValue != nil:
			n, ok := utils.ToInt(v.AssetBundleValue)
			if !ok {
				logger.Warn("Ignoring non-numeric asset bundle value",
					zap.String("variant", name), zap.String("value", utils.ToString(v.AssetBundleValue)))
				break
			}
			b := models.Numbered(n)
			entry.Bundle = &b
		}
		out = append(out, entry)
	}
	return out
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.ReadByte()
		default:
			return b[0], nil
		}
	}
}
