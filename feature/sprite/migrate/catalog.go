package migrate

import (
	"errors"
	"fmt"
	"slices"

	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/rules"
	"sprite-index/feature/sprite/symbols"
)

// Catalog lists the form and evolution ids known for one creature, in game
// master order.
type Catalog struct {
	Forms      []int
	Evolutions []int
}

// Catalogs maps creature ids to their catalog.
type Catalogs map[int]*Catalog

func (c Catalogs) get(creatureID int) *Catalog {
	cat, ok := c[creatureID]
	if !ok {
		cat = &Catalog{}
		c[creatureID] = cat
	}
	return cat
}

// BuildCatalogs collects the normalized variants per creature and applies
// the extra forms and evolutions of the rule set.
func BuildCatalogs(variants []models.Variant, r *rules.Rules, sym symbols.Table) (Catalogs, error) {
	out := make(Catalogs)
	for _, v := range variants {
		if v.ID == 0 {
			continue
		}
		cat := out.get(v.CreatureID)
		switch v.Axis {
		case models.AxisForm:
			if !slices.Contains(cat.Forms, v.ID) {
				cat.Forms = append(cat.Forms, v.ID)
			}
		case models.AxisEvolution:
			if !slices.Contains(cat.Evolutions, v.ID) {
				cat.Evolutions = append(cat.Evolutions, v.ID)
			}
		}
	}

	var errs []error
	for creature, names := range r.ExtraForms {
		for _, name := range names {
			id, ok := sym.ResolveGlobalForm(name)
			if !ok {
				errs = append(errs, fmt.Errorf("extra form %s of %d: unknown form", name, creature))
				continue
			}
			cat := out.get(creature)
			if !slices.Contains(cat.Forms, id) {
				cat.Forms = append(cat.Forms, id)
			}
		}
	}
	for creature, names := range r.ExtraEvolutions {
		for _, name := range names {
			id, ok := sym.ResolveEvolution(name)
			if !ok {
				errs = append(errs, fmt.Errorf("extra evolution %s of %d: unknown evolution", name, creature))
				continue
			}
			cat := out.get(creature)
			if !slices.Contains(cat.Evolutions, id) {
				cat.Evolutions = append(cat.Evolutions, id)
			}
		}
	}
	return out, errors.Join(errs...)
}
