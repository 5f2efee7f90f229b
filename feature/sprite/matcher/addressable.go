package matcher

import (
	"regexp"
	"strconv"

	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/symbols"
	"sprite-index/feature/sprite/table"

	"go.uber.org/zap"
)

const (
	evolutionToken = "TEMP_EVOLUTION_"
	noEvolveSuffix = "_NOEVOLVE"
)

// Addressable matches pm<id>[.f<token>][.c<costume>][.g<gender>][.s].icon.png
// assets, which encode their identity directly.
type Addressable struct {
	table   *table.Table
	symbols symbols.Table
	pattern *regexp.Regexp
	logger  *zap.Logger
	diag    *models.Diagnostics
}

// NewAddressable creates an addressable matcher. The table is consulted to
// mark hits and to recognize the creature's temporary evolutions.
func NewAddressable(t *table.Table, sym symbols.Table, opts Options, logger *zap.Logger, diag *models.Diagnostics) *Addressable {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Addressable{
		table:   t,
		symbols: sym,
		pattern: regexp.MustCompile(`^pm(\d+)(?:\.f([^.]+))?(?:\.c([^.]+))?(?:\.g(\d+))?(\.s)?\.icon` + regexp.QuoteMeta(opts.extension()) + `$`),
		logger:  logger,
		diag:    diag,
	}
}

func (a *Addressable) Match(filename string) (Match, error) {
	m := a.pattern.FindStringSubmatch(filename)
	if m == nil {
		return Match{}, unrecognized(filename, "not an addressable asset name")
	}
	creature, err := strconv.Atoi(m[1])
	if err != nil {
		return Match{}, unrecognized(filename, "bad creature id")
	}
	id := models.Identity{CreatureID: creature}

	if token := m[2]; token != "" {
		if !a.resolveToken(&id, token) {
			return Match{}, unrecognized(filename, "unresolved token "+token)
		}
	}
	if def, ok := a.table.DefaultForm(creature); ok && id.Form == def {
		id.Form = 0
	}
	if g := m[4]; g != "" {
		v, _ := strconv.Atoi(g)
		id.Gender = models.Gender(v)
	}

	match := Match{Filename: filename, Shiny: m[5] != ""}
	if name := m[3]; name != "" {
		costume, ok := a.resolveCostume(filename, name)
		if !ok {
			return Match{}, unrecognized(filename, "unresolved costume "+name)
		}
		match.Costume = costume
	}

	match.Targets = []models.Target{{Identity: id}}
	if key, ok := a.table.KeyFor(id); ok {
		match.Key = key
	} else {
		a.logger.Debug("Addressable asset has no configured entry", zap.String("filename", filename))
	}
	return match, nil
}

// resolveToken tries the .f token as a render mode, a creature-scoped form,
// one of the creature's temporary evolutions and finally a global form.
func (a *Addressable) resolveToken(id *models.Identity, token string) bool {
	if v, ok := a.symbols.ResolveRenderMode(token); ok {
		id.RenderMode = v
		return true
	}
	if v, ok := a.symbols.ResolveForm(id.CreatureID, token); ok {
		id.Form = v
		return true
	}
	if v, ok := a.symbols.ResolveEvolution(evolutionToken + token); ok && a.table.HasEvolution(id.CreatureID, v) {
		id.Evolution = v
		return true
	}
	if v, ok := a.symbols.ResolveGlobalForm(token); ok {
		id.Form = v
		return true
	}
	return false
}

func (a *Addressable) resolveCostume(filename, name string) (int, bool) {
	if v, ok := a.symbols.ResolveCostume(name); ok {
		return v, true
	}
	v, ok := a.symbols.ResolveCostume(name + noEvolveSuffix)
	if ok {
		a.logger.Warn("Costume resolved through its no-evolve variant",
			zap.String("filename", filename), zap.String("costume", name))
		a.diag.Add(models.DiagCostumeFallback, filename, name+noEvolveSuffix)
	}
	return v, ok
}
