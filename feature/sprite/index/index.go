package index

import (
	"errors"
	"sort"

	"sprite-index/feature/sprite/matcher"
	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/naming"
	"sprite-index/feature/sprite/rules"
	"sprite-index/feature/sprite/table"

	"go.uber.org/zap"
)

// Result is the outcome of one matching pass.
type Result struct {
	Index models.Index
	Hits  *table.Hits
	Audit models.AuditReport
}

// Indexer runs the matching pass over a directory listing.
type Indexer struct {
	table   *table.Table
	matcher matcher.Matcher
	namer   *naming.Namer
	rules   *rules.Rules
	logger  *zap.Logger
	diag    *models.Diagnostics
}

// New creates an indexer. The table must be frozen and validated.
func New(t *table.Table, m matcher.Matcher, n *naming.Namer, r *rules.Rules, logger *zap.Logger, diag *models.Diagnostics) *Indexer {
	return &Indexer{table: t, matcher: m, namer: n, rules: r, logger: logger, diag: diag}
}

type observation struct {
	source  string
	costume int
	shiny   bool
}

type modifiers struct {
	key     string
	costume int
	shiny   bool
}

// pass holds the state of one Run. The table is never written to.
type pass struct {
	*Indexer
	hits         *table.Hits
	instructions []*models.Instruction
	claims       map[string]*models.Instruction
	observed     map[string][]observation
	direct       map[modifiers]bool
}

// Run matches every filename, in sorted order, and returns the resulting
// instructions together with the hit set and the completeness audit.
func (x *Indexer) Run(filenames []string) Result {
	files := append([]string(nil), filenames...)
	sort.Strings(files)

	p := &pass{
		Indexer:  x,
		hits:     table.NewHits(),
		claims:   make(map[string]*models.Instruction),
		observed: make(map[string][]observation),
		direct:   make(map[modifiers]bool),
	}
	for _, f := range files {
		p.matchOne(f)
	}
	p.deriveFemaleAliases()
	p.emitSharedAliases()

	return Result{
		Index: p.finish(),
		Hits:  p.hits,
		Audit: table.Audit(x.table, p.hits, x.rules, x.logger, x.diag),
	}
}

func (p *pass) matchOne(filename string) {
	m, err := p.matcher.Match(filename)
	switch {
	case errors.Is(err, matcher.ErrDroppedAsset):
		p.logger.Debug("Dropping known duplicate asset", zap.String("filename", filename))
		p.diag.Add(models.DiagDroppedAsset, filename, err.Error())
		return
	case err != nil:
		p.logger.Warn("Unrecognized/unused asset", zap.String("filename", filename), zap.Error(err))
		p.diag.Add(models.DiagUnrecognizedAsset, filename, err.Error())
		return
	}

	if m.Key != "" {
		p.hits.Mark(m.Key)
	}
	if m.Key != "" && !m.Old {
		p.observed[m.Key] = append(p.observed[m.Key], observation{source: filename, costume: m.Costume, shiny: m.Shiny})
	}

	targets := realTargets(m.Targets)
	if len(targets) == 0 {
		// entry only holds synthesized aliases, the asset is their own
		targets = m.Targets
		p.direct[modifiers{key: m.Key, costume: m.Costume, shiny: m.Shiny}] = true
	}
	if len(targets) > 1 {
		p.logger.Debug("Multiple targets found for asset", zap.String("filename", filename), zap.Int("targets", len(targets)))
	}
	for _, t := range targets {
		id := t.WithModifiers(m.Costume, m.Shiny)
		p.claim(models.Instruction{Source: filename, Key: m.Key, Identity: id})
	}
}

// deriveFemaleAliases emits synthesized female targets from the asset that
// matched their base key, unless the alias was observed directly.
func (p *pass) deriveFemaleAliases() {
	for _, entry := range p.table.Entries() {
		shared := entry.HasRealTargets()
		for _, t := range entry.Targets {
			if !t.Synthesized {
				continue
			}
			for _, obs := range p.observed[t.BaseKey] {
				if !shared && p.direct[modifiers{key: entry.Key, costume: obs.costume, shiny: obs.shiny}] {
					continue
				}
				id := t.WithModifiers(obs.costume, obs.shiny)
				name := p.namer.Render(id)
				if _, taken := p.claims[name]; taken {
					continue
				}
				in := &models.Instruction{Source: obs.source, Output: name, Key: t.BaseKey, Identity: id, Derived: true}
				p.claims[name] = in
				p.instructions = append(p.instructions, in)
			}
		}
	}
}

// emitSharedAliases emits the synthesized targets of an observed entry that
// also holds real targets from that entry's own asset, when no base key
// observation already produced the name.
func (p *pass) emitSharedAliases() {
	for _, entry := range p.table.Entries() {
		if !entry.HasRealTargets() {
			continue
		}
		for _, t := range entry.Targets {
			if !t.Synthesized {
				continue
			}
			for _, obs := range p.observed[entry.Key] {
				id := t.WithModifiers(obs.costume, obs.shiny)
				name := p.namer.Render(id)
				if _, taken := p.claims[name]; taken {
					continue
				}
				in := &models.Instruction{Source: obs.source, Output: name, Key: entry.Key, Identity: id}
				p.claims[name] = in
				p.instructions = append(p.instructions, in)
			}
		}
	}
}

// claim registers an output name. When two different sources render the
// same name, the shorter source filename wins and equal lengths keep the
// first one seen.
func (p *pass) claim(in models.Instruction) {
	in.Output = p.namer.Render(in.Identity)
	prev, taken := p.claims[in.Output]
	if !taken {
		p.claims[in.Output] = &in
		p.instructions = append(p.instructions, &in)
		return
	}
	if prev.Source == in.Source {
		return
	}

	kept, dropped := prev.Source, in.Source
	if len(in.Source) < len(prev.Source) {
		kept, dropped = in.Source, prev.Source
		*prev = in
	}
	p.logger.Warn("Duplicate canonical name, keeping the shorter source",
		zap.String("output", in.Output), zap.String("kept", kept), zap.String("dropped", dropped))
	p.diag.Add(models.DiagDuplicateOutput, in.Output, "dropped "+dropped)
}

// finish flattens the instructions and marks the first instruction of each
// source as the primary conversion.
func (p *pass) finish() models.Index {
	seen := make(map[string]bool)
	out := make([]models.Instruction, 0, len(p.instructions))
	for _, in := range p.instructions {
		c := *in
		c.Primary = !seen[c.Source]
		seen[c.Source] = true
		out = append(out, c)
	}
	return models.Index{Instructions: out}
}

func realTargets(targets []models.Target) []models.Target {
	var out []models.Target
	for _, t := range targets {
		if !t.Synthesized {
			out = append(out, t)
		}
	}
	return out
}
