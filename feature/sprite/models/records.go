package models

// Axis is the identity field a configuration variant populates.
type Axis int

const (
	AxisForm Axis = iota
	AxisEvolution
)

func (a Axis) String() string {
	if a == AxisEvolution {
		return "evolution"
	}
	return "form"
}

// VariantEntry is one element of a form or temporary evolution list.
// Bundle is nil when the game master omits both bundle fields.
type VariantEntry struct {
	Name      string
	Bundle    *BundleKey
	IsCostume bool
}

// Record is a decoded game master template relevant to sprites. It is
// implemented by FormRecord and EvolutionRecord only.
type Record interface {
	Creature() int
	CreatureName() string
	Axis() Axis
	// Variants returns the list and whether the template carried one at all.
	Variants() ([]VariantEntry, bool)
	record()
}

// FormRecord is a FORMS_V template.
type FormRecord struct {
	TemplateID string
	CreatureID int
	Name       string
	Forms      []VariantEntry
	HasForms   bool
}

func (r FormRecord) Creature() int                    { return r.CreatureID }
func (r FormRecord) CreatureName() string             { return r.Name }
func (r FormRecord) Axis() Axis                       { return AxisForm }
func (r FormRecord) Variants() ([]VariantEntry, bool) { return r.Forms, r.HasForms }
func (FormRecord) record()                            {}

// EvolutionRecord is a TEMPORARY_EVOLUTION_V template.
type EvolutionRecord struct {
	TemplateID    string
	CreatureID    int
	Name          string
	Evolutions    []VariantEntry
	HasEvolutions bool
}

func (r EvolutionRecord) Creature() int                    { return r.CreatureID }
func (r EvolutionRecord) CreatureName() string             { return r.Name }
func (r EvolutionRecord) Axis() Axis                       { return AxisEvolution }
func (r EvolutionRecord) Variants() ([]VariantEntry, bool) { return r.Evolutions, r.HasEvolutions }
func (EvolutionRecord) record()                            {}

// Variant is a normalized (identity-partial, bundle) pair ready to be folded
// into the suffix table.
type Variant struct {
	CreatureID int
	Axis       Axis
	Name       string
	// ID is the resolved form or evolution id. It may be 0 only for a
	// synthesized default.
	ID          int
	Bundle      BundleKey
	Synthesized bool
}
