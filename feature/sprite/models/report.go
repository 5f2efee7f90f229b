package models

// Instruction pairs one observed asset with one canonical output.
type Instruction struct {
	Source   string   `json:"source"`
	Output   string   `json:"output"`
	Key      string   `json:"key,omitempty"`
	Identity Identity `json:"identity"`
	// Primary instructions convert the source; the others copy the
	// converted primary of the same source.
	Primary bool `json:"primary"`
	// Derived marks female aliases rendered from the base asset.
	Derived bool `json:"derived,omitempty"`
}

// Index is the ordered result of a matching pass.
type Index struct {
	Instructions []Instruction `json:"instructions"`
}

// Names returns the canonical output names in emission order.
func (x *Index) Names() []string {
	names := make([]string, 0, len(x.Instructions))
	for _, in := range x.Instructions {
		names = append(names, in.Output)
	}
	return names
}

// Sources maps every canonical output name to its source filename.
func (x *Index) Sources() map[string]string {
	out := make(map[string]string, len(x.Instructions))
	for _, in := range x.Instructions {
		out[in.Output] = in.Source
	}
	return out
}

// Groups returns instructions grouped by source, in first-seen order, with
// the primary instruction first in each group.
func (x *Index) Groups() [][]Instruction {
	pos := make(map[string]int)
	var groups [][]Instruction
	for _, in := range x.Instructions {
		i, ok := pos[in.Source]
		if !ok {
			i = len(groups)
			pos[in.Source] = i
			groups = append(groups, nil)
		}
		if in.Primary {
			groups[i] = append([]Instruction{in}, groups[i]...)
		} else {
			groups[i] = append(groups[i], in)
		}
	}
	return groups
}

// AuditReport is the completeness check run after the matching pass.
type AuditReport struct {
	// NeverObserved lists configured keys with no matching asset.
	NeverObserved []string `json:"never_observed"`
	// StillMissing lists known-missing keys that are still absent.
	StillMissing []string `json:"still_missing,omitempty"`
	// NowPresent lists known-missing keys that were observed this run.
	NowPresent []string `json:"now_present,omitempty"`
}
