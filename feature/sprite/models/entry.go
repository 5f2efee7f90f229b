package models

// Target is one identity rendered from a table entry.
type Target struct {
	Identity
	// Synthesized marks a female alias produced from the sibling default key.
	Synthesized bool `json:"synthesized,omitempty"`
	// BaseKey is the key the synthesized alias was copied from.
	BaseKey string `json:"base_key,omitempty"`
}

// Entry is one node of the suffix table.
type Entry struct {
	Key     string   `json:"key"`
	Targets []Target `json:"targets"`
	// FemaleDefault stays true while the entry only holds synthesized
	// female aliases. Such entries are not expected to have an asset.
	FemaleDefault bool `json:"female,omitempty"`
	// Override marks hand-authored fallback entries.
	Override bool `json:"fallback,omitempty"`
	Hit      bool `json:"hit,omitempty"`
}

// HasRealTargets reports whether any target came from configuration or
// seeding rather than female synthesis.
func (e Entry) HasRealTargets() bool {
	for _, t := range e.Targets {
		if !t.Synthesized {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot reach into table storage.
func (e Entry) Clone() Entry {
	out := e
	out.Targets = append([]Target(nil), e.Targets...)
	return out
}
