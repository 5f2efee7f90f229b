package models

import "fmt"

// Gender mirrors the protocol gender enum. Only the values used by sprite
// variants are named.
type Gender int

const (
	GenderNone   Gender = 0
	GenderMale   Gender = 1
	GenderFemale Gender = 2
)

func (g Gender) String() string {
	switch g {
	case GenderNone:
		return "none"
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return fmt.Sprintf("gender(%d)", int(g))
	}
}

// Identity is the canonical description of a renderable sprite variant.
// CreatureID 0 is reserved for the placeholder sprite.
type Identity struct {
	CreatureID int    `json:"creature_id"`
	Gender     Gender `json:"gender,omitempty"`
	Form       int    `json:"form,omitempty"`
	Evolution  int    `json:"evolution,omitempty"`
	RenderMode int    `json:"render_mode,omitempty"`
	Costume    int    `json:"costume,omitempty"`
	Shiny      bool   `json:"shiny,omitempty"`
}

// WithGender returns a copy of the identity with the gender replaced.
func (i Identity) WithGender(g Gender) Identity {
	i.Gender = g
	return i
}

// WithModifiers returns a copy carrying the costume and shiny modifiers
// decoded from an observed asset.
func (i Identity) WithModifiers(costume int, shiny bool) Identity {
	i.Costume = costume
	i.Shiny = shiny
	return i
}

// Base strips the per-asset modifiers, leaving the configuration-side part.
func (i Identity) Base() Identity {
	return i.WithModifiers(0, false)
}

// IsPlaceholder reports whether this is the reserved fallback identity.
func (i Identity) IsPlaceholder() bool {
	return i.CreatureID == 0
}
