// Package naming renders identities into canonical output names.
//
// Fields are emitted in a fixed order (render mode, evolution, form, costume,
// gender, shiny) and omitted when neutral. A form equal to the creature's
// registered default form is neutral too, so the base form of every creature
// renders as the bare creature id.
package naming
