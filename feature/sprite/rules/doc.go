// Package rules holds the hand-authored data that complements the game
// master: fallback overrides, the placeholder key, deny-listed and
// known-missing keys, the female-synthesis exclusion list and the identities
// of superseded legacy assets.
//
// The embedded default.yaml is used unless sprite.rules_path points at a
// replacement document.
package rules
