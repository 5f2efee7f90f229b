// Package matcher resolves observed asset filenames to table entries.
//
// Two naming families are supported. Legacy assets are named after a table
// key followed by optional costume, shiny and "old" markers:
//
//	pokemon_icon_019_61_2_shiny.png
//
// Addressable assets encode the identity directly in dotted components:
//
//	pm19.fALOLA.c2.g2.s.icon.png
package matcher
