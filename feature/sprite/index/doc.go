// Package index runs the matching pass: every observed asset is resolved
// against the frozen table and turned into copy/convert instructions keyed
// by canonical output name.
//
// Synthesized female aliases are rendered from the asset that matched their
// base key. When two sources render the same name, the shorter filename is
// kept.
package index
