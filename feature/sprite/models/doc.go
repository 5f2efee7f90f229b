// Package models holds the data types shared by the sprite resolver:
// identities, bundle keys, decoded game master records, suffix table entries,
// index instructions and diagnostics.
//
// # Identity
//
// An Identity describes one renderable variant. Form and Evolution are
// independent axes; the game master practically never sets both for the same
// variant.
//
// # Records
//
// FormRecord and EvolutionRecord are the only implementations of Record. They
// are produced by the gamemaster package from the documented template schema.
package models
