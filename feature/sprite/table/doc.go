// Package table builds the suffix table: an insertion-ordered mapping from
// asset key prefixes ("019_61", "pm0025_00_pgo_copy2019") to the identities
// each key renders.
//
// A Builder folds normalized game master variants on top of hand-authored
// seeds. Build removes deny-listed keys, rejects tables in which one key is a
// strict prefix of another, and freezes the result into a read-only Table.
// Observations made during a matching pass are recorded in a separate Hits
// set so the frozen table can be shared between concurrent readers.
package table
