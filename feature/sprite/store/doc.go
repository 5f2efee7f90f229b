// Package store persists suffix table snapshots and index runs with GORM.
//
// Tables:
//
//	sprite_entries    one row per table key, ordered by position
//	sprite_targets    identities rendered by an entry
//	sprite_creatures  default forms and temporary evolutions per creature
//	sprite_outputs    index instructions, grouped by run id
package store
