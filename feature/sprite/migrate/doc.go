// Package migrate renames a PMSF icon set (pokemon_icon_NNN_FF_CC.png) to
// the hyphen naming convention.
//
// PMSF filenames carry up to two unlabeled numeric fields. Each field is
// classified against the creature's form and evolution catalogs, falling
// back to a costume id when it does not exceed the largest known costume.
// The first form of a creature is its default and folds into the plain name.
package migrate
