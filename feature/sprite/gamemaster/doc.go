// Package gamemaster decodes the game master document and normalizes its
// FORMS and TEMPORARY_EVOLUTION templates into variants for the suffix table.
package gamemaster
