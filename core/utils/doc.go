// Package utils provides common utility functions for the sprite-index application.
// It includes helpers for converting loosely typed game master scalars and for
// zero-padded number formatting.
package utils
