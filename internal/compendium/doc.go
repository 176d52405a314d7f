// Package compendium defines the monster, spell, and item records produced
// by the import pipeline and consumed by the combat tracker.
//
// Imported source data is inconsistent: numeric fields arrive as numbers,
// strings, or objects wrapping a value with a note. Field models that as a
// tagged union so downstream code never deals with untyped values.
package compendium
