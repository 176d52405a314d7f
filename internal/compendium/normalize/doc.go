// Package normalize holds the deterministic text normalizers for imported
// compendium prose: the attack-sentence parser and patcher, the HP-formula
// normalizer, and the challenge-rating parser.
//
// Every function here is total: malformed input degrades to nil fields or
// the original text, never an error. Imported compendia are inconsistent
// enough that surfacing parse failures per field would drown the caller.
package normalize
