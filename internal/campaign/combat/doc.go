// Package combat owns the per-encounter combat lifecycle: lazy record
// creation, roster label disambiguation, state updates, the derived
// initiative ordering, and the factory that materializes combatants from
// player, monster, and iNPC source records.
//
// Operations here are pure with respect to time and identity: callers
// inject a clock and an id generator (nil means the real ones), so every
// transition is reproducible in tests. Turn advancement itself is
// client-driven; the engine persists whatever active pointer and round the
// caller hands it.
package combat
