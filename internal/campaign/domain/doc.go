// Package domain defines the campaign document graph: campaigns,
// adventures, encounters, players, important NPCs, notes, treasure, the
// per-campaign condition catalog, and the live combat records attached to
// encounters.
//
// All timestamps are milliseconds since the Unix epoch, matching the
// persisted JSON layout. Types here carry no behavior beyond construction
// and normalization; combat transitions live in the combat package.
package domain
