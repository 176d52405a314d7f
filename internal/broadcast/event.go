// Package broadcast fans change notifications out to connected clients.
//
// Events are hints, not state: each one names a resource category and the
// scope that changed, and clients re-fetch the authoritative record over
// REST. Delivery is fire-and-forget with no ordering guarantee relative to
// the HTTP response of the mutation that triggered it, and clients that are
// disconnected at emit time reconcile with a full fetch on reconnect.
package broadcast

// EventName identifies which resource category changed.
type EventName string

// Document-change events.
const (
	// CampaignChanged signals a campaign record changed.
	CampaignChanged EventName = "campaignChanged"
	// AdventureChanged signals an adventure record changed.
	AdventureChanged EventName = "adventureChanged"
	// EncounterChanged signals an encounter record changed.
	EncounterChanged EventName = "encounterChanged"
	// NoteChanged signals a note record changed.
	NoteChanged EventName = "noteChanged"
	// PlayerChanged signals a player record changed.
	PlayerChanged EventName = "playerChanged"
	// INPCChanged signals an important-NPC record changed.
	INPCChanged EventName = "inpcChanged"
	// TreasureChanged signals a treasure record changed.
	TreasureChanged EventName = "treasureChanged"
	// CompendiumChanged signals imported compendium content changed.
	CompendiumChanged EventName = "compendiumChanged"
)

// Combat-tracker events.
const (
	// CombatantsChanged signals an encounter's roster changed.
	CombatantsChanged EventName = "encounter:combatantsChanged"
	// CombatStateChanged signals an encounter's round/active/target state
	// changed.
	CombatStateChanged EventName = "encounter:combatStateChanged"
)

// Scope identifies the affected resource. Only the relevant fields are set.
type Scope struct {
	CampaignID  string `json:"campaignId,omitempty"`
	EncounterID string `json:"encounterId,omitempty"`
	ID          string `json:"id,omitempty"`
}

// Event is one notification frame as delivered to clients.
type Event struct {
	Name  EventName `json:"event"`
	Scope Scope     `json:"scope"`
}
