package combat

import (
	"regexp"
	"sort"
	"time"

	"github.com/tavernkeep/tavernkeep/internal/campaign/domain"
)

// Phase is the tagged combat status derived from (round, activeCombatantId).
// The wire format keeps the flattened shape; Phase exists so transition
// invariants are checkable.
type Phase int

const (
	// PhaseNotStarted holds while round == 1 and no active combatant is set.
	PhaseNotStarted Phase = iota
	// PhaseInProgress holds once any state update sets an active combatant
	// or advances the round. There is no transition back except full record
	// replacement; an ended combat is simply abandoned or replaced.
	PhaseInProgress
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseInProgress:
		return "in progress"
	default:
		return "unknown"
	}
}

// StatusOf derives the phase of a combat record.
func StatusOf(c *domain.Combat) Phase {
	if c == nil {
		return PhaseNotStarted
	}
	if c.ActiveCombatantID != nil || c.Round > 1 {
		return PhaseInProgress
	}
	return PhaseNotStarted
}

// Ensure returns the combat record for an encounter, creating it on first
// touch with round 1, no active combatant, and an empty roster. Repeated
// calls never reset an existing record.
func Ensure(combats map[string]*domain.Combat, encounterID string, now func() time.Time) *domain.Combat {
	if now == nil {
		now = time.Now
	}
	if existing, ok := combats[encounterID]; ok {
		return existing
	}

	createdAt := domain.Millis(now())
	created := &domain.Combat{
		EncounterID: encounterID,
		Round:       1,
		ActiveIndex: 0,
		Combatants:  []*domain.Combatant{},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	combats[encounterID] = created
	return created
}

// NextLabelNumber scans the roster for labels of the form "<base> <n>"
// (case-insensitive, base matched literally) and returns max(n)+1, or 1
// when no label matches. The un-suffixed base label does not count.
func NextLabelNumber(c *domain.Combat, baseName string) int {
	pattern := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(baseName) + `\s+(\d+)$`)

	highest := 0
	if c != nil {
		for _, combatant := range c.Combatants {
			match := pattern.FindStringSubmatch(combatant.Label)
			if match == nil {
				continue
			}
			number := 0
			for _, digit := range match[1] {
				number = number*10 + int(digit-'0')
			}
			if number > highest {
				highest = number
			}
		}
	}
	return highest + 1
}

// StateUpdate is a partial update to a combat's flattened state. Nil
// pointers leave the field alone; SetActive/SetTarget distinguish "clear
// the pointer" from "leave it".
type StateUpdate struct {
	Round             *int
	ActiveIndex       *int
	SetActive         bool
	ActiveCombatantID *string
	SetTarget         bool
	TargetCombatantID *string
}

// ApplyState merges a client-driven state update into the record and
// returns the resulting phase. Round values below 1 clamp to 1.
func ApplyState(c *domain.Combat, update StateUpdate, now func() time.Time) Phase {
	if c == nil {
		return PhaseNotStarted
	}
	if now == nil {
		now = time.Now
	}

	if update.Round != nil {
		round := *update.Round
		if round < 1 {
			round = 1
		}
		c.Round = round
	}
	if update.ActiveIndex != nil {
		c.ActiveIndex = *update.ActiveIndex
	}
	if update.SetActive {
		c.ActiveCombatantID = update.ActiveCombatantID
	}
	if update.SetTarget {
		c.TargetCombatantID = update.TargetCombatantID
	}
	c.UpdatedAt = domain.Millis(now())

	return StatusOf(c)
}

// RemoveCombatant drops a roster entry by id and clears the active/target
// pointers when they referenced it. It reports whether an entry was
// removed.
func RemoveCombatant(c *domain.Combat, combatantID string, now func() time.Time) bool {
	if c == nil {
		return false
	}
	if now == nil {
		now = time.Now
	}

	kept := c.Combatants[:0]
	removed := false
	for _, combatant := range c.Combatants {
		if combatant.ID == combatantID {
			removed = true
			continue
		}
		kept = append(kept, combatant)
	}
	if !removed {
		return false
	}
	c.Combatants = kept
	if c.ActiveCombatantID != nil && *c.ActiveCombatantID == combatantID {
		c.ActiveCombatantID = nil
	}
	if c.TargetCombatantID != nil && *c.TargetCombatantID == combatantID {
		c.TargetCombatantID = nil
	}
	c.UpdatedAt = domain.Millis(now())
	return true
}

// InitiativeOrder returns the roster sorted for display: ascending
// initiative, unrolled (nil or zero) combatants last, insertion order
// breaking ties. The stored roster order is never rearranged.
func InitiativeOrder(c *domain.Combat) []*domain.Combatant {
	if c == nil {
		return nil
	}
	ordered := make([]*domain.Combatant, len(c.Combatants))
	copy(ordered, c.Combatants)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		switch {
		case a.HasInitiative() && !b.HasInitiative():
			return true
		case !a.HasInitiative() && b.HasInitiative():
			return false
		case !a.HasInitiative():
			return false
		default:
			return *a.Initiative < *b.Initiative
		}
	})
	return ordered
}
