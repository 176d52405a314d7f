package domain

// BaseType identifies which source record a combatant derives from.
type BaseType string

const (
	// BasePlayer derives the combatant from a Player record.
	BasePlayer BaseType = "player"
	// BaseMonster derives the combatant from a compendium monster.
	BaseMonster BaseType = "monster"
	// BaseINPC derives the combatant from an INPC record.
	BaseINPC BaseType = "inpc"
)

// StatOverrides layers additive modifiers on top of base stats. Base stats
// are never mutated directly.
type StatOverrides struct {
	TempHP        int  `json:"tempHp"`
	ACBonus       int  `json:"acBonus"`
	HPMaxOverride *int `json:"hpMaxOverride"`
}

// AttackOverride is a partial rewrite of one monster action's attack text,
// applied at render time. Nil/empty fields leave the original text alone.
type AttackOverride struct {
	ToHit      *int   `json:"toHit,omitempty"`
	Damage     string `json:"damage,omitempty"`
	DamageType string `json:"damageType,omitempty"`
}

// ConditionRef marks an applied condition on a combatant. Duplicates are
// permitted; slice order is application order.
type ConditionRef struct {
	Key      string `json:"key"`
	CasterID string `json:"casterId,omitempty"`
}

// DeathSaves tracks death saving throws, meaningful only for player-type
// combatants in a dying state.
type DeathSaves struct {
	Success int `json:"success"`
	Fail    int `json:"fail"`
}

// Combatant is a participant instance in a Combat. Name, label, hp, and ac
// are denormalized snapshots taken at creation so the combatant survives
// deletion of its source record.
type Combatant struct {
	ID              string                    `json:"id"`
	EncounterID     string                    `json:"encounterId"`
	BaseType        BaseType                  `json:"baseType"`
	BaseID          string                    `json:"baseId"`
	Name            string                    `json:"name"`
	Label           string                    `json:"label"`
	Initiative      *int                      `json:"initiative"`
	Friendly        bool                      `json:"friendly"`
	Color           string                    `json:"color,omitempty"`
	Overrides       StatOverrides             `json:"overrides"`
	HPCurrent       int                       `json:"hpCurrent"`
	HPMax           int                       `json:"hpMax"`
	AC              int                       `json:"ac"`
	ACDetails       string                    `json:"acDetails,omitempty"`
	AttackOverrides map[string]AttackOverride `json:"attackOverrides,omitempty"`
	Conditions      []ConditionRef            `json:"conditions"`
	DeathSaves      DeathSaves                `json:"deathSaves"`
	CreatedAt       int64                     `json:"createdAt"`
	UpdatedAt       int64                     `json:"updatedAt"`
}

// HasInitiative reports whether the combatant has a rolled initiative.
// Nil and zero both mean "not yet rolled".
func (c *Combatant) HasInitiative() bool {
	return c != nil && c.Initiative != nil && *c.Initiative != 0
}

// Clone returns a deep copy. Handlers must clone records they want to keep
// past the store callback; the stored record keeps changing under the lock.
func (c *Combatant) Clone() *Combatant {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Initiative != nil {
		initiative := *c.Initiative
		clone.Initiative = &initiative
	}
	if c.Overrides.HPMaxOverride != nil {
		hpMax := *c.Overrides.HPMaxOverride
		clone.Overrides.HPMaxOverride = &hpMax
	}
	if c.AttackOverrides != nil {
		clone.AttackOverrides = make(map[string]AttackOverride, len(c.AttackOverrides))
		for name, override := range c.AttackOverrides {
			if override.ToHit != nil {
				toHit := *override.ToHit
				override.ToHit = &toHit
			}
			clone.AttackOverrides[name] = override
		}
	}
	if c.Conditions != nil {
		clone.Conditions = append([]ConditionRef(nil), c.Conditions...)
	}
	return &clone
}

// Combat is the live turn-order state for one encounter, created lazily on
// the first lifecycle operation that touches the encounter. Combatant order
// is insertion order; initiative ordering is a derived view.
type Combat struct {
	EncounterID       string       `json:"encounterId"`
	Round             int          `json:"round"`
	ActiveIndex       int          `json:"activeIndex"`
	ActiveCombatantID *string      `json:"activeCombatantId"`
	TargetCombatantID *string      `json:"targetCombatantId,omitempty"`
	Combatants        []*Combatant `json:"combatants"`
	CreatedAt         int64        `json:"createdAt"`
	UpdatedAt         int64        `json:"updatedAt"`
}

// Clone returns a deep copy of the combat record and its roster.
func (c *Combat) Clone() *Combat {
	if c == nil {
		return nil
	}
	clone := *c
	if c.ActiveCombatantID != nil {
		id := *c.ActiveCombatantID
		clone.ActiveCombatantID = &id
	}
	if c.TargetCombatantID != nil {
		id := *c.TargetCombatantID
		clone.TargetCombatantID = &id
	}
	if c.Combatants != nil {
		clone.Combatants = make([]*Combatant, len(c.Combatants))
		for i, combatant := range c.Combatants {
			clone.Combatants[i] = combatant.Clone()
		}
	}
	return &clone
}

// Combatant returns the roster entry with the given id, or nil.
func (c *Combat) Combatant(combatantID string) *Combatant {
	if c == nil {
		return nil
	}
	for _, entry := range c.Combatants {
		if entry.ID == combatantID {
			return entry
		}
	}
	return nil
}
