package combat

import (
	"errors"
	"fmt"
	"time"

	"github.com/tavernkeep/tavernkeep/internal/campaign/domain"
	"github.com/tavernkeep/tavernkeep/internal/compendium"
	"github.com/tavernkeep/tavernkeep/internal/compendium/normalize"
	"github.com/tavernkeep/tavernkeep/internal/id"
)

// Players are always the friendly faction in this tracker; the UI keys off
// the color.
const playerColor = "green"

// ErrNilSource indicates a factory call without a source record.
var ErrNilSource = errors.New("source record is required")

// NewPlayerCombatant materializes a combatant from a player record. Name,
// label, hp, and ac are copied verbatim as a snapshot: later edits to the
// player record do not touch an existing combatant. The factory does not
// validate the source; missing stats carry through as zero values.
func NewPlayerCombatant(encounterID string, player *domain.Player, now func() time.Time, newID func() (string, error)) (*domain.Combatant, error) {
	if player == nil {
		return nil, ErrNilSource
	}

	combatant, err := newCombatant(encounterID, domain.BasePlayer, player.ID, player.CharacterName, now, newID)
	if err != nil {
		return nil, err
	}
	combatant.HPCurrent = player.HPCurrent
	combatant.HPMax = player.HPMax
	combatant.AC = player.AC
	combatant.ACDetails = player.ACDetails
	combatant.Friendly = true
	combatant.Color = playerColor
	if player.Overrides != nil {
		combatant.Overrides = *player.Overrides
	}
	if len(player.Conditions) > 0 {
		combatant.Conditions = append([]domain.ConditionRef(nil), player.Conditions...)
	}
	return combatant, nil
}

// NewMonsterCombatant materializes a combatant from a compendium monster.
// The label should already carry the caller's disambiguating suffix (see
// NextLabelNumber); an empty label defaults to the monster name. Hit points
// derive from the normalized HP field's leading integer.
func NewMonsterCombatant(encounterID string, monster *compendium.Monster, label string, friendly bool, now func() time.Time, newID func() (string, error)) (*domain.Combatant, error) {
	if monster == nil {
		return nil, ErrNilSource
	}

	combatant, err := newCombatant(encounterID, domain.BaseMonster, monster.ID, monster.Name, now, newID)
	if err != nil {
		return nil, err
	}
	if label != "" {
		combatant.Label = label
	}
	combatant.Friendly = friendly

	hpText := normalize.NormalizeHP(monster.HP.String())
	if hp, ok := (compendium.Field{Text: hpText}).Int(); ok {
		combatant.HPCurrent = hp
		combatant.HPMax = hp
	}
	if ac, ok := monster.AC.Int(); ok {
		combatant.AC = ac
	}
	combatant.ACDetails = monster.AC.Note

	return combatant, nil
}

// NewINPCCombatant materializes a combatant from an important-NPC record,
// snapshotting stats the same way the player path does.
func NewINPCCombatant(encounterID string, npc *domain.INPC, now func() time.Time, newID func() (string, error)) (*domain.Combatant, error) {
	if npc == nil {
		return nil, ErrNilSource
	}

	combatant, err := newCombatant(encounterID, domain.BaseINPC, npc.ID, npc.Name, now, newID)
	if err != nil {
		return nil, err
	}
	combatant.HPCurrent = npc.HPCurrent
	combatant.HPMax = npc.HPMax
	combatant.AC = npc.AC
	combatant.ACDetails = npc.ACDetails
	combatant.Friendly = npc.Friendly
	return combatant, nil
}

func newCombatant(encounterID string, baseType domain.BaseType, baseID, name string, now func() time.Time, newID func() (string, error)) (*domain.Combatant, error) {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = id.New
	}

	combatantID, err := newID()
	if err != nil {
		return nil, fmt.Errorf("generate combatant id: %w", err)
	}

	createdAt := domain.Millis(now())
	return &domain.Combatant{
		ID:          combatantID,
		EncounterID: encounterID,
		BaseType:    baseType,
		BaseID:      baseID,
		Name:        name,
		Label:       name,
		Overrides:   domain.StatOverrides{},
		Conditions:  []domain.ConditionRef{},
		DeathSaves:  domain.DeathSaves{},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}
