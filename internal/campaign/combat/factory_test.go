package combat

import (
	"errors"
	"testing"

	"github.com/tavernkeep/tavernkeep/internal/campaign/domain"
	"github.com/tavernkeep/tavernkeep/internal/compendium"
)

func stubID(value string) func() (string, error) {
	return func() (string, error) { return value, nil }
}

func TestNewPlayerCombatantSnapshot(t *testing.T) {
	player := &domain.Player{
		ID:            "p1",
		CampaignID:    "camp1",
		CharacterName: "Aria",
		HPCurrent:     20,
		HPMax:         20,
		AC:            16,
	}

	combatant, err := NewPlayerCombatant("e1", player, fixedClock(), stubID("cmb1"))
	if err != nil {
		t.Fatalf("new player combatant: %v", err)
	}

	if combatant.ID != "cmb1" || combatant.ID == "e1" || combatant.ID == player.ID {
		t.Fatalf("expected fresh id, got %q", combatant.ID)
	}
	if combatant.EncounterID != "e1" {
		t.Fatalf("expected encounter e1, got %q", combatant.EncounterID)
	}
	if combatant.BaseType != domain.BasePlayer || combatant.BaseID != "p1" {
		t.Fatalf("expected player base, got %s/%s", combatant.BaseType, combatant.BaseID)
	}
	if combatant.Name != "Aria" || combatant.Label != "Aria" {
		t.Fatalf("expected name and label Aria, got %q/%q", combatant.Name, combatant.Label)
	}
	if combatant.HPCurrent != 20 || combatant.HPMax != 20 || combatant.AC != 16 {
		t.Fatalf("expected hp 20/20 ac 16, got %d/%d ac %d", combatant.HPCurrent, combatant.HPMax, combatant.AC)
	}
	if !combatant.Friendly || combatant.Color != "green" {
		t.Fatalf("expected friendly green, got %v/%q", combatant.Friendly, combatant.Color)
	}
	if combatant.Overrides != (domain.StatOverrides{}) {
		t.Fatalf("expected zero overrides, got %+v", combatant.Overrides)
	}
	if combatant.Conditions == nil || len(combatant.Conditions) != 0 {
		t.Fatalf("expected empty conditions slice, got %v", combatant.Conditions)
	}
	if combatant.DeathSaves != (domain.DeathSaves{}) {
		t.Fatalf("expected zero death saves, got %+v", combatant.DeathSaves)
	}
	if combatant.Initiative != nil {
		t.Fatalf("expected unrolled initiative, got %v", combatant.Initiative)
	}
}

func TestNewPlayerCombatantCopiesOverridesAndConditions(t *testing.T) {
	maxOverride := 30
	player := &domain.Player{
		ID:            "p1",
		CharacterName: "Aria",
		Overrides:     &domain.StatOverrides{TempHP: 5, ACBonus: 2, HPMaxOverride: &maxOverride},
		Conditions:    []domain.ConditionRef{{Key: "bless", CasterID: "p2"}},
	}

	combatant, err := NewPlayerCombatant("e1", player, nil, nil)
	if err != nil {
		t.Fatalf("new player combatant: %v", err)
	}

	if combatant.Overrides.TempHP != 5 || combatant.Overrides.ACBonus != 2 {
		t.Fatalf("expected overrides copied, got %+v", combatant.Overrides)
	}
	if len(combatant.Conditions) != 1 || combatant.Conditions[0].Key != "bless" {
		t.Fatalf("expected conditions copied, got %v", combatant.Conditions)
	}

	// The copy is a snapshot, not a shared slice.
	combatant.Conditions[0].Key = "bane"
	if player.Conditions[0].Key != "bless" {
		t.Fatal("expected source conditions untouched")
	}
}

func TestNewPlayerCombatantNilSource(t *testing.T) {
	_, err := NewPlayerCombatant("e1", nil, nil, nil)
	if !errors.Is(err, ErrNilSource) {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
}

func TestNewMonsterCombatantDerivesStats(t *testing.T) {
	armor := 15.0
	monster := &compendium.Monster{
		ID:   "mon-goblin",
		Name: "Goblin",
		AC:   compendium.Field{Num: &armor, Note: "leather armor, shield"},
		HP:   compendium.Field{Text: "7 (2d6)"},
	}

	combatant, err := NewMonsterCombatant("e1", monster, "Goblin 2", false, fixedClock(), stubID("cmb2"))
	if err != nil {
		t.Fatalf("new monster combatant: %v", err)
	}

	if combatant.Name != "Goblin" || combatant.Label != "Goblin 2" {
		t.Fatalf("expected disambiguated label, got %q/%q", combatant.Name, combatant.Label)
	}
	if combatant.HPCurrent != 7 || combatant.HPMax != 7 {
		t.Fatalf("expected hp 7/7, got %d/%d", combatant.HPCurrent, combatant.HPMax)
	}
	if combatant.AC != 15 || combatant.ACDetails != "leather armor, shield" {
		t.Fatalf("expected ac 15 with details, got %d %q", combatant.AC, combatant.ACDetails)
	}
	if combatant.Friendly {
		t.Fatal("expected hostile monster")
	}
	if combatant.BaseType != domain.BaseMonster || combatant.BaseID != "mon-goblin" {
		t.Fatalf("expected monster base, got %s/%s", combatant.BaseType, combatant.BaseID)
	}
}

func TestNewMonsterCombatantDefaultsLabel(t *testing.T) {
	monster := &compendium.Monster{ID: "mon-orc", Name: "Orc"}

	combatant, err := NewMonsterCombatant("e1", monster, "", false, nil, nil)
	if err != nil {
		t.Fatalf("new monster combatant: %v", err)
	}
	if combatant.Label != "Orc" {
		t.Fatalf("expected label Orc, got %q", combatant.Label)
	}
}

func TestNewINPCCombatant(t *testing.T) {
	npc := &domain.INPC{
		ID:        "n1",
		Name:      "Captain Hollis",
		HPCurrent: 31,
		HPMax:     40,
		AC:        18,
		Friendly:  true,
	}

	combatant, err := NewINPCCombatant("e1", npc, fixedClock(), stubID("cmb3"))
	if err != nil {
		t.Fatalf("new inpc combatant: %v", err)
	}

	if combatant.BaseType != domain.BaseINPC || combatant.BaseID != "n1" {
		t.Fatalf("expected inpc base, got %s/%s", combatant.BaseType, combatant.BaseID)
	}
	if combatant.HPCurrent != 31 || combatant.HPMax != 40 || combatant.AC != 18 {
		t.Fatalf("unexpected stats: %+v", combatant)
	}
	if !combatant.Friendly {
		t.Fatal("expected friendly inpc")
	}
	if combatant.Color == "green" {
		t.Fatal("green is reserved for the player faction")
	}
}
