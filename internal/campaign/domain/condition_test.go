package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestConditionNameKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Prone", "prone"},
		{"Hunter's Mark", "huntersmark"},
		{"Faerie Fire", "faeriefire"},
		{"  Reaction Used  ", "reactionused"},
	}
	for _, tc := range tests {
		if got := ConditionNameKey(tc.name); got != tc.want {
			t.Fatalf("ConditionNameKey(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSeedConditionsCatalog(t *testing.T) {
	sequence := 0
	seeded, err := SeedConditions("camp1", func() (string, error) {
		sequence++
		return fmt.Sprintf("cond%03d", sequence), nil
	})
	if err != nil {
		t.Fatalf("seed conditions: %v", err)
	}
	if len(seeded) == 0 {
		t.Fatal("expected seeded catalog")
	}

	keys := make(map[string]struct{})
	for i, condition := range seeded {
		if condition.CampaignID != "camp1" {
			t.Fatalf("expected campaign id camp1, got %q", condition.CampaignID)
		}
		if !condition.IsBuiltin {
			t.Fatalf("expected builtin flag on %q", condition.Name)
		}
		if condition.SortOrder != i {
			t.Fatalf("expected sort order %d on %q, got %d", i, condition.Name, condition.SortOrder)
		}
		if condition.NameKey != ConditionNameKey(condition.Name) {
			t.Fatalf("name key mismatch on %q: %q", condition.Name, condition.NameKey)
		}
		if _, dup := keys[condition.NameKey]; dup {
			t.Fatalf("duplicate name key %q", condition.NameKey)
		}
		keys[condition.NameKey] = struct{}{}
	}

	categories := map[ConditionCategory]bool{}
	for _, condition := range seeded {
		categories[condition.Category] = true
	}
	for _, want := range []ConditionCategory{CategoryCondition, CategorySpell, CategoryMarker} {
		if !categories[want] {
			t.Fatalf("expected at least one %q entry", want)
		}
	}
}

func TestSeedConditionsRequiresCampaign(t *testing.T) {
	_, err := SeedConditions("  ", nil)
	if !errors.Is(err, ErrEmptyCampaignID) {
		t.Fatalf("expected ErrEmptyCampaignID, got %v", err)
	}
}
