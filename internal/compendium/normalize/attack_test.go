package normalize

import "testing"

func TestParseAttackMelee(t *testing.T) {
	attack := ParseAttack("Melee Weapon Attack: +5 to hit, reach 5 ft., one target. Hit: (1d8+3) slashing damage.")

	if attack.ToHit == nil || *attack.ToHit != 5 {
		t.Fatalf("expected to-hit 5, got %v", attack.ToHit)
	}
	if attack.Reach != "5ft" {
		t.Fatalf("expected reach 5ft, got %q", attack.Reach)
	}
	if attack.Range != "" {
		t.Fatalf("expected no range, got %q", attack.Range)
	}
	if !attack.Melee || attack.Ranged {
		t.Fatalf("expected melee only, got melee=%v ranged=%v", attack.Melee, attack.Ranged)
	}
	if attack.Damage != "1d8+3" {
		t.Fatalf("expected damage 1d8+3, got %q", attack.Damage)
	}
	if attack.DamageType != "slashing" {
		t.Fatalf("expected slashing, got %q", attack.DamageType)
	}
}

func TestParseAttackRangedWithStatedAverage(t *testing.T) {
	attack := ParseAttack("Ranged Weapon Attack: +4 to hit, range 80/320 ft., one target. Hit: 5 (1d6+2) piercing damage.")

	if attack.ToHit == nil || *attack.ToHit != 4 {
		t.Fatalf("expected to-hit 4, got %v", attack.ToHit)
	}
	if attack.Range != "80/320ft" {
		t.Fatalf("expected range 80/320ft, got %q", attack.Range)
	}
	if attack.Melee || !attack.Ranged {
		t.Fatalf("expected ranged only, got melee=%v ranged=%v", attack.Melee, attack.Ranged)
	}
	if attack.Damage != "1d6+2" || attack.DamageType != "piercing" {
		t.Fatalf("expected 1d6+2 piercing, got %q %q", attack.Damage, attack.DamageType)
	}
}

func TestParseAttackMeleeOrRanged(t *testing.T) {
	attack := ParseAttack("Melee or Ranged Weapon Attack: +2 to hit, reach 5 ft. or range 20/60 ft., one target. Hit: (1d6) piercing damage.")

	if !attack.Melee || !attack.Ranged {
		t.Fatalf("expected both melee and ranged, got melee=%v ranged=%v", attack.Melee, attack.Ranged)
	}
	if attack.Reach != "5ft" {
		t.Fatalf("expected reach 5ft, got %q", attack.Reach)
	}
}

func TestParseAttackNegativeToHit(t *testing.T) {
	attack := ParseAttack("Melee Weapon Attack: -1 to hit, reach 5 ft., one target. Hit: (1d4-1) bludgeoning damage.")

	if attack.ToHit == nil || *attack.ToHit != -1 {
		t.Fatalf("expected to-hit -1, got %v", attack.ToHit)
	}
	if attack.Damage != "1d4-1" {
		t.Fatalf("expected damage 1d4-1, got %q", attack.Damage)
	}
}

func TestParseAttackMalformed(t *testing.T) {
	attack := ParseAttack("The creature lets out a piercing shriek.")

	if attack.ToHit != nil {
		t.Fatalf("expected nil to-hit, got %v", attack.ToHit)
	}
	if attack.Damage != "" || attack.DamageType != "" || attack.Reach != "" || attack.Range != "" {
		t.Fatalf("expected empty fields, got %+v", attack)
	}
}

func TestPatchAttackToHitOnly(t *testing.T) {
	original := "Melee Weapon Attack: +5 to hit, reach 5 ft., one target. Hit: (1d8+3) slashing damage."
	seven := 7

	patched := PatchAttack(original, AttackPatch{ToHit: &seven})

	want := "Melee Weapon Attack: +7 to hit, reach 5 ft., one target. Hit: (1d8+3) slashing damage."
	if patched != want {
		t.Fatalf("expected %q, got %q", want, patched)
	}
}

func TestPatchAttackDamageAndType(t *testing.T) {
	original := "Melee Weapon Attack: +5 to hit, reach 5 ft., one target. Hit: 7 (1d8+3) slashing damage."

	patched := PatchAttack(original, AttackPatch{Damage: "2d8+4", DamageType: "fire"})

	want := "Melee Weapon Attack: +5 to hit, reach 5 ft., one target. Hit: 7 (2d8+4) fire damage."
	if patched != want {
		t.Fatalf("expected %q, got %q", want, patched)
	}
}

func TestPatchAttackEmptyPatch(t *testing.T) {
	original := "Melee Weapon Attack: +5 to hit, reach 5 ft., one target. Hit: (1d8+3) slashing damage."

	if patched := PatchAttack(original, AttackPatch{}); patched != original {
		t.Fatalf("expected unchanged text, got %q", patched)
	}
}

func TestPatchAttackMalformedText(t *testing.T) {
	nine := 9
	original := "Hold Person (2nd level, concentration)."

	if patched := PatchAttack(original, AttackPatch{ToHit: &nine, Damage: "1d1"}); patched != original {
		t.Fatalf("expected unchanged text, got %q", patched)
	}
}
