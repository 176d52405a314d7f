package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Attack is the structured form of one attack sentence. Fields the sentence
// does not supply stay at their zero values; ToHit stays nil.
type Attack struct {
	ToHit      *int   `json:"toHit"`
	Reach      string `json:"reach,omitempty"`
	Range      string `json:"range,omitempty"`
	Melee      bool   `json:"melee"`
	Ranged     bool   `json:"ranged"`
	Damage     string `json:"damage,omitempty"`
	DamageType string `json:"damageType,omitempty"`
}

// AttackPatch is a partial override applied to an attack sentence. Nil or
// empty fields leave the corresponding substring untouched.
type AttackPatch struct {
	ToHit      *int
	Damage     string
	DamageType string
}

var (
	toHitPattern  = regexp.MustCompile(`([+-]\d+)\s+to\s+hit`)
	reachPattern  = regexp.MustCompile(`(?i)reach\s+([^,.]+)`)
	rangePattern  = regexp.MustCompile(`(?i)range\s+([^,.]+)`)
	damagePattern = regexp.MustCompile(`(?i)hit:[^(]*\(([^)]+)\)\s*([a-z]+)`)
)

// ParseAttack extracts the structured fields from a stat-block attack
// sentence of the shape
//
//	"Melee Weapon Attack: +5 to hit, reach 5 ft., one target. Hit: (1d8+3) slashing damage."
//
// A sentence that does not match yields a result with nil/empty fields.
func ParseAttack(text string) Attack {
	var attack Attack

	head := text
	if idx := strings.Index(text, ":"); idx >= 0 {
		head = text[:idx]
	}
	lowerHead := strings.ToLower(head)
	attack.Melee = strings.Contains(lowerHead, "melee")
	attack.Ranged = strings.Contains(lowerHead, "ranged")

	if match := toHitPattern.FindStringSubmatch(text); match != nil {
		if value, err := strconv.Atoi(match[1]); err == nil {
			attack.ToHit = &value
		}
	}
	if match := reachPattern.FindStringSubmatch(text); match != nil {
		attack.Reach = compactClause(match[1])
	}
	if match := rangePattern.FindStringSubmatch(text); match != nil {
		attack.Range = compactClause(match[1])
	}
	if match := damagePattern.FindStringSubmatch(text); match != nil {
		attack.Damage = stripSpace(match[1])
		attack.DamageType = strings.ToLower(match[2])
	}

	return attack
}

// PatchAttack rewrites only the overridden substrings of an attack sentence
// in place, leaving the rest of the sentence untouched. An empty patch
// returns the text unchanged.
func PatchAttack(text string, patch AttackPatch) string {
	if patch.ToHit != nil {
		if loc := toHitPattern.FindStringSubmatchIndex(text); loc != nil {
			text = text[:loc[2]] + fmt.Sprintf("%+d", *patch.ToHit) + text[loc[3]:]
		}
	}
	if patch.Damage != "" {
		if loc := damagePattern.FindStringSubmatchIndex(text); loc != nil {
			text = text[:loc[2]] + patch.Damage + text[loc[3]:]
		}
	}
	if patch.DamageType != "" {
		if loc := damagePattern.FindStringSubmatchIndex(text); loc != nil {
			text = text[:loc[4]] + patch.DamageType + text[loc[5]:]
		}
	}
	return text
}

// compactClause trims trailing periods and whitespace from a reach/range
// clause and drops interior spaces ("5 ft." becomes "5ft").
func compactClause(clause string) string {
	clause = strings.TrimRight(strings.TrimSpace(clause), ". \t")
	return stripSpace(clause)
}

func stripSpace(value string) string {
	return strings.Join(strings.Fields(value), "")
}
