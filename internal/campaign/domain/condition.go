package domain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tavernkeep/tavernkeep/internal/id"
)

// ConditionCategory partitions the condition catalog.
type ConditionCategory string

const (
	// CategoryCondition is a rules condition such as "prone".
	CategoryCondition ConditionCategory = "condition"
	// CategorySpell is a lingering spell effect such as "bless".
	CategorySpell ConditionCategory = "spell"
	// CategoryMarker is a table-side marker with no rules weight.
	CategoryMarker ConditionCategory = "marker"
)

// Condition is a campaign-scoped catalog entry. Builtin entries are seeded
// once at campaign creation and never auto-deleted; user-added entries are
// not builtin.
type Condition struct {
	ID         string            `json:"id"`
	CampaignID string            `json:"campaignId"`
	Name       string            `json:"name"`
	NameKey    string            `json:"nameKey"`
	Category   ConditionCategory `json:"category"`
	SortOrder  int               `json:"sortOrder"`
	IsBuiltin  bool              `json:"isBuiltin"`
}

// ConditionNameKey normalizes a condition name into its lookup key:
// lowercase with every non-alphanumeric rune removed.
func ConditionNameKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type seedEntry struct {
	name     string
	category ConditionCategory
}

// The builtin catalog, in display order.
var builtinConditions = []seedEntry{
	{"Blinded", CategoryCondition},
	{"Charmed", CategoryCondition},
	{"Deafened", CategoryCondition},
	{"Exhaustion", CategoryCondition},
	{"Frightened", CategoryCondition},
	{"Grappled", CategoryCondition},
	{"Incapacitated", CategoryCondition},
	{"Invisible", CategoryCondition},
	{"Paralyzed", CategoryCondition},
	{"Petrified", CategoryCondition},
	{"Poisoned", CategoryCondition},
	{"Prone", CategoryCondition},
	{"Restrained", CategoryCondition},
	{"Stunned", CategoryCondition},
	{"Unconscious", CategoryCondition},
	{"Bane", CategorySpell},
	{"Bless", CategorySpell},
	{"Faerie Fire", CategorySpell},
	{"Haste", CategorySpell},
	{"Hex", CategorySpell},
	{"Hunter's Mark", CategorySpell},
	{"Slow", CategorySpell},
	{"Concentrating", CategoryMarker},
	{"Reaction Used", CategoryMarker},
	{"Surprised", CategoryMarker},
}

// SeedConditions builds the builtin condition catalog for a new campaign.
// The id generator is injectable for deterministic tests; nil means the
// real one.
func SeedConditions(campaignID string, newID func() (string, error)) ([]*Condition, error) {
	if strings.TrimSpace(campaignID) == "" {
		return nil, ErrEmptyCampaignID
	}
	if newID == nil {
		newID = id.New
	}

	seeded := make([]*Condition, 0, len(builtinConditions))
	for i, entry := range builtinConditions {
		conditionID, err := newID()
		if err != nil {
			return nil, fmt.Errorf("generate condition id: %w", err)
		}
		seeded = append(seeded, &Condition{
			ID:         conditionID,
			CampaignID: campaignID,
			Name:       entry.name,
			NameKey:    ConditionNameKey(entry.name),
			Category:   entry.category,
			SortOrder:  i,
			IsBuiltin:  true,
		})
	}
	return seeded, nil
}
