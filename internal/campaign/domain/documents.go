package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tavernkeep/tavernkeep/internal/id"
)

var (
	// ErrEmptyName indicates a missing document name.
	ErrEmptyName = errors.New("name is required")
	// ErrEmptyCampaignID indicates a document without an owning campaign.
	ErrEmptyCampaignID = errors.New("campaign id is required")
)

// Millis converts a time to milliseconds since the Unix epoch, the
// timestamp representation used throughout the persisted document graph.
func Millis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// Campaign is the root document of the graph. Every other document belongs
// to exactly one campaign.
type Campaign struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// NewCampaign creates a campaign with a generated ID and timestamps. The
// clock and id generator are injectable for deterministic tests; nil means
// the real ones.
func NewCampaign(name string, now func() time.Time, newID func() (string, error)) (*Campaign, error) {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = id.New
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	campaignID, err := newID()
	if err != nil {
		return nil, fmt.Errorf("generate campaign id: %w", err)
	}

	createdAt := Millis(now())
	return &Campaign{
		ID:        campaignID,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// Adventure groups encounters and notes under a campaign.
type Adventure struct {
	ID          string `json:"id"`
	CampaignID  string `json:"campaignId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sortOrder"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// Encounter is a planned scene. Its live combat record is created lazily
// and keyed by the encounter id; see Combat.
type Encounter struct {
	ID          string `json:"id"`
	AdventureID string `json:"adventureId"`
	CampaignID  string `json:"campaignId"`
	Name        string `json:"name"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// Player is a player character record owned by a campaign.
type Player struct {
	ID            string         `json:"id"`
	CampaignID    string         `json:"campaignId"`
	CharacterName string         `json:"characterName"`
	PlayerName    string         `json:"playerName,omitempty"`
	HPCurrent     int            `json:"hpCurrent"`
	HPMax         int            `json:"hpMax"`
	AC            int            `json:"ac"`
	ACDetails     string         `json:"acDetails,omitempty"`
	Overrides     *StatOverrides `json:"overrides,omitempty"`
	Conditions    []ConditionRef `json:"conditions,omitempty"`
	CreatedAt     int64          `json:"createdAt"`
	UpdatedAt     int64          `json:"updatedAt"`
}

// INPC is an important NPC: a named, persistent character distinct from a
// bulk monster stat block.
type INPC struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaignId"`
	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	HPCurrent  int    `json:"hpCurrent"`
	HPMax      int    `json:"hpMax"`
	AC         int    `json:"ac"`
	ACDetails  string `json:"acDetails,omitempty"`
	Friendly   bool   `json:"friendly"`
	Notes      string `json:"notes,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt"`
}

// Note is free-form session or adventure prose.
type Note struct {
	ID          string `json:"id"`
	CampaignID  string `json:"campaignId"`
	AdventureID string `json:"adventureId,omitempty"`
	Title       string `json:"title"`
	Body        string `json:"body,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// Treasure is loot attached to a campaign, optionally pinned to one
// encounter.
type Treasure struct {
	ID          string `json:"id"`
	CampaignID  string `json:"campaignId"`
	EncounterID string `json:"encounterId,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Claimed     bool   `json:"claimed"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}
