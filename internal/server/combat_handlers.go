package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tavernkeep/tavernkeep/internal/broadcast"
	"github.com/tavernkeep/tavernkeep/internal/campaign/combat"
	"github.com/tavernkeep/tavernkeep/internal/campaign/domain"
	"github.com/tavernkeep/tavernkeep/internal/compendium"
	"github.com/tavernkeep/tavernkeep/internal/compendium/normalize"
	"github.com/tavernkeep/tavernkeep/internal/storage"
)

// combatResponse is the combat record plus two derived views: the phase
// string and the initiative-ordered roster ids. The stored roster order is
// insertion order and is never rearranged.
type combatResponse struct {
	*domain.Combat
	Status string   `json:"status"`
	Order  []string `json:"order"`
}

func newCombatResponse(c *domain.Combat) combatResponse {
	order := make([]string, 0, len(c.Combatants))
	for _, combatant := range combat.InitiativeOrder(c) {
		order = append(order, combatant.ID)
	}
	return combatResponse{Combat: c, Status: combat.StatusOf(c).String(), Order: order}
}

// encounterScope resolves the broadcast scope for an encounter, or reports
// that the encounter does not exist.
func (s *Server) encounterScope(encounterID string) (broadcast.Scope, bool) {
	var scope broadcast.Scope
	found := false
	s.store.View(func(data *storage.Data) {
		if encounter := data.Encounters[encounterID]; encounter != nil {
			scope = broadcast.Scope{CampaignID: encounter.CampaignID, EncounterID: encounterID}
			found = true
		}
	})
	return scope, found
}

func (s *Server) handleGetCombat(w http.ResponseWriter, r *http.Request) {
	encounterID := r.PathValue("id")
	if _, ok := s.encounterScope(encounterID); !ok {
		writeError(w, http.StatusNotFound, "encounter %s not found", encounterID)
		return
	}

	var record *domain.Combat
	s.store.View(func(data *storage.Data) {
		record = data.Combats[encounterID].Clone()
	})
	if record == nil {
		// First touch creates the record, which is a durable mutation.
		s.store.Update(func(data *storage.Data) {
			record = combat.Ensure(data.Combats, encounterID, s.now).Clone()
		})
	}

	writeJSON(w, http.StatusOK, newCombatResponse(record))
}

type patchCombatStateRequest struct {
	Round             *int           `json:"round"`
	ActiveIndex       *int           `json:"activeIndex"`
	ActiveCombatantID optionalString `json:"activeCombatantId"`
	TargetCombatantID optionalString `json:"targetCombatantId"`
}

func (s *Server) handlePatchCombatState(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "combat.patchState")
	defer span.End()

	encounterID := r.PathValue("id")
	scope, ok := s.encounterScope(encounterID)
	if !ok {
		writeError(w, http.StatusNotFound, "encounter %s not found", encounterID)
		return
	}

	var req patchCombatStateRequest
	if !readJSON(w, r, &req) {
		return
	}

	update := combat.StateUpdate{
		Round:             req.Round,
		ActiveIndex:       req.ActiveIndex,
		SetActive:         req.ActiveCombatantID.set,
		ActiveCombatantID: req.ActiveCombatantID.value,
		SetTarget:         req.TargetCombatantID.set,
		TargetCombatantID: req.TargetCombatantID.value,
	}

	var record *domain.Combat
	s.store.Update(func(data *storage.Data) {
		live := combat.Ensure(data.Combats, encounterID, s.now)
		combat.ApplyState(live, update, s.now)
		record = live.Clone()
	})
	s.hub.Publish(broadcast.CombatStateChanged, scope)

	writeJSON(w, http.StatusOK, newCombatResponse(record))
}

type addCombatantRequest struct {
	Type     string `json:"type"`
	BaseID   string `json:"baseId"`
	Label    string `json:"label"`
	Friendly *bool  `json:"friendly"`
	Count    int    `json:"count"`
}

func (s *Server) handleAddCombatant(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "combat.addCombatant")
	defer span.End()

	encounterID := r.PathValue("id")
	scope, ok := s.encounterScope(encounterID)
	if !ok {
		writeError(w, http.StatusNotFound, "encounter %s not found", encounterID)
		return
	}

	var req addCombatantRequest
	if !readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.BaseID) == "" {
		writeError(w, http.StatusBadRequest, "baseId is required")
		return
	}

	switch domain.BaseType(req.Type) {
	case domain.BasePlayer:
		s.addPlayerCombatant(w, encounterID, scope, req)
	case domain.BaseINPC:
		s.addINPCCombatant(w, encounterID, scope, req)
	case domain.BaseMonster:
		if s.compendium == nil {
			writeError(w, http.StatusServiceUnavailable, "no compendium configured")
			return
		}
		monster, err := s.compendium.Monster(ctx, req.BaseID)
		if errors.Is(err, compendium.ErrNotFound) {
			writeError(w, http.StatusNotFound, "monster %s not found", req.BaseID)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "load monster: %v", err)
			return
		}
		s.addMonsterCombatants(w, encounterID, scope, req, &monster)
	default:
		writeError(w, http.StatusBadRequest, "unknown combatant type %q", req.Type)
	}
}

func (s *Server) addPlayerCombatant(w http.ResponseWriter, encounterID string, scope broadcast.Scope, req addCombatantRequest) {
	var added *domain.Combatant
	var failure error
	status := http.StatusInternalServerError

	s.store.Update(func(data *storage.Data) {
		player := data.Players[req.BaseID]
		if player == nil {
			failure = fmt.Errorf("player %s not found", req.BaseID)
			status = http.StatusNotFound
			return
		}
		record := combat.Ensure(data.Combats, encounterID, s.now)
		if hasBaseCombatant(record, domain.BasePlayer, req.BaseID) {
			failure = fmt.Errorf("player %s is already in this combat", req.BaseID)
			status = http.StatusConflict
			return
		}
		combatant, err := combat.NewPlayerCombatant(encounterID, player, s.now, s.newID)
		if err != nil {
			failure = err
			return
		}
		record.Combatants = append(record.Combatants, combatant)
		record.UpdatedAt = domain.Millis(s.now())
		added = combatant.Clone()
	})
	if failure != nil {
		writeError(w, status, "%v", failure)
		return
	}

	s.hub.Publish(broadcast.CombatantsChanged, scope)
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) addINPCCombatant(w http.ResponseWriter, encounterID string, scope broadcast.Scope, req addCombatantRequest) {
	var added *domain.Combatant
	var failure error
	status := http.StatusInternalServerError

	s.store.Update(func(data *storage.Data) {
		npc := data.INPCs[req.BaseID]
		if npc == nil {
			failure = fmt.Errorf("npc %s not found", req.BaseID)
			status = http.StatusNotFound
			return
		}
		record := combat.Ensure(data.Combats, encounterID, s.now)
		if hasBaseCombatant(record, domain.BaseINPC, req.BaseID) {
			failure = fmt.Errorf("npc %s is already in this combat", req.BaseID)
			status = http.StatusConflict
			return
		}
		combatant, err := combat.NewINPCCombatant(encounterID, npc, s.now, s.newID)
		if err != nil {
			failure = err
			return
		}
		record.Combatants = append(record.Combatants, combatant)
		record.UpdatedAt = domain.Millis(s.now())
		added = combatant.Clone()
	})
	if failure != nil {
		writeError(w, status, "%v", failure)
		return
	}

	s.hub.Publish(broadcast.CombatantsChanged, scope)
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) addMonsterCombatants(w http.ResponseWriter, encounterID string, scope broadcast.Scope, req addCombatantRequest, monster *compendium.Monster) {
	count := req.Count
	if count < 1 {
		count = 1
	}
	friendly := req.Friendly != nil && *req.Friendly

	// An explicit label replaces the monster name as the numbering base so
	// that bulk adds still get distinct labels.
	base := strings.TrimSpace(req.Label)
	if base == "" {
		base = monster.Name
	}

	var added []*domain.Combatant
	var failure error

	s.store.Update(func(data *storage.Data) {
		record := combat.Ensure(data.Combats, encounterID, s.now)
		for i := 0; i < count; i++ {
			combatant, err := combat.NewMonsterCombatant(encounterID, monster, rosterLabel(record, base), friendly, s.now, s.newID)
			if err != nil {
				failure = err
				return
			}
			record.Combatants = append(record.Combatants, combatant)
			added = append(added, combatant.Clone())
		}
		record.UpdatedAt = domain.Millis(s.now())
	})
	if failure != nil {
		writeError(w, http.StatusInternalServerError, "%v", failure)
		return
	}

	s.hub.Publish(broadcast.CombatantsChanged, scope)
	writeJSON(w, http.StatusCreated, added)
}

// hasBaseCombatant reports whether the roster already holds a combatant
// derived from the given source record. Monsters are exempt; duplicates of
// the same stat block are the normal case.
func hasBaseCombatant(c *domain.Combat, baseType domain.BaseType, baseID string) bool {
	for _, combatant := range c.Combatants {
		if combatant.BaseType == baseType && combatant.BaseID == baseID {
			return true
		}
	}
	return false
}

// rosterLabel picks the display label for a new bulk combatant: the bare
// base name when the roster holds neither the base nor any numbered form,
// otherwise the next free number starting at 2.
func rosterLabel(c *domain.Combat, base string) string {
	next := combat.NextLabelNumber(c, base)
	hasBase := false
	for _, combatant := range c.Combatants {
		if strings.EqualFold(combatant.Label, base) {
			hasBase = true
			break
		}
	}
	if !hasBase && next == 1 {
		return base
	}
	if next == 1 {
		next = 2
	}
	return fmt.Sprintf("%s %d", base, next)
}

type patchCombatantRequest struct {
	Label           *string                          `json:"label"`
	Initiative      optionalInt                      `json:"initiative"`
	HPCurrent       *int                             `json:"hpCurrent"`
	HPMax           *int                             `json:"hpMax"`
	AC              *int                             `json:"ac"`
	ACDetails       *string                          `json:"acDetails"`
	Color           *string                          `json:"color"`
	Friendly        *bool                            `json:"friendly"`
	Overrides       *domain.StatOverrides            `json:"overrides"`
	AttackOverrides map[string]domain.AttackOverride `json:"attackOverrides"`
	Conditions      *[]domain.ConditionRef           `json:"conditions"`
	DeathSaves      *domain.DeathSaves               `json:"deathSaves"`
}

func (s *Server) handlePatchCombatant(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "combat.patchCombatant")
	defer span.End()

	encounterID := r.PathValue("id")
	combatantID := r.PathValue("combatantId")
	scope, ok := s.encounterScope(encounterID)
	if !ok {
		writeError(w, http.StatusNotFound, "encounter %s not found", encounterID)
		return
	}

	var req patchCombatantRequest
	if !readJSON(w, r, &req) {
		return
	}

	var updated *domain.Combatant
	s.store.Update(func(data *storage.Data) {
		combatant := data.Combats[encounterID].Combatant(combatantID)
		if combatant == nil {
			return
		}
		applyCombatantPatch(combatant, req)
		combatant.UpdatedAt = domain.Millis(s.now())
		updated = combatant.Clone()
	})
	if updated == nil {
		writeError(w, http.StatusNotFound, "combatant %s not found", combatantID)
		return
	}

	s.hub.Publish(broadcast.CombatantsChanged, scope)
	writeJSON(w, http.StatusOK, updated)
}

func applyCombatantPatch(combatant *domain.Combatant, req patchCombatantRequest) {
	if req.Label != nil && strings.TrimSpace(*req.Label) != "" {
		combatant.Label = strings.TrimSpace(*req.Label)
	}
	if req.Initiative.set {
		combatant.Initiative = req.Initiative.value
	}
	if req.HPCurrent != nil {
		combatant.HPCurrent = *req.HPCurrent
	}
	if req.HPMax != nil {
		combatant.HPMax = *req.HPMax
	}
	if req.AC != nil {
		combatant.AC = *req.AC
	}
	if req.ACDetails != nil {
		combatant.ACDetails = *req.ACDetails
	}
	if req.Color != nil {
		combatant.Color = *req.Color
	}
	if req.Friendly != nil {
		combatant.Friendly = *req.Friendly
	}
	if req.Overrides != nil {
		combatant.Overrides = *req.Overrides
	}
	if req.AttackOverrides != nil {
		combatant.AttackOverrides = req.AttackOverrides
	}
	if req.Conditions != nil {
		combatant.Conditions = *req.Conditions
	}
	if req.DeathSaves != nil {
		combatant.DeathSaves = *req.DeathSaves
	}
}

func (s *Server) handleDeleteCombatant(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "combat.deleteCombatant")
	defer span.End()

	encounterID := r.PathValue("id")
	combatantID := r.PathValue("combatantId")
	scope, ok := s.encounterScope(encounterID)
	if !ok {
		writeError(w, http.StatusNotFound, "encounter %s not found", encounterID)
		return
	}

	removed := false
	s.store.Update(func(data *storage.Data) {
		removed = combat.RemoveCombatant(data.Combats[encounterID], combatantID, s.now)
	})
	if !removed {
		writeError(w, http.StatusNotFound, "combatant %s not found", combatantID)
		return
	}

	s.hub.Publish(broadcast.CombatantsChanged, scope)
	w.WriteHeader(http.StatusNoContent)
}

// renderedAction is one stat-block action with the combatant's overrides
// spliced into the text and the structured attack fields re-parsed from
// the result.
type renderedAction struct {
	Name   string           `json:"name"`
	Text   string           `json:"text"`
	Attack normalize.Attack `json:"attack"`
}

func (s *Server) handleCombatantActions(w http.ResponseWriter, r *http.Request) {
	encounterID := r.PathValue("id")
	combatantID := r.PathValue("combatantId")
	if _, ok := s.encounterScope(encounterID); !ok {
		writeError(w, http.StatusNotFound, "encounter %s not found", encounterID)
		return
	}

	var combatant *domain.Combatant
	s.store.View(func(data *storage.Data) {
		combatant = data.Combats[encounterID].Combatant(combatantID).Clone()
	})
	if combatant == nil {
		writeError(w, http.StatusNotFound, "combatant %s not found", combatantID)
		return
	}

	actions := []renderedAction{}
	if combatant.BaseType == domain.BaseMonster && s.compendium != nil {
		monster, err := s.compendium.Monster(r.Context(), combatant.BaseID)
		if err != nil && !errors.Is(err, compendium.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "load monster: %v", err)
			return
		}
		for _, action := range monster.Actions {
			text := action.Text
			if override, ok := combatant.AttackOverrides[action.Name]; ok {
				text = normalize.PatchAttack(text, normalize.AttackPatch{
					ToHit:      override.ToHit,
					Damage:     override.Damage,
					DamageType: override.DamageType,
				})
			}
			actions = append(actions, renderedAction{
				Name:   action.Name,
				Text:   text,
				Attack: normalize.ParseAttack(text),
			})
		}
	}

	writeJSON(w, http.StatusOK, actions)
}

func (s *Server) handleSearchMonsters(w http.ResponseWriter, r *http.Request) {
	if s.compendium == nil {
		writeError(w, http.StatusServiceUnavailable, "no compendium configured")
		return
	}

	query := r.URL.Query().Get("q")
	var maxCR *float64
	if raw := r.URL.Query().Get("maxCr"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid maxCr %q", raw)
			return
		}
		maxCR = &value
	}

	results, err := s.compendium.SearchMonsters(r.Context(), query, maxCR)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "search monsters: %v", err)
		return
	}
	if results == nil {
		results = []compendium.Monster{}
	}
	writeJSON(w, http.StatusOK, results)
}
