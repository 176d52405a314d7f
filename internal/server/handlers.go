package server

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/tavernkeep/tavernkeep/internal/broadcast"
	"github.com/tavernkeep/tavernkeep/internal/campaign/domain"
	"github.com/tavernkeep/tavernkeep/internal/storage"
)

type createCampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "campaign.create")
	defer span.End()

	var req createCampaignRequest
	if !readJSON(w, r, &req) {
		return
	}

	campaign, err := domain.NewCampaign(req.Name, s.now, s.newID)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, "campaign name is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "create campaign: %v", err)
		return
	}
	campaign.Description = strings.TrimSpace(req.Description)

	conditions, err := domain.SeedConditions(campaign.ID, s.newID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "seed conditions: %v", err)
		return
	}

	s.store.Update(func(data *storage.Data) {
		data.Campaigns[campaign.ID] = campaign
		for _, condition := range conditions {
			data.Conditions[condition.ID] = condition
		}
	})
	s.hub.Publish(broadcast.CampaignChanged, broadcast.Scope{CampaignID: campaign.ID, ID: campaign.ID})

	writeJSON(w, http.StatusCreated, campaign)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns := []*domain.Campaign{}
	s.store.View(func(data *storage.Data) {
		for _, campaign := range data.Campaigns {
			campaigns = append(campaigns, campaign)
		}
	})
	sort.Slice(campaigns, func(i, j int) bool {
		if campaigns[i].CreatedAt != campaigns[j].CreatedAt {
			return campaigns[i].CreatedAt < campaigns[j].CreatedAt
		}
		return campaigns[i].ID < campaigns[j].ID
	})
	writeJSON(w, http.StatusOK, campaigns)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")
	var campaign *domain.Campaign
	s.store.View(func(data *storage.Data) {
		campaign = data.Campaigns[campaignID]
	})
	if campaign == nil {
		writeError(w, http.StatusNotFound, "campaign %s not found", campaignID)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

// campaignExists guards child-document creation against dangling parents.
func (s *Server) campaignExists(campaignID string) bool {
	exists := false
	s.store.View(func(data *storage.Data) {
		_, exists = data.Campaigns[campaignID]
	})
	return exists
}

type createAdventureRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
}

func (s *Server) handleCreateAdventure(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "adventure.create")
	defer span.End()

	campaignID := r.PathValue("id")
	if !s.campaignExists(campaignID) {
		writeError(w, http.StatusNotFound, "campaign %s not found", campaignID)
		return
	}

	var req createAdventureRequest
	if !readJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "adventure name is required")
		return
	}

	adventureID, err := s.newID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "generate adventure id: %v", err)
		return
	}
	createdAt := domain.Millis(s.now())
	adventure := &domain.Adventure{
		ID:          adventureID,
		CampaignID:  campaignID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		SortOrder:   req.SortOrder,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	s.store.Update(func(data *storage.Data) {
		data.Adventures[adventure.ID] = adventure
	})
	s.hub.Publish(broadcast.AdventureChanged, broadcast.Scope{CampaignID: campaignID, ID: adventure.ID})

	writeJSON(w, http.StatusCreated, adventure)
}

func (s *Server) handleListAdventures(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")
	adventures := []*domain.Adventure{}
	s.store.View(func(data *storage.Data) {
		for _, adventure := range data.Adventures {
			if adventure.CampaignID == campaignID {
				adventures = append(adventures, adventure)
			}
		}
	})
	sort.Slice(adventures, func(i, j int) bool {
		if adventures[i].SortOrder != adventures[j].SortOrder {
			return adventures[i].SortOrder < adventures[j].SortOrder
		}
		return adventures[i].CreatedAt < adventures[j].CreatedAt
	})
	writeJSON(w, http.StatusOK, adventures)
}

type createEncounterRequest struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

func (s *Server) handleCreateEncounter(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "encounter.create")
	defer span.End()

	adventureID := r.PathValue("id")
	var adventure *domain.Adventure
	s.store.View(func(data *storage.Data) {
		adventure = data.Adventures[adventureID]
	})
	if adventure == nil {
		writeError(w, http.StatusNotFound, "adventure %s not found", adventureID)
		return
	}

	var req createEncounterRequest
	if !readJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "encounter name is required")
		return
	}

	encounterID, err := s.newID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "generate encounter id: %v", err)
		return
	}
	createdAt := domain.Millis(s.now())
	encounter := &domain.Encounter{
		ID:          encounterID,
		AdventureID: adventureID,
		CampaignID:  adventure.CampaignID,
		Name:        name,
		Notes:       req.Notes,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	s.store.Update(func(data *storage.Data) {
		data.Encounters[encounter.ID] = encounter
	})
	s.hub.Publish(broadcast.EncounterChanged, broadcast.Scope{CampaignID: encounter.CampaignID, EncounterID: encounter.ID, ID: encounter.ID})

	writeJSON(w, http.StatusCreated, encounter)
}

func (s *Server) handleListEncounters(w http.ResponseWriter, r *http.Request) {
	adventureID := r.PathValue("id")
	encounters := []*domain.Encounter{}
	s.store.View(func(data *storage.Data) {
		for _, encounter := range data.Encounters {
			if encounter.AdventureID == adventureID {
				encounters = append(encounters, encounter)
			}
		}
	})
	sort.Slice(encounters, func(i, j int) bool {
		if encounters[i].CreatedAt != encounters[j].CreatedAt {
			return encounters[i].CreatedAt < encounters[j].CreatedAt
		}
		return encounters[i].ID < encounters[j].ID
	})
	writeJSON(w, http.StatusOK, encounters)
}

type createPlayerRequest struct {
	CharacterName string `json:"characterName"`
	PlayerName    string `json:"playerName"`
	HPCurrent     int    `json:"hpCurrent"`
	HPMax         int    `json:"hpMax"`
	AC            int    `json:"ac"`
	ACDetails     string `json:"acDetails"`
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "player.create")
	defer span.End()

	campaignID := r.PathValue("id")
	if !s.campaignExists(campaignID) {
		writeError(w, http.StatusNotFound, "campaign %s not found", campaignID)
		return
	}

	var req createPlayerRequest
	if !readJSON(w, r, &req) {
		return
	}
	characterName := strings.TrimSpace(req.CharacterName)
	if characterName == "" {
		writeError(w, http.StatusBadRequest, "character name is required")
		return
	}

	playerID, err := s.newID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "generate player id: %v", err)
		return
	}
	createdAt := domain.Millis(s.now())
	player := &domain.Player{
		ID:            playerID,
		CampaignID:    campaignID,
		CharacterName: characterName,
		PlayerName:    strings.TrimSpace(req.PlayerName),
		HPCurrent:     req.HPCurrent,
		HPMax:         req.HPMax,
		AC:            req.AC,
		ACDetails:     req.ACDetails,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	s.store.Update(func(data *storage.Data) {
		data.Players[player.ID] = player
	})
	s.hub.Publish(broadcast.PlayerChanged, broadcast.Scope{CampaignID: campaignID, ID: player.ID})

	writeJSON(w, http.StatusCreated, player)
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")
	players := []*domain.Player{}
	s.store.View(func(data *storage.Data) {
		for _, player := range data.Players {
			if player.CampaignID == campaignID {
				players = append(players, player)
			}
		}
	})
	sort.Slice(players, func(i, j int) bool {
		if players[i].CreatedAt != players[j].CreatedAt {
			return players[i].CreatedAt < players[j].CreatedAt
		}
		return players[i].ID < players[j].ID
	})
	writeJSON(w, http.StatusOK, players)
}

type createINPCRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	HPCurrent int    `json:"hpCurrent"`
	HPMax     int    `json:"hpMax"`
	AC        int    `json:"ac"`
	ACDetails string `json:"acDetails"`
	Friendly  bool   `json:"friendly"`
	Notes     string `json:"notes"`
}

func (s *Server) handleCreateINPC(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "inpc.create")
	defer span.End()

	campaignID := r.PathValue("id")
	if !s.campaignExists(campaignID) {
		writeError(w, http.StatusNotFound, "campaign %s not found", campaignID)
		return
	}

	var req createINPCRequest
	if !readJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "npc name is required")
		return
	}

	npcID, err := s.newID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "generate npc id: %v", err)
		return
	}
	createdAt := domain.Millis(s.now())
	npc := &domain.INPC{
		ID:         npcID,
		CampaignID: campaignID,
		Name:       name,
		Role:       strings.TrimSpace(req.Role),
		HPCurrent:  req.HPCurrent,
		HPMax:      req.HPMax,
		AC:         req.AC,
		ACDetails:  req.ACDetails,
		Friendly:   req.Friendly,
		Notes:      req.Notes,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}

	s.store.Update(func(data *storage.Data) {
		data.INPCs[npc.ID] = npc
	})
	s.hub.Publish(broadcast.INPCChanged, broadcast.Scope{CampaignID: campaignID, ID: npc.ID})

	writeJSON(w, http.StatusCreated, npc)
}

func (s *Server) handleListINPCs(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")
	npcs := []*domain.INPC{}
	s.store.View(func(data *storage.Data) {
		for _, npc := range data.INPCs {
			if npc.CampaignID == campaignID {
				npcs = append(npcs, npc)
			}
		}
	})
	sort.Slice(npcs, func(i, j int) bool {
		if npcs[i].CreatedAt != npcs[j].CreatedAt {
			return npcs[i].CreatedAt < npcs[j].CreatedAt
		}
		return npcs[i].ID < npcs[j].ID
	})
	writeJSON(w, http.StatusOK, npcs)
}

type createNoteRequest struct {
	AdventureID string `json:"adventureId"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "note.create")
	defer span.End()

	campaignID := r.PathValue("id")
	if !s.campaignExists(campaignID) {
		writeError(w, http.StatusNotFound, "campaign %s not found", campaignID)
		return
	}

	var req createNoteRequest
	if !readJSON(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(w, http.StatusBadRequest, "note title is required")
		return
	}

	noteID, err := s.newID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "generate note id: %v", err)
		return
	}
	createdAt := domain.Millis(s.now())
	note := &domain.Note{
		ID:          noteID,
		CampaignID:  campaignID,
		AdventureID: req.AdventureID,
		Title:       title,
		Body:        req.Body,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	s.store.Update(func(data *storage.Data) {
		data.Notes[note.ID] = note
	})
	s.hub.Publish(broadcast.NoteChanged, broadcast.Scope{CampaignID: campaignID, ID: note.ID})

	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")
	notes := []*domain.Note{}
	s.store.View(func(data *storage.Data) {
		for _, note := range data.Notes {
			if note.CampaignID == campaignID {
				notes = append(notes, note)
			}
		}
	})
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt != notes[j].CreatedAt {
			return notes[i].CreatedAt < notes[j].CreatedAt
		}
		return notes[i].ID < notes[j].ID
	})
	writeJSON(w, http.StatusOK, notes)
}

type createTreasureRequest struct {
	EncounterID string `json:"encounterId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleCreateTreasure(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "treasure.create")
	defer span.End()

	campaignID := r.PathValue("id")
	if !s.campaignExists(campaignID) {
		writeError(w, http.StatusNotFound, "campaign %s not found", campaignID)
		return
	}

	var req createTreasureRequest
	if !readJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "treasure name is required")
		return
	}

	treasureID, err := s.newID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "generate treasure id: %v", err)
		return
	}
	createdAt := domain.Millis(s.now())
	treasure := &domain.Treasure{
		ID:          treasureID,
		CampaignID:  campaignID,
		EncounterID: req.EncounterID,
		Name:        name,
		Description: req.Description,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	s.store.Update(func(data *storage.Data) {
		data.Treasures[treasure.ID] = treasure
	})
	s.hub.Publish(broadcast.TreasureChanged, broadcast.Scope{CampaignID: campaignID, ID: treasure.ID})

	writeJSON(w, http.StatusCreated, treasure)
}

func (s *Server) handleListTreasures(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")
	treasures := []*domain.Treasure{}
	s.store.View(func(data *storage.Data) {
		for _, treasure := range data.Treasures {
			if treasure.CampaignID == campaignID {
				treasures = append(treasures, treasure)
			}
		}
	})
	sort.Slice(treasures, func(i, j int) bool {
		if treasures[i].CreatedAt != treasures[j].CreatedAt {
			return treasures[i].CreatedAt < treasures[j].CreatedAt
		}
		return treasures[i].ID < treasures[j].ID
	})
	writeJSON(w, http.StatusOK, treasures)
}

func (s *Server) handleListConditions(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")
	conditions := []*domain.Condition{}
	s.store.View(func(data *storage.Data) {
		for _, condition := range data.Conditions {
			if condition.CampaignID == campaignID {
				conditions = append(conditions, condition)
			}
		}
	})
	sort.Slice(conditions, func(i, j int) bool {
		if conditions[i].SortOrder != conditions[j].SortOrder {
			return conditions[i].SortOrder < conditions[j].SortOrder
		}
		return conditions[i].Name < conditions[j].Name
	})
	writeJSON(w, http.StatusOK, conditions)
}
