// Package server exposes the REST and websocket surface of the campaign
// manager. Handlers mutate the in-memory document graph through the store,
// which schedules the debounced save; every mutation then publishes a
// change hint so connected tables re-fetch.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/tavernkeep/tavernkeep/internal/broadcast"
	"github.com/tavernkeep/tavernkeep/internal/compendium"
	"github.com/tavernkeep/tavernkeep/internal/id"
	"github.com/tavernkeep/tavernkeep/internal/storage"
)

// Config defines the inputs for the API server.
type Config struct {
	Addr             string `env:"TAVERNKEEP_ADDR" envDefault:":8720"`
	DataPath         string `env:"TAVERNKEEP_DATA_PATH" envDefault:"tavernkeep.json"`
	CompendiumDBPath string `env:"TAVERNKEEP_COMPENDIUM_DB_PATH"`
}

// Compendium is the read side of the imported reference content used by
// the combat tracker. A nil Compendium disables monster lookups.
type Compendium interface {
	Monster(ctx context.Context, monsterID string) (compendium.Monster, error)
	SearchMonsters(ctx context.Context, query string, maxCR *float64) ([]compendium.Monster, error)
}

// Server wires the document store, the broadcast hub, and the compendium
// lookup behind one HTTP handler.
type Server struct {
	store      *storage.Store
	hub        *broadcast.Hub
	compendium Compendium
	tracer     trace.Tracer

	now   func() time.Time
	newID func() (string, error)
}

// Options configures a Server. Zero-value clock and id generator mean the
// real ones; a nil Hub gets a fresh one.
type Options struct {
	Compendium Compendium
	Hub        *broadcast.Hub
	Now        func() time.Time
	NewID      func() (string, error)
}

// New builds a server around an open store.
func New(store *storage.Store, opts Options) (*Server, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	hub := opts.Hub
	if hub == nil {
		hub = broadcast.NewHub()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = id.New
	}
	return &Server{
		store:      store,
		hub:        hub,
		compendium: opts.Compendium,
		tracer:     otel.Tracer("tavernkeep/server"),
		now:        now,
		newID:      newID,
	}, nil
}

// Hub returns the broadcast hub serving this server's websocket endpoint.
func (s *Server) Hub() *broadcast.Hub {
	return s.hub
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/campaigns", s.handleCreateCampaign)
	mux.HandleFunc("GET /api/campaigns", s.handleListCampaigns)
	mux.HandleFunc("GET /api/campaigns/{id}", s.handleGetCampaign)

	mux.HandleFunc("POST /api/campaigns/{id}/adventures", s.handleCreateAdventure)
	mux.HandleFunc("GET /api/campaigns/{id}/adventures", s.handleListAdventures)
	mux.HandleFunc("POST /api/adventures/{id}/encounters", s.handleCreateEncounter)
	mux.HandleFunc("GET /api/adventures/{id}/encounters", s.handleListEncounters)

	mux.HandleFunc("POST /api/campaigns/{id}/players", s.handleCreatePlayer)
	mux.HandleFunc("GET /api/campaigns/{id}/players", s.handleListPlayers)
	mux.HandleFunc("POST /api/campaigns/{id}/inpcs", s.handleCreateINPC)
	mux.HandleFunc("GET /api/campaigns/{id}/inpcs", s.handleListINPCs)
	mux.HandleFunc("POST /api/campaigns/{id}/notes", s.handleCreateNote)
	mux.HandleFunc("GET /api/campaigns/{id}/notes", s.handleListNotes)
	mux.HandleFunc("POST /api/campaigns/{id}/treasures", s.handleCreateTreasure)
	mux.HandleFunc("GET /api/campaigns/{id}/treasures", s.handleListTreasures)
	mux.HandleFunc("GET /api/campaigns/{id}/conditions", s.handleListConditions)

	mux.HandleFunc("GET /api/encounters/{id}/combat", s.handleGetCombat)
	mux.HandleFunc("PATCH /api/encounters/{id}/combat", s.handlePatchCombatState)
	mux.HandleFunc("POST /api/encounters/{id}/combatants", s.handleAddCombatant)
	mux.HandleFunc("PATCH /api/encounters/{id}/combatants/{combatantId}", s.handlePatchCombatant)
	mux.HandleFunc("GET /api/encounters/{id}/combatants/{combatantId}/actions", s.handleCombatantActions)
	mux.HandleFunc("DELETE /api/encounters/{id}/combatants/{combatantId}", s.handleDeleteCombatant)

	mux.HandleFunc("GET /api/compendium/monsters", s.handleSearchMonsters)

	mux.Handle("GET /ws", broadcast.Handler(s.hub))

	return mux
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return errors.New("listen address is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	log.Printf("api listening on %s", addr)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		// Flush any pending debounced write before the process exits.
		s.store.FlushSave()
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
