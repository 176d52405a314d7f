package storage

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/tavernkeep/tavernkeep/internal/campaign/domain"
)

// Data is the persisted document graph: one JSON document mirroring the
// whole in-memory state. Combats are keyed by their owning encounter id.
type Data struct {
	Campaigns  map[string]*domain.Campaign  `json:"campaigns"`
	Adventures map[string]*domain.Adventure `json:"adventures"`
	Encounters map[string]*domain.Encounter `json:"encounters"`
	Players    map[string]*domain.Player    `json:"players"`
	INPCs      map[string]*domain.INPC      `json:"inpcs"`
	Notes      map[string]*domain.Note      `json:"notes"`
	Treasures  map[string]*domain.Treasure  `json:"treasures"`
	Conditions map[string]*domain.Condition `json:"conditions"`
	Combats    map[string]*domain.Combat    `json:"combats"`
}

// NewData returns an empty graph with every collection initialized.
func NewData() *Data {
	return &Data{
		Campaigns:  map[string]*domain.Campaign{},
		Adventures: map[string]*domain.Adventure{},
		Encounters: map[string]*domain.Encounter{},
		Players:    map[string]*domain.Player{},
		INPCs:      map[string]*domain.INPC{},
		Notes:      map[string]*domain.Note{},
		Treasures:  map[string]*domain.Treasure{},
		Conditions: map[string]*domain.Condition{},
		Combats:    map[string]*domain.Combat{},
	}
}

// ensureCollections repairs nil maps after loading an older or partial
// document.
func (d *Data) ensureCollections() {
	if d.Campaigns == nil {
		d.Campaigns = map[string]*domain.Campaign{}
	}
	if d.Adventures == nil {
		d.Adventures = map[string]*domain.Adventure{}
	}
	if d.Encounters == nil {
		d.Encounters = map[string]*domain.Encounter{}
	}
	if d.Players == nil {
		d.Players = map[string]*domain.Player{}
	}
	if d.INPCs == nil {
		d.INPCs = map[string]*domain.INPC{}
	}
	if d.Notes == nil {
		d.Notes = map[string]*domain.Note{}
	}
	if d.Treasures == nil {
		d.Treasures = map[string]*domain.Treasure{}
	}
	if d.Conditions == nil {
		d.Conditions = map[string]*domain.Condition{}
	}
	if d.Combats == nil {
		d.Combats = map[string]*domain.Combat{}
	}
}

// Options configures a Store.
type Options struct {
	// SaveDelay overrides the debounce window; zero means DefaultSaveDelay.
	SaveDelay time.Duration
	// OnWriteError receives flush failures. Required: a store that loses
	// writes silently is worse than one that crashes loudly.
	OnWriteError func(error)
}

// Store is the durable document store: the in-memory graph plus the save
// scheduler mirroring it to disk. The graph is guarded by one lock; request
// handlers run concurrently in this runtime even though mutations are
// logically serial.
type Store struct {
	path  string
	saver *Saver

	mu   sync.RWMutex
	data *Data
}

// Open loads the graph from path, substituting an empty graph when the
// file is missing or corrupt, and arms the save scheduler. The load runs
// before the scheduler exists, so startup never races a write.
func Open(path string, opts Options) *Store {
	store := &Store{path: path}
	store.data = LoadJSON(path, NewData())
	store.data.ensureCollections()
	store.saver = NewSaver(opts.SaveDelay, store.writeSnapshot, opts.OnWriteError)
	return store
}

// View runs fn with read access to the graph. The callback must not retain
// references past its return.
func (s *Store) View(fn func(*Data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// Update runs fn with write access to the graph and schedules a debounced
// save afterwards.
func (s *Store) Update(fn func(*Data)) {
	s.mu.Lock()
	fn(s.data)
	s.mu.Unlock()
	s.saver.ScheduleSave()
}

// ScheduleSave marks the store dirty without a mutation, for callers that
// changed the graph through View-retained state. Prefer Update.
func (s *Store) ScheduleSave() {
	s.saver.ScheduleSave()
}

// FlushSave forces a write of the current state, honoring the
// at-most-one-in-flight rule.
func (s *Store) FlushSave() {
	s.saver.FlushSave()
}

// writeSnapshot serializes the graph under the read lock and replaces the
// backing file atomically. Called only from the saver.
func (s *Store) writeSnapshot() error {
	s.mu.RLock()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	if err := WriteFileAtomic(s.path, raw); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}
