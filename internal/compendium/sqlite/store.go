// Package sqlite provides the SQLite-backed compendium lookup store fed by
// the import command and consumed by the combat tracker.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tavernkeep/tavernkeep/internal/compendium"
	"github.com/tavernkeep/tavernkeep/internal/compendium/normalize"
	"github.com/tavernkeep/tavernkeep/internal/compendium/sqlite/migrations"
	"github.com/tavernkeep/tavernkeep/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// ErrNotFound aliases the shared not-found sentinel for callers working
// through this package.
var ErrNotFound = compendium.ErrNotFound

// Store persists imported compendium records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a compendium store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("compendium path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

// PutMonster upserts one monster record. The challenge rating is parsed
// into a numeric column so searches can range over it; unparseable CRs
// store NULL.
func (s *Store) PutMonster(ctx context.Context, monster compendium.Monster) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(monster.ID) == "" || strings.TrimSpace(monster.Name) == "" {
		return fmt.Errorf("monster id and name are required")
	}

	record, err := json.Marshal(monster)
	if err != nil {
		return fmt.Errorf("marshal monster: %w", err)
	}

	var cr any
	if value := normalize.ParseCR(monster.CR.String()); value != nil {
		cr = *value
	}

	now := nowMillis()
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO monsters (id, name, name_key, cr, record, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   name_key = excluded.name_key,
		   cr = excluded.cr,
		   record = excluded.record,
		   updated_at = excluded.updated_at`,
		monster.ID, monster.Name, compendium.NameKey(monster.Name), cr, string(record), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert monster: %w", err)
	}
	return nil
}

// Monster loads one monster by id.
func (s *Store) Monster(ctx context.Context, monsterID string) (compendium.Monster, error) {
	var raw string
	err := s.sqlDB.QueryRowContext(ctx, "SELECT record FROM monsters WHERE id = ?", monsterID).Scan(&raw)
	if err == sql.ErrNoRows {
		return compendium.Monster{}, ErrNotFound
	}
	if err != nil {
		return compendium.Monster{}, fmt.Errorf("load monster: %w", err)
	}
	var monster compendium.Monster
	if err := json.Unmarshal([]byte(raw), &monster); err != nil {
		return compendium.Monster{}, fmt.Errorf("decode monster: %w", err)
	}
	return monster, nil
}

// SearchMonsters finds monsters whose name contains the query, optionally
// capped at a maximum challenge rating, ordered by name.
func (s *Store) SearchMonsters(ctx context.Context, query string, maxCR *float64) ([]compendium.Monster, error) {
	sqlQuery := "SELECT record FROM monsters WHERE name_key LIKE ?"
	args := []any{"%" + compendium.NameKey(query) + "%"}
	if maxCR != nil {
		sqlQuery += " AND cr IS NOT NULL AND cr <= ?"
		args = append(args, *maxCR)
	}
	sqlQuery += " ORDER BY name"

	rows, err := s.sqlDB.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("search monsters: %w", err)
	}
	defer rows.Close()

	var results []compendium.Monster
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan monster: %w", err)
		}
		var monster compendium.Monster
		if err := json.Unmarshal([]byte(raw), &monster); err != nil {
			return nil, fmt.Errorf("decode monster: %w", err)
		}
		results = append(results, monster)
	}
	return results, rows.Err()
}

// PutSpell upserts one spell record.
func (s *Store) PutSpell(ctx context.Context, spell compendium.Spell) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(spell.ID) == "" || strings.TrimSpace(spell.Name) == "" {
		return fmt.Errorf("spell id and name are required")
	}
	record, err := json.Marshal(spell)
	if err != nil {
		return fmt.Errorf("marshal spell: %w", err)
	}
	now := nowMillis()
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO spells (id, name, name_key, level, record, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   name_key = excluded.name_key,
		   level = excluded.level,
		   record = excluded.record,
		   updated_at = excluded.updated_at`,
		spell.ID, spell.Name, compendium.NameKey(spell.Name), spell.Level, string(record), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert spell: %w", err)
	}
	return nil
}

// Spell loads one spell by id.
func (s *Store) Spell(ctx context.Context, spellID string) (compendium.Spell, error) {
	var raw string
	err := s.sqlDB.QueryRowContext(ctx, "SELECT record FROM spells WHERE id = ?", spellID).Scan(&raw)
	if err == sql.ErrNoRows {
		return compendium.Spell{}, ErrNotFound
	}
	if err != nil {
		return compendium.Spell{}, fmt.Errorf("load spell: %w", err)
	}
	var spell compendium.Spell
	if err := json.Unmarshal([]byte(raw), &spell); err != nil {
		return compendium.Spell{}, fmt.Errorf("decode spell: %w", err)
	}
	return spell, nil
}

// PutItem upserts one item record.
func (s *Store) PutItem(ctx context.Context, item compendium.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(item.ID) == "" || strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("item id and name are required")
	}
	record, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	now := nowMillis()
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO items (id, name, name_key, item_type, record, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   name_key = excluded.name_key,
		   item_type = excluded.item_type,
		   record = excluded.record,
		   updated_at = excluded.updated_at`,
		item.ID, item.Name, compendium.NameKey(item.Name), item.Type, string(record), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

// Item loads one item by id.
func (s *Store) Item(ctx context.Context, itemID string) (compendium.Item, error) {
	var raw string
	err := s.sqlDB.QueryRowContext(ctx, "SELECT record FROM items WHERE id = ?", itemID).Scan(&raw)
	if err == sql.ErrNoRows {
		return compendium.Item{}, ErrNotFound
	}
	if err != nil {
		return compendium.Item{}, fmt.Errorf("load item: %w", err)
	}
	var item compendium.Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return compendium.Item{}, fmt.Errorf("decode item: %w", err)
	}
	return item, nil
}

// Counts reports how many records each table holds.
func (s *Store) Counts(ctx context.Context) (monsters, spells, items int, err error) {
	for _, probe := range []struct {
		table string
		out   *int
	}{
		{"monsters", &monsters},
		{"spells", &spells},
		{"items", &items},
	} {
		if scanErr := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+probe.table).Scan(probe.out); scanErr != nil {
			return 0, 0, 0, fmt.Errorf("count %s: %w", probe.table, scanErr)
		}
	}
	return monsters, spells, items, nil
}
