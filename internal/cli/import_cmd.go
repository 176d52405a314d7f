package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tavernkeep/tavernkeep/internal/compendium"
	"github.com/tavernkeep/tavernkeep/internal/compendium/sqlite"
	"github.com/tavernkeep/tavernkeep/internal/platform/cmd"
	"github.com/tavernkeep/tavernkeep/internal/server"
)

// importDocument is the on-disk shape of an exported compendium file. All
// three collections are optional.
type importDocument struct {
	Monsters []compendium.Monster `json:"monsters"`
	Spells   []compendium.Spell   `json:"spells"`
	Items    []compendium.Item    `json:"items"`
}

// ImportCmd returns the import command, which loads compendium export
// files into the SQLite lookup store.
func ImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import compendium records into the lookup database",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImport,
	}

	importCmd.Flags().String("compendium", "", "compendium database path (overrides TAVERNKEEP_COMPENDIUM_DB_PATH)")

	return importCmd
}

func runImport(cobraCmd *cobra.Command, args []string) error {
	cobraCmd.SilenceUsage = true

	var cfg server.Config
	if err := cmd.ParseConfig(&cfg); err != nil {
		return err
	}
	if compendiumPath, _ := cobraCmd.Flags().GetString("compendium"); compendiumPath != "" {
		cfg.CompendiumDBPath = compendiumPath
	}
	if cfg.CompendiumDBPath == "" {
		return fmt.Errorf("compendium database path is required (flag --compendium or TAVERNKEEP_COMPENDIUM_DB_PATH)")
	}

	return cmd.RunWithTelemetry(cobraCmd.Context(), cmd.ServiceImport, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.CompendiumDBPath)
		if err != nil {
			return fmt.Errorf("open compendium: %w", err)
		}
		defer func() {
			_ = store.Close()
		}()

		for _, path := range args {
			if err := importFile(ctx, store, path); err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
		}

		monsters, spells, items, err := store.Counts(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s %d monsters, %d spells, %d items\n",
			color.New(color.FgGreen).Sprint("imported:"), monsters, spells, items)
		return nil
	})
}

func importFile(ctx context.Context, store *sqlite.Store, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc importDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode export file: %w", err)
	}

	for _, monster := range doc.Monsters {
		if monster.ID == "" {
			// Derived ids keep re-imports of the same export idempotent.
			monster.ID = "mon-" + compendium.NameKey(monster.Name)
		}
		if err := store.PutMonster(ctx, monster); err != nil {
			return err
		}
	}
	for _, spell := range doc.Spells {
		if spell.ID == "" {
			spell.ID = "spl-" + compendium.NameKey(spell.Name)
		}
		if err := store.PutSpell(ctx, spell); err != nil {
			return err
		}
	}
	for _, item := range doc.Items {
		if item.ID == "" {
			item.ID = "itm-" + compendium.NameKey(item.Name)
		}
		if err := store.PutItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
