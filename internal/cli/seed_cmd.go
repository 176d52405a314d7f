package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tavernkeep/tavernkeep/internal/campaign/domain"
	"github.com/tavernkeep/tavernkeep/internal/id"
	"github.com/tavernkeep/tavernkeep/internal/platform/cmd"
	"github.com/tavernkeep/tavernkeep/internal/server"
	"github.com/tavernkeep/tavernkeep/internal/storage"
)

// SeedCmd returns the seed command, which writes a small demo campaign
// into the data file for first-run exploration.
func SeedCmd() *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a demo campaign into the data file",
		RunE:  runSeed,
	}

	seedCmd.Flags().String("data", "", "campaign document path (overrides TAVERNKEEP_DATA_PATH)")
	seedCmd.Flags().String("name", "The Sunken Keep", "demo campaign name")

	return seedCmd
}

func runSeed(cobraCmd *cobra.Command, _ []string) error {
	cobraCmd.SilenceUsage = true

	var cfg server.Config
	if err := cmd.ParseConfig(&cfg); err != nil {
		return err
	}
	if dataPath, _ := cobraCmd.Flags().GetString("data"); dataPath != "" {
		cfg.DataPath = dataPath
	}
	name, _ := cobraCmd.Flags().GetString("name")

	return cmd.RunWithTelemetry(cobraCmd.Context(), cmd.ServiceSeed, func(context.Context) error {
		var writeErr error
		store := storage.Open(cfg.DataPath, storage.Options{
			OnWriteError: func(err error) { writeErr = err },
		})

		campaign, err := seedDemoCampaign(store, name)
		if err != nil {
			return err
		}
		store.FlushSave()
		if writeErr != nil {
			return fmt.Errorf("persist demo campaign: %w", writeErr)
		}

		fmt.Printf("%s campaign %q (%s) in %s\n",
			color.New(color.FgGreen).Sprint("seeded:"), campaign.Name, campaign.ID, cfg.DataPath)
		return nil
	})
}

func seedDemoCampaign(store *storage.Store, name string) (*domain.Campaign, error) {
	campaign, err := domain.NewCampaign(name, nil, nil)
	if err != nil {
		return nil, err
	}
	conditions, err := domain.SeedConditions(campaign.ID, nil)
	if err != nil {
		return nil, err
	}

	now := domain.Millis(time.Now())
	adventureID, err := id.New()
	if err != nil {
		return nil, err
	}
	encounterID, err := id.New()
	if err != nil {
		return nil, err
	}
	playerID, err := id.New()
	if err != nil {
		return nil, err
	}

	adventure := &domain.Adventure{
		ID:         adventureID,
		CampaignID: campaign.ID,
		Name:       "Act One",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	encounter := &domain.Encounter{
		ID:          encounterID,
		AdventureID: adventureID,
		CampaignID:  campaign.ID,
		Name:        "Gatehouse Ambush",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	player := &domain.Player{
		ID:            playerID,
		CampaignID:    campaign.ID,
		CharacterName: "Aria",
		PlayerName:    "Sam",
		HPCurrent:     27,
		HPMax:         31,
		AC:            16,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	store.Update(func(data *storage.Data) {
		data.Campaigns[campaign.ID] = campaign
		for _, condition := range conditions {
			data.Conditions[condition.ID] = condition
		}
		data.Adventures[adventure.ID] = adventure
		data.Encounters[encounter.ID] = encounter
		data.Players[player.ID] = player
	})
	return campaign, nil
}
