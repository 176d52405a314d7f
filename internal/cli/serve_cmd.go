// Package cli holds the tavernkeep subcommands.
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tavernkeep/tavernkeep/internal/compendium/sqlite"
	"github.com/tavernkeep/tavernkeep/internal/platform/cmd"
	"github.com/tavernkeep/tavernkeep/internal/platform/config"
	"github.com/tavernkeep/tavernkeep/internal/server"
	"github.com/tavernkeep/tavernkeep/internal/storage"
)

// ServeCmd returns the serve command, the long-running API server.
func ServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the campaign manager API server",
		Long: `Run the API and websocket server. Configuration comes from the
TAVERNKEEP_* environment variables; flags win over the environment.`,
		RunE: runServe,
	}

	serveCmd.Flags().String("addr", "", "listen address (overrides TAVERNKEEP_ADDR)")
	serveCmd.Flags().String("data", "", "campaign document path (overrides TAVERNKEEP_DATA_PATH)")
	serveCmd.Flags().String("compendium", "", "compendium database path (overrides TAVERNKEEP_COMPENDIUM_DB_PATH)")

	return serveCmd
}

func runServe(cobraCmd *cobra.Command, _ []string) error {
	cobraCmd.SilenceUsage = true

	var cfg server.Config
	if err := cmd.ParseConfig(&cfg); err != nil {
		return err
	}
	if addr, _ := cobraCmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if dataPath, _ := cobraCmd.Flags().GetString("data"); dataPath != "" {
		cfg.DataPath = dataPath
	}
	if compendiumPath, _ := cobraCmd.Flags().GetString("compendium"); compendiumPath != "" {
		cfg.CompendiumDBPath = compendiumPath
	}

	ctx, stop := signal.NotifyContext(cobraCmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cmd.RunWithTelemetry(ctx, cmd.ServiceServe, func(runCtx context.Context) error {
		store := storage.Open(cfg.DataPath, storage.Options{
			// A server that silently loses campaign state is worse than
			// one that dies where the table can see it.
			OnWriteError: func(err error) {
				config.Exitf("persist campaign data: %v", err)
			},
		})

		opts := server.Options{}
		if cfg.CompendiumDBPath != "" {
			compendiumStore, err := sqlite.Open(cfg.CompendiumDBPath)
			if err != nil {
				return fmt.Errorf("open compendium: %w", err)
			}
			defer func() {
				_ = compendiumStore.Close()
			}()
			opts.Compendium = compendiumStore
		}

		srv, err := server.New(store, opts)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(runCtx, cfg.Addr)
	})
}
