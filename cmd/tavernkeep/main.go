package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tavernkeep/tavernkeep/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tavernkeep",
		Short: "tavernkeep - LAN campaign manager for tabletop games",
		Long: `tavernkeep runs the table-side campaign manager: a single-host API
server backed by one JSON document, with live combat tracking pushed to
connected screens over websockets.`,
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.SeedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
