package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show graph store statistics",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			exitErr("load config", err)
		}

		ctx := cmd.Context()
		graph, err := openGraph(ctx, cfg)
		if err != nil {
			exitErr("connect graph store", err)
		}
		defer graph.Close(ctx)

		stats, err := graph.Stats(ctx)
		if err != nil {
			exitErr("graph stats", err)
		}
		fmt.Printf("locations:     %d\n", stats.Locations)
		fmt.Printf("countries:     %d\n", stats.Countries)
		fmt.Printf("relationships: %d\n", stats.Relationships)
	},
}
