package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	resetGraph bool
	resetCache bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete graph data and/or the embedding cache",
	Run: func(cmd *cobra.Command, args []string) {
		if !resetGraph && !resetCache {
			exitErr("reset", fmt.Errorf("nothing to do; pass --graph and/or --cache"))
		}

		cfg, err := loadConfig()
		if err != nil {
			exitErr("load config", err)
		}
		ctx := cmd.Context()

		if resetGraph {
			graph, err := openGraph(ctx, cfg)
			if err != nil {
				exitErr("connect graph store", err)
			}
			if err := graph.DeleteAll(ctx); err != nil {
				graph.Close(ctx)
				exitErr("delete graph data", err)
			}
			graph.Close(ctx)
			fmt.Println("graph data deleted")
		}

		if resetCache {
			store, err := openCache(cfg)
			if err != nil {
				exitErr("open embedding cache", err)
			}
			if err := store.Clear(ctx); err != nil {
				store.Close()
				exitErr("clear embedding cache", err)
			}
			store.Close()
			fmt.Println("embedding cache cleared")
		}
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetGraph, "graph", false, "Delete all nodes and relationships from Neo4j")
	resetCmd.Flags().BoolVar(&resetCache, "cache", false, "Clear the embedding cache")
}
