package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voyago/tripgraph/chunker"
	"github.com/voyago/tripgraph/dataset"
	"github.com/voyago/tripgraph/log"
	"github.com/voyago/tripgraph/travel"
)

var (
	loadCSV       string
	loadNodes     string
	loadSkipGraph bool
	loadSkipIndex bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load travel data into the graph store and vector index",
	Long: "Reads a locations CSV and/or a semantic nodes JSON file, then loads " +
		"locations into Neo4j and embedded text chunks into Pinecone.",
	Run: func(cmd *cobra.Command, args []string) {
		if loadCSV == "" && loadNodes == "" {
			exitErr("load", fmt.Errorf("at least one of --csv or --nodes is required"))
		}

		cfg, err := loadConfig()
		if err != nil {
			exitErr("load config", err)
		}
		if err := cfg.Validate(); err != nil {
			exitErr("validate config", err)
		}
		ctx := cmd.Context()

		var locations []travel.Location
		var nodes []dataset.Node
		if loadCSV != "" {
			locations, err = dataset.LoadLocationsCSV(loadCSV)
			if err != nil {
				exitErr("read csv", err)
			}
			log.Info("read %d locations from %s", len(locations), loadCSV)
		}
		if loadNodes != "" {
			nodes, err = dataset.LoadNodes(loadNodes)
			if err != nil {
				exitErr("read nodes", err)
			}
			log.Info("read %d nodes from %s", len(nodes), loadNodes)
			for _, n := range nodes {
				locations = append(locations, n.Location())
			}
		}

		if !loadSkipGraph {
			graph, err := openGraph(ctx, cfg)
			if err != nil {
				exitErr("connect graph store", err)
			}
			defer graph.Close(ctx)

			if err := graph.EnsureSchema(ctx); err != nil {
				exitErr("ensure schema", err)
			}
			if err := graph.LoadLocations(ctx, locations); err != nil {
				exitErr("load locations", err)
			}
			if err := graph.BuildRelationships(ctx); err != nil {
				exitErr("build relationships", err)
			}
			stats, err := graph.Stats(ctx)
			if err != nil {
				exitErr("graph stats", err)
			}
			fmt.Printf("graph: %d locations, %d countries, %d relationships\n",
				stats.Locations, stats.Countries, stats.Relationships)
		}

		if !loadSkipIndex && len(nodes) > 0 {
			store, err := openCache(cfg)
			if err != nil {
				exitErr("open embedding cache", err)
			}
			defer store.Close()

			embedder := newEmbedder(cfg, store)
			index, err := openIndex(cfg, embedder)
			if err != nil {
				exitErr("connect vector index", err)
			}

			splitter := chunker.New(
				chunker.WithChunkSize(cfg.ChunkSize),
				chunker.WithChunkOverlap(cfg.ChunkOverlap),
			)
			var chunks []travel.Chunk
			for _, n := range nodes {
				meta := map[string]any{
					"id":      n.ID,
					"source":  n.ID,
					"name":    n.Name,
					"type":    n.Type,
					"country": n.Country,
					"city":    n.CityOrRegion(),
				}
				cs, err := splitter.Split(n.Text(0), meta)
				if err != nil {
					exitErr("split text", err)
				}
				chunks = append(chunks, cs...)
			}

			report, err := index.Upsert(ctx, chunks)
			if err != nil {
				exitErr("upsert vectors", err)
			}
			fmt.Printf("index: %d uploaded, %d skipped", report.Uploaded, report.Skipped)
			if len(report.Failed) > 0 {
				fmt.Printf(", %d failed", len(report.Failed))
			}
			fmt.Println()
		}
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadCSV, "csv", "", "Path to locations CSV file")
	loadCmd.Flags().StringVar(&loadNodes, "nodes", "", "Path to semantic nodes JSON file")
	loadCmd.Flags().BoolVar(&loadSkipGraph, "skip-graph", false, "Skip loading into Neo4j")
	loadCmd.Flags().BoolVar(&loadSkipIndex, "skip-index", false, "Skip loading into Pinecone")
}
