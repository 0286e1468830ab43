// Package cli implements the tripgraph CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voyago/tripgraph/answer"
	"github.com/voyago/tripgraph/assistant"
	"github.com/voyago/tripgraph/config"
	"github.com/voyago/tripgraph/embed"
	"github.com/voyago/tripgraph/embed/cache"
	"github.com/voyago/tripgraph/fusion"
	"github.com/voyago/tripgraph/graphstore"
	"github.com/voyago/tripgraph/log"
	"github.com/voyago/tripgraph/vector"
)

var configPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "tripgraph",
	Short: "Hybrid graph+vector travel assistant",
	Long: "tripgraph answers travel questions by combining a Neo4j knowledge graph, " +
		"a Pinecone vector index, and a language model.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to TOML config file (env vars override)")

	RootCmd.AddCommand(chatCmd)
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(loadCmd)
	RootCmd.AddCommand(statsCmd)
	RootCmd.AddCommand(resetCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log.SetDefault(log.NewGolog(log.ParseLevel(cfg.LogLevel)))
	return cfg, nil
}

func openCache(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "sqlite":
		return cache.NewSqliteStore(cache.SqliteOptions{Path: cfg.Cache.Path})
	case "redis":
		return cache.NewRedisStore(cache.RedisOptions{
			Addr: cfg.Cache.RedisAddr,
			TTL:  cfg.Cache.TTL,
		}), nil
	case "postgres":
		return cache.NewPostgresStore(context.Background(), cache.PostgresOptions{
			ConnString: cfg.Cache.PostgresDSN,
		})
	case "memory":
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

func newEmbedder(cfg *config.Config, store cache.Store) *embed.CachedEmbedder {
	provider := embed.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)
	return embed.NewCachedEmbedder(provider, store,
		embed.WithBatchSize(cfg.Retrieval.EmbedBatch),
	)
}

func openGraph(ctx context.Context, cfg *config.Config) (*graphstore.Client, error) {
	client, err := graphstore.NewClient(graphstore.Config{
		URI:      cfg.Neo4j.URI,
		User:     cfg.Neo4j.User,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	}, log.Default())
	if err != nil {
		return nil, err
	}
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func openIndex(cfg *config.Config, embedder *embed.CachedEmbedder) (*vector.Index, error) {
	return vector.NewPinecone(vector.PineconeConfig{
		APIKey:    cfg.Pinecone.APIKey,
		Host:      cfg.Pinecone.Host,
		Namespace: cfg.Pinecone.Namespace,
	}, embedder, vector.WithUpsertBatch(cfg.Retrieval.UpsertBatch))
}

// buildAssistant wires the full pipeline from config. The returned cleanup
// closes long-lived connections.
func buildAssistant(ctx context.Context, cfg *config.Config) (*assistant.Assistant, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	store, err := openCache(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open embedding cache: %w", err)
	}

	graph, err := openGraph(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("connect graph store: %w", err)
	}
	if err := graph.EnsureSchema(ctx); err != nil {
		log.Warn("ensure graph schema: %v", err)
	}

	embedder := newEmbedder(cfg, store)
	index, err := openIndex(cfg, embedder)
	if err != nil {
		graph.Close(ctx)
		store.Close()
		return nil, nil, fmt.Errorf("connect vector index: %w", err)
	}

	generator := answer.NewGenerator(
		answer.NewOpenAILLM(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel),
		answer.WithTimeout(cfg.LLMTimeout),
	)

	a := assistant.New(graph, index, generator, assistant.Options{
		GraphLimit: cfg.Retrieval.GraphLimit,
		VectorTopK: cfg.Retrieval.VectorTopK,
		Fusion: fusion.Options{
			MaxGraph:  cfg.Retrieval.MaxGraph,
			MaxVector: cfg.Retrieval.MaxVector,
			Boost:     cfg.Retrieval.Boost,
		},
		FetchTimeout: cfg.RequestTimeout,
	}, log.Default())

	cleanup := func() {
		graph.Close(context.Background())
		store.Close()
	}
	return a, cleanup, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
