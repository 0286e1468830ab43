// Package config loads tripgraph configuration from an optional TOML file
// with environment variable overrides for secrets and endpoints.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Neo4jConfig holds graph database connection settings.
type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// OpenAIConfig holds language model and embedding provider settings.
type OpenAIConfig struct {
	APIKey         string `toml:"api_key"`
	EmbeddingModel string `toml:"embedding_model"`
	ChatModel      string `toml:"chat_model"`
	Dimension      int    `toml:"dimension"`
}

// PineconeConfig holds vector index settings. The index itself is managed
// out of band; Host is the index endpoint from the Pinecone console.
type PineconeConfig struct {
	APIKey    string `toml:"api_key"`
	Host      string `toml:"host"`
	Namespace string `toml:"namespace"`
}

// CacheConfig selects and configures the embedding cache backend.
type CacheConfig struct {
	Backend     string        `toml:"backend"` // sqlite, redis, postgres, memory
	Path        string        `toml:"path"`    // sqlite file path
	RedisAddr   string        `toml:"redis_addr"`
	PostgresDSN string        `toml:"postgres_dsn"`
	TTL         time.Duration `toml:"ttl"` // redis only; 0 means no expiry
}

// RetrievalConfig bounds the hybrid retrieval stage.
type RetrievalConfig struct {
	GraphLimit  int     `toml:"graph_limit"`
	VectorTopK  int     `toml:"vector_top_k"`
	MaxGraph    int     `toml:"max_graph"`
	MaxVector   int     `toml:"max_vector"`
	Boost       float64 `toml:"boost"`
	EmbedBatch  int     `toml:"embed_batch"`
	UpsertBatch int     `toml:"upsert_batch"`
}

// Config is the root configuration.
type Config struct {
	Neo4j     Neo4jConfig     `toml:"neo4j"`
	OpenAI    OpenAIConfig    `toml:"openai"`
	Pinecone  PineconeConfig  `toml:"pinecone"`
	Cache     CacheConfig     `toml:"cache"`
	Retrieval RetrievalConfig `toml:"retrieval"`

	ServerAddr     string        `toml:"server_addr"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	LLMTimeout     time.Duration `toml:"llm_timeout"`
	ChunkSize      int           `toml:"chunk_size"`
	ChunkOverlap   int           `toml:"chunk_overlap"`
	LogLevel       string        `toml:"log_level"`
}

// Default returns the configuration defaults used before file and
// environment overrides are applied.
func Default() *Config {
	return &Config{
		Neo4j: Neo4jConfig{
			URI:  "bolt://localhost:7687",
			User: "neo4j",
		},
		OpenAI: OpenAIConfig{
			EmbeddingModel: "text-embedding-3-small",
			ChatModel:      "gpt-4o-mini",
			Dimension:      1536,
		},
		Pinecone: PineconeConfig{
			Namespace: "travel",
		},
		Cache: CacheConfig{
			Backend: "sqlite",
			Path:    "embed_cache.db",
		},
		Retrieval: RetrievalConfig{
			GraphLimit:  10,
			VectorTopK:  6,
			MaxGraph:    5,
			MaxVector:   3,
			Boost:       0.15,
			EmbedBatch:  100,
			UpsertBatch: 32,
		},
		ServerAddr:     ":8080",
		RequestTimeout: 15 * time.Second,
		LLMTimeout:     60 * time.Second,
		ChunkSize:      2000,
		ChunkOverlap:   200,
		LogLevel:       "info",
	}
}

// Load reads configuration from the given TOML file (if path is non-empty)
// and then applies environment overrides. A missing file at an empty path is
// not an error; a missing file at an explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides config values from the environment. Secrets are
// expected to arrive this way rather than through the config file.
func (c *Config) applyEnv() {
	setString(&c.Neo4j.URI, "NEO4J_URI")
	setString(&c.Neo4j.User, "NEO4J_USER")
	setString(&c.Neo4j.Password, "NEO4J_PASSWORD")
	setString(&c.Neo4j.Database, "NEO4J_DATABASE")

	setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.OpenAI.EmbeddingModel, "OPENAI_EMBEDDING_MODEL")
	setString(&c.OpenAI.ChatModel, "OPENAI_CHAT_MODEL")
	setInt(&c.OpenAI.Dimension, "OPENAI_EMBEDDING_DIMENSION")

	setString(&c.Pinecone.APIKey, "PINECONE_API_KEY")
	setString(&c.Pinecone.Host, "PINECONE_HOST")
	setString(&c.Pinecone.Namespace, "PINECONE_NAMESPACE")

	setString(&c.Cache.Backend, "EMBED_CACHE_BACKEND")
	setString(&c.Cache.Path, "EMBED_CACHE_PATH")
	setString(&c.Cache.RedisAddr, "EMBED_CACHE_REDIS_ADDR")
	setString(&c.Cache.PostgresDSN, "EMBED_CACHE_POSTGRES_DSN")

	setString(&c.ServerAddr, "TRIPGRAPH_ADDR")
	setString(&c.LogLevel, "TRIPGRAPH_LOG_LEVEL")
}

// Validate checks that required settings for live operation are present.
func (c *Config) Validate() error {
	var missing []string
	if c.OpenAI.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Pinecone.APIKey == "" {
		missing = append(missing, "PINECONE_API_KEY")
	}
	if c.Pinecone.Host == "" {
		missing = append(missing, "PINECONE_HOST")
	}
	if c.Neo4j.Password == "" {
		missing = append(missing, "NEO4J_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}

	switch c.Cache.Backend {
	case "sqlite", "redis", "postgres", "memory":
	default:
		return errors.New("cache backend must be one of sqlite, redis, postgres, memory")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
