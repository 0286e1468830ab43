// Tripgraph - A Hybrid Graph + Vector Travel Assistant
//
// Tripgraph answers natural-language travel questions by combining two
// retrieval paths: a Neo4j knowledge graph of locations and their
// relationships, and a Pinecone vector index of embedded destination
// descriptions. Results from both paths are fused, reranked, and handed to a
// language model that writes the final answer.
//
// # Quick Start
//
// Install the CLI:
//
//	go install github.com/voyago/tripgraph/cmd/tripgraph@latest
//
// Load data and start chatting:
//
//	tripgraph load --csv locations.csv --nodes nodes.json
//	tripgraph chat
//
// Or run the REST API:
//
//	tripgraph serve --addr :8080
//	curl -X POST localhost:8080/chat -d '{"query":"3 days in Hanoi"}'
//
// # Pipeline
//
// Every query flows through the same stages:
//
//  1. Intent classification (router): itinerary, recommendation, factual,
//     or general, from keyword rules.
//  2. Hint extraction (assistant): country, city, and location type
//     mentioned in the query.
//  3. Parallel retrieval: graph search over Neo4j and semantic search over
//     Pinecone run concurrently; either side may fail without failing the
//     query.
//  4. Neighbor enrichment (assistant): locations related to the
//     vector-matched entities are pulled into the graph side through the
//     SAME_COUNTRY and SIMILAR_TYPE relationships.
//  5. Fusion (fusion): entities found by both paths get a score boost,
//     results are reranked and bounded.
//  6. Generation (answer): a short summary of the retrieved context plus an
//     intent-specific answer, both from the chat model.
//
// # Package Structure
//
// travel/
// Shared domain types: Location, Chunk, Intent, and the GraphStore,
// VectorIndex, and Embedder interfaces.
//
// graphstore/
// Neo4j client: schema management, idempotent data loading, relationship
// building, fulltext search with a substring fallback.
//
// vector/
// Pinecone index built on langchaingo's vector store, plus an in-memory
// index for tests and development.
//
// embed/ and embed/cache/
// OpenAI embeddings behind a persistent cache keyed by content hash.
// Cache backends: SQLite, Redis, Postgres, or in-memory.
//
//	store, _ := cache.NewSqliteStore(cache.SqliteOptions{Path: "embed_cache.db"})
//	embedder := embed.NewCachedEmbedder(provider, store)
//
// router/, fusion/, answer/
// The query pipeline stages described above.
//
// assistant/
// Orchestrates the pipeline end to end.
//
// server/ and cli/
// REST API (POST /chat, GET /health) and the cobra-based command line.
//
// # Configuration
//
// Configuration is read from an optional TOML file and overridden by
// environment variables:
//
//   - NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD, NEO4J_DATABASE
//   - OPENAI_API_KEY, OPENAI_EMBEDDING_MODEL, OPENAI_CHAT_MODEL
//   - PINECONE_API_KEY, PINECONE_HOST, PINECONE_NAMESPACE
//   - EMBED_CACHE_BACKEND, EMBED_CACHE_PATH, EMBED_CACHE_REDIS_ADDR
//   - TRIPGRAPH_ADDR, TRIPGRAPH_LOG_LEVEL
//
// # License
//
// This project is licensed under the MIT License - see the LICENSE file for details.
package tripgraph // import "github.com/voyago/tripgraph"
