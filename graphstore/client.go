// Package graphstore maintains the travel knowledge graph in Neo4j: Location
// and Country nodes, derived relationships, a full-text index over location
// text, and the lookups the assistant runs against them.
package graphstore

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/voyago/tripgraph/log"
	"github.com/voyago/tripgraph/travel"
)

// fulltextIndex is the name of the full-text index over location
// name/description/type.
const fulltextIndex = "locationSearch"

// Config holds connection settings for the graph database.
type Config struct {
	URI      string
	User     string
	Password string
	Database string
}

// querier abstracts query execution so lookup logic can be tested without a
// live server.
type querier interface {
	read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
	write(ctx context.Context, cypher string, params map[string]any) error
}

// Client is a Neo4j-backed graph store.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	logger   log.Logger
	run      querier
}

var _ travel.GraphStore = (*Client)(nil)

// NewClient creates a graph store client. Call Connect before use.
func NewClient(cfg Config, logger log.Logger) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if logger == nil {
		logger = log.Default()
	}

	c := &Client{
		driver:   driver,
		database: cfg.Database,
		logger:   logger,
	}
	c.run = &driverQuerier{client: c}
	return c, nil
}

// Connect verifies connectivity, retrying with exponential backoff. This is
// the only startup-fatal dependency check.
func (c *Client) Connect(ctx context.Context) error {
	const maxRetries = 5
	baseDelay := 200 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := c.driver.VerifyConnectivity(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		delay := baseDelay * time.Duration(math.Pow(2, float64(attempt)))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("connect cancelled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("failed to connect to neo4j after %d attempts: %w", maxRetries, lastErr)
}

// Close releases the driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func (c *Client) session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
}

// driverQuerier executes queries through managed read/write transactions.
type driverQuerier struct {
	client *Client
}

func (q *driverQuerier) read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := q.client.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*neo4j.Record), nil
}

func (q *driverQuerier) write(ctx context.Context, cypher string, params map[string]any) error {
	session := q.client.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return nil, res.Err()
	})
	return err
}
