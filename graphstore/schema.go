package graphstore

import (
	"context"
	"fmt"

	"github.com/voyago/tripgraph/travel"
)

// EnsureSchema idempotently creates uniqueness constraints and the full-text
// index. Safe to run at every startup.
func (c *Client) EnsureSchema(ctx context.Context) error {
	statements := []string{
		"CREATE CONSTRAINT location_id IF NOT EXISTS FOR (l:Location) REQUIRE l.id IS UNIQUE",
		"CREATE CONSTRAINT country_name IF NOT EXISTS FOR (c:Country) REQUIRE c.name IS UNIQUE",
		fmt.Sprintf(`CREATE FULLTEXT INDEX %s IF NOT EXISTS
			FOR (l:Location) ON EACH [l.name, l.description, l.type]`, fulltextIndex),
	}

	for _, stmt := range statements {
		if err := c.run.write(ctx, stmt, nil); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	c.logger.Debug("graph schema ensured")
	return nil
}

// LoadLocations upserts Location and Country nodes with their IN_COUNTRY
// edge. Idempotent: re-loading the same data changes nothing.
func (c *Client) LoadLocations(ctx context.Context, locations []travel.Location) error {
	const cypher = `
		MERGE (c:Country {name: $country})
		MERGE (l:Location {id: $id})
		SET l.name = $name,
			l.type = $type,
			l.description = $description,
			l.city = $city,
			l.lat = $lat,
			l.lon = $lon,
			l.rating = $rating,
			l.tags = $tags
		MERGE (l)-[:IN_COUNTRY]->(c)`

	for _, loc := range locations {
		country := loc.Country
		if country == "" {
			country = "Unknown"
		}
		params := map[string]any{
			"id":          loc.ID,
			"name":        loc.Name,
			"type":        loc.Type,
			"description": loc.Description,
			"country":     country,
			"city":        loc.City,
			"lat":         loc.Lat,
			"lon":         loc.Lon,
			"rating":      loc.Rating,
			"tags":        loc.Tags,
		}
		if err := c.run.write(ctx, cypher, params); err != nil {
			return fmt.Errorf("load location %s: %w", loc.ID, err)
		}
	}

	c.logger.Info("loaded %d locations into graph", len(locations))
	return nil
}

// BuildRelationships derives SIMILAR_TYPE and SAME_COUNTRY edges from the
// loaded locations. The id ordering guard keeps edges single and the
// operation idempotent; edges are rebuildable at any time.
func (c *Client) BuildRelationships(ctx context.Context) error {
	statements := []string{
		`MATCH (l1:Location), (l2:Location)
		 WHERE l1.type = l2.type AND l1.id < l2.id AND l1.type <> ''
		 MERGE (l1)-[:SIMILAR_TYPE]->(l2)`,
		`MATCH (l1:Location)-[:IN_COUNTRY]->(c:Country)<-[:IN_COUNTRY]-(l2:Location)
		 WHERE l1.id < l2.id
		 MERGE (l1)-[:SAME_COUNTRY]->(l2)`,
	}

	for _, stmt := range statements {
		if err := c.run.write(ctx, stmt, nil); err != nil {
			return fmt.Errorf("build relationships: %w", err)
		}
	}
	c.logger.Info("derived relationship edges")
	return nil
}

// Stats summarizes the graph contents.
type Stats struct {
	Locations     int64
	Countries     int64
	Relationships int64
}

// Stats returns node and relationship counts.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	const cypher = `
		MATCH (l:Location) WITH count(l) AS locations
		MATCH (c:Country) WITH locations, count(c) AS countries
		MATCH ()-[r]->()
		RETURN locations, countries, count(r) AS relationships`

	records, err := c.run.read(ctx, cypher, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("graph stats: %w", err)
	}
	if len(records) == 0 {
		return Stats{}, nil
	}

	var stats Stats
	if v, ok := records[0].Get("locations"); ok {
		stats.Locations, _ = v.(int64)
	}
	if v, ok := records[0].Get("countries"); ok {
		stats.Countries, _ = v.(int64)
	}
	if v, ok := records[0].Get("relationships"); ok {
		stats.Relationships, _ = v.(int64)
	}
	return stats, nil
}

// DeleteAll removes every node and relationship. Use with caution.
func (c *Client) DeleteAll(ctx context.Context) error {
	return c.run.write(ctx, "MATCH (n) DETACH DELETE n", nil)
}
