package graphstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/voyago/tripgraph/travel"
)

// fallbackScore is assigned uniformly to substring matches; the two search
// tiers do not share ranking semantics.
const fallbackScore = 0.5

// Search looks up locations by text. The full-text index is tried first and
// results carry the store's relevance score. When the index yields nothing
// (no match, or index missing), a case-insensitive substring scan over
// name/description answers instead, uniformly scored and ordered by name.
func (c *Client) Search(ctx context.Context, text string, limit int) ([]travel.GraphResult, error) {
	if limit <= 0 {
		limit = 10
	}

	results, err := c.fulltextSearch(ctx, text, limit)
	if err != nil {
		c.logger.Warn("full-text search failed, using substring fallback: %v", err)
	}
	if len(results) > 0 {
		return results, nil
	}

	return c.substringSearch(ctx, text, limit)
}

func (c *Client) fulltextSearch(ctx context.Context, text string, limit int) ([]travel.GraphResult, error) {
	query := sanitizeFulltext(text)
	if query == "" {
		return nil, nil
	}

	cypher := fmt.Sprintf(`
		CALL db.index.fulltext.queryNodes('%s', $query)
		YIELD node, score
		RETURN node, score
		LIMIT $limit`, fulltextIndex)

	records, err := c.run.read(ctx, cypher, map[string]any{
		"query": query,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	results := make([]travel.GraphResult, 0, len(records))
	for _, record := range records {
		node, ok := nodeValue(record, "node")
		if !ok {
			continue
		}
		score := 0.0
		if v, ok := record.Get("score"); ok {
			score, _ = v.(float64)
		}
		results = append(results, travel.GraphResult{
			Location: locationFromProps(node.Props),
			Score:    score,
		})
	}
	return results, nil
}

func (c *Client) substringSearch(ctx context.Context, text string, limit int) ([]travel.GraphResult, error) {
	const cypher = `
		MATCH (l:Location)
		WHERE toLower(l.name) CONTAINS $text OR toLower(l.description) CONTAINS $text
		RETURN l AS node
		ORDER BY l.name
		LIMIT $limit`

	records, err := c.run.read(ctx, cypher, map[string]any{
		"text":  strings.ToLower(strings.TrimSpace(text)),
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("substring search: %w", err)
	}

	results := make([]travel.GraphResult, 0, len(records))
	for _, record := range records {
		node, ok := nodeValue(record, "node")
		if !ok {
			continue
		}
		results = append(results, travel.GraphResult{
			Location: locationFromProps(node.Props),
			Score:    fallbackScore,
		})
	}
	return results, nil
}

// ByCountry returns the country's locations ordered by rating descending.
func (c *Client) ByCountry(ctx context.Context, country string, limit int) ([]travel.Location, error) {
	if limit <= 0 {
		limit = 10
	}

	const cypher = `
		MATCH (l:Location)-[:IN_COUNTRY]->(c:Country)
		WHERE toLower(c.name) = toLower($country)
		RETURN l AS node
		ORDER BY l.rating DESC
		LIMIT $limit`

	records, err := c.run.read(ctx, cypher, map[string]any{
		"country": country,
		"limit":   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("lookup by country: %w", err)
	}

	locations := make([]travel.Location, 0, len(records))
	for _, record := range records {
		node, ok := nodeValue(record, "node")
		if !ok {
			continue
		}
		locations = append(locations, locationFromProps(node.Props))
	}
	return locations, nil
}

// Neighbors returns locations related to the given IDs through
// SAME_COUNTRY, SIMILAR_TYPE, or a shared country node.
func (c *Client) Neighbors(ctx context.Context, ids []string, limit int) ([]travel.GraphResult, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	const cypher = `
		MATCH (l:Location)-[r:SAME_COUNTRY|SIMILAR_TYPE]-(m:Location)
		WHERE l.id IN $ids AND NOT m.id IN $ids
		RETURN DISTINCT m AS node
		LIMIT $limit`

	records, err := c.run.read(ctx, cypher, map[string]any{
		"ids":   ids,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("neighbors lookup: %w", err)
	}

	results := make([]travel.GraphResult, 0, len(records))
	for _, record := range records {
		node, ok := nodeValue(record, "node")
		if !ok {
			continue
		}
		results = append(results, travel.GraphResult{
			Location: locationFromProps(node.Props),
			Score:    fallbackScore,
		})
	}
	return results, nil
}

func nodeValue(record *neo4j.Record, key string) (dbtype.Node, bool) {
	v, ok := record.Get(key)
	if !ok {
		return dbtype.Node{}, false
	}
	node, ok := v.(dbtype.Node)
	return node, ok
}

// locationFromProps maps node properties to a Location, defaulting missing
// fields.
func locationFromProps(props map[string]any) travel.Location {
	loc := travel.Location{
		ID:          propString(props, "id"),
		Name:        propString(props, "name"),
		Type:        propString(props, "type"),
		Description: propString(props, "description"),
		Country:     propString(props, "country"),
		City:        propString(props, "city"),
		Lat:         propFloat(props, "lat"),
		Lon:         propFloat(props, "lon"),
		Rating:      propFloat(props, "rating"),
	}

	switch tags := props["tags"].(type) {
	case []string:
		loc.Tags = tags
	case []any:
		for _, t := range tags {
			loc.Tags = append(loc.Tags, fmt.Sprintf("%v", t))
		}
	case string:
		if tags != "" {
			loc.Tags = strings.Split(tags, ",")
		}
	}

	if loc.Name == "" {
		loc.Name = loc.ID
	}
	return loc
}

func propString(props map[string]any, key string) string {
	if v, ok := props[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func propFloat(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// sanitizeFulltext strips Lucene query syntax so user text cannot break the
// index query.
func sanitizeFulltext(text string) string {
	replacer := strings.NewReplacer(
		"+", " ", "-", " ", "&", " ", "|", " ", "!", " ",
		"(", " ", ")", " ", "{", " ", "}", " ", "[", " ", "]", " ",
		"^", " ", "\"", " ", "~", " ", "*", " ", "?", " ", ":", " ",
		"\\", " ", "/", " ",
	)
	return strings.Join(strings.Fields(replacer.Replace(text)), " ")
}
