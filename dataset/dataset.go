// Package dataset reads travel locations and documents from CSV and JSON
// source files. Malformed or missing fields are replaced with defaults and
// never abort a load.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/voyago/tripgraph/travel"
)

// LoadLocationsCSV reads locations from a header-mapped CSV file. Expected
// columns: id, name, country, type, description, lat, lon, rating, tags
// (tags separated by "|" or ","). Unknown columns are ignored; missing
// values default.
func LoadLocationsCSV(path string) ([]travel.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open locations csv: %w", err)
	}
	defer f.Close()

	return ReadLocationsCSV(f)
}

// ReadLocationsCSV reads locations from CSV content.
func ReadLocationsCSV(r io.Reader) ([]travel.Location, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var locations []travel.Location
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip damaged rows rather than abort the load.
			continue
		}

		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		loc := travel.Location{
			ID:          get("id"),
			Name:        get("name"),
			Type:        get("type"),
			Description: get("description"),
			Country:     get("country"),
			City:        get("city"),
			Lat:         parseFloat(get("lat")),
			Lon:         parseFloat(get("lon")),
			Rating:      parseFloat(get("rating")),
			Tags:        splitTags(get("tags")),
		}
		if loc.ID == "" {
			loc.ID = loc.Name
		}
		if loc.ID == "" {
			continue
		}
		if loc.Name == "" {
			loc.Name = loc.ID
		}
		locations = append(locations, loc)
	}

	return locations, nil
}

// Connection is a typed edge from one dataset node to another.
type Connection struct {
	Relation string `json:"relation"`
	Target   string `json:"target"`
}

// Node is a single entry of the JSON travel dataset. SemanticText, when
// present, is the text embedded for retrieval; otherwise a bounded slice of
// the description is used.
type Node struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	Name         string       `json:"name"`
	City         string       `json:"city"`
	Region       string       `json:"region"`
	Country      string       `json:"country"`
	Description  string       `json:"description"`
	SemanticText string       `json:"semantic_text"`
	Rating       float64      `json:"rating"`
	Tags         []string     `json:"tags"`
	Connections  []Connection `json:"connections"`
}

// Text returns the text to embed for this node, bounded to maxChars.
func (n Node) Text(maxChars int) string {
	text := n.SemanticText
	if strings.TrimSpace(text) == "" {
		text = n.Description
	}
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return strings.TrimSpace(text)
}

// CityOrRegion returns the city, falling back to the region.
func (n Node) CityOrRegion() string {
	if n.City != "" {
		return n.City
	}
	return n.Region
}

// Location converts the node to a travel.Location.
func (n Node) Location() travel.Location {
	return travel.Location{
		ID:          n.ID,
		Name:        n.Name,
		Type:        n.Type,
		Description: n.Description,
		Country:     n.Country,
		City:        n.CityOrRegion(),
		Rating:      n.Rating,
		Tags:        n.Tags,
	}
}

// LoadNodes reads the JSON travel dataset: an array of nodes with optional
// connections.
func LoadNodes(path string) ([]Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadNodes(f)
}

// ReadNodes decodes dataset nodes from JSON content.
func ReadNodes(r io.Reader) ([]Node, error) {
	var nodes []Node
	if err := json.NewDecoder(r).Decode(&nodes); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	valid := nodes[:0]
	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		if n.Name == "" {
			n.Name = n.ID
		}
		valid = append(valid, n)
	}
	return valid, nil
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	sep := ","
	if strings.Contains(s, "|") {
		sep = "|"
	}
	parts := strings.Split(s, sep)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
