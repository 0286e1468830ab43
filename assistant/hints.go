package assistant

import (
	"maps"
	"slices"
	"strings"
)

// Hints are lightweight entities pulled from the query text to narrow
// retrieval: a country for the graph lookup and metadata filters for the
// vector search.
type Hints struct {
	Country string
	City    string
	Type    string
}

// countries recognized in query text. City names map to their country so
// "restaurants in Paris" narrows the graph fetch to France.
var knownCountries = []string{
	"Vietnam", "France", "Italy", "Spain", "Japan", "Thailand", "India",
	"Greece", "Portugal", "Morocco", "Indonesia", "Turkey", "Egypt",
	"Mexico", "Peru", "Brazil", "Australia", "Iceland", "Croatia",
}

var cityCountry = map[string]string{
	"paris":            "France",
	"rome":             "Italy",
	"barcelona":        "Spain",
	"tokyo":            "Japan",
	"kyoto":            "Japan",
	"bangkok":          "Thailand",
	"hanoi":            "Vietnam",
	"da nang":          "Vietnam",
	"hoi an":           "Vietnam",
	"ho chi minh city": "Vietnam",
	"athens":           "Greece",
	"lisbon":           "Portugal",
	"marrakech":        "Morocco",
	"bali":             "Indonesia",
	"istanbul":         "Turkey",
	"cairo":            "Egypt",
}

// location types recognized in query text, keyed by the trigger word.
var typeKeywords = map[string]string{
	"restaurant":  "restaurant",
	"restaurants": "restaurant",
	"eat":         "restaurant",
	"food":        "restaurant",
	"monument":    "monument",
	"monuments":   "monument",
	"museum":      "museum",
	"museums":     "museum",
	"beach":       "beach",
	"beaches":     "beach",
	"temple":      "temple",
	"temples":     "temple",
	"hotel":       "hotel",
	"hotels":      "hotel",
	"market":      "market",
	"markets":     "market",
	"bar":         "bar",
	"bars":        "bar",
}

// Map iteration order would make a query naming two cities resolve
// differently between runs, so matching walks the keys in sorted order.
var (
	knownCities = slices.Sorted(maps.Keys(cityCountry))
	knownTypes  = slices.Sorted(maps.Keys(typeKeywords))
)

// ExtractHints scans the query for known countries, cities, and location
// types. All fields may be empty; retrieval then runs unfiltered. When a
// query names several cities or types, the alphabetically first match wins.
func ExtractHints(query string) Hints {
	q := strings.ToLower(query)
	var h Hints

	for _, country := range knownCountries {
		if strings.Contains(q, strings.ToLower(country)) {
			h.Country = country
			break
		}
	}

	for _, city := range knownCities {
		if strings.Contains(q, city) {
			h.City = title(city)
			if h.Country == "" {
				h.Country = cityCountry[city]
			}
			break
		}
	}

	for _, keyword := range knownTypes {
		if containsWord(q, keyword) {
			h.Type = typeKeywords[keyword]
			break
		}
	}

	return h
}

func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func containsWord(text, word string) bool {
	for _, f := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if f == word {
			return true
		}
	}
	return false
}
