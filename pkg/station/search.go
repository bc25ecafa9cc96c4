package station

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxResults caps search output to what a Discord autocomplete response
// can carry.
const maxResults = 25

// fuzzyThreshold is the minimum similarity for Resolve to accept a fuzzy
// candidate; the comparison is strict, so exactly 0.7 does not match.
const fuzzyThreshold = 0.7

// Match is a scored search result.
type Match struct {
	Key     string
	Station Station
	Score   float64
}

// Resolve turns free-text user input into a station. It tries, in order:
// exact key match, exact alias match, then the single best fuzzy match
// with similarity strictly above 0.7. All comparisons are
// case-insensitive. Ties between equally similar fuzzy candidates go to
// the earlier station in catalog order.
func (c *Catalog) Resolve(query string) (Station, bool) {
	lower := strings.ToLower(query)

	if idx, ok := c.byKey[lower]; ok {
		return c.stations[idx], true
	}

	for _, st := range c.stations {
		for _, alias := range st.Aliases {
			if strings.ToLower(alias) == lower {
				return st, true
			}
		}
	}

	best := -1
	bestScore := fuzzyThreshold
	for i, st := range c.stations {
		if sim := similarity(lower, strings.ToLower(st.Key)); sim > bestScore {
			bestScore = sim
			best = i
		}
		for _, alias := range st.Aliases {
			if sim := similarity(lower, strings.ToLower(alias)); sim > bestScore {
				bestScore = sim
				best = i
			}
		}
	}
	if best >= 0 {
		return c.stations[best], true
	}
	return Station{}, false
}

// Search scores every station against the query and returns up to 25
// matches ordered by score, best first. An empty query lists stations in
// catalog order without scoring. Each station's score is the highest of
// the rules that apply to it:
//
//	exact key 1.0, exact alias 0.95, key prefix 0.9, alias prefix 0.85,
//	key substring 0.8, alias substring 0.75, fuzzy similarity*0.7 when
//	similarity exceeds 0.6.
func (c *Catalog) Search(query string) []Match {
	if query == "" {
		n := len(c.stations)
		if n > maxResults {
			n = maxResults
		}
		matches := make([]Match, n)
		for i := 0; i < n; i++ {
			matches[i] = Match{Key: c.stations[i].Key, Station: c.stations[i]}
		}
		return matches
	}

	lower := strings.ToLower(query)
	var matches []Match
	for _, st := range c.stations {
		if score, ok := scoreStation(st, lower); ok {
			matches = append(matches, Match{Key: st.Key, Station: st, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

func scoreStation(st Station, query string) (float64, bool) {
	key := strings.ToLower(st.Key)
	best := 0.0

	switch {
	case key == query:
		best = 1.0
	case strings.HasPrefix(key, query):
		best = 0.9
	case strings.Contains(key, query):
		best = 0.8
	}

	for _, alias := range st.Aliases {
		a := strings.ToLower(alias)
		switch {
		case a == query:
			best = max(best, 0.95)
		case strings.HasPrefix(a, query):
			best = max(best, 0.85)
		case strings.Contains(a, query):
			best = max(best, 0.75)
		}
	}

	if sim := similarity(query, key); sim > 0.6 {
		best = max(best, sim*0.7)
	}

	if best == 0 {
		return 0, false
	}
	return best, true
}

// similarity is the normalized Levenshtein similarity of two strings:
// 1 - distance / max(len(a), len(b)). Inputs are expected lowercased.
func similarity(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}
