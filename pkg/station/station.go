package station

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Station is a single configured internet radio source. Stations are
// immutable after the catalog is loaded.
type Station struct {
	Key         string   `yaml:"-"`
	URL         string   `yaml:"url"`
	Aliases     []string `yaml:"aliases"`
	Bitrate     int      `yaml:"bitrate"`
	Format      string   `yaml:"format"`
	Description string   `yaml:"description"`
}

// Catalog holds the configured stations in file order. Keys are unique
// case-insensitively; lookups never mutate the catalog, so it is safe to
// share across goroutines without locking.
type Catalog struct {
	stations []Station
	byKey    map[string]int // lowercased key -> index into stations
}

// NotFoundError is returned when no station matches a user query.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("station not found: %s", e.Name)
}

// LoadCatalog reads the stations file. The file carries a top-level
// "radios" mapping; mapping order is preserved so that listing and tie
// breaking are deterministic.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stations file: %w", err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse stations file: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("stations file is empty")
	}

	root := doc.Content[0]
	var radios *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "radios" {
			radios = root.Content[i+1]
			break
		}
	}
	if radios == nil || radios.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("stations file has no \"radios\" mapping")
	}

	c := &Catalog{byKey: make(map[string]int)}
	for i := 0; i+1 < len(radios.Content); i += 2 {
		key := radios.Content[i].Value

		var st Station
		if err := radios.Content[i+1].Decode(&st); err != nil {
			return nil, fmt.Errorf("invalid station %q: %w", key, err)
		}
		st.Key = key

		lower := strings.ToLower(key)
		if _, dup := c.byKey[lower]; dup {
			// First definition wins, matching lookup semantics.
			log.Printf("Duplicate station key %q ignored", key)
			continue
		}

		if u, err := url.Parse(st.URL); err != nil || u.Scheme == "" {
			log.Printf("Warning: invalid URL for station %q: %s", key, st.URL)
		}

		c.byKey[lower] = len(c.stations)
		c.stations = append(c.stations, st)
	}

	if len(c.stations) == 0 {
		return nil, fmt.Errorf("stations file defines no stations")
	}
	return c, nil
}

// Get returns the station stored under the exact (case-insensitive) key.
func (c *Catalog) Get(key string) (Station, bool) {
	idx, ok := c.byKey[strings.ToLower(key)]
	if !ok {
		return Station{}, false
	}
	return c.stations[idx], true
}

// Keys returns the station keys in catalog order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.stations))
	for i, st := range c.stations {
		keys[i] = st.Key
	}
	return keys
}

// Len returns the number of configured stations.
func (c *Catalog) Len() int {
	return len(c.stations)
}
