package stream

import (
	"context"
	"log"
	"time"

	"github.com/alastorbot/alastor/pkg/common"
)

const (
	// FreshnessWindow is how long a cache hit is trusted without
	// re-validation.
	FreshnessWindow = 5 * time.Minute

	// EvictionHorizon is the age past which the janitor purges entries
	// outright, used or not.
	EvictionHorizon = time.Hour
)

type cacheEntry struct {
	input        *Input
	cachedAt     time.Time
	healthPassed bool
}

// Cache holds decoded input templates keyed by the original, unresolved
// station URL, so repeated plays of the same station skip playlist
// resolution and decoding. Entries are shared across guilds; the cache is
// sharded so different stations never contend.
type Cache struct {
	entries  *common.ShardedMap[cacheEntry]
	resolver *Resolver
	health   *HealthChecker
	decoder  Decoder

	now func() time.Time // swapped out by tests
}

// NewCache creates a cache wired to the given collaborators.
func NewCache(resolver *Resolver, health *HealthChecker, decoder Decoder) *Cache {
	return &Cache{
		entries:  common.NewShardedMap[cacheEntry](),
		resolver: resolver,
		health:   health,
		decoder:  decoder,
		now:      time.Now,
	}
}

// GetOrCreate returns the decoded input for stationURL. A cached entry is
// served only if it is younger than the freshness window and its last
// health check passed; otherwise the URL is re-resolved and re-decoded
// and the entry replaced. The entry's health flag is recomputed against
// the original URL on every miss, but a failed check does not block the
// returned handle: the caller already gated on health before playing.
func (c *Cache) GetOrCreate(ctx context.Context, stationURL string) (*Input, error) {
	if e, ok := c.entries.Get(stationURL); ok {
		if c.now().Sub(e.cachedAt) < FreshnessWindow && e.healthPassed {
			log.Printf("Using cached stream input for %s", stationURL)
			return e.input, nil
		}
	}

	log.Printf("Creating stream input for %s", stationURL)

	resolved, err := c.resolver.Resolve(ctx, stationURL)
	if err != nil {
		return nil, err
	}

	input, err := c.decoder.Decode(ctx, resolved)
	if err != nil {
		log.Printf("Decoder rejected %s: %v", resolved, err)
		return nil, &StreamUnavailableError{URL: stationURL}
	}

	c.entries.Set(stationURL, cacheEntry{
		input:        input,
		cachedAt:     c.now(),
		healthPassed: c.health.Check(ctx, stationURL),
	})
	return input, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Sweep evicts every entry older than the eviction horizon, regardless
// of health, and returns how many were removed.
func (c *Cache) Sweep(now time.Time) int {
	var stale []string
	c.entries.Range(func(url string, e cacheEntry) bool {
		if now.Sub(e.cachedAt) > EvictionHorizon {
			stale = append(stale, url)
		}
		return true
	})

	removed := 0
	for _, url := range stale {
		if _, ok := c.entries.DeleteIf(url, func(e cacheEntry) bool {
			return now.Sub(e.cachedAt) > EvictionHorizon
		}); ok {
			log.Printf("Evicting cached stream: %s", url)
			removed++
		}
	}
	return removed
}
