package stream

import (
	"context"
	"log"
	"net/http"
	"time"
)

// healthTimeout bounds the reachability probe.
const healthTimeout = 10 * time.Second

// HealthChecker probes whether a stream URL is currently reachable. It is
// used as a preflight gate before joining voice and as a cache-validity
// signal; in both roles a network failure degrades to false rather than
// propagating an error.
type HealthChecker struct {
	client   *http.Client
	resolver *Resolver
}

// NewHealthChecker creates a checker that resolves playlist URLs through
// resolver before probing, so the probe hits the real media URL.
func NewHealthChecker(resolver *Resolver) *HealthChecker {
	return &HealthChecker{
		client:   &http.Client{Timeout: healthTimeout},
		resolver: resolver,
	}
}

// Check reports whether url answers a HEAD request with a success status.
// It never returns an error: resolution failures, transport errors, and
// non-2xx statuses all report false.
func (h *HealthChecker) Check(ctx context.Context, url string) bool {
	target := url
	if IsPlaylistURL(url) {
		resolved, err := h.resolver.Resolve(ctx, url)
		if err != nil {
			log.Printf("Health check failed resolving %s: %v", url, err)
			return false
		}
		target = resolved
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.Printf("Health check failed for %s: %v", url, err)
		return false
	}
	defer resp.Body.Close()

	healthy := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !healthy {
		log.Printf("Health check failed with status %d for %s", resp.StatusCode, url)
	}
	return healthy
}
