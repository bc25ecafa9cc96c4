package stream

import (
	"bufio"
	"context"
	"log"
	"net/http"
	"strings"
	"time"
)

// resolveTimeout bounds the playlist fetch. It is deliberately shorter
// than the health probe timeout: a playlist is a small text file.
const resolveTimeout = 5 * time.Second

// Resolver turns a configured station URL into a concrete playable media
// URL. Playlist files (.m3u, .m3u8, .pls) are fetched once and scanned
// for the first stream entry; anything else passes through untouched.
type Resolver struct {
	client *http.Client
}

// NewResolver creates a resolver with the default 5 second fetch timeout.
func NewResolver() *Resolver {
	return &Resolver{
		client: &http.Client{Timeout: resolveTimeout},
	}
}

// IsPlaylistURL reports whether the URL points at a playlist file that
// needs resolution before it can be handed to the decoder.
func IsPlaylistURL(u string) bool {
	return strings.HasSuffix(u, ".m3u") ||
		strings.HasSuffix(u, ".m3u8") ||
		strings.HasSuffix(u, ".pls")
}

// Resolve returns the playable URL for stationURL. Non-playlist URLs are
// returned unchanged without touching the network. A playlist that cannot
// be fetched, or that contains no http entry, yields a
// StreamUnavailableError carrying the original URL.
func (r *Resolver) Resolve(ctx context.Context, stationURL string) (string, error) {
	if !IsPlaylistURL(stationURL) {
		return stationURL, nil
	}

	log.Printf("Resolving playlist URL: %s", stationURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, stationURL, nil)
	if err != nil {
		return "", &StreamUnavailableError{URL: stationURL}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("Playlist fetch failed for %s: %v", stationURL, err)
		return "", &StreamUnavailableError{URL: stationURL}
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "http") {
			log.Printf("Resolved playlist %s -> %s", stationURL, line)
			return line, nil
		}
	}

	return "", &StreamUnavailableError{URL: stationURL}
}
