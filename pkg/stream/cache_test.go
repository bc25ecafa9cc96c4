package stream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// fakeDecoder counts decodes and can be forced to fail.
type fakeDecoder struct {
	calls atomic.Int64
	fail  bool
}

func (d *fakeDecoder) Decode(_ context.Context, resolvedURL string) (*Input, error) {
	d.calls.Add(1)
	if d.fail {
		return nil, errors.New("decode failed")
	}
	return &Input{URL: resolvedURL}, nil
}

// newCacheFixture spins up a station endpoint that serves a playlist and
// answers health probes, and returns a cache over it plus the request
// counter.
func newCacheFixture(t *testing.T, healthy bool) (*Cache, *fakeDecoder, string, *atomic.Int64) {
	t.Helper()

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Method == http.MethodHead {
			if healthy {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusServiceUnavailable)
			}
			return
		}
		w.Write([]byte("#EXTM3U\nhttp://stream.example/live\n"))
	}))
	t.Cleanup(srv.Close)

	resolver := NewResolver()
	decoder := &fakeDecoder{}
	cache := NewCache(resolver, NewHealthChecker(resolver), decoder)
	return cache, decoder, srv.URL + "/station.m3u", &requests
}

func TestGetOrCreateCachesWithinFreshnessWindow(t *testing.T) {
	cache, decoder, stationURL, requests := newCacheFixture(t, true)
	ctx := context.Background()

	input1, err := cache.GetOrCreate(ctx, stationURL)
	if err != nil {
		t.Fatalf("first GetOrCreate: %v", err)
	}
	if input1.URL != "http://stream.example/live" {
		t.Errorf("input URL = %q, want resolved stream URL", input1.URL)
	}

	afterFirst := requests.Load()
	if afterFirst == 0 {
		t.Fatal("first call did no network work")
	}

	input2, err := cache.GetOrCreate(ctx, stationURL)
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if input2 != input1 {
		t.Error("second call returned a different handle, want the cached one")
	}
	if requests.Load() != afterFirst {
		t.Errorf("second call did network work: %d requests, want %d", requests.Load(), afterFirst)
	}
	if decoder.calls.Load() != 1 {
		t.Errorf("decoder called %d times, want 1", decoder.calls.Load())
	}
}

func TestGetOrCreateReResolvesExpiredEntry(t *testing.T) {
	cache, decoder, stationURL, _ := newCacheFixture(t, true)
	ctx := context.Background()

	if _, err := cache.GetOrCreate(ctx, stationURL); err != nil {
		t.Fatalf("first GetOrCreate: %v", err)
	}

	// Age the entry past the freshness window.
	cache.now = func() time.Time { return time.Now().Add(FreshnessWindow + time.Second) }

	if _, err := cache.GetOrCreate(ctx, stationURL); err != nil {
		t.Fatalf("GetOrCreate after expiry: %v", err)
	}
	if decoder.calls.Load() != 2 {
		t.Errorf("decoder called %d times, want 2 after expiry", decoder.calls.Load())
	}
}

func TestGetOrCreateIgnoresUnhealthyEntry(t *testing.T) {
	cache, decoder, stationURL, _ := newCacheFixture(t, false)
	ctx := context.Background()

	// The handle is still returned even though the health probe failed;
	// health is cache bookkeeping here, the play path gates separately.
	if _, err := cache.GetOrCreate(ctx, stationURL); err != nil {
		t.Fatalf("first GetOrCreate: %v", err)
	}

	// A fresh-but-unhealthy entry must not be served as a hit.
	if _, err := cache.GetOrCreate(ctx, stationURL); err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if decoder.calls.Load() != 2 {
		t.Errorf("decoder called %d times, want 2 for an unhealthy entry", decoder.calls.Load())
	}
}

func TestGetOrCreateDecodeFailure(t *testing.T) {
	cache, decoder, stationURL, _ := newCacheFixture(t, true)
	decoder.fail = true

	_, err := cache.GetOrCreate(context.Background(), stationURL)

	var unavailable *StreamUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("err = %v, want StreamUnavailableError", err)
	}
	if unavailable.URL != stationURL {
		t.Errorf("error carries %q, want the original station URL %q", unavailable.URL, stationURL)
	}
	if cache.Len() != 0 {
		t.Errorf("failed decode left %d cache entries, want 0", cache.Len())
	}
}

func TestGetOrCreateResolutionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("#EXTM3U\n#empty\n"))
	}))
	defer srv.Close()

	resolver := NewResolver()
	cache := NewCache(resolver, NewHealthChecker(resolver), &fakeDecoder{})

	_, err := cache.GetOrCreate(context.Background(), srv.URL+"/station.m3u")
	var unavailable *StreamUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("err = %v, want StreamUnavailableError", err)
	}
}

func TestCacheSweep(t *testing.T) {
	cache, _, stationURL, _ := newCacheFixture(t, true)
	ctx := context.Background()

	if _, err := cache.GetOrCreate(ctx, stationURL); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", cache.Len())
	}

	// Younger than the horizon: kept.
	if removed := cache.Sweep(time.Now().Add(30 * time.Minute)); removed != 0 {
		t.Errorf("Sweep(+30m) removed %d, want 0", removed)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d after early sweep, want 1", cache.Len())
	}

	// Older than the horizon: purged regardless of health.
	if removed := cache.Sweep(time.Now().Add(2 * time.Hour)); removed != 1 {
		t.Errorf("Sweep(+2h) removed %d, want 1", removed)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after sweep, want 0", cache.Len())
	}
}
