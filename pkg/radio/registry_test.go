package radio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alastorbot/alastor/pkg/station"
)

// fakePlayback counts how many times it was stopped.
type fakePlayback struct {
	stops atomic.Int64
}

func (p *fakePlayback) Stop() { p.stops.Add(1) }

func testStation(key string) station.Station {
	return station.Station{Key: key, URL: "http://" + key + ".example/stream"}
}

func TestStartAndCurrent(t *testing.T) {
	r := NewRegistry()
	pb := &fakePlayback{}

	r.Start("guild1", "chan1", "user1", "JazzFM", testStation("JazzFM"), pb)

	as, ok := r.Current("guild1")
	if !ok {
		t.Fatal("Current(guild1) not found after Start")
	}
	if as.StationKey != "JazzFM" || as.ChannelID != "chan1" || as.StartedBy != "user1" {
		t.Errorf("unexpected active stream: %+v", as)
	}
	if as.StartedAt.IsZero() {
		t.Error("StartedAt not recorded")
	}
	if r.ActiveCount() != 1 {
		t.Errorf("ActiveCount() = %d, want 1", r.ActiveCount())
	}
}

func TestStartReplacesAndStopsPreviousExactlyOnce(t *testing.T) {
	r := NewRegistry()
	pbX := &fakePlayback{}
	pbY := &fakePlayback{}

	r.Start("guild1", "chan1", "user1", "StationX", testStation("StationX"), pbX)
	r.Start("guild1", "chan1", "user2", "StationY", testStation("StationY"), pbY)

	as, ok := r.Current("guild1")
	if !ok || as.StationKey != "StationY" {
		t.Errorf("Current = %q, want StationY (last writer wins)", as.StationKey)
	}
	if got := pbX.stops.Load(); got != 1 {
		t.Errorf("previous handle stopped %d times, want exactly 1", got)
	}
	if got := pbY.stops.Load(); got != 0 {
		t.Errorf("new handle stopped %d times, want 0", got)
	}
	if r.ActiveCount() != 1 {
		t.Errorf("ActiveCount() = %d, want 1 (replace, not add)", r.ActiveCount())
	}
}

func TestDetachThenStartStopsPreviousExactlyOnce(t *testing.T) {
	r := NewRegistry()
	pbX := &fakePlayback{}
	pbY := &fakePlayback{}

	r.Start("guild1", "chan1", "user1", "StationX", testStation("StationX"), pbX)

	// Station switch: the old transport is detached and halted before
	// the replacement starts, and the Start swap must not stop it again.
	pb, ok := r.Detach("guild1")
	if !ok {
		t.Fatal("Detach on an active guild returned false")
	}
	pb.Stop()
	r.Start("guild1", "chan1", "user1", "StationY", testStation("StationY"), pbY)

	if got := pbX.stops.Load(); got != 1 {
		t.Errorf("detached handle stopped %d times, want exactly 1", got)
	}
	if got := pbY.stops.Load(); got != 0 {
		t.Errorf("new handle stopped %d times, want 0", got)
	}
	as, ok := r.Current("guild1")
	if !ok || as.StationKey != "StationY" {
		t.Errorf("Current = %q, want StationY", as.StationKey)
	}
}

func TestDetachLeavesRecordInPlace(t *testing.T) {
	r := NewRegistry()
	pb := &fakePlayback{}
	r.Start("guild1", "chan1", "user1", "JazzFM", testStation("JazzFM"), pb)

	if _, ok := r.Detach("guild1"); !ok {
		t.Fatal("Detach on an active guild returned false")
	}

	as, ok := r.Current("guild1")
	if !ok || as.StationKey != "JazzFM" {
		t.Errorf("Current after Detach = (%q, %v), want (JazzFM, true)", as.StationKey, ok)
	}
	if as.Playback != nil {
		t.Error("record still holds the playback handle after Detach")
	}

	// A second Detach finds no handle; a Stop removes the record without
	// stopping anything the caller already stopped.
	if _, ok := r.Detach("guild1"); ok {
		t.Error("second Detach returned a handle, want none")
	}
	key, ok := r.Stop("guild1")
	if !ok || key != "JazzFM" {
		t.Errorf("Stop after Detach = (%q, %v), want (JazzFM, true)", key, ok)
	}
	if got := pb.stops.Load(); got != 0 {
		t.Errorf("Stop after Detach stopped the handle %d times, want 0", got)
	}
}

func TestDetachIdleGuild(t *testing.T) {
	r := NewRegistry()

	if pb, ok := r.Detach("guild1"); ok || pb != nil {
		t.Errorf("Detach on idle guild = (%v, %v), want (nil, false)", pb, ok)
	}
}

func TestStop(t *testing.T) {
	r := NewRegistry()
	pb := &fakePlayback{}
	r.Start("guild1", "chan1", "user1", "JazzFM", testStation("JazzFM"), pb)
	r.SetPlayerMessage("guild1", "msg1")

	key, ok := r.Stop("guild1")
	if !ok || key != "JazzFM" {
		t.Errorf("Stop = (%q, %v), want (JazzFM, true)", key, ok)
	}
	if pb.stops.Load() != 1 {
		t.Errorf("playback stopped %d times, want 1", pb.stops.Load())
	}
	if _, ok := r.Current("guild1"); ok {
		t.Error("Current still reports a stream after Stop")
	}
	if _, ok := r.PlayerMessage("guild1"); ok {
		t.Error("player message survived Stop, want cleared")
	}
}

func TestStopIdleGuild(t *testing.T) {
	r := NewRegistry()

	key, ok := r.Stop("guild1")
	if ok || key != "" {
		t.Errorf("Stop on idle guild = (%q, %v), want (\"\", false)", key, ok)
	}
}

func TestPlayerMessageAssociation(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.PlayerMessage("guild1"); ok {
		t.Error("PlayerMessage before Set, want none")
	}

	r.SetPlayerMessage("guild1", "msg1")
	r.SetPlayerMessage("guild1", "msg2") // overwritten on each new play

	msgID, ok := r.PlayerMessage("guild1")
	if !ok || msgID != "msg2" {
		t.Errorf("PlayerMessage = (%q, %v), want (msg2, true)", msgID, ok)
	}

	r.ClearPlayerMessage("guild1")
	if _, ok := r.PlayerMessage("guild1"); ok {
		t.Error("PlayerMessage survived Clear")
	}
}

func TestSweepEvictsOnlyStaleStreams(t *testing.T) {
	r := NewRegistry()
	now := time.Now()

	stale := &fakePlayback{}
	fresh := &fakePlayback{}

	r.now = func() time.Time { return now.Add(-2 * time.Hour) }
	r.Start("staleGuild", "chan1", "user1", "StationX", testStation("StationX"), stale)
	r.SetPlayerMessage("staleGuild", "msg1")

	r.now = func() time.Time { return now.Add(-30 * time.Minute) }
	r.Start("freshGuild", "chan2", "user2", "StationY", testStation("StationY"), fresh)

	if removed := r.Sweep(now); removed != 1 {
		t.Errorf("Sweep removed %d, want 1", removed)
	}

	if _, ok := r.Current("staleGuild"); ok {
		t.Error("2h-old stream survived the sweep")
	}
	if stale.stops.Load() != 1 {
		t.Errorf("stale playback stopped %d times, want 1", stale.stops.Load())
	}
	if _, ok := r.PlayerMessage("staleGuild"); ok {
		t.Error("stale guild's player message survived the sweep")
	}

	if _, ok := r.Current("freshGuild"); !ok {
		t.Error("30m-old stream was evicted, want kept")
	}
	if fresh.stops.Load() != 0 {
		t.Errorf("fresh playback stopped %d times, want 0", fresh.stops.Load())
	}
}

func TestSweepIdempotent(t *testing.T) {
	r := NewRegistry()
	now := time.Now()

	r.now = func() time.Time { return now.Add(-2 * time.Hour) }
	r.Start("guild1", "chan1", "user1", "StationX", testStation("StationX"), &fakePlayback{})

	if removed := r.Sweep(now); removed != 1 {
		t.Fatalf("first Sweep removed %d, want 1", removed)
	}
	if removed := r.Sweep(now); removed != 0 {
		t.Errorf("second Sweep removed %d, want 0", removed)
	}
}

func TestConcurrentStartsAcrossGuilds(t *testing.T) {
	r := NewRegistry()
	const guilds = 50
	const startsPerGuild = 10

	var wg sync.WaitGroup
	for g := 0; g < guilds; g++ {
		guildID := fmt.Sprintf("guild%d", g)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < startsPerGuild; n++ {
				key := fmt.Sprintf("Station%d", n)
				r.Start(guildID, "chan", "user", key, testStation(key), &fakePlayback{})
			}
		}()
	}
	wg.Wait()

	if r.ActiveCount() != guilds {
		t.Errorf("ActiveCount() = %d, want %d", r.ActiveCount(), guilds)
	}
	// Program order per guild: the last start must win.
	for g := 0; g < guilds; g++ {
		guildID := fmt.Sprintf("guild%d", g)
		as, ok := r.Current(guildID)
		if !ok || as.StationKey != fmt.Sprintf("Station%d", startsPerGuild-1) {
			t.Errorf("Current(%s) = %q, want Station%d", guildID, as.StationKey, startsPerGuild-1)
		}
	}
}
