package radio

import (
	"log"
	"time"

	"github.com/alastorbot/alastor/pkg/common"
	"github.com/alastorbot/alastor/pkg/station"
)

// StaleStreamHorizon is the age past which an active stream is treated
// as an abandoned session and swept. It is deliberately longer than the
// cache freshness window: freshness governs whether a hit is trusted,
// this governs outright eviction.
const StaleStreamHorizon = time.Hour

// Playback is the per-guild voice-transport handle. It is exclusively
// owned by that guild's active stream and only touched through the
// registry's Start/Stop transitions.
type Playback interface {
	Stop()
}

// ActiveStream records what a guild is currently playing. The Station
// field is a snapshot copy taken at start time, never a live reference
// into the catalog.
type ActiveStream struct {
	StationKey string
	Station    station.Station
	GuildID    string
	ChannelID  string
	StartedBy  string
	StartedAt  time.Time
	Playback   Playback
}

// Registry tracks at most one active stream per guild, plus the
// now-playing message each guild's UI edits in place. Both maps are
// sharded: operations on different guilds never block each other, and
// replace/remove for a single guild is atomic.
type Registry struct {
	streams  *common.ShardedMap[ActiveStream]
	messages *common.ShardedMap[string]

	now func() time.Time // swapped out by tests
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		streams:  common.NewShardedMap[ActiveStream](),
		messages: common.NewShardedMap[string](),
		now:      time.Now,
	}
}

// Start records guildID as playing st, unconditionally replacing any
// existing stream for that guild. Switching stations is a first-class
// operation, not a conflict. The previous playback handle, if any, is
// stopped exactly once after the record swap; the swap itself is atomic,
// so concurrent starts for the same guild resolve to whichever completes
// its critical section last.
func (r *Registry) Start(guildID, channelID, userID, stationKey string, st station.Station, pb Playback) {
	prev, replaced := r.streams.Swap(guildID, ActiveStream{
		StationKey: stationKey,
		Station:    st,
		GuildID:    guildID,
		ChannelID:  channelID,
		StartedBy:  userID,
		StartedAt:  r.now(),
		Playback:   pb,
	})
	if replaced && prev.Playback != nil {
		prev.Playback.Stop()
		log.Printf("Replaced station %q with %q in guild %s", prev.StationKey, stationKey, guildID)
	} else {
		log.Printf("Playing station %q in guild %s", stationKey, guildID)
	}
}

// Detach atomically removes and returns the guild's playback handle,
// leaving the stream record itself in place. Callers switching stations
// use it to halt the old voice transport before starting the
// replacement; the subsequent Start swap then finds nothing left to
// stop, so the handle is still stopped exactly once.
func (r *Registry) Detach(guildID string) (Playback, bool) {
	prev, ok := r.streams.Update(guildID, func(as ActiveStream) ActiveStream {
		as.Playback = nil
		return as
	})
	if !ok || prev.Playback == nil {
		return nil, false
	}
	return prev.Playback, true
}

// Stop halts and removes the guild's active stream, returning the key of
// the station that was playing. A guild with nothing playing returns
// ok=false; that is not an error.
func (r *Registry) Stop(guildID string) (string, bool) {
	prev, ok := r.streams.Delete(guildID)
	if !ok {
		return "", false
	}
	if prev.Playback != nil {
		prev.Playback.Stop()
	}
	r.messages.Delete(guildID)
	log.Printf("Stopped station %q in guild %s", prev.StationKey, guildID)
	return prev.StationKey, true
}

// Current returns a read-only snapshot of the guild's active stream.
func (r *Registry) Current(guildID string) (ActiveStream, bool) {
	return r.streams.Get(guildID)
}

// ActiveCount returns the number of guilds currently playing.
func (r *Registry) ActiveCount() int {
	return r.streams.Len()
}

// SetPlayerMessage associates the guild's now-playing message so later
// interactions can edit it in place. Overwritten on each new play.
func (r *Registry) SetPlayerMessage(guildID, messageID string) {
	r.messages.Set(guildID, messageID)
}

// PlayerMessage returns the guild's now-playing message, if one exists.
func (r *Registry) PlayerMessage(guildID string) (string, bool) {
	return r.messages.Get(guildID)
}

// ClearPlayerMessage drops the guild's now-playing message association.
func (r *Registry) ClearPlayerMessage(guildID string) {
	r.messages.Delete(guildID)
}

// Sweep removes every active stream older than the stale horizon,
// stopping its playback handle, and returns how many were evicted.
// Idempotent and safe to call on any schedule.
func (r *Registry) Sweep(now time.Time) int {
	var stale []string
	r.streams.Range(func(guildID string, as ActiveStream) bool {
		if now.Sub(as.StartedAt) > StaleStreamHorizon {
			stale = append(stale, guildID)
		}
		return true
	})

	removed := 0
	for _, guildID := range stale {
		prev, ok := r.streams.DeleteIf(guildID, func(as ActiveStream) bool {
			return now.Sub(as.StartedAt) > StaleStreamHorizon
		})
		if !ok {
			continue // restarted since the scan, leave it alone
		}
		if prev.Playback != nil {
			prev.Playback.Stop()
		}
		r.messages.Delete(guildID)
		log.Printf("Cleaning up inactive stream for guild %s", guildID)
		removed++
	}
	return removed
}
