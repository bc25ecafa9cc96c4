package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/alastorbot/alastor/pkg/common"
	"github.com/alastorbot/alastor/pkg/station"
	"github.com/alastorbot/alastor/pkg/stream"
)

// playTimeout bounds the whole start sequence (preflight, resolution,
// decode). The individual network calls carry their own shorter
// timeouts.
const playTimeout = 30 * time.Second

// healthCheckFailedError marks a preflight probe failure. It is not a
// hard error: the UI offers a retry instead.
type healthCheckFailedError struct {
	st station.Station
}

func (e *healthCheckFailedError) Error() string {
	return "health check failed for station " + e.st.Key
}

// startStation resolves the query to a station, gates on a preflight
// health check, obtains the decoded input, joins the user's voice
// channel, halts any previous playback, and registers the new active
// stream. Failures before the halt leave the guild playing whatever it
// was playing.
func startStation(s *discordgo.Session, guildID, userID, query string) (station.Station, error) {
	st, ok := catalog.Resolve(query)
	if !ok {
		return station.Station{}, &station.NotFoundError{Name: query}
	}

	channelID, err := common.FindUserVoiceChannel(s, guildID, userID)
	if err != nil {
		return st, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
	defer cancel()

	if !healthChecker.Check(ctx, st.URL) {
		return st, &healthCheckFailedError{st: st}
	}

	input, err := streamCache.GetOrCreate(ctx, st.URL)
	if err != nil {
		return st, err
	}

	vc, err := common.JoinVoiceChannel(s, guildID, channelID)
	if err != nil {
		return st, fmt.Errorf("failed to join voice channel: %v", err)
	}

	// Both pipelines would share the guild's single voice connection, so
	// the old one must be fully stopped before the new one starts
	// sending frames.
	if prev, ok := registry.Detach(guildID); ok {
		prev.Stop()
	}

	pipeline := common.NewRadioPipeline(vc)
	key := st.Key
	err = pipeline.PlayStream(input.URL, func() {
		log.Printf("Track ended for station %q in guild %s", key, guildID)
	})
	if err != nil {
		return st, fmt.Errorf("failed to start playback: %v", err)
	}

	registry.Start(guildID, channelID, userID, st.Key, st, pipeline)
	return st, nil
}

// HandlePlay runs the /radio play subcommand. The response is deferred
// by the caller; this fills it in.
func HandlePlay(s *discordgo.Session, i *discordgo.InteractionCreate, query string) {
	if query == "" {
		editEmbed(s, i, errorEmbed("Station name is required."))
		return
	}

	st, err := startStation(s, i.GuildID, i.Member.User.ID, query)
	if err != nil {
		editPlayError(s, i, query, err)
		return
	}

	upsertPlayerMessage(s, i.ChannelID, i.GuildID, st.Key)
	editEmbed(s, i, playSuccessEmbed(st))
}

// editPlayError renders each failure class distinctly: unknown station,
// user not in voice, unhealthy stream (with retry affordance), and
// unavailable stream.
func editPlayError(s *discordgo.Session, i *discordgo.InteractionCreate, query string, err error) {
	var notFound *station.NotFoundError
	var unhealthy *healthCheckFailedError
	var unavailable *stream.StreamUnavailableError

	switch {
	case errors.As(err, &notFound):
		editEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "❓ Unknown Station",
			Description: fmt.Sprintf("No station matches **%s**. Try `/radio list` to browse.", query),
			Color:       colorWarning,
			Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
		})
	case errors.Is(err, common.ErrUserNotInVoice):
		editEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "🔇 Not In Voice",
			Description: "Join a voice channel first, then try again.",
			Color:       colorWarning,
			Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
		})
	case errors.As(err, &unhealthy):
		editEmbed(s, i, healthCheckFailedEmbed(unhealthy.st), retryComponents(unhealthy.st.Key))
	case errors.As(err, &unavailable):
		editEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "⚠️ Stream Unavailable",
			Description: fmt.Sprintf("Could not get a playable stream for **%s**. The station may be down.", query),
			Color:       colorWarning,
			Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
		}, retryComponents(query))
	default:
		log.Printf("Failed to play station %q: %v", query, err)
		editEmbed(s, i, errorEmbed(fmt.Sprintf("Failed to play station: %v", err)))
	}
}

func playSuccessEmbed(st station.Station) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🎵 Radio Started",
		Description: fmt.Sprintf("Now playing **%s**", st.Key),
		Color:       colorSuccess,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
	if st.Bitrate > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Bitrate", Value: fmt.Sprintf("%dkbps", st.Bitrate), Inline: true,
		})
	}
	if st.Format != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Format", Value: st.Format, Inline: true,
		})
	}
	return embed
}

func healthCheckFailedEmbed(st station.Station) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "⚠️ Stream Unavailable",
		Description: fmt.Sprintf(
			"**%s** appears to be offline or unreachable.\n\nThis could be temporary - radio streams sometimes go offline briefly.",
			st.Key),
		Color:  colorWarning,
		Footer: &discordgo.MessageEmbedFooter{Text: "Try again in a moment, or choose a different station"},
	}
}

func retryComponents(stationKey string) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "🔄 Try Again",
				Style:    discordgo.SecondaryButton,
				CustomID: "retry_" + stationKey,
			},
			discordgo.Button{
				Label:    "📻 Show Alternatives",
				Style:    discordgo.PrimaryButton,
				CustomID: "show_alternatives",
			},
		},
	}
}
