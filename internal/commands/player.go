package commands

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// upsertPlayerMessage edits the guild's persistent now-playing message
// in place, or sends a fresh one and remembers it. Spamming a new
// message per play is exactly what this avoids.
func upsertPlayerMessage(s *discordgo.Session, channelID, guildID, stationKey string) {
	embed := &discordgo.MessageEmbed{
		Title:       "📻 Alastor Player",
		Description: fmt.Sprintf("Now playing: **%s**", stationKey),
		Color:       colorPlayer,
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Next", Style: discordgo.PrimaryButton, CustomID: "player_next"},
				discordgo.Button{Label: "Stop", Style: discordgo.DangerButton, CustomID: "player_stop"},
			},
		},
	}

	if msgID, ok := registry.PlayerMessage(guildID); ok {
		embeds := []*discordgo.MessageEmbed{embed}
		_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    channelID,
			ID:         msgID,
			Embeds:     &embeds,
			Components: &components,
		})
		if err == nil {
			return
		}
		log.Printf("Failed to edit player message for guild %s, sending a new one: %v", guildID, err)
	}

	msg, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		log.Printf("Failed to send player message for guild %s: %v", guildID, err)
		return
	}
	registry.SetPlayerMessage(guildID, msg.ID)
}

// HandleComponent dispatches button clicks and select-menu picks from
// the player message and the health-check retry prompt.
func HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()

	switch {
	case data.CustomID == "player_stop":
		respondEphemeralEmbed(s, i, stopStation(s, i.GuildID))

	case data.CustomID == "player_next":
		handlePlayerNext(s, i)

	case data.CustomID == "player_choose":
		if len(data.Values) == 0 {
			respondEphemeralEmbed(s, i, errorEmbed("No station selected."))
			return
		}
		playFromComponent(s, i, data.Values[0])

	case strings.HasPrefix(data.CustomID, "retry_"):
		playFromComponent(s, i, strings.TrimPrefix(data.CustomID, "retry_"))

	case data.CustomID == "show_alternatives":
		respondEphemeralEmbed(s, i, stationListEmbed(""))

	default:
		log.Printf("Unknown component interaction: %s", data.CustomID)
	}
}

// handlePlayerNext cycles to the next station in catalog order.
func handlePlayerNext(s *discordgo.Session, i *discordgo.InteractionCreate) {
	keys := catalog.Keys()
	if len(keys) == 0 {
		respondEphemeralEmbed(s, i, errorEmbed("No stations configured."))
		return
	}

	idx := 0
	if as, ok := registry.Current(i.GuildID); ok {
		for n, key := range keys {
			if strings.EqualFold(key, as.StationKey) {
				idx = n + 1
				break
			}
		}
	}
	playFromComponent(s, i, keys[idx%len(keys)])
}

// playFromComponent runs the start sequence on behalf of a component
// interaction, deferring first since playback startup can take seconds.
func playFromComponent(s *discordgo.Session, i *discordgo.InteractionCreate, stationKey string) {
	if err := deferResponse(s, i, true); err != nil {
		log.Printf("Error acknowledging component interaction: %v", err)
		return
	}

	st, err := startStation(s, i.GuildID, i.Member.User.ID, stationKey)
	if err != nil {
		editPlayError(s, i, stationKey, err)
		return
	}

	upsertPlayerMessage(s, i.ChannelID, i.GuildID, st.Key)
	editEmbed(s, i, playSuccessEmbed(st))
}
