package commands

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/alastorbot/alastor/pkg/common"
)

// HandleStop runs the /radio stop subcommand.
func HandleStop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondEphemeralEmbed(s, i, stopStation(s, i.GuildID))
}

// stopStation halts the guild's stream, leaves voice, and builds the
// outcome embed. Stopping an idle guild is fine.
func stopStation(s *discordgo.Session, guildID string) *discordgo.MessageEmbed {
	stationKey, ok := registry.Stop(guildID)
	if !ok {
		return &discordgo.MessageEmbed{
			Title:       "ℹ️ No Active Stream",
			Description: "No radio is currently playing on this server.",
			Color:       colorInfo,
			Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
		}
	}

	if err := common.DisconnectFromVoiceChannel(s, guildID); err != nil {
		log.Printf("Voice disconnect for guild %s: %v", guildID, err)
	}

	return &discordgo.MessageEmbed{
		Title:       "⏹️ Radio Stopped",
		Description: fmt.Sprintf("Stopped **%s** and left the voice channel.", stationKey),
		Color:       colorWarning,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
}
