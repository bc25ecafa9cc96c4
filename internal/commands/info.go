package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// HandleInfo runs the /radio info subcommand: what is playing, for how
// long, and who started it.
func HandleInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	as, ok := registry.Current(i.GuildID)
	if !ok {
		respondEphemeralEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "ℹ️ No Active Stream",
			Description: "No radio is currently playing on this server.",
			Color:       colorInfo,
			Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
		})
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎵 Currently Playing",
		Description: fmt.Sprintf("**%s**", as.StationKey),
		Color:       colorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Duration", Value: formatDuration(time.Since(as.StartedAt)), Inline: true},
			{Name: "Started by", Value: fmt.Sprintf("<@%s>", as.StartedBy), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
	if as.Station.Bitrate > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Bitrate", Value: fmt.Sprintf("%dkbps", as.Station.Bitrate), Inline: true,
		})
	}
	if as.Station.Format != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Format", Value: as.Station.Format, Inline: true,
		})
	}

	respondEphemeralEmbed(s, i, embed)
}
