package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var botDescription = "Alastor - The Radio Daemon"

// SetDescription overrides the /about blurb from configuration.
func SetDescription(desc string) {
	if desc != "" {
		botDescription = desc
	}
}

// HandleAbout runs the /about command.
func HandleAbout(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondEphemeralEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🎭 About Alastor",
		Description: botDescription,
		Color:       colorPlayer,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Stations", Value: fmt.Sprintf("%d configured", catalog.Len()), Inline: true},
			{Name: "Live streams", Value: fmt.Sprintf("%d right now", registry.ActiveCount()), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	})
}
