package commands

import (
	"github.com/bwmarrin/discordgo"
)

// HandleHelp runs the /help command.
func HandleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondEphemeralEmbed(s, i, &discordgo.MessageEmbed{
		Title: "📖 Alastor Commands",
		Color: colorPlayer,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "/radio play <station>", Value: "Play a radio station. Station names autocomplete.", Inline: false},
			{Name: "/radio choose", Value: "Pick a station from a dropdown menu.", Inline: false},
			{Name: "/radio stop", Value: "Stop playback and leave the voice channel.", Inline: false},
			{Name: "/radio info", Value: "Show what's playing and for how long.", Inline: false},
			{Name: "/radio list [search]", Value: "List or search the available stations.", Inline: false},
			{Name: "/setup", Value: "Server configuration (admin only).", Inline: false},
			{Name: "/about", Value: "About this bot.", Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	})
}
