package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// HandleList runs the /radio list subcommand, optionally filtered by a
// search query.
func HandleList(s *discordgo.Session, i *discordgo.InteractionCreate, query string) {
	respondEphemeralEmbed(s, i, stationListEmbed(query))
}

// stationListEmbed renders up to 10 stations inline, with a count of the
// rest. Also reused by the show_alternatives button.
func stationListEmbed(query string) *discordgo.MessageEmbed {
	matches := catalog.Search(query)

	var b strings.Builder
	if query == "" {
		fmt.Fprintf(&b, "**Available Stations** (%d)", catalog.Len())
	} else {
		fmt.Fprintf(&b, "**Search Results for \"%s\"** (%d of %d)", query, len(matches), catalog.Len())
	}

	shown := matches
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, m := range shown {
		fmt.Fprintf(&b, "\n• **%s**", m.Key)
		if m.Station.Bitrate > 0 {
			fmt.Fprintf(&b, " `%dkbps`", m.Station.Bitrate)
		}
		if m.Station.Format != "" {
			fmt.Fprintf(&b, " `%s`", m.Station.Format)
		}
		if m.Station.Description != "" {
			fmt.Fprintf(&b, " - %s", m.Station.Description)
		}
	}
	if len(matches) > 10 {
		fmt.Fprintf(&b, "\n*... and %d more*", len(matches)-10)
	}

	return &discordgo.MessageEmbed{
		Title:       "📻 Radio Stations",
		Description: b.String(),
		Color:       colorPlayer,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Use /radio play <station> to start playing"},
	}
}
