package commands

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// HandleChoose runs the /radio choose subcommand: an ephemeral select
// menu of up to 25 stations in catalog order.
func HandleChoose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	keys := catalog.Keys()
	if len(keys) == 0 {
		respondEphemeralEmbed(s, i, errorEmbed("No stations configured."))
		return
	}
	if len(keys) > 25 {
		keys = keys[:25]
	}

	options := make([]discordgo.SelectMenuOption, len(keys))
	for idx, key := range keys {
		options[idx] = discordgo.SelectMenuOption{Label: key, Value: key}
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Pick a station to play:",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							CustomID:    "player_choose",
							Placeholder: "Select a station",
							Options:     options,
						},
					},
				},
			},
		},
	})
	if err != nil {
		log.Printf("Error sending choose menu: %v", err)
	}
}
