package commands

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// HandleAutocomplete suggests stations for the /radio play station
// option, ranked by the catalog's layered scoring.
func HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	var query string
	for _, sub := range data.Options {
		for _, opt := range sub.Options {
			if opt.Focused {
				query, _ = opt.Value.(string)
			}
		}
	}

	matches := catalog.Search(query)
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(matches))
	for idx, m := range matches {
		choices[idx] = &discordgo.ApplicationCommandOptionChoice{
			Name:  m.Key,
			Value: m.Key,
		}
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		log.Printf("Error sending autocomplete response: %v", err)
	}
}
