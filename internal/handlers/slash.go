package handlers

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/alastorbot/alastor/internal/commands"
)

// interactionLimiter caps inbound interactions bot-wide at 60 per
// minute, with the full minute's quota available as burst.
var interactionLimiter = rate.NewLimiter(rate.Every(time.Second), 60)

// InteractionHandler routes every inbound interaction: slash commands,
// autocomplete queries, and message components (buttons, select menus).
func InteractionHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Guild-only bot; interactions from DMs carry no Member.
	if i.Member == nil || i.Member.User == nil || i.Member.User.Bot {
		return
	}

	if !interactionLimiter.Allow() {
		log.Printf("Rate limit exceeded, dropping interaction from user %s", i.Member.User.ID)
		return
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		handleApplicationCommand(s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		commands.HandleAutocomplete(s, i)
	case discordgo.InteractionMessageComponent:
		commands.HandleComponent(s, i)
	default:
		log.Printf("Unknown interaction type: %d", i.Type)
	}
}

func handleApplicationCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "radio":
		commands.HandleRadio(s, i)
	case "setup":
		commands.HandleSetup(s, i)
	case "help":
		commands.HandleHelp(s, i)
	case "about":
		commands.HandleAbout(s, i)
	default:
		log.Printf("Unknown command: %s", i.ApplicationCommandData().Name)
	}
}
