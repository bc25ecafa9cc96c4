package commands

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// HandleRadio dispatches the /radio subcommands. play defers its own
// response since starting a stream does network work; the rest answer
// immediately.
func HandleRadio(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		respondEphemeralEmbed(s, i, errorEmbed("No subcommand provided."))
		return
	}

	sub := data.Options[0]
	switch sub.Name {
	case "play":
		var query string
		for _, opt := range sub.Options {
			if opt.Name == "station" {
				query = opt.StringValue()
			}
		}
		if err := deferResponse(s, i, false); err != nil {
			log.Printf("Error acknowledging interaction: %v", err)
			return
		}
		HandlePlay(s, i, query)
	case "stop":
		HandleStop(s, i)
	case "info":
		HandleInfo(s, i)
	case "list":
		var query string
		for _, opt := range sub.Options {
			if opt.Name == "search" {
				query = opt.StringValue()
			}
		}
		HandleList(s, i, query)
	case "choose":
		HandleChoose(s, i)
	default:
		respondEphemeralEmbed(s, i, errorEmbed("Unknown subcommand."))
	}
}

var adminPermission int64 = discordgo.PermissionAdministrator

// RegisterSlashCommands registers all slash commands globally.
func RegisterSlashCommands(s *discordgo.Session) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "radio",
			Description: "Control radio playback",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "play",
					Description: "Play a radio station",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionString,
							Name:         "station",
							Description:  "Station name",
							Required:     true,
							Autocomplete: true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "choose",
					Description: "Pick a station from a list",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stop",
					Description: "Stop current radio playback",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "info",
					Description: "Show current playing station",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List available stations",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "search",
							Description: "Search stations",
							Required:    false,
						},
					},
				},
			},
		},
		{
			Name:                     "setup",
			Description:              "Configure Alastor for your server (Admin only)",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "voice",
					Description: "Set default voice channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "Default voice channel for the bot",
							Required:     true,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "dj",
					Description: "Set DJ role (users who can control the radio)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role that can control radio playback",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show current server configuration",
				},
			},
		},
		{
			Name:        "help",
			Description: "Show help information",
		},
		{
			Name:        "about",
			Description: "About this bot",
		},
	}

	log.Println("Registering global slash commands...")
	for _, cmd := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, "", cmd); err != nil {
			log.Printf("Error creating command %s: %v", cmd.Name, err)
			return err
		}
		log.Printf("Registered command: %s", cmd.Name)
	}
	return nil
}
