package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// HandleSetup runs the /setup command. Per-guild settings are not
// persisted anywhere yet, so every subcommand validates its input and
// says so honestly rather than pretending to save.
func HandleSetup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		respondEphemeralEmbed(s, i, errorEmbed("No subcommand provided."))
		return
	}

	sub := data.Options[0]
	switch sub.Name {
	case "voice":
		var channelName string
		if len(sub.Options) > 0 {
			ch := sub.Options[0].ChannelValue(s)
			if ch != nil {
				channelName = ch.Name
			}
		}
		respondEphemeralEmbed(s, i, setupAckEmbed(
			fmt.Sprintf("Default voice channel **%s** noted.", channelName)))

	case "dj":
		var roleName string
		if len(sub.Options) > 0 {
			role := sub.Options[0].RoleValue(s, i.GuildID)
			if role != nil {
				roleName = role.Name
			}
		}
		respondEphemeralEmbed(s, i, setupAckEmbed(
			fmt.Sprintf("DJ role **%s** noted.", roleName)))

	case "status":
		respondEphemeralEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "⚙️ Server Configuration",
			Description: "No settings are stored for this server. Settings persistence is not available yet.",
			Color:       colorInfo,
			Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
		})

	default:
		respondEphemeralEmbed(s, i, errorEmbed("Unknown setup subcommand."))
	}
}

func setupAckEmbed(detail string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⚙️ Setup",
		Description: detail + "\n\nHeads up: settings are not persisted yet and reset on restart.",
		Color:       colorInfo,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
}
