package commands

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/alastorbot/alastor/pkg/radio"
	"github.com/alastorbot/alastor/pkg/station"
	"github.com/alastorbot/alastor/pkg/stream"
)

// Embed colors used across the command set.
const (
	colorSuccess = 0x00ff00
	colorError   = 0xff0000
	colorWarning = 0xffa500
	colorInfo    = 0x3498db
	colorPlayer  = 0x9b59b6
	colorNeutral = 0x808080
)

const footerText = "Alastor - The Radio Daemon"

// Package-level collaborators, wired once from main before the session
// opens.
var (
	catalog       *station.Catalog
	registry      *radio.Registry
	streamCache   *stream.Cache
	healthChecker *stream.HealthChecker
)

// Configure wires the command layer to its collaborators.
func Configure(c *station.Catalog, r *radio.Registry, sc *stream.Cache, hc *stream.HealthChecker) {
	catalog = c
	registry = r
	streamCache = sc
	healthChecker = hc
}

// respondEphemeralEmbed answers an interaction immediately with an
// ephemeral embed.
func respondEphemeralEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending interaction response: %v", err)
	}
}

// deferResponse acknowledges an interaction so a slow handler can edit
// in the real answer later.
func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

// editEmbed replaces a deferred response with an embed, optionally with
// message components attached.
func editEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components ...discordgo.MessageComponent) {
	embeds := []*discordgo.MessageEmbed{embed}
	edit := &discordgo.WebhookEdit{Embeds: &embeds}
	if len(components) > 0 {
		edit.Components = &components
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		log.Printf("Error editing interaction response: %v", err)
	}
}

func errorEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Error",
		Description: message,
		Color:       colorError,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
}

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
