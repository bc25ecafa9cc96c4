package common

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

// FindUserVoiceChannel returns the voice channel the user currently
// occupies in the guild. ErrUserNotInVoice when they are not in one.
func FindUserVoiceChannel(s *discordgo.Session, guildID, userID string) (string, error) {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return "", fmt.Errorf("could not find guild: %v", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID, nil
		}
	}
	return "", ErrUserNotInVoice
}

// JoinVoiceChannel joins the given voice channel with retry logic and
// waits for the connection to become ready.
func JoinVoiceChannel(s *discordgo.Session, guildID, channelID string) (*discordgo.VoiceConnection, error) {
	var vc *discordgo.VoiceConnection
	var err error
	maxRetries := 3

	for i := 0; i < maxRetries; i++ {
		vc, err = s.ChannelVoiceJoin(guildID, channelID, false, true)
		if err == nil {
			break
		}
		log.Printf("Voice join attempt %d/%d failed: %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(time.Duration(i+1) * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel after %d attempts: %v", maxRetries, err)
	}

	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			vc.Disconnect()
			return nil, fmt.Errorf("voice connection timed out")
		case <-ticker.C:
			if vc.Ready {
				return vc, nil
			}
		}
	}
}

// DisconnectFromVoiceChannel leaves the guild's voice channel.
// ErrBotNotConnected when there is no connection for the guild.
func DisconnectFromVoiceChannel(s *discordgo.Session, guildID string) error {
	for _, vc := range s.VoiceConnections {
		if vc.GuildID == guildID {
			vc.Disconnect()
			log.Printf("Disconnected from voice channel in guild: %s", guildID)
			return nil
		}
	}
	return ErrBotNotConnected
}
