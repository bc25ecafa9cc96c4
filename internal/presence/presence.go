package presence

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/alastorbot/alastor/pkg/radio"
)

// Manager keeps the bot's Discord presence in sync with how many
// stations are configured and how many guilds are listening.
type Manager struct {
	session      *discordgo.Session
	registry     *radio.Registry
	stationCount int
}

// NewManager creates a presence manager.
func NewManager(session *discordgo.Session, registry *radio.Registry, stationCount int) *Manager {
	return &Manager{
		session:      session,
		registry:     registry,
		stationCount: stationCount,
	}
}

// Update pushes the current presence to Discord.
func (m *Manager) Update() {
	active := m.registry.ActiveCount()

	status := &discordgo.UpdateStatusData{
		Status: "online",
		Activities: []*discordgo.Activity{
			{
				Name: fmt.Sprintf("%d radio stations", m.stationCount),
				Type: discordgo.ActivityTypeListening,
				State: fmt.Sprintf("%d live stream(s) in %d servers",
					active, len(m.session.State.Guilds)),
			},
		},
	}

	if err := m.session.UpdateStatusComplex(*status); err != nil {
		log.Printf("Failed to update bot presence: %v", err)
	}
}

// StartPeriodicUpdates refreshes presence every five minutes.
func (m *Manager) StartPeriodicUpdates() {
	ticker := time.NewTicker(5 * time.Minute)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			m.Update()
		}
	}()
}
