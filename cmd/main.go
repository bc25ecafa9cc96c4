package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/alastorbot/alastor/internal/commands"
	"github.com/alastorbot/alastor/internal/config"
	"github.com/alastorbot/alastor/internal/handlers"
	"github.com/alastorbot/alastor/internal/presence"
	"github.com/alastorbot/alastor/pkg/radio"
	"github.com/alastorbot/alastor/pkg/station"
	"github.com/alastorbot/alastor/pkg/stream"
)

const janitorInterval = 10 * time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	catalog, err := station.LoadCatalog(cfg.StationsPath)
	if err != nil {
		log.Fatalf("Failed to load stations from %s: %v", cfg.StationsPath, err)
	}
	log.Printf("Loaded %d radio stations", catalog.Len())

	resolver := stream.NewResolver()
	healthChecker := stream.NewHealthChecker(resolver)
	streamCache := stream.NewCache(resolver, healthChecker, stream.FFmpegDecoder{})
	registry := radio.NewRegistry()

	commands.Configure(catalog, registry, streamCache, healthChecker)
	commands.SetDescription(cfg.BotDescription)

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages

	dg.AddHandler(handlers.InteractionHandler)

	if err := dg.Open(); err != nil {
		log.Fatalf("Failed to open Discord session: %v", err)
	}

	if err := commands.RegisterSlashCommands(dg); err != nil {
		log.Fatalf("Failed to register slash commands: %v", err)
	}

	presenceManager := presence.NewManager(dg, registry, catalog.Len())
	presenceManager.Update()
	presenceManager.StartPeriodicUpdates()

	ctx, cancel := context.WithCancel(context.Background())
	go radio.RunJanitor(ctx, janitorInterval, registry, streamCache)

	log.Println("Alastor is running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	cancel()
	dg.Close()
}
