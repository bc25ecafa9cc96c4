package config

import (
	"os"

	"github.com/joho/godotenv"
)

const defaultDescription = "Alastor - The Radio Daemon: a Discord radio bot " +
	"inspired by Hazbin Hotel. Learn more: https://hazbinhotel.fandom.com/wiki/Alastor"

// Config holds everything the bot needs at startup. Stations live in a
// separate YAML file loaded by the station package.
type Config struct {
	DiscordToken   string
	StationsPath   string
	BotPrefix      string
	BotDescription string
}

// LoadConfig reads configuration from the environment, preceded by a
// best-effort .env load. A missing .env file is fine; a missing token is
// not.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil, ErrDiscordTokenNotSet
	}

	return &Config{
		DiscordToken:   token,
		StationsPath:   envOr("STATIONS_PATH", "stations.yaml"),
		BotPrefix:      envOr("BOT_PREFIX", "!"),
		BotDescription: envOr("BOT_DESCRIPTION", defaultDescription),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
