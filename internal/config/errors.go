package config

import "errors"

var (
	ErrDiscordTokenNotSet = errors.New("DISCORD_TOKEN is not set")
)
