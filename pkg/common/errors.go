package common

import "errors"

// Precondition errors surfaced by the voice layer. These are
// user-correctable and the command layer renders them distinctly from
// generic failures.
var (
	ErrUserNotInVoice  = errors.New("you must be in a voice channel to play the radio")
	ErrBotNotConnected = errors.New("bot is not connected to voice")
)
