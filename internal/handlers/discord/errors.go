package discord

// BotError represents an error constructing or running the Discord bot
type BotError string

func (e BotError) Error() string {
	return string(e)
}

const (
	ErrNilConfig       BotError = "config cannot be nil"
	ErrEmptyToken      BotError = "token cannot be empty"
	ErrNilGameService  BotError = "game service cannot be nil"
	ErrNilMessaging    BotError = "messaging service cannot be nil"
	ErrNoApplicationID BotError = "application id is unknown"
	ErrUnknownCommand  BotError = "unknown subcommand"
)
