package bots

// BotError represents an error constructing the bot service
type BotError string

func (e BotError) Error() string {
	return string(e)
}

const (
	ErrNilConfig      BotError = "config cannot be nil"
	ErrNilGameService BotError = "game service cannot be nil"
	ErrNilScheduler   BotError = "scheduler cannot be nil"
	ErrNilRandom      BotError = "random source cannot be nil"
	ErrInvalidDelays  BotError = "bot decision delays are invalid"
)
