package game

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrGameNotFound        GameError = "game not found"
	ErrGameAlreadyExists   GameError = "game already exists for this channel"
	ErrPlayerInAnotherGame GameError = "player is already playing in another game"
	ErrGameNotFinished     GameError = "game has not finished yet"
	ErrInvalidInput        GameError = "invalid input"
	ErrFeatureUnavailable  GameError = "feature is not available"
	ErrRoomCodeExhausted   GameError = "could not allocate a free room code"
	ErrNilConfig           GameError = "config cannot be nil"
	ErrNilGameRepo         GameError = "game repository cannot be nil"
	ErrNilRandom           GameError = "random source cannot be nil"
	ErrNilClock            GameError = "clock cannot be nil"
	ErrNilUUIDGenerator    GameError = "UUID generator cannot be nil"
	ErrNilScheduler        GameError = "scheduler cannot be nil"
)
