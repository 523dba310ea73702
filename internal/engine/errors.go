package engine

// GameError is a rule violation; the game it was raised against is left unchanged
type GameError string

func (e GameError) Error() string {
	return string(e)
}

const (
	ErrInvalidSettings     GameError = "invalid game settings"
	ErrInsufficientNumbers GameError = "number range is too small for the card size"

	ErrNotWaiting    GameError = "game is not waiting for players"
	ErrNotStarting   GameError = "game is not starting"
	ErrNotPlaying    GameError = "game is not in progress"
	ErrNotSkillPhase GameError = "game is not in a skill phase"
	ErrGameFinished  GameError = "game is already finished"

	ErrPlayerNotInGame     GameError = "player is not in this game"
	ErrPlayerAlreadyInGame GameError = "player is already in this game"
	ErrGameFull            GameError = "game is full"
	ErrNotHost             GameError = "only the host can do that"
	ErrCannotKickHost      GameError = "the host cannot be kicked"
	ErrCannotKickSelf      GameError = "players cannot kick themselves"
	ErrTooFewPlayers       GameError = "not enough players to start"

	ErrPlayerBlocked GameError = "player is blocked this turn"
	ErrPoolExhausted GameError = "no numbers left to draw"

	ErrNoCompletedRow GameError = "player has no completed row"
	ErrAlreadyWon     GameError = "a winner has already been declared"

	ErrSkillUnavailable GameError = "player has no skill available"
	ErrUnknownSkill     GameError = "unknown skill"
	ErrInvalidTarget    GameError = "invalid skill target"
)
