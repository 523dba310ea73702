package game

import "github.com/KirkDiggler/bingo/internal/models"

// MutateFunc computes the replacement for the current game. It must not keep
// references to current after returning.
type MutateFunc func(current *models.Game) (*models.Game, error)

type CreateGameInput struct {
	Game *models.Game
}

type GetGameInput struct {
	GameID string
}

type GetGameByCodeInput struct {
	Code string
}

type GetGameByChannelInput struct {
	ChannelID string
}

type GetGameByPlayerInput struct {
	PlayerID string
}

type UpdateGameInput struct {
	GameID string
	Mutate MutateFunc
}

type DeleteGameInput struct {
	GameID string
}

type ListOpenGamesInput struct {
	// Limit defaults to 20
	Limit int
}

type ListOpenGamesOutput struct {
	Games []*models.Game
}

// ownsPlayerIndex reports whether a write of game may point a player's index
// at it. A finished room never takes a player back from another room.
func ownsPlayerIndex(game *models.Game, current string) bool {
	return current == "" || current == game.ID || game.Status != models.GameStatusFinished
}
