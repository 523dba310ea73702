package game

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/bingo/internal/repositories/game Repository

import (
	"context"

	"github.com/KirkDiggler/bingo/internal/models"
)

// Repository is the authoritative store for bingo rooms
type Repository interface {
	// CreateGame stores a new game, failing if its room code is already taken
	CreateGame(ctx context.Context, input *CreateGameInput) error

	// GetGame retrieves a game by ID
	GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error)

	// GetGameByCode retrieves a game by its join code
	GetGameByCode(ctx context.Context, input *GetGameByCodeInput) (*models.Game, error)

	// GetGameByChannel retrieves a game by channel ID
	GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*models.Game, error)

	// GetGameByPlayer retrieves the last game a player was seated in
	GetGameByPlayer(ctx context.Context, input *GetGameByPlayerInput) (*models.Game, error)

	// UpdateGame atomically reads the game, applies Mutate and replaces it.
	// Nothing is written when Mutate returns an error.
	UpdateGame(ctx context.Context, input *UpdateGameInput) (*models.Game, error)

	// DeleteGame removes a game and its indexes
	DeleteGame(ctx context.Context, input *DeleteGameInput) error

	// ListOpenGames returns waiting rooms, newest first
	ListOpenGames(ctx context.Context, input *ListOpenGamesInput) (*ListOpenGamesOutput, error)
}
