package game

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/bingo/internal/services/game Service

// Service defines the intents players and bots can send to a bingo room
type Service interface {
	// CreateGame opens a waiting room with the caller seated as host
	CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error)

	// JoinGame seats a player in a waiting room, by ID or join code
	JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error)

	// AddBot seats a bot in a waiting room
	AddBot(ctx context.Context, input *AddBotInput) (*AddBotOutput, error)

	// LeaveGame removes a player. The host leaving closes the room.
	LeaveGame(ctx context.Context, input *LeaveGameInput) (*LeaveGameOutput, error)

	// KickPlayer lets the host remove another player
	KickPlayer(ctx context.Context, input *KickPlayerInput) (*KickPlayerOutput, error)

	// StartGame begins the start countdown
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// DrawNumber draws the next number for a player
	DrawNumber(ctx context.Context, input *DrawNumberInput) (*DrawNumberOutput, error)

	// ClaimBingo declares a completed row
	ClaimBingo(ctx context.Context, input *ClaimBingoInput) (*ClaimBingoOutput, error)

	// UseSkill applies a skill during a skill phase
	UseSkill(ctx context.Context, input *UseSkillInput) (*UseSkillOutput, error)

	// SkipSkill passes on the current skill phase
	SkipSkill(ctx context.Context, input *SkipSkillInput) (*SkipSkillOutput, error)

	// GetGame returns the current snapshot of a game
	GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error)

	// GetGameByChannel returns the game bound to a Discord channel
	GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*GetGameByChannelOutput, error)

	// GetResults returns the final ranking of a finished game
	GetResults(ctx context.Context, input *GetResultsInput) (*GetResultsOutput, error)

	// ListOpenGames returns rooms that can still be joined
	ListOpenGames(ctx context.Context, input *ListOpenGamesInput) (*ListOpenGamesOutput, error)
}
