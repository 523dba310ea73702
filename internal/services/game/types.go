package game

import (
	"context"
	"time"

	"github.com/KirkDiggler/bingo/internal/common/clock"
	"github.com/KirkDiggler/bingo/internal/common/uuid"
	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
	gameRepo "github.com/KirkDiggler/bingo/internal/repositories/game"
	"github.com/sirupsen/logrus"
)

const (
	// TimerStartCountdown moves a starting game into play
	TimerStartCountdown = "start_countdown"

	// TimerSkillPhase force-skips players who never decided
	TimerSkillPhase = "skill_phase"

	DefaultStartDelay        = 3 * time.Second
	DefaultSkillPhaseTimeout = 20 * time.Second
	DefaultCodeLength        = 6
	maxCodeAttempts          = 5
	timerCallbackTimeout     = 5 * time.Second
)

// Scheduler arms and cancels the per-room timers the service relies on
type Scheduler interface {
	Schedule(roomID, name string, delay time.Duration, fn func())
	Cancel(roomID, name string)
	CancelRoom(roomID string)
}

// Publisher receives every event after the state change is stored
type Publisher interface {
	Publish(ctx context.Context, event *Event)
}

// Config holds configuration for the game service
type Config struct {
	// Repository dependencies
	GameRepo gameRepo.Repository

	// Service dependencies
	Random        random.Source
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Scheduler     Scheduler

	// Publisher is optional
	Publisher Publisher

	// Logger defaults to the logrus standard logger
	Logger logrus.FieldLogger

	// StartDelay is the countdown between start and the first turn
	StartDelay time.Duration

	// SkillPhaseTimeout ends a skill phase for players who never decide.
	// Negative disables it.
	SkillPhaseTimeout time.Duration

	// DefaultSettings are used for anything a create request leaves out
	DefaultSettings *models.Settings

	CodeLength int
}

type CreateGameInput struct {
	HostID     string
	HostName   string
	HostAvatar string

	// ChannelID binds the room to a Discord channel
	ChannelID string

	Title         string
	MaxPlayers    int
	SkillsEnabled *bool
	BotsEnabled   *bool
}

type CreateGameOutput struct {
	Game *models.Game
}

type JoinGameInput struct {
	// GameID or Code identifies the room
	GameID string
	Code   string

	PlayerID   string
	PlayerName string
	Avatar     string
}

type JoinGameOutput struct {
	Game *models.Game

	// AlreadyJoined is true when the player was seated before this call
	AlreadyJoined bool
}

type AddBotInput struct {
	GameID string
	Name   string
	Avatar string
}

type AddBotOutput struct {
	Game  *models.Game
	BotID string
}

type LeaveGameInput struct {
	GameID   string
	PlayerID string
}

type LeaveGameOutput struct {
	// Game is nil when the room was closed
	Game   *models.Game
	Closed bool
}

type KickPlayerInput struct {
	GameID   string
	PlayerID string
	TargetID string
}

type KickPlayerOutput struct {
	Game *models.Game
}

type StartGameInput struct {
	GameID   string
	PlayerID string
}

type StartGameOutput struct {
	Game     *models.Game
	StartsAt time.Time
}

type DrawNumberInput struct {
	GameID   string
	PlayerID string
}

type DrawNumberOutput struct {
	Game  *models.Game
	Drawn models.DrawnNumber
}

type ClaimBingoInput struct {
	GameID   string
	PlayerID string
}

type ClaimBingoOutput struct {
	Game    *models.Game
	Results []models.RankedResult
}

type UseSkillInput struct {
	GameID   string
	PlayerID string
	Skill    models.SkillType
	TargetID string
}

type UseSkillOutput struct {
	Game *models.Game
}

type SkipSkillInput struct {
	GameID   string
	PlayerID string
}

type SkipSkillOutput struct {
	Game *models.Game
}

type GetGameInput struct {
	GameID string
	Code   string
}

type GetGameOutput struct {
	Game *models.Game
}

type GetGameByChannelInput struct {
	ChannelID string
}

type GetGameByChannelOutput struct {
	Game *models.Game
}

type GetResultsInput struct {
	GameID string
}

type GetResultsOutput struct {
	Results   []models.RankedResult
	WinnerID  string
	EndReason models.EndReason
}

type ListOpenGamesInput struct {
	Limit int
}

type ListOpenGamesOutput struct {
	Games []*models.Game
}
