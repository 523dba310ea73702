package messaging

import (
	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
	"github.com/KirkDiggler/bingo/internal/services/game"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneFunny is a humorous tone
	ToneFunny MessageTone = "funny"

	// ToneCelebration is a celebratory tone
	ToneCelebration MessageTone = "celebration"
)

// GetJoinGameMessageInput contains parameters for getting a join game message
type GetJoinGameMessageInput struct {
	// PlayerName is the name of the player joining
	PlayerName string

	// GameStatus is the current status of the game
	GameStatus models.GameStatus

	// AlreadyJoined indicates if the player was already in the game
	AlreadyJoined bool

	IsBot bool

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetJoinGameMessageOutput contains the result of getting a join game message
type GetJoinGameMessageOutput struct {
	Message string
	Tone    MessageTone
}

// GetGameStatusMessageInput is the input for GetGameStatusMessage
type GetGameStatusMessageInput struct {
	GameStatus  models.GameStatus
	PlayerCount int
	Tone        MessageTone
}

// GetGameStatusMessageOutput is the output for GetGameStatusMessage
type GetGameStatusMessageOutput struct {
	Message string
}

// GetDrawMessageInput contains the input for GetDrawMessage
type GetDrawMessageInput struct {
	PlayerName string
	Number     int

	// Lucky is set when the drawer had an active luck bonus
	Lucky bool

	// Remaining is how many numbers are left in the pool
	Remaining int
}

// GetDrawMessageOutput contains the output for GetDrawMessage
type GetDrawMessageOutput struct {
	Message string
}

// GetSkillMessageInput contains the input for GetSkillMessage
type GetSkillMessageInput struct {
	PlayerName string

	// Skill is empty when the player skipped
	Skill      models.SkillType
	TargetName string
}

// GetSkillMessageOutput contains the output for GetSkillMessage
type GetSkillMessageOutput struct {
	Message string
}

// GetResultMessageInput contains the input for GetResultMessage
type GetResultMessageInput struct {
	WinnerName string
	EndReason  models.EndReason
}

// GetResultMessageOutput contains the output for GetResultMessage
type GetResultMessageOutput struct {
	Title   string
	Message string
}

// GetErrorMessageInput contains parameters for getting an error message
type GetErrorMessageInput struct {
	// Err is mapped to an ErrorCode when Code is empty
	Err  error
	Code ErrorCode

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetErrorMessageOutput contains the result of getting an error message
type GetErrorMessageOutput struct {
	Code    ErrorCode
	Message string
	Tone    MessageTone
}

// GetEventMessageInput contains the event to describe
type GetEventMessageInput struct {
	Event *game.Event
}

// GetEventMessageOutput contains the line for the event
type GetEventMessageOutput struct {
	Message string
}

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// Random picks between message variants
	Random random.Source
}
