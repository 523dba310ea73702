package messaging

import (
	"errors"

	"github.com/KirkDiggler/bingo/internal/engine"
	"github.com/KirkDiggler/bingo/internal/services/game"
)

// ErrorCode is the stable code clients receive for a rejected intent
type ErrorCode string

const (
	CodeNotFound           ErrorCode = "not_found"
	CodeRoomExists         ErrorCode = "room_exists"
	CodeInAnotherGame      ErrorCode = "in_another_game"
	CodeGameFull           ErrorCode = "game_full"
	CodeAlreadyJoined      ErrorCode = "already_joined"
	CodeNotInGame          ErrorCode = "not_in_game"
	CodeNotHost            ErrorCode = "not_host"
	CodeInvalidKick        ErrorCode = "invalid_kick"
	CodeTooFewPlayers      ErrorCode = "too_few_players"
	CodeWrongPhase         ErrorCode = "wrong_phase"
	CodeGameFinished       ErrorCode = "game_finished"
	CodeBlocked            ErrorCode = "blocked"
	CodePoolExhausted      ErrorCode = "pool_exhausted"
	CodeNoBingo            ErrorCode = "no_bingo"
	CodeSkillUnavailable   ErrorCode = "skill_unavailable"
	CodeInvalidTarget      ErrorCode = "invalid_target"
	CodeFeatureUnavailable ErrorCode = "feature_unavailable"
	CodeInvalidInput       ErrorCode = "invalid_input"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeInternal           ErrorCode = "internal"
)

var errorCodes = []struct {
	err  error
	code ErrorCode
}{
	{game.ErrGameNotFound, CodeNotFound},
	{game.ErrGameAlreadyExists, CodeRoomExists},
	{game.ErrPlayerInAnotherGame, CodeInAnotherGame},
	{game.ErrGameNotFinished, CodeWrongPhase},
	{game.ErrInvalidInput, CodeInvalidInput},
	{game.ErrFeatureUnavailable, CodeFeatureUnavailable},
	{engine.ErrGameFull, CodeGameFull},
	{engine.ErrPlayerAlreadyInGame, CodeAlreadyJoined},
	{engine.ErrPlayerNotInGame, CodeNotInGame},
	{engine.ErrNotHost, CodeNotHost},
	{engine.ErrCannotKickHost, CodeInvalidKick},
	{engine.ErrCannotKickSelf, CodeInvalidKick},
	{engine.ErrTooFewPlayers, CodeTooFewPlayers},
	{engine.ErrNotWaiting, CodeWrongPhase},
	{engine.ErrNotStarting, CodeWrongPhase},
	{engine.ErrNotPlaying, CodeWrongPhase},
	{engine.ErrNotSkillPhase, CodeWrongPhase},
	{engine.ErrGameFinished, CodeGameFinished},
	{engine.ErrAlreadyWon, CodeGameFinished},
	{engine.ErrPlayerBlocked, CodeBlocked},
	{engine.ErrPoolExhausted, CodePoolExhausted},
	{engine.ErrNoCompletedRow, CodeNoBingo},
	{engine.ErrSkillUnavailable, CodeSkillUnavailable},
	{engine.ErrUnknownSkill, CodeInvalidInput},
	{engine.ErrInvalidTarget, CodeInvalidTarget},
	{engine.ErrInvalidSettings, CodeInvalidInput},
	{engine.ErrInsufficientNumbers, CodeInvalidInput},
}

// CodeFor maps a service or rule error to its client code
func CodeFor(err error) ErrorCode {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternal
}
