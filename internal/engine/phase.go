package engine

import (
	"github.com/KirkDiggler/bingo/internal/models"
)

// Start moves a waiting room into the start countdown
func Start(game *models.Game, callerID string) (*models.Game, error) {
	if game.Status != models.GameStatusWaiting {
		return nil, ErrNotWaiting
	}
	caller, ok := game.Players[callerID]
	if !ok {
		return nil, ErrPlayerNotInGame
	}
	if !caller.IsHost() {
		return nil, ErrNotHost
	}
	if len(game.PlayerOrder) < game.Settings.MinPlayers {
		return nil, ErrTooFewPlayers
	}

	next := game.Clone()
	next.Status = models.GameStatusStarting
	return next, nil
}

// BeginPlay ends the countdown and opens the first turn. A room that lost
// players during the countdown goes back to waiting instead.
func BeginPlay(game *models.Game) (*models.Game, error) {
	if game.Status != models.GameStatusStarting {
		return nil, ErrNotStarting
	}

	next := game.Clone()
	if len(next.PlayerOrder) < next.Settings.MinPlayers {
		next.Status = models.GameStatusWaiting
		return next, nil
	}
	next.Status = models.GameStatusPlaying
	next.Turn = 1
	return next, nil
}

// ClaimBingo accepts the first valid claim and finishes the game
func ClaimBingo(game *models.Game, playerID string) (*models.Game, error) {
	if game.Status == models.GameStatusFinished {
		return nil, ErrGameFinished
	}
	if !game.Status.IsActive() {
		return nil, ErrNotPlaying
	}
	if game.WinnerID != "" {
		return nil, ErrAlreadyWon
	}
	claimant, ok := game.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotInGame
	}
	if !claimant.CanBingo || !hasFullRow(claimant) {
		return nil, ErrNoCompletedRow
	}

	next := game.Clone()
	winner := next.Players[playerID]
	winner.HasBingoed = true
	recomputePlayer(winner)

	finish(next, playerID, models.EndReasonBingo)
	return next, nil
}

// finish is terminal: skills are closed and the ranking is computed once
func finish(game *models.Game, winnerID string, reason models.EndReason) {
	game.Status = models.GameStatusFinished
	game.WinnerID = winnerID
	game.EndReason = reason
	for _, p := range game.Players {
		p.HasSkillAvailable = false
	}
	game.Results = Rank(game.OrderedPlayers(), winnerID)
}

// settleExhaustedPool ends a game that can no longer produce a winner. A
// skill phase is left open since auto_mark may still complete a row.
func settleExhaustedPool(game *models.Game) {
	if game.Status != models.GameStatusPlaying || len(game.AvailableNumbers) > 0 || anyoneCanBingo(game) {
		return
	}
	finish(game, "", models.EndReasonPoolExhausted)
}
