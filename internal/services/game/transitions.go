package game

import (
	"context"
	"errors"

	"github.com/KirkDiggler/bingo/internal/engine"
	"github.com/KirkDiggler/bingo/internal/models"
	gameRepo "github.com/KirkDiggler/bingo/internal/repositories/game"
	"github.com/sirupsen/logrus"
)

// update runs an engine transition through the repository and reports the
// status the game had before it
func (s *service) update(ctx context.Context, gameID string, transition func(*models.Game) (*models.Game, error)) (models.GameStatus, *models.Game, error) {
	var from models.GameStatus

	game, err := s.gameRepo.UpdateGame(ctx, &gameRepo.UpdateGameInput{
		GameID: gameID,
		Mutate: func(current *models.Game) (*models.Game, error) {
			from = current.Status
			next, err := transition(current)
			if err != nil {
				return nil, err
			}
			next.UpdatedAt = s.clock.Now()
			return next, nil
		},
	})
	if err != nil {
		return "", nil, translateErr(err)
	}

	return from, game, nil
}

// afterTransition arms and cancels timers for phase changes and publishes them
func (s *service) afterTransition(ctx context.Context, from models.GameStatus, game *models.Game) {
	to := game.Status
	if from == to {
		return
	}

	if from == models.GameStatusSkillPhase {
		s.scheduler.Cancel(game.ID, TimerSkillPhase)
		if to == models.GameStatusPlaying {
			s.publish(ctx, &Event{Kind: EventSkillPhaseEnded, Game: game})
		}
	}

	switch to {
	case models.GameStatusSkillPhase:
		if s.skillPhaseTimeout > 0 {
			gameID := game.ID
			s.scheduler.Schedule(gameID, TimerSkillPhase, s.skillPhaseTimeout, func() {
				s.resolveSkillPhase(gameID)
			})
		}
		s.publish(ctx, &Event{Kind: EventSkillPhaseStarted, Game: game})
	case models.GameStatusFinished:
		s.scheduler.CancelRoom(game.ID)
		s.log.WithFields(logrus.Fields{
			"game_id":    game.ID,
			"winner_id":  game.WinnerID,
			"end_reason": game.EndReason,
		}).Info("game finished")
		s.publish(ctx, &Event{Kind: EventGameFinished, Game: game, ActorID: game.WinnerID})
	}
}

// beginPlay fires when the start countdown ends
func (s *service) beginPlay(gameID string) {
	ctx, cancel := context.WithTimeout(context.Background(), timerCallbackTimeout)
	defer cancel()

	_, game, err := s.update(ctx, gameID, engine.BeginPlay)
	if err != nil {
		s.logTimerErr(gameID, TimerStartCountdown, err)
		return
	}

	if game.Status == models.GameStatusWaiting {
		s.log.WithField("game_id", gameID).Info("start cancelled, not enough players")
		s.publish(ctx, &Event{Kind: EventStartCancelled, Game: game})
		return
	}
	s.publish(ctx, &Event{Kind: EventGameStarted, Game: game})
}

// resolveSkillPhase fires when players took too long to decide
func (s *service) resolveSkillPhase(gameID string) {
	ctx, cancel := context.WithTimeout(context.Background(), timerCallbackTimeout)
	defer cancel()

	from, game, err := s.update(ctx, gameID, engine.ResolveSkillPhase)
	if err != nil {
		s.logTimerErr(gameID, TimerSkillPhase, err)
		return
	}

	s.afterTransition(ctx, from, game)
}

func (s *service) logTimerErr(gameID, timer string, err error) {
	entry := s.log.WithFields(logrus.Fields{
		"game_id": gameID,
		"timer":   timer,
	}).WithError(err)

	// the room moved on before the timer fired
	var ruleErr engine.GameError
	if errors.As(err, &ruleErr) || errors.Is(err, ErrGameNotFound) {
		entry.Debug("timer callback skipped")
		return
	}
	entry.Error("timer callback failed")
}

// closeRoom cancels every timer and deletes the room
func (s *service) closeRoom(ctx context.Context, game *models.Game) error {
	s.scheduler.CancelRoom(game.ID)

	err := s.gameRepo.DeleteGame(ctx, &gameRepo.DeleteGameInput{
		GameID: game.ID,
	})
	if err != nil {
		return translateErr(err)
	}

	s.log.WithField("game_id", game.ID).Info("room closed")
	s.publish(ctx, &Event{Kind: EventRoomClosed, Game: game, ActorID: game.HostID})
	return nil
}

// ensureNotPlayingElsewhere rejects players still seated in another unfinished room
func (s *service) ensureNotPlayingElsewhere(ctx context.Context, playerID, gameID string) error {
	other, err := s.gameRepo.GetGameByPlayer(ctx, &gameRepo.GetGameByPlayerInput{
		PlayerID: playerID,
	})
	if errors.Is(err, gameRepo.ErrGameNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if other.ID == gameID || other.Status == models.GameStatusFinished {
		return nil
	}
	if _, seated := other.Players[playerID]; !seated {
		return nil
	}
	return ErrPlayerInAnotherGame
}

func (s *service) lookup(ctx context.Context, gameID, code string) (*models.Game, error) {
	var (
		game *models.Game
		err  error
	)
	switch {
	case gameID != "":
		game, err = s.gameRepo.GetGame(ctx, &gameRepo.GetGameInput{GameID: gameID})
	case code != "":
		game, err = s.gameRepo.GetGameByCode(ctx, &gameRepo.GetGameByCodeInput{Code: code})
	default:
		return nil, ErrInvalidInput
	}
	if err != nil {
		return nil, translateErr(err)
	}
	return game, nil
}

func (s *service) publish(ctx context.Context, event *Event) {
	event.GameID = event.Game.ID
	event.At = s.clock.Now()
	s.publisher.Publish(ctx, event)
}

func translateErr(err error) error {
	if errors.Is(err, gameRepo.ErrGameNotFound) {
		return ErrGameNotFound
	}
	return err
}
