package bots

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/KirkDiggler/bingo/internal/engine"
	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
	"github.com/KirkDiggler/bingo/internal/services/game"
	"github.com/sirupsen/logrus"
)

const callbackTimeout = 5 * time.Second

// Service fills rooms with bots and plays for them. It listens to game
// events and drives the bots through the same intents players use.
type Service struct {
	gameService game.Service
	scheduler   game.Scheduler
	random      random.Source
	log         logrus.FieldLogger

	joinWaves   []JoinWave
	minDelay    time.Duration
	maxDelay    time.Duration
	claimChance float64
}

// New creates a new bot service
func New(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.GameService == nil {
		return nil, ErrNilGameService
	}
	if cfg.Scheduler == nil {
		return nil, ErrNilScheduler
	}
	if cfg.Random == nil {
		return nil, ErrNilRandom
	}

	s := &Service{
		gameService: cfg.GameService,
		scheduler:   cfg.Scheduler,
		random:      cfg.Random,
		log:         cfg.Logger,
		joinWaves:   cfg.JoinWaves,
		minDelay:    cfg.MinDecisionDelay,
		maxDelay:    cfg.MaxDecisionDelay,
		claimChance: cfg.ClaimChance,
	}

	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	s.log = s.log.WithField("component", "bots")
	if s.joinWaves == nil {
		s.joinWaves = DefaultJoinWaves
	}
	if s.minDelay <= 0 {
		s.minDelay = DefaultMinDecisionDelay
	}
	if s.maxDelay <= 0 {
		s.maxDelay = DefaultMaxDecisionDelay
	}
	if s.maxDelay < s.minDelay {
		return nil, ErrInvalidDelays
	}
	if s.claimChance <= 0 {
		s.claimChance = DefaultClaimChance
	}

	return s, nil
}

// Publish reacts to room events by arming the bot timers
func (s *Service) Publish(_ context.Context, event *game.Event) {
	if event.Game == nil {
		return
	}

	switch event.Kind {
	case game.EventRoomCreated:
		if !event.Game.Settings.BotsEnabled {
			return
		}
		for i, wave := range s.joinWaves {
			gameID, count := event.GameID, wave.Count
			s.scheduler.Schedule(gameID, timerJoinPrefix+strconv.Itoa(i), wave.Delay, func() {
				s.join(gameID, count)
			})
		}
	case game.EventGameStarted, game.EventSkillPhaseStarted:
		if event.Game.BotCount() > 0 {
			s.scheduleDecide(event.GameID)
		}
	}
}

// join seats up to count bots while the room is still waiting
func (s *Service) join(gameID string, count int) {
	ctx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
	defer cancel()

	log := s.log.WithField("game_id", gameID)

	output, err := s.gameService.GetGame(ctx, &game.GetGameInput{GameID: gameID})
	if err != nil {
		log.WithError(err).Debug("bot join skipped")
		return
	}
	current := output.Game
	if current.Status != models.GameStatusWaiting || !hostPresent(current) {
		return
	}

	free := current.Settings.MaxPlayers - len(current.Players)
	if count > free {
		count = free
	}

	for i := 0; i < count; i++ {
		who := pickIdentity(current, s.random)
		added, err := s.gameService.AddBot(ctx, &game.AddBotInput{
			GameID: gameID,
			Name:   who.Name,
			Avatar: who.Avatar,
		})
		if err != nil {
			log.WithError(err).Debug("bot join stopped")
			return
		}
		current = added.Game

		log.WithFields(logrus.Fields{
			"bot_id": added.BotID,
			"name":   who.Name,
		}).Info("bot joined")
	}
}

func (s *Service) scheduleDecide(gameID string) {
	s.scheduler.Schedule(gameID, TimerDecide, s.nextDelay(), func() {
		s.decide(gameID)
	})
}

// nextDelay is uniform in [minDelay, maxDelay] at millisecond resolution
func (s *Service) nextDelay() time.Duration {
	span := int((s.maxDelay - s.minDelay) / time.Millisecond)
	return s.minDelay + time.Duration(s.random.Intn(span+1))*time.Millisecond
}

// decide runs one tick for every bot in the room and re-arms the tick while
// the game is still going
func (s *Service) decide(gameID string) {
	ctx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
	defer cancel()

	log := s.log.WithField("game_id", gameID)

	output, err := s.gameService.GetGame(ctx, &game.GetGameInput{GameID: gameID})
	if err != nil {
		log.WithError(err).Debug("bot tick skipped")
		return
	}
	current := output.Game

	for _, id := range current.PlayerOrder {
		if !stillPlaying(current) {
			return
		}
		bot, ok := current.Player(id)
		if !ok || !bot.IsBot {
			continue
		}

		next, err := s.act(ctx, current, bot)
		if err != nil {
			if isExpected(err) {
				log.WithError(err).WithField("bot_id", id).Debug("bot move rejected")
				continue
			}
			log.WithError(err).WithField("bot_id", id).Error("bot move failed")
			return
		}
		if next != nil {
			current = next
		}
	}

	if stillPlaying(current) {
		s.scheduleDecide(gameID)
	}
}

// act makes one bot's move for this tick and returns the new state, if any
func (s *Service) act(ctx context.Context, current *models.Game, bot *models.Player) (*models.Game, error) {
	if wantsToClaim(current, bot, s.random, s.claimChance) {
		output, err := s.gameService.ClaimBingo(ctx, &game.ClaimBingoInput{
			GameID:   current.ID,
			PlayerID: bot.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to claim bingo: %w", err)
		}
		return output.Game, nil
	}

	if current.Status != models.GameStatusSkillPhase || !bot.HasSkillAvailable {
		return nil, nil
	}

	skill := chooseSkill(s.random)
	if skill == "" {
		output, err := s.gameService.SkipSkill(ctx, &game.SkipSkillInput{
			GameID:   current.ID,
			PlayerID: bot.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to skip skill: %w", err)
		}
		return output.Game, nil
	}

	output, err := s.gameService.UseSkill(ctx, &game.UseSkillInput{
		GameID:   current.ID,
		PlayerID: bot.ID,
		Skill:    skill,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to use %s: %w", skill, err)
	}
	return output.Game, nil
}

func stillPlaying(g *models.Game) bool {
	return (g.Status == models.GameStatusPlaying || g.Status == models.GameStatusSkillPhase) && hostPresent(g)
}

func hostPresent(g *models.Game) bool {
	_, ok := g.Player(g.HostID)
	return ok
}

// isExpected reports rule rejections caused by another move landing first
func isExpected(err error) bool {
	var ruleErr engine.GameError
	return errors.As(err, &ruleErr) ||
		errors.Is(err, game.ErrGameNotFound) ||
		errors.Is(err, game.ErrFeatureUnavailable)
}
