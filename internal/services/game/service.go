package game

import (
	"context"
	"errors"
	"time"

	"github.com/KirkDiggler/bingo/internal/common/clock"
	"github.com/KirkDiggler/bingo/internal/common/uuid"
	"github.com/KirkDiggler/bingo/internal/engine"
	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
	gameRepo "github.com/KirkDiggler/bingo/internal/repositories/game"
	"github.com/sirupsen/logrus"
)

// service implements the Service interface
type service struct {
	gameRepo      gameRepo.Repository
	random        random.Source
	clock         clock.Clock
	uuidGenerator uuid.UUID
	scheduler     Scheduler
	publisher     Publisher
	log           logrus.FieldLogger

	startDelay        time.Duration
	skillPhaseTimeout time.Duration
	defaultSettings   models.Settings
	codeLength        int
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.GameRepo == nil {
		return nil, ErrNilGameRepo
	}
	if cfg.Random == nil {
		return nil, ErrNilRandom
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}
	if cfg.Scheduler == nil {
		return nil, ErrNilScheduler
	}

	s := &service{
		gameRepo:          cfg.GameRepo,
		random:            cfg.Random,
		clock:             cfg.Clock,
		uuidGenerator:     cfg.UUIDGenerator,
		scheduler:         cfg.Scheduler,
		publisher:         cfg.Publisher,
		log:               cfg.Logger,
		startDelay:        cfg.StartDelay,
		skillPhaseTimeout: cfg.SkillPhaseTimeout,
		defaultSettings:   models.DefaultSettings(),
		codeLength:        cfg.CodeLength,
	}

	if s.publisher == nil {
		s.publisher = noopPublisher{}
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	s.log = s.log.WithField("component", "game_service")
	if s.startDelay <= 0 {
		s.startDelay = DefaultStartDelay
	}
	if s.skillPhaseTimeout == 0 {
		s.skillPhaseTimeout = DefaultSkillPhaseTimeout
	}
	if cfg.DefaultSettings != nil {
		if err := engine.ValidateSettings(*cfg.DefaultSettings); err != nil {
			return nil, err
		}
		s.defaultSettings = *cfg.DefaultSettings
	}
	if s.codeLength <= 0 {
		s.codeLength = DefaultCodeLength
	}

	return s, nil
}

// CreateGame opens a waiting room with the caller seated as host
func (s *service) CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error) {
	if input == nil || input.HostID == "" || input.HostName == "" {
		return nil, ErrInvalidInput
	}

	if input.ChannelID != "" {
		existing, err := s.gameRepo.GetGameByChannel(ctx, &gameRepo.GetGameByChannelInput{
			ChannelID: input.ChannelID,
		})
		switch {
		case err == nil && existing.Status != models.GameStatusFinished:
			return nil, ErrGameAlreadyExists
		case err == nil:
			// a finished game gives its channel to the new one
			s.scheduler.CancelRoom(existing.ID)
			if err := s.gameRepo.DeleteGame(ctx, &gameRepo.DeleteGameInput{GameID: existing.ID}); err != nil && !errors.Is(err, gameRepo.ErrGameNotFound) {
				return nil, err
			}
		case !errors.Is(err, gameRepo.ErrGameNotFound):
			return nil, err
		}
	}

	if err := s.ensureNotPlayingElsewhere(ctx, input.HostID, ""); err != nil {
		return nil, err
	}

	settings := s.defaultSettings
	if input.Title != "" {
		settings.Title = input.Title
	}
	if input.MaxPlayers > 0 {
		settings.MaxPlayers = input.MaxPlayers
		if settings.MinPlayers > settings.MaxPlayers {
			settings.MinPlayers = settings.MaxPlayers
		}
	}
	if input.SkillsEnabled != nil {
		settings.SkillsEnabled = *input.SkillsEnabled
	}
	if input.BotsEnabled != nil {
		settings.BotsEnabled = *input.BotsEnabled
	}

	now := s.clock.Now()
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		game, err := engine.NewGame(engine.NewGameInput{
			ID:        s.uuidGenerator.NewUUID(),
			Code:      s.uuidGenerator.NewCode(s.codeLength),
			ChannelID: input.ChannelID,
			Settings:  settings,
			Host: engine.PlayerSpec{
				ID:     input.HostID,
				Name:   input.HostName,
				Avatar: input.HostAvatar,
			},
			Now: now,
		}, s.random)
		if err != nil {
			return nil, err
		}

		err = s.gameRepo.CreateGame(ctx, &gameRepo.CreateGameInput{
			Game: game,
		})
		if errors.Is(err, gameRepo.ErrCodeTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.log.WithFields(logrus.Fields{
			"game_id": game.ID,
			"code":    game.Code,
			"host_id": game.HostID,
		}).Info("room created")

		s.publish(ctx, &Event{Kind: EventRoomCreated, Game: game, ActorID: input.HostID})

		return &CreateGameOutput{
			Game: game,
		}, nil
	}

	return nil, ErrRoomCodeExhausted
}

// JoinGame seats a player in a waiting room
func (s *service) JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error) {
	if input == nil || input.PlayerID == "" || input.PlayerName == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.lookup(ctx, input.GameID, input.Code)
	if err != nil {
		return nil, err
	}

	if _, ok := current.Players[input.PlayerID]; ok {
		return &JoinGameOutput{
			Game:          current,
			AlreadyJoined: true,
		}, nil
	}

	if err := s.ensureNotPlayingElsewhere(ctx, input.PlayerID, current.ID); err != nil {
		return nil, err
	}

	_, game, err := s.update(ctx, current.ID, func(g *models.Game) (*models.Game, error) {
		return engine.AddPlayer(g, engine.PlayerSpec{
			ID:     input.PlayerID,
			Name:   input.PlayerName,
			Avatar: input.Avatar,
		}, s.clock.Now(), s.random)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &Event{Kind: EventPlayerJoined, Game: game, ActorID: input.PlayerID})

	return &JoinGameOutput{
		Game: game,
	}, nil
}

// AddBot seats a bot in a waiting room
func (s *service) AddBot(ctx context.Context, input *AddBotInput) (*AddBotOutput, error) {
	if input == nil || input.GameID == "" || input.Name == "" {
		return nil, ErrInvalidInput
	}

	botID := "bot-" + s.uuidGenerator.NewUUID()
	_, game, err := s.update(ctx, input.GameID, func(g *models.Game) (*models.Game, error) {
		return engine.AddPlayer(g, engine.PlayerSpec{
			ID:     botID,
			Name:   input.Name,
			Avatar: input.Avatar,
			IsBot:  true,
		}, s.clock.Now(), s.random)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &Event{Kind: EventPlayerJoined, Game: game, ActorID: botID})

	return &AddBotOutput{
		Game:  game,
		BotID: botID,
	}, nil
}

// LeaveGame removes a player; the host leaving tears the room down
func (s *service) LeaveGame(ctx context.Context, input *LeaveGameInput) (*LeaveGameOutput, error) {
	if input == nil || input.GameID == "" || input.PlayerID == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.lookup(ctx, input.GameID, "")
	if err != nil {
		return nil, err
	}
	if _, ok := current.Players[input.PlayerID]; !ok {
		return nil, engine.ErrPlayerNotInGame
	}

	if current.HostID == input.PlayerID {
		if err := s.closeRoom(ctx, current); err != nil {
			return nil, err
		}
		return &LeaveGameOutput{
			Closed: true,
		}, nil
	}

	from, game, err := s.update(ctx, input.GameID, func(g *models.Game) (*models.Game, error) {
		return engine.RemovePlayer(g, input.PlayerID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &Event{Kind: EventPlayerLeft, Game: game, ActorID: input.PlayerID})
	s.afterTransition(ctx, from, game)

	return &LeaveGameOutput{
		Game: game,
	}, nil
}

// KickPlayer lets the host remove another player
func (s *service) KickPlayer(ctx context.Context, input *KickPlayerInput) (*KickPlayerOutput, error) {
	if input == nil || input.GameID == "" || input.PlayerID == "" || input.TargetID == "" {
		return nil, ErrInvalidInput
	}

	from, game, err := s.update(ctx, input.GameID, func(g *models.Game) (*models.Game, error) {
		return engine.Kick(g, input.PlayerID, input.TargetID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &Event{Kind: EventPlayerKicked, Game: game, ActorID: input.PlayerID, TargetID: input.TargetID})
	s.afterTransition(ctx, from, game)

	return &KickPlayerOutput{
		Game: game,
	}, nil
}

// StartGame moves the room into the start countdown
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil || input.GameID == "" || input.PlayerID == "" {
		return nil, ErrInvalidInput
	}

	_, game, err := s.update(ctx, input.GameID, func(g *models.Game) (*models.Game, error) {
		return engine.Start(g, input.PlayerID)
	})
	if err != nil {
		return nil, err
	}

	gameID := game.ID
	s.scheduler.Schedule(gameID, TimerStartCountdown, s.startDelay, func() {
		s.beginPlay(gameID)
	})

	s.publish(ctx, &Event{Kind: EventGameStarting, Game: game, ActorID: input.PlayerID})

	return &StartGameOutput{
		Game:     game,
		StartsAt: s.clock.Now().Add(s.startDelay),
	}, nil
}

// DrawNumber draws the next number for a player
func (s *service) DrawNumber(ctx context.Context, input *DrawNumberInput) (*DrawNumberOutput, error) {
	if input == nil || input.GameID == "" || input.PlayerID == "" {
		return nil, ErrInvalidInput
	}

	var drawn models.DrawnNumber
	from, game, err := s.update(ctx, input.GameID, func(g *models.Game) (*models.Game, error) {
		next, d, err := engine.DrawNumber(g, input.PlayerID, s.random, s.clock.Now())
		if err != nil {
			return nil, err
		}
		drawn = d
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &Event{Kind: EventNumberDrawn, Game: game, ActorID: input.PlayerID, Number: drawn.Number})
	s.afterTransition(ctx, from, game)

	return &DrawNumberOutput{
		Game:  game,
		Drawn: drawn,
	}, nil
}

// ClaimBingo declares a completed row; the first valid claim wins
func (s *service) ClaimBingo(ctx context.Context, input *ClaimBingoInput) (*ClaimBingoOutput, error) {
	if input == nil || input.GameID == "" || input.PlayerID == "" {
		return nil, ErrInvalidInput
	}

	from, game, err := s.update(ctx, input.GameID, func(g *models.Game) (*models.Game, error) {
		return engine.ClaimBingo(g, input.PlayerID)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"game_id":   game.ID,
		"winner_id": game.WinnerID,
		"turn":      game.Turn,
	}).Info("bingo")

	s.publish(ctx, &Event{Kind: EventBingo, Game: game, ActorID: input.PlayerID})
	s.afterTransition(ctx, from, game)

	return &ClaimBingoOutput{
		Game:    game,
		Results: game.Results,
	}, nil
}

// UseSkill applies a skill during a skill phase
func (s *service) UseSkill(ctx context.Context, input *UseSkillInput) (*UseSkillOutput, error) {
	if input == nil || input.GameID == "" || input.PlayerID == "" {
		return nil, ErrInvalidInput
	}
	if !input.Skill.IsValid() {
		return nil, engine.ErrUnknownSkill
	}

	from, game, err := s.update(ctx, input.GameID, func(g *models.Game) (*models.Game, error) {
		if !g.Settings.SkillsEnabled {
			return nil, ErrFeatureUnavailable
		}
		return engine.UseSkill(g, input.PlayerID, input.Skill, input.TargetID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &Event{
		Kind:     EventSkillUsed,
		Game:     game,
		ActorID:  input.PlayerID,
		TargetID: input.TargetID,
		Skill:    input.Skill,
	})
	s.afterTransition(ctx, from, game)

	return &UseSkillOutput{
		Game: game,
	}, nil
}

// SkipSkill passes on the current skill phase
func (s *service) SkipSkill(ctx context.Context, input *SkipSkillInput) (*SkipSkillOutput, error) {
	if input == nil || input.GameID == "" || input.PlayerID == "" {
		return nil, ErrInvalidInput
	}

	from, game, err := s.update(ctx, input.GameID, func(g *models.Game) (*models.Game, error) {
		return engine.SkipSkill(g, input.PlayerID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &Event{Kind: EventSkillSkipped, Game: game, ActorID: input.PlayerID})
	s.afterTransition(ctx, from, game)

	return &SkipSkillOutput{
		Game: game,
	}, nil
}

// GetGame returns the current snapshot, by ID or join code
func (s *service) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	if input == nil {
		return nil, ErrInvalidInput
	}

	game, err := s.lookup(ctx, input.GameID, input.Code)
	if err != nil {
		return nil, err
	}

	return &GetGameOutput{
		Game: game,
	}, nil
}

// GetGameByChannel returns the game bound to a Discord channel
func (s *service) GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*GetGameByChannelOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.gameRepo.GetGameByChannel(ctx, &gameRepo.GetGameByChannelInput{
		ChannelID: input.ChannelID,
	})
	if err != nil {
		return nil, translateErr(err)
	}

	return &GetGameByChannelOutput{
		Game: game,
	}, nil
}

// GetResults returns the ranking computed when the game finished
func (s *service) GetResults(ctx context.Context, input *GetResultsInput) (*GetResultsOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.lookup(ctx, input.GameID, "")
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusFinished {
		return nil, ErrGameNotFinished
	}

	return &GetResultsOutput{
		Results:   game.Results,
		WinnerID:  game.WinnerID,
		EndReason: game.EndReason,
	}, nil
}

// ListOpenGames returns rooms that can still be joined
func (s *service) ListOpenGames(ctx context.Context, input *ListOpenGamesInput) (*ListOpenGamesOutput, error) {
	limit := 0
	if input != nil {
		limit = input.Limit
	}

	output, err := s.gameRepo.ListOpenGames(ctx, &gameRepo.ListOpenGamesInput{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	return &ListOpenGamesOutput{
		Games: output.Games,
	}, nil
}
