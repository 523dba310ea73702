package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/bingo/internal/auth"
	"github.com/KirkDiggler/bingo/internal/common/clock"
	"github.com/KirkDiggler/bingo/internal/common/uuid"
	"github.com/KirkDiggler/bingo/internal/config"
	"github.com/KirkDiggler/bingo/internal/handlers/discord"
	"github.com/KirkDiggler/bingo/internal/handlers/ws"
	"github.com/KirkDiggler/bingo/internal/random"
	gameRepo "github.com/KirkDiggler/bingo/internal/repositories/game"
	"github.com/KirkDiggler/bingo/internal/scheduler"
	"github.com/KirkDiggler/bingo/internal/services/bots"
	gameService "github.com/KirkDiggler/bingo/internal/services/game"
	"github.com/KirkDiggler/bingo/internal/services/messaging"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := newLogger(cfg)

	// Initialize the room store
	var repo gameRepo.Repository
	var redisClient *redis.Client
	switch cfg.Store {
	case config.StoreRedis:
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		redisRepo, err := gameRepo.NewRedis(&gameRepo.Config{
			RedisClient: redisClient,
			TTL:         cfg.RoomTTL,
		})
		if err != nil {
			log.Fatalf("Failed to create game repository: %v", err)
		}
		repo = redisRepo
	default:
		repo = gameRepo.NewMemory()
	}

	wallClock := clock.New()
	uuidGenerator := uuid.New()
	roller := random.New(&random.Config{})

	sched, err := scheduler.New(&scheduler.Config{
		Clock:  wallClock,
		Logger: log.WithField("component", "scheduler"),
	})
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{Random: roller})
	if err != nil {
		log.Fatalf("Failed to create messaging service: %v", err)
	}

	// The bot service needs the game service and the game service publishes
	// to the bot service, so publishers are attached after construction.
	var fanout gameService.Publishers

	settings := cfg.DefaultSettings()
	gameSvc, err := gameService.New(&gameService.Config{
		GameRepo:      repo,
		Random:        roller,
		Clock:         wallClock,
		UUIDGenerator: uuidGenerator,
		Scheduler:     sched,
		Publisher: gameService.PublisherFunc(func(ctx context.Context, event *gameService.Event) {
			fanout.Publish(ctx, event)
		}),
		Logger:            log.WithField("component", "game"),
		StartDelay:        cfg.StartDelay,
		SkillPhaseTimeout: cfg.SkillPhaseTimeout,
		DefaultSettings:   &settings,
	})
	if err != nil {
		log.Fatalf("Failed to create game service: %v", err)
	}

	botSvc, err := bots.New(&bots.Config{
		GameService:      gameSvc,
		Scheduler:        sched,
		Random:           roller,
		Logger:           log.WithField("component", "bots"),
		JoinWaves:        joinWaves(cfg.BotJoinWaves),
		MinDecisionDelay: cfg.BotMinDelay,
		MaxDecisionDelay: cfg.BotMaxDelay,
		ClaimChance:      cfg.BotClaimChance,
	})
	if err != nil {
		log.Fatalf("Failed to create bot service: %v", err)
	}

	issuer, err := auth.New(&auth.Config{
		Secret: []byte(cfg.JWTSecret),
		Clock:  wallClock,
	})
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}

	hub, err := ws.NewHub(&ws.HubConfig{
		Messaging: messagingSvc,
		Logger:    log.WithField("component", "hub"),
	})
	if err != nil {
		log.Fatalf("Failed to create hub: %v", err)
	}

	handler, err := ws.New(&ws.Config{
		GameService:   gameSvc,
		TokenIssuer:   issuer,
		Hub:           hub,
		Messaging:     messagingSvc,
		UUIDGenerator: uuidGenerator,
		Logger:        log.WithField("component", "http"),
	})
	if err != nil {
		log.Fatalf("Failed to create handler: %v", err)
	}

	publishers := gameService.Publishers{hub, botSvc}

	// Discord is optional
	var discordBot *discord.Bot
	if cfg.DiscordToken != "" {
		discordBot, err = discord.New(&discord.Config{
			Token:         cfg.DiscordToken,
			ApplicationID: cfg.ApplicationID,
			GuildID:       cfg.GuildID,
			GameService:   gameSvc,
			Messaging:     messagingSvc,
			Logger:        log.WithField("component", "discord"),
		})
		if err != nil {
			log.Fatalf("Failed to create Discord bot: %v", err)
		}
		if err := discordBot.Start(); err != nil {
			log.Fatalf("Failed to start Discord bot: %v", err)
		}
		publishers = append(publishers, discordBot)
	}
	fanout = publishers

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("HTTP server did not shut down cleanly")
	}

	sched.Stop()
	hub.Close()

	if discordBot != nil {
		if err := discordBot.Stop(); err != nil {
			log.WithError(err).Warn("Error stopping Discord bot")
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.WithError(err).Warn("Error closing Redis client")
		}
	}

	log.Info("Server has been shut down")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}

func joinWaves(waves []config.BotJoinWave) []bots.JoinWave {
	if waves == nil {
		return nil
	}
	out := make([]bots.JoinWave, 0, len(waves))
	for _, w := range waves {
		out = append(out, bots.JoinWave{Delay: w.Delay, Count: w.Count})
	}
	return out
}
