package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/joho/godotenv"
)

// StoreKind selects the room store backend
type StoreKind string

const (
	StoreMemory StoreKind = "memory"
	StoreRedis  StoreKind = "redis"
)

// BotJoinWave seats Count bots Delay after a room opens
type BotJoinWave struct {
	Delay time.Duration
	Count int
}

// Config is everything the server reads from the environment
type Config struct {
	HTTPAddr string

	Store         StoreKind
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RoomTTL       time.Duration

	JWTSecret string

	// Discord is disabled when DiscordToken is empty
	DiscordToken  string
	ApplicationID string
	GuildID       string

	StartDelay        time.Duration
	SkillPhaseTimeout time.Duration

	BotsEnabled    bool
	BotJoinWaves   []BotJoinWave
	BotMinDelay    time.Duration
	BotMaxDelay    time.Duration
	BotClaimChance float64

	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file (or the given files) and then the
// environment. Variables already set win over the file.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	p := &parser{}
	cfg := &Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		Store:             StoreKind(strings.ToLower(getEnv("STORE", string(StoreMemory)))),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           p.int("REDIS_DB", 0),
		RoomTTL:           p.duration("ROOM_TTL", 6*time.Hour),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		DiscordToken:      getEnv("DISCORD_TOKEN", ""),
		ApplicationID:     getEnv("APPLICATION_ID", ""),
		GuildID:           getEnv("GUILD_ID", ""),
		StartDelay:        p.duration("START_DELAY", 3*time.Second),
		SkillPhaseTimeout: p.duration("SKILL_PHASE_TIMEOUT", 20*time.Second),
		BotsEnabled:       p.bool("BOTS_ENABLED", true),
		BotJoinWaves:      p.waves("BOT_JOIN_DELAYS", "3s:1,6s:2"),
		BotMinDelay:       p.duration("BOT_MIN_DELAY", 2*time.Second),
		BotMaxDelay:       p.duration("BOT_MAX_DELAY", 4*time.Second),
		BotClaimChance:    p.float("BOT_CLAIM_CHANCE", 0.8),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
	}
	if p.err != nil {
		return nil, p.err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that parse but make no sense together
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("invalid STORE %q: want memory or redis", c.Store)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.BotMaxDelay < c.BotMinDelay {
		return errors.New("BOT_MAX_DELAY must not be below BOT_MIN_DELAY")
	}
	if c.BotClaimChance < 0 || c.BotClaimChance > 1 {
		return errors.New("BOT_CLAIM_CHANCE must be between 0 and 1")
	}
	return nil
}

// DefaultSettings are the room settings used when a create request leaves
// something out
func (c *Config) DefaultSettings() models.Settings {
	settings := models.DefaultSettings()
	settings.BotsEnabled = c.BotsEnabled
	return settings
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parser keeps the first error so Load can report it after reading every key
type parser struct {
	err error
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}

func (p *parser) int(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) float(key string, def float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) bool(key string, def bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

// waves parses "delay[:count],..." where count defaults to 1. "none"
// disables auto-fill.
func (p *parser) waves(key, def string) []BotJoinWave {
	raw := getEnv(key, def)
	if strings.EqualFold(raw, "none") {
		return []BotJoinWave{}
	}

	var waves []BotJoinWave
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		delayStr, countStr, hasCount := strings.Cut(part, ":")
		delay, err := time.ParseDuration(delayStr)
		if err != nil {
			p.fail(key, err)
			return nil
		}
		count := 1
		if hasCount {
			count, err = strconv.Atoi(countStr)
			if err != nil || count < 1 {
				p.fail(key, fmt.Errorf("bad bot count %q", countStr))
				return nil
			}
		}
		waves = append(waves, BotJoinWave{Delay: delay, Count: count})
	}
	return waves
}
