package bots

import (
	"time"

	"github.com/KirkDiggler/bingo/internal/random"
	"github.com/KirkDiggler/bingo/internal/services/game"
	"github.com/sirupsen/logrus"
)

const (
	// TimerDecide is the recurring bot decision tick for a room
	TimerDecide = "bot_decide"

	// timerJoinPrefix is followed by the index of the join wave
	timerJoinPrefix = "bot_join_"

	DefaultMinDecisionDelay = 2 * time.Second
	DefaultMaxDecisionDelay = 4 * time.Second
	DefaultClaimChance      = 0.8
)

// DefaultJoinWaves adds one bot after 3s and two more after 6s
var DefaultJoinWaves = []JoinWave{
	{Delay: 3 * time.Second, Count: 1},
	{Delay: 6 * time.Second, Count: 2},
}

// JoinWave seats Count bots Delay after a room is created
type JoinWave struct {
	Delay time.Duration
	Count int
}

// Config holds configuration for the bot service
type Config struct {
	GameService game.Service
	Scheduler   game.Scheduler
	Random      random.Source

	// Logger defaults to the logrus standard logger
	Logger logrus.FieldLogger

	// JoinWaves defaults to DefaultJoinWaves. An empty non-nil slice disables auto-fill.
	JoinWaves []JoinWave

	MinDecisionDelay time.Duration
	MaxDecisionDelay time.Duration

	// ClaimChance is the probability a bot claims a bingo it is holding on each tick
	ClaimChance float64
}
