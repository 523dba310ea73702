package models

import (
	"time"
)

// GameStatus represents the current phase of a bingo game
type GameStatus string

const (
	// GameStatusWaiting indicates the room is open and players can join
	GameStatusWaiting GameStatus = "waiting"

	// GameStatusStarting indicates the host started the game and the countdown is running
	GameStatusStarting GameStatus = "starting"

	// GameStatusPlaying indicates numbers are being drawn
	GameStatusPlaying GameStatus = "playing"

	// GameStatusSkillPhase indicates every player may use or skip one skill
	GameStatusSkillPhase GameStatus = "skill_phase"

	// GameStatusFinished indicates the game is over
	GameStatusFinished GameStatus = "finished"
)

// IsActive reports whether numbers can still be drawn or skills used
func (s GameStatus) IsActive() bool {
	return s == GameStatusPlaying || s == GameStatusSkillPhase
}

// EndReason records why a game finished
type EndReason string

const (
	EndReasonBingo         EndReason = "bingo"
	EndReasonPoolExhausted EndReason = "pool_exhausted"
)

// Game represents a bingo room and everything drawn in it
type Game struct {
	// ID is the unique identifier for the game
	ID string

	// Code is the short join code shared with other players
	Code string

	// ChannelID is the Discord channel the game is bound to, if any
	ChannelID string

	// HostID is the player who created the room
	HostID string

	// Settings are fixed when the room is created
	Settings Settings

	// Status is the current phase of the game
	Status GameStatus

	// Players is keyed by player ID
	Players map[string]*Player

	// PlayerOrder is the roster in join order
	PlayerOrder []string

	// DrawnNumbers is the append-only draw log
	DrawnNumbers []DrawnNumber

	// AvailableNumbers is the remaining draw pool
	AvailableNumbers []int

	// Turn starts at 1 when play begins and increments on every draw
	Turn int

	// LastDrawn is the most recent number, 0 before the first draw
	LastDrawn int

	// WinnerID is set when a bingo claim is accepted
	WinnerID string

	// EndReason is set when the game finishes
	EndReason EndReason

	// Results holds the final ranking, computed once when the game finishes
	Results []RankedResult

	// Version increments on every stored update
	Version int64

	// CreatedAt is when the game was created
	CreatedAt time.Time

	// UpdatedAt is when the game was last updated
	UpdatedAt time.Time
}

// OrderedPlayers returns the players in roster order
func (g *Game) OrderedPlayers() []*Player {
	players := make([]*Player, 0, len(g.PlayerOrder))
	for _, id := range g.PlayerOrder {
		if p, ok := g.Players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

// Player looks up a player by ID
func (g *Game) Player(id string) (*Player, bool) {
	p, ok := g.Players[id]
	return p, ok
}

// IsFull reports whether the roster reached the room capacity
func (g *Game) IsFull() bool {
	return len(g.PlayerOrder) >= g.Settings.MaxPlayers
}

// BotCount returns how many bots are seated
func (g *Game) BotCount() int {
	count := 0
	for _, p := range g.Players {
		if p.IsBot {
			count++
		}
	}
	return count
}

// IsDrawn reports whether the number has already been drawn
func (g *Game) IsDrawn(number int) bool {
	for _, d := range g.DrawnNumbers {
		if d.Number == number {
			return true
		}
	}
	return false
}

// Clone returns a deep copy that shares no mutable state with g
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}

	clone := *g

	clone.Players = make(map[string]*Player, len(g.Players))
	for id, p := range g.Players {
		clone.Players[id] = p.Clone()
	}

	clone.PlayerOrder = append([]string(nil), g.PlayerOrder...)
	clone.DrawnNumbers = append([]DrawnNumber(nil), g.DrawnNumbers...)
	clone.AvailableNumbers = append([]int(nil), g.AvailableNumbers...)
	clone.Results = append([]RankedResult(nil), g.Results...)

	return &clone
}

// DrawnNumber is one entry of the draw log
type DrawnNumber struct {
	Number     int
	DrawerID   string
	DrawerName string
	Timestamp  time.Time
}
