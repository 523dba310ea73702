package models

import (
	"time"
)

// PlayerRole distinguishes the room host from everyone else
type PlayerRole string

const (
	PlayerRoleHost   PlayerRole = "host"
	PlayerRolePlayer PlayerRole = "player"
)

// Cell is one number on a card
type Cell struct {
	Number int
	Marked bool
}

// Row is an ordered line of cells, sorted ascending by number
type Row struct {
	Cells []Cell

	// IsComplete is true iff every cell is marked
	IsComplete bool
}

// Player represents a seat in a bingo game
type Player struct {
	// ID is the unique identifier for the player
	ID string

	// Name is the display name
	Name string

	// Avatar is an emoji or image reference picked by the client
	Avatar string

	Role  PlayerRole
	IsBot bool

	// Seat is the join position, starting at 0
	Seat int

	// Rows make up the player's card
	Rows []Row

	// Derived from Rows on every change
	MarkedCount   int
	CompletedRows int
	CanBingo      bool

	HasBingoed bool

	// IsBlocked prevents the player from drawing until the next draw
	IsBlocked bool

	// LuckBonus is 1.0 when neutral
	LuckBonus     float64
	LuckTurnsLeft int

	HasSkillAvailable bool
	HasFiftyFifty     bool

	// JoinedAt is when the player took the seat
	JoinedAt time.Time
}

// IsHost reports whether the player owns the room
func (p *Player) IsHost() bool {
	return p.Role == PlayerRoleHost
}

// UnmarkedNumbers returns every number on the card that is not marked yet
func (p *Player) UnmarkedNumbers() []int {
	var numbers []int
	for _, row := range p.Rows {
		for _, cell := range row.Cells {
			if !cell.Marked {
				numbers = append(numbers, cell.Number)
			}
		}
	}
	return numbers
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}

	clone := *p
	clone.Rows = make([]Row, len(p.Rows))
	for i, row := range p.Rows {
		clone.Rows[i] = Row{
			Cells:      append([]Cell(nil), row.Cells...),
			IsComplete: row.IsComplete,
		}
	}
	return &clone
}
