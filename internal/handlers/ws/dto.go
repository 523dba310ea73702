package ws

import (
	"time"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/services/messaging"
)

// Client message types
const (
	MsgDraw      = "draw"
	MsgClaim     = "claim"
	MsgUseSkill  = "use_skill"
	MsgSkipSkill = "skip_skill"
	MsgStart     = "start"
	MsgLeave     = "leave"
	MsgKick      = "kick"
	MsgSync      = "sync"
)

// Server message types
const (
	MsgState = "state"
	MsgEvent = "event"
	MsgError = "error"
)

type ClientMessage struct {
	Type      string `json:"type"`
	Skill     string `json:"skill,omitempty"`
	TargetID  string `json:"targetId,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type ServerMessage struct {
	Type      string    `json:"type"`
	State     *Snapshot `json:"state,omitempty"`
	Event     *EventDTO `json:"event,omitempty"`
	Error     *ErrorDTO `json:"error,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
}

type EventDTO struct {
	Kind     string    `json:"kind"`
	Message  string    `json:"message"`
	ActorID  string    `json:"actorId,omitempty"`
	TargetID string    `json:"targetId,omitempty"`
	Number   int       `json:"number,omitempty"`
	Skill    string    `json:"skill,omitempty"`
	At       time.Time `json:"at"`
}

type ErrorDTO struct {
	Code    messaging.ErrorCode `json:"code"`
	Message string              `json:"message"`
}

// Snapshot is the room as one player sees it. Only that player's card is
// included.
type Snapshot struct {
	ID            string       `json:"id"`
	Code          string       `json:"code"`
	Title         string       `json:"title"`
	Status        string       `json:"status"`
	HostID        string       `json:"hostId"`
	MaxPlayers    int          `json:"maxPlayers"`
	SkillsEnabled bool         `json:"skillsEnabled"`
	SkillInterval int          `json:"skillInterval"`
	Turn          int          `json:"turn"`
	LastDrawn     int          `json:"lastDrawn,omitempty"`
	Drawn         []int        `json:"drawn"`
	Remaining     int          `json:"remaining"`
	Players       []PlayerView `json:"players"`
	Me            *CardView    `json:"me,omitempty"`
	WinnerID      string       `json:"winnerId,omitempty"`
	EndReason     string       `json:"endReason,omitempty"`
	Results       []ResultView `json:"results,omitempty"`
}

type PlayerView struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Avatar            string  `json:"avatar,omitempty"`
	Role              string  `json:"role"`
	IsBot             bool    `json:"isBot"`
	Seat              int     `json:"seat"`
	MarkedCount       int     `json:"markedCount"`
	CompletedRows     int     `json:"completedRows"`
	CanBingo          bool    `json:"canBingo"`
	HasBingoed        bool    `json:"hasBingoed"`
	IsBlocked         bool    `json:"isBlocked"`
	LuckBonus         float64 `json:"luckBonus"`
	LuckTurnsLeft     int     `json:"luckTurnsLeft"`
	HasSkillAvailable bool    `json:"hasSkillAvailable"`
	HasFiftyFifty     bool    `json:"hasFiftyFifty"`
}

type CardView struct {
	PlayerID string       `json:"playerId"`
	Rows     [][]CellView `json:"rows"`
}

type CellView struct {
	Number int  `json:"number"`
	Marked bool `json:"marked"`
}

type ResultView struct {
	Rank          int    `json:"rank"`
	PlayerID      string `json:"playerId"`
	Name          string `json:"name"`
	IsBot         bool   `json:"isBot"`
	IsWinner      bool   `json:"isWinner"`
	CompletedRows int    `json:"completedRows"`
	MarkedCount   int    `json:"markedCount"`
}

// RoomResponse is returned by the create and join endpoints
type RoomResponse struct {
	Game     *Snapshot `json:"game"`
	PlayerID string    `json:"playerId,omitempty"`
	Token    string    `json:"token,omitempty"`
}

type CreateRoomRequest struct {
	Name          string `json:"name"`
	Avatar        string `json:"avatar,omitempty"`
	Title         string `json:"title,omitempty"`
	MaxPlayers    int    `json:"maxPlayers,omitempty"`
	SkillsEnabled *bool  `json:"skillsEnabled,omitempty"`
	BotsEnabled   *bool  `json:"botsEnabled,omitempty"`
}

type JoinRoomRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`

	// Token rejoins as the player it was issued to
	Token string `json:"token,omitempty"`
}

func newSnapshot(g *models.Game, viewerID string) *Snapshot {
	s := &Snapshot{
		ID:            g.ID,
		Code:          g.Code,
		Title:         g.Settings.Title,
		Status:        string(g.Status),
		HostID:        g.HostID,
		MaxPlayers:    g.Settings.MaxPlayers,
		SkillsEnabled: g.Settings.SkillsEnabled,
		SkillInterval: g.Settings.SkillInterval,
		Turn:          g.Turn,
		LastDrawn:     g.LastDrawn,
		Drawn:         make([]int, 0, len(g.DrawnNumbers)),
		Remaining:     len(g.AvailableNumbers),
		Players:       make([]PlayerView, 0, len(g.PlayerOrder)),
		WinnerID:      g.WinnerID,
		EndReason:     string(g.EndReason),
	}

	for _, d := range g.DrawnNumbers {
		s.Drawn = append(s.Drawn, d.Number)
	}

	for _, p := range g.OrderedPlayers() {
		s.Players = append(s.Players, PlayerView{
			ID:                p.ID,
			Name:              p.Name,
			Avatar:            p.Avatar,
			Role:              string(p.Role),
			IsBot:             p.IsBot,
			Seat:              p.Seat,
			MarkedCount:       p.MarkedCount,
			CompletedRows:     p.CompletedRows,
			CanBingo:          p.CanBingo,
			HasBingoed:        p.HasBingoed,
			IsBlocked:         p.IsBlocked,
			LuckBonus:         p.LuckBonus,
			LuckTurnsLeft:     p.LuckTurnsLeft,
			HasSkillAvailable: p.HasSkillAvailable,
			HasFiftyFifty:     p.HasFiftyFifty,
		})

		if p.ID == viewerID {
			s.Me = newCardView(p)
		}
	}

	for _, r := range g.Results {
		s.Results = append(s.Results, ResultView{
			Rank:          r.Rank,
			PlayerID:      r.PlayerID,
			Name:          r.Name,
			IsBot:         r.IsBot,
			IsWinner:      r.IsWinner,
			CompletedRows: r.CompletedRows,
			MarkedCount:   r.MarkedCount,
		})
	}

	return s
}

func newCardView(p *models.Player) *CardView {
	card := &CardView{
		PlayerID: p.ID,
		Rows:     make([][]CellView, len(p.Rows)),
	}
	for i, row := range p.Rows {
		cells := make([]CellView, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = CellView{Number: c.Number, Marked: c.Marked}
		}
		card.Rows[i] = cells
	}
	return card
}
