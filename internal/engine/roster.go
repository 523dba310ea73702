package engine

import (
	"time"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
)

// PlayerSpec describes someone taking a seat
type PlayerSpec struct {
	ID     string
	Name   string
	Avatar string
	IsBot  bool
}

// NewGameInput describes a room being opened by its host
type NewGameInput struct {
	ID        string
	Code      string
	ChannelID string
	Settings  models.Settings
	Host      PlayerSpec
	Now       time.Time
}

// NewGame creates a waiting room with the host seated and a shuffled pool
func NewGame(input NewGameInput, rnd random.Source) (*models.Game, error) {
	if err := ValidateSettings(input.Settings); err != nil {
		return nil, err
	}

	game := &models.Game{
		ID:               input.ID,
		Code:             input.Code,
		ChannelID:        input.ChannelID,
		HostID:           input.Host.ID,
		Settings:         input.Settings,
		Status:           models.GameStatusWaiting,
		Players:          make(map[string]*models.Player),
		AvailableNumbers: GeneratePool(input.Settings.Range, rnd),
		CreatedAt:        input.Now,
		UpdatedAt:        input.Now,
	}

	host, err := newPlayer(game, input.Host, models.PlayerRoleHost, input.Now, rnd)
	if err != nil {
		return nil, err
	}
	seat(game, host)

	return game, nil
}

// AddPlayer seats a new player with a fresh card while the room is waiting
func AddPlayer(game *models.Game, spec PlayerSpec, now time.Time, rnd random.Source) (*models.Game, error) {
	if game.Status != models.GameStatusWaiting {
		return nil, ErrNotWaiting
	}
	if _, ok := game.Players[spec.ID]; ok {
		return nil, ErrPlayerAlreadyInGame
	}
	if game.IsFull() {
		return nil, ErrGameFull
	}

	next := game.Clone()
	player, err := newPlayer(next, spec, models.PlayerRolePlayer, now, rnd)
	if err != nil {
		return nil, err
	}
	seat(next, player)

	return next, nil
}

// RemovePlayer takes a player out of the roster in any state
func RemovePlayer(game *models.Game, playerID string) (*models.Game, error) {
	if _, ok := game.Players[playerID]; !ok {
		return nil, ErrPlayerNotInGame
	}

	next := game.Clone()
	delete(next.Players, playerID)

	order := next.PlayerOrder[:0]
	for _, id := range next.PlayerOrder {
		if id != playerID {
			order = append(order, id)
		}
	}
	next.PlayerOrder = order

	closeSkillPhaseIfDone(next)
	settleExhaustedPool(next)
	return next, nil
}

// Kick lets the host remove another player
func Kick(game *models.Game, callerID, targetID string) (*models.Game, error) {
	caller, ok := game.Players[callerID]
	if !ok {
		return nil, ErrPlayerNotInGame
	}
	if !caller.IsHost() {
		return nil, ErrNotHost
	}
	if targetID == callerID {
		return nil, ErrCannotKickSelf
	}
	target, ok := game.Players[targetID]
	if !ok {
		return nil, ErrPlayerNotInGame
	}
	if target.IsHost() {
		return nil, ErrCannotKickHost
	}

	return RemovePlayer(game, targetID)
}

func newPlayer(game *models.Game, spec PlayerSpec, role models.PlayerRole, now time.Time, rnd random.Source) (*models.Player, error) {
	rows, err := GenerateRows(game.Settings.RowCount, game.Settings.CellsPerRow, game.Settings.Range, rnd)
	if err != nil {
		return nil, err
	}

	player := &models.Player{
		ID:        spec.ID,
		Name:      spec.Name,
		Avatar:    spec.Avatar,
		Role:      role,
		IsBot:     spec.IsBot,
		Rows:      rows,
		LuckBonus: NeutralLuck,
		JoinedAt:  now,
	}

	recomputePlayer(player)

	return player, nil
}

func seat(game *models.Game, player *models.Player) {
	player.Seat = len(game.PlayerOrder)
	game.Players[player.ID] = player
	game.PlayerOrder = append(game.PlayerOrder, player.ID)
}
