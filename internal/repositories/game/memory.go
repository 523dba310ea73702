package game

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/KirkDiggler/bingo/internal/models"
)

// memoryRepository keeps rooms in process. Every stored and returned game is
// a private copy, so callers can never edit stored state in place.
type memoryRepository struct {
	mu       sync.Mutex
	games    map[string]*models.Game
	codes    map[string]string
	channels map[string]string
	players  map[string]string
}

// NewMemory creates an in-process game repository
func NewMemory() *memoryRepository {
	return &memoryRepository{
		games:    make(map[string]*models.Game),
		codes:    make(map[string]string),
		channels: make(map[string]string),
		players:  make(map[string]string),
	}
}

func (r *memoryRepository) CreateGame(_ context.Context, input *CreateGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}
	game := input.Game
	if game.ID == "" || game.Code == "" {
		return errors.New("game ID and code cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codes[game.Code]; ok {
		return ErrCodeTaken
	}

	r.games[game.ID] = game.Clone()
	r.index(nil, game)
	return nil
}

func (r *memoryRepository) GetGame(_ context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(input.GameID)
}

func (r *memoryRepository) GetGameByCode(_ context.Context, input *GetGameByCodeInput) (*models.Game, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(r.codes[input.Code])
}

func (r *memoryRepository) GetGameByChannel(_ context.Context, input *GetGameByChannelInput) (*models.Game, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(r.channels[input.ChannelID])
}

func (r *memoryRepository) GetGameByPlayer(_ context.Context, input *GetGameByPlayerInput) (*models.Game, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(r.players[input.PlayerID])
}

// UpdateGame holds the store lock across read, mutate and replace
func (r *memoryRepository) UpdateGame(_ context.Context, input *UpdateGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" || input.Mutate == nil {
		return nil, errors.New("input, game ID and mutate cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.games[input.GameID]
	if !ok {
		return nil, ErrGameNotFound
	}

	next, err := input.Mutate(current.Clone())
	if err != nil {
		return nil, err
	}
	next.Version = current.Version + 1

	r.games[next.ID] = next.Clone()
	r.index(current, next)
	return next, nil
}

func (r *memoryRepository) DeleteGame(_ context.Context, input *DeleteGameInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	game, ok := r.games[input.GameID]
	if !ok {
		return ErrGameNotFound
	}

	delete(r.games, game.ID)
	delete(r.codes, game.Code)
	if game.ChannelID != "" && r.channels[game.ChannelID] == game.ID {
		delete(r.channels, game.ChannelID)
	}
	for id := range game.Players {
		if r.players[id] == game.ID {
			delete(r.players, id)
		}
	}
	return nil
}

func (r *memoryRepository) ListOpenGames(_ context.Context, input *ListOpenGamesInput) (*ListOpenGamesOutput, error) {
	limit := defaultListLimit
	if input != nil && input.Limit > 0 {
		limit = input.Limit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var games []*models.Game
	for _, game := range r.games {
		if game.Status == models.GameStatusWaiting {
			games = append(games, game.Clone())
		}
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})
	if len(games) > limit {
		games = games[:limit]
	}

	return &ListOpenGamesOutput{
		Games: games,
	}, nil
}

func (r *memoryRepository) get(gameID string) (*models.Game, error) {
	game, ok := r.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return game.Clone(), nil
}

func (r *memoryRepository) index(before, after *models.Game) {
	r.codes[after.Code] = after.ID
	if after.ChannelID != "" {
		r.channels[after.ChannelID] = after.ID
	}
	for id := range after.Players {
		if ownsPlayerIndex(after, r.players[id]) {
			r.players[id] = after.ID
		}
	}
	if before != nil {
		for id := range before.Players {
			if _, ok := after.Players[id]; !ok && r.players[id] == after.ID {
				delete(r.players, id)
			}
		}
	}
}
