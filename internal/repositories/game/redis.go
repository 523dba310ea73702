package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	gameKeyPrefix    = "game:"
	codeKeyPrefix    = "code:"
	channelKeyPrefix = "channel:"
	playerKeyPrefix  = "player:"
	openGamesKey     = "open_games"

	defaultMaxRetries = 10
)

// Config holds configuration for the Redis game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// TTL expires idle rooms, refreshed on every write. Zero keeps them forever.
	TTL time.Duration

	// MaxRetries bounds optimistic update attempts, defaults to 10
	MaxRetries int
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client     *redis.Client
	ttl        time.Duration
	maxRetries int
}

// NewRedis creates a new Redis-backed game repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &redisRepository{
		client:     cfg.RedisClient,
		ttl:        cfg.TTL,
		maxRetries: maxRetries,
	}, nil
}

func gameKey(id string) string    { return gameKeyPrefix + id }
func codeKey(code string) string  { return codeKeyPrefix + code }
func channelKey(id string) string { return channelKeyPrefix + id }
func playerKey(id string) string  { return playerKeyPrefix + id }

// CreateGame reserves the room code and stores the game with its indexes
func (r *redisRepository) CreateGame(ctx context.Context, input *CreateGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}
	game := input.Game
	if game.ID == "" || game.Code == "" {
		return errors.New("game ID and code cannot be empty")
	}

	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	reserved, err := r.client.SetNX(ctx, codeKey(game.Code), game.ID, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve room code: %w", err)
	}
	if !reserved {
		return ErrCodeTaken
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(game.ID), gameJSON, r.ttl)
		r.writeIndexes(ctx, pipe, nil, game, nil)
		return nil
	})
	if err != nil {
		// release the reservation even if ctx is already done
		if delErr := r.client.Del(context.WithoutCancel(ctx), codeKey(game.Code)).Err(); delErr != nil {
			return fmt.Errorf("failed to save game: %w (releasing code: %v)", err, delErr)
		}
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// GetGame retrieves a game by ID from Redis
func (r *redisRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	return r.getGame(ctx, r.client, input.GameID)
}

// GetGameByCode resolves the code index
func (r *redisRepository) GetGameByCode(ctx context.Context, input *GetGameByCodeInput) (*models.Game, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	return r.getIndexed(ctx, codeKey(input.Code))
}

// GetGameByChannel retrieves a game by channel ID from Redis
func (r *redisRepository) GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*models.Game, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	return r.getIndexed(ctx, channelKey(input.ChannelID))
}

// GetGameByPlayer resolves the player index. The index may point at a game
// the player already left; callers check membership.
func (r *redisRepository) GetGameByPlayer(ctx context.Context, input *GetGameByPlayerInput) (*models.Game, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	return r.getIndexed(ctx, playerKey(input.PlayerID))
}

// UpdateGame runs Mutate inside WATCH so a concurrent writer forces a retry
// instead of a lost update
func (r *redisRepository) UpdateGame(ctx context.Context, input *UpdateGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" || input.Mutate == nil {
		return nil, errors.New("input, game ID and mutate cannot be empty")
	}

	key := gameKey(input.GameID)
	var updated *models.Game

	txf := func(tx *redis.Tx) error {
		current, err := r.getGame(ctx, tx, input.GameID)
		if err != nil {
			return err
		}
		before := current.Clone()

		next, err := input.Mutate(current)
		if err != nil {
			return err
		}
		next.Version = before.Version + 1

		owners, err := r.playerIndexes(ctx, tx, before, next)
		if err != nil {
			return err
		}

		gameJSON, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, gameJSON, r.ttl)
			r.writeIndexes(ctx, pipe, before, next, owners)
			return nil
		})
		if err != nil {
			return err
		}

		updated = next
		return nil
	}

	if err := r.watch(ctx, txf, key); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteGame removes a game and every index entry that still points at it
func (r *redisRepository) DeleteGame(ctx context.Context, input *DeleteGameInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	key := gameKey(input.GameID)

	txf := func(tx *redis.Tx) error {
		game, err := r.getGame(ctx, tx, input.GameID)
		if err != nil {
			return err
		}

		owners, err := r.playerIndexes(ctx, tx, game)
		if err != nil {
			return err
		}

		channelOwner := ""
		if game.ChannelID != "" {
			values, err := watchValues(ctx, tx, channelKey(game.ChannelID))
			if err != nil {
				return err
			}
			channelOwner = values[0]
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.Del(ctx, codeKey(game.Code))
			if channelOwner == game.ID {
				pipe.Del(ctx, channelKey(game.ChannelID))
			}
			for id := range game.Players {
				if owners[id] == game.ID {
					pipe.Del(ctx, playerKey(id))
				}
			}
			pipe.ZRem(ctx, openGamesKey, game.ID)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to delete game: %w", err)
		}
		return nil
	}

	return r.watch(ctx, txf, key)
}

// watch retries txf while another client touches a watched key
func (r *redisRepository) watch(ctx context.Context, txf func(*redis.Tx) error, keys ...string) error {
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		err := r.client.Watch(ctx, txf, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return ErrConcurrentUpdate
}

// playerIndexes watches the player index of everyone seated in games and
// returns the game each entry points at
func (r *redisRepository) playerIndexes(ctx context.Context, tx *redis.Tx, games ...*models.Game) (map[string]string, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, game := range games {
		for id := range game.Players {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(id)
	}
	values, err := watchValues(ctx, tx, keys...)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]string, len(ids))
	for i, id := range ids {
		owners[id] = values[i]
	}
	return owners, nil
}

// watchValues adds keys to the transaction's watch set and reads them.
// Missing keys read as "".
func watchValues(ctx context.Context, tx *redis.Tx, keys ...string) ([]string, error) {
	if err := tx.Watch(ctx, keys...).Err(); err != nil {
		return nil, fmt.Errorf("failed to watch indexes: %w", err)
	}

	raw, err := tx.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read indexes: %w", err)
	}

	values := make([]string, len(keys))
	for i, v := range raw {
		if str, ok := v.(string); ok {
			values[i] = str
		}
	}
	return values, nil
}

// ListOpenGames reads the lobby index, pruning rooms that expired
func (r *redisRepository) ListOpenGames(ctx context.Context, input *ListOpenGamesInput) (*ListOpenGamesOutput, error) {
	limit := defaultListLimit
	if input != nil && input.Limit > 0 {
		limit = input.Limit
	}

	ids, err := r.client.ZRevRange(ctx, openGamesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list open games: %w", err)
	}

	games := make([]*models.Game, 0, len(ids))
	for _, id := range ids {
		game, err := r.getGame(ctx, r.client, id)
		if errors.Is(err, ErrGameNotFound) {
			r.client.ZRem(ctx, openGamesKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		if game.Status == models.GameStatusWaiting {
			games = append(games, game)
		}
	}

	return &ListOpenGamesOutput{
		Games: games,
	}, nil
}

// writeIndexes queues index maintenance for a write of after; before is nil
// on create. owners holds the current player index entries.
func (r *redisRepository) writeIndexes(ctx context.Context, pipe redis.Pipeliner, before, after *models.Game, owners map[string]string) {
	pipe.Set(ctx, codeKey(after.Code), after.ID, r.ttl)

	if after.ChannelID != "" {
		pipe.Set(ctx, channelKey(after.ChannelID), after.ID, r.ttl)
	}

	for id := range after.Players {
		if ownsPlayerIndex(after, owners[id]) {
			pipe.Set(ctx, playerKey(id), after.ID, r.ttl)
		}
	}
	if before != nil {
		for id := range before.Players {
			if _, ok := after.Players[id]; !ok && owners[id] == after.ID {
				pipe.Del(ctx, playerKey(id))
			}
		}
	}

	if after.Status == models.GameStatusWaiting {
		pipe.ZAdd(ctx, openGamesKey, redis.Z{
			Score:  float64(after.CreatedAt.UnixNano()),
			Member: after.ID,
		})
	} else {
		pipe.ZRem(ctx, openGamesKey, after.ID)
	}
}

func (r *redisRepository) getIndexed(ctx context.Context, indexKey string) (*models.Game, error) {
	gameID, err := r.client.Get(ctx, indexKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to resolve %s: %w", indexKey, err)
	}

	return r.getGame(ctx, r.client, gameID)
}

// stringGetter is satisfied by both the client and a watched transaction
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *redisRepository) getGame(ctx context.Context, cmd stringGetter, gameID string) (*models.Game, error) {
	gameJSON, err := cmd.Get(ctx, gameKey(gameID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var game models.Game
	if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}
