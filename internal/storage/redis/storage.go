package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Entities are stored as JSON snapshots; SETs index all ids for listing.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	snap := player.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	old, err := s.getPlayerSnapshot(ctx, snap.ID)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	if old != nil && storage.NameKey(old.Name) != storage.NameKey(snap.Name) {
		s.unindexName(ctx, pipe, *old)
	}
	pipe.Set(ctx, playerKey(snap.ID), data, s.cfg.PlayerTTL)
	pipe.SAdd(ctx, playersIndexKey(), string(snap.ID))
	pipe.Set(ctx, playerNameIndexKey(storage.NameKey(snap.Name)), string(snap.ID), s.cfg.PlayerTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// unindexName queues removal of the name index entry if it still points at the player
func (s *Storage) unindexName(ctx context.Context, pipe redis.Pipeliner, snap model.PlayerSnapshot) {
	key := playerNameIndexKey(storage.NameKey(snap.Name))
	owner, err := s.client.Get(ctx, key).Result()
	if err == nil && owner == string(snap.ID) {
		pipe.Del(ctx, key)
	}
}

func (s *Storage) getPlayerSnapshot(ctx context.Context, id model.PlayerID) (*model.PlayerSnapshot, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var snap model.PlayerSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode player %s: %w", id, err)
	}
	return &snap, nil
}

func (s *Storage) FindPlayerByID(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	snap, err := s.getPlayerSnapshot(ctx, id)
	if err != nil || snap == nil {
		return nil, err
	}
	return model.RestorePlayer(*snap)
}

func (s *Storage) FindPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	// Look up player ID from name index
	id, err := s.client.Get(ctx, playerNameIndexKey(storage.NameKey(name))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return s.FindPlayerByID(ctx, model.PlayerID(id))
}

func (s *Storage) FindAllPlayers(ctx context.Context) ([]*model.Player, error) {
	values, err := s.fetchIndexed(ctx, playersIndexKey(), func(id string) string {
		return playerKey(model.PlayerID(id))
	})
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, data := range values {
		var snap model.PlayerSnapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return nil, fmt.Errorf("decode player: %w", err)
		}
		p, err := model.RestorePlayer(snap)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	storage.SortPlayers(players)
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	old, err := s.getPlayerSnapshot(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	if old != nil {
		s.unindexName(ctx, pipe, *old)
	}
	pipe.Del(ctx, playerKey(id))
	pipe.SRem(ctx, playersIndexKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) PlayerExists(ctx context.Context, id model.PlayerID) (bool, error) {
	exists, err := s.client.Exists(ctx, playerKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game.Snapshot())
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID()), data, s.cfg.GameTTL)
	pipe.SAdd(ctx, gamesIndexKey(), string(game.ID()))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) FindGameByID(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decodeGame(data)
}

func decodeGame(data []byte) (*model.Game, error) {
	var snap model.GameSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	return model.RestoreGame(snap)
}

func (s *Storage) FindGamesByCreator(ctx context.Context, creatorID model.PlayerID) ([]*model.Game, error) {
	return s.findGames(ctx, storage.ByCreator(creatorID))
}

func (s *Storage) FindGamesByStatus(ctx context.Context, status model.GameStatus) ([]*model.Game, error) {
	return s.findGames(ctx, storage.ByStatus(status))
}

func (s *Storage) FindActiveGamesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	return s.findGames(ctx, storage.ActiveForPlayer(playerID))
}

func (s *Storage) FindAvailableGames(ctx context.Context) ([]*model.Game, error) {
	return s.findGames(ctx, storage.Available())
}

func (s *Storage) FindAllGames(ctx context.Context) ([]*model.Game, error) {
	return s.findGames(ctx, storage.All())
}

func (s *Storage) findGames(ctx context.Context, match storage.GameFilter) ([]*model.Game, error) {
	values, err := s.fetchIndexed(ctx, gamesIndexKey(), func(id string) string {
		return gameKey(model.GameID(id))
	})
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(values))
	for _, data := range values {
		g, err := decodeGame([]byte(data))
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return storage.FilterGames(games, match), nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, gamesIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GameExists(ctx context.Context, id model.GameID) (bool, error) {
	exists, err := s.client.Exists(ctx, gameKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// fetchIndexed loads every value whose id is in the index SET.
// Ids whose key has expired are pruned from the index.
func (s *Storage) fetchIndexed(ctx context.Context, indexKey string, keyFor func(id string) string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyFor(id)
	}

	// Fetch all entities in one round trip using MGET
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(values))
	var expired []any
	for i, val := range values {
		str, ok := val.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		result = append(result, str)
	}

	if len(expired) > 0 {
		if err := s.client.SRem(ctx, indexKey, expired...).Err(); err != nil {
			return nil, err
		}
	}
	return result, nil
}
