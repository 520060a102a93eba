package memory

import (
	"context"
	"sync"

	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// It keeps snapshots rather than live pointers so that callers never share
// an aggregate; a save replaces the previous state (last write wins).
type Storage struct {
	mu sync.RWMutex

	players   map[model.PlayerID]model.PlayerSnapshot
	nameIndex map[string]model.PlayerID
	games     map[model.GameID]model.GameSnapshot
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:   make(map[model.PlayerID]model.PlayerSnapshot),
		nameIndex: make(map[string]model.PlayerID),
		games:     make(map[model.GameID]model.GameSnapshot),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	snap := player.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.players[snap.ID]; ok {
		s.unindexName(old)
	}
	s.players[snap.ID] = snap
	s.nameIndex[storage.NameKey(snap.Name)] = snap.ID
	return nil
}

// unindexName must be called with the write lock held
func (s *Storage) unindexName(snap model.PlayerSnapshot) {
	key := storage.NameKey(snap.Name)
	if s.nameIndex[key] == snap.ID {
		delete(s.nameIndex, key)
	}
}

func (s *Storage) FindPlayerByID(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	snap, ok := s.players[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return model.RestorePlayer(snap)
}

func (s *Storage) FindPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	s.mu.RLock()
	id, ok := s.nameIndex[storage.NameKey(name)]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return s.FindPlayerByID(ctx, id)
}

func (s *Storage) FindAllPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, snap := range s.players {
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
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.players[id]; ok {
		s.unindexName(old)
	}
	delete(s.players, id)
	return nil
}

func (s *Storage) PlayerExists(ctx context.Context, id model.PlayerID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[id]
	return ok, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	snap := game.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[snap.ID] = snap
	return nil
}

func (s *Storage) FindGameByID(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	snap, ok := s.games[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return model.RestoreGame(snap)
}

func (s *Storage) FindGamesByCreator(ctx context.Context, creatorID model.PlayerID) ([]*model.Game, error) {
	return s.findGames(storage.ByCreator(creatorID))
}

func (s *Storage) FindGamesByStatus(ctx context.Context, status model.GameStatus) ([]*model.Game, error) {
	return s.findGames(storage.ByStatus(status))
}

func (s *Storage) FindActiveGamesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	return s.findGames(storage.ActiveForPlayer(playerID))
}

func (s *Storage) FindAvailableGames(ctx context.Context) ([]*model.Game, error) {
	return s.findGames(storage.Available())
}

func (s *Storage) FindAllGames(ctx context.Context) ([]*model.Game, error) {
	return s.findGames(storage.All())
}

func (s *Storage) findGames(match storage.GameFilter) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*model.Game, 0, len(s.games))
	for _, snap := range s.games {
		g, err := model.RestoreGame(snap)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return storage.FilterGames(games, match), nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

func (s *Storage) GameExists(ctx context.Context, id model.GameID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.games[id]
	return ok, nil
}
