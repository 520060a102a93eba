// Package sqlite provides a SQLite-backed storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/storage"
	"github.com/mcoot/happygarden/internal/storage/sqlite/migrations"
)

// Storage persists players as rows and games as JSON snapshots, with a
// game_players table for membership lookups
type Storage struct {
	db *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open opens a SQLite database file and applies embedded migrations
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the SQLite handle
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Player operations

const playerColumns = "id, name, score, is_active"

func scanPlayer(row interface{ Scan(...any) error }) (*model.Player, error) {
	var snap model.PlayerSnapshot
	if err := row.Scan(&snap.ID, &snap.Name, &snap.Score, &snap.IsActive); err != nil {
		return nil, err
	}
	return model.RestorePlayer(snap)
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	snap := player.Snapshot()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, name, score, is_active) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name,
		   score = excluded.score,
		   is_active = excluded.is_active`,
		snap.ID, snap.Name, snap.Score, snap.IsActive,
	)
	if err != nil {
		return fmt.Errorf("save player %s: %w", snap.ID, err)
	}
	return nil
}

func (s *Storage) FindPlayerByID(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+playerColumns+" FROM players WHERE id = ?", id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (s *Storage) FindPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+playerColumns+" FROM players WHERE name = ? ORDER BY id LIMIT 1",
		storage.NameKey(name),
	)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (s *Storage) FindAllPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+playerColumns+" FROM players ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := []*model.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete player %s: %w", id, err)
	}
	return nil
}

func (s *Storage) PlayerExists(ctx context.Context, id model.PlayerID) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM players WHERE id = ?", id)
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	snap := game.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save game: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO games (id, created_by, status, player_count, created_at, updated_at, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   status = excluded.status,
		   player_count = excluded.player_count,
		   updated_at = excluded.updated_at,
		   data = excluded.data`,
		snap.ID, snap.CreatedBy, snap.Status, len(snap.Players),
		snap.CreatedAt.UTC().UnixMilli(), snap.UpdatedAt.UTC().UnixMilli(), string(data),
	); err != nil {
		return fmt.Errorf("save game %s: %w", snap.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM game_players WHERE game_id = ?", snap.ID); err != nil {
		return fmt.Errorf("clear game players %s: %w", snap.ID, err)
	}
	for seat, p := range snap.Players {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO game_players (game_id, player_id, seat) VALUES (?, ?, ?)",
			snap.ID, p.ID, seat,
		); err != nil {
			return fmt.Errorf("save game player %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Storage) FindGameByID(ctx context.Context, id model.GameID) (*model.Game, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM games WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", id, err)
	}
	return decodeGame(data)
}

func decodeGame(data string) (*model.Game, error) {
	var snap model.GameSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	return model.RestoreGame(snap)
}

func (s *Storage) FindGamesByCreator(ctx context.Context, creatorID model.PlayerID) ([]*model.Game, error) {
	return s.queryGames(ctx, "SELECT data FROM games WHERE created_by = ?", creatorID)
}

func (s *Storage) FindGamesByStatus(ctx context.Context, status model.GameStatus) ([]*model.Game, error) {
	return s.queryGames(ctx, "SELECT data FROM games WHERE status = ?", status)
}

func (s *Storage) FindActiveGamesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	return s.queryGames(ctx,
		`SELECT g.data FROM games g
		 JOIN game_players gp ON gp.game_id = g.id
		 WHERE gp.player_id = ? AND g.status IN (?, ?)`,
		playerID, model.GameStatusWaiting, model.GameStatusActive,
	)
}

func (s *Storage) FindAvailableGames(ctx context.Context) ([]*model.Game, error) {
	return s.queryGames(ctx,
		"SELECT data FROM games WHERE status = ? AND player_count < ?",
		model.GameStatusWaiting, model.MaxPlayers,
	)
}

func (s *Storage) FindAllGames(ctx context.Context) ([]*model.Game, error) {
	return s.queryGames(ctx, "SELECT data FROM games")
}

// queryGames decodes every row of a single-column "data" query.
// Ordering is applied after decoding so it matches the other backends to the nanosecond.
func (s *Storage) queryGames(ctx context.Context, query string, args ...any) ([]*model.Game, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := []*model.Game{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		g, err := decodeGame(data)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	storage.SortGames(games)
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	return nil
}

func (s *Storage) GameExists(ctx context.Context, id model.GameID) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM games WHERE id = ?", id)
}

func (s *Storage) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var found int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
