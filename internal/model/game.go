package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// GameID uniquely identifies a game
type GameID string

// ItemID identifies one placed item instance, e.g. "cat_1"
type ItemID string

// GameStatus represents the current phase of a game
type GameStatus string

const (
	GameStatusWaiting   GameStatus = "waiting"   // Players may join
	GameStatusActive    GameStatus = "active"    // Players take turns placing items
	GameStatusCompleted GameStatus = "completed" // Turn limit reached, grid full, or ended
	GameStatusAbandoned GameStatus = "abandoned" // Cancelled by an administrator
)

// IsTerminal returns true for statuses that permit no further changes
func (s GameStatus) IsTerminal() bool {
	return s == GameStatusCompleted || s == GameStatusAbandoned
}

func (s GameStatus) valid() bool {
	switch s {
	case GameStatusWaiting, GameStatusActive, GameStatusCompleted, GameStatusAbandoned:
		return true
	}
	return false
}

// Difficulty selects the turn limit of a game
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulties
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

const (
	MaxPlayers      = 4
	MinGridSize     = 3
	MaxGridSize     = 10
	DefaultGridSize = 5
	MinMaxTurns     = 1
	MaxMaxTurns     = 200
)

// MaxTurnsFor returns the turn limit for a difficulty; unknown values get 50
func MaxTurnsFor(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 30
	case DifficultyMedium:
		return 50
	case DifficultyHard:
		return 80
	default:
		return 50
	}
}

// Game is the aggregate root for a single play session.
// Players and placements keep insertion order; turn order follows players.
type Game struct {
	id          GameID
	createdBy   PlayerID
	status      GameStatus
	difficulty  Difficulty
	gridSize    int
	players     map[PlayerID]*Player
	playerOrder []PlayerID
	currentTurn PlayerID // empty when nobody holds the turn
	turnCount   int
	maxTurns    int
	items       map[ItemID]Position
	itemOrder   []ItemID
	createdAt   time.Time
	updatedAt   time.Time
}

// ItemPlacement pairs an item with its grid position
type ItemPlacement struct {
	ItemID   ItemID   `json:"itemId"`
	Position Position `json:"position"`
}

// GameSnapshot is the serialized form of a Game
type GameSnapshot struct {
	ID            GameID           `json:"id"`
	CreatedBy     PlayerID         `json:"createdBy"`
	Status        GameStatus       `json:"status"`
	Difficulty    Difficulty       `json:"difficulty"`
	GridSize      int              `json:"gridSize"`
	Players       []PlayerSnapshot `json:"players"`
	CurrentTurn   PlayerID         `json:"currentTurn,omitempty"`
	TurnCount     int              `json:"turnCount"`
	MaxTurns      int              `json:"maxTurns"`
	ItemPositions []ItemPlacement  `json:"itemPositions"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// NewGame creates a waiting game. An empty difficulty means easy and a zero
// grid size means DefaultGridSize.
func NewGame(id GameID, createdBy PlayerID, difficulty Difficulty, gridSize int, now time.Time) (*Game, error) {
	if difficulty == "" {
		difficulty = DifficultyEasy
	}
	if gridSize == 0 {
		gridSize = DefaultGridSize
	}
	return RestoreGame(GameSnapshot{
		ID:         id,
		CreatedBy:  createdBy,
		Status:     GameStatusWaiting,
		Difficulty: difficulty,
		GridSize:   gridSize,
		MaxTurns:   MaxTurnsFor(difficulty),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// RestoreGame rebuilds a game from storage, re-checking every invariant
func RestoreGame(s GameSnapshot) (*Game, error) {
	if strings.TrimSpace(string(s.ID)) == "" {
		return nil, ErrEmptyGameID
	}
	if strings.TrimSpace(string(s.CreatedBy)) == "" {
		return nil, ErrEmptyCreatorID
	}
	if s.GridSize < MinGridSize || s.GridSize > MaxGridSize {
		return nil, ErrInvalidGridSize
	}
	if s.MaxTurns < MinMaxTurns || s.MaxTurns > MaxMaxTurns {
		return nil, ErrInvalidMaxTurns
	}
	if !s.Status.valid() {
		return nil, ErrInvalidStatus
	}
	if s.TurnCount < 0 {
		return nil, fmt.Errorf("%w: negative turn count", ErrCorruptSnapshot)
	}
	if s.Status == GameStatusActive && s.TurnCount > s.MaxTurns {
		return nil, fmt.Errorf("%w: turn count exceeds max turns", ErrCorruptSnapshot)
	}
	if len(s.Players) > MaxPlayers {
		return nil, ErrGameFull
	}

	g := &Game{
		id:         s.ID,
		createdBy:  s.CreatedBy,
		status:     s.Status,
		difficulty: s.Difficulty,
		gridSize:   s.GridSize,
		players:    make(map[PlayerID]*Player, len(s.Players)),
		turnCount:  s.TurnCount,
		maxTurns:   s.MaxTurns,
		items:      make(map[ItemID]Position, len(s.ItemPositions)),
		createdAt:  s.CreatedAt,
		updatedAt:  s.UpdatedAt,
	}

	for _, ps := range s.Players {
		p, err := RestorePlayer(ps)
		if err != nil {
			return nil, err
		}
		if _, exists := g.players[p.id]; exists {
			return nil, ErrAlreadyInGame
		}
		g.players[p.id] = p
		g.playerOrder = append(g.playerOrder, p.id)
	}

	if s.CurrentTurn != "" {
		if _, ok := g.players[s.CurrentTurn]; !ok {
			return nil, fmt.Errorf("%w: current turn holder is not a player", ErrCorruptSnapshot)
		}
		g.currentTurn = s.CurrentTurn
	}

	for _, placement := range s.ItemPositions {
		if placement.ItemID == "" {
			return nil, ErrEmptyItemID
		}
		if _, exists := g.items[placement.ItemID]; exists {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrCorruptSnapshot, placement.ItemID)
		}
		if !placement.Position.IsWithinBounds(g.gridSize, g.gridSize) {
			return nil, ErrOutOfBounds
		}
		if _, occupied := g.ItemAt(placement.Position); occupied {
			return nil, ErrPositionOccupied
		}
		g.items[placement.ItemID] = placement.Position
		g.itemOrder = append(g.itemOrder, placement.ItemID)
	}

	return g, nil
}

func (g *Game) ID() GameID             { return g.id }
func (g *Game) CreatedBy() PlayerID    { return g.createdBy }
func (g *Game) Status() GameStatus     { return g.status }
func (g *Game) Difficulty() Difficulty { return g.difficulty }
func (g *Game) GridSize() int          { return g.gridSize }
func (g *Game) TurnCount() int         { return g.turnCount }
func (g *Game) MaxTurns() int          { return g.maxTurns }
func (g *Game) CreatedAt() time.Time   { return g.createdAt }
func (g *Game) UpdatedAt() time.Time   { return g.updatedAt }

// CurrentTurn returns the player whose turn it is, if any
func (g *Game) CurrentTurn() (PlayerID, bool) {
	return g.currentTurn, g.currentTurn != ""
}

// PlayerCount returns the number of players in the game
func (g *Game) PlayerCount() int {
	return len(g.playerOrder)
}

// HasPlayer returns true if the player is a member of the game
func (g *Game) HasPlayer(id PlayerID) bool {
	_, ok := g.players[id]
	return ok
}

// PlayerIDs returns player ids in turn order
func (g *Game) PlayerIDs() []PlayerID {
	return slices.Clone(g.playerOrder)
}

// Players returns copies of the players in turn order
func (g *Game) Players() []*Player {
	result := make([]*Player, 0, len(g.playerOrder))
	for _, id := range g.playerOrder {
		p := *g.players[id]
		result = append(result, &p)
	}
	return result
}

// ItemCount returns the number of placed items
func (g *Game) ItemCount() int {
	return len(g.itemOrder)
}

// ItemPositions returns a copy of the item placements
func (g *Game) ItemPositions() map[ItemID]Position {
	result := make(map[ItemID]Position, len(g.items))
	for id, pos := range g.items {
		result[id] = pos
	}
	return result
}

// Placements returns the item placements in the order they were first placed
func (g *Game) Placements() []ItemPlacement {
	result := make([]ItemPlacement, 0, len(g.itemOrder))
	for _, id := range g.itemOrder {
		result = append(result, ItemPlacement{ItemID: id, Position: g.items[id]})
	}
	return result
}

// ItemAt returns the item occupying pos, if any
func (g *Game) ItemAt(pos Position) (ItemID, bool) {
	for id, p := range g.items {
		if p.Equals(pos) {
			return id, true
		}
	}
	return "", false
}

// IsFull returns true if every cell holds an item
func (g *Game) IsFull() bool {
	return len(g.items) >= g.gridSize*g.gridSize
}

// AddPlayer adds a player to a waiting game
func (g *Game) AddPlayer(player *Player, now time.Time) error {
	if player == nil {
		return ErrEmptyPlayerID
	}
	if g.status != GameStatusWaiting {
		return ErrGameNotWaiting
	}
	if g.HasPlayer(player.id) {
		return ErrAlreadyInGame
	}
	if len(g.playerOrder) >= MaxPlayers {
		return ErrGameFull
	}

	g.players[player.id] = player
	g.playerOrder = append(g.playerOrder, player.id)
	g.updatedAt = now
	return nil
}

// RemovePlayer removes a player from a waiting or active game. Completed
// and abandoned games keep their roster.
//
// If the player held the turn it passes to the player who joined after
// them (wrapping to the first), and the turn counts as taken. A game already
// on its last turn completes instead.
func (g *Game) RemovePlayer(playerID PlayerID, now time.Time) error {
	if g.status.IsTerminal() {
		return ErrGameFinished
	}
	idx := slices.Index(g.playerOrder, playerID)
	if idx < 0 {
		return ErrNotInGame
	}

	delete(g.players, playerID)
	g.playerOrder = slices.Delete(g.playerOrder, idx, idx+1)

	if g.currentTurn == playerID {
		switch {
		case len(g.playerOrder) == 0:
			g.currentTurn = ""
		case g.turnCount >= g.maxTurns:
			g.status = GameStatusCompleted
			g.currentTurn = ""
		default:
			g.currentTurn = g.playerOrder[idx%len(g.playerOrder)]
			g.turnCount++
		}
	}
	g.updatedAt = now
	return nil
}

// Start moves a waiting game to active and hands the first turn to the
// first player to have joined
func (g *Game) Start(now time.Time) error {
	if g.status != GameStatusWaiting {
		return ErrGameNotWaiting
	}
	if len(g.playerOrder) == 0 {
		return ErrInsufficientPlayers
	}

	g.status = GameStatusActive
	g.currentTurn = g.playerOrder[0]
	g.turnCount = 1
	g.updatedAt = now
	return nil
}

// PlaceItem puts an item on the grid for the player holding the turn.
// Placing an item that is already on the grid moves it.
// The game completes when the turn limit is reached or the grid fills up;
// otherwise the turn passes to the next player.
func (g *Game) PlaceItem(itemID ItemID, pos Position, playerID PlayerID, now time.Time) error {
	if itemID == "" {
		return ErrEmptyItemID
	}
	if g.status != GameStatusActive {
		return ErrGameNotActive
	}
	if g.currentTurn != playerID {
		return ErrNotPlayerTurn
	}
	if !g.HasPlayer(playerID) {
		return ErrNotInGame
	}
	if !pos.IsWithinBounds(g.gridSize, g.gridSize) {
		return ErrOutOfBounds
	}
	if occupant, occupied := g.ItemAt(pos); occupied && occupant != itemID {
		return ErrPositionOccupied
	}

	if _, exists := g.items[itemID]; !exists {
		g.itemOrder = append(g.itemOrder, itemID)
	}
	g.items[itemID] = pos
	g.updatedAt = now

	if g.turnCount >= g.maxTurns || g.IsFull() {
		g.status = GameStatusCompleted
		g.currentTurn = ""
		return nil
	}

	g.advanceTurn()
	return nil
}

func (g *Game) advanceTurn() {
	idx := slices.Index(g.playerOrder, g.currentTurn)
	g.currentTurn = g.playerOrder[(idx+1)%len(g.playerOrder)]
	g.turnCount++
}

// Complete ends an active game
func (g *Game) Complete(now time.Time) error {
	if g.status != GameStatusActive {
		return ErrGameNotActive
	}
	g.status = GameStatusCompleted
	g.currentTurn = ""
	g.updatedAt = now
	return nil
}

// Abandon cancels a game that has not finished
func (g *Game) Abandon(now time.Time) error {
	if g.status.IsTerminal() {
		return ErrGameFinished
	}
	g.status = GameStatusAbandoned
	g.currentTurn = ""
	g.updatedAt = now
	return nil
}

// SyncPlayer replaces the game's copy of a member with a fresher one,
// typically after the player's score or name changed elsewhere
func (g *Game) SyncPlayer(player *Player) {
	if player == nil {
		return
	}
	if _, ok := g.players[player.id]; ok {
		g.players[player.id] = player
	}
}

// Snapshot returns the serializable state of the game
func (g *Game) Snapshot() GameSnapshot {
	players := make([]PlayerSnapshot, 0, len(g.playerOrder))
	for _, id := range g.playerOrder {
		players = append(players, g.players[id].Snapshot())
	}
	return GameSnapshot{
		ID:            g.id,
		CreatedBy:     g.createdBy,
		Status:        g.status,
		Difficulty:    g.difficulty,
		GridSize:      g.gridSize,
		Players:       players,
		CurrentTurn:   g.currentTurn,
		TurnCount:     g.turnCount,
		MaxTurns:      g.maxTurns,
		ItemPositions: g.Placements(),
		CreatedAt:     g.createdAt,
		UpdatedAt:     g.updatedAt,
	}
}
