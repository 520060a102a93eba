package response

import (
	"time"

	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/services/board"
	"github.com/mcoot/happygarden/internal/services/game"
)

// Player represents a player in API responses
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	IsActive bool   `json:"isActive"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:       string(p.ID()),
		Name:     p.Name(),
		Score:    p.Score(),
		IsActive: p.IsActive(),
	}
}

// PlayersFromModel converts a list of players
func PlayersFromModel(players []*model.Player) []Player {
	result := make([]Player, len(players))
	for i, p := range players {
		result[i] = PlayerFromModel(p)
	}
	return result
}

// Placement is an item on the grid
type Placement struct {
	ItemID string `json:"itemId"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// Game represents a game in API responses
type Game struct {
	ID          string      `json:"id"`
	CreatedBy   string      `json:"createdBy"`
	Status      string      `json:"status"`
	Difficulty  string      `json:"difficulty"`
	GridSize    int         `json:"gridSize"`
	Players     []Player    `json:"players"`
	CurrentTurn *string     `json:"currentTurn"`
	TurnCount   int         `json:"turnCount"`
	MaxTurns    int         `json:"maxTurns"`
	Items       []Placement `json:"itemPositions"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	var currentTurn *string
	if turn, ok := g.CurrentTurn(); ok {
		t := string(turn)
		currentTurn = &t
	}

	placements := g.Placements()
	items := make([]Placement, len(placements))
	for i, p := range placements {
		items[i] = Placement{
			ItemID: string(p.ItemID),
			X:      p.Position.X(),
			Y:      p.Position.Y(),
		}
	}

	return Game{
		ID:          string(g.ID()),
		CreatedBy:   string(g.CreatedBy()),
		Status:      string(g.Status()),
		Difficulty:  string(g.Difficulty()),
		GridSize:    g.GridSize(),
		Players:     PlayersFromModel(g.Players()),
		CurrentTurn: currentTurn,
		TurnCount:   g.TurnCount(),
		MaxTurns:    g.MaxTurns(),
		Items:       items,
		CreatedAt:   g.CreatedAt(),
		UpdatedAt:   g.UpdatedAt(),
	}
}

// GamesFromModel converts a list of games
func GamesFromModel(games []*model.Game) []Game {
	result := make([]Game, len(games))
	for i, g := range games {
		result[i] = GameFromModel(g)
	}
	return result
}

// Outcome is the scoring of a finished game
type Outcome struct {
	TotalHappiness int            `json:"totalHappiness"`
	ScorePerPlayer int            `json:"scorePerPlayer"`
	Scores         map[string]int `json:"scores"`
	Winner         *string        `json:"winner"`
}

// OutcomeFromModel converts a game.Outcome; nil stays nil
func OutcomeFromModel(o *game.Outcome) *Outcome {
	if o == nil {
		return nil
	}
	scores := make(map[string]int, len(o.Scores))
	for pid, score := range o.Scores {
		scores[string(pid)] = score
	}
	var winner *string
	if o.HasWinner {
		w := string(o.Winner)
		winner = &w
	}
	return &Outcome{
		TotalHappiness: o.TotalHappiness,
		ScorePerPlayer: o.ScorePerPlayer,
		Scores:         scores,
		Winner:         winner,
	}
}

// GameResult is returned by actions that may finish a game
type GameResult struct {
	Game    Game     `json:"game"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

// GameResultFromModel converts a game.Result
func GameResultFromModel(r *game.Result) GameResult {
	return GameResult{
		Game:    GameFromModel(r.Game),
		Outcome: OutcomeFromModel(r.Outcome),
	}
}

// Board is the rendered grid of a game with its happiness breakdown.
// Cells are indexed [y][x]; empty cells are empty strings.
type Board struct {
	GameID         string         `json:"gameId"`
	Size           int            `json:"size"`
	Cells          [][]string     `json:"cells"`
	Happiness      map[string]int `json:"happiness"`
	TotalHappiness int            `json:"totalHappiness"`
	HappyItems     []string       `json:"happyItems"`
	Message        string         `json:"message,omitempty"`
}

// BoardFromView converts a board.View
func BoardFromView(v *board.View) Board {
	cells := make([][]string, v.Board.Size)
	for y := 0; y < v.Board.Size; y++ {
		cells[y] = make([]string, v.Board.Size)
		for x := 0; x < v.Board.Size; x++ {
			cells[y][x] = string(v.Board.Cells[y][x])
		}
	}

	happiness := make(map[string]int, len(v.Happiness))
	for id, h := range v.Happiness {
		happiness[string(id)] = h
	}

	happy := make([]string, len(v.HappyItems))
	for i, id := range v.HappyItems {
		happy[i] = string(id)
	}

	return Board{
		GameID:         string(v.Board.GameID),
		Size:           v.Board.Size,
		Cells:          cells,
		Happiness:      happiness,
		TotalHappiness: v.TotalHappiness,
		HappyItems:     happy,
		Message:        v.Message,
	}
}

// Health is the liveness response
type Health struct {
	Status string `json:"status"`
}
