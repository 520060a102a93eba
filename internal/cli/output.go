package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error to stderr
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case []Player:
		o.printPlayers(v)
	case Game:
		o.printGame(v)
	case []Game:
		o.printGames(v)
	case GameResult:
		o.printGameResult(v)
	case Board:
		o.printBoard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	IsActive bool   `json:"isActive"`
}

// Placement is an item on the grid
type Placement struct {
	ItemID string `json:"itemId"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// Game response type
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
}

// Outcome response type
type Outcome struct {
	TotalHappiness int            `json:"totalHappiness"`
	ScorePerPlayer int            `json:"scorePerPlayer"`
	Scores         map[string]int `json:"scores"`
	Winner         *string        `json:"winner"`
}

// GameResult response type
type GameResult struct {
	Game    Game     `json:"game"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

// Board response type
type Board struct {
	GameID         string         `json:"gameId"`
	Size           int            `json:"size"`
	Cells          [][]string     `json:"cells"`
	Happiness      map[string]int `json:"happiness"`
	TotalHappiness int            `json:"totalHappiness"`
	HappyItems     []string       `json:"happyItems"`
	Message        string         `json:"message,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	activeStr := "no"
	if p.IsActive {
		activeStr = "yes"
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(o.w, "Score: %d\n", p.Score)
	fmt.Fprintf(o.w, "Active: %s\n", activeStr)
}

func (o *Output) printPlayers(players []Player) {
	if len(players) == 0 {
		fmt.Fprintln(o.w, "No players")
		return
	}
	for _, p := range players {
		fmt.Fprintf(o.w, "  - %s (%s) - %d points\n", p.Name, p.ID, p.Score)
	}
}

func (o *Output) printGame(g Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "Status: %s\n", g.Status)
	fmt.Fprintf(o.w, "Difficulty: %s\n", g.Difficulty)
	fmt.Fprintf(o.w, "Grid Size: %d\n", g.GridSize)
	fmt.Fprintf(o.w, "Turn: %d/%d\n", g.TurnCount, g.MaxTurns)
	if g.CurrentTurn != nil {
		fmt.Fprintf(o.w, "Current Turn: %s\n", *g.CurrentTurn)
	}

	fmt.Fprintf(o.w, "Players (%d):\n", len(g.Players))
	for _, p := range g.Players {
		creatorStr := ""
		if p.ID == g.CreatedBy {
			creatorStr = " [creator]"
		}
		fmt.Fprintf(o.w, "  - %s (%s)%s\n", p.Name, p.ID, creatorStr)
	}

	if len(g.Items) > 0 {
		items := make([]string, len(g.Items))
		for i, it := range g.Items {
			items[i] = fmt.Sprintf("%s@(%d,%d)", it.ItemID, it.X, it.Y)
		}
		fmt.Fprintf(o.w, "Items: %s\n", strings.Join(items, ", "))
	}
}

func (o *Output) printGames(games []Game) {
	if len(games) == 0 {
		fmt.Fprintln(o.w, "No games")
		return
	}
	for _, g := range games {
		fmt.Fprintf(o.w, "  - %s [%s] %s %dx%d, %d players\n",
			g.ID, g.Status, g.Difficulty, g.GridSize, g.GridSize, len(g.Players))
	}
}

func (o *Output) printGameResult(r GameResult) {
	o.printGame(r.Game)
	if r.Outcome == nil {
		return
	}

	fmt.Fprintln(o.w, "\nGame complete!")
	fmt.Fprintf(o.w, "Total Happiness: %d\n", r.Outcome.TotalHappiness)
	fmt.Fprintf(o.w, "Awarded Each: %d\n", r.Outcome.ScorePerPlayer)

	if len(r.Outcome.Scores) > 0 {
		ids := make([]string, 0, len(r.Outcome.Scores))
		for id := range r.Outcome.Scores {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Fprintln(o.w, "Scores:")
		for _, id := range ids {
			fmt.Fprintf(o.w, "  %s: %d points\n", id, r.Outcome.Scores[id])
		}
	}

	if r.Outcome.Winner != nil {
		fmt.Fprintf(o.w, "Winner: %s\n", *r.Outcome.Winner)
	} else {
		fmt.Fprintln(o.w, "No winner")
	}
}

func (o *Output) printBoard(b Board) {
	if b.Size == 0 || len(b.Cells) == 0 {
		return
	}

	// Cells are short item ids; pad to the widest one
	width := 1
	for _, row := range b.Cells {
		for _, cell := range row {
			width = max(width, len(cell))
		}
	}
	cellFmt := fmt.Sprintf(" %%-%ds ", width)

	// Column headers
	fmt.Fprint(o.w, "    ")
	for x := 0; x < b.Size; x++ {
		fmt.Fprintf(o.w, cellFmt, strconv.Itoa(x))
	}
	fmt.Fprintln(o.w)

	border := "   +" + strings.Repeat("-", b.Size*(width+2)) + "+"
	fmt.Fprintln(o.w, border)

	for y := 0; y < b.Size; y++ {
		fmt.Fprintf(o.w, "%2d |", y)
		for x := 0; x < b.Size; x++ {
			cell := b.Cells[y][x]
			if cell == "" {
				cell = "."
			}
			fmt.Fprintf(o.w, cellFmt, cell)
		}
		fmt.Fprintln(o.w, "|")
	}

	fmt.Fprintln(o.w, border)

	fmt.Fprintf(o.w, "Total Happiness: %d\n", b.TotalHappiness)
	if len(b.HappyItems) > 0 {
		fmt.Fprintf(o.w, "Happy: %s\n", strings.Join(b.HappyItems, ", "))
	}
	if b.Message != "" {
		fmt.Fprintln(o.w, b.Message)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
