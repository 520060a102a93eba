package model

// Board is a rendered view of a game's grid
type Board struct {
	GameID GameID
	Size   int        // Grid dimension (e.g., 5 for 5x5)
	Cells  [][]ItemID // Row-major: Cells[y][x], empty string means empty
}

// NewBoard creates an empty board of the given size
func NewBoard(gameID GameID, size int) *Board {
	cells := make([][]ItemID, size)
	for i := range cells {
		cells[i] = make([]ItemID, size)
	}
	return &Board{
		GameID: gameID,
		Size:   size,
		Cells:  cells,
	}
}

// Get returns the item at the given position, or "" if empty
func (b *Board) Get(pos Position) ItemID {
	if !b.IsValidPosition(pos) {
		return ""
	}
	return b.Cells[pos.y][pos.x]
}

// Set places an item at the given position
func (b *Board) Set(pos Position, item ItemID) {
	if b.IsValidPosition(pos) {
		b.Cells[pos.y][pos.x] = item
	}
}

// IsEmpty returns true if the cell at the given position is empty
func (b *Board) IsEmpty(pos Position) bool {
	return b.Get(pos) == ""
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.IsWithinBounds(b.Size, b.Size)
}

// EmptyCount returns the number of empty cells
func (b *Board) EmptyCount() int {
	count := 0
	for _, row := range b.Cells {
		for _, cell := range row {
			if cell == "" {
				count++
			}
		}
	}
	return count
}
