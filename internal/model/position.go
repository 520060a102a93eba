package model

import "encoding/json"

// MaxCoordinate is the largest coordinate a Position accepts
const MaxCoordinate = 100

// Position identifies a cell on the grid. The zero value is (0, 0).
type Position struct {
	x int
	y int
}

// NewPosition validates and creates a Position
func NewPosition(x, y int) (Position, error) {
	if x < 0 || y < 0 || x > MaxCoordinate || y > MaxCoordinate {
		return Position{}, ErrInvalidCoordinate
	}
	return Position{x: x, y: y}, nil
}

// X returns the column
func (p Position) X() int { return p.x }

// Y returns the row
func (p Position) Y() int { return p.y }

// Equals returns true if both coordinates match
func (p Position) Equals(other Position) bool {
	return p == other
}

// IsAdjacent returns true if other is one step away horizontally or vertically
func (p Position) IsAdjacent(other Position) bool {
	return p.DistanceTo(other) == 1
}

// DistanceTo returns the Manhattan distance to other
func (p Position) DistanceTo(other Position) int {
	return abs(p.x-other.x) + abs(p.y-other.y)
}

// IsWithinBounds returns true if 0 <= x < maxX and 0 <= y < maxY
func (p Position) IsWithinBounds(maxX, maxY int) bool {
	return p.x >= 0 && p.x < maxX && p.y >= 0 && p.y < maxY
}

type positionJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MarshalJSON encodes the position as {"x": .., "y": ..}
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(positionJSON{X: p.x, Y: p.y})
}

// UnmarshalJSON decodes and validates a position
func (p *Position) UnmarshalJSON(data []byte) error {
	var raw positionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pos, err := NewPosition(raw.X, raw.Y)
	if err != nil {
		return err
	}
	*p = pos
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
