package rules

import (
	"fmt"
	"math"

	"github.com/mcoot/happygarden/internal/model"
)

// Happiness constants
const (
	MaxPositionalBonus = 50
	SameTypeBonus      = 10
	OtherTypeBonus     = 5
	CornerBonus        = 5
	EdgeBonus          = 3
)

var animals = map[model.ItemType]bool{
	"snail":   true,
	"ladybug": true,
	"lion":    true,
	"cat":     true,
	"fairy":   true,
}

// IsAnimal returns true for item types that can become happy
func IsAnimal(t model.ItemType) bool {
	return animals[t]
}

// CanMakeHappy returns true for item types that cheer up a neighbouring animal
func CanMakeHappy(t model.ItemType) bool {
	return animals[t] || t == "flower"
}

// Service holds the stateless game rules that span more than one entity
type Service struct{}

// New creates a new rules Service
func New() *Service {
	return &Service{}
}

// CalculateHappinessScore sums the happiness of every item in positions,
// evaluated on the game's grid
func (s *Service) CalculateHappinessScore(game *model.Game, positions map[model.ItemID]model.Position) int {
	total := 0
	for _, happiness := range s.ItemHappiness(game.GridSize(), positions) {
		total += happiness
	}
	return total
}

// ItemHappiness returns the happiness of each item, never below zero
func (s *Service) ItemHappiness(gridSize int, positions map[model.ItemID]model.Position) map[model.ItemID]int {
	result := make(map[model.ItemID]int, len(positions))
	for id, pos := range positions {
		happiness := positionalBonus(pos, gridSize) +
			neighborBonus(id, pos, positions) +
			environmentalBonus(pos, gridSize)
		result[id] = max(0, happiness)
	}
	return result
}

// positionalBonus rewards items close to the centre of the grid
func positionalBonus(pos model.Position, gridSize int) int {
	center := gridSize / 2
	maxDistance := 2 * center
	if maxDistance == 0 {
		return MaxPositionalBonus
	}
	distance := abs(pos.X()-center) + abs(pos.Y()-center)
	ratio := 1 - float64(distance)/float64(maxDistance)
	return int(math.Floor(ratio*MaxPositionalBonus + 0.5))
}

func neighborBonus(id model.ItemID, pos model.Position, positions map[model.ItemID]model.Position) int {
	bonus := 0
	itemType := id.Type()
	for otherID, otherPos := range positions {
		if otherID == id || !pos.IsAdjacent(otherPos) {
			continue
		}
		if otherID.Type() == itemType {
			bonus += SameTypeBonus
		} else {
			bonus += OtherTypeBonus
		}
	}
	return bonus
}

// environmentalBonus: a corner is also an edge, so corners get both bonuses
func environmentalBonus(pos model.Position, gridSize int) int {
	last := gridSize - 1
	onVerticalEdge := pos.X() == 0 || pos.X() == last
	onHorizontalEdge := pos.Y() == 0 || pos.Y() == last

	bonus := 0
	if onVerticalEdge && onHorizontalEdge {
		bonus += CornerBonus
	}
	if onVerticalEdge || onHorizontalEdge {
		bonus += EdgeBonus
	}
	return bonus
}

// CanPlayerMakeMove reports whether the player may place an item at pos now
func (s *Service) CanPlayerMakeMove(game *model.Game, playerID model.PlayerID, pos model.Position) bool {
	return s.CheckMove(game, playerID, pos) == nil
}

// CheckMove is CanPlayerMakeMove with the reason a move is refused.
// Unlike Game.PlaceItem it rejects any occupied cell, so items cannot be moved.
func (s *Service) CheckMove(game *model.Game, playerID model.PlayerID, pos model.Position) error {
	if game.Status() != model.GameStatusActive {
		return model.ErrGameNotActive
	}
	if turn, ok := game.CurrentTurn(); !ok || turn != playerID {
		return model.ErrNotPlayerTurn
	}
	if !game.HasPlayer(playerID) {
		return model.ErrNotInGame
	}
	if !pos.IsWithinBounds(game.GridSize(), game.GridSize()) {
		return model.ErrOutOfBounds
	}
	if _, occupied := game.ItemAt(pos); occupied {
		return model.ErrPositionOccupied
	}
	return nil
}

// DetermineWinner returns the player with the strictly highest score.
// It returns false if scores is empty or the top score is shared.
func (s *Service) DetermineWinner(scores map[model.PlayerID]int) (model.PlayerID, bool) {
	var winner model.PlayerID
	best := math.MinInt
	tied := false

	for id, score := range scores {
		switch {
		case score > best:
			best = score
			winner = id
			tied = false
		case score == best:
			tied = true
		}
	}

	if len(scores) == 0 || tied {
		return "", false
	}
	return winner, true
}

// ShouldGameEnd returns true if an active game has hit its turn limit,
// filled its grid or lost all of its players
func (s *Service) ShouldGameEnd(game *model.Game) bool {
	if game.Status() != model.GameStatusActive {
		return false
	}
	return game.TurnCount() >= game.MaxTurns() ||
		game.IsFull() ||
		game.PlayerCount() == 0
}

// HappyItems returns the animals that have an animal or a flower next to them
func (s *Service) HappyItems(game *model.Game) map[model.ItemID]bool {
	positions := game.ItemPositions()
	happy := make(map[model.ItemID]bool)

	for id, pos := range positions {
		if !IsAnimal(id.Type()) {
			continue
		}
		for otherID, otherPos := range positions {
			if otherID != id && pos.IsAdjacent(otherPos) && CanMakeHappy(otherID.Type()) {
				happy[id] = true
				break
			}
		}
	}
	return happy
}

// HappinessMessage returns a short celebration line for the number of happy animals
func HappinessMessage(happyCount int) string {
	switch {
	case happyCount <= 0:
		return ""
	case happyCount == 1:
		return "An animal is happy to have friends nearby!"
	case happyCount <= 3:
		return fmt.Sprintf("%d animals are happy to be together!", happyCount)
	default:
		return fmt.Sprintf("All the animals are delighted! %d happy friends!", happyCount)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Interface for dependency injection
type ServiceInterface interface {
	CalculateHappinessScore(game *model.Game, positions map[model.ItemID]model.Position) int
	ItemHappiness(gridSize int, positions map[model.ItemID]model.Position) map[model.ItemID]int
	CanPlayerMakeMove(game *model.Game, playerID model.PlayerID, pos model.Position) bool
	CheckMove(game *model.Game, playerID model.PlayerID, pos model.Position) error
	DetermineWinner(scores map[model.PlayerID]int) (model.PlayerID, bool)
	ShouldGameEnd(game *model.Game) bool
	HappyItems(game *model.Game) map[model.ItemID]bool
}

var _ ServiceInterface = (*Service)(nil)
