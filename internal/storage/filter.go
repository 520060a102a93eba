package storage

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mcoot/happygarden/internal/model"
)

// GameFilter selects games from a full listing
type GameFilter func(*model.Game) bool

// All matches every game
func All() GameFilter {
	return func(*model.Game) bool { return true }
}

// ByCreator matches games created by the player
func ByCreator(creatorID model.PlayerID) GameFilter {
	return func(g *model.Game) bool { return g.CreatedBy() == creatorID }
}

// ByStatus matches games in the given status
func ByStatus(status model.GameStatus) GameFilter {
	return func(g *model.Game) bool { return g.Status() == status }
}

// ActiveForPlayer matches waiting or active games the player belongs to
func ActiveForPlayer(playerID model.PlayerID) GameFilter {
	return func(g *model.Game) bool {
		status := g.Status()
		return (status == model.GameStatusWaiting || status == model.GameStatusActive) &&
			g.HasPlayer(playerID)
	}
}

// Available matches waiting games with a free seat
func Available() GameFilter {
	return func(g *model.Game) bool {
		return g.Status() == model.GameStatusWaiting && g.PlayerCount() < model.MaxPlayers
	}
}

// FilterGames returns the matching games in repository order
func FilterGames(games []*model.Game, match GameFilter) []*model.Game {
	result := make([]*model.Game, 0, len(games))
	for _, g := range games {
		if match(g) {
			result = append(result, g)
		}
	}
	SortGames(result)
	return result
}

// SortGames orders games by creation time, then id
func SortGames(games []*model.Game) {
	slices.SortFunc(games, func(a, b *model.Game) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})
}

// SortPlayers orders players by id
func SortPlayers(players []*model.Player) {
	slices.SortFunc(players, func(a, b *model.Player) int {
		return cmp.Compare(a.ID(), b.ID())
	})
}

// NameKey normalizes a player name for uniqueness lookups.
// Names are stored trimmed, so lookups trim too.
func NameKey(name string) string {
	return strings.TrimSpace(name)
}
