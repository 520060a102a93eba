package model

import (
	"strings"
	"unicode/utf8"
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// MaxPlayerNameLength is the longest name a player may carry
const MaxPlayerNameLength = 50

// Player is a game participant. Fields are only changed through methods
// so that the score can never decrease and names stay valid.
type Player struct {
	id       PlayerID
	name     string
	score    int
	isActive bool
}

// PlayerSnapshot is the serialized form of a Player
type PlayerSnapshot struct {
	ID       PlayerID `json:"id"`
	Name     string   `json:"name"`
	Score    int      `json:"score"`
	IsActive bool     `json:"isActive"`
}

// NewPlayer creates an active player with a zero score
func NewPlayer(id PlayerID, name string) (*Player, error) {
	return RestorePlayer(PlayerSnapshot{ID: id, Name: name, IsActive: true})
}

// RestorePlayer rebuilds a player from storage, enforcing the same rules as NewPlayer
func RestorePlayer(s PlayerSnapshot) (*Player, error) {
	if strings.TrimSpace(string(s.ID)) == "" {
		return nil, ErrEmptyPlayerID
	}
	// A new name is measured as given; only renames are measured after trimming
	if utf8.RuneCountInString(s.Name) > MaxPlayerNameLength {
		return nil, ErrPlayerNameTooLong
	}
	name, err := validatePlayerName(s.Name)
	if err != nil {
		return nil, err
	}
	if s.Score < 0 {
		return nil, ErrNegativeScore
	}
	return &Player{
		id:       s.ID,
		name:     name,
		score:    s.Score,
		isActive: s.IsActive,
	}, nil
}

func validatePlayerName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyPlayerName
	}
	if utf8.RuneCountInString(trimmed) > MaxPlayerNameLength {
		return "", ErrPlayerNameTooLong
	}
	return trimmed, nil
}

func (p *Player) ID() PlayerID   { return p.id }
func (p *Player) Name() string   { return p.name }
func (p *Player) Score() int     { return p.score }
func (p *Player) IsActive() bool { return p.isActive }

// UpdateScore adds points to the player's score
func (p *Player) UpdateScore(points int) error {
	if points < 0 {
		return ErrNegativePoints
	}
	p.score += points
	return nil
}

// ChangeName replaces the player's name with the trimmed newName
func (p *Player) ChangeName(newName string) error {
	name, err := validatePlayerName(newName)
	if err != nil {
		return err
	}
	p.name = name
	return nil
}

func (p *Player) Activate()   { p.isActive = true }
func (p *Player) Deactivate() { p.isActive = false }

// Equals compares players by identity only
func (p *Player) Equals(other *Player) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.id == other.id
}

// Snapshot returns the serializable state of the player
func (p *Player) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:       p.id,
		Name:     p.name,
		Score:    p.score,
		IsActive: p.isActive,
	}
}
