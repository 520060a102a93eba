package request

// CreatePlayerRequest is the request body for creating a player
type CreatePlayerRequest struct {
	Name string `json:"name"`
}

// UpdatePlayerRequest is the request body for renaming a player
type UpdatePlayerRequest struct {
	Name string `json:"name"`
}

// CreateGameRequest is the request body for creating a game.
// Difficulty and GridSize fall back to easy and 5 when omitted.
type CreateGameRequest struct {
	CreatorID  string `json:"creatorId"`
	Difficulty string `json:"difficulty,omitempty"`
	GridSize   int    `json:"gridSize,omitempty"`
}

// PlayerActionRequest is the request body for joining or leaving a game
type PlayerActionRequest struct {
	PlayerID string `json:"playerId"`
}

// PlaceItemRequest is the request body for placing an item
type PlaceItemRequest struct {
	PlayerID string `json:"playerId"`
	ItemID   string `json:"itemId"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}
