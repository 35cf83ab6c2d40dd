package types

import "github.com/arjunkx/live-auction-backend/internal/engine"

type ClientMessage struct {
	Type      string `json:"type"`
	PlayerID  string `json:"player_id,omitempty"`
	TeamID    string `json:"team_id,omitempty"`
	BasePrice int64  `json:"base_price,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
}

type ServerMessage struct {
	Type    string        `json:"type"` // "AuctionState" | "DataUpdate" | "Error"
	Version int           `json:"version,omitempty"`
	Commit  string        `json:"commit,omitempty"`
	State   *engine.State `json:"state,omitempty"`
	Error   string        `json:"error,omitempty"`
}
