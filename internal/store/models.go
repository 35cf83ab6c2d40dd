package store

import "time"

// Auction is one auction event. Code is the public join code viewers
// connect with; AdminCode gates the mutating CRUD endpoints.
type Auction struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Code      string `gorm:"uniqueIndex" json:"code"`
	Name      string `json:"name"`
	AdminCode string `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Team struct {
	ID        string `gorm:"primaryKey" json:"id"`
	AuctionID string `gorm:"index" json:"auction_id"`
	Name      string `json:"name"`
	Budget    int64  `json:"budget"`
	Spent     int64  `json:"spent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Player is an auctionable item. TeamID is set when sold; a nil TeamID
// with Sold false means still on the market.
type Player struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	AuctionID string  `gorm:"index" json:"auction_id"`
	Name      string  `json:"name"`
	BasePrice int64   `json:"base_price"`
	Sold      bool    `json:"sold"`
	SoldPrice int64   `json:"sold_price"`
	TeamID    *string `gorm:"index" json:"team_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
