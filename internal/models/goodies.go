package models

import "time"

// Goodies is a purchasable item owned by the user named in CreatorID. Only
// the creator may update or delete it.
type Goodies struct {
	ID          int64     `json:"id"`
	CreatorID   int64     `json:"creatorId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int       `json:"price"`
	BuyLimit    int       `json:"buyLimit"`
	CreatedAt   time.Time `json:"createdAt"`
}
