package models

import "time"

// Purchase records a wallet spend on a goodies item. A nil DeliveredAt
// marks the purchase as undelivered, the subset surfaced to validators.
type Purchase struct {
	ID          int64      `json:"id"`
	GoodiesID   int64      `json:"goodiesId"`
	UserID      int64      `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
}

func (p *Purchase) Delivered() bool {
	return p.DeliveredAt != nil
}
