package models

import (
	"time"
)

// Bid is an informational offer recorded against a product. Bids are
// append-only and do not participate in the sale state machine; a sale only
// happens through the purchase-request workflow.
type Bid struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	Amount    int    `gorm:"not null" json:"amount"`
	Message   string `gorm:"type:text" json:"message,omitempty"`
	// Username is not persisted; joined from the bidder at query time
	Username  string    `gorm:"->" json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
