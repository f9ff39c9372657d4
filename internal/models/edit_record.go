package models

import (
	"encoding/json"
	"time"
)

// EditRecord is an append-only audit entry capturing a product update. One
// record is written per update operation; OldData and NewData hold JSON
// snapshots of the fields that were actually provided in the update.
type EditRecord struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	UserID    uint            `gorm:"not null" json:"user_id"`
	OldData   json.RawMessage `gorm:"type:json" json:"old_data"`
	NewData   json.RawMessage `gorm:"type:json" json:"new_data"`
	CreatedAt time.Time       `json:"edited_at"`
}
