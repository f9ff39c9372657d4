package models

import (
	"time"
)

// Product lifecycle statuses. A product moves available -> processing while a
// purchase request is pending, then to sold on accept or back to available on
// reject.
const (
	ProductStatusAvailable  = "available"
	ProductStatusProcessing = "processing"
	ProductStatusSold       = "sold"
)

// Product represents a listing offered by a user.
type Product struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Title             string     `gorm:"not null" json:"title"`
	Description       string     `gorm:"type:text;not null" json:"description"`
	Category          string     `gorm:"not null;index" json:"category"`
	ConditionDesc     string     `gorm:"not null" json:"condition_desc"`
	Price             int        `gorm:"not null;default:0" json:"price"`
	Quantity          int        `gorm:"not null;default:1" json:"quantity"`
	ImageURL          string     `json:"image_url"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	User              User       `gorm:"foreignKey:UserID" json:"-"`
	Status            string     `gorm:"not null;default:'available'" json:"status"`
	IsSold            bool       `gorm:"not null;default:false" json:"is_sold"`
	ProcessingBuyerID *uint      `json:"processing_buyer_id,omitempty"`
	SoldTo            *uint      `json:"sold_to,omitempty"`
	SoldAt            *time.Time `json:"sold_at,omitempty"`
	// Username is not persisted; joined from the owning user at query time
	Username string `gorm:"->" json:"username"`
	// LikesCount is not persisted; computed at query time
	LikesCount int       `gorm:"->" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Sellable reports whether the product can still receive purchase requests.
func (p *Product) Sellable() bool {
	return !p.IsSold && p.Status != ProductStatusSold
}
