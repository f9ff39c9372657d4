// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Comment represents a comment on a product listing. A non-nil ParentID makes
// the comment a reply to another comment on the same product.
type Comment struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	UserID    uint    `gorm:"not null" json:"user_id"`
	User      User    `gorm:"foreignKey:UserID" json:"-"`
	Content   string  `gorm:"type:text;not null" json:"content"`
	ParentID  *uint   `gorm:"index" json:"parent_id,omitempty"`
	Parent    *Comment `gorm:"foreignKey:ParentID" json:"-"`
	// Username is not persisted; joined from the author at query time
	Username  string    `gorm:"->" json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
