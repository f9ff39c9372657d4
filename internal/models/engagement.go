package models

import (
	"time"
)

// Like represents a user's like on a product.
// The combination of UserID and ProductID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_like_user_product" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Favorite represents a user's saved listing. Users may not favorite their
// own products, and the pair must be unique.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_fav_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_fav_user_product" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CartItem represents a save-for-later entry. The cart is a personal list,
// not a checkout aggregate; quantity stays at 1.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteProduct is a product joined with the time it was favorited.
type FavoriteProduct struct {
	Product
	FavoritedAt time.Time `json:"favorited_at"`
}

// CartProduct is a product joined with its cart entry metadata.
type CartProduct struct {
	Product
	CartID  uint      `json:"cart_id"`
	AddedAt time.Time `json:"added_at"`
}
