// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Conversation represents a private two-party message thread, optionally
// scoped to a product. At most one conversation exists per unordered user
// pair and product context; repeated contact reuses it.
type Conversation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	User1ID      uint      `gorm:"not null;index" json:"user1_id"`
	User2ID      uint      `gorm:"not null;index" json:"user2_id"`
	ProductID    *uint     `gorm:"index" json:"product_id,omitempty"`
	ProductTitle string    `json:"product_title,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasParticipant reports whether the user takes part in the conversation.
func (c *Conversation) HasParticipant(userID uint) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherParticipant returns the peer of the given user.
func (c *Conversation) OtherParticipant(userID uint) uint {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// Message represents a chat message. Messages are append-only; the read flag
// flips when the recipient marks the conversation read.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint      `gorm:"not null;index" json:"sender_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	IsRead         bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationPeer identifies the other participant in a conversation listing.
type ConversationPeer struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// MessagePreview is the latest message shown in a conversation listing.
type MessagePreview struct {
	Content   string    `json:"content"`
	SenderID  uint      `json:"sender_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationSummary is a conversation enriched with the peer, the latest
// message and the unread count, used for the inbox listing.
type ConversationSummary struct {
	ID            uint             `json:"id"`
	ProductTitle  string           `json:"product_title,omitempty"`
	OtherUser     ConversationPeer `json:"other_user"`
	LatestMessage *MessagePreview  `json:"latest_message,omitempty"`
	UnreadCount   int              `json:"unread_count"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
