package models

import (
	"time"
)

// Notification types. Each service appends to the same per-user feed.
const (
	NotificationPurchaseRequest  = "purchase_request"
	NotificationPurchaseAccepted = "purchase_accepted"
	NotificationPurchaseRejected = "purchase_rejected"
	NotificationItemSold         = "item_sold"
	NotificationComment          = "comment"
	NotificationCommentReply     = "comment_reply"
	NotificationPrivateMessage   = "private_message"
)

// Purchase-request notification statuses.
const (
	NotificationStatusPending   = "pending"
	NotificationStatusAccepted  = "accepted"
	NotificationStatusRejected  = "rejected"
	NotificationStatusCompleted = "completed"
)

// Notification is an append-only per-user event record. Records are never
// deleted; the feed doubles as an audit trail of the purchase workflow.
// Type-specific fields are nullable/empty for other types.
type Notification struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	UserID          uint   `gorm:"not null;index" json:"user_id"`
	Type            string `gorm:"not null;index" json:"type"`
	ProductID       *uint  `gorm:"index" json:"product_id,omitempty"`
	ProductTitle    string `json:"product_title,omitempty"`
	CommentID       *uint  `json:"comment_id,omitempty"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
	ConversationID  *uint  `gorm:"index" json:"conversation_id,omitempty"`
	BuyerID         *uint  `gorm:"index" json:"buyer_id,omitempty"`
	BuyerName       string `json:"buyer_name,omitempty"`
	BuyerEmail      string `json:"buyer_email,omitempty"`
	SellerID        *uint  `json:"seller_id,omitempty"`
	SellerName      string `json:"seller_name,omitempty"`
	SellerEmail     string `json:"seller_email,omitempty"`
	SenderID        *uint  `json:"sender_id,omitempty"`
	SenderName      string `json:"sender_name,omitempty"`
	Content         string `gorm:"type:text;not null" json:"content"`
	// Message carries the buyer's free-text note on purchase requests.
	Message string `gorm:"type:text" json:"message,omitempty"`
	// Status tracks the purchase_request lifecycle (pending/accepted/rejected).
	Status string `gorm:"index" json:"status,omitempty"`
	IsRead bool   `gorm:"not null;default:false" json:"is_read"`
	// IsSentRequest marks a pending purchase request the user sent, merged
	// into their feed alongside received notifications. Not persisted.
	IsSentRequest bool      `gorm:"-" json:"is_sent_request,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
