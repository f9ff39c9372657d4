package repository

import (
	"context"
	"errors"

	"bazaar/internal/models"

	"gorm.io/gorm"
)

// ChatRepository defines persistence operations for conversations and messages.
type ChatRepository interface {
	FindConversation(ctx context.Context, userA, userB uint, productID *uint) (*models.Conversation, error)
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	GetConversation(ctx context.Context, id uint) (*models.Conversation, error)
	ListUserConversations(ctx context.Context, userID uint) ([]*models.Conversation, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, conversationID uint, limit, offset int) ([]*models.Message, error)
	LatestMessage(ctx context.Context, conversationID uint) (*models.Message, error)
	CountUnreadMessages(ctx context.Context, conversationID, userID uint) (int64, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID uint) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// FindConversation looks up the conversation between two users regardless of
// who initiated it, scoped to a product when productID is non-nil. Returns
// nil when no conversation exists yet.
func (r *chatRepository) FindConversation(ctx context.Context, userA, userB uint, productID *uint) (*models.Conversation, error) {
	var conv models.Conversation
	q := r.db.WithContext(ctx).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
			userA, userB, userB, userA)
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	} else {
		q = q.Where("product_id IS NULL")
	}
	if err := q.First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &conv, nil
}

func (r *chatRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) GetConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).First(&conv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Conversation", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &conv, nil
}

// ListUserConversations orders by most recent activity, falling back to the
// conversation's creation time when it has no messages yet.
func (r *chatRepository) ListUserConversations(ctx context.Context, userID uint) ([]*models.Conversation, error) {
	var conversations []*models.Conversation
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("COALESCE((SELECT MAX(created_at) FROM messages WHERE messages.conversation_id = conversations.id), conversations.created_at) DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return conversations, nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, conversationID uint, limit, offset int) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *chatRepository) LatestMessage(ctx context.Context, conversationID uint) (*models.Message, error) {
	var msg models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &msg, nil
}

func (r *chatRepository) CountUnreadMessages(ctx context.Context, conversationID, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, userID, false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// MarkMessagesRead flips the read flag on every message the reader received
// in the conversation.
func (r *chatRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
