package service

import (
	"context"
	"fmt"

	"bazaar/internal/middleware"
	"bazaar/internal/models"
	"bazaar/internal/repository"
)

// MessagingService manages two-party conversations and their messages.
type MessagingService struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	notifRepo   repository.NotificationRepository
	notify      NotifyFunc
}

type StartConversationInput struct {
	UserID         uint
	OtherUserID    uint
	ProductID      *uint
	InitialMessage string
}

type SendMessageInput struct {
	UserID         uint
	ConversationID uint
	Content        string
}

func NewMessagingService(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	notifRepo repository.NotificationRepository,
	notify NotifyFunc,
) *MessagingService {
	return &MessagingService{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		notifRepo:   notifRepo,
		notify:      notify,
	}
}

// StartConversation returns the existing conversation for the pair and
// product scope, creating it on first contact.
func (s *MessagingService) StartConversation(ctx context.Context, in StartConversationInput) (*models.Conversation, error) {
	if in.UserID == in.OtherUserID {
		return nil, models.NewValidationError("You cannot start a conversation with yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, in.OtherUserID); err != nil {
		return nil, err
	}

	var productTitle string
	if in.ProductID != nil {
		product, err := s.productRepo.GetByID(ctx, *in.ProductID)
		if err != nil {
			return nil, err
		}
		productTitle = product.Title
	}

	conv, err := s.chatRepo.FindConversation(ctx, in.UserID, in.OtherUserID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		conv = &models.Conversation{
			User1ID:      in.UserID,
			User2ID:      in.OtherUserID,
			ProductID:    in.ProductID,
			ProductTitle: productTitle,
		}
		if err := s.chatRepo.CreateConversation(ctx, conv); err != nil {
			return nil, err
		}
	}

	if in.InitialMessage != "" {
		if _, err := s.SendMessage(ctx, SendMessageInput{
			UserID:         in.UserID,
			ConversationID: conv.ID,
			Content:        in.InitialMessage,
		}); err != nil {
			return nil, err
		}
	}
	return conv, nil
}

const (
	maxMessageLen     = 5000
	messagePreviewLen = 50
)

// SendMessage appends a message and notifies the other participant with a
// preview of the content.
func (s *MessagingService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if len(in.Content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 5000 characters)")
	}

	conv, err := s.chatRepo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(in.UserID) {
		return nil, models.NewForbiddenError("You are not part of this conversation")
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       in.UserID,
		Content:        in.Content,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	cid := conv.ID
	sid := sender.ID
	n := &models.Notification{
		UserID:         conv.OtherParticipant(in.UserID),
		Type:           models.NotificationPrivateMessage,
		ConversationID: &cid,
		ProductID:      conv.ProductID,
		ProductTitle:   conv.ProductTitle,
		SenderID:       &sid,
		SenderName:     sender.Username,
		Content:        fmt.Sprintf("%s: %s", sender.Username, previewContent(in.Content)),
	}
	if err := s.notifRepo.Create(ctx, n); err == nil && s.notify != nil {
		s.notify(ctx, n)
	}

	return msg, nil
}

// previewContent truncates message text for the notification feed.
func previewContent(content string) string {
	runes := []rune(content)
	if len(runes) <= messagePreviewLen {
		return content
	}
	return string(runes[:messagePreviewLen]) + "..."
}

// ListMessages returns the conversation's messages oldest first and marks
// the caller's received messages as read.
func (s *MessagingService) ListMessages(ctx context.Context, userID, conversationID uint, limit, offset int) ([]*models.Message, error) {
	conv, err := s.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, models.NewForbiddenError("You are not part of this conversation")
	}

	messages, err := s.chatRepo.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.chatRepo.MarkMessagesRead(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkConversationRead flips read on all messages not sent by the caller and
// clears the caller's private message notifications for the conversation.
func (s *MessagingService) MarkConversationRead(ctx context.Context, userID, conversationID uint) error {
	conv, err := s.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return models.NewForbiddenError("You are not part of this conversation")
	}

	if err := s.chatRepo.MarkMessagesRead(ctx, conversationID, userID); err != nil {
		return err
	}
	return s.notifRepo.MarkConversationRead(ctx, userID, conversationID)
}

// ListConversations builds the inbox view: peer, latest message and unread
// count per conversation, most recently active first.
func (s *MessagingService) ListConversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	conversations, err := s.chatRepo.ListUserConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		peer, err := s.userRepo.GetByID(ctx, conv.OtherParticipant(userID))
		if err != nil {
			// A conversation whose peer is gone must not take the inbox down
			middleware.Logger.WarnContext(ctx, "skipping conversation with unresolvable peer",
				"conversation_id", conv.ID, "error", err.Error())
			continue
		}

		summary := models.ConversationSummary{
			ID:           conv.ID,
			ProductTitle: conv.ProductTitle,
			OtherUser: models.ConversationPeer{
				ID:       peer.ID,
				Username: peer.Username,
				Avatar:   peer.AvatarURL,
			},
			UpdatedAt: conv.CreatedAt,
		}

		latest, err := s.chatRepo.LatestMessage(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			summary.LatestMessage = &models.MessagePreview{
				Content:   latest.Content,
				SenderID:  latest.SenderID,
				CreatedAt: latest.CreatedAt,
			}
			summary.UpdatedAt = latest.CreatedAt
		}

		unread, err := s.chatRepo.CountUnreadMessages(ctx, conv.ID, userID)
		if err != nil {
			return nil, err
		}
		summary.UnreadCount = int(unread)

		summaries = append(summaries, summary)
	}
	return summaries, nil
}
