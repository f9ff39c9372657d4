package server

import (
	"bazaar/internal/models"
	"bazaar/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateConversation handles POST /api/conversations. Returns the existing
// conversation for the same pair and product scope when one exists.
func (s *Server) CreateConversation(c *fiber.Ctx) error {
	var req struct {
		OtherUserID    uint   `json:"other_user_id"`
		ProductID      *uint  `json:"product_id"`
		InitialMessage string `json:"initial_message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.OtherUserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("other_user_id is required"))
	}

	conv, err := s.messaging.StartConversation(c.Context(), service.StartConversationInput{
		UserID:         currentUserID(c),
		OtherUserID:    req.OtherUserID,
		ProductID:      req.ProductID,
		InitialMessage: req.InitialMessage,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(conv)
}

// GetConversations handles GET /api/conversations
func (s *Server) GetConversations(c *fiber.Ctx) error {
	summaries, err := s.messaging.ListConversations(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summaries)
}

// GetMessages handles GET /api/conversations/:id/messages. Fetching marks
// the caller's received messages as read.
func (s *Server) GetMessages(c *fiber.Ctx) error {
	conversationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	messages, err := s.messaging.ListMessages(c.Context(), currentUserID(c), conversationID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(messages)
}

// MarkConversationRead handles PUT /api/conversations/:id/read
func (s *Server) MarkConversationRead(c *fiber.Ctx) error {
	conversationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.messaging.MarkConversationRead(c.Context(), currentUserID(c), conversationID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// SendMessage handles POST /api/conversations/:id/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	conversationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messaging.SendMessage(c.Context(), service.SendMessageInput{
		UserID:         currentUserID(c),
		ConversationID: conversationID,
		Content:        req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}
