package server

import (
	"bazaar/internal/models"
	"bazaar/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/products/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.engagement.ListComments(c.Context(), productID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/products/:id/comments. A parent_id makes
// the comment a reply; replies notify the parent author, top-level comments
// notify the product owner.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.engagement.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:    currentUserID(c),
		ProductID: productID,
		Content:   req.Content,
		ParentID:  req.ParentID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}
