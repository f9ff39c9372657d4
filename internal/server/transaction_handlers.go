package server

import (
	"bazaar/internal/models"
	"bazaar/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePurchaseRequest handles POST /api/products/:id/purchase-request
func (s *Server) CreatePurchaseRequest(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	notif, err := s.transactions.RequestPurchase(c.Context(), currentUserID(c), productID, req.Message)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(notif)
}

// AcceptPurchase handles POST /api/notifications/:id/accept. Accepting one
// request marks the product sold and rejects every other pending request.
func (s *Server) AcceptPurchase(c *fiber.Ctx) error {
	notificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	product, err := s.transactions.AcceptPurchase(c.Context(), currentUserID(c), notificationID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Purchase request accepted",
		"product": product,
	})
}

// RejectPurchase handles POST /api/notifications/:id/reject
func (s *Server) RejectPurchase(c *fiber.Ctx) error {
	notificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	product, err := s.transactions.RejectPurchase(c.Context(), currentUserID(c), notificationID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Purchase request rejected",
		"product": product,
	})
}

// PlaceBid handles POST /api/products/:id/bids
func (s *Server) PlaceBid(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Amount  int    `json:"amount"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	bid, err := s.transactions.PlaceBid(c.Context(), service.PlaceBidInput{
		UserID:    currentUserID(c),
		ProductID: productID,
		Amount:    req.Amount,
		Message:   req.Message,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(bid)
}

// GetBids handles GET /api/products/:id/bids
func (s *Server) GetBids(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	bids, err := s.transactions.ListBids(c.Context(), productID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(bids)
}

// GetNotifications handles GET /api/notifications. The feed merges received
// notifications with the caller's own pending purchase requests, tagged
// is_sent_request.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	feed, err := s.transactions.Feed(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feed)
}

// MarkNotificationRead handles PUT /api/notifications/:id/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.transactions.MarkRead(c.Context(), currentUserID(c), notificationID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// MarkAllNotificationsRead handles PUT /api/notifications/read-all
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	result, err := s.transactions.MarkAllRead(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	count, err := s.transactions.CountUnread(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}
