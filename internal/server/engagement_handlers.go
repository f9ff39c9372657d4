package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/products/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagement.ToggleLike(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetFavorites handles GET /api/favorites
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	favorites, err := s.engagement.ListFavorites(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(favorites)
}

// AddFavorite handles POST /api/favorites/:productId
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "productId")
	if err != nil {
		return nil
	}

	if err := s.engagement.AddFavorite(c.Context(), currentUserID(c), productID); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Added to favorites"})
}

// RemoveFavorite handles DELETE /api/favorites/:productId
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "productId")
	if err != nil {
		return nil
	}

	if err := s.engagement.RemoveFavorite(c.Context(), currentUserID(c), productID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Removed from favorites"})
}

// GetCart handles GET /api/cart
func (s *Server) GetCart(c *fiber.Ctx) error {
	items, err := s.engagement.ListCart(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(items)
}

// AddToCart handles POST /api/cart/:productId
func (s *Server) AddToCart(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "productId")
	if err != nil {
		return nil
	}

	if err := s.engagement.AddToCart(c.Context(), currentUserID(c), productID); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Added to cart"})
}

// RemoveFromCart handles DELETE /api/cart/:productId
func (s *Server) RemoveFromCart(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "productId")
	if err != nil {
		return nil
	}

	if err := s.engagement.RemoveFromCart(c.Context(), currentUserID(c), productID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Removed from cart"})
}
