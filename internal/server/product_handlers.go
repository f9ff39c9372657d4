package server

import (
	"strconv"
	"strings"

	"bazaar/internal/models"
	"bazaar/internal/repository"
	"bazaar/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateProduct handles POST /api/products. Accepts JSON or multipart form
// data; the multipart form may carry an "image" file which is stored under
// the upload directory.
func (s *Server) CreateProduct(c *fiber.Ctx) error {
	userID := currentUserID(c)

	in := service.CreateProductInput{UserID: userID}

	if isMultipartForm(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid form data"))
		}
		in.Title = formValue(form.Value, "title")
		in.Description = formValue(form.Value, "description")
		in.Category = formValue(form.Value, "category")
		in.ConditionDesc = formValue(form.Value, "condition")
		in.Price, _ = strconv.Atoi(formValue(form.Value, "price"))
		in.Quantity, _ = strconv.Atoi(formValue(form.Value, "quantity"))

		if files := form.File["image"]; len(files) > 0 {
			url, err := s.saveUpload(c, files[0], "products")
			if err != nil {
				return respondServiceError(c, err)
			}
			in.ImageURL = url
		}
	} else {
		var req struct {
			Title         string `json:"title"`
			Description   string `json:"description"`
			Category      string `json:"category"`
			ConditionDesc string `json:"condition"`
			Price         int    `json:"price"`
			Quantity      int    `json:"quantity"`
			ImageURL      string `json:"image_url"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		in.Title = req.Title
		in.Description = req.Description
		in.Category = req.Category
		in.ConditionDesc = req.ConditionDesc
		in.Price = req.Price
		in.Quantity = req.Quantity
		in.ImageURL = req.ImageURL
	}

	product, err := s.catalog.CreateProduct(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// GetProducts handles GET /api/products with optional category and search filters.
func (s *Server) GetProducts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	products, err := s.catalog.ListProducts(c.Context(), filter, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(products)
}

// GetProduct handles GET /api/products/:id
func (s *Server) GetProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	product, err := s.catalog.GetProduct(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(product)
}

// GetUserProducts handles GET /api/products/user/:userId
func (s *Server) GetUserProducts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	products, err := s.catalog.ListUserProducts(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(products)
}

// UpdateProduct handles PUT /api/products/:id. Only provided fields change;
// each update that changes something appends an edit record.
func (s *Server) UpdateProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	in := service.UpdateProductInput{
		UserID:    currentUserID(c),
		ProductID: id,
	}

	if isMultipartForm(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid form data"))
		}
		in.Title = optionalFormValue(form.Value, "title")
		in.Description = optionalFormValue(form.Value, "description")
		in.Category = optionalFormValue(form.Value, "category")
		in.ConditionDesc = optionalFormValue(form.Value, "condition")
		in.Price = optionalFormInt(form.Value, "price")
		in.Quantity = optionalFormInt(form.Value, "quantity")

		if files := form.File["image"]; len(files) > 0 {
			url, err := s.saveUpload(c, files[0], "products")
			if err != nil {
				return respondServiceError(c, err)
			}
			in.ImageURL = &url
		}
	} else {
		var req struct {
			Title         *string `json:"title"`
			Description   *string `json:"description"`
			Category      *string `json:"category"`
			ConditionDesc *string `json:"condition"`
			Price         *int    `json:"price"`
			Quantity      *int    `json:"quantity"`
			ImageURL      *string `json:"image_url"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		in.Title = req.Title
		in.Description = req.Description
		in.Category = req.Category
		in.ConditionDesc = req.ConditionDesc
		in.Price = req.Price
		in.Quantity = req.Quantity
		in.ImageURL = req.ImageURL
	}

	product, err := s.catalog.UpdateProduct(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct handles DELETE /api/products/:id
func (s *Server) DeleteProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.catalog.DeleteProduct(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GetEditHistory handles GET /api/products/:id/history (owner only)
func (s *Server) GetEditHistory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	records, err := s.catalog.GetEditHistory(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(records)
}

func isMultipartForm(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

func formValue(values map[string][]string, key string) string {
	if v, ok := values[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

// optionalFormValue distinguishes an absent field from an empty one.
func optionalFormValue(values map[string][]string, key string) *string {
	if v, ok := values[key]; ok && len(v) > 0 {
		return &v[0]
	}
	return nil
}

func optionalFormInt(values map[string][]string, key string) *int {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	n, err := strconv.Atoi(v[0])
	if err != nil {
		return nil
	}
	return &n
}
