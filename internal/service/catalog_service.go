// Package service implements the application's business logic layer.
package service

import (
	"context"
	"encoding/json"

	"bazaar/internal/models"
	"bazaar/internal/repository"
)

// CatalogService manages product listings and their edit history.
type CatalogService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

type CreateProductInput struct {
	UserID        uint
	Title         string
	Description   string
	Category      string
	ConditionDesc string
	Price         int
	Quantity      int
	ImageURL      string
}

// UpdateProductInput carries a partial update; nil fields are left unchanged.
type UpdateProductInput struct {
	UserID        uint
	ProductID     uint
	Title         *string
	Description   *string
	Category      *string
	ConditionDesc *string
	Price         *int
	Quantity      *int
	ImageURL      *string
}

func NewCatalogService(productRepo repository.ProductRepository, userRepo repository.UserRepository) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 10000
)

func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if in.Description == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 10000 characters)")
	}
	if in.Category == "" {
		return nil, models.NewValidationError("Category is required")
	}
	if in.ConditionDesc == "" {
		return nil, models.NewValidationError("Condition is required")
	}
	if in.Price < 0 {
		return nil, models.NewValidationError("Price cannot be negative")
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}

	product := &models.Product{
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		ConditionDesc: in.ConditionDesc,
		Price:         in.Price,
		Quantity:      in.Quantity,
		ImageURL:      in.ImageURL,
		UserID:        in.UserID,
		Status:        models.ProductStatusAvailable,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.List(ctx, filter, limit, offset)
}

func (s *CatalogService) ListUserProducts(ctx context.Context, userID uint, limit, offset int) ([]*models.Product, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.productRepo.ListByUser(ctx, userID, limit, offset)
}

// UpdateProduct applies a partial update and records one edit history entry
// holding old and new values of the fields that actually changed.
func (s *CatalogService) UpdateProduct(ctx context.Context, in UpdateProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own products")
	}
	if product.IsSold {
		return nil, models.NewConflictError("Sold products cannot be edited")
	}

	oldData := map[string]interface{}{}
	newData := map[string]interface{}{}
	fields := map[string]interface{}{}

	// Only fields whose value actually changes make it into the update and
	// its history record.
	if in.Title != nil {
		if *in.Title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		if *in.Title != product.Title {
			oldData["title"], newData["title"] = product.Title, *in.Title
			fields["title"] = *in.Title
		}
	}
	if in.Description != nil {
		if *in.Description == "" {
			return nil, models.NewValidationError("Description cannot be empty")
		}
		if *in.Description != product.Description {
			oldData["description"], newData["description"] = product.Description, *in.Description
			fields["description"] = *in.Description
		}
	}
	if in.Category != nil && *in.Category != product.Category {
		oldData["category"], newData["category"] = product.Category, *in.Category
		fields["category"] = *in.Category
	}
	if in.ConditionDesc != nil && *in.ConditionDesc != product.ConditionDesc {
		oldData["condition_desc"], newData["condition_desc"] = product.ConditionDesc, *in.ConditionDesc
		fields["condition_desc"] = *in.ConditionDesc
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, models.NewValidationError("Price cannot be negative")
		}
		if *in.Price != product.Price {
			oldData["price"], newData["price"] = product.Price, *in.Price
			fields["price"] = *in.Price
		}
	}
	if in.Quantity != nil {
		if *in.Quantity < 1 {
			return nil, models.NewValidationError("Quantity must be at least 1")
		}
		if *in.Quantity != product.Quantity {
			oldData["quantity"], newData["quantity"] = product.Quantity, *in.Quantity
			fields["quantity"] = *in.Quantity
		}
	}
	if in.ImageURL != nil && *in.ImageURL != product.ImageURL {
		oldData["image_url"], newData["image_url"] = product.ImageURL, *in.ImageURL
		fields["image_url"] = *in.ImageURL
	}

	if len(fields) == 0 {
		return product, nil
	}

	if err := s.productRepo.UpdateFields(ctx, product.ID, fields); err != nil {
		return nil, err
	}

	oldJSON, _ := json.Marshal(oldData)
	newJSON, _ := json.Marshal(newData)
	record := &models.EditRecord{
		ProductID: product.ID,
		UserID:    in.UserID,
		OldData:   oldJSON,
		NewData:   newJSON,
	}
	if err := s.productRepo.CreateEditRecord(ctx, record); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct removes a listing and its dependent rows. Sold products are
// kept as part of the transaction record.
func (s *CatalogService) DeleteProduct(ctx context.Context, userID, productID uint) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.UserID != userID {
		return models.NewForbiddenError("You can only delete your own products")
	}
	if product.IsSold {
		return models.NewConflictError("Sold products cannot be deleted")
	}
	return s.productRepo.Delete(ctx, productID)
}

// GetEditHistory is owner-only; listings' change history is not public.
func (s *CatalogService) GetEditHistory(ctx context.Context, userID, productID uint) ([]models.EditRecord, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.UserID != userID {
		return nil, models.NewForbiddenError("You can only view the edit history of your own products")
	}
	return s.productRepo.ListEditRecords(ctx, productID)
}
