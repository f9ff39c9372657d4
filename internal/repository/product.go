package repository

import (
	"context"
	"errors"
	"strings"

	"bazaar/internal/cache"
	"bazaar/internal/models"

	"gorm.io/gorm"
)

// ProductFilter narrows a product listing query.
type ProductFilter struct {
	Category string
	Search   string
}

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*models.Product, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Product, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	CreateEditRecord(ctx context.Context, record *models.EditRecord) error
	ListEditRecords(ctx context.Context, productID uint) ([]models.EditRecord, error)
}

// productRepository implements ProductRepository
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// applyProductDetails adds subqueries fetching the owner username and like
// count in a single query.
func (r *productRepository) applyProductDetails(db *gorm.DB) *gorm.DB {
	return db.Select("products.*, " +
		"(SELECT username FROM users WHERE users.id = products.user_id) as username, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.product_id = products.id) as likes_count")
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID serves product details cache-aside. Every write path invalidates
// the product key, so a hit is never staler than the last write.
func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := cache.Aside(ctx, cache.ProductKey(id), cache.ProductTTL, func(ctx context.Context) (models.Product, error) {
		var p models.Product
		if err := r.applyProductDetails(r.db.WithContext(ctx)).First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return p, models.NewNotFoundError("Product", id)
			}
			return p, models.NewInternalError(err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*models.Product, error) {
	var products []*models.Product
	q := r.applyProductDetails(r.db.WithContext(ctx))

	if filter.Category != "" && filter.Category != "all" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	err := q.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return products, nil
}

func (r *productRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Product, error) {
	var products []*models.Product
	err := r.applyProductDetails(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return products, nil
}

// UpdateFields applies a partial update. The map keys are column names, so
// untouched fields keep their values.
func (r *productRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, id)
	return nil
}

func (r *productRepository) Save(ctx context.Context, product *models.Product) error {
	// Omit the query-time columns so Save does not try to write them
	if err := r.db.WithContext(ctx).Omit("username", "likes_count").Save(product).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, product.ID)
	return nil
}

// Delete removes the product and its dependent rows in one transaction.
// Notifications referencing the product are kept as history.
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Bid{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.EditRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, id)
	return nil
}

func (r *productRepository) CreateEditRecord(ctx context.Context, record *models.EditRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *productRepository) ListEditRecords(ctx context.Context, productID uint) ([]models.EditRecord, error) {
	var records []models.EditRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return records, nil
}
